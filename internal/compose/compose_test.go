package compose

import (
	"errors"
	"strings"
	"testing"

	"github.com/mmcdole/gofeed"
)

func TestCompose_ShortTitle(t *testing.T) {
	item := &gofeed.Item{GUID: "https://doi.org/10.1000/xyz123"}

	got, err := ForTwitter().Compose("A short title", item)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "A short title https://doi.org/10.1000/xyz123"
	if got != want {
		t.Errorf("Compose() = %q, want %q", got, want)
	}
}

func TestCompose_TruncatesLongTitleToBudget(t *testing.T) {
	c := ForTwitter() // 280 total - 24 URL - 25 image - 1 space = 230 for the title
	item := &gofeed.Item{GUID: "https://doi.org/10.1000/xyz123"}
	title := strings.Repeat("a", 400)

	got, err := c.Compose(title, item)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := strings.Repeat("a", 230) + " " + item.GUID
	if got != want {
		t.Errorf("Compose() = %q, want %q", got, want)
	}
}

func TestCompose_TruncationIsRuneSafe(t *testing.T) {
	c := Composer{MaxLength: 60, URLLength: 24, ImageLength: 25}
	item := &gofeed.Item{GUID: "https://doi.org/10.1000/x"}
	title := strings.Repeat("é", 40) // multibyte

	got, err := c.Compose(title, item)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := strings.Repeat("é", 10) + " " + item.GUID
	if got != want {
		t.Errorf("Compose() = %q, want %q", got, want)
	}
}

func TestCompose_PrefersGUIDOverLink(t *testing.T) {
	item := &gofeed.Item{
		GUID: "https://doi.org/10.1000/guid",
		Link: "https://journal.example.org/link",
	}
	got, err := ForTwitter().Compose("Title", item)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasSuffix(got, " https://doi.org/10.1000/guid") {
		t.Errorf("expected GUID as trailing URL, got %q", got)
	}
}

func TestCompose_FallsBackToLink(t *testing.T) {
	item := &gofeed.Item{
		GUID: "urn:uuid:not-a-web-url",
		Link: "https://journal.example.org/article/7",
	}
	got, err := ForTwitter().Compose("Title", item)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasSuffix(got, " https://journal.example.org/article/7") {
		t.Errorf("expected link as trailing URL, got %q", got)
	}
}

func TestCompose_NoUsableURL(t *testing.T) {
	item := &gofeed.Item{GUID: "oai:arXiv.org:1903.00279", Link: "not a url"}
	_, err := ForTwitter().Compose("Title", item)
	if !errors.Is(err, ErrNoUsableURL) {
		t.Fatalf("expected ErrNoUsableURL, got %v", err)
	}
}

func TestCompose_TagJournals(t *testing.T) {
	c := ForTwitter()
	c.TagJournals = true
	item := &gofeed.Item{GUID: "https://doi.org/10.1021/jacs.9b01234"}

	got, err := c.Compose("Framework chemistry", item)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "Framework chemistry @J_A_C_S https://doi.org/10.1021/jacs.9b01234"
	if got != want {
		t.Errorf("Compose() = %q, want %q", got, want)
	}
}

func TestCompose_TagJournalsShrinksBudget(t *testing.T) {
	c := ForTwitter()
	c.TagJournals = true
	item := &gofeed.Item{GUID: "https://doi.org/10.1021/jacs.9b01234"}
	title := strings.Repeat("a", 400)

	got, err := c.Compose(title, item)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// 230 minus len("J_A_C_S")+2 leaves 221 characters for the title.
	want := strings.Repeat("a", 221) + " @J_A_C_S https://doi.org/10.1021/jacs.9b01234"
	if got != want {
		t.Errorf("Compose() = %q, want %q", got, want)
	}
}

func TestJournalHandle(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"https://doi.org/10.1021/jacs.9b01234", "J_A_C_S"},
		{"https://doi.org/10.1021/acs.jpcc.9b00123", "JPhysChem"},
		{"https://pubs.rsc.org/en/Content/ArticleLanding/2019/SC/C9SC00123A", "ChemicalScience"},
		{"https://www.nature.com/articles/s41557-019-0123-4", "NatureChemistry"},
		{"https://onlinelibrary.wiley.com/doi/abs/10.1002/anie.201900123", "angew_chem"},
		{"https://link.aps.org/doi/10.1103/PhysRevLett.122.123456", "PhysRevLett"},
		{"https://chemrxiv.org/articles/12345", "chemRxiv"},
		{"https://unknown.example.org/paper/1", ""},
	}
	for _, tt := range tests {
		if got := JournalHandle(tt.url); got != tt.want {
			t.Errorf("JournalHandle(%q) = %q, want %q", tt.url, got, tt.want)
		}
	}
}
