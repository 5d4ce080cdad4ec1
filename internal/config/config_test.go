package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func writeFile(t *testing.T, name, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeFile(t, "config.yml", `
throttle: 10
wait_time: 30
shuffle_feeds: true
tag_journals: true
blacklist:
  - "badjournal\\.example\\.org"
  - "editorial"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := Config{
		Throttle:     10,
		WaitTime:     30,
		ShuffleFeeds: true,
		TagJournals:  true,
		Blacklist:    []string{`badjournal\.example\.org`, "editorial"},
	}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("Load() mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Throttle != 0 {
		t.Errorf("default throttle should be 0 (unlimited), got %d", cfg.Throttle)
	}
	if cfg.WaitTime != 5 {
		t.Errorf("default wait_time should be 5, got %d", cfg.WaitTime)
	}
	if cfg.ShuffleFeeds {
		t.Error("shuffle_feeds should default to off")
	}
}

func TestCompileBlacklist(t *testing.T) {
	cfg := Config{Blacklist: []string{`doi\.org/10\.9999`, "corrigendum"}}
	compiled, err := cfg.CompileBlacklist()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(compiled) != 2 {
		t.Fatalf("expected 2 patterns, got %d", len(compiled))
	}
	if !compiled[0].MatchString("https://doi.org/10.9999/abc") {
		t.Error("compiled pattern should match")
	}
}

func TestCompileBlacklist_BadPattern(t *testing.T) {
	cfg := Config{Blacklist: []string{"("}}
	if _, err := cfg.CompileBlacklist(); err == nil {
		t.Fatal("expected error for malformed pattern")
	}
}
