package main

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// execute runs the CLI in-process with the given arguments.
func execute(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()

	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)

	err = cmd.Execute()
	return out.String(), errOut.String(), err
}

func TestUnknownFlagIsUsageError(t *testing.T) {
	_, stderr, err := execute(t, "--definitely-not-a-flag")
	if err == nil {
		t.Fatal("expected error for unknown flag")
	}
	if !strings.Contains(stderr, "unknown flag") {
		t.Errorf("expected usage error on stderr, got %q", stderr)
	}
}

func TestUnknownArgumentIsError(t *testing.T) {
	if _, _, err := execute(t, "spurious-argument"); err == nil {
		t.Fatal("expected error for unexpected argument")
	}
}

func TestVersionFlag(t *testing.T) {
	stdout, _, err := execute(t, "--version")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(stdout, "papersbot version") {
		t.Errorf("unexpected version output %q", stdout)
	}
}

func TestRun_MissingFeedListFails(t *testing.T) {
	dir := t.TempDir()
	_, _, err := execute(t,
		"--do-not-tweet",
		"--feeds", filepath.Join(dir, "absent.txt"),
		"--posted", filepath.Join(dir, "posted.dat"),
		"--config", filepath.Join(dir, "absent.yml"),
	)
	if err == nil {
		t.Fatal("expected error for missing feed list")
	}
}

func TestRun_DryRunEndToEnd(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		_, _ = w.Write([]byte(`<?xml version="1.0"?><rss version="2.0"><channel><title>T</title>
			<item><title>A porous MOF catalyst</title><guid>https://doi.org/10.1000/e2e</guid></item>
		</channel></rss>`))
	}))
	defer server.Close()

	dir := t.TempDir()
	feedsPath := filepath.Join(dir, "feeds.txt")
	if err := os.WriteFile(feedsPath, []byte(server.URL+"\n"), 0o644); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	configPath := filepath.Join(dir, "config.yml")
	if err := os.WriteFile(configPath, []byte("wait_time: 0\n"), 0o644); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	postedPath := filepath.Join(dir, "posted.dat")

	_, _, err := execute(t,
		"--do-not-tweet",
		"--feeds", feedsPath,
		"--posted", postedPath,
		"--config", configPath,
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// The dry run still records the entry, like the real run would.
	data, err := os.ReadFile(postedPath)
	if err != nil {
		t.Fatalf("posted log missing: %v", err)
	}
	if !strings.Contains(string(data), "https://doi.org/10.1000/e2e") {
		t.Errorf("posted log should contain the entry, got %q", string(data))
	}
}

func TestCheckActivity_FreshLog(t *testing.T) {
	postedPath := filepath.Join(t.TempDir(), "posted.dat")
	if err := os.WriteFile(postedPath, []byte("https://doi.org/10.1000/x\n"), 0o644); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	stdout, _, err := execute(t, "check-activity", "--posted", postedPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(stdout, "hours ago") {
		t.Errorf("expected age report, got %q", stdout)
	}
}

func TestCheckActivity_StaleLogFails(t *testing.T) {
	postedPath := filepath.Join(t.TempDir(), "posted.dat")
	if err := os.WriteFile(postedPath, []byte("x\n"), 0o644); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	old := time.Now().Add(-24 * time.Hour)
	if err := os.Chtimes(postedPath, old, old); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, _, err := execute(t, "check-activity", "--posted", postedPath); err == nil {
		t.Fatal("expected error for stale posted log")
	}
}

func TestCheckActivity_MissingLogFails(t *testing.T) {
	postedPath := filepath.Join(t.TempDir(), "absent.dat")
	if _, _, err := execute(t, "check-activity", "--posted", postedPath); err == nil {
		t.Fatal("expected error for missing posted log")
	}
}
