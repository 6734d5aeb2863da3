package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestRenderCommandReadsStdin(t *testing.T) {
	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetIn(strings.NewReader(exampleApplicationJSON))
	cmd.SetArgs([]string{"render"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("render failed: %v", err)
	}

	got := out.String()
	if !strings.HasPrefix(got, "Subject: Rex - Adoption Application from Jo\n\n<b>Name:</b><br/>Jo<br/>") {
		t.Errorf("unexpected output: %q", got)
	}
	if !strings.Contains(got, "<b>Good with kids:</b><br/>Yes<br/>") {
		t.Errorf("expected checkbox fragment, got %q", got)
	}
}

func TestRenderCommandReadsFileAsText(t *testing.T) {
	path := filepath.Join(t.TempDir(), "submission.json")
	if err := os.WriteFile(path, []byte(exampleApplicationJSON), 0o600); err != nil {
		t.Fatal(err)
	}

	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"render", "--text", path})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("render failed: %v", err)
	}
	if !strings.Contains(out.String(), "Good with kids: Yes") {
		t.Errorf("unexpected output: %q", out.String())
	}
}

func TestRenderCommandRejectsInvalidJSON(t *testing.T) {
	cmd := newRootCommand()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetIn(strings.NewReader("[1,2]"))
	cmd.SetArgs([]string{"render"})

	if err := cmd.Execute(); err == nil {
		t.Fatal("expected error for non-object submission")
	}
}
