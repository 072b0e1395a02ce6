package prompt

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writePrompt(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "prompt.md")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadDefault(t *testing.T) {
	got, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got != Default {
		t.Error("empty path should return the built-in prompt")
	}
	if !strings.Contains(got, "Information not available in current data.") {
		t.Error("default prompt missing missing-data fallback")
	}
	if !strings.Contains(got, "Your question is out of my domain. Please ask questions about the product.") {
		t.Error("default prompt missing out-of-scope fallback")
	}
	if !strings.Contains(got, `"directResponse": true`) {
		t.Error("default prompt missing direct-response instruction")
	}
}

func TestLoadPlainFile(t *testing.T) {
	path := writePrompt(t, "You are a terse assistant.\nAnswer from context only.\n")

	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got != "You are a terse assistant.\nAnswer from context only." {
		t.Errorf("got %q", got)
	}
}

func TestLoadFencedMarkdown(t *testing.T) {
	path := writePrompt(t, `# System prompt

Some commentary for editors.

`+"```text\nYou are a terse assistant.\n```"+`

Trailing notes.
`)

	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got != "You are a terse assistant." {
		t.Errorf("got %q", got)
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.md")); err == nil {
		t.Error("expected error for missing file")
	}

	empty := writePrompt(t, "   \n")
	if _, err := Load(empty); err == nil {
		t.Error("expected error for empty prompt")
	}
}
