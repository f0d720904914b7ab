package ui

import (
	"strings"
	"testing"
)

func TestRenderFile(t *testing.T) {
	t.Run("keeps content and hides the fence", func(t *testing.T) {
		out, err := RenderFile("config.yaml", "listen: 8080\n", 80)
		if err != nil {
			t.Fatalf("RenderFile() error = %v", err)
		}
		if !strings.Contains(out, "listen") || !strings.Contains(out, "8080") {
			t.Fatalf("rendered output lost content: %q", out)
		}
		if strings.Contains(out, "```") {
			t.Fatalf("fence leaked into output: %q", out)
		}
	})

	t.Run("content with its own fence", func(t *testing.T) {
		out, err := RenderFile("README.md", "```sh\nmake\n```\n", 80)
		if err != nil {
			t.Fatalf("RenderFile() error = %v", err)
		}
		if !strings.Contains(out, "make") {
			t.Fatalf("rendered output lost content: %q", out)
		}
	})

	t.Run("single trailing newline", func(t *testing.T) {
		out, err := RenderFile("a.txt", "x", 0)
		if err != nil {
			t.Fatalf("RenderFile() error = %v", err)
		}
		if !strings.HasSuffix(out, "\n") || strings.HasSuffix(out, "\n\n") {
			t.Fatalf("expected exactly one trailing newline, got %q", out)
		}
	})
}

func TestConfigureMarkdownCodeTheme(t *testing.T) {
	orig := markdownCodeTheme
	t.Cleanup(func() {
		markdownCodeTheme = orig
	})

	tests := []struct {
		input string
		want  string
	}{
		{"dracula", "dracula"},
		{"  DrAcUlA ", "dracula"},
		{"not-a-real-theme", defaultCodeTheme},
		{"", defaultCodeTheme},
	}
	for _, tt := range tests {
		ConfigureMarkdownCodeTheme(tt.input)
		if markdownCodeTheme != tt.want {
			t.Errorf("ConfigureMarkdownCodeTheme(%q): theme = %q, want %q", tt.input, markdownCodeTheme, tt.want)
		}
		if got := markdownStyle().CodeBlock.Theme; got != tt.want {
			t.Errorf("ConfigureMarkdownCodeTheme(%q): style theme = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestMarkdownStyleUsesAccent(t *testing.T) {
	origAccent, origColor := Accent, accentColor
	t.Cleanup(func() {
		Accent, accentColor = origAccent, origColor
	})

	ConfigureTheme("#abc")
	if c := markdownStyle().Heading.Color; c == nil || *c != "#aabbcc" {
		t.Fatalf("heading color = %v, want #aabbcc", c)
	}

	ConfigureTheme("none")
	if c := markdownStyle().Heading.Color; c != nil {
		t.Fatalf("heading color = %q, want terminal default", *c)
	}
}
