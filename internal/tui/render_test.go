package tui

import (
	"os"
	"strings"
	"testing"

	"folio-cli/internal/model"

	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"
	"github.com/muesli/termenv"
)

func TestMain(m *testing.M) {
	// Deterministic, escape-free rendering regardless of the test runner's terminal.
	lipgloss.SetColorProfile(termenv.Ascii)
	os.Exit(m.Run())
}

func TestFitWidth(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in    string
		width int
		want  string
	}{
		{in: "hello", width: 8, want: "hello   "},
		{in: "hello", width: 5, want: "hello"},
		{in: "hello", width: 3, want: "he…"},
		{in: "hello", width: 1, want: "h"},
		{in: "hello", width: 0, want: ""},
		{in: "日本語", width: 4, want: "日… "},
	}
	for _, tc := range cases {
		if got := fitWidth(tc.in, tc.width); got != tc.want {
			t.Fatalf("fitWidth(%q, %d) = %q, want %q", tc.in, tc.width, got, tc.want)
		}
	}

	styled := "\x1b[1mbold text\x1b[0m"
	if got := xansi.StringWidth(fitWidth(styled, 6)); got != 6 {
		t.Fatalf("expected ANSI-aware truncation to 6 columns; got %d", got)
	}
}

func TestNormalizePane(t *testing.T) {
	t.Parallel()

	out := normalizePane("a\nbb\nccc\ndddd", 3, 2)
	if out != "a  \nbb " {
		t.Fatalf("unexpected pane: %q", out)
	}
	out = normalizePane("x", 2, 3)
	if strings.Count(out, "\n") != 2 {
		t.Fatalf("expected padding to 3 lines; got %q", out)
	}
}

func TestSplitWidths(t *testing.T) {
	t.Parallel()

	if l, p := splitWidths(80); l != 78 || p != 0 {
		t.Fatalf("narrow terminal: got %d/%d", l, p)
	}
	l, p := splitWidths(200)
	if l+p+splitGapW != maxContentW || p == 0 {
		t.Fatalf("wide terminal: got %d/%d", l, p)
	}
}

func TestSetAppearanceProfile(t *testing.T) {
	// Not parallel: appearance is process-wide.
	defer func() { _ = setAppearanceProfile("") }()

	if err := setAppearanceProfile("nope"); err == nil || !strings.Contains(err.Error(), "mono") {
		t.Fatalf("expected unknown profile error listing known profiles; got %v", err)
	}
	if err := setAppearanceProfile(" Mono "); err != nil {
		t.Fatalf("setAppearanceProfile: %v", err)
	}
	if appearanceProfile() != appearanceMono {
		t.Fatalf("expected mono profile; got %q", appearanceProfile())
	}
	if err := setAppearanceProfile(""); err != nil || appearanceProfile() != appearanceDefault {
		t.Fatalf("expected empty name to select default; got %q, %v", appearanceProfile(), err)
	}
}

func TestRenderEntryLine(t *testing.T) {
	t.Parallel()

	p := 2
	line := renderEntryLine(entryItem{
		entry:   model.Entry{Title: "Hello", Active: true, Featured: true, Priority: &p, Description: "desc"},
		draft:   true,
		pending: true,
	}, true, 60, true)

	for _, want := range []string{"●", "★", "  2", "Hello", "[editing]", "…", "desc"} {
		if !strings.Contains(line, want) {
			t.Fatalf("expected %q in %q", want, line)
		}
	}
	if w := xansi.StringWidth(line); w != 60 {
		t.Fatalf("expected row padded to 60 columns; got %d", w)
	}

	line = renderEntryLine(entryItem{entry: model.Entry{}}, false, 40, true)
	if !strings.Contains(line, "○") || !strings.Contains(line, "(untitled)") {
		t.Fatalf("unexpected inactive untitled row: %q", line)
	}
}

func TestPreviewMarkdown(t *testing.T) {
	t.Parallel()

	md := previewMarkdown(model.KindProjects, model.Entry{
		Description: "A CLI.",
		TechStack:   []string{"go", "sqlite"},
		GitHubURL:   "https://github.com/x/y",
	})
	for _, want := range []string{"A CLI.", "**Stack:** go, sqlite", "[Source](https://github.com/x/y)"} {
		if !strings.Contains(md, want) {
			t.Fatalf("expected %q in %q", want, md)
		}
	}
	if strings.Contains(md, "Live") {
		t.Fatalf("expected no Live link without a URL: %q", md)
	}

	md = previewMarkdown(model.KindBlogs, model.Entry{Excerpt: "short", Content: "# Body"})
	if !strings.HasPrefix(md, "> short") || !strings.HasSuffix(md, "# Body") {
		t.Fatalf("unexpected blog preview: %q", md)
	}

	md = previewMarkdown(model.KindCertifications, model.Entry{Issuer: "AWS", IssuedAt: "2024-01-02"})
	if md != "Issued by **AWS** on 2024-01-02" {
		t.Fatalf("unexpected certification preview: %q", md)
	}
}

func TestRenderMarkdown(t *testing.T) {
	t.Parallel()

	if got := renderMarkdown("   ", 40); got != "" {
		t.Fatalf("expected empty output for blank input; got %q", got)
	}
	out := xansi.Strip(renderMarkdown("# Heading\n\nSome *body* text.", 40))
	if !strings.Contains(out, "Heading") || !strings.Contains(out, "body") {
		t.Fatalf("unexpected markdown render: %q", out)
	}
}

func TestRenderConfirmModal(t *testing.T) {
	t.Parallel()

	out := renderConfirmModal(80, "Delete", "Delete blog \"x\"?", "Delete", "Cancel", confirmFocusCancel)
	for _, want := range []string{"Delete", "Cancel", "blog"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in modal: %q", want, out)
		}
	}
	if w := modalBodyWidth(200); w != 60 {
		t.Fatalf("modalBodyWidth(200) = %d, want 60", w)
	}
	if w := modalBodyWidth(10); w != 20 {
		t.Fatalf("modalBodyWidth(10) = %d, want 20", w)
	}
}
