package publish

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"folio-cli/internal/apitest"
	"folio-cli/internal/model"
)

func intp(v int) *int { return &v }

func TestRenderEntryMarkdown_FrontMatterAndBody(t *testing.T) {
	t.Parallel()

	e := model.Entry{
		ID:        "b1",
		Title:     "Hello",
		Slug:      "hello",
		Tags:      []string{"go", "tui"},
		Active:    true,
		Excerpt:   "Short intro.",
		Content:   "Some **markdown**.",
		CreatedAt: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
	}
	md, err := RenderEntryMarkdown(model.KindBlogs, e)
	if err != nil {
		t.Fatalf("RenderEntryMarkdown: %v", err)
	}
	for _, want := range []string{"---\nid: b1\nkind: blogs\n", "title: Hello", "- tui", "2025-03-01T12:00:00Z", "# Hello", "Short intro.", "Some **markdown**."} {
		if !strings.Contains(md, want) {
			t.Fatalf("expected %q in markdown:\n%s", want, md)
		}
	}
}

func TestExport_PagesThroughEveryKind(t *testing.T) {
	t.Parallel()

	srv := apitest.New(t)
	var blogs []model.Entry
	for i := 0; i < 7; i++ {
		blogs = append(blogs, model.Entry{Title: "Post", Slug: "post", Active: true})
	}
	srv.Seed(model.KindBlogs, blogs...)
	srv.Seed(model.KindProjects,
		model.Entry{ID: "p1", Title: "Second", Slug: "second", Priority: intp(2)},
		model.Entry{ID: "p2", Title: "First [beta]", Slug: "first", Priority: intp(1), Featured: true},
	)
	c := srv.LoggedInClient(t)

	out := t.TempDir()
	res, err := Export(t.Context(), c, out, Options{PageSize: 3})
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	if res.Counts["blogs"] != 7 || res.Counts["projects"] != 2 || res.Counts["certifications"] != 0 {
		t.Fatalf("unexpected counts %v", res.Counts)
	}
	if _, err := os.Stat(filepath.Join(out, "blogs", "post-7.md")); err != nil {
		t.Fatalf("expected de-duplicated file names: %v", err)
	}

	idx, err := os.ReadFile(filepath.Join(out, "index.md"))
	if err != nil {
		t.Fatalf("read index.md: %v", err)
	}
	s := string(idx)
	first := strings.Index(s, "projects/first.md")
	second := strings.Index(s, "projects/second.md")
	if first < 0 || second < 0 || first > second {
		t.Fatalf("expected projects in priority order:\n%s", s)
	}

	page, err := os.ReadFile(filepath.Join(out, "index.html"))
	if err != nil {
		t.Fatalf("read index.html: %v", err)
	}
	if !strings.Contains(string(page), `<a href="projects/first.md">First [beta]</a>`) {
		t.Fatalf("expected rendered link in html:\n%s", page)
	}

	if _, err := Export(t.Context(), c, out, Options{}); err == nil {
		t.Fatalf("expected a second export without overwrite to fail")
	}
	if _, err := Export(t.Context(), c, out, Options{Overwrite: true, Kinds: []model.Kind{model.KindProjects}}); err != nil {
		t.Fatalf("Export overwrite: %v", err)
	}
}

func TestRenderHTMLPage_EscapesRawHTML(t *testing.T) {
	t.Parallel()

	page, err := RenderHTMLPage("T", "hello <script>alert(1)</script>")
	if err != nil {
		t.Fatalf("RenderHTMLPage: %v", err)
	}
	if strings.Contains(string(page), "<script>alert(1)</script>") {
		t.Fatalf("raw html must not pass through:\n%s", page)
	}
}
