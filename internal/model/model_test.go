package model

import (
	"reflect"
	"testing"
)

func TestParseKind(t *testing.T) {
	t.Parallel()

	for in, want := range map[string]Kind{
		"blogs":          KindBlogs,
		" Blog ":         KindBlogs,
		"projects":       KindProjects,
		"project":        KindProjects,
		"certifications": KindCertifications,
		"certs":          KindCertifications,
	} {
		got, err := ParseKind(in)
		if err != nil || got != want {
			t.Fatalf("ParseKind(%q) = %q, %v; want %q", in, got, err, want)
		}
	}
	if _, err := ParseKind("posts"); err == nil {
		t.Fatalf("expected error for unknown kind")
	}
}

func TestParseTags(t *testing.T) {
	t.Parallel()

	got := ParseTags(" go, TUI ,, go ,tui, cli ")
	want := []string{"go", "TUI", "cli"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("ParseTags = %v, want %v", got, want)
	}
	if got := ParseTags(""); got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil slice; got %#v", got)
	}
}

func TestEntryClone_SharesNothing(t *testing.T) {
	t.Parallel()

	p := 3
	e := Entry{ID: "a", Tags: []string{"x"}, TechStack: []string{"go"}, Priority: &p}
	c := e.Clone()
	c.Tags[0] = "changed"
	c.TechStack[0] = "changed"
	*c.Priority = 9

	if e.Tags[0] != "x" || e.TechStack[0] != "go" || *e.Priority != 3 {
		t.Fatalf("clone aliased the original: %+v", e)
	}
}

func TestPriorityOr(t *testing.T) {
	t.Parallel()

	p := 2
	if got := (Entry{Priority: &p}).PriorityOr(999); got != 2 {
		t.Fatalf("PriorityOr = %d, want 2", got)
	}
	if got := (Entry{}).PriorityOr(999); got != 999 {
		t.Fatalf("PriorityOr = %d, want 999", got)
	}
}

func TestDraftOverlay_KeepsIdentityAndOtherFields(t *testing.T) {
	t.Parallel()

	e := Entry{ID: "b1", Title: "Old", Slug: "old", Content: "body", Tags: []string{"a"}}
	d := DraftFrom(e)
	d.Title = "New"
	d.Tags = append(d.Tags, "b")

	out := d.Overlay(e)
	if out.ID != "b1" || out.Title != "New" || out.Content != "body" {
		t.Fatalf("unexpected overlay: %+v", out)
	}
	if len(e.Tags) != 1 || len(out.Tags) != 2 {
		t.Fatalf("overlay must not alias tags: e=%v out=%v", e.Tags, out.Tags)
	}
}

func TestSummary(t *testing.T) {
	t.Parallel()

	if got := (Entry{Excerpt: " hi ", Description: "d"}).Summary(); got != "hi" {
		t.Fatalf("Summary = %q", got)
	}
	if got := (Entry{Issuer: "AWS"}).Summary(); got != "AWS" {
		t.Fatalf("Summary = %q", got)
	}
	if got := (Entry{Slug: "s"}).Summary(); got != "s" {
		t.Fatalf("Summary = %q", got)
	}
}
