package model

import (
	"fmt"
	"strings"
	"time"
)

type Kind string

const (
	KindBlogs          Kind = "blogs"
	KindProjects       Kind = "projects"
	KindCertifications Kind = "certifications"
)

// Kinds lists every entity collection in display order.
var Kinds = []Kind{KindBlogs, KindProjects, KindCertifications}

func ParseKind(s string) (Kind, error) {
	switch Kind(strings.ToLower(strings.TrimSpace(s))) {
	case KindBlogs, "blog":
		return KindBlogs, nil
	case KindProjects, "project":
		return KindProjects, nil
	case KindCertifications, "certification", "certs":
		return KindCertifications, nil
	default:
		return "", fmt.Errorf("unknown kind: %q (expected blogs|projects|certifications)", s)
	}
}

// Label is the human-facing tab name.
func (k Kind) Label() string {
	switch k {
	case KindBlogs:
		return "Blogs"
	case KindProjects:
		return "Projects"
	case KindCertifications:
		return "Certifications"
	default:
		return string(k)
	}
}

// Singular is used in notifications ("Blog saved").
func (k Kind) Singular() string {
	switch k {
	case KindBlogs:
		return "blog"
	case KindProjects:
		return "project"
	case KindCertifications:
		return "certification"
	default:
		return "entry"
	}
}

// Reorderable reports whether the collection carries a server-side priority order.
func (k Kind) Reorderable() bool { return k == KindProjects }

// Entry is a blog, project, or certification as returned by the portfolio API.
// The server is authoritative for every field; the client never changes ID.
type Entry struct {
	ID       string   `json:"id"`
	Title    string   `json:"title"`
	Slug     string   `json:"slug"`
	Tags     []string `json:"tags,omitempty"`
	Active   bool     `json:"active"`
	Featured bool     `json:"featured"`
	Priority *int     `json:"priority,omitempty"`

	// Blog fields.
	Excerpt    string `json:"excerpt,omitempty"`
	Content    string `json:"content,omitempty"`
	CoverImage string `json:"coverImage,omitempty"`

	// Project fields.
	Description string   `json:"description,omitempty"`
	TechStack   []string `json:"techStack,omitempty"`
	GitHubURL   string   `json:"githubUrl,omitempty"`
	LiveURL     string   `json:"liveUrl,omitempty"`
	Image       string   `json:"image,omitempty"`

	// Certification fields.
	Issuer        string `json:"issuer,omitempty"`
	IssuedAt      string `json:"issuedAt,omitempty"`
	CredentialURL string `json:"credentialUrl,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// PriorityOr returns the entry priority, or def when the server has none.
func (e Entry) PriorityOr(def int) int {
	if e.Priority == nil {
		return def
	}
	return *e.Priority
}

// Summary is the one-line secondary text for list rows.
func (e Entry) Summary() string {
	for _, s := range []string{e.Excerpt, e.Description, e.Issuer} {
		if s = strings.TrimSpace(s); s != "" {
			return s
		}
	}
	return e.Slug
}

// Clone returns a copy that shares no slices or pointers with e.
func (e Entry) Clone() Entry {
	out := e
	if e.Tags != nil {
		out.Tags = append([]string{}, e.Tags...)
	}
	if e.TechStack != nil {
		out.TechStack = append([]string{}, e.TechStack...)
	}
	if e.Priority != nil {
		p := *e.Priority
		out.Priority = &p
	}
	return out
}

// Draft holds the quick-edit fields of one entry. It is sent whole as the PUT body.
type Draft struct {
	Title       string   `json:"title"`
	Slug        string   `json:"slug"`
	Tags        []string `json:"tags"`
	Active      bool     `json:"active"`
	Featured    bool     `json:"featured"`
	Excerpt     string   `json:"excerpt,omitempty"`
	Description string   `json:"description,omitempty"`
}

func DraftFrom(e Entry) Draft {
	return Draft{
		Title:       e.Title,
		Slug:        e.Slug,
		Tags:        append([]string{}, e.Tags...),
		Active:      e.Active,
		Featured:    e.Featured,
		Excerpt:     e.Excerpt,
		Description: e.Description,
	}
}

// Overlay returns e with the draft fields applied.
func (d Draft) Overlay(e Entry) Entry {
	out := e.Clone()
	out.Title = d.Title
	out.Slug = d.Slug
	out.Tags = append([]string{}, d.Tags...)
	out.Active = d.Active
	out.Featured = d.Featured
	out.Excerpt = d.Excerpt
	out.Description = d.Description
	return out
}

// ListPage is one window over a server collection.
type ListPage struct {
	Items []Entry `json:"items"`
	Total int     `json:"total"`
}

type PriorityUpdate struct {
	ID       string `json:"id"`
	Priority int    `json:"priority"`
}

type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

// Event is one mutation performed by this client, kept in the local log.
type Event struct {
	ID       string    `json:"id"`
	TS       time.Time `json:"ts"`
	Type     string    `json:"type"`
	Kind     Kind      `json:"kind,omitempty"`
	EntityID string    `json:"entityId,omitempty"`
	Payload  any       `json:"payload,omitempty"`
}

// ParseTags splits a comma separated tag list, dropping blanks and duplicates.
func ParseTags(s string) []string {
	out := []string{}
	seen := map[string]bool{}
	for _, part := range strings.Split(s, ",") {
		t := strings.TrimSpace(part)
		if t == "" || seen[strings.ToLower(t)] {
			continue
		}
		seen[strings.ToLower(t)] = true
		out = append(out, t)
	}
	return out
}
