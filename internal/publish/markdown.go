package publish

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"folio-cli/internal/model"

	"gopkg.in/yaml.v3"
)

type frontMatter struct {
	ID            string   `yaml:"id"`
	Kind          string   `yaml:"kind"`
	Title         string   `yaml:"title"`
	Slug          string   `yaml:"slug,omitempty"`
	Tags          []string `yaml:"tags,omitempty"`
	Active        bool     `yaml:"active"`
	Featured      bool     `yaml:"featured"`
	Priority      *int     `yaml:"priority,omitempty"`
	TechStack     []string `yaml:"techStack,omitempty"`
	GitHubURL     string   `yaml:"githubUrl,omitempty"`
	LiveURL       string   `yaml:"liveUrl,omitempty"`
	Image         string   `yaml:"image,omitempty"`
	CoverImage    string   `yaml:"coverImage,omitempty"`
	Issuer        string   `yaml:"issuer,omitempty"`
	IssuedAt      string   `yaml:"issuedAt,omitempty"`
	CredentialURL string   `yaml:"credentialUrl,omitempty"`
	CreatedAt     string   `yaml:"createdAt,omitempty"`
	UpdatedAt     string   `yaml:"updatedAt,omitempty"`
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

// RenderEntryMarkdown renders one entry as a markdown document with YAML front matter.
func RenderEntryMarkdown(kind model.Kind, e model.Entry) (string, error) {
	fm := frontMatter{
		ID:            e.ID,
		Kind:          string(kind),
		Title:         strings.TrimSpace(e.Title),
		Slug:          e.Slug,
		Tags:          e.Tags,
		Active:        e.Active,
		Featured:      e.Featured,
		Priority:      e.Priority,
		TechStack:     e.TechStack,
		GitHubURL:     e.GitHubURL,
		LiveURL:       e.LiveURL,
		Image:         e.Image,
		CoverImage:    e.CoverImage,
		Issuer:        e.Issuer,
		IssuedAt:      e.IssuedAt,
		CredentialURL: e.CredentialURL,
		CreatedAt:     formatTime(e.CreatedAt),
		UpdatedAt:     formatTime(e.UpdatedAt),
	}
	head, err := yaml.Marshal(fm)
	if err != nil {
		return "", fmt.Errorf("front matter: %w", err)
	}

	var buf bytes.Buffer
	writeLn := func(s string) {
		buf.WriteString(s)
		buf.WriteString("\n")
	}

	writeLn("---")
	buf.Write(head)
	writeLn("---")
	writeLn("")
	writeLn("# " + fm.Title)
	writeLn("")
	for _, s := range []string{e.Excerpt, e.Description} {
		if s = strings.TrimSpace(s); s != "" {
			writeLn(s)
			writeLn("")
		}
	}
	if body := strings.TrimSpace(e.Content); body != "" {
		writeLn(body)
	}
	return strings.TrimRight(buf.String(), "\n") + "\n", nil
}

// Section is one collection in the export index.
type Section struct {
	Kind    model.Kind
	Entries []model.Entry
	Files   map[string]string // entry id -> path relative to the export root
}

// RenderIndexMarkdown lists every exported entry, grouped by collection.
func RenderIndexMarkdown(sections []Section) string {
	var buf bytes.Buffer
	buf.WriteString("# Portfolio export\n")
	for _, s := range sections {
		fmt.Fprintf(&buf, "\n## %s (%d)\n\n", s.Kind.Label(), len(s.Entries))
		if len(s.Entries) == 0 {
			buf.WriteString("_Nothing here yet._\n")
			continue
		}
		for _, e := range s.Entries {
			flags := []string{}
			if !e.Active {
				flags = append(flags, "inactive")
			}
			if e.Featured {
				flags = append(flags, "featured")
			}
			line := fmt.Sprintf("- [%s](%s)", escapeLinkText(e.Title), s.Files[e.ID])
			if len(flags) > 0 {
				line += " · " + strings.Join(flags, ", ")
			}
			buf.WriteString(line + "\n")
		}
	}
	return buf.String()
}

func escapeLinkText(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "(untitled)"
	}
	r := strings.NewReplacer("[", `\[`, "]", `\]`)
	return r.Replace(s)
}
