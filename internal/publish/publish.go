// Package publish exports the portfolio collections to a directory of markdown files
// plus an HTML index.
package publish

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"folio-cli/internal/api"
	"folio-cli/internal/listctl"
	"folio-cli/internal/model"
)

// Lister is the part of the API client Export needs.
type Lister interface {
	List(ctx context.Context, kind model.Kind, p api.ListParams) (model.ListPage, error)
}

type Options struct {
	Kinds     []model.Kind
	PageSize  int
	Overwrite bool
}

type Result struct {
	Written []string       `json:"written"`
	Counts  map[string]int `json:"counts"`
}

// maxPages bounds paging against a server whose total keeps growing.
const maxPages = 1000

// Export pages through every requested collection and writes <dir>/<kind>/<slug>.md for each
// entry, plus <dir>/index.md and <dir>/index.html.
func Export(ctx context.Context, src Lister, dir string, opt Options) (Result, error) {
	if src == nil {
		return Result{}, errors.New("missing api client")
	}
	dir = strings.TrimSpace(dir)
	if dir == "" {
		return Result{}, errors.New("missing --out")
	}
	dir = filepath.Clean(dir)
	kinds := opt.Kinds
	if len(kinds) == 0 {
		kinds = model.Kinds
	}

	res := Result{Written: []string{}, Counts: map[string]int{}}
	sections := make([]Section, 0, len(kinds))
	for _, kind := range kinds {
		entries, err := FetchAll(ctx, src, kind, opt.PageSize)
		if err != nil {
			return Result{}, fmt.Errorf("export %s: %w", kind, err)
		}
		if kind.Reorderable() {
			listctl.SortByPriority(entries)
		}
		kindDir := filepath.Join(dir, string(kind))
		if err := os.MkdirAll(kindDir, 0o755); err != nil {
			return Result{}, err
		}
		sec := Section{Kind: kind, Entries: entries, Files: map[string]string{}}
		used := map[string]bool{}
		for _, e := range entries {
			md, err := RenderEntryMarkdown(kind, e)
			if err != nil {
				return Result{}, err
			}
			name := uniqueName(fileStem(e), used) + ".md"
			p := filepath.Join(kindDir, name)
			if err := writeFile(p, []byte(md), opt.Overwrite); err != nil {
				return Result{}, err
			}
			sec.Files[e.ID] = string(kind) + "/" + name
			res.Written = append(res.Written, p)
		}
		res.Counts[string(kind)] = len(entries)
		sections = append(sections, sec)
	}

	indexMD := RenderIndexMarkdown(sections)
	mdPath := filepath.Join(dir, "index.md")
	if err := writeFile(mdPath, []byte(indexMD), opt.Overwrite); err != nil {
		return Result{}, err
	}
	page, err := RenderHTMLPage("Portfolio export", indexMD)
	if err != nil {
		return Result{}, err
	}
	htmlPath := filepath.Join(dir, "index.html")
	if err := writeFile(htmlPath, page, opt.Overwrite); err != nil {
		return Result{}, err
	}
	res.Written = append(res.Written, mdPath, htmlPath)
	return res, nil
}

// FetchAll pages through a whole collection.
func FetchAll(ctx context.Context, src Lister, kind model.Kind, pageSize int) ([]model.Entry, error) {
	if pageSize <= 0 {
		pageSize = 50
	}
	out := []model.Entry{}
	for page := 1; page <= maxPages; page++ {
		p, err := src.List(ctx, kind, api.ListParams{Page: page, Limit: pageSize})
		if err != nil {
			return nil, err
		}
		out = append(out, p.Items...)
		if len(p.Items) == 0 || len(out) >= p.Total || !listctl.CanNext(page, p.Total, pageSize) {
			break
		}
	}
	return out, nil
}

var unsafeName = regexp.MustCompile(`[^a-z0-9._-]+`)

func fileStem(e model.Entry) string {
	for _, s := range []string{e.Slug, e.Title, e.ID} {
		s = strings.Trim(unsafeName.ReplaceAllString(strings.ToLower(strings.TrimSpace(s)), "-"), "-.")
		if s != "" {
			return s
		}
	}
	return "entry"
}

func uniqueName(stem string, used map[string]bool) string {
	name := stem
	for i := 2; used[name]; i++ {
		name = fmt.Sprintf("%s-%d", stem, i)
	}
	used[name] = true
	return name
}

func writeFile(path string, b []byte, overwrite bool) error {
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return errors.New("file exists (use --overwrite): " + path)
		}
	}
	return os.WriteFile(path, b, 0o644)
}
