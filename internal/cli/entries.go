package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"

	"folio-cli/internal/api"
	"folio-cli/internal/listctl"
	"folio-cli/internal/model"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

type fieldType int

const (
	fieldText fieldType = iota
	fieldList
	fieldBool
	fieldInt
)

// entryField maps a command-line flag onto a JSON field of the request body.
type entryField struct {
	flag  string
	key   string
	typ   fieldType
	usage string
	// kinds limits the flag to some collections; nil means every collection.
	kinds []model.Kind
}

var entryFields = []entryField{
	{flag: "title", key: "title", typ: fieldText, usage: "Title"},
	{flag: "slug", key: "slug", typ: fieldText, usage: "URL slug"},
	{flag: "tags", key: "tags", typ: fieldList, usage: "Comma separated tags"},
	{flag: "active", key: "active", typ: fieldBool, usage: "Visible on the public site"},
	{flag: "featured", key: "featured", typ: fieldBool, usage: "Highlighted on the public site"},

	{flag: "excerpt", key: "excerpt", typ: fieldText, usage: "Short summary", kinds: []model.Kind{model.KindBlogs}},
	{flag: "content", key: "content", typ: fieldText, usage: "Markdown body (@file reads a file)", kinds: []model.Kind{model.KindBlogs}},
	{flag: "cover-image", key: "coverImage", typ: fieldText, usage: "Cover image URL", kinds: []model.Kind{model.KindBlogs}},

	{flag: "description", key: "description", typ: fieldText, usage: "Description", kinds: []model.Kind{model.KindProjects, model.KindCertifications}},
	{flag: "tech-stack", key: "techStack", typ: fieldList, usage: "Comma separated technologies", kinds: []model.Kind{model.KindProjects}},
	{flag: "github-url", key: "githubUrl", typ: fieldText, usage: "Source repository URL", kinds: []model.Kind{model.KindProjects}},
	{flag: "live-url", key: "liveUrl", typ: fieldText, usage: "Live site URL", kinds: []model.Kind{model.KindProjects}},
	{flag: "image", key: "image", typ: fieldText, usage: "Image URL", kinds: []model.Kind{model.KindProjects}},
	{flag: "priority", key: "priority", typ: fieldInt, usage: "Display order (lower first)", kinds: []model.Kind{model.KindProjects}},

	{flag: "issuer", key: "issuer", typ: fieldText, usage: "Issuing organization", kinds: []model.Kind{model.KindCertifications}},
	{flag: "issued-at", key: "issuedAt", typ: fieldText, usage: "Issue date (YYYY-MM-DD)", kinds: []model.Kind{model.KindCertifications}},
	{flag: "credential-url", key: "credentialUrl", typ: fieldText, usage: "Credential URL", kinds: []model.Kind{model.KindCertifications}},
}

func fieldsFor(kind model.Kind) []entryField {
	out := make([]entryField, 0, len(entryFields))
	for _, f := range entryFields {
		if f.kinds == nil || slices.Contains(f.kinds, kind) {
			out = append(out, f)
		}
	}
	return out
}

func addEntryFlags(fs *pflag.FlagSet, kind model.Kind) {
	for _, f := range fieldsFor(kind) {
		switch f.typ {
		case fieldBool:
			fs.Bool(f.flag, false, f.usage)
		case fieldInt:
			fs.Int(f.flag, 0, f.usage)
		default:
			fs.String(f.flag, "", f.usage)
		}
	}
}

// entryBody collects the flags that were set on the command line into a request body.
func entryBody(fs *pflag.FlagSet, kind model.Kind) (map[string]any, error) {
	body := map[string]any{}
	for _, f := range fieldsFor(kind) {
		if !fs.Changed(f.flag) {
			continue
		}
		switch f.typ {
		case fieldBool:
			v, err := fs.GetBool(f.flag)
			if err != nil {
				return nil, err
			}
			body[f.key] = v
		case fieldInt:
			v, err := fs.GetInt(f.flag)
			if err != nil {
				return nil, err
			}
			body[f.key] = v
		case fieldList:
			v, err := fs.GetString(f.flag)
			if err != nil {
				return nil, err
			}
			body[f.key] = model.ParseTags(v)
		default:
			v, err := fs.GetString(f.flag)
			if err != nil {
				return nil, err
			}
			if v, err = expandFileArg(v); err != nil {
				return nil, fmt.Errorf("--%s: %w", f.flag, err)
			}
			body[f.key] = v
		}
	}
	return body, nil
}

func newEntriesCmd(app *App, kind model.Kind) *cobra.Command {
	cmd := &cobra.Command{
		Use:   string(kind),
		Short: kind.Label() + " commands",
	}
	cmd.AddCommand(newEntriesListCmd(app, kind))
	cmd.AddCommand(newEntriesGetCmd(app, kind))
	cmd.AddCommand(newEntriesCreateCmd(app, kind))
	cmd.AddCommand(newEntriesUpdateCmd(app, kind))
	cmd.AddCommand(newEntriesToggleCmd(app, kind))
	cmd.AddCommand(newEntriesDeleteCmd(app, kind))
	return cmd
}

func newEntriesListCmd(app *App, kind model.Kind) *cobra.Command {
	var page int
	var limit int
	var query string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List " + string(kind) + " (one page)",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := app.connect(ctx); err != nil {
				return writeErr(cmd, err)
			}
			defer app.close()

			if limit <= 0 {
				limit = app.cfg.PageSize
			}
			if limit <= 0 {
				limit = listctl.DefaultPageSize
			}
			if page < 1 {
				page = 1
			}
			res, err := app.client.List(ctx, kind, api.ListParams{Page: page, Limit: limit, Query: strings.TrimSpace(query)})
			if err != nil {
				return writeErr(cmd, apiErr(err, "", ""))
			}
			return writeOut(cmd, app, map[string]any{
				"data": res.Items,
				"meta": map[string]any{
					"page":       page,
					"limit":      limit,
					"total":      res.Total,
					"totalPages": listctl.TotalPages(res.Total, limit),
					"hasNext":    listctl.CanNext(page, res.Total, limit),
					"hasPrev":    listctl.CanPrev(page),
				},
			})
		},
	}

	cmd.Flags().IntVar(&page, "page", 1, "Page number (1-based)")
	cmd.Flags().IntVar(&limit, "limit", 0, "Page size (default: pageSize from config, else 10)")
	cmd.Flags().StringVar(&query, "query", "", "Search text")
	return cmd
}

func newEntriesGetCmd(app *App, kind model.Kind) *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show one " + kind.Singular(),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := app.connect(ctx); err != nil {
				return writeErr(cmd, err)
			}
			defer app.close()
			e, err := app.client.Get(ctx, kind, args[0])
			if err != nil {
				return writeErr(cmd, apiErr(err, kind.Singular(), args[0]))
			}
			return writeOut(cmd, app, map[string]any{"data": e})
		},
	}
}

func newEntriesCreateCmd(app *App, kind model.Kind) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a " + kind.Singular(),
		RunE: func(cmd *cobra.Command, args []string) error {
			body, err := entryBody(cmd.Flags(), kind)
			if err != nil {
				return writeErr(cmd, err)
			}
			if title, _ := body["title"].(string); strings.TrimSpace(title) == "" {
				return writeErr(cmd, errors.New("missing --title"))
			}

			ctx := cmd.Context()
			if err := app.connect(ctx); err != nil {
				return writeErr(cmd, err)
			}
			defer app.close()
			e, err := app.client.Create(ctx, kind, body)
			if err != nil {
				return writeErr(cmd, apiErr(err, "", ""))
			}
			app.record(ctx, model.Event{Type: "entry.create", Kind: kind, EntityID: e.ID, Payload: body})
			return writeOut(cmd, app, map[string]any{"data": e})
		},
	}
	addEntryFlags(cmd.Flags(), kind)
	return cmd
}

func newEntriesUpdateCmd(app *App, kind model.Kind) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a " + kind.Singular() + " (only the flags you pass are sent)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]
			body, err := entryBody(cmd.Flags(), kind)
			if err != nil {
				return writeErr(cmd, err)
			}
			if len(body) == 0 {
				return writeErr(cmd, errors.New("nothing to update; pass at least one field flag"))
			}

			ctx := cmd.Context()
			if err := app.connect(ctx); err != nil {
				return writeErr(cmd, err)
			}
			defer app.close()
			if err := app.client.Update(ctx, kind, id, body); err != nil {
				return writeErr(cmd, apiErr(err, kind.Singular(), id))
			}
			app.record(ctx, model.Event{Type: "entry.update", Kind: kind, EntityID: id, Payload: body})
			e, err := app.client.Get(ctx, kind, id)
			if err != nil {
				return writeErr(cmd, apiErr(err, kind.Singular(), id))
			}
			return writeOut(cmd, app, map[string]any{"data": e})
		},
	}
	addEntryFlags(cmd.Flags(), kind)
	return cmd
}

func newEntriesToggleCmd(app *App, kind model.Kind) *cobra.Command {
	var field string
	var value string

	cmd := &cobra.Command{
		Use:   "toggle <id>",
		Short: "Flip active or featured on a " + kind.Singular(),
		Long: strings.TrimSpace(`
Flip a boolean flag. Without --value the current value is read first and inverted.
Only the flag itself is sent to the server.
`),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]
			field = strings.ToLower(strings.TrimSpace(field))
			if field != listctl.FieldActive && field != listctl.FieldFeatured {
				return writeErr(cmd, fmt.Errorf("invalid --field %q (expected active|featured)", field))
			}

			ctx := cmd.Context()
			if err := app.connect(ctx); err != nil {
				return writeErr(cmd, err)
			}
			defer app.close()

			e, err := app.client.Get(ctx, kind, id)
			if err != nil {
				return writeErr(cmd, apiErr(err, kind.Singular(), id))
			}
			view := listctl.View{Items: []model.Entry{e}, Total: 1}
			cur, err := listctl.FlagValue(view, id, field)
			if err != nil {
				return writeErr(cmd, err)
			}
			next := !cur
			if strings.TrimSpace(value) != "" {
				if next, err = strconv.ParseBool(strings.TrimSpace(value)); err != nil {
					return writeErr(cmd, fmt.Errorf("invalid --value %q: %w", value, err))
				}
			}

			after, err := listctl.Run(ctx, view, listctl.ToggleCommand(id, field, next, func(ctx context.Context) error {
				return app.client.SetFlag(ctx, kind, id, field, next)
			}))
			if err != nil {
				return writeErr(cmd, apiErr(err, kind.Singular(), id))
			}
			app.record(ctx, model.Event{Type: "entry.toggle", Kind: kind, EntityID: id, Payload: map[string]any{field: next}})
			return writeOut(cmd, app, map[string]any{
				"data": after.Items[0],
				"meta": map[string]any{"field": field, "from": cur, "to": next},
			})
		},
	}

	cmd.Flags().StringVar(&field, "field", listctl.FieldActive, "Flag to change (active|featured)")
	cmd.Flags().StringVar(&value, "value", "", "Set an explicit value (true|false) instead of flipping")
	return cmd
}

func newEntriesDeleteCmd(app *App, kind model.Kind) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a " + kind.Singular(),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]
			ctx := cmd.Context()
			if err := app.connect(ctx); err != nil {
				return writeErr(cmd, err)
			}
			defer app.close()
			if err := app.client.Delete(ctx, kind, id); err != nil {
				return writeErr(cmd, apiErr(err, kind.Singular(), id))
			}
			app.record(ctx, model.Event{Type: "entry.delete", Kind: kind, EntityID: id})
			return writeOut(cmd, app, map[string]any{"data": map[string]any{"id": id, "deleted": true}})
		},
	}
}

// expandFileArg reads "@path" values from disk.
func expandFileArg(v string) (string, error) {
	if !strings.HasPrefix(v, "@") || len(v) == 1 {
		return v, nil
	}
	b, err := os.ReadFile(v[1:])
	if err != nil {
		return "", err
	}
	return string(b), nil
}
