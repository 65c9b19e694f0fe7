package cli

import (
	"errors"
	"strings"

	"folio-cli/internal/model"
	"folio-cli/internal/publish"

	"github.com/spf13/cobra"
)

func newExportCmd(app *App) *cobra.Command {
	var outDir string
	var kinds []string
	var overwrite bool

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export every entry as Markdown plus an HTML index (derived, not canonical)",
		Example: strings.TrimSpace(`
folio export --out ./site-backup
folio export --out ./blog --kind blogs --overwrite
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			outDir = strings.TrimSpace(outDir)
			if outDir == "" {
				return writeErr(cmd, errors.New("missing --out"))
			}
			var selected []model.Kind
			for _, k := range kinds {
				kind, err := model.ParseKind(k)
				if err != nil {
					return writeErr(cmd, err)
				}
				selected = append(selected, kind)
			}

			ctx := cmd.Context()
			if err := app.connect(ctx); err != nil {
				return writeErr(cmd, err)
			}
			defer app.close()
			res, err := publish.Export(ctx, app.client, outDir, publish.Options{
				Kinds:     selected,
				Overwrite: overwrite,
			})
			if err != nil {
				return writeErr(cmd, apiErr(err, "", ""))
			}
			return writeOut(cmd, app, map[string]any{
				"data": res,
				"_hints": []string{
					"open " + outDir + "/index.html",
				},
			})
		},
	}

	cmd.Flags().StringVar(&outDir, "out", "", "Output directory")
	cmd.Flags().StringSliceVar(&kinds, "kind", nil, "Collections to export (blogs|projects|certifications; repeatable, default all)")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Overwrite existing files")
	return cmd
}
