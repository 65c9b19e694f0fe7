package cli

import (
	"path/filepath"

	"folio-cli/internal/model"

	"github.com/spf13/cobra"
)

func newUploadCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "upload <file>",
		Short: "Upload an image and print its public URL",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := app.connect(ctx); err != nil {
				return writeErr(cmd, err)
			}
			defer app.close()
			url, err := app.client.Upload(ctx, args[0])
			if err != nil {
				return writeErr(cmd, apiErr(err, "", ""))
			}
			name := filepath.Base(args[0])
			app.record(ctx, model.Event{Type: "upload", Payload: map[string]any{"file": name, "url": url}})
			return writeOut(cmd, app, map[string]any{"data": map[string]any{"file": name, "url": url}})
		},
	}
}
