package cli

import (
	"fmt"

	"folio-cli/internal/listctl"
	"folio-cli/internal/model"
	"folio-cli/internal/publish"

	"github.com/spf13/cobra"
)

func newProjectsCmd(app *App) *cobra.Command {
	cmd := newEntriesCmd(app, model.KindProjects)
	cmd.AddCommand(newProjectsPrioritiesCmd(app))
	cmd.AddCommand(newProjectsReorderCmd(app))
	return cmd
}

type priorityRow struct {
	Position int    `json:"position"`
	ID       string `json:"id"`
	Title    string `json:"title"`
	Priority *int   `json:"priority"`
}

func priorityRows(items []model.Entry) []priorityRow {
	rows := make([]priorityRow, 0, len(items))
	for i, e := range items {
		rows = append(rows, priorityRow{Position: i + 1, ID: e.ID, Title: e.Title, Priority: e.Priority})
	}
	return rows
}

func newProjectsPrioritiesCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "priorities",
		Short: "List every project in display order",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := app.connect(ctx); err != nil {
				return writeErr(cmd, err)
			}
			defer app.close()
			items, err := publish.FetchAll(ctx, app.client, model.KindProjects, 0)
			if err != nil {
				return writeErr(cmd, apiErr(err, "", ""))
			}
			listctl.SortByPriority(items)
			return writeOut(cmd, app, map[string]any{"data": priorityRows(items)})
		},
	}
}

func newProjectsReorderCmd(app *App) *cobra.Command {
	var to int

	cmd := &cobra.Command{
		Use:   "reorder <project-id>",
		Short: "Move a project to a display position and renumber the whole order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]
			ctx := cmd.Context()
			if err := app.connect(ctx); err != nil {
				return writeErr(cmd, err)
			}
			defer app.close()

			items, err := publish.FetchAll(ctx, app.client, model.KindProjects, 0)
			if err != nil {
				return writeErr(cmd, apiErr(err, "", ""))
			}
			r := listctl.NewReorder(items)
			from := r.IndexOf(id)
			if from < 0 {
				return writeErr(cmd, errNotFound("project", id))
			}
			if to < 1 || to > r.Len() {
				return writeErr(cmd, fmt.Errorf("--to must be between 1 and %d", r.Len()))
			}
			r.Move(from, to-1)

			updates := r.Updates()
			if err := app.client.UpdatePriorities(ctx, updates); err != nil {
				return writeErr(cmd, apiErr(err, "", ""))
			}
			r.MarkSaved()
			app.record(ctx, model.Event{Type: "projects.reorder", Kind: model.KindProjects, EntityID: id, Payload: updates})
			return writeOut(cmd, app, map[string]any{
				"data": priorityRows(r.Items()),
				"meta": map[string]any{"moved": id, "from": from + 1, "to": to},
			})
		},
	}

	cmd.Flags().IntVar(&to, "to", 0, "Target position (1-based)")
	_ = cmd.MarkFlagRequired("to")
	return cmd
}
