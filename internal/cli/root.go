package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"folio-cli/internal/api"
	"folio-cli/internal/format"
	"folio-cli/internal/model"
	"folio-cli/internal/store"
	"folio-cli/internal/tui"

	"github.com/spf13/cobra"
)

type App struct {
	Dir        string
	APIURL     string
	PrettyJSON bool
	Format     string
	Profile    string

	st     store.Store
	cfg    *store.Config
	jar    *store.CookieJar
	client *api.Client
}

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:          "folio",
		Short:        "Portfolio admin CLI + TUI",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Start the interactive TUI
  folio

  # Sign in once; the session cookie is kept in ~/.folio/state.sqlite
  folio login --email admin@example.com

  # Scriptable commands
  folio blogs list --query go
  folio projects toggle <id> --field featured
  folio projects reorder <id> --to 1
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			// No subcommand => interactive TUI.
			if cmd.HasSubCommands() && len(args) == 0 {
				return runTUI(cmd, app)
			}
			return cmd.Help()
		},
	}

	cmd.PersistentFlags().StringVar(&app.Dir, "dir", envOr("FOLIO_DIR", ""), "State dir (default ~/.folio, or FOLIO_CONFIG_DIR)")
	cmd.PersistentFlags().StringVar(&app.APIURL, "api", "", "Portfolio API base URL (overrides apiUrl / FOLIO_API_URL)")
	cmd.PersistentFlags().BoolVar(&app.PrettyJSON, "pretty", false, "Pretty-print JSON output")
	cmd.PersistentFlags().StringVar(&app.Format, "format", envOr("FOLIO_FORMAT", "json"), "Output format (json|edn|yaml)")
	cmd.PersistentFlags().StringVar(&app.Profile, "profile", envOr("FOLIO_TUI_PROFILE", ""), "TUI appearance profile (default|alabaster|dracula|mono)")

	cmd.AddCommand(newLoginCmd(app))
	cmd.AddCommand(newLogoutCmd(app))
	cmd.AddCommand(newWhoamiCmd(app))
	cmd.AddCommand(newEntriesCmd(app, model.KindBlogs))
	cmd.AddCommand(newProjectsCmd(app))
	cmd.AddCommand(newEntriesCmd(app, model.KindCertifications))
	cmd.AddCommand(newUploadCmd(app))
	cmd.AddCommand(newEventsCmd(app))
	cmd.AddCommand(newExportCmd(app))
	cmd.AddCommand(newWebTUICmd(app))

	return cmd
}

func runTUI(cmd *cobra.Command, app *App) error {
	if err := app.connect(cmd.Context()); err != nil {
		return writeErr(cmd, err)
	}
	defer app.close()
	profile := app.Profile
	if profile == "" {
		profile = app.cfg.TUI.Profile
	}
	return tui.Run(tui.Options{
		Client:      app.client,
		Store:       app.st,
		Jar:         app.jar,
		PageSize:    app.cfg.PageSize,
		SearchDelay: app.cfg.SearchDebounce.Std(),
		Email:       app.cfg.Email,
		Context:     cmd.Context(),
	}, profile)
}

// resolveDir returns --dir, falling back to ConfigDir.
func resolveDir(app *App) (string, error) {
	if d := strings.TrimSpace(app.Dir); d != "" {
		return d, nil
	}
	return store.ConfigDir()
}

// loadStore resolves the state dir and reads the config. It does not touch the network.
func (app *App) loadStore() error {
	if app.cfg != nil {
		return nil
	}
	dir, err := resolveDir(app)
	if err != nil {
		return err
	}
	app.st = store.Store{Dir: dir}
	cfg, err := app.st.LoadConfig()
	if err != nil {
		return err
	}
	app.cfg = cfg
	return nil
}

func (app *App) apiURL() string {
	if v := strings.TrimSpace(app.APIURL); v != "" {
		return v
	}
	return app.cfg.API()
}

// connect opens the persistent cookie jar and builds the API client.
func (app *App) connect(ctx context.Context) error {
	if app.client != nil {
		return nil
	}
	if err := app.loadStore(); err != nil {
		return err
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if err := app.st.Ensure(); err != nil {
		return err
	}
	jar, err := app.st.OpenCookieJar(ctx)
	if err != nil {
		return fmt.Errorf("open session store: %w", err)
	}
	client, err := api.New(api.Options{
		BaseURL: app.apiURL(),
		Jar:     jar,
		Timeout: app.cfg.Timeout.Std(),
	})
	if err != nil {
		_ = jar.Close()
		return err
	}
	app.jar = jar
	app.client = client
	return nil
}

// record appends to the local event log. Failures never fail the command.
func (app *App) record(ctx context.Context, ev model.Event) {
	_, _ = app.st.AppendEvent(ctx, ev)
}

func (app *App) close() error {
	if app.jar == nil {
		return nil
	}
	err := app.jar.Close()
	app.jar = nil
	app.client = nil
	return err
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func writeOut(cmd *cobra.Command, app *App, v any) error {
	return format.Write(cmd.OutOrStdout(), v, app.Format, app.PrettyJSON)
}

func writeErr(cmd *cobra.Command, err error) error {
	fmt.Fprintln(cmd.ErrOrStderr(), err.Error())
	return err
}
