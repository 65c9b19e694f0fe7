package cli

import (
	"bufio"
	"errors"
	"io"
	"os"
	"strings"

	"folio-cli/internal/model"

	"github.com/spf13/cobra"
)

func newLoginCmd(app *App) *cobra.Command {
	var email string
	var password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and keep the session cookie",
		Long: strings.TrimSpace(`
Sign in to the portfolio API. The session cookie is stored in the state dir so later
commands (and the TUI) reuse it.

The password is read from --password, then FOLIO_PASSWORD, then the first line of stdin.
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := app.connect(ctx); err != nil {
				return writeErr(cmd, err)
			}
			defer app.close()

			email = strings.TrimSpace(email)
			if email == "" {
				email = strings.TrimSpace(app.cfg.Email)
			}
			if email == "" {
				return writeErr(cmd, errors.New("missing --email"))
			}
			pw, err := readPassword(cmd, password)
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := app.client.Login(ctx, email, pw); err != nil {
				return writeErr(cmd, err)
			}
			user, err := app.client.Me(ctx)
			if err != nil {
				return writeErr(cmd, apiErr(err, "", ""))
			}

			// Remember the address for the TUI login form. Env overrides stay out of the file.
			if fileCfg, err := app.st.LoadFileConfig(); err == nil && fileCfg.Email != email {
				fileCfg.Email = email
				_ = app.st.SaveConfig(fileCfg)
			}
			app.record(ctx, model.Event{Type: "auth.login", Payload: map[string]any{"email": email}})

			return writeOut(cmd, app, map[string]any{
				"data": map[string]any{"email": email, "user": user, "api": app.client.BaseURL()},
			})
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Account email (default: last used)")
	cmd.Flags().StringVar(&password, "password", "", "Account password (prefer FOLIO_PASSWORD or stdin)")
	return cmd
}

func readPassword(cmd *cobra.Command, flagValue string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	if v := os.Getenv("FOLIO_PASSWORD"); v != "" {
		return v, nil
	}
	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	line = strings.TrimRight(line, "\r\n")
	if line == "" {
		return "", errors.New("missing password (use --password, FOLIO_PASSWORD or stdin)")
	}
	return line, nil
}

func newLogoutCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "End the session and forget the stored cookie",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := app.connect(ctx); err != nil {
				return writeErr(cmd, err)
			}
			defer app.close()

			// The server call is best effort; the local cookie is always dropped.
			remote := app.client.Logout(ctx)
			if err := app.jar.Clear(ctx); err != nil {
				return writeErr(cmd, err)
			}
			app.record(ctx, model.Event{Type: "auth.logout"})
			out := map[string]any{"signedOut": true, "server": remote == nil}
			return writeOut(cmd, app, map[string]any{"data": out})
		},
	}
}

func newWhoamiCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := app.connect(ctx); err != nil {
				return writeErr(cmd, err)
			}
			defer app.close()
			user, err := app.client.Me(ctx)
			if err != nil {
				return writeErr(cmd, apiErr(err, "", ""))
			}
			return writeOut(cmd, app, map[string]any{"data": user})
		},
	}
}
