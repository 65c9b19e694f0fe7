package cli

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"folio-cli/internal/webtui"

	"github.com/spf13/cobra"
)

func newWebTUICmd(app *App) *cobra.Command {
	var addr string
	var maxSessions int

	cmd := &cobra.Command{
		Use:   "webtui",
		Short: "Run the TUI in your browser (PTY + WebSocket, experimental)",
		Long: strings.TrimSpace(`
Run the Bubble Tea TUI over the web via a server-side PTY and a browser terminal emulator.

Notes:
- No auth of its own: every browser tab shares the session stored in --dir.
- Each browser tab starts a TUI subprocess on the server.
`),
		Example: strings.TrimSpace(`
# Serve on localhost
folio webtui --addr 127.0.0.1:3334

# Point the sessions at a staging API
folio --api https://staging.example.com webtui
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.loadStore(); err != nil {
				return writeErr(cmd, err)
			}
			profile := strings.TrimSpace(app.Profile)
			if profile == "" {
				profile = app.cfg.TUI.Profile
			}

			srv, err := webtui.NewServer(webtui.ServerConfig{
				Addr:        strings.TrimSpace(addr),
				Dir:         app.st.Dir,
				APIURL:      app.apiURL(),
				Profile:     profile,
				MaxSessions: maxSessions,
			})
			if err != nil {
				return writeErr(cmd, err)
			}

			listenAddr := srv.Addr()
			if listenAddr == "" {
				return writeErr(cmd, errors.New("webtui: missing --addr"))
			}

			_ = writeOut(cmd, app, map[string]any{
				"data": map[string]any{
					"addr":      listenAddr,
					"api":       app.apiURL(),
					"dir":       app.st.Dir,
					"startedAt": time.Now().UTC().Format(time.RFC3339Nano),
				},
				"_hints": []string{
					"open http://" + listenAddr,
				},
			})

			fmt.Fprintf(cmd.ErrOrStderr(), "folio webtui running at http://%s (api=%s)\n", listenAddr, app.apiURL())
			return http.ListenAndServe(listenAddr, srv.Handler())
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "127.0.0.1:3334", "Bind address (host:port or :port)")
	cmd.Flags().IntVar(&maxSessions, "max-sessions", webtui.DefaultMaxSessions, "Max concurrent browser sessions")
	return cmd
}
