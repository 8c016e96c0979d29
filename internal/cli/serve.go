package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"draglist/internal/webtui"

	"github.com/spf13/cobra"
)

func newServeCmd(app *App) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the list in your browser (PTY + WebSocket)",
		Long: strings.TrimSpace(`
Serve the list view to a browser terminal. Each tab starts its own list
process on the server behind a PTY; mouse and focus events are forwarded
from the browser.

Endpoints: /terminal, /ws, /docs/{topic}, /metrics.
No authentication; bind to localhost.
`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.config(cmd)
			if err != nil {
				return writeErr(cmd, err)
			}
			listen := strings.TrimSpace(cfg.Serve.Addr)
			if cmd.Flags().Changed("addr") {
				listen = strings.TrimSpace(addr)
			}

			var childArgs []string
			if d := strings.TrimSpace(app.ConfigDir); d != "" {
				childArgs = append(childArgs, "--config-dir", d)
			}
			srv, err := webtui.NewServer(webtui.ServerConfig{
				Addr:      listen,
				ChildArgs: childArgs,
				Logger:    app.logger(),
			})
			if err != nil {
				return writeErr(cmd, err)
			}

			_ = writeOut(cmd, app, map[string]any{
				"data": map[string]any{
					"addr":      srv.Addr(),
					"startedAt": time.Now().UTC().Format(time.RFC3339Nano),
				},
				"_hints": []string{"open http://" + srv.Addr() + "/terminal"},
			})
			fmt.Fprintf(cmd.ErrOrStderr(), "draglist serving at http://%s/terminal\n", srv.Addr())

			ctx, stop := signal.NotifyContext(cmdContext(cmd), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			hs := &http.Server{
				Addr:              srv.Addr(),
				Handler:           srv.Handler(),
				ReadHeaderTimeout: 10 * time.Second,
			}
			errCh := make(chan error, 1)
			go func() { errCh <- hs.ListenAndServe() }()

			select {
			case err := <-errCh:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return writeErr(cmd, err)
			case <-ctx.Done():
			}
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := hs.Shutdown(shutdownCtx); err != nil {
				return writeErr(cmd, err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Bind address, host:port (overrides serve.addr)")
	return cmd
}
