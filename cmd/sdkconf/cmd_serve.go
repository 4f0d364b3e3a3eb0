package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/dhamidi/sdkconf/web"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

func newServeCmd(a *app) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		Long: `Start an HTTP server with the endpoints
  POST /parse      parse a snippet, body {"code": "...", "dialect": "php"}
  POST /validate   validate a snippet, same body
  GET  /dialects   list the supported dialects
  GET  /health     liveness check`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				addr = a.cfg.Server.Listen
			}
			if a.verbose == 0 && a.cfg.Log.Verbosity == 0 {
				gin.SetMode(gin.ReleaseMode)
			}

			srv := &http.Server{
				Addr:        addr,
				Handler:     web.NewServer(a.cfg.Dialect.Default),
				ReadTimeout: time.Duration(a.cfg.Server.ReadTimeoutMs) * time.Millisecond,
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, 1)
			go func() {
				displayAddr := addr
				if strings.HasPrefix(addr, ":") {
					displayAddr = "localhost" + addr
				}
				fmt.Printf("Starting server at http://%s\n", displayAddr)
				errCh <- srv.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return err
			case <-ctx.Done():
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", "", "address to listen on (default server.listen from the config)")

	return cmd
}
