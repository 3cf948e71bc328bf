package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/naka-gawa/gh-dashboard/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serves dashboards as a JSON HTTP API",
	Long: `Starts an HTTP server exposing:

  GET /health
  GET /users/:username         profile, repositories and statistics
  GET /users/:username/stats   repository statistics only
  GET /repos/:owner/:repo      repository metadata, languages and open issues`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd, appOptions{server: true})
		if err != nil {
			return err
		}
		defer a.close()

		addr, _ := cmd.Flags().GetString("addr")
		if addr == "" {
			addr = a.cfg.HTTP.Addr
		}
		if !a.verbose {
			gin.SetMode(gin.ReleaseMode)
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		router := server.NewRouter(server.NewHandler(a.aggregator, a.logger), a.logger)
		if err := server.Run(ctx, addr, router, a.logger); err != nil {
			a.logger.Error("server error", zap.Error(err))
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("addr", "", "Listen address (default from HTTP_ADDR, :8080)")
}
