package commands

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jakechorley/roster-engine/pkg/api"
)

// ServeCmd creates the serve command
func ServeCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the engine over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
				app.Cfg.Server.Addr = addr
			}

			app.Logger.Debug("serve command", zap.String("addr", app.Cfg.ServerAddr()))

			ctx, stop := signal.NotifyContext(app.Ctx, syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return api.Serve(ctx, app.Cfg, app.Logger)
		},
	}

	cmd.Flags().String("addr", "", "Listen address (overrides server.addr)")

	return cmd
}
