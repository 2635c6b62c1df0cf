package cli

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/AlcMaple/bridge-inspection-backend/internal/app"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := bootstrap()
		if err != nil {
			return err
		}
		a, err := app.New(cmd.Context(), log, cfg)
		if err != nil {
			log.Error("app init failed", "error", err)
			log.Sync()
			return err
		}
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			a.Close(ctx)
		}()
		return a.Run(cmd.Context())
	},
}
