package cmd

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/secandoalei/secando/internal/app"
)

// runApp opens the store, builds dependencies, and launches the TUI.
func runApp(cmd *cobra.Command) error {
	env, err := openEnv(cmd, envOptions{ai: true, logToFile: true})
	if err != nil {
		return err
	}
	defer env.Close()

	env.log.Info("starting terminal UI", zap.Bool("ai", env.svc.AIEnabled()))
	return app.Run(cmd.Context(), env.svc, env.log)
}
