package main

import (
	"github.com/spf13/cobra"

	"yashubustudio/diagnox/internal/app"
)

func newInteractiveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "interactive",
		Short: "Analyze symptoms line by line",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, cfg, logger, err := loadService(cmd)
			if err != nil {
				return err
			}
			defer svc.Close()
			return app.RunInteractive(cmd.Context(), svc, cmd.InOrStdin(), cmd.OutOrStdout(), app.Options{
				Mode:   cfg.Mode,
				TopK:   cfg.TopK,
				Logger: logger,
			})
		},
	}
}
