package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"yashubustudio/diagnox/diagnox"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage config.json",
	}
	cmd.AddCommand(newConfigInitCmd())
	cmd.AddCommand(newConfigShowCmd())
	return cmd
}

func newConfigInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a config.json with default settings",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, _ := cmd.Flags().GetString("config")
			if path == "" {
				path = "config.json"
			}
			force, _ := cmd.Flags().GetBool("force")
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			} else if err != nil && !errors.Is(err, os.ErrNotExist) {
				return fmt.Errorf("check %s: %w", path, err)
			}
			var cfg diagnox.Config
			cfg.ApplyDefaults()
			if err := diagnox.SaveConfig(path, cfg); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
			return nil
		},
	}
	cmd.Flags().Bool("force", false, "Overwrite an existing file")
	return cmd
}

func newConfigShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "training:    %s\n", cfg.TrainingPath)
			fmt.Fprintf(out, "suggestions: %s\n", cfg.SuggestionsPath)
			fmt.Fprintf(out, "model:       %s\n", cfg.Model.Path)
			fmt.Fprintf(out, "mode:        %s\n", cfg.Mode)
			fmt.Fprintf(out, "topK:        %d\n", cfg.TopK)
			return nil
		},
	}
}
