package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"yashubustudio/diagnox/diagnox"
	"yashubustudio/diagnox/internal/logging"
)

// newRootCmd builds the command tree. Each call returns fresh commands with
// default flag values.
func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "diagnox-cli",
		Short:         "Symptom checker backed by a pre-trained classifier",
		Long:          "diagnox-cli encodes selected symptoms, runs the disease classifier and prints the predicted disease with advice.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().String("config", "", "Path to config.json (default: ./config.json)")
	rootCmd.PersistentFlags().String("env-file", ".env", "Optional .env file with DIAGNOX_* overrides")
	rootCmd.PersistentFlags().String("log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().Bool("pretty-logs", false, "Human readable logs on stderr")

	rootCmd.AddCommand(newSymptomsCmd())
	rootCmd.AddCommand(newPredictCmd())
	rootCmd.AddCommand(newAnalyzeCmd())
	rootCmd.AddCommand(newInteractiveCmd())
	rootCmd.AddCommand(newConfigCmd())
	return rootCmd
}

// loadConfig reads config.json, then the .env file, then DIAGNOX_* variables.
func loadConfig(cmd *cobra.Command) (diagnox.Config, error) {
	if envFile, _ := cmd.Flags().GetString("env-file"); envFile != "" {
		if _, err := os.Stat(envFile); err == nil {
			if err := godotenv.Load(envFile); err != nil {
				return diagnox.Config{}, fmt.Errorf("load %s: %w", envFile, err)
			}
		}
	}
	path, _ := cmd.Flags().GetString("config")
	cfg, err := diagnox.LoadConfig(path)
	if err != nil {
		return cfg, &diagnox.LoadError{Artifact: diagnox.ArtifactConfig, Path: path, Err: err}
	}
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return cfg, &diagnox.LoadError{Artifact: diagnox.ArtifactConfig, Path: path, Err: err}
	}
	return cfg, nil
}

func newLogger(cmd *cobra.Command) (zerolog.Logger, error) {
	level, _ := cmd.Flags().GetString("log-level")
	pretty, _ := cmd.Flags().GetBool("pretty-logs")
	return logging.New(os.Stderr, level, pretty)
}

// loadService loads every artifact or fails with the artifact that broke.
func loadService(cmd *cobra.Command) (*diagnox.Service, diagnox.Config, zerolog.Logger, error) {
	logger, err := newLogger(cmd)
	if err != nil {
		return nil, diagnox.Config{}, logger, err
	}
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, cfg, logger, err
	}
	svc, err := diagnox.Load(cmd.Context(), cfg, logger)
	if err != nil {
		logger.Error().Err(err).Msg("startup failed")
		return nil, cfg, logger, err
	}
	return svc, cfg, logger, nil
}

// collectSymptoms merges --symptoms values and positional arguments.
func collectSymptoms(cmd *cobra.Command, args []string) []string {
	flagValues, _ := cmd.Flags().GetStringSlice("symptoms")
	out := append([]string{}, flagValues...)
	return append(out, args...)
}
