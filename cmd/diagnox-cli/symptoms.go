package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"yashubustudio/diagnox/diagnox"
)

func newSymptomsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "symptoms",
		Short: "List the symptom catalog in model order",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			cfg.ApplyDefaults()
			table, err := diagnox.ParseTrainingTable(cfg.TrainingPath, diagnox.TrainingParseOptions{
				LabelColumn: cfg.LabelColumn,
				DropColumns: cfg.DropColumns,
			})
			if err != nil {
				return &diagnox.LoadError{Artifact: diagnox.ArtifactTraining, Path: cfg.TrainingPath, Err: err}
			}
			catalog, err := diagnox.NewCatalog(table.Symptoms)
			if err != nil {
				return &diagnox.LoadError{Artifact: diagnox.ArtifactTraining, Path: cfg.TrainingPath, Err: err}
			}

			filter, _ := cmd.Flags().GetString("filter")
			showFingerprint, _ := cmd.Flags().GetBool("fingerprint")
			out := cmd.OutOrStdout()
			if showFingerprint {
				fmt.Fprintln(out, catalog.Fingerprint())
				return nil
			}
			for _, name := range catalog.Filter(filter) {
				idx, _ := catalog.Index(name)
				fmt.Fprintf(out, "%4d  %-32s %s\n", idx, name, diagnox.DisplayName(name))
			}
			return nil
		},
	}
	cmd.Flags().String("filter", "", "Only list symptoms containing this text")
	cmd.Flags().Bool("fingerprint", false, "Print the catalog fingerprint for catalogFingerprint pinning")
	return cmd
}
