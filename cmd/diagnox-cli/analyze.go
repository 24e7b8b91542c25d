package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"yashubustudio/diagnox/diagnox"
	"yashubustudio/diagnox/internal/app"
)

func newAnalyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze [symptom...]",
		Short: "Rank the top-K diseases and optionally export a PDF report",
		RunE: func(cmd *cobra.Command, args []string) error {
			symptoms := collectSymptoms(cmd, args)
			severityFlag, _ := cmd.Flags().GetString("severity")
			severity, err := diagnox.ParseSeverity(severityFlag)
			if err != nil {
				return err
			}
			if len(symptoms) == 0 {
				fmt.Fprintln(cmd.ErrOrStderr(), app.EmptySelectionWarning)
				return diagnox.ErrNoSymptoms
			}
			topK, _ := cmd.Flags().GetInt("top-k")
			pdfPath, _ := cmd.Flags().GetString("pdf")
			asJSON, _ := cmd.Flags().GetBool("json")

			svc, _, _, err := loadService(cmd)
			if err != nil {
				return err
			}
			defer svc.Close()

			res, err := svc.Analyze(cmd.Context(), diagnox.AnalysisRequest{
				Symptoms: symptoms,
				Severity: severity,
				TopK:     topK,
			})
			if err != nil {
				return describeRequestError(cmd, err)
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				if err := enc.Encode(res); err != nil {
					return fmt.Errorf("encode result: %w", err)
				}
			} else if err := diagnox.RenderAnalysis(out, res); err != nil {
				return err
			}

			if pdfPath != "" {
				renderer := diagnox.NewPDFRenderer(diagnox.PDFOptions{Compress: true})
				if err := renderer.WriteFile(pdfPath, res); err != nil {
					return err
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "Saved report to %s\n", pdfPath)
			}
			return nil
		},
	}
	cmd.Flags().StringSlice("symptoms", nil, "Comma separated symptoms")
	cmd.Flags().String("severity", "mild", "Symptom severity: mild, moderate or severe")
	cmd.Flags().Int("top-k", 0, "Number of ranked diagnoses (default from config)")
	cmd.Flags().String("pdf", "", "Write a PDF report to this path")
	cmd.Flags().Bool("json", false, "Print the result as JSON")
	return cmd
}
