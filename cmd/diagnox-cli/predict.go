package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"yashubustudio/diagnox/diagnox"
	"yashubustudio/diagnox/internal/app"
)

func newPredictCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "predict [symptom...]",
		Short: "Predict the single most likely disease",
		RunE: func(cmd *cobra.Command, args []string) error {
			symptoms := collectSymptoms(cmd, args)
			if len(symptoms) == 0 {
				fmt.Fprintln(cmd.ErrOrStderr(), app.EmptySelectionWarning)
				return diagnox.ErrNoSymptoms
			}
			svc, _, _, err := loadService(cmd)
			if err != nil {
				return err
			}
			defer svc.Close()

			res, err := svc.Predict(cmd.Context(), symptoms)
			if err != nil {
				return describeRequestError(cmd, err)
			}
			return diagnox.RenderSimple(cmd.OutOrStdout(), res)
		},
	}
	cmd.Flags().StringSlice("symptoms", nil, "Comma separated symptoms")
	return cmd
}

func describeRequestError(cmd *cobra.Command, err error) error {
	var inferenceErr *diagnox.InferenceError
	switch {
	case errors.Is(err, diagnox.ErrNoSymptoms):
		fmt.Fprintln(cmd.ErrOrStderr(), app.EmptySelectionWarning)
	case errors.As(err, &inferenceErr):
		fmt.Fprintf(cmd.ErrOrStderr(), "Prediction error: %v\n", inferenceErr.Err)
	}
	return err
}
