package diagnox

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

const (
	// SevereWarningTitle heads the warning block shown for Severe requests.
	SevereWarningTitle = "SEVERE SYMPTOMS REPORTED"
	// SevereWarningText is the body of the warning block.
	SevereWarningText = "Your symptoms are marked as severe. Seek immediate medical attention or contact emergency services."
	// Disclaimer closes every report.
	Disclaimer = "This prediction is generated by a machine learning model and is not a medical diagnosis. Always consult a qualified healthcare professional."

	reportTimeLayout = "2006-01-02 15:04:05"
)

// FormatPercent renders a probability as a percentage with two decimals.
func FormatPercent(p float64) string {
	return fmt.Sprintf("%.2f%%", p*100)
}

// DisplayNames maps catalog names to their display form.
func DisplayNames(names []string) []string {
	out := make([]string, len(names))
	for i, n := range names {
		out[i] = DisplayName(n)
	}
	return out
}

// RenderSimple writes the single-label result.
func RenderSimple(w io.Writer, res SimpleResult) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "Predicted Disease: %s\n", res.Label)
	if len(res.Symptoms) > 0 {
		fmt.Fprintf(bw, "Symptoms: %s\n", strings.Join(DisplayNames(res.Symptoms), ", "))
	}
	fmt.Fprintln(bw)
	fmt.Fprintln(bw, "Suggested Medications / Advice:")
	writeSuggestions(bw, res.Suggestions, "")
	fmt.Fprintln(bw)
	fmt.Fprintln(bw, Disclaimer)
	return bw.Flush()
}

// RenderAnalysis writes the ranked result. A Severe request always gets the
// warning block, whatever the predicted diseases are.
func RenderAnalysis(w io.Writer, res AnalysisResult) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "Report ID: %s\n", res.ID)
	fmt.Fprintf(bw, "Generated: %s\n", res.GeneratedAt.Format(reportTimeLayout))
	fmt.Fprintf(bw, "Symptoms: %s\n", strings.Join(DisplayNames(res.Symptoms), ", "))
	fmt.Fprintf(bw, "Severity: %s\n", res.Severity)
	if res.Severity == SeveritySevere {
		writeSevereBlock(bw)
	}
	fmt.Fprintln(bw)
	fmt.Fprintln(bw, "Differential Diagnosis:")
	if len(res.Predictions) == 0 {
		fmt.Fprintln(bw, "  (no predictions)")
	}
	for i, d := range res.Predictions {
		fmt.Fprintf(bw, "%d. %s - %s\n", i+1, d.Label, FormatPercent(d.Probability))
		writeSuggestions(bw, d.Suggestions, "   ")
	}
	fmt.Fprintln(bw)
	fmt.Fprintln(bw, Disclaimer)
	return bw.Flush()
}

func writeSuggestions(w io.Writer, s Suggestions, indent string) {
	for _, item := range s.Items {
		fmt.Fprintf(w, "%s- %s\n", indent, item)
	}
}

func writeSevereBlock(w io.Writer) {
	bar := strings.Repeat("!", len(SevereWarningTitle)+8)
	fmt.Fprintln(w)
	fmt.Fprintln(w, bar)
	fmt.Fprintf(w, "!!! %s !!!\n", SevereWarningTitle)
	fmt.Fprintln(w, bar)
	fmt.Fprintln(w, SevereWarningText)
}
