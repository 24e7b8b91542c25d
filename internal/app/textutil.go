package app

import (
	"strings"

	"yashubustudio/diagnox/diagnox"
)

// Request is one parsed input line.
type Request struct {
	Symptoms []string
	Severity diagnox.Severity
}

// ParseRequest reads "symptom, symptom; symptom | severity". Severity is optional.
func ParseRequest(line string) (Request, error) {
	var req Request
	symptomsPart, severityPart, hasSeverity := strings.Cut(line, "|")
	if hasSeverity {
		sev, err := diagnox.ParseSeverity(severityPart)
		if err != nil {
			return req, err
		}
		req.Severity = sev
	}
	req.Symptoms = SplitSymptoms(symptomsPart)
	return req, nil
}

// SplitSymptoms splits a comma or semicolon separated list, dropping blanks.
func SplitSymptoms(text string) []string {
	tokens := strings.FieldsFunc(text, func(r rune) bool {
		return r == ',' || r == ';' || r == '\n'
	})
	out := make([]string, 0, len(tokens))
	for _, t := range tokens {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}
