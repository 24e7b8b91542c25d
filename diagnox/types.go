package diagnox

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Mode selects how a prediction is produced and rendered.
type Mode string

const (
	// ModeSimple keeps only the arg-max label.
	ModeSimple Mode = "simple"
	// ModeRanked keeps the top-K labels with their probabilities.
	ModeRanked Mode = "ranked"
)

// Severity is the user declared intensity of the symptoms. It is independent
// of the predicted disease.
type Severity int

const (
	SeverityMild Severity = iota
	SeverityModerate
	SeveritySevere
)

var severityNames = [...]string{"Mild", "Moderate", "Severe"}

// Severities returns the ordered set of accepted severity tags.
func Severities() []Severity {
	return []Severity{SeverityMild, SeverityModerate, SeveritySevere}
}

// String returns the display name of the severity.
func (s Severity) String() string {
	if s < SeverityMild || s > SeveritySevere {
		return fmt.Sprintf("Severity(%d)", int(s))
	}
	return severityNames[s]
}

// ParseSeverity resolves a severity tag case-insensitively. An empty string
// yields SeverityMild.
func ParseSeverity(text string) (Severity, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return SeverityMild, nil
	}
	for i, name := range severityNames {
		if strings.EqualFold(trimmed, name) {
			return Severity(i), nil
		}
	}
	return SeverityMild, fmt.Errorf("%w: %q", ErrUnknownSeverity, text)
}

// MarshalJSON encodes the severity by name.
func (s Severity) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// UnmarshalJSON decodes a severity name.
func (s *Severity) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	parsed, err := ParseSeverity(name)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// FeatureVector is the one-hot encoding of a selection, aligned to the catalog order.
type FeatureVector []float32

// Prediction pairs a class label with its probability.
type Prediction struct {
	Label       string  `json:"label"`
	Probability float64 `json:"probability"`
}

// Percent returns the probability as a percentage.
func (p Prediction) Percent() float64 {
	return p.Probability * 100
}

// Suggestions holds the advice rows found for one disease.
type Suggestions struct {
	Items    []string `json:"items"`
	Fallback bool     `json:"fallback"`
}

// Diagnosis is one ranked prediction with its advice.
type Diagnosis struct {
	Prediction
	Suggestions Suggestions `json:"suggestions"`
}

// SimpleResult is the outcome of the single-label pipeline.
type SimpleResult struct {
	Symptoms    []string    `json:"symptoms"`
	Label       string      `json:"label"`
	Suggestions Suggestions `json:"suggestions"`
}

// AnalysisRequest carries one ranked analysis request.
type AnalysisRequest struct {
	Symptoms []string
	Severity Severity
	// TopK overrides the configured K when positive.
	TopK int
}

// AnalysisResult is the outcome of the ranked pipeline. It belongs to the
// request that produced it.
type AnalysisResult struct {
	ID          string      `json:"id"`
	Symptoms    []string    `json:"symptoms"`
	Severity    Severity    `json:"severity"`
	Predictions []Diagnosis `json:"predictions"`
	GeneratedAt time.Time   `json:"generatedAt"`
}

// Top returns the highest ranked diagnosis.
func (r AnalysisResult) Top() (Diagnosis, bool) {
	if len(r.Predictions) == 0 {
		return Diagnosis{}, false
	}
	return r.Predictions[0], true
}
