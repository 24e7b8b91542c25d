package diagnox

import (
	"strings"
	"sync"
)

// ColumnCandidates defines possible header names for auto-detecting CSV/TSV columns.
type ColumnCandidates struct {
	Disease    []string `json:"disease"`
	Suggestion []string `json:"suggestion"`
	Label      []string `json:"label"`
}

var (
	columnCandidatesMu  sync.RWMutex
	activeColumnOptions = defaultColumnCandidates()
)

func defaultColumnCandidates() ColumnCandidates {
	return ColumnCandidates{
		Disease:    []string{"Disease", "disease", "illness", "condition", "prognosis"},
		Suggestion: []string{"Suggestion", "suggestions", "advice", "medication", "medications", "recommendation"},
		Label:      []string{"prognosis", "disease", "label"},
	}
}

// DefaultColumnCandidates returns the built-in column detection candidates.
func DefaultColumnCandidates() ColumnCandidates {
	return defaultColumnCandidates().clone()
}

// SetColumnCandidates updates the column detection candidates used during auto-detection.
// Fields left nil fall back to the built-in defaults.
func SetColumnCandidates(candidates ColumnCandidates) {
	columnCandidatesMu.Lock()
	defer columnCandidatesMu.Unlock()
	activeColumnOptions = candidates.withDefaults()
}

func getColumnCandidates() ColumnCandidates {
	columnCandidatesMu.RLock()
	defer columnCandidatesMu.RUnlock()
	return activeColumnOptions.clone()
}

func (c ColumnCandidates) withDefaults() ColumnCandidates {
	defaults := defaultColumnCandidates()
	return ColumnCandidates{
		Disease:    pickStrings(c.Disease, defaults.Disease),
		Suggestion: pickStrings(c.Suggestion, defaults.Suggestion),
		Label:      pickStrings(c.Label, defaults.Label),
	}
}

func (c ColumnCandidates) clone() ColumnCandidates {
	return ColumnCandidates{
		Disease:    cloneStrings(c.Disease),
		Suggestion: cloneStrings(c.Suggestion),
		Label:      cloneStrings(c.Label),
	}
}

// isArtifactColumn reports header cells left behind by spreadsheet exports:
// empty names and pandas "Unnamed: N" placeholders.
func isArtifactColumn(name string) bool {
	return name == "" || strings.HasPrefix(name, "Unnamed:")
}

func pickStrings(custom, fallback []string) []string {
	if custom == nil {
		return cloneStrings(fallback)
	}
	return cloneStrings(custom)
}

func cloneStrings(values []string) []string {
	if values == nil {
		return nil
	}
	out := make([]string, len(values))
	copy(out, values)
	return out
}
