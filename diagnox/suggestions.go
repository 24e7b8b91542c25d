package diagnox

// FallbackSuggestion is returned when the table has no advice for a disease.
const FallbackSuggestion = "No specific suggestions are available for this condition. Please consult a healthcare professional."

// SuggestionTable maps disease names to advice rows. Matching is exact after
// case folding; whitespace is significant and there is no partial or fuzzy
// matching.
type SuggestionTable struct {
	byDisease map[string][]string
	rows      int
}

// NewSuggestionTable indexes rows by folded disease name, keeping row order.
func NewSuggestionTable(rows []SuggestionRow) *SuggestionTable {
	t := &SuggestionTable{byDisease: make(map[string][]string)}
	for _, row := range rows {
		key := CaseKey(row.Disease)
		if key == "" || row.Suggestion == "" {
			continue
		}
		t.byDisease[key] = append(t.byDisease[key], row.Suggestion)
		t.rows++
	}
	return t
}

// Lookup returns the advice rows for a disease, or the fallback message.
func (t *SuggestionTable) Lookup(disease string) Suggestions {
	if items, ok := t.byDisease[CaseKey(disease)]; ok {
		return Suggestions{Items: cloneStrings(items)}
	}
	return Suggestions{Items: []string{FallbackSuggestion}, Fallback: true}
}

// Has reports whether any row matches the disease.
func (t *SuggestionTable) Has(disease string) bool {
	_, ok := t.byDisease[CaseKey(disease)]
	return ok
}

// Len returns the number of indexed rows.
func (t *SuggestionTable) Len() int {
	return t.rows
}

// Diseases returns the number of distinct diseases.
func (t *SuggestionTable) Diseases() int {
	return len(t.byDisease)
}
