package diagnox

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

// TrainingParseOptions selects the label column and extra columns to drop
// when deriving the catalog from a training table.
type TrainingParseOptions struct {
	LabelColumn string
	DropColumns []string
}

// TrainingTable is the part of a training table needed at inference time.
type TrainingTable struct {
	Symptoms []string
	Labels   []string
}

// Classes returns the sorted unique labels, the order scikit-learn assigns
// to classes_ when fitting on this table.
func (t TrainingTable) Classes() []string {
	return ClassesFromLabels(t.Labels)
}

// SuggestionParseOptions allows callers to choose the disease and suggestion columns.
type SuggestionParseOptions struct {
	DiseaseColumn    string
	SuggestionColumn string
}

// SuggestionRow is one row of the disease table.
type SuggestionRow struct {
	Disease    string
	Suggestion string
}

// ParseTrainingTable reads the header and label column of a training table.
func ParseTrainingTable(path string, opts TrainingParseOptions) (TrainingTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return TrainingTable{}, fmt.Errorf("open %s: %w", filepath.Base(path), err)
	}
	defer f.Close()
	return ReadTrainingTable(f, delimiterFor(path), opts)
}

// ReadTrainingTable parses a training table from r.
func ReadTrainingTable(r io.Reader, comma rune, opts TrainingParseOptions) (TrainingTable, error) {
	reader := csv.NewReader(r)
	reader.Comma = comma
	reader.FieldsPerRecord = -1
	row, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return TrainingTable{}, errors.New("empty training table")
		}
		return TrainingTable{}, fmt.Errorf("read header: %w", err)
	}
	header := make([]string, len(row))
	for i, cell := range row {
		header[i] = cleanCell(cell)
	}

	labelCol := -1
	if strings.TrimSpace(opts.LabelColumn) != "" {
		idx, _, err := matchExplicitColumn(header, opts.LabelColumn)
		if err != nil {
			return TrainingTable{}, fmt.Errorf("label column: %w", err)
		}
		labelCol = idx
	} else {
		labelCol = findColumn(header, getColumnCandidates().Label)
	}
	if labelCol < 0 {
		return TrainingTable{}, errors.New("no label column found")
	}

	drop := make(map[int]struct{}, len(opts.DropColumns)+2)
	drop[labelCol] = struct{}{}
	for i, name := range header {
		if isArtifactColumn(name) {
			drop[i] = struct{}{}
			continue
		}
		for _, extra := range opts.DropColumns {
			if strings.EqualFold(name, strings.TrimSpace(extra)) {
				drop[i] = struct{}{}
			}
		}
	}
	table := TrainingTable{Symptoms: make([]string, 0, len(header))}
	for i, name := range header {
		if _, skip := drop[i]; skip {
			continue
		}
		table.Symptoms = append(table.Symptoms, name)
	}
	if len(table.Symptoms) == 0 {
		return TrainingTable{}, errors.New("training table has no symptom columns")
	}

	for line := 2; ; line++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return TrainingTable{}, fmt.Errorf("row %d: %w", line, err)
		}
		if labelCol >= len(record) {
			continue
		}
		if label := cleanCell(record[labelCol]); label != "" {
			table.Labels = append(table.Labels, label)
		}
	}
	return table, nil
}

// ParseSuggestionTable reads disease/suggestion rows from a CSV/TSV file.
func ParseSuggestionTable(path string, opts SuggestionParseOptions) ([]SuggestionRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", filepath.Base(path), err)
	}
	defer f.Close()
	return ReadSuggestionRows(f, delimiterFor(path), opts)
}

// ReadSuggestionRows parses disease/suggestion rows from r. Rows keep file order.
func ReadSuggestionRows(r io.Reader, comma rune, opts SuggestionParseOptions) ([]SuggestionRow, error) {
	reader := csv.NewReader(r)
	reader.Comma = comma
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read suggestion table: %w", err)
	}
	if len(rows) == 0 {
		return nil, errors.New("empty suggestion table")
	}
	header := make([]string, len(rows[0]))
	for i, cell := range rows[0] {
		header[i] = cleanCell(cell)
	}
	candidates := getColumnCandidates()
	diseaseCol, err := pickColumn(header, opts.DiseaseColumn, candidates.Disease)
	if err != nil {
		return nil, fmt.Errorf("disease column: %w", err)
	}
	suggestionCol, err := pickColumn(header, opts.SuggestionColumn, candidates.Suggestion)
	if err != nil {
		return nil, fmt.Errorf("suggestion column: %w", err)
	}
	if diseaseCol.Index < 0 {
		return nil, errors.New("no disease column found")
	}
	if suggestionCol.Index < 0 {
		return nil, errors.New("no suggestion column found")
	}
	out := make([]SuggestionRow, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if diseaseCol.Index >= len(row) || suggestionCol.Index >= len(row) {
			continue
		}
		disease := cleanCell(row[diseaseCol.Index])
		suggestion := cleanCell(row[suggestionCol.Index])
		if disease == "" || suggestion == "" {
			continue
		}
		out = append(out, SuggestionRow{Disease: disease, Suggestion: suggestion})
	}
	return out, nil
}

// ParseClassList reads one class label per line, in classifier order.
func ParseClassList(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open class list: %w", err)
	}
	defer f.Close()
	var out []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := cleanCell(scanner.Text())
		if line == "" {
			continue
		}
		out = append(out, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan class list: %w", err)
	}
	if len(out) == 0 {
		return nil, errors.New("class list is empty")
	}
	return out, nil
}

// ClassesFromLabels returns the sorted unique labels.
func ClassesFromLabels(labels []string) []string {
	seen := make(map[string]struct{}, len(labels))
	out := make([]string, 0)
	for _, label := range labels {
		if _, ok := seen[label]; ok {
			continue
		}
		seen[label] = struct{}{}
		out = append(out, label)
	}
	sort.Strings(out)
	return out
}

func delimiterFor(path string) rune {
	if strings.EqualFold(filepath.Ext(path), ".tsv") {
		return '\t'
	}
	return ','
}

func cleanCell(v string) string {
	v = strings.TrimSpace(v)
	v = strings.TrimPrefix(v, "\ufeff")
	return v
}

func findColumn(header []string, candidates []string) int {
	for _, cand := range candidates {
		for i, col := range header {
			if strings.EqualFold(col, cand) {
				return i
			}
		}
	}
	return -1
}

type columnResult struct {
	Index      int
	FromHeader bool
}

func pickColumn(header []string, explicit string, candidates []string) (columnResult, error) {
	res := columnResult{Index: -1}
	if strings.TrimSpace(explicit) != "" {
		idx, fromHeader, err := matchExplicitColumn(header, explicit)
		if err != nil {
			return res, err
		}
		res.Index = idx
		res.FromHeader = fromHeader
		return res, nil
	}
	idx := findColumn(header, candidates)
	if idx >= 0 {
		res.Index = idx
		res.FromHeader = true
	}
	return res, nil
}

func matchExplicitColumn(header []string, explicit string) (int, bool, error) {
	trimmed := strings.TrimSpace(explicit)
	if trimmed == "" {
		return -1, false, nil
	}
	for i, col := range header {
		if strings.EqualFold(col, trimmed) {
			return i, true, nil
		}
	}
	if strings.HasPrefix(trimmed, "#") {
		idx, err := parseColumnIndex(trimmed)
		if err != nil {
			return -1, false, err
		}
		if idx >= len(header) {
			return -1, false, fmt.Errorf("column index %s is out of range", trimmed)
		}
		return idx, false, nil
	}
	return -1, false, fmt.Errorf("column %q not found", explicit)
}

func parseColumnIndex(token string) (int, error) {
	trimmed := strings.TrimSpace(strings.TrimPrefix(token, "#"))
	if trimmed == "" {
		return -1, fmt.Errorf("invalid column index %q", token)
	}
	idx, err := strconv.Atoi(trimmed)
	if err != nil {
		return -1, fmt.Errorf("invalid column index %q", token)
	}
	if idx <= 0 {
		return -1, fmt.Errorf("column indices are 1-based: %q", token)
	}
	return idx - 1, nil
}
