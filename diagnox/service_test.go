package diagnox

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedTime = time.Date(2026, 3, 2, 9, 30, 0, 0, time.UTC)

func newTestService(t *testing.T, clf *fakeClassifier) *Service {
	t.Helper()
	table := NewSuggestionTable([]SuggestionRow{
		{Disease: "Flu", Suggestion: "Rest"},
		{Disease: "flu", Suggestion: "Drink fluids"},
		{Disease: "Cold", Suggestion: "Warm tea"},
	})
	svc, err := NewService(testCatalog(t), clf, table, Config{}, zerolog.Nop(),
		WithClock(func() time.Time { return fixedTime }),
		WithIDGenerator(func() string { return "report-1" }),
	)
	require.NoError(t, err)
	return svc
}

func fluClassifier() *fakeClassifier {
	return newFakeClassifier([]string{"Cold", "Flu", "Migraine"}, []float64{0.10, 0.82, 0.08})
}

func TestPredictFlu(t *testing.T) {
	clf := fluClassifier()
	svc := newTestService(t, clf)

	res, err := svc.Predict(t.Context(), []string{"fever", "headache"})
	require.NoError(t, err)
	assert.Equal(t, FeatureVector{1, 0, 1}, clf.LastCall())
	assert.Equal(t, "Flu", res.Label)
	assert.Equal(t, []string{"fever", "headache"}, res.Symptoms)
	assert.Equal(t, []string{"Rest", "Drink fluids"}, res.Suggestions.Items)
	assert.False(t, res.Suggestions.Fallback)
}

func TestAnalyzeFlu(t *testing.T) {
	clf := fluClassifier()
	svc := newTestService(t, clf)

	res, err := svc.Analyze(t.Context(), AnalysisRequest{
		Symptoms: []string{"headache", "fever"},
		Severity: SeveritySevere,
		TopK:     2,
	})
	require.NoError(t, err)
	assert.Equal(t, FeatureVector{1, 0, 1}, clf.LastCall())
	assert.Equal(t, "report-1", res.ID)
	assert.Equal(t, fixedTime, res.GeneratedAt)
	assert.Equal(t, SeveritySevere, res.Severity)
	require.Len(t, res.Predictions, 2)

	assert.Equal(t, "Flu", res.Predictions[0].Label)
	assert.InDelta(t, 0.82, res.Predictions[0].Probability, 1e-9)
	assert.Equal(t, []string{"Rest", "Drink fluids"}, res.Predictions[0].Suggestions.Items)
	assert.Equal(t, "Cold", res.Predictions[1].Label)
	assert.Equal(t, []string{"Warm tea"}, res.Predictions[1].Suggestions.Items)
}

func TestAnalyzeUsesConfiguredTopKAndFallback(t *testing.T) {
	svc := newTestService(t, fluClassifier())
	res, err := svc.Analyze(t.Context(), AnalysisRequest{Symptoms: []string{"cough"}})
	require.NoError(t, err)
	require.Len(t, res.Predictions, 3)
	assert.Equal(t, SeverityMild, res.Severity)

	migraine := res.Predictions[2]
	assert.Equal(t, "Migraine", migraine.Label)
	assert.True(t, migraine.Suggestions.Fallback)
	assert.Equal(t, []string{FallbackSuggestion}, migraine.Suggestions.Items)
}

func TestEmptySelectionNeverReachesClassifier(t *testing.T) {
	clf := fluClassifier()
	svc := newTestService(t, clf)

	for _, symptoms := range [][]string{nil, {}, {"", "  "}} {
		_, err := svc.Predict(t.Context(), symptoms)
		assert.ErrorIs(t, err, ErrNoSymptoms)
		_, err = svc.Analyze(t.Context(), AnalysisRequest{Symptoms: symptoms})
		assert.ErrorIs(t, err, ErrNoSymptoms)
	}
	assert.Equal(t, 0, clf.CallCount())
}

func TestUnknownSymptomsAreIgnored(t *testing.T) {
	clf := fluClassifier()
	svc := newTestService(t, clf)

	_, err := svc.Predict(t.Context(), []string{"fever", "not_a_real_symptom"})
	require.NoError(t, err)
	assert.Equal(t, FeatureVector{1, 0, 0}, clf.LastCall())
}

func TestAnalyzeRejectsUnknownSeverity(t *testing.T) {
	clf := fluClassifier()
	svc := newTestService(t, clf)
	_, err := svc.Analyze(t.Context(), AnalysisRequest{Symptoms: []string{"fever"}, Severity: Severity(9)})
	assert.ErrorIs(t, err, ErrUnknownSeverity)
	assert.Equal(t, 0, clf.CallCount())
}

func TestClassifierFailureIsInferenceError(t *testing.T) {
	clf := fluClassifier()
	clf.err = errors.New("session closed")
	svc := newTestService(t, clf)

	_, err := svc.Predict(t.Context(), []string{"fever"})
	var inferenceErr *InferenceError
	require.ErrorAs(t, err, &inferenceErr)
	assert.Equal(t, "predict", inferenceErr.Op)

	_, err = svc.Analyze(t.Context(), AnalysisRequest{Symptoms: []string{"fever"}})
	require.ErrorAs(t, err, &inferenceErr)
	assert.Equal(t, "predict_proba", inferenceErr.Op)
}

func TestClassifierPanicIsRecovered(t *testing.T) {
	clf := fluClassifier()
	clf.panics = true
	svc := newTestService(t, clf)

	_, err := svc.Analyze(t.Context(), AnalysisRequest{Symptoms: []string{"fever"}})
	var inferenceErr *InferenceError
	require.ErrorAs(t, err, &inferenceErr)
	assert.Contains(t, err.Error(), "model exploded")
}

func TestMalformedProbabilitiesAreRejected(t *testing.T) {
	clf := newFakeClassifier([]string{"Cold", "Flu", "Migraine"}, []float64{0.5, 0.9, 0.1})
	svc := newTestService(t, clf)
	_, err := svc.Analyze(t.Context(), AnalysisRequest{Symptoms: []string{"fever"}})
	var inferenceErr *InferenceError
	assert.ErrorAs(t, err, &inferenceErr)

	clf.probs = []float64{0.5, 0.5}
	_, err = svc.Analyze(t.Context(), AnalysisRequest{Symptoms: []string{"fever"}})
	assert.ErrorAs(t, err, &inferenceErr)
}

func TestNewServiceValidatesInputs(t *testing.T) {
	table := NewSuggestionTable(nil)
	_, err := NewService(nil, fluClassifier(), table, Config{}, zerolog.Nop())
	assert.Error(t, err)
	_, err = NewService(testCatalog(t), nil, table, Config{}, zerolog.Nop())
	assert.Error(t, err)
	_, err = NewService(testCatalog(t), fluClassifier(), nil, Config{}, zerolog.Nop())
	assert.Error(t, err)
	_, err = NewService(testCatalog(t), newFakeClassifier(nil, nil), table, Config{}, zerolog.Nop())
	assert.Error(t, err)
}

func TestConcurrentAnalysesAreIndependent(t *testing.T) {
	svc := newTestService(t, fluClassifier())
	var wg sync.WaitGroup
	results := make([]AnalysisResult, 16)
	errs := make([]error, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			sev := Severities()[i%3]
			results[i], errs[i] = svc.Analyze(t.Context(), AnalysisRequest{Symptoms: []string{"fever"}, Severity: sev})
		}(i)
	}
	wg.Wait()
	for i, res := range results {
		require.NoError(t, errs[i])
		assert.Equal(t, Severities()[i%3], res.Severity)
		assert.Equal(t, "Flu", res.Predictions[0].Label)
	}
}

func TestServiceCloseClosesClassifier(t *testing.T) {
	clf := fluClassifier()
	svc := newTestService(t, clf)
	require.NoError(t, svc.Close())
	assert.True(t, clf.closed)
}

func TestPredictKeepsColumnsSharingAKey(t *testing.T) {
	catalog, err := NewCatalog([]string{"skin_rash", "skin rash", "fever"})
	require.NoError(t, err)
	clf := fluClassifier()
	svc, err := NewService(catalog, clf, NewSuggestionTable(nil), Config{}, zerolog.Nop())
	require.NoError(t, err)

	_, err = svc.Predict(t.Context(), []string{"skin_rash", "skin rash"})
	require.NoError(t, err)
	assert.Equal(t, FeatureVector{1, 1, 0}, clf.LastCall())
}
