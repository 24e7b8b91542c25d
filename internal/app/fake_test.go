package app

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"yashubustudio/diagnox/diagnox"
)

type stubClassifier struct {
	mu    sync.Mutex
	fail  bool
	calls int
}

func (s *stubClassifier) Predict(ctx context.Context, vec diagnox.FeatureVector) (string, error) {
	_, err := s.PredictProba(ctx, vec)
	if err != nil {
		return "", err
	}
	return "Flu", nil
}

func (s *stubClassifier) PredictProba(context.Context, diagnox.FeatureVector) ([]float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.fail {
		return nil, errors.New("session lost")
	}
	return []float64{0.10, 0.82, 0.08}, nil
}

func (s *stubClassifier) Classes() []string { return []string{"Cold", "Flu", "Migraine"} }

func (s *stubClassifier) Close() error { return nil }

func (s *stubClassifier) setFail(fail bool) {
	s.mu.Lock()
	s.fail = fail
	s.mu.Unlock()
}

func (s *stubClassifier) CallCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func newTestService(t *testing.T) (*diagnox.Service, *stubClassifier) {
	t.Helper()
	catalog, err := diagnox.NewCatalog([]string{"fever", "cough", "headache"})
	require.NoError(t, err)
	table := diagnox.NewSuggestionTable([]diagnox.SuggestionRow{{Disease: "Flu", Suggestion: "Rest"}})
	clf := &stubClassifier{}
	svc, err := diagnox.NewService(catalog, clf, table, diagnox.Config{}, zerolog.Nop(),
		diagnox.WithClock(func() time.Time { return time.Date(2026, 3, 2, 9, 30, 0, 0, time.UTC) }),
	)
	require.NoError(t, err)
	return svc, clf
}
