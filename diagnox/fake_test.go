package diagnox

import (
	"context"
	"sync"
)

// fakeClassifier returns a fixed probability row and records every vector it sees.
type fakeClassifier struct {
	classes []string
	probs   []float64
	err     error
	panics  bool

	mu     sync.Mutex
	calls  []FeatureVector
	closed bool
}

func newFakeClassifier(classes []string, probs []float64) *fakeClassifier {
	return &fakeClassifier{classes: classes, probs: probs}
}

func (f *fakeClassifier) record(vec FeatureVector) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, append(FeatureVector(nil), vec...))
}

func (f *fakeClassifier) Predict(ctx context.Context, vec FeatureVector) (string, error) {
	probs, err := f.PredictProba(ctx, vec)
	if err != nil {
		return "", err
	}
	return predictFromProba(probs, f.classes)
}

func (f *fakeClassifier) PredictProba(_ context.Context, vec FeatureVector) ([]float64, error) {
	f.record(vec)
	if f.panics {
		panic("model exploded")
	}
	if f.err != nil {
		return nil, f.err
	}
	return append([]float64(nil), f.probs...), nil
}

func (f *fakeClassifier) Classes() []string {
	return cloneStrings(f.classes)
}

func (f *fakeClassifier) Close() error {
	f.mu.Lock()
	f.closed = true
	f.mu.Unlock()
	return nil
}

func (f *fakeClassifier) CallCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func (f *fakeClassifier) LastCall() FeatureVector {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.calls) == 0 {
		return nil
	}
	return f.calls[len(f.calls)-1]
}
