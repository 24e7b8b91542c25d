package diagnox

import (
	"context"
	"errors"
)

// Classifier exposes the minimal surface required by the service layer. The
// probability row returned by PredictProba is aligned with Classes().
type Classifier interface {
	Predict(ctx context.Context, vec FeatureVector) (string, error)
	PredictProba(ctx context.Context, vec FeatureVector) ([]float64, error)
	Classes() []string
	Close() error
}

// predictFromProba resolves the arg-max of a probability row to its label.
func predictFromProba(probs []float64, classes []string) (string, error) {
	idx := ArgMax(probs)
	if idx < 0 || idx >= len(classes) {
		return "", errors.New("probability row does not match classes")
	}
	return classes[idx], nil
}
