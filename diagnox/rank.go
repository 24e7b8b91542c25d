package diagnox

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

// ProbabilityTolerance bounds how far a probability row may sum away from 1.
const ProbabilityTolerance = 1e-3

// TopK returns the k most probable classes in descending order. Equal
// probabilities keep the classifier's class order.
func TopK(probs []float64, classes []string, k int) []Prediction {
	n := len(probs)
	if len(classes) < n {
		n = len(classes)
	}
	if n == 0 || k <= 0 {
		return nil
	}
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		return probs[order[i]] > probs[order[j]]
	})
	if k > n {
		k = n
	}
	out := make([]Prediction, k)
	for i := 0; i < k; i++ {
		idx := order[i]
		out[i] = Prediction{Label: classes[idx], Probability: probs[idx]}
	}
	return out
}

// ArgMax returns the index of the largest probability, the first on ties.
func ArgMax(probs []float64) int {
	best := -1
	for i, p := range probs {
		if best < 0 || p > probs[best] {
			best = i
		}
	}
	return best
}

// ValidateProbabilities checks that a row is a distribution over classes.
func ValidateProbabilities(probs []float64, classes int) error {
	if len(probs) != classes {
		return fmt.Errorf("got %d probabilities for %d classes", len(probs), classes)
	}
	if classes == 0 {
		return errors.New("classifier has no classes")
	}
	var sum float64
	for i, p := range probs {
		if math.IsNaN(p) || math.IsInf(p, 0) || p < 0 {
			return fmt.Errorf("invalid probability %v at class %d", p, i)
		}
		sum += p
	}
	if math.Abs(sum-1) > ProbabilityTolerance {
		return fmt.Errorf("probabilities sum to %.6f", sum)
	}
	return nil
}
