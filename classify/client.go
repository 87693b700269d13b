package classify

import "context"

// Classifier scores a batch of texts, returning the positive-class
// ("examination paper") probability for each item in order.
type Classifier interface {
	PredictProba(ctx context.Context, texts []string) ([]float64, error)
}

// Decide applies the probability threshold. The comparison is strictly
// greater: a probability exactly equal to the threshold yields 0.
func Decide(probability, threshold float64) int {
	if probability > threshold {
		return 1
	}
	return 0
}
