// Package refiner improves the best-scoring prompt of a run with a
// critique-and-improve meta-request.
package refiner

import "context"

// Refiner rewrites a prompt given its test output and score. It never fails:
// when the model cannot be reached the original prompt is returned unchanged.
type Refiner interface {
	Refine(ctx context.Context, prompt, output string, score int) string
}
