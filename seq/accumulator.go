package seq

import "context"

// Accumulator is a stateful left fold: a seed plus a combining function.
// One instance serves a single reduction at a time; ReduceAll resets it
// before use.
type Accumulator[T, R any] struct {
	seed  R
	value R
	fn    func(R, T) R
}

// NewAccumulator creates an accumulator starting at seed.
func NewAccumulator[T, R any](seed R, fn func(R, T) R) *Accumulator[T, R] {
	return &Accumulator[T, R]{seed: seed, value: seed, fn: fn}
}

// Apply folds v into the running value and returns it.
func (a *Accumulator[T, R]) Apply(v T) R {
	a.value = a.fn(a.value, v)
	return a.value
}

// Value returns the running value.
func (a *Accumulator[T, R]) Value() R { return a.value }

// Reset restores the running value to the seed.
func (a *Accumulator[T, R]) Reset() { a.value = a.seed }

// ReduceAll resets every accumulator, feeds each element of one pass to all
// of them, and returns their final values in argument order.
func ReduceAll[T, R any](ctx context.Context, s *Sequence[T], accs ...*Accumulator[T, R]) ([]R, error) {
	for _, a := range accs {
		a.Reset()
	}
	err := s.each(ctx, func(v T) bool {
		for _, a := range accs {
			a.Apply(v)
		}
		return true
	})
	results := make([]R, len(accs))
	for i, a := range accs {
		results[i] = a.Value()
	}
	return results, err
}
