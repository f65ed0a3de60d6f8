package seq

import (
	"context"
	"strings"
)

// Collector describes how to build a result from a pass: Supply creates the
// mutable container, Accumulate adds one element, and Finish converts the
// container into the result.
type Collector[T, A, R any] struct {
	Supply     func() A
	Accumulate func(A, T) A
	Finish     func(A) R
}

// Collect runs one pass through c.
func Collect[T, A, R any](ctx context.Context, s *Sequence[T], c Collector[T, A, R]) (R, error) {
	container := c.Supply()
	err := s.each(ctx, func(v T) bool {
		container = c.Accumulate(container, v)
		return true
	})
	if err != nil {
		var zero R
		return zero, err
	}
	return c.Finish(container), nil
}

func identity[A any](a A) A { return a }

// ToSliceCollector collects elements into a slice.
func ToSliceCollector[T any]() Collector[T, []T, []T] {
	return Collector[T, []T, []T]{
		Supply:     func() []T { return nil },
		Accumulate: func(acc []T, v T) []T { return append(acc, v) },
		Finish:     identity[[]T],
	}
}

// ToSetCollector collects distinct elements into a set.
func ToSetCollector[T comparable]() Collector[T, map[T]struct{}, map[T]struct{}] {
	return Collector[T, map[T]struct{}, map[T]struct{}]{
		Supply: func() map[T]struct{} { return make(map[T]struct{}) },
		Accumulate: func(acc map[T]struct{}, v T) map[T]struct{} {
			acc[v] = struct{}{}
			return acc
		},
		Finish: identity[map[T]struct{}],
	}
}

// GroupingCollector groups elements by key, keeping sequence order within
// each group.
func GroupingCollector[T any, K comparable](key func(T) K) Collector[T, map[K][]T, map[K][]T] {
	return Collector[T, map[K][]T, map[K][]T]{
		Supply: func() map[K][]T { return make(map[K][]T) },
		Accumulate: func(acc map[K][]T, v T) map[K][]T {
			k := key(v)
			acc[k] = append(acc[k], v)
			return acc
		},
		Finish: identity[map[K][]T],
	}
}

// JoiningCollector concatenates strings with sep between them.
func JoiningCollector(sep string) Collector[string, []string, string] {
	return Collector[string, []string, string]{
		Supply:     func() []string { return nil },
		Accumulate: func(acc []string, v string) []string { return append(acc, v) },
		Finish:     func(acc []string) string { return strings.Join(acc, sep) },
	}
}
