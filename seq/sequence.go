package seq

import (
	"context"
	"iter"
	"slices"
)

// Sequence is a lazy, re-iterable source of elements.
// No work happens until a terminal operation pulls values.
type Sequence[T any] struct {
	create func(ctx context.Context) Iterator[T]
}

// Iter returns a fresh cursor over one pass. The caller must Close it.
func (s *Sequence[T]) Iter(ctx context.Context) Iterator[T] {
	return s.create(ctx)
}

// --- Constructors ---

// Of creates a sequence over the given elements.
func Of[T any](items ...T) *Sequence[T] {
	return FromSlice(items)
}

// FromSlice creates a sequence over items. The slice is read on every pass,
// so later changes to it are visible; use CopyOf for a snapshot.
func FromSlice[T any](items []T) *Sequence[T] {
	return &Sequence[T]{
		create: func(_ context.Context) Iterator[T] {
			return newCursor[T](&sliceStep[T]{items: items})
		},
	}
}

// CopyOf creates a sequence over a snapshot of items taken immediately.
func CopyOf[T any](items iter.Seq[T]) *Sequence[T] {
	return FromSlice(slices.Collect(items))
}

// Empty creates a sequence with no elements.
func Empty[T any]() *Sequence[T] {
	return &Sequence[T]{
		create: func(_ context.Context) Iterator[T] {
			return newCursor[T](emptyStep[T]{})
		},
	}
}

// Range creates the inclusive integer range from..to, ascending when
// from <= to and descending otherwise. Any pair of int bounds is valid.
func Range(from, to int) *Sequence[int] {
	if from <= to {
		span := uint(to) - uint(from)
		return Generate(from, func(n int) int { return n + 1 }, func(p int) bool { return uint(p) <= span })
	}
	span := uint(from) - uint(to)
	return Generate(from, func(n int) int { return n - 1 }, func(p int) bool { return uint(p) <= span })
}

// Iterate yields n elements: seed, next(seed), next(next(seed)), ...
func Iterate[T any](seed T, next func(T) T, n int) *Sequence[T] {
	return Generate(seed, next, func(position int) bool { return position < n })
}

// Generate yields seed, next(seed), next(next(seed)), ... for as long as
// more reports true for the zero-based position of the element to yield.
// A predicate that always returns true produces an unbounded sequence.
func Generate[T any](seed T, next func(T) T, more func(position int) bool) *Sequence[T] {
	return &Sequence[T]{
		create: func(_ context.Context) Iterator[T] {
			return newCursor[T](&generateStep[T]{current: seed, next: next, more: more})
		},
	}
}

// Repeat calls supplier n times per pass.
func Repeat[T any](supplier func() T, n int) *Sequence[T] {
	return &Sequence[T]{
		create: func(_ context.Context) Iterator[T] {
			return newCursor[T](&repeatStep[T]{supplier: supplier, remaining: n})
		},
	}
}

// FromSeq adapts a range-over-func iterator. Each pass pulls a new iteration
// of it; closing the cursor stops that iteration.
func FromSeq[T any](items iter.Seq[T]) *Sequence[T] {
	return &Sequence[T]{
		create: func(_ context.Context) Iterator[T] {
			return newCursor[T](&pullStep[T]{seq: items})
		},
	}
}

// FromFunc creates a sequence from a factory that produces a cursor per pass.
func FromFunc[T any](fn func(ctx context.Context) Iterator[T]) *Sequence[T] {
	return &Sequence[T]{create: fn}
}

// --- Transformations ---

// Filter keeps only elements that satisfy fn.
func (s *Sequence[T]) Filter(fn func(T) bool) *Sequence[T] {
	return s.FilterIndexed(func(v T, _ int) bool { return fn(v) })
}

// FilterIndexed keeps only elements that satisfy fn, which also receives the
// zero-based position of the element in the upstream pass.
func (s *Sequence[T]) FilterIndexed(fn func(T, int) bool) *Sequence[T] {
	return &Sequence[T]{
		create: func(ctx context.Context) Iterator[T] {
			return newCursor[T](&filterStep[T]{source: s.create(ctx), fn: fn})
		},
	}
}

// Limit yields at most n elements. n < 0 behaves as 0.
func (s *Sequence[T]) Limit(n int) *Sequence[T] {
	return &Sequence[T]{
		create: func(ctx context.Context) Iterator[T] {
			return newCursor[T](&limitStep[T]{source: s.create(ctx), n: n})
		},
	}
}

// Skip drops the first n elements of each pass.
func (s *Sequence[T]) Skip(n int) *Sequence[T] {
	return &Sequence[T]{
		create: func(ctx context.Context) Iterator[T] {
			return newCursor[T](&skipStep[T]{source: s.create(ctx), remaining: n})
		},
	}
}

// Concat yields s followed by each of others.
func (s *Sequence[T]) Concat(others ...*Sequence[T]) *Sequence[T] {
	return Join(append([]*Sequence[T]{s}, others...)...)
}

// Append yields s followed by items.
func (s *Sequence[T]) Append(items ...T) *Sequence[T] {
	return Join(s, FromSlice(items))
}

// Peek calls fn for each element as it is pulled, passing it through unchanged.
func (s *Sequence[T]) Peek(fn func(T)) *Sequence[T] {
	return &Sequence[T]{
		create: func(ctx context.Context) Iterator[T] {
			return newCursor[T](&peekStep[T]{source: s.create(ctx), fn: fn})
		},
	}
}

// OrderBy stably sorts elements using cmp. The whole upstream pass is
// buffered on the first pull.
func (s *Sequence[T]) OrderBy(cmp func(a, b T) int) *Sequence[T] {
	return s.arranged(func(items []T) { slices.SortStableFunc(items, cmp) })
}

// OrderByDescending stably sorts elements in the reverse order of cmp.
func (s *Sequence[T]) OrderByDescending(cmp func(a, b T) int) *Sequence[T] {
	return s.arranged(func(items []T) {
		slices.SortStableFunc(items, func(a, b T) int { return cmp(b, a) })
	})
}

// Reverse yields the elements of each pass in reverse order.
func (s *Sequence[T]) Reverse() *Sequence[T] {
	return s.arranged(func(items []T) { slices.Reverse(items) })
}

// Save memoizes s. The upstream is pulled at most once in total; every pass
// replays what earlier passes observed and continues from where they stopped.
func (s *Sequence[T]) Save() *Sequence[T] {
	return newMemo(s, nil).sequence()
}

// Split partitions s by preds. It returns len(preds)+1 sequences: one per
// predicate, in order, followed by the elements matching none of them. An
// element matching several predicates appears in each of their branches.
// The upstream is pulled at most once in total, and only as far as the
// branches being consumed require.
func (s *Sequence[T]) Split(preds ...func(T) bool) []*Sequence[T] {
	indexed := make([]func(T, int) bool, len(preds))
	for i, p := range preds {
		indexed[i] = func(v T, _ int) bool { return p(v) }
	}
	return s.SplitIndexed(indexed...)
}

// SplitIndexed is Split with predicates that also receive the zero-based
// upstream position of the element.
func (s *Sequence[T]) SplitIndexed(preds ...func(T, int) bool) []*Sequence[T] {
	return newSplitter(s, slices.Clone(preds)).branches()
}
