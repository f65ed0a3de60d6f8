package seq

import (
	"cmp"
	"context"
	"iter"

	"golang.org/x/exp/constraints"

	"github.com/kbukum/seqkit/errors"
)

// Number is any integer or floating-point type usable by Sum and Average.
type Number interface {
	constraints.Integer | constraints.Float
}

// each drives one fresh cursor, calling fn until it returns false or the
// pass is exhausted.
func (s *Sequence[T]) each(ctx context.Context, fn func(T) bool) error {
	it := s.create(ctx)
	defer it.Close()
	for {
		ok, err := it.HasNext(ctx)
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		if !fn(it.Next()) {
			return nil
		}
	}
}

// ToSlice runs one pass and returns all elements. On error the elements
// pulled so far are returned with it.
func (s *Sequence[T]) ToSlice(ctx context.Context) ([]T, error) {
	var result []T
	err := s.each(ctx, func(v T) bool {
		result = append(result, v)
		return true
	})
	return result, err
}

// Copy runs one pass and returns a sequence over a snapshot of its elements.
func (s *Sequence[T]) Copy(ctx context.Context) (*Sequence[T], error) {
	items, err := s.ToSlice(ctx)
	if err != nil {
		return nil, err
	}
	return FromSlice(items), nil
}

// ForEach calls fn with each element and its zero-based position.
func (s *Sequence[T]) ForEach(ctx context.Context, fn func(T, int)) error {
	i := 0
	return s.each(ctx, func(v T) bool {
		fn(v, i)
		i++
		return true
	})
}

// Count returns the number of elements in one pass.
func (s *Sequence[T]) Count(ctx context.Context) (int, error) {
	n := 0
	err := s.each(ctx, func(T) bool {
		n++
		return true
	})
	return n, err
}

// IsEmpty reports whether the sequence has no elements. It pulls at most one.
func (s *Sequence[T]) IsEmpty(ctx context.Context) (bool, error) {
	_, ok, err := s.FindFirst(ctx)
	return !ok, err
}

// FindFirst returns the first element, or false if there is none.
func (s *Sequence[T]) FindFirst(ctx context.Context) (T, bool, error) {
	var (
		first T
		found bool
	)
	err := s.each(ctx, func(v T) bool {
		first, found = v, true
		return false
	})
	return first, found, err
}

// FindLast returns the last element, or false if there is none.
func (s *Sequence[T]) FindLast(ctx context.Context) (T, bool, error) {
	var (
		last  T
		found bool
	)
	err := s.each(ctx, func(v T) bool {
		last, found = v, true
		return true
	})
	return last, found, err
}

// FindSingle returns the only element, false if there is none, or an error
// matching errors.ErrTooManyElements if there is more than one. It pulls at
// most two elements.
func (s *Sequence[T]) FindSingle(ctx context.Context) (T, bool, error) {
	var zero T
	many, err := s.SizeIsGreaterThan(ctx, 1)
	if err != nil {
		return zero, false, err
	}
	if many {
		return zero, false, errors.TooManyElements()
	}
	return s.FindFirst(ctx)
}

// SizeIsExactly reports whether the sequence has exactly n elements.
// It pulls at most n+1 elements, so it is safe on unbounded sequences.
func (s *Sequence[T]) SizeIsExactly(ctx context.Context, n int) (bool, error) {
	count, err := s.Limit(n+1).Count(ctx)
	return count == n, err
}

// SizeIsGreaterThan reports whether the sequence has more than n elements.
// It pulls at most n+1 elements.
func (s *Sequence[T]) SizeIsGreaterThan(ctx context.Context, n int) (bool, error) {
	count, err := s.Limit(n+1).Count(ctx)
	return count == n+1, err
}

// SizeIsLessThan reports whether the sequence has fewer than n elements.
// It pulls at most n elements.
func (s *Sequence[T]) SizeIsLessThan(ctx context.Context, n int) (bool, error) {
	count, err := s.Limit(n).Count(ctx)
	return count < n, err
}

// AllMatch reports whether every element satisfies fn. It stops at the
// first element that does not.
func (s *Sequence[T]) AllMatch(ctx context.Context, fn func(T) bool) (bool, error) {
	all := true
	err := s.each(ctx, func(v T) bool {
		all = fn(v)
		return all
	})
	return all, err
}

// AnyMatch reports whether some element satisfies fn. It stops at the first
// element that does.
func (s *Sequence[T]) AnyMatch(ctx context.Context, fn func(T) bool) (bool, error) {
	found := false
	err := s.each(ctx, func(v T) bool {
		found = fn(v)
		return !found
	})
	return found, err
}

// NoneMatch reports whether no element satisfies fn.
func (s *Sequence[T]) NoneMatch(ctx context.Context, fn func(T) bool) (bool, error) {
	found, err := s.AnyMatch(ctx, fn)
	return !found, err
}

// All returns a range-over-func view of one pass. Iteration stops silently
// on error; use All2 to observe it.
func (s *Sequence[T]) All(ctx context.Context) iter.Seq[T] {
	return func(yield func(T) bool) {
		_ = s.each(ctx, yield)
	}
}

// All2 returns a range-over-func view of one pass that reports a terminating
// error as a final (zero, err) pair.
func (s *Sequence[T]) All2(ctx context.Context) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		stopped := false
		err := s.each(ctx, func(v T) bool {
			if !yield(v, nil) {
				stopped = true
				return false
			}
			return true
		})
		if err != nil && !stopped {
			var zero T
			yield(zero, err)
		}
	}
}

// --- Generic terminals ---

// Reduce folds all elements into a single result, starting from seed.
func Reduce[T, R any](ctx context.Context, s *Sequence[T], seed R, fn func(R, T) R) (R, error) {
	acc := seed
	err := s.each(ctx, func(v T) bool {
		acc = fn(acc, v)
		return true
	})
	return acc, err
}

// Contains reports whether the sequence holds an element equal to target.
func Contains[T comparable](ctx context.Context, s *Sequence[T], target T) (bool, error) {
	return s.AnyMatch(ctx, func(v T) bool { return v == target })
}

// Min returns the first element with the smallest key, or false if empty.
func Min[T any, K cmp.Ordered](ctx context.Context, s *Sequence[T], key func(T) K) (T, bool, error) {
	return extreme(ctx, s, key, func(candidate, best K) bool { return candidate < best })
}

// Max returns the first element with the largest key, or false if empty.
func Max[T any, K cmp.Ordered](ctx context.Context, s *Sequence[T], key func(T) K) (T, bool, error) {
	return extreme(ctx, s, key, func(candidate, best K) bool { return candidate > best })
}

func extreme[T any, K cmp.Ordered](ctx context.Context, s *Sequence[T], key func(T) K, better func(K, K) bool) (T, bool, error) {
	var (
		best    T
		bestKey K
		found   bool
	)
	err := s.each(ctx, func(v T) bool {
		k := key(v)
		if !found || better(k, bestKey) {
			best, bestKey, found = v, k, true
		}
		return true
	})
	if err != nil {
		var zero T
		return zero, false, err
	}
	return best, found, nil
}

// Sum adds widen(x) over all elements. It returns false for an empty sequence.
func Sum[T any, N Number](ctx context.Context, s *Sequence[T], widen func(T) N) (N, bool, error) {
	var (
		total N
		found bool
	)
	err := s.each(ctx, func(v T) bool {
		total += widen(v)
		found = true
		return true
	})
	if err != nil {
		return 0, false, err
	}
	return total, found, nil
}

// Average returns the arithmetic mean of widen(x) over all elements in a
// single pass. It returns false for an empty sequence.
func Average[T any, N Number](ctx context.Context, s *Sequence[T], widen func(T) N) (float64, bool, error) {
	total := NewAccumulator(0.0, func(acc float64, v T) float64 { return acc + float64(widen(v)) })
	count := NewAccumulator(0.0, func(acc float64, _ T) float64 { return acc + 1 })
	results, err := ReduceAll(ctx, s, total, count)
	if err != nil {
		return 0, false, err
	}
	if results[1] == 0 {
		return 0, false, nil
	}
	return results[0] / results[1], true, nil
}

// GroupBy runs one pass and groups elements by key. Within a group elements
// keep their sequence order.
func GroupBy[T any, K comparable](ctx context.Context, s *Sequence[T], key func(T) K) (map[K][]T, error) {
	return Collect(ctx, s, GroupingCollector(key))
}
