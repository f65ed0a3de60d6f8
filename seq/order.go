package seq

import (
	"cmp"
	"context"
)

// OrderByKey stably sorts elements by ascending key.
func OrderByKey[T any, K cmp.Ordered](s *Sequence[T], key func(T) K) *Sequence[T] {
	return s.OrderBy(func(a, b T) int { return cmp.Compare(key(a), key(b)) })
}

// OrderByKeyDescending stably sorts elements by descending key.
func OrderByKeyDescending[T any, K cmp.Ordered](s *Sequence[T], key func(T) K) *Sequence[T] {
	return s.OrderByDescending(func(a, b T) int { return cmp.Compare(key(a), key(b)) })
}

// orderStep drains the whole upstream pass on its first step, rearranges
// the drained elements, then replays them.
type orderStep[T any] struct {
	source  Iterator[T]
	arrange func([]T)
	items   []T
	index   int
	loaded  bool
}

func (it *orderStep[T]) step(ctx context.Context) (T, bool, error) {
	if !it.loaded {
		for {
			val, ok, err := pull(ctx, it.source)
			if err != nil {
				var zero T
				return zero, false, err
			}
			if !ok {
				break
			}
			it.items = append(it.items, val)
		}
		it.arrange(it.items)
		it.loaded = true
	}
	if it.index >= len(it.items) {
		var zero T
		return zero, false, nil
	}
	val := it.items[it.index]
	it.index++
	return val, true, nil
}

func (it *orderStep[T]) Close() error { return it.source.Close() }

func (s *Sequence[T]) arranged(arrange func([]T)) *Sequence[T] {
	return &Sequence[T]{
		create: func(ctx context.Context) Iterator[T] {
			return newCursor[T](&orderStep[T]{source: s.create(ctx), arrange: arrange})
		},
	}
}
