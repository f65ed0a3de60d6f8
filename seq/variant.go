package seq

import "context"

// FilterMap keeps the elements for which fn reports true, replacing each
// with the value fn returns. It is the type-safe way to narrow a sequence of
// variants to one case.
func FilterMap[T, R any](s *Sequence[T], fn func(T) (R, bool)) *Sequence[R] {
	return &Sequence[R]{
		create: func(ctx context.Context) Iterator[R] {
			return newCursor[R](&filterMapStep[T, R]{source: s.create(ctx), fn: fn})
		},
	}
}

// OfType keeps the elements whose dynamic type is R, typed as R.
//
//	circles := seq.OfType[Circle](shapes)
func OfType[R, T any](s *Sequence[T]) *Sequence[R] {
	return FilterMap(s, func(v T) (R, bool) {
		r, ok := any(v).(R)
		return r, ok
	})
}

type filterMapStep[T, R any] struct {
	source Iterator[T]
	fn     func(T) (R, bool)
}

func (it *filterMapStep[T, R]) step(ctx context.Context) (R, bool, error) {
	for {
		val, ok, err := pull(ctx, it.source)
		if err != nil || !ok {
			var zero R
			return zero, false, err
		}
		if out, keep := it.fn(val); keep {
			return out, true, nil
		}
	}
}

func (it *filterMapStep[T, R]) Close() error { return it.source.Close() }
