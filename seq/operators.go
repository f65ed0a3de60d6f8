package seq

import "context"

// Map transforms each element using fn.
func Map[T, R any](s *Sequence[T], fn func(T) R) *Sequence[R] {
	return &Sequence[R]{
		create: func(ctx context.Context) Iterator[R] {
			return newCursor[R](&mapStep[T, R]{source: s.create(ctx), fn: fn})
		},
	}
}

// FlatMap transforms each element into a slice and flattens the results.
func FlatMap[T, R any](s *Sequence[T], fn func(T) []R) *Sequence[R] {
	return FlatMapSeq(s, func(v T) *Sequence[R] { return FromSlice(fn(v)) })
}

// FlatMapSeq transforms each element into a sequence and flattens the results.
// Inner sequences are consumed one at a time, in order.
func FlatMapSeq[T, R any](s *Sequence[T], fn func(T) *Sequence[R]) *Sequence[R] {
	return &Sequence[R]{
		create: func(ctx context.Context) Iterator[R] {
			return newCursor[R](&flatMapStep[T, R]{source: s.create(ctx), fn: fn})
		},
	}
}

// Join chains sequences end to end. The next sequence is started only after
// the previous one is exhausted.
func Join[T any](seqs ...*Sequence[T]) *Sequence[T] {
	return &Sequence[T]{
		create: func(_ context.Context) Iterator[T] {
			return newCursor[T](&concatStep[T]{seqs: seqs})
		},
	}
}

// Chunk groups consecutive elements into slices of at most size elements.
// The last chunk may be shorter. size <= 0 is treated as 1.
func Chunk[T any](s *Sequence[T], size int) *Sequence[[]T] {
	if size <= 0 {
		size = 1
	}
	return &Sequence[[]T]{
		create: func(ctx context.Context) Iterator[[]T] {
			return newCursor[[]T](&chunkStep[T]{source: s.create(ctx), size: size})
		},
	}
}

// --- Steppers ---

type mapStep[T, R any] struct {
	source Iterator[T]
	fn     func(T) R
}

func (it *mapStep[T, R]) step(ctx context.Context) (result R, ok bool, err error) {
	val, ok, err := pull(ctx, it.source)
	if err != nil || !ok {
		return result, false, err
	}
	return it.fn(val), true, nil
}

func (it *mapStep[T, R]) Close() error { return it.source.Close() }

type filterStep[T any] struct {
	source   Iterator[T]
	fn       func(T, int) bool
	position int
}

func (it *filterStep[T]) step(ctx context.Context) (T, bool, error) {
	for {
		val, ok, err := pull(ctx, it.source)
		if err != nil || !ok {
			return val, false, err
		}
		pos := it.position
		it.position++
		if it.fn(val, pos) {
			return val, true, nil
		}
	}
}

func (it *filterStep[T]) Close() error { return it.source.Close() }

// limitStep checks its budget before asking upstream, so a satisfied limit
// never pulls an extra element.
type limitStep[T any] struct {
	source Iterator[T]
	n      int
	taken  int
}

func (it *limitStep[T]) step(ctx context.Context) (T, bool, error) {
	if it.taken >= it.n {
		var zero T
		return zero, false, nil
	}
	val, ok, err := pull(ctx, it.source)
	if err != nil || !ok {
		return val, false, err
	}
	it.taken++
	return val, true, nil
}

func (it *limitStep[T]) Close() error { return it.source.Close() }

// skipStep counts down as it discards, so a pass that fails partway through
// the skip resumes where it stopped.
type skipStep[T any] struct {
	source    Iterator[T]
	remaining int
}

func (it *skipStep[T]) step(ctx context.Context) (T, bool, error) {
	for it.remaining > 0 {
		_, ok, err := pull(ctx, it.source)
		if err != nil {
			var zero T
			return zero, false, err
		}
		if !ok {
			it.remaining = 0
			break
		}
		it.remaining--
	}
	return pull(ctx, it.source)
}

func (it *skipStep[T]) Close() error { return it.source.Close() }

type peekStep[T any] struct {
	source Iterator[T]
	fn     func(T)
}

func (it *peekStep[T]) step(ctx context.Context) (T, bool, error) {
	val, ok, err := pull(ctx, it.source)
	if err != nil || !ok {
		return val, false, err
	}
	it.fn(val)
	return val, true, nil
}

func (it *peekStep[T]) Close() error { return it.source.Close() }

// concatStep creates each upstream cursor only when the previous one is exhausted.
type concatStep[T any] struct {
	seqs    []*Sequence[T]
	index   int
	current Iterator[T]
}

func (it *concatStep[T]) step(ctx context.Context) (T, bool, error) {
	for it.index < len(it.seqs) {
		if it.current == nil {
			it.current = it.seqs[it.index].create(ctx)
		}
		val, ok, err := pull(ctx, it.current)
		if err != nil {
			return val, false, err
		}
		if ok {
			return val, true, nil
		}
		if err := it.current.Close(); err != nil {
			return val, false, err
		}
		it.current = nil
		it.index++
	}
	var zero T
	return zero, false, nil
}

func (it *concatStep[T]) Close() error {
	if it.current != nil {
		err := it.current.Close()
		it.current = nil
		return err
	}
	return nil
}

type flatMapStep[T, R any] struct {
	source  Iterator[T]
	fn      func(T) *Sequence[R]
	current Iterator[R]
}

func (it *flatMapStep[T, R]) step(ctx context.Context) (result R, ok bool, err error) {
	for {
		if it.current != nil {
			val, ok, err := pull(ctx, it.current)
			if err != nil {
				return result, false, err
			}
			if ok {
				return val, true, nil
			}
			if err := it.current.Close(); err != nil {
				return result, false, err
			}
			it.current = nil
		}

		val, ok, err := pull(ctx, it.source)
		if err != nil || !ok {
			return result, false, err
		}
		it.current = it.fn(val).create(ctx)
	}
}

func (it *flatMapStep[T, R]) Close() error {
	var err error
	if it.current != nil {
		err = it.current.Close()
		it.current = nil
	}
	if srcErr := it.source.Close(); srcErr != nil {
		return srcErr
	}
	return err
}

type chunkStep[T any] struct {
	source Iterator[T]
	size   int
	done   bool
}

func (it *chunkStep[T]) step(ctx context.Context) ([]T, bool, error) {
	if it.done {
		return nil, false, nil
	}
	chunk := make([]T, 0, it.size)
	for len(chunk) < it.size {
		val, ok, err := pull(ctx, it.source)
		if err != nil {
			return nil, false, err
		}
		if !ok {
			it.done = true
			break
		}
		chunk = append(chunk, val)
	}
	if len(chunk) == 0 {
		return nil, false, nil
	}
	return chunk, true, nil
}

func (it *chunkStep[T]) Close() error { return it.source.Close() }
