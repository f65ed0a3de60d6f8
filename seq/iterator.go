package seq

import (
	"context"
	"iter"

	"github.com/kbukum/seqkit/errors"
)

// Iterator is a single-use cursor over one pass of a Sequence.
type Iterator[T any] interface {
	// HasNext reports whether another element is available. It may pull from
	// upstream and is idempotent until Next is called.
	HasNext(ctx context.Context) (bool, error)
	// Next returns the element announced by the last HasNext.
	// It panics if HasNext did not report true.
	Next() T
	// Close releases any resources held by the iterator.
	Close() error
}

// stepper produces the elements of one pass. step returns (zero, false, nil)
// when exhausted. Decorators implement stepper and are wrapped in a cursor.
type stepper[T any] interface {
	step(ctx context.Context) (T, bool, error)
	Close() error
}

// cursor adapts a stepper to the Iterator lookahead/consume protocol.
type cursor[T any] struct {
	src    stepper[T]
	head   T
	ready  bool
	done   bool
	closed bool
}

func newCursor[T any](src stepper[T]) *cursor[T] {
	return &cursor[T]{src: src}
}

func (c *cursor[T]) HasNext(ctx context.Context) (bool, error) {
	if c.ready {
		return true, nil
	}
	if c.done {
		return false, nil
	}
	if err := ctx.Err(); err != nil {
		return false, errors.Canceled(err)
	}
	val, ok, err := c.src.step(ctx)
	if err != nil {
		return false, err
	}
	if !ok {
		c.done = true
		return false, nil
	}
	c.head, c.ready = val, true
	return true, nil
}

func (c *cursor[T]) Next() T {
	if !c.ready {
		panic(errors.CursorContract("Next"))
	}
	val := c.head
	var zero T
	c.head, c.ready = zero, false
	return val
}

func (c *cursor[T]) Close() error {
	if c.closed {
		return nil
	}
	c.closed, c.done, c.ready = true, true, false
	return c.src.Close()
}

// pull performs one lookahead+consume on an upstream cursor.
func pull[T any](ctx context.Context, it Iterator[T]) (T, bool, error) {
	ok, err := it.HasNext(ctx)
	if err != nil || !ok {
		var zero T
		return zero, false, err
	}
	return it.Next(), true, nil
}

// --- Source steppers ---

type sliceStep[T any] struct {
	items []T
	index int
}

func (it *sliceStep[T]) step(_ context.Context) (T, bool, error) {
	if it.index >= len(it.items) {
		var zero T
		return zero, false, nil
	}
	val := it.items[it.index]
	it.index++
	return val, true, nil
}

func (it *sliceStep[T]) Close() error { return nil }

type emptyStep[T any] struct{}

func (emptyStep[T]) step(_ context.Context) (T, bool, error) {
	var zero T
	return zero, false, nil
}

func (emptyStep[T]) Close() error { return nil }

// generateStep yields seed, next(seed), next(next(seed)), ... while more
// reports true for the zero-based position of the element about to be yielded.
type generateStep[T any] struct {
	current  T
	next     func(T) T
	more     func(int) bool
	position int
}

func (it *generateStep[T]) step(_ context.Context) (T, bool, error) {
	if !it.more(it.position) {
		var zero T
		return zero, false, nil
	}
	if it.position > 0 {
		it.current = it.next(it.current)
	}
	it.position++
	return it.current, true, nil
}

func (it *generateStep[T]) Close() error { return nil }

type repeatStep[T any] struct {
	supplier  func() T
	remaining int
}

func (it *repeatStep[T]) step(_ context.Context) (T, bool, error) {
	if it.remaining <= 0 {
		var zero T
		return zero, false, nil
	}
	it.remaining--
	return it.supplier(), true, nil
}

func (it *repeatStep[T]) Close() error { return nil }

// pullStep adapts a range-over-func iterator. The pull is started on the
// first step and stopped on Close.
type pullStep[T any] struct {
	seq  iter.Seq[T]
	next func() (T, bool)
	stop func()
}

func (it *pullStep[T]) step(_ context.Context) (T, bool, error) {
	if it.next == nil {
		it.next, it.stop = iter.Pull(it.seq)
	}
	val, ok := it.next()
	return val, ok, nil
}

func (it *pullStep[T]) Close() error {
	if it.stop != nil {
		it.stop()
	}
	return nil
}
