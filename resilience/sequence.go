package resilience

import (
	"context"

	"github.com/kbukum/seqkit/errors"
	"github.com/kbukum/seqkit/seq"
)

// RetryOpen returns a sequence that reopens a pass over s when the pass
// fails before producing its first element and cfg allows a retry. Once an
// element has been delivered, later errors are returned as they are, since
// replaying the pass would yield duplicates.
func RetryOpen[T any](s *seq.Sequence[T], cfg RetryConfig) *seq.Sequence[T] {
	return seq.FromFunc(func(context.Context) seq.Iterator[T] {
		return &retryIterator[T]{source: s, cfg: cfg}
	})
}

type retryIterator[T any] struct {
	source *seq.Sequence[T]
	cfg    RetryConfig
	inner  seq.Iterator[T]
	closed bool
}

func (it *retryIterator[T]) HasNext(ctx context.Context) (bool, error) {
	if it.inner != nil {
		return it.inner.HasNext(ctx)
	}
	if it.closed {
		return false, nil
	}

	var ok bool
	inner, err := Retry(ctx, it.cfg, func() (seq.Iterator[T], error) {
		candidate := it.source.Iter(ctx)
		has, err := candidate.HasNext(ctx)
		if err != nil {
			_ = candidate.Close()
			return nil, err
		}
		ok = has
		return candidate, nil
	})
	if err != nil {
		it.closed = true
		return false, err
	}
	it.inner = inner
	return ok, nil
}

func (it *retryIterator[T]) Next() T {
	if it.inner == nil {
		panic(errors.CursorContract("Next"))
	}
	return it.inner.Next()
}

func (it *retryIterator[T]) Close() error {
	it.closed = true
	if it.inner == nil {
		return nil
	}
	return it.inner.Close()
}
