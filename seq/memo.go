package seq

import (
	"context"
	"sync"

	"github.com/kbukum/seqkit/errors"
)

// SaveDistinct memoizes s like Save but keeps only the first occurrence of
// each element. Every pass, including the first, yields each distinct
// element once in first-seen order.
func SaveDistinct[T comparable](s *Sequence[T]) *Sequence[T] {
	seen := make(map[T]struct{})
	return newMemo(s, func(v T) bool {
		if _, ok := seen[v]; ok {
			return false
		}
		seen[v] = struct{}{}
		return true
	}).sequence()
}

// memo is an append-only record of one upstream pass shared by every cursor
// of the owning sequence. It owns the single upstream cursor; a cursor that
// reaches the end of the buffer extends it by pulling from that cursor, so a
// pass abandoned early leaves a prefix that the next pass resumes from.
type memo[T any] struct {
	mu       sync.Mutex
	source   *Sequence[T]
	accept   func(T) bool
	upstream Iterator[T]
	buf      []T
	limit    int
	drained  bool
	overflow bool
}

func newMemo[T any](s *Sequence[T], accept func(T) bool) *memo[T] {
	return &memo[T]{source: s, accept: accept}
}

func (m *memo[T]) sequence() *Sequence[T] {
	return &Sequence[T]{
		create: func(_ context.Context) Iterator[T] {
			return newCursor[T](&memoStep[T]{memo: m})
		},
	}
}

// at returns the element at index i, pulling upstream until the buffer holds
// it or the upstream is drained. A full buffer fails only once upstream
// proves to hold another accepted element.
func (m *memo[T]) at(ctx context.Context, i int) (T, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var zero T
	for i >= len(m.buf) {
		if m.drained {
			return zero, false, nil
		}
		if m.overflow {
			return zero, false, errors.BufferLimit("memo", m.limit)
		}
		if m.upstream == nil {
			cfg := ConfigFrom(ctx)
			m.buf = make([]T, 0, cfg.BufferCapacity)
			m.limit = cfg.MaxBuffered
			m.upstream = m.source.create(ctx)
		}
		val, ok, err := pull(ctx, m.upstream)
		if err != nil {
			return zero, false, err
		}
		if !ok {
			m.drained = true
			if err := m.upstream.Close(); err != nil {
				return zero, false, err
			}
			continue
		}
		if m.accept != nil && !m.accept(val) {
			continue
		}
		if m.limit > 0 && len(m.buf) >= m.limit {
			m.overflow = true
			continue
		}
		m.buf = append(m.buf, val)
	}
	return m.buf[i], true, nil
}

type memoStep[T any] struct {
	memo  *memo[T]
	index int
}

func (it *memoStep[T]) step(ctx context.Context) (T, bool, error) {
	val, ok, err := it.memo.at(ctx, it.index)
	if ok {
		it.index++
	}
	return val, ok, err
}

// Close leaves the shared upstream open; the memo closes it once drained.
func (it *memoStep[T]) Close() error { return nil }
