package seq

import (
	"context"
	"sync"

	"github.com/kbukum/seqkit/errors"
)

// splitter partitions one upstream pass into len(preds)+1 append-only
// buffers. Each upstream element is classified exactly once: it is appended
// to the buffer of every predicate it satisfies, or to the remainder buffer
// (the last one) if it satisfies none. Branch cursors classify only when
// their own buffer runs dry, so the upstream advances no further than the
// most demanding branch requires.
type splitter[T any] struct {
	mu       sync.Mutex
	source   *Sequence[T]
	preds    []func(T, int) bool
	upstream Iterator[T]
	buffers  [][]T
	position int
	buffered int
	limit    int
	started  bool
	drained  bool
	overflow bool
}

func newSplitter[T any](s *Sequence[T], preds []func(T, int) bool) *splitter[T] {
	return &splitter[T]{
		source:  s,
		preds:   preds,
		buffers: make([][]T, len(preds)+1),
	}
}

// branches returns one sequence per predicate followed by the remainder.
func (sp *splitter[T]) branches() []*Sequence[T] {
	out := make([]*Sequence[T], len(sp.buffers))
	for i := range out {
		branch := i
		out[i] = &Sequence[T]{
			create: func(_ context.Context) Iterator[T] {
				return newCursor[T](&branchStep[T]{splitter: sp, branch: branch})
			},
		}
	}
	return out
}

// at returns element i of the given branch, classifying upstream elements
// until that buffer holds it or the upstream is drained.
func (sp *splitter[T]) at(ctx context.Context, branch, i int) (T, bool, error) {
	sp.mu.Lock()
	defer sp.mu.Unlock()

	for i >= len(sp.buffers[branch]) {
		if sp.drained {
			var zero T
			return zero, false, nil
		}
		if err := sp.classifyNext(ctx); err != nil {
			var zero T
			return zero, false, err
		}
	}
	return sp.buffers[branch][i], true, nil
}

// classifyNext pulls and routes one upstream element. Callers hold sp.mu.
// On an upstream error no element has been consumed and the splitter state
// is unchanged. The limit counts every appended copy, and a full splitter
// fails only once upstream proves to hold another element.
func (sp *splitter[T]) classifyNext(ctx context.Context) error {
	if sp.overflow {
		return errors.BufferLimit("splitter", sp.limit)
	}
	if !sp.started {
		cfg := ConfigFrom(ctx)
		for i := range sp.buffers {
			sp.buffers[i] = make([]T, 0, cfg.BufferCapacity)
		}
		sp.limit = cfg.MaxBuffered
		sp.upstream = sp.source.create(ctx)
		sp.started = true
	}

	val, ok, err := pull(ctx, sp.upstream)
	if err != nil {
		return err
	}
	if !ok {
		sp.drained = true
		return sp.upstream.Close()
	}

	// The element is consumed from here on, even if a predicate panics.
	pos := sp.position
	sp.position++

	targets := make([]int, 0, 1)
	for p, pred := range sp.preds {
		if pred(val, pos) {
			targets = append(targets, p)
		}
	}
	if len(targets) == 0 {
		targets = append(targets, len(sp.buffers)-1)
	}
	if sp.limit > 0 && sp.buffered+len(targets) > sp.limit {
		sp.overflow = true
		return errors.BufferLimit("splitter", sp.limit)
	}
	for _, b := range targets {
		sp.buffers[b] = append(sp.buffers[b], val)
	}
	sp.buffered += len(targets)
	return nil
}

type branchStep[T any] struct {
	splitter *splitter[T]
	branch   int
	index    int
}

func (it *branchStep[T]) step(ctx context.Context) (T, bool, error) {
	val, ok, err := it.splitter.at(ctx, it.branch, it.index)
	if ok {
		it.index++
	}
	return val, ok, err
}

// Close leaves the shared upstream open; the splitter closes it once drained.
func (it *branchStep[T]) Close() error { return nil }
