package observability

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/kbukum/seqkit/errors"
	"github.com/kbukum/seqkit/logger"
	"github.com/kbukum/seqkit/seq"
)

// Pass status values reported on spans, metrics and logs.
const (
	StatusCompleted = "completed"
	StatusStopped   = "stopped"
	StatusFailed    = "failed"
)

// Observer records passes over instrumented sequences. A nil field turns
// that signal off.
type Observer struct {
	metrics *Metrics
	tracer  trace.Tracer
	log     *logger.Logger
}

// NewObserver creates an observer from its parts.
func NewObserver(metrics *Metrics, tracer trace.Tracer, log *logger.Logger) *Observer {
	return &Observer{metrics: metrics, tracer: tracer, log: log}
}

// Instrument returns a sequence that yields exactly what s yields while
// recording every pass over it. Each pass is given a fresh pass ID and, with
// a tracer, a seq.pass span. Both travel in the context handed to s on every
// pull, so sources and loggers built with WithContext inside the pipeline
// pick them up. Cancellation still follows the context of each HasNext call.
func Instrument[T any](s *seq.Sequence[T], name string, o *Observer) *seq.Sequence[T] {
	return seq.FromFunc(func(ctx context.Context) seq.Iterator[T] {
		passID := uuid.NewString()
		ctx = logger.ContextWithPassID(ctx, passID)
		var span trace.Span
		if o.tracer != nil {
			ctx, span = o.tracer.Start(ctx, SpanPass, trace.WithAttributes(
				attribute.String(AttrSequence, name),
				attribute.String(AttrPassID, passID),
			))
		}
		if o.metrics != nil {
			o.metrics.RecordPassStart(ctx, name)
		}
		return &observedIterator[T]{
			inner:    s.Iter(ctx),
			ctx:      ctx,
			name:     name,
			passID:   passID,
			span:     span,
			observer: o,
			start:    time.Now(),
		}
	})
}

// observedIterator counts what flows through one pass and reports the pass
// exactly once, on exhaustion, error or Close, whichever comes first.
type observedIterator[T any] struct {
	inner    seq.Iterator[T]
	ctx      context.Context
	name     string
	passID   string
	span     trace.Span
	observer *Observer
	start    time.Time
	pulled   int64
	finished atomic.Bool
}

// passContext carries the pass ID and span over to the caller's ctx.
func (it *observedIterator[T]) passContext(ctx context.Context) context.Context {
	ctx = logger.ContextWithPassID(ctx, it.passID)
	if it.span != nil {
		ctx = trace.ContextWithSpan(ctx, it.span)
	}
	return ctx
}

func (it *observedIterator[T]) HasNext(ctx context.Context) (bool, error) {
	ok, err := it.inner.HasNext(it.passContext(ctx))
	switch {
	case err != nil:
		it.finish(StatusFailed, err)
	case !ok:
		it.finish(StatusCompleted, nil)
	}
	return ok, err
}

func (it *observedIterator[T]) Next() T {
	v := it.inner.Next()
	it.pulled++
	return v
}

func (it *observedIterator[T]) Close() error {
	err := it.inner.Close()
	it.finish(StatusStopped, nil)
	return err
}

func (it *observedIterator[T]) finish(status string, err error) {
	if !it.finished.CompareAndSwap(false, true) {
		return
	}
	o := it.observer
	elapsed := time.Since(it.start)

	var code string
	if err != nil {
		code = string(errors.Wrap(err).Code)
		if o.metrics != nil {
			o.metrics.RecordError(it.ctx, it.name, code)
		}
	}
	if o.metrics != nil {
		o.metrics.RecordPassEnd(it.ctx, it.name, status, it.pulled, elapsed)
	}
	if it.span != nil {
		if err != nil {
			it.span.RecordError(err)
			it.span.SetStatus(codes.Error, err.Error())
			it.span.SetAttributes(attribute.String(AttrErrorCode, code))
		}
		it.span.SetAttributes(
			attribute.Int64(AttrPulled, it.pulled),
			attribute.String(AttrStatus, status),
		)
		it.span.End()
	}

	if o.log == nil {
		return
	}
	fields := logger.PassFields(it.name, it.passID, it.pulled, elapsed)
	fields["status"] = status
	if sc := trace.SpanContextFromContext(it.ctx); sc.IsValid() {
		fields[logger.FieldTraceID] = sc.TraceID().String()
		fields[logger.FieldSpanID] = sc.SpanID().String()
	}
	if err != nil {
		o.log.WithError(err).Warn("sequence pass failed", fields)
		return
	}
	o.log.Debug("sequence pass finished", fields)
}
