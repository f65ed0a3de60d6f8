package resilience

import (
	"context"
	stderrors "errors"
	"sync"
	"testing"
	"time"

	"github.com/kbukum/seqkit/errors"
	"github.com/kbukum/seqkit/seq"
)

func fastConfig(attempts int) RetryConfig {
	return RetryConfig{
		MaxAttempts:    attempts,
		InitialBackoff: time.Millisecond,
		BackoffFactor:  2.0,
	}
}

func TestRetry_SucceedsOnFirstAttempt(t *testing.T) {
	callCount := 0

	result, err := Retry(context.Background(), DefaultRetryConfig(), func() (string, error) {
		callCount++
		return "success", nil
	})

	if err != nil {
		t.Errorf("expected no error, got %v", err)
	}
	if result != "success" {
		t.Errorf("expected 'success', got %s", result)
	}
	if callCount != 1 {
		t.Errorf("expected 1 call, got %d", callCount)
	}
}

func TestRetry_SucceedsAfterRetry(t *testing.T) {
	callCount := 0

	result, err := Retry(context.Background(), fastConfig(3), func() (string, error) {
		callCount++
		if callCount < 3 {
			return "", stderrors.New("temporary error")
		}
		return "success", nil
	})

	if err != nil {
		t.Errorf("expected no error, got %v", err)
	}
	if result != "success" {
		t.Errorf("expected 'success', got %s", result)
	}
	if callCount != 3 {
		t.Errorf("expected 3 calls, got %d", callCount)
	}
}

func TestRetry_ExceedsMaxAttempts(t *testing.T) {
	callCount := 0
	testErr := stderrors.New("persistent error")

	_, err := Retry(context.Background(), fastConfig(3), func() (string, error) {
		callCount++
		return "", testErr
	})

	if !stderrors.Is(err, testErr) {
		t.Errorf("expected testErr, got %v", err)
	}
	if callCount != 3 {
		t.Errorf("expected 3 calls, got %d", callCount)
	}
}

func TestRetry_RespectsContext(t *testing.T) {
	cfg := RetryConfig{
		MaxAttempts:    10,
		InitialBackoff: 100 * time.Millisecond,
		BackoffFactor:  2.0,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	callCount := 0
	_, err := Retry(ctx, cfg, func() (string, error) {
		callCount++
		return "", stderrors.New("error")
	})

	if !errors.Is(err, errors.ErrCanceled) {
		t.Errorf("expected canceled error, got %v", err)
	}
	if !stderrors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected context.DeadlineExceeded in chain, got %v", err)
	}
	// Should have made at least 1 attempt but not all 10
	if callCount >= 10 {
		t.Errorf("expected fewer than 10 calls, got %d", callCount)
	}
}

func TestRetry_RetryIfFilter(t *testing.T) {
	retryableErr := stderrors.New("retryable")
	nonRetryableErr := stderrors.New("non-retryable")

	cfg := fastConfig(3)
	cfg.RetryIf = func(err error) bool {
		return stderrors.Is(err, retryableErr)
	}

	callCount := 0
	_, _ = Retry(context.Background(), cfg, func() (string, error) {
		callCount++
		return "", retryableErr
	})
	if callCount != 3 {
		t.Errorf("expected 3 calls for retryable error, got %d", callCount)
	}

	callCount = 0
	_, err := Retry(context.Background(), cfg, func() (string, error) {
		callCount++
		return "", nonRetryableErr
	})
	if callCount != 1 {
		t.Errorf("expected 1 call for non-retryable error, got %d", callCount)
	}
	if !stderrors.Is(err, nonRetryableErr) {
		t.Errorf("expected nonRetryableErr, got %v", err)
	}
}

func TestRetry_OnRetryCallback(t *testing.T) {
	var retries []int
	var mu sync.Mutex

	cfg := fastConfig(3)
	cfg.OnRetry = func(attempt int, err error, backoff time.Duration) {
		mu.Lock()
		retries = append(retries, attempt)
		mu.Unlock()
	}

	_, _ = Retry(context.Background(), cfg, func() (string, error) {
		return "", stderrors.New("error")
	})

	mu.Lock()
	defer mu.Unlock()

	// OnRetry called before each retry, not before first attempt
	if len(retries) != 2 {
		t.Fatalf("expected 2 OnRetry calls, got %d", len(retries))
	}
	if retries[0] != 1 || retries[1] != 2 {
		t.Errorf("expected attempts [1, 2], got %v", retries)
	}
}

func TestDefaultRetryIf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"plain error", stderrors.New("boom"), true},
		{"source failure", errors.SourceFailed("db", stderrors.New("boom")), true},
		{"too many elements", errors.TooManyElements(), false},
		{"canceled app error", errors.Canceled(context.Canceled), false},
		{"context deadline", context.DeadlineExceeded, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := DefaultRetryIf(tc.err); got != tc.want {
				t.Errorf("got %v, want %v", got, tc.want)
			}
		})
	}
}

func TestCalculateBackoff(t *testing.T) {
	cfg := RetryConfig{
		InitialBackoff: 100 * time.Millisecond,
		MaxBackoff:     1 * time.Second,
		BackoffFactor:  2.0,
		Jitter:         0, // No jitter for predictable testing
	}

	tests := []struct {
		attempt  int
		expected time.Duration
	}{
		{1, 100 * time.Millisecond}, // 100 * 2^0
		{2, 200 * time.Millisecond}, // 100 * 2^1
		{3, 400 * time.Millisecond}, // 100 * 2^2
		{4, 800 * time.Millisecond}, // 100 * 2^3
		{5, 1 * time.Second},        // Capped at max
		{6, 1 * time.Second},        // Still capped
	}

	for _, tt := range tests {
		got := calculateBackoff(tt.attempt, cfg)
		if got != tt.expected {
			t.Errorf("attempt %d: expected %v, got %v", tt.attempt, tt.expected, got)
		}
	}
}

func TestRetryConfigValidate(t *testing.T) {
	cfg := DefaultRetryConfig()
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
	cfg.Jitter = 2
	if err := cfg.Validate(); !errors.Is(err, errors.ErrInvalidConfig) {
		t.Errorf("expected invalid config, got %v", err)
	}
}

// flaky fails the first failures passes before yielding anything, then
// yields items.
func flaky(failures int, items ...int) (*seq.Sequence[int], *int) {
	opened := 0
	return seq.FromFunc(func(ctx context.Context) seq.Iterator[int] {
		opened++
		if opened <= failures {
			return &failingIterator{err: errors.SourceFailed("flaky", stderrors.New("unavailable"))}
		}
		return seq.FromSlice(items).Iter(ctx)
	}), &opened
}

type failingIterator struct {
	err error
}

func (f *failingIterator) HasNext(context.Context) (bool, error) { return false, f.err }
func (f *failingIterator) Next() int                               { panic(errors.CursorContract("Next")) }
func (f *failingIterator) Close() error                            { return nil }

func TestRetryOpen_RecoversBeforeFirstElement(t *testing.T) {
	src, opened := flaky(2, 1, 2, 3)

	got, err := RetryOpen(src, fastConfig(3)).ToSlice(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 3 || got[0] != 1 || got[2] != 3 {
		t.Errorf("expected [1 2 3], got %v", got)
	}
	if *opened != 3 {
		t.Errorf("expected 3 opened passes, got %d", *opened)
	}
}

func TestRetryOpen_GivesUp(t *testing.T) {
	src, opened := flaky(5, 1)

	_, err := RetryOpen(src, fastConfig(2)).ToSlice(context.Background())
	if !errors.Is(err, errors.ErrSourceFailed) {
		t.Fatalf("expected source failure, got %v", err)
	}
	if *opened != 2 {
		t.Errorf("expected 2 opened passes, got %d", *opened)
	}
}

func TestRetryOpen_EmptySource(t *testing.T) {
	empty, err := RetryOpen(seq.Empty[int](), fastConfig(3)).IsEmpty(context.Background())
	if err != nil || !empty {
		t.Fatalf("expected (true, nil), got (%v, %v)", empty, err)
	}
}

func TestRetryOpen_NoRetryAfterFirstElement(t *testing.T) {
	opened := 0
	src := seq.FromFunc(func(ctx context.Context) seq.Iterator[int] {
		opened++
		return seq.Of(1).Concat(seq.FromFunc(func(context.Context) seq.Iterator[int] {
			return &failingIterator{err: errors.SourceFailed("tail", stderrors.New("broken"))}
		})).Iter(ctx)
	})

	got, err := RetryOpen(src, fastConfig(3)).ToSlice(context.Background())
	if !errors.Is(err, errors.ErrSourceFailed) {
		t.Fatalf("expected source failure, got %v", err)
	}
	if len(got) != 1 || got[0] != 1 {
		t.Errorf("expected the element before the failure, got %v", got)
	}
	if opened != 1 {
		t.Errorf("expected a single pass, got %d", opened)
	}
}
