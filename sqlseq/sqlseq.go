package sqlseq

import (
	"context"
	"database/sql"
	stderrors "errors"

	"github.com/kbukum/seqkit/errors"
	"github.com/kbukum/seqkit/seq"
)

const sourceName = "sql"

// Scanner converts the current row into a value.
type Scanner[T any] func(*sql.Rows) (T, error)

// Query creates a sequence over the rows of query. Every pass runs the
// query again on its first pull.
func Query[T any](db *sql.DB, query string, scan Scanner[T], args ...any) *seq.Sequence[T] {
	return seq.FromFunc(func(context.Context) seq.Iterator[T] {
		return &rowsIterator[T]{db: db, query: query, args: args, scan: scan}
	})
}

// QueryRow creates a sequence holding the single row returned by query,
// or no element when the query matches nothing.
func QueryRow[T any](db *sql.DB, query string, scan func(*sql.Row) (T, error), args ...any) *seq.Sequence[T] {
	return seq.FromFunc(func(context.Context) seq.Iterator[T] {
		return &rowIterator[T]{db: db, query: query, args: args, scan: scan}
	})
}

// rowsIterator runs the query on first use and walks its result set. A scan
// failure is sticky: the row cannot be re-read, so every later HasNext
// reports the same error.
type rowsIterator[T any] struct {
	db    *sql.DB
	query string
	args  []any
	scan  Scanner[T]
	rows  *sql.Rows
	head  T
	err   error
	ready bool
	done  bool
}

func (it *rowsIterator[T]) HasNext(ctx context.Context) (bool, error) {
	if it.ready {
		return true, nil
	}
	if it.err != nil {
		return false, it.err
	}
	if it.done {
		return false, nil
	}
	if err := ctx.Err(); err != nil {
		return false, errors.Canceled(err)
	}
	if it.rows == nil {
		rows, err := it.db.QueryContext(ctx, it.query, it.args...)
		if err != nil {
			return false, failure(err)
		}
		it.rows = rows
	}
	if !it.rows.Next() {
		it.done = true
		if err := it.rows.Err(); err != nil {
			return false, failure(err)
		}
		return false, nil
	}
	val, err := it.scan(it.rows)
	if err != nil {
		it.err = failure(err)
		return false, it.err
	}
	it.head, it.ready = val, true
	return true, nil
}

func (it *rowsIterator[T]) Next() T {
	if !it.ready {
		panic(errors.CursorContract("Next"))
	}
	val := it.head
	var zero T
	it.head, it.ready = zero, false
	return val
}

func (it *rowsIterator[T]) Close() error {
	it.done, it.ready = true, false
	if it.rows == nil {
		return nil
	}
	rows := it.rows
	it.rows = nil
	if err := rows.Close(); err != nil {
		return failure(err)
	}
	return nil
}

type rowIterator[T any] struct {
	db    *sql.DB
	query string
	args  []any
	scan  func(*sql.Row) (T, error)
	head  T
	ready bool
	done  bool
}

func (it *rowIterator[T]) HasNext(ctx context.Context) (bool, error) {
	if it.ready {
		return true, nil
	}
	if it.done {
		return false, nil
	}
	if err := ctx.Err(); err != nil {
		return false, errors.Canceled(err)
	}
	it.done = true
	val, err := it.scan(it.db.QueryRowContext(ctx, it.query, it.args...))
	if stderrors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, failure(err)
	}
	it.head, it.ready = val, true
	return true, nil
}

func (it *rowIterator[T]) Next() T {
	if !it.ready {
		panic(errors.CursorContract("Next"))
	}
	val := it.head
	var zero T
	it.head, it.ready = zero, false
	return val
}

func (it *rowIterator[T]) Close() error {
	it.done, it.ready = true, false
	return nil
}

func failure(err error) error {
	if errors.IsAppError(err) {
		return err
	}
	return errors.SourceFailed(sourceName, err)
}
