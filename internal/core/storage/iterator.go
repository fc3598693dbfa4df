package storage

import (
	"context"
	"database/sql"

	v1 "github.com/aevon-lab/siteflow/internal/api/v1"
)

// Scanner is satisfied by *sql.Row and *sql.Rows.
type Scanner interface {
	Scan(dest ...interface{}) error
}

// RowsIterator adapts *sql.Rows to EventIterator for the SQL-backed stores.
type RowsIterator struct {
	rows *sql.Rows
	scan func(Scanner) (*v1.Event, error)
	cur  *v1.Event
	err  error
}

// NewRowsIterator wraps rows; scan decodes one row into an event.
func NewRowsIterator(rows *sql.Rows, scan func(Scanner) (*v1.Event, error)) *RowsIterator {
	return &RowsIterator{rows: rows, scan: scan}
}

func (it *RowsIterator) Next(ctx context.Context) bool {
	if it.err != nil {
		return false
	}
	if err := ctx.Err(); err != nil {
		it.err = err
		return false
	}
	if !it.rows.Next() {
		it.err = it.rows.Err()
		return false
	}
	evt, err := it.scan(it.rows)
	if err != nil {
		it.err = err
		return false
	}
	it.cur = evt
	return true
}

func (it *RowsIterator) Event() *v1.Event { return it.cur }

func (it *RowsIterator) Err() error { return it.err }

func (it *RowsIterator) Close() error { return it.rows.Close() }

// SliceIterator iterates over an in-memory result set.
type SliceIterator struct {
	events []*v1.Event
	pos    int
	err    error
}

func NewSliceIterator(events []*v1.Event) *SliceIterator {
	return &SliceIterator{events: events, pos: -1}
}

func (it *SliceIterator) Next(ctx context.Context) bool {
	if err := ctx.Err(); err != nil {
		it.err = err
		return false
	}
	if it.pos+1 >= len(it.events) {
		return false
	}
	it.pos++
	return true
}

func (it *SliceIterator) Event() *v1.Event { return it.events[it.pos] }

func (it *SliceIterator) Err() error { return it.err }

func (it *SliceIterator) Close() error { return nil }

// Collect drains an iterator into a slice and closes it.
func Collect(ctx context.Context, it EventIterator) ([]*v1.Event, error) {
	defer it.Close()

	var events []*v1.Event
	for it.Next(ctx) {
		events = append(events, it.Event())
	}
	if err := it.Err(); err != nil {
		return nil, err
	}
	return events, nil
}
