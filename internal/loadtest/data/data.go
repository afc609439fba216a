// Package data provides read-only row sources for data-driven iterations.
//
// A source is loaded once before scheduling and never mutated afterwards,
// which makes concurrent reads from worker goroutines safe without locking.
package data

import (
	"encoding/csv"
	"fmt"
	"io"
)

// Row is one record of string key/value pairs.
type Row map[string]string

// Source is an ordered, immutable collection of rows.
type Source struct {
	rows []Row
}

// FromRows builds a source from rows. The input is copied, so later changes
// to the caller's maps are not observed.
func FromRows(rows []Row) *Source {
	copied := make([]Row, len(rows))
	for i, r := range rows {
		row := make(Row, len(r))
		for k, v := range r {
			row[k] = v
		}
		copied[i] = row
	}
	return &Source{rows: copied}
}

// FromCSV reads a CSV document whose first record is the header. Every
// following record becomes one row keyed by the header columns.
func FromCSV(r io.Reader) (*Source, error) {
	cr := csv.NewReader(r)

	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("csv data: missing header row")
	}
	if err != nil {
		return nil, fmt.Errorf("csv data: %w", err)
	}

	var rows []Row
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("csv data: %w", err)
		}

		row := make(Row, len(header))
		for i, col := range header {
			row[col] = record[i]
		}
		rows = append(rows, row)
	}

	return &Source{rows: rows}, nil
}

// Len returns the number of rows.
func (s *Source) Len() int {
	return len(s.rows)
}

// RowAt returns the row for the given iteration index, reusing rows
// round-robin once the source is exhausted: index i maps to row i mod Len.
// ok is false when the source is empty.
//
// Returned rows are shared and must be treated as read-only.
func (s *Source) RowAt(i int64) (Row, bool) {
	if len(s.rows) == 0 {
		return nil, false
	}
	return s.rows[int(i%int64(len(s.rows)))], true
}

// Rows returns the rows in order. The slice is a copy; the rows themselves
// are shared and must be treated as read-only.
func (s *Source) Rows() []Row {
	out := make([]Row, len(s.rows))
	copy(out, s.rows)
	return out
}
