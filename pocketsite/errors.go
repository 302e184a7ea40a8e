package pocketsite

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedActiveSite marks an active-site segment that is not a
	// "name id chain" triple.
	ErrMalformedActiveSite = errors.New("malformed active site")
	// ErrMissingColumn is returned when an input file lacks a required column.
	ErrMissingColumn = errors.New("missing column")
	// ErrUnknownColumn is returned for column names outside the merged table.
	ErrUnknownColumn = errors.New("unknown column")
	// ErrNoData is returned when an operation needs at least one row.
	ErrNoData = errors.New("no data")
	// ErrNotLoaded is returned when the session lacks one of the input tables.
	ErrNotLoaded = errors.New("input not loaded")
)

// ActiveSiteError describes a segment of an ACTIVE_SITE string that could
// not be split into exactly three tokens.
type ActiveSiteError struct {
	Row     int // 1-based data row of the active-site table, 0 when unknown
	Segment string
	Tokens  int
}

func (e *ActiveSiteError) Error() string {
	if e.Row > 0 {
		return fmt.Sprintf("row %d: active site segment %q has %d tokens, want 3", e.Row, e.Segment, e.Tokens)
	}
	return fmt.Sprintf("active site segment %q has %d tokens, want 3", e.Segment, e.Tokens)
}

func (e *ActiveSiteError) Unwrap() error { return ErrMalformedActiveSite }
