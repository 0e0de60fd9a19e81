// Package wwlog holds the whitewater log domain: entries, the year filter,
// the month-by-river aggregation behind the dashboard and the entry form.
package wwlog

import (
	"context"
	"fmt"
)

// LevelType is the unit a river level was measured in.
type LevelType string

const (
	LevelFeet LevelType = "FT"
	LevelCFS  LevelType = "CFS"
)

func ParseLevelType(s string) (LevelType, error) {
	switch LevelType(s) {
	case LevelFeet, LevelCFS:
		return LevelType(s), nil
	}
	return "", fmt.Errorf("unknown level unit %q", s)
}

// Entry is one logged day on the water, as stored in the wwlog table.
type Entry struct {
	ID        int64     `json:"id"`
	Date      Date      `json:"date"`
	River     string    `json:"river"`
	Level     float64   `json:"level"`
	LevelType LevelType `json:"level_type"`
	Notes     *string   `json:"notes"`
}

// NotesText returns the notes or "" when none were recorded.
func (e Entry) NotesText() string {
	if e.Notes == nil {
		return ""
	}
	return *e.Notes
}

// NewEntry is the payload of an insert; the store assigns the id.
type NewEntry struct {
	Date      Date      `json:"date"`
	River     string    `json:"river"`
	Level     float64   `json:"level"`
	LevelType LevelType `json:"level_type"`
	Notes     string    `json:"notes"`
}

// Lister reads every entry, most recent date first.
type Lister interface {
	ListEntries(ctx context.Context) ([]Entry, error)
}

// Inserter stores one entry and returns the stored row.
type Inserter interface {
	InsertEntry(ctx context.Context, e NewEntry) (Entry, error)
}

// Source is the hosted table the log is read from and written to.
type Source interface {
	Lister
	Inserter
}
