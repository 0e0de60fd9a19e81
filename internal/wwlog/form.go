package wwlog

import (
	"context"
	"math"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	MaxNotesLength = 200
	DefaultRiver   = "Little Falls"
	DefaultLevel   = "0.00"
)

// Rivers are the sections offered by the entry form.
var Rivers = []string{"Little Falls", "Great Falls", "Yough", "White River", "Other"}

// Form is the state of the log entry form. Level is kept as typed so a
// failed submit can hand it back unchanged.
type Form struct {
	Date  string
	River string
	Level string
	Unit  LevelType
	Notes string
}

// NewForm returns the form defaults; the date is today in now's location.
func NewForm(now time.Time) Form {
	return Form{
		Date:  now.Format(dateLayout),
		River: DefaultRiver,
		Level: DefaultLevel,
		Unit:  LevelFeet,
	}
}

// SetNotes stores notes cut to MaxNotesLength characters.
func (f *Form) SetNotes(notes string) {
	f.Notes = truncate(notes, MaxNotesLength)
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n])
}

// Entry validates the form and returns the row to insert.
func (f Form) Entry() (NewEntry, error) {
	date, err := ParseDate(f.Date)
	if err != nil {
		return NewEntry{}, &ValidationError{Field: "date", Message: "must be a date like 2024-05-01"}
	}
	river := strings.TrimSpace(f.River)
	if river == "" {
		return NewEntry{}, &ValidationError{Field: "river", Message: "is required"}
	}
	level, err := strconv.ParseFloat(strings.TrimSpace(f.Level), 64)
	if err != nil || math.IsNaN(level) || math.IsInf(level, 0) {
		return NewEntry{}, &ValidationError{Field: "level", Message: "must be a number"}
	}
	unit, err := ParseLevelType(string(f.Unit))
	if err != nil {
		return NewEntry{}, &ValidationError{Field: "unit", Message: "must be FT or CFS"}
	}
	return NewEntry{
		Date:      date,
		River:     river,
		Level:     level,
		LevelType: unit,
		Notes:     truncate(f.Notes, MaxNotesLength),
	}, nil
}

// Submit stores the form's entry and returns the row as stored. On success
// notes are cleared and the level is reset; date, river and unit are left
// as they were. On failure the form does not change. Callers showing a list
// put the returned row at its head.
func (f *Form) Submit(ctx context.Context, dst Inserter) (Entry, error) {
	ne, err := f.Entry()
	if err != nil {
		return Entry{}, err
	}
	stored, err := dst.InsertEntry(ctx, ne)
	if err != nil {
		return Entry{}, err
	}

	f.Notes = ""
	f.Level = DefaultLevel
	return stored, nil
}
