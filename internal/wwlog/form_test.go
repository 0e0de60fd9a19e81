package wwlog

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeInserter struct {
	got  []NewEntry
	err  error
	next int64
}

func (f *fakeInserter) InsertEntry(_ context.Context, e NewEntry) (Entry, error) {
	if f.err != nil {
		return Entry{}, f.err
	}
	f.got = append(f.got, e)
	f.next++
	notes := e.Notes
	return Entry{ID: f.next, Date: e.Date, River: e.River, Level: e.Level, LevelType: e.LevelType, Notes: &notes}, nil
}

func TestNewFormDefaults(t *testing.T) {
	now := time.Date(2024, 5, 17, 22, 15, 0, 0, time.FixedZone("EDT", -4*3600))

	f := NewForm(now)

	assert.Equal(t, "2024-05-17", f.Date)
	assert.Equal(t, "Little Falls", f.River)
	assert.Equal(t, "0.00", f.Level)
	assert.Equal(t, LevelFeet, f.Unit)
	assert.Empty(t, f.Notes)
}

func TestSetNotesTruncates(t *testing.T) {
	var f Form
	f.SetNotes(strings.Repeat("a", 250))
	assert.Len(t, f.Notes, MaxNotesLength)

	f.SetNotes(strings.Repeat("é", 201))
	assert.Equal(t, MaxNotesLength, len([]rune(f.Notes)))
}

func TestSubmitSuccess(t *testing.T) {
	src := &fakeInserter{}
	f := Form{Date: "2024-05-17", River: "Great Falls", Level: "3.25", Unit: LevelCFS}
	f.SetNotes(strings.Repeat("x", 250))
	stored, err := f.Submit(context.Background(), src)
	require.NoError(t, err)

	require.Len(t, src.got, 1)
	assert.Len(t, src.got[0].Notes, MaxNotesLength)
	assert.Equal(t, 3.25, src.got[0].Level)
	assert.Equal(t, LevelCFS, src.got[0].LevelType)

	assert.Equal(t, int64(1), stored.ID)
	assert.Equal(t, "Great Falls", stored.River)

	assert.Empty(t, f.Notes)
	assert.Equal(t, DefaultLevel, f.Level)
	assert.Equal(t, "2024-05-17", f.Date)
	assert.Equal(t, "Great Falls", f.River)
	assert.Equal(t, LevelCFS, f.Unit)
}

func TestSubmitFailureLeavesStateAlone(t *testing.T) {
	src := &fakeInserter{err: &DataAccessError{Op: "insert", Message: "permission denied for table wwlog"}}
	f := Form{Date: "2024-05-17", River: "Yough", Level: "1.5", Unit: LevelFeet, Notes: "big water"}
	before := f

	stored, err := f.Submit(context.Background(), src)

	require.Error(t, err)
	assert.True(t, IsDataAccess(err))
	assert.Equal(t, "permission denied for table wwlog", UserMessage(err))
	assert.Equal(t, before, f)
	assert.Zero(t, stored)
}

func TestSubmitValidation(t *testing.T) {
	tests := []struct {
		name  string
		form  Form
		field string
	}{
		{name: "bad date", form: Form{Date: "yesterday", River: "Yough", Level: "1", Unit: LevelFeet}, field: "date"},
		{name: "no river", form: Form{Date: "2024-01-01", River: "  ", Level: "1", Unit: LevelFeet}, field: "river"},
		{name: "bad level", form: Form{Date: "2024-01-01", River: "Yough", Level: "high", Unit: LevelFeet}, field: "level"},
		{name: "nan level", form: Form{Date: "2024-01-01", River: "Yough", Level: "NaN", Unit: LevelFeet}, field: "level"},
		{name: "bad unit", form: Form{Date: "2024-01-01", River: "Yough", Level: "1", Unit: "M"}, field: "unit"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := &fakeInserter{}
			f := tt.form

			_, err := f.Submit(context.Background(), src)

			var ve *ValidationError
			require.True(t, errors.As(err, &ve))
			assert.Equal(t, tt.field, ve.Field)
			assert.Empty(t, src.got)
			assert.False(t, IsDataAccess(err))
		})
	}
}
