package supabase

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/andGarc/portfolio/internal/wwlog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testKey = "anon-key"

func TestListEntries(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/rest/v1/wwlog", r.URL.Path)
		assert.Equal(t, "*", r.URL.Query().Get("select"))
		assert.Equal(t, "date.desc.nullslast,id.desc.nullslast", r.URL.Query().Get("order"))
		assert.Equal(t, testKey, r.Header.Get("apikey"))
		assert.Equal(t, "Bearer "+testKey, r.Header.Get("Authorization"))

		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `[
			{"id":2,"date":"2023-02-02","river":"Great Falls","level":3.1,"level_type":"FT","notes":null},
			{"id":1,"date":"2023-01-05","river":"Little Falls","level":4200,"level_type":"CFS","notes":"fun"}
		]`)
	}))
	defer server.Close()

	c := NewClient(server.URL+"/", testKey)
	entries, err := c.ListEntries(context.Background())
	require.NoError(t, err)

	require.Len(t, entries, 2)
	assert.Equal(t, int64(2), entries[0].ID)
	assert.Equal(t, "2023-02-02", entries[0].Date.String())
	assert.Nil(t, entries[0].Notes)
	assert.Equal(t, wwlog.LevelCFS, entries[1].LevelType)
	assert.Equal(t, "fun", entries[1].NotesText())
}

func TestInsertEntry(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/rest/v1/kayak", r.URL.Path)
		assert.Equal(t, "return=representation", r.Header.Get("Prefer"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var rows []map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&rows))
		require.Len(t, rows, 1)
		assert.Equal(t, "2024-05-17", rows[0]["date"])
		assert.Equal(t, "Yough", rows[0]["river"])
		assert.Equal(t, 2.5, rows[0]["level"])
		assert.Equal(t, "FT", rows[0]["level_type"])
		assert.Equal(t, "pushy", rows[0]["notes"])

		w.WriteHeader(http.StatusCreated)
		io.WriteString(w, `[{"id":41,"date":"2024-05-17","river":"Yough","level":2.5,"level_type":"FT","notes":"pushy"}]`)
	}))
	defer server.Close()

	c := NewClient(server.URL, testKey, WithTable("kayak"))
	date, _ := wwlog.ParseDate("2024-05-17")
	stored, err := c.InsertEntry(context.Background(), wwlog.NewEntry{
		Date: date, River: "Yough", Level: 2.5, LevelType: wwlog.LevelFeet, Notes: "pushy",
	})
	require.NoError(t, err)

	assert.Equal(t, int64(41), stored.ID)
	assert.Equal(t, "pushy", stored.NotesText())
}

func TestInsertErrorDoesNotPoisonClient(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if r.Method == http.MethodPost {
			w.WriteHeader(http.StatusConflict)
			io.WriteString(w, `{"code":"23505","details":"Key (id)=(1) already exists.","hint":null,"message":"duplicate key value violates unique constraint \"wwlog_pkey\""}`)
			return
		}
		io.WriteString(w, `[]`)
	}))
	defer server.Close()

	c := NewClient(server.URL, testKey)
	_, err := c.InsertEntry(context.Background(), wwlog.NewEntry{River: "Yough", LevelType: wwlog.LevelFeet})
	require.Error(t, err)
	assert.Equal(t, `duplicate key value violates unique constraint "wwlog_pkey"`, wwlog.UserMessage(err))

	entries, err := c.ListEntries(context.Background())
	require.NoError(t, err)
	assert.Empty(t, entries)
	assert.Equal(t, 2, calls)
}

func TestCancelledContextSkipsRequest(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected")
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewClient(server.URL, testKey).ListEntries(ctx)
	require.Error(t, err)
	assert.True(t, wwlog.IsDataAccess(err))
}

func TestInsertEntryAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		io.WriteString(w, `{"code":"42501","details":null,"hint":null,"message":"new row violates row-level security policy for table \"wwlog\""}`)
	}))
	defer server.Close()

	c := NewClient(server.URL, testKey)
	_, err := c.InsertEntry(context.Background(), wwlog.NewEntry{River: "Yough", LevelType: wwlog.LevelFeet})

	require.Error(t, err)
	assert.True(t, wwlog.IsDataAccess(err))
	assert.Equal(t, `new row violates row-level security policy for table "wwlog"`, wwlog.UserMessage(err))
}

func TestListEntriesNonJSONError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream down", http.StatusBadGateway)
	}))
	defer server.Close()

	_, err := NewClient(server.URL, testKey).ListEntries(context.Background())

	require.Error(t, err)
	assert.True(t, wwlog.IsDataAccess(err))
	assert.Equal(t, unexpectedResponse, wwlog.UserMessage(err))
}

func TestInsertEntryNoRows(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `[]`)
	}))
	defer server.Close()

	_, err := NewClient(server.URL, testKey).InsertEntry(context.Background(), wwlog.NewEntry{})

	require.Error(t, err)
	assert.Equal(t, "insert returned no rows", wwlog.UserMessage(err))
}

func TestTimeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer server.Close()
	defer close(release)

	c := NewClient(server.URL, testKey, WithTimeout(50*time.Millisecond))
	_, err := c.ListEntries(context.Background())

	require.Error(t, err)
	assert.True(t, wwlog.IsDataAccess(err))
}
