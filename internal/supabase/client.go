// Package supabase reads and writes the whitewater log table through the
// PostgREST interface of a hosted Supabase project.
package supabase

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/andGarc/portfolio/internal/wwlog"
	"github.com/supabase-community/postgrest-go"
)

const DefaultTable = "wwlog"

// unexpectedResponse is shown when an error response carries no PostgREST
// error body (a proxy error page, for instance).
const unexpectedResponse = "unexpected response from the log table"

type Client struct {
	rest    *postgrest.Client
	table   string
	timeout time.Duration
}

type Option func(*Client)

func WithTable(table string) Option {
	return func(c *Client) {
		if table != "" {
			c.table = table
		}
	}
}

// WithTimeout bounds how long a request waits for the response headers.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// NewClient builds a client for the project at baseURL using its public
// (anon) key.
func NewClient(baseURL, apiKey string, opts ...Option) *Client {
	c := &Client{
		table:   DefaultTable,
		timeout: 10 * time.Second,
	}
	for _, opt := range opts {
		opt(c)
	}

	restURL := strings.TrimRight(baseURL, "/") + "/rest/v1"
	c.rest = postgrest.NewClient(restURL, "public", map[string]string{
		"apikey":        apiKey,
		"Authorization": "Bearer " + apiKey,
	})
	if c.rest.ClientError == nil {
		tr := http.DefaultTransport.(*http.Transport).Clone()
		tr.ResponseHeaderTimeout = c.timeout
		c.rest.Transport.Parent = tr
	}
	return c
}

// ListEntries returns every row ordered by date, newest first.
func (c *Client) ListEntries(ctx context.Context) ([]wwlog.Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, accessError("list", err)
	}

	var entries []wwlog.Entry
	_, err := c.rest.From(c.table).
		Select("*", "", false).
		Order("date", &postgrest.OrderOpts{Ascending: false}).
		Order("id", &postgrest.OrderOpts{Ascending: false}).
		ExecuteTo(&entries)
	if err != nil {
		return nil, accessError("list", err)
	}
	return entries, nil
}

// InsertEntry inserts one row and returns it as stored.
func (c *Client) InsertEntry(ctx context.Context, e wwlog.NewEntry) (wwlog.Entry, error) {
	if err := ctx.Err(); err != nil {
		return wwlog.Entry{}, accessError("insert", err)
	}

	// Marshalled here so a bad row never leaves the shared client in an error state.
	body, err := json.Marshal([]wwlog.NewEntry{e})
	if err != nil {
		return wwlog.Entry{}, accessError("insert", err)
	}

	var rows []wwlog.Entry
	_, err = c.rest.From(c.table).
		Insert(json.RawMessage(body), false, "", "representation", "").
		ExecuteTo(&rows)
	if err != nil {
		return wwlog.Entry{}, accessError("insert", err)
	}
	if len(rows) == 0 {
		return wwlog.Entry{}, &wwlog.DataAccessError{Op: "insert", Message: "insert returned no rows"}
	}
	return rows[0], nil
}

// accessError wraps err for the user. PostgREST failures come back from the
// library as "(code) message" and the message is kept verbatim.
func accessError(op string, err error) error {
	msg := err.Error()
	switch {
	case strings.HasPrefix(msg, "("):
		if i := strings.Index(msg, ") "); i > 0 {
			msg = msg[i+2:]
		}
	case strings.HasPrefix(msg, "error parsing error response"):
		msg = unexpectedResponse
	}
	return &wwlog.DataAccessError{Op: op, Message: msg, Err: err}
}
