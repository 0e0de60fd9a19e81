package store

import (
	"context"
	"fmt"
	"time"
)

const timestampLayout = "2006-01-02 15:04:05"

// Visit is one recorded page view. The IP is stored only as a salted hash.
type Visit struct {
	ID        int64     `json:"id"`
	HashedIP  string    `json:"hashed_ip"`
	UserAgent string    `json:"user_agent"`
	Path      string    `json:"path"`
	Timestamp time.Time `json:"timestamp"`
}

type PathStat struct {
	Path  string `json:"path"`
	Views int64  `json:"views"`
}

type VisitorStats struct {
	TotalVisitors    int64      `json:"total_visitors"`
	UniqueVisitors   int64      `json:"unique_visitors"`
	VisitorsToday    int64      `json:"visitors_today"`
	VisitorsThisWeek int64      `json:"visitors_this_week"`
	TopPaths         []PathStat `json:"top_paths"`
	RecentVisitors   []Visit    `json:"recent_visitors"`
}

func formatTimestamp(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}

// RecordVisit stores one page view.
func (s *SQLite) RecordVisit(ctx context.Context, v Visit) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO visitors (hashed_ip, user_agent, path, timestamp)
		VALUES (?, ?, ?, ?)
	`, v.HashedIP, v.UserAgent, v.Path, formatTimestamp(v.Timestamp))
	if err != nil {
		return fmt.Errorf("failed to record visitor: %w", err)
	}
	return nil
}

// CleanupVisitors deletes visits recorded before cutoff.
func (s *SQLite) CleanupVisitors(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM visitors WHERE timestamp < ?`, formatTimestamp(cutoff))
	if err != nil {
		return 0, fmt.Errorf("failed to clean up visitor data: %w", err)
	}
	return res.RowsAffected()
}

// VisitorStats summarises traffic as of now.
func (s *SQLite) VisitorStats(ctx context.Context, now time.Time) (*VisitorStats, error) {
	stats := &VisitorStats{}
	utc := now.UTC()
	startOfDay := time.Date(utc.Year(), utc.Month(), utc.Day(), 0, 0, 0, 0, time.UTC)

	counts := []struct {
		query string
		args  []any
		dst   *int64
	}{
		{query: `SELECT COUNT(*) FROM visitors`, dst: &stats.TotalVisitors},
		{query: `SELECT COUNT(DISTINCT hashed_ip) FROM visitors`, dst: &stats.UniqueVisitors},
		{query: `SELECT COUNT(*) FROM visitors WHERE timestamp >= ?`, args: []any{formatTimestamp(startOfDay)}, dst: &stats.VisitorsToday},
		{query: `SELECT COUNT(*) FROM visitors WHERE timestamp >= ?`, args: []any{formatTimestamp(utc.AddDate(0, 0, -7))}, dst: &stats.VisitorsThisWeek},
	}
	for _, c := range counts {
		if err := s.db.QueryRowContext(ctx, c.query, c.args...).Scan(c.dst); err != nil {
			return nil, fmt.Errorf("failed to count visitors: %w", err)
		}
	}

	var err error
	if stats.TopPaths, err = s.topPaths(ctx); err != nil {
		return nil, err
	}
	if stats.RecentVisitors, err = s.recentVisitors(ctx); err != nil {
		return nil, err
	}
	return stats, nil
}

func (s *SQLite) topPaths(ctx context.Context) ([]PathStat, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT path, COUNT(*) AS views
		FROM visitors
		GROUP BY path
		ORDER BY views DESC, path
		LIMIT 10
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query top paths: %w", err)
	}
	defer rows.Close()

	var paths []PathStat
	for rows.Next() {
		var p PathStat
		if err := rows.Scan(&p.Path, &p.Views); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		paths = append(paths, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during row iteration: %w", err)
	}
	return paths, nil
}

func (s *SQLite) recentVisitors(ctx context.Context) ([]Visit, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, hashed_ip, user_agent, path, timestamp
		FROM visitors
		ORDER BY timestamp DESC, id DESC
		LIMIT 50
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent visitors: %w", err)
	}
	defer rows.Close()

	var visits []Visit
	for rows.Next() {
		var (
			v  Visit
			ts string
		)
		if err := rows.Scan(&v.ID, &v.HashedIP, &v.UserAgent, &v.Path, &ts); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		if v.Timestamp, err = time.Parse(timestampLayout, ts); err != nil {
			return nil, fmt.Errorf("failed to parse timestamp %q: %w", ts, err)
		}
		visits = append(visits, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during row iteration: %w", err)
	}
	return visits, nil
}
