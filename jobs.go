package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"
)

type visitorCleaner interface {
	CleanupVisitors(ctx context.Context, cutoff time.Time) (int64, error)
}

func cleanupVisitors(db visitorCleaner, retention time.Duration, now func() time.Time) {
	removed, err := db.CleanupVisitors(context.Background(), now().Add(-retention))
	if err != nil {
		log.Printf("Visitor cleanup failed: %v", err)
		return
	}
	if removed > 0 {
		log.Printf("Removed %d visits older than %s", removed, retention)
	}
}

// scheduleVisitorCleanup prunes old visits once now and then on schedule.
// The returned scheduler is not started.
func scheduleVisitorCleanup(db visitorCleaner, schedule string, retention time.Duration, now func() time.Time) (*cron.Cron, error) {
	c := cron.New()
	_, err := c.AddFunc(schedule, func() {
		cleanupVisitors(db, retention, now)
	})
	if err != nil {
		return nil, fmt.Errorf("invalid VISITOR_CLEANUP_SCHEDULE %q: %w", schedule, err)
	}

	cleanupVisitors(db, retention, now)
	log.Printf("Visitor cleanup scheduled (%s, keeping %s)", schedule, retention)
	return c, nil
}
