package services

import (
	"database/sql"
	"log"
	"time"
)

// StartScheduler runs the background retry loop for failed milestone
// recomputes. Downstream permission checks gate on the stored milestone, so
// a failed recompute must eventually land rather than being dropped.
func StartScheduler(db *sql.DB) {
	go func() {
		log.Println("Milestone recompute scheduler started...")
		ticker := time.NewTicker(1 * time.Minute)
		defer ticker.Stop()

		for range ticker.C {
			ProcessRecomputeQueue(db)
		}
	}()
}
