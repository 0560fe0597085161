package jobs

import (
	"context"
	"log"
	"time"

	"redline/internal/db"
	"redline/internal/metrics"
)

// Sweeper periodically expires pending approval requests whose window has
// passed. The sweep itself is an ordinary engine operation; this loop is
// just the scheduler that triggers it.
type Sweeper struct {
	db       *db.DB
	interval time.Duration
}

// NewSweeper creates a new expiration sweeper.
func NewSweeper(database *db.DB, interval time.Duration) *Sweeper {
	return &Sweeper{db: database, interval: interval}
}

// Start begins the background sweep loop.
func (s *Sweeper) Start(ctx context.Context) {
	log.Printf("Expiration sweeper started (interval: %v)", s.interval)

	// Run immediately on start
	s.sweep(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("Expiration sweeper stopped")
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

func (s *Sweeper) sweep(ctx context.Context) {
	count, err := s.db.ExpireSweep(ctx)
	if err != nil {
		log.Printf("Expiration sweeper: sweep failed: %v", err)
		return
	}
	if count > 0 {
		log.Printf("Expiration sweeper: expired %d requests", count)
		metrics.RecordExpired(count)
	}
}
