// internal/service/scheduler.go
package service

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/mayfashion/marketing-backend/internal/apperrors"
	"github.com/mayfashion/marketing-backend/internal/metrics"
	"github.com/mayfashion/marketing-backend/internal/repository"
)

// Scheduler periodically advances campaigns through the state machine:
// approved campaigns whose start date has passed begin running and are
// dispatched; running campaigns whose end date has passed are completed.
type Scheduler struct {
	CampaignRepo repository.CampaignRepositoryInterface
	Lifecycle    *LifecycleService
	Interval     time.Duration

	Now func() time.Time

	// mu keeps a manually triggered tick from overlapping the periodic one
	// within this process.
	mu sync.Mutex
}

// TickResult reports what one scheduler pass did.
type TickResult struct {
	Started   int `json:"started"`
	Completed int `json:"completed"`
	Errors    int `json:"errors"`
}

func (s *Scheduler) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Run executes ticks at the configured interval until the context is
// cancelled. Each tick runs to completion before the next is armed, so the
// scheduler never races itself.
func (s *Scheduler) Run(ctx context.Context) {
	interval := s.Interval
	if interval <= 0 {
		interval = time.Minute
	}
	log.Printf("📅 Campaign scheduler started, ticking every %s", interval)

	// First pass immediately on startup.
	s.Tick(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("📅 Campaign scheduler stopped")
			return
		case <-ticker.C:
			s.Tick(ctx)
		}
	}
}

// Tick runs one scheduler pass. Campaign-level failures are logged and do
// not stop processing of the remaining campaigns.
func (s *Scheduler) Tick(ctx context.Context) TickResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	metrics.SchedulerTicks.Inc()
	now := s.now()
	var result TickResult

	due, err := s.CampaignRepo.FindDueToStart(now)
	if err != nil {
		log.Println("⚠️ scheduler: querying due campaigns failed:", err)
		result.Errors++
	} else {
		for _, c := range due {
			if _, err := s.Lifecycle.Start(c.ID); err != nil {
				log.Printf("⚠️ scheduler: starting campaign %s failed: %v", c.ID, err)
				result.Errors++
				continue
			}
			result.Started++
			log.Printf("✓ Started campaign: %s (ID: %s)", c.Title, c.ID)

			if _, err := s.Lifecycle.Execute(ctx, c.ID); err != nil {
				// A campaign without a resolved audience stays running and
				// can be executed manually once a snapshot exists.
				if apperrors.IsNoAudience(err) {
					log.Printf("⚠️ scheduler: campaign %s has no audience snapshot, skipping dispatch", c.ID)
				} else {
					log.Printf("⚠️ scheduler: dispatching campaign %s failed: %v", c.ID, err)
				}
				result.Errors++
			}
		}
	}

	expired, err := s.CampaignRepo.FindDueToComplete(now)
	if err != nil {
		log.Println("⚠️ scheduler: querying expired campaigns failed:", err)
		result.Errors++
	} else {
		for _, c := range expired {
			if _, err := s.Lifecycle.Complete(c.ID); err != nil {
				log.Printf("⚠️ scheduler: completing campaign %s failed: %v", c.ID, err)
				result.Errors++
				continue
			}
			result.Completed++
			log.Printf("✓ Completed campaign: %s (ID: %s)", c.Title, c.ID)
		}
	}

	return result
}
