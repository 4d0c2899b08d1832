package scheduler

import (
	"log"
	"time"

	"github.com/paint-mix/api/datastore"
)

// Scheduler runs the nightly token purge at midnight.
type Scheduler struct {
	TokenRepo datastore.TokenRepository
	ticker    *time.Ticker
	done      chan bool
}

func NewScheduler(repo datastore.TokenRepository) *Scheduler {
	return &Scheduler{
		TokenRepo: repo,
		done:      make(chan bool),
	}
}

// Start begins the scheduler to run at midnight every day
func (s *Scheduler) Start() {
	// Calculate time until next midnight
	now := time.Now()
	nextMidnight := time.Date(now.Year(), now.Month(), now.Day()+1, 0, 0, 0, 0, now.Location())
	durationUntilMidnight := nextMidnight.Sub(now)

	log.Printf("Scheduler started. Next token purge in %v", durationUntilMidnight)

	// Wait until midnight, then purge the first time
	time.AfterFunc(durationUntilMidnight, func() {
		s.PurgeExpiredTokens()

		// After first run, schedule to run every 24 hours
		s.ticker = time.NewTicker(24 * time.Hour)
		go func() {
			for {
				select {
				case <-s.ticker.C:
					s.PurgeExpiredTokens()
				case <-s.done:
					return
				}
			}
		}()
	})
}

// Stop stops the scheduler
func (s *Scheduler) Stop() {
	if s.ticker != nil {
		s.ticker.Stop()
	}
	s.done <- true
	log.Println("Scheduler stopped")
}

// PurgeExpiredTokens deletes verification and reset tokens past expiry.
func (s *Scheduler) PurgeExpiredTokens() error {
	log.Println("Purging expired tokens...")

	deleted, err := s.TokenRepo.DeleteExpired()
	if err != nil {
		log.Printf("Error purging expired tokens: %v", err)
		return err
	}

	log.Printf("Purged %d expired tokens", deleted)
	return nil
}
