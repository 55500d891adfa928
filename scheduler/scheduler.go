package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"growest_connect/config"
	"growest_connect/logger"
	"growest_connect/repository"
	"growest_connect/services"
)

func validateHourMinute(hour, minute int) (int, int) {
	if hour < 0 || hour > 23 {
		logger.Warn("invalid refresh hour, using 0", "hour", hour)
		hour = 0
	}
	if minute < 0 || minute > 59 {
		logger.Warn("invalid refresh minute, using 0", "minute", minute)
		minute = 0
	}
	return hour, minute
}

func getNextTimePoint(now time.Time, hour, minute int) time.Time {
	next := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, now.Location())
	if next.Before(now) {
		next = next.Add(24 * time.Hour)
	}
	return next
}

// Scheduler re-runs the matching pipeline once a day for users whose
// persisted matches have gone stale, reusing each user's last stored request.
type Scheduler struct {
	cfg     *config.Config
	matcher services.MatchGenerator

	mutex     sync.Mutex
	isRunning bool
	nextRun   time.Time
}

func NewScheduler(cfg *config.Config, matcher services.MatchGenerator) *Scheduler {
	return &Scheduler{cfg: cfg, matcher: matcher}
}

// Start launches the scheduler loop when refresh is enabled.
func Start(cfg *config.Config, matcher services.MatchGenerator) {
	if !cfg.Refresh.Enabled {
		logger.Info("match refresh scheduler disabled")
		return
	}

	s := NewScheduler(cfg, matcher)

	now := time.Now()
	hour, minute := validateHourMinute(cfg.Refresh.Hour, cfg.Refresh.Minute)
	s.nextRun = getNextTimePoint(now, hour, minute)

	go s.run()

	logger.Info("match refresh scheduler started",
		"schedule_time", fmt.Sprintf("%02d:%02d", hour, minute),
		"stale_after_hours", cfg.Refresh.StaleAfterHours)
}

func (s *Scheduler) run() {
	checkInterval := s.cfg.Refresh.CheckIntervalSec
	if checkInterval <= 0 {
		checkInterval = 60
	}
	ticker := time.NewTicker(time.Duration(checkInterval) * time.Second)
	defer ticker.Stop()

	for now := range ticker.C {
		s.check(now)
	}
}

func (s *Scheduler) check(now time.Time) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.isRunning || now.Before(s.nextRun) {
		return
	}
	s.isRunning = true
	go s.refreshStaleMatches(now)
}

func (s *Scheduler) refreshStaleMatches(now time.Time) {
	defer func() {
		s.mutex.Lock()
		defer s.mutex.Unlock()
		s.isRunning = false
		hour, minute := validateHourMinute(s.cfg.Refresh.Hour, s.cfg.Refresh.Minute)
		s.nextRun = getNextTimePoint(time.Now(), hour, minute)
		logger.Info("match refresh finished", "next_run", s.nextRun.Format("2006-01-02 15:04:05"))
	}()

	staleAfter := s.cfg.Refresh.StaleAfterHours
	if staleAfter <= 0 {
		staleAfter = 24
	}

	users, err := repository.ListStaleMatchUsers(staleAfter)
	if err != nil {
		logger.Error("stale match user listing failed", "error", err)
		return
	}
	if len(users) == 0 {
		logger.Info("no stale matches to refresh")
		return
	}

	concurrency := s.cfg.Refresh.Concurrency
	if concurrency <= 0 {
		concurrency = 5
	}
	logger.Info("refreshing stale matches", "users", len(users), "concurrency", concurrency)

	var wg sync.WaitGroup
	semaphore := make(chan struct{}, concurrency)

	var mu sync.Mutex
	refreshed, failed := 0, 0

	for _, userID := range users {
		wg.Add(1)
		semaphore <- struct{}{}

		go func(userID string) {
			defer wg.Done()
			defer func() { <-semaphore }()

			err := s.refreshUser(userID)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				failed++
				logger.Error("match refresh failed for user", "user_id", userID, "error", err)
				return
			}
			refreshed++
		}(userID)
	}
	wg.Wait()

	logger.Info("stale match refresh complete", "refreshed", refreshed, "failed", failed)
}

func (s *Scheduler) refreshUser(userID string) error {
	req, err := repository.GetLatestRequest(userID)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	_, err = s.matcher.GenerateMatches(ctx, req)
	return err
}
