package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/arklim/estate-platform-auth/internal/core/port"
)

// HousekeepingService periodically purges rows that have aged out: lapsed IP
// blocks, expired sessions, and blacklist entries whose token could no longer
// verify anyway. Reads never depend on this sweep; it only bounds table growth.
type HousekeepingService struct {
	blockedIPs port.BlockedIPRepository
	sessions   port.SessionRepository
	blacklist  port.TokenBlacklist
	logger     *zap.Logger
	cron       *cron.Cron
	now        func() time.Time
}

// NewHousekeepingService constructs a HousekeepingService.
func NewHousekeepingService(
	blockedIPs port.BlockedIPRepository,
	sessions port.SessionRepository,
	blacklist port.TokenBlacklist,
	log *zap.Logger,
) *HousekeepingService {
	return &HousekeepingService{
		blockedIPs: blockedIPs,
		sessions:   sessions,
		blacklist:  blacklist,
		logger:     log,
		now:        time.Now,
	}
}

// Start schedules the sweep. The schedule accepts standard cron expressions
// and descriptors like "@hourly".
func (s *HousekeepingService) Start(schedule string) error {
	if s.cron != nil {
		return fmt.Errorf("housekeeping already started")
	}

	c := cron.New()
	if _, err := c.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		s.Sweep(ctx)
	}); err != nil {
		return fmt.Errorf("schedule housekeeping: %w", err)
	}

	c.Start()
	s.cron = c

	s.logger.Info("housekeeping scheduled", zap.String("schedule", schedule))
	return nil
}

// Stop halts the scheduler and waits for an in-flight sweep to finish.
func (s *HousekeepingService) Stop() {
	if s.cron == nil {
		return
	}
	<-s.cron.Stop().Done()
	s.cron = nil
}

// Sweep runs one purge pass. Each target is swept independently; one failing
// delete does not stop the others.
func (s *HousekeepingService) Sweep(ctx context.Context) {
	now := s.now().UTC()

	if n, err := s.blockedIPs.DeleteExpired(ctx, now); err != nil {
		s.logger.Error("purge expired ip blocks failed", zap.Error(err))
	} else if n > 0 {
		s.logger.Info("purged expired ip blocks", zap.Int64("count", n))
	}

	if n, err := s.sessions.DeleteExpired(ctx, now); err != nil {
		s.logger.Error("purge expired sessions failed", zap.Error(err))
	} else if n > 0 {
		s.logger.Info("purged expired sessions", zap.Int64("count", n))
	}

	if n, err := s.blacklist.DeleteExpired(ctx, now); err != nil {
		s.logger.Error("purge expired blacklist entries failed", zap.Error(err))
	} else if n > 0 {
		s.logger.Info("purged expired blacklist entries", zap.Int64("count", n))
	}
}
