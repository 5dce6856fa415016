package jobs

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sangkips/stockledger-api/internal/domain/repository"
	"github.com/sangkips/stockledger-api/pkg/logger"
	"github.com/sirupsen/logrus"
)

var cronParser = cron.NewParser(
	cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

// Scheduler runs periodic housekeeping
type Scheduler struct {
	sched *cron.Cron
	log   *logrus.Logger
}

// NewScheduler creates a UTC scheduler
func NewScheduler(log *logrus.Logger) *Scheduler {
	return &Scheduler{
		sched: cron.New(cron.WithLocation(time.UTC), cron.WithParser(cronParser)),
		log:   log,
	}
}

// SchedulePurge registers the expired idempotency key purge
func (s *Scheduler) SchedulePurge(spec string, repo repository.IdempotencyRepository) error {
	_, err := s.sched.AddFunc(spec, func() {
		PurgeExpiredKeys(context.Background(), repo, s.log)
	})
	return err
}

// Start runs the scheduler in its own goroutine
func (s *Scheduler) Start() {
	s.sched.Start()
}

// Stop halts the scheduler and waits for running jobs
func (s *Scheduler) Stop() {
	<-s.sched.Stop().Done()
}

// PurgeExpiredKeys deletes idempotency keys past their expiry
func PurgeExpiredKeys(ctx context.Context, repo repository.IdempotencyRepository, log *logrus.Logger) int64 {
	defer func() {
		if err := recover(); err != nil {
			log.WithField("panic", err).Error("idempotency purge panicked")
		}
	}()

	ctx, cancel := context.WithTimeout(ctx, time.Minute)
	defer cancel()

	n, err := repo.DeleteExpired(ctx)
	if err != nil {
		logger.LogError(log, "jobs", "PurgeExpiredKeys", "delete expired", nil, err)
		return 0
	}
	if n > 0 {
		log.WithField("deleted", n).Info("purged expired idempotency keys")
	}
	return n
}
