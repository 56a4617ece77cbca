// Package cron provides scheduled background jobs using robfig/cron.
package cron

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/FACorreiaa/sms-finance-logger/internal/domain/ledger"
	"github.com/FACorreiaa/sms-finance-logger/pkg/metrics"
)

// Job names, also used as metric labels.
const (
	JobWarmStats    = "warm_stats"
	JobMonthArchive = "month_archive"
)

// WarmStatsSchedule refreshes the current month's stats every hour.
const WarmStatsSchedule = "0 * * * *"

// Ledger is the part of the ledger service the jobs drive.
type Ledger interface {
	WarmStats(ctx context.Context, month ledger.Month) error
	ArchiveMonth(ctx context.Context, month ledger.Month) error
}

// Scheduler manages background scheduled jobs using robfig/cron.
type Scheduler struct {
	cron            *cron.Cron
	ledger          Ledger
	archiveSchedule string
	metrics         *metrics.Metrics
	logger          *slog.Logger
	now             func() time.Time
}

// NewScheduler creates a new job scheduler. archiveSchedule is the cron
// expression of the monthly archive job; empty disables it.
func NewScheduler(l Ledger, archiveSchedule string, m *metrics.Metrics, logger *slog.Logger) *Scheduler {
	// Create cron with seconds disabled (standard 5-field format)
	c := cron.New(cron.WithLogger(cron.VerbosePrintfLogger(slog.NewLogLogger(logger.Handler(), slog.LevelDebug))))

	return &Scheduler{
		cron:            c,
		ledger:          l,
		archiveSchedule: archiveSchedule,
		metrics:         m,
		logger:          logger,
		now:             time.Now,
	}
}

// Start begins scheduled jobs.
func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(WarmStatsSchedule, s.warmStats); err != nil {
		return err
	}
	if s.archiveSchedule != "" {
		if _, err := s.cron.AddFunc(s.archiveSchedule, s.archivePreviousMonth); err != nil {
			return err
		}
	}

	s.cron.Start()
	s.logger.Info("cron scheduler started",
		slog.Int("jobs", len(s.cron.Entries())),
	)
	return nil
}

// Stop gracefully stops all scheduled jobs.
func (s *Scheduler) Stop() context.Context {
	s.logger.Info("cron scheduler stopping")
	return s.cron.Stop()
}

// RunNow runs the named job synchronously.
func (s *Scheduler) RunNow(job string) bool {
	switch job {
	case JobWarmStats:
		s.warmStats()
	case JobMonthArchive:
		s.archivePreviousMonth()
	default:
		return false
	}
	return true
}

func (s *Scheduler) warmStats() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	month := ledger.MonthOf(s.now())
	err := s.ledger.WarmStats(ctx, month)
	s.metrics.ObserveJob(JobWarmStats, err)
	if err != nil {
		s.logger.Warn("failed to warm monthly stats",
			slog.String("month", month.String()),
			slog.Any("error", err),
		)
		return
	}
	s.logger.Debug("monthly stats warmed", slog.String("month", month.String()))
}

// archivePreviousMonth archives the month that just closed.
func (s *Scheduler) archivePreviousMonth() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	month := ledger.MonthOf(s.now()).Prev()
	s.logger.Info("starting monthly archive", slog.String("month", month.String()))

	err := s.ledger.ArchiveMonth(ctx, month)
	if errors.Is(err, ledger.ErrSheetNotFound) {
		s.logger.Info("no entries to archive", slog.String("month", month.String()))
		err = nil
	}
	s.metrics.ObserveJob(JobMonthArchive, err)
	if err != nil {
		s.logger.Error("monthly archive failed",
			slog.String("month", month.String()),
			slog.Any("error", err),
		)
		return
	}

	s.logger.Info("monthly archive completed", slog.String("month", month.String()))
}
