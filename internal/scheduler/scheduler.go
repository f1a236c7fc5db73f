package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/paladisupraja/dairy-portal/internal/config"
	"github.com/paladisupraja/dairy-portal/internal/domain/models"
	"github.com/paladisupraja/dairy-portal/internal/repository/sheets"
	"github.com/paladisupraja/dairy-portal/internal/service/reporting"
)

const summarySheetRange = "MilkSummary!A:F"

// Scheduler publishes yesterday's per-group milk totals to the configured
// spreadsheet every morning.
type Scheduler struct {
	cron         *cron.Cron
	reportingSvc *reporting.Service
	sheetsRepo   sheets.Repository
	cfg          config.Config
	logger       *zap.Logger
}

// NewScheduler creates a new scheduler instance.
func NewScheduler(cfg config.Config, reportingSvc *reporting.Service, sheetsRepo sheets.Repository, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}

	// robfig/cron/v3 default parser is standard cron (5 fields: min, hour, dom, month, dow).
	loc, err := time.LoadLocation(cfg.Reporting.Timezone)
	if err != nil {
		logger.Warn("invalid timezone, falling back to local", zap.String("timezone", cfg.Reporting.Timezone), zap.Error(err))
		loc = time.Local
	}
	c := cron.New(cron.WithLocation(loc))

	return &Scheduler{
		cron:         c,
		reportingSvc: reportingSvc,
		sheetsRepo:   sheetsRepo,
		cfg:          cfg,
		logger:       logger,
	}
}

// Start starts the scheduler.
func (s *Scheduler) Start() {
	s.logger.Info("starting scheduler", zap.String("schedule", s.cfg.Reporting.CronSchedule))

	_, err := s.cron.AddFunc(s.cfg.Reporting.CronSchedule, s.publishDailySummary)
	if err != nil {
		s.logger.Error("failed to schedule daily summary publication", zap.Error(err))
	}

	s.cron.Start()
}

// Stop stops the scheduler.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	s.cron.Stop()
}

func (s *Scheduler) publishDailySummary() {
	s.logger.Info("publishing daily milk summary")
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	yesterday := models.Day(time.Now().UTC().AddDate(0, 0, -1))

	report, err := s.reportingSvc.FarmReport(ctx, s.cfg.Reporting.FarmID, yesterday, yesterday)
	if err != nil {
		s.logger.Error("failed to build daily summary", zap.Error(err))
		return
	}

	for _, group := range report.Groups {
		if len(group.Rows) == 0 {
			continue
		}
		day := group.Rows[0]
		row := []interface{}{day.Date, group.GroupID, group.GroupName, day.TotalAM, day.TotalPM, day.Total}
		if err := s.sheetsRepo.AppendRow(ctx, summarySheetRange, row); err != nil {
			s.logger.Error("failed to publish group summary row",
				zap.String("group_id", group.GroupID),
				zap.Error(err))
		}
	}

	s.logger.Info("daily milk summary published", zap.Int("groups", len(report.Groups)))
}
