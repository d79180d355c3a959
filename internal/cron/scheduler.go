package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"aligate/internal/gateway"
	"aligate/internal/pkg/telegram"
	"aligate/internal/repository"
)

// Scheduler runs the periodic reporting jobs. Nothing here ever touches
// order payment state; the notification path stays purely reactive.
type Scheduler struct {
	cron          *cron.Cron
	orders        *repository.OrderRepository
	botAPI        *telegram.BotAPI
	reportChannel string
	logger        *zap.Logger
}

// New creates a new cron scheduler.
func New(orders *repository.OrderRepository, botAPI *telegram.BotAPI, reportChannel string, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		cron:          cron.New(cron.WithSeconds()),
		orders:        orders,
		botAPI:        botAPI,
		reportChannel: reportChannel,
		logger:        logger,
	}
}

// Start registers and starts all cron jobs.
func (s *Scheduler) Start() {
	s.logger.Info("Starting cron scheduler...")

	// Daily payment summary - at 23:45
	s.cron.AddFunc("0 45 23 * * *", func() {
		s.logger.Debug("Running: daily payment summary")
		s.dailyPaymentSummary()
	})

	s.cron.Start()
}

// Stop stops the scheduler and returns a context that is done once running
// jobs have finished.
func (s *Scheduler) Stop() context.Context {
	return s.cron.Stop()
}

func (s *Scheduler) dailyPaymentSummary() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	since := time.Now().UTC().Truncate(24 * time.Hour)
	count, total, err := s.orders.PaidSummarySince(ctx, since)
	if err != nil {
		s.logger.Error("daily payment summary query failed", zap.Error(err))
		return
	}

	s.logger.Info("daily payment summary",
		zap.Int64("paid_orders", count),
		zap.Float64("total", total),
	)

	if s.botAPI == nil || s.reportChannel == "" {
		return
	}
	text := fmt.Sprintf(
		"📊 Daily payment summary\n\nPaid orders: %d\nTotal: %s",
		count, gateway.FormatAmount(total),
	)
	if _, err := s.botAPI.SendMessage(s.reportChannel, text); err != nil {
		s.logger.Warn("failed to send daily payment summary", zap.Error(err))
	}
}
