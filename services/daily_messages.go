package services

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/log"

	"github.com/yxyphoebe/lavender-mind-haven-sub000/internal/background"
	"github.com/yxyphoebe/lavender-mind-haven-sub000/internal/metrics"
)

const (
	DefaultLowWatermark   = 2
	DefaultReplenishBatch = 5
)

// DailyMessagePool is the store side of the replenishment policy.
type DailyMessagePool interface {
	CountUnused(ctx context.Context, userID, personaID string) (int, error)
	PickAndMarkUsed(ctx context.Context, userID, personaID string) (string, bool, error)
}

// MessageReplenisher refills a pool with count new messages.
type MessageReplenisher interface {
	GenerateMessages(ctx context.Context, userID, personaID string, count int) error
}

// DailyMessageService hands out one daily message per call and keeps the
// pool from running dry.
type DailyMessageService struct {
	pool         DailyMessagePool
	replenisher  MessageReplenisher
	runner       *background.Runner
	logger       *log.Logger
	metrics      *metrics.Metrics
	lowWatermark int
	batch        int
}

type DailyMessageOption func(*DailyMessageService)

// WithThresholds overrides the low watermark and the replenishment batch size.
func WithThresholds(lowWatermark, batch int) DailyMessageOption {
	return func(s *DailyMessageService) {
		if lowWatermark > 0 {
			s.lowWatermark = lowWatermark
		}
		if batch > 0 {
			s.batch = batch
		}
	}
}

func WithDailyMetrics(m *metrics.Metrics) DailyMessageOption {
	return func(s *DailyMessageService) { s.metrics = m }
}

func NewDailyMessageService(pool DailyMessagePool, replenisher MessageReplenisher, runner *background.Runner, logger *log.Logger, opts ...DailyMessageOption) *DailyMessageService {
	if logger == nil {
		logger = log.New(os.Stderr)
	}
	s := &DailyMessageService{
		pool:         pool,
		replenisher:  replenisher,
		runner:       runner,
		logger:       logger.With("component", "daily-messages"),
		lowWatermark: DefaultLowWatermark,
		batch:        DefaultReplenishBatch,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Ensure returns one unused daily message for the pair, marking it used.
// ok is false when the pool is empty even after replenishment.
//
// Above the low watermark the pool is only read. At the watermark a message
// is picked and the pool refilled in the background. Below it the refill is
// awaited first, and the pick happens even if the refill failed.
func (s *DailyMessageService) Ensure(ctx context.Context, userID, personaID string) (string, bool, error) {
	count, err := s.pool.CountUnused(ctx, userID, personaID)
	if err != nil {
		s.logger.Error("Failed to count daily messages", "user", userID, "persona", personaID, "err", err)
		return "", false, fmt.Errorf("failed to check daily message pool: %w", err)
	}

	switch {
	case count > s.lowWatermark:
		return s.pick(ctx, userID, personaID)

	case count == s.lowWatermark:
		text, ok, err := s.pick(ctx, userID, personaID)
		s.replenishDetached(ctx, userID, personaID)
		return text, ok, err

	default:
		if err := s.replenisher.GenerateMessages(ctx, userID, personaID, s.batch); err != nil {
			s.logger.Error("Daily message replenishment failed", "user", userID, "persona", personaID, "err", err)
			s.countReplenishment("sync", err)
		} else {
			s.countReplenishment("sync", nil)
		}
		return s.pick(ctx, userID, personaID)
	}
}

func (s *DailyMessageService) pick(ctx context.Context, userID, personaID string) (string, bool, error) {
	text, ok, err := s.pool.PickAndMarkUsed(ctx, userID, personaID)
	switch {
	case err != nil:
		s.countPick("error")
		return "", false, fmt.Errorf("failed to pick daily message: %w", err)
	case !ok:
		s.countPick("empty")
		return "", false, nil
	default:
		s.countPick("picked")
		return text, true, nil
	}
}

func (s *DailyMessageService) replenishDetached(ctx context.Context, userID, personaID string) *background.Task {
	name := "replenish-daily-messages"
	if s.runner == nil {
		s.logger.Warn("No background runner, skipping replenishment", "user", userID, "persona", personaID)
		return nil
	}
	return s.runner.Go(ctx, name, func(ctx context.Context) error {
		err := s.replenisher.GenerateMessages(ctx, userID, personaID, s.batch)
		s.countReplenishment("background", err)
		if err != nil {
			return fmt.Errorf("replenish %s/%s: %w", userID, personaID, err)
		}
		return nil
	})
}

func (s *DailyMessageService) countPick(outcome string) {
	if s.metrics != nil {
		s.metrics.DailyPicks.WithLabelValues(outcome).Inc()
	}
}

func (s *DailyMessageService) countReplenishment(mode string, err error) {
	if s.metrics == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	s.metrics.Replenishments.WithLabelValues(mode, outcome).Inc()
}
