package reminder

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/northmart/shopd/internal/clock"
	"github.com/northmart/shopd/internal/config"
	customerdomain "github.com/northmart/shopd/internal/customer/domain"
	obsmetrics "github.com/northmart/shopd/internal/observability/metrics"
	orderdomain "github.com/northmart/shopd/internal/order/domain"
	"github.com/northmart/shopd/internal/providers/email"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	// SummaryNoEmails is the sweep result when nothing qualifies.
	SummaryNoEmails = "no emails to send"

	timestampLayout = "2006-01-02 15:04"
)

// ErrSweepRunning means a sweep was requested while another was still active.
var ErrSweepRunning = errors.New("reminder sweep already running")

type Params struct {
	fx.In

	DB           *gorm.DB
	Log          *zap.Logger
	Clock        clock.Clock
	Repo         orderdomain.Repository
	CustomerRepo customerdomain.Repository
	Provider     email.Provider
	Cfg          *config.ReminderConfigHolder
	Metrics      *obsmetrics.SweepMetrics `optional:"true"`
}

// Sweeper is the periodic payment-reminder batch job. An order qualifies when
// its reminder has not gone out and the payment deadline's date is within the
// notify lead, or when the force flag is set. Each delivered reminder flips
// remainder_sent on and remainder_force off in a single update. A send
// failure aborts the remaining batch; orders already updated stay updated.
type Sweeper struct {
	db           *gorm.DB
	log          *zap.Logger
	clock        clock.Clock
	repo         orderdomain.Repository
	customerRepo customerdomain.Repository
	provider     email.Provider
	cfg          *config.ReminderConfigHolder
	metrics      *obsmetrics.SweepMetrics

	mu sync.Mutex
}

func New(p Params) *Sweeper {
	return &Sweeper{
		db:           p.DB,
		log:          p.Log.Named("reminder.sweep"),
		clock:        p.Clock,
		repo:         p.Repo,
		customerRepo: p.CustomerRepo,
		provider:     p.Provider,
		cfg:          p.Cfg,
		metrics:      p.Metrics,
	}
}

// RunOnce executes a single sweep and returns a human-readable summary.
// Overlapping executions are rejected with ErrSweepRunning so a slow batch
// can never double-send against itself.
func (s *Sweeper) RunOnce(ctx context.Context) (string, error) {
	if !s.mu.TryLock() {
		return "", ErrSweepRunning
	}
	defer s.mu.Unlock()

	start := time.Now()
	defer func() {
		if s.metrics != nil {
			s.metrics.SweepDuration.Observe(time.Since(start).Seconds())
		}
	}()

	now := s.clock.Now()
	lead := s.cfg.Get().NotifyLeadDays
	// Deadline comparison is date-granular: anything due on or before the
	// (now + lead) calendar day qualifies.
	cutoff := endOfDay(now.AddDate(0, 0, lead))

	orders, err := s.repo.FindDueForReminder(ctx, s.db, cutoff)
	if err != nil {
		return "", err
	}
	if len(orders) == 0 {
		return SummaryNoEmails, nil
	}

	sent := 0
	for i := range orders {
		if err := s.remind(ctx, &orders[i]); err != nil {
			// One failure kills the batch: already-updated orders stay
			// updated, the rest wait for the next tick.
			if s.metrics != nil {
				s.metrics.SweepErrors.Inc()
			}
			s.log.Warn("reminder sweep aborted",
				zap.Int64("order_id", orders[i].ID),
				zap.Int("sent_before_failure", sent),
				zap.Error(err),
			)
			return failureSummary(err), err
		}
		sent++
		if s.metrics != nil {
			s.metrics.RemindersSent.Inc()
		}
	}

	return sentSummary(sent), nil
}

func (s *Sweeper) remind(ctx context.Context, order *orderdomain.Order) error {
	client, err := s.customerRepo.FindByID(ctx, s.db, order.ClientID)
	if err != nil {
		return err
	}
	if client == nil {
		return fmt.Errorf("order %d: %w", order.ID, customerdomain.ErrNotFound)
	}

	msg := email.Message{
		To:      client.Email,
		Subject: "Payment remainder",
		Body: fmt.Sprintf(
			"Order created at: %s.\nPayment deadline: %s.",
			order.CreatedAt.Format(timestampLayout),
			order.PaymentDeadline.Format(timestampLayout),
		),
	}
	if err := s.provider.Send(ctx, msg); err != nil {
		return err
	}

	_, err = s.repo.MarkReminderSent(ctx, s.db, order.ID)
	return err
}

// RunForever runs sweeps on the configured interval until the context ends.
func (s *Sweeper) RunForever(ctx context.Context) {
	interval := s.cfg.Get().SweepInterval
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		summary, err := s.RunOnce(ctx)
		switch {
		case errors.Is(err, ErrSweepRunning):
			s.log.Debug("skipping tick, sweep still running")
		case err != nil:
			s.log.Warn("reminder sweep failed", zap.String("summary", summary), zap.Error(err))
		case summary != SummaryNoEmails:
			s.log.Info("reminder sweep finished", zap.String("summary", summary))
		}

		// Pick up hot-reloaded interval changes between ticks.
		if next := s.cfg.Get().SweepInterval; next != interval {
			interval = next
			ticker.Reset(interval)
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func sentSummary(sent int) string {
	if sent == 1 {
		return "1 reminder sent"
	}
	return fmt.Sprintf("%d reminders sent", sent)
}

func failureSummary(err error) string {
	switch {
	case errors.Is(err, email.ErrMalformedHeader):
		return "invalid header found"
	case errors.Is(err, email.ErrTransport):
		return fmt.Sprintf("there was an error sending an email: %v", err)
	default:
		return "mail sending failed"
	}
}

func endOfDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC).Add(24 * time.Hour)
}
