package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/eventhub/backend/internal/infrastructure/outbox"
	"github.com/eventhub/backend/repository"
	"github.com/eventhub/backend/usecase"
)

// Mailer abstracts the mail transport.
type Mailer interface {
	Send(to, subject, htmlBody string) error
}

// DispatcherConfig controls redelivery of parked notifications.
type DispatcherConfig struct {
	DrainInterval time.Duration
	BatchSize     int
	MaxRetries    int
	Retention     time.Duration
}

// Dispatcher delivers notifications to users. Delivery is best effort: a
// transport failure is logged and the message parked in the outbox, where a
// cron-driven drain retries it; the caller never sees an error. One
// recipient's failure never blocks another's delivery.
type Dispatcher struct {
	mailer Mailer
	users  repository.UserRepository
	store  *outbox.Store
	cron   *cron.Cron
	logger *zap.Logger
	cfg    DispatcherConfig
}

func NewDispatcher(
	mailer Mailer,
	users repository.UserRepository,
	store *outbox.Store,
	logger *zap.Logger,
	cfg DispatcherConfig,
) *Dispatcher {
	if cfg.DrainInterval <= 0 {
		cfg.DrainInterval = 30 * time.Second
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 50
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 3
	}
	if cfg.Retention <= 0 {
		cfg.Retention = 24 * time.Hour
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	d := &Dispatcher{
		mailer: mailer,
		users:  users,
		store:  store,
		logger: logger,
		cfg:    cfg,
		cron:   cron.New(cron.WithSeconds()),
	}

	schedule := fmt.Sprintf("@every %ds", int(cfg.DrainInterval.Seconds()))
	_, _ = d.cron.AddFunc(schedule, func() {
		if err := d.Drain(); err != nil {
			d.logger.Error("outbox drain failed", zap.Error(err))
		}
	})
	_, _ = d.cron.AddFunc("@every 1h", func() {
		if err := d.store.Cleanup(time.Now().Add(-cfg.Retention)); err != nil {
			d.logger.Warn("outbox cleanup failed", zap.Error(err))
		}
	})

	return d
}

var _ usecase.Dispatcher = (*Dispatcher)(nil)

// Dispatch resolves the recipient's email and attempts immediate delivery.
// Never returns an error to the caller.
func (d *Dispatcher) Dispatch(ctx context.Context, recipientID, subject, body string) {
	user, err := d.users.GetByID(ctx, recipientID)
	if err != nil {
		d.logger.Warn("notification recipient lookup failed",
			zap.String("recipient_id", recipientID), zap.Error(err))
		return
	}
	if strings.TrimSpace(user.Email) == "" {
		d.logger.Warn("notification recipient has no email", zap.String("recipient_id", recipientID))
		return
	}

	if err := d.mailer.Send(user.Email, subject, body); err != nil {
		d.logger.Warn("mail delivery failed, parking in outbox",
			zap.String("recipient_id", recipientID), zap.Error(err))
		if err := d.store.Enqueue(outbox.Notification{
			Email:   user.Email,
			Subject: subject,
			Body:    body,
		}); err != nil {
			d.logger.Error("failed to park notification", zap.Error(err))
		}
	}
}

// Start launches the redelivery scheduler.
func (d *Dispatcher) Start() {
	if d == nil || d.cron == nil {
		return
	}
	d.cron.Start()
	d.logger.Info("notification dispatcher started")
}

// Stop gracefully stops the scheduler.
func (d *Dispatcher) Stop(ctx context.Context) {
	if d == nil || d.cron == nil {
		return
	}
	stopCtx := d.cron.Stop()
	select {
	case <-stopCtx.Done():
	case <-ctx.Done():
	}
	d.logger.Info("notification dispatcher stopped")
}

// Drain retries parked notifications synchronously.
func (d *Dispatcher) Drain() error {
	if d == nil || d.store == nil {
		return nil
	}

	items, err := d.store.GetBatch(d.cfg.BatchSize)
	if err != nil {
		return err
	}

	for _, n := range items {
		if err := d.mailer.Send(n.Email, n.Subject, n.Body); err != nil {
			d.logger.Warn("notification redelivery failed",
				zap.String("notification_id", n.ID), zap.Error(err))

			n.Retries++
			if n.Retries >= d.cfg.MaxRetries {
				d.logger.Warn("dropping notification (max retries reached)",
					zap.String("notification_id", n.ID))
				_ = d.store.Remove(n)
				continue
			}

			if err := d.store.Remove(n); err != nil {
				d.logger.Warn("failed to remove notification", zap.Error(err))
			}
			if err := d.store.Requeue(n); err != nil {
				d.logger.Error("failed to requeue notification", zap.Error(err))
			}
			continue
		}

		if err := d.store.Remove(n); err != nil {
			d.logger.Warn("failed to purge delivered notification", zap.Error(err))
		}
	}
	return nil
}

// Size returns the number of parked notifications.
func (d *Dispatcher) Size() int {
	if d == nil || d.store == nil {
		return 0
	}
	size, err := d.store.Size()
	if err != nil {
		return 0
	}
	return size
}
