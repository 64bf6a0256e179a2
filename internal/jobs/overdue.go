package jobs

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"backoffice/internal/payable"
)

// OverdueSweeper periodically flags open accounts past their due date.
type OverdueSweeper struct {
	Payables *payable.Repository
	Log      *logrus.Logger

	cron *cron.Cron
}

// Start schedules the sweep and runs it once immediately so a restarted
// service does not wait a full cycle to catch up.
func (s *OverdueSweeper) Start(ctx context.Context, spec string) error {
	s.runOnce(ctx)

	c := cron.New()
	if _, err := c.AddFunc(spec, func() { s.runOnce(context.Background()) }); err != nil {
		return err
	}
	c.Start()
	s.cron = c
	return nil
}

func (s *OverdueSweeper) Stop() {
	if s.cron != nil {
		<-s.cron.Stop().Done()
	}
}

func (s *OverdueSweeper) runOnce(ctx context.Context) {
	n, err := s.Payables.MarkOverdue(ctx, time.Now())
	if err != nil {
		s.Log.WithError(err).Error("overdue sweep failed")
		return
	}
	if n > 0 {
		s.Log.WithField("accounts", n).Info("flagged overdue accounts")
	}
}
