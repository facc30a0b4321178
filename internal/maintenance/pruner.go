package maintenance

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/whisperbox/whisperbox/internal/metrics"
	"github.com/whisperbox/whisperbox/internal/repository"
)

// Pruner removes unverified accounts whose verification code expired long
// ago. Overwriting a pending signup already handles the common case; the
// pruner keeps truly abandoned registrations from accumulating.
type Pruner struct {
	users    repository.UserRepository
	logger   *slog.Logger
	schedule string
	grace    time.Duration
	cron     *cron.Cron
}

const defaultGrace = 24 * time.Hour

func NewPruner(users repository.UserRepository, logger *slog.Logger, schedule string) *Pruner {
	return &Pruner{
		users:    users,
		logger:   logger.With("component", "pruner"),
		schedule: schedule,
		grace:    defaultGrace,
	}
}

// Start registers the cron entry and runs until ctx is cancelled.
func (p *Pruner) Start(ctx context.Context) error {
	c := cron.New()
	_, err := c.AddFunc(p.schedule, func() { p.runOnce(ctx) })
	if err != nil {
		return err
	}
	p.cron = c
	c.Start()

	<-ctx.Done()
	<-c.Stop().Done()
	return nil
}

func (p *Pruner) runOnce(ctx context.Context) {
	runCtx, cancel := context.WithTimeout(ctx, time.Minute)
	defer cancel()

	cutoff := time.Now().Add(-p.grace)
	removed, err := p.users.DeleteStaleUnverified(runCtx, cutoff)
	if err != nil {
		p.logger.Error("prune stale unverified accounts", "error", err)
		return
	}
	if removed > 0 {
		metrics.PrunedAccountsTotal.Add(float64(removed))
		p.logger.Info("pruned stale unverified accounts", "count", removed, "cutoff", cutoff)
	}
}
