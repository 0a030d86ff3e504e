package recat

import (
	"context"
	"fmt"
	"time"

	"github.com/adhocore/gronx"

	"tabsd/pkg/classify"
	"tabsd/pkg/config"
	"tabsd/pkg/logger"
)

// Start starts the scheduled recategorization loop if enabled. The loop
// drops every memoized category and per-chat type on each tick so the next
// inbox read rebuilds from the ledger. Returns a cancel func.
func Start(ctx context.Context, eff config.EffectiveConfigResult, store *classify.Store) (context.CancelFunc, error) {
	rc := eff.Config.Recategorize

	if !rc.Enabled {
		logger.Info("recategorize_disabled")
		return func() {}, nil
	}

	// map empty cron to default daily @02:00
	cronExpr := rc.Cron
	if cronExpr == "" {
		cronExpr = "0 2 * * *"
	}
	if !gronx.IsValid(cronExpr) {
		logger.Error("recategorize_invalid_cron", "cron", rc.Cron)
		return nil, fmt.Errorf("invalid recategorize cron expression: %s", rc.Cron)
	}

	logger.Info("recategorize_enabled", "cron", cronExpr)
	ctx2, cancel := context.WithCancel(ctx)

	go runScheduler(ctx2, store, cronExpr)

	logger.Info("recategorize_scheduler_started")
	return cancel, nil
}

// runScheduler uses gronx to compute the next tick for the configured cron
// expression and sleeps until that time, so full cron syntax is supported.
func runScheduler(ctx context.Context, store *classify.Store, cronExpr string) {
	for {
		select {
		case <-ctx.Done():
			logger.Info("recategorize_scheduler_stopping")
			return
		default:
		}

		now := time.Now().UTC()
		next, err := gronx.NextTickAfter(cronExpr, now, false)
		if err != nil {
			logger.Error("recategorize_nexttick_failed", "cron", cronExpr, "error", err)
			select {
			case <-time.After(30 * time.Second):
			case <-ctx.Done():
				logger.Info("recategorize_scheduler_stopping")
				return
			}
			continue
		}

		wait := time.Until(next)
		if wait <= 0 {
			runOnce(store)
			// small sleep to avoid a tight loop around the tick boundary
			select {
			case <-time.After(time.Second):
			case <-ctx.Done():
				logger.Info("recategorize_scheduler_stopping")
				return
			}
			continue
		}

		select {
		case <-time.After(wait):
			runOnce(store)
		case <-ctx.Done():
			logger.Info("recategorize_scheduler_stopping")
			return
		}
	}
}

func runOnce(store *classify.Store) {
	start := time.Now()
	store.ForceRecategorize()
	st := store.Snapshot()
	logger.Info("recategorize_run",
		"took", time.Since(start).String(),
		"messages", st.Ledger,
		"chats", st.Chats,
		"personal", st.Personal,
		"news", st.News,
		"discussion", st.Discussion)
}
