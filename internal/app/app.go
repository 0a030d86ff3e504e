package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/joho/godotenv"

	"tabsd/internal/recat"
	"tabsd/pkg/classify"
	"tabsd/pkg/config"
	"tabsd/pkg/logger"
	"tabsd/pkg/state"
	"tabsd/pkg/validation"
)

// App encapsulates the server components and lifecycle.
type App struct {
	eff       config.EffectiveConfigResult
	version   string
	commit    string
	buildDate string

	store *classify.Store

	srv *http.Server
}

// New initializes resources that do not require a running context (state
// dirs, validation rules, runtime keys, the classification store). It does
// not start the scheduler or the HTTP server; call Run to start those and
// block until shutdown.
func New(eff config.EffectiveConfigResult, version, commit, buildDate string) (*App, error) {
	_ = godotenv.Load(".env")

	// validate effective config early and fail fast
	if err := validateConfig(eff); err != nil {
		return nil, err
	}

	// validation rules
	validation.SetRules(validation.Rules{
		MaxBatch:   eff.Config.Limits.MaxBatch,
		MaxTextLen: eff.Config.Limits.MaxTextLen,
	})

	// state layout (telemetry, crash and abort artifacts live here)
	if err := state.EnsureStateDirs(eff.DataDir); err != nil {
		return nil, fmt.Errorf("failed to prepare state dir %s: %w", eff.DataDir, err)
	}

	// classification store
	order, ok := classify.ParseOrder(eff.Config.Classify.Order)
	if !ok {
		return nil, fmt.Errorf("invalid classify.order %q: want title_first or structure_first", eff.Config.Classify.Order)
	}
	store, err := classify.New(classify.Options{
		Order:              order,
		ExtraNewsPatterns:  eff.Config.Classify.ExtraNewsPatterns,
		ExtraGroupPatterns: eff.Config.Classify.ExtraGroupPatterns,
	})
	if err != nil {
		return nil, fmt.Errorf("invalid classify config: %w", err)
	}

	a := &App{eff: eff, version: version, commit: commit, buildDate: buildDate, store: store}
	return a, nil
}

// Store exposes the classification store, mainly for tests.
func (a *App) Store() *classify.Store { return a.store }

// Run starts the recategorization scheduler (if enabled) and the HTTP
// server, and blocks until ctx is canceled or a fatal server error occurs.
func (a *App) Run(ctx context.Context) error {
	stopRecat, err := recat.Start(ctx, a.eff, a.store)
	if err != nil {
		return err
	}
	defer stopRecat()

	a.printBanner()

	errCh := a.startHTTP(ctx)

	select {
	case <-ctx.Done():
		sctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := a.srv.Shutdown(sctx); err != nil {
			logger.Warn("http_shutdown_incomplete", "error", err)
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
