package app

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/five82/tenderdesk/internal/state"
	"github.com/five82/tenderdesk/internal/views"
)

const (
	defaultPollInterval = 30 * time.Second
	maxBackoff          = 5 * time.Minute
)

// CountsSource produces the dashboard counters. *views.Loader implements it.
type CountsSource interface {
	Dashboard(ctx context.Context) (views.DashboardData, error)
}

// StartPoller launches a background goroutine that refreshes the store. The
// wait between polls doubles after each consecutive failure, up to
// maxBackoff. It returns immediately.
func StartPoller(ctx context.Context, store *state.Store, source CountsSource, interval time.Duration, logger *slog.Logger) {
	if interval <= 0 {
		interval = defaultPollInterval
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	go func() {
		timer := time.NewTimer(0)
		defer timer.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-timer.C:
			}
			refresh(ctx, store, source, logger)
			timer.Reset(calculateBackoff(store.Snapshot().ConsecutiveFailures, interval))
		}
	}()
}

func refresh(ctx context.Context, store *state.Store, source CountsSource, logger *slog.Logger) {
	data, err := source.Dashboard(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		store.Update(nil, err)
		logger.Warn("dashboard poll failed", "error", err)
		return
	}
	store.Update(&data.Counts, nil)
}

// calculateBackoff returns interval doubled once per failure, capped at
// maxBackoff.
func calculateBackoff(failures int, interval time.Duration) time.Duration {
	if failures <= 0 {
		return interval
	}
	d := interval
	for i := 0; i < failures; i++ {
		d *= 2
		if d >= maxBackoff {
			return maxBackoff
		}
	}
	return d
}
