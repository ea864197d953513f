package app

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/five82/tenderdesk/internal/state"
	"github.com/five82/tenderdesk/internal/views"
)

func TestCalculateBackoff(t *testing.T) {
	baseInterval := 30 * time.Second

	tests := []struct {
		name     string
		failures int
		want     time.Duration
	}{
		{"zero failures", 0, 30 * time.Second},
		{"negative failures", -1, 30 * time.Second},
		{"one failure", 1, time.Minute},
		{"two failures", 2, 2 * time.Minute},
		{"three failures", 3, 4 * time.Minute},
		{"four failures capped", 4, maxBackoff}, // Would be 8m, capped to 5m
		{"many failures capped", 40, maxBackoff},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := calculateBackoff(tt.failures, baseInterval)
			if got != tt.want {
				t.Errorf("calculateBackoff(%d, %v) = %v, want %v", tt.failures, baseInterval, got, tt.want)
			}
		})
	}
}

func TestCalculateBackoff_MaxCap(t *testing.T) {
	baseInterval := 2 * time.Second
	for failures := 0; failures <= 64; failures++ {
		got := calculateBackoff(failures, baseInterval)
		if got > maxBackoff {
			t.Errorf("calculateBackoff(%d, %v) = %v, exceeds maxBackoff %v", failures, baseInterval, got, maxBackoff)
		}
	}
}

type countsFunc func(ctx context.Context) (views.DashboardData, error)

func (f countsFunc) Dashboard(ctx context.Context) (views.DashboardData, error) { return f(ctx) }

func TestRefresh_UpdatesStore(t *testing.T) {
	var store state.Store

	refresh(context.Background(), &store, countsFunc(func(context.Context) (views.DashboardData, error) {
		return views.DashboardData{Counts: views.Counts{ActiveTenders: 7}}, nil
	}), nil)
	snap := store.Snapshot()
	if !snap.HasCounts || snap.Counts.ActiveTenders != 7 {
		t.Fatalf("snapshot = %#v, want ActiveTenders=7", snap)
	}
}

func TestStartPoller_RecordsFailures(t *testing.T) {
	var store state.Store
	var calls atomic.Int32
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	StartPoller(ctx, &store, countsFunc(func(context.Context) (views.DashboardData, error) {
		calls.Add(1)
		return views.DashboardData{}, errors.New("offline")
	}), time.Hour, nil)

	deadline := time.Now().Add(2 * time.Second)
	for calls.Load() == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	cancel()

	if calls.Load() == 0 {
		t.Fatalf("poller never polled")
	}
	// The store update follows the call; wait for it.
	for store.Snapshot().ConsecutiveFailures == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if got := store.Snapshot().ConsecutiveFailures; got != 1 {
		t.Fatalf("ConsecutiveFailures = %d, want 1", got)
	}
}
