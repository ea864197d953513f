package state

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/five82/tenderdesk/internal/views"
)

func TestStore_UpdateAndSnapshot(t *testing.T) {
	var s Store

	before := time.Now()
	s.Update(&views.Counts{ActiveTenders: 3, PendingBills: 1}, nil)

	snap := s.Snapshot()
	if !snap.HasCounts || snap.Counts.ActiveTenders != 3 || snap.Counts.PendingBills != 1 {
		t.Fatalf("snapshot counts = %#v, want tenders=3 bills=1 HasCounts=true", snap.Counts)
	}
	if snap.LastUpdated.Before(before) {
		t.Fatalf("LastUpdated = %v, want >= %v", snap.LastUpdated, before)
	}
	if snap.LastError != nil {
		t.Fatalf("LastError = %v, want nil", snap.LastError)
	}

	s.Update(nil, nil)
	if snap := s.Snapshot(); snap.HasCounts {
		t.Fatalf("HasCounts = true after nil update")
	}
}

func TestStore_UpdateErrorKeepsPreviousData(t *testing.T) {
	var s Store

	s.Update(&views.Counts{Contracts: 4}, nil)
	prev := s.Snapshot()

	before := time.Now()
	origErr := errors.New("boom")
	s.Update(nil, origErr)

	snap := s.Snapshot()
	if snap.HasCounts != prev.HasCounts || snap.Counts != prev.Counts {
		t.Fatalf("counts changed on error: got %#v want %#v", snap.Counts, prev.Counts)
	}
	if snap.LastUpdated.Before(before) {
		t.Fatalf("LastUpdated = %v, want >= %v", snap.LastUpdated, before)
	}
	if snap.LastError == nil || snap.LastError.Error() != "boom" {
		t.Fatalf("LastError = %v, want boom", snap.LastError)
	}
	if !errors.Is(snap.LastError, origErr) {
		t.Fatalf("LastError should wrap the original error")
	}
	if reflect.ValueOf(snap.LastError).Pointer() == reflect.ValueOf(origErr).Pointer() {
		t.Fatalf("Snapshot should clone error instance")
	}
}

func TestStore_ConsecutiveFailures(t *testing.T) {
	var s Store

	tests := []struct {
		err     error
		want    int
		offline bool
	}{
		{errors.New("fail 1"), 1, false},
		{errors.New("fail 2"), 2, true},
		{errors.New("fail 3"), 3, true},
		{nil, 0, false},
	}

	if snap := s.Snapshot(); snap.ConsecutiveFailures != 0 || snap.IsOffline() {
		t.Fatalf("zero store = %#v, want online with no failures", snap)
	}
	for _, tt := range tests {
		var counts *views.Counts
		if tt.err == nil {
			counts = &views.Counts{}
		}
		s.Update(counts, tt.err)
		snap := s.Snapshot()
		if snap.ConsecutiveFailures != tt.want {
			t.Fatalf("ConsecutiveFailures = %d, want %d", snap.ConsecutiveFailures, tt.want)
		}
		if snap.IsOffline() != tt.offline {
			t.Fatalf("IsOffline() = %v, want %v after %d failures", snap.IsOffline(), tt.offline, tt.want)
		}
	}
}
