package retention

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

type fakeRepo struct {
	mu       sync.Mutex
	cutoffs  []time.Time
	sweeps   int
	histErr  error
	history  int64
	explains int64
}

func (f *fakeRepo) DeleteHistoryBefore(_ context.Context, t time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cutoffs = append(f.cutoffs, t)
	f.sweeps++
	return f.history, f.histErr
}

func (f *fakeRepo) DeleteExplanationsBefore(_ context.Context, t time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cutoffs = append(f.cutoffs, t)
	return f.explains, nil
}

func (f *fakeRepo) sweepCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sweeps
}

func TestSweepUsesRetentionCutoff(t *testing.T) {
	repo := &fakeRepo{history: 3, explains: 1}
	w := NewWorker(repo, 24*time.Hour, time.Minute, nil)
	now := time.Date(2024, 5, 2, 12, 0, 0, 0, time.UTC)
	w.now = func() time.Time { return now }

	h, e := w.Sweep(context.Background())
	if h != 3 || e != 1 {
		t.Errorf("Sweep = %d, %d, want 3, 1", h, e)
	}

	want := now.Add(-24 * time.Hour)
	for _, c := range repo.cutoffs {
		if !c.Equal(want) {
			t.Errorf("cutoff = %v, want %v", c, want)
		}
	}
}

func TestSweepContinuesAfterHistoryError(t *testing.T) {
	repo := &fakeRepo{histErr: errors.New("boom"), explains: 2}
	w := NewWorker(repo, time.Hour, time.Minute, nil)

	h, e := w.Sweep(context.Background())
	if h != 0 || e != 2 {
		t.Errorf("Sweep = %d, %d, want 0, 2", h, e)
	}
}

func TestNewWorkerDefaults(t *testing.T) {
	w := NewWorker(&fakeRepo{}, 0, -1, nil)
	if w.retention != DefaultRetention || w.interval != DefaultInterval {
		t.Errorf("defaults = %v, %v", w.retention, w.interval)
	}
}

func TestStartSweepsUntilCancelled(t *testing.T) {
	repo := &fakeRepo{}
	w := NewWorker(repo, time.Hour, 5*time.Millisecond, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := w.Start(ctx)

	deadline := time.Now().Add(2 * time.Second)
	for repo.sweepCount() < 2 {
		if time.Now().After(deadline) {
			t.Fatal("worker did not sweep")
		}
		time.Sleep(5 * time.Millisecond)
	}

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not stop")
	}
}
