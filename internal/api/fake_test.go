package api

import (
	"context"
	"errors"
	"iter"
	"sort"
	"sync"
	"time"

	"github.com/ashureev/quadlab/internal/domain"
	"github.com/ashureev/quadlab/internal/explain"
)

type fakeRepo struct {
	mu           sync.Mutex
	users        map[string]*domain.User
	history      []*domain.HistoryEntry
	explanations map[string]*domain.Explanation
	pingErr      error
	recordErr    error
	lastLimit    int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		users:        make(map[string]*domain.User),
		explanations: make(map[string]*domain.Explanation),
	}
}

func (f *fakeRepo) GetUser(_ context.Context, userID string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.users[userID], nil
}

func (f *fakeRepo) UpsertUser(_ context.Context, u *domain.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.users[u.UserID] = u
	return nil
}

func (f *fakeRepo) UpdateLastSeen(context.Context, string, time.Time) error { return nil }

func (f *fakeRepo) RecordSolve(_ context.Context, e *domain.HistoryEntry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.recordErr != nil {
		return f.recordErr
	}
	f.history = append(f.history, e)
	return nil
}

func (f *fakeRepo) ListHistory(_ context.Context, userID string, limit int) ([]*domain.HistoryEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastLimit = limit
	var out []*domain.HistoryEntry
	for _, e := range f.history {
		if e.UserID == userID {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeRepo) GetExplanation(_ context.Context, key string) (*domain.Explanation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.explanations[key], nil
}

func (f *fakeRepo) PutExplanation(_ context.Context, e *domain.Explanation) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.explanations[e.Key] = e
	return nil
}

func (f *fakeRepo) DeleteHistoryBefore(context.Context, time.Time) (int64, error) { return 0, nil }

func (f *fakeRepo) DeleteExplanationsBefore(context.Context, time.Time) (int64, error) {
	return 0, nil
}

func (f *fakeRepo) Ping(context.Context) error { return f.pingErr }

func (f *fakeRepo) Close() error { return nil }

func (f *fakeRepo) historyLen() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.history)
}

var errBackend = errors.New("backend down")

type fakeExplainer struct {
	chunks  []string
	err     error
	started chan struct{}
	gate    chan struct{}
}

func (f *fakeExplainer) Explain(ctx context.Context, _ explain.Request) iter.Seq2[*explain.Chunk, error] {
	return func(yield func(*explain.Chunk, error) bool) {
		if f.started != nil {
			f.started <- struct{}{}
		}
		if f.gate != nil {
			select {
			case <-f.gate:
			case <-ctx.Done():
				yield(nil, ctx.Err())
				return
			}
		}
		for _, c := range f.chunks {
			if !yield(&explain.Chunk{Text: c}, nil) {
				return
			}
		}
		if f.err != nil {
			yield(nil, f.err)
		}
	}
}

func (f *fakeExplainer) Close() {}
