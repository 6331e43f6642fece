package explain

import (
	"context"
	"iter"
	"sync"

	"github.com/ashureev/quadlab/internal/domain"
)

type fakeExplainer struct {
	mu      sync.Mutex
	calls   int
	chunks  []string
	err     error
	gate    chan struct{}
	lastReq Request
	closed  bool
}

func (f *fakeExplainer) Explain(ctx context.Context, req Request) iter.Seq2[*Chunk, error] {
	return func(yield func(*Chunk, error) bool) {
		f.mu.Lock()
		f.calls++
		f.lastReq = req
		gate := f.gate
		f.mu.Unlock()

		if gate != nil {
			select {
			case <-gate:
			case <-ctx.Done():
				yield(nil, ctx.Err())
				return
			}
		}
		for _, c := range f.chunks {
			if !yield(&Chunk{Text: c}, nil) {
				return
			}
		}
		if f.err != nil {
			yield(nil, f.err)
		}
	}
}

func (f *fakeExplainer) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
}

func (f *fakeExplainer) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type fakeCache struct {
	mu      sync.Mutex
	entries map[string]*domain.Explanation
	puts    int
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: make(map[string]*domain.Explanation)}
}

func (f *fakeCache) GetExplanation(_ context.Context, key string) (*domain.Explanation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	e := f.entries[key]
	if e == nil {
		return nil, nil
	}
	copy := *e
	return &copy, nil
}

func (f *fakeCache) PutExplanation(_ context.Context, e *domain.Explanation) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	copy := *e
	f.entries[e.Key] = &copy
	f.puts++
	return nil
}

func (f *fakeCache) putCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.puts
}
