package mockexam

import (
	"context"
	"sync"

	"github.com/secandoalei/secando/internal/quiz"
)

// persister serializes progress writes for one exam. Bubble Tea runs each
// command on its own goroutine, so a save issued before the exam ends can
// reach the store after the clear. Snapshots carry the sequence number
// they were taken at; older ones and anything after clear are dropped.
type persister struct {
	progress   *quiz.ProgressStore
	owner, key string

	mu      sync.Mutex
	issued  int
	written int
	closed  bool
}

func newPersister(progress *quiz.ProgressStore, owner, key string) *persister {
	return &persister{progress: progress, owner: owner, key: key}
}

// next numbers a snapshot. Called from Update, in event order.
func (p *persister) next() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.issued++
	return p.issued
}

func (p *persister) save(ctx context.Context, seq int, snap quiz.Progress) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed || seq <= p.written {
		return nil
	}
	p.written = seq
	return p.progress.Save(ctx, snap)
}

// clear removes saved progress. Later saves are ignored.
func (p *persister) clear(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	return p.progress.Clear(ctx, p.owner, p.key)
}
