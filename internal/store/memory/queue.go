package memory

import (
	"context"
	"sync"

	"github.com/handoff-sh/handoff/internal/domain"
)

// WaitQueue is the in-memory escalation queue for demo mode.
type WaitQueue struct {
	mu      sync.Mutex
	waiting []domain.QueuedEscalation
}

func NewWaitQueue() *WaitQueue {
	return &WaitQueue{}
}

func (q *WaitQueue) Enqueue(_ context.Context, e domain.QueuedEscalation) (int, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.waiting = append(q.waiting, e)
	return len(q.waiting), nil
}

func (q *WaitQueue) Len(_ context.Context) (int, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.waiting), nil
}

func (q *WaitQueue) Snapshot(_ context.Context) ([]domain.QueuedEscalation, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	return append([]domain.QueuedEscalation(nil), q.waiting...), nil
}

// Dequeue pops the head of the queue, if any.
func (q *WaitQueue) Dequeue(_ context.Context) (*domain.QueuedEscalation, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.waiting) == 0 {
		return nil, nil
	}
	head := q.waiting[0]
	q.waiting = q.waiting[1:]
	return &head, nil
}
