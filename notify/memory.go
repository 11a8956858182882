package notify

import (
	"context"
	"sync"
)

// Memory is a single-process notifier used when redis is not configured and
// as the test double. Semantics match Redis: best-effort, non-blocking.
type Memory struct {
	mu   sync.Mutex
	subs map[uint]map[int]chan Change
	next int
}

// NewMemory builds an in-process notifier.
func NewMemory() *Memory {
	return &Memory{subs: make(map[uint]map[int]chan Change)}
}

func (m *Memory) Publish(_ context.Context, ch Change) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.subs[ch.UserID] {
		select {
		case c <- ch:
		default:
		}
	}
}

func (m *Memory) Subscribe(_ context.Context, userID uint) (<-chan Change, func()) {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := m.next
	m.next++
	c := make(chan Change, 8)
	if m.subs[userID] == nil {
		m.subs[userID] = make(map[int]chan Change)
	}
	m.subs[userID][id] = c

	cancel := func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		if sub, ok := m.subs[userID][id]; ok {
			delete(m.subs[userID], id)
			close(sub)
		}
	}
	return c, cancel
}
