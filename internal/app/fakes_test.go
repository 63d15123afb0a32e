package app

import (
	"context"
	"sync"
	"time"

	"cronicas-api/internal/model"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []model.AuditEvent
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, event model.AuditEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, event)
	return nil
}

func (p *recordingPublisher) actions() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Action)
	}
	return out
}

type memoryThrottle struct {
	max      int
	window   time.Duration
	failures map[string]int
}

func newMemoryThrottle(max int) *memoryThrottle {
	return &memoryThrottle{max: max, window: time.Minute, failures: map[string]int{}}
}

func (m *memoryThrottle) Blocked(_ context.Context, username string) (time.Duration, bool, error) {
	if m.failures[username] >= m.max {
		return m.window, true, nil
	}
	return 0, false, nil
}

func (m *memoryThrottle) RecordFailure(_ context.Context, username string) error {
	m.failures[username]++
	return nil
}

func (m *memoryThrottle) Reset(_ context.Context, username string) error {
	delete(m.failures, username)
	return nil
}
