package tokenstore

import (
	"context"
	"sync"
)

// Memory is an in-process token store for tests and ephemeral sessions.
type Memory struct {
	mu      sync.Mutex
	access  string
	refresh string
}

func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) Save(_ context.Context, access, refresh string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.access, m.refresh = access, refresh
	return nil
}

func (m *Memory) Access(context.Context) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.access == "" || m.refresh == "" {
		return ""
	}
	return m.access
}

func (m *Memory) Refresh(context.Context) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.access == "" || m.refresh == "" {
		return ""
	}
	return m.refresh
}

func (m *Memory) Clear(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.access, m.refresh = "", ""
	return nil
}
