package employee

import (
	"context"
	"slices"
	"sync"

	"github.com/Artexxx/HR-Directory/internal/dto"
)

// Memory keeps employees in process, in insertion order. It is used when no
// Postgres connection is configured.
type Memory struct {
	mu      sync.RWMutex
	records []dto.Employee
}

func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) Create(_ context.Context, e dto.Employee) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.indexOf(e.ID) >= 0 {
		return dto.ErrAlreadyExists
	}
	m.records = append(m.records, e)

	return nil
}

func (m *Memory) Update(_ context.Context, e dto.Employee) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.indexOf(e.ID)
	if i < 0 {
		return dto.ErrNotFound
	}
	m.records[i] = e

	return nil
}

func (m *Memory) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.indexOf(id)
	if i < 0 {
		return dto.ErrNotFound
	}
	m.records = slices.Delete(m.records, i, i+1)

	return nil
}

func (m *Memory) Get(_ context.Context, id string) (*dto.Employee, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	i := m.indexOf(id)
	if i < 0 {
		return nil, dto.ErrNotFound
	}
	e := m.records[i]

	return &e, nil
}

func (m *Memory) List(_ context.Context) ([]dto.Employee, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]dto.Employee, len(m.records))
	copy(out, m.records)

	return out, nil
}

func (m *Memory) Reset(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.records = nil

	return nil
}

func (m *Memory) indexOf(id string) int {
	return slices.IndexFunc(m.records, func(e dto.Employee) bool { return e.ID == id })
}
