package state

import (
	"context"
	"fmt"
	"sync"
)

// Memory keeps notifier state in memory. Used when running locally.
type Memory struct {
	states map[string]CycleState
	lock   sync.RWMutex
}

func (m *Memory) Read(_ context.Context, prefix string) (CycleState, error) {
	m.lock.RLock()
	defer m.lock.RUnlock()
	s, ok := m.states[prefix]
	if !ok {
		return CycleState{}, fmt.Errorf("%w: %s not found", ErrStoreUnavailable, prefix)
	}
	return s, nil
}

func (m *Memory) Write(_ context.Context, prefix string, s CycleState) error {
	m.lock.Lock()
	defer m.lock.Unlock()
	if m.states == nil {
		m.states = make(map[string]CycleState)
	}
	s.Start = s.Start.UTC()
	m.states[prefix] = s
	return nil
}
