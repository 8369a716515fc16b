// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/examguard/proctoring

package writer

import (
	"context"
	"sync"
)

// memEventStore is an in-memory EventStore used for unit tests only.
type memEventStore struct {
	mu           sync.Mutex
	events       map[string]*AnomalyEvent
	evidence     map[string]*Evidence
	activeByID   map[string]bool
}

func newMemEventStore() *memEventStore {
	return &memEventStore{
		events:     make(map[string]*AnomalyEvent),
		evidence:   make(map[string]*Evidence),
		activeByID: make(map[string]bool),
	}
}

func (m *memEventStore) setActive(sessionID string, active bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.activeByID[sessionID] = active
}

func (m *memEventStore) InsertEvent(_ context.Context, event *AnomalyEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.activeByID[event.SessionID] {
		return ErrSessionEnded
	}
	cp := *event
	m.events[event.EventID] = &cp
	return nil
}

func (m *memEventStore) InsertEvidence(_ context.Context, evidence *Evidence) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *evidence
	m.evidence[evidence.ID] = &cp
	if e, ok := m.events[evidence.EventID]; ok {
		id := evidence.ID
		e.EvidenceID = &id
	}
	return nil
}

func (m *memEventStore) IsSessionActive(_ context.Context, sessionID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.activeByID[sessionID], nil
}
