package room

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"passtnicht/internal/storage"
)

// Manager is the room-code-keyed registry of live rooms.
type Manager struct {
	mu          sync.RWMutex
	rooms       map[string]*Room
	store       *storage.Store
	targetScore int
}

// NewManager creates a room manager. New rooms play to targetScore.
func NewManager(store *storage.Store, targetScore int) *Manager {
	return &Manager{
		rooms:       make(map[string]*Room),
		store:       store,
		targetScore: targetScore,
	}
}

// Create makes a new room and records it.
func (m *Manager) Create() (*Room, error) {
	code := generateCode()
	if err := m.store.CreateRoom(code); err != nil {
		return nil, fmt.Errorf("persist room: %w", err)
	}
	r := New(code, m.targetScore, m.store)
	m.mu.Lock()
	m.rooms[code] = r
	m.mu.Unlock()
	return r, nil
}

// Get returns a room by code.
func (m *Manager) Get(code string) (*Room, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.rooms[code]
	return r, ok
}

// List returns summaries of all live rooms.
func (m *Manager) List() []Info {
	m.mu.RLock()
	defer m.mu.RUnlock()
	infos := make([]Info, 0, len(m.rooms))
	for _, r := range m.rooms {
		infos = append(infos, r.Info())
	}
	return infos
}

// Remove deletes a room from memory and storage. Its results history stays.
func (m *Manager) Remove(code string) {
	m.mu.Lock()
	delete(m.rooms, code)
	m.mu.Unlock()
	if err := m.store.DeleteRoom(code); err != nil {
		log.Error().Err(err).Str("room", code).Msg("delete room")
	}
}

// CleanupLoop removes abandoned rooms periodically.
func (m *Manager) CleanupLoop(interval, maxAge time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for range ticker.C {
		m.cleanup(maxAge)
	}
}

func (m *Manager) cleanup(maxAge time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now()
	for code, r := range m.rooms {
		if r.ConnCount() > 0 {
			continue
		}
		row, err := m.store.GetRoom(code)
		if err != nil {
			delete(m.rooms, code)
			continue
		}
		if now.Sub(row.CreatedAt) > maxAge {
			log.Info().Str("room", code).Msg("cleaning up room")
			m.store.DeleteRoom(code)
			delete(m.rooms, code)
		}
	}
}

func generateCode() string {
	b := make([]byte, 3) // 6 hex chars
	rand.Read(b)
	return hex.EncodeToString(b)
}
