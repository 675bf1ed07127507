package session

import (
	"context"
	"log/slog"

	"github.com/Domenick1991/flightdesk/internal/backend"
)

// Manager is built once per process and materializes stores per browser
// session key.
type Manager struct {
	backend   backend.API
	snapshots Snapshots
	logger    *slog.Logger
}

func NewManager(api backend.API, snapshots Snapshots, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{backend: api, snapshots: snapshots, logger: logger}
}

// Session restores the store for the given key. A present, well-formed
// snapshot yields an authenticated store; anything else (absent, corrupt,
// storage error) yields an anonymous one.
func (m *Manager) Session(ctx context.Context, key string) *Store {
	store := &Store{
		key:       key,
		backend:   m.backend,
		snapshots: m.snapshots,
		logger:    m.logger,
	}

	user, err := m.snapshots.Load(ctx, key)
	if err != nil {
		m.logger.Warn("session restore failed", "error", err)
		return store
	}
	store.user = user
	return store
}
