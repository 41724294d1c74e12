package storage

import (
	"errors"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"curie/config"
)

// SessionKey is the persisted key holding the client's session id.
const SessionKey = "agentic-curie-session"

// Identity hands out the session id for this process. The id is read once
// from the store (or generated and written back) and then cached, so every
// chat request within one run carries the same value even if the store later
// becomes unavailable.
type Identity struct {
	store Store
	id    string
}

func NewIdentity(store Store) *Identity {
	return &Identity{store: store}
}

// GetOrCreateSessionID returns the persisted id, creating it on first use.
// Persistence failures degrade to an in-memory id for this process.
func (i *Identity) GetOrCreateSessionID() string {
	if i.id != "" {
		return i.id
	}

	if i.store != nil {
		existing, err := i.store.Get(SessionKey)
		switch {
		case err == nil && strings.TrimSpace(existing) != "":
			i.id = strings.TrimSpace(existing)
			return i.id
		case err != nil && !errors.Is(err, ErrNotFound):
			config.DebugLog.Warn("session store unreadable, using in-memory id", zap.Error(err))
			i.id = uuid.New().String()
			return i.id
		}
	}

	i.id = uuid.New().String()
	if i.store != nil {
		if err := i.store.Set(SessionKey, i.id); err != nil {
			config.DebugLog.Warn("failed to persist session id", zap.Error(err))
		}
	}
	return i.id
}

// OpenStore opens the persisted store in dataDir, falling back to memory.
// The returned bool reports whether the store is durable.
func OpenStore(dataDir string) (Store, bool) {
	store, err := NewSQLiteStore(config.GetDatabasePath(dataDir))
	if err != nil {
		config.DebugLog.Warn("persistent store unavailable, session id will not survive restart", zap.Error(err))
		return NewMemoryStore(), false
	}
	return store, true
}
