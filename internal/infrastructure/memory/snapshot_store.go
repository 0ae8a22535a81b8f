package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/jhoicas/gestor-ipv/internal/domain/entity"
)

// SnapshotStore instantáneas del IPV en memoria. Guarda el JSON para devolver copias
// independientes del estado vivo.
type SnapshotStore struct {
	mu   sync.RWMutex
	data map[entity.Section][]byte
}

// NewSnapshotStore crea el almacén vacío.
func NewSnapshotStore() *SnapshotStore {
	return &SnapshotStore{data: make(map[entity.Section][]byte)}
}

func (s *SnapshotStore) Load(_ context.Context, section entity.Section) (*entity.LedgerState, error) {
	s.mu.RLock()
	raw, ok := s.data[section]
	s.mu.RUnlock()
	if !ok {
		return nil, nil
	}
	var state entity.LedgerState
	if err := json.Unmarshal(raw, &state); err != nil {
		return nil, fmt.Errorf("decodificar IPV %s: %w", section, err)
	}
	return &state, nil
}

func (s *SnapshotStore) Save(_ context.Context, state entity.LedgerState) error {
	raw, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("codificar IPV %s: %w", state.Section, err)
	}
	s.mu.Lock()
	s.data[state.Section] = raw
	s.mu.Unlock()
	return nil
}
