package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	goredis "github.com/redis/go-redis/v9"

	"github.com/jhoicas/gestor-ipv/internal/domain/entity"
	"github.com/jhoicas/gestor-ipv/internal/domain/repository"
)

var _ repository.SnapshotRepository = (*SnapshotStore)(nil)

// SnapshotStore instantánea JSON por área bajo la clave ipv:snapshot:<área>, sin expiración.
type SnapshotStore struct {
	client goredis.UniversalClient
}

// NewSnapshotStore construye el almacén.
func NewSnapshotStore(client goredis.UniversalClient) *SnapshotStore {
	return &SnapshotStore{client: client}
}

func snapshotKey(section entity.Section) string {
	return keyPrefix + "snapshot:" + string(section)
}

func (s *SnapshotStore) Load(ctx context.Context, section entity.Section) (*entity.LedgerState, error) {
	raw, err := s.client.Get(ctx, snapshotKey(section)).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("redis get %s: %w", snapshotKey(section), err)
	}
	var state entity.LedgerState
	if err := json.Unmarshal(raw, &state); err != nil {
		return nil, fmt.Errorf("decode snapshot %s: %w", section, err)
	}
	return &state, nil
}

func (s *SnapshotStore) Save(ctx context.Context, state entity.LedgerState) error {
	raw, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("encode snapshot %s: %w", state.Section, err)
	}
	if err := s.client.Set(ctx, snapshotKey(state.Section), raw, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", snapshotKey(state.Section), err)
	}
	return nil
}
