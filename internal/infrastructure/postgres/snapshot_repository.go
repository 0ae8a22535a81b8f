package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/gestor-ipv/internal/domain/entity"
	"github.com/jhoicas/gestor-ipv/internal/domain/repository"
)

var _ repository.SnapshotRepository = (*SnapshotRepo)(nil)

// SnapshotRepo instantáneas del IPV en la tabla ipv_snapshots (una fila por área, JSONB).
type SnapshotRepo struct {
	q Querier
}

// NewSnapshotRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSnapshotRepository(q Querier) *SnapshotRepo {
	return &SnapshotRepo{q: q}
}

// Load devuelve (nil, nil) si el área no tiene instantánea.
func (r *SnapshotRepo) Load(ctx context.Context, section entity.Section) (*entity.LedgerState, error) {
	var raw []byte
	err := r.q.QueryRow(ctx, `SELECT state FROM ipv_snapshots WHERE section = $1`, string(section)).Scan(&raw)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("load snapshot: %w", err)
	}
	var state entity.LedgerState
	if err := json.Unmarshal(raw, &state); err != nil {
		return nil, fmt.Errorf("decode snapshot %s: %w", section, err)
	}
	return &state, nil
}

// Save reemplaza la instantánea del área (última escritura gana).
func (r *SnapshotRepo) Save(ctx context.Context, state entity.LedgerState) error {
	raw, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("encode snapshot %s: %w", state.Section, err)
	}
	query := `
		INSERT INTO ipv_snapshots (section, business_day, state, saved_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (section) DO UPDATE
		SET business_day = EXCLUDED.business_day, state = EXCLUDED.state, saved_at = EXCLUDED.saved_at`
	if _, err := r.q.Exec(ctx, query, string(state.Section), state.BusinessDay, raw, state.SavedAt); err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	return nil
}
