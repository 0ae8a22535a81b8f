package repository

import (
	"context"

	"github.com/jhoicas/gestor-ipv/internal/domain/entity"
)

// SnapshotRepository persistencia clave-valor del IPV completo de un área (última escritura gana).
type SnapshotRepository interface {
	// Load devuelve (nil, nil) si el área no tiene nada guardado.
	Load(ctx context.Context, section entity.Section) (*entity.LedgerState, error)
	Save(ctx context.Context, state entity.LedgerState) error
}
