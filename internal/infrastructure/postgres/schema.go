package postgres

import (
	"context"
	"fmt"
)

// schema tablas del catálogo y de instantáneas del IPV. Idempotente.
const schema = `
CREATE TABLE IF NOT EXISTS catalog_products (
	id          BIGSERIAL PRIMARY KEY,
	section     TEXT NOT NULL CHECK (section IN ('salon', 'cocina')),
	name        TEXT NOT NULL,
	name_key    TEXT NOT NULL,
	unit_price  NUMERIC(14, 2) NOT NULL DEFAULT 0 CHECK (unit_price >= 0),
	active      BOOLEAN NOT NULL DEFAULT TRUE,
	created_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
	UNIQUE (section, name_key)
);

CREATE TABLE IF NOT EXISTS ipv_snapshots (
	section      TEXT PRIMARY KEY CHECK (section IN ('salon', 'cocina')),
	business_day TEXT NOT NULL,
	state        JSONB NOT NULL,
	saved_at     TIMESTAMPTZ NOT NULL DEFAULT now()
);`

// EnsureSchema crea las tablas si no existen.
func EnsureSchema(ctx context.Context, q Querier) error {
	if _, err := q.Exec(ctx, schema); err != nil {
		return fmt.Errorf("crear esquema: %w", err)
	}
	return nil
}
