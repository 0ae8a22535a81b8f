package main

import (
	"context"
	"fmt"

	"github.com/jhoicas/gestor-ipv/internal/application/ipv"
	"github.com/jhoicas/gestor-ipv/internal/domain/repository"
	"github.com/jhoicas/gestor-ipv/internal/infrastructure/memory"
	"github.com/jhoicas/gestor-ipv/internal/infrastructure/postgres"
	infraredis "github.com/jhoicas/gestor-ipv/internal/infrastructure/redis"
	"github.com/jhoicas/gestor-ipv/pkg/config"
	"github.com/jhoicas/gestor-ipv/pkg/logger"
)

// storage colaboradores de persistencia según STORAGE_DRIVER.
type storage struct {
	products  repository.ProductRepository
	catalog   repository.CatalogRepository
	snapshots repository.SnapshotRepository
	locker    ipv.SectionLocker // nil = mutex local
	shared    bool
	closers   []func()
}

func (s *storage) Close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		s.closers[i]()
	}
}

// openStorage arma catálogo, instantáneas y lock.
//
//   - memory: todo en proceso.
//   - postgres: catálogo y instantáneas en PostgreSQL, una sola instancia escritora.
//   - redis: instantáneas y lock en Redis (varias instancias); catálogo en PostgreSQL si está
//     configurado, si no en memoria.
func openStorage(ctx context.Context, cfg *config.Config, log *logger.Logger) (*storage, error) {
	st := &storage{}

	usePostgres := cfg.Storage.Driver == config.DriverPostgres ||
		(cfg.Storage.Driver == config.DriverRedis && cfg.DB.Configured())
	if usePostgres {
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			return nil, fmt.Errorf("conexión a PostgreSQL: %w", err)
		}
		st.closers = append(st.closers, pool.Close)
		if err := postgres.EnsureSchema(ctx, pool); err != nil {
			st.Close()
			return nil, err
		}
		repo := postgres.NewProductRepository(pool)
		st.products, st.catalog = repo, repo
		st.snapshots = postgres.NewSnapshotRepository(pool)
	} else {
		store := memory.NewProductStore()
		st.products, st.catalog = store, store
		st.snapshots = memory.NewSnapshotStore()
	}

	if cfg.Storage.Driver == config.DriverRedis {
		client, err := infraredis.NewClient(ctx, cfg.Redis)
		if err != nil {
			st.Close()
			return nil, err
		}
		st.closers = append(st.closers, func() { _ = client.Close() })
		st.snapshots = infraredis.NewSnapshotStore(client)
		st.locker = infraredis.NewSectionLocker(client, cfg.IPV.LockTTL, log)
		st.shared = true
	}

	log.Info().Str("driver", cfg.Storage.Driver).Bool("postgres", usePostgres).Bool("shared", st.shared).
		Msg("almacenamiento listo")
	return st, nil
}
