// seed_catalog carga el catálogo de productos e ingredientes de cada área desde un CSV
// (area;nombre;precio, precio 0 = ingrediente).
//
// Uso:
//
//	go run ./cmd/seed_catalog -file catalogo.csv [-charset latin1]           # inserta en PostgreSQL
//	go run ./cmd/seed_catalog -file catalogo.csv -sql catalogo_seed.sql      # solo genera el script
//
// La conexión se toma de DATABASE_URL / DB_* como en la API.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/jhoicas/gestor-ipv/internal/domain/entity"
	"github.com/jhoicas/gestor-ipv/internal/domain/repository"
	"github.com/jhoicas/gestor-ipv/internal/infrastructure/postgres"
	"github.com/jhoicas/gestor-ipv/pkg/config"
	"github.com/jhoicas/gestor-ipv/pkg/logger"
)

func main() {
	file := flag.String("file", "catalogo.csv", "CSV con area;nombre;precio")
	charset := flag.String("charset", "utf8", "codificación del CSV (utf8, latin1, windows-1252)")
	sqlOut := flag.String("sql", "", "escribir un script SQL en vez de insertar")
	flag.Parse()

	rows, err := loadRows(*file, *charset)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Leer catálogo: %v\n", err)
		os.Exit(1)
	}

	if *sqlOut != "" {
		out, err := os.Create(*sqlOut)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Crear archivo: %v\n", err)
			os.Exit(1)
		}
		defer out.Close()
		if err := writeSQL(out, rows); err != nil {
			fmt.Fprintf(os.Stderr, "Escribir SQL: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Generado %s: %d productos\n", *sqlOut, len(rows))
		return
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()
	if err := postgres.EnsureSchema(ctx, pool); err != nil {
		log.Fatal().Err(err).Msg("esquema")
	}

	var created, updated int
	err = postgres.NewTxRunner(pool).Run(ctx, func(products repository.ProductRepository, _ repository.SnapshotRepository) error {
		var err error
		created, updated, err = upsertRows(ctx, products, rows, time.Now())
		return err
	})
	if err != nil {
		log.Fatal().Err(err).Msg("carga del catálogo")
	}
	log.Info().Int("created", created).Int("updated", updated).Msg("catálogo cargado")
}

func loadRows(path, charset string) ([]catalogRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	r, err := decodeReader(f, charset)
	if err != nil {
		return nil, err
	}
	return parseCatalog(r)
}

// upsertRows crea los productos nuevos y actualiza precio de los existentes (mismo nombre y área).
func upsertRows(ctx context.Context, repo repository.ProductRepository, rows []catalogRow, now time.Time) (created, updated int, err error) {
	for _, r := range rows {
		existing, err := repo.GetBySectionAndName(ctx, r.Section, r.Name)
		if err != nil {
			return created, updated, fmt.Errorf("línea %d: %w", r.Line, err)
		}
		if existing != nil {
			existing.UnitPrice = r.UnitPrice
			existing.Active = true
			existing.UpdatedAt = now
			if err := repo.Update(ctx, existing); err != nil {
				return created, updated, fmt.Errorf("línea %d: %w", r.Line, err)
			}
			updated++
			continue
		}
		p := &entity.CatalogProduct{
			Section:   r.Section,
			Name:      r.Name,
			UnitPrice: r.UnitPrice,
			Active:    true,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := repo.Create(ctx, p); err != nil {
			return created, updated, fmt.Errorf("línea %d: %w", r.Line, err)
		}
		created++
	}
	return created, updated, nil
}
