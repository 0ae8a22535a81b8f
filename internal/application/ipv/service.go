package ipv

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/gestor-ipv/internal/domain"
	"github.com/jhoicas/gestor-ipv/internal/domain/entity"
	"github.com/jhoicas/gestor-ipv/internal/domain/inventory"
	"github.com/jhoicas/gestor-ipv/internal/domain/repository"
	"github.com/jhoicas/gestor-ipv/pkg/logger"
)

// ServiceConfig opciones del servicio IPV.
type ServiceConfig struct {
	// AutosaveDelay espera antes de guardar tras una edición. <= 0 guarda en cada operación.
	AutosaveDelay time.Duration
	// SharedStore indica que varias instancias comparten el almacén: el IPV se recarga dentro
	// del lock en cada operación y se guarda de inmediato.
	SharedStore bool
	// Clock reloj del servicio; nil usa time.Now.
	Clock func() time.Time
}

// Service orquesta el IPV de cada área: serializa operaciones, carga y guarda instantáneas.
type Service struct {
	catalog  repository.CatalogRepository
	store    repository.SnapshotRepository
	locker   SectionLocker
	notifier Notifier
	log      *logger.Logger
	cfg      ServiceConfig
	autosave *Autosaver

	mu      sync.Mutex
	ledgers map[entity.Section]*inventory.Ledger
}

// NewService construye el servicio. locker y notifier pueden ser nil (mutex local, sin avisos).
func NewService(
	catalog repository.CatalogRepository,
	store repository.SnapshotRepository,
	locker SectionLocker,
	notifier Notifier,
	log *logger.Logger,
	cfg ServiceConfig,
) *Service {
	if locker == nil {
		locker = NewLocalLocker()
	}
	if notifier == nil {
		notifier = nopNotifier{}
	}
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}
	s := &Service{
		catalog:  catalog,
		store:    store,
		locker:   locker,
		notifier: notifier,
		log:      log,
		cfg:      cfg,
		ledgers:  make(map[entity.Section]*inventory.Ledger),
	}
	s.autosave = NewAutosaver(cfg.AutosaveDelay, s.flushSection)
	return s
}

// View estado completo del IPV del área.
func (s *Service) View(ctx context.Context, section entity.Section) (entity.LedgerState, error) {
	var out entity.LedgerState
	err := s.read(ctx, section, func(l *inventory.Ledger) error {
		out = l.Snapshot()
		return nil
	})
	return out, err
}

// Sync alinea el IPV con el catálogo actual del área.
func (s *Service) Sync(ctx context.Context, section entity.Section) (inventory.SyncResult, error) {
	catalog, err := s.catalog.GetCatalog(ctx, section)
	if err != nil {
		return inventory.SyncResult{}, fmt.Errorf("leer catálogo: %w", err)
	}
	var res inventory.SyncResult
	err = s.mutate(ctx, section, func(l *inventory.Ledger) (bool, error) {
		res = l.Sync(catalog)
		s.reportOvershoots(ctx, section, res.Report)
		return true, nil
	})
	if err == nil {
		s.log.Info().Str("section", string(section)).
			Int("added", len(res.Added)).Int("removed", len(res.Removed)).Int("updated", len(res.Updated)).
			Msg("IPV sincronizado con el catálogo")
	}
	return res, err
}

// SetField edita start, entry o final. raw se interpreta como cantidad (texto inválido = 0).
func (s *Service) SetField(ctx context.Context, section entity.Section, itemID int64, field, raw string) (inventory.EditResult, error) {
	var res inventory.EditResult
	err := s.mutate(ctx, section, func(l *inventory.Ledger) (bool, error) {
		var err error
		res, err = l.SetField(itemID, field, inventory.CoerceQuantity(raw))
		if err != nil {
			return false, err
		}
		return res.Dirty(), nil
	})
	switch {
	case err == nil:
		s.log.Debug().Str("section", string(section)).Int64("item", itemID).Str("field", field).
			Bool("changed", res.Changed).Bool("pinned", res.Pinned).Msg("campo editado")
	case errors.Is(err, domain.ErrInsufficientIngredientStock):
		s.notifier.Notify(ctx, Notification{Section: section, Message: err.Error(), Severity: SeverityWarning})
	}
	return res, err
}

// MaxSellable unidades adicionales que cubren los ingredientes del producto.
func (s *Service) MaxSellable(ctx context.Context, section entity.Section, productID int64) (decimal.Decimal, error) {
	var out decimal.Decimal
	err := s.read(ctx, section, func(l *inventory.Ledger) error {
		var err error
		out, err = l.MaxSellable(productID)
		return err
	})
	return out, err
}

// ValidateSale comprueba un final propuesto sin aplicarlo.
func (s *Service) ValidateSale(ctx context.Context, section entity.Section, productID int64, rawFinal string) (inventory.SaleCheck, error) {
	var out inventory.SaleCheck
	err := s.read(ctx, section, func(l *inventory.Ledger) error {
		var err error
		out, err = l.ValidateSale(productID, inventory.CoerceQuantity(rawFinal))
		return err
	})
	return out, err
}

// Recipes relaciones del área (productID 0 = todas).
func (s *Service) Recipes(ctx context.Context, section entity.Section, productID int64) ([]entity.RecipeRelation, error) {
	var out []entity.RecipeRelation
	err := s.read(ctx, section, func(l *inventory.Ledger) error {
		if productID > 0 {
			if _, err := l.Item(productID); err != nil {
				return err
			}
		}
		out = l.Recipes(productID)
		return nil
	})
	return out, err
}

// SetRelations reemplaza la receta del producto.
func (s *Service) SetRelations(ctx context.Context, section entity.Section, productID int64, inputs []inventory.RelationInput) ([]entity.RecipeRelation, inventory.ReconcileReport, error) {
	var (
		rels   []entity.RecipeRelation
		report inventory.ReconcileReport
	)
	err := s.mutate(ctx, section, func(l *inventory.Ledger) (bool, error) {
		var err error
		rels, report, err = l.SetRelations(productID, inputs)
		if err != nil {
			return false, err
		}
		s.reportOvershoots(ctx, section, report)
		return true, nil
	})
	if err == nil {
		s.log.Debug().Str("section", string(section)).Int64("product", productID).Int("relations", len(rels)).Msg("receta configurada")
	}
	return rels, report, err
}

// RemoveRelations elimina la receta del producto.
func (s *Service) RemoveRelations(ctx context.Context, section entity.Section, productID int64) (inventory.ReconcileReport, error) {
	var report inventory.ReconcileReport
	err := s.mutate(ctx, section, func(l *inventory.Ledger) (bool, error) {
		var err error
		report, err = l.RemoveRelations(productID)
		return err == nil, err
	})
	return report, err
}

// Agregos lista los agregos del día y su importe total.
func (s *Service) Agregos(ctx context.Context, section entity.Section) ([]entity.Agrego, decimal.Decimal, error) {
	var (
		list  []entity.Agrego
		total decimal.Decimal
	)
	err := s.read(ctx, section, func(l *inventory.Ledger) error {
		list = l.Agregos()
		total = l.AgregoTotal()
		return nil
	})
	return list, total, err
}

// RegisterAgrego registra un agrego y descuenta sus ingredientes.
func (s *Service) RegisterAgrego(ctx context.Context, section entity.Section, req inventory.AgregoRequest) (entity.Agrego, error) {
	var out entity.Agrego
	err := s.mutate(ctx, section, func(l *inventory.Ledger) (bool, error) {
		var err error
		out, err = l.RegisterAgrego(req)
		return err == nil, err
	})
	switch {
	case err == nil:
		s.log.Debug().Str("section", string(section)).Str("agrego", out.ID).Str("total", out.TotalAmount.String()).Msg("agrego registrado")
	case errors.Is(err, domain.ErrInsufficientStock):
		s.notifier.Notify(ctx, Notification{Section: section, Message: err.Error(), Severity: SeverityWarning})
	}
	return out, err
}

// RemoveAgrego elimina un agrego y devuelve su consumo.
func (s *Service) RemoveAgrego(ctx context.Context, section entity.Section, id string) (entity.Agrego, error) {
	var out entity.Agrego
	err := s.mutate(ctx, section, func(l *inventory.Ledger) (bool, error) {
		var err error
		out, err = l.RemoveAgrego(id)
		return err == nil, err
	})
	return out, err
}

// Reconcile ejecuta la reconciliación completa del área.
func (s *Service) Reconcile(ctx context.Context, section entity.Section) (inventory.ReconcileReport, error) {
	var report inventory.ReconcileReport
	err := s.mutate(ctx, section, func(l *inventory.Ledger) (bool, error) {
		report = l.FullReconcile()
		s.reportOvershoots(ctx, section, report)
		return true, nil
	})
	return report, err
}

// NewDay cierra el día del área y abre el siguiente con el final como inicio.
func (s *Service) NewDay(ctx context.Context, section entity.Section) (inventory.ReconcileReport, error) {
	var report inventory.ReconcileReport
	err := s.mutate(ctx, section, func(l *inventory.Ledger) (bool, error) {
		report = l.NewDay(s.cfg.Clock())
		return true, nil
	})
	if err == nil {
		s.log.Info().Str("section", string(section)).Msg("nuevo día iniciado")
		s.notifier.Notify(ctx, Notification{Section: section, Message: "nuevo día iniciado", Severity: SeverityInfo})
	}
	return report, err
}

// Finalize reconcilia y devuelve el resumen del día.
func (s *Service) Finalize(ctx context.Context, section entity.Section) (entity.DaySummary, inventory.ReconcileReport, error) {
	var (
		summary entity.DaySummary
		report  inventory.ReconcileReport
	)
	err := s.mutate(ctx, section, func(l *inventory.Ledger) (bool, error) {
		summary, report = l.FinalizeDay()
		s.reportOvershoots(ctx, section, report)
		return true, nil
	})
	return summary, report, err
}

// Summary totales del día sin reconciliar.
func (s *Service) Summary(ctx context.Context, section entity.Section) (entity.DaySummary, error) {
	var out entity.DaySummary
	err := s.read(ctx, section, func(l *inventory.Ledger) error {
		out = l.Summary()
		return nil
	})
	return out, err
}

// CashCount compara el conteo de billetes con lo esperado. Sin expected se usa el total del día.
func (s *Service) CashCount(ctx context.Context, section entity.Section, denominations []entity.Denomination, expected *decimal.Decimal) (entity.CashCount, error) {
	want := decimal.Zero
	if expected != nil {
		want = *expected
	} else {
		summary, err := s.Summary(ctx, section)
		if err != nil {
			return entity.CashCount{}, err
		}
		want = summary.Total
	}
	return inventory.CountCash(denominations, want)
}

// Flush guarda de inmediato los cambios pendientes del autosave.
func (s *Service) Flush() {
	s.autosave.Flush()
}

// read ejecuta fn con el IPV del área bajo lock, sin guardar.
func (s *Service) read(ctx context.Context, section entity.Section, fn func(*inventory.Ledger) error) error {
	return s.mutate(ctx, section, func(l *inventory.Ledger) (bool, error) {
		return false, fn(l)
	})
}

// mutate ejecuta fn bajo el lock del área y guarda si fn reporta cambios.
func (s *Service) mutate(ctx context.Context, section entity.Section, fn func(*inventory.Ledger) (bool, error)) error {
	unlock, err := s.locker.Lock(ctx, section)
	if err != nil {
		return fmt.Errorf("bloquear área %s: %w", section, err)
	}
	defer unlock()

	l, err := s.ledger(ctx, section)
	if err != nil {
		return err
	}
	changed, err := fn(l)
	if err != nil || !changed {
		return err
	}
	if s.cfg.SharedStore || s.cfg.AutosaveDelay <= 0 {
		s.save(ctx, l)
	} else {
		s.autosave.Schedule(section)
	}
	return nil
}

// ledger devuelve el IPV del área: de la caché o del almacén; si no hay nada guardado crea
// uno nuevo sincronizado con el catálogo. Debe llamarse con el lock del área tomado.
func (s *Service) ledger(ctx context.Context, section entity.Section) (*inventory.Ledger, error) {
	if !s.cfg.SharedStore {
		if l := s.cached(section); l != nil {
			return l, nil
		}
	}

	opts := []inventory.Option{inventory.WithClock(s.cfg.Clock)}
	state, err := s.store.Load(ctx, section)
	if err != nil {
		return nil, fmt.Errorf("cargar IPV %s: %w", section, err)
	}

	var l *inventory.Ledger
	if state != nil {
		state.Section = section
		l = inventory.FromState(*state, opts...)
	} else {
		catalog, err := s.catalog.GetCatalog(ctx, section)
		if err != nil {
			return nil, fmt.Errorf("leer catálogo: %w", err)
		}
		l = inventory.NewLedger(section, opts...)
		l.Sync(catalog)
		s.log.Info().Str("section", string(section)).Int("items", len(l.Items())).Msg("IPV nuevo creado desde el catálogo")
	}

	if !s.cfg.SharedStore {
		s.mu.Lock()
		s.ledgers[section] = l
		s.mu.Unlock()
	}
	return l, nil
}

func (s *Service) cached(section entity.Section) *inventory.Ledger {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ledgers[section]
}

// save persiste la instantánea. Un fallo se registra y notifica; el estado en memoria se mantiene.
func (s *Service) save(ctx context.Context, l *inventory.Ledger) {
	state := l.Snapshot()
	if err := s.store.Save(ctx, state); err != nil {
		s.log.Error().Err(err).Str("section", string(state.Section)).Msg("guardar IPV")
		s.notifier.Notify(ctx, Notification{
			Section:  state.Section,
			Message:  "no se pudo guardar el IPV: " + err.Error(),
			Severity: SeverityError,
		})
		return
	}
	s.log.Debug().Str("section", string(state.Section)).Int("items", len(state.Items)).Msg("IPV guardado")
}

// flushSection callback del autosave.
func (s *Service) flushSection(section entity.Section) {
	ctx := context.Background()
	unlock, err := s.locker.Lock(ctx, section)
	if err != nil {
		s.log.Error().Err(err).Str("section", string(section)).Msg("autosave: bloquear área")
		return
	}
	defer unlock()
	if l := s.cached(section); l != nil {
		s.save(ctx, l)
	}
}

func (s *Service) reportOvershoots(ctx context.Context, section entity.Section, report inventory.ReconcileReport) {
	for _, o := range report.Overshoots {
		s.notifier.Notify(ctx, Notification{
			Section: section,
			Message: fmt.Sprintf("%s: vendido %s supera lo que cubren los ingredientes (%s)",
				o.Product, o.Sold.String(), o.MaxSellable.String()),
			Severity: SeverityWarning,
		})
	}
}
