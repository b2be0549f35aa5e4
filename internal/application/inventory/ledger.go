package inventory

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/inventory-engine/internal/domain"
	"github.com/jhoicas/inventory-engine/internal/domain/entity"
	engine "github.com/jhoicas/inventory-engine/internal/domain/inventory"
	"github.com/jhoicas/inventory-engine/internal/domain/repository"
	"github.com/jhoicas/inventory-engine/pkg/logger"
)

const (
	defaultHistoryLimit = 50
	maxHistoryLimit     = 500
)

// ComponentDeduction descuento aplicado a un producto simple por una venta de bundle.
type ComponentDeduction struct {
	ProductID   string
	Deducted    int64
	NewQuantity int64
}

// Ledger es el único dueño de las mutaciones de InventoryRecord y de la creación de AuditEntry.
// Cada mutación corre en una transacción: bloquea la fila (SELECT FOR UPDATE), calcula la nueva
// cantidad, la persiste y agrega la entrada de auditoría; Commit o Rollback completo.
type Ledger struct {
	txRunner TxRunner
	catalog  catalog
	records  repository.InventoryRecordRepository
	audit    repository.AuditRepository
	opts     Options
	log      *logger.Logger
	now      func() time.Time
}

// NewLedger construye el ledger.
func NewLedger(
	txRunner TxRunner,
	productRepo repository.ProductRepository,
	warehouseRepo repository.WarehouseRepository,
	recordRepo repository.InventoryRecordRepository,
	auditRepo repository.AuditRepository,
	opts Options,
	log *logger.Logger,
) *Ledger {
	if log == nil {
		log = logger.Nop()
	}
	return &Ledger{
		txRunner: txRunner,
		catalog:  catalog{products: productRepo, warehouses: warehouseRepo},
		records:  recordRepo,
		audit:    auditRepo,
		opts:     opts.normalized(),
		log:      log.Component("ledger"),
		now:      time.Now,
	}
}

// ApplyDelta suma delta (positivo = reposición, negativo = venta o ajuste) al stock del par
// producto+bodega y devuelve la nueva cantidad. Falla con ErrInsufficientStock si quedaría negativo.
func (l *Ledger) ApplyDelta(ctx context.Context, productID, warehouseID string, delta int64, note string) (int64, error) {
	if delta == 0 {
		return 0, fmt.Errorf("%w: delta debe ser distinto de cero", domain.ErrInvalidInput)
	}
	if _, _, err := l.catalog.pair(ctx, productID, warehouseID); err != nil {
		return 0, err
	}

	ctx, cancel := l.withTimeout(ctx)
	defer cancel()

	now := l.now()
	var newQty int64
	err := l.txRunner.Run(ctx, func(tx repository.Tx) error {
		rec, err := l.ApplyDeltaInTx(ctx, tx, productID, warehouseID, delta, note, now)
		if err != nil {
			return err
		}
		newQty = rec.Quantity
		return nil
	})
	if err != nil {
		l.failure(err).
			Str("product_id", productID).
			Str("warehouse_id", warehouseID).
			Int64("delta", delta).
			Msg("movimiento rechazado")
		return 0, err
	}
	l.log.Debug().
		Str("product_id", productID).
		Str("warehouse_id", warehouseID).
		Int64("delta", delta).
		Int64("new_quantity", newQty).
		Msg("movimiento aplicado")
	return newQty, nil
}

// ApplyDeltaInTx aplica un delta usando los repositorios de una transacción abierta por el caller.
// Lo usan ApplyDelta, ApplyBundleSale y la creación de productos con stock inicial.
func (l *Ledger) ApplyDeltaInTx(
	ctx context.Context,
	tx repository.Tx,
	productID, warehouseID string,
	delta int64,
	note string,
	now time.Time,
) (*entity.InventoryRecord, error) {
	// Bloquea la fila (o la crea en 0) para serializar escrituras concurrentes al mismo par
	rec, err := tx.Inventory.LockOrCreate(ctx, l.seed(productID, warehouseID, now))
	if err != nil {
		return nil, err
	}
	newQty, ok := engine.AddChecked(rec.Quantity, delta)
	if !ok {
		return nil, fmt.Errorf("%w: cantidad fuera de rango", domain.ErrInvalidInput)
	}
	if newQty < 0 {
		return nil, fmt.Errorf("%w: producto %s en bodega %s: disponible %d, solicitado %d",
			domain.ErrInsufficientStock, productID, warehouseID, rec.Quantity, -delta)
	}
	rec.Quantity = newQty
	rec.UpdatedAt = now
	if err := tx.Inventory.Save(ctx, rec); err != nil {
		return nil, err
	}
	entry := &entity.AuditEntry{
		ID:          uuid.New().String(),
		ProductID:   productID,
		WarehouseID: warehouseID,
		ChangeQty:   delta,
		NewQuantity: newQty,
		ChangedAt:   now,
		Note:        note,
	}
	if err := tx.Audit.Append(ctx, entry); err != nil {
		return nil, err
	}
	return rec, nil
}

// ApplyBundleSale descuenta units unidades de un bundle de sus componentes en la bodega.
// Los bundles anidados se expanden hasta productos simples: un sub-bundle no descuenta su propio
// registro sino el de sus hojas, igual que el cálculo de unidades vendibles. Las filas se bloquean en orden de
// ID de producto para que dos ventas concurrentes no se bloqueen mutuamente en ciclo; si algún
// componente no alcanza, no se descuenta nada.
func (l *Ledger) ApplyBundleSale(ctx context.Context, bundleID, warehouseID string, units int64, note string) ([]ComponentDeduction, error) {
	if units <= 0 {
		return nil, fmt.Errorf("%w: las unidades deben ser positivas", domain.ErrInvalidInput)
	}
	if _, _, err := l.catalog.pair(ctx, bundleID, warehouseID); err != nil {
		return nil, err
	}

	ctx, cancel := l.withTimeout(ctx)
	defer cancel()

	now := l.now()
	var out []ComponentDeduction
	err := l.txRunner.Run(ctx, func(tx repository.Tx) error {
		needs, err := engine.Expand(ctx, txStructure{tx: tx}, bundleID, units)
		if err != nil {
			return err
		}
		ids := make([]string, 0, len(needs))
		for id := range needs {
			ids = append(ids, id)
		}
		sort.Strings(ids)

		out = make([]ComponentDeduction, 0, len(ids))
		for _, id := range ids {
			rec, err := l.ApplyDeltaInTx(ctx, tx, id, warehouseID, -needs[id], note, now)
			if err != nil {
				return err
			}
			out = append(out, ComponentDeduction{ProductID: id, Deducted: needs[id], NewQuantity: rec.Quantity})
		}
		return nil
	})
	if err != nil {
		l.failure(err).
			Str("bundle_id", bundleID).
			Str("warehouse_id", warehouseID).
			Int64("units", units).
			Msg("venta de bundle rechazada")
		return nil, err
	}
	l.log.Debug().
		Str("bundle_id", bundleID).
		Str("warehouse_id", warehouseID).
		Int64("units", units).
		Int("components", len(out)).
		Msg("venta de bundle aplicada")
	return out, nil
}

// CurrentQuantity devuelve el stock crudo del par; 0 si nunca tuvo registro.
func (l *Ledger) CurrentQuantity(ctx context.Context, productID, warehouseID string) (int64, error) {
	if _, _, err := l.catalog.pair(ctx, productID, warehouseID); err != nil {
		return 0, err
	}
	return l.quantity(ctx, productID, warehouseID)
}

func (l *Ledger) quantity(ctx context.Context, productID, warehouseID string) (int64, error) {
	rec, err := l.records.Get(ctx, productID, warehouseID)
	if err != nil {
		return 0, err
	}
	if rec == nil {
		return 0, nil
	}
	return rec.Quantity, nil
}

// SetMinStock fija el mínimo del par producto+bodega (crea el registro en 0 si no existe).
// No cambia la cantidad, por lo que no genera entrada de auditoría.
func (l *Ledger) SetMinStock(ctx context.Context, productID, warehouseID string, minStock int64) error {
	if minStock < 0 {
		return fmt.Errorf("%w: el mínimo no puede ser negativo", domain.ErrInvalidInput)
	}
	if _, _, err := l.catalog.pair(ctx, productID, warehouseID); err != nil {
		return err
	}
	ctx, cancel := l.withTimeout(ctx)
	defer cancel()

	now := l.now()
	err := l.txRunner.Run(ctx, func(tx repository.Tx) error {
		_, err := l.SetMinStockInTx(ctx, tx, productID, warehouseID, minStock, now)
		return err
	})
	if err != nil {
		return err
	}
	l.log.Debug().
		Str("product_id", productID).
		Str("warehouse_id", warehouseID).
		Int64("min_stock", minStock).
		Msg("mínimo actualizado")
	return nil
}

// SetMinStockInTx fija el mínimo dentro de una transacción abierta por el caller.
func (l *Ledger) SetMinStockInTx(
	ctx context.Context,
	tx repository.Tx,
	productID, warehouseID string,
	minStock int64,
	now time.Time,
) (*entity.InventoryRecord, error) {
	rec, err := tx.Inventory.LockOrCreate(ctx, l.seed(productID, warehouseID, now))
	if err != nil {
		return nil, err
	}
	rec.MinStock = minStock
	rec.UpdatedAt = now
	if err := tx.Inventory.Save(ctx, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// History devuelve el historial de cambios del par, más recientes primero.
func (l *Ledger) History(ctx context.Context, productID, warehouseID string, limit int) ([]*entity.AuditEntry, error) {
	if _, _, err := l.catalog.pair(ctx, productID, warehouseID); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}
	return l.audit.ListByRecord(ctx, productID, warehouseID, limit)
}

func (l *Ledger) seed(productID, warehouseID string, now time.Time) *entity.InventoryRecord {
	return &entity.InventoryRecord{
		ID:          uuid.New().String(),
		ProductID:   productID,
		WarehouseID: warehouseID,
		MinStock:    l.opts.DefaultMinStock,
		UpdatedAt:   now,
	}
}

func (l *Ledger) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if l.opts.TxTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, l.opts.TxTimeout)
}

// txStructure lee la estructura de bundles con los repositorios de la transacción.
type txStructure struct {
	tx repository.Tx
}

func (s txStructure) IsBundle(ctx context.Context, productID string) (bool, error) {
	p, err := s.tx.Products.GetByID(ctx, productID)
	if err != nil {
		return false, err
	}
	if p == nil {
		return false, fmt.Errorf("%w: producto %s", domain.ErrUnknownEntity, productID)
	}
	return p.IsBundle, nil
}

func (s txStructure) Components(ctx context.Context, bundleID string) ([]entity.BundleItem, error) {
	return s.tx.Bundles.ComponentsOf(ctx, bundleID)
}

// failure evento de log para una mutación fallida: warn si es un rechazo de negocio, error si no.
func (l *Ledger) failure(err error) *zerolog.Event {
	if isRejection(err) {
		return l.log.Warn().Err(err)
	}
	return l.log.Error().Err(err)
}

func isRejection(err error) bool {
	return errors.Is(err, domain.ErrInsufficientStock) ||
		errors.Is(err, domain.ErrInvalidInput) ||
		errors.Is(err, domain.ErrNotABundle) ||
		errors.Is(err, domain.ErrCyclicBundle) ||
		errors.Is(err, domain.ErrNotFound)
}
