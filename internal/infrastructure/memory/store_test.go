package memory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventory-engine/internal/domain"
	"github.com/jhoicas/inventory-engine/internal/domain/entity"
	"github.com/jhoicas/inventory-engine/internal/domain/repository"
	"github.com/jhoicas/inventory-engine/internal/infrastructure/memory"
)

func seedStore(t *testing.T) *memory.Store {
	t.Helper()
	ctx := context.Background()
	s := memory.NewStore()
	require.NoError(t, s.Companies().Create(ctx, &entity.Company{ID: "c1", Name: "Acme"}))
	require.NoError(t, s.Warehouses().Create(ctx, &entity.Warehouse{ID: "w1", CompanyID: "c1", Name: "Principal"}))
	require.NoError(t, s.Products().Create(ctx, &entity.Product{ID: "p1", CompanyID: "c1", Name: "Tornillo", SKU: "TOR-1"}))
	return s
}

func TestTxRunner_CommitAplicaTodo(t *testing.T) {
	s := seedStore(t)
	ctx := context.Background()

	err := s.TxRunner().Run(ctx, func(tx repository.Tx) error {
		rec, err := tx.Inventory.LockOrCreate(ctx, &entity.InventoryRecord{ID: "r1", ProductID: "p1", WarehouseID: "w1"})
		if err != nil {
			return err
		}
		rec.Quantity = 7
		if err := tx.Inventory.Save(ctx, rec); err != nil {
			return err
		}
		return tx.Audit.Append(ctx, &entity.AuditEntry{ID: "a1", ProductID: "p1", WarehouseID: "w1", ChangeQty: 7, NewQuantity: 7})
	})
	require.NoError(t, err)

	rec, err := s.InventoryRecords().Get(ctx, "p1", "w1")
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, int64(7), rec.Quantity)

	hist, err := s.Audit().ListByRecord(ctx, "p1", "w1", 10)
	require.NoError(t, err)
	assert.Len(t, hist, 1)
}

func TestTxRunner_ErrorDescartaEscrituras(t *testing.T) {
	s := seedStore(t)
	ctx := context.Background()
	boom := errors.New("boom")

	err := s.TxRunner().Run(ctx, func(tx repository.Tx) error {
		rec, err := tx.Inventory.LockOrCreate(ctx, &entity.InventoryRecord{ID: "r1", ProductID: "p1", WarehouseID: "w1"})
		if err != nil {
			return err
		}
		rec.Quantity = 7
		if err := tx.Inventory.Save(ctx, rec); err != nil {
			return err
		}
		if err := tx.Products.Create(ctx, &entity.Product{ID: "p2", CompanyID: "c1", Name: "Tuerca", SKU: "TUE-1"}); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	rec, err := s.InventoryRecords().Get(ctx, "p1", "w1")
	require.NoError(t, err)
	assert.Nil(t, rec)
	p, err := s.Products().GetBySKU(ctx, "TUE-1")
	require.NoError(t, err)
	assert.Nil(t, p)
}

func TestTxRunner_ContextoCanceladoAntesDelCommit(t *testing.T) {
	s := seedStore(t)
	ctx, cancel := context.WithCancel(context.Background())

	err := s.TxRunner().Run(ctx, func(tx repository.Tx) error {
		rec, err := tx.Inventory.LockOrCreate(ctx, &entity.InventoryRecord{ID: "r1", ProductID: "p1", WarehouseID: "w1"})
		if err != nil {
			return err
		}
		rec.Quantity = 3
		if err := tx.Inventory.Save(ctx, rec); err != nil {
			return err
		}
		cancel()
		return nil
	})
	require.ErrorIs(t, err, context.Canceled)

	rec, err := s.InventoryRecords().Get(context.Background(), "p1", "w1")
	require.NoError(t, err)
	assert.Nil(t, rec)
}

func TestLockOrCreate_EsperaAlOtroTitularYRespetaCancelacion(t *testing.T) {
	s := seedStore(t)
	ctx := context.Background()
	locked := make(chan struct{})
	done := make(chan struct{})

	go func() {
		_ = s.TxRunner().Run(ctx, func(tx repository.Tx) error {
			if _, err := tx.Inventory.LockOrCreate(ctx, &entity.InventoryRecord{ID: "r1", ProductID: "p1", WarehouseID: "w1"}); err != nil {
				return err
			}
			close(locked)
			<-done
			return nil
		})
	}()
	<-locked

	waitCtx, cancel := context.WithTimeout(ctx, 20*time.Millisecond)
	defer cancel()
	err := s.TxRunner().Run(waitCtx, func(tx repository.Tx) error {
		_, err := tx.Inventory.LockOrCreate(waitCtx, &entity.InventoryRecord{ID: "r2", ProductID: "p1", WarehouseID: "w1"})
		return err
	})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	close(done)
}

func TestLockOrCreate_EntidadDesconocida(t *testing.T) {
	s := seedStore(t)
	ctx := context.Background()
	err := s.TxRunner().Run(ctx, func(tx repository.Tx) error {
		_, err := tx.Inventory.LockOrCreate(ctx, &entity.InventoryRecord{ID: "r1", ProductID: "nope", WarehouseID: "w1"})
		return err
	})
	assert.ErrorIs(t, err, domain.ErrUnknownEntity)
}

func TestProductRepo_SKUGlobalUnico(t *testing.T) {
	s := seedStore(t)
	ctx := context.Background()
	require.NoError(t, s.Companies().Create(ctx, &entity.Company{ID: "c2", Name: "Otra"}))

	err := s.Products().Create(ctx, &entity.Product{ID: "p9", CompanyID: "c2", Name: "Copia", SKU: "TOR-1"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestBundleRepo_OrdenYDuplicados(t *testing.T) {
	s := seedStore(t)
	ctx := context.Background()
	repo := s.Bundles()
	require.NoError(t, repo.Add(ctx, &entity.BundleItem{ID: "b1", BundleProductID: "k", ComponentProductID: "z", Quantity: 1}))
	require.NoError(t, repo.Add(ctx, &entity.BundleItem{ID: "b2", BundleProductID: "k", ComponentProductID: "a", Quantity: 2}))

	items, err := repo.ComponentsOf(ctx, "k")
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "a", items[0].ComponentProductID)
	assert.Equal(t, "z", items[1].ComponentProductID)

	err = repo.Add(ctx, &entity.BundleItem{ID: "b3", BundleProductID: "k", ComponentProductID: "a", Quantity: 1})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
	err = repo.Add(ctx, &entity.BundleItem{ID: "b4", BundleProductID: "k", ComponentProductID: "m", Quantity: 0})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSaleRepo_FiltrosDeVentana(t *testing.T) {
	s := seedStore(t)
	ctx := context.Background()
	require.NoError(t, s.Warehouses().Create(ctx, &entity.Warehouse{ID: "w2", CompanyID: "c1", Name: "Secundaria"}))
	day := time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC)
	w1, w2 := "w1", "w2"
	sales := s.Sales()
	require.NoError(t, sales.Create(ctx, &entity.Sale{ID: "s1", ProductID: "p1", WarehouseID: &w1, Quantity: 2, SoldAt: day}))
	require.NoError(t, sales.Create(ctx, &entity.Sale{ID: "s2", ProductID: "p1", WarehouseID: &w2, Quantity: 3, SoldAt: day.AddDate(0, 0, -1)}))
	require.NoError(t, sales.Create(ctx, &entity.Sale{ID: "s3", ProductID: "p1", Quantity: 5, SoldAt: day.AddDate(0, 0, -2)}))
	require.NoError(t, sales.Create(ctx, &entity.Sale{ID: "s4", ProductID: "p1", WarehouseID: &w1, Quantity: 100, SoldAt: day.AddDate(0, 0, -10)}))

	from, to := day.AddDate(0, 0, -4), day
	total, err := sales.SumQuantity(ctx, repository.SaleFilter{ProductID: "p1", From: from, To: to})
	require.NoError(t, err)
	assert.Equal(t, int64(10), total)

	total, err = sales.SumQuantity(ctx, repository.SaleFilter{ProductID: "p1", WarehouseID: "w1", From: from, To: to})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)

	total, err = sales.SumQuantity(ctx, repository.SaleFilter{ProductID: "p1", WarehouseID: "w1", IncludeUnscoped: true, From: from, To: to})
	require.NoError(t, err)
	assert.Equal(t, int64(7), total)

	totals, err := sales.TotalsByCompany(ctx, "c1", from, to)
	require.NoError(t, err)
	var sum int64
	for _, tt := range totals {
		sum += tt.Quantity
	}
	assert.Len(t, totals, 3)
	assert.Equal(t, int64(10), sum)

	assert.Error(t, sales.Create(ctx, &entity.Sale{ID: "s5", ProductID: "p1", Quantity: 0, SoldAt: day}))
}
