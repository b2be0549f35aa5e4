package usecase_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventory-engine/internal/application/dto"
	"github.com/jhoicas/inventory-engine/internal/application/inventory"
	"github.com/jhoicas/inventory-engine/internal/application/usecase"
	"github.com/jhoicas/inventory-engine/internal/domain"
	"github.com/jhoicas/inventory-engine/internal/infrastructure/memory"
)

type fixture struct {
	store      *memory.Store
	ledger     *inventory.Ledger
	companies  *usecase.CompanyUseCase
	warehouses *usecase.WarehouseUseCase
	products   *usecase.ProductUseCase
}

func newFixture() *fixture {
	s := memory.NewStore()
	ledger := inventory.NewLedger(s.TxRunner(), s.Products(), s.Warehouses(), s.InventoryRecords(), s.Audit(), inventory.DefaultOptions(), nil)
	return &fixture{
		store:      s,
		ledger:     ledger,
		companies:  usecase.NewCompanyUseCase(s.Companies(), s.Suppliers()),
		warehouses: usecase.NewWarehouseUseCase(s.Warehouses()),
		products:   usecase.NewProductUseCase(s.TxRunner(), s.Products(), s.Warehouses(), s.Suppliers(), ledger),
	}
}

func (f *fixture) company(t *testing.T, name string) string {
	t.Helper()
	c, err := f.companies.Create(context.Background(), dto.CreateCompanyRequest{Name: name})
	require.NoError(t, err)
	return c.ID
}

func (f *fixture) warehouse(t *testing.T, companyID, name string) string {
	t.Helper()
	w, err := f.warehouses.Create(context.Background(), companyID, dto.CreateWarehouseRequest{Name: name})
	require.NoError(t, err)
	return w.ID
}

func TestProductCreate_ConStockInicialAuditado(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	c := f.company(t, "TechCorp")
	w := f.warehouse(t, c, "Main Warehouse")
	sup, err := f.companies.CreateSupplier(ctx, dto.CreateSupplierRequest{Name: "Acme", ContactEmail: "orders@acme.test"})
	require.NoError(t, err)

	p, err := f.products.Create(ctx, c, dto.CreateProductRequest{
		Name: "Widget A", SKU: "WIDGET-A", Price: decimal.RequireFromString("29.99"),
		SupplierID: &sup.ID, WarehouseID: w, InitialQuantity: 100, MinStock: 20,
	})
	require.NoError(t, err)
	assert.Equal(t, c, p.CompanyID)

	qty, err := f.ledger.CurrentQuantity(ctx, p.ID, w)
	require.NoError(t, err)
	assert.Equal(t, int64(100), qty)

	rec, err := f.store.InventoryRecords().Get(ctx, p.ID, w)
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, int64(20), rec.MinStock)

	hist, err := f.ledger.History(ctx, p.ID, w, 10)
	require.NoError(t, err)
	require.Len(t, hist, 1)
	assert.Equal(t, int64(100), hist[0].ChangeQty)
	assert.Equal(t, usecase.InitialStockNote, hist[0].Note)
}

func TestProductCreate_SinBodegaNoCreaRegistro(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	c := f.company(t, "TechCorp")

	p, err := f.products.Create(ctx, c, dto.CreateProductRequest{Name: "Kit", SKU: "KIT-1", IsBundle: true})
	require.NoError(t, err)
	assert.True(t, p.IsBundle)

	got, err := f.products.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "KIT-1", got.SKU)

	_, err = f.products.Create(ctx, c, dto.CreateProductRequest{Name: "X", SKU: "X-1", InitialQuantity: 5})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "stock inicial sin bodega")
}

func TestProductCreate_Rechazos(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	c1 := f.company(t, "Uno")
	c2 := f.company(t, "Dos")
	w2 := f.warehouse(t, c2, "Ajena")

	_, err := f.products.Create(ctx, c1, dto.CreateProductRequest{Name: "A", SKU: "DUP"})
	require.NoError(t, err)

	_, err = f.products.Create(ctx, c2, dto.CreateProductRequest{Name: "B", SKU: "DUP"})
	assert.ErrorIs(t, err, domain.ErrDuplicate, "el SKU es único entre empresas")

	_, err = f.products.Create(ctx, c1, dto.CreateProductRequest{Name: "C", SKU: "C-1", WarehouseID: w2, InitialQuantity: 1})
	assert.ErrorIs(t, err, domain.ErrUnknownEntity, "bodega de otra empresa")

	missing := "00000000-0000-0000-0000-0000000000ff"
	_, err = f.products.Create(ctx, c1, dto.CreateProductRequest{Name: "D", SKU: "D-1", SupplierID: &missing})
	assert.ErrorIs(t, err, domain.ErrUnknownEntity)

	_, err = f.products.Create(ctx, c1, dto.CreateProductRequest{Name: "E", SKU: "E-1", Price: decimal.NewFromInt(-1)})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	list, err := f.products.List(ctx, c1, 0, 0)
	require.NoError(t, err)
	assert.Len(t, list.Items, 1, "los rechazos no dejan productos")
	assert.Equal(t, 50, list.Page.Limit)
}

func TestWarehouseCreate_NombreUnicoPorEmpresa(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	c1 := f.company(t, "Uno")
	c2 := f.company(t, "Dos")
	f.warehouse(t, c1, "Central")

	_, err := f.warehouses.Create(ctx, c1, dto.CreateWarehouseRequest{Name: "Central"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	f.warehouse(t, c2, "Central")

	_, err = f.warehouses.Create(ctx, c1, dto.CreateWarehouseRequest{Name: "  "})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	list, err := f.warehouses.List(ctx, c1)
	require.NoError(t, err)
	assert.Len(t, list.Items, 1)
}

func TestCompany_GetByIDInexistente(t *testing.T) {
	f := newFixture()
	got, err := f.companies.GetByID(context.Background(), "no-existe")
	require.NoError(t, err)
	assert.Nil(t, got)

	_, err = f.companies.CreateSupplier(context.Background(), dto.CreateSupplierRequest{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
