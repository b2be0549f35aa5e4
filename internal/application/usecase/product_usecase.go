package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventory-engine/internal/application/dto"
	"github.com/jhoicas/inventory-engine/internal/application/inventory"
	"github.com/jhoicas/inventory-engine/internal/domain"
	"github.com/jhoicas/inventory-engine/internal/domain/entity"
	"github.com/jhoicas/inventory-engine/internal/domain/repository"
)

// StockInitializer operaciones del ledger usadas dentro de la transacción de alta de producto.
type StockInitializer interface {
	ApplyDeltaInTx(ctx context.Context, tx repository.Tx, productID, warehouseID string, delta int64, note string, now time.Time) (*entity.InventoryRecord, error)
	SetMinStockInTx(ctx context.Context, tx repository.Tx, productID, warehouseID string, minStock int64, now time.Time) (*entity.InventoryRecord, error)
}

// InitialStockNote nota de auditoría del stock cargado al crear un producto.
const InitialStockNote = "stock inicial"

// ProductUseCase alta y consulta de productos. El stock solo cambia vía el ledger.
type ProductUseCase struct {
	txRunner      inventory.TxRunner
	repo          repository.ProductRepository
	warehouseRepo repository.WarehouseRepository
	supplierRepo  repository.SupplierRepository
	stock         StockInitializer
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(
	txRunner inventory.TxRunner,
	repo repository.ProductRepository,
	warehouseRepo repository.WarehouseRepository,
	supplierRepo repository.SupplierRepository,
	stock StockInitializer,
) *ProductUseCase {
	return &ProductUseCase{
		txRunner:      txRunner,
		repo:          repo,
		warehouseRepo: warehouseRepo,
		supplierRepo:  supplierRepo,
		stock:         stock,
	}
}

// Create crea un producto y, si se indica bodega, su registro de inventario con el stock inicial
// (auditado) y el mínimo, todo en una transacción. SKU repetido (en cualquier empresa) = ErrDuplicate.
func (uc *ProductUseCase) Create(ctx context.Context, companyID string, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.SKU = strings.TrimSpace(in.SKU)
	if companyID == "" || in.Name == "" || in.SKU == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.Price.LessThan(decimal.Zero) || in.InitialQuantity < 0 || in.MinStock < 0 {
		return nil, domain.ErrInvalidInput
	}
	if in.WarehouseID == "" && (in.InitialQuantity > 0 || in.MinStock > 0) {
		return nil, fmt.Errorf("%w: warehouse_id requerido para stock inicial", domain.ErrInvalidInput)
	}

	existing, err := uc.repo.GetBySKU(ctx, in.SKU)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	if in.WarehouseID != "" {
		wh, err := uc.warehouseRepo.GetByID(ctx, in.WarehouseID)
		if err != nil {
			return nil, err
		}
		if wh == nil || wh.CompanyID != companyID {
			return nil, fmt.Errorf("%w: bodega %s", domain.ErrUnknownEntity, in.WarehouseID)
		}
	}
	if in.SupplierID != nil {
		sup, err := uc.supplierRepo.GetByID(ctx, *in.SupplierID)
		if err != nil {
			return nil, err
		}
		if sup == nil {
			return nil, fmt.Errorf("%w: proveedor %s", domain.ErrUnknownEntity, *in.SupplierID)
		}
	}

	now := time.Now()
	product := &entity.Product{
		ID:         uuid.New().String(),
		CompanyID:  companyID,
		Name:       in.Name,
		SKU:        in.SKU,
		Price:      in.Price,
		SupplierID: in.SupplierID,
		IsBundle:   in.IsBundle,
		CreatedAt:  now,
	}
	err = uc.txRunner.Run(ctx, func(tx repository.Tx) error {
		if err := tx.Products.Create(ctx, product); err != nil {
			return err
		}
		if in.WarehouseID == "" {
			return nil
		}
		if _, err := uc.stock.SetMinStockInTx(ctx, tx, product.ID, in.WarehouseID, in.MinStock, now); err != nil {
			return err
		}
		if in.InitialQuantity > 0 {
			if _, err := uc.stock.ApplyDeltaInTx(ctx, tx, product.ID, in.WarehouseID, in.InitialQuantity, InitialStockNote, now); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// GetByID obtiene un producto por ID.
func (uc *ProductUseCase) GetByID(ctx context.Context, id string) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, nil
	}
	return toProductResponse(product), nil
}

// List lista productos por empresa con paginación.
func (uc *ProductUseCase) List(ctx context.Context, companyID string, limit, offset int) (*dto.ProductListResponse, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	list, err := uc.repo.ListByCompany(ctx, companyID, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *toProductResponse(p))
	}
	return &dto.ProductListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}, nil
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	if p == nil {
		return nil
	}
	return &dto.ProductResponse{
		ID:         p.ID,
		CompanyID:  p.CompanyID,
		Name:       p.Name,
		SKU:        p.SKU,
		Price:      p.Price,
		SupplierID: p.SupplierID,
		IsBundle:   p.IsBundle,
		CreatedAt:  p.CreatedAt,
	}
}
