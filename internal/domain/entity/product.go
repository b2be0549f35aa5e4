package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto o SKU de una empresa.
// El SKU es único a nivel global (incluso entre empresas). Si IsBundle es true,
// el producto se compone de otros productos vía BundleItem.
type Product struct {
	ID         string
	CompanyID  string
	Name       string
	SKU        string
	Price      decimal.Decimal // precio de venta, >= 0
	SupplierID *string
	IsBundle   bool
	CreatedAt  time.Time
}
