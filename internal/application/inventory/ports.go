package inventory

import (
	"context"

	"github.com/jhoicas/inventory-engine/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Si fn devuelve error (o el contexto se cancela antes del commit) la transacción se revierte completa.
type TxRunner interface {
	Run(ctx context.Context, fn func(tx repository.Tx) error) error
}
