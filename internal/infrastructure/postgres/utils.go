package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jhoicas/inventory-engine/internal/domain"
)

// mapError traduce códigos SQLSTATE a errores de dominio; el resto se devuelve sin cambios.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch pgErr.Code {
	case pgerrcode.UniqueViolation:
		return fmt.Errorf("%w: %s", domain.ErrDuplicate, pgErr.ConstraintName)
	case pgerrcode.ForeignKeyViolation:
		return fmt.Errorf("%w: %s", domain.ErrUnknownEntity, pgErr.ConstraintName)
	case pgerrcode.CheckViolation:
		if pgErr.ConstraintName == "inventory_quantity_check" {
			return fmt.Errorf("%w: %s", domain.ErrInsufficientStock, pgErr.ConstraintName)
		}
		return fmt.Errorf("%w: %s", domain.ErrInvalidInput, pgErr.ConstraintName)
	case pgerrcode.InvalidTextRepresentation:
		// UUID mal formado: se trata como entidad inexistente
		return fmt.Errorf("%w: identificador inválido", domain.ErrUnknownEntity)
	case pgerrcode.LockNotAvailable, pgerrcode.QueryCanceled:
		return fmt.Errorf("%w: %s", context.DeadlineExceeded, pgErr.Message)
	}
	return err
}
