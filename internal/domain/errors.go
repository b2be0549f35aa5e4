package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrDuplicate         = errors.New("recurso duplicado")
	ErrUnauthorized      = errors.New("no autorizado")
	ErrForbidden         = errors.New("acceso denegado")
	ErrInsufficientStock = errors.New("stock insuficiente")
	ErrNotABundle        = errors.New("el producto no es un bundle")
	ErrCyclicBundle      = errors.New("composición de bundle cíclica")
)

// ErrUnknownEntity se devuelve cuando un producto o bodega referenciado no existe.
// Es el mismo valor que ErrNotFound para que los adaptadores lo traten igual.
var ErrUnknownEntity = ErrNotFound
