package ports

import (
	"context"
	"errors"
)

// ErrRequestInFlight otra petición con la misma Idempotency-Key aún no termina.
var ErrRequestInFlight = errors.New("petición con la misma clave en curso")

// StoredResponse respuesta guardada de una mutación ya aplicada.
type StoredResponse struct {
	Status int    `json:"status"`
	Body   []byte `json:"body"`
}

// IdempotencyStore puerto de salida para las claves de idempotencia de las mutaciones.
// Nunca guarda cantidades de stock, solo la respuesta HTTP ya emitida para una clave.
type IdempotencyStore interface {
	// Reserve marca la clave como en curso. Devuelve (nil, nil) si la reservó,
	// la respuesta guardada si la clave ya se completó, o ErrRequestInFlight.
	Reserve(ctx context.Context, key string) (*StoredResponse, error)
	// Complete guarda la respuesta de la clave reservada.
	Complete(ctx context.Context, key string, resp StoredResponse) error
	// Release libera la clave para que un reintento pueda volver a ejecutarse.
	Release(ctx context.Context, key string) error
}
