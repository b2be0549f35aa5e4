package http

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventory-engine/internal/application/dto"
	"github.com/jhoicas/inventory-engine/internal/application/ports"
	"github.com/jhoicas/inventory-engine/pkg/logger"
)

// HeaderIdempotencyKey header opcional de las mutaciones.
const HeaderIdempotencyKey = "Idempotency-Key"

// RequestLogger registra cada petición con método, ruta, status y latencia.
func RequestLogger(log *logger.Logger) fiber.Handler {
	if log == nil {
		log = logger.Nop()
	}
	log = log.Component("http")
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		status := c.Response().StatusCode()
		ev := log.Info()
		if status >= fiber.StatusInternalServerError {
			ev = log.Error()
		}
		ev.
			Str("request_id", c.GetRespHeader(fiber.HeaderXRequestID)).
			Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Str("company_id", GetCompanyID(c)).
			Err(err).
			Msg("request")
		return err
	}
}

// Idempotency evita aplicar dos veces una mutación reintentada con la misma Idempotency-Key.
// Solo se guardan respuestas 2xx; ante error la clave se libera para permitir el reintento.
// Sin header la petición pasa sin cambios. Debe usarse después de AuthMiddleware.
func Idempotency(store ports.IdempotencyStore, log *logger.Logger) fiber.Handler {
	if log == nil {
		log = logger.Nop()
	}
	log = log.Component("idempotency")
	return func(c *fiber.Ctx) error {
		header := c.Get(HeaderIdempotencyKey)
		if store == nil || header == "" {
			return c.Next()
		}
		if len(header) > 200 {
			return badRequest(c, "VALIDATION", "Idempotency-Key demasiado larga")
		}
		key := GetCompanyID(c) + ":" + c.Method() + ":" + c.Path() + ":" + header

		stored, err := store.Reserve(c.Context(), key)
		if errors.Is(err, ports.ErrRequestInFlight) {
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "REQUEST_IN_FLIGHT", Message: "petición con la misma Idempotency-Key en curso"})
		}
		if err != nil {
			log.Error().Err(err).Msg("reservar clave de idempotencia")
			return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{Code: "IDEMPOTENCY_UNAVAILABLE", Message: "no se pudo verificar la Idempotency-Key, intente más tarde"})
		}
		if stored != nil {
			c.Set("Idempotent-Replayed", "true")
			c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
			return c.Status(stored.Status).Send(stored.Body)
		}

		if err := c.Next(); err != nil {
			_ = store.Release(c.Context(), key)
			return err
		}
		status := c.Response().StatusCode()
		if status < 200 || status >= 300 {
			if err := store.Release(c.Context(), key); err != nil {
				log.Warn().Err(err).Msg("liberar clave de idempotencia")
			}
			return nil
		}
		body := append([]byte(nil), c.Response().Body()...)
		if err := store.Complete(c.Context(), key, ports.StoredResponse{Status: status, Body: body}); err != nil {
			log.Warn().Err(err).Msg("guardar respuesta idempotente")
		}
		return nil
	}
}
