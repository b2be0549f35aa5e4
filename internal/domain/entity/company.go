package entity

import "time"

// Company representa una organización/tenant. Todas las demás entidades cuelgan de una empresa
// excepto Supplier (compartido) y Sale (asociada vía Product).
type Company struct {
	ID        string
	Name      string
	CreatedAt time.Time
}
