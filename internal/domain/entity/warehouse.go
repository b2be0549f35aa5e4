package entity

import "time"

// Warehouse representa una bodega de una empresa. El nombre es único dentro de la empresa.
type Warehouse struct {
	ID        string
	CompanyID string
	Name      string
	Location  string
	CreatedAt time.Time
}
