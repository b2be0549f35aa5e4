package entity

// Supplier proveedor compartido entre empresas.
type Supplier struct {
	ID           string
	Name         string
	ContactEmail string
	ContactPhone string
}
