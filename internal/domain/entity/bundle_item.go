package entity

// BundleItem arista dirigida bundle -> componente con la cantidad de componente por unidad de bundle.
type BundleItem struct {
	ID                 string
	BundleProductID    string
	ComponentProductID string
	Quantity           int64 // > 0
}
