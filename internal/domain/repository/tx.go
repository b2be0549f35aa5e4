package repository

// Tx agrupa los repositorios atados a una misma transacción de base de datos.
type Tx struct {
	Inventory InventoryRecordRepository
	Audit     AuditRepository
	Products  ProductRepository
	Bundles   BundleRepository
}
