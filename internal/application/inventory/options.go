package inventory

import "time"

// Options parámetros del motor de inventario.
type Options struct {
	DefaultMinStock      int64 // mínimo para pares producto+bodega sin registro
	IncludeUnscopedSales bool  // sumar ventas sin bodega en la proyección por bodega
	AggregateWorkers     int   // bodegas evaluadas en paralelo por SellableCompanyWide
	AlertRecentDays      int   // ventana de ventas recientes para alertas
	TxTimeout            time.Duration
}

// DefaultOptions valores por defecto del motor.
func DefaultOptions() Options {
	return Options{
		AggregateWorkers: 8,
		AlertRecentDays:  30,
		TxTimeout:        5 * time.Second,
	}
}

func (o Options) normalized() Options {
	d := DefaultOptions()
	if o.AggregateWorkers <= 0 {
		o.AggregateWorkers = d.AggregateWorkers
	}
	if o.AlertRecentDays <= 0 {
		o.AlertRecentDays = d.AlertRecentDays
	}
	if o.DefaultMinStock < 0 {
		o.DefaultMinStock = 0
	}
	return o
}
