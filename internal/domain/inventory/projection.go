package inventory

import (
	"math"
	"time"
)

// SalesWindow devuelve el rango de fechas inclusivo [from, to] de los últimos lookbackDays días
// calendario terminando en el día de now (incluido).
func SalesWindow(now time.Time, lookbackDays int) (from, to time.Time) {
	y, m, d := now.Date()
	to = time.Date(y, m, d, 0, 0, 0, 0, now.Location())
	from = to.AddDate(0, 0, -(lookbackDays - 1))
	return from, to
}

// AverageDailyRate unidades vendidas por día en la ventana.
func AverageDailyRate(totalSold int64, lookbackDays int) float64 {
	if lookbackDays <= 0 || totalSold <= 0 {
		return 0
	}
	return float64(totalSold) / float64(lookbackDays)
}

// DaysToStockout días estimados hasta agotar el stock: current / avgDaily.
// Con demanda nula devuelve +Inf (nunca se agota al ritmo actual).
func DaysToStockout(current int64, avgDaily float64) float64 {
	if avgDaily <= 0 {
		return math.Inf(1)
	}
	return float64(current) / avgDaily
}
