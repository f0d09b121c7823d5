package inventory

import "github.com/shopspring/decimal"

// Estados de stock de un medicamento.
const (
	StatusOut      = "AGOTADO"
	StatusCritical = "CRITICO"
	StatusLow      = "BAJO"
	StatusOK       = "OK"
)

// lowFactor margen sobre el mínimo a partir del cual el stock se considera BAJO.
var lowFactor = decimal.NewFromFloat(1.5)

// StockStatus clasifica el stock respecto al mínimo (servicio de dominio).
// AGOTADO: stock <= 0; CRITICO: stock <= mínimo; BAJO: stock <= 1.5 × mínimo; OK en otro caso.
func StockStatus(stock, minStock int) string {
	switch {
	case stock <= 0:
		return StatusOut
	case stock <= minStock:
		return StatusCritical
	case decimal.NewFromInt(int64(stock)).LessThanOrEqual(decimal.NewFromInt(int64(minStock)).Mul(lowFactor)):
		return StatusLow
	default:
		return StatusOK
	}
}

// IsAlert indica si el estado requiere reposición (mismo criterio que las estadísticas).
func IsAlert(stock, minStock int) bool {
	return stock <= minStock
}

// DailyAverage promedio diario de unidades dispensadas, redondeado a 2 decimales.
func DailyAverage(total, days int) decimal.Decimal {
	if days <= 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(total)).Div(decimal.NewFromInt(int64(days))).Round(2)
}
