package domain

import "time"

// DailyPoint é um dia da série temporal de vendas (só existem dias com >= 1 venda).
type DailyPoint struct {
	Date       time.Time `json:"fecha"`
	Revenue    float64   `json:"ingresos"`
	NumSales   int       `json:"num_ventas"`
	AvgPrice   float64   `json:"precio_prom"`
	TopProduct string    `json:"producto"`
	TopSegment string    `json:"tipo_cliente"`
}

// ForecastResult é a previsão do próximo período. O artefato tem sempre
// exatamente uma linha.
type ForecastResult struct {
	Revenue         float64 `json:"ingreso_estimado"`
	TopProduct      string  `json:"producto_mas_vendido"`
	TopSegment      string  `json:"tipo_cliente_activo"`
	ProductAccuracy float64 `json:"accuracy_producto"`
	SegmentAccuracy float64 `json:"accuracy_tipo"`
}
