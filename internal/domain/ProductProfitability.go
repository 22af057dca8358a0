package domain

// ProductProfitability agrega receita e estatísticas de preço por produto.
// A fatia resultante é ordenada por receita total decrescente (ordenação estável).
type ProductProfitability struct {
	Product      string  `json:"producto"`
	TotalRevenue float64 `json:"total_ingresos"`
	TotalSales   int     `json:"total_ventas"`
	AvgPrice     float64 `json:"precio_promedio"`
	MaxPrice     float64 `json:"precio_maximo"`
	MinPrice     float64 `json:"precio_minimo"`
	// RevenueShare é a participação percentual na receita total (0-100, 2 casas).
	RevenueShare float64 `json:"participacion"`
}

// OutlierSale é uma venda com preço fora do intervalo interquartil esperado.
type OutlierSale struct {
	Sale
	LowerBound float64 `json:"limite_inferior"`
	UpperBound float64 `json:"limite_superior"`
}

// MonthlyTrend agrega receita e quantidade de vendas por mês ("2006-01").
type MonthlyTrend struct {
	Month    string  `json:"mes"`
	Revenue  float64 `json:"ingresos"`
	NumSales int     `json:"ventas"`
}
