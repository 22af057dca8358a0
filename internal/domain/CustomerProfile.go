package domain

// CustomerProfile agrega o comportamento de compra de um cliente.
// Só existe para clientes com pelo menos uma venda retida após o join.
type CustomerProfile struct {
	CustomerID int64  `json:"cliente_id"`
	Segment    string `json:"tipo_cliente"`
	City       string `json:"ciudad,omitempty"`

	TotalSpent float64 `json:"total_gastado"`
	AvgSpent   float64 `json:"gasto_promedio"`
	MaxSpent   float64 `json:"gasto_maximo"`
	NumSales   int     `json:"num_compras"`

	// FavoriteProduct é a média do encoding de produto das compras do cliente.
	FavoriteProduct float64 `json:"producto_favorito"`
	LastMonth       int     `json:"mes_ultima_compra"`
	// DaysBetween é o intervalo médio entre compras: (última-primeira)/max(n-1,1).
	DaysBetween   float64 `json:"dias_entre_compras"`
	DaysSinceLast int     `json:"dias_desde_ultima"`

	// RecurrenceProb é a heurística num_compras/max(num_compras), no intervalo [0,1].
	// Não é uma probabilidade calibrada.
	RecurrenceProb float64 `json:"prob_volver_a_comprar"`
}

// ScoredCustomer é um cliente com a probabilidade prevista por um classificador.
type ScoredCustomer struct {
	CustomerID  int64   `json:"cliente_id"`
	City        string  `json:"ciudad,omitempty"`
	Segment     string  `json:"tipo_cliente"`
	TotalSpent  float64 `json:"total_gastado"`
	Probability float64 `json:"probabilidad"`
	// HeldOut indica se o cliente fez parte do conjunto de teste na avaliação.
	HeldOut bool `json:"held_out"`
}

// ClassificationResult carrega a avaliação e os scores de um classificador.
type ClassificationResult struct {
	// Accuracy sobre o conjunto de teste (0-100).
	Accuracy float64 `json:"accuracy"`
	// TestScores contém apenas os clientes do conjunto de teste, ordenados por
	// probabilidade decrescente (compatível com o artefato histórico).
	TestScores []ScoredCustomer `json:"test_scores"`
	// AllScores contém a população inteira re-escorada com o modelo treinado.
	AllScores []ScoredCustomer `json:"all_scores"`
}
