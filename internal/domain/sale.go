package domain

import "time"

// Sale representa uma venda individual já normalizada.
type Sale struct {
	ID         int64     `json:"venta_id"`
	CustomerID int64     `json:"cliente_id"`
	Product    string    `json:"producto"`
	Brand      string    `json:"marca,omitempty"`
	Price      float64   `json:"precio"`
	SoldAt     time.Time `json:"fecha_venta"`
}

// EnrichedSale é a venda após o join com clientes e o encoding de produto.
// O campo RollingAvg48h é a média móvel de gasto do cliente numa janela de 48h.
type EnrichedSale struct {
	Sale
	Segment        string  `json:"tipo_cliente"`
	City           string  `json:"ciudad,omitempty"`
	ProductEncoded int     `json:"producto_encoded"`
	RollingAvg48h  float64 `json:"gasto_promedio_48h"`
}
