package domain

// Recommendation é o produto mais comprado por segmento de cliente.
// Empates são resolvidos por ordem lexicográfica do nome do produto.
type Recommendation struct {
	Segment   string `json:"tipo_cliente"`
	Product   string `json:"producto"`
	TimesSold int    `json:"veces_comprado"`
}
