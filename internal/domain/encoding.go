package domain

import "sort"

// ProductEncoding é o mapeamento estável categoria -> índice numérico usado
// pelos modelos. É persistido junto com os artefatos e reutilizado em
// execuções seguintes contra o mesmo universo de produtos; produtos nunca
// vistos caem no bucket "desconhecido" (índice = len(known)).
type ProductEncoding struct {
	byName map[string]int
	names  []string
}

// NewProductEncoding deriva o encoding do conjunto ordenado de nomes distintos.
func NewProductEncoding(products []string) *ProductEncoding {
	distinct := make(map[string]struct{}, len(products))
	for _, p := range products {
		distinct[p] = struct{}{}
	}

	names := make([]string, 0, len(distinct))
	for p := range distinct {
		names = append(names, p)
	}
	sort.Strings(names)

	byName := make(map[string]int, len(names))
	for i, p := range names {
		byName[p] = i
	}

	return &ProductEncoding{byName: byName, names: names}
}

// RestoreProductEncoding reconstrói um encoding persistido (nomes já na ordem
// dos índices).
func RestoreProductEncoding(names []string) *ProductEncoding {
	byName := make(map[string]int, len(names))
	for i, p := range names {
		byName[p] = i
	}
	return &ProductEncoding{byName: byName, names: append([]string(nil), names...)}
}

// Encode retorna o índice do produto. Produtos desconhecidos recebem o bucket
// extra len(known) em vez de falhar.
func (e *ProductEncoding) Encode(product string) int {
	if idx, ok := e.byName[product]; ok {
		return idx
	}
	return len(e.names)
}

// Decode retorna o nome do produto para um índice. O bucket desconhecido
// decodifica como string vazia.
func (e *ProductEncoding) Decode(idx int) string {
	if idx < 0 || idx >= len(e.names) {
		return ""
	}
	return e.names[idx]
}

// Names retorna os nomes na ordem dos índices.
func (e *ProductEncoding) Names() []string {
	return append([]string(nil), e.names...)
}

// Len é o número de categorias conhecidas (sem contar o bucket desconhecido).
func (e *ProductEncoding) Len() int { return len(e.names) }

// SegmentEncoding é o análogo do ProductEncoding para tipos de cliente.
type SegmentEncoding = ProductEncoding

// NewSegmentEncoding deriva o encoding dos segmentos distintos observados.
func NewSegmentEncoding(segments []string) *SegmentEncoding {
	return NewProductEncoding(segments)
}
