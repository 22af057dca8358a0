package domain

import "time"

// Segmentos de cliente conhecidos. A lista não é fechada: segmentos novos
// que chegarem no arquivo do cliente são aceitos como estão.
const (
	SegmentParticular = "particular"
	SegmentEmpresa    = "empresa"
	SegmentEstudiante = "estudiante"
)

// Customer representa um cliente carregado do arquivo de entrada.
// Imutável dentro de uma execução do pipeline.
type Customer struct {
	ID           int64      `json:"cliente_id"`
	Name         string     `json:"nombre,omitempty"`
	City         string     `json:"ciudad,omitempty"`
	Segment      string     `json:"tipo_cliente"`
	RegisteredAt *time.Time `json:"fecha_registro,omitempty"`
}
