// Package artifact persiste e lê os artefatos CSV do pipeline sob o
// diretório de dados configurado, espelhando o layout histórico
// raw/ → processed/ → outputs/.
package artifact

import (
	"encoding/csv"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/avilchez/commerce-insights-api/internal/domain"
)

// Nomes lógicos dos artefatos. A API expõe os nomes sem extensão nem
// diretório; o store resolve o caminho relativo.
const (
	RawCustomers    = "clientes"
	RawSales        = "ventas"
	EnrichedSales   = "ventas_con_encoding"
	ProductEncoding = "producto_encoding"
	OutlierSales    = "ventas_atipicas"
	Profitability   = "productos_rentables"
	RecurrentBuyers = "clientes_recurrentes"
	ChurnRisk       = "clientes_en_riesgo"
	Recommendations = "recomendaciones_producto"
	MonthlyTrend    = "tendencia_mensual"
	Forecast        = "prediccion_proxima_semana"
)

// paths mapeia o nome lógico para o caminho relativo sob o diretório de dados.
var paths = map[string]string{
	RawCustomers:    "raw/clientes.csv",
	RawSales:        "raw/ventas.csv",
	EnrichedSales:   "processed/ventas_con_encoding.csv",
	ProductEncoding: "processed/producto_encoding.csv",
	OutlierSales:    "processed/ventas_atipicas.csv",
	Profitability:   "outputs/productos_rentables.csv",
	RecurrentBuyers: "outputs/clientes_recurrentes.csv",
	ChurnRisk:       "outputs/clientes_en_riesgo.csv",
	Recommendations: "outputs/recomendaciones_producto.csv",
	MonthlyTrend:    "outputs/tendencia_mensual.csv",
	Forecast:        "outputs/prediccion_proxima_semana.csv",
}

// Known informa se um nome lógico de artefato existe.
func Known(name string) bool {
	_, ok := paths[name]
	return ok
}

type Store interface {
	WriteTable(name string, table *domain.Table) error
	ReadTable(name string) (*domain.Table, error)
}

// FileStore grava os artefatos como arquivos CSV locais.
type FileStore struct {
	dataDir string
}

func NewFileStore(dataDir string) *FileStore {
	return &FileStore{dataDir: dataDir}
}

func (s *FileStore) WriteTable(name string, table *domain.Table) error {
	relative, ok := paths[name]
	if !ok {
		return errors.Errorf("artifact: nome desconhecido '%s'", name)
	}

	fullPath := filepath.Join(s.dataDir, relative)
	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return errors.Wrapf(err, "artifact: criando diretório para %s", name)
	}

	file, err := os.Create(fullPath)
	if err != nil {
		return errors.Wrapf(err, "artifact: criando %s", name)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.Write(table.Headers); err != nil {
		return errors.Wrapf(err, "artifact: escrevendo cabeçalho de %s", name)
	}
	for _, row := range table.Rows {
		if err := writer.Write(row); err != nil {
			return errors.Wrapf(err, "artifact: escrevendo linha de %s", name)
		}
	}

	writer.Flush()
	return errors.Wrapf(writer.Error(), "artifact: finalizando %s", name)
}

func (s *FileStore) ReadTable(name string) (*domain.Table, error) {
	relative, ok := paths[name]
	if !ok {
		return nil, errors.Errorf("artifact: nome desconhecido '%s'", name)
	}

	file, err := os.Open(filepath.Join(s.dataDir, relative))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &domain.ArtifactMissingError{Name: name}
		}
		return nil, errors.Wrapf(err, "artifact: abrindo %s", name)
	}
	defer file.Close()

	records, err := csv.NewReader(file).ReadAll()
	if err != nil {
		return nil, errors.Wrapf(err, "artifact: lendo %s", name)
	}
	if len(records) == 0 {
		return &domain.Table{}, nil
	}

	return &domain.Table{Headers: records[0], Rows: records[1:]}, nil
}
