package ingesting

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avilchez/commerce-insights-api/internal/domain"
)

func clientesTable() *domain.Table {
	return &domain.Table{
		Headers: []string{"cliente_id", "nombre", "ciudad", "tipo_cliente", "fecha_registro"},
		Rows: [][]string{
			{"1", "Ana García", "Madrid", "empresa", "2022-05-10"},
			{"2", "Luis Pérez", "Sevilla", "", "2023-01-02"},
			{"3", "Marta Ruiz", "Valencia", "estudiante", ""},
		},
	}
}

func ventasTable() *domain.Table {
	return &domain.Table{
		Headers: []string{"venta_id", "cliente_id", "producto", "marca", "precio", "fecha_venta"},
		Rows: [][]string{
			{"10", "1", "Portátil", "Lenovo", "899.99", "2023-03-01 10:00:00"},
			{"11", "2", "Monitor", "LG", "210.50", "2023-03-02 15:30:00"},
			{"12", "1", "Teclado", "Logitech", "45.00", "2023-03-05"},
		},
	}
}

func TestService_Normalize(t *testing.T) {
	service := NewService()

	batch, err := service.Normalize(clientesTable(), ventasTable())
	require.NoError(t, err)

	assert.Len(t, batch.Customers, 3)
	assert.Len(t, batch.Sales, 3)
	assert.Equal(t, 0, batch.DroppedSales)

	// Segmento vazio cai no padrão "particular"
	assert.Equal(t, domain.SegmentParticular, batch.Customers[1].Segment)
	assert.Equal(t, domain.SegmentEmpresa, batch.Customers[0].Segment)

	// fecha_registro ausente fica nil, presente é parseada
	assert.Nil(t, batch.Customers[2].RegisteredAt)
	require.NotNil(t, batch.Customers[0].RegisteredAt)
	assert.Equal(t, time.Date(2022, 5, 10, 0, 0, 0, 0, time.UTC), *batch.Customers[0].RegisteredAt)

	assert.Equal(t, int64(10), batch.Sales[0].ID)
	assert.Equal(t, int64(1), batch.Sales[0].CustomerID)
	assert.Equal(t, "Portátil", batch.Sales[0].Product)
	assert.Equal(t, 899.99, batch.Sales[0].Price)
	assert.Equal(t, time.Date(2023, 3, 1, 10, 0, 0, 0, time.UTC), batch.Sales[0].SoldAt)
}

func TestService_Normalize_ColunasAusentes(t *testing.T) {
	service := NewService()

	tests := []struct {
		name     string
		clientes *domain.Table
		ventas   *domain.Table
		expected map[string][]string
	}{
		{
			name:     "Falta cliente_id em clientes",
			clientes: &domain.Table{Headers: []string{"nombre"}},
			ventas:   ventasTable(),
			expected: map[string][]string{"clientes": {"cliente_id"}},
		},
		{
			name:     "Faltam várias colunas em ventas",
			clientes: clientesTable(),
			ventas:   &domain.Table{Headers: []string{"venta_id", "cliente_id"}},
			expected: map[string][]string{"ventas": {"producto", "precio", "fecha_venta"}},
		},
		{
			name:     "Faltas acumuladas nas duas tabelas num único erro",
			clientes: &domain.Table{Headers: []string{"nombre"}},
			ventas:   &domain.Table{Headers: []string{"producto", "precio"}},
			expected: map[string][]string{
				"clientes": {"cliente_id"},
				"ventas":   {"cliente_id", "fecha_venta"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			batch, err := service.Normalize(tt.clientes, tt.ventas)
			assert.Nil(t, batch)

			var validationErr *domain.ValidationError
			require.ErrorAs(t, err, &validationErr)
			assert.Equal(t, tt.expected, validationErr.MissingColumns)
		})
	}
}

func TestService_Normalize_LinhasInvalidasSaoDescartadas(t *testing.T) {
	service := NewService()

	ventas := &domain.Table{
		Headers: []string{"cliente_id", "producto", "precio", "fecha_venta"},
		Rows: [][]string{
			{"1", "Portátil", "899.99", "2023-03-01 10:00:00"},
			{"1", "Monitor", "no-es-numero", "2023-03-02 15:30:00"},
			{"2", "Teclado", "45.00", "fecha-rota"},
			{"2", "Ratón", "15.00", ""},
		},
	}

	batch, err := service.Normalize(clientesTable(), ventas)
	require.NoError(t, err)

	assert.Len(t, batch.Sales, 1)
	assert.Equal(t, 3, batch.DroppedSales)
	assert.Equal(t, "Portátil", batch.Sales[0].Product)
}

func TestService_Normalize_VentaIDSintetizado(t *testing.T) {
	service := NewService()

	ventas := &domain.Table{
		Headers: []string{"cliente_id", "producto", "precio", "fecha_venta"},
		Rows: [][]string{
			{"1", "Portátil", "899.99", "2023-03-01"},
			{"2", "Monitor", "210.50", "2023-03-02"},
		},
	}

	batch, err := service.Normalize(clientesTable(), ventas)
	require.NoError(t, err)

	// Sem coluna venta_id, o identificador segue a ordem das linhas (1-based)
	assert.Equal(t, int64(1), batch.Sales[0].ID)
	assert.Equal(t, int64(2), batch.Sales[1].ID)
}

func TestService_Normalize_ColunasExtrasIgnoradas(t *testing.T) {
	service := NewService()

	clientes := clientesTable()
	clientes.Headers = append(clientes.Headers, "columna_extra")

	batch, err := service.Normalize(clientes, ventasTable())
	require.NoError(t, err)
	assert.Len(t, batch.Customers, 3)
}
