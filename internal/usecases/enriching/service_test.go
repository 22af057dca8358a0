package enriching

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avilchez/commerce-insights-api/internal/domain"
)

func saleAt(customerID int64, product string, price float64, at string) domain.Sale {
	soldAt, _ := time.Parse("2006-01-02 15:04:05", at)
	return domain.Sale{CustomerID: customerID, Product: product, Price: price, SoldAt: soldAt}
}

func TestService_Enrich_JoinComClientes(t *testing.T) {
	service := NewService()

	customers := []domain.Customer{
		{ID: 1, City: "Madrid", Segment: domain.SegmentEmpresa},
	}
	sales := []domain.Sale{
		saleAt(1, "Portátil", 899.99, "2023-03-01 10:00:00"),
		saleAt(99, "Monitor", 210.50, "2023-03-02 10:00:00"),
	}

	batch := service.Enrich(customers, sales, nil)
	require.Len(t, batch.Sales, 2)

	assert.Equal(t, domain.SegmentEmpresa, batch.Sales[0].Segment)
	assert.Equal(t, "Madrid", batch.Sales[0].City)

	// Venda órfã cai no segmento padrão
	assert.Equal(t, domain.SegmentParticular, batch.Sales[1].Segment)
	assert.Empty(t, batch.Sales[1].City)
}

func TestService_Enrich_EncodingDerivadoEOrdenado(t *testing.T) {
	service := NewService()

	sales := []domain.Sale{
		saleAt(1, "Teclado", 45, "2023-03-01 10:00:00"),
		saleAt(1, "Monitor", 210, "2023-03-02 10:00:00"),
		saleAt(1, "Teclado", 45, "2023-03-03 10:00:00"),
	}

	batch := service.Enrich(nil, sales, nil)

	// Encoding alfabético estável: Monitor=0, Teclado=1
	assert.Equal(t, []string{"Monitor", "Teclado"}, batch.Encoding.Names())
	assert.Equal(t, 1, batch.Sales[0].ProductEncoded)
	assert.Equal(t, 0, batch.Sales[1].ProductEncoded)
}

func TestService_Enrich_EncodingRestaurado(t *testing.T) {
	service := NewService()

	restored := domain.RestoreProductEncoding([]string{"Monitor", "Teclado"})
	sales := []domain.Sale{
		saleAt(1, "Teclado", 45, "2023-03-01 10:00:00"),
		saleAt(1, "Impresora", 120, "2023-03-02 10:00:00"),
	}

	batch := service.Enrich(nil, sales, restored)

	assert.Same(t, restored, batch.Encoding)
	assert.Equal(t, 1, batch.Sales[0].ProductEncoded)
	// Produto nunca visto cai no bucket desconhecido
	assert.Equal(t, 2, batch.Sales[1].ProductEncoded)
}

func TestService_Enrich_MediaMovel48h(t *testing.T) {
	service := NewService()

	sales := []domain.Sale{
		saleAt(1, "A", 100, "2023-03-01 10:00:00"),
		saleAt(1, "B", 200, "2023-03-02 10:00:00"),
		// Mais de 48h depois da primeira: só entram a segunda e a terceira
		saleAt(1, "C", 300, "2023-03-03 12:00:00"),
		// Cliente diferente não entra na janela do cliente 1
		saleAt(2, "D", 999, "2023-03-03 11:00:00"),
	}

	batch := service.Enrich(nil, sales, nil)

	byProduct := make(map[string]float64)
	for _, sale := range batch.Sales {
		byProduct[sale.Product] = sale.RollingAvg48h
	}

	assert.Equal(t, 100.0, byProduct["A"])
	assert.Equal(t, 150.0, byProduct["B"])
	assert.Equal(t, 250.0, byProduct["C"])
	assert.Equal(t, 999.0, byProduct["D"])
}

func TestService_Enrich_OrdenadoPorData(t *testing.T) {
	service := NewService()

	sales := []domain.Sale{
		saleAt(1, "B", 200, "2023-03-05 10:00:00"),
		saleAt(1, "A", 100, "2023-03-01 10:00:00"),
	}

	batch := service.Enrich(nil, sales, nil)
	require.Len(t, batch.Sales, 2)
	assert.Equal(t, "A", batch.Sales[0].Product)
	assert.Equal(t, "B", batch.Sales[1].Product)
}
