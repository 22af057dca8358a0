package recommending

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avilchez/commerce-insights-api/internal/domain"
)

func sale(segment, product string) domain.EnrichedSale {
	return domain.EnrichedSale{
		Sale:    domain.Sale{Product: product},
		Segment: segment,
	}
}

func TestService_Recommend(t *testing.T) {
	service := NewService()

	sales := []domain.EnrichedSale{
		sale("empresa", "Portátil"),
		sale("empresa", "Portátil"),
		sale("empresa", "Monitor"),
		sale("particular", "Teclado"),
		sale("estudiante", "Ratón"),
	}

	result := service.Recommend(sales)
	require.Len(t, result, 3)

	// Ordem alfabética de segmento
	assert.Equal(t, domain.Recommendation{Segment: "empresa", Product: "Portátil", TimesSold: 2}, result[0])
	assert.Equal(t, domain.Recommendation{Segment: "estudiante", Product: "Ratón", TimesSold: 1}, result[1])
	assert.Equal(t, domain.Recommendation{Segment: "particular", Product: "Teclado", TimesSold: 1}, result[2])
}

func TestService_Recommend_EmpateLexicografico(t *testing.T) {
	service := NewService()

	sales := []domain.EnrichedSale{
		sale("empresa", "Teclado"),
		sale("empresa", "Monitor"),
	}

	result := service.Recommend(sales)
	require.Len(t, result, 1)
	assert.Equal(t, "Monitor", result[0].Product)
}

func TestService_Recommend_SemVendas(t *testing.T) {
	service := NewService()
	assert.Empty(t, service.Recommend(nil))
}
