package aggregating

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avilchez/commerce-insights-api/internal/domain"
)

func enriched(customerID int64, product, segment string, price float64, at string) domain.EnrichedSale {
	soldAt, _ := time.Parse("2006-01-02 15:04:05", at)
	return domain.EnrichedSale{
		Sale:    domain.Sale{CustomerID: customerID, Product: product, Price: price, SoldAt: soldAt},
		Segment: segment,
	}
}

func TestService_Profitability(t *testing.T) {
	service := NewService()

	sales := []domain.EnrichedSale{
		enriched(1, "Portátil", "empresa", 900, "2023-03-01 10:00:00"),
		enriched(2, "Portátil", "particular", 1100, "2023-03-02 10:00:00"),
		enriched(1, "Teclado", "empresa", 50, "2023-03-03 10:00:00"),
	}

	result := service.Profitability(sales)
	require.Len(t, result, 2)

	// Ordenado por receita decrescente
	assert.Equal(t, "Portátil", result[0].Product)
	assert.Equal(t, 2000.0, result[0].TotalRevenue)
	assert.Equal(t, 2, result[0].TotalSales)
	assert.Equal(t, 1000.0, result[0].AvgPrice)
	assert.Equal(t, 1100.0, result[0].MaxPrice)
	assert.Equal(t, 900.0, result[0].MinPrice)
	assert.Equal(t, 97.56, result[0].RevenueShare)

	assert.Equal(t, "Teclado", result[1].Product)
	assert.Equal(t, 2.44, result[1].RevenueShare)
}

func TestService_Profitability_Vazio(t *testing.T) {
	service := NewService()
	assert.Empty(t, service.Profitability(nil))
}

func TestService_Profiles(t *testing.T) {
	service := NewService()
	reference := time.Date(2023, 4, 1, 0, 0, 0, 0, time.UTC)

	sales := []domain.EnrichedSale{
		enriched(1, "Portátil", "empresa", 900, "2023-03-01 00:00:00"),
		enriched(1, "Teclado", "empresa", 100, "2023-03-11 00:00:00"),
		enriched(1, "Teclado", "empresa", 200, "2023-03-21 00:00:00"),
		enriched(2, "Monitor", "particular", 300, "2023-03-15 00:00:00"),
	}
	sales[0].ProductEncoded = 2
	sales[1].ProductEncoded = 3
	sales[2].ProductEncoded = 3
	sales[3].ProductEncoded = 0

	profiles := service.Profiles(sales, reference)
	require.Len(t, profiles, 2)

	first := profiles[0]
	assert.Equal(t, int64(1), first.CustomerID)
	assert.Equal(t, "empresa", first.Segment)
	assert.Equal(t, 1200.0, first.TotalSpent)
	assert.Equal(t, 400.0, first.AvgSpent)
	assert.Equal(t, 900.0, first.MaxSpent)
	assert.Equal(t, 3, first.NumSales)
	assert.Equal(t, 2.67, first.FavoriteProduct)
	assert.Equal(t, 3, first.LastMonth)
	// 20 dias entre a primeira e a última compra, 2 intervalos
	assert.Equal(t, 10.0, first.DaysBetween)
	assert.Equal(t, 11, first.DaysSinceLast)
	assert.Equal(t, 1.0, first.RecurrenceProb)

	second := profiles[1]
	assert.Equal(t, int64(2), second.CustomerID)
	assert.Equal(t, 1, second.NumSales)
	// Uma única compra: intervalo médio zero, heurística 1/3
	assert.Equal(t, 0.0, second.DaysBetween)
	assert.Equal(t, 0.33, second.RecurrenceProb)
}

func TestService_DailySeries(t *testing.T) {
	service := NewService()

	sales := []domain.EnrichedSale{
		enriched(1, "Portátil", "empresa", 900, "2023-03-02 10:00:00"),
		enriched(2, "Monitor", "particular", 100, "2023-03-01 09:00:00"),
		enriched(3, "Teclado", "particular", 300, "2023-03-01 18:00:00"),
	}

	series := service.DailySeries(sales)
	require.Len(t, series, 2)

	// Ordem cronológica
	assert.Equal(t, time.Date(2023, 3, 1, 0, 0, 0, 0, time.UTC), series[0].Date)
	assert.Equal(t, 400.0, series[0].Revenue)
	assert.Equal(t, 2, series[0].NumSales)
	assert.Equal(t, 200.0, series[0].AvgPrice)
	// Empate 1-1 entre Monitor e Teclado resolve lexicograficamente
	assert.Equal(t, "Monitor", series[0].TopProduct)
	assert.Equal(t, "particular", series[0].TopSegment)

	assert.Equal(t, "Portátil", series[1].TopProduct)
}

func TestService_MonthlyTrend(t *testing.T) {
	service := NewService()

	sales := []domain.EnrichedSale{
		enriched(1, "A", "empresa", 100, "2023-02-15 10:00:00"),
		enriched(1, "A", "empresa", 200, "2023-01-10 10:00:00"),
		enriched(1, "A", "empresa", 300, "2023-02-20 10:00:00"),
	}

	trend := service.MonthlyTrend(sales)
	require.Len(t, trend, 2)
	assert.Equal(t, domain.MonthlyTrend{Month: "2023-01", Revenue: 200, NumSales: 1}, trend[0])
	assert.Equal(t, domain.MonthlyTrend{Month: "2023-02", Revenue: 400, NumSales: 2}, trend[1])
}

func TestService_Outliers(t *testing.T) {
	service := NewService()

	sales := make([]domain.EnrichedSale, 0, 11)
	for i := 0; i < 10; i++ {
		sales = append(sales, enriched(1, "A", "empresa", 100, "2023-03-01 10:00:00"))
	}
	sales = append(sales, enriched(2, "B", "empresa", 10000, "2023-03-02 10:00:00"))

	outliers := service.Outliers(sales)
	require.Len(t, outliers, 1)
	assert.Equal(t, 10000.0, outliers[0].Price)
	assert.Equal(t, "B", outliers[0].Product)
	assert.LessOrEqual(t, outliers[0].UpperBound, 10000.0)
}

func TestService_Outliers_SemDados(t *testing.T) {
	service := NewService()
	assert.Nil(t, service.Outliers(nil))
}
