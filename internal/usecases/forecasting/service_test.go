package forecasting

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avilchez/commerce-insights-api/internal/config"
	"github.com/avilchez/commerce-insights-api/internal/domain"
)

func testModels() config.Models {
	return config.Models{
		TestFraction:   0.2,
		ForecastWindow: 7,
		ForecastEpochs: 50,
		ForecastHidden: 16,
		ForecastLR:     0.01,
	}
}

// alternatingSeries gera uma série diária com padrão periódico simples:
// dias pares vendem Portátil para empresas, dias ímpares Teclado para
// particulares.
func alternatingSeries(days int) []domain.DailyPoint {
	series := make([]domain.DailyPoint, 0, days)
	start := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < days; i++ {
		point := domain.DailyPoint{
			Date:     start.AddDate(0, 0, i),
			Revenue:  1000 + float64(i%2)*500,
			NumSales: 3 + i%2,
			AvgPrice: 350,
		}
		if i%2 == 0 {
			point.TopProduct = "Portátil"
			point.TopSegment = "empresa"
		} else {
			point.TopProduct = "Teclado"
			point.TopSegment = "particular"
		}
		series = append(series, point)
	}
	return series
}

func TestService_Forecast(t *testing.T) {
	service := NewService(testModels())
	rng := rand.New(rand.NewSource(42))

	result, err := service.Forecast(alternatingSeries(40), rng)
	require.NoError(t, err)

	// A previsão decodifica para categorias reais da série
	assert.Contains(t, []string{"Portátil", "Teclado"}, result.TopProduct)
	assert.Contains(t, []string{"empresa", "particular"}, result.TopSegment)

	// Receita desnormalizada fica na escala dos dados, não na padronizada
	assert.Greater(t, result.Revenue, 500.0)
	assert.Less(t, result.Revenue, 2500.0)

	assert.GreaterOrEqual(t, result.ProductAccuracy, 0.0)
	assert.LessOrEqual(t, result.ProductAccuracy, 100.0)
	assert.GreaterOrEqual(t, result.SegmentAccuracy, 0.0)
	assert.LessOrEqual(t, result.SegmentAccuracy, 100.0)
}

func TestService_Forecast_SerieCurta(t *testing.T) {
	service := NewService(testModels())
	rng := rand.New(rand.NewSource(1))

	result, err := service.Forecast(alternatingSeries(7), rng)
	assert.Nil(t, result)

	var insufficientErr *domain.InsufficientDataError
	require.ErrorAs(t, err, &insufficientErr)
	assert.Equal(t, "prediccion", insufficientErr.Stage)
}

func TestService_Forecast_MinimoExato(t *testing.T) {
	service := NewService(testModels())
	rng := rand.New(rand.NewSource(1))

	// Oito dias geram exatamente uma sequência: treina nela e não há teste
	result, err := service.Forecast(alternatingSeries(8), rng)
	require.NoError(t, err)
	assert.Equal(t, 0.0, result.ProductAccuracy)
	assert.Equal(t, 0.0, result.SegmentAccuracy)
}

func TestService_Forecast_Deterministico(t *testing.T) {
	service := NewService(testModels())

	first, err := service.Forecast(alternatingSeries(30), rand.New(rand.NewSource(7)))
	require.NoError(t, err)
	second, err := service.Forecast(alternatingSeries(30), rand.New(rand.NewSource(7)))
	require.NoError(t, err)

	assert.Equal(t, first, second)
}
