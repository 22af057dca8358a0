// Package forecasting treina a rede recorrente sobre a série diária de
// vendas e projeta o próximo dia: receita estimada, produto mais vendido e
// segmento mais ativo.
package forecasting

import (
	"fmt"
	"math/rand"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/mat"

	"github.com/avilchez/commerce-insights-api/internal/config"
	"github.com/avilchez/commerce-insights-api/internal/domain"
	"github.com/avilchez/commerce-insights-api/internal/ml"
	"github.com/avilchez/commerce-insights-api/pkg/utils"
)

// Colunas da matriz diária de features. A receita precisa ser a coluna zero
// para a desnormalização da previsão.
const (
	colRevenue = iota
	colNumSales
	colAvgPrice
	colProduct
	colSegment
	numDailyFeatures
)

type Forecaster interface {
	// Forecast treina sobre a série diária e projeta o dia seguinte. As
	// colunas categóricas usam os encodings derivados da própria série.
	Forecast(series []domain.DailyPoint, rng *rand.Rand) (*domain.ForecastResult, error)
}

type Service struct {
	models config.Models
}

func NewService(models config.Models) Forecaster {
	return &Service{models: models}
}

func (s *Service) Forecast(series []domain.DailyPoint, rng *rand.Rand) (*domain.ForecastResult, error) {
	window := s.models.ForecastWindow
	if len(series) < window+1 {
		return nil, &domain.InsufficientDataError{
			Stage:  "prediccion",
			Reason: fmt.Sprintf("la serie tiene %d días, mínimo %d", len(series), window+1),
		}
	}

	products := make([]string, len(series))
	segments := make([]string, len(series))
	for i, point := range series {
		products[i] = point.TopProduct
		segments[i] = point.TopSegment
	}
	productEncoding := domain.NewProductEncoding(products)
	segmentEncoding := domain.NewSegmentEncoding(segments)

	// A série inteira é padronizada de uma vez antes do janelamento
	raw := mat.NewDense(len(series), numDailyFeatures, nil)
	for i, point := range series {
		raw.Set(i, colRevenue, point.Revenue)
		raw.Set(i, colNumSales, float64(point.NumSales))
		raw.Set(i, colAvgPrice, point.AvgPrice)
		raw.Set(i, colProduct, float64(productEncoding.Encode(point.TopProduct)))
		raw.Set(i, colSegment, float64(segmentEncoding.Encode(point.TopSegment)))
	}

	scaler := &ml.StandardScaler{}
	scaled, err := scaler.FitTransform(raw)
	if err != nil {
		return nil, err
	}

	sequences := buildSequences(scaled, series, productEncoding, segmentEncoding, window)
	trainEnd := ml.SequentialSplit(len(sequences), s.models.TestFraction)

	net := ml.NewSequenceNet(
		numDailyFeatures,
		s.models.ForecastHidden,
		productEncoding.Len()+1,
		segmentEncoding.Len()+1,
		s.models.ForecastEpochs,
		s.models.ForecastLR,
		rng,
	)
	if err := net.Fit(sequences[:trainEnd]); err != nil {
		return nil, err
	}

	productAcc, segmentAcc := evaluate(net, sequences[trainEnd:])

	// Inferência sobre a última janela observada
	lastWindow := windowSteps(scaled, len(series)-window, window)
	revenueStd, productIdx, segmentIdx := net.Predict(lastWindow)

	result := &domain.ForecastResult{
		Revenue:         utils.RoundWithTwoDecimalPlace(scaler.InverseValue(revenueStd, colRevenue)),
		TopProduct:      productEncoding.Decode(productIdx),
		TopSegment:      segmentEncoding.Decode(segmentIdx),
		ProductAccuracy: utils.RoundWithTwoDecimalPlace(productAcc),
		SegmentAccuracy: utils.RoundWithTwoDecimalPlace(segmentAcc),
	}

	logrus.WithFields(logrus.Fields{
		"dias":              len(series),
		"secuencias":        len(sequences),
		"accuracy_producto": result.ProductAccuracy,
		"accuracy_tipo":     result.SegmentAccuracy,
	}).Info("Previsão do próximo dia gerada")

	return result, nil
}

// buildSequences janela a série padronizada: cada sequência leva window dias
// de features e o dia seguinte como alvo.
func buildSequences(scaled *mat.Dense, series []domain.DailyPoint, productEncoding, segmentEncoding *domain.ProductEncoding, window int) []ml.Sequence {
	sequences := make([]ml.Sequence, 0, len(series)-window)
	for start := 0; start+window < len(series); start++ {
		target := series[start+window]
		sequences = append(sequences, ml.Sequence{
			Steps:   windowSteps(scaled, start, window),
			Revenue: scaled.At(start+window, colRevenue),
			Product: productEncoding.Encode(target.TopProduct),
			Segment: segmentEncoding.Encode(target.TopSegment),
		})
	}
	return sequences
}

func windowSteps(scaled *mat.Dense, start, window int) [][]float64 {
	steps := make([][]float64, window)
	for i := 0; i < window; i++ {
		steps[i] = mat.Row(nil, start+i, scaled)
	}
	return steps
}

// evaluate mede a accuracy das duas cabeças categóricas sobre o conjunto de
// teste sequencial (0-100). Sem exemplos de teste, reporta zero.
func evaluate(net *ml.SequenceNet, test []ml.Sequence) (productAcc, segmentAcc float64) {
	if len(test) == 0 {
		return 0, 0
	}

	productHits, segmentHits := 0, 0
	for _, seq := range test {
		_, product, segment := net.Predict(seq.Steps)
		if product == seq.Product {
			productHits++
		}
		if segment == seq.Segment {
			segmentHits++
		}
	}

	total := float64(len(test))
	return float64(productHits) / total * 100, float64(segmentHits) / total * 100
}
