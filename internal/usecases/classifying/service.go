// Package classifying treina os dois classificadores binários sobre os
// perfis de cliente: recorrência (o cliente volta a comprar) e risco de
// abandono (inatividade acima do limiar configurado).
package classifying

import (
	"math/rand"
	"sort"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/mat"

	"github.com/avilchez/commerce-insights-api/internal/config"
	"github.com/avilchez/commerce-insights-api/internal/domain"
	"github.com/avilchez/commerce-insights-api/internal/ml"
	"github.com/avilchez/commerce-insights-api/pkg/utils"
)

// numFeatures é a largura da matriz de features por cliente.
const numFeatures = 9

type Classifier interface {
	// TrainRecurrence treina o classificador de recorrência (num_compras > 1).
	TrainRecurrence(profiles []domain.CustomerProfile, rng *rand.Rand) (*domain.ClassificationResult, error)
	// TrainRisk treina o classificador de risco de abandono: inativo há mais
	// dias que o limiar E com histórico de pelo menos duas compras.
	TrainRisk(profiles []domain.CustomerProfile, rng *rand.Rand) (*domain.ClassificationResult, error)
}

type Service struct {
	models config.Models
}

func NewService(models config.Models) Classifier {
	return &Service{models: models}
}

func (s *Service) TrainRecurrence(profiles []domain.CustomerProfile, rng *rand.Rand) (*domain.ClassificationResult, error) {
	labels := make([]float64, len(profiles))
	for i, p := range profiles {
		if p.NumSales > 1 {
			labels[i] = 1
		}
	}
	return s.train("recurrencia", profiles, labels, rng)
}

func (s *Service) TrainRisk(profiles []domain.CustomerProfile, rng *rand.Rand) (*domain.ClassificationResult, error) {
	threshold := s.models.RiskThresholdDays()
	labels := make([]float64, len(profiles))
	for i, p := range profiles {
		if p.DaysSinceLast > threshold && p.NumSales >= 2 {
			labels[i] = 1
		}
	}
	return s.train("riesgo", profiles, labels, rng)
}

// train executa o protocolo comum: split aleatório, padronização ajustada só
// no treino, regressão logística, accuracy no teste e re-escore da população
// inteira com o modelo treinado.
func (s *Service) train(stage string, profiles []domain.CustomerProfile, labels []float64, rng *rand.Rand) (*domain.ClassificationResult, error) {
	if len(profiles) < ml.MinTrainingSamples {
		return nil, &domain.InsufficientDataError{
			Stage:  stage,
			Reason: "menos de 5 clientes con perfil",
		}
	}
	if singleClass(labels) {
		return nil, &domain.InsufficientDataError{
			Stage:  stage,
			Reason: "todos los clientes tienen la misma etiqueta",
		}
	}

	features := featureMatrix(profiles)
	trainIdx, testIdx := ml.TrainTestSplit(len(profiles), s.models.TestFraction, rng)

	if len(trainIdx) < ml.MinTrainingSamples || singleClass(pick(labels, trainIdx)) {
		return nil, &domain.InsufficientDataError{
			Stage:  stage,
			Reason: "el conjunto de entrenamiento quedó degenerado tras el split",
		}
	}

	scaler := &ml.StandardScaler{}
	trainX, err := scaler.FitTransform(subMatrix(features, trainIdx))
	if err != nil {
		return nil, err
	}

	model := ml.NewLogisticRegression(s.models.ClassifierEpochs, s.models.ClassifierLR)
	if err := model.Fit(trainX, pick(labels, trainIdx), rng); err != nil {
		return nil, err
	}

	testX, err := scaler.Transform(subMatrix(features, testIdx))
	if err != nil {
		return nil, err
	}
	testProbs := model.PredictProba(testX)
	accuracy := ml.Accuracy(testProbs, pick(labels, testIdx))

	allX, err := scaler.Transform(features)
	if err != nil {
		return nil, err
	}
	allProbs := model.PredictProba(allX)

	heldOut := make(map[int]bool, len(testIdx))
	for _, idx := range testIdx {
		heldOut[idx] = true
	}

	result := &domain.ClassificationResult{
		Accuracy:   utils.RoundWithTwoDecimalPlace(accuracy),
		TestScores: make([]domain.ScoredCustomer, 0, len(testIdx)),
		AllScores:  make([]domain.ScoredCustomer, 0, len(profiles)),
	}
	for i, p := range profiles {
		scored := domain.ScoredCustomer{
			CustomerID:  p.CustomerID,
			City:        p.City,
			Segment:     p.Segment,
			TotalSpent:  p.TotalSpent,
			Probability: utils.RoundWithTwoDecimalPlace(allProbs[i]),
			HeldOut:     heldOut[i],
		}
		result.AllScores = append(result.AllScores, scored)
		if scored.HeldOut {
			result.TestScores = append(result.TestScores, scored)
		}
	}

	sortByProbability(result.TestScores)
	sortByProbability(result.AllScores)

	logrus.WithFields(logrus.Fields{
		"stage":    stage,
		"clientes": len(profiles),
		"test":     len(testIdx),
		"accuracy": result.Accuracy,
	}).Info("Classificador treinado")

	return result, nil
}

// featureMatrix monta a matriz clientes x features na ordem do perfil.
func featureMatrix(profiles []domain.CustomerProfile) *mat.Dense {
	segments := make([]string, len(profiles))
	for i, p := range profiles {
		segments[i] = p.Segment
	}
	segmentEncoding := domain.NewSegmentEncoding(segments)

	x := mat.NewDense(len(profiles), numFeatures, nil)
	for i, p := range profiles {
		x.SetRow(i, []float64{
			p.TotalSpent,
			p.AvgSpent,
			p.MaxSpent,
			float64(p.NumSales),
			p.FavoriteProduct,
			float64(p.LastMonth),
			p.DaysBetween,
			float64(p.DaysSinceLast),
			float64(segmentEncoding.Encode(p.Segment)),
		})
	}
	return x
}

func subMatrix(x *mat.Dense, indexes []int) *mat.Dense {
	_, cols := x.Dims()
	sub := mat.NewDense(len(indexes), cols, nil)
	for i, idx := range indexes {
		sub.SetRow(i, mat.Row(nil, idx, x))
	}
	return sub
}

func pick(values []float64, indexes []int) []float64 {
	picked := make([]float64, len(indexes))
	for i, idx := range indexes {
		picked[i] = values[idx]
	}
	return picked
}

func singleClass(labels []float64) bool {
	positives := 0
	for _, label := range labels {
		if label > 0.5 {
			positives++
		}
	}
	return positives == 0 || positives == len(labels)
}

// sortByProbability ordena por probabilidade decrescente, com desempate
// determinístico pelo identificador do cliente.
func sortByProbability(scores []domain.ScoredCustomer) {
	sort.SliceStable(scores, func(i, j int) bool {
		if scores[i].Probability != scores[j].Probability {
			return scores[i].Probability > scores[j].Probability
		}
		return scores[i].CustomerID < scores[j].CustomerID
	})
}
