package ml

import (
	"math"
	"math/rand"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// MinTrainingSamples é o mínimo de exemplos para treinar um classificador.
const MinTrainingSamples = 5

// LogisticRegression é um classificador binário treinado por gradiente
// descendente em lote único.
type LogisticRegression struct {
	Weights *mat.VecDense
	Bias    float64

	Epochs       int
	LearningRate float64
}

// NewLogisticRegression cria o classificador com os hiperparâmetros dados.
func NewLogisticRegression(epochs int, learningRate float64) *LogisticRegression {
	return &LogisticRegression{
		Epochs:       epochs,
		LearningRate: learningRate,
	}
}

func sigmoid(z float64) float64 {
	return 1 / (1 + math.Exp(-z))
}

// Fit treina sobre a matriz de features padronizada x e os rótulos y (0/1).
// Falha com erro explícito quando há poucos exemplos ou uma única classe.
func (m *LogisticRegression) Fit(x *mat.Dense, y []float64, rng *rand.Rand) error {
	rows, cols := x.Dims()
	if rows != len(y) {
		return errors.Errorf("logistic: %d linhas de features para %d rótulos", rows, len(y))
	}
	if rows < MinTrainingSamples {
		return errors.Errorf("logistic: %d exemplos, mínimo %d", rows, MinTrainingSamples)
	}

	positives := 0
	for _, label := range y {
		if label > 0.5 {
			positives++
		}
	}
	if positives == 0 || positives == rows {
		return errors.New("logistic: rótulos com uma única classe")
	}

	// Inicialização pequena e determinística a partir do rng injetado
	weights := make([]float64, cols)
	for j := range weights {
		weights[j] = rng.NormFloat64() * 0.01
	}
	m.Weights = mat.NewVecDense(cols, weights)
	m.Bias = 0

	grad := mat.NewVecDense(cols, nil)
	diff := mat.NewVecDense(rows, nil)

	for epoch := 0; epoch < m.Epochs; epoch++ {
		// p = sigmoid(Xw + b); gradiente = X^T (p - y) / n
		var z mat.VecDense
		z.MulVec(x, m.Weights)

		biasGrad := 0.0
		for i := 0; i < rows; i++ {
			p := sigmoid(z.AtVec(i) + m.Bias)
			d := p - y[i]
			diff.SetVec(i, d)
			biasGrad += d
		}

		grad.MulVec(x.T(), diff)
		grad.ScaleVec(1/float64(rows), grad)
		m.Weights.AddScaledVec(m.Weights, -m.LearningRate, grad)
		m.Bias -= m.LearningRate * biasGrad / float64(rows)
	}

	return nil
}

// PredictProba devolve a probabilidade da classe positiva para cada linha.
func (m *LogisticRegression) PredictProba(x *mat.Dense) []float64 {
	rows, _ := x.Dims()

	var z mat.VecDense
	z.MulVec(x, m.Weights)

	probs := make([]float64, rows)
	for i := 0; i < rows; i++ {
		probs[i] = sigmoid(z.AtVec(i) + m.Bias)
	}

	return probs
}

// Accuracy calcula a acurácia (0-100) com corte em 0.5.
func Accuracy(probs, labels []float64) float64 {
	if len(probs) == 0 {
		return 0
	}

	correct := 0
	for i, p := range probs {
		predicted := 0.0
		if p >= 0.5 {
			predicted = 1.0
		}
		if predicted == labels[i] {
			correct++
		}
	}

	return float64(correct) / float64(len(probs)) * 100
}
