package ml

import (
	"math"
	"math/rand"

	"github.com/pkg/errors"
)

// Sequence é um exemplo de treino do forecaster: uma janela de dias
// padronizados e os alvos do dia seguinte.
type Sequence struct {
	Steps   [][]float64 // janela x features, já padronizada
	Revenue float64     // receita do dia seguinte, padronizada
	Product int         // índice do produto top do dia seguinte
	Segment int         // índice do segmento dominante do dia seguinte
}

// SequenceNet é uma rede recorrente de Elman com um codificador temporal
// compartilhado e três cabeças independentes: regressão de receita,
// classificação de produto e classificação de segmento. Treina com gradiente
// descendente em lote único por um número fixo de épocas; os pesos da última
// época são sempre os usados (sem early stopping).
type SequenceNet struct {
	InputSize   int
	HiddenSize  int
	NumProducts int
	NumSegments int

	Epochs       int
	LearningRate float64

	// Codificador recorrente
	wxh [][]float64 // hidden x input
	whh [][]float64 // hidden x hidden
	bh  []float64

	// Cabeça de receita
	wr []float64
	br float64

	// Cabeça de produto
	wp [][]float64 // produtos x hidden
	bp []float64

	// Cabeça de segmento
	ws [][]float64 // segmentos x hidden
	bs []float64
}

// NewSequenceNet inicializa os pesos com o rng injetado (escala 1/sqrt(fan-in)).
func NewSequenceNet(inputSize, hiddenSize, numProducts, numSegments, epochs int, learningRate float64, rng *rand.Rand) *SequenceNet {
	n := &SequenceNet{
		InputSize:    inputSize,
		HiddenSize:   hiddenSize,
		NumProducts:  numProducts,
		NumSegments:  numSegments,
		Epochs:       epochs,
		LearningRate: learningRate,
	}

	n.wxh = randMatrix(hiddenSize, inputSize, rng)
	n.whh = randMatrix(hiddenSize, hiddenSize, rng)
	n.bh = make([]float64, hiddenSize)

	n.wr = randVector(hiddenSize, rng)
	n.wp = randMatrix(numProducts, hiddenSize, rng)
	n.bp = make([]float64, numProducts)
	n.ws = randMatrix(numSegments, hiddenSize, rng)
	n.bs = make([]float64, numSegments)

	return n
}

func randMatrix(rows, cols int, rng *rand.Rand) [][]float64 {
	scale := 1 / math.Sqrt(float64(cols))
	m := make([][]float64, rows)
	for i := range m {
		m[i] = make([]float64, cols)
		for j := range m[i] {
			m[i][j] = rng.NormFloat64() * scale
		}
	}
	return m
}

func randVector(size int, rng *rand.Rand) []float64 {
	scale := 1 / math.Sqrt(float64(size))
	v := make([]float64, size)
	for i := range v {
		v[i] = rng.NormFloat64() * scale
	}
	return v
}

// forward executa o codificador e devolve todos os estados ocultos da
// sequência (necessários para o BPTT). hs[0] é o estado inicial (zeros).
func (n *SequenceNet) forward(steps [][]float64) [][]float64 {
	hs := make([][]float64, len(steps)+1)
	hs[0] = make([]float64, n.HiddenSize)

	for t, x := range steps {
		h := make([]float64, n.HiddenSize)
		prev := hs[t]
		for i := 0; i < n.HiddenSize; i++ {
			a := n.bh[i]
			for j := 0; j < n.InputSize; j++ {
				a += n.wxh[i][j] * x[j]
			}
			for j := 0; j < n.HiddenSize; j++ {
				a += n.whh[i][j] * prev[j]
			}
			h[i] = math.Tanh(a)
		}
		hs[t+1] = h
	}

	return hs
}

func (n *SequenceNet) heads(h []float64) (revenue float64, productLogits, segmentLogits []float64) {
	revenue = n.br
	for j, w := range n.wr {
		revenue += w * h[j]
	}

	productLogits = make([]float64, n.NumProducts)
	for k := range productLogits {
		z := n.bp[k]
		for j, hv := range h {
			z += n.wp[k][j] * hv
		}
		productLogits[k] = z
	}

	segmentLogits = make([]float64, n.NumSegments)
	for k := range segmentLogits {
		z := n.bs[k]
		for j, hv := range h {
			z += n.ws[k][j] * hv
		}
		segmentLogits[k] = z
	}

	return revenue, productLogits, segmentLogits
}

func softmax(logits []float64) []float64 {
	maxLogit := math.Inf(-1)
	for _, z := range logits {
		if z > maxLogit {
			maxLogit = z
		}
	}

	sum := 0.0
	probs := make([]float64, len(logits))
	for i, z := range logits {
		probs[i] = math.Exp(z - maxLogit)
		sum += probs[i]
	}
	for i := range probs {
		probs[i] /= sum
	}
	return probs
}

type netGradients struct {
	wxh [][]float64
	whh [][]float64
	bh  []float64
	wr  []float64
	br  float64
	wp  [][]float64
	bp  []float64
	ws  [][]float64
	bs  []float64
}

func (n *SequenceNet) zeroGradients() *netGradients {
	zeroM := func(rows, cols int) [][]float64 {
		m := make([][]float64, rows)
		for i := range m {
			m[i] = make([]float64, cols)
		}
		return m
	}

	return &netGradients{
		wxh: zeroM(n.HiddenSize, n.InputSize),
		whh: zeroM(n.HiddenSize, n.HiddenSize),
		bh:  make([]float64, n.HiddenSize),
		wr:  make([]float64, n.HiddenSize),
		wp:  zeroM(n.NumProducts, n.HiddenSize),
		bp:  make([]float64, n.NumProducts),
		ws:  zeroM(n.NumSegments, n.HiddenSize),
		bs:  make([]float64, n.NumSegments),
	}
}

// Fit treina em lote único: a cada época acumula os gradientes das três
// perdas (MSE + duas entropias cruzadas) sobre todas as sequências e aplica
// uma única atualização.
func (n *SequenceNet) Fit(seqs []Sequence) error {
	if len(seqs) == 0 {
		return errors.New("sequence net: nenhuma sequência de treino")
	}

	batch := float64(len(seqs))

	for epoch := 0; epoch < n.Epochs; epoch++ {
		grads := n.zeroGradients()

		for _, seq := range seqs {
			hs := n.forward(seq.Steps)
			hLast := hs[len(hs)-1]

			revenue, productLogits, segmentLogits := n.heads(hLast)
			productProbs := softmax(productLogits)
			segmentProbs := softmax(segmentLogits)

			// Gradiente no estado final: soma das contribuições das três cabeças
			dh := make([]float64, n.HiddenSize)

			// Receita (MSE): d/dyr = 2(yr - y)/N
			dRevenue := 2 * (revenue - seq.Revenue) / batch
			grads.br += dRevenue
			for j, hv := range hLast {
				grads.wr[j] += dRevenue * hv
				dh[j] += dRevenue * n.wr[j]
			}

			// Produto (CE): dlogits = softmax - onehot, média no lote
			for k, p := range productProbs {
				d := p
				if k == seq.Product {
					d -= 1
				}
				d /= batch
				grads.bp[k] += d
				for j, hv := range hLast {
					grads.wp[k][j] += d * hv
					dh[j] += d * n.wp[k][j]
				}
			}

			// Segmento (CE)
			for k, p := range segmentProbs {
				d := p
				if k == seq.Segment {
					d -= 1
				}
				d /= batch
				grads.bs[k] += d
				for j, hv := range hLast {
					grads.ws[k][j] += d * hv
					dh[j] += d * n.ws[k][j]
				}
			}

			// BPTT pelo codificador
			for t := len(seq.Steps) - 1; t >= 0; t-- {
				h := hs[t+1]
				prev := hs[t]
				x := seq.Steps[t]

				da := make([]float64, n.HiddenSize)
				for i := range da {
					da[i] = dh[i] * (1 - h[i]*h[i])
					grads.bh[i] += da[i]
					for j := 0; j < n.InputSize; j++ {
						grads.wxh[i][j] += da[i] * x[j]
					}
					for j := 0; j < n.HiddenSize; j++ {
						grads.whh[i][j] += da[i] * prev[j]
					}
				}

				dhPrev := make([]float64, n.HiddenSize)
				for j := 0; j < n.HiddenSize; j++ {
					for i := 0; i < n.HiddenSize; i++ {
						dhPrev[j] += n.whh[i][j] * da[i]
					}
				}
				dh = dhPrev
			}
		}

		n.applyGradients(grads)
	}

	return nil
}

func (n *SequenceNet) applyGradients(grads *netGradients) {
	lr := n.LearningRate

	for i := range n.wxh {
		for j := range n.wxh[i] {
			n.wxh[i][j] -= lr * grads.wxh[i][j]
		}
		for j := range n.whh[i] {
			n.whh[i][j] -= lr * grads.whh[i][j]
		}
		n.bh[i] -= lr * grads.bh[i]
	}

	for j := range n.wr {
		n.wr[j] -= lr * grads.wr[j]
	}
	n.br -= lr * grads.br

	for k := range n.wp {
		for j := range n.wp[k] {
			n.wp[k][j] -= lr * grads.wp[k][j]
		}
		n.bp[k] -= lr * grads.bp[k]
	}

	for k := range n.ws {
		for j := range n.ws[k] {
			n.ws[k][j] -= lr * grads.ws[k][j]
		}
		n.bs[k] -= lr * grads.bs[k]
	}
}

// Predict aplica a rede a uma janela e devolve a receita prevista (ainda
// padronizada) e os índices das classes previstas.
func (n *SequenceNet) Predict(steps [][]float64) (revenue float64, product, segment int) {
	hs := n.forward(steps)
	hLast := hs[len(hs)-1]

	revenue, productLogits, segmentLogits := n.heads(hLast)
	return revenue, argmax(productLogits), argmax(segmentLogits)
}

func argmax(values []float64) int {
	best := 0
	for i, v := range values {
		if v > values[best] {
			best = i
		}
	}
	return best
}
