package ml

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTrainTestSplit(t *testing.T) {
	train, test := TrainTestSplit(10, 0.2, rand.New(rand.NewSource(42)))

	assert.Len(t, test, 2)
	assert.Len(t, train, 8)

	// Treino e teste não compartilham índices
	seen := make(map[int]bool)
	for _, i := range test {
		seen[i] = true
	}
	for _, i := range train {
		assert.False(t, seen[i], "índice %d presente nos dois conjuntos", i)
	}
}

func TestTrainTestSplit_PeloMenosUmTeste(t *testing.T) {
	train, test := TrainTestSplit(3, 0.2, rand.New(rand.NewSource(1)))
	assert.Len(t, test, 1)
	assert.Len(t, train, 2)
}

func TestTrainTestSplit_Deterministico(t *testing.T) {
	trainA, testA := TrainTestSplit(20, 0.25, rand.New(rand.NewSource(99)))
	trainB, testB := TrainTestSplit(20, 0.25, rand.New(rand.NewSource(99)))

	assert.Equal(t, trainA, trainB)
	assert.Equal(t, testA, testB)
}

func TestSequentialSplit(t *testing.T) {
	assert.Equal(t, 8, SequentialSplit(10, 0.2))
	assert.Equal(t, 1, SequentialSplit(2, 0.9))
	// Nunca deixa o teste vazio quando há mais de um exemplo
	assert.Equal(t, 1, SequentialSplit(2, 0.0))
}
