package ml

import "math/rand"

// TrainTestSplit embaralha os índices com o rng injetado e devolve os índices
// de treino e teste. A fração de teste é arredondada para baixo, com pelo
// menos um exemplo de teste quando n > 1.
func TrainTestSplit(n int, testFraction float64, rng *rand.Rand) (train, test []int) {
	indices := rng.Perm(n)

	testSize := int(float64(n) * testFraction)
	if testSize == 0 && n > 1 {
		testSize = 1
	}

	test = indices[:testSize]
	train = indices[testSize:]
	return train, test
}

// SequentialSplit corta os primeiros n*(1-testFraction) exemplos para treino,
// preservando a ordem temporal (usado pela série do forecaster).
func SequentialSplit(n int, testFraction float64) (trainEnd int) {
	trainEnd = int(float64(n) * (1 - testFraction))
	if trainEnd == n && n > 1 {
		trainEnd = n - 1
	}
	if trainEnd < 1 {
		trainEnd = 1
	}
	return trainEnd
}
