// Package ml implementa os modelos estatísticos usados pelo pipeline:
// padronização de features, regressão logística e a rede recorrente de
// previsão. Tudo treina em memória, em lote único, sem dependências nativas.
package ml

import (
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// StandardScaler padroniza cada coluna para média 0 e desvio padrão 1.
// As estatísticas são ajustadas uma vez (Fit) e aplicadas depois (Transform),
// para que o conjunto de teste nunca contamine as estatísticas de treino.
type StandardScaler struct {
	Means []float64
	Stds  []float64
}

// Fit calcula média e desvio padrão por coluna.
func (s *StandardScaler) Fit(x *mat.Dense) error {
	rows, cols := x.Dims()
	if rows == 0 {
		return errors.New("scaler: matriz vazia")
	}

	s.Means = make([]float64, cols)
	s.Stds = make([]float64, cols)

	col := make([]float64, rows)
	for j := 0; j < cols; j++ {
		mat.Col(col, j, x)
		s.Means[j] = stat.Mean(col, nil)
		std := stat.StdDev(col, nil)
		if std == 0 {
			// Coluna constante: padronizar para zero sem dividir por zero
			std = 1
		}
		s.Stds[j] = std
	}

	return nil
}

// Transform devolve uma nova matriz padronizada.
func (s *StandardScaler) Transform(x *mat.Dense) (*mat.Dense, error) {
	rows, cols := x.Dims()
	if len(s.Means) != cols {
		return nil, errors.Errorf("scaler: esperava %d colunas, recebeu %d", len(s.Means), cols)
	}

	out := mat.NewDense(rows, cols, nil)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			out.Set(i, j, (x.At(i, j)-s.Means[j])/s.Stds[j])
		}
	}

	return out, nil
}

// FitTransform ajusta e aplica em um passo.
func (s *StandardScaler) FitTransform(x *mat.Dense) (*mat.Dense, error) {
	if err := s.Fit(x); err != nil {
		return nil, err
	}
	return s.Transform(x)
}

// InverseValue desfaz a padronização de um valor da coluna j.
func (s *StandardScaler) InverseValue(value float64, j int) float64 {
	return value*s.Stds[j] + s.Means[j]
}
