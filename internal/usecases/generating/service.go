// Package generating produz os dados sintéticos de demonstração: uma base
// de clientes e um histórico de vendas com as mesmas distribuições dos
// arquivos de exemplo históricos.
package generating

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/avilchez/commerce-insights-api/internal/domain"
	"github.com/avilchez/commerce-insights-api/pkg/utils"
)

// Tamanhos padrão da base sintética.
const (
	DefaultCustomers = 500
	DefaultSales     = 2000
)

const (
	minPrice = 400.0
	maxPrice = 8000.0
)

// Distribuições categóricas dos dados sintéticos. Os pesos somam 1.
var (
	products = []weighted{
		{"PC Gamer", 0.25},
		{"Laptop Oficina", 0.30},
		{"Servidor", 0.10},
		{"PC Básica", 0.20},
		{"Laptop Gamer", 0.15},
	}
	segments = []weighted{
		{domain.SegmentParticular, 0.5},
		{domain.SegmentEmpresa, 0.3},
		{domain.SegmentEstudiante, 0.2},
	}
	brands = []string{"HP", "Dell", "Lenovo", "Asus", "Acer"}

	firstNames = []string{"Ana", "Luis", "Marta", "Carlos", "Lucía", "Javier", "Sofía", "Diego", "Elena", "Pablo"}
	lastNames  = []string{"García", "Pérez", "Ruiz", "Fernández", "López", "Martín", "Sánchez", "Díaz", "Moreno", "Romero"}
	cities     = []string{"Madrid", "Barcelona", "Valencia", "Sevilla", "Zaragoza", "Bilbao", "Málaga", "Murcia"}
)

type weighted struct {
	value  string
	weight float64
}

type Generator interface {
	// Generate produz numCustomers clientes e numSales vendas reprodutíveis
	// a partir do rng injetado.
	Generate(numCustomers, numSales int, rng *rand.Rand) ([]domain.Customer, []domain.Sale)
}

type Service struct{}

func NewService() Generator {
	return &Service{}
}

func (s *Service) Generate(numCustomers, numSales int, rng *rand.Rand) ([]domain.Customer, []domain.Sale) {
	if numCustomers <= 0 {
		numCustomers = DefaultCustomers
	}
	if numSales <= 0 {
		numSales = DefaultSales
	}

	epoch := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)

	customers := make([]domain.Customer, 0, numCustomers)
	for i := 0; i < numCustomers; i++ {
		// Registros espaçados de 12 em 12 horas a partir da época
		registered := epoch.Add(time.Duration(i) * 12 * time.Hour)
		customers = append(customers, domain.Customer{
			ID:           int64(i + 1),
			Name:         fmt.Sprintf("%s %s", pickUniform(firstNames, rng), pickUniform(lastNames, rng)),
			City:         pickUniform(cities, rng),
			Segment:      pickWeighted(segments, rng),
			RegisteredAt: &registered,
		})
	}

	sales := make([]domain.Sale, 0, numSales)
	for i := 0; i < numSales; i++ {
		sales = append(sales, domain.Sale{
			ID:         int64(i + 1),
			CustomerID: int64(rng.Intn(numCustomers) + 1),
			Product:    pickWeighted(products, rng),
			Brand:      pickUniform(brands, rng),
			Price:      utils.RoundWithTwoDecimalPlace(minPrice + rng.Float64()*(maxPrice-minPrice)),
			// Vendas espaçadas de 6 em 6 horas a partir da época
			SoldAt: epoch.Add(time.Duration(i) * 6 * time.Hour),
		})
	}

	logrus.WithFields(logrus.Fields{
		"clientes": numCustomers,
		"ventas":   numSales,
	}).Info("Base sintética gerada")

	return customers, sales
}

func pickUniform(values []string, rng *rand.Rand) string {
	return values[rng.Intn(len(values))]
}

func pickWeighted(values []weighted, rng *rand.Rand) string {
	roll := rng.Float64()
	acc := 0.0
	for _, w := range values {
		acc += w.weight
		if roll < acc {
			return w.value
		}
	}
	return values[len(values)-1].value
}
