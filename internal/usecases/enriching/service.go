// Package enriching faz o join das vendas com os clientes e deriva as
// colunas usadas pelos modelos: encoding numérico de produto e média móvel
// de gasto por cliente numa janela de 48 horas.
package enriching

import (
	"sort"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/avilchez/commerce-insights-api/internal/domain"
	"github.com/avilchez/commerce-insights-api/pkg/utils"
)

// rollingWindow é a janela da média móvel de gasto por cliente.
const rollingWindow = 48 * time.Hour

// EnrichedBatch é o resultado do enriquecimento: as vendas com as colunas
// derivadas e o encoding de produto usado (novo ou restaurado).
type EnrichedBatch struct {
	Sales    []domain.EnrichedSale
	Encoding *domain.ProductEncoding
}

type Enricher interface {
	// Enrich junta vendas e clientes. Quando encoding é nil, um novo é
	// derivado dos produtos observados; caso contrário o encoding persistido
	// é reutilizado e produtos novos caem no bucket desconhecido.
	Enrich(customers []domain.Customer, sales []domain.Sale, encoding *domain.ProductEncoding) *EnrichedBatch
}

type Service struct{}

func NewService() Enricher {
	return &Service{}
}

func (s *Service) Enrich(customers []domain.Customer, sales []domain.Sale, encoding *domain.ProductEncoding) *EnrichedBatch {
	byID := make(map[int64]domain.Customer, len(customers))
	for _, c := range customers {
		byID[c.ID] = c
	}

	if encoding == nil {
		products := make([]string, 0, len(sales))
		for _, sale := range sales {
			products = append(products, sale.Product)
		}
		encoding = domain.NewProductEncoding(products)
	}

	// Ordem temporal estável antes de calcular a média móvel
	ordered := append([]domain.Sale(nil), sales...)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].SoldAt.Before(ordered[j].SoldAt)
	})

	enriched := make([]domain.EnrichedSale, 0, len(ordered))
	unmatched := 0
	for _, sale := range ordered {
		row := domain.EnrichedSale{
			Sale:           sale,
			Segment:        domain.SegmentParticular,
			ProductEncoded: encoding.Encode(sale.Product),
		}

		// Join à esquerda: venda sem cliente conhecido mantém o segmento padrão
		if customer, ok := byID[sale.CustomerID]; ok {
			row.Segment = customer.Segment
			row.City = customer.City
		} else {
			unmatched++
		}

		enriched = append(enriched, row)
	}

	computeRollingAverages(enriched)

	if unmatched > 0 {
		logrus.WithField("ventas_sin_cliente", unmatched).
			Warn("Vendas sem cliente correspondente usam o segmento padrão")
	}

	return &EnrichedBatch{Sales: enriched, Encoding: encoding}
}

// computeRollingAverages preenche RollingAvg48h: a média dos preços das
// vendas do mesmo cliente nas 48 horas anteriores, inclusive a venda atual.
func computeRollingAverages(sales []domain.EnrichedSale) {
	byCustomer := make(map[int64][]int)
	for i, sale := range sales {
		byCustomer[sale.CustomerID] = append(byCustomer[sale.CustomerID], i)
	}

	for _, indexes := range byCustomer {
		start := 0
		sum := 0.0
		for end, idx := range indexes {
			sum += sales[idx].Price
			cutoff := sales[idx].SoldAt.Add(-rollingWindow)
			for sales[indexes[start]].SoldAt.Before(cutoff) {
				sum -= sales[indexes[start]].Price
				start++
			}
			sales[idx].RollingAvg48h = utils.RoundWithTwoDecimalPlace(sum / float64(end-start+1))
		}
	}
}
