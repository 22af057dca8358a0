// Package recommending deriva a recomendação por segmento: o produto mais
// comprado pelos clientes daquele tipo.
package recommending

import (
	"sort"

	"github.com/avilchez/commerce-insights-api/internal/domain"
)

type Recommender interface {
	Recommend(sales []domain.EnrichedSale) []domain.Recommendation
}

type Service struct{}

func NewService() Recommender {
	return &Service{}
}

// Recommend conta compras por (segmento, produto) e devolve o produto mais
// frequente de cada segmento, em ordem alfabética de segmento. Empates são
// resolvidos pelo nome do produto em ordem lexicográfica.
func (s *Service) Recommend(sales []domain.EnrichedSale) []domain.Recommendation {
	counts := make(map[string]map[string]int)
	for _, sale := range sales {
		if counts[sale.Segment] == nil {
			counts[sale.Segment] = make(map[string]int)
		}
		counts[sale.Segment][sale.Product]++
	}

	recommendations := make([]domain.Recommendation, 0, len(counts))
	for segment, products := range counts {
		best := ""
		bestCount := -1
		for product, count := range products {
			if count > bestCount || (count == bestCount && product < best) {
				best = product
				bestCount = count
			}
		}
		recommendations = append(recommendations, domain.Recommendation{
			Segment:   segment,
			Product:   best,
			TimesSold: bestCount,
		})
	}

	sort.Slice(recommendations, func(i, j int) bool {
		return recommendations[i].Segment < recommendations[j].Segment
	})

	return recommendations
}
