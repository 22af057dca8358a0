// Package aggregating calcula as agregações descritivas do pipeline:
// rentabilidade por produto, perfil de cliente, série diária, tendência
// mensal e vendas fora do intervalo interquartil.
package aggregating

import (
	"sort"
	"time"

	"github.com/avilchez/commerce-insights-api/internal/domain"
	"github.com/avilchez/commerce-insights-api/pkg/utils"
)

// iqrFactor é o multiplicador clássico de Tukey para o intervalo interquartil.
const iqrFactor = 1.5

type Aggregator interface {
	Profitability(sales []domain.EnrichedSale) []domain.ProductProfitability
	Profiles(sales []domain.EnrichedSale, reference time.Time) []domain.CustomerProfile
	DailySeries(sales []domain.EnrichedSale) []domain.DailyPoint
	MonthlyTrend(sales []domain.EnrichedSale) []domain.MonthlyTrend
	Outliers(sales []domain.EnrichedSale) []domain.OutlierSale
}

type Service struct{}

func NewService() Aggregator {
	return &Service{}
}

// Profitability agrega receita e estatísticas de preço por produto, em ordem
// decrescente de receita. A ordenação é estável para produtos empatados.
func (s *Service) Profitability(sales []domain.EnrichedSale) []domain.ProductProfitability {
	type acc struct {
		revenue  float64
		count    int
		max, min float64
	}

	byProduct := make(map[string]*acc)
	order := make([]string, 0)
	total := 0.0
	for _, sale := range sales {
		total += sale.Price
		a, ok := byProduct[sale.Product]
		if !ok {
			a = &acc{max: sale.Price, min: sale.Price}
			byProduct[sale.Product] = a
			order = append(order, sale.Product)
		}
		a.revenue += sale.Price
		a.count++
		if sale.Price > a.max {
			a.max = sale.Price
		}
		if sale.Price < a.min {
			a.min = sale.Price
		}
	}

	result := make([]domain.ProductProfitability, 0, len(byProduct))
	for _, product := range order {
		a := byProduct[product]
		row := domain.ProductProfitability{
			Product:      product,
			TotalRevenue: utils.RoundWithTwoDecimalPlace(a.revenue),
			TotalSales:   a.count,
			AvgPrice:     utils.RoundWithTwoDecimalPlace(a.revenue / float64(a.count)),
			MaxPrice:     a.max,
			MinPrice:     a.min,
		}
		if total > 0 {
			row.RevenueShare = utils.RoundWithTwoDecimalPlace(a.revenue / total * 100)
		}
		result = append(result, row)
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].TotalRevenue > result[j].TotalRevenue
	})

	return result
}

// Profiles agrega o comportamento de compra por cliente em relação ao
// instante de referência. Clientes sem vendas não aparecem.
func (s *Service) Profiles(sales []domain.EnrichedSale, reference time.Time) []domain.CustomerProfile {
	type acc struct {
		segment, city string
		total, max    float64
		count         int
		encodedSum    int
		first, last   time.Time
	}

	byCustomer := make(map[int64]*acc)
	for _, sale := range sales {
		a, ok := byCustomer[sale.CustomerID]
		if !ok {
			a = &acc{
				segment: sale.Segment,
				city:    sale.City,
				max:     sale.Price,
				first:   sale.SoldAt,
				last:    sale.SoldAt,
			}
			byCustomer[sale.CustomerID] = a
		}
		a.total += sale.Price
		a.count++
		a.encodedSum += sale.ProductEncoded
		if sale.Price > a.max {
			a.max = sale.Price
		}
		if sale.SoldAt.Before(a.first) {
			a.first = sale.SoldAt
		}
		if sale.SoldAt.After(a.last) {
			a.last = sale.SoldAt
		}
	}

	maxPurchases := 0
	for _, a := range byCustomer {
		if a.count > maxPurchases {
			maxPurchases = a.count
		}
	}

	profiles := make([]domain.CustomerProfile, 0, len(byCustomer))
	for id, a := range byCustomer {
		intervals := a.count - 1
		if intervals < 1 {
			intervals = 1
		}

		profiles = append(profiles, domain.CustomerProfile{
			CustomerID:      id,
			Segment:         a.segment,
			City:            a.city,
			TotalSpent:      utils.RoundWithTwoDecimalPlace(a.total),
			AvgSpent:        utils.RoundWithTwoDecimalPlace(a.total / float64(a.count)),
			MaxSpent:        a.max,
			NumSales:        a.count,
			FavoriteProduct: utils.RoundWithTwoDecimalPlace(float64(a.encodedSum) / float64(a.count)),
			LastMonth:       int(a.last.Month()),
			DaysBetween:     utils.RoundWithTwoDecimalPlace(float64(utils.DaysBetween(a.first, a.last)) / float64(intervals)),
			DaysSinceLast:   utils.DaysBetween(a.last, reference),
			RecurrenceProb:  utils.RoundWithTwoDecimalPlace(float64(a.count) / float64(maxPurchases)),
		})
	}

	sort.Slice(profiles, func(i, j int) bool {
		return profiles[i].CustomerID < profiles[j].CustomerID
	})

	return profiles
}

// DailySeries agrega as vendas por dia calendário (UTC). Só dias com pelo
// menos uma venda aparecem; o produto e o segmento mais frequentes do dia
// desempatam por ordem lexicográfica.
func (s *Service) DailySeries(sales []domain.EnrichedSale) []domain.DailyPoint {
	type acc struct {
		revenue  float64
		count    int
		products map[string]int
		segments map[string]int
	}

	byDay := make(map[time.Time]*acc)
	for _, sale := range sales {
		day := utils.DateOnly(sale.SoldAt)
		a, ok := byDay[day]
		if !ok {
			a = &acc{products: make(map[string]int), segments: make(map[string]int)}
			byDay[day] = a
		}
		a.revenue += sale.Price
		a.count++
		a.products[sale.Product]++
		a.segments[sale.Segment]++
	}

	days := make([]time.Time, 0, len(byDay))
	for day := range byDay {
		days = append(days, day)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })

	series := make([]domain.DailyPoint, 0, len(days))
	for _, day := range days {
		a := byDay[day]
		series = append(series, domain.DailyPoint{
			Date:       day,
			Revenue:    utils.RoundWithTwoDecimalPlace(a.revenue),
			NumSales:   a.count,
			AvgPrice:   utils.RoundWithTwoDecimalPlace(a.revenue / float64(a.count)),
			TopProduct: mostFrequent(a.products),
			TopSegment: mostFrequent(a.segments),
		})
	}

	return series
}

// MonthlyTrend agrega receita e quantidade de vendas por mês, em ordem
// cronológica.
func (s *Service) MonthlyTrend(sales []domain.EnrichedSale) []domain.MonthlyTrend {
	type acc struct {
		revenue float64
		count   int
	}

	byMonth := make(map[string]*acc)
	for _, sale := range sales {
		key := utils.MonthKey(sale.SoldAt)
		a, ok := byMonth[key]
		if !ok {
			a = &acc{}
			byMonth[key] = a
		}
		a.revenue += sale.Price
		a.count++
	}

	months := make([]string, 0, len(byMonth))
	for month := range byMonth {
		months = append(months, month)
	}
	sort.Strings(months)

	trend := make([]domain.MonthlyTrend, 0, len(months))
	for _, month := range months {
		a := byMonth[month]
		trend = append(trend, domain.MonthlyTrend{
			Month:    month,
			Revenue:  utils.RoundWithTwoDecimalPlace(a.revenue),
			NumSales: a.count,
		})
	}

	return trend
}

// Outliers detecta vendas com preço fora do intervalo interquartil
// [Q1 - 1.5*IQR, Q3 + 1.5*IQR], preservando a ordem de entrada.
func (s *Service) Outliers(sales []domain.EnrichedSale) []domain.OutlierSale {
	if len(sales) == 0 {
		return nil
	}

	prices := make([]float64, len(sales))
	for i, sale := range sales {
		prices[i] = sale.Price
	}

	q1 := utils.Percentile(prices, 25)
	q3 := utils.Percentile(prices, 75)
	iqr := q3 - q1
	lower := q1 - iqrFactor*iqr
	upper := q3 + iqrFactor*iqr

	outliers := make([]domain.OutlierSale, 0)
	for _, sale := range sales {
		if sale.Price < lower || sale.Price > upper {
			outliers = append(outliers, domain.OutlierSale{
				Sale:       sale.Sale,
				LowerBound: utils.RoundWithTwoDecimalPlace(lower),
				UpperBound: utils.RoundWithTwoDecimalPlace(upper),
			})
		}
	}

	return outliers
}

// mostFrequent devolve a chave mais frequente; empates são resolvidos por
// ordem lexicográfica.
func mostFrequent(counts map[string]int) string {
	best := ""
	bestCount := -1
	for key, count := range counts {
		if count > bestCount || (count == bestCount && key < best) {
			best = key
			bestCount = count
		}
	}
	return best
}
