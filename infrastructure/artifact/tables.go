package artifact

import (
	"strconv"

	"github.com/avilchez/commerce-insights-api/internal/domain"
)

// dateTimeLayout é o formato canônico de instantes nos artefatos.
const dateTimeLayout = "2006-01-02 15:04:05"

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func formatInt(i int64) string {
	return strconv.FormatInt(i, 10)
}

// CustomersTable serializa a base de clientes no contrato do arquivo bruto.
func CustomersTable(customers []domain.Customer) *domain.Table {
	table := &domain.Table{
		Headers: []string{"cliente_id", "nombre", "ciudad", "tipo_cliente", "fecha_registro"},
	}
	for _, c := range customers {
		registered := ""
		if c.RegisteredAt != nil {
			registered = c.RegisteredAt.Format(dateTimeLayout)
		}
		table.Rows = append(table.Rows, []string{
			formatInt(c.ID), c.Name, c.City, c.Segment, registered,
		})
	}
	return table
}

// SalesTable serializa o histórico de vendas no contrato do arquivo bruto.
func SalesTable(sales []domain.Sale) *domain.Table {
	table := &domain.Table{
		Headers: []string{"venta_id", "cliente_id", "producto", "marca", "precio", "fecha_venta"},
	}
	for _, s := range sales {
		table.Rows = append(table.Rows, []string{
			formatInt(s.ID), formatInt(s.CustomerID), s.Product, s.Brand,
			formatFloat(s.Price), s.SoldAt.Format(dateTimeLayout),
		})
	}
	return table
}

// EnrichedSalesTable serializa as vendas enriquecidas com o join e as
// colunas derivadas.
func EnrichedSalesTable(sales []domain.EnrichedSale) *domain.Table {
	table := &domain.Table{
		Headers: []string{
			"venta_id", "cliente_id", "producto", "producto_encoded", "marca",
			"precio", "fecha_venta", "tipo_cliente", "ciudad", "gasto_promedio_48h",
		},
	}
	for _, s := range sales {
		table.Rows = append(table.Rows, []string{
			formatInt(s.ID), formatInt(s.CustomerID), s.Product,
			strconv.Itoa(s.ProductEncoded), s.Brand, formatFloat(s.Price),
			s.SoldAt.Format(dateTimeLayout), s.Segment, s.City,
			formatFloat(s.RollingAvg48h),
		})
	}
	return table
}

// EncodingTable serializa o mapeamento produto → índice para reuso em
// execuções futuras.
func EncodingTable(encoding *domain.ProductEncoding) *domain.Table {
	table := &domain.Table{Headers: []string{"producto", "codigo"}}
	for i, name := range encoding.Names() {
		table.Rows = append(table.Rows, []string{name, strconv.Itoa(i)})
	}
	return table
}

// EncodingFromTable restaura um encoding persistido por EncodingTable.
func EncodingFromTable(table *domain.Table) *domain.ProductEncoding {
	col := table.ColumnIndex("producto")
	names := make([]string, 0, len(table.Rows))
	for _, row := range table.Rows {
		names = append(names, table.Value(row, col))
	}
	return domain.RestoreProductEncoding(names)
}

// ProfitabilityTable serializa a rentabilidade por produto.
func ProfitabilityTable(rows []domain.ProductProfitability) *domain.Table {
	table := &domain.Table{
		Headers: []string{
			"producto", "total_ingresos", "total_ventas", "precio_promedio",
			"precio_maximo", "precio_minimo", "participacion",
		},
	}
	for _, r := range rows {
		table.Rows = append(table.Rows, []string{
			r.Product, formatFloat(r.TotalRevenue), strconv.Itoa(r.TotalSales),
			formatFloat(r.AvgPrice), formatFloat(r.MaxPrice),
			formatFloat(r.MinPrice), formatFloat(r.RevenueShare),
		})
	}
	return table
}

// ScoresTable serializa os clientes escorados por um classificador, no
// contrato histórico (só o conjunto de teste ou a população inteira,
// conforme a fatia recebida).
func ScoresTable(scores []domain.ScoredCustomer) *domain.Table {
	table := &domain.Table{
		Headers: []string{"cliente_id", "ciudad", "tipo_cliente", "total_gastado", "probabilidad", "held_out"},
	}
	for _, s := range scores {
		table.Rows = append(table.Rows, []string{
			formatInt(s.CustomerID), s.City, s.Segment,
			formatFloat(s.TotalSpent), formatFloat(s.Probability),
			strconv.FormatBool(s.HeldOut),
		})
	}
	return table
}

// OutliersTable serializa as vendas com preço fora do intervalo interquartil.
func OutliersTable(outliers []domain.OutlierSale) *domain.Table {
	table := &domain.Table{
		Headers: []string{"venta_id", "cliente_id", "producto", "precio", "fecha_venta", "limite_inferior", "limite_superior"},
	}
	for _, o := range outliers {
		table.Rows = append(table.Rows, []string{
			formatInt(o.ID), formatInt(o.CustomerID), o.Product,
			formatFloat(o.Price), o.SoldAt.Format(dateTimeLayout),
			formatFloat(o.LowerBound), formatFloat(o.UpperBound),
		})
	}
	return table
}

// RecommendationsTable serializa a recomendação por segmento.
func RecommendationsTable(recommendations []domain.Recommendation) *domain.Table {
	table := &domain.Table{Headers: []string{"tipo_cliente", "producto", "veces_comprado"}}
	for _, r := range recommendations {
		table.Rows = append(table.Rows, []string{r.Segment, r.Product, strconv.Itoa(r.TimesSold)})
	}
	return table
}

// TrendTable serializa a tendência mensal de receita.
func TrendTable(trend []domain.MonthlyTrend) *domain.Table {
	table := &domain.Table{Headers: []string{"mes", "ingresos", "ventas"}}
	for _, t := range trend {
		table.Rows = append(table.Rows, []string{t.Month, formatFloat(t.Revenue), strconv.Itoa(t.NumSales)})
	}
	return table
}

// ForecastTable serializa a previsão do próximo período (sempre uma linha).
func ForecastTable(forecast *domain.ForecastResult) *domain.Table {
	return &domain.Table{
		Headers: []string{"ingreso_estimado", "producto_mas_vendido", "tipo_cliente_activo", "accuracy_producto", "accuracy_tipo"},
		Rows: [][]string{{
			formatFloat(forecast.Revenue), forecast.TopProduct, forecast.TopSegment,
			formatFloat(forecast.ProductAccuracy), formatFloat(forecast.SegmentAccuracy),
		}},
	}
}
