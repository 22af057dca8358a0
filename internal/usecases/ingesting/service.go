// Package ingesting valida e normaliza as tabelas brutas de clientes e
// vendas. Colunas extras são ignoradas; colunas obrigatórias ausentes
// rejeitam o lote inteiro antes de qualquer escrita.
package ingesting

import (
	"strconv"

	"github.com/sirupsen/logrus"

	"github.com/avilchez/commerce-insights-api/internal/domain"
	"github.com/avilchez/commerce-insights-api/pkg/utils"
)

// Colunas mínimas exigidas por tabela. Lista explícita e versionável:
// qualquer coluna além destas é aceita e ignorada.
var (
	requiredCustomerColumns = []string{"cliente_id"}
	requiredSaleColumns     = []string{"cliente_id", "producto", "precio", "fecha_venta"}
)

// NormalizedBatch é o resultado da normalização das duas tabelas de entrada.
type NormalizedBatch struct {
	Customers []domain.Customer
	Sales     []domain.Sale
	// DroppedSales conta as linhas de venda descartadas por valores não
	// parseáveis (data ou preço).
	DroppedSales int
}

type Ingester interface {
	Normalize(clientes, ventas *domain.Table) (*NormalizedBatch, error)
}

type Service struct{}

func NewService() Ingester {
	return &Service{}
}

// Normalize valida as colunas obrigatórias das duas tabelas de uma vez e
// converte as linhas para os tipos do domínio. A operação é pura: nenhum
// artefato é escrito aqui.
func (s *Service) Normalize(clientes, ventas *domain.Table) (*NormalizedBatch, error) {
	if err := validateColumns(clientes, ventas); err != nil {
		return nil, err
	}

	customers := parseCustomers(clientes)
	sales, dropped := parseSales(ventas)

	logrus.WithFields(logrus.Fields{
		"clientes":           len(customers),
		"ventas":             len(sales),
		"ventas_descartadas": dropped,
	}).Info("Tabelas de entrada normalizadas")

	return &NormalizedBatch{
		Customers:    customers,
		Sales:        sales,
		DroppedSales: dropped,
	}, nil
}

// validateColumns acumula todas as colunas ausentes das duas tabelas num
// único erro de validação.
func validateColumns(clientes, ventas *domain.Table) error {
	missing := make(map[string][]string)

	for _, col := range requiredCustomerColumns {
		if clientes.ColumnIndex(col) < 0 {
			missing["clientes"] = append(missing["clientes"], col)
		}
	}
	for _, col := range requiredSaleColumns {
		if ventas.ColumnIndex(col) < 0 {
			missing["ventas"] = append(missing["ventas"], col)
		}
	}

	if len(missing) > 0 {
		return &domain.ValidationError{MissingColumns: missing}
	}
	return nil
}

func parseCustomers(t *domain.Table) []domain.Customer {
	idCol := t.ColumnIndex("cliente_id")
	nameCol := t.ColumnIndex("nombre")
	cityCol := t.ColumnIndex("ciudad")
	segmentCol := t.ColumnIndex("tipo_cliente")
	registeredCol := t.ColumnIndex("fecha_registro")

	customers := make([]domain.Customer, 0, len(t.Rows))
	for rowNum, row := range t.Rows {
		id, err := strconv.ParseInt(t.Value(row, idCol), 10, 64)
		if err != nil {
			logrus.WithError(&domain.ParseError{
				Table: "clientes", Row: rowNum, Field: "cliente_id",
				Value: t.Value(row, idCol), Err: err,
			}).Warn("Linha de cliente descartada")
			continue
		}

		customer := domain.Customer{
			ID:      id,
			Name:    t.Value(row, nameCol),
			City:    t.Value(row, cityCol),
			Segment: t.Value(row, segmentCol),
		}
		if customer.Segment == "" {
			customer.Segment = domain.SegmentParticular
		}

		if registered := t.Value(row, registeredCol); registered != "" {
			if date, err := utils.ParseDate(registered); err == nil {
				customer.RegisteredAt = &date
			}
		}

		customers = append(customers, customer)
	}

	return customers
}

func parseSales(t *domain.Table) (sales []domain.Sale, dropped int) {
	idCol := t.ColumnIndex("venta_id")
	customerCol := t.ColumnIndex("cliente_id")
	productCol := t.ColumnIndex("producto")
	brandCol := t.ColumnIndex("marca")
	priceCol := t.ColumnIndex("precio")
	dateCol := t.ColumnIndex("fecha_venta")

	sales = make([]domain.Sale, 0, len(t.Rows))
	for rowNum, row := range t.Rows {
		soldAt, err := utils.ParseDate(t.Value(row, dateCol))
		if err != nil {
			dropped++
			logrus.WithError(&domain.ParseError{
				Table: "ventas", Row: rowNum, Field: "fecha_venta",
				Value: t.Value(row, dateCol), Err: err,
			}).Warn("Linha de venda descartada")
			continue
		}

		price, err := strconv.ParseFloat(t.Value(row, priceCol), 64)
		if err != nil {
			dropped++
			logrus.WithError(&domain.ParseError{
				Table: "ventas", Row: rowNum, Field: "precio",
				Value: t.Value(row, priceCol), Err: err,
			}).Warn("Linha de venda descartada")
			continue
		}

		customerID, err := strconv.ParseInt(t.Value(row, customerCol), 10, 64)
		if err != nil {
			// Venda sem cliente identificável ainda conta para a receita;
			// o join usa o segmento padrão.
			customerID = 0
		}

		// venta_id é sintetizado a partir da ordem quando a coluna não existe
		saleID := int64(rowNum + 1)
		if raw := t.Value(row, idCol); raw != "" {
			if parsed, err := strconv.ParseInt(raw, 10, 64); err == nil {
				saleID = parsed
			}
		}

		sales = append(sales, domain.Sale{
			ID:         saleID,
			CustomerID: customerID,
			Product:    t.Value(row, productCol),
			Brand:      t.Value(row, brandCol),
			Price:      price,
			SoldAt:     soldAt,
		})
	}

	return sales, dropped
}
