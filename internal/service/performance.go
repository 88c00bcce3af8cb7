package service

import (
	"sort"
	"strings"
	"time"

	"go-retail-pos/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

type EmployeePerformance struct {
	EmployeeID  uuid.UUID `json:"employee_id"`
	Name        string    `json:"name"`
	Barcode     string    `json:"barcode"`
	IsManager   bool      `json:"is_manager"`
	Participant bool      `json:"participant"`

	SaleCount        int             `json:"sale_count"`
	TotalSales       decimal.Decimal `json:"total_sales"`
	AverageSale      decimal.Decimal `json:"average_sale"`
	RefundCount      int             `json:"refund_count"`
	TotalRefunds     decimal.Decimal `json:"total_refunds"`
	RefundRate       decimal.Decimal `json:"refund_rate"`
	StoreCreditCount int             `json:"store_credit_count"`
	StoreCreditTotal decimal.Decimal `json:"store_credit_total"`
	StoreCreditRate  decimal.Decimal `json:"store_credit_rate"`

	SalesVsAverage           decimal.Decimal `json:"sales_vs_average"`
	RefundRateVsAverage      decimal.Decimal `json:"refund_rate_vs_average"`
	StoreCreditRateVsAverage decimal.Decimal `json:"store_credit_rate_vs_average"`
	AboveAverageSales        bool            `json:"above_average_sales"`
	AboveAverageRefundRate   bool            `json:"above_average_refund_rate"`
	AboveAverageCreditRate   bool            `json:"above_average_store_credit_rate"`
}

// PerformanceAverages are taken over non-manager participants only.
type PerformanceAverages struct {
	Employees       int             `json:"employees"`
	TotalSales      decimal.Decimal `json:"total_sales"`
	RefundRate      decimal.Decimal `json:"refund_rate"`
	StoreCreditRate decimal.Decimal `json:"store_credit_rate"`
}

type PerformanceReport struct {
	Employees []EmployeePerformance `json:"employees"`
	Averages  PerformanceAverages   `json:"averages"`
	Focus     *EmployeePerformance  `json:"focus,omitempty"`
	From      *time.Time            `json:"from,omitempty"`
	To        *time.Time            `json:"to,omitempty"`
}

// ComparePerformance builds per-employee metrics for active in-sales employees and
// annotates each against the non-manager averages. Store credits are attributed through
// the transaction that produced them. Results are ordered by total sales descending;
// ties keep name order, then id order. The focus employee is always reported, even when
// it does not take part in the comparison.
func ComparePerformance(employees []model.Employee, txs []model.Transaction, credits []model.StoreCredit, focusID uuid.UUID) PerformanceReport {
	ordered := make([]model.Employee, len(employees))
	copy(ordered, employees)
	sort.SliceStable(ordered, func(i, j int) bool {
		ni, nj := strings.ToLower(ordered[i].Name), strings.ToLower(ordered[j].Name)
		if ni != nj {
			return ni < nj
		}
		return ordered[i].ID.String() < ordered[j].ID.String()
	})

	stats := make(map[uuid.UUID]*EmployeePerformance)
	var rows []*EmployeePerformance
	for i := range ordered {
		e := &ordered[i]
		if !e.Participates() && e.ID != focusID {
			continue
		}
		p := &EmployeePerformance{
			EmployeeID:  e.ID,
			Name:        e.Name,
			Barcode:     e.Barcode,
			IsManager:   e.IsManager,
			Participant: e.Participates(),
		}
		stats[e.ID] = p
		rows = append(rows, p)
	}

	owner := make(map[uuid.UUID]uuid.UUID, len(txs))
	for i := range txs {
		t := &txs[i]
		if t.IsVoided() {
			continue
		}
		owner[t.ID] = t.EmployeeID
		p, ok := stats[t.EmployeeID]
		if !ok {
			continue
		}
		switch t.Type {
		case model.TxSale:
			p.SaleCount++
			p.TotalSales = p.TotalSales.Add(t.Total)
		case model.TxRefund:
			p.RefundCount++
			p.TotalRefunds = p.TotalRefunds.Add(t.Total.Abs())
		}
	}

	for i := range credits {
		c := &credits[i]
		if c.TransactionID == nil {
			continue
		}
		empID, ok := owner[*c.TransactionID]
		if !ok {
			continue
		}
		if p, ok := stats[empID]; ok {
			p.StoreCreditCount++
			p.StoreCreditTotal = p.StoreCreditTotal.Add(c.Amount)
		}
	}

	var avg PerformanceAverages
	for _, p := range rows {
		p.RefundRate = percentage(p.TotalRefunds, p.TotalSales)
		p.StoreCreditRate = percentage(decimal.NewFromInt(int64(p.StoreCreditCount)), decimal.NewFromInt(int64(p.SaleCount)))
		if p.SaleCount > 0 {
			p.AverageSale = p.TotalSales.Div(decimal.NewFromInt(int64(p.SaleCount)))
		}
		if p.Participant && !p.IsManager {
			avg.Employees++
			avg.TotalSales = avg.TotalSales.Add(p.TotalSales)
			avg.RefundRate = avg.RefundRate.Add(p.RefundRate)
			avg.StoreCreditRate = avg.StoreCreditRate.Add(p.StoreCreditRate)
		}
	}
	if avg.Employees > 0 {
		n := decimal.NewFromInt(int64(avg.Employees))
		avg.TotalSales = avg.TotalSales.Div(n)
		avg.RefundRate = avg.RefundRate.Div(n)
		avg.StoreCreditRate = avg.StoreCreditRate.Div(n)
	}

	report := PerformanceReport{Employees: make([]EmployeePerformance, 0, len(rows))}
	var focus *EmployeePerformance
	for _, p := range rows {
		p.SalesVsAverage = p.TotalSales.Sub(avg.TotalSales)
		p.RefundRateVsAverage = p.RefundRate.Sub(avg.RefundRate)
		p.StoreCreditRateVsAverage = p.StoreCreditRate.Sub(avg.StoreCreditRate)
		p.AboveAverageSales = p.TotalSales.GreaterThan(avg.TotalSales)
		p.AboveAverageRefundRate = p.RefundRate.GreaterThan(avg.RefundRate)
		p.AboveAverageCreditRate = p.StoreCreditRate.GreaterThan(avg.StoreCreditRate)
		p.round()

		if p.EmployeeID == focusID {
			focus = p
		}
		if p.Participant {
			report.Employees = append(report.Employees, *p)
		}
	}

	sort.SliceStable(report.Employees, func(i, j int) bool {
		return report.Employees[i].TotalSales.GreaterThan(report.Employees[j].TotalSales)
	})

	avg.TotalSales = avg.TotalSales.Round(moneyPlaces)
	avg.RefundRate = avg.RefundRate.Round(moneyPlaces)
	avg.StoreCreditRate = avg.StoreCreditRate.Round(moneyPlaces)
	report.Averages = avg

	if focus != nil {
		f := *focus
		report.Focus = &f
	}
	return report
}

// percentage is part/whole×100, or zero when whole is zero.
func percentage(part, whole decimal.Decimal) decimal.Decimal {
	if whole.IsZero() {
		return decimal.Zero
	}
	return part.Div(whole).Mul(hundred)
}

func (p *EmployeePerformance) round() {
	for _, d := range []*decimal.Decimal{
		&p.TotalSales, &p.AverageSale, &p.TotalRefunds, &p.RefundRate, &p.StoreCreditTotal,
		&p.StoreCreditRate, &p.SalesVsAverage, &p.RefundRateVsAverage, &p.StoreCreditRateVsAverage,
	} {
		*d = d.Round(moneyPlaces)
	}
}
