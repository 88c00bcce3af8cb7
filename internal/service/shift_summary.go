package service

import (
	"time"

	"go-retail-pos/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const moneyPlaces = 2

type HourlyBucket struct {
	Hour         int             `json:"hour"`
	Transactions int             `json:"transactions"`
	Sales        decimal.Decimal `json:"sales"`
}

type ShiftSummary struct {
	ShiftID     uuid.UUID         `json:"shift_id"`
	EmployeeID  uuid.UUID         `json:"employee_id"`
	Status      model.ShiftStatus `json:"status"`
	WindowStart time.Time         `json:"window_start"`
	WindowEnd   time.Time         `json:"window_end"`

	OpeningBalance decimal.Decimal `json:"opening_balance"`
	CashInjections decimal.Decimal `json:"cash_injections"`
	TotalSales     decimal.Decimal `json:"total_sales"`
	TotalRefunds   decimal.Decimal `json:"total_refunds"`
	TotalVoids     decimal.Decimal `json:"total_voids"`
	CashCollected  decimal.Decimal `json:"cash_collected"`
	CardTotal      decimal.Decimal `json:"card_total"`
	OtherTenders   decimal.Decimal `json:"other_tenders"`
	ExpectedCash   decimal.Decimal `json:"expected_cash"`
	AverageSale    decimal.Decimal `json:"average_sale"`

	SaleCount        int             `json:"sale_count"`
	RefundCount      int             `json:"refund_count"`
	VoidCount        int             `json:"void_count"`
	StoreCreditCount int             `json:"store_credit_count"`
	StoreCreditTotal decimal.Decimal `json:"store_credit_total"`

	ClosingBalance decimal.NullDecimal `json:"closing_balance"`
	Variance       decimal.NullDecimal `json:"variance"`

	Hourly [24]HourlyBucket `json:"hourly"`
}

// SummarizeShift reconciles a shift from already-fetched rows. Transactions outside the
// shift or its [start, end∨now] window are ignored, whatever the caller passes in.
// Store credits count when the shift's employee issued them inside the window, or when
// they are linked to one of the shift's transactions. Hours are taken in loc and merge calendar days.
func SummarizeShift(shift *model.Shift, txs []model.Transaction, credits []model.StoreCredit, loc *time.Location, now time.Time) ShiftSummary {
	if loc == nil {
		loc = time.UTC
	}
	start, end := shift.StartTime, shift.WindowEnd(now)

	sum := ShiftSummary{
		ShiftID:        shift.ID,
		EmployeeID:     shift.EmployeeID,
		Status:         shift.Status,
		WindowStart:    start,
		WindowEnd:      end,
		OpeningBalance: shift.OpeningBalance,
		CashInjections: shift.CashInjections,
		ClosingBalance: shift.ClosingBalance,
	}
	for h := range sum.Hourly {
		sum.Hourly[h].Hour = h
	}

	included := make(map[uuid.UUID]struct{}, len(txs))
	for i := range txs {
		t := &txs[i]
		if t.ShiftID != shift.ID || !model.InWindow(t.CreatedAt, start, end) {
			continue
		}
		included[t.ID] = struct{}{}

		bucket := &sum.Hourly[t.CreatedAt.In(loc).Hour()]
		bucket.Transactions++

		switch {
		case t.IsVoided():
			sum.VoidCount++
			sum.TotalVoids = sum.TotalVoids.Add(t.Total.Abs())
		case t.Type == model.TxRefund:
			sum.RefundCount++
			sum.TotalRefunds = sum.TotalRefunds.Add(t.Total.Abs())
		case t.Type == model.TxSale:
			sum.SaleCount++
			sum.TotalSales = sum.TotalSales.Add(t.Total)
			bucket.Sales = bucket.Sales.Add(t.Total)

			switch t.PaymentMethod {
			case model.PayCash:
				sum.CashCollected = sum.CashCollected.Add(cashImpact(t))
			case model.PayCard:
				sum.CardTotal = sum.CardTotal.Add(t.Total)
			default:
				sum.OtherTenders = sum.OtherTenders.Add(t.Total)
			}
		}
	}

	for i := range credits {
		c := &credits[i]
		linked := false
		if c.TransactionID != nil {
			_, linked = included[*c.TransactionID]
		}
		if !linked && (c.IssuedByEmployeeID != shift.EmployeeID || !model.InWindow(c.CreatedAt, start, end)) {
			continue
		}
		sum.StoreCreditCount++
		sum.StoreCreditTotal = sum.StoreCreditTotal.Add(c.Amount)
	}

	if sum.SaleCount > 0 {
		sum.AverageSale = sum.TotalSales.Div(decimal.NewFromInt(int64(sum.SaleCount)))
	}

	sum.round()
	return sum
}

// ExpectedCash is what the drawer should hold: opening float, cash taken, and injections.
// Card and other tenders never reach the drawer.
func ExpectedCash(opening, cashCollected, injections decimal.Decimal) decimal.Decimal {
	return opening.Add(cashCollected).Add(injections)
}

// cashImpact is tendered cash minus change returned, falling back to the total.
func cashImpact(t *model.Transaction) decimal.Decimal {
	given := t.Total
	if t.CashGiven.Valid {
		given = t.CashGiven.Decimal
	}
	if t.ChangeDue.Valid {
		given = given.Sub(t.ChangeDue.Decimal)
	}
	return given
}

func (s *ShiftSummary) round() {
	for _, d := range []*decimal.Decimal{
		&s.OpeningBalance, &s.CashInjections, &s.TotalSales, &s.TotalRefunds, &s.TotalVoids,
		&s.CashCollected, &s.CardTotal, &s.OtherTenders, &s.AverageSale, &s.StoreCreditTotal,
	} {
		*d = d.Round(moneyPlaces)
	}

	// Derived from the rounded parts so the reported figures add up exactly.
	s.ExpectedCash = ExpectedCash(s.OpeningBalance, s.CashCollected, s.CashInjections)
	if s.ClosingBalance.Valid {
		s.ClosingBalance.Decimal = s.ClosingBalance.Decimal.Round(moneyPlaces)
		s.Variance = decimal.NewNullDecimal(s.ClosingBalance.Decimal.Sub(s.ExpectedCash))
	}
	for h := range s.Hourly {
		s.Hourly[h].Sales = s.Hourly[h].Sales.Round(moneyPlaces)
	}
}
