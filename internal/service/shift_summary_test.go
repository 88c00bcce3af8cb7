package service

import (
	"testing"
	"time"

	"go-retail-pos/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type shiftFixture struct {
	shift *model.Shift
	txs   []model.Transaction
}

func newShiftFixture(start time.Time, end *time.Time) *shiftFixture {
	s := &model.Shift{
		EmployeeID:     uuid.New(),
		StartTime:      start,
		EndTime:        end,
		OpeningBalance: dec("100"),
		Status:         model.ShiftOpen,
	}
	s.ID = uuid.New()
	if end != nil {
		s.Status = model.ShiftClosed
	}
	return &shiftFixture{shift: s}
}

func (f *shiftFixture) add(typ model.TransactionType, pay model.PaymentMethod, total string, at time.Time) *model.Transaction {
	t := model.Transaction{
		Type:          typ,
		Status:        model.TxStatusCompleted,
		PaymentMethod: pay,
		Total:         dec(total),
		EmployeeID:    f.shift.EmployeeID,
		ShiftID:       f.shift.ID,
	}
	t.ID = uuid.New()
	t.CreatedAt = at
	f.txs = append(f.txs, t)
	return &f.txs[len(f.txs)-1]
}

func TestSummarizeShiftTotals(t *testing.T) {
	start := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	end := start.Add(8 * time.Hour)
	f := newShiftFixture(start, &end)
	f.shift.CashInjections = dec("50")
	f.shift.ClosingBalance = decimal.NewNullDecimal(dec("190"))

	cash := f.add(model.TxSale, model.PayCash, "30", start.Add(time.Hour))
	cash.CashGiven = decimal.NewNullDecimal(dec("50"))
	cash.ChangeDue = decimal.NewNullDecimal(dec("20"))
	f.add(model.TxSale, model.PayCash, "12.50", start.Add(2*time.Hour))
	f.add(model.TxSale, model.PayCard, "40", start.Add(3*time.Hour))
	f.add(model.TxSale, model.PayGiftCard, "10", start.Add(3*time.Hour))
	f.add(model.TxRefund, model.PayCash, "-12.50", start.Add(4*time.Hour))
	voided := f.add(model.TxSale, model.PayCash, "99", start.Add(5*time.Hour))
	voided.Status = model.TxStatusDeleted

	sum := SummarizeShift(f.shift, f.txs, nil, time.UTC, end)

	assert.Equal(t, 4, sum.SaleCount)
	assert.Equal(t, 1, sum.RefundCount)
	assert.Equal(t, 1, sum.VoidCount)
	assertDec(t, "92.50", sum.TotalSales)
	assertDec(t, "12.50", sum.TotalRefunds)
	assertDec(t, "99", sum.TotalVoids)
	assertDec(t, "42.50", sum.CashCollected)
	assertDec(t, "40", sum.CardTotal)
	assertDec(t, "10", sum.OtherTenders)
	assertDec(t, "23.13", sum.AverageSale)

	// opening + cash + injections, card and other tenders excluded
	assertDec(t, "192.50", sum.ExpectedCash)
	require.True(t, sum.Variance.Valid)
	assertDec(t, "-2.50", sum.Variance.Decimal)
}

func TestSummarizeShiftExpectedCashIdentity(t *testing.T) {
	start := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	f := newShiftFixture(start, nil)
	f.shift.OpeningBalance = dec("100.004")
	f.shift.CashInjections = dec("0.333")
	f.add(model.TxSale, model.PayCash, "10.005", start.Add(time.Minute))
	f.add(model.TxSale, model.PayCash, "0.001", start.Add(2*time.Minute))

	sum := SummarizeShift(f.shift, f.txs, nil, time.UTC, start.Add(time.Hour))

	assert.True(t, sum.ExpectedCash.Equal(sum.OpeningBalance.Add(sum.CashCollected).Add(sum.CashInjections)))
	assert.Equal(t, int32(-2), sum.ExpectedCash.Exponent())
	assert.False(t, sum.Variance.Valid, "open shift has no count-up yet")
}

func TestSummarizeShiftIgnoresRowsOutsideShift(t *testing.T) {
	start := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	end := start.Add(time.Hour)
	f := newShiftFixture(start, &end)

	f.add(model.TxSale, model.PayCash, "10", start)
	f.add(model.TxSale, model.PayCash, "10", end)
	f.add(model.TxSale, model.PayCash, "10", end.Add(time.Second))
	other := f.add(model.TxSale, model.PayCash, "10", start.Add(time.Minute))
	other.ShiftID = uuid.New()

	sum := SummarizeShift(f.shift, f.txs, nil, time.UTC, end.Add(time.Hour))
	assert.Equal(t, 2, sum.SaleCount, "window is inclusive at both ends")
	assertDec(t, "20", sum.TotalSales)
}

func TestSummarizeShiftStoreCreditAttribution(t *testing.T) {
	start := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	end := start.Add(8 * time.Hour)
	f := newShiftFixture(start, &end)
	refund := f.add(model.TxRefund, model.PayStoreCredit, "-15", start.Add(time.Hour))

	credit := func(amount string, at time.Time, issuer uuid.UUID, txID *uuid.UUID) model.StoreCredit {
		c := model.StoreCredit{Amount: dec(amount), IssuedByEmployeeID: issuer, TransactionID: txID}
		c.ID = uuid.New()
		c.CreatedAt = at
		return c
	}
	emp := f.shift.EmployeeID
	credits := []model.StoreCredit{
		credit("15", start.Add(time.Hour), emp, &refund.ID),      // linked
		credit("5", end, emp, nil),                               // issued at close, inclusive
		credit("7", end.Add(time.Millisecond), emp, nil),         // persisted after close
		credit("9", start.Add(time.Hour), uuid.New(), nil),       // another employee
		credit("11", end.Add(time.Hour), uuid.New(), &refund.ID), // linked wins over time
	}

	sum := SummarizeShift(f.shift, f.txs, credits, time.UTC, end)
	assert.Equal(t, 3, sum.StoreCreditCount)
	assertDec(t, "31", sum.StoreCreditTotal)
}

func TestSummarizeShiftHourlyMergesAcrossMidnight(t *testing.T) {
	start := time.Date(2024, 5, 1, 22, 0, 0, 0, time.UTC)
	end := start.Add(26 * time.Hour)
	f := newShiftFixture(start, &end)

	f.add(model.TxSale, model.PayCash, "10", start.Add(30*time.Minute))                // day 1, 22h
	f.add(model.TxSale, model.PayCard, "5", start.Add(24*time.Hour+10*time.Minute))    // day 2, 22h
	f.add(model.TxRefund, model.PayCash, "-5", start.Add(24*time.Hour+20*time.Minute)) // day 2, 22h
	f.add(model.TxSale, model.PayCash, "7", start.Add(3*time.Hour))                    // 01h

	sum := SummarizeShift(f.shift, f.txs, nil, time.UTC, end)

	assert.Equal(t, 22, sum.Hourly[22].Hour)
	assert.Equal(t, 3, sum.Hourly[22].Transactions)
	assertDec(t, "15", sum.Hourly[22].Sales)
	assert.Equal(t, 1, sum.Hourly[1].Transactions)
	assert.Equal(t, 0, sum.Hourly[12].Transactions)
}

func TestSummarizeShiftHourlyUsesLocation(t *testing.T) {
	loc := time.FixedZone("UTC+7", 7*3600)
	start := time.Date(2024, 5, 1, 1, 0, 0, 0, time.UTC)
	f := newShiftFixture(start, nil)
	f.add(model.TxSale, model.PayCash, "10", start.Add(time.Minute))

	sum := SummarizeShift(f.shift, f.txs, nil, loc, start.Add(time.Hour))
	assert.Equal(t, 1, sum.Hourly[8].Transactions)
	assert.Equal(t, 0, sum.Hourly[1].Transactions)
}

func TestSummarizeShiftVoidBucket(t *testing.T) {
	start := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	f := newShiftFixture(start, nil)
	f.add(model.TxVoid, model.PayCash, "-8", start.Add(time.Minute))
	deleted := f.add(model.TxSale, model.PayCard, "4", start.Add(2*time.Minute))
	deleted.Status = model.TxStatusDeleted

	sum := SummarizeShift(f.shift, f.txs, nil, time.UTC, start.Add(time.Hour))
	assert.Equal(t, 2, sum.VoidCount)
	assertDec(t, "12", sum.TotalVoids)
	assert.Zero(t, sum.SaleCount)
	assertDec(t, "0", sum.CardTotal)
	assertDec(t, "100", sum.ExpectedCash)
}
