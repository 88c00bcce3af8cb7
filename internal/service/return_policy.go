package service

import (
	"time"

	"go-retail-pos/internal/model"
)

type ReturnSource string

const (
	SourceItem     ReturnSource = "item"
	SourceCategory ReturnSource = "category"
	SourceCompany  ReturnSource = "company"
)

// ReturnEligibility is the answer to "can this be returned, and within how many days".
type ReturnEligibility struct {
	Allowed             bool         `json:"allowed"`
	Reason              string       `json:"reason,omitempty"`
	EffectivePeriodDays *int         `json:"effective_period_days,omitempty"`
	Source              ReturnSource `json:"source,omitempty"`
	DaysSincePurchase   *int         `json:"days_since_purchase,omitempty"`
	MaxDays             *int         `json:"max_days,omitempty"`
}

const (
	reasonNotEligible = "not eligible"
	reasonExpired     = "return period has expired"
	reasonNoReturns   = "item is not returnable"
)

// TransactionEligibility checks a past sale against the company return window.
// A nil transaction, a non-sale or a refunded/deleted sale is never eligible.
func TransactionEligibility(t *model.Transaction, companyDefault int, now time.Time) ReturnEligibility {
	if t == nil || t.Type != model.TxSale ||
		t.Status == model.TxStatusRefunded || t.Status == model.TxStatusDeleted {
		return ReturnEligibility{Reason: reasonNotEligible}
	}

	age := int(now.Sub(t.CreatedAt) / (24 * time.Hour))
	if age < 0 {
		age = 0
	}
	maxDays := companyDefault
	res := ReturnEligibility{
		Allowed:             age <= maxDays,
		EffectivePeriodDays: &maxDays,
		Source:              SourceCompany,
		DaysSincePurchase:   &age,
		MaxDays:             &maxDays,
	}
	if !res.Allowed {
		res.Reason = reasonExpired
	}
	return res
}

// ItemEligibility resolves the return period for an item: item override first,
// then its category, then the company default.
func ItemEligibility(item *model.Item, category *model.Category, companyDefault int) ReturnEligibility {
	if item == nil {
		return ReturnEligibility{Reason: reasonNotEligible}
	}
	if item.NoReturns {
		return ReturnEligibility{Reason: reasonNoReturns, Source: SourceItem}
	}

	var period int
	var source ReturnSource
	switch {
	case item.ReturnPeriodDays != nil:
		period, source = *item.ReturnPeriodDays, SourceItem
	case category != nil && category.NoReturns:
		return ReturnEligibility{Reason: reasonNoReturns, Source: SourceCategory}
	case category != nil && category.ReturnPeriodDays != nil:
		period, source = *category.ReturnPeriodDays, SourceCategory
	default:
		period, source = companyDefault, SourceCompany
	}

	return ReturnEligibility{
		Allowed:             true,
		EffectivePeriodDays: &period,
		Source:              source,
	}
}
