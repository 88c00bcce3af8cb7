package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type TransactionType string

const (
	TxSale   TransactionType = "sale"
	TxRefund TransactionType = "refund"
	TxVoid   TransactionType = "void"
)

type TransactionStatus string

const (
	TxStatusCompleted TransactionStatus = "completed"
	TxStatusRefunded  TransactionStatus = "refunded"
	TxStatusDeleted   TransactionStatus = "deleted"
)

type PaymentMethod string

const (
	PayCash        PaymentMethod = "cash"
	PayCard        PaymentMethod = "card"
	PayGiftCard    PaymentMethod = "gift_card"
	PayStoreCredit PaymentMethod = "store_credit"
)

// Transaction is an immutable financial event. Only Status changes after creation.
// Totals are signed: refunds carry negative amounts.
type Transaction struct {
	LedgerModel
	CompanyID         uuid.UUID           `gorm:"type:uuid;not null;index;uniqueIndex:idx_tx_company_number" json:"company_id"`
	TransactionNumber string              `gorm:"type:varchar(32);not null;uniqueIndex:idx_tx_company_number" json:"transaction_number"`
	Type              TransactionType     `gorm:"type:varchar(10);not null" json:"type"`
	Status            TransactionStatus   `gorm:"type:varchar(12);not null;default:'completed'" json:"status"`
	Subtotal          decimal.Decimal     `gorm:"type:decimal(12,2);not null" json:"subtotal"`
	Tax               decimal.Decimal     `gorm:"type:decimal(12,2);not null" json:"tax"`
	Total             decimal.Decimal     `gorm:"type:decimal(12,2);not null" json:"total"`
	PaymentMethod     PaymentMethod       `gorm:"type:varchar(20);not null" json:"payment_method"`
	CashGiven         decimal.NullDecimal `gorm:"type:decimal(12,2)" json:"cash_given"`
	ChangeDue         decimal.NullDecimal `gorm:"type:decimal(12,2)" json:"change_due"`
	EmployeeID        uuid.UUID           `gorm:"type:uuid;not null;index" json:"employee_id"`
	ShiftID           uuid.UUID           `gorm:"type:uuid;not null;index" json:"shift_id"`
	CustomerID        *uuid.UUID          `gorm:"type:uuid;index" json:"customer_id,omitempty"`
	GiftCardCode      string              `gorm:"type:varchar(24)" json:"gift_card_code,omitempty"`
	PointsEarned      int64               `gorm:"not null" json:"points_earned"`

	// OriginalTransactionID links a refund to the sale it reverses.
	OriginalTransactionID *uuid.UUID `gorm:"type:uuid;index" json:"original_transaction_id,omitempty"`
	Reason                string     `gorm:"type:text" json:"reason,omitempty"`

	Lines    []TransactionLine `json:"lines,omitempty"`
	Employee *Employee         `json:"employee,omitempty"`
}

type TransactionLine struct {
	ID            uuid.UUID       `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	TransactionID uuid.UUID       `gorm:"type:uuid;not null;index" json:"transaction_id"`
	ItemID        uuid.UUID       `gorm:"type:uuid;not null;index" json:"item_id"`
	Name          string          `gorm:"type:varchar(255)" json:"name"`
	Quantity      int             `gorm:"not null" json:"quantity"`
	UnitPrice     decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"unit_price"`
	LineTotal     decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"line_total"`
	Taxable       bool            `json:"taxable"`
}

// IsVoided reports whether the transaction belongs to the void bucket of a reconciliation.
func (t *Transaction) IsVoided() bool {
	return t.Type == TxVoid || t.Status == TxStatusDeleted
}

// InWindow reports whether createdAt falls within [start, end] inclusive.
func InWindow(at, start, end time.Time) bool {
	return !at.Before(start) && !at.After(end)
}
