package service

import (
	"context"
	"fmt"
	"time"

	"go-retail-pos/internal/model"
	"go-retail-pos/internal/repository"
	"go-retail-pos/pkg/codegen"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type SaleService interface {
	CreateSale(ctx context.Context, companyID, employeeID uuid.UUID, req *CreateSaleRequest) (*model.Transaction, error)
	RefundSale(ctx context.Context, companyID, transactionID, employeeID uuid.UUID, req *RefundRequest) (*RefundResult, error)
	VoidSale(ctx context.Context, companyID, transactionID, employeeID uuid.UUID) (*VoidResult, error)
	GetTransaction(companyID, id uuid.UUID) (*model.Transaction, error)
	ListTransactions(companyID uuid.UUID, filter repository.TransactionFilter) ([]model.Transaction, error)
}

type SaleLineRequest struct {
	ItemID   uuid.UUID `json:"item_id" validate:"uuid_required"`
	Quantity int       `json:"quantity" validate:"gt=0"`
}

type CreateSaleRequest struct {
	Lines              []SaleLineRequest   `json:"lines" validate:"required,min=1,dive"`
	PaymentMethod      model.PaymentMethod `json:"payment_method" validate:"required,oneof=cash card gift_card store_credit"`
	CashGiven          *decimal.Decimal    `json:"cash_given"`
	GiftCardCode       string              `json:"gift_card_code" validate:"required_if=PaymentMethod gift_card"`
	StoreCreditBarcode string              `json:"store_credit_barcode" validate:"required_if=PaymentMethod store_credit"`
	CustomerID         *uuid.UUID          `json:"customer_id"`
}

type RefundRequest struct {
	RefundMethod model.PaymentMethod `json:"refund_method" validate:"required,oneof=cash card store_credit"`
	AuthorizedBy *uuid.UUID          `json:"authorized_by"`
	Reason       string              `json:"reason" validate:"max=500"`
}

type RefundResult struct {
	Refund      *model.Transaction `json:"refund"`
	StoreCredit *model.StoreCredit `json:"store_credit,omitempty"`
}

// VoidResult carries the voided sale and, for store-credit sales, the credit
// reissued to the customer.
type VoidResult struct {
	Sale        *model.Transaction `json:"sale"`
	StoreCredit *model.StoreCredit `json:"store_credit,omitempty"`
}

type saleService struct {
	db           TxRunner
	txRepo       repository.TransactionRepository
	itemRepo     repository.ItemRepository
	shiftRepo    repository.ShiftRepository
	employeeRepo repository.EmployeeRepository
	companyRepo  repository.CompanyRepository
	creditRepo   repository.StoreCreditRepository
	giftCardRepo repository.GiftCardRepository
	customerRepo repository.CustomerRepository
	reports      ReportService
	notifier     Notifier
	codes        codegen.Source
	now          clock
}

type SaleDeps struct {
	DB           TxRunner
	Transactions repository.TransactionRepository
	Items        repository.ItemRepository
	Shifts       repository.ShiftRepository
	Employees    repository.EmployeeRepository
	Companies    repository.CompanyRepository
	StoreCredits repository.StoreCreditRepository
	GiftCards    repository.GiftCardRepository
	Customers    repository.CustomerRepository
	Reports      ReportService
	Notifier     Notifier
}

func NewSaleService(d SaleDeps) SaleService {
	return &saleService{
		db:           d.DB,
		txRepo:       d.Transactions,
		itemRepo:     d.Items,
		shiftRepo:    d.Shifts,
		employeeRepo: d.Employees,
		companyRepo:  d.Companies,
		creditRepo:   d.StoreCredits,
		giftCardRepo: d.GiftCards,
		customerRepo: d.Customers,
		reports:      d.Reports,
		notifier:     d.Notifier,
		codes:        codegen.Default,
		now:          time.Now,
	}
}

func (s *saleService) CreateSale(ctx context.Context, companyID, employeeID uuid.UUID, req *CreateSaleRequest) (*model.Transaction, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	if req.PaymentMethod == model.PayCash && req.CashGiven == nil {
		return nil, errValidationf("cash_given is required for cash payments")
	}

	company, err := s.companyRepo.FindByID(companyID)
	if err != nil {
		return nil, lookupErr(err, ErrCompanyNotFound)
	}
	employee, shift, err := s.onShift(companyID, employeeID)
	if err != nil {
		return nil, err
	}
	if req.CustomerID != nil {
		if _, err := s.customerRepo.FindByID(companyID, *req.CustomerID); err != nil {
			return nil, lookupErr(err, ErrCustomerNotFound)
		}
	}

	number, err := s.transactionNumber(ctx, companyID)
	if err != nil {
		return nil, err
	}

	quantities := make(map[uuid.UUID]int, len(req.Lines))
	order := make([]uuid.UUID, 0, len(req.Lines))
	for _, l := range req.Lines {
		if _, seen := quantities[l.ItemID]; !seen {
			order = append(order, l.ItemID)
		}
		quantities[l.ItemID] += l.Quantity
	}

	sale := &model.Transaction{
		LedgerModel:       model.LedgerModel{ID: uuid.New()},
		CompanyID:         companyID,
		TransactionNumber: number,
		Type:              model.TxSale,
		Status:            model.TxStatusCompleted,
		PaymentMethod:     req.PaymentMethod,
		EmployeeID:        employeeID,
		ShiftID:           shift.ID,
		CustomerID:        req.CustomerID,
	}

	var remainder *model.StoreCredit
	err = s.db.Transaction(func(tx *gorm.DB) error {
		items, err := s.itemRepo.LockByIDs(tx, companyID, order)
		if err != nil {
			return err
		}
		byID := make(map[uuid.UUID]*model.Item, len(items))
		for i := range items {
			byID[items[i].ID] = &items[i]
		}

		lines := make([]model.TransactionLine, 0, len(order))
		for _, id := range order {
			item, ok := byID[id]
			if !ok {
				return ErrItemNotFound
			}
			qty := quantities[id]
			if item.Stock < qty {
				return fmt.Errorf("%w: %s has %d left", ErrInsufficientStock, item.SKU, item.Stock)
			}
			lines = append(lines, model.TransactionLine{
				ID:            uuid.New(),
				TransactionID: sale.ID,
				ItemID:        item.ID,
				Name:          item.Name,
				Quantity:      qty,
				UnitPrice:     item.Price,
				LineTotal:     item.Price.Mul(decimal.NewFromInt(int64(qty))),
				Taxable:       item.Taxable,
			})
		}
		sale.Lines = lines
		sale.Subtotal, sale.Tax, sale.Total = PriceLines(lines, company.TaxRatePercent)

		if req.PaymentMethod == model.PayCash {
			if req.CashGiven.LessThan(sale.Total) {
				return ErrInsufficientCash
			}
			sale.CashGiven = decimal.NewNullDecimal(*req.CashGiven)
			sale.ChangeDue = decimal.NewNullDecimal(req.CashGiven.Sub(sale.Total))
		}
		if req.PaymentMethod == model.PayGiftCard {
			sale.GiftCardCode = req.GiftCardCode
		}
		if req.CustomerID != nil {
			sale.PointsEarned = LoyaltyPoints(sale.Total, company.LoyaltyPointsPerUnit)
		}

		if err := s.txRepo.Create(tx, sale); err != nil {
			return writeErr(err, ErrTransactionNumTaken)
		}
		for _, l := range lines {
			if err := s.itemRepo.AdjustStock(tx, l.ItemID, -l.Quantity, employeeID.String()); err != nil {
				return err
			}
		}

		switch req.PaymentMethod {
		case model.PayGiftCard:
			ok, err := s.giftCardRepo.Debit(tx, companyID, req.GiftCardCode, sale.Total)
			if err != nil {
				return err
			}
			if !ok {
				return ErrGiftCardBalance
			}
		case model.PayStoreCredit:
			remainder, err = s.payWithStoreCredit(tx, sale, req.StoreCreditBarcode)
			if err != nil {
				return err
			}
		}

		if req.CustomerID != nil && sale.PointsEarned > 0 {
			if err := s.customerRepo.AddPoints(tx, companyID, *req.CustomerID, sale.PointsEarned); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sale.Employee = employee

	s.invalidateReports(ctx, companyID)
	payload := map[string]interface{}{
		"type":               "sale_update",
		"action":             "sale_created",
		"transaction_id":     sale.ID,
		"transaction_number": sale.TransactionNumber,
		"total":              sale.Total,
		"payment_method":     sale.PaymentMethod,
		"employee_id":        employeeID,
		"employee":           employee.Name,
		"message":            fmt.Sprintf("%s completed sale %s", employee.Name, sale.TransactionNumber),
	}
	if remainder != nil {
		payload["store_credit_remainder"] = remainder.Barcode
	}
	publish(s.notifier, companyID, payload)
	s.publishStock(companyID, sale.Lines, -1, employee.Name)

	return sale, nil
}

// payWithStoreCredit redeems the credit for the sale and reissues any unspent amount
// as a new credit linked to the sale.
func (s *saleService) payWithStoreCredit(tx *gorm.DB, sale *model.Transaction, barcode string) (*model.StoreCredit, error) {
	credit, err := s.creditRepo.FindByBarcode(sale.CompanyID, barcode)
	if err != nil {
		return nil, lookupErr(err, ErrStoreCreditNotFound)
	}
	if credit.IsUsed {
		return nil, ErrStoreCreditUsed
	}
	if credit.Amount.LessThan(sale.Total) {
		return nil, ErrInsufficientCredit
	}

	ok, err := s.creditRepo.Redeem(tx, sale.CompanyID, barcode, &sale.ID, s.now())
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrStoreCreditUsed
	}

	left := credit.Amount.Sub(sale.Total)
	if !left.IsPositive() {
		return nil, nil
	}
	remainder := &model.StoreCredit{
		CompanyID:          sale.CompanyID,
		Barcode:            codegen.StoreCreditBarcode(s.codes, s.now()),
		Amount:             left,
		IssuedByEmployeeID: sale.EmployeeID,
		TransactionID:      &sale.ID,
	}
	if err := s.creditRepo.Create(tx, remainder); err != nil {
		return nil, writeErr(err, ErrBarcodeTaken)
	}
	return remainder, nil
}

func (s *saleService) RefundSale(ctx context.Context, companyID, transactionID, employeeID uuid.UUID, req *RefundRequest) (*RefundResult, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	company, err := s.companyRepo.FindByID(companyID)
	if err != nil {
		return nil, lookupErr(err, ErrCompanyNotFound)
	}
	original, err := s.txRepo.FindByID(companyID, transactionID)
	if err != nil {
		return nil, lookupErr(err, ErrTransactionNotFound)
	}
	elig := TransactionEligibility(original, company.DefaultReturnPeriod(), s.now())
	if !elig.Allowed {
		return nil, fmt.Errorf("%w (%s)", ErrNotEligible, elig.Reason)
	}

	employee, shift, err := s.onShift(companyID, employeeID)
	if err != nil {
		return nil, err
	}
	if req.AuthorizedBy != nil {
		if err := s.requireManager(companyID, *req.AuthorizedBy); err != nil {
			return nil, err
		}
	}

	number, err := s.transactionNumber(ctx, companyID)
	if err != nil {
		return nil, err
	}

	refund := &model.Transaction{
		LedgerModel:           model.LedgerModel{ID: uuid.New()},
		CompanyID:             companyID,
		TransactionNumber:     number,
		Type:                  model.TxRefund,
		Status:                model.TxStatusCompleted,
		Subtotal:              original.Subtotal.Neg(),
		Tax:                   original.Tax.Neg(),
		Total:                 original.Total.Neg(),
		PaymentMethod:         req.RefundMethod,
		EmployeeID:            employeeID,
		ShiftID:               shift.ID,
		CustomerID:            original.CustomerID,
		OriginalTransactionID: &original.ID,
		Reason:                req.Reason,
	}
	for _, l := range original.Lines {
		refund.Lines = append(refund.Lines, model.TransactionLine{
			ID:            uuid.New(),
			TransactionID: refund.ID,
			ItemID:        l.ItemID,
			Name:          l.Name,
			Quantity:      -l.Quantity,
			UnitPrice:     l.UnitPrice,
			LineTotal:     l.LineTotal.Neg(),
			Taxable:       l.Taxable,
		})
	}

	result := &RefundResult{Refund: refund}
	err = s.db.Transaction(func(tx *gorm.DB) error {
		ok, err := s.txRepo.TransitionStatus(tx, companyID, original.ID, model.TxStatusCompleted, model.TxStatusRefunded)
		if err != nil {
			return err
		}
		if !ok {
			return ErrTransactionSettled
		}
		if err := s.txRepo.Create(tx, refund); err != nil {
			return writeErr(err, ErrTransactionNumTaken)
		}
		for _, l := range original.Lines {
			if err := s.itemRepo.AdjustStock(tx, l.ItemID, l.Quantity, employeeID.String()); err != nil {
				return err
			}
		}

		if req.RefundMethod == model.PayStoreCredit {
			credit := &model.StoreCredit{
				CompanyID:              companyID,
				Barcode:                codegen.StoreCreditBarcode(s.codes, s.now()),
				Amount:                 original.Total,
				IssuedByEmployeeID:     employeeID,
				AuthorizedByEmployeeID: req.AuthorizedBy,
				TransactionID:          &refund.ID,
			}
			if err := s.creditRepo.Create(tx, credit); err != nil {
				return writeErr(err, ErrBarcodeTaken)
			}
			result.StoreCredit = credit
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	refund.Employee = employee

	s.invalidateReports(ctx, companyID)
	publish(s.notifier, companyID, map[string]interface{}{
		"type":                    "sale_update",
		"action":                  "sale_refunded",
		"transaction_id":          refund.ID,
		"transaction_number":      refund.TransactionNumber,
		"original_transaction_id": original.ID,
		"total":                   refund.Total,
		"refund_method":           req.RefundMethod,
		"employee_id":             employeeID,
		"message":                 fmt.Sprintf("%s refunded %s", employee.Name, original.TransactionNumber),
	})
	s.publishStock(companyID, refund.Lines, -1, employee.Name)

	return result, nil
}

// VoidSale cancels a completed sale and undoes everything the sale moved.
func (s *saleService) VoidSale(ctx context.Context, companyID, transactionID, employeeID uuid.UUID) (*VoidResult, error) {
	if err := s.requireManager(companyID, employeeID); err != nil {
		return nil, err
	}

	sale, err := s.txRepo.FindByID(companyID, transactionID)
	if err != nil {
		return nil, lookupErr(err, ErrTransactionNotFound)
	}
	if sale.Type != model.TxSale {
		return nil, errValidationf("only sales can be voided")
	}

	result := &VoidResult{Sale: sale}
	err = s.db.Transaction(func(tx *gorm.DB) error {
		ok, err := s.txRepo.TransitionStatus(tx, companyID, sale.ID, model.TxStatusCompleted, model.TxStatusDeleted)
		if err != nil {
			return err
		}
		if !ok {
			return ErrTransactionSettled
		}
		for _, l := range sale.Lines {
			if err := s.itemRepo.AdjustStock(tx, l.ItemID, l.Quantity, employeeID.String()); err != nil {
				return err
			}
		}

		switch sale.PaymentMethod {
		case model.PayGiftCard:
			ok, err := s.giftCardRepo.Credit(tx, companyID, sale.GiftCardCode, sale.Total)
			if err != nil {
				return err
			}
			if !ok {
				return ErrGiftCardInactive
			}
		case model.PayStoreCredit:
			// Credits are single-use: the spent amount is reissued and any
			// remainder issued at sale time stays valid.
			credit := &model.StoreCredit{
				CompanyID:              companyID,
				Barcode:                codegen.StoreCreditBarcode(s.codes, s.now()),
				Amount:                 sale.Total,
				IssuedByEmployeeID:     employeeID,
				AuthorizedByEmployeeID: &employeeID,
				TransactionID:          &sale.ID,
			}
			if err := s.creditRepo.Create(tx, credit); err != nil {
				return writeErr(err, ErrBarcodeTaken)
			}
			result.StoreCredit = credit
		}

		if sale.CustomerID != nil && sale.PointsEarned > 0 {
			if err := s.customerRepo.DeductPoints(tx, companyID, *sale.CustomerID, sale.PointsEarned); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sale.Status = model.TxStatusDeleted

	s.invalidateReports(ctx, companyID)
	payload := map[string]interface{}{
		"type":               "sale_update",
		"action":             "sale_voided",
		"transaction_id":     sale.ID,
		"transaction_number": sale.TransactionNumber,
		"employee_id":        employeeID,
	}
	if result.StoreCredit != nil {
		payload["store_credit"] = result.StoreCredit.Barcode
	}
	publish(s.notifier, companyID, payload)
	s.publishStock(companyID, sale.Lines, 1, "")

	return result, nil
}

func (s *saleService) GetTransaction(companyID, id uuid.UUID) (*model.Transaction, error) {
	t, err := s.txRepo.FindByID(companyID, id)
	if err != nil {
		return nil, lookupErr(err, ErrTransactionNotFound)
	}
	return t, nil
}

func (s *saleService) ListTransactions(companyID uuid.UUID, filter repository.TransactionFilter) ([]model.Transaction, error) {
	return s.txRepo.FindByCompany(companyID, filter)
}

// onShift loads an active employee and their open shift.
func (s *saleService) onShift(companyID, employeeID uuid.UUID) (*model.Employee, *model.Shift, error) {
	employee, err := s.employeeRepo.FindByID(companyID, employeeID)
	if err != nil {
		return nil, nil, lookupErr(err, ErrEmployeeNotFound)
	}
	if !employee.IsActive {
		return nil, nil, ErrEmployeeInactive
	}
	shift, err := s.shiftRepo.FindOpenByEmployee(companyID, employeeID)
	if err != nil {
		return nil, nil, lookupErr(err, ErrNoOpenShift)
	}
	return employee, shift, nil
}

func (s *saleService) requireManager(companyID, employeeID uuid.UUID) error {
	manager, err := s.employeeRepo.FindByID(companyID, employeeID)
	if err != nil {
		return lookupErr(err, ErrEmployeeNotFound)
	}
	if !manager.IsManager || !manager.IsActive {
		return ErrManagerRequired
	}
	return nil
}

// transactionNumber draws from the current millisecond and steps one millisecond
// forward per collision.
func (s *saleService) transactionNumber(ctx context.Context, companyID uuid.UUID) (string, error) {
	at := s.now()
	number, _, err := codegen.Unique(ctx,
		func() string {
			n := codegen.TransactionNumber(at)
			at = at.Add(time.Millisecond)
			return n
		},
		func(_ context.Context, code string) (bool, error) { return s.txRepo.NumberExists(companyID, code) },
	)
	return number, err
}

// publishStock announces stock movements; sign is -1 when line quantities left the shelf.
func (s *saleService) publishStock(companyID uuid.UUID, lines []model.TransactionLine, sign int, by string) {
	changes := make([]map[string]interface{}, 0, len(lines))
	for _, l := range lines {
		changes = append(changes, map[string]interface{}{
			"item_id": l.ItemID,
			"name":    l.Name,
			"delta":   sign * l.Quantity,
		})
	}
	publish(s.notifier, companyID, map[string]interface{}{
		"type":   "stock_update",
		"action": "stock_adjusted",
		"items":  changes,
		"by":     by,
	})
}

// PriceLines totals sale lines. Tax applies to taxable lines only; each figure is
// rounded to cents and total is exactly subtotal + tax.
func PriceLines(lines []model.TransactionLine, taxRatePercent decimal.Decimal) (subtotal, tax, total decimal.Decimal) {
	taxable := decimal.Zero
	for _, l := range lines {
		subtotal = subtotal.Add(l.LineTotal)
		if l.Taxable {
			taxable = taxable.Add(l.LineTotal)
		}
	}
	subtotal = subtotal.Round(moneyPlaces)
	tax = taxable.Mul(taxRatePercent).Div(hundred).Round(moneyPlaces)
	return subtotal, tax, subtotal.Add(tax)
}

// LoyaltyPoints is floor(total × pointsPerUnit), never negative.
func LoyaltyPoints(total, pointsPerUnit decimal.Decimal) int64 {
	if !total.IsPositive() || !pointsPerUnit.IsPositive() {
		return 0
	}
	return total.Mul(pointsPerUnit).Floor().IntPart()
}

func (s *saleService) invalidateReports(ctx context.Context, companyID uuid.UUID) {
	if s.reports != nil {
		s.reports.Invalidate(ctx, companyID)
	}
}
