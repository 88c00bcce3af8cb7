package service

import (
	"database/sql"
	"sort"
	"time"

	"go-retail-pos/internal/model"
	"go-retail-pos/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// In-memory repositories. Each embeds its interface so calls to methods a test
// does not stub panic loudly instead of passing silently.

type fakeTx struct{}

func (fakeTx) Transaction(fc func(tx *gorm.DB) error, _ ...*sql.TxOptions) error {
	return fc(nil)
}

// ticker returns a clock that advances one millisecond per reading.
func ticker(start time.Time) clock {
	now := start
	return func() time.Time {
		now = now.Add(time.Millisecond)
		return now
	}
}

type fakeCompanies struct {
	repository.CompanyRepository
	rows map[uuid.UUID]*model.Company
}

func newFakeCompanies(companies ...*model.Company) *fakeCompanies {
	f := &fakeCompanies{rows: map[uuid.UUID]*model.Company{}}
	for _, c := range companies {
		f.rows[c.ID] = c
	}
	return f
}

func (f *fakeCompanies) FindByID(id uuid.UUID) (*model.Company, error) {
	c, ok := f.rows[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *c
	return &cp, nil
}

type fakeEmployees struct {
	repository.EmployeeRepository
	rows map[uuid.UUID]*model.Employee
}

func newFakeEmployees(employees ...*model.Employee) *fakeEmployees {
	f := &fakeEmployees{rows: map[uuid.UUID]*model.Employee{}}
	for _, e := range employees {
		f.rows[e.ID] = e
	}
	return f
}

func (f *fakeEmployees) FindByID(companyID, id uuid.UUID) (*model.Employee, error) {
	e, ok := f.rows[id]
	if !ok || e.CompanyID != companyID {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *e
	return &cp, nil
}

func (f *fakeEmployees) Create(e *model.Employee) error {
	for _, other := range f.rows {
		if other.CompanyID == e.CompanyID && other.Barcode == e.Barcode {
			return gorm.ErrDuplicatedKey
		}
	}
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	cp := *e
	f.rows[e.ID] = &cp
	return nil
}

func (f *fakeEmployees) Update(e *model.Employee) error {
	if _, ok := f.rows[e.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	cp := *e
	f.rows[e.ID] = &cp
	return nil
}

func (f *fakeEmployees) BarcodeExists(companyID uuid.UUID, barcode string) (bool, error) {
	for _, e := range f.rows {
		if e.CompanyID == companyID && e.Barcode == barcode {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeEmployees) FindByCompany(companyID uuid.UUID) ([]model.Employee, error) {
	var out []model.Employee
	for _, e := range f.rows {
		if e.CompanyID == companyID {
			out = append(out, *e)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID.String() < out[j].ID.String()
	})
	return out, nil
}

type fakeShifts struct {
	repository.ShiftRepository
	rows map[uuid.UUID]*model.Shift
}

func newFakeShifts() *fakeShifts {
	return &fakeShifts{rows: map[uuid.UUID]*model.Shift{}}
}

func (f *fakeShifts) Create(shift *model.Shift) error {
	for _, s := range f.rows {
		if s.CompanyID == shift.CompanyID && s.EmployeeID == shift.EmployeeID && s.Status == model.ShiftOpen {
			return gorm.ErrDuplicatedKey
		}
	}
	if shift.ID == uuid.Nil {
		shift.ID = uuid.New()
	}
	cp := *shift
	f.rows[shift.ID] = &cp
	return nil
}

func (f *fakeShifts) FindByID(companyID, id uuid.UUID) (*model.Shift, error) {
	s, ok := f.rows[id]
	if !ok || s.CompanyID != companyID {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *s
	return &cp, nil
}

func (f *fakeShifts) FindOpenByEmployee(companyID, employeeID uuid.UUID) (*model.Shift, error) {
	for _, s := range f.rows {
		if s.CompanyID == companyID && s.EmployeeID == employeeID && s.Status == model.ShiftOpen {
			cp := *s
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeShifts) AddCashInjection(companyID, id uuid.UUID, amount decimal.Decimal) (bool, error) {
	s, ok := f.rows[id]
	if !ok || s.CompanyID != companyID || s.Status != model.ShiftOpen {
		return false, nil
	}
	s.CashInjections = s.CashInjections.Add(amount)
	return true, nil
}

func (f *fakeShifts) Close(shift *model.Shift) (bool, error) {
	s, ok := f.rows[shift.ID]
	if !ok || s.Status != model.ShiftOpen {
		return false, nil
	}
	cp := *shift
	cp.Status = model.ShiftClosed
	f.rows[shift.ID] = &cp
	return true, nil
}

type fakeTransactions struct {
	repository.TransactionRepository
	rows map[uuid.UUID]*model.Transaction
	now  clock
}

func newFakeTransactions(now clock) *fakeTransactions {
	return &fakeTransactions{rows: map[uuid.UUID]*model.Transaction{}, now: now}
}

func (f *fakeTransactions) Create(_ *gorm.DB, t *model.Transaction) error {
	for _, row := range f.rows {
		if row.CompanyID == t.CompanyID && row.TransactionNumber == t.TransactionNumber {
			return gorm.ErrDuplicatedKey
		}
	}
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = f.now()
	}
	cp := *t
	cp.Lines = append([]model.TransactionLine(nil), t.Lines...)
	f.rows[t.ID] = &cp
	return nil
}

func (f *fakeTransactions) FindByID(companyID, id uuid.UUID) (*model.Transaction, error) {
	t, ok := f.rows[id]
	if !ok || t.CompanyID != companyID {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *t
	cp.Lines = append([]model.TransactionLine(nil), t.Lines...)
	return &cp, nil
}

func (f *fakeTransactions) NumberExists(companyID uuid.UUID, number string) (bool, error) {
	for _, t := range f.rows {
		if t.CompanyID == companyID && t.TransactionNumber == number {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeTransactions) FindForShift(shiftID uuid.UUID, start, end time.Time) ([]model.Transaction, error) {
	var out []model.Transaction
	for _, t := range f.rows {
		if t.ShiftID == shiftID && !t.CreatedAt.Before(start) && !t.CreatedAt.After(end) {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (f *fakeTransactions) FindByCompany(companyID uuid.UUID, filter repository.TransactionFilter) ([]model.Transaction, error) {
	var out []model.Transaction
	for _, t := range f.rows {
		if t.CompanyID != companyID {
			continue
		}
		if filter.From != nil && t.CreatedAt.Before(*filter.From) {
			continue
		}
		if filter.To != nil && t.CreatedAt.After(*filter.To) {
			continue
		}
		out = append(out, *t)
	}
	return out, nil
}

func (f *fakeTransactions) TransitionStatus(_ *gorm.DB, companyID, id uuid.UUID, from, to model.TransactionStatus) (bool, error) {
	t, ok := f.rows[id]
	if !ok || t.CompanyID != companyID || t.Status != from {
		return false, nil
	}
	t.Status = to
	return true, nil
}

type fakeItems struct {
	repository.ItemRepository
	rows map[uuid.UUID]*model.Item
}

func newFakeItems(items ...*model.Item) *fakeItems {
	f := &fakeItems{rows: map[uuid.UUID]*model.Item{}}
	for _, it := range items {
		f.rows[it.ID] = it
	}
	return f
}

func (f *fakeItems) LockByIDs(_ *gorm.DB, companyID uuid.UUID, ids []uuid.UUID) ([]model.Item, error) {
	var out []model.Item
	for _, id := range ids {
		if it, ok := f.rows[id]; ok && it.CompanyID == companyID {
			out = append(out, *it)
		}
	}
	return out, nil
}

func (f *fakeItems) AdjustStock(_ *gorm.DB, id uuid.UUID, delta int, updatedBy string) error {
	it, ok := f.rows[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	it.Stock += delta
	it.UpdatedBy = updatedBy
	return nil
}

type fakeCredits struct {
	repository.StoreCreditRepository
	rows map[string]*model.StoreCredit
}

func newFakeCredits(credits ...*model.StoreCredit) *fakeCredits {
	f := &fakeCredits{rows: map[string]*model.StoreCredit{}}
	for _, c := range credits {
		f.rows[c.Barcode] = c
	}
	return f
}

func (f *fakeCredits) Create(_ *gorm.DB, credit *model.StoreCredit) error {
	if _, taken := f.rows[credit.Barcode]; taken {
		return gorm.ErrDuplicatedKey
	}
	if credit.ID == uuid.Nil {
		credit.ID = uuid.New()
	}
	cp := *credit
	f.rows[credit.Barcode] = &cp
	return nil
}

func (f *fakeCredits) FindByBarcode(companyID uuid.UUID, barcode string) (*model.StoreCredit, error) {
	c, ok := f.rows[barcode]
	if !ok || c.CompanyID != companyID {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *c
	return &cp, nil
}

func (f *fakeCredits) Redeem(_ *gorm.DB, companyID uuid.UUID, barcode string, redeemedTx *uuid.UUID, at time.Time) (bool, error) {
	c, ok := f.rows[barcode]
	if !ok || c.CompanyID != companyID || c.IsUsed {
		return false, nil
	}
	c.IsUsed = true
	c.UsedAt = &at
	c.RedeemedTransactionID = redeemedTx
	return true, nil
}

func (f *fakeCredits) FindForShift(companyID, employeeID uuid.UUID, start, end time.Time, txIDs []uuid.UUID) ([]model.StoreCredit, error) {
	linked := make(map[uuid.UUID]bool, len(txIDs))
	for _, id := range txIDs {
		linked[id] = true
	}
	var out []model.StoreCredit
	for _, c := range f.rows {
		if c.CompanyID != companyID {
			continue
		}
		inWindow := c.IssuedByEmployeeID == employeeID && !c.CreatedAt.Before(start) && !c.CreatedAt.After(end)
		if inWindow || (c.TransactionID != nil && linked[*c.TransactionID]) {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (f *fakeCredits) FindByTransactionIDs(txIDs []uuid.UUID) ([]model.StoreCredit, error) {
	want := make(map[uuid.UUID]bool, len(txIDs))
	for _, id := range txIDs {
		want[id] = true
	}
	var out []model.StoreCredit
	for _, c := range f.rows {
		if c.TransactionID != nil && want[*c.TransactionID] {
			out = append(out, *c)
		}
	}
	return out, nil
}

type fakeGiftCards struct {
	repository.GiftCardRepository
	rows map[string]*model.GiftCard
}

func newFakeGiftCards(cards ...*model.GiftCard) *fakeGiftCards {
	f := &fakeGiftCards{rows: map[string]*model.GiftCard{}}
	for _, c := range cards {
		f.rows[c.Code] = c
	}
	return f
}

func (f *fakeGiftCards) Create(card *model.GiftCard) error {
	if _, taken := f.rows[card.Code]; taken {
		return gorm.ErrDuplicatedKey
	}
	if card.ID == uuid.Nil {
		card.ID = uuid.New()
	}
	cp := *card
	f.rows[card.Code] = &cp
	return nil
}

func (f *fakeGiftCards) CodeExists(code string) (bool, error) {
	_, ok := f.rows[code]
	return ok, nil
}

func (f *fakeGiftCards) FindByCode(companyID uuid.UUID, code string) (*model.GiftCard, error) {
	c, ok := f.rows[code]
	if !ok || c.CompanyID != companyID {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *c
	return &cp, nil
}

func (f *fakeGiftCards) Debit(_ *gorm.DB, companyID uuid.UUID, code string, amount decimal.Decimal) (bool, error) {
	c, ok := f.rows[code]
	if !ok || c.CompanyID != companyID || !c.IsActive || c.Balance.LessThan(amount) {
		return false, nil
	}
	c.Balance = c.Balance.Sub(amount)
	return true, nil
}

func (f *fakeGiftCards) Credit(_ *gorm.DB, companyID uuid.UUID, code string, amount decimal.Decimal) (bool, error) {
	c, ok := f.rows[code]
	if !ok || c.CompanyID != companyID || !c.IsActive {
		return false, nil
	}
	c.Balance = c.Balance.Add(amount)
	return true, nil
}

type fakeCustomers struct {
	repository.CustomerRepository
	rows map[uuid.UUID]*model.Customer
}

func newFakeCustomers(customers ...*model.Customer) *fakeCustomers {
	f := &fakeCustomers{rows: map[uuid.UUID]*model.Customer{}}
	for _, c := range customers {
		f.rows[c.ID] = c
	}
	return f
}

func (f *fakeCustomers) FindByID(companyID, id uuid.UUID) (*model.Customer, error) {
	c, ok := f.rows[id]
	if !ok || c.CompanyID != companyID {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *c
	return &cp, nil
}

func (f *fakeCustomers) AddPoints(_ *gorm.DB, companyID, id uuid.UUID, points int64) error {
	c, ok := f.rows[id]
	if !ok || c.CompanyID != companyID {
		return gorm.ErrRecordNotFound
	}
	c.LoyaltyPoints += points
	return nil
}

func (f *fakeCustomers) DeductPoints(_ *gorm.DB, companyID, id uuid.UUID, points int64) error {
	c, ok := f.rows[id]
	if !ok || c.CompanyID != companyID {
		return gorm.ErrRecordNotFound
	}
	c.LoyaltyPoints -= points
	if c.LoyaltyPoints < 0 {
		c.LoyaltyPoints = 0
	}
	return nil
}
