package repository

import (
	"time"

	"go-retail-pos/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type TransactionFilter struct {
	EmployeeID *uuid.UUID
	ShiftID    *uuid.UUID
	Type       model.TransactionType
	Status     model.TransactionStatus
	From       *time.Time
	To         *time.Time
	Limit      int
}

type TransactionRepository interface {
	Create(tx *gorm.DB, transaction *model.Transaction) error
	FindByID(companyID, id uuid.UUID) (*model.Transaction, error)
	FindByNumber(companyID uuid.UUID, number string) (*model.Transaction, error)
	NumberExists(companyID uuid.UUID, number string) (bool, error)
	FindByCompany(companyID uuid.UUID, filter TransactionFilter) ([]model.Transaction, error)

	// FindForShift returns the shift's transactions created within [start, end].
	FindForShift(shiftID uuid.UUID, start, end time.Time) ([]model.Transaction, error)

	// TransitionStatus moves a transaction from one status to another and reports
	// false when the row was not in the expected status.
	TransitionStatus(tx *gorm.DB, companyID, id uuid.UUID, from, to model.TransactionStatus) (bool, error)

	GetSalesMovement(companyID uuid.UUID, startDate, endDate time.Time) ([]SalesMovementData, error)
	GetDashboardStats(companyID uuid.UUID, since time.Time) (*DashboardStats, error)
}

// SalesMovementData is one day of the sales chart.
type SalesMovementData struct {
	Date    string          `json:"date"`
	Sales   decimal.Decimal `json:"sales"`
	Refunds decimal.Decimal `json:"refunds"`
	Count   int             `json:"count"`
}

type DashboardStats struct {
	SalesTotal     decimal.Decimal `json:"sales_total"`
	SalesCount     int64           `json:"sales_count"`
	RefundTotal    decimal.Decimal `json:"refund_total"`
	TotalItems     int64           `json:"total_items"`
	LowStockCount  int64           `json:"low_stock_count"`
	TotalValuation decimal.Decimal `json:"total_valuation"`
	OpenShifts     int64           `json:"open_shifts"`
}

type transactionRepo struct {
	db *gorm.DB
}

func NewTransactionRepo(db *gorm.DB) TransactionRepository {
	return &transactionRepo{db}
}

func (r *transactionRepo) Create(tx *gorm.DB, transaction *model.Transaction) error {
	return tx.Create(transaction).Error
}

func (r *transactionRepo) FindByID(companyID, id uuid.UUID) (*model.Transaction, error) {
	var transaction model.Transaction
	err := r.db.Preload("Lines").Preload("Employee").
		First(&transaction, "id = ? AND company_id = ?", id, companyID).Error
	if err != nil {
		return nil, err
	}
	return &transaction, nil
}

func (r *transactionRepo) FindByNumber(companyID uuid.UUID, number string) (*model.Transaction, error) {
	var transaction model.Transaction
	err := r.db.Preload("Lines").
		First(&transaction, "company_id = ? AND transaction_number = ?", companyID, number).Error
	if err != nil {
		return nil, err
	}
	return &transaction, nil
}

func (r *transactionRepo) NumberExists(companyID uuid.UUID, number string) (bool, error) {
	var count int64
	err := r.db.Model(&model.Transaction{}).
		Where("company_id = ? AND transaction_number = ?", companyID, number).
		Count(&count).Error
	return count > 0, err
}

func (r *transactionRepo) FindByCompany(companyID uuid.UUID, filter TransactionFilter) ([]model.Transaction, error) {
	var transactions []model.Transaction
	query := r.db.Where("company_id = ?", companyID)

	if filter.EmployeeID != nil {
		query = query.Where("employee_id = ?", *filter.EmployeeID)
	}
	if filter.ShiftID != nil {
		query = query.Where("shift_id = ?", *filter.ShiftID)
	}
	if filter.Type != "" {
		query = query.Where("type = ?", filter.Type)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.From != nil {
		query = query.Where("created_at >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("created_at <= ?", *filter.To)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}

	err := query.Order("created_at DESC").Find(&transactions).Error
	return transactions, err
}

func (r *transactionRepo) FindForShift(shiftID uuid.UUID, start, end time.Time) ([]model.Transaction, error) {
	var transactions []model.Transaction
	err := r.db.Where("shift_id = ? AND created_at BETWEEN ? AND ?", shiftID, start, end).
		Order("created_at ASC").
		Find(&transactions).Error
	return transactions, err
}

func (r *transactionRepo) TransitionStatus(tx *gorm.DB, companyID, id uuid.UUID, from, to model.TransactionStatus) (bool, error) {
	res := tx.Model(&model.Transaction{}).
		Where("id = ? AND company_id = ? AND status = ?", id, companyID, from).
		Update("status", to)
	return res.RowsAffected == 1, res.Error
}

func (r *transactionRepo) GetSalesMovement(companyID uuid.UUID, startDate, endDate time.Time) ([]SalesMovementData, error) {
	var results []SalesMovementData

	rows, err := r.db.Model(&model.Transaction{}).
		Select(`
			TO_CHAR(DATE(created_at), 'YYYY-MM-DD') as date,
			COALESCE(SUM(CASE WHEN type = 'sale' AND status <> 'deleted' THEN total ELSE 0 END), 0) as sales,
			COALESCE(SUM(CASE WHEN type = 'refund' THEN -total ELSE 0 END), 0) as refunds,
			COUNT(CASE WHEN type = 'sale' AND status <> 'deleted' THEN 1 END) as count
		`).
		Where("company_id = ? AND created_at BETWEEN ? AND ?", companyID, startDate, endDate).
		Group("DATE(created_at)").
		Order("date ASC").
		Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var data SalesMovementData
		if err := rows.Scan(&data.Date, &data.Sales, &data.Refunds, &data.Count); err != nil {
			return nil, err
		}
		results = append(results, data)
	}

	return results, rows.Err()
}

func (r *transactionRepo) GetDashboardStats(companyID uuid.UUID, since time.Time) (*DashboardStats, error) {
	var stats DashboardStats

	salesScope := func() *gorm.DB {
		return r.db.Model(&model.Transaction{}).
			Where("company_id = ? AND type = ? AND status <> ? AND created_at >= ?", companyID, model.TxSale, model.TxStatusDeleted, since)
	}
	if err := salesScope().Count(&stats.SalesCount).Error; err != nil {
		return nil, err
	}
	if err := salesScope().Select("COALESCE(SUM(total), 0)").Scan(&stats.SalesTotal).Error; err != nil {
		return nil, err
	}
	if err := r.db.Model(&model.Transaction{}).
		Where("company_id = ? AND type = ? AND created_at >= ?", companyID, model.TxRefund, since).
		Select("COALESCE(SUM(-total), 0)").Scan(&stats.RefundTotal).Error; err != nil {
		return nil, err
	}

	if err := r.db.Model(&model.Item{}).Where("company_id = ?", companyID).
		Count(&stats.TotalItems).Error; err != nil {
		return nil, err
	}
	if err := r.db.Model(&model.Item{}).Where("company_id = ? AND stock < ?", companyID, 10).
		Count(&stats.LowStockCount).Error; err != nil {
		return nil, err
	}
	if err := r.db.Model(&model.Item{}).Where("company_id = ?", companyID).
		Select("COALESCE(SUM(stock * cost), 0)").Scan(&stats.TotalValuation).Error; err != nil {
		return nil, err
	}
	if err := r.db.Model(&model.Shift{}).Where("company_id = ? AND status = ?", companyID, model.ShiftOpen).
		Count(&stats.OpenShifts).Error; err != nil {
		return nil, err
	}

	return &stats, nil
}
