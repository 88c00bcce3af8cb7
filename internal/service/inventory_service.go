package service

import (
	"fmt"

	"go-retail-pos/internal/model"
	"go-retail-pos/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type InventoryService interface {
	CreateCategory(companyID uuid.UUID, req *CategoryRequest, userID string) (*model.Category, error)
	UpdateCategory(companyID, id uuid.UUID, req *CategoryRequest, userID string) (*model.Category, error)
	DeleteCategory(companyID, id uuid.UUID, userID string) error
	ListCategories(companyID uuid.UUID) ([]model.Category, error)

	CreateVendor(companyID uuid.UUID, req *VendorRequest, userID string) (*model.Vendor, error)
	UpdateVendor(companyID, id uuid.UUID, req *VendorRequest, userID string) (*model.Vendor, error)
	DeleteVendor(companyID, id uuid.UUID, userID string) error
	ListVendors(companyID uuid.UUID) ([]model.Vendor, error)

	CreateItem(companyID uuid.UUID, req *ItemRequest, userID string) (*model.Item, error)
	UpdateItem(companyID, id uuid.UUID, req *ItemRequest, userID string) (*model.Item, error)
	DeleteItem(companyID, id uuid.UUID, userID string) error
	GetItem(companyID, id uuid.UUID) (*model.Item, error)
	ListItems(companyID uuid.UUID, filter repository.ItemFilter) ([]model.Item, error)
	// AdjustStock applies a manual stock correction under a row lock.
	AdjustStock(companyID, id uuid.UUID, req *StockAdjustmentRequest, userID string) (*model.Item, error)
}

type CategoryRequest struct {
	Name string `json:"name" validate:"required,max=255"`
}

type VendorRequest struct {
	Name        string `json:"name" validate:"required,max=255"`
	ContactName string `json:"contact_name" validate:"max=255"`
	Email       string `json:"email" validate:"omitempty,email"`
	Phone       string `json:"phone" validate:"max=30"`
}

type ItemRequest struct {
	SKU        string          `json:"sku" validate:"required,max=50"`
	Name       string          `json:"name" validate:"required,max=255"`
	Price      decimal.Decimal `json:"price" validate:"decimal_gte0"`
	Cost       decimal.Decimal `json:"cost" validate:"decimal_gte0"`
	Stock      int             `json:"stock" validate:"gte=0"`
	Taxable    *bool           `json:"taxable"`
	CategoryID *uuid.UUID      `json:"category_id"`
	VendorID   *uuid.UUID      `json:"vendor_id"`
}

type StockAdjustmentRequest struct {
	Delta  int    `json:"delta" validate:"ne=0"`
	Reason string `json:"reason" validate:"max=255"`
}

type inventoryService struct {
	db           TxRunner
	itemRepo     repository.ItemRepository
	categoryRepo repository.CategoryRepository
	vendorRepo   repository.VendorRepository
	notifier     Notifier
}

func NewInventoryService(
	db TxRunner,
	itemRepo repository.ItemRepository,
	categoryRepo repository.CategoryRepository,
	vendorRepo repository.VendorRepository,
	notifier Notifier,
) InventoryService {
	return &inventoryService{
		db:           db,
		itemRepo:     itemRepo,
		categoryRepo: categoryRepo,
		vendorRepo:   vendorRepo,
		notifier:     notifier,
	}
}

func (s *inventoryService) CreateCategory(companyID uuid.UUID, req *CategoryRequest, userID string) (*model.Category, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	category := &model.Category{CompanyID: companyID, Name: req.Name}
	category.CreatedBy = userID
	category.UpdatedBy = userID
	if err := s.categoryRepo.Create(category); err != nil {
		return nil, err
	}
	return category, nil
}

func (s *inventoryService) UpdateCategory(companyID, id uuid.UUID, req *CategoryRequest, userID string) (*model.Category, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	category, err := s.categoryRepo.FindByID(companyID, id)
	if err != nil {
		return nil, lookupErr(err, ErrCategoryNotFound)
	}
	category.Name = req.Name
	category.UpdatedBy = userID
	if err := s.categoryRepo.Update(category); err != nil {
		return nil, err
	}
	return category, nil
}

func (s *inventoryService) DeleteCategory(companyID, id uuid.UUID, userID string) error {
	if _, err := s.categoryRepo.FindByID(companyID, id); err != nil {
		return lookupErr(err, ErrCategoryNotFound)
	}
	return s.categoryRepo.Delete(companyID, id, userID)
}

func (s *inventoryService) ListCategories(companyID uuid.UUID) ([]model.Category, error) {
	return s.categoryRepo.FindByCompany(companyID)
}

func (s *inventoryService) CreateVendor(companyID uuid.UUID, req *VendorRequest, userID string) (*model.Vendor, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	vendor := &model.Vendor{
		CompanyID:   companyID,
		Name:        req.Name,
		ContactName: req.ContactName,
		Email:       req.Email,
		Phone:       req.Phone,
	}
	vendor.CreatedBy = userID
	vendor.UpdatedBy = userID
	if err := s.vendorRepo.Create(vendor); err != nil {
		return nil, err
	}
	return vendor, nil
}

func (s *inventoryService) UpdateVendor(companyID, id uuid.UUID, req *VendorRequest, userID string) (*model.Vendor, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	vendor, err := s.vendorRepo.FindByID(companyID, id)
	if err != nil {
		return nil, lookupErr(err, ErrVendorNotFound)
	}
	vendor.Name = req.Name
	vendor.ContactName = req.ContactName
	vendor.Email = req.Email
	vendor.Phone = req.Phone
	vendor.UpdatedBy = userID
	if err := s.vendorRepo.Update(vendor); err != nil {
		return nil, err
	}
	return vendor, nil
}

func (s *inventoryService) DeleteVendor(companyID, id uuid.UUID, userID string) error {
	if _, err := s.vendorRepo.FindByID(companyID, id); err != nil {
		return lookupErr(err, ErrVendorNotFound)
	}
	return s.vendorRepo.Delete(companyID, id, userID)
}

func (s *inventoryService) ListVendors(companyID uuid.UUID) ([]model.Vendor, error) {
	return s.vendorRepo.FindByCompany(companyID)
}

func (s *inventoryService) CreateItem(companyID uuid.UUID, req *ItemRequest, userID string) (*model.Item, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	if existing, err := s.itemRepo.FindBySKU(companyID, req.SKU); err == nil && existing != nil {
		return nil, ErrDuplicateSKU
	}
	if err := s.checkRefs(companyID, req); err != nil {
		return nil, err
	}

	item := &model.Item{CompanyID: companyID, Taxable: true}
	req.apply(item)
	item.CreatedBy = userID
	item.UpdatedBy = userID

	if err := s.itemRepo.Create(item); err != nil {
		return nil, writeErr(err, ErrDuplicateSKU)
	}

	publish(s.notifier, companyID, map[string]interface{}{
		"type":   "stock_update",
		"action": "item_created",
		"item": map[string]interface{}{
			"id":    item.ID,
			"sku":   item.SKU,
			"name":  item.Name,
			"stock": item.Stock,
			"price": item.Price,
		},
		"by": userID,
	})
	return item, nil
}

func (s *inventoryService) UpdateItem(companyID, id uuid.UUID, req *ItemRequest, userID string) (*model.Item, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	item, err := s.itemRepo.FindByID(companyID, id)
	if err != nil {
		return nil, lookupErr(err, ErrItemNotFound)
	}
	if req.SKU != item.SKU {
		if existing, err := s.itemRepo.FindBySKU(companyID, req.SKU); err == nil && existing != nil {
			return nil, ErrDuplicateSKU
		}
	}
	if err := s.checkRefs(companyID, req); err != nil {
		return nil, err
	}

	oldStock := item.Stock
	req.apply(item)
	item.Category, item.Vendor = nil, nil
	item.UpdatedBy = userID
	if err := s.itemRepo.Update(item); err != nil {
		return nil, writeErr(err, ErrDuplicateSKU)
	}

	publish(s.notifier, companyID, map[string]interface{}{
		"type":   "stock_update",
		"action": "item_updated",
		"item": map[string]interface{}{
			"id":        item.ID,
			"sku":       item.SKU,
			"name":      item.Name,
			"old_stock": oldStock,
			"new_stock": item.Stock,
			"price":     item.Price,
		},
		"by": userID,
	})
	return item, nil
}

func (s *inventoryService) DeleteItem(companyID, id uuid.UUID, userID string) error {
	if _, err := s.itemRepo.FindByID(companyID, id); err != nil {
		return lookupErr(err, ErrItemNotFound)
	}
	return s.itemRepo.Delete(companyID, id, userID)
}

func (s *inventoryService) GetItem(companyID, id uuid.UUID) (*model.Item, error) {
	item, err := s.itemRepo.FindByID(companyID, id)
	if err != nil {
		return nil, lookupErr(err, ErrItemNotFound)
	}
	return item, nil
}

func (s *inventoryService) ListItems(companyID uuid.UUID, filter repository.ItemFilter) ([]model.Item, error) {
	return s.itemRepo.FindByCompany(companyID, filter)
}

func (s *inventoryService) AdjustStock(companyID, id uuid.UUID, req *StockAdjustmentRequest, userID string) (*model.Item, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	var item model.Item
	err := s.db.Transaction(func(tx *gorm.DB) error {
		locked, err := s.itemRepo.LockByIDs(tx, companyID, []uuid.UUID{id})
		if err != nil {
			return err
		}
		if len(locked) == 0 {
			return ErrItemNotFound
		}
		item = locked[0]
		if item.Stock+req.Delta < 0 {
			return fmt.Errorf("%w: %s has %d left", ErrInsufficientStock, item.SKU, item.Stock)
		}
		if err := s.itemRepo.AdjustStock(tx, item.ID, req.Delta, userID); err != nil {
			return err
		}
		item.Stock += req.Delta
		return nil
	})
	if err != nil {
		return nil, err
	}

	verb := "added"
	if req.Delta < 0 {
		verb = "removed"
	}
	publish(s.notifier, companyID, map[string]interface{}{
		"type":   "stock_update",
		"action": "stock_adjusted",
		"items": []map[string]interface{}{{
			"item_id":   item.ID,
			"name":      item.Name,
			"delta":     req.Delta,
			"new_stock": item.Stock,
		}},
		"reason":  req.Reason,
		"by":      userID,
		"message": fmt.Sprintf("%d units of '%s' %s", abs(req.Delta), item.Name, verb),
	})
	return &item, nil
}

func (s *inventoryService) checkRefs(companyID uuid.UUID, req *ItemRequest) error {
	if req.CategoryID != nil {
		if _, err := s.categoryRepo.FindByID(companyID, *req.CategoryID); err != nil {
			return lookupErr(err, ErrCategoryNotFound)
		}
	}
	if req.VendorID != nil {
		if _, err := s.vendorRepo.FindByID(companyID, *req.VendorID); err != nil {
			return lookupErr(err, ErrVendorNotFound)
		}
	}
	return nil
}

func (r *ItemRequest) apply(item *model.Item) {
	item.SKU = r.SKU
	item.Name = r.Name
	item.Price = r.Price.Round(moneyPlaces)
	item.Cost = r.Cost.Round(moneyPlaces)
	item.Stock = r.Stock
	if r.Taxable != nil {
		item.Taxable = *r.Taxable
	}
	item.CategoryID = r.CategoryID
	item.VendorID = r.VendorID
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
