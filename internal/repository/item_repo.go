package repository

import (
	"context"
	"strings"

	"github.com/st9-8/mouegne/internal/dto"
	"github.com/st9-8/mouegne/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ItemRepository defines the data access contract for items.
// Quantity is written only through SetQuantityTx, on a row locked with LockByIDTx.
type ItemRepository interface {
	Create(ctx context.Context, i *model.Item) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Item, error)
	List(ctx context.Context, filter dto.ItemFilter) ([]model.Item, int64, error)
	ListLowStock(ctx context.Context, threshold int) ([]model.Item, error)
	CountLowStock(ctx context.Context, threshold int) (int64, error)
	SumQuantity(ctx context.Context) (int64, error)
	// Update persists catalog fields. The quantity column is never written.
	Update(ctx context.Context, i *model.Item) error
	Delete(ctx context.Context, id uuid.UUID) error
	CountReferences(ctx context.Context, id uuid.UUID) (int64, error)

	// Used inside transactions: callers must pass the tx instance
	FindByIDTx(tx *gorm.DB, id uuid.UUID) (*model.Item, error)
	LockByIDTx(tx *gorm.DB, id uuid.UUID) (*model.Item, error)
	SetQuantityTx(tx *gorm.DB, id uuid.UUID, quantity int) error

	// DB exposes the underlying *gorm.DB so services can open transactions.
	DB() *gorm.DB
}

type itemRepo struct{ db *gorm.DB }

func NewItemRepository(db *gorm.DB) ItemRepository { return &itemRepo{db: db} }

func (r *itemRepo) DB() *gorm.DB { return r.db }

func (r *itemRepo) Create(ctx context.Context, i *model.Item) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(i).Error
}

func (r *itemRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Item, error) {
	var i model.Item
	err := r.db.WithContext(ctx).Preload("Category").Preload("Vendor").
		Where("id = ?", id).First(&i).Error
	if err != nil {
		return nil, err
	}
	return &i, nil
}

func (r *itemRepo) FindByIDTx(tx *gorm.DB, id uuid.UUID) (*model.Item, error) {
	var i model.Item
	if err := tx.Where("id = ?", id).First(&i).Error; err != nil {
		return nil, err
	}
	return &i, nil
}

// LockByIDTx loads the item with SELECT … FOR UPDATE so concurrent ledger
// mutations on the same row are serialized until the transaction ends.
func (r *itemRepo) LockByIDTx(tx *gorm.DB, id uuid.UUID) (*model.Item, error) {
	var i model.Item
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).First(&i).Error
	if err != nil {
		return nil, err
	}
	return &i, nil
}

func (r *itemRepo) SetQuantityTx(tx *gorm.DB, id uuid.UUID, quantity int) error {
	return tx.Model(&model.Item{}).Where("id = ?", id).Update("quantity", quantity).Error
}

func (r *itemRepo) List(ctx context.Context, filter dto.ItemFilter) ([]model.Item, int64, error) {
	filter.Normalize()
	q := r.db.WithContext(ctx).Model(&model.Item{})

	if s := strings.TrimSpace(filter.Q); s != "" {
		q = q.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(s)+"%")
	}
	if filter.CategoryID != "" {
		q = q.Where("category_id = ?", filter.CategoryID)
	}
	if filter.VendorID != "" {
		q = q.Where("vendor_id = ?", filter.VendorID)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var items []model.Item
	err := q.Preload("Category").Order("name ASC").
		Limit(filter.Limit).Offset(filter.Offset()).Find(&items).Error
	return items, total, err
}

func (r *itemRepo) ListLowStock(ctx context.Context, threshold int) ([]model.Item, error) {
	var items []model.Item
	err := r.db.WithContext(ctx).Preload("Category").
		Where("quantity <= ?", threshold).
		Order("quantity ASC, name ASC").Find(&items).Error
	return items, err
}

func (r *itemRepo) CountLowStock(ctx context.Context, threshold int) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Item{}).Where("quantity <= ?", threshold).Count(&n).Error
	return n, err
}

func (r *itemRepo) SumQuantity(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&model.Item{}).
		Select("COALESCE(SUM(quantity), 0)").Row().Scan(&total)
	return total, err
}

func (r *itemRepo) Update(ctx context.Context, i *model.Item) error {
	return r.db.WithContext(ctx).Model(&model.Item{}).Where("id = ?", i.ID).
		Select("name", "description", "category_id", "price", "purchase_price", "vendor_id", "expiring_date", "updated_at").
		Updates(i).Error
}

func (r *itemRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Item{}).Error
}

// CountReferences counts purchases, sale lines, delivery lines and stock
// movements pointing at the item.
func (r *itemRepo) CountReferences(ctx context.Context, id uuid.UUID) (int64, error) {
	db := r.db.WithContext(ctx)
	var total int64
	for _, m := range []any{&model.Purchase{}, &model.SaleDetail{}, &model.DeliveryDetail{}, &model.StockMovement{}} {
		var n int64
		if err := db.Model(m).Where("item_id = ?", id).Count(&n).Error; err != nil {
			return 0, err
		}
		total += n
	}
	return total, nil
}
