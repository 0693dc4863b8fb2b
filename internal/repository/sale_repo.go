package repository

import (
	"context"
	"time"

	"github.com/st9-8/mouegne/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SaleListFilter is the parsed form of dto.SaleFilter.
type SaleListFilter struct {
	CustomerID *uuid.UUID
	From       *time.Time
	To         *time.Time // exclusive
	Offset     int
	Limit      int
}

type SaleRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*model.Sale, error)
	List(ctx context.Context, filter SaleListFilter) ([]model.Sale, int64, error)
	// Totals returns the count and grand-total sum of sales created in [from, to).
	Totals(ctx context.Context, from, to time.Time) (int64, decimal.Decimal, error)
	CountByCustomer(ctx context.Context, customerID uuid.UUID) (int64, error)
	FindByDeliveryID(ctx context.Context, deliveryID uuid.UUID) (*model.Sale, error)

	CreateTx(tx *gorm.DB, s *model.Sale) error
	CreateDetailTx(tx *gorm.DB, d *model.SaleDetail) error
	FindByDeliveryIDTx(tx *gorm.DB, deliveryID uuid.UUID) (*model.Sale, error)
	DeleteTx(tx *gorm.DB, id uuid.UUID) error

	DB() *gorm.DB
}

type saleRepo struct{ db *gorm.DB }

func NewSaleRepository(db *gorm.DB) SaleRepository { return &saleRepo{db: db} }

func (r *saleRepo) DB() *gorm.DB { return r.db }

func (r *saleRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Sale, error) {
	var s model.Sale
	err := r.db.WithContext(ctx).
		Preload("Customer").Preload("Details").Preload("Details.Item").
		Where("id = ?", id).First(&s).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *saleRepo) List(ctx context.Context, f SaleListFilter) ([]model.Sale, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Sale{})
	if f.CustomerID != nil {
		q = q.Where("customer_id = ?", *f.CustomerID)
	}
	if f.From != nil {
		q = q.Where("created_at >= ?", *f.From)
	}
	if f.To != nil {
		q = q.Where("created_at < ?", *f.To)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var sales []model.Sale
	err := q.Preload("Customer").Preload("Details").Preload("Details.Item").
		Order("created_at DESC").Offset(f.Offset).Limit(f.Limit).Find(&sales).Error
	return sales, total, err
}

func (r *saleRepo) Totals(ctx context.Context, from, to time.Time) (int64, decimal.Decimal, error) {
	var (
		count int64
		sum   decimal.Decimal
	)
	err := r.db.WithContext(ctx).Model(&model.Sale{}).
		Where("created_at >= ? AND created_at < ?", from, to).
		Select("COUNT(*), COALESCE(SUM(grand_total), 0)").
		Row().Scan(&count, &sum)
	return count, sum, err
}

func (r *saleRepo) CountByCustomer(ctx context.Context, customerID uuid.UUID) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Sale{}).Where("customer_id = ?", customerID).Count(&n).Error
	return n, err
}

func (r *saleRepo) FindByDeliveryID(ctx context.Context, deliveryID uuid.UUID) (*model.Sale, error) {
	return r.FindByDeliveryIDTx(r.db.WithContext(ctx), deliveryID)
}

func (r *saleRepo) CreateTx(tx *gorm.DB, s *model.Sale) error {
	return tx.Omit(clause.Associations).Create(s).Error
}

func (r *saleRepo) CreateDetailTx(tx *gorm.DB, d *model.SaleDetail) error {
	return tx.Omit(clause.Associations).Create(d).Error
}

func (r *saleRepo) FindByDeliveryIDTx(tx *gorm.DB, deliveryID uuid.UUID) (*model.Sale, error) {
	var s model.Sale
	if err := tx.Where("delivery_id = ?", deliveryID).First(&s).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

// DeleteTx removes the sale and the detail rows it owns.
func (r *saleRepo) DeleteTx(tx *gorm.DB, id uuid.UUID) error {
	if err := tx.Where("sale_id = ?", id).Delete(&model.SaleDetail{}).Error; err != nil {
		return err
	}
	return tx.Where("id = ?", id).Delete(&model.Sale{}).Error
}
