package repository

import (
	"context"

	"github.com/st9-8/mouegne/internal/dto"
	"github.com/st9-8/mouegne/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PurchaseRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*model.Purchase, error)
	List(ctx context.Context, filter dto.PurchaseFilter) ([]model.Purchase, int64, error)
	CountByStatus(ctx context.Context, status string) (int64, error)

	CreateTx(tx *gorm.DB, p *model.Purchase) error
	LockByIDTx(tx *gorm.DB, id uuid.UUID) (*model.Purchase, error)
	UpdateTx(tx *gorm.DB, p *model.Purchase) error
	DeleteTx(tx *gorm.DB, id uuid.UUID) error

	DB() *gorm.DB
}

type purchaseRepo struct{ db *gorm.DB }

func NewPurchaseRepository(db *gorm.DB) PurchaseRepository { return &purchaseRepo{db: db} }

func (r *purchaseRepo) DB() *gorm.DB { return r.db }

func (r *purchaseRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Purchase, error) {
	var p model.Purchase
	err := r.db.WithContext(ctx).Preload("Item").Preload("Vendor").
		Where("id = ?", id).First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *purchaseRepo) List(ctx context.Context, filter dto.PurchaseFilter) ([]model.Purchase, int64, error) {
	filter.Normalize()
	q := r.db.WithContext(ctx).Model(&model.Purchase{})
	if filter.Status != "" {
		q = q.Where("delivery_status = ?", filter.Status)
	}
	if filter.ItemID != "" {
		q = q.Where("item_id = ?", filter.ItemID)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var purchases []model.Purchase
	err := q.Preload("Item").Preload("Vendor").Order("order_date DESC").
		Offset(filter.Offset()).Limit(filter.Limit).Find(&purchases).Error
	return purchases, total, err
}

func (r *purchaseRepo) CountByStatus(ctx context.Context, status string) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Purchase{}).Where("delivery_status = ?", status).Count(&n).Error
	return n, err
}

func (r *purchaseRepo) CreateTx(tx *gorm.DB, p *model.Purchase) error {
	return tx.Omit(clause.Associations).Create(p).Error
}

func (r *purchaseRepo) LockByIDTx(tx *gorm.DB, id uuid.UUID) (*model.Purchase, error) {
	var p model.Purchase
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Where("id = ?", id).First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *purchaseRepo) UpdateTx(tx *gorm.DB, p *model.Purchase) error {
	return tx.Model(&model.Purchase{}).Where("id = ?", p.ID).
		Select("vendor_id", "description", "quantity", "price", "delivery_date", "delivery_status", "updated_at").
		Updates(p).Error
}

func (r *purchaseRepo) DeleteTx(tx *gorm.DB, id uuid.UUID) error {
	return tx.Where("id = ?", id).Delete(&model.Purchase{}).Error
}
