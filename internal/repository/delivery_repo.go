package repository

import (
	"context"

	"github.com/st9-8/mouegne/internal/dto"
	"github.com/st9-8/mouegne/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type DeliveryRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*model.Delivery, error)
	List(ctx context.Context, filter dto.DeliveryFilter) ([]model.Delivery, int64, error)
	CountByStatus(ctx context.Context, status string) (int64, error)

	CreateTx(tx *gorm.DB, d *model.Delivery) error
	CreateDetailTx(tx *gorm.DB, d *model.DeliveryDetail) error
	// LockByIDTx locks the delivery row and loads its details.
	LockByIDTx(tx *gorm.DB, id uuid.UUID) (*model.Delivery, error)
	UpdateStatusTx(tx *gorm.DB, id uuid.UUID, status string) error
	UpdateFieldsTx(tx *gorm.DB, id uuid.UUID, fields map[string]any) error
	DeleteTx(tx *gorm.DB, id uuid.UUID) error

	DB() *gorm.DB
}

type deliveryRepo struct{ db *gorm.DB }

func NewDeliveryRepository(db *gorm.DB) DeliveryRepository { return &deliveryRepo{db: db} }

func (r *deliveryRepo) DB() *gorm.DB { return r.db }

func (r *deliveryRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Delivery, error) {
	var d model.Delivery
	err := r.db.WithContext(ctx).Preload("Details").Preload("Details.Item").
		Where("id = ?", id).First(&d).Error
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *deliveryRepo) List(ctx context.Context, filter dto.DeliveryFilter) ([]model.Delivery, int64, error) {
	filter.Normalize()
	q := r.db.WithContext(ctx).Model(&model.Delivery{})
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var deliveries []model.Delivery
	err := q.Preload("Details").Preload("Details.Item").Order("created_at DESC").
		Offset(filter.Offset()).Limit(filter.Limit).Find(&deliveries).Error
	return deliveries, total, err
}

func (r *deliveryRepo) CountByStatus(ctx context.Context, status string) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Delivery{}).Where("status = ?", status).Count(&n).Error
	return n, err
}

func (r *deliveryRepo) CreateTx(tx *gorm.DB, d *model.Delivery) error {
	return tx.Omit(clause.Associations).Create(d).Error
}

func (r *deliveryRepo) CreateDetailTx(tx *gorm.DB, d *model.DeliveryDetail) error {
	return tx.Omit(clause.Associations).Create(d).Error
}

func (r *deliveryRepo) LockByIDTx(tx *gorm.DB, id uuid.UUID) (*model.Delivery, error) {
	var d model.Delivery
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).First(&d).Error
	if err != nil {
		return nil, err
	}
	if err := tx.Where("delivery_id = ?", id).Find(&d.Details).Error; err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *deliveryRepo) UpdateStatusTx(tx *gorm.DB, id uuid.UUID, status string) error {
	return tx.Model(&model.Delivery{}).Where("id = ?", id).Update("status", status).Error
}

func (r *deliveryRepo) UpdateFieldsTx(tx *gorm.DB, id uuid.UUID, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}
	return tx.Model(&model.Delivery{}).Where("id = ?", id).Updates(fields).Error
}

// DeleteTx removes the delivery and its detail rows. Items and any derived
// sale are left untouched.
func (r *deliveryRepo) DeleteTx(tx *gorm.DB, id uuid.UUID) error {
	if err := tx.Where("delivery_id = ?", id).Delete(&model.DeliveryDetail{}).Error; err != nil {
		return err
	}
	return tx.Where("id = ?", id).Delete(&model.Delivery{}).Error
}
