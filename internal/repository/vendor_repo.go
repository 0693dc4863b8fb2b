package repository

import (
	"context"
	"strings"

	"github.com/st9-8/mouegne/internal/dto"
	"github.com/st9-8/mouegne/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type VendorRepository interface {
	Create(ctx context.Context, v *model.Vendor) error
	List(ctx context.Context, filter dto.CatalogFilter) ([]model.Vendor, int64, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.Vendor, error)
	Update(ctx context.Context, v *model.Vendor) error
	// Delete detaches the vendor from items and purchases, then removes it.
	Delete(ctx context.Context, id uuid.UUID) error
}

type vendorRepo struct{ db *gorm.DB }

func NewVendorRepository(db *gorm.DB) VendorRepository { return &vendorRepo{db: db} }

func (r *vendorRepo) Create(ctx context.Context, v *model.Vendor) error {
	return r.db.WithContext(ctx).Create(v).Error
}

func (r *vendorRepo) List(ctx context.Context, filter dto.CatalogFilter) ([]model.Vendor, int64, error) {
	filter.Normalize()
	q := r.db.WithContext(ctx).Model(&model.Vendor{})
	if s := strings.TrimSpace(filter.Q); s != "" {
		q = q.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(s)+"%")
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var list []model.Vendor
	err := q.Order("name ASC").Offset(filter.Offset()).Limit(filter.Limit).Find(&list).Error
	return list, total, err
}

func (r *vendorRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Vendor, error) {
	var v model.Vendor
	if err := r.db.WithContext(ctx).First(&v, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *vendorRepo) Update(ctx context.Context, v *model.Vendor) error {
	return r.db.WithContext(ctx).Model(&model.Vendor{}).Where("id = ?", v.ID).
		Select("name", "phone_number", "address").Updates(v).Error
}

func (r *vendorRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.Item{}).Where("vendor_id = ?", id).Update("vendor_id", nil).Error; err != nil {
			return err
		}
		if err := tx.Model(&model.Purchase{}).Where("vendor_id = ?", id).Update("vendor_id", nil).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&model.Vendor{}).Error
	})
}
