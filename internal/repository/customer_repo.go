package repository

import (
	"context"
	"strings"

	"github.com/st9-8/mouegne/internal/dto"
	"github.com/st9-8/mouegne/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CustomerRepository interface {
	Create(ctx context.Context, c *model.Customer) error
	List(ctx context.Context, filter dto.CatalogFilter) ([]model.Customer, int64, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.Customer, error)
	Update(ctx context.Context, c *model.Customer) error
	Delete(ctx context.Context, id uuid.UUID) error

	FindByIDTx(tx *gorm.DB, id uuid.UUID) (*model.Customer, error)
	FindByPhoneTx(tx *gorm.DB, phone string) (*model.Customer, error)
	CreateTx(tx *gorm.DB, c *model.Customer) error
}

type customerRepo struct{ db *gorm.DB }

func NewCustomerRepository(db *gorm.DB) CustomerRepository { return &customerRepo{db: db} }

func (r *customerRepo) Create(ctx context.Context, c *model.Customer) error {
	return r.CreateTx(r.db.WithContext(ctx), c)
}

func (r *customerRepo) List(ctx context.Context, filter dto.CatalogFilter) ([]model.Customer, int64, error) {
	filter.Normalize()
	q := r.db.WithContext(ctx).Model(&model.Customer{})
	if s := strings.TrimSpace(filter.Q); s != "" {
		like := "%" + strings.ToLower(s) + "%"
		q = q.Where("LOWER(first_name) LIKE ? OR LOWER(last_name) LIKE ? OR phone LIKE ?", like, like, like)
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var list []model.Customer
	err := q.Order("first_name ASC").Offset(filter.Offset()).Limit(filter.Limit).Find(&list).Error
	return list, total, err
}

func (r *customerRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Customer, error) {
	return r.FindByIDTx(r.db.WithContext(ctx), id)
}

func (r *customerRepo) Update(ctx context.Context, c *model.Customer) error {
	return r.db.WithContext(ctx).Model(&model.Customer{}).Where("id = ?", c.ID).
		Select("first_name", "last_name", "address", "email", "phone", "loyalty_points").Updates(c).Error
}

func (r *customerRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Customer{}).Error
}

func (r *customerRepo) FindByIDTx(tx *gorm.DB, id uuid.UUID) (*model.Customer, error) {
	var c model.Customer
	if err := tx.First(&c, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

// FindByPhoneTx returns the oldest customer with the given phone number.
func (r *customerRepo) FindByPhoneTx(tx *gorm.DB, phone string) (*model.Customer, error) {
	var c model.Customer
	if err := tx.Where("phone = ?", phone).Order("created_at ASC").First(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *customerRepo) CreateTx(tx *gorm.DB, c *model.Customer) error {
	return tx.Create(c).Error
}
