package service

import (
	"context"
	"errors"
	"strings"

	"github.com/st9-8/mouegne/internal/apierror"
	"github.com/st9-8/mouegne/internal/dto"
	"github.com/st9-8/mouegne/internal/model"
	"github.com/st9-8/mouegne/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CatalogService covers the reference data around items: categories,
// vendors and customers.
type CatalogService interface {
	CreateCategory(ctx context.Context, req dto.CategoryRequest) (*dto.CategoryResponse, error)
	ListCategories(ctx context.Context, filter dto.CatalogFilter) (*dto.ListResponse[dto.CategoryResponse], error)
	UpdateCategory(ctx context.Context, id uuid.UUID, req dto.CategoryRequest) (*dto.CategoryResponse, error)
	DeleteCategory(ctx context.Context, id uuid.UUID) error

	CreateVendor(ctx context.Context, req dto.VendorRequest) (*dto.VendorResponse, error)
	GetVendor(ctx context.Context, id uuid.UUID) (*dto.VendorResponse, error)
	ListVendors(ctx context.Context, filter dto.CatalogFilter) (*dto.ListResponse[dto.VendorResponse], error)
	UpdateVendor(ctx context.Context, id uuid.UUID, req dto.VendorRequest) (*dto.VendorResponse, error)
	DeleteVendor(ctx context.Context, id uuid.UUID) error

	CreateCustomer(ctx context.Context, req dto.CustomerRequest) (*dto.CustomerResponse, error)
	GetCustomer(ctx context.Context, id uuid.UUID) (*dto.CustomerResponse, error)
	ListCustomers(ctx context.Context, filter dto.CatalogFilter) (*dto.ListResponse[dto.CustomerResponse], error)
	UpdateCustomer(ctx context.Context, id uuid.UUID, req dto.CustomerRequest) (*dto.CustomerResponse, error)
	DeleteCustomer(ctx context.Context, id uuid.UUID) error
}

type catalogService struct {
	categories repository.CategoryRepository
	vendors    repository.VendorRepository
	customers  repository.CustomerRepository
	sales      repository.SaleRepository
}

func NewCatalogService(
	categories repository.CategoryRepository,
	vendors repository.VendorRepository,
	customers repository.CustomerRepository,
	sales repository.SaleRepository,
) CatalogService {
	return &catalogService{categories: categories, vendors: vendors, customers: customers, sales: sales}
}

// ── Categories ────────────────────────────────────────────────────────────────

func (s *catalogService) CreateCategory(ctx context.Context, req dto.CategoryRequest) (*dto.CategoryResponse, error) {
	name := strings.TrimSpace(req.Name)
	if err := s.checkCategoryName(ctx, name, uuid.Nil); err != nil {
		return nil, err
	}
	c := &model.Category{Name: name}
	if err := s.categories.Create(ctx, c); err != nil {
		return nil, apierror.Store(err, "create category")
	}
	return &dto.CategoryResponse{ID: c.ID.String(), Name: c.Name}, nil
}

func (s *catalogService) ListCategories(ctx context.Context, filter dto.CatalogFilter) (*dto.ListResponse[dto.CategoryResponse], error) {
	filter.Normalize()
	list, total, err := s.categories.List(ctx, filter)
	if err != nil {
		return nil, apierror.Store(err, "list categories")
	}
	out := make([]dto.CategoryResponse, 0, len(list))
	for _, c := range list {
		out = append(out, dto.CategoryResponse{ID: c.ID.String(), Name: c.Name})
	}
	return dto.NewList(out, total, filter.Pagination), nil
}

func (s *catalogService) UpdateCategory(ctx context.Context, id uuid.UUID, req dto.CategoryRequest) (*dto.CategoryResponse, error) {
	c, err := s.categories.FindByID(ctx, id)
	if err != nil {
		return nil, lookupErr(err, "category", id)
	}
	name := strings.TrimSpace(req.Name)
	if err := s.checkCategoryName(ctx, name, id); err != nil {
		return nil, err
	}
	c.Name = name
	if err := s.categories.Update(ctx, c); err != nil {
		return nil, apierror.Store(err, "update category")
	}
	return &dto.CategoryResponse{ID: c.ID.String(), Name: c.Name}, nil
}

// DeleteCategory refuses while items still belong to the category.
func (s *catalogService) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	if _, err := s.categories.FindByID(ctx, id); err != nil {
		return lookupErr(err, "category", id)
	}
	n, err := s.categories.CountItems(ctx, id)
	if err != nil {
		return apierror.Store(err, "count category items")
	}
	if n > 0 {
		return apierror.Validation("category still has %d items", n)
	}
	if err := s.categories.Delete(ctx, id); err != nil {
		return apierror.Store(err, "delete category")
	}
	return nil
}

func (s *catalogService) checkCategoryName(ctx context.Context, name string, self uuid.UUID) error {
	if name == "" {
		return apierror.Validation("missing required field: name")
	}
	existing, err := s.categories.FindByName(ctx, name)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil
	case err != nil:
		return apierror.Store(err, "load category")
	case existing.ID != self:
		return apierror.Validation("category %q already exists", name)
	}
	return nil
}

// ── Vendors ───────────────────────────────────────────────────────────────────

func (s *catalogService) CreateVendor(ctx context.Context, req dto.VendorRequest) (*dto.VendorResponse, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, apierror.Validation("missing required field: name")
	}
	v := &model.Vendor{Name: name, PhoneNumber: req.PhoneNumber, Address: req.Address}
	if err := s.vendors.Create(ctx, v); err != nil {
		return nil, apierror.Store(err, "create vendor")
	}
	return vendorToResponse(v), nil
}

func (s *catalogService) GetVendor(ctx context.Context, id uuid.UUID) (*dto.VendorResponse, error) {
	v, err := s.vendors.FindByID(ctx, id)
	if err != nil {
		return nil, lookupErr(err, "vendor", id)
	}
	return vendorToResponse(v), nil
}

func (s *catalogService) ListVendors(ctx context.Context, filter dto.CatalogFilter) (*dto.ListResponse[dto.VendorResponse], error) {
	filter.Normalize()
	list, total, err := s.vendors.List(ctx, filter)
	if err != nil {
		return nil, apierror.Store(err, "list vendors")
	}
	out := make([]dto.VendorResponse, 0, len(list))
	for i := range list {
		out = append(out, *vendorToResponse(&list[i]))
	}
	return dto.NewList(out, total, filter.Pagination), nil
}

func (s *catalogService) UpdateVendor(ctx context.Context, id uuid.UUID, req dto.VendorRequest) (*dto.VendorResponse, error) {
	v, err := s.vendors.FindByID(ctx, id)
	if err != nil {
		return nil, lookupErr(err, "vendor", id)
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, apierror.Validation("missing required field: name")
	}
	v.Name, v.PhoneNumber, v.Address = name, req.PhoneNumber, req.Address
	if err := s.vendors.Update(ctx, v); err != nil {
		return nil, apierror.Store(err, "update vendor")
	}
	return vendorToResponse(v), nil
}

// DeleteVendor detaches the vendor from items and purchases before removing it.
func (s *catalogService) DeleteVendor(ctx context.Context, id uuid.UUID) error {
	if _, err := s.vendors.FindByID(ctx, id); err != nil {
		return lookupErr(err, "vendor", id)
	}
	if err := s.vendors.Delete(ctx, id); err != nil {
		return apierror.Store(err, "delete vendor")
	}
	return nil
}

func vendorToResponse(v *model.Vendor) *dto.VendorResponse {
	return &dto.VendorResponse{ID: v.ID.String(), Name: v.Name, PhoneNumber: v.PhoneNumber, Address: v.Address}
}

// ── Customers ─────────────────────────────────────────────────────────────────

func (s *catalogService) CreateCustomer(ctx context.Context, req dto.CustomerRequest) (*dto.CustomerResponse, error) {
	c := &model.Customer{}
	if err := applyCustomer(c, req); err != nil {
		return nil, err
	}
	if err := s.customers.Create(ctx, c); err != nil {
		return nil, apierror.Store(err, "create customer")
	}
	return customerToResponse(c), nil
}

func (s *catalogService) GetCustomer(ctx context.Context, id uuid.UUID) (*dto.CustomerResponse, error) {
	c, err := s.customers.FindByID(ctx, id)
	if err != nil {
		return nil, lookupErr(err, "customer", id)
	}
	return customerToResponse(c), nil
}

func (s *catalogService) ListCustomers(ctx context.Context, filter dto.CatalogFilter) (*dto.ListResponse[dto.CustomerResponse], error) {
	filter.Normalize()
	list, total, err := s.customers.List(ctx, filter)
	if err != nil {
		return nil, apierror.Store(err, "list customers")
	}
	out := make([]dto.CustomerResponse, 0, len(list))
	for i := range list {
		out = append(out, *customerToResponse(&list[i]))
	}
	return dto.NewList(out, total, filter.Pagination), nil
}

func (s *catalogService) UpdateCustomer(ctx context.Context, id uuid.UUID, req dto.CustomerRequest) (*dto.CustomerResponse, error) {
	c, err := s.customers.FindByID(ctx, id)
	if err != nil {
		return nil, lookupErr(err, "customer", id)
	}
	if err := applyCustomer(c, req); err != nil {
		return nil, err
	}
	if err := s.customers.Update(ctx, c); err != nil {
		return nil, apierror.Store(err, "update customer")
	}
	return customerToResponse(c), nil
}

// DeleteCustomer refuses while sales still reference the customer.
func (s *catalogService) DeleteCustomer(ctx context.Context, id uuid.UUID) error {
	if _, err := s.customers.FindByID(ctx, id); err != nil {
		return lookupErr(err, "customer", id)
	}
	n, err := s.sales.CountByCustomer(ctx, id)
	if err != nil {
		return apierror.Store(err, "count customer sales")
	}
	if n > 0 {
		return apierror.Validation("customer has %d sales", n)
	}
	if err := s.customers.Delete(ctx, id); err != nil {
		return apierror.Store(err, "delete customer")
	}
	return nil
}

func applyCustomer(c *model.Customer, req dto.CustomerRequest) error {
	first := strings.TrimSpace(req.FirstName)
	if first == "" {
		return apierror.Validation("missing required field: first_name")
	}
	if req.LoyaltyPoints < 0 {
		return apierror.Validation("loyalty_points must not be negative")
	}
	c.FirstName = first
	c.LastName = req.LastName
	c.Address = req.Address
	c.Email = req.Email
	c.Phone = req.Phone
	c.LoyaltyPoints = req.LoyaltyPoints
	return nil
}

func customerToResponse(c *model.Customer) *dto.CustomerResponse {
	return &dto.CustomerResponse{
		ID:            c.ID.String(),
		FirstName:     c.FirstName,
		LastName:      c.LastName,
		FullName:      c.FullName(),
		Address:       c.Address,
		Email:         c.Email,
		Phone:         c.Phone,
		LoyaltyPoints: c.LoyaltyPoints,
	}
}
