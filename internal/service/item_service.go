package service

import (
	"context"
	"strings"

	"github.com/st9-8/mouegne/internal/apierror"
	"github.com/st9-8/mouegne/internal/dto"
	"github.com/st9-8/mouegne/internal/model"
	"github.com/st9-8/mouegne/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ItemService manages the item catalog. Quantities are read-only here.
type ItemService interface {
	Create(ctx context.Context, req dto.CreateItemRequest) (*dto.ItemResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*dto.ItemResponse, error)
	List(ctx context.Context, filter dto.ItemFilter) (*dto.ListResponse[dto.ItemResponse], error)
	Update(ctx context.Context, id uuid.UUID, req dto.UpdateItemRequest) (*dto.ItemResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
	LowStock(ctx context.Context) ([]dto.ItemResponse, error)
	Movements(ctx context.Context, filter dto.MovementFilter) (*dto.ListResponse[dto.MovementResponse], error)
}

type itemService struct {
	repo       repository.ItemRepository
	categories repository.CategoryRepository
	vendors    repository.VendorRepository
	movements  repository.StockMovementRepository
	threshold  int
}

func NewItemService(
	repo repository.ItemRepository,
	categories repository.CategoryRepository,
	vendors repository.VendorRepository,
	movements repository.StockMovementRepository,
	lowStockThreshold int,
) ItemService {
	return &itemService{
		repo:       repo,
		categories: categories,
		vendors:    vendors,
		movements:  movements,
		threshold:  lowStockThreshold,
	}
}

func (s *itemService) Create(ctx context.Context, req dto.CreateItemRequest) (*dto.ItemResponse, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, apierror.Validation("missing required field: name")
	}
	if err := checkPrices(req.Price, req.PurchasePrice); err != nil {
		return nil, err
	}
	categoryID, err := s.resolveCategory(ctx, req.CategoryID)
	if err != nil {
		return nil, err
	}
	vendorID, err := s.resolveVendor(ctx, req.VendorID)
	if err != nil {
		return nil, err
	}
	expiring, err := parseOptionalDate("expiring_date", req.ExpiringDate)
	if err != nil {
		return nil, err
	}

	item := &model.Item{
		Name:          name,
		Description:   req.Description,
		CategoryID:    categoryID,
		Price:         req.Price,
		PurchasePrice: req.PurchasePrice,
		VendorID:      vendorID,
		ExpiringDate:  expiring,
	}
	if err := s.repo.Create(ctx, item); err != nil {
		return nil, apierror.Store(err, "create item")
	}
	return s.Get(ctx, item.ID)
}

func (s *itemService) Get(ctx context.Context, id uuid.UUID) (*dto.ItemResponse, error) {
	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupErr(err, "item", id)
	}
	return s.toResponse(item), nil
}

func (s *itemService) List(ctx context.Context, filter dto.ItemFilter) (*dto.ListResponse[dto.ItemResponse], error) {
	filter.Normalize()
	items, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, apierror.Store(err, "list items")
	}
	out := make([]dto.ItemResponse, 0, len(items))
	for i := range items {
		out = append(out, *s.toResponse(&items[i]))
	}
	return dto.NewList(out, total, filter.Pagination), nil
}

func (s *itemService) Update(ctx context.Context, id uuid.UUID, req dto.UpdateItemRequest) (*dto.ItemResponse, error) {
	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupErr(err, "item", id)
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, apierror.Validation("name must not be empty")
		}
		item.Name = name
	}
	if req.Description != nil {
		item.Description = *req.Description
	}
	if req.Price != nil {
		item.Price = *req.Price
	}
	if req.PurchasePrice != nil {
		item.PurchasePrice = *req.PurchasePrice
	}
	if err := checkPrices(item.Price, item.PurchasePrice); err != nil {
		return nil, err
	}
	if req.CategoryID != nil {
		if item.CategoryID, err = s.resolveCategory(ctx, *req.CategoryID); err != nil {
			return nil, err
		}
	}
	if req.VendorID != nil {
		if item.VendorID, err = s.resolveVendor(ctx, req.VendorID); err != nil {
			return nil, err
		}
	}
	if req.ExpiringDate != nil {
		if item.ExpiringDate, err = parseOptionalDate("expiring_date", req.ExpiringDate); err != nil {
			return nil, err
		}
	}

	if err := s.repo.Update(ctx, item); err != nil {
		return nil, apierror.Store(err, "update item")
	}
	return s.Get(ctx, id)
}

// Delete refuses to remove an item that any purchase, sale or delivery
// line, or any stock movement, still points at.
func (s *itemService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return lookupErr(err, "item", id)
	}
	refs, err := s.repo.CountReferences(ctx, id)
	if err != nil {
		return apierror.Store(err, "count item references")
	}
	if refs > 0 {
		return apierror.Validation("item is referenced by %d purchase, sale, delivery or stock movement rows", refs)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return apierror.Store(err, "delete item")
	}
	return nil
}

func (s *itemService) LowStock(ctx context.Context) ([]dto.ItemResponse, error) {
	items, err := s.repo.ListLowStock(ctx, s.threshold)
	if err != nil {
		return nil, apierror.Store(err, "list low stock")
	}
	out := make([]dto.ItemResponse, 0, len(items))
	for i := range items {
		out = append(out, *s.toResponse(&items[i]))
	}
	return out, nil
}

func (s *itemService) Movements(ctx context.Context, filter dto.MovementFilter) (*dto.ListResponse[dto.MovementResponse], error) {
	filter.Normalize()
	movs, total, err := s.movements.List(ctx, filter)
	if err != nil {
		return nil, apierror.Store(err, "list stock movements")
	}
	out := make([]dto.MovementResponse, 0, len(movs))
	for _, m := range movs {
		name := ""
		if m.Item != nil {
			name = m.Item.Name
		}
		out = append(out, dto.MovementResponse{
			ID:             m.ID.String(),
			ItemID:         m.ItemID.String(),
			ItemName:       name,
			Type:           m.Type,
			Delta:          m.Delta,
			QuantityBefore: m.QuantityBefore,
			QuantityAfter:  m.QuantityAfter,
			Reason:         m.Reason,
			ReferenceID:    idString(m.ReferenceID),
			CreatedAt:      formatTime(m.CreatedAt),
		})
	}
	return dto.NewList(out, total, filter.Pagination), nil
}

func (s *itemService) resolveCategory(ctx context.Context, raw string) (uuid.UUID, error) {
	id, err := parseID("category_id", raw)
	if err != nil {
		return uuid.Nil, err
	}
	if _, err := s.categories.FindByID(ctx, id); err != nil {
		return uuid.Nil, lookupErr(err, "category", id)
	}
	return id, nil
}

func (s *itemService) resolveVendor(ctx context.Context, raw *string) (*uuid.UUID, error) {
	id, err := parseOptionalID("vendor_id", raw)
	if err != nil || id == nil {
		return nil, err
	}
	if _, err := s.vendors.FindByID(ctx, *id); err != nil {
		return nil, lookupErr(err, "vendor", *id)
	}
	return id, nil
}

func checkPrices(price, purchasePrice decimal.Decimal) error {
	if price.IsNegative() {
		return apierror.Validation("price must not be negative")
	}
	if purchasePrice.IsNegative() {
		return apierror.Validation("purchase_price must not be negative")
	}
	return nil
}

func (s *itemService) toResponse(i *model.Item) *dto.ItemResponse {
	resp := &dto.ItemResponse{
		ID:            i.ID.String(),
		Name:          i.Name,
		Description:   i.Description,
		CategoryID:    i.CategoryID.String(),
		Quantity:      i.Quantity,
		Price:         i.Price,
		PurchasePrice: i.PurchasePrice,
		VendorID:      idString(i.VendorID),
		ExpiringDate:  formatOptionalTime(i.ExpiringDate),
		LowStock:      i.Quantity <= s.threshold,
	}
	if i.Category != nil {
		resp.CategoryName = i.Category.Name
	}
	return resp
}
