package service

import (
	"context"
	"fmt"
	"time"

	"github.com/st9-8/mouegne/internal/apierror"
	"github.com/st9-8/mouegne/internal/dto"
	"github.com/st9-8/mouegne/internal/model"
	"github.com/st9-8/mouegne/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// PurchaseService reconciles restocking orders with the ledger. A purchase
// increments stock exactly once, when it is (or becomes) Shipped.
type PurchaseService interface {
	Create(ctx context.Context, req dto.CreatePurchaseRequest) (*dto.PurchaseResponse, error)
	Update(ctx context.Context, id uuid.UUID, req dto.UpdatePurchaseRequest) (*dto.PurchaseResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Get(ctx context.Context, id uuid.UUID) (*dto.PurchaseResponse, error)
	List(ctx context.Context, filter dto.PurchaseFilter) (*dto.ListResponse[dto.PurchaseResponse], error)
}

type purchaseService struct {
	repo    repository.PurchaseRepository
	items   repository.ItemRepository
	vendors repository.VendorRepository
	ledger  Ledger
	now     func() time.Time
}

func NewPurchaseService(
	repo repository.PurchaseRepository,
	items repository.ItemRepository,
	vendors repository.VendorRepository,
	ledger Ledger,
) PurchaseService {
	return &purchaseService{repo: repo, items: items, vendors: vendors, ledger: ledger, now: time.Now}
}

func (s *purchaseService) Create(ctx context.Context, req dto.CreatePurchaseRequest) (*dto.PurchaseResponse, error) {
	itemID, err := parseID("item_id", req.ItemID)
	if err != nil {
		return nil, err
	}
	if req.Quantity <= 0 {
		return nil, apierror.Validation("quantity must be greater than zero")
	}
	status := req.DeliveryStatus
	if status == "" {
		status = model.PurchaseShipped
	}
	if status != model.PurchasePending && status != model.PurchaseShipped {
		return nil, apierror.Validation("invalid delivery_status: %q", status)
	}
	vendorID, err := s.resolveVendor(ctx, req.VendorID)
	if err != nil {
		return nil, err
	}
	orderDate := s.now()
	if od, err := parseOptionalDate("order_date", req.OrderDate); err != nil {
		return nil, err
	} else if od != nil {
		orderDate = *od
	}
	deliveryDate, err := parseOptionalDate("delivery_date", req.DeliveryDate)
	if err != nil {
		return nil, err
	}

	var p model.Purchase
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		item, err := s.items.FindByIDTx(tx, itemID)
		if err != nil {
			return lookupErr(err, "item", itemID)
		}
		if vendorID == nil {
			vendorID = item.VendorID
		}
		p = model.Purchase{
			ItemID:         itemID,
			VendorID:       vendorID,
			Description:    req.Description,
			Quantity:       req.Quantity,
			Price:          item.PurchasePrice,
			OrderDate:      orderDate,
			DeliveryDate:   deliveryDate,
			DeliveryStatus: status,
		}
		if p.Shipped() && p.DeliveryDate == nil {
			now := s.now()
			p.DeliveryDate = &now
		}
		if err := s.repo.CreateTx(tx, &p); err != nil {
			return apierror.Store(err, "create purchase")
		}
		if p.Shipped() {
			return s.receive(ctx, tx, &p)
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}
	log.Info().
		Str("purchase_id", p.ID.String()).
		Str("status", p.DeliveryStatus).
		Int("quantity", p.Quantity).
		Msg("purchase recorded")
	return s.Get(ctx, p.ID)
}

// Update applies edits and the single allowed transition, Pending → Shipped,
// which increments the ledger by the updated quantity.
func (s *purchaseService) Update(ctx context.Context, id uuid.UUID, req dto.UpdatePurchaseRequest) (*dto.PurchaseResponse, error) {
	vendorID, err := s.resolveVendor(ctx, req.VendorID)
	if err != nil {
		return nil, err
	}
	deliveryDate, err := parseOptionalDate("delivery_date", req.DeliveryDate)
	if err != nil {
		return nil, err
	}

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		p, err := s.repo.LockByIDTx(tx, id)
		if err != nil {
			return lookupErr(err, "purchase", id)
		}
		wasShipped := p.Shipped()

		if req.DeliveryStatus != nil {
			next := *req.DeliveryStatus
			if next != model.PurchasePending && next != model.PurchaseShipped {
				return apierror.Validation("invalid delivery_status: %q", next)
			}
			if wasShipped && next == model.PurchasePending {
				return apierror.Validation("a shipped purchase cannot go back to pending")
			}
			p.DeliveryStatus = next
		}
		if req.Quantity != nil {
			if *req.Quantity <= 0 {
				return apierror.Validation("quantity must be greater than zero")
			}
			if wasShipped && *req.Quantity != p.Quantity {
				return apierror.Validation("the quantity of a shipped purchase cannot change")
			}
			p.Quantity = *req.Quantity
		}
		if req.Description != nil {
			p.Description = req.Description
		}
		if deliveryDate != nil {
			p.DeliveryDate = deliveryDate
		}

		item, err := s.items.FindByIDTx(tx, p.ItemID)
		if err != nil {
			return lookupErr(err, "item", p.ItemID)
		}
		p.Price = item.PurchasePrice
		switch {
		case vendorID != nil:
			p.VendorID = vendorID
		case p.VendorID == nil:
			p.VendorID = item.VendorID
		}

		received := !wasShipped && p.Shipped()
		if received && p.DeliveryDate == nil {
			now := s.now()
			p.DeliveryDate = &now
		}
		if err := s.repo.UpdateTx(tx, p); err != nil {
			return apierror.Store(err, "update purchase")
		}
		if received {
			return s.receive(ctx, tx, p)
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}
	return s.Get(ctx, id)
}

// Delete removes the purchase. Only a shipped purchase ever moved stock, so
// only a shipped purchase is reversed; the reversal stops at zero.
func (s *purchaseService) Delete(ctx context.Context, id uuid.UUID) error {
	return runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		p, err := s.repo.LockByIDTx(tx, id)
		if err != nil {
			return lookupErr(err, "purchase", id)
		}
		if err := s.repo.DeleteTx(tx, id); err != nil {
			return apierror.Store(err, "delete purchase")
		}
		if !p.Shipped() {
			return nil
		}
		ref := p.ID
		_, err = s.ledger.DecrementClamped(ctx, tx, p.ItemID, p.Quantity, LedgerRef{
			Type:        model.MovementPurchaseReversed,
			ReferenceID: &ref,
			Reason:      fmt.Sprintf("purchase %s deleted", p.ID),
		})
		return err
	})
}

func (s *purchaseService) Get(ctx context.Context, id uuid.UUID) (*dto.PurchaseResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupErr(err, "purchase", id)
	}
	return purchaseToResponse(p), nil
}

func (s *purchaseService) List(ctx context.Context, filter dto.PurchaseFilter) (*dto.ListResponse[dto.PurchaseResponse], error) {
	filter.Normalize()
	purchases, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, apierror.Store(err, "list purchases")
	}
	out := make([]dto.PurchaseResponse, 0, len(purchases))
	for i := range purchases {
		out = append(out, *purchaseToResponse(&purchases[i]))
	}
	return dto.NewList(out, total, filter.Pagination), nil
}

func (s *purchaseService) receive(ctx context.Context, tx *gorm.DB, p *model.Purchase) error {
	ref := p.ID
	_, err := s.ledger.Increment(ctx, tx, p.ItemID, p.Quantity, LedgerRef{
		Type:        model.MovementPurchaseReceived,
		ReferenceID: &ref,
		Reason:      fmt.Sprintf("purchase %s received", p.ID),
	})
	return err
}

func (s *purchaseService) resolveVendor(ctx context.Context, raw *string) (*uuid.UUID, error) {
	id, err := parseOptionalID("vendor_id", raw)
	if err != nil || id == nil {
		return nil, err
	}
	if _, err := s.vendors.FindByID(ctx, *id); err != nil {
		return nil, lookupErr(err, "vendor", *id)
	}
	return id, nil
}

func purchaseToResponse(p *model.Purchase) *dto.PurchaseResponse {
	resp := &dto.PurchaseResponse{
		ID:             p.ID.String(),
		ItemID:         p.ItemID.String(),
		VendorID:       idString(p.VendorID),
		Description:    p.Description,
		Quantity:       p.Quantity,
		Price:          p.Price,
		TotalValue:     p.TotalValue(),
		OrderDate:      formatTime(p.OrderDate),
		DeliveryDate:   formatOptionalTime(p.DeliveryDate),
		DeliveryStatus: p.DeliveryStatus,
	}
	if p.Item != nil {
		resp.ItemName = p.Item.Name
	}
	if p.Vendor != nil {
		resp.VendorName = p.Vendor.Name
	}
	return resp
}
