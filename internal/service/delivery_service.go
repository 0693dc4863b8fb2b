package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/st9-8/mouegne/internal/apierror"
	"github.com/st9-8/mouegne/internal/dto"
	"github.com/st9-8/mouegne/internal/model"
	"github.com/st9-8/mouegne/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// DeliveryService runs the two-phase delivery lifecycle: booking checks stock
// without touching it, confirmation decrements it and derives a Sale.
type DeliveryService interface {
	Create(ctx context.Context, req dto.CreateDeliveryRequest) (*dto.DeliveryResponse, error)
	Confirm(ctx context.Context, id uuid.UUID) (*dto.DeliveryResponse, error)
	Update(ctx context.Context, id uuid.UUID, req dto.UpdateDeliveryRequest) (*dto.DeliveryResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Get(ctx context.Context, id uuid.UUID) (*dto.DeliveryResponse, error)
	List(ctx context.Context, filter dto.DeliveryFilter) (*dto.ListResponse[dto.DeliveryResponse], error)
}

type deliveryService struct {
	repo       repository.DeliveryRepository
	sales      repository.SaleRepository
	customers  repository.CustomerRepository
	ledger     Ledger
	dispatcher ReceiptDispatcher
}

func NewDeliveryService(
	repo repository.DeliveryRepository,
	sales repository.SaleRepository,
	customers repository.CustomerRepository,
	ledger Ledger,
	dispatcher ReceiptDispatcher,
) DeliveryService {
	return &deliveryService{repo: repo, sales: sales, customers: customers, ledger: ledger, dispatcher: dispatcher}
}

func requireText(field, v string) (string, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return "", apierror.Validation("missing required field: %s", field)
	}
	return v, nil
}

// ── Create (phase 1) ──────────────────────────────────────────────────────────

func (s *deliveryService) Create(ctx context.Context, req dto.CreateDeliveryRequest) (*dto.DeliveryResponse, error) {
	name, err := requireText("customer_name", req.CustomerName)
	if err != nil {
		return nil, err
	}
	phone, err := requireText("phone_number", req.PhoneNumber)
	if err != nil {
		return nil, err
	}
	location, err := requireText("location", req.Location)
	if err != nil {
		return nil, err
	}
	deliveryDate, err := parseDate("delivery_date", req.DeliveryDate)
	if err != nil {
		return nil, err
	}
	fin, err := parseFinancials(req.Financials)
	if err != nil {
		return nil, err
	}
	lines, err := parseLines(req.Items)
	if err != nil {
		return nil, err
	}

	delivery := model.Delivery{
		CustomerName:  name,
		PhoneNumber:   phone,
		Location:      location,
		DeliveryDate:  deliveryDate,
		Status:        model.DeliveryNotDelivered,
		SubTotal:      fin.subTotal,
		GrandTotal:    fin.grandTotal,
		TaxAmount:     fin.taxAmount,
		TaxPercentage: fin.taxPercentage,
		AmountPaid:    fin.amountPaid,
		AmountChange:  fin.amountChange,
	}
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		// Booking checks availability only; stock moves on confirmation.
		items := make([]*model.Item, len(lines))
		for i, l := range lines {
			item, err := s.ledger.Check(ctx, tx, l.itemID, l.quantity)
			if err != nil {
				return err
			}
			items[i] = item
		}

		if err := s.repo.CreateTx(tx, &delivery); err != nil {
			return apierror.Store(err, "create delivery")
		}
		for i, l := range lines {
			detail := model.DeliveryDetail{
				DeliveryID:  delivery.ID,
				ItemID:      l.itemID,
				Price:       l.price,
				Quantity:    l.quantity,
				TotalDetail: l.total,
			}
			if err := s.repo.CreateDetailTx(tx, &detail); err != nil {
				return apierror.Store(err, "create delivery detail")
			}
			detail.Item = items[i]
			delivery.Details = append(delivery.Details, detail)
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	log.Info().
		Str("delivery_id", delivery.ID.String()).
		Int("lines", len(delivery.Details)).
		Time("delivery_date", delivery.DeliveryDate).
		Msg("delivery booked")

	resp := deliveryToResponse(&delivery, nil)
	resp.Warning = dispatchReceipt(ctx, s.dispatcher, model.ReceiptDelivery, delivery.ID)
	return resp, nil
}

// ── Confirm (phase 2) ─────────────────────────────────────────────────────────
// One transaction, on the locked delivery row:
//   1. NotFound / AlreadyDelivered guards
//   2. Find-or-create the customer by phone number
//   3. Find-or-create the sale derived from this delivery (keyed by delivery_id)
//   4. Per detail: ledger decrement (re-checks stock) + one SaleDetail
//   5. status = DELIVERED

func (s *deliveryService) Confirm(ctx context.Context, id uuid.UUID) (*dto.DeliveryResponse, error) {
	var (
		delivery *model.Delivery
		sale     *model.Sale
	)
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		var err error
		delivery, err = s.repo.LockByIDTx(tx, id)
		if err != nil {
			return lookupErr(err, "delivery", id)
		}
		if delivery.Delivered() {
			return apierror.AlreadyDelivered("delivery %s is already marked as delivered", id)
		}

		customer, err := s.findOrCreateCustomer(tx, delivery)
		if err != nil {
			return err
		}
		sale, err = s.findOrCreateSale(tx, delivery, customer.ID)
		if err != nil {
			return err
		}

		ids := make([]uuid.UUID, len(delivery.Details))
		for i, d := range delivery.Details {
			ids[i] = d.ItemID
		}
		deliveryRef := delivery.ID
		for _, i := range lockOrder(ids) {
			d := &delivery.Details[i]
			mov, err := s.ledger.Decrement(ctx, tx, d.ItemID, d.Quantity, LedgerRef{
				Type:        model.MovementDeliveryConfirmed,
				ReferenceID: &deliveryRef,
				Reason:      fmt.Sprintf("delivery %s confirmed", delivery.ID),
			})
			if err != nil {
				return err
			}
			d.Item = mov.Item
		}

		for _, d := range delivery.Details {
			detail := model.SaleDetail{
				SaleID:      sale.ID,
				ItemID:      d.ItemID,
				Price:       d.Price,
				Quantity:    d.Quantity,
				TotalDetail: d.TotalDetail,
			}
			if err := s.sales.CreateDetailTx(tx, &detail); err != nil {
				return apierror.Store(err, "create sale detail")
			}
		}

		if err := s.repo.UpdateStatusTx(tx, delivery.ID, model.DeliveryDelivered); err != nil {
			return apierror.Store(err, "mark delivery delivered")
		}
		delivery.Status = model.DeliveryDelivered
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	log.Info().
		Str("delivery_id", delivery.ID.String()).
		Str("sale_id", sale.ID.String()).
		Msg("delivery confirmed")

	resp := deliveryToResponse(delivery, &sale.ID)
	resp.Warning = dispatchReceipt(ctx, s.dispatcher, model.ReceiptDelivery, delivery.ID)
	return resp, nil
}

// findOrCreateCustomer looks the customer up by phone. A new customer takes
// the first word of customer_name as first name, the rest as last name and
// the delivery location as address.
func (s *deliveryService) findOrCreateCustomer(tx *gorm.DB, d *model.Delivery) (*model.Customer, error) {
	existing, err := s.customers.FindByPhoneTx(tx, d.PhoneNumber)
	if err == nil {
		return existing, nil
	}
	if !isNotFound(err) {
		return nil, apierror.Store(err, "find customer by phone")
	}

	first, last := splitCustomerName(d.CustomerName)
	phone := d.PhoneNumber
	address := d.Location
	c := &model.Customer{FirstName: first, Phone: &phone, Address: &address}
	if last != "" {
		c.LastName = &last
	}
	if err := s.customers.CreateTx(tx, c); err != nil {
		return nil, apierror.Store(err, "create customer")
	}
	return c, nil
}

func (s *deliveryService) findOrCreateSale(tx *gorm.DB, d *model.Delivery, customerID uuid.UUID) (*model.Sale, error) {
	existing, err := s.sales.FindByDeliveryIDTx(tx, d.ID)
	if err == nil {
		return existing, nil
	}
	if !isNotFound(err) {
		return nil, apierror.Store(err, "find derived sale")
	}
	deliveryID := d.ID
	sale := &model.Sale{
		CustomerID:    customerID,
		DeliveryID:    &deliveryID,
		SubTotal:      d.SubTotal,
		GrandTotal:    d.GrandTotal,
		TaxAmount:     d.TaxAmount,
		TaxPercentage: d.TaxPercentage,
		AmountPaid:    d.AmountPaid,
		AmountChange:  d.AmountChange,
	}
	if err := s.sales.CreateTx(tx, sale); err != nil {
		return nil, apierror.Store(err, "create derived sale")
	}
	return sale, nil
}

// splitCustomerName splits on whitespace: first word, then the rest.
func splitCustomerName(name string) (first, last string) {
	parts := strings.Fields(name)
	switch len(parts) {
	case 0:
		return "", ""
	case 1:
		return parts[0], ""
	default:
		return parts[0], strings.Join(parts[1:], " ")
	}
}

// ── Update / Delete / Get / List ──────────────────────────────────────────────

func (s *deliveryService) Update(ctx context.Context, id uuid.UUID, req dto.UpdateDeliveryRequest) (*dto.DeliveryResponse, error) {
	fields := map[string]any{}
	for _, f := range []struct {
		column string
		v      *string
	}{
		{"customer_name", req.CustomerName},
		{"phone_number", req.PhoneNumber},
		{"location", req.Location},
	} {
		if f.v == nil {
			continue
		}
		v, err := requireText(f.column, *f.v)
		if err != nil {
			return nil, err
		}
		fields[f.column] = v
	}
	if req.DeliveryDate != nil {
		t, err := parseDate("delivery_date", *req.DeliveryDate)
		if err != nil {
			return nil, err
		}
		fields["delivery_date"] = t
	}

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		d, err := s.repo.LockByIDTx(tx, id)
		if err != nil {
			return lookupErr(err, "delivery", id)
		}
		if d.Delivered() {
			return apierror.AlreadyDelivered("delivery %s is delivered and can no longer be edited", id)
		}
		if err := s.repo.UpdateFieldsTx(tx, id, fields); err != nil {
			return apierror.Store(err, "update delivery")
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}
	return s.Get(ctx, id)
}

func (s *deliveryService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return lookupErr(err, "delivery", id)
	}
	return runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		return s.repo.DeleteTx(tx, id)
	})
}

func (s *deliveryService) Get(ctx context.Context, id uuid.UUID) (*dto.DeliveryResponse, error) {
	d, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupErr(err, "delivery", id)
	}
	var saleID *uuid.UUID
	if d.Delivered() {
		if sale, err := s.sales.FindByDeliveryID(ctx, d.ID); err == nil {
			saleID = &sale.ID
		}
	}
	return deliveryToResponse(d, saleID), nil
}

func (s *deliveryService) List(ctx context.Context, filter dto.DeliveryFilter) (*dto.ListResponse[dto.DeliveryResponse], error) {
	filter.Normalize()
	deliveries, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, apierror.Store(err, "list deliveries")
	}
	out := make([]dto.DeliveryResponse, 0, len(deliveries))
	for i := range deliveries {
		out = append(out, *deliveryToResponse(&deliveries[i], nil))
	}
	return dto.NewList(out, total, filter.Pagination), nil
}

func deliveryToResponse(d *model.Delivery, saleID *uuid.UUID) *dto.DeliveryResponse {
	details := make([]dto.LineItemResponse, 0, len(d.Details))
	for _, det := range d.Details {
		name := ""
		if det.Item != nil {
			name = det.Item.Name
		}
		details = append(details, dto.LineItemResponse{
			ItemID:      det.ItemID.String(),
			ItemName:    name,
			Price:       det.Price,
			Quantity:    det.Quantity,
			TotalDetail: det.TotalDetail,
		})
	}
	return &dto.DeliveryResponse{
		ID:            d.ID.String(),
		CustomerName:  d.CustomerName,
		PhoneNumber:   d.PhoneNumber,
		Location:      d.Location,
		DeliveryDate:  formatTime(d.DeliveryDate),
		Status:        d.Status,
		SubTotal:      d.SubTotal,
		GrandTotal:    d.GrandTotal,
		TaxAmount:     d.TaxAmount,
		TaxPercentage: d.TaxPercentage,
		AmountPaid:    d.AmountPaid,
		AmountChange:  d.AmountChange,
		SumProducts:   d.SumProducts(),
		Details:       details,
		SaleID:        idString(saleID),
		CreatedAt:     formatTime(d.CreatedAt),
	}
}
