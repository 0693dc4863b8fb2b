package service

import (
	"context"
	"errors"
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

type SaleService interface {
	Create(ctx context.Context, req dto.CreateSaleRequest) (*dto.SaleResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*dto.SaleResponse, error)
	List(ctx context.Context, filter dto.SaleFilter) (*dto.ListResponse[dto.SaleResponse], error)
	// Delete removes a sale and its lines. Stock is not restored.
	Delete(ctx context.Context, id uuid.UUID) error
}

type saleService struct {
	repo       repository.SaleRepository
	customers  repository.CustomerRepository
	ledger     Ledger
	dispatcher ReceiptDispatcher
}

func NewSaleService(
	repo repository.SaleRepository,
	customers repository.CustomerRepository,
	ledger Ledger,
	dispatcher ReceiptDispatcher,
) SaleService {
	return &saleService{repo: repo, customers: customers, ledger: ledger, dispatcher: dispatcher}
}

// ── Create ────────────────────────────────────────────────────────────────────
// One transaction:
//   1. Customer must exist
//   2. Persist the sale header
//   3. For each line: decrement the ledger (row lock + stock check), persist the SaleDetail
//   4. COMMIT
//   5. (async) queue the receipt: a failure only adds a warning

func (s *saleService) Create(ctx context.Context, req dto.CreateSaleRequest) (*dto.SaleResponse, error) {
	customerID, err := parseID("customer", req.Customer)
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

	var (
		sale     model.Sale
		customer *model.Customer
	)
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		customer, err = s.customers.FindByIDTx(tx, customerID)
		if err != nil {
			return lookupErr(err, "customer", customerID)
		}

		sale = model.Sale{
			CustomerID:    customerID,
			SubTotal:      fin.subTotal,
			GrandTotal:    fin.grandTotal,
			TaxAmount:     fin.taxAmount,
			TaxPercentage: fin.taxPercentage,
			AmountPaid:    fin.amountPaid,
			AmountChange:  fin.amountChange,
		}
		if err := s.repo.CreateTx(tx, &sale); err != nil {
			return apierror.Store(err, "create sale")
		}

		ids := make([]uuid.UUID, len(lines))
		for i, l := range lines {
			ids[i] = l.itemID
		}
		items := make([]*model.Item, len(lines))
		saleRef := sale.ID
		for _, i := range lockOrder(ids) {
			mov, err := s.ledger.Decrement(ctx, tx, lines[i].itemID, lines[i].quantity, LedgerRef{
				Type:        model.MovementSale,
				ReferenceID: &saleRef,
				Reason:      fmt.Sprintf("sale %s", sale.ID),
			})
			if err != nil {
				return err
			}
			items[i] = mov.Item
		}

		for i, l := range lines {
			detail := model.SaleDetail{
				SaleID:      sale.ID,
				ItemID:      l.itemID,
				Price:       l.price,
				Quantity:    l.quantity,
				TotalDetail: l.total,
			}
			if err := s.repo.CreateDetailTx(tx, &detail); err != nil {
				return apierror.Store(err, "create sale detail")
			}
			detail.Item = items[i]
			sale.Details = append(sale.Details, detail)
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}
	sale.Customer = customer

	log.Info().
		Str("sale_id", sale.ID.String()).
		Int("lines", len(sale.Details)).
		Str("grand_total", sale.GrandTotal.String()).
		Msg("sale registered")

	resp := saleToResponse(&sale)
	resp.Warning = dispatchReceipt(ctx, s.dispatcher, model.ReceiptSale, sale.ID)
	return resp, nil
}

func (s *saleService) Get(ctx context.Context, id uuid.UUID) (*dto.SaleResponse, error) {
	sale, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupErr(err, "sale", id)
	}
	return saleToResponse(sale), nil
}

func (s *saleService) List(ctx context.Context, filter dto.SaleFilter) (*dto.ListResponse[dto.SaleResponse], error) {
	filter.Normalize()
	f := repository.SaleListFilter{Offset: filter.Offset(), Limit: filter.Limit}
	if filter.CustomerID != "" {
		id, err := parseID("customer_id", filter.CustomerID)
		if err != nil {
			return nil, err
		}
		f.CustomerID = &id
	}
	if filter.From != "" {
		from, err := parseDate("from", filter.From)
		if err != nil {
			return nil, err
		}
		f.From = &from
	}
	if filter.To != "" {
		to, err := parseDate("to", filter.To)
		if err != nil {
			return nil, err
		}
		// "to" is an inclusive calendar day
		end := to.AddDate(0, 0, 1)
		f.To = &end
	}

	sales, total, err := s.repo.List(ctx, f)
	if err != nil {
		return nil, apierror.Store(err, "list sales")
	}
	out := make([]dto.SaleResponse, 0, len(sales))
	for i := range sales {
		out = append(out, *saleToResponse(&sales[i]))
	}
	return dto.NewList(out, total, filter.Pagination), nil
}

func (s *saleService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return lookupErr(err, "sale", id)
	}
	return runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		return s.repo.DeleteTx(tx, id)
	})
}

// startOfDay truncates t to local midnight.
func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func saleToResponse(s *model.Sale) *dto.SaleResponse {
	details := make([]dto.LineItemResponse, 0, len(s.Details))
	for _, d := range s.Details {
		name := ""
		if d.Item != nil {
			name = d.Item.Name
		}
		details = append(details, dto.LineItemResponse{
			ItemID:      d.ItemID.String(),
			ItemName:    name,
			Price:       d.Price,
			Quantity:    d.Quantity,
			TotalDetail: d.TotalDetail,
		})
	}
	customerName := ""
	if s.Customer != nil {
		customerName = s.Customer.FullName()
	}
	return &dto.SaleResponse{
		ID:            s.ID.String(),
		CustomerID:    s.CustomerID.String(),
		CustomerName:  customerName,
		DeliveryID:    idString(s.DeliveryID),
		SubTotal:      s.SubTotal,
		GrandTotal:    s.GrandTotal,
		TaxAmount:     s.TaxAmount,
		TaxPercentage: s.TaxPercentage,
		AmountPaid:    s.AmountPaid,
		AmountChange:  s.AmountChange,
		Details:       details,
		CreatedAt:     formatTime(s.CreatedAt),
	}
}

// isNotFound reports whether err is a gorm "no rows" error.
func isNotFound(err error) bool { return errors.Is(err, gorm.ErrRecordNotFound) }
