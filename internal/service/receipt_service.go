package service

import (
	"context"
	"path/filepath"

	"github.com/st9-8/mouegne/internal/apierror"
	"github.com/st9-8/mouegne/internal/dto"
	"github.com/st9-8/mouegne/internal/model"
	"github.com/st9-8/mouegne/internal/repository"

	"github.com/google/uuid"
)

// PrinterLister enumerates the printers known to the print system.
type PrinterLister interface {
	ListPrinters(ctx context.Context) (names []string, defaultName string, err error)
}

type ReceiptService interface {
	Get(ctx context.Context, id uuid.UUID) (*dto.ReceiptResponse, error)
	// ForReference returns the newest receipt of a sale or a delivery.
	ForReference(ctx context.Context, kind string, referenceID uuid.UUID) (*dto.ReceiptResponse, error)
	PDFPath(ctx context.Context, id uuid.UUID) (string, error)
	Reprint(ctx context.Context, id uuid.UUID, req dto.ReprintRequest) error
	Printers(ctx context.Context) ([]dto.PrinterResponse, error)
}

type receiptService struct {
	repo        repository.ReceiptRepository
	dispatcher  ReceiptDispatcher
	printers    PrinterLister
	storagePath string
}

func NewReceiptService(
	repo repository.ReceiptRepository,
	dispatcher ReceiptDispatcher,
	printers PrinterLister,
	storagePath string,
) ReceiptService {
	return &receiptService{repo: repo, dispatcher: dispatcher, printers: printers, storagePath: storagePath}
}

func (s *receiptService) Get(ctx context.Context, id uuid.UUID) (*dto.ReceiptResponse, error) {
	rc, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupErr(err, "receipt", id)
	}
	return receiptToResponse(rc), nil
}

func (s *receiptService) ForReference(ctx context.Context, kind string, referenceID uuid.UUID) (*dto.ReceiptResponse, error) {
	rc, err := s.repo.FindLatestByReference(ctx, kind, referenceID)
	if err != nil {
		return nil, lookupErr(err, kind+" receipt", referenceID)
	}
	return receiptToResponse(rc), nil
}

// PDFPath resolves the stored document of a receipt on disk.
func (s *receiptService) PDFPath(ctx context.Context, id uuid.UUID) (string, error) {
	rc, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return "", lookupErr(err, "receipt", id)
	}
	if rc.PDFPath == nil || *rc.PDFPath == "" {
		return "", apierror.NotFound("receipt %s has no document yet (status %s)", id, rc.Status)
	}
	return filepath.Join(s.storagePath, filepath.Clean("/"+*rc.PDFPath)), nil
}

func (s *receiptService) Reprint(ctx context.Context, id uuid.UUID, req dto.ReprintRequest) error {
	rc, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return lookupErr(err, "receipt", id)
	}
	if rc.PDFPath == nil {
		return apierror.Validation("receipt %s has no document to print", id)
	}
	if s.dispatcher == nil {
		return apierror.Store(nil, "printing is disabled")
	}
	if err := s.dispatcher.EnqueueReprint(ctx, id, req.Printer); err != nil {
		return apierror.Store(err, "queue reprint")
	}
	return nil
}

func (s *receiptService) Printers(ctx context.Context) ([]dto.PrinterResponse, error) {
	if s.printers == nil {
		return []dto.PrinterResponse{}, nil
	}
	names, def, err := s.printers.ListPrinters(ctx)
	if err != nil {
		return nil, apierror.Store(err, "list printers")
	}
	out := make([]dto.PrinterResponse, 0, len(names))
	for _, n := range names {
		out = append(out, dto.PrinterResponse{Name: n, Default: n == def})
	}
	return out, nil
}

func receiptToResponse(rc *model.Receipt) *dto.ReceiptResponse {
	resp := &dto.ReceiptResponse{
		ID:          rc.ID.String(),
		Kind:        rc.Kind,
		ReferenceID: rc.ReferenceID.String(),
		Status:      rc.Status,
		Printer:     rc.Printer,
		RetryCount:  rc.RetryCount,
		LastError:   rc.LastError,
		CreatedAt:   formatTime(rc.CreatedAt),
	}
	if rc.PDFPath != nil && *rc.PDFPath != "" {
		u := "/v1/receipts/" + rc.ID.String() + "/pdf"
		resp.PDFUrl = &u
	}
	return resp
}
