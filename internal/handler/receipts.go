package handler

import (
	"net/http"
	"path/filepath"

	"github.com/st9-8/mouegne/internal/dto"
	"github.com/st9-8/mouegne/internal/service"

	"github.com/gin-gonic/gin"
)

type ReceiptsHandler struct{ svc service.ReceiptService }

func NewReceiptsHandler(svc service.ReceiptService) *ReceiptsHandler {
	return &ReceiptsHandler{svc: svc}
}

// Get godoc
// @Summary      Receipt metadata and print status
// @Tags         receipts
// @Produce      json
// @Security     BearerAuth
// @Param        id  path     string true "Receipt UUID"
// @Success      200 {object} apierror.Envelope{data=dto.ReceiptResponse}
// @Failure      404 {object} apierror.Envelope
// @Router       /v1/receipts/{id} [get]
func (h *ReceiptsHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	resp, err := h.svc.Get(c.Request.Context(), id)
	writeResult(c, http.StatusOK, "", resp, err)
}

// PDF godoc
// @Summary      Download the receipt PDF
// @Tags         receipts
// @Produce      application/pdf
// @Security     BearerAuth
// @Param        id  path string true "Receipt UUID"
// @Success      200 {file} binary
// @Failure      404 {object} apierror.Envelope
// @Router       /v1/receipts/{id}/pdf [get]
func (h *ReceiptsHandler) PDF(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	path, err := h.svc.PDFPath(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Header("Content-Type", "application/pdf")
	c.FileAttachment(path, filepath.Base(path))
}

// Reprint godoc
// @Summary      Print a receipt again
// @Tags         receipts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path     string             true  "Receipt UUID"
// @Param        body body     dto.ReprintRequest false "Printer override"
// @Success      202  {object} apierror.Envelope
// @Router       /v1/receipts/{id}/print [post]
func (h *ReceiptsHandler) Reprint(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req dto.ReprintRequest
	if c.Request.ContentLength > 0 && !bindAndValidate(c, &req) {
		return
	}
	if err := h.svc.Reprint(c.Request.Context(), id, req); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusAccepted, "Receipt sent to printer", nil, "")
}

// Printers godoc
// @Summary      Available printers
// @Tags         receipts
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} apierror.Envelope{data=[]dto.PrinterResponse}
// @Router       /v1/printers [get]
func (h *ReceiptsHandler) Printers(c *gin.Context) {
	resp, err := h.svc.Printers(c.Request.Context())
	writeResult(c, http.StatusOK, "", resp, err)
}
