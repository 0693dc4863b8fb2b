package handler

import (
	"net/http"

	"github.com/st9-8/mouegne/internal/dto"
	"github.com/st9-8/mouegne/internal/model"
	"github.com/st9-8/mouegne/internal/service"

	"github.com/gin-gonic/gin"
)

type SalesHandler struct {
	svc      service.SaleService
	receipts service.ReceiptService
}

func NewSalesHandler(svc service.SaleService, receipts service.ReceiptService) *SalesHandler {
	return &SalesHandler{svc: svc, receipts: receipts}
}

// Create godoc
// @Summary      Register a sale
// @Description  Atomically records the sale and its lines and decrements stock for every line. The receipt is printed asynchronously; a dispatch failure is reported as a warning.
// @Tags         sales
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body     dto.CreateSaleRequest true "Sale"
// @Success      201  {object} apierror.Envelope{data=dto.SaleResponse}
// @Failure      400  {object} apierror.Envelope
// @Failure      404  {object} apierror.Envelope
// @Failure      409  {object} apierror.Envelope "insufficient stock"
// @Router       /v1/sales [post]
func (h *SalesHandler) Create(c *gin.Context) {
	var req dto.CreateSaleRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Create(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusCreated, "Sale created successfully!", resp, resp.Warning)
}

// Get godoc
// @Summary      Get a sale
// @Tags         sales
// @Produce      json
// @Security     BearerAuth
// @Param        id  path     string true "Sale UUID"
// @Success      200 {object} apierror.Envelope{data=dto.SaleResponse}
// @Failure      404 {object} apierror.Envelope
// @Router       /v1/sales/{id} [get]
func (h *SalesHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	resp, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "", resp, "")
}

// List godoc
// @Summary      List sales
// @Tags         sales
// @Produce      json
// @Security     BearerAuth
// @Param        customer_id query string false "Customer UUID"
// @Param        from        query string false "From date (YYYY-MM-DD)"
// @Param        to          query string false "To date, inclusive (YYYY-MM-DD)"
// @Param        page        query int    false "Page"
// @Param        limit       query int    false "Page size"
// @Success      200 {object} apierror.Envelope{data=dto.ListResponse[dto.SaleResponse]}
// @Router       /v1/sales [get]
func (h *SalesHandler) List(c *gin.Context) {
	var filter dto.SaleFilter
	if !bindQuery(c, &filter) {
		return
	}
	resp, err := h.svc.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "", resp, "")
}

// Delete godoc
// @Summary      Delete a sale
// @Description  Removes the sale and its lines. Stock is not restored.
// @Tags         sales
// @Security     BearerAuth
// @Param        id  path string true "Sale UUID"
// @Success      200 {object} apierror.Envelope
// @Failure      404 {object} apierror.Envelope
// @Router       /v1/sales/{id} [delete]
func (h *SalesHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "Sale deleted", nil, "")
}

// Receipt godoc
// @Summary      Latest receipt of a sale
// @Tags         sales
// @Produce      json
// @Security     BearerAuth
// @Param        id  path     string true "Sale UUID"
// @Success      200 {object} apierror.Envelope{data=dto.ReceiptResponse}
// @Failure      404 {object} apierror.Envelope
// @Router       /v1/sales/{id}/receipt [get]
func (h *SalesHandler) Receipt(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	resp, err := h.receipts.ForReference(c.Request.Context(), model.ReceiptSale, id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "", resp, "")
}
