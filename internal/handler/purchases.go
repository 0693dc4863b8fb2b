package handler

import (
	"net/http"

	"github.com/st9-8/mouegne/internal/dto"
	"github.com/st9-8/mouegne/internal/service"

	"github.com/gin-gonic/gin"
)

type PurchasesHandler struct{ svc service.PurchaseService }

func NewPurchasesHandler(svc service.PurchaseService) *PurchasesHandler {
	return &PurchasesHandler{svc: svc}
}

// Create godoc
// @Summary      Record a purchase
// @Description  The unit price is copied from the item's purchase price. A shipped purchase (the default) adds its quantity to stock immediately; a pending one waits for the transition to shipped.
// @Tags         purchases
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body     dto.CreatePurchaseRequest true "Purchase"
// @Success      201  {object} apierror.Envelope{data=dto.PurchaseResponse}
// @Failure      400  {object} apierror.Envelope
// @Failure      404  {object} apierror.Envelope
// @Router       /v1/purchases [post]
func (h *PurchasesHandler) Create(c *gin.Context) {
	var req dto.CreatePurchaseRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Create(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusCreated, "Purchase created successfully!", resp, "")
}

// Update godoc
// @Summary      Update a purchase
// @Description  Pending → shipped adds the quantity to stock. A shipped purchase cannot go back to pending nor change quantity.
// @Tags         purchases
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path     string                    true "Purchase UUID"
// @Param        body body     dto.UpdatePurchaseRequest true "Fields to change"
// @Success      200  {object} apierror.Envelope{data=dto.PurchaseResponse}
// @Failure      400  {object} apierror.Envelope
// @Failure      404  {object} apierror.Envelope
// @Router       /v1/purchases/{id} [put]
func (h *PurchasesHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req dto.UpdatePurchaseRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Update(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "Purchase updated", resp, "")
}

// Delete godoc
// @Summary      Delete a purchase
// @Description  A shipped purchase takes its quantity back out of stock, stopping at zero.
// @Tags         purchases
// @Security     BearerAuth
// @Param        id  path string true "Purchase UUID"
// @Success      200 {object} apierror.Envelope
// @Failure      404 {object} apierror.Envelope
// @Router       /v1/purchases/{id} [delete]
func (h *PurchasesHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "Purchase deleted", nil, "")
}

// Get godoc
// @Summary      Get a purchase
// @Tags         purchases
// @Produce      json
// @Security     BearerAuth
// @Param        id  path     string true "Purchase UUID"
// @Success      200 {object} apierror.Envelope{data=dto.PurchaseResponse}
// @Failure      404 {object} apierror.Envelope
// @Router       /v1/purchases/{id} [get]
func (h *PurchasesHandler) Get(c *gin.Context) {
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
// @Summary      List purchases
// @Tags         purchases
// @Produce      json
// @Security     BearerAuth
// @Param        status  query string false "P | S"
// @Param        item_id query string false "Item UUID"
// @Param        page    query int    false "Page"
// @Param        limit   query int    false "Page size"
// @Success      200 {object} apierror.Envelope{data=dto.ListResponse[dto.PurchaseResponse]}
// @Router       /v1/purchases [get]
func (h *PurchasesHandler) List(c *gin.Context) {
	var filter dto.PurchaseFilter
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
