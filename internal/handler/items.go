package handler

import (
	"net/http"

	"github.com/st9-8/mouegne/internal/dto"
	"github.com/st9-8/mouegne/internal/service"

	"github.com/gin-gonic/gin"
)

type ItemsHandler struct{ svc service.ItemService }

func NewItemsHandler(svc service.ItemService) *ItemsHandler { return &ItemsHandler{svc: svc} }

// Create godoc
// @Summary      Create an item
// @Description  Stock starts at zero; it only changes through purchases, sales and deliveries.
// @Tags         items
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body     dto.CreateItemRequest true "Item"
// @Success      201  {object} apierror.Envelope{data=dto.ItemResponse}
// @Failure      400  {object} apierror.Envelope
// @Router       /v1/items [post]
func (h *ItemsHandler) Create(c *gin.Context) {
	var req dto.CreateItemRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Create(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusCreated, "Item created", resp, "")
}

// Get godoc
// @Summary      Get an item
// @Tags         items
// @Produce      json
// @Security     BearerAuth
// @Param        id  path     string true "Item UUID"
// @Success      200 {object} apierror.Envelope{data=dto.ItemResponse}
// @Failure      404 {object} apierror.Envelope
// @Router       /v1/items/{id} [get]
func (h *ItemsHandler) Get(c *gin.Context) {
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
// @Summary      List items
// @Tags         items
// @Produce      json
// @Security     BearerAuth
// @Param        q           query string false "Name contains"
// @Param        category_id query string false "Category UUID"
// @Param        vendor_id   query string false "Vendor UUID"
// @Param        page        query int    false "Page"
// @Param        limit       query int    false "Page size"
// @Success      200 {object} apierror.Envelope{data=dto.ListResponse[dto.ItemResponse]}
// @Router       /v1/items [get]
func (h *ItemsHandler) List(c *gin.Context) {
	var filter dto.ItemFilter
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

// Update godoc
// @Summary      Update an item
// @Description  Catalog fields only; quantity is not writable.
// @Tags         items
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path     string                true "Item UUID"
// @Param        body body     dto.UpdateItemRequest true "Fields to change"
// @Success      200  {object} apierror.Envelope{data=dto.ItemResponse}
// @Router       /v1/items/{id} [put]
func (h *ItemsHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req dto.UpdateItemRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Update(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "Item updated", resp, "")
}

// Delete godoc
// @Summary      Delete an item
// @Description  Refused while purchases, sales or deliveries reference the item.
// @Tags         items
// @Security     BearerAuth
// @Param        id  path string true "Item UUID"
// @Success      200 {object} apierror.Envelope
// @Failure      400 {object} apierror.Envelope
// @Router       /v1/items/{id} [delete]
func (h *ItemsHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "Item deleted", nil, "")
}

// LowStock godoc
// @Summary      Items at or below the low-stock threshold
// @Tags         items
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} apierror.Envelope{data=[]dto.ItemResponse}
// @Router       /v1/items/low-stock [get]
func (h *ItemsHandler) LowStock(c *gin.Context) {
	resp, err := h.svc.LowStock(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "", resp, "")
}

// Movements godoc
// @Summary      Stock movement audit trail
// @Tags         items
// @Produce      json
// @Security     BearerAuth
// @Param        item_id query string false "Item UUID"
// @Param        type    query string false "purchase_received | purchase_reversed | sale | delivery_confirmed"
// @Param        page    query int    false "Page"
// @Param        limit   query int    false "Page size"
// @Success      200 {object} apierror.Envelope{data=dto.ListResponse[dto.MovementResponse]}
// @Router       /v1/stock-movements [get]
func (h *ItemsHandler) Movements(c *gin.Context) {
	var filter dto.MovementFilter
	if !bindQuery(c, &filter) {
		return
	}
	resp, err := h.svc.Movements(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "", resp, "")
}
