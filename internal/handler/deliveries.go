package handler

import (
	"net/http"

	"github.com/st9-8/mouegne/internal/dto"
	"github.com/st9-8/mouegne/internal/model"
	"github.com/st9-8/mouegne/internal/service"

	"github.com/gin-gonic/gin"
)

type DeliveriesHandler struct {
	svc      service.DeliveryService
	receipts service.ReceiptService
}

func NewDeliveriesHandler(svc service.DeliveryService, receipts service.ReceiptService) *DeliveriesHandler {
	return &DeliveriesHandler{svc: svc, receipts: receipts}
}

// Create godoc
// @Summary      Book a delivery
// @Description  Records a delivery and its lines after checking stock. Stock is not decremented until the delivery is confirmed.
// @Tags         deliveries
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body     dto.CreateDeliveryRequest true "Delivery"
// @Success      201  {object} apierror.Envelope{data=dto.DeliveryResponse}
// @Failure      400  {object} apierror.Envelope
// @Failure      409  {object} apierror.Envelope "insufficient stock"
// @Router       /v1/deliveries [post]
func (h *DeliveriesHandler) Create(c *gin.Context) {
	var req dto.CreateDeliveryRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Create(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusCreated, "Delivery created successfully!", resp, resp.Warning)
}

// Confirm godoc
// @Summary      Confirm a delivery
// @Description  Marks the delivery DELIVERED: finds or creates the customer by phone, records the derived sale and decrements stock, all in one transaction.
// @Tags         deliveries
// @Produce      json
// @Security     BearerAuth
// @Param        id  path     string true "Delivery UUID"
// @Success      200 {object} apierror.Envelope{data=dto.DeliveryResponse}
// @Failure      404 {object} apierror.Envelope
// @Failure      409 {object} apierror.Envelope "already delivered or insufficient stock"
// @Router       /v1/deliveries/{id}/confirm [post]
func (h *DeliveriesHandler) Confirm(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	resp, err := h.svc.Confirm(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "Delivery status updated successfully!", resp, resp.Warning)
}

// Update godoc
// @Summary      Edit a pending delivery
// @Tags         deliveries
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path     string                    true "Delivery UUID"
// @Param        body body     dto.UpdateDeliveryRequest true "Fields to change"
// @Success      200  {object} apierror.Envelope{data=dto.DeliveryResponse}
// @Failure      409  {object} apierror.Envelope "already delivered"
// @Router       /v1/deliveries/{id} [put]
func (h *DeliveriesHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req dto.UpdateDeliveryRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Update(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "Delivery updated", resp, "")
}

// Get godoc
// @Summary      Get a delivery
// @Tags         deliveries
// @Produce      json
// @Security     BearerAuth
// @Param        id  path     string true "Delivery UUID"
// @Success      200 {object} apierror.Envelope{data=dto.DeliveryResponse}
// @Failure      404 {object} apierror.Envelope
// @Router       /v1/deliveries/{id} [get]
func (h *DeliveriesHandler) Get(c *gin.Context) {
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
// @Summary      List deliveries
// @Tags         deliveries
// @Produce      json
// @Security     BearerAuth
// @Param        status query string false "NOT_DELIVERED | DELIVERED"
// @Param        page   query int    false "Page"
// @Param        limit  query int    false "Page size"
// @Success      200 {object} apierror.Envelope{data=dto.ListResponse[dto.DeliveryResponse]}
// @Router       /v1/deliveries [get]
func (h *DeliveriesHandler) List(c *gin.Context) {
	var filter dto.DeliveryFilter
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
// @Summary      Delete a delivery
// @Description  Removes the delivery and its lines. Items and any derived sale are left untouched.
// @Tags         deliveries
// @Security     BearerAuth
// @Param        id  path string true "Delivery UUID"
// @Success      200 {object} apierror.Envelope
// @Failure      404 {object} apierror.Envelope
// @Router       /v1/deliveries/{id} [delete]
func (h *DeliveriesHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "Delivery deleted", nil, "")
}

// Receipt godoc
// @Summary      Latest receipt of a delivery
// @Tags         deliveries
// @Produce      json
// @Security     BearerAuth
// @Param        id  path     string true "Delivery UUID"
// @Success      200 {object} apierror.Envelope{data=dto.ReceiptResponse}
// @Failure      404 {object} apierror.Envelope
// @Router       /v1/deliveries/{id}/receipt [get]
func (h *DeliveriesHandler) Receipt(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	resp, err := h.receipts.ForReference(c.Request.Context(), model.ReceiptDelivery, id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "", resp, "")
}
