package handler

import (
	"context"
	"net/http"

	"github.com/st9-8/mouegne/internal/dto"
	"github.com/st9-8/mouegne/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// CatalogHandler serves categories, vendors and customers.
type CatalogHandler struct{ svc service.CatalogService }

func NewCatalogHandler(svc service.CatalogService) *CatalogHandler { return &CatalogHandler{svc: svc} }

// ── Categories ────────────────────────────────────────────────────────────────

// CreateCategory godoc
// @Summary  Create a category
// @Tags     categories
// @Accept   json
// @Produce  json
// @Security BearerAuth
// @Param    body body     dto.CategoryRequest true "Category"
// @Success  201  {object} apierror.Envelope{data=dto.CategoryResponse}
// @Router   /v1/categories [post]
func (h *CatalogHandler) CreateCategory(c *gin.Context) {
	var req dto.CategoryRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CreateCategory(c.Request.Context(), req)
	writeResult(c, http.StatusCreated, "Category created", resp, err)
}

// ListCategories godoc
// @Summary  List categories
// @Tags     categories
// @Produce  json
// @Security BearerAuth
// @Param    q query string false "Name contains"
// @Success  200 {object} apierror.Envelope{data=dto.ListResponse[dto.CategoryResponse]}
// @Router   /v1/categories [get]
func (h *CatalogHandler) ListCategories(c *gin.Context) {
	var filter dto.CatalogFilter
	if !bindQuery(c, &filter) {
		return
	}
	resp, err := h.svc.ListCategories(c.Request.Context(), filter)
	writeResult(c, http.StatusOK, "", resp, err)
}

// UpdateCategory godoc
// @Summary  Rename a category
// @Tags     categories
// @Accept   json
// @Produce  json
// @Security BearerAuth
// @Param    id   path     string              true "Category UUID"
// @Param    body body     dto.CategoryRequest true "Category"
// @Success  200  {object} apierror.Envelope{data=dto.CategoryResponse}
// @Router   /v1/categories/{id} [put]
func (h *CatalogHandler) UpdateCategory(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req dto.CategoryRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.UpdateCategory(c.Request.Context(), id, req)
	writeResult(c, http.StatusOK, "Category updated", resp, err)
}

// DeleteCategory godoc
// @Summary  Delete an empty category
// @Tags     categories
// @Security BearerAuth
// @Param    id path string true "Category UUID"
// @Success  200 {object} apierror.Envelope
// @Router   /v1/categories/{id} [delete]
func (h *CatalogHandler) DeleteCategory(c *gin.Context) {
	h.delete(c, "Category deleted", h.svc.DeleteCategory)
}

// ── Vendors ───────────────────────────────────────────────────────────────────

// CreateVendor godoc
// @Summary  Create a vendor
// @Tags     vendors
// @Accept   json
// @Produce  json
// @Security BearerAuth
// @Param    body body     dto.VendorRequest true "Vendor"
// @Success  201  {object} apierror.Envelope{data=dto.VendorResponse}
// @Router   /v1/vendors [post]
func (h *CatalogHandler) CreateVendor(c *gin.Context) {
	var req dto.VendorRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CreateVendor(c.Request.Context(), req)
	writeResult(c, http.StatusCreated, "Vendor created", resp, err)
}

func (h *CatalogHandler) GetVendor(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	resp, err := h.svc.GetVendor(c.Request.Context(), id)
	writeResult(c, http.StatusOK, "", resp, err)
}

func (h *CatalogHandler) ListVendors(c *gin.Context) {
	var filter dto.CatalogFilter
	if !bindQuery(c, &filter) {
		return
	}
	resp, err := h.svc.ListVendors(c.Request.Context(), filter)
	writeResult(c, http.StatusOK, "", resp, err)
}

func (h *CatalogHandler) UpdateVendor(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req dto.VendorRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.UpdateVendor(c.Request.Context(), id, req)
	writeResult(c, http.StatusOK, "Vendor updated", resp, err)
}

// DeleteVendor godoc
// @Summary      Delete a vendor
// @Description  Items and purchases of the vendor keep existing without one.
// @Tags         vendors
// @Security     BearerAuth
// @Param        id path string true "Vendor UUID"
// @Success      200 {object} apierror.Envelope
// @Router       /v1/vendors/{id} [delete]
func (h *CatalogHandler) DeleteVendor(c *gin.Context) {
	h.delete(c, "Vendor deleted", h.svc.DeleteVendor)
}

// ── Customers ─────────────────────────────────────────────────────────────────

// CreateCustomer godoc
// @Summary  Create a customer
// @Tags     customers
// @Accept   json
// @Produce  json
// @Security BearerAuth
// @Param    body body     dto.CustomerRequest true "Customer"
// @Success  201  {object} apierror.Envelope{data=dto.CustomerResponse}
// @Router   /v1/customers [post]
func (h *CatalogHandler) CreateCustomer(c *gin.Context) {
	var req dto.CustomerRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CreateCustomer(c.Request.Context(), req)
	writeResult(c, http.StatusCreated, "Customer created", resp, err)
}

func (h *CatalogHandler) GetCustomer(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	resp, err := h.svc.GetCustomer(c.Request.Context(), id)
	writeResult(c, http.StatusOK, "", resp, err)
}

// ListCustomers godoc
// @Summary  List customers
// @Tags     customers
// @Produce  json
// @Security BearerAuth
// @Param    q query string false "Name or phone contains"
// @Success  200 {object} apierror.Envelope{data=dto.ListResponse[dto.CustomerResponse]}
// @Router   /v1/customers [get]
func (h *CatalogHandler) ListCustomers(c *gin.Context) {
	var filter dto.CatalogFilter
	if !bindQuery(c, &filter) {
		return
	}
	resp, err := h.svc.ListCustomers(c.Request.Context(), filter)
	writeResult(c, http.StatusOK, "", resp, err)
}

func (h *CatalogHandler) UpdateCustomer(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req dto.CustomerRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.UpdateCustomer(c.Request.Context(), id, req)
	writeResult(c, http.StatusOK, "Customer updated", resp, err)
}

func (h *CatalogHandler) DeleteCustomer(c *gin.Context) {
	h.delete(c, "Customer deleted", h.svc.DeleteCustomer)
}

func (h *CatalogHandler) delete(c *gin.Context, msg string, fn func(context.Context, uuid.UUID) error) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := fn(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, msg, nil, "")
}

func writeResult(c *gin.Context, status int, msg string, data any, err error) {
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, status, msg, data, "")
}
