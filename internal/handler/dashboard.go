package handler

import (
	"net/http"

	"github.com/st9-8/mouegne/internal/service"

	"github.com/gin-gonic/gin"
)

type DashboardHandler struct{ svc service.DashboardService }

func NewDashboardHandler(svc service.DashboardService) *DashboardHandler {
	return &DashboardHandler{svc: svc}
}

// Summary godoc
// @Summary      Store summary for today
// @Tags         dashboard
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} apierror.Envelope{data=dto.DashboardResponse}
// @Router       /v1/dashboard [get]
func (h *DashboardHandler) Summary(c *gin.Context) {
	resp, err := h.svc.Summary(c.Request.Context())
	writeResult(c, http.StatusOK, "", resp, err)
}
