package handler

import (
	"errors"
	"net/http"

	"paylink_console/internal/domain/dashboard/service"
	"paylink_console/internal/pkg/gateway"
	"paylink_console/pkg/response"

	"github.com/gin-gonic/gin"
)

// DashboardHandler 仪表盘处理器
type DashboardHandler struct {
	service service.DashboardService
}

// NewDashboardHandler 创建处理器
func NewDashboardHandler(s service.DashboardService) *DashboardHandler {
	return &DashboardHandler{service: s}
}

// Metrics 运营指标
// @Summary 运营指标
// @Tags Dashboard
// @Produce json
// @Param storeId query string false "Store ID"
// @Success 200 {object} response.Response{data=model.Report}
// @Router /dashboard/metrics [get]
func (h *DashboardHandler) Metrics(c *gin.Context) {
	storeID := c.Query("storeId")

	report, source, err := h.service.BuildReport(c.Request.Context(), storeID)
	if err != nil {
		if errors.Is(err, gateway.ErrNotFound) {
			response.Error(c, http.StatusNotFound, response.ErrStoreNotFound, "store not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, response.ErrMetricsUnavailable, err.Error())
		return
	}

	response.SuccessWithSource(c, string(source), report)
}
