package handlers

import (
	"net/http"

	portssvc "github.com/SscSPs/timesheet_app/internal/core/ports/services"
	"github.com/SscSPs/timesheet_app/internal/dto"
	"github.com/gin-gonic/gin"
)

// reportingHandler handles HTTP requests related to time reports
type reportingHandler struct {
	reportingService portssvc.ReportingSvc
}

func newReportingHandler(rs portssvc.ReportingSvc) *reportingHandler {
	return &reportingHandler{
		reportingService: rs,
	}
}

func registerReportingRoutes(rg *gin.RouterGroup, reportingService portssvc.ReportingSvc) {
	h := newReportingHandler(reportingService)

	reportingGroup := rg.Group("/reports")
	{
		reportingGroup.GET("/time", h.getTimeReport)
	}
}

// getTimeReport godoc
// @Summary Time report
// @Description Sums the hours logged between startDate and endDate by client, project, task and user.
// @Description Users only get their own hours.
// @Tags reports
// @Produce json
// @Param startDate query string true "Start date (YYYY-MM-DD)"
// @Param endDate query string true "End date (YYYY-MM-DD)"
// @Param userId query string false "Limit to one user"
// @Param status query string false "Timesheet status" Enums(unsubmitted, submitted, approved, rejected)
// @Success 200 {object} domain.TimeReport
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /reports/time [get]
func (h *reportingHandler) getTimeReport(c *gin.Context) {
	actor, ok := requireIdentity(c)
	if !ok {
		return
	}
	var params dto.TimeReportParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, err)
		return
	}

	report, err := h.reportingService.TimeReport(c.Request.Context(), params, actor)
	if err != nil {
		respondError(c, err, "Failed to build time report")
		return
	}
	c.JSON(http.StatusOK, report)
}
