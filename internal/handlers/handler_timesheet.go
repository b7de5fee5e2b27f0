package handlers

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/timesheet_app/internal/core/ports/services"
	"github.com/SscSPs/timesheet_app/internal/dto"
	"github.com/SscSPs/timesheet_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

type timesheetHandler struct {
	timesheetService portssvc.TimesheetSvcFacade
	entryService     portssvc.TimesheetEntrySvc
}

func newTimesheetHandler(ts portssvc.TimesheetSvcFacade, es portssvc.TimesheetEntrySvc) *timesheetHandler {
	return &timesheetHandler{timesheetService: ts, entryService: es}
}

// registerTimesheetRoutes registers the timesheet and entry routes.
func registerTimesheetRoutes(rg *gin.RouterGroup, ts portssvc.TimesheetSvcFacade, es portssvc.TimesheetEntrySvc) {
	h := newTimesheetHandler(ts, es)

	timesheets := rg.Group("/timesheets")
	{
		timesheets.GET("", h.listTimesheets)
		timesheets.POST("", h.getOrCreateTimesheet)
		timesheets.GET("/:id", h.getTimesheet)
		timesheets.PATCH("/:id", h.applyAction)
		timesheets.DELETE("/:id", h.deleteTimesheet)

		timesheets.POST("/:id/entries", h.addEntry)
		timesheets.PATCH("/:id/entries", h.updateEntry)
		timesheets.DELETE("/:id/entries", h.deleteEntry)
	}
}

// listTimesheets godoc
// @Summary List timesheets
// @Description Lists timesheets newest week first. Users only see their own; managers and admins may filter by user.
// @Description With forCopy=true the most recent earlier week that has entries is returned.
// @Tags timesheets
// @Produce json
// @Param weekStart query string false "Any date of the week (YYYY-MM-DD)"
// @Param userId query string false "Owner filter"
// @Param forCopy query bool false "Return the latest earlier non-empty week"
// @Param startDate query string false "Range start (YYYY-MM-DD)"
// @Param endDate query string false "Range end (YYYY-MM-DD)"
// @Param status query string false "Status filter" Enums(unsubmitted, submitted, approved, rejected)
// @Param beforeWeek query string false "Only weeks starting before this date"
// @Param limit query int false "Page size" default(20)
// @Param nextToken query string false "Token from the previous page"
// @Success 200 {object} dto.ListTimesheetsResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /timesheets [get]
func (h *timesheetHandler) listTimesheets(c *gin.Context) {
	actor, ok := requireIdentity(c)
	if !ok {
		return
	}
	var params dto.ListTimesheetsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, err)
		return
	}

	sheets, nextToken, err := h.timesheetService.ListTimesheets(c.Request.Context(), params, actor)
	if err != nil {
		respondError(c, err, "Failed to list timesheets")
		return
	}
	c.JSON(http.StatusOK, dto.ToListTimesheetsResponse(sheets, nextToken))
}

// getOrCreateTimesheet godoc
// @Summary Get or create a weekly timesheet
// @Description Returns the timesheet of the user for the week containing weekStart, creating it if needed.
// @Tags timesheets
// @Accept json
// @Produce json
// @Param request body dto.GetOrCreateTimesheetRequest false "Week and user, both optional"
// @Success 200 {object} dto.TimesheetResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /timesheets [post]
func (h *timesheetHandler) getOrCreateTimesheet(c *gin.Context) {
	actor, ok := requireIdentity(c)
	if !ok {
		return
	}
	var req dto.GetOrCreateTimesheetRequest
	// an empty body selects the caller's current week
	if c.Request.Body != nil && c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
			respondBindError(c, err)
			return
		}
	}

	ts, err := h.timesheetService.GetOrCreateTimesheet(c.Request.Context(), req, actor)
	if err != nil {
		respondError(c, err, "Failed to get or create timesheet")
		return
	}
	c.JSON(http.StatusOK, dto.ToTimesheetResponse(ts))
}

// getTimesheet godoc
// @Summary Get a timesheet
// @Tags timesheets
// @Produce json
// @Param id path string true "Timesheet ID"
// @Success 200 {object} dto.TimesheetResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /timesheets/{id} [get]
func (h *timesheetHandler) getTimesheet(c *gin.Context) {
	actor, ok := requireIdentity(c)
	if !ok {
		return
	}

	ts, err := h.timesheetService.GetTimesheet(c.Request.Context(), c.Param("id"), actor)
	if err != nil {
		respondError(c, err, "Failed to get timesheet")
		return
	}
	c.JSON(http.StatusOK, dto.ToTimesheetResponse(ts))
}

// applyAction godoc
// @Summary Change the status of a timesheet
// @Description Runs one of submit, approve, reject, unapprove or recalculate.
// @Tags timesheets
// @Accept json
// @Produce json
// @Param id path string true "Timesheet ID"
// @Param request body dto.TimesheetActionRequest true "Action"
// @Success 200 {object} dto.TimesheetResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /timesheets/{id} [patch]
func (h *timesheetHandler) applyAction(c *gin.Context) {
	actor, ok := requireIdentity(c)
	if !ok {
		return
	}
	var req dto.TimesheetActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	ts, err := h.timesheetService.ApplyAction(c.Request.Context(), c.Param("id"), req, actor)
	if err != nil {
		respondError(c, err, "Failed to apply timesheet action")
		return
	}
	middleware.GetLoggerFromCtx(c.Request.Context()).Info("Timesheet action applied",
		slog.String("timesheet_id", ts.TimesheetID), slog.String("action", req.Action), slog.String("status", string(ts.Status)))
	c.JSON(http.StatusOK, dto.ToTimesheetResponse(ts))
}

// deleteTimesheet godoc
// @Summary Delete a timesheet
// @Description Admin only. Approved timesheets cannot be deleted.
// @Tags timesheets
// @Param id path string true "Timesheet ID"
// @Success 204
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /timesheets/{id} [delete]
func (h *timesheetHandler) deleteTimesheet(c *gin.Context) {
	actor, ok := requireIdentity(c)
	if !ok {
		return
	}

	if err := h.timesheetService.DeleteTimesheet(c.Request.Context(), c.Param("id"), actor); err != nil {
		respondError(c, err, "Failed to delete timesheet")
		return
	}
	c.Status(http.StatusNoContent)
}

// addEntry godoc
// @Summary Add a time entry
// @Description Adds manual hours, or starts a timer when isTimer is set. Starting a timer stops any running one.
// @Description With isTimer set, hours and startTime from the body are ignored: the entry starts at 0 hours with startTime set to the server time.
// @Tags timesheets
// @Accept json
// @Produce json
// @Param id path string true "Timesheet ID"
// @Param request body dto.AddEntryRequest true "Entry"
// @Success 201 {object} dto.TimesheetResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse "Forbidden or locked"
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /timesheets/{id}/entries [post]
func (h *timesheetHandler) addEntry(c *gin.Context) {
	actor, ok := requireIdentity(c)
	if !ok {
		return
	}
	var req dto.AddEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	ts, err := h.entryService.AddEntry(c.Request.Context(), c.Param("id"), req, actor)
	if err != nil {
		respondError(c, err, "Failed to add entry")
		return
	}
	c.JSON(http.StatusCreated, dto.ToTimesheetResponse(ts))
}

// updateEntry godoc
// @Summary Update a time entry
// @Description Patches entry fields, or runs start_timer / stop_timer when action is set.
// @Tags timesheets
// @Accept json
// @Produce json
// @Param id path string true "Timesheet ID"
// @Param request body dto.UpdateEntryRequest true "Patch"
// @Success 200 {object} dto.TimesheetResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /timesheets/{id}/entries [patch]
func (h *timesheetHandler) updateEntry(c *gin.Context) {
	actor, ok := requireIdentity(c)
	if !ok {
		return
	}
	var req dto.UpdateEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	ts, err := h.entryService.UpdateEntry(c.Request.Context(), c.Param("id"), req, actor)
	if err != nil {
		respondError(c, err, "Failed to update entry")
		return
	}
	c.JSON(http.StatusOK, dto.ToTimesheetResponse(ts))
}

// deleteEntry godoc
// @Summary Delete a time entry
// @Tags timesheets
// @Produce json
// @Param id path string true "Timesheet ID"
// @Param entryKey query string true "Entry key"
// @Success 200 {object} dto.TimesheetResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /timesheets/{id}/entries [delete]
func (h *timesheetHandler) deleteEntry(c *gin.Context) {
	actor, ok := requireIdentity(c)
	if !ok {
		return
	}
	entryKey := c.Query("entryKey")
	if entryKey == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "entryKey is required"})
		return
	}

	ts, err := h.entryService.DeleteEntry(c.Request.Context(), c.Param("id"), entryKey, actor)
	if err != nil {
		respondError(c, err, "Failed to delete entry")
		return
	}
	c.JSON(http.StatusOK, dto.ToTimesheetResponse(ts))
}
