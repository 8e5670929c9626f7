package handlers

import (
	"net/http"

	"club_admin_backend/internal/models"
	"club_admin_backend/internal/services"

	"github.com/gin-gonic/gin"
)

// ReportHandler holds the report service.
type ReportHandler struct {
	reportService services.ReportService
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(rs services.ReportService) *ReportHandler {
	return &ReportHandler{reportService: rs}
}

// GetDashboard returns the selected club, its metrics and record counts.
func (h *ReportHandler) GetDashboard(c *gin.Context) {
	sess, ok := currentSession(c)
	if !ok {
		return
	}
	report, err := h.reportService.GetDashboard(c.Request.Context(), sess)
	if err != nil {
		respondServiceError(c, err, "GetDashboard: Error from reportService.GetDashboard")
		return
	}
	c.JSON(http.StatusOK, report)
}

func (h *ReportHandler) GetFinanceReport(c *gin.Context) {
	sess, ok := currentSession(c)
	if !ok {
		return
	}
	report, err := h.reportService.GetFinanceReport(c.Request.Context(), sess, c.Param("clubId"))
	if err != nil {
		respondServiceError(c, err, "GetFinanceReport: Error from reportService.GetFinanceReport")
		return
	}
	c.JSON(http.StatusOK, report)
}

// GetInventoryReport accepts ?category= and ?search=.
func (h *ReportHandler) GetInventoryReport(c *gin.Context) {
	sess, ok := currentSession(c)
	if !ok {
		return
	}
	var params models.InventoryReportParams
	if !bindQuery(c, &params, "GetInventoryReport") {
		return
	}
	report, err := h.reportService.GetInventoryReport(c.Request.Context(), sess, c.Param("clubId"), params)
	if err != nil {
		respondServiceError(c, err, "GetInventoryReport: Error from reportService.GetInventoryReport")
		return
	}
	c.JSON(http.StatusOK, report)
}

// GetAttendanceReport accepts ?window=today|week|month|all and ?status=.
func (h *ReportHandler) GetAttendanceReport(c *gin.Context) {
	sess, ok := currentSession(c)
	if !ok {
		return
	}
	var params models.AttendanceReportParams
	if !bindQuery(c, &params, "GetAttendanceReport") {
		return
	}
	report, err := h.reportService.GetAttendanceReport(c.Request.Context(), sess, c.Param("clubId"), params)
	if err != nil {
		respondServiceError(c, err, "GetAttendanceReport: Error from reportService.GetAttendanceReport")
		return
	}
	c.JSON(http.StatusOK, report)
}

func (h *ReportHandler) GetSubscriptionReport(c *gin.Context) {
	sess, ok := currentSession(c)
	if !ok {
		return
	}
	report, err := h.reportService.GetSubscriptionReport(c.Request.Context(), sess, c.Param("clubId"))
	if err != nil {
		respondServiceError(c, err, "GetSubscriptionReport: Error from reportService.GetSubscriptionReport")
		return
	}
	c.JSON(http.StatusOK, report)
}
