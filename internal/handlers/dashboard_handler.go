package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/azizjun/kvartal-api/internal/services"
)

type DashboardHandler struct {
	analyticsService *services.AnalyticsService
	exportService    *services.ExportService
	reportService    *services.ReportService
	jobService       *services.JobService
}

func NewDashboardHandler(
	analyticsService *services.AnalyticsService,
	exportService *services.ExportService,
	reportService *services.ReportService,
	jobService *services.JobService,
) *DashboardHandler {
	return &DashboardHandler{
		analyticsService: analyticsService,
		exportService:    exportService,
		reportService:    reportService,
		jobService:       jobService,
	}
}

// @Summary Dashboard
// @Description Get aggregated sales and construction metrics
// @Tags Dashboard
// @Produce json
// @Param months query int false "Revenue history in months" default(12)
// @Success 200 {object} services.DashboardData
// @Security BearerAuth
// @Router /dashboard [get]
func (h *DashboardHandler) Index(c *gin.Context) {
	months, err := strconv.Atoi(c.DefaultQuery("months", "12"))
	if err != nil || months < 1 || months > 60 {
		months = 12
	}

	data, err := h.analyticsService.GetDashboard(c.Request.Context(), months)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, data)
}

// @Summary Dashboard Summary
// @Tags Dashboard
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /dashboard/summary [get]
func (h *DashboardHandler) Summary(c *gin.Context) {
	summary, err := h.analyticsService.GetSummary(c.Request.Context())
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"summary": summary})
}

// @Summary Complex Occupancy
// @Description Sold/reserved/available breakdown per complex
// @Tags Dashboard
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /dashboard/occupancy [get]
func (h *DashboardHandler) Occupancy(c *gin.Context) {
	occupancy, err := h.analyticsService.GetComplexOccupancy(c.Request.Context())
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"occupancy": occupancy})
}

// @Summary Export Dashboard CSV
// @Tags Dashboard
// @Produce text/csv
// @Success 200 {file} file
// @Security BearerAuth
// @Router /dashboard/export [get]
func (h *DashboardHandler) Export(c *gin.Context) {
	data, filename, err := h.exportService.ExportDashboardCSV(c.Request.Context())
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK, "text/csv", data)
}

// @Summary Overdue Payments Report
// @Description Download a PDF report of all overdue payments
// @Tags Dashboard
// @Produce application/pdf
// @Success 200 {file} file
// @Security BearerAuth
// @Router /dashboard/overdue_report [get]
func (h *DashboardHandler) OverdueReport(c *gin.Context) {
	buf, filename, err := h.reportService.GenerateOverduePaymentsReport(c.Request.Context())
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}

// @Summary Background Job Status
// @Tags Dashboard
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /jobs/status [get]
func (h *DashboardHandler) JobStatus(c *gin.Context) {
	c.JSON(http.StatusOK, h.jobService.GetStatus())
}
