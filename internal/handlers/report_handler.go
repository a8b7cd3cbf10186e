package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"transport-service/internal/middleware"
	"transport-service/internal/services"
)

// ReportHandler serves attendance reports
type ReportHandler struct {
	reportService *services.ReportService
	logger        *logrus.Logger
}

// NewReportHandler creates a new report handler
func NewReportHandler(reportService *services.ReportService, logger *logrus.Logger) *ReportHandler {
	return &ReportHandler{reportService: reportService, logger: logger}
}

// MonthlyFrequency handles GET /reports/frequency/:studentId?month=M&year=Y
func (h *ReportHandler) MonthlyFrequency(c *gin.Context) {
	month, err := strconv.Atoi(c.Query("month"))
	if err != nil {
		respondError(c, h.logger, services.NewValidationError("month", "month must be a number"))
		return
	}
	year, err := strconv.Atoi(c.Query("year"))
	if err != nil {
		respondError(c, h.logger, services.NewValidationError("year", "year must be a number"))
		return
	}

	report, err := h.reportService.MonthlyFrequency(
		c.Request.Context(),
		middleware.GetPrincipal(c),
		c.Param("studentId"),
		month,
		year,
	)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondSuccess(c, http.StatusOK, report)
}
