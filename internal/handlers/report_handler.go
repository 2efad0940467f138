package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"utilityledger/internal/services"
)

// ReportHandler serves aggregations over the ledger. Every endpoint accepts
// the transaction listing filters; pagination parameters are ignored.
type ReportHandler struct {
	reportService services.ReportServicer
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(reportService services.ReportServicer) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// TotalsByUtility sums amounts per utility
// @Summary     Totals by utility
// @Description Sum of amounts for water, electricity and gas plus their total
// @Tags        reports
// @Produce     json
// @Security    BearerAuth
// @Param       utility_type query string false "water, electricity or gas"
// @Param       min_amount   query number false "Amount strictly greater than"
// @Param       max_amount   query number false "Amount strictly less than"
// @Param       complex_id   query int    false "Complex ID"
// @Param       owner_id     query int    false "Owner ID"
// @Param       meter_search query string false "Meter number substring"
// @Param       date_from    query string false "First day, inclusive"
// @Param       date_to      query string false "Last day, inclusive"
// @Success     200 {object} services.UtilityTotals "Totals"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /reports/utility [get]
func (h *ReportHandler) TotalsByUtility(c *gin.Context) {
	filter, err := parseTransactionFilter(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	totals, err := h.reportService.TotalsByUtility(c.Request.Context(), filter)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, totals)
}

// TotalsByOwner sums amounts per owner
// @Summary     Totals by owner
// @Description Sum of amounts per owner, largest first. Rows without an owner are grouped under a null owner.
// @Tags        reports
// @Produce     json
// @Security    BearerAuth
// @Param       utility_type query string false "water, electricity or gas"
// @Param       date_from    query string false "First day, inclusive"
// @Param       date_to      query string false "Last day, inclusive"
// @Success     200 {object} map[string][]services.OwnerTotal "Totals"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /reports/owners [get]
func (h *ReportHandler) TotalsByOwner(c *gin.Context) {
	filter, err := parseTransactionFilter(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	rows, err := h.reportService.TotalsByOwner(c.Request.Context(), filter)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": rows})
}

// TotalsByComplex sums amounts per complex
// @Summary     Totals by complex
// @Description Sum of amounts per complex, largest first
// @Tags        reports
// @Produce     json
// @Security    BearerAuth
// @Param       utility_type query string false "water, electricity or gas"
// @Param       date_from    query string false "First day, inclusive"
// @Param       date_to      query string false "Last day, inclusive"
// @Success     200 {object} map[string][]services.ComplexTotal "Totals"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /reports/complexes [get]
func (h *ReportHandler) TotalsByComplex(c *gin.Context) {
	filter, err := parseTransactionFilter(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	rows, err := h.reportService.TotalsByComplex(c.Request.Context(), filter)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": rows})
}
