package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	apperrors "utilityledger/internal/errors"
	"utilityledger/internal/ingest"
	"utilityledger/internal/models"
	"utilityledger/internal/pagination"
	"utilityledger/internal/services"
)

// TransactionHandler handles direct access to ledger rows.
type TransactionHandler struct {
	transactionService services.TransactionServicer
}

// NewTransactionHandler creates a new TransactionHandler.
func NewTransactionHandler(transactionService services.TransactionServicer) *TransactionHandler {
	return &TransactionHandler{transactionService: transactionService}
}

// CreateTransactionRequest represents the request payload for creating a transaction
type CreateTransactionRequest struct {
	UtilityType models.UtilityType `json:"utility_type" binding:"required,utility_type"`
	Amount      float64            `json:"amount" binding:"required,gt=0"`
	ComplexID   uint               `json:"complex_id" binding:"required"`
	MeterNumber *string            `json:"meter_number" binding:"omitempty,max=128"`
	OwnerID     *uint              `json:"owner_id"`
	Date        string             `json:"date" binding:"required"`
}

// UpdateTransactionRequest represents the request payload for updating a
// transaction. An empty meter_number or an owner_id of 0 clears the field.
type UpdateTransactionRequest struct {
	UtilityType *models.UtilityType `json:"utility_type" binding:"omitempty,utility_type"`
	Amount      *float64            `json:"amount" binding:"omitempty,gt=0"`
	ComplexID   *uint               `json:"complex_id" binding:"omitempty,gt=0"`
	MeterNumber *string             `json:"meter_number" binding:"omitempty,max=128"`
	OwnerID     *uint               `json:"owner_id"`
	Date        *string             `json:"date"`
}

// UpdateTransactionResponse reports how many rows an update changed.
type UpdateTransactionResponse struct {
	Changed int64 `json:"changed"`
}

// CreateTransaction inserts a single ledger row
// @Summary     Create a transaction
// @Description Insert one consumption record. The complex (and owner, when given) must exist.
// @Tags        transactions
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateTransactionRequest true "Transaction details"
// @Success     201 {object} models.Transaction "Transaction created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     422 {object} ErrorResponse "Unknown complex or owner"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /transactions [post]
func (h *TransactionHandler) CreateTransaction(c *gin.Context) {
	var req CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	date := ingest.ParseDate(req.Date)
	if date == nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid date"))
		return
	}

	txn, err := h.transactionService.CreateTransaction(c.Request.Context(), services.TransactionInput{
		UtilityType: req.UtilityType,
		Amount:      req.Amount,
		ComplexID:   req.ComplexID,
		MeterNumber: req.MeterNumber,
		OwnerID:     req.OwnerID,
		Date:        *date,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, txn)
}

// ListTransactions returns a filtered window of the ledger
// @Summary     List transactions
// @Description List ledger rows newest first. All filters are optional and combined with AND.
// @Tags        transactions
// @Produce     json
// @Security    BearerAuth
// @Param       utility_type query string false "water, electricity or gas"
// @Param       min_amount   query number false "Amount strictly greater than"
// @Param       max_amount   query number false "Amount strictly less than"
// @Param       complex_id   query int    false "Complex ID"
// @Param       owner_id     query int    false "Owner ID"
// @Param       meter_search query string false "Meter number substring"
// @Param       date_from    query string false "First day, inclusive (YYYY-MM-DD or RFC3339)"
// @Param       date_to      query string false "Last day, inclusive (YYYY-MM-DD or RFC3339)"
// @Param       limit        query int    false "Page size (default 100, max 1000)"
// @Param       offset       query int    false "Rows to skip (default 0)"
// @Success     200 {object} pagination.PageResponse[models.Transaction] "Transactions"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /transactions [get]
func (h *TransactionHandler) ListTransactions(c *gin.Context) {
	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	filter, err := parseTransactionFilter(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	result, err := h.transactionService.ListTransactions(c.Request.Context(), filter, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetTransactionByID returns a single ledger row
// @Summary     Get transaction by ID
// @Tags        transactions
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Transaction ID"
// @Success     200 {object} models.Transaction "Transaction details"
// @Failure     400 {object} ErrorResponse "Invalid transaction ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Transaction not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /transactions/{id} [get]
func (h *TransactionHandler) GetTransactionByID(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	txn, err := h.transactionService.GetTransactionByID(c.Request.Context(), id)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, txn)
}

// UpdateTransaction applies a partial update
// @Summary     Update transaction
// @Description Change the supplied fields of a ledger row. Returns the number of rows changed; an unknown id changes nothing and is not an error.
// @Tags        transactions
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path int                      true "Transaction ID"
// @Param       request body UpdateTransactionRequest true "Fields to change"
// @Success     200 {object} UpdateTransactionResponse "Rows changed"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     422 {object} ErrorResponse "Unknown complex or owner"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /transactions/{id} [patch]
func (h *TransactionHandler) UpdateTransaction(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	fields := services.TransactionUpdateFields{
		UtilityType: req.UtilityType,
		Amount:      req.Amount,
		ComplexID:   req.ComplexID,
	}
	if req.MeterNumber != nil {
		meter := req.MeterNumber
		if *meter == "" {
			meter = nil
		}
		fields.MeterNumber = &meter
	}
	if req.OwnerID != nil {
		owner := req.OwnerID
		if *owner == 0 {
			owner = nil
		}
		fields.OwnerID = &owner
	}
	if req.Date != nil {
		date := ingest.ParseDate(*req.Date)
		if date == nil {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid date"))
			return
		}
		fields.Date = date
	}

	changed, err := h.transactionService.UpdateTransaction(c.Request.Context(), id, fields)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, UpdateTransactionResponse{Changed: changed})
}

// parseTransactionFilter maps query parameters onto a filter. Absent or
// empty parameters impose no constraint.
func parseTransactionFilter(c *gin.Context) (services.TransactionFilter, error) {
	var filter services.TransactionFilter

	if v := c.Query("utility_type"); v != "" {
		u := models.UtilityType(v)
		if !u.Valid() {
			return filter, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid utility_type, must be water, electricity or gas")
		}
		filter.UtilityType = &u
	}

	for _, p := range []struct {
		name string
		dst  **float64
	}{
		{"min_amount", &filter.MinAmount},
		{"max_amount", &filter.MaxAmount},
	} {
		if v := c.Query(p.name); v != "" {
			amt, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return filter, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid "+p.name)
			}
			*p.dst = &amt
		}
	}

	var err error
	if filter.ComplexID, err = parseQueryID(c, "complex_id"); err != nil {
		return filter, err
	}
	if filter.OwnerID, err = parseQueryID(c, "owner_id"); err != nil {
		return filter, err
	}

	if v := c.Query("meter_search"); v != "" {
		filter.MeterSearch = &v
	}

	if filter.DateFrom, err = parseQueryDate(c, "date_from"); err != nil {
		return filter, err
	}
	if filter.DateTo, err = parseQueryDate(c, "date_to"); err != nil {
		return filter, err
	}

	return filter, nil
}
