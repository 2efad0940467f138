package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "utilityledger/internal/errors"
	"utilityledger/internal/pagination"
	"utilityledger/internal/services"
)

// ReferenceHandler manages owners and complexes.
type ReferenceHandler struct {
	ownerService   services.OwnerServicer
	complexService services.ComplexServicer
}

// NewReferenceHandler creates a new ReferenceHandler.
func NewReferenceHandler(ownerService services.OwnerServicer, complexService services.ComplexServicer) *ReferenceHandler {
	return &ReferenceHandler{ownerService: ownerService, complexService: complexService}
}

// EnsureOwnerRequest names an owner to look up or create.
type EnsureOwnerRequest struct {
	Name string `json:"name" binding:"required,max=255"`
}

// EnsureComplexRequest names a complex to look up or create.
type EnsureComplexRequest struct {
	Name    string `json:"name" binding:"required,max=255"`
	OwnerID *uint  `json:"owner_id"`
}

// EnsureOwner returns the named owner, creating it if needed
// @Summary     Ensure owner
// @Description Idempotent: repeated calls with the same name return the same owner
// @Tags        reference
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body EnsureOwnerRequest true "Owner"
// @Success     200 {object} models.Owner "Owner"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /owners [post]
func (h *ReferenceHandler) EnsureOwner(c *gin.Context) {
	var req EnsureOwnerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	owner, err := h.ownerService.EnsureOwner(c.Request.Context(), req.Name)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, owner)
}

// ListOwners lists owners by name
// @Summary     List owners
// @Tags        reference
// @Produce     json
// @Security    BearerAuth
// @Param       limit  query int false "Page size (default 100, max 1000)"
// @Param       offset query int false "Rows to skip (default 0)"
// @Success     200 {object} pagination.PageResponse[models.Owner] "Owners"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /owners [get]
func (h *ReferenceHandler) ListOwners(c *gin.Context) {
	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	result, err := h.ownerService.ListOwners(c.Request.Context(), page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// EnsureComplex returns the complex for (name, owner), creating it if needed
// @Summary     Ensure complex
// @Description Idempotent per (name, owner_id). The owner must exist when given.
// @Tags        reference
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body EnsureComplexRequest true "Complex"
// @Success     200 {object} models.Complex "Complex"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     422 {object} ErrorResponse "Unknown owner"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /complexes [post]
func (h *ReferenceHandler) EnsureComplex(c *gin.Context) {
	var req EnsureComplexRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	cplx, err := h.complexService.EnsureComplex(c.Request.Context(), req.Name, req.OwnerID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, cplx)
}

// ListComplexes lists complexes by name
// @Summary     List complexes
// @Tags        reference
// @Produce     json
// @Security    BearerAuth
// @Param       owner_id query int false "Only complexes of this owner"
// @Param       limit    query int false "Page size (default 100, max 1000)"
// @Param       offset   query int false "Rows to skip (default 0)"
// @Success     200 {object} pagination.PageResponse[models.Complex] "Complexes"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /complexes [get]
func (h *ReferenceHandler) ListComplexes(c *gin.Context) {
	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	ownerID, err := parseQueryID(c, "owner_id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	result, err := h.complexService.ListComplexes(c.Request.Context(), ownerID, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
