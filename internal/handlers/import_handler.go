package handlers

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	apperrors "utilityledger/internal/errors"
	"utilityledger/internal/pagination"
	"utilityledger/internal/services"
)

// ImportHandler handles spreadsheet uploads and the import ledger.
type ImportHandler struct {
	importService services.ImportServicer
	ledger        services.ImportLedgerServicer
	maxBytes      int64
}

// NewImportHandler creates a new ImportHandler. Uploads larger than maxBytes
// are rejected.
func NewImportHandler(importService services.ImportServicer, ledger services.ImportLedgerServicer, maxBytes int64) *ImportHandler {
	return &ImportHandler{importService: importService, ledger: ledger, maxBytes: maxBytes}
}

// CreateImport ingests one sheet of an uploaded workbook
// @Summary     Import a spreadsheet
// @Description Upload an .xlsx (or .csv) file of utility readings. Row problems are reported in the result; the request only fails when the file cannot be read.
// @Tags        imports
// @Accept      multipart/form-data
// @Produce     json
// @Security    BearerAuth
// @Param       file    formData file   true  "Workbook"
// @Param       sheet   formData string false "Sheet name (default: first sheet)"
// @Param       dry_run formData bool   false "Validate and project counts without writing"
// @Success     200 {object} services.ImportResult "Import result"
// @Failure     400 {object} ErrorResponse "Malformed workbook or missing sheet"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     413 {object} ErrorResponse "File too large"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /imports [post]
func (h *ImportHandler) CreateImport(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxBytes)

	header, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, ErrorResponse{Error: ErrorDetail{
				Code:    "FILE_TOO_LARGE",
				Message: "Uploaded file exceeds " + strconv.FormatInt(h.maxBytes, 10) + " bytes",
			}})
			return
		}
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "a file field is required"))
		return
	}

	dryRun := false
	if v := c.PostForm("dry_run"); v != "" {
		dryRun, err = strconv.ParseBool(v)
		if err != nil {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "dry_run must be a boolean"))
			return
		}
	}

	f, err := header.Open()
	if err != nil {
		respondWithError(c, apperrors.Wrap(apperrors.ErrInternalServer, err))
		return
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		respondWithError(c, apperrors.Wrap(apperrors.ErrInternalServer, err))
		return
	}

	result, err := h.importService.Import(c.Request.Context(), services.ImportRequest{
		Filename: header.Filename,
		Data:     data,
		Sheet:    c.PostForm("sheet"),
		DryRun:   dryRun,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// ListImports returns the import ledger
// @Summary     List import runs
// @Description List recorded import runs, most recent first
// @Tags        imports
// @Produce     json
// @Security    BearerAuth
// @Param       limit  query int false "Page size (default 100, max 1000)"
// @Param       offset query int false "Rows to skip (default 0)"
// @Success     200 {object} pagination.PageResponse[models.ImportRun] "Import runs"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /imports [get]
func (h *ImportHandler) ListImports(c *gin.Context) {
	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	result, err := h.ledger.ListRuns(c.Request.Context(), page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetImport returns one import run with its report
// @Summary     Get import run
// @Description Get a recorded import run, including its warnings and errors
// @Tags        imports
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Import ID"
// @Success     200 {object} services.ImportRunDetail "Import run"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Import run not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /imports/{id} [get]
func (h *ImportHandler) GetImport(c *gin.Context) {
	run, err := h.ledger.GetRun(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, run)
}
