package services

import (
	"context"
	"time"

	"utilityledger/internal/ingest"
	"utilityledger/internal/models"
	"utilityledger/internal/pagination"
)

// UserServicer defines the contract for user-related business logic.
type UserServicer interface {
	CreateUser(ctx context.Context, name, email, password string, role models.UserRole) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id uint) (*models.User, error)
	VerifyPassword(user *models.User, password string) bool
	Authenticate(ctx context.Context, email, password string) (*models.User, error)
	ListUsers(ctx context.Context, page pagination.PageRequest) (*pagination.PageResponse[models.User], error)
}

// OwnerServicer defines the contract for owner reference data.
type OwnerServicer interface {
	EnsureOwner(ctx context.Context, name string) (*models.Owner, error)
	GetOwnerByID(ctx context.Context, id uint) (*models.Owner, error)
	ListOwners(ctx context.Context, page pagination.PageRequest) (*pagination.PageResponse[models.Owner], error)
}

// ComplexServicer defines the contract for complex reference data.
type ComplexServicer interface {
	EnsureComplex(ctx context.Context, name string, ownerID *uint) (*models.Complex, error)
	GetComplexByID(ctx context.Context, id uint) (*models.Complex, error)
	ListComplexes(ctx context.Context, ownerID *uint, page pagination.PageRequest) (*pagination.PageResponse[models.Complex], error)
}

// TransactionFilter holds optional constraints on ledger rows. Nil fields
// impose nothing; set fields are combined with AND.
type TransactionFilter struct {
	UtilityType *models.UtilityType
	MinAmount   *float64
	MaxAmount   *float64
	ComplexID   *uint
	OwnerID     *uint
	MeterSearch *string
	DateFrom    *time.Time
	DateTo      *time.Time
}

// TransactionInput carries the fields of a directly inserted ledger row.
type TransactionInput struct {
	UtilityType models.UtilityType
	Amount      float64
	ComplexID   uint
	MeterNumber *string
	OwnerID     *uint
	Date        time.Time
}

// TransactionUpdateFields lists the fields a partial update may change.
// Nil means "leave unchanged". For MeterNumber and OwnerID a non-nil pointer
// to nil clears the column.
type TransactionUpdateFields struct {
	UtilityType *models.UtilityType
	Amount      *float64
	ComplexID   *uint
	MeterNumber **string
	OwnerID     **uint
	Date        *time.Time
}

// TransactionServicer defines the contract for direct ledger access.
type TransactionServicer interface {
	CreateTransaction(ctx context.Context, input TransactionInput) (*models.Transaction, error)
	UpdateTransaction(ctx context.Context, id uint, fields TransactionUpdateFields) (int64, error)
	GetTransactionByID(ctx context.Context, id uint) (*models.Transaction, error)
	ListTransactions(ctx context.Context, filter TransactionFilter, page pagination.PageRequest) (*pagination.PageResponse[models.Transaction], error)
}

// UtilityTotals sums amounts per utility. All always equals the sum of the
// three buckets.
type UtilityTotals struct {
	All         float64 `json:"all"`
	Water       float64 `json:"water"`
	Electricity float64 `json:"electricity"`
	Gas         float64 `json:"gas"`
}

// OwnerTotal is one row of the per-owner aggregation. A nil OwnerID groups
// rows without an owner.
type OwnerTotal struct {
	OwnerID   *uint   `json:"owner_id"`
	OwnerName *string `json:"owner_name"`
	Total     float64 `json:"total"`
}

// ComplexTotal is one row of the per-complex aggregation.
type ComplexTotal struct {
	ComplexID   uint    `json:"complex_id"`
	ComplexName string  `json:"complex_name"`
	Total       float64 `json:"total"`
}

// ReportServicer defines the contract for ledger aggregations.
type ReportServicer interface {
	TotalsByUtility(ctx context.Context, filter TransactionFilter) (*UtilityTotals, error)
	TotalsByOwner(ctx context.Context, filter TransactionFilter) ([]OwnerTotal, error)
	TotalsByComplex(ctx context.Context, filter TransactionFilter) ([]ComplexTotal, error)
}

// ImportRequest is one uploaded file to ingest.
type ImportRequest struct {
	Filename string
	Data     []byte
	Sheet    string
	DryRun   bool
}

// ImportSummary counts the rows of one run.
type ImportSummary struct {
	RowsReceived int    `json:"rows_received"`
	RowsValid    int    `json:"rows_valid"`
	Inserted     int    `json:"inserted"`
	Updated      int    `json:"updated"`
	Failed       int    `json:"failed"`
	DryRun       bool   `json:"dry_run"`
	Sheet        string `json:"sheet"`
	DurationMS   int64  `json:"duration_ms"`
}

// SampleRow previews an accepted row.
type SampleRow struct {
	UtilityType string  `json:"utility_type"`
	Amount      float64 `json:"amount"`
	Complex     string  `json:"complex"`
	Owner       *string `json:"owner"`
	MeterNumber *string `json:"meter_number"`
	Date        string  `json:"date"`
}

// ImportResult is the structured outcome of an import run.
type ImportResult struct {
	Success   bool              `json:"success"`
	Summary   ImportSummary     `json:"summary"`
	Warnings  []ingest.Warning  `json:"warnings"`
	Errors    []ingest.RowError `json:"errors"`
	Sample    []SampleRow       `json:"sample"`
	UpsertKey string            `json:"upsert_key"`
	ImportID  string            `json:"import_id"`
	Error     string            `json:"error,omitempty"`
}

// ImportServicer defines the contract for spreadsheet ingestion.
type ImportServicer interface {
	Import(ctx context.Context, req ImportRequest) (*ImportResult, error)
}

// ImportReport is the detail stored alongside a ledger entry.
type ImportReport struct {
	Warnings []ingest.Warning  `json:"warnings"`
	Errors   []ingest.RowError `json:"errors"`
	Error    string            `json:"error,omitempty"`
}

// ImportRunDetail is a ledger entry with its decoded report.
type ImportRunDetail struct {
	models.ImportRun
	Report ImportReport `json:"report"`
}

// ImportLedgerServicer defines the contract for the import audit trail.
type ImportLedgerServicer interface {
	Record(ctx context.Context, run *models.ImportRun, report ImportReport)
	ListRuns(ctx context.Context, page pagination.PageRequest) (*pagination.PageResponse[models.ImportRun], error)
	GetRun(ctx context.Context, importID string) (*ImportRunDetail, error)
}
