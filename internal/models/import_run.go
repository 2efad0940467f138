package models

import "time"

// ImportRun is the audit record of one ingestion attempt.
type ImportRun struct {
	ImportID     string    `gorm:"primaryKey;type:varchar(64)" json:"import_id"`
	Filename     string    `gorm:"type:varchar(255)" json:"filename"`
	Sheet        string    `gorm:"type:varchar(255)" json:"sheet"`
	StartedAt    time.Time `json:"started_at"`
	FinishedAt   time.Time `json:"finished_at"`
	RowsReceived int       `json:"rows_received"`
	RowsValid    int       `json:"rows_valid"`
	Inserted     int       `json:"inserted"`
	Updated      int       `json:"updated"`
	Failed       int       `json:"failed"`
	DryRun       bool      `json:"dry_run"`
	Success      bool      `json:"success"`
	ReportJSON   string    `gorm:"column:report_json;type:text" json:"-"`
}

// TableName pins the table name.
func (ImportRun) TableName() string { return "imports" }
