package analysis

import (
	"context"
	"errors"
)

// ErrNotFound is returned when no analysis record exists for an id.
var ErrNotFound = errors.New("analysis not found")

// ListQuery filters and paginates the analysis history
type ListQuery struct {
	Page   int
	Limit  int
	Search string
	Status string // "all" disables the status filter
}

// Page is one page of history results with pagination metadata
type Page struct {
	Results    []*Record `json:"results"`
	Total      int64     `json:"total"`
	Page       int       `json:"page"`
	Limit      int       `json:"limit"`
	TotalPages int       `json:"totalPages"`
}

// Stats summarises the stored analyses for the dashboard
type Stats struct {
	TodayAnalysis  int      `json:"todayAnalysis"`
	AvgESGScore    *float64 `json:"avgEsgScore"`
	ComplianceRate *int     `json:"complianceRate"`
	RiskAlerts     int      `json:"riskAlerts"`
	TotalAnalysis  int      `json:"totalAnalysis"`
}

// RiskAlert is one flattened risk item with severity derived from the
// record's overall score and the risk's own level
type RiskAlert struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Company      string    `json:"company"`
	Severity     RiskLevel `json:"severity"`
	Description  string    `json:"description"`
	AnalysisDate string    `json:"analysisDate"`
	ESGScore     float64   `json:"esgScore"`
}

// Repository port for persisting and querying analysis records
type Repository interface {
	Save(ctx context.Context, r *Record) error
	Get(ctx context.Context, id RecordID) (*Record, error)
	List(ctx context.Context, q ListQuery) (*Page, error)
	// Delete removes the record and any compliance results referencing it
	// (children first). Returns false when the id is unknown.
	Delete(ctx context.Context, id RecordID) (bool, error)
	Stats(ctx context.Context) (*Stats, error)
	RiskAlerts(ctx context.Context, limit int) ([]RiskAlert, error)
}

// ArtifactStore port for archiving uploaded source documents
type ArtifactStore interface {
	Archive(ctx context.Context, key string, data []byte, contentType string) (string, error)
}
