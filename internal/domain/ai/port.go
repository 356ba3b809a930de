package ai

import (
	"context"

	"github.com/greenaudit/esg-insight/internal/domain/analysis"
	"github.com/greenaudit/esg-insight/internal/domain/compliance"
)

// ComplianceRequest carries everything the model needs for a
// rule-by-rule compliance review of one analysis record.
type ComplianceRequest struct {
	CompanyName string
	Scores      analysis.Scores
	Rules       []compliance.Rule
	InputText   string
}

// Client is the outbound LLM port. Both methods return the raw model
// response text; callers own JSON extraction and validation, and fall
// back to the deterministic paths on any error.
type Client interface {
	AnalyzeESG(ctx context.Context, text string) (string, error)
	CheckCompliance(ctx context.Context, req ComplianceRequest) (string, error)
}
