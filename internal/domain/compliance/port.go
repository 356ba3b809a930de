package compliance

import (
	"context"
	"errors"
	"time"
)

// ErrRuleNotFound is returned when a rule id is not in the catalog.
var ErrRuleNotFound = errors.New("compliance rule not found")

// RuleUpdate is a partial rule payload: only non-nil fields are
// applied, the rest keep their stored values.
type RuleUpdate struct {
	Name        *string  `json:"name,omitempty"`
	Description *string  `json:"description,omitempty"`
	Enabled     *bool    `json:"enabled,omitempty"`
	Threshold   *float64 `json:"threshold,omitempty"`
}

// Result is one persisted compliance check. Multiple results may exist
// per analysis; latest-by-creation-time is a read-time convention, not
// an enforced constraint.
type Result struct {
	ID         int64      `json:"id"`
	AnalysisID string     `json:"analysisId"`
	Overall    Overall    `json:"overall"`
	Categories Categories `json:"categories"`
	CreatedAt  time.Time  `json:"createdAt"`
}

// Repository port for the rule catalog and persisted check results
type Repository interface {
	Rules(ctx context.Context) ([]Rule, error)
	UpdateRule(ctx context.Context, id string, upd RuleUpdate) (*Rule, error)
	// SaveResult must fail when analysisID does not reference an
	// existing analysis record.
	SaveResult(ctx context.Context, analysisID string, rep *Report) (*Result, error)
	LatestResult(ctx context.Context, analysisID string) (*Result, error)
}
