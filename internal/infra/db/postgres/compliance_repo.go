package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/lib/pq"

	analysis "github.com/greenaudit/esg-insight/internal/domain/analysis"
	domain "github.com/greenaudit/esg-insight/internal/domain/compliance"
)

type ComplianceRepository struct {
	db *sql.DB
}

func NewComplianceRepository(db *sql.DB) *ComplianceRepository {
	return &ComplianceRepository{db: db}
}

func (r *ComplianceRepository) Rules(ctx context.Context) ([]domain.Rule, error) {
	const q = `
SELECT id, category, name, description, enabled, threshold, created_at, updated_at
FROM compliance_rules
ORDER BY category, id;`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	rules := []domain.Rule{}
	for rows.Next() {
		var rule domain.Rule
		if err := rows.Scan(&rule.ID, &rule.Category, &rule.Name, &rule.Description,
			&rule.Enabled, &rule.Threshold, &rule.CreatedAt, &rule.UpdatedAt); err != nil {
			return nil, err
		}
		rules = append(rules, rule)
	}
	return rules, rows.Err()
}

// UpdateRule patches only the fields present in the payload
func (r *ComplianceRepository) UpdateRule(ctx context.Context, id string, upd domain.RuleUpdate) (*domain.Rule, error) {
	const q = `
UPDATE compliance_rules SET
  name        = COALESCE($2, name),
  description = COALESCE($3, description),
  enabled     = COALESCE($4, enabled),
  threshold   = COALESCE($5, threshold),
  updated_at  = NOW()
WHERE id = $1
RETURNING id, category, name, description, enabled, threshold, created_at, updated_at;`

	var rule domain.Rule
	err := r.db.QueryRowContext(ctx, q, id,
		upd.Name, upd.Description, upd.Enabled, upd.Threshold).
		Scan(&rule.ID, &rule.Category, &rule.Name, &rule.Description,
			&rule.Enabled, &rule.Threshold, &rule.CreatedAt, &rule.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, domain.ErrRuleNotFound
	}
	if err != nil {
		return nil, err
	}
	return &rule, nil
}

func (r *ComplianceRepository) SaveResult(ctx context.Context, analysisID string, rep *domain.Report) (*domain.Result, error) {
	detailed, err := json.Marshal(rep.Categories)
	if err != nil {
		return nil, fmt.Errorf("marshal category reports: %w", err)
	}

	const q = `
INSERT INTO compliance_results
  (analysis_id, overall_rate, passed_count, warnings_count, failed_count, detailed_results)
VALUES ($1,$2,$3,$4,$5,$6)
RETURNING id, created_at;`
	result := &domain.Result{
		AnalysisID: analysisID,
		Overall:    rep.Overall,
		Categories: rep.Categories,
	}
	err = r.db.QueryRowContext(ctx, q, analysisID,
		rep.Overall.Rate, rep.Overall.Passed, rep.Overall.Warnings, rep.Overall.Failed, detailed).
		Scan(&result.ID, &result.CreatedAt)
	if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23503" {
		return nil, analysis.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return result, nil
}

// LatestResult returns nil, nil when the record has never been checked
func (r *ComplianceRepository) LatestResult(ctx context.Context, analysisID string) (*domain.Result, error) {
	const q = `
SELECT id, analysis_id, overall_rate, passed_count, warnings_count, failed_count, detailed_results, created_at
FROM compliance_results
WHERE analysis_id = $1
ORDER BY created_at DESC, id DESC
LIMIT 1;`

	var (
		result   domain.Result
		detailed []byte
	)
	err := r.db.QueryRowContext(ctx, q, analysisID).
		Scan(&result.ID, &result.AnalysisID,
			&result.Overall.Rate, &result.Overall.Passed, &result.Overall.Warnings, &result.Overall.Failed,
			&detailed, &result.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(detailed, &result.Categories); err != nil {
		return nil, fmt.Errorf("decode category reports: %w", err)
	}
	return &result, nil
}
