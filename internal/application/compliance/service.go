package compliance

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/greenaudit/esg-insight/internal/domain/ai"
	"github.com/greenaudit/esg-insight/internal/domain/analysis"
	domain "github.com/greenaudit/esg-insight/internal/domain/compliance"
)

// Service implements the compliance check pipeline and rule
// management. Safe for concurrent use; concurrent checks for the same
// analysis id are not serialized or deduplicated, each simply appends
// its own result row.
type Service struct {
	Analyses analysis.Repository
	Repo     domain.Repository
	AI       ai.Client
	Logger   *zap.Logger
}

// CheckCommand: Rules, when present, is the client-side rule
// configuration; only enabled entries are evaluated. A nil Rules slice
// means the full catalog.
type CheckCommand struct {
	AnalysisID string
	Rules      []domain.Rule
}

// Check runs one compliance check: fetch the record, try the model,
// fall back to the deterministic evaluator on any model failure, then
// aggregate and persist. Model failures are fully absorbed; the check
// errors only when the record is missing or persistence fails.
func (s *Service) Check(ctx context.Context, cmd CheckCommand) (*domain.Report, error) {
	rec, err := s.Analyses.Get(ctx, analysis.RecordID(cmd.AnalysisID))
	if err != nil {
		return nil, fmt.Errorf("load analysis: %w", err)
	}
	if rec == nil {
		return nil, analysis.ErrNotFound
	}

	ruleIDs := enabledRuleIDs(cmd.Rules)

	report, err := s.checkWithModel(ctx, rec, ruleIDs)
	if err != nil {
		s.Logger.Warn("model compliance check failed, using deterministic evaluator",
			zap.String("analysis_id", cmd.AnalysisID), zap.Error(err))
		report = domain.Aggregate(domain.Evaluate(rec, ruleIDs))
	}

	if _, err := s.Repo.SaveResult(ctx, string(rec.ID), report); err != nil {
		return nil, fmt.Errorf("save compliance result: %w", err)
	}
	return report, nil
}

// enabledRuleIDs keeps the nil/empty distinction: nil means default
// catalog, an empty result means the client disabled everything.
func enabledRuleIDs(rules []domain.Rule) []string {
	if rules == nil {
		return nil
	}
	ids := make([]string, 0, len(rules))
	for _, r := range rules {
		if r.Enabled {
			ids = append(ids, r.ID)
		}
	}
	return ids
}

// checkWithModel asks the model for per-rule verdicts. Any failure
// (transport, timeout, no JSON, bad JSON) is returned to the caller,
// which delegates the whole check to the deterministic evaluator;
// partial model output is never mixed with fallback output.
func (s *Service) checkWithModel(ctx context.Context, rec *analysis.Record, ruleIDs []string) (*domain.Report, error) {
	ids := ruleIDs
	if ids == nil {
		ids = domain.CatalogIDs()
	}
	rules := make([]domain.Rule, 0, len(ids))
	for _, id := range ids {
		if r, ok := domain.LookupRule(id); ok {
			rules = append(rules, r)
		}
	}

	raw, err := s.AI.CheckCompliance(ctx, ai.ComplianceRequest{
		CompanyName: rec.CompanyName(),
		Scores:      rec.ESGScores,
		Rules:       rules,
		InputText:   rec.InputText,
	})
	if err != nil {
		return nil, err
	}

	verdicts, err := domain.ParseVerdicts(raw)
	if err != nil {
		return nil, err
	}
	// A parsed response without a rules array aggregates to a zero-rule
	// report; that is deliberate, not a fallback trigger.
	return domain.Aggregate(verdicts), nil
}

// Rules returns the stored rule catalog.
func (s *Service) Rules(ctx context.Context) ([]domain.Rule, error) {
	return s.Repo.Rules(ctx)
}

// UpdateRule applies a partial update to one rule.
func (s *Service) UpdateRule(ctx context.Context, id string, upd domain.RuleUpdate) (*domain.Rule, error) {
	return s.Repo.UpdateRule(ctx, id, upd)
}

// LatestResult returns the most recent persisted check for an analysis.
func (s *Service) LatestResult(ctx context.Context, analysisID string) (*domain.Result, error) {
	return s.Repo.LatestResult(ctx, analysisID)
}
