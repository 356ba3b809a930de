package compliance

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/greenaudit/esg-insight/internal/domain/ai"
	"github.com/greenaudit/esg-insight/internal/domain/analysis"
	domain "github.com/greenaudit/esg-insight/internal/domain/compliance"
)

type fakeAnalyses struct {
	records map[analysis.RecordID]*analysis.Record
}

func (f *fakeAnalyses) Save(ctx context.Context, r *analysis.Record) error { return nil }
func (f *fakeAnalyses) Get(ctx context.Context, id analysis.RecordID) (*analysis.Record, error) {
	return f.records[id], nil
}
func (f *fakeAnalyses) List(ctx context.Context, q analysis.ListQuery) (*analysis.Page, error) {
	return nil, nil
}
func (f *fakeAnalyses) Delete(ctx context.Context, id analysis.RecordID) (bool, error) {
	return false, nil
}
func (f *fakeAnalyses) Stats(ctx context.Context) (*analysis.Stats, error) { return nil, nil }
func (f *fakeAnalyses) RiskAlerts(ctx context.Context, limit int) ([]analysis.RiskAlert, error) {
	return nil, nil
}

type fakeComplianceRepo struct {
	saved []*domain.Result
}

func (f *fakeComplianceRepo) Rules(ctx context.Context) ([]domain.Rule, error) {
	return domain.Catalog(), nil
}
func (f *fakeComplianceRepo) UpdateRule(ctx context.Context, id string, upd domain.RuleUpdate) (*domain.Rule, error) {
	return nil, domain.ErrRuleNotFound
}
func (f *fakeComplianceRepo) SaveResult(ctx context.Context, analysisID string, rep *domain.Report) (*domain.Result, error) {
	res := &domain.Result{
		ID:         int64(len(f.saved) + 1),
		AnalysisID: analysisID,
		Overall:    rep.Overall,
		Categories: rep.Categories,
		CreatedAt:  time.Now(),
	}
	f.saved = append(f.saved, res)
	return res, nil
}
func (f *fakeComplianceRepo) LatestResult(ctx context.Context, analysisID string) (*domain.Result, error) {
	if len(f.saved) == 0 {
		return nil, nil
	}
	return f.saved[len(f.saved)-1], nil
}

type fakeAI struct {
	response string
	err      error
	calls    int
}

func (f *fakeAI) AnalyzeESG(ctx context.Context, text string) (string, error) {
	return f.response, f.err
}
func (f *fakeAI) CheckCompliance(ctx context.Context, req ai.ComplianceRequest) (string, error) {
	f.calls++
	return f.response, f.err
}

func testRecord() *analysis.Record {
	return &analysis.Record{
		ID:        "rec-1",
		InputText: "公司披露碳排放数据并建立风险管理体系",
		ESGScores: analysis.Scores{Environmental: 8, Social: 6, Governance: 7, Overall: 7},
	}
}

func newService(rec *analysis.Record, client ai.Client) (*Service, *fakeComplianceRepo) {
	repo := &fakeComplianceRepo{}
	svc := &Service{
		Analyses: &fakeAnalyses{records: map[analysis.RecordID]*analysis.Record{rec.ID: rec}},
		Repo:     repo,
		AI:       client,
		Logger:   zap.NewNop(),
	}
	return svc, repo
}

func TestCheckUsesModelVerdicts(t *testing.T) {
	rec := testRecord()
	svc, repo := newService(rec, &fakeAI{
		response: `{"rules":[{"id":"e1","status":"passed","reason":"披露完整"},{"id":"g1","status":"failed"}]}`,
	})

	rep, err := svc.Check(context.Background(), CheckCommand{AnalysisID: "rec-1"})
	require.NoError(t, err)

	assert.Equal(t, 1, rep.Overall.Passed)
	assert.Equal(t, 1, rep.Overall.Failed)
	require.Len(t, rep.Categories.Environmental.Rules, 1)
	assert.Equal(t, "披露完整", rep.Categories.Environmental.Rules[0].Reason)
	require.Len(t, repo.saved, 1)
	assert.Equal(t, "rec-1", repo.saved[0].AnalysisID)
}

func TestCheckFallsBackOnModelError(t *testing.T) {
	rec := testRecord()
	svc, repo := newService(rec, &fakeAI{err: ai.ErrUnavailable})

	rep, err := svc.Check(context.Background(), CheckCommand{AnalysisID: "rec-1"})
	require.NoError(t, err)

	// the report must be exactly what the deterministic evaluator produces
	want := domain.Aggregate(domain.Evaluate(rec, nil))
	assert.Equal(t, want, rep)
	require.Len(t, repo.saved, 1)
}

func TestCheckFallsBackOnUnparseableResponse(t *testing.T) {
	rec := testRecord()
	svc, _ := newService(rec, &fakeAI{response: "模型输出了一段没有JSON的文字"})

	rep, err := svc.Check(context.Background(), CheckCommand{AnalysisID: "rec-1"})
	require.NoError(t, err)

	want := domain.Aggregate(domain.Evaluate(rec, nil))
	assert.Equal(t, want, rep)
}

func TestCheckNeverMixesModelAndFallback(t *testing.T) {
	// the model answers with junk ids only: the parse succeeds but every
	// item is discarded, which is a zero-rule report, not a fallback
	rec := testRecord()
	svc, _ := newService(rec, &fakeAI{response: `{"rules":[{"id":"zz","status":"passed"}]}`})

	rep, err := svc.Check(context.Background(), CheckCommand{AnalysisID: "rec-1"})
	require.NoError(t, err)
	assert.Equal(t, 0, rep.Overall.Passed+rep.Overall.Warnings+rep.Overall.Failed)
}

func TestCheckUnknownAnalysis(t *testing.T) {
	svc, _ := newService(testRecord(), &fakeAI{})
	_, err := svc.Check(context.Background(), CheckCommand{AnalysisID: "missing"})
	assert.ErrorIs(t, err, analysis.ErrNotFound)
}

func TestCheckHonorsRuleSelection(t *testing.T) {
	rec := testRecord()
	client := &fakeAI{err: errors.New("down")}
	svc, _ := newService(rec, client)

	rules := []domain.Rule{
		{ID: "e1", Enabled: true},
		{ID: "g1", Enabled: false},
		{ID: "s1", Enabled: true},
	}
	rep, err := svc.Check(context.Background(), CheckCommand{AnalysisID: "rec-1", Rules: rules})
	require.NoError(t, err)

	total := rep.Overall.Passed + rep.Overall.Warnings + rep.Overall.Failed
	assert.Equal(t, 2, total)
	assert.Empty(t, rep.Categories.Governance.Rules)
}

func TestCheckAllRulesDisabled(t *testing.T) {
	rec := testRecord()
	svc, repo := newService(rec, &fakeAI{err: errors.New("down")})

	rep, err := svc.Check(context.Background(), CheckCommand{
		AnalysisID: "rec-1",
		Rules:      []domain.Rule{{ID: "e1", Enabled: false}},
	})
	require.NoError(t, err)
	assert.Equal(t, 0, rep.Overall.Passed+rep.Overall.Warnings+rep.Overall.Failed)
	require.Len(t, repo.saved, 1)
}
