package analysis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/greenaudit/esg-insight/internal/domain/ai"
	domain "github.com/greenaudit/esg-insight/internal/domain/analysis"
)

type fakeRepo struct {
	saved []*domain.Record
}

func (f *fakeRepo) Save(ctx context.Context, r *domain.Record) error {
	f.saved = append(f.saved, r)
	return nil
}
func (f *fakeRepo) Get(ctx context.Context, id domain.RecordID) (*domain.Record, error) {
	for _, r := range f.saved {
		if r.ID == id {
			return r, nil
		}
	}
	return nil, nil
}
func (f *fakeRepo) List(ctx context.Context, q domain.ListQuery) (*domain.Page, error) {
	return &domain.Page{Results: f.saved, Total: int64(len(f.saved)), Page: q.Page, Limit: q.Limit}, nil
}
func (f *fakeRepo) Delete(ctx context.Context, id domain.RecordID) (bool, error) {
	for i, r := range f.saved {
		if r.ID == id {
			f.saved = append(f.saved[:i], f.saved[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}
func (f *fakeRepo) Stats(ctx context.Context) (*domain.Stats, error) { return &domain.Stats{}, nil }
func (f *fakeRepo) RiskAlerts(ctx context.Context, limit int) ([]domain.RiskAlert, error) {
	return nil, nil
}

type fakeAI struct {
	response string
	err      error
}

func (f *fakeAI) AnalyzeESG(ctx context.Context, text string) (string, error) {
	return f.response, f.err
}
func (f *fakeAI) CheckCompliance(ctx context.Context, req ai.ComplianceRequest) (string, error) {
	return "", errors.New("not used")
}

type fakeArtifacts struct {
	keys []string
	err  error
}

func (f *fakeArtifacts) Archive(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.keys = append(f.keys, key)
	return "http://store/" + key, nil
}

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

func newService(client ai.Client) (*Service, *fakeRepo) {
	repo := &fakeRepo{}
	svc := &Service{
		Repo:   repo,
		AI:     client,
		Clock:  fixedClock{t: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)},
		Logger: zap.NewNop(),
	}
	return svc, repo
}

func TestAnalyzeTextFromModel(t *testing.T) {
	svc, repo := newService(&fakeAI{
		response: `{"esgScores":{"environmental":8,"social":7,"governance":6,"overall":7},"keyInsights":["披露完整"]}`,
	})

	rec, err := svc.AnalyzeText(context.Background(), "公司年度ESG报告", "")
	require.NoError(t, err)

	assert.Equal(t, "deepseek-api", rec.Source)
	assert.NotEmpty(t, rec.ID)
	assert.Equal(t, "公司年度ESG报告", rec.InputText)
	assert.Equal(t, 8.0, rec.ESGScores.Environmental)
	assert.Equal(t, svc.Clock.Now(), rec.CreatedAt)
	require.Len(t, repo.saved, 1)
	assert.Same(t, rec, repo.saved[0])
}

func TestAnalyzeTextEmpty(t *testing.T) {
	svc, repo := newService(&fakeAI{})
	_, err := svc.AnalyzeText(context.Background(), "   \n\t", "")
	assert.ErrorIs(t, err, ErrEmptyText)
	assert.Empty(t, repo.saved)
}

func TestAnalyzeTextModelDownUsesLocalFallback(t *testing.T) {
	svc, repo := newService(&fakeAI{err: ai.ErrUnavailable})

	rec, err := svc.AnalyzeText(context.Background(), "公司报告", "")
	require.NoError(t, err)
	assert.Equal(t, "local-backup", rec.Source)
	assert.Equal(t, 7.5, rec.ESGScores.Overall)
	require.Len(t, repo.saved, 1)
}

func TestAnalyzeTextBadJSONDerivesFromResponse(t *testing.T) {
	svc, _ := newService(&fakeAI{response: "该公司重视环境和碳排放管理，但无法给出JSON"})

	rec, err := svc.AnalyzeText(context.Background(), "公司报告", "")
	require.NoError(t, err)
	assert.Equal(t, "deepseek-api-parsed", rec.Source)
}

func TestAnalyzeUploadTxt(t *testing.T) {
	svc, _ := newService(&fakeAI{err: ai.ErrUnavailable})

	rec, err := svc.AnalyzeUpload(context.Background(), "report.txt", []byte("公司ESG报告正文"))
	require.NoError(t, err)
	assert.Equal(t, "公司ESG报告正文", rec.InputText)
	assert.Equal(t, "report.txt", rec.FileName)
}

func TestAnalyzeUploadPdfUsesExtractionText(t *testing.T) {
	svc, _ := newService(&fakeAI{err: ai.ErrUnavailable})

	rec, err := svc.AnalyzeUpload(context.Background(), "report.pdf", []byte{0x25, 0x50})
	require.NoError(t, err)
	assert.Contains(t, rec.InputText, "report.pdf")
	assert.Contains(t, rec.InputText, "PDF")
}

func TestAnalyzeUploadUnsupported(t *testing.T) {
	svc, _ := newService(&fakeAI{})
	_, err := svc.AnalyzeUpload(context.Background(), "report.exe", []byte("x"))
	assert.ErrorIs(t, err, ErrUnsupportedFile)
}

func TestAnalyzeUploadArchives(t *testing.T) {
	svc, _ := newService(&fakeAI{err: ai.ErrUnavailable})
	store := &fakeArtifacts{}
	svc.Artifacts = store

	_, err := svc.AnalyzeUpload(context.Background(), "report.txt", []byte("正文"))
	require.NoError(t, err)
	require.Len(t, store.keys, 1)
	assert.Contains(t, store.keys[0], "report.txt")
}

func TestAnalyzeUploadArchiveFailureIsAbsorbed(t *testing.T) {
	svc, repo := newService(&fakeAI{err: ai.ErrUnavailable})
	svc.Artifacts = &fakeArtifacts{err: errors.New("bucket gone")}

	_, err := svc.AnalyzeUpload(context.Background(), "report.txt", []byte("正文"))
	require.NoError(t, err)
	require.Len(t, repo.saved, 1)
}

func TestHistoryDefaults(t *testing.T) {
	svc, _ := newService(&fakeAI{})

	page, err := svc.History(context.Background(), domain.ListQuery{})
	require.NoError(t, err)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, 10, page.Limit)
}

func TestGetAndDeleteUnknown(t *testing.T) {
	svc, _ := newService(&fakeAI{})

	_, err := svc.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	err = svc.Delete(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
