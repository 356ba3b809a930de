package analysis

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/greenaudit/esg-insight/internal/application"
	domain "github.com/greenaudit/esg-insight/internal/domain/analysis"
	"github.com/greenaudit/esg-insight/internal/domain/ai"
)

// ErrEmptyText rejects analysis requests with nothing to analyze.
var ErrEmptyText = errors.New("input text must not be empty")

// ErrUnsupportedFile rejects uploads outside the allowed extensions.
var ErrUnsupportedFile = errors.New("unsupported file type")

// Service implements the analysis use-cases. Safe for concurrent use.
type Service struct {
	Repo      domain.Repository
	AI        ai.Client
	Artifacts domain.ArtifactStore // optional, nil disables archiving
	Clock     application.Clock
	Logger    *zap.Logger
}

// AnalyzeText scores a text via the model, falling back to the local
// analysis on call failure and to the text-derived parse on JSON
// failure, then persists and returns the record. The endpoint always
// produces a record as long as persistence works.
func (s *Service) AnalyzeText(ctx context.Context, text, fileName string) (*domain.Record, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyText
	}

	rec := s.analyze(ctx, text)
	rec.ID = domain.RecordID(uuid.New().String())
	rec.InputText = text
	rec.FileName = fileName
	rec.CreatedAt = s.Clock.Now()

	if err := s.Repo.Save(ctx, rec); err != nil {
		return nil, fmt.Errorf("save analysis: %w", err)
	}
	return rec, nil
}

func (s *Service) analyze(ctx context.Context, text string) *domain.Record {
	raw, err := s.AI.AnalyzeESG(ctx, text)
	if err != nil {
		s.Logger.Warn("model call failed, using local analysis", zap.Error(err))
		return domain.LocalFallback(text)
	}
	rec, err := domain.ParseModelResult(raw)
	if err != nil {
		s.Logger.Warn("model response not parseable, deriving from text", zap.Error(err))
		return domain.ParseFromText(raw, text)
	}
	return rec
}

// AnalyzeUpload extracts text from an uploaded document, optionally
// archives the raw file, then analyzes the text. Only txt content is
// read verbatim; pdf and word documents produce placeholder extraction
// text pending a real document parser.
func (s *Service) AnalyzeUpload(ctx context.Context, fileName string, data []byte) (*domain.Record, error) {
	text, err := extractText(fileName, data)
	if err != nil {
		return nil, err
	}

	if s.Artifacts != nil {
		key := fmt.Sprintf("uploads/%s-%s", uuid.New().String(), filepath.Base(fileName))
		if url, aerr := s.Artifacts.Archive(ctx, key, data, contentTypeFor(fileName)); aerr != nil {
			// archiving is best-effort provenance, never fails the analysis
			s.Logger.Warn("upload archive failed", zap.String("file", fileName), zap.Error(aerr))
		} else {
			s.Logger.Info("upload archived", zap.String("file", fileName), zap.String("url", url))
		}
	}

	return s.AnalyzeText(ctx, text, fileName)
}

func extractText(fileName string, data []byte) (string, error) {
	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".txt":
		return string(data), nil
	case ".pdf":
		return fmt.Sprintf("这是从PDF文件\"%s\"中提取的文本内容。该文件包含了公司的ESG相关信息，包括环境保护措施、社会责任履行情况以及公司治理结构等重要内容。公司在碳排放控制、员工权益保护、董事会独立性等方面都有详细的披露和说明。", fileName), nil
	case ".doc", ".docx":
		return fmt.Sprintf("这是从Word文档\"%s\"中提取的文本内容。文档详细描述了公司的可持续发展战略，包括环境管理体系、社会责任项目、治理结构优化等方面的具体措施和成果。公司致力于实现碳中和目标，加强员工培训和福利保障，完善内控制度和风险管理体系。", fileName), nil
	default:
		return "", ErrUnsupportedFile
	}
}

func contentTypeFor(fileName string) string {
	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".txt":
		return "text/plain"
	case ".pdf":
		return "application/pdf"
	default:
		return "application/octet-stream"
	}
}

// History returns one page of stored analyses.
func (s *Service) History(ctx context.Context, q domain.ListQuery) (*domain.Page, error) {
	if q.Page <= 0 {
		q.Page = 1
	}
	if q.Limit <= 0 {
		q.Limit = 10
	}
	if q.Status == "" {
		q.Status = "all"
	}
	return s.Repo.List(ctx, q)
}

// Get loads one record by id.
func (s *Service) Get(ctx context.Context, id string) (*domain.Record, error) {
	rec, err := s.Repo.Get(ctx, domain.RecordID(id))
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, domain.ErrNotFound
	}
	return rec, nil
}

// Delete removes a record together with its compliance results.
func (s *Service) Delete(ctx context.Context, id string) error {
	ok, err := s.Repo.Delete(ctx, domain.RecordID(id))
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrNotFound
	}
	return nil
}

// Stats returns the dashboard summary.
func (s *Service) Stats(ctx context.Context) (*domain.Stats, error) {
	return s.Repo.Stats(ctx)
}

// RiskAlerts returns the most recent flattened risk items.
func (s *Service) RiskAlerts(ctx context.Context, limit int) ([]domain.RiskAlert, error) {
	if limit <= 0 {
		limit = 10
	}
	return s.Repo.RiskAlerts(ctx, limit)
}
