package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/lib/pq"

	domain "github.com/greenaudit/esg-insight/internal/domain/analysis"
)

type AnalysisRepository struct {
	db *sql.DB
}

func NewAnalysisRepository(db *sql.DB) *AnalysisRepository {
	return &AnalysisRepository{db: db}
}

const analysisColumns = `id, user_id, input_text, file_name, entities, esg_scores,
key_insights, risks, recommendations, status, source, created_at`

// Save inserts a new analysis record
func (r *AnalysisRepository) Save(ctx context.Context, a *domain.Record) error {
	entities, err := json.Marshal(a.Entities)
	if err != nil {
		return fmt.Errorf("marshal entities: %w", err)
	}
	scores, err := json.Marshal(a.ESGScores)
	if err != nil {
		return fmt.Errorf("marshal scores: %w", err)
	}
	risks, err := json.Marshal(a.Risks)
	if err != nil {
		return fmt.Errorf("marshal risks: %w", err)
	}

	const q = `
INSERT INTO analysis_results
  (id, user_id, input_text, file_name, entities, esg_scores, key_insights, risks, recommendations, status, source, created_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12);`
	_, err = r.db.ExecContext(ctx, q,
		a.ID, a.UserID, a.InputText, nullIfEmpty(a.FileName),
		entities, scores,
		pq.Array(a.KeyInsights), risks, pq.Array(a.Recommendations),
		a.Status, a.Source, a.CreatedAt)
	return err
}

// Get returns nil, nil when the id is unknown
func (r *AnalysisRepository) Get(ctx context.Context, id domain.RecordID) (*domain.Record, error) {
	q := fmt.Sprintf(`SELECT %s FROM analysis_results WHERE id = $1;`, analysisColumns)
	rec, err := scanRecord(r.db.QueryRowContext(ctx, q, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return rec, err
}

// List pages through the history with optional search and status filter
func (r *AnalysisRepository) List(ctx context.Context, query domain.ListQuery) (*domain.Page, error) {
	where := "WHERE 1=1"
	args := []any{}
	idx := 1

	if query.Search != "" {
		where += fmt.Sprintf(" AND (input_text ILIKE $%d OR file_name ILIKE $%d)", idx, idx+1)
		pattern := "%" + query.Search + "%"
		args = append(args, pattern, pattern)
		idx += 2
	}
	if query.Status != "" && query.Status != "all" {
		where += fmt.Sprintf(" AND status = $%d", idx)
		args = append(args, query.Status)
		idx++
	}

	var total int64
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM analysis_results "+where, args...).Scan(&total); err != nil {
		return nil, err
	}

	offset := (query.Page - 1) * query.Limit
	q := fmt.Sprintf(`SELECT %s FROM analysis_results %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d;`,
		analysisColumns, where, idx, idx+1)
	rows, err := r.db.QueryContext(ctx, q, append(args, query.Limit, offset)...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	results := []*domain.Record{}
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	totalPages := int((total + int64(query.Limit) - 1) / int64(query.Limit))
	return &domain.Page{
		Results:    results,
		Total:      total,
		Page:       query.Page,
		Limit:      query.Limit,
		TotalPages: totalPages,
	}, nil
}

// Delete removes compliance results first, then the record, inside one
// transaction so the FK ordering cannot be violated.
func (r *AnalysisRepository) Delete(ctx context.Context, id domain.RecordID) (bool, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return false, err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM compliance_results WHERE analysis_id = $1;`, id); err != nil {
		return false, err
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM analysis_results WHERE id = $1;`, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	if err := tx.Commit(); err != nil {
		return false, err
	}
	return n > 0, nil
}

// Stats aggregates the dashboard numbers
func (r *AnalysisRepository) Stats(ctx context.Context) (*domain.Stats, error) {
	stats := &domain.Stats{}

	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM analysis_results WHERE DATE(created_at) = CURRENT_DATE;`).
		Scan(&stats.TodayAnalysis); err != nil {
		return nil, err
	}
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM analysis_results;`).
		Scan(&stats.TotalAnalysis); err != nil {
		return nil, err
	}
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM analysis_results WHERE jsonb_array_length(COALESCE(risks, '[]'::jsonb)) > 0;`).
		Scan(&stats.RiskAlerts); err != nil {
		return nil, err
	}

	var avg sql.NullFloat64
	if err := r.db.QueryRowContext(ctx, `
SELECT AVG((esg_scores->>'overall')::numeric)
FROM analysis_results
WHERE esg_scores->>'overall' IS NOT NULL AND (esg_scores->>'overall')::numeric > 0;`).
		Scan(&avg); err != nil {
		return nil, err
	}
	if avg.Valid {
		rounded := float64(int(avg.Float64*10+0.5)) / 10
		stats.AvgESGScore = &rounded
		rate := int(rounded*10 + 0.5)
		stats.ComplianceRate = &rate
	}
	return stats, nil
}

// RiskAlerts flattens the most recent records' risk items, deriving
// severity from the overall score and the risk's own level.
func (r *AnalysisRepository) RiskAlerts(ctx context.Context, limit int) ([]domain.RiskAlert, error) {
	const q = `
SELECT id, created_at, entities, risks, esg_scores
FROM analysis_results
WHERE jsonb_array_length(COALESCE(risks, '[]'::jsonb)) > 0
ORDER BY created_at DESC
LIMIT $1;`
	rows, err := r.db.QueryContext(ctx, q, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	alerts := []domain.RiskAlert{}
	for rows.Next() {
		var (
			id       string
			created  time.Time
			entities []byte
			risks    []byte
			scores   []byte
		)
		if err := rows.Scan(&id, &created, &entities, &risks, &scores); err != nil {
			return nil, err
		}

		rec := domain.Record{ID: domain.RecordID(id)}
		if entities != nil {
			_ = json.Unmarshal(entities, &rec.Entities)
		}
		if risks != nil {
			_ = json.Unmarshal(risks, &rec.Risks)
		}
		_ = json.Unmarshal(scores, &rec.ESGScores)

		company := rec.CompanyName()
		for _, risk := range rec.Risks {
			severity := domain.RiskLow
			if rec.ESGScores.Overall < 5 || risk.Level == domain.RiskHigh {
				severity = domain.RiskHigh
			} else if rec.ESGScores.Overall < 7 || risk.Level == domain.RiskMedium {
				severity = domain.RiskMedium
			}

			title := risk.Description
			if len([]rune(title)) > 20 {
				title = string([]rune(title)[:20]) + "..."
			}
			if title == "" {
				title = "风险预警"
			}

			alerts = append(alerts, domain.RiskAlert{
				ID:           fmt.Sprintf("%s_%d", id, len(alerts)),
				Title:        title,
				Company:      company,
				Severity:     severity,
				Description:  risk.Description,
				AnalysisDate: created.Format("2006-01-02"),
				ESGScore:     rec.ESGScores.Overall,
			})
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(alerts) > limit {
		alerts = alerts[:limit]
	}
	return alerts, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (*domain.Record, error) {
	var (
		rec      domain.Record
		userID   sql.NullInt64
		fileName sql.NullString
		entities []byte
		scores   []byte
		risks    []byte
	)
	err := row.Scan(&rec.ID, &userID, &rec.InputText, &fileName, &entities, &scores,
		pq.Array(&rec.KeyInsights), &risks, pq.Array(&rec.Recommendations),
		&rec.Status, &rec.Source, &rec.CreatedAt)
	if err != nil {
		return nil, err
	}
	if userID.Valid {
		rec.UserID = &userID.Int64
	}
	rec.FileName = fileName.String
	if entities != nil {
		if err := json.Unmarshal(entities, &rec.Entities); err != nil {
			return nil, fmt.Errorf("decode entities: %w", err)
		}
	}
	if err := json.Unmarshal(scores, &rec.ESGScores); err != nil {
		return nil, fmt.Errorf("decode scores: %w", err)
	}
	if risks != nil {
		if err := json.Unmarshal(risks, &rec.Risks); err != nil {
			return nil, fmt.Errorf("decode risks: %w", err)
		}
	}
	return &rec, nil
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}
