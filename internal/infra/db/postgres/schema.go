package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/greenaudit/esg-insight/internal/domain/compliance"
)

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id SERIAL PRIMARY KEY,
		username VARCHAR(50) UNIQUE NOT NULL,
		email VARCHAR(100) UNIQUE NOT NULL,
		password_hash VARCHAR(255) NOT NULL,
		role VARCHAR(20) DEFAULT 'user',
		created_at TIMESTAMPTZ DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS analysis_results (
		id VARCHAR(36) PRIMARY KEY,
		user_id INTEGER REFERENCES users(id),
		input_text TEXT NOT NULL,
		file_name VARCHAR(255),
		entities JSONB,
		esg_scores JSONB NOT NULL,
		key_insights TEXT[],
		risks JSONB,
		recommendations TEXT[],
		status VARCHAR(20) DEFAULT 'completed',
		source VARCHAR(50) DEFAULT 'deepseek',
		created_at TIMESTAMPTZ DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS compliance_rules (
		id VARCHAR(10) PRIMARY KEY,
		category VARCHAR(20) NOT NULL,
		name VARCHAR(100) NOT NULL,
		description TEXT,
		enabled BOOLEAN DEFAULT true,
		threshold DECIMAL(3,2) DEFAULT 0.8,
		created_at TIMESTAMPTZ DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMPTZ DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS compliance_results (
		id SERIAL PRIMARY KEY,
		analysis_id VARCHAR(36) NOT NULL REFERENCES analysis_results(id),
		overall_rate INTEGER NOT NULL,
		passed_count INTEGER NOT NULL,
		warnings_count INTEGER NOT NULL,
		failed_count INTEGER NOT NULL,
		detailed_results JSONB NOT NULL,
		created_at TIMESTAMPTZ DEFAULT CURRENT_TIMESTAMP
	)`,
}

// InitSchema creates the tables and seeds the rule catalog. Existing
// rule rows are left untouched so operator edits survive restarts.
func InitSchema(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schemaStatements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}

	const seed = `
INSERT INTO compliance_rules (id, category, name, description, enabled, threshold)
VALUES ($1,$2,$3,$4,$5,$6)
ON CONFLICT (id) DO NOTHING;`
	for _, r := range compliance.Catalog() {
		if _, err := db.ExecContext(ctx, seed, r.ID, r.Category, r.Name, r.Description, r.Enabled, r.Threshold); err != nil {
			return fmt.Errorf("seed rule %s: %w", r.ID, err)
		}
	}
	return nil
}
