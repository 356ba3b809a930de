package postgres

import (
	"context"
	"database/sql"

	"github.com/lib/pq"

	domain "github.com/greenaudit/esg-insight/internal/domain/users"
)

type UsersRepository struct {
	db *sql.DB
}

func NewUsersRepository(db *sql.DB) *UsersRepository {
	return &UsersRepository{db: db}
}

func (r *UsersRepository) Create(ctx context.Context, u *domain.User) (*domain.User, error) {
	const q = `
INSERT INTO users (username, email, password_hash, role)
VALUES ($1,$2,$3,$4)
RETURNING id, created_at;`
	created := *u
	err := r.db.QueryRowContext(ctx, q, u.Username, u.Email, u.PasswordHash, u.Role).
		Scan(&created.ID, &created.CreatedAt)
	if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
		return nil, domain.ErrExists
	}
	if err != nil {
		return nil, err
	}
	return &created, nil
}

func (r *UsersRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	const q = `
SELECT id, username, email, password_hash, role, created_at
FROM users WHERE username = $1;`
	return r.scanUser(r.db.QueryRowContext(ctx, q, username))
}

func (r *UsersRepository) GetByUsernameOrEmail(ctx context.Context, username, email string) (*domain.User, error) {
	const q = `
SELECT id, username, email, password_hash, role, created_at
FROM users WHERE username = $1 OR email = $2;`
	return r.scanUser(r.db.QueryRowContext(ctx, q, username, email))
}

func (r *UsersRepository) scanUser(row *sql.Row) (*domain.User, error) {
	var u domain.User
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.Role, &u.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}
