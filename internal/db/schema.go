package db

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// EnsureSchema creates the tables and indexes if they do not exist.
// Idempotent; a real deployment would run migrations instead.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id UUID PRIMARY KEY,
			email TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			full_name TEXT NOT NULL,
			role TEXT NOT NULL DEFAULT 'user',
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS applications (
			id UUID PRIMARY KEY,
			user_id UUID NOT NULL REFERENCES users(id),
			company_name TEXT NOT NULL,
			job_title TEXT NOT NULL,
			status TEXT NOT NULL DEFAULT 'applied',
			date_applied DATE NOT NULL,
			job_url TEXT,
			notes TEXT,
			follow_up_date DATE,
			last_contact_date DATE,
			is_archived BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_applications_user_id ON applications (user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_applications_company_name ON applications (company_name)`,
		`CREATE INDEX IF NOT EXISTS idx_applications_status ON applications (status)`,
		`CREATE INDEX IF NOT EXISTS idx_applications_is_archived ON applications (is_archived)`,
	}

	for _, stmt := range stmts {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return err
		}
	}

	return nil
}
