package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jobdeck/jobdeck/internal/domain/account"
	"github.com/jobdeck/jobdeck/internal/observability"
)

var ErrEmailTaken = errors.New("email already registered")

type AccountsRepo struct {
	pool    *pgxpool.Pool
	metrics *observability.Prom
}

func NewAccountsRepo(pool *pgxpool.Pool, metrics *observability.Prom) *AccountsRepo {
	return &AccountsRepo{
		pool:    pool,
		metrics: metrics,
	}
}

func (r *AccountsRepo) Create(ctx context.Context, email, passwordHash, fullName, role string) (account.Account, error) {
	now := time.Now().UTC()

	a := account.Account{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: passwordHash,
		FullName:     fullName,
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	err := r.metrics.ObserveDB("accounts.create", func() error {
		_, err := r.pool.Exec(ctx,
			`INSERT INTO users (id, email, password_hash, full_name, role, created_at, updated_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			a.ID, a.Email, a.PasswordHash, a.FullName, a.Role, a.CreatedAt, a.UpdatedAt,
		)
		return err
	})

	if err != nil {
		var pgErr *pgconn.PgError

		// 23505: the unique index on email
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return account.Account{}, ErrEmailTaken
		}

		return account.Account{}, err
	}

	return a, nil
}

func (r *AccountsRepo) GetByEmail(ctx context.Context, email string) (account.Account, error) {
	var a account.Account

	err := r.metrics.ObserveDB("accounts.get_by_email", func() error {
		return r.pool.QueryRow(
			ctx,
			`SELECT id, email, password_hash, full_name, role, created_at, updated_at
			 FROM users
			 WHERE email = $1`,
			email,
		).Scan(
			&a.ID,
			&a.Email,
			&a.PasswordHash,
			&a.FullName,
			&a.Role,
			&a.CreatedAt,
			&a.UpdatedAt,
		)
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return account.Account{}, account.ErrNotFound
		}

		return account.Account{}, err
	}
	return a, nil
}

func (r *AccountsRepo) GetByID(ctx context.Context, id string) (account.Account, error) {
	var a account.Account

	err := r.metrics.ObserveDB("accounts.get_by_id", func() error {
		return r.pool.QueryRow(
			ctx,
			`SELECT id, email, password_hash, full_name, role, created_at, updated_at
			 FROM users
			 WHERE id = $1`,
			id,
		).Scan(
			&a.ID,
			&a.Email,
			&a.PasswordHash,
			&a.FullName,
			&a.Role,
			&a.CreatedAt,
			&a.UpdatedAt,
		)
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return account.Account{}, account.ErrNotFound
		}

		return account.Account{}, err
	}
	return a, nil
}

// Delete removes an account and all of its applications in one
// transaction. The cascade is issued here, not left to the schema,
// so ownership cleanup stays visible in the repository layer. No
// route reaches this today.
func (r *AccountsRepo) Delete(ctx context.Context, id string) error {
	return r.metrics.ObserveDB("accounts.delete", func() error {
		tx, err := r.pool.Begin(ctx)

		if err != nil {
			return err
		}

		defer func() { _ = tx.Rollback(ctx) }()

		_, err = tx.Exec(ctx, `DELETE FROM applications WHERE user_id = $1`, id)

		if err != nil {
			return err
		}

		res, err := tx.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)

		if err != nil {
			return err
		}

		if res.RowsAffected() == 0 {
			return account.ErrNotFound
		}

		return tx.Commit(ctx)
	})
}
