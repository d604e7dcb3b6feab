package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jobdeck/jobdeck/internal/domain/application"
	"github.com/jobdeck/jobdeck/internal/observability"
)

const applicationColumns = `id, user_id, company_name, job_title, status, date_applied,
	job_url, notes, follow_up_date, last_contact_date, is_archived, created_at, updated_at`

type ApplicationsRepo struct {
	pool    *pgxpool.Pool
	metrics *observability.Prom
}

// constructor function

func NewApplicationsRepo(pool *pgxpool.Pool, metrics *observability.Prom) *ApplicationsRepo {
	return &ApplicationsRepo{
		pool:    pool,
		metrics: metrics,
	}
}

func (r *ApplicationsRepo) Create(ctx context.Context, ownerID string, req application.CreateRequest) (application.Application, error) {
	a := application.NewFromCreateRequest(ownerID, req)

	err := r.metrics.ObserveDB("applications.create", func() error {
		_, err := r.pool.Exec(ctx,
			`INSERT INTO applications (id, user_id, company_name, job_title, status, date_applied,
				job_url, notes, follow_up_date, last_contact_date, is_archived, created_at, updated_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
			a.ID, a.UserID, a.CompanyName, a.JobTitle, string(a.Status), a.DateApplied.Time,
			a.JobURL, a.Notes, datePtr(a.FollowUpDate), datePtr(a.LastContactDate),
			a.IsArchived, a.CreatedAt, a.UpdatedAt)
		return err
	})

	if err != nil {
		return application.Application{}, err
	}

	return a, nil
}

// List returns the owner's applications, newest date-applied first.
// All filters AND together; the archived flag always applies.
func (r *ApplicationsRepo) List(ctx context.Context, ownerID string, filter application.ListFilter) ([]application.Application, error) {
	query := `SELECT ` + applicationColumns + ` FROM applications`

	conds := []string{"user_id = $1", "is_archived = $2"}
	args := []interface{}{ownerID, filter.IsArchived}

	argsPosition := 3

	if filter.Status != nil {
		conds = append(conds, fmt.Sprintf("status = $%d", argsPosition))
		args = append(args, string(*filter.Status))
		argsPosition++
	}

	if filter.Search != nil {
		conds = append(conds, fmt.Sprintf("company_name ILIKE '%%' || $%d || '%%'", argsPosition))
		args = append(args, *filter.Search)
		argsPosition++
	}

	query += " WHERE " + strings.Join(conds, " AND ")

	// newest first; insertion order breaks ties so pagination is stable
	query += fmt.Sprintf(" ORDER BY date_applied DESC, created_at ASC, id ASC LIMIT $%d OFFSET $%d", argsPosition, argsPosition+1)

	args = append(args, filter.Limit, filter.Skip)

	var output []application.Application

	err := r.metrics.ObserveDB("applications.list", func() error {
		rows, err := r.pool.Query(ctx, query, args...)

		if err != nil {
			return err
		}

		defer rows.Close()

		output = make([]application.Application, 0, filter.Limit)

		for rows.Next() {
			a, err := scanApplication(rows.Scan)

			if err != nil {
				return err
			}

			output = append(output, a)
		}

		return rows.Err()
	})

	if err != nil {
		return nil, err
	}

	return output, nil
}

func (r *ApplicationsRepo) GetByID(ctx context.Context, ownerID, id string) (application.Application, error) {
	var a application.Application

	err := r.metrics.ObserveDB("applications.get_by_id", func() error {
		row := r.pool.QueryRow(ctx,
			`SELECT `+applicationColumns+` FROM applications WHERE id = $1 AND user_id = $2`,
			id, ownerID)

		var err error
		a, err = scanApplication(row.Scan)
		return err
	})

	if err != nil {
		// absent and not-owned look identical to the caller
		if errors.Is(err, pgx.ErrNoRows) {
			return application.Application{}, application.ErrNotFound
		}

		return application.Application{}, err
	}

	return a, nil
}

// Update mutates only the fields present in the request. An explicit
// null clears a nullable column; an absent key leaves it alone.
func (r *ApplicationsRepo) Update(ctx context.Context, ownerID, id string, req application.UpdateRequest) (application.Application, error) {
	sets := []string{"updated_at = NOW()"}
	args := []interface{}{id, ownerID}

	argsPosition := 3

	add := func(col string, val interface{}) {
		sets = append(sets, fmt.Sprintf("%s = $%d", col, argsPosition))
		args = append(args, val)
		argsPosition++
	}

	if req.CompanyName.Present {
		add("company_name", *req.CompanyName.Value)
	}

	if req.JobTitle.Present {
		add("job_title", *req.JobTitle.Value)
	}

	if req.Status.Present {
		add("status", string(*req.Status.Value))
	}

	if req.DateApplied.Present {
		add("date_applied", req.DateApplied.Value.Time)
	}

	if req.JobURL.Present {
		add("job_url", optionalString(req.JobURL))
	}

	if req.Notes.Present {
		add("notes", optionalString(req.Notes))
	}

	if req.FollowUpDate.Present {
		add("follow_up_date", datePtr(req.FollowUpDate.Value))
	}

	if req.LastContactDate.Present {
		add("last_contact_date", datePtr(req.LastContactDate.Value))
	}

	query := `UPDATE applications SET ` + strings.Join(sets, ", ") +
		` WHERE id = $1 AND user_id = $2 RETURNING ` + applicationColumns

	var a application.Application

	err := r.metrics.ObserveDB("applications.update", func() error {
		row := r.pool.QueryRow(ctx, query, args...)

		var err error
		a, err = scanApplication(row.Scan)
		return err
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return application.Application{}, application.ErrNotFound
		}

		return application.Application{}, err
	}

	return a, nil
}

func (r *ApplicationsRepo) Delete(ctx context.Context, ownerID, id string) error {
	return r.metrics.ObserveDB("applications.delete", func() error {
		res, err := r.pool.Exec(ctx,
			`DELETE FROM applications WHERE id = $1 AND user_id = $2`,
			id, ownerID)

		if err != nil {
			return err
		}

		// if no rows were deleted as a result return a not found error
		if res.RowsAffected() == 0 {
			return application.ErrNotFound
		}

		return nil
	})
}

// ToggleArchive flips the archived flag; there is deliberately no
// direct set-to-true/false operation.
func (r *ApplicationsRepo) ToggleArchive(ctx context.Context, ownerID, id string) (application.Application, error) {
	var a application.Application

	err := r.metrics.ObserveDB("applications.toggle_archive", func() error {
		row := r.pool.QueryRow(ctx,
			`UPDATE applications
			 SET is_archived = NOT is_archived,
			     updated_at = NOW()
			 WHERE id = $1 AND user_id = $2
			 RETURNING `+applicationColumns,
			id, ownerID)

		var err error
		a, err = scanApplication(row.Scan)
		return err
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return application.Application{}, application.ErrNotFound
		}

		return application.Application{}, err
	}

	return a, nil
}

// scan helpers

func scanApplication(scan func(dest ...interface{}) error) (application.Application, error) {
	var a application.Application
	var dateApplied time.Time
	var followUp, lastContact *time.Time

	err := scan(
		&a.ID,
		&a.UserID,
		&a.CompanyName,
		&a.JobTitle,
		&a.Status,
		&dateApplied,
		&a.JobURL,
		&a.Notes,
		&followUp,
		&lastContact,
		&a.IsArchived,
		&a.CreatedAt,
		&a.UpdatedAt,
	)

	if err != nil {
		return application.Application{}, err
	}

	a.DateApplied = application.Date{Time: dateApplied}
	a.FollowUpDate = toDate(followUp)
	a.LastContactDate = toDate(lastContact)

	return a, nil
}

func toDate(t *time.Time) *application.Date {
	if t == nil {
		return nil
	}

	return &application.Date{Time: *t}
}

func datePtr(d *application.Date) *time.Time {
	if d == nil {
		return nil
	}

	return &d.Time
}

func optionalString(o application.Optional[string]) *string {
	return o.Value
}
