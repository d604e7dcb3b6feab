package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jobdeck/jobdeck/internal/domain/analytics"
	"github.com/jobdeck/jobdeck/internal/domain/application"
	"github.com/jobdeck/jobdeck/internal/observability"
)

type AnalyticsRepo struct {
	pool    *pgxpool.Pool
	metrics *observability.Prom
}

func NewAnalyticsRepo(pool *pgxpool.Pool, metrics *observability.Prom) *AnalyticsRepo {
	return &AnalyticsRepo{
		pool:    pool,
		metrics: metrics,
	}
}

// Summary aggregates over the owner's non-archived applications
// only. Statuses without records never appear in the breakdown.
func (r *AnalyticsRepo) Summary(ctx context.Context, ownerID string) (analytics.Summary, error) {
	breakdown := map[string]int{}
	total := 0

	err := r.metrics.ObserveDB("analytics.status_breakdown", func() error {
		rows, err := r.pool.Query(ctx,
			`SELECT status, COUNT(*)
			 FROM applications
			 WHERE user_id = $1 AND is_archived = FALSE
			 GROUP BY status`,
			ownerID)

		if err != nil {
			return err
		}

		defer rows.Close()

		for rows.Next() {
			var status string
			var count int

			if err := rows.Scan(&status, &count); err != nil {
				return err
			}

			breakdown[status] = count
			total += count
		}

		return rows.Err()
	})

	if err != nil {
		return analytics.Summary{}, err
	}

	today := application.Today()
	weekAgo := today.AddDays(-7)
	monthAgo := today.AddDays(-30)

	var thisWeek, thisMonth int

	err = r.metrics.ObserveDB("analytics.recent_counts", func() error {
		return r.pool.QueryRow(ctx,
			`SELECT
				COUNT(*) FILTER (WHERE date_applied >= $2),
				COUNT(*) FILTER (WHERE date_applied >= $3)
			 FROM applications
			 WHERE user_id = $1 AND is_archived = FALSE`,
			ownerID, weekAgo.Time, monthAgo.Time,
		).Scan(&thisWeek, &thisMonth)
	})

	if err != nil {
		return analytics.Summary{}, err
	}

	return analytics.Summary{
		TotalApplications:     total,
		StatusBreakdown:       breakdown,
		ApplicationsThisWeek:  thisWeek,
		ApplicationsThisMonth: thisMonth,
		SuccessRate:           analytics.SuccessRate(breakdown, total),
	}, nil
}

// Timeline returns one point per distinct date-applied value within
// the lookback window, ascending. Dates with no applications are
// simply absent.
func (r *AnalyticsRepo) Timeline(ctx context.Context, ownerID string, days int) ([]analytics.TimelinePoint, error) {
	start := application.Today().AddDays(-days)

	var points []analytics.TimelinePoint

	err := r.metrics.ObserveDB("analytics.timeline", func() error {
		rows, err := r.pool.Query(ctx,
			`SELECT date_applied, COUNT(*)
			 FROM applications
			 WHERE user_id = $1 AND is_archived = FALSE AND date_applied >= $2
			 GROUP BY date_applied
			 ORDER BY date_applied ASC`,
			ownerID, start.Time)

		if err != nil {
			return err
		}

		defer rows.Close()

		points = make([]analytics.TimelinePoint, 0)

		for rows.Next() {
			var date time.Time
			var count int

			if err := rows.Scan(&date, &count); err != nil {
				return err
			}

			points = append(points, analytics.TimelinePoint{
				Date:  application.Date{Time: date},
				Count: count,
			})
		}

		return rows.Err()
	})

	if err != nil {
		return nil, err
	}

	return points, nil
}
