package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/jobdeck/jobdeck/internal/domain/analytics"
	"github.com/jobdeck/jobdeck/internal/domain/application"
)

// ApplicationsRepo mirrors the postgres repository semantics in
// memory. The API handlers run against postgres; this keeps the
// repository and aggregation contracts testable without a database.
type ApplicationsRepo struct {
	mu    sync.RWMutex
	items map[string]application.Application
	seq   int

	// Today is swappable so analytics tests can pin the clock.
	Today func() application.Date
}

func NewApplicationsRepo() *ApplicationsRepo {
	return &ApplicationsRepo{
		items: make(map[string]application.Application),
		Today: application.Today,
	}
}

func (r *ApplicationsRepo) Create(ctx context.Context, ownerID string, req application.CreateRequest) (application.Application, error) {
	a := application.NewFromCreateRequest(ownerID, req)

	r.mu.Lock()
	// spread CreatedAt so insertion order is a usable tiebreak
	r.seq++
	a.CreatedAt = a.CreatedAt.Add(time.Duration(r.seq) * time.Microsecond)
	a.UpdatedAt = a.CreatedAt
	r.items[a.ID] = a
	r.mu.Unlock()

	return a, nil
}

func (r *ApplicationsRepo) List(ctx context.Context, ownerID string, filter application.ListFilter) ([]application.Application, error) {
	r.mu.RLock()

	matched := make([]application.Application, 0)

	for _, a := range r.items {
		if a.UserID != ownerID || a.IsArchived != filter.IsArchived {
			continue
		}

		if filter.Status != nil && a.Status != *filter.Status {
			continue
		}

		if filter.Search != nil && !strings.Contains(strings.ToLower(a.CompanyName), strings.ToLower(*filter.Search)) {
			continue
		}

		matched = append(matched, a)
	}

	r.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].DateApplied.Time.Equal(matched[j].DateApplied.Time) {
			return matched[j].DateApplied.Before(matched[i].DateApplied)
		}

		return matched[i].CreatedAt.Before(matched[j].CreatedAt)
	})

	if filter.Skip >= len(matched) {
		return []application.Application{}, nil
	}

	matched = matched[filter.Skip:]

	if filter.Limit > 0 && filter.Limit < len(matched) {
		matched = matched[:filter.Limit]
	}

	return matched, nil
}

func (r *ApplicationsRepo) GetByID(ctx context.Context, ownerID, id string) (application.Application, error) {
	r.mu.RLock()
	a, ok := r.items[id]
	r.mu.RUnlock()

	if !ok || a.UserID != ownerID {
		return application.Application{}, application.ErrNotFound
	}

	return a, nil
}

func (r *ApplicationsRepo) Update(ctx context.Context, ownerID, id string, req application.UpdateRequest) (application.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.items[id]

	if !ok || a.UserID != ownerID {
		return application.Application{}, application.ErrNotFound
	}

	if req.CompanyName.Present {
		a.CompanyName = *req.CompanyName.Value
	}

	if req.JobTitle.Present {
		a.JobTitle = *req.JobTitle.Value
	}

	if req.Status.Present {
		a.Status = *req.Status.Value
	}

	if req.DateApplied.Present {
		a.DateApplied = *req.DateApplied.Value
	}

	if req.JobURL.Present {
		a.JobURL = req.JobURL.Value
	}

	if req.Notes.Present {
		a.Notes = req.Notes.Value
	}

	if req.FollowUpDate.Present {
		a.FollowUpDate = req.FollowUpDate.Value
	}

	if req.LastContactDate.Present {
		a.LastContactDate = req.LastContactDate.Value
	}

	a.UpdatedAt = time.Now().UTC()
	r.items[id] = a

	return a, nil
}

func (r *ApplicationsRepo) Delete(ctx context.Context, ownerID, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.items[id]

	if !ok || a.UserID != ownerID {
		return application.ErrNotFound
	}

	delete(r.items, id)
	return nil
}

func (r *ApplicationsRepo) ToggleArchive(ctx context.Context, ownerID, id string) (application.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.items[id]

	if !ok || a.UserID != ownerID {
		return application.Application{}, application.ErrNotFound
	}

	a.IsArchived = !a.IsArchived
	a.UpdatedAt = time.Now().UTC()
	r.items[id] = a

	return a, nil
}

func (r *ApplicationsRepo) Summary(ctx context.Context, ownerID string) (analytics.Summary, error) {
	today := r.Today()
	weekAgo := today.AddDays(-7)
	monthAgo := today.AddDays(-30)

	breakdown := map[string]int{}
	total := 0
	thisWeek := 0
	thisMonth := 0

	r.mu.RLock()

	for _, a := range r.items {
		if a.UserID != ownerID || a.IsArchived {
			continue
		}

		total++
		breakdown[string(a.Status)]++

		if !a.DateApplied.Before(weekAgo) {
			thisWeek++
		}

		if !a.DateApplied.Before(monthAgo) {
			thisMonth++
		}
	}

	r.mu.RUnlock()

	return analytics.Summary{
		TotalApplications:     total,
		StatusBreakdown:       breakdown,
		ApplicationsThisWeek:  thisWeek,
		ApplicationsThisMonth: thisMonth,
		SuccessRate:           analytics.SuccessRate(breakdown, total),
	}, nil
}

func (r *ApplicationsRepo) Timeline(ctx context.Context, ownerID string, days int) ([]analytics.TimelinePoint, error) {
	start := r.Today().AddDays(-days)

	counts := map[string]int{}
	dates := map[string]application.Date{}

	r.mu.RLock()

	for _, a := range r.items {
		if a.UserID != ownerID || a.IsArchived || a.DateApplied.Before(start) {
			continue
		}

		key := a.DateApplied.String()
		counts[key]++
		dates[key] = a.DateApplied
	}

	r.mu.RUnlock()

	points := make([]analytics.TimelinePoint, 0, len(counts))

	for key, count := range counts {
		points = append(points, analytics.TimelinePoint{Date: dates[key], Count: count})
	}

	sort.Slice(points, func(i, j int) bool {
		return points[i].Date.Before(points[j].Date)
	})

	return points, nil
}
