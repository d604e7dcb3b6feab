package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/jobdeck/jobdeck/internal/domain/account"
	"github.com/jobdeck/jobdeck/internal/domain/application"
	"github.com/jobdeck/jobdeck/internal/http/handlers"
	"github.com/jobdeck/jobdeck/internal/http/middlewares"
	"github.com/jobdeck/jobdeck/internal/repo/memory"
)

// tokenAsSubject treats the raw bearer token as the account ID, so a
// test impersonates any account by sending "Bearer <id>".
type tokenAsSubject struct{}

func (tokenAsSubject) VerifyToken(token string) (string, error) {
	return token, nil
}

type subjectAsAccount struct{}

func (subjectAsAccount) GetByID(ctx context.Context, id string) (account.Account, error) {
	return account.Account{ID: id, Email: id + "@example.com", Role: account.RoleUser}, nil
}

func newApplicationsRouter(repo *memory.ApplicationsRepo) *gin.Engine {
	gin.SetMode(gin.TestMode)

	h := handlers.NewApplicationsHandler(repo)
	authmw := middlewares.NewAuthMiddleware(tokenAsSubject{}, subjectAsAccount{})

	r := gin.New()

	apps := r.Group("/applications", authmw.RequireAuth())
	apps.GET("", h.List)
	apps.POST("", h.Create)
	apps.GET("/:id", h.GetByID)
	apps.PUT("/:id", h.Update)
	apps.DELETE("/:id", h.Delete)
	apps.PATCH("/:id/archive", h.ToggleArchive)

	return r
}

func doJSON(r *gin.Engine, method, path, token string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer

	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Authorization", "Bearer "+token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func createApplication(t *testing.T, r *gin.Engine, token string, payload map[string]any) application.Application {
	t.Helper()

	w := doJSON(r, http.MethodPost, "/applications", token, payload)

	if w.Code != http.StatusCreated {
		t.Fatalf("create: got status %d: %s", w.Code, w.Body.String())
	}

	var created application.Application
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatalf("create: invalid JSON body: %v", err)
	}

	return created
}

func TestCreateApplicationDefaults(t *testing.T) {
	r := newApplicationsRouter(memory.NewApplicationsRepo())

	created := createApplication(t, r, "user-1", map[string]any{
		"company_name": "Acme",
		"job_title":    "Backend Engineer",
		"date_applied": "2026-03-10",
	})

	if created.Status != application.StatusApplied {
		t.Fatalf("got status %q, want %q", created.Status, application.StatusApplied)
	}

	if created.IsArchived {
		t.Fatal("new applications must not be archived")
	}

	if created.ID == "" {
		t.Fatal("expected a generated ID")
	}

	if created.DateApplied.String() != "2026-03-10" {
		t.Fatalf("got date_applied %q", created.DateApplied.String())
	}
}

func TestGetApplicationOwnership(t *testing.T) {
	repo := memory.NewApplicationsRepo()
	r := newApplicationsRouter(repo)

	created := createApplication(t, r, "user-1", map[string]any{
		"company_name": "Acme",
		"job_title":    "Backend Engineer",
		"date_applied": "2026-03-10",
	})

	tests := []struct {
		name       string
		token      string
		id         string
		wantStatus int
	}{
		{name: "owner_reads", token: "user-1", id: created.ID, wantStatus: http.StatusOK},
		{name: "other_tenant", token: "user-2", id: created.ID, wantStatus: http.StatusNotFound},
		{name: "unknown_id", token: "user-1", id: "no-such-id", wantStatus: http.StatusNotFound},
	}

	var notFoundBodies []string

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(r, http.MethodGet, "/applications/"+tt.id, tt.token, nil)

			if w.Code != tt.wantStatus {
				t.Fatalf("got status %d, want %d: %s", w.Code, tt.wantStatus, w.Body.String())
			}

			if tt.wantStatus == http.StatusNotFound {
				notFoundBodies = append(notFoundBodies, w.Body.String())
			}
		})
	}

	// not-owned and nonexistent must be indistinguishable
	if len(notFoundBodies) == 2 && notFoundBodies[0] != notFoundBodies[1] {
		t.Fatalf("404 bodies differ:\n%s\n%s", notFoundBodies[0], notFoundBodies[1])
	}
}

func TestUpdateApplicationPartial(t *testing.T) {
	repo := memory.NewApplicationsRepo()
	r := newApplicationsRouter(repo)

	created := createApplication(t, r, "user-1", map[string]any{
		"company_name": "Acme",
		"job_title":    "Backend Engineer",
		"date_applied": "2026-03-10",
		"notes":        "referred by June",
	})

	w := doJSON(r, http.MethodPut, "/applications/"+created.ID, "user-1", map[string]any{
		"status": "interview",
	})

	if w.Code != http.StatusOK {
		t.Fatalf("got status %d: %s", w.Code, w.Body.String())
	}

	var updated application.Application
	if err := json.Unmarshal(w.Body.Bytes(), &updated); err != nil {
		t.Fatalf("invalid JSON body: %v", err)
	}

	if updated.Status != application.StatusInterview {
		t.Fatalf("got status %q, want interview", updated.Status)
	}

	// untouched fields survive a partial update
	if updated.CompanyName != "Acme" || updated.Notes == nil || *updated.Notes != "referred by June" {
		t.Fatalf("partial update clobbered other fields: %+v", updated)
	}
}

func TestUpdateApplicationNullClearsNullable(t *testing.T) {
	repo := memory.NewApplicationsRepo()
	r := newApplicationsRouter(repo)

	created := createApplication(t, r, "user-1", map[string]any{
		"company_name": "Acme",
		"job_title":    "Backend Engineer",
		"date_applied": "2026-03-10",
		"notes":        "referred by June",
	})

	w := doJSON(r, http.MethodPut, "/applications/"+created.ID, "user-1", map[string]any{
		"notes": nil,
	})

	if w.Code != http.StatusOK {
		t.Fatalf("got status %d: %s", w.Code, w.Body.String())
	}

	var updated application.Application
	if err := json.Unmarshal(w.Body.Bytes(), &updated); err != nil {
		t.Fatalf("invalid JSON body: %v", err)
	}

	if updated.Notes != nil {
		t.Fatalf("explicit null must clear notes, got %q", *updated.Notes)
	}
}

func TestUpdateApplicationRejectsNullRequiredField(t *testing.T) {
	repo := memory.NewApplicationsRepo()
	r := newApplicationsRouter(repo)

	created := createApplication(t, r, "user-1", map[string]any{
		"company_name": "Acme",
		"job_title":    "Backend Engineer",
		"date_applied": "2026-03-10",
	})

	w := doJSON(r, http.MethodPut, "/applications/"+created.ID, "user-1", map[string]any{
		"company_name": nil,
	})

	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("got status %d, want 422: %s", w.Code, w.Body.String())
	}
}

func TestDeleteApplication(t *testing.T) {
	repo := memory.NewApplicationsRepo()
	r := newApplicationsRouter(repo)

	created := createApplication(t, r, "user-1", map[string]any{
		"company_name": "Acme",
		"job_title":    "Backend Engineer",
		"date_applied": "2026-03-10",
	})

	if w := doJSON(r, http.MethodDelete, "/applications/"+created.ID, "user-2", nil); w.Code != http.StatusNotFound {
		t.Fatalf("foreign delete: got status %d, want 404", w.Code)
	}

	if w := doJSON(r, http.MethodDelete, "/applications/"+created.ID, "user-1", nil); w.Code != http.StatusNoContent {
		t.Fatalf("delete: got status %d, want 204: %s", w.Code, w.Body.String())
	}

	if w := doJSON(r, http.MethodGet, "/applications/"+created.ID, "user-1", nil); w.Code != http.StatusNotFound {
		t.Fatalf("get after delete: got status %d, want 404", w.Code)
	}
}

func TestToggleArchiveIsSelfInverse(t *testing.T) {
	repo := memory.NewApplicationsRepo()
	r := newApplicationsRouter(repo)

	created := createApplication(t, r, "user-1", map[string]any{
		"company_name": "Acme",
		"job_title":    "Backend Engineer",
		"date_applied": "2026-03-10",
	})

	for i, want := range []bool{true, false} {
		w := doJSON(r, http.MethodPatch, "/applications/"+created.ID+"/archive", "user-1", nil)

		if w.Code != http.StatusOK {
			t.Fatalf("toggle %d: got status %d: %s", i+1, w.Code, w.Body.String())
		}

		var toggled application.Application
		if err := json.Unmarshal(w.Body.Bytes(), &toggled); err != nil {
			t.Fatalf("toggle %d: invalid JSON body: %v", i+1, err)
		}

		if toggled.IsArchived != want {
			t.Fatalf("toggle %d: got is_archived %v, want %v", i+1, toggled.IsArchived, want)
		}
	}
}

func TestListApplicationsFilters(t *testing.T) {
	repo := memory.NewApplicationsRepo()
	r := newApplicationsRouter(repo)

	seed := []map[string]any{
		{"company_name": "Google", "job_title": "SWE", "date_applied": "2026-03-01", "status": "interview"},
		{"company_name": "Globex", "job_title": "SRE", "date_applied": "2026-03-05", "status": "applied"},
		{"company_name": "Acme", "job_title": "Backend Engineer", "date_applied": "2026-03-03", "status": "applied"},
	}

	var ids []string

	for _, payload := range seed {
		created := createApplication(t, r, "user-1", payload)
		ids = append(ids, created.ID)
	}

	// archive Globex so default listings skip it
	if w := doJSON(r, http.MethodPatch, "/applications/"+ids[1]+"/archive", "user-1", nil); w.Code != http.StatusOK {
		t.Fatalf("archive: got status %d", w.Code)
	}

	list := func(t *testing.T, query, token string) []application.Application {
		t.Helper()

		w := doJSON(r, http.MethodGet, "/applications"+query, token, nil)

		if w.Code != http.StatusOK {
			t.Fatalf("list %q: got status %d: %s", query, w.Code, w.Body.String())
		}

		var items []application.Application
		if err := json.Unmarshal(w.Body.Bytes(), &items); err != nil {
			t.Fatalf("list %q: invalid JSON body: %v", query, err)
		}

		return items
	}

	t.Run("default_excludes_archived", func(t *testing.T) {
		items := list(t, "", "user-1")

		if len(items) != 2 {
			t.Fatalf("got %d items, want 2", len(items))
		}

		// newest application date first
		if items[0].CompanyName != "Acme" || items[1].CompanyName != "Google" {
			t.Fatalf("unexpected order: %s, %s", items[0].CompanyName, items[1].CompanyName)
		}
	})

	t.Run("archived_only", func(t *testing.T) {
		items := list(t, "?is_archived=true", "user-1")

		if len(items) != 1 || items[0].CompanyName != "Globex" {
			t.Fatalf("unexpected archived listing: %+v", items)
		}
	})

	t.Run("status_filter", func(t *testing.T) {
		items := list(t, "?status=interview", "user-1")

		if len(items) != 1 || items[0].CompanyName != "Google" {
			t.Fatalf("unexpected status listing: %+v", items)
		}
	})

	t.Run("search_partial_case_insensitive", func(t *testing.T) {
		items := list(t, "?search=goo", "user-1")

		if len(items) != 1 || items[0].CompanyName != "Google" {
			t.Fatalf("unexpected search listing: %+v", items)
		}
	})

	t.Run("other_tenant_sees_nothing", func(t *testing.T) {
		if items := list(t, "", "user-2"); len(items) != 0 {
			t.Fatalf("expected empty list for another tenant, got %d items", len(items))
		}
	})

	t.Run("invalid_status_rejected", func(t *testing.T) {
		w := doJSON(r, http.MethodGet, "/applications?status=ghosted", "user-1", nil)

		if w.Code != http.StatusUnprocessableEntity {
			t.Fatalf("got status %d, want 422: %s", w.Code, w.Body.String())
		}
	})
}

func TestListApplicationsPagination(t *testing.T) {
	repo := memory.NewApplicationsRepo()
	r := newApplicationsRouter(repo)

	for i := 0; i < 5; i++ {
		createApplication(t, r, "user-1", map[string]any{
			"company_name": fmt.Sprintf("Company %d", i),
			"job_title":    "Engineer",
			"date_applied": fmt.Sprintf("2026-03-%02d", i+1),
		})
	}

	w := doJSON(r, http.MethodGet, "/applications?skip=1&limit=2", "user-1", nil)

	if w.Code != http.StatusOK {
		t.Fatalf("got status %d: %s", w.Code, w.Body.String())
	}

	var items []application.Application
	if err := json.Unmarshal(w.Body.Bytes(), &items); err != nil {
		t.Fatalf("invalid JSON body: %v", err)
	}

	if len(items) != 2 {
		t.Fatalf("got %d items, want 2", len(items))
	}

	// date_applied descending, so skipping one lands on 2026-03-04
	if items[0].DateApplied.String() != "2026-03-04" || items[1].DateApplied.String() != "2026-03-03" {
		t.Fatalf("unexpected page: %s, %s", items[0].DateApplied, items[1].DateApplied)
	}
}
