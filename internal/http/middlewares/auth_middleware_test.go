package middlewares_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/jobdeck/jobdeck/internal/domain/account"
	"github.com/jobdeck/jobdeck/internal/http/middlewares"
)

type fakeVerifier struct {
	verifyFn func(token string) (string, error)
}

func (f fakeVerifier) VerifyToken(token string) (string, error) {
	return f.verifyFn(token)
}

type fakeResolver struct {
	getFn func(ctx context.Context, id string) (account.Account, error)
}

func (f fakeResolver) GetByID(ctx context.Context, id string) (account.Account, error) {
	return f.getFn(ctx, id)
}

func newAuthTestRouter(t *testing.T, verifier fakeVerifier, resolver fakeResolver) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	mw := middlewares.NewAuthMiddleware(verifier, resolver)

	r := gin.New()
	r.GET("/protected", mw.RequireAuth(), func(c *gin.Context) {
		current, ok := middlewares.AccountFromContext(c)
		if !ok {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "no account in context"})
			return
		}
		c.JSON(http.StatusOK, current)
	})

	return r
}

func TestRequireAuthRejections(t *testing.T) {
	verifier := fakeVerifier{
		verifyFn: func(token string) (string, error) {
			if token == "good-token" {
				return "acct-1", nil
			}
			return "", errors.New("invalid token")
		},
	}
	resolver := fakeResolver{
		getFn: func(ctx context.Context, id string) (account.Account, error) {
			return account.Account{}, account.ErrNotFound
		},
	}

	tests := []struct {
		name   string
		header string
	}{
		{name: "missing_header", header: ""},
		{name: "not_bearer", header: "Basic abc123"},
		{name: "empty_token", header: "Bearer "},
		{name: "bad_token", header: "Bearer garbage"},
		{name: "subject_gone", header: "Bearer good-token"},
	}

	r := newAuthTestRouter(t, verifier, resolver)

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}

			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != http.StatusUnauthorized {
				t.Fatalf("got status %d, want 401", w.Code)
			}

			if got := w.Header().Get("WWW-Authenticate"); got != "Bearer" {
				t.Fatalf("got WWW-Authenticate %q, want %q", got, "Bearer")
			}

			var body struct {
				Error struct {
					Code    string `json:"code"`
					Message string `json:"message"`
				} `json:"error"`
			}
			if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
				t.Fatalf("invalid JSON body: %v", err)
			}

			// every rejection reads the same so callers cannot probe
			if body.Error.Message != "Could not validate credentials" {
				t.Fatalf("got message %q", body.Error.Message)
			}
		})
	}
}

func TestRequireAuthResolvesAccount(t *testing.T) {
	verifier := fakeVerifier{
		verifyFn: func(token string) (string, error) {
			return "acct-1", nil
		},
	}
	resolver := fakeResolver{
		getFn: func(ctx context.Context, id string) (account.Account, error) {
			return account.Account{ID: id, Email: "ada@example.com", Role: account.RoleUser}, nil
		},
	}

	r := newAuthTestRouter(t, verifier, resolver)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer good-token")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("got status %d, want 200: %s", w.Code, w.Body.String())
	}

	var got account.Account
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("invalid JSON body: %v", err)
	}

	if got.ID != "acct-1" || got.Email != "ada@example.com" {
		t.Fatalf("unexpected account in context: %+v", got)
	}
}
