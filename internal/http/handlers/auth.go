package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jobdeck/jobdeck/internal/auth"
	"github.com/jobdeck/jobdeck/internal/config"
	"github.com/jobdeck/jobdeck/internal/domain/account"
	"github.com/jobdeck/jobdeck/internal/http/middlewares"
	"github.com/jobdeck/jobdeck/internal/repo/postgres"
	"github.com/jobdeck/jobdeck/internal/security"
)

type AccountReader interface {
	GetByEmail(ctx context.Context, email string) (account.Account, error)
}

type AccountWriter interface {
	Create(ctx context.Context, email, passwordHash, fullName, role string) (account.Account, error)
}

type AuthHandler struct {
	accounts      AccountReader
	accountWriter AccountWriter
	jwt           *auth.Manager
	log           *slog.Logger
}

func NewAuthHandler(accounts AccountReader, accountWriter AccountWriter, jwtManager *auth.Manager, log *slog.Logger) *AuthHandler {
	return &AuthHandler{
		accounts:      accounts,
		accountWriter: accountWriter,
		jwt:           jwtManager,
		log:           log,
	}
}

type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
	FullName string `json:"full_name" binding:"required"`
}

// Login takes form fields, OAuth2 password style: username is the
// email.
type LoginRequest struct {
	Username string `form:"username" binding:"required"`
	Password string `form:"password" binding:"required"`
}

type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

func (h *AuthHandler) Register(ctx *gin.Context) {
	var req RegisterRequest

	if !BindJSON(ctx, &req) {
		return
	}

	if problems := security.ValidatePasswordPolicy(req.Password); len(problems) > 0 {
		fields := make([]FieldError, 0, len(problems))

		for _, p := range problems {
			fields = append(fields, FieldError{
				Field:   "password",
				Rule:    "password_policy",
				Message: p,
			})
		}

		RespondUnprocessable(ctx, "Invalid request body", gin.H{"fields": fields})
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)

	defer cancel()

	hash, err := security.HashPassword(req.Password)

	if err != nil {
		RespondInternal(ctx, "Could not create account")
		return
	}

	// registration only ever creates regular users

	created, err := h.accountWriter.Create(cctx, req.Email, hash, req.FullName, account.RoleUser)

	if err != nil {
		if errors.Is(err, postgres.ErrEmailTaken) {
			RespondBadRequest(ctx, "email_taken", "Email already registered", nil)
			return
		}

		RespondInternal(ctx, "Could not create account")
		return
	}

	h.log.Info("new account registered", "email", created.Email)

	ctx.JSON(http.StatusCreated, created)
}

func (h *AuthHandler) Login(ctx *gin.Context) {
	var req LoginRequest

	if err := ctx.ShouldBind(&req); err != nil {
		RespondUnprocessable(ctx, "username and password are required", nil)
		return
	}

	// short timeout for DB lookup
	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	found, err := h.accounts.GetByEmail(cctx, req.Username)

	// same message whether the email is unknown or the password is
	// wrong
	if err != nil || !security.CheckPassword(found.PasswordHash, req.Password) {
		h.log.Warn("failed login attempt", "email", req.Username)
		RespondUnauthorized(ctx, "Incorrect email or password")
		return
	}

	accessToken, err := h.jwt.IssueToken(found.ID)

	if err != nil {
		RespondInternal(ctx, "Could not generate access token")
		return
	}

	h.log.Info("account logged in", "email", found.Email)

	ctx.JSON(http.StatusOK, TokenResponse{
		AccessToken: accessToken,
		TokenType:   "bearer",
	})
}

func (h *AuthHandler) Me(ctx *gin.Context) {
	current, ok := middlewares.AccountFromContext(ctx)

	if !ok {
		RespondUnauthorized(ctx, "Could not validate credentials")
		return
	}

	ctx.JSON(http.StatusOK, current)
}
