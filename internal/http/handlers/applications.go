package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jobdeck/jobdeck/internal/domain/application"
	"github.com/jobdeck/jobdeck/internal/http/middlewares"
)

type ApplicationsStore interface {
	Create(ctx context.Context, ownerID string, req application.CreateRequest) (application.Application, error)
	List(ctx context.Context, ownerID string, filter application.ListFilter) ([]application.Application, error)
	GetByID(ctx context.Context, ownerID, id string) (application.Application, error)
	Update(ctx context.Context, ownerID, id string, req application.UpdateRequest) (application.Application, error)
	Delete(ctx context.Context, ownerID, id string) error
	ToggleArchive(ctx context.Context, ownerID, id string) (application.Application, error)
}

type ApplicationsHandler struct {
	repo ApplicationsStore
}

func NewApplicationsHandler(repo ApplicationsStore) *ApplicationsHandler {
	return &ApplicationsHandler{repo: repo}
}

type listQuery struct {
	Status     *application.Status `form:"status" binding:"omitempty,oneof=applied screening interview offer accepted rejected"`
	Search     *string             `form:"search"`
	IsArchived bool                `form:"is_archived,default=false"`
	Skip       int                 `form:"skip,default=0" binding:"min=0"`
	Limit      int                 `form:"limit,default=100" binding:"min=1,max=500"`
}

func (h *ApplicationsHandler) List(ctx *gin.Context) {
	caller, ok := middlewares.AccountFromContext(ctx)

	if !ok {
		RespondUnauthorized(ctx, "Could not validate credentials")
		return
	}

	var q listQuery

	if err := ctx.ShouldBindQuery(&q); err != nil {
		RespondUnprocessable(ctx, "Invalid query parameters", gin.H{"reason": err.Error()})
		return
	}

	items, err := h.repo.List(ctx.Request.Context(), caller.ID, application.ListFilter{
		Status:     q.Status,
		Search:     q.Search,
		IsArchived: q.IsArchived,
		Skip:       q.Skip,
		Limit:      q.Limit,
	})

	if err != nil {
		RespondInternal(ctx, "Could not list applications")
		return
	}

	ctx.JSON(http.StatusOK, items)
}

func (h *ApplicationsHandler) Create(ctx *gin.Context) {
	caller, ok := middlewares.AccountFromContext(ctx)

	if !ok {
		RespondUnauthorized(ctx, "Could not validate credentials")
		return
	}

	var req application.CreateRequest

	if !BindJSON(ctx, &req) {
		return
	}

	created, err := h.repo.Create(ctx.Request.Context(), caller.ID, req)

	if err != nil {
		RespondInternal(ctx, "Could not create application")
		return
	}

	ctx.JSON(http.StatusCreated, created)
}

func (h *ApplicationsHandler) GetByID(ctx *gin.Context) {
	caller, ok := middlewares.AccountFromContext(ctx)

	if !ok {
		RespondUnauthorized(ctx, "Could not validate credentials")
		return
	}

	a, err := h.repo.GetByID(ctx.Request.Context(), caller.ID, ctx.Param("id"))

	if err != nil {
		if errors.Is(err, application.ErrNotFound) {
			RespondNotFound(ctx, "Application not found")
			return
		}
		RespondInternal(ctx, "Could not fetch application")
		return
	}

	ctx.JSON(http.StatusOK, a)
}

func (h *ApplicationsHandler) Update(ctx *gin.Context) {
	caller, ok := middlewares.AccountFromContext(ctx)

	if !ok {
		RespondUnauthorized(ctx, "Could not validate credentials")
		return
	}

	var req application.UpdateRequest

	if !BindJSON(ctx, &req) {
		return
	}

	if problems := req.Validate(); len(problems) > 0 {
		fields := make([]FieldError, 0, len(problems))

		for field, message := range problems {
			fields = append(fields, FieldError{
				Field:   field,
				Rule:    "invalid",
				Message: message,
			})
		}

		RespondUnprocessable(ctx, "Invalid request body", gin.H{"fields": fields})
		return
	}

	updated, err := h.repo.Update(ctx.Request.Context(), caller.ID, ctx.Param("id"), req)

	if err != nil {
		if errors.Is(err, application.ErrNotFound) {
			RespondNotFound(ctx, "Application not found")
			return
		}
		RespondInternal(ctx, "Could not update application")
		return
	}

	ctx.JSON(http.StatusOK, updated)
}

func (h *ApplicationsHandler) Delete(ctx *gin.Context) {
	caller, ok := middlewares.AccountFromContext(ctx)

	if !ok {
		RespondUnauthorized(ctx, "Could not validate credentials")
		return
	}

	err := h.repo.Delete(ctx.Request.Context(), caller.ID, ctx.Param("id"))

	if err != nil {
		if errors.Is(err, application.ErrNotFound) {
			RespondNotFound(ctx, "Application not found")
			return
		}
		RespondInternal(ctx, "Could not delete application")
		return
	}

	ctx.Status(http.StatusNoContent)
}

func (h *ApplicationsHandler) ToggleArchive(ctx *gin.Context) {
	caller, ok := middlewares.AccountFromContext(ctx)

	if !ok {
		RespondUnauthorized(ctx, "Could not validate credentials")
		return
	}

	toggled, err := h.repo.ToggleArchive(ctx.Request.Context(), caller.ID, ctx.Param("id"))

	if err != nil {
		if errors.Is(err, application.ErrNotFound) {
			RespondNotFound(ctx, "Application not found")
			return
		}
		RespondInternal(ctx, "Could not archive application")
		return
	}

	ctx.JSON(http.StatusOK, toggled)
}
