package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jobdeck/jobdeck/internal/domain/analytics"
	"github.com/jobdeck/jobdeck/internal/http/middlewares"
)

type AnalyticsStore interface {
	Summary(ctx context.Context, ownerID string) (analytics.Summary, error)
	Timeline(ctx context.Context, ownerID string, days int) ([]analytics.TimelinePoint, error)
}

type AnalyticsHandler struct {
	repo AnalyticsStore
}

func NewAnalyticsHandler(repo AnalyticsStore) *AnalyticsHandler {
	return &AnalyticsHandler{repo: repo}
}

func (h *AnalyticsHandler) Summary(ctx *gin.Context) {
	caller, ok := middlewares.AccountFromContext(ctx)

	if !ok {
		RespondUnauthorized(ctx, "Could not validate credentials")
		return
	}

	summary, err := h.repo.Summary(ctx.Request.Context(), caller.ID)

	if err != nil {
		RespondInternal(ctx, "Could not compute summary")
		return
	}

	ctx.JSON(http.StatusOK, summary)
}

type timelineQuery struct {
	Days int `form:"days,default=30" binding:"min=1,max=3650"`
}

func (h *AnalyticsHandler) Timeline(ctx *gin.Context) {
	caller, ok := middlewares.AccountFromContext(ctx)

	if !ok {
		RespondUnauthorized(ctx, "Could not validate credentials")
		return
	}

	var q timelineQuery

	if err := ctx.ShouldBindQuery(&q); err != nil {
		RespondUnprocessable(ctx, "Invalid query parameters", gin.H{"reason": err.Error()})
		return
	}

	points, err := h.repo.Timeline(ctx.Request.Context(), caller.ID, q.Days)

	if err != nil {
		RespondInternal(ctx, "Could not compute timeline")
		return
	}

	ctx.JSON(http.StatusOK, points)
}
