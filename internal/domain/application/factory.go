package application

import (
	"time"

	"github.com/google/uuid"
)

func NewFromCreateRequest(ownerID string, req CreateRequest) Application {
	now := time.Now().UTC()

	status := req.Status

	if status == "" {
		status = StatusApplied
	}

	return Application{
		ID:              uuid.NewString(),
		UserID:          ownerID,
		CompanyName:     req.CompanyName,
		JobTitle:        req.JobTitle,
		Status:          status,
		DateApplied:     req.DateApplied,
		JobURL:          req.JobURL,
		Notes:           req.Notes,
		FollowUpDate:    req.FollowUpDate,
		LastContactDate: req.LastContactDate,
		IsArchived:      false,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}
