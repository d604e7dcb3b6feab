package application

import (
	"errors"
	"time"
)

// Status is a flat label set: any value may be set from any other,
// no transition graph is enforced.
type Status string

const (
	StatusApplied   Status = "applied"
	StatusScreening Status = "screening"
	StatusInterview Status = "interview"
	StatusOffer     Status = "offer"
	StatusAccepted  Status = "accepted"
	StatusRejected  Status = "rejected"
)

func (s Status) Valid() bool {
	switch s {
	case StatusApplied, StatusScreening, StatusInterview, StatusOffer, StatusAccepted, StatusRejected:
		return true
	}
	return false
}

var ErrNotFound = errors.New("application not found")

type Application struct {
	ID              string    `json:"id"`
	UserID          string    `json:"-"`
	CompanyName     string    `json:"company_name"`
	JobTitle        string    `json:"job_title"`
	Status          Status    `json:"status"`
	DateApplied     Date      `json:"date_applied"`
	JobURL          *string   `json:"job_url"`
	Notes           *string   `json:"notes"`
	FollowUpDate    *Date     `json:"follow_up_date"`
	LastContactDate *Date     `json:"last_contact_date"`
	IsArchived      bool      `json:"is_archived"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// with pointers if optional, it will be nil
type ListFilter struct {
	Status     *Status
	Search     *string
	IsArchived bool
	Skip       int
	Limit      int
}

type CreateRequest struct {
	CompanyName     string  `json:"company_name" binding:"required,max=200"`
	JobTitle        string  `json:"job_title" binding:"required,max=200"`
	Status          Status  `json:"status" binding:"omitempty,oneof=applied screening interview offer accepted rejected"`
	DateApplied     Date    `json:"date_applied" binding:"required"`
	JobURL          *string `json:"job_url" binding:"omitempty,max=2048"`
	Notes           *string `json:"notes"`
	FollowUpDate    *Date   `json:"follow_up_date"`
	LastContactDate *Date   `json:"last_contact_date"`
}

// UpdateRequest is a partial update. Every field goes through
// Optional so an absent key leaves the stored value untouched while
// an explicit null clears it. Null is only legal on nullable fields;
// Validate rejects it elsewhere.
type UpdateRequest struct {
	CompanyName     Optional[string] `json:"company_name"`
	JobTitle        Optional[string] `json:"job_title"`
	Status          Optional[Status] `json:"status"`
	DateApplied     Optional[Date]   `json:"date_applied"`
	JobURL          Optional[string] `json:"job_url"`
	Notes           Optional[string] `json:"notes"`
	FollowUpDate    Optional[Date]   `json:"follow_up_date"`
	LastContactDate Optional[Date]   `json:"last_contact_date"`
}

// Validate returns field name -> problem for every invalid field.
func (r UpdateRequest) Validate() map[string]string {
	problems := map[string]string{}

	if r.CompanyName.Present {
		if r.CompanyName.Value == nil || *r.CompanyName.Value == "" {
			problems["company_name"] = "must not be null or empty"
		} else if len(*r.CompanyName.Value) > 200 {
			problems["company_name"] = "must be at most 200 characters"
		}
	}

	if r.JobTitle.Present {
		if r.JobTitle.Value == nil || *r.JobTitle.Value == "" {
			problems["job_title"] = "must not be null or empty"
		} else if len(*r.JobTitle.Value) > 200 {
			problems["job_title"] = "must be at most 200 characters"
		}
	}

	if r.Status.Present {
		if r.Status.Value == nil {
			problems["status"] = "must not be null"
		} else if !r.Status.Value.Valid() {
			problems["status"] = "must be one of applied, screening, interview, offer, accepted, rejected"
		}
	}

	if r.DateApplied.Present && r.DateApplied.Value == nil {
		problems["date_applied"] = "must not be null"
	}

	if r.JobURL.Present && r.JobURL.Value != nil && len(*r.JobURL.Value) > 2048 {
		problems["job_url"] = "must be at most 2048 characters"
	}

	return problems
}

// Empty reports whether the request carries no fields at all.
func (r UpdateRequest) Empty() bool {
	return !r.CompanyName.Present &&
		!r.JobTitle.Present &&
		!r.Status.Present &&
		!r.DateApplied.Present &&
		!r.JobURL.Present &&
		!r.Notes.Present &&
		!r.FollowUpDate.Present &&
		!r.LastContactDate.Present
}
