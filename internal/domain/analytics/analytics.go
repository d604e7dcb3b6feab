package analytics

import (
	"math"

	"github.com/jobdeck/jobdeck/internal/domain/application"
)

// Summary aggregates a caller's non-archived applications. Archived
// records are excluded from every number, including the success-rate
// numerator and denominator.
type Summary struct {
	TotalApplications     int            `json:"total_applications"`
	StatusBreakdown       map[string]int `json:"status_breakdown"`
	ApplicationsThisWeek  int            `json:"applications_this_week"`
	ApplicationsThisMonth int            `json:"applications_this_month"`
	SuccessRate           float64        `json:"success_rate"`
}

// TimelinePoint is one distinct date-applied value and its count.
// Dates with zero applications never appear.
type TimelinePoint struct {
	Date  application.Date `json:"date"`
	Count int              `json:"count"`
}

// SuccessRate is 100 * (offer + accepted) / total rounded to two
// decimal places, and exactly 0.0 when total is zero.
func SuccessRate(breakdown map[string]int, total int) float64 {
	if total == 0 {
		return 0.0
	}

	offers := breakdown[string(application.StatusOffer)] + breakdown[string(application.StatusAccepted)]

	return math.Round(float64(offers)/float64(total)*100*100) / 100
}
