package civic

import (
	"fmt"
	"time"

	"github.com/fixmyblock/fixmyblock-backend/internal/models"
)

// ReportFacts is the minimal report shape the block heuristics consume.
type ReportFacts struct {
	Status     string
	CreatedAt  time.Time
	ResolvedAt *time.Time
	Upvotes    int
}

// BlockStats summarizes a block's reports. MeanResolutionTime is nil when no
// report has been resolved yet; "unknown" is distinct from "instant".
type BlockStats struct {
	OpenIssues         int     `json:"open_issues"`
	ResolvedIssues     int     `json:"resolved_issues"`
	MeanResolutionTime *string `json:"mean_resolution_time"`
	RecentReports      int     `json:"recent_reports"`
}

// CalculateBlockStats aggregates a block's reports. Pure; an empty input
// yields all-zero counts and a nil mean.
func CalculateBlockStats(reports []ReportFacts, now time.Time) BlockStats {
	stats := BlockStats{}

	var totalDuration time.Duration
	var resolvedWithTime int

	for _, r := range reports {
		switch {
		case r.Status == models.StatusOpen:
			stats.OpenIssues++
		case r.Status == models.StatusResolved && r.ResolvedAt != nil:
			stats.ResolvedIssues++
			d := r.ResolvedAt.Sub(r.CreatedAt)
			if d < 0 {
				// Clock skew or bad data, not an error.
				d = 0
			}
			totalDuration += d
			resolvedWithTime++
		}

		if calendarDays(r.CreatedAt, now) <= 30 {
			stats.RecentReports++
		}
	}

	if resolvedWithTime > 0 {
		mean := formatMeanTime(totalDuration / time.Duration(resolvedWithTime))
		stats.MeanResolutionTime = &mean
	}

	return stats
}

func formatMeanTime(d time.Duration) string {
	hours := d.Hours()
	if hours >= 24 {
		return fmt.Sprintf("%.1f days", hours/24)
	}
	return fmt.Sprintf("%.1f hrs", hours)
}

// calendarDays returns the number of whole days between from and to.
func calendarDays(from, to time.Time) int {
	return int(to.Sub(from).Hours() / 24)
}
