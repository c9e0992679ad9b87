package civic

import (
	"testing"
	"time"

	"github.com/fixmyblock/fixmyblock-backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func timePtr(t time.Time) *time.Time {
	return &t
}

func TestCalculateBlockStatsEmpty(t *testing.T) {
	stats := CalculateBlockStats(nil, time.Now())

	assert.Equal(t, 0, stats.OpenIssues)
	assert.Equal(t, 0, stats.ResolvedIssues)
	assert.Nil(t, stats.MeanResolutionTime)
	assert.Equal(t, 0, stats.RecentReports)
}

func TestCalculateBlockStatsMixed(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	reports := []ReportFacts{
		{Status: models.StatusOpen, CreatedAt: now.AddDate(0, 0, -10)},
		{Status: models.StatusOpen, CreatedAt: now.AddDate(0, 0, -40)},
		{
			Status:     models.StatusResolved,
			CreatedAt:  now.AddDate(0, 0, -5),
			ResolvedAt: timePtr(now.AddDate(0, 0, -3)), // 48h
		},
		{
			Status:     models.StatusResolved,
			CreatedAt:  now.AddDate(0, 0, -2),
			ResolvedAt: timePtr(now.AddDate(0, 0, -1)), // 24h
		},
		{Status: models.StatusCivicBodiesNotified, CreatedAt: now.AddDate(0, 0, -1)},
	}

	stats := CalculateBlockStats(reports, now)

	assert.Equal(t, 2, stats.OpenIssues)
	assert.Equal(t, 2, stats.ResolvedIssues)
	require.NotNil(t, stats.MeanResolutionTime)
	assert.Equal(t, "1.5 days", *stats.MeanResolutionTime)
	assert.Equal(t, 4, stats.RecentReports)
}

func TestCalculateBlockStatsStatusBreakdown(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	reports := []ReportFacts{
		{Status: models.StatusOpen, CreatedAt: now.AddDate(0, 0, -2)},
		{Status: models.StatusOpen, CreatedAt: now.AddDate(0, 0, -4)},
		{
			Status:     models.StatusResolved,
			CreatedAt:  now.AddDate(0, 0, -6),
			ResolvedAt: timePtr(now.AddDate(0, 0, -4)),
		},
		{Status: models.StatusCivicBodiesNotified, CreatedAt: now.AddDate(0, 0, -8)},
		{Status: models.StatusCivicBodiesNotified, CreatedAt: now.AddDate(0, 0, -10)},
	}

	stats := CalculateBlockStats(reports, now)

	// Escalated reports count as neither open nor resolved.
	assert.Equal(t, 2, stats.OpenIssues)
	assert.Equal(t, 1, stats.ResolvedIssues)
	assert.Equal(t, 5, stats.RecentReports)
}

func TestCalculateBlockStatsSubDayMean(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	created := now.Add(-24 * time.Hour)

	reports := []ReportFacts{
		{
			Status:     models.StatusResolved,
			CreatedAt:  created,
			ResolvedAt: timePtr(created.Add(12 * time.Hour)),
		},
	}

	stats := CalculateBlockStats(reports, now)

	require.NotNil(t, stats.MeanResolutionTime)
	assert.Equal(t, "12.0 hrs", *stats.MeanResolutionTime)
}

func TestCalculateBlockStatsNegativeDurationClamped(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	created := now.Add(-2 * time.Hour)

	reports := []ReportFacts{
		{
			Status:     models.StatusResolved,
			CreatedAt:  created,
			ResolvedAt: timePtr(created.Add(-1 * time.Hour)),
		},
	}

	stats := CalculateBlockStats(reports, now)

	assert.Equal(t, 1, stats.ResolvedIssues)
	require.NotNil(t, stats.MeanResolutionTime)
	assert.Equal(t, "0.0 hrs", *stats.MeanResolutionTime)
}

func TestCalculateBlockStatsResolvedWithoutTimestamp(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	reports := []ReportFacts{
		{Status: models.StatusResolved, CreatedAt: now.AddDate(0, 0, -3)},
	}

	stats := CalculateBlockStats(reports, now)

	// A resolved report with no timestamp cannot contribute to the mean.
	assert.Equal(t, 0, stats.ResolvedIssues)
	assert.Nil(t, stats.MeanResolutionTime)
}
