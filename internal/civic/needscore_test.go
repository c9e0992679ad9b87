package civic

import (
	"testing"
	"time"

	"github.com/fixmyblock/fixmyblock-backend/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestNeedScoreEmptyBlock(t *testing.T) {
	cfg := DefaultNeedScoreConfig()
	assert.Equal(t, 10, cfg.Score(nil))
	assert.Equal(t, 10, cfg.Score([]ReportFacts{}))
}

func TestNeedScoreSaturates(t *testing.T) {
	cfg := DefaultNeedScoreConfig()
	now := time.Now()

	var reports []ReportFacts
	for i := 0; i < 20; i++ {
		reports = append(reports, ReportFacts{
			Status:    models.StatusOpen,
			CreatedAt: now.AddDate(0, 0, -i),
			Upvotes:   10,
		})
	}

	assert.Equal(t, 100, cfg.Score(reports))
}

func TestNeedScoreSingleFastResolution(t *testing.T) {
	cfg := DefaultNeedScoreConfig()
	created := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	resolved := created.Add(1 * time.Hour)

	score := cfg.Score([]ReportFacts{
		{Status: models.StatusResolved, CreatedAt: created, ResolvedAt: &resolved},
	})

	// volume 2 + speed ~0.14, everything else zero
	assert.Equal(t, 2, score)
}

func TestNeedScoreMoreOpenScoresHigher(t *testing.T) {
	cfg := DefaultNeedScoreConfig()
	created := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	resolved := created.Add(24 * time.Hour)

	mostlyResolved := []ReportFacts{
		{Status: models.StatusOpen, CreatedAt: created},
		{Status: models.StatusOpen, CreatedAt: created},
		{Status: models.StatusResolved, CreatedAt: created, ResolvedAt: &resolved},
		{Status: models.StatusResolved, CreatedAt: created, ResolvedAt: &resolved},
	}
	mostlyOpen := []ReportFacts{
		{Status: models.StatusOpen, CreatedAt: created},
		{Status: models.StatusOpen, CreatedAt: created},
		{Status: models.StatusOpen, CreatedAt: created},
		{Status: models.StatusResolved, CreatedAt: created, ResolvedAt: &resolved},
	}

	assert.Greater(t, cfg.Score(mostlyOpen), cfg.Score(mostlyResolved))
}

func TestNeedScoreStaysInRange(t *testing.T) {
	cfg := DefaultNeedScoreConfig()
	now := time.Now()
	slow := now.Add(-1000 * time.Hour)
	slowResolved := now

	cases := [][]ReportFacts{
		{{Status: models.StatusOpen, CreatedAt: now, Upvotes: 1000}},
		{{Status: models.StatusResolved, CreatedAt: slow, ResolvedAt: &slowResolved}},
		{{Status: models.StatusCivicBodiesNotified, CreatedAt: now}},
	}

	for _, reports := range cases {
		score := cfg.Score(reports)
		assert.GreaterOrEqual(t, score, 0)
		assert.LessOrEqual(t, score, 100)
	}
}
