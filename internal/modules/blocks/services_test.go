package blocks

import (
	"testing"
	"time"

	"github.com/fixmyblock/fixmyblock-backend/internal/civic"
	"github.com/fixmyblock/fixmyblock-backend/internal/models"
	"github.com/fixmyblock/fixmyblock-backend/internal/modules/reports"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.User{}, &models.Block{}, &models.Report{},
		&models.Upvote{}, &models.ReportVerification{}, &models.ReportReply{},
	))
	return db
}

func seedBlock(t *testing.T, db *gorm.DB, name, slug string, needScore int) models.Block {
	t.Helper()
	block := models.Block{Name: name, Slug: slug, NeedScore: needScore}
	require.NoError(t, db.Create(&block).Error)
	return block
}

func TestRecomputeForBlockEmpty(t *testing.T) {
	db := setupDB(t)
	scores := NewScoreService(db, civic.DefaultNeedScoreConfig())

	block := seedBlock(t, db, "Pilsen", "pilsen", 85)

	scores.RecomputeForBlock(block.ID)

	var refreshed models.Block
	require.NoError(t, db.First(&refreshed, "id = ?", block.ID).Error)
	assert.Equal(t, 10, refreshed.NeedScore, "a block with no reports settles on the empty floor")
}

func TestRecomputeForBlockWithOpenReports(t *testing.T) {
	db := setupDB(t)
	scores := NewScoreService(db, civic.DefaultNeedScoreConfig())

	block := seedBlock(t, db, "Pilsen", "pilsen", 0)
	author := models.User{DisplayName: "Asha", Email: "asha@example.com", Password: "x"}
	require.NoError(t, db.Create(&author).Error)

	for i := 0; i < 5; i++ {
		report := models.Report{
			Type:      models.ReportTypePothole,
			Status:    models.StatusOpen,
			PhotoURL:  "https://example.com/p.jpg",
			CreatedBy: author.ID,
			BlockID:   &block.ID,
			CreatedAt: time.Now().AddDate(0, 0, -i),
		}
		require.NoError(t, db.Create(&report).Error)
	}

	scores.RecomputeForBlock(block.ID)

	var refreshed models.Block
	require.NoError(t, db.First(&refreshed, "id = ?", block.ID).Error)
	assert.Greater(t, refreshed.NeedScore, 10)
	assert.LessOrEqual(t, refreshed.NeedScore, 100)
}

func TestListOrdersByNeed(t *testing.T) {
	db := setupDB(t)
	scores := NewScoreService(db, civic.DefaultNeedScoreConfig())
	reportSvc := reports.NewService(db, nil, nil, scores)
	service := NewBlockService(db, scores, reportSvc)

	seedBlock(t, db, "Pilsen", "pilsen", 30)
	seedBlock(t, db, "Austin", "austin", 80)
	seedBlock(t, db, "Hyde Park", "hyde-park", 55)

	summaries, err := service.List()
	require.NoError(t, err)
	require.Len(t, summaries, 3)

	assert.Equal(t, "austin", summaries[0].Slug)
	assert.Equal(t, "hyde-park", summaries[1].Slug)
	assert.Equal(t, "pilsen", summaries[2].Slug)

	assert.Equal(t, "destructive", summaries[0].NeedLevel.Tier)
	assert.Equal(t, "default", summaries[1].NeedLevel.Tier)
	assert.Equal(t, "secondary", summaries[2].NeedLevel.Tier)
}

func TestGetBySlug(t *testing.T) {
	db := setupDB(t)
	scores := NewScoreService(db, civic.DefaultNeedScoreConfig())
	reportSvc := reports.NewService(db, nil, nil, scores)
	service := NewBlockService(db, scores, reportSvc)

	block := seedBlock(t, db, "Pilsen", "pilsen", 45)
	author := models.User{DisplayName: "Asha", Email: "asha@example.com", Password: "x"}
	require.NoError(t, db.Create(&author).Error)

	report := models.Report{
		Type:      models.ReportTypeTrash,
		Status:    models.StatusOpen,
		PhotoURL:  "https://example.com/p.jpg",
		CreatedBy: author.ID,
		BlockID:   &block.ID,
	}
	require.NoError(t, db.Create(&report).Error)

	detail, err := service.GetBySlug("pilsen", nil)
	require.NoError(t, err)

	assert.Equal(t, "Pilsen", detail.Name)
	assert.Equal(t, 1, detail.Stats.OpenIssues)
	assert.Equal(t, 0, detail.Stats.ResolvedIssues)
	assert.Nil(t, detail.Stats.MeanResolutionTime)
	require.Len(t, detail.Reports, 1)
	assert.Equal(t, report.ID, detail.Reports[0].ID)

	_, err = service.GetBySlug("nowhere", nil)
	assert.ErrorIs(t, err, ErrBlockNotFound)
}
