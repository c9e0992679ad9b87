package reports

import (
	"context"
	"testing"

	"github.com/fixmyblock/fixmyblock-backend/internal/models"
	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
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

type fixture struct {
	db      *gorm.DB
	service *Service
	author  models.User
	block   models.Block
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db := setupDB(t)
	f := &fixture{
		db:      db,
		service: NewService(db, nil, nil, nil),
		author:  models.User{DisplayName: "Asha", Email: "asha@example.com", Password: "x"},
		block:   models.Block{Name: "Logan Square", Slug: "logan-square", NeedScore: 50},
	}
	require.NoError(t, db.Create(&f.author).Error)
	require.NoError(t, db.Create(&f.block).Error)
	return f
}

func (f *fixture) addReport(t *testing.T, reportType, status string) models.Report {
	t.Helper()

	report := models.Report{
		Type:      reportType,
		Status:    status,
		PhotoURL:  "https://example.com/p.jpg",
		CreatedBy: f.author.ID,
		BlockID:   &f.block.ID,
	}
	require.NoError(t, f.db.Create(&report).Error)
	return report
}

func TestCreateRejectsMissingPhoto(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.Create(context.Background(), f.author.ID, CreateInput{Type: models.ReportTypePothole}, nil, nil)
	assert.Error(t, err)
}

func TestFeedFilters(t *testing.T) {
	f := newFixture(t)

	f.addReport(t, models.ReportTypePothole, models.StatusOpen)
	f.addReport(t, models.ReportTypeTrash, models.StatusOpen)
	f.addReport(t, models.ReportTypePothole, models.StatusResolved)

	views, total, err := f.service.Feed(FeedFilter{Page: 1, Limit: 20}, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, views, 3)

	views, total, err = f.service.Feed(FeedFilter{Type: models.ReportTypePothole, Page: 1, Limit: 20}, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)

	views, total, err = f.service.Feed(FeedFilter{Status: models.StatusResolved, Page: 1, Limit: 20}, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, views, 1)
	assert.Equal(t, models.StatusResolved, views[0].Status)

	_, _, err = f.service.Feed(FeedFilter{BlockSlug: "nowhere", Page: 1, Limit: 20}, nil)
	assert.ErrorIs(t, err, ErrBlockNotFound)
}

func TestFeedTopSortAndViewerFlag(t *testing.T) {
	f := newFixture(t)

	quiet := f.addReport(t, models.ReportTypePothole, models.StatusOpen)
	popular := f.addReport(t, models.ReportTypeTrash, models.StatusOpen)

	voter := models.User{DisplayName: "Marcus", Email: "marcus@example.com", Password: "x"}
	require.NoError(t, f.db.Create(&voter).Error)
	require.NoError(t, f.db.Create(&models.Upvote{ReportID: popular.ID, UserID: voter.ID}).Error)

	views, _, err := f.service.Feed(FeedFilter{Sort: "top", Page: 1, Limit: 20}, &voter.ID)
	require.NoError(t, err)
	require.Len(t, views, 2)

	assert.Equal(t, popular.ID, views[0].ID)
	assert.Equal(t, 1, views[0].UpvoteCount)
	assert.True(t, views[0].UpvotedByViewer)

	assert.Equal(t, quiet.ID, views[1].ID)
	assert.False(t, views[1].UpvotedByViewer)
}

func TestViewEmbedsAuthorAndBlock(t *testing.T) {
	f := newFixture(t)
	f.addReport(t, models.ReportTypePothole, models.StatusOpen)

	views, _, err := f.service.Feed(FeedFilter{Page: 1, Limit: 20}, nil)
	require.NoError(t, err)
	require.Len(t, views, 1)

	assert.Equal(t, "Asha", views[0].User.DisplayName)
	require.NotNil(t, views[0].Block)
	assert.Equal(t, "logan-square", views[0].Block.Slug)
}

func TestViewPlaceholderForDeletedAuthor(t *testing.T) {
	f := newFixture(t)
	f.addReport(t, models.ReportTypePothole, models.StatusOpen)

	require.NoError(t, f.db.Delete(&f.author).Error)

	views, _, err := f.service.Feed(FeedFilter{Page: 1, Limit: 20}, nil)
	require.NoError(t, err)
	require.Len(t, views, 1)

	assert.Equal(t, "Community Member", views[0].User.DisplayName)
	assert.Nil(t, views[0].User.AvatarURL)
}

func TestGetWithReplies(t *testing.T) {
	f := newFixture(t)
	report := f.addReport(t, models.ReportTypePothole, models.StatusOpen)

	require.NoError(t, f.db.Create(&models.ReportReply{
		ReportID: report.ID, AuthorID: f.author.ID, Body: "Still there",
	}).Error)

	detail, err := f.service.Get(report.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, report.ID, detail.ID)
	require.Len(t, detail.Replies, 1)
	assert.Equal(t, "Still there", detail.Replies[0].Body)

	_, err = f.service.Get(uuid.New(), nil)
	assert.ErrorIs(t, err, ErrReportNotFound)
}

func TestResolveSetsTimestampAndNote(t *testing.T) {
	f := newFixture(t)
	report := f.addReport(t, models.ReportTypePothole, models.StatusOpen)

	view, err := f.service.Resolve(report.ID, "Patched on Tuesday")
	require.NoError(t, err)

	assert.Equal(t, models.StatusResolved, view.Status)
	require.NotNil(t, view.ResolvedAt)
	require.NotNil(t, view.ResolvedNote)
	assert.Equal(t, "Patched on Tuesday", *view.ResolvedNote)
}

func TestNotifyCivicBodies(t *testing.T) {
	f := newFixture(t)
	report := f.addReport(t, models.ReportTypeFlooding, models.StatusOpen)

	view, err := f.service.NotifyCivicBodies(report.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCivicBodiesNotified, view.Status)
	assert.Nil(t, view.ResolvedAt)
}

func TestForUser(t *testing.T) {
	f := newFixture(t)
	f.addReport(t, models.ReportTypePothole, models.StatusOpen)
	f.addReport(t, models.ReportTypeTrash, models.StatusOpen)

	other := models.User{DisplayName: "Marcus", Email: "marcus@example.com", Password: "x"}
	require.NoError(t, f.db.Create(&other).Error)

	views, err := f.service.ForUser(f.author.ID, nil)
	require.NoError(t, err)
	assert.Len(t, views, 2)

	views, err = f.service.ForUser(other.ID, nil)
	require.NoError(t, err)
	assert.Empty(t, views)
}
