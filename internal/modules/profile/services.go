package profile

import (
	"errors"

	"github.com/fixmyblock/fixmyblock-backend/internal/civic"
	"github.com/fixmyblock/fixmyblock-backend/internal/models"
	"github.com/fixmyblock/fixmyblock-backend/internal/modules/leaderboard"
	"github.com/fixmyblock/fixmyblock-backend/internal/modules/reports"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrUserNotFound = errors.New("user not found")

// View is a user's public profile with their activity.
type View struct {
	ID                uuid.UUID      `json:"id"`
	DisplayName       string         `json:"display_name"`
	AvatarURL         string         `json:"avatar_url"`
	ContributionScore int            `json:"contribution_score"`
	ReportCount       int            `json:"report_count"`
	UpvotesReceived   int            `json:"upvotes_received"`
	Reports           []reports.View `json:"reports"`
}

type Service struct {
	db      *gorm.DB
	reports *reports.Service
}

func NewService(db *gorm.DB, reportSvc *reports.Service) *Service {
	return &Service{db: db, reports: reportSvc}
}

// Get returns a user's profile. viewerID personalizes the embedded report
// views; it is nil for anonymous readers.
func (s *Service) Get(userID uuid.UUID, viewerID *uuid.UUID) (*View, error) {
	var user models.User
	if err := s.db.First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	views, err := s.reports.ForUser(userID, viewerID)
	if err != nil {
		return nil, err
	}

	var upvotesReceived int64
	if err := s.db.Model(&models.Upvote{}).
		Joins("JOIN reports ON reports.id = upvotes.report_id").
		Where("reports.created_by = ?", userID).
		Count(&upvotesReceived).Error; err != nil {
		return nil, err
	}

	return &View{
		ID:                user.ID,
		DisplayName:       user.DisplayName,
		AvatarURL:         civic.AvatarURL(user.DisplayName, user.AvatarURL),
		ContributionScore: leaderboard.EffectiveScore(user.ContributionScore, len(views), int(upvotesReceived)),
		ReportCount:       len(views),
		UpvotesReceived:   int(upvotesReceived),
		Reports:           views,
	}, nil
}
