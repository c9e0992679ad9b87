package engagement

import (
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/fixmyblock/fixmyblock-backend/internal/civic"
	"github.com/fixmyblock/fixmyblock-backend/internal/models"
	"github.com/fixmyblock/fixmyblock-backend/internal/modules/reports"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrReportNotFound = errors.New("report not found")
	ErrNotResolved    = errors.New("report is not resolved")
	ErrEmptyReply     = errors.New("reply body is required")
	ErrReplyTooLong   = errors.New("reply body exceeds 500 characters")
)

const maxReplyLength = 500

type Service struct {
	db        *gorm.DB
	scores    reports.NeedScoreRecomputer
	threshold int
}

func NewService(db *gorm.DB, scores reports.NeedScoreRecomputer, verifiedThreshold int) *Service {
	if verifiedThreshold < 1 {
		verifiedThreshold = 2
	}
	return &Service{db: db, scores: scores, threshold: verifiedThreshold}
}

type UpvoteResult struct {
	Upvoted bool `json:"upvoted"`
	Count   int  `json:"count"`
}

// ToggleUpvote adds or removes the caller's upvote and mirrors the change
// onto the report owner's contribution score. A concurrent duplicate insert
// lands on the unique index and is treated as already-upvoted, never as a
// failure.
func (s *Service) ToggleUpvote(userID, reportID uuid.UUID) (*UpvoteResult, error) {
	var report models.Report
	if err := s.db.First(&report, "id = ?", reportID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReportNotFound
		}
		return nil, err
	}

	var existing models.Upvote
	err := s.db.Where("report_id = ? AND user_id = ?", reportID, userID).First(&existing).Error
	switch {
	case err == nil:
		if err := s.db.Delete(&existing).Error; err != nil {
			return nil, err
		}
		s.adjustOwnerScore(report.CreatedBy, -1)
		return s.result(report, false)

	case errors.Is(err, gorm.ErrRecordNotFound):
		upvote := models.Upvote{ReportID: reportID, UserID: userID}
		if err := s.db.Create(&upvote).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return s.result(report, true)
			}
			return nil, err
		}
		s.adjustOwnerScore(report.CreatedBy, 1)
		return s.result(report, true)

	default:
		return nil, err
	}
}

func (s *Service) result(report models.Report, upvoted bool) (*UpvoteResult, error) {
	var count int64
	if err := s.db.Model(&models.Upvote{}).Where("report_id = ?", report.ID).Count(&count).Error; err != nil {
		return nil, err
	}
	if report.BlockID != nil && s.scores != nil {
		s.scores.RecomputeForBlock(*report.BlockID)
	}
	return &UpvoteResult{Upvoted: upvoted, Count: int(count)}, nil
}

func (s *Service) adjustOwnerScore(ownerID uuid.UUID, delta int) {
	if err := s.db.Model(&models.User{}).Where("id = ?", ownerID).
		Update("contribution_score", gorm.Expr("contribution_score + ?", delta)).Error; err != nil {
		slog.Error("failed to adjust contribution score", "user_id", ownerID, "error", err)
	}
}

type VerifyResult struct {
	Verified            bool `json:"verified"`
	Count               int  `json:"count"`
	VerifiedByResidents bool `json:"verified_by_residents"`
}

// Verify records the caller's confirmation that a resolved report is actually
// fixed. Only resolved reports accept verifications; repeat calls are
// idempotent.
func (s *Service) Verify(userID, reportID uuid.UUID) (*VerifyResult, error) {
	var report models.Report
	if err := s.db.First(&report, "id = ?", reportID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReportNotFound
		}
		return nil, err
	}
	if report.Status != models.StatusResolved {
		return nil, ErrNotResolved
	}

	verification := models.ReportVerification{ReportID: reportID, UserID: userID}
	if err := s.db.Create(&verification).Error; err != nil && !errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil, err
	}

	var count int64
	if err := s.db.Model(&models.ReportVerification{}).Where("report_id = ?", reportID).Count(&count).Error; err != nil {
		return nil, err
	}

	return &VerifyResult{
		Verified:            true,
		Count:               int(count),
		VerifiedByResidents: int(count) >= s.threshold,
	}, nil
}

// ReplyView is the reply shape returned to clients.
type ReplyView struct {
	ID        uuid.UUID       `json:"id"`
	ReportID  uuid.UUID       `json:"report_id"`
	AuthorID  uuid.UUID       `json:"author_id"`
	Body      string          `json:"body"`
	CreatedAt time.Time       `json:"created_at"`
	Author    civic.PersonRef `json:"author"`
}

// CreateReply appends a flat comment to a report's thread.
func (s *Service) CreateReply(userID, reportID uuid.UUID, body string) (*ReplyView, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, ErrEmptyReply
	}
	if len([]rune(body)) > maxReplyLength {
		return nil, ErrReplyTooLong
	}

	var report models.Report
	if err := s.db.First(&report, "id = ?", reportID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReportNotFound
		}
		return nil, err
	}

	reply := models.ReportReply{ReportID: reportID, AuthorID: userID, Body: body}
	if err := s.db.Create(&reply).Error; err != nil {
		return nil, err
	}
	if err := s.db.Preload("Author").First(&reply, "id = ?", reply.ID).Error; err != nil {
		return nil, err
	}

	view := toReplyView(reply)
	return &view, nil
}

// ListReplies returns a report's thread oldest-first.
func (s *Service) ListReplies(reportID uuid.UUID) ([]ReplyView, error) {
	var exists int64
	if err := s.db.Model(&models.Report{}).Where("id = ?", reportID).Count(&exists).Error; err != nil {
		return nil, err
	}
	if exists == 0 {
		return nil, ErrReportNotFound
	}

	var rows []models.ReportReply
	if err := s.db.Where("report_id = ?", reportID).
		Preload("Author").
		Order("created_at ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}

	views := make([]ReplyView, len(rows))
	for i, r := range rows {
		views[i] = toReplyView(r)
	}
	return views, nil
}

func toReplyView(r models.ReportReply) ReplyView {
	var author *civic.PersonRef
	if r.Author.ID != uuid.Nil {
		avatar := civic.AvatarURL(r.Author.DisplayName, r.Author.AvatarURL)
		author = &civic.PersonRef{DisplayName: r.Author.DisplayName, AvatarURL: &avatar}
	}
	return ReplyView{
		ID:        r.ID,
		ReportID:  r.ReportID,
		AuthorID:  r.AuthorID,
		Body:      r.Body,
		CreatedAt: r.CreatedAt,
		Author:    civic.ValueOr(author, civic.PlaceholderAuthor()),
	}
}
