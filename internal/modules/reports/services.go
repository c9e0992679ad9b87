package reports

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"mime/multipart"
	"strings"
	"time"

	"github.com/fixmyblock/fixmyblock-backend/internal/civic"
	"github.com/fixmyblock/fixmyblock-backend/internal/enrich"
	"github.com/fixmyblock/fixmyblock-backend/internal/models"
	"github.com/fixmyblock/fixmyblock-backend/internal/storage"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var (
	ErrReportNotFound = errors.New("report not found")
	ErrBlockNotFound  = errors.New("block not found")
)

const contributionPerReport = 5

// NeedScoreRecomputer refreshes a block's stored need score after its reports
// change. Implemented by the blocks module.
type NeedScoreRecomputer interface {
	RecomputeForBlock(blockID uuid.UUID)
}

type Service struct {
	db       *gorm.DB
	photos   *storage.PhotoStore
	enricher *enrich.Worker
	scores   NeedScoreRecomputer
}

func NewService(db *gorm.DB, photos *storage.PhotoStore, enricher *enrich.Worker, scores NeedScoreRecomputer) *Service {
	return &Service{db: db, photos: photos, enricher: enricher, scores: scores}
}

type CreateInput struct {
	Type        string
	Description string
	Lat         float64
	Lng         float64
	BlockSlug   string
}

// Create validates the submission, uploads the photo, inserts the report, and
// enqueues enrichment. Upload precedes insert so the public URL is embedded
// at creation time; the enrichment enqueue is fire-and-forget and can never
// fail the creation.
func (s *Service) Create(ctx context.Context, userID uuid.UUID, in CreateInput, photo multipart.File, header *multipart.FileHeader) (*View, error) {
	if photo == nil || header == nil {
		return nil, errors.New("a photo is required")
	}
	if !models.ValidReportType(in.Type) {
		return nil, fmt.Errorf("invalid issue type %q", in.Type)
	}
	if err := storage.ValidatePhoto(header); err != nil {
		return nil, err
	}

	var blockID *uuid.UUID
	if slug := strings.TrimSpace(in.BlockSlug); slug != "" {
		var block models.Block
		if err := s.db.Where("slug = ?", slug).First(&block).Error; err != nil {
			return nil, ErrBlockNotFound
		}
		blockID = &block.ID
	}

	if s.photos == nil {
		return nil, storage.ErrNotConfigured
	}
	photoURL, err := s.photos.UploadPhoto(ctx, photo)
	if err != nil {
		return nil, err
	}

	report := models.Report{
		Type:      in.Type,
		Status:    models.StatusOpen,
		Lat:       in.Lat,
		Lng:       in.Lng,
		PhotoURL:  photoURL,
		CreatedBy: userID,
		BlockID:   blockID,
	}
	if desc := strings.TrimSpace(in.Description); desc != "" {
		report.Description = &desc
	}

	if err := s.db.Create(&report).Error; err != nil {
		return nil, fmt.Errorf("failed to create report: %w", err)
	}

	if err := s.db.Model(&models.User{}).Where("id = ?", userID).
		Update("contribution_score", gorm.Expr("contribution_score + ?", contributionPerReport)).Error; err != nil {
		slog.Error("failed to award contribution points", "user_id", userID, "error", err)
	}

	if blockID != nil && s.scores != nil {
		s.scores.RecomputeForBlock(*blockID)
	}
	if s.enricher != nil {
		s.enricher.Enqueue(report.ID)
	}

	views, err := s.buildViews([]models.Report{report}, nil)
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

type FeedFilter struct {
	Status    string
	Type      string
	BlockSlug string
	Sort      string // "recent" (default) or "top"
	Page      int
	Limit     int
}

// Feed lists reports with explicit ordering; the store's default order is
// never relied on.
func (s *Service) Feed(filter FeedFilter, viewerID *uuid.UUID) ([]View, int64, error) {
	query := s.db.Model(&models.Report{})

	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Type != "" {
		query = query.Where("type = ?", filter.Type)
	}
	if filter.BlockSlug != "" {
		var block models.Block
		if err := s.db.Where("slug = ?", filter.BlockSlug).First(&block).Error; err != nil {
			return nil, 0, ErrBlockNotFound
		}
		query = query.Where("block_id = ?", block.ID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit

	var rows []models.Report
	fetch := query.Session(&gorm.Session{}).Preload("User").Preload("Block")
	if filter.Sort == "top" {
		fetch = fetch.
			Select("reports.*").
			Joins("LEFT JOIN upvotes ON upvotes.report_id = reports.id").
			Group("reports.id").
			Order("count(upvotes.id) DESC").
			Order("reports.created_at DESC")
	} else {
		fetch = fetch.Order("created_at DESC")
	}
	if err := fetch.Offset(offset).Limit(filter.Limit).Find(&rows).Error; err != nil {
		return nil, 0, err
	}

	views, err := s.buildViews(rows, viewerID)
	return views, total, err
}

// ForBlock lists a block's reports newest-first, for the block detail page
// and need-score recomputation inputs.
func (s *Service) ForBlock(blockID uuid.UUID, viewerID *uuid.UUID) ([]View, error) {
	var rows []models.Report
	if err := s.db.Where("block_id = ?", blockID).
		Preload("User").Preload("Block").
		Order("created_at DESC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return s.buildViews(rows, viewerID)
}

// ForUser lists one user's reports newest-first.
func (s *Service) ForUser(userID uuid.UUID, viewerID *uuid.UUID) ([]View, error) {
	var rows []models.Report
	if err := s.db.Where("created_by = ?", userID).
		Preload("User").Preload("Block").
		Order("created_at DESC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return s.buildViews(rows, viewerID)
}

// Mine lists the caller's own reports.
func (s *Service) Mine(userID uuid.UUID) ([]View, error) {
	return s.ForUser(userID, &userID)
}

// Get returns one report with its replies.
func (s *Service) Get(id uuid.UUID, viewerID *uuid.UUID) (*Detail, error) {
	var report models.Report
	if err := s.db.Preload("User").Preload("Block").First(&report, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReportNotFound
		}
		return nil, err
	}

	views, err := s.buildViews([]models.Report{report}, viewerID)
	if err != nil {
		return nil, err
	}

	replies, err := s.loadReplies(id)
	if err != nil {
		return nil, err
	}

	return &Detail{View: views[0], Replies: replies}, nil
}

// Resolve closes a report with an optional note and refreshes the block's
// need score.
func (s *Service) Resolve(id uuid.UUID, note string) (*View, error) {
	return s.transition(id, func(report *models.Report) map[string]interface{} {
		now := time.Now()
		updates := map[string]interface{}{
			"status":      models.StatusResolved,
			"resolved_at": now,
		}
		if n := strings.TrimSpace(note); n != "" {
			updates["resolved_note"] = n
		}
		return updates
	})
}

// NotifyCivicBodies marks a report as escalated to the responsible agency.
func (s *Service) NotifyCivicBodies(id uuid.UUID) (*View, error) {
	return s.transition(id, func(report *models.Report) map[string]interface{} {
		return map[string]interface{}{"status": models.StatusCivicBodiesNotified}
	})
}

func (s *Service) transition(id uuid.UUID, updatesFor func(*models.Report) map[string]interface{}) (*View, error) {
	var report models.Report
	if err := s.db.First(&report, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReportNotFound
		}
		return nil, err
	}

	if err := s.db.Model(&report).Updates(updatesFor(&report)).Error; err != nil {
		return nil, err
	}

	if report.BlockID != nil && s.scores != nil {
		s.scores.RecomputeForBlock(*report.BlockID)
	}

	if err := s.db.Preload("User").Preload("Block").First(&report, "id = ?", id).Error; err != nil {
		return nil, err
	}
	views, err := s.buildViews([]models.Report{report}, nil)
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

type replyRow struct {
	ID        uuid.UUID       `json:"id"`
	ReportID  uuid.UUID       `json:"report_id"`
	AuthorID  uuid.UUID       `json:"author_id"`
	Body      string          `json:"body"`
	CreatedAt time.Time       `json:"created_at"`
	Author    civic.PersonRef `json:"author"`
}

func (s *Service) loadReplies(reportID uuid.UUID) ([]replyRow, error) {
	var rows []models.ReportReply
	if err := s.db.Where("report_id = ?", reportID).
		Preload("Author").
		Order("created_at ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}

	replies := make([]replyRow, len(rows))
	for i, r := range rows {
		var author *civic.PersonRef
		if r.Author.ID != uuid.Nil {
			avatar := civic.AvatarURL(r.Author.DisplayName, r.Author.AvatarURL)
			author = &civic.PersonRef{DisplayName: r.Author.DisplayName, AvatarURL: &avatar}
		}
		replies[i] = replyRow{
			ID:        r.ID,
			ReportID:  r.ReportID,
			AuthorID:  r.AuthorID,
			Body:      r.Body,
			CreatedAt: r.CreatedAt,
			Author:    civic.ValueOr(author, civic.PlaceholderAuthor()),
		}
	}
	return replies, nil
}

// View is the report shape embedded in feeds and block pages.
type View struct {
	ID                  uuid.UUID       `json:"id"`
	Type                string          `json:"type"`
	Description         *string         `json:"description"`
	Status              string          `json:"status"`
	Lat                 float64         `json:"lat"`
	Lng                 float64         `json:"lng"`
	PhotoURL            string          `json:"photo_url"`
	CreatedBy           uuid.UUID       `json:"created_by"`
	CreatedAt           time.Time       `json:"created_at"`
	ResolvedAt          *time.Time      `json:"resolved_at"`
	ResolvedNote        *string         `json:"resolved_note"`
	AIMetadata          datatypes.JSON  `json:"ai_metadata"`
	User                civic.PersonRef `json:"user"`
	Block               *civic.BlockRef `json:"block"`
	UpvoteCount         int             `json:"upvote_count"`
	VerificationCount   int             `json:"verification_count"`
	VerifiedByResidents bool            `json:"verified_by_residents"`
	UpvotedByViewer     bool            `json:"upvoted_by_viewer"`
}

// Detail is a single report plus its reply thread.
type Detail struct {
	View
	Replies []replyRow `json:"replies"`
}

const verifiedThreshold = 2

func (s *Service) buildViews(rows []models.Report, viewerID *uuid.UUID) ([]View, error) {
	ids := reportIDs(rows)

	upvotes, err := s.countByReport(&models.Upvote{}, ids)
	if err != nil {
		return nil, err
	}
	verifications, err := s.countByReport(&models.ReportVerification{}, ids)
	if err != nil {
		return nil, err
	}

	mine := map[uuid.UUID]bool{}
	if viewerID != nil && len(ids) > 0 {
		var rowsMine []models.Upvote
		if err := s.db.Where("user_id = ? AND report_id IN ?", *viewerID, ids).Find(&rowsMine).Error; err != nil {
			return nil, err
		}
		for _, u := range rowsMine {
			mine[u.ReportID] = true
		}
	}

	views := make([]View, len(rows))
	for i, r := range rows {
		var author *civic.PersonRef
		if r.User.ID != uuid.Nil {
			avatar := civic.AvatarURL(r.User.DisplayName, r.User.AvatarURL)
			author = &civic.PersonRef{DisplayName: r.User.DisplayName, AvatarURL: &avatar}
		}

		var blockRef *civic.BlockRef
		if r.Block != nil {
			blockRef = &civic.BlockRef{Name: r.Block.Name, Slug: r.Block.Slug}
		}

		views[i] = View{
			ID:                  r.ID,
			Type:                r.Type,
			Description:         r.Description,
			Status:              r.Status,
			Lat:                 r.Lat,
			Lng:                 r.Lng,
			PhotoURL:            r.PhotoURL,
			CreatedBy:           r.CreatedBy,
			CreatedAt:           r.CreatedAt,
			ResolvedAt:          r.ResolvedAt,
			ResolvedNote:        r.ResolvedNote,
			AIMetadata:          r.AIMetadata,
			User:                civic.ValueOr(author, civic.PlaceholderAuthor()),
			Block:               blockRef,
			UpvoteCount:         upvotes[r.ID],
			VerificationCount:   verifications[r.ID],
			VerifiedByResidents: verifications[r.ID] >= verifiedThreshold,
			UpvotedByViewer:     mine[r.ID],
		}
	}
	return views, nil
}

func (s *Service) countByReport(model interface{}, ids []uuid.UUID) (map[uuid.UUID]int, error) {
	counts := make(map[uuid.UUID]int, len(ids))
	if len(ids) == 0 {
		return counts, nil
	}

	var rows []struct {
		ReportID uuid.UUID
		N        int
	}
	if err := s.db.Model(model).
		Select("report_id, count(*) as n").
		Where("report_id IN ?", ids).
		Group("report_id").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	for _, row := range rows {
		counts[row.ReportID] = row.N
	}
	return counts, nil
}

func reportIDs(rows []models.Report) []uuid.UUID {
	ids := make([]uuid.UUID, len(rows))
	for i, r := range rows {
		ids[i] = r.ID
	}
	return ids
}
