package leaderboard

import (
	"sort"

	"github.com/fixmyblock/fixmyblock-backend/internal/civic"
	"github.com/fixmyblock/fixmyblock-backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const pointsPerReport = 5

// EffectiveScore returns the stored contribution score, falling back to a
// recount when the stored value is zero. Accounts created before score
// tracking still rank by their actual activity.
func EffectiveScore(stored, reportCount, upvotesReceived int) int {
	if stored > 0 {
		return stored
	}
	return reportCount*pointsPerReport + upvotesReceived
}

type ContributorEntry struct {
	UserID          uuid.UUID `json:"user_id"`
	DisplayName     string    `json:"display_name"`
	AvatarURL       string    `json:"avatar_url"`
	Score           int       `json:"score"`
	ReportCount     int       `json:"report_count"`
	UpvotesReceived int       `json:"upvotes_received"`
}

type BlockEntry struct {
	ID        uuid.UUID       `json:"id"`
	Name      string          `json:"name"`
	Slug      string          `json:"slug"`
	NeedScore int             `json:"need_score"`
	NeedLevel civic.NeedLevel `json:"need_level"`
}

type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// TopContributors ranks users by effective contribution score. Candidates
// are pre-trimmed on the stored score, then re-ranked after the fallback
// recount so zero-score accounts surface correctly.
func (s *Service) TopContributors(limit int) ([]ContributorEntry, error) {
	if limit < 1 || limit > 100 {
		limit = 10
	}

	var users []models.User
	if err := s.db.Order("contribution_score DESC").Limit(100).Find(&users).Error; err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return []ContributorEntry{}, nil
	}

	ids := make([]uuid.UUID, len(users))
	for i, u := range users {
		ids[i] = u.ID
	}

	reportCounts, err := s.countGrouped(
		s.db.Model(&models.Report{}).Select("created_by as user_id, count(*) as n").Where("created_by IN ?", ids).Group("created_by"))
	if err != nil {
		return nil, err
	}

	upvoteCounts, err := s.countGrouped(
		s.db.Model(&models.Upvote{}).
			Select("reports.created_by as user_id, count(*) as n").
			Joins("JOIN reports ON reports.id = upvotes.report_id").
			Where("reports.created_by IN ?", ids).
			Group("reports.created_by"))
	if err != nil {
		return nil, err
	}

	entries := make([]ContributorEntry, len(users))
	for i, u := range users {
		entries[i] = ContributorEntry{
			UserID:          u.ID,
			DisplayName:     u.DisplayName,
			AvatarURL:       civic.AvatarURL(u.DisplayName, u.AvatarURL),
			Score:           EffectiveScore(u.ContributionScore, reportCounts[u.ID], upvoteCounts[u.ID]),
			ReportCount:     reportCounts[u.ID],
			UpvotesReceived: upvoteCounts[u.ID],
		}
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Score > entries[j].Score
	})
	if len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

// TopBlocks ranks blocks by stored need score, neediest first.
func (s *Service) TopBlocks(limit int) ([]BlockEntry, error) {
	if limit < 1 || limit > 100 {
		limit = 10
	}

	var blocks []models.Block
	if err := s.db.Order("need_score DESC").Order("name ASC").Limit(limit).Find(&blocks).Error; err != nil {
		return nil, err
	}

	entries := make([]BlockEntry, len(blocks))
	for i, b := range blocks {
		entries[i] = BlockEntry{
			ID:        b.ID,
			Name:      b.Name,
			Slug:      b.Slug,
			NeedScore: b.NeedScore,
			NeedLevel: civic.GetNeedLevel(b.NeedScore),
		}
	}
	return entries, nil
}

func (s *Service) countGrouped(query *gorm.DB) (map[uuid.UUID]int, error) {
	var rows []struct {
		UserID uuid.UUID
		N      int
	}
	if err := query.Scan(&rows).Error; err != nil {
		return nil, err
	}
	counts := make(map[uuid.UUID]int, len(rows))
	for _, row := range rows {
		counts[row.UserID] = row.N
	}
	return counts, nil
}
