package blocks

import (
	"errors"
	"log/slog"
	"time"

	"github.com/fixmyblock/fixmyblock-backend/internal/civic"
	"github.com/fixmyblock/fixmyblock-backend/internal/models"
	"github.com/fixmyblock/fixmyblock-backend/internal/modules/reports"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrBlockNotFound = errors.New("block not found")

// ScoreService owns the stored need score. The stored value is authoritative
// for reads; recomputation happens after report mutations and on a periodic
// sweep so drift never outlives one interval.
type ScoreService struct {
	db  *gorm.DB
	cfg civic.NeedScoreConfig
}

func NewScoreService(db *gorm.DB, cfg civic.NeedScoreConfig) *ScoreService {
	return &ScoreService{db: db, cfg: cfg}
}

// RecomputeForBlock refreshes one block's need score. Failures are logged,
// not propagated; a stale score self-heals on the next sweep.
func (s *ScoreService) RecomputeForBlock(blockID uuid.UUID) {
	facts, err := s.factsForBlock(blockID)
	if err != nil {
		slog.Error("failed to load block reports for need score", "block_id", blockID, "error", err)
		return
	}

	score := s.cfg.Score(facts)
	if err := s.db.Model(&models.Block{}).Where("id = ?", blockID).
		Update("need_score", score).Error; err != nil {
		slog.Error("failed to store need score", "block_id", blockID, "error", err)
	}
}

// RecomputeAll sweeps every block.
func (s *ScoreService) RecomputeAll() error {
	var blockIDs []uuid.UUID
	if err := s.db.Model(&models.Block{}).Pluck("id", &blockIDs).Error; err != nil {
		return err
	}
	for _, id := range blockIDs {
		s.RecomputeForBlock(id)
	}
	return nil
}

// StartRefresher runs the periodic sweep until done is closed.
func (s *ScoreService) StartRefresher(interval time.Duration, done <-chan struct{}) {
	if interval <= 0 {
		interval = 15 * time.Minute
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if err := s.RecomputeAll(); err != nil {
					slog.Error("need score sweep failed", "error", err)
				}
			case <-done:
				return
			}
		}
	}()
}

func (s *ScoreService) factsForBlock(blockID uuid.UUID) ([]civic.ReportFacts, error) {
	var rows []models.Report
	if err := s.db.Where("block_id = ?", blockID).Find(&rows).Error; err != nil {
		return nil, err
	}

	counts := map[uuid.UUID]int{}
	if len(rows) > 0 {
		ids := make([]uuid.UUID, len(rows))
		for i, r := range rows {
			ids[i] = r.ID
		}
		var countRows []struct {
			ReportID uuid.UUID
			N        int
		}
		if err := s.db.Model(&models.Upvote{}).
			Select("report_id, count(*) as n").
			Where("report_id IN ?", ids).
			Group("report_id").
			Scan(&countRows).Error; err != nil {
			return nil, err
		}
		for _, row := range countRows {
			counts[row.ReportID] = row.N
		}
	}

	facts := make([]civic.ReportFacts, len(rows))
	for i, r := range rows {
		facts[i] = civic.ReportFacts{
			Status:     r.Status,
			CreatedAt:  r.CreatedAt,
			ResolvedAt: r.ResolvedAt,
			Upvotes:    counts[r.ID],
		}
	}
	return facts, nil
}

// Summary is the list-view shape of a block.
type Summary struct {
	ID        uuid.UUID       `json:"id"`
	Name      string          `json:"name"`
	Slug      string          `json:"slug"`
	Lat       float64         `json:"lat"`
	Lng       float64         `json:"lng"`
	NeedScore int             `json:"need_score"`
	NeedLevel civic.NeedLevel `json:"need_level"`
}

// Detail adds live stats and the block's reports to the summary.
type Detail struct {
	Summary
	Stats   civic.BlockStats `json:"stats"`
	Reports []reports.View   `json:"reports"`
}

type BlockService struct {
	db      *gorm.DB
	scores  *ScoreService
	reports *reports.Service
}

func NewBlockService(db *gorm.DB, scores *ScoreService, reportSvc *reports.Service) *BlockService {
	return &BlockService{db: db, scores: scores, reports: reportSvc}
}

// List returns every block ordered by need, neediest first.
func (s *BlockService) List() ([]Summary, error) {
	var rows []models.Block
	if err := s.db.Order("need_score DESC").Order("name ASC").Find(&rows).Error; err != nil {
		return nil, err
	}

	summaries := make([]Summary, len(rows))
	for i, b := range rows {
		summaries[i] = summarize(b)
	}
	return summaries, nil
}

// GetBySlug returns one block with stats computed from its current reports.
func (s *BlockService) GetBySlug(slug string, viewerID *uuid.UUID) (*Detail, error) {
	var block models.Block
	if err := s.db.Where("slug = ?", slug).First(&block).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBlockNotFound
		}
		return nil, err
	}

	views, err := s.reports.ForBlock(block.ID, viewerID)
	if err != nil {
		return nil, err
	}

	facts, err := s.scores.factsForBlock(block.ID)
	if err != nil {
		return nil, err
	}

	return &Detail{
		Summary: summarize(block),
		Stats:   civic.CalculateBlockStats(facts, time.Now()),
		Reports: views,
	}, nil
}

// Recompute refreshes one block's need score on demand and returns the
// updated summary.
func (s *BlockService) Recompute(slug string) (*Summary, error) {
	var block models.Block
	if err := s.db.Where("slug = ?", slug).First(&block).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBlockNotFound
		}
		return nil, err
	}

	s.scores.RecomputeForBlock(block.ID)

	if err := s.db.First(&block, "id = ?", block.ID).Error; err != nil {
		return nil, err
	}
	summary := summarize(block)
	return &summary, nil
}

func summarize(b models.Block) Summary {
	return Summary{
		ID:        b.ID,
		Name:      b.Name,
		Slug:      b.Slug,
		Lat:       b.Lat,
		Lng:       b.Lng,
		NeedScore: b.NeedScore,
		NeedLevel: civic.GetNeedLevel(b.NeedScore),
	}
}
