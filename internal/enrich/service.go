package enrich

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/fixmyblock/fixmyblock-backend/internal/models"
	"github.com/fixmyblock/fixmyblock-backend/internal/vision"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var ErrReportNotFound = errors.New("report not found")

// Service runs the post-creation AI enrichment of a report. It is idempotent:
// re-running replaces ai_metadata with a fresh verdict.
type Service struct {
	db     *gorm.DB
	vision *vision.Client
}

func NewService(db *gorm.DB, visionClient *vision.Client) *Service {
	return &Service{db: db, vision: visionClient}
}

// EnrichReport classifies the report's photo and stores the verdict in
// ai_metadata. The report's type is overwritten with the model category only
// when the existing type is missing or "other"; a user-confirmed specific
// type is never touched.
func (s *Service) EnrichReport(reportID uuid.UUID) (*vision.IssueClassification, error) {
	var report models.Report
	if err := s.db.First(&report, "id = ?", reportID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReportNotFound
		}
		return nil, err
	}

	if report.PhotoURL == "" {
		return nil, errors.New("report has no photo to analyze")
	}

	classification, err := s.vision.ClassifyIssue(report.PhotoURL)
	if err != nil {
		return nil, err
	}

	metadata, err := json.Marshal(classification)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{
		"ai_metadata": datatypes.JSON(metadata),
	}
	if ShouldOverwriteType(report.Type) {
		updates["type"] = classification.Category
	}

	if err := s.db.Model(&models.Report{}).Where("id = ?", reportID).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to store enrichment: %w", err)
	}

	return classification, nil
}

// ShouldOverwriteType reports whether the AI category may replace the stored
// report type.
func ShouldOverwriteType(existing string) bool {
	return existing == "" || existing == models.ReportTypeOther
}
