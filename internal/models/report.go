package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Report issue categories.
const (
	ReportTypePothole     = "pothole"
	ReportTypeBrokenLight = "broken_light"
	ReportTypeTrash       = "trash"
	ReportTypeFlooding    = "flooding"
	ReportTypeOther       = "other"
)

// Report statuses.
const (
	StatusOpen                = "open"
	StatusResolved            = "resolved"
	StatusCivicBodiesNotified = "civic_bodies_notified"
)

var ReportTypes = []string{
	ReportTypePothole, ReportTypeBrokenLight, ReportTypeTrash,
	ReportTypeFlooding, ReportTypeOther,
}

func ValidReportType(t string) bool {
	for _, rt := range ReportTypes {
		if t == rt {
			return true
		}
	}
	return false
}

// Report is a submitted civic issue. AIMetadata stays null until the async
// enrichment lands; reports are never hard-deleted through API paths.
type Report struct {
	ID           uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Type         string         `gorm:"size:30;not null;index" json:"type"`
	Description  *string        `gorm:"type:text" json:"description"`
	Status       string         `gorm:"size:30;not null;default:'open';index" json:"status"`
	Lat          float64        `json:"lat"`
	Lng          float64        `json:"lng"`
	PhotoURL     string         `gorm:"size:500;not null" json:"photo_url"`
	CreatedBy    uuid.UUID      `gorm:"type:uuid;not null;index" json:"created_by"`
	BlockID      *uuid.UUID     `gorm:"type:uuid;index" json:"block_id"`
	ResolvedAt   *time.Time     `json:"resolved_at"`
	ResolvedNote *string        `gorm:"type:text" json:"resolved_note"`
	AIMetadata   datatypes.JSON `json:"ai_metadata"`
	CreatedAt    time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`

	User  User   `gorm:"foreignKey:CreatedBy" json:"-"`
	Block *Block `gorm:"foreignKey:BlockID" json:"-"`
}

func (r *Report) BeforeCreate(_ *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
