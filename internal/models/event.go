package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CivicEvent categories.
var EventCategories = []string{"clean_up", "food", "animals", "recycling"}

// CivicEvent is a curated neighborhood volunteering event.
type CivicEvent struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Title       string    `gorm:"size:200;not null" json:"title"`
	Description string    `gorm:"type:text" json:"description"`
	StartsAt    string    `gorm:"size:100" json:"starts_at"`
	Location    string    `gorm:"size:200" json:"location"`
	Category    string    `gorm:"size:30;index" json:"category"`
	Neighbors   int       `gorm:"default:0" json:"neighbors"`
	ImageURL    string    `gorm:"size:500" json:"image_url"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (e *CivicEvent) BeforeCreate(_ *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}
