package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Block is a neighborhood unit. Slug is the stable routing identifier.
// NeedScore (0-100) is recomputed server-side from the block's reports; the
// stored value is authoritative.
type Block struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string    `gorm:"size:100;not null" json:"name"`
	Slug      string    `gorm:"size:100;not null;uniqueIndex" json:"slug"`
	Lat       float64   `json:"lat"`
	Lng       float64   `json:"lng"`
	NeedScore int       `gorm:"default:0" json:"need_score"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (b *Block) BeforeCreate(_ *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}
