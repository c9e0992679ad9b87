package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is a resident account. ContributionScore is denormalized and maintained
// server-side: +5 per report created, +1 per upvote received.
type User struct {
	ID                uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	DisplayName       string         `gorm:"size:100;not null" json:"display_name"`
	Email             string         `gorm:"not null;size:255;uniqueIndex" json:"email"`
	Password          string         `gorm:"not null" json:"-"`
	AvatarURL         *string        `gorm:"size:500" json:"avatar_url"`
	ContributionScore int            `gorm:"default:0" json:"contribution_score"`
	Role              string         `gorm:"size:20;default:'user'" json:"role"`
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`
	DeletedAt         gorm.DeletedAt `gorm:"index" json:"-"`
}

func (u *User) BeforeCreate(_ *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
