package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Upvote marks a resident's support for a report. The composite unique index
// is the authoritative one-upvote-per-user guard.
type Upvote struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ReportID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_upvotes_report_user" json:"report_id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_upvotes_report_user" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
	Report    Report    `gorm:"foreignKey:ReportID" json:"-"`
	User      User      `gorm:"foreignKey:UserID" json:"-"`
}

func (u *Upvote) BeforeCreate(_ *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// ReportVerification records a resident confirming a resolved report was
// actually fixed. Display threshold for "verified by residents" is two.
type ReportVerification struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ReportID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_verifications_report_user" json:"report_id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_verifications_report_user" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
	Report    Report    `gorm:"foreignKey:ReportID" json:"-"`
	User      User      `gorm:"foreignKey:UserID" json:"-"`
}

func (v *ReportVerification) BeforeCreate(_ *gorm.DB) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	return nil
}

// ReportReply is a flat comment on a report, listed in insertion order.
type ReportReply struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ReportID  uuid.UUID `gorm:"type:uuid;not null;index" json:"report_id"`
	AuthorID  uuid.UUID `gorm:"type:uuid;not null;index" json:"author_id"`
	Body      string    `gorm:"type:text;not null" json:"body"`
	CreatedAt time.Time `json:"created_at"`
	Report    Report    `gorm:"foreignKey:ReportID" json:"-"`
	Author    User      `gorm:"foreignKey:AuthorID" json:"-"`
}

func (r *ReportReply) BeforeCreate(_ *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
