package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ReactionModel holds at most one row per (user, target kind, target id).
// The composite unique index is the structural guarantee that a user never
// stores like and dislike for the same target at once.
type ReactionModel struct {
	ID         string    `gorm:"type:uuid;primary_key" json:"id"`
	UserID     string    `gorm:"type:uuid;not null;uniqueIndex:idx_reactions_user_target" json:"user_id"`
	TargetKind string    `gorm:"type:varchar(10);not null;uniqueIndex:idx_reactions_user_target" json:"target_kind"`
	TargetID   string    `gorm:"type:uuid;not null;uniqueIndex:idx_reactions_user_target;index" json:"target_id"`
	Value      string    `gorm:"type:varchar(10);not null" json:"value"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (ReactionModel) TableName() string {
	return "reactions"
}

func (r *ReactionModel) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	return nil
}

// FollowModel holds at most one row per (user, post).
type FollowModel struct {
	ID        string    `gorm:"type:uuid;primary_key" json:"id"`
	UserID    string    `gorm:"type:uuid;not null;uniqueIndex:idx_follows_user_post" json:"user_id"`
	PostID    string    `gorm:"type:uuid;not null;uniqueIndex:idx_follows_user_post;index" json:"post_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (FollowModel) TableName() string {
	return "follows"
}

func (f *FollowModel) BeforeCreate(tx *gorm.DB) error {
	if f.ID == "" {
		f.ID = uuid.New().String()
	}
	return nil
}
