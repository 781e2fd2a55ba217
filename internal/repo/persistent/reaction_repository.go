package persistent

import (
	"errors"

	"github.com/liuxiankun1234/fmock/internal/entity"
	"github.com/liuxiankun1234/fmock/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ReactionRepository is the reaction ledger: at most one like-or-dislike
// row per (user, target kind, target id), toggled by Apply.
type ReactionRepository interface {
	Apply(userID string, kind entity.TargetKind, targetID string, action entity.ReactionValue) (entity.ReactionValue, error)
	Status(userID string, kind entity.TargetKind, targetID string) (entity.ReactionValue, error)
	CountByValue(kind entity.TargetKind, targetID string, value entity.ReactionValue) (int64, error)
}

type reactionRepository struct {
	db *gorm.DB
}

func NewReactionRepository(db *gorm.DB) ReactionRepository {
	return &reactionRepository{db: db}
}

// Apply toggles the stored reaction inside one transaction: the current row
// is read under a row lock, the next state comes from the transition table,
// and the row is deleted, updated or inserted accordingly. A duplicate-key
// error on insert means a concurrent call created the row between our read
// and write; the unique index on (user_id, target_kind, target_id) is the
// backstop that surfaces that race.
func (r *reactionRepository) Apply(userID string, kind entity.TargetKind, targetID string, action entity.ReactionValue) (entity.ReactionValue, error) {
	result, err := r.toggle(userID, kind, targetID, action)
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return r.recoverLostInsert(userID, kind, targetID, action)
	}
	if err != nil {
		return entity.ReactionNone, err
	}
	return result, nil
}

// toggle runs one transactional read-modify-write of the reaction row.
func (r *reactionRepository) toggle(userID string, kind entity.TargetKind, targetID string, action entity.ReactionValue) (entity.ReactionValue, error) {
	var result entity.ReactionValue

	err := r.db.Transaction(func(tx *gorm.DB) error {
		var current model.ReactionModel
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("user_id = ? AND target_kind = ? AND target_id = ?", userID, kind, targetID).
			First(&current).Error

		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			result = entity.NextReaction(entity.ReactionNone, action)
			return tx.Create(&model.ReactionModel{
				UserID:     userID,
				TargetKind: string(kind),
				TargetID:   targetID,
				Value:      string(result),
			}).Error
		case err != nil:
			return err
		}

		result = entity.NextReaction(entity.ReactionValue(current.Value), action)
		if result == entity.ReactionNone {
			return tx.Delete(&current).Error
		}
		return tx.Model(&current).Update("value", string(result)).Error
	})
	if err != nil {
		return entity.ReactionNone, err
	}
	return result, nil
}

// recoverLostInsert resolves a lost insert race. We only insert after
// observing no reaction, so our intent was to end up at `action`: converge
// on it rather than toggling the concurrent writer's value back off. The
// update can still match zero rows when yet another toggle deleted the row
// in the meantime; then the table is back to the empty state we first
// observed and the toggle is rerun instead of blindly reporting `action`.
func (r *reactionRepository) recoverLostInsert(userID string, kind entity.TargetKind, targetID string, action entity.ReactionValue) (entity.ReactionValue, error) {
	res := r.db.Model(&model.ReactionModel{}).
		Where("user_id = ? AND target_kind = ? AND target_id = ?", userID, kind, targetID).
		Update("value", string(action))
	if res.Error != nil {
		return entity.ReactionNone, res.Error
	}
	if res.RowsAffected > 0 {
		return action, nil
	}
	return r.toggle(userID, kind, targetID, action)
}

func (r *reactionRepository) Status(userID string, kind entity.TargetKind, targetID string) (entity.ReactionValue, error) {
	var current model.ReactionModel
	err := r.db.
		Where("user_id = ? AND target_kind = ? AND target_id = ?", userID, kind, targetID).
		First(&current).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return entity.ReactionNone, nil
	}
	if err != nil {
		return entity.ReactionNone, err
	}
	return entity.ReactionValue(current.Value), nil
}

func (r *reactionRepository) CountByValue(kind entity.TargetKind, targetID string, value entity.ReactionValue) (int64, error) {
	var count int64
	err := r.db.Model(&model.ReactionModel{}).
		Where("target_kind = ? AND target_id = ? AND value = ?", kind, targetID, value).
		Count(&count).Error
	return count, err
}
