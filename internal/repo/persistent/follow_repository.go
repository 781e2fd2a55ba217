package persistent

import (
	"errors"

	"github.com/liuxiankun1234/fmock/internal/entity"
	"github.com/liuxiankun1234/fmock/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// FollowRepository keeps at most one follow row per (user, post).
type FollowRepository interface {
	Toggle(userID, postID string) (entity.FollowOutcome, error)
	Remove(userID, postID string) (entity.FollowOutcome, error)
	ListPostIDs(userID string) ([]string, error)
}

type followRepository struct {
	db *gorm.DB
}

func NewFollowRepository(db *gorm.DB) FollowRepository {
	return &followRepository{db: db}
}

// Toggle inserts the follow row if absent and deletes it if present, in one
// transaction, with the unique index on (user_id, post_id) as backstop.
func (r *followRepository) Toggle(userID, postID string) (entity.FollowOutcome, error) {
	var outcome entity.FollowOutcome

	toggle := func(tx *gorm.DB) error {
		var current model.FollowModel
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("user_id = ? AND post_id = ?", userID, postID).
			First(&current).Error

		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			outcome = entity.Followed
			return tx.Create(&model.FollowModel{UserID: userID, PostID: postID}).Error
		case err != nil:
			return err
		}

		outcome = entity.Unfollowed
		return tx.Delete(&current).Error
	}

	err := r.db.Transaction(toggle)
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		// Someone else inserted the row between our read and write. We only
		// insert when we saw no follow, so the state we wanted now exists.
		return entity.Followed, nil
	}
	if err != nil {
		return "", err
	}
	return outcome, nil
}

// Remove deletes the follow row if it exists. Removing a missing row is not
// an error; it reports NotFollowing.
func (r *followRepository) Remove(userID, postID string) (entity.FollowOutcome, error) {
	res := r.db.Where("user_id = ? AND post_id = ?", userID, postID).Delete(&model.FollowModel{})
	if res.Error != nil {
		return "", res.Error
	}
	if res.RowsAffected == 0 {
		return entity.NotFollowing, nil
	}
	return entity.Unfollowed, nil
}

func (r *followRepository) ListPostIDs(userID string) ([]string, error) {
	var postIDs []string
	err := r.db.Model(&model.FollowModel{}).
		Where("user_id = ?", userID).
		Pluck("post_id", &postIDs).Error
	return postIDs, err
}
