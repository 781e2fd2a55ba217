package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/liuxiankun1234/fmock/internal/entity"
	"github.com/liuxiankun1234/fmock/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"
)

func newCommentFixture(t *testing.T) (CommentUseCase, *MockCommentRepository, *MockPostRepository) {
	t.Helper()

	ef := newEngagementFixture(t, 120*time.Second)
	commentRepo := new(MockCommentRepository)
	postRepo := new(MockPostRepository)
	uc := NewCommentUseCase(commentRepo, postRepo, ef.uc, logger.New())
	return uc, commentRepo, postRepo
}

func TestCreateComment_OnExistingPost(t *testing.T) {
	uc, commentRepo, postRepo := newCommentFixture(t)

	postRepo.On("GetByID", "post-1").Return(&entity.Post{ID: "post-1"}, nil)
	commentRepo.On("Create", mock.AnythingOfType("*entity.Comment")).Run(func(args mock.Arguments) {
		args.Get(0).(*entity.Comment).ID = "comment-1"
	}).Return(nil)

	comment, err := uc.CreateComment(context.Background(), "user-1", "post-1", "nice")
	assert.NoError(t, err)
	assert.Equal(t, "comment-1", comment.ID)
	assert.Equal(t, "post-1", comment.PostID)
}

func TestCreateComment_MissingPost(t *testing.T) {
	uc, _, postRepo := newCommentFixture(t)

	postRepo.On("GetByID", "nope").Return(nil, gorm.ErrRecordNotFound)

	_, err := uc.CreateComment(context.Background(), "user-1", "nope", "nice")
	assert.ErrorIs(t, err, ErrPostNotFound)
}

func TestDeleteComment_NotOwner(t *testing.T) {
	uc, commentRepo, _ := newCommentFixture(t)

	commentRepo.On("GetByID", "comment-1").Return(&entity.Comment{ID: "comment-1", UserID: "owner"}, nil)

	err := uc.DeleteComment(context.Background(), "comment-1", "intruder")
	assert.ErrorIs(t, err, ErrCommentNotFound)
}

func TestDeleteComment_Owner(t *testing.T) {
	uc, commentRepo, _ := newCommentFixture(t)

	commentRepo.On("GetByID", "comment-1").Return(&entity.Comment{ID: "comment-1", UserID: "owner"}, nil)
	commentRepo.On("SoftDelete", "comment-1").Return(nil)

	err := uc.DeleteComment(context.Background(), "comment-1", "owner")
	assert.NoError(t, err)
	commentRepo.AssertExpectations(t)
}

func TestCommentReact_MissingComment(t *testing.T) {
	uc, commentRepo, _ := newCommentFixture(t)

	commentRepo.On("GetByID", "nope").Return(nil, gorm.ErrRecordNotFound)

	_, err := uc.React(context.Background(), "user-1", "nope", entity.ReactionDislike)
	assert.ErrorIs(t, err, ErrCommentNotFound)
}

func TestCommentReact_Toggles(t *testing.T) {
	uc, commentRepo, _ := newCommentFixture(t)
	ctx := context.Background()

	commentRepo.On("GetByID", "comment-1").Return(&entity.Comment{ID: "comment-1"}, nil)

	state, err := uc.React(ctx, "user-1", "comment-1", entity.ReactionDislike)
	assert.NoError(t, err)
	assert.Equal(t, entity.ReactionDislike, state)

	state, err = uc.React(ctx, "user-1", "comment-1", entity.ReactionDislike)
	assert.NoError(t, err)
	assert.Equal(t, entity.ReactionNone, state)

	state, err = uc.ReactionStatus(ctx, "user-1", "comment-1")
	assert.NoError(t, err)
	assert.Equal(t, entity.ReactionNone, state)
}
