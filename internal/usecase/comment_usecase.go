package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/liuxiankun1234/fmock/internal/entity"
	"github.com/liuxiankun1234/fmock/internal/repo/persistent"
	"github.com/liuxiankun1234/fmock/pkg/logger"

	"gorm.io/gorm"
)

var ErrCommentNotFound = errors.New("comment not found")

type CommentUseCase interface {
	CreateComment(ctx context.Context, userID, postID, content string) (*entity.Comment, error)
	GetPostComments(ctx context.Context, postID string, limit, offset int) ([]*entity.Comment, error)
	DeleteComment(ctx context.Context, commentID, userID string) error

	React(ctx context.Context, userID, commentID string, action entity.ReactionValue) (entity.ReactionValue, error)
	ReactionStatus(ctx context.Context, userID, commentID string) (entity.ReactionValue, error)
}

type commentUseCase struct {
	commentRepo persistent.CommentRepository
	postRepo    persistent.PostRepository
	engagement  EngagementUseCase
	logger      *logger.Logger
}

func NewCommentUseCase(
	commentRepo persistent.CommentRepository,
	postRepo persistent.PostRepository,
	engagement EngagementUseCase,
	logger *logger.Logger,
) CommentUseCase {
	return &commentUseCase{
		commentRepo: commentRepo,
		postRepo:    postRepo,
		engagement:  engagement,
		logger:      logger,
	}
}

func (uc *commentUseCase) CreateComment(ctx context.Context, userID, postID, content string) (*entity.Comment, error) {
	if _, err := uc.postRepo.GetByID(postID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, fmt.Errorf("failed to load post: %w", err)
	}

	comment := &entity.Comment{
		PostID:  postID,
		UserID:  userID,
		Content: content,
	}
	if err := uc.commentRepo.Create(comment); err != nil {
		uc.logger.Error("Failed to create comment on post %s: %v", postID, err)
		return nil, fmt.Errorf("failed to create comment: %w", err)
	}
	return comment, nil
}

func (uc *commentUseCase) GetPostComments(ctx context.Context, postID string, limit, offset int) ([]*entity.Comment, error) {
	if _, err := uc.postRepo.GetByID(postID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, fmt.Errorf("failed to load post: %w", err)
	}

	comments, err := uc.commentRepo.GetByPostID(postID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	return comments, nil
}

func (uc *commentUseCase) DeleteComment(ctx context.Context, commentID, userID string) error {
	comment, err := uc.commentRepo.GetByID(commentID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrCommentNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to load comment: %w", err)
	}
	if comment.UserID != userID {
		return ErrCommentNotFound
	}

	if err := uc.commentRepo.SoftDelete(commentID); err != nil {
		uc.logger.Error("Failed to delete comment %s: %v", commentID, err)
		return fmt.Errorf("failed to delete comment: %w", err)
	}
	return nil
}

func (uc *commentUseCase) React(ctx context.Context, userID, commentID string, action entity.ReactionValue) (entity.ReactionValue, error) {
	if err := uc.requireVisible(commentID); err != nil {
		return entity.ReactionNone, err
	}
	return uc.engagement.React(ctx, userID, entity.Target{Kind: entity.TargetComment, ID: commentID}, action)
}

func (uc *commentUseCase) ReactionStatus(ctx context.Context, userID, commentID string) (entity.ReactionValue, error) {
	if err := uc.requireVisible(commentID); err != nil {
		return entity.ReactionNone, err
	}
	return uc.engagement.Status(ctx, userID, entity.Target{Kind: entity.TargetComment, ID: commentID})
}

func (uc *commentUseCase) requireVisible(commentID string) error {
	_, err := uc.commentRepo.GetByID(commentID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrCommentNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to load comment: %w", err)
	}
	return nil
}
