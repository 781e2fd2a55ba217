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

// ErrPostNotFound covers both a missing post and a post the caller is not
// allowed to see or touch; the API does not distinguish the two.
var ErrPostNotFound = errors.New("post not found")

// listExcerptLimit is how many runes of content a listing carries before
// truncation.
const listExcerptLimit = 400

type PostUseCase interface {
	CreatePost(ctx context.Context, userID, title, content string, anonymous bool) (*entity.Post, error)
	GetPost(ctx context.Context, postID, viewerID string) (*entity.Post, error)
	ListPosts(ctx context.Context, sort persistent.PostSort, limit, offset int) ([]*entity.Post, error)
	GetUserPosts(ctx context.Context, userID string, limit, offset int) ([]*entity.Post, error)
	UpdatePost(ctx context.Context, postID, userID, content string) (*entity.Post, error)
	DeletePost(ctx context.Context, postID, userID string) error

	React(ctx context.Context, userID, postID string, action entity.ReactionValue) (entity.ReactionValue, error)
	ReactionStatus(ctx context.Context, userID, postID string) (entity.ReactionValue, error)
	Follow(ctx context.Context, userID, postID string) (entity.FollowOutcome, error)
	Unfollow(ctx context.Context, userID, postID string) (entity.FollowOutcome, error)
	FollowedPosts(ctx context.Context, userID string) ([]*entity.Post, error)
}

type postUseCase struct {
	postRepo   persistent.PostRepository
	engagement EngagementUseCase
	logger     *logger.Logger
}

func NewPostUseCase(postRepo persistent.PostRepository, engagement EngagementUseCase, logger *logger.Logger) PostUseCase {
	return &postUseCase{
		postRepo:   postRepo,
		engagement: engagement,
		logger:     logger,
	}
}

// CreatePost runs the creation through the engagement gate so a user can
// only post once per cooldown window. Anonymous posts drop the author.
func (uc *postUseCase) CreatePost(ctx context.Context, userID, title, content string, anonymous bool) (*entity.Post, error) {
	return uc.engagement.CreatePostGuarded(ctx, userID, func() (*entity.Post, error) {
		post := &entity.Post{
			Title:   title,
			Content: content,
		}
		if !anonymous {
			post.UserID = userID
		}

		if err := uc.postRepo.Create(post); err != nil {
			uc.logger.Error("Failed to create post for user %s: %v", userID, err)
			return nil, fmt.Errorf("failed to create post: %w", err)
		}
		return post, nil
	})
}

// GetPost returns the post. A soft-deleted post stays visible to its owner
// and nobody else.
func (uc *postUseCase) GetPost(ctx context.Context, postID, viewerID string) (*entity.Post, error) {
	post, err := uc.postRepo.GetByIDUnscoped(postID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrPostNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load post: %w", err)
	}

	if post.Deleted && post.UserID != viewerID {
		return nil, ErrPostNotFound
	}
	return post, nil
}

func (uc *postUseCase) ListPosts(ctx context.Context, sort persistent.PostSort, limit, offset int) ([]*entity.Post, error) {
	posts, err := uc.postRepo.List(sort, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	truncateAll(posts)
	return posts, nil
}

func (uc *postUseCase) GetUserPosts(ctx context.Context, userID string, limit, offset int) ([]*entity.Post, error) {
	posts, err := uc.postRepo.GetByUserID(userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list user posts: %w", err)
	}
	truncateAll(posts)
	return posts, nil
}

// UpdatePost edits the post's content. The owner may still edit a post they
// soft-deleted, so the lookup ignores the deletion scope.
func (uc *postUseCase) UpdatePost(ctx context.Context, postID, userID, content string) (*entity.Post, error) {
	post, err := uc.postRepo.GetByIDUnscoped(postID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrPostNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load post: %w", err)
	}
	if post.UserID != userID {
		return nil, ErrPostNotFound
	}

	if err := uc.postRepo.UpdateContent(postID, content); err != nil {
		uc.logger.Error("Failed to update post %s: %v", postID, err)
		return nil, fmt.Errorf("failed to update post: %w", err)
	}
	post.Content = content
	return post, nil
}

func (uc *postUseCase) DeletePost(ctx context.Context, postID, userID string) error {
	post, err := uc.postRepo.GetByIDUnscoped(postID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrPostNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to load post: %w", err)
	}
	if post.UserID != userID {
		return ErrPostNotFound
	}

	if err := uc.postRepo.SoftDelete(postID); err != nil {
		uc.logger.Error("Failed to delete post %s: %v", postID, err)
		return fmt.Errorf("failed to delete post: %w", err)
	}
	return nil
}

// React verifies the post exists and is not deleted, then hands off to the
// engagement core.
func (uc *postUseCase) React(ctx context.Context, userID, postID string, action entity.ReactionValue) (entity.ReactionValue, error) {
	if err := uc.requireVisible(postID); err != nil {
		return entity.ReactionNone, err
	}
	return uc.engagement.React(ctx, userID, entity.Target{Kind: entity.TargetPost, ID: postID}, action)
}

func (uc *postUseCase) ReactionStatus(ctx context.Context, userID, postID string) (entity.ReactionValue, error) {
	if err := uc.requireVisible(postID); err != nil {
		return entity.ReactionNone, err
	}
	return uc.engagement.Status(ctx, userID, entity.Target{Kind: entity.TargetPost, ID: postID})
}

func (uc *postUseCase) Follow(ctx context.Context, userID, postID string) (entity.FollowOutcome, error) {
	if err := uc.requireVisible(postID); err != nil {
		return "", err
	}
	return uc.engagement.ToggleFollow(ctx, userID, postID)
}

func (uc *postUseCase) Unfollow(ctx context.Context, userID, postID string) (entity.FollowOutcome, error) {
	return uc.engagement.Unfollow(ctx, userID, postID)
}

func (uc *postUseCase) FollowedPosts(ctx context.Context, userID string) ([]*entity.Post, error) {
	posts, err := uc.engagement.FollowedPosts(ctx, userID)
	if err != nil {
		return nil, err
	}
	truncateAll(posts)
	return posts, nil
}

func (uc *postUseCase) requireVisible(postID string) error {
	_, err := uc.postRepo.GetByID(postID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrPostNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to load post: %w", err)
	}
	return nil
}

func truncateAll(posts []*entity.Post) {
	for _, post := range posts {
		post.Content = truncateContent(post.Content, listExcerptLimit)
	}
}

func truncateContent(content string, limit int) string {
	runes := []rune(content)
	if len(runes) <= limit {
		return content
	}
	return string(runes[:limit]) + "..."
}
