package http

import (
	"context"

	"github.com/liuxiankun1234/fmock/internal/entity"
	"github.com/liuxiankun1234/fmock/internal/repo/persistent"

	"github.com/stretchr/testify/mock"
)

// MockPostUseCase is a mock implementation of usecase.PostUseCase
type MockPostUseCase struct {
	mock.Mock
}

func (m *MockPostUseCase) CreatePost(ctx context.Context, userID, title, content string, anonymous bool) (*entity.Post, error) {
	args := m.Called(userID, title, content, anonymous)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Post), args.Error(1)
}

func (m *MockPostUseCase) GetPost(ctx context.Context, postID, viewerID string) (*entity.Post, error) {
	args := m.Called(postID, viewerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Post), args.Error(1)
}

func (m *MockPostUseCase) ListPosts(ctx context.Context, sort persistent.PostSort, limit, offset int) ([]*entity.Post, error) {
	args := m.Called(sort, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Post), args.Error(1)
}

func (m *MockPostUseCase) GetUserPosts(ctx context.Context, userID string, limit, offset int) ([]*entity.Post, error) {
	args := m.Called(userID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Post), args.Error(1)
}

func (m *MockPostUseCase) UpdatePost(ctx context.Context, postID, userID, content string) (*entity.Post, error) {
	args := m.Called(postID, userID, content)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Post), args.Error(1)
}

func (m *MockPostUseCase) DeletePost(ctx context.Context, postID, userID string) error {
	args := m.Called(postID, userID)
	return args.Error(0)
}

func (m *MockPostUseCase) React(ctx context.Context, userID, postID string, action entity.ReactionValue) (entity.ReactionValue, error) {
	args := m.Called(userID, postID, action)
	return args.Get(0).(entity.ReactionValue), args.Error(1)
}

func (m *MockPostUseCase) ReactionStatus(ctx context.Context, userID, postID string) (entity.ReactionValue, error) {
	args := m.Called(userID, postID)
	return args.Get(0).(entity.ReactionValue), args.Error(1)
}

func (m *MockPostUseCase) Follow(ctx context.Context, userID, postID string) (entity.FollowOutcome, error) {
	args := m.Called(userID, postID)
	return args.Get(0).(entity.FollowOutcome), args.Error(1)
}

func (m *MockPostUseCase) Unfollow(ctx context.Context, userID, postID string) (entity.FollowOutcome, error) {
	args := m.Called(userID, postID)
	return args.Get(0).(entity.FollowOutcome), args.Error(1)
}

func (m *MockPostUseCase) FollowedPosts(ctx context.Context, userID string) ([]*entity.Post, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Post), args.Error(1)
}

// MockCommentUseCase is a mock implementation of usecase.CommentUseCase
type MockCommentUseCase struct {
	mock.Mock
}

func (m *MockCommentUseCase) CreateComment(ctx context.Context, userID, postID, content string) (*entity.Comment, error) {
	args := m.Called(userID, postID, content)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Comment), args.Error(1)
}

func (m *MockCommentUseCase) GetPostComments(ctx context.Context, postID string, limit, offset int) ([]*entity.Comment, error) {
	args := m.Called(postID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Comment), args.Error(1)
}

func (m *MockCommentUseCase) DeleteComment(ctx context.Context, commentID, userID string) error {
	args := m.Called(commentID, userID)
	return args.Error(0)
}

func (m *MockCommentUseCase) React(ctx context.Context, userID, commentID string, action entity.ReactionValue) (entity.ReactionValue, error) {
	args := m.Called(userID, commentID, action)
	return args.Get(0).(entity.ReactionValue), args.Error(1)
}

func (m *MockCommentUseCase) ReactionStatus(ctx context.Context, userID, commentID string) (entity.ReactionValue, error) {
	args := m.Called(userID, commentID)
	return args.Get(0).(entity.ReactionValue), args.Error(1)
}

// MockEngagementUseCase is a mock implementation of usecase.EngagementUseCase
type MockEngagementUseCase struct {
	mock.Mock
}

func (m *MockEngagementUseCase) CreatePostGuarded(ctx context.Context, userID string, create func() (*entity.Post, error)) (*entity.Post, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Post), args.Error(1)
}

func (m *MockEngagementUseCase) React(ctx context.Context, userID string, target entity.Target, action entity.ReactionValue) (entity.ReactionValue, error) {
	args := m.Called(userID, target, action)
	return args.Get(0).(entity.ReactionValue), args.Error(1)
}

func (m *MockEngagementUseCase) Status(ctx context.Context, userID string, target entity.Target) (entity.ReactionValue, error) {
	args := m.Called(userID, target)
	return args.Get(0).(entity.ReactionValue), args.Error(1)
}

func (m *MockEngagementUseCase) ReactionCounts(ctx context.Context, target entity.Target) (int64, int64, error) {
	args := m.Called(target)
	return args.Get(0).(int64), args.Get(1).(int64), args.Error(2)
}

func (m *MockEngagementUseCase) ToggleFollow(ctx context.Context, userID, postID string) (entity.FollowOutcome, error) {
	args := m.Called(userID, postID)
	return args.Get(0).(entity.FollowOutcome), args.Error(1)
}

func (m *MockEngagementUseCase) Unfollow(ctx context.Context, userID, postID string) (entity.FollowOutcome, error) {
	args := m.Called(userID, postID)
	return args.Get(0).(entity.FollowOutcome), args.Error(1)
}

func (m *MockEngagementUseCase) FollowedPosts(ctx context.Context, userID string) ([]*entity.Post, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Post), args.Error(1)
}
