package usecase

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/liuxiankun1234/fmock/internal/entity"
	"github.com/liuxiankun1234/fmock/internal/ratelimit"
	"github.com/liuxiankun1234/fmock/internal/repo/persistent"
	"github.com/liuxiankun1234/fmock/pkg/logger"

	"github.com/redis/go-redis/v9"
)

// ThrottledError is the normal outcome of a guarded action inside its
// cooldown window. It carries the precise remaining wait.
type ThrottledError struct {
	RetryAfter time.Duration
}

func (e *ThrottledError) Error() string {
	return fmt.Sprintf("action throttled, retry in %ds", int(e.RetryAfter.Seconds()))
}

// EngagementUseCase is the single entry point for reactions, follows and
// the post-creation cooldown. Target existence and soft-delete checks are
// the caller's job; this layer only coordinates the gate, the ledger and
// the follow set.
type EngagementUseCase interface {
	CreatePostGuarded(ctx context.Context, userID string, create func() (*entity.Post, error)) (*entity.Post, error)
	React(ctx context.Context, userID string, target entity.Target, action entity.ReactionValue) (entity.ReactionValue, error)
	Status(ctx context.Context, userID string, target entity.Target) (entity.ReactionValue, error)
	ReactionCounts(ctx context.Context, target entity.Target) (likes, dislikes int64, err error)
	ToggleFollow(ctx context.Context, userID, postID string) (entity.FollowOutcome, error)
	Unfollow(ctx context.Context, userID, postID string) (entity.FollowOutcome, error)
	FollowedPosts(ctx context.Context, userID string) ([]*entity.Post, error)
}

type engagementUseCase struct {
	reactionRepo persistent.ReactionRepository
	followRepo   persistent.FollowRepository
	postRepo     persistent.PostRepository
	gate         *ratelimit.Gate
	redisClient  *redis.Client
	cooldown     time.Duration
	logger       *logger.Logger
}

func NewEngagementUseCase(
	reactionRepo persistent.ReactionRepository,
	followRepo persistent.FollowRepository,
	postRepo persistent.PostRepository,
	gate *ratelimit.Gate,
	redisClient *redis.Client,
	cooldown time.Duration,
	logger *logger.Logger,
) EngagementUseCase {
	return &engagementUseCase{
		reactionRepo: reactionRepo,
		followRepo:   followRepo,
		postRepo:     postRepo,
		gate:         gate,
		redisClient:  redisClient,
		cooldown:     cooldown,
		logger:       logger,
	}
}

func cooldownKey(userID string) string {
	return "post:user:" + userID
}

func countKey(target entity.Target, value entity.ReactionValue) string {
	return fmt.Sprintf("%s:%ss:%s", target.Kind, value, target.ID)
}

// CreatePostGuarded claims the user's cooldown slot and only then invokes
// create. On denial create is never called. A create that fails after the
// claim leaves the cooldown in place; that fail-safe is intentional, it
// blocks rapid retry abuse.
func (uc *engagementUseCase) CreatePostGuarded(ctx context.Context, userID string, create func() (*entity.Post, error)) (*entity.Post, error) {
	res, err := uc.gate.TryAcquire(ctx, cooldownKey(userID), uc.cooldown)
	if err != nil {
		uc.logger.Error("Failed to check post cooldown for user %s: %v", userID, err)
		return nil, fmt.Errorf("failed to check post cooldown: %w", err)
	}
	if !res.Allowed {
		return nil, &ThrottledError{RetryAfter: res.RetryAfter}
	}

	return create()
}

func (uc *engagementUseCase) React(ctx context.Context, userID string, target entity.Target, action entity.ReactionValue) (entity.ReactionValue, error) {
	if !action.IsAction() {
		return entity.ReactionNone, fmt.Errorf("invalid reaction action: %s", action)
	}

	state, err := uc.reactionRepo.Apply(userID, target.Kind, target.ID, action)
	if err != nil {
		uc.logger.Error("Failed to apply %s on %s %s: %v", action, target.Kind, target.ID, err)
		return entity.ReactionNone, fmt.Errorf("failed to apply reaction: %w", err)
	}

	uc.invalidateCounts(ctx, target)
	return state, nil
}

func (uc *engagementUseCase) Status(ctx context.Context, userID string, target entity.Target) (entity.ReactionValue, error) {
	state, err := uc.reactionRepo.Status(userID, target.Kind, target.ID)
	if err != nil {
		return entity.ReactionNone, fmt.Errorf("failed to read reaction status: %w", err)
	}
	return state, nil
}

// ReactionCounts serves like/dislike totals from the Redis cache, falling
// back to relational counts and repopulating on a miss.
func (uc *engagementUseCase) ReactionCounts(ctx context.Context, target entity.Target) (int64, int64, error) {
	likes, err := uc.countByValue(ctx, target, entity.ReactionLike)
	if err != nil {
		return 0, 0, err
	}
	dislikes, err := uc.countByValue(ctx, target, entity.ReactionDislike)
	if err != nil {
		return 0, 0, err
	}
	return likes, dislikes, nil
}

func (uc *engagementUseCase) countByValue(ctx context.Context, target entity.Target, value entity.ReactionValue) (int64, error) {
	key := countKey(target, value)

	if uc.redisClient != nil {
		if cached, err := uc.redisClient.Get(ctx, key).Result(); err == nil {
			if count, err := strconv.ParseInt(cached, 10, 64); err == nil {
				return count, nil
			}
		}
	}

	count, err := uc.reactionRepo.CountByValue(target.Kind, target.ID, value)
	if err != nil {
		return 0, fmt.Errorf("failed to count %s reactions: %w", value, err)
	}

	if uc.redisClient != nil {
		if err := uc.redisClient.Set(ctx, key, count, time.Hour).Err(); err != nil {
			uc.logger.Warn("Failed to cache %s count for %s %s: %v", value, target.Kind, target.ID, err)
		}
	}
	return count, nil
}

func (uc *engagementUseCase) invalidateCounts(ctx context.Context, target entity.Target) {
	if uc.redisClient == nil {
		return
	}
	keys := []string{
		countKey(target, entity.ReactionLike),
		countKey(target, entity.ReactionDislike),
	}
	if err := uc.redisClient.Del(ctx, keys...).Err(); err != nil {
		uc.logger.Warn("Failed to invalidate count cache for %s %s: %v", target.Kind, target.ID, err)
	}
}

func (uc *engagementUseCase) ToggleFollow(ctx context.Context, userID, postID string) (entity.FollowOutcome, error) {
	outcome, err := uc.followRepo.Toggle(userID, postID)
	if err != nil {
		uc.logger.Error("Failed to toggle follow for user %s on post %s: %v", userID, postID, err)
		return "", fmt.Errorf("failed to toggle follow: %w", err)
	}
	return outcome, nil
}

func (uc *engagementUseCase) Unfollow(ctx context.Context, userID, postID string) (entity.FollowOutcome, error) {
	outcome, err := uc.followRepo.Remove(userID, postID)
	if err != nil {
		uc.logger.Error("Failed to unfollow post %s for user %s: %v", postID, userID, err)
		return "", fmt.Errorf("failed to unfollow: %w", err)
	}
	return outcome, nil
}

func (uc *engagementUseCase) FollowedPosts(ctx context.Context, userID string) ([]*entity.Post, error) {
	postIDs, err := uc.followRepo.ListPostIDs(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list followed posts: %w", err)
	}
	posts, err := uc.postRepo.GetByIDs(postIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load followed posts: %w", err)
	}
	return posts, nil
}
