package http

import (
	"net/http"

	"github.com/liuxiankun1234/fmock/internal/entity"
	"github.com/liuxiankun1234/fmock/internal/usecase"
	"github.com/liuxiankun1234/fmock/pkg/logger"

	"github.com/gin-gonic/gin"
)

// ActionHandler serves the engagement routes: like/dislike toggles, reaction
// status and follows, for posts and comments.
type ActionHandler struct {
	postUseCase    usecase.PostUseCase
	commentUseCase usecase.CommentUseCase
	engagement     usecase.EngagementUseCase
	logger         *logger.Logger
}

func NewActionHandler(
	postUseCase usecase.PostUseCase,
	commentUseCase usecase.CommentUseCase,
	engagement usecase.EngagementUseCase,
	logger *logger.Logger,
) *ActionHandler {
	return &ActionHandler{
		postUseCase:    postUseCase,
		commentUseCase: commentUseCase,
		engagement:     engagement,
		logger:         logger,
	}
}

// LikePost godoc
// @Summary      Toggle like on a post
// @Description  Likes the post, or removes the like if already liked. Dislike, if present, is replaced.
// @Tags         actions
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Post ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  map[string]string
// @Router       /posts/{id}/like [post]
func (h *ActionHandler) LikePost(c *gin.Context) {
	h.reactToPost(c, entity.ReactionLike)
}

// DislikePost godoc
// @Summary      Toggle dislike on a post
// @Tags         actions
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Post ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  map[string]string
// @Router       /posts/{id}/dislike [post]
func (h *ActionHandler) DislikePost(c *gin.Context) {
	h.reactToPost(c, entity.ReactionDislike)
}

func (h *ActionHandler) reactToPost(c *gin.Context, action entity.ReactionValue) {
	userID := c.GetString("user_id")
	postID := c.Param("id")

	state, err := h.postUseCase.React(c.Request.Context(), userID, postID, action)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"status": state}})
}

// PostStatus godoc
// @Summary      Reaction status of the current user on a post
// @Tags         actions
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Post ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  map[string]string
// @Router       /posts/{id}/status [get]
func (h *ActionHandler) PostStatus(c *gin.Context) {
	userID := c.GetString("user_id")
	postID := c.Param("id")
	ctx := c.Request.Context()

	state, err := h.postUseCase.ReactionStatus(ctx, userID, postID)
	if err != nil {
		respondError(c, err)
		return
	}

	likes, dislikes, err := h.engagement.ReactionCounts(ctx, entity.Target{Kind: entity.TargetPost, ID: postID})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{
		"status":   state,
		"likes":    likes,
		"dislikes": dislikes,
	}})
}

// LikeComment godoc
// @Summary      Toggle like on a comment
// @Tags         actions
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Comment ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  map[string]string
// @Router       /comments/{id}/like [post]
func (h *ActionHandler) LikeComment(c *gin.Context) {
	h.reactToComment(c, entity.ReactionLike)
}

// DislikeComment godoc
// @Summary      Toggle dislike on a comment
// @Tags         actions
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Comment ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  map[string]string
// @Router       /comments/{id}/dislike [post]
func (h *ActionHandler) DislikeComment(c *gin.Context) {
	h.reactToComment(c, entity.ReactionDislike)
}

func (h *ActionHandler) reactToComment(c *gin.Context, action entity.ReactionValue) {
	userID := c.GetString("user_id")
	commentID := c.Param("id")

	state, err := h.commentUseCase.React(c.Request.Context(), userID, commentID, action)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"status": state}})
}

// CommentStatus godoc
// @Summary      Reaction status of the current user on a comment
// @Tags         actions
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Comment ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  map[string]string
// @Router       /comments/{id}/status [get]
func (h *ActionHandler) CommentStatus(c *gin.Context) {
	userID := c.GetString("user_id")
	commentID := c.Param("id")
	ctx := c.Request.Context()

	state, err := h.commentUseCase.ReactionStatus(ctx, userID, commentID)
	if err != nil {
		respondError(c, err)
		return
	}

	likes, dislikes, err := h.engagement.ReactionCounts(ctx, entity.Target{Kind: entity.TargetComment, ID: commentID})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{
		"status":   state,
		"likes":    likes,
		"dislikes": dislikes,
	}})
}

// FollowPost godoc
// @Summary      Toggle follow on a post
// @Tags         actions
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Post ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  map[string]string
// @Router       /posts/{id}/follow [post]
func (h *ActionHandler) FollowPost(c *gin.Context) {
	userID := c.GetString("user_id")
	postID := c.Param("id")

	outcome, err := h.postUseCase.Follow(c.Request.Context(), userID, postID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"status": outcome}})
}

// UnfollowPost godoc
// @Summary      Stop following a post
// @Description  Removing a follow that does not exist is not an error.
// @Tags         actions
// @Produce      json
// @Security     BearerAuth
// @Param        post_id path string true "Post ID"
// @Success      200  {object}  map[string]interface{}
// @Router       /follows/{post_id} [delete]
func (h *ActionHandler) UnfollowPost(c *gin.Context) {
	userID := c.GetString("user_id")
	postID := c.Param("post_id")

	outcome, err := h.postUseCase.Unfollow(c.Request.Context(), userID, postID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"status": outcome}})
}

// GetFollowedPosts godoc
// @Summary      Posts the current user follows
// @Tags         actions
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]interface{}
// @Router       /follows [get]
func (h *ActionHandler) GetFollowedPosts(c *gin.Context) {
	userID := c.GetString("user_id")

	posts, err := h.postUseCase.FollowedPosts(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": posts})
}
