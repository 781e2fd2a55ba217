package main

import (
	"fmt"

	"github.com/liuxiankun1234/fmock/internal/model"
	"github.com/liuxiankun1234/fmock/pkg/config"
	"github.com/liuxiankun1234/fmock/pkg/database"
	"github.com/liuxiankun1234/fmock/pkg/logger"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Development seeder. Creates a handful of users' worth of posts, comments
// and reactions so the API has something to serve locally.
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	log := logger.New()
	db, err := database.NewPostgresDB(cfg)
	if err != nil {
		log.Error("Failed to connect to database: %v", err)
		panic(err)
	}

	if err := seedDatabase(db, log); err != nil {
		log.Error("Failed to seed database: %v", err)
		panic(err)
	}

	log.Info("Database seeded successfully!")
}

func seedDatabase(db *gorm.DB, log *logger.Logger) error {
	userIDs := make([]string, 0, 3)
	for i := 0; i < 3; i++ {
		userIDs = append(userIDs, uuid.New().String())
	}

	samplePosts := []struct {
		title   string
		content string
	}{
		{"Welcome to FMock", "First post on the forum. Say hello in the comments."},
		{"Interview experience thread", "Share your recent interview questions here."},
		{"Reading list for backend engineers", "Post the books and articles that actually helped you."},
	}

	postIDs := make([]string, 0, len(samplePosts))
	for i, p := range samplePosts {
		post := &model.PostModel{
			UserID:  userIDs[i%len(userIDs)],
			Title:   p.title,
			Content: p.content,
		}
		if err := db.Create(post).Error; err != nil {
			return fmt.Errorf("create post %q: %w", p.title, err)
		}
		postIDs = append(postIDs, post.ID)
		log.Info("Created post: %s", post.Title)
	}

	for _, postID := range postIDs {
		comment := &model.CommentModel{
			PostID:  postID,
			UserID:  userIDs[0],
			Content: "Looking forward to this one.",
		}
		if err := db.Create(comment).Error; err != nil {
			return fmt.Errorf("create comment on %s: %w", postID, err)
		}
	}

	// Every user likes the first post, second user follows it
	for _, userID := range userIDs {
		reaction := &model.ReactionModel{
			UserID:     userID,
			TargetKind: "post",
			TargetID:   postIDs[0],
			Value:      "like",
		}
		if err := db.Create(reaction).Error; err != nil {
			return fmt.Errorf("create reaction: %w", err)
		}
	}

	follow := &model.FollowModel{
		UserID: userIDs[1],
		PostID: postIDs[0],
	}
	if err := db.Create(follow).Error; err != nil {
		return fmt.Errorf("create follow: %w", err)
	}

	log.Info("Seeded %d posts, %d comments, %d reactions", len(postIDs), len(postIDs), len(userIDs))
	return nil
}
