package persistent

import (
	"context"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/liuxiankun1234/fmock/internal/entity"
	"github.com/liuxiankun1234/fmock/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var testDB *gorm.DB

func TestMain(m *testing.M) {
	ctx := context.Background()

	// Start PostgreSQL container once for all tests
	container, err := tcpostgres.Run(ctx,
		"postgres:15-alpine",
		tcpostgres.WithDatabase("testdb"),
		tcpostgres.WithUsername("testuser"),
		tcpostgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to start postgres container: %v\n", err)
		os.Exit(1)
	}

	defer func() {
		if err := container.Terminate(ctx); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to terminate postgres container: %v\n", err)
		}
	}()

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to get connection string: %v\n", err)
		os.Exit(1)
	}

	// TranslateError mirrors the production connection so unique-constraint
	// violations surface as gorm.ErrDuplicatedKey here too.
	testDB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to connect to test database: %v\n", err)
		os.Exit(1)
	}

	if err := testDB.AutoMigrate(
		&model.PostModel{},
		&model.CommentModel{},
		&model.ReactionModel{},
		&model.FollowModel{},
	); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to migrate test schema: %v\n", err)
		os.Exit(1)
	}

	os.Exit(m.Run())
}

// setupStoreTest returns the shared gorm handle and registers cleanup to
// truncate the engagement tables.
func setupStoreTest(t *testing.T) *gorm.DB {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	t.Cleanup(func() {
		if err := testDB.Exec("TRUNCATE reactions, follows, comments, posts CASCADE").Error; err != nil {
			t.Logf("Failed to truncate tables: %v", err)
		}
	})

	return testDB
}

func TestReactionRepository_ToggleWalk(t *testing.T) {
	db := setupStoreTest(t)
	repo := NewReactionRepository(db)

	userID := uuid.New().String()
	postID := uuid.New().String()

	state, err := repo.Apply(userID, entity.TargetPost, postID, entity.ReactionLike)
	require.NoError(t, err)
	assert.Equal(t, entity.ReactionLike, state)

	// Same action again clears the reaction and deletes the row
	state, err = repo.Apply(userID, entity.TargetPost, postID, entity.ReactionLike)
	require.NoError(t, err)
	assert.Equal(t, entity.ReactionNone, state)
	assert.Equal(t, int64(0), rowCount(t, db, userID, postID))

	// Like then dislike flips in place
	_, err = repo.Apply(userID, entity.TargetPost, postID, entity.ReactionLike)
	require.NoError(t, err)
	state, err = repo.Apply(userID, entity.TargetPost, postID, entity.ReactionDislike)
	require.NoError(t, err)
	assert.Equal(t, entity.ReactionDislike, state)
	assert.Equal(t, int64(1), rowCount(t, db, userID, postID))
}

func TestReactionRepository_StatusAndCounts(t *testing.T) {
	db := setupStoreTest(t)
	repo := NewReactionRepository(db)

	postID := uuid.New().String()
	liker := uuid.New().String()
	disliker := uuid.New().String()
	bystander := uuid.New().String()

	_, err := repo.Apply(liker, entity.TargetPost, postID, entity.ReactionLike)
	require.NoError(t, err)
	_, err = repo.Apply(disliker, entity.TargetPost, postID, entity.ReactionDislike)
	require.NoError(t, err)

	state, err := repo.Status(liker, entity.TargetPost, postID)
	require.NoError(t, err)
	assert.Equal(t, entity.ReactionLike, state)

	state, err = repo.Status(bystander, entity.TargetPost, postID)
	require.NoError(t, err)
	assert.Equal(t, entity.ReactionNone, state)

	likes, err := repo.CountByValue(entity.TargetPost, postID, entity.ReactionLike)
	require.NoError(t, err)
	assert.Equal(t, int64(1), likes)

	dislikes, err := repo.CountByValue(entity.TargetPost, postID, entity.ReactionDislike)
	require.NoError(t, err)
	assert.Equal(t, int64(1), dislikes)
}

func TestReactionRepository_LostInsertConvergesOnAction(t *testing.T) {
	db := setupStoreTest(t)
	repo := NewReactionRepository(db).(*reactionRepository)

	userID := uuid.New().String()
	postID := uuid.New().String()

	// A rival's insert landed after our read saw no row
	require.NoError(t, db.Create(&model.ReactionModel{
		UserID:     userID,
		TargetKind: string(entity.TargetPost),
		TargetID:   postID,
		Value:      string(entity.ReactionDislike),
	}).Error)

	state, err := repo.recoverLostInsert(userID, entity.TargetPost, postID, entity.ReactionLike)
	require.NoError(t, err)
	assert.Equal(t, entity.ReactionLike, state)

	stored, err := repo.Status(userID, entity.TargetPost, postID)
	require.NoError(t, err)
	assert.Equal(t, entity.ReactionLike, stored)
}

func TestReactionRepository_LostInsertThenLostRowRerunsToggle(t *testing.T) {
	db := setupStoreTest(t)
	repo := NewReactionRepository(db).(*reactionRepository)

	userID := uuid.New().String()
	postID := uuid.New().String()

	// The rival row that forced us into recovery is already gone again, so
	// the converging update matches nothing. Recovery must fall back to a
	// fresh toggle rather than report the action against an empty table.
	state, err := repo.recoverLostInsert(userID, entity.TargetPost, postID, entity.ReactionLike)
	require.NoError(t, err)
	assert.Equal(t, entity.ReactionLike, state)
	assert.Equal(t, int64(1), rowCount(t, db, userID, postID))
}

func TestReactionRepository_ConcurrentApplySameKey(t *testing.T) {
	db := setupStoreTest(t)
	repo := NewReactionRepository(db)

	userID := uuid.New().String()
	postID := uuid.New().String()

	const workers = 8
	var wg sync.WaitGroup
	errs := make(chan error, workers)

	for i := 0; i < workers; i++ {
		action := entity.ReactionLike
		if i%2 == 1 {
			action = entity.ReactionDislike
		}
		wg.Add(1)
		go func(action entity.ReactionValue) {
			defer wg.Done()
			_, err := repo.Apply(userID, entity.TargetPost, postID, action)
			errs <- err
		}(action)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		assert.NoError(t, err)
	}

	// The interleaving order is not deterministic, but the unique index and
	// the toggle keep the key at no more than one row, and Status must agree
	// with whatever that row says.
	count := rowCount(t, db, userID, postID)
	assert.LessOrEqual(t, count, int64(1))

	state, err := repo.Status(userID, entity.TargetPost, postID)
	require.NoError(t, err)
	if count == 0 {
		assert.Equal(t, entity.ReactionNone, state)
	} else {
		assert.Contains(t, []entity.ReactionValue{entity.ReactionLike, entity.ReactionDislike}, state)
	}
}

func rowCount(t *testing.T, db *gorm.DB, userID, targetID string) int64 {
	t.Helper()
	var count int64
	err := db.Model(&model.ReactionModel{}).
		Where("user_id = ? AND target_id = ?", userID, targetID).
		Count(&count).Error
	require.NoError(t, err)
	return count
}
