package persistent

import (
	"github.com/liuxiankun1234/fmock/internal/entity"
	"github.com/liuxiankun1234/fmock/internal/model"

	"gorm.io/gorm"
)

type PostSort string

const (
	SortNew       PostSort = "post-new"
	SortHot       PostSort = "post-hot"
	SortAnonymous PostSort = "post-anonymous"
)

type PostRepository interface {
	Create(post *entity.Post) error
	GetByID(id string) (*entity.Post, error)
	// GetByIDUnscoped also returns soft-deleted posts, for the
	// owner-visibility check.
	GetByIDUnscoped(id string) (*entity.Post, error)
	GetByIDs(ids []string) ([]*entity.Post, error)
	GetByUserID(userID string, limit, offset int) ([]*entity.Post, error)
	List(sort PostSort, limit, offset int) ([]*entity.Post, error)
	UpdateContent(id, content string) error
	SoftDelete(id string) error
}

type postRepository struct {
	db *gorm.DB
}

func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) Create(post *entity.Post) error {
	postModel := ToPostModel(post)
	if err := r.db.Create(postModel).Error; err != nil {
		return err
	}
	*post = *ToPostEntity(postModel)
	return nil
}

func (r *postRepository) GetByID(id string) (*entity.Post, error) {
	var postModel model.PostModel
	if err := r.db.Where("id = ?", id).First(&postModel).Error; err != nil {
		return nil, err
	}
	return ToPostEntity(&postModel), nil
}

func (r *postRepository) GetByIDUnscoped(id string) (*entity.Post, error) {
	var postModel model.PostModel
	if err := r.db.Unscoped().Where("id = ?", id).First(&postModel).Error; err != nil {
		return nil, err
	}
	return ToPostEntity(&postModel), nil
}

func (r *postRepository) GetByIDs(ids []string) ([]*entity.Post, error) {
	if len(ids) == 0 {
		return []*entity.Post{}, nil
	}

	var postModels []model.PostModel
	if err := r.db.Where("id IN ?", ids).Order("created_at DESC").Find(&postModels).Error; err != nil {
		return nil, err
	}

	posts := make([]*entity.Post, len(postModels))
	for i := range postModels {
		posts[i] = ToPostEntity(&postModels[i])
	}
	return posts, nil
}

func (r *postRepository) GetByUserID(userID string, limit, offset int) ([]*entity.Post, error) {
	var postModels []model.PostModel
	query := r.db.Where("user_id = ?", userID).Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit).Offset(offset)
	}
	if err := query.Find(&postModels).Error; err != nil {
		return nil, err
	}

	posts := make([]*entity.Post, len(postModels))
	for i := range postModels {
		posts[i] = ToPostEntity(&postModels[i])
	}
	return posts, nil
}

// List returns posts by sort mode: newest first, hottest (most liked)
// first, or anonymous posts only.
func (r *postRepository) List(sort PostSort, limit, offset int) ([]*entity.Post, error) {
	var postModels []model.PostModel
	query := r.db.Model(&model.PostModel{})

	switch sort {
	case SortHot:
		query = query.
			Joins("LEFT JOIN reactions ON reactions.target_id = posts.id AND reactions.target_kind = ? AND reactions.value = ?", "post", "like").
			Group("posts.id").
			Order("COUNT(reactions.id) DESC, posts.created_at DESC")
	case SortAnonymous:
		query = query.Where("user_id = ''").Order("created_at DESC")
	default:
		query = query.Order("created_at DESC")
	}

	if limit > 0 {
		query = query.Limit(limit).Offset(offset)
	}
	if err := query.Find(&postModels).Error; err != nil {
		return nil, err
	}

	posts := make([]*entity.Post, len(postModels))
	for i := range postModels {
		posts[i] = ToPostEntity(&postModels[i])
	}
	return posts, nil
}

// UpdateContent writes unscoped so an owner's edit also lands on a post they
// soft-deleted.
func (r *postRepository) UpdateContent(id, content string) error {
	return r.db.Unscoped().Model(&model.PostModel{}).Where("id = ?", id).Update("content", content).Error
}

func (r *postRepository) SoftDelete(id string) error {
	return r.db.Where("id = ?", id).Delete(&model.PostModel{}).Error
}
