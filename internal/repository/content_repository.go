package repository

import (
	"context"
	"notebooklm-go/internal/model"

	"gorm.io/gorm"
)

// ContentRepository 定义了笔记数据的访问接口。
type ContentRepository interface {
	Create(ctx context.Context, item *model.ContentItem) error
	GetByID(ctx context.Context, id uint) (*model.ContentItem, error)
	ListByTopic(ctx context.Context, topicID uint) ([]model.ContentItem, error)
	Update(ctx context.Context, item *model.ContentItem) error
	Delete(ctx context.Context, id uint) error
	DeleteByTopic(ctx context.Context, topicID uint) error
}

type contentRepository struct {
	db *gorm.DB
}

// NewContentRepository 创建一个笔记仓库实例。
func NewContentRepository(db *gorm.DB) ContentRepository {
	return &contentRepository{db: db}
}

func (r *contentRepository) Create(ctx context.Context, item *model.ContentItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *contentRepository) GetByID(ctx context.Context, id uint) (*model.ContentItem, error) {
	var item model.ContentItem
	if err := r.db.WithContext(ctx).First(&item, id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *contentRepository) ListByTopic(ctx context.Context, topicID uint) ([]model.ContentItem, error) {
	var items []model.ContentItem
	if err := r.db.WithContext(ctx).Where("topic_id = ?", topicID).Order("updated_at DESC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *contentRepository) Update(ctx context.Context, item *model.ContentItem) error {
	return r.db.WithContext(ctx).Save(item).Error
}

func (r *contentRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&model.ContentItem{}, id).Error
}

func (r *contentRepository) DeleteByTopic(ctx context.Context, topicID uint) error {
	return r.db.WithContext(ctx).Where("topic_id = ?", topicID).Delete(&model.ContentItem{}).Error
}
