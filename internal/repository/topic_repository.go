package repository

import (
	"context"
	"notebooklm-go/internal/model"

	"gorm.io/gorm"
)

// TopicRepository 定义了主题数据的访问接口。
type TopicRepository interface {
	Create(ctx context.Context, topic *model.Topic) error
	GetByID(ctx context.Context, id uint) (*model.Topic, error)
	GetByUserAndTitle(ctx context.Context, userID uint, title string) (*model.Topic, error)
	ListByUser(ctx context.Context, userID uint) ([]model.Topic, error)
	Update(ctx context.Context, topic *model.Topic) error
	Delete(ctx context.Context, id uint) error
}

type topicRepository struct {
	db *gorm.DB
}

// NewTopicRepository 创建一个主题仓库实例。
func NewTopicRepository(db *gorm.DB) TopicRepository {
	return &topicRepository{db: db}
}

func (r *topicRepository) Create(ctx context.Context, topic *model.Topic) error {
	return r.db.WithContext(ctx).Create(topic).Error
}

func (r *topicRepository) GetByID(ctx context.Context, id uint) (*model.Topic, error) {
	var topic model.Topic
	if err := r.db.WithContext(ctx).First(&topic, id).Error; err != nil {
		return nil, err
	}
	return &topic, nil
}

func (r *topicRepository) GetByUserAndTitle(ctx context.Context, userID uint, title string) (*model.Topic, error) {
	var topic model.Topic
	if err := r.db.WithContext(ctx).Where("user_id = ? AND title = ?", userID, title).First(&topic).Error; err != nil {
		return nil, err
	}
	return &topic, nil
}

func (r *topicRepository) ListByUser(ctx context.Context, userID uint) ([]model.Topic, error) {
	var topics []model.Topic
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("updated_at DESC").Find(&topics).Error; err != nil {
		return nil, err
	}
	return topics, nil
}

func (r *topicRepository) Update(ctx context.Context, topic *model.Topic) error {
	return r.db.WithContext(ctx).Save(topic).Error
}

func (r *topicRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&model.Topic{}, id).Error
}
