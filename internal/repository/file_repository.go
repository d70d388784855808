package repository

import (
	"context"
	"notebooklm-go/internal/model"

	"gorm.io/gorm"
)

// FileRepository 定义了上传文件元数据的访问接口。
type FileRepository interface {
	Create(ctx context.Context, file *model.FileItem) error
	GetByID(ctx context.Context, id uint) (*model.FileItem, error)
	GetByTopicAndPath(ctx context.Context, topicID uint, path string) (*model.FileItem, error)
	ListByTopic(ctx context.Context, topicID uint) ([]model.FileItem, error)
	UpdateStatus(ctx context.Context, fileID uint, status string) error
	Delete(ctx context.Context, id uint) error
	DeleteByTopic(ctx context.Context, topicID uint) error
}

type fileRepository struct {
	db *gorm.DB
}

// NewFileRepository 创建一个文件仓库实例。
func NewFileRepository(db *gorm.DB) FileRepository {
	return &fileRepository{db: db}
}

func (r *fileRepository) Create(ctx context.Context, file *model.FileItem) error {
	return r.db.WithContext(ctx).Create(file).Error
}

func (r *fileRepository) GetByID(ctx context.Context, id uint) (*model.FileItem, error) {
	var file model.FileItem
	if err := r.db.WithContext(ctx).First(&file, id).Error; err != nil {
		return nil, err
	}
	return &file, nil
}

func (r *fileRepository) GetByTopicAndPath(ctx context.Context, topicID uint, path string) (*model.FileItem, error) {
	var file model.FileItem
	if err := r.db.WithContext(ctx).Where("topic_id = ? AND file_path = ?", topicID, path).First(&file).Error; err != nil {
		return nil, err
	}
	return &file, nil
}

func (r *fileRepository) ListByTopic(ctx context.Context, topicID uint) ([]model.FileItem, error) {
	var files []model.FileItem
	if err := r.db.WithContext(ctx).Where("topic_id = ?", topicID).Order("created_at DESC").Find(&files).Error; err != nil {
		return nil, err
	}
	return files, nil
}

func (r *fileRepository) UpdateStatus(ctx context.Context, fileID uint, status string) error {
	return r.db.WithContext(ctx).Model(&model.FileItem{}).Where("id = ?", fileID).Update("status", status).Error
}

func (r *fileRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&model.FileItem{}, id).Error
}

func (r *fileRepository) DeleteByTopic(ctx context.Context, topicID uint) error {
	return r.db.WithContext(ctx).Where("topic_id = ?", topicID).Delete(&model.FileItem{}).Error
}
