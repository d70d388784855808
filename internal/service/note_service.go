package service

import (
	"context"
	"errors"
	"notebooklm-go/internal/model"
	"notebooklm-go/internal/repository"

	"gorm.io/gorm"
)

// NoteService 负责主题下笔记的增删改查。
type NoteService struct {
	contents repository.ContentRepository
	topics   repository.TopicRepository
}

// NewNoteService 创建笔记服务。
func NewNoteService(contents repository.ContentRepository, topics repository.TopicRepository) *NoteService {
	return &NoteService{contents: contents, topics: topics}
}

func (s *NoteService) checkTopicOwner(ctx context.Context, userID, topicID uint) error {
	topic, err := s.topics.GetByID(ctx, topicID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	if topic.UserID != userID {
		return ErrForbidden
	}
	return nil
}

// Create 在主题下新建一条笔记。
func (s *NoteService) Create(ctx context.Context, userID, topicID uint, title, content string) (*model.ContentItem, error) {
	if err := s.checkTopicOwner(ctx, userID, topicID); err != nil {
		return nil, err
	}
	item := &model.ContentItem{
		Title:   title,
		Content: content,
		UserID:  userID,
		TopicID: topicID,
	}
	if err := s.contents.Create(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

// List 列出主题下的全部笔记。
func (s *NoteService) List(ctx context.Context, userID, topicID uint) ([]model.ContentItem, error) {
	if err := s.checkTopicOwner(ctx, userID, topicID); err != nil {
		return nil, err
	}
	return s.contents.ListByTopic(ctx, topicID)
}

// Update 更新一条笔记。
func (s *NoteService) Update(ctx context.Context, userID, noteID uint, title, content string) (*model.ContentItem, error) {
	item, err := s.getOwned(ctx, userID, noteID)
	if err != nil {
		return nil, err
	}
	if title != "" {
		item.Title = title
	}
	item.Content = content
	if err := s.contents.Update(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

// Delete 删除一条笔记。
func (s *NoteService) Delete(ctx context.Context, userID, noteID uint) error {
	if _, err := s.getOwned(ctx, userID, noteID); err != nil {
		return err
	}
	return s.contents.Delete(ctx, noteID)
}

func (s *NoteService) getOwned(ctx context.Context, userID, noteID uint) (*model.ContentItem, error) {
	item, err := s.contents.GetByID(ctx, noteID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if item.UserID != userID {
		return nil, ErrForbidden
	}
	return item, nil
}
