package service

import (
	"context"
	"errors"
	"notebooklm-go/internal/model"
	"notebooklm-go/internal/pipeline"
	"notebooklm-go/internal/repository"
	"notebooklm-go/pkg/log"
	"notebooklm-go/pkg/milvus"
	"time"

	"gorm.io/gorm"
)

// TopicService 负责主题的增删改查，删除时级联清理主题下的全部数据。
type TopicService struct {
	topics        repository.TopicRepository
	files         repository.FileRepository
	contents      repository.ContentRepository
	conversations repository.ConversationRepository
	store         pipeline.VectorStore
	fileService   *FileService
}

// NewTopicService 创建主题服务。
func NewTopicService(
	topics repository.TopicRepository,
	files repository.FileRepository,
	contents repository.ContentRepository,
	conversations repository.ConversationRepository,
	store pipeline.VectorStore,
	fileService *FileService,
) *TopicService {
	return &TopicService{
		topics:        topics,
		files:         files,
		contents:      contents,
		conversations: conversations,
		store:         store,
		fileService:   fileService,
	}
}

// Create 创建一个新主题。
func (s *TopicService) Create(ctx context.Context, userID uint, title, emoji, description string) (*model.Topic, error) {
	topic := &model.Topic{
		Title:       title,
		Emoji:       emoji,
		Description: description,
		Date:        time.Now().Format("2006-01-02"),
		UserID:      userID,
	}
	if err := s.topics.Create(ctx, topic); err != nil {
		return nil, err
	}
	return topic, nil
}

// Get 返回用户的一个主题，归属不符时返回 ErrForbidden。
func (s *TopicService) Get(ctx context.Context, userID, topicID uint) (*model.Topic, error) {
	topic, err := s.topics.GetByID(ctx, topicID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if topic.UserID != userID {
		return nil, ErrForbidden
	}
	return topic, nil
}

// List 列出用户的全部主题。
func (s *TopicService) List(ctx context.Context, userID uint) ([]model.Topic, error) {
	return s.topics.ListByUser(ctx, userID)
}

// Update 更新主题的标题、图标和描述。
func (s *TopicService) Update(ctx context.Context, userID, topicID uint, title, emoji, description string) (*model.Topic, error) {
	topic, err := s.Get(ctx, userID, topicID)
	if err != nil {
		return nil, err
	}
	if title != "" {
		topic.Title = title
	}
	if emoji != "" {
		topic.Emoji = emoji
	}
	if description != "" {
		topic.Description = description
	}
	if err := s.topics.Update(ctx, topic); err != nil {
		return nil, err
	}
	return topic, nil
}

// Delete 删除主题并级联清理：文件元数据与对象、笔记、对话历史，
// 以及向量库中该主题的全部分块。
func (s *TopicService) Delete(ctx context.Context, userID, topicID uint) error {
	if _, err := s.Get(ctx, userID, topicID); err != nil {
		return err
	}

	files, err := s.files.ListByTopic(ctx, topicID)
	if err != nil {
		return err
	}
	for _, f := range files {
		if err := s.fileService.removeObject(ctx, f.FilePath); err != nil {
			log.Warnf("[Topic] 删除对象失败，继续清理: key=%s, err=%v", f.FilePath, err)
		}
	}

	if err := s.files.DeleteByTopic(ctx, topicID); err != nil {
		return err
	}
	if err := s.contents.DeleteByTopic(ctx, topicID); err != nil {
		return err
	}
	if err := s.conversations.Clear(ctx, userID, topicID); err != nil {
		log.Warnf("[Topic] 清理对话历史失败: topicID=%d, err=%v", topicID, err)
	}

	filter := milvus.And(milvus.Eq(milvus.FieldTopicID, int64(topicID)))
	if err := s.store.DeleteByFilter(ctx, userID, filter); err != nil {
		return err
	}

	return s.topics.Delete(ctx, topicID)
}
