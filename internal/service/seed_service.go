package service

import (
	"context"
	"errors"
	"notebooklm-go/internal/model"
	"notebooklm-go/internal/pipeline"
	"notebooklm-go/internal/repository"
	"notebooklm-go/pkg/hash"
	"notebooklm-go/pkg/log"
	"notebooklm-go/pkg/token"
	"path/filepath"
	"time"

	"gorm.io/gorm"
)

const (
	seedAdminUsername = "admin"
	seedTopicTitle    = "本地知識庫"
)

// SeedService 在启动时把本地知识库目录导入向量库。
// 文档归属管理员账号下的固定种子主题，每个文档登记一条文件记录，
// 这样它们能出现在文件列表里并被 file_id 过滤检索到。
type SeedService struct {
	users    repository.UserRepository
	topics   repository.TopicRepository
	files    repository.FileRepository
	ingestor *pipeline.Ingestor
}

// NewSeedService 创建种子导入服务。
func NewSeedService(users repository.UserRepository, topics repository.TopicRepository, files repository.FileRepository, ingestor *pipeline.Ingestor) *SeedService {
	return &SeedService{users: users, topics: topics, files: files, ingestor: ingestor}
}

// Import 扫描 dir 并导入。管理员账号与种子主题不存在时自动创建，
// 重复导入复用已有的账号、主题与文件记录。
func (s *SeedService) Import(ctx context.Context, dir string) (pipeline.ScanReport, error) {
	admin, err := s.ensureAdminUser(ctx)
	if err != nil {
		return pipeline.ScanReport{}, err
	}

	topic, err := s.ensureSeedTopic(ctx, admin.ID)
	if err != nil {
		return pipeline.ScanReport{}, err
	}

	scanner := pipeline.NewScanner(s.ingestor, s)
	return scanner.ScanDirectory(ctx, dir, admin.ID, int64(topic.ID))
}

// Register 实现 pipeline.FileRegistrar：同一主题下同一路径只登记一次。
func (s *SeedService) Register(ctx context.Context, userID uint, topicID int64, path string) (int64, error) {
	existing, err := s.files.GetByTopicAndPath(ctx, uint(topicID), path)
	if err == nil {
		return int64(existing.ID), nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, err
	}

	file := &model.FileItem{
		FilePath:     path,
		FileName:     filepath.Base(path),
		OriginalName: filepath.Base(path),
		Status:       model.FileStatusReady,
		UserID:       userID,
		TopicID:      uint(topicID),
	}
	if err := s.files.Create(ctx, file); err != nil {
		return 0, err
	}
	return int64(file.ID), nil
}

func (s *SeedService) ensureAdminUser(ctx context.Context) (*model.User, error) {
	admin, err := s.users.GetByUsername(ctx, seedAdminUsername)
	if err == nil {
		return admin, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	password := token.GenerateRandomString(12)
	hashed, err := hash.HashPassword(password)
	if err != nil {
		return nil, err
	}
	admin = &model.User{
		Username: seedAdminUsername,
		Password: hashed,
		Role:     "admin",
	}
	if err := s.users.Create(ctx, admin); err != nil {
		return nil, err
	}
	log.Warnf("[Seed] 已创建管理员账号 '%s'，初始密码: %s，请尽快修改", seedAdminUsername, password)
	return admin, nil
}

func (s *SeedService) ensureSeedTopic(ctx context.Context, adminID uint) (*model.Topic, error) {
	topic, err := s.topics.GetByUserAndTitle(ctx, adminID, seedTopicTitle)
	if err == nil {
		return topic, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	topic = &model.Topic{
		Title:       seedTopicTitle,
		Emoji:       "📚",
		Description: "启动时从本地目录导入的知识库",
		Date:        time.Now().Format("2006-01-02"),
		UserID:      adminID,
	}
	if err := s.topics.Create(ctx, topic); err != nil {
		return nil, err
	}
	return topic, nil
}
