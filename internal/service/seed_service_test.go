package service

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"notebooklm-go/internal/model"
	"notebooklm-go/internal/pipeline"
	"notebooklm-go/pkg/milvus"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type seedUserRepo struct {
	users  map[string]*model.User
	nextID uint
}

func newSeedUserRepo() *seedUserRepo {
	return &seedUserRepo{users: map[string]*model.User{}}
}

func (r *seedUserRepo) Create(_ context.Context, user *model.User) error {
	r.nextID++
	user.ID = r.nextID
	r.users[user.Username] = user
	return nil
}

func (r *seedUserRepo) GetByID(_ context.Context, id uint) (*model.User, error) {
	for _, u := range r.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *seedUserRepo) GetByUsername(_ context.Context, username string) (*model.User, error) {
	if u, ok := r.users[username]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *seedUserRepo) List(_ context.Context, _, _ int) ([]model.User, int64, error) {
	return nil, 0, nil
}

type seedTopicRepo struct {
	topics []*model.Topic
	nextID uint
}

func (r *seedTopicRepo) Create(_ context.Context, topic *model.Topic) error {
	r.nextID++
	topic.ID = r.nextID
	r.topics = append(r.topics, topic)
	return nil
}

func (r *seedTopicRepo) GetByID(_ context.Context, id uint) (*model.Topic, error) {
	for _, t := range r.topics {
		if t.ID == id {
			return t, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *seedTopicRepo) GetByUserAndTitle(_ context.Context, userID uint, title string) (*model.Topic, error) {
	for _, t := range r.topics {
		if t.UserID == userID && t.Title == title {
			return t, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *seedTopicRepo) ListByUser(_ context.Context, _ uint) ([]model.Topic, error) {
	return nil, nil
}

func (r *seedTopicRepo) Update(_ context.Context, _ *model.Topic) error { return nil }
func (r *seedTopicRepo) Delete(_ context.Context, _ uint) error         { return nil }

type seedFileRepo struct {
	files  []*model.FileItem
	nextID uint
}

func (r *seedFileRepo) Create(_ context.Context, file *model.FileItem) error {
	r.nextID++
	file.ID = r.nextID
	r.files = append(r.files, file)
	return nil
}

func (r *seedFileRepo) GetByID(_ context.Context, id uint) (*model.FileItem, error) {
	for _, f := range r.files {
		if f.ID == id {
			return f, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *seedFileRepo) GetByTopicAndPath(_ context.Context, topicID uint, path string) (*model.FileItem, error) {
	for _, f := range r.files {
		if f.TopicID == topicID && f.FilePath == path {
			return f, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *seedFileRepo) ListByTopic(_ context.Context, _ uint) ([]model.FileItem, error) {
	return nil, nil
}

func (r *seedFileRepo) UpdateStatus(_ context.Context, _ uint, _ string) error { return nil }
func (r *seedFileRepo) Delete(_ context.Context, _ uint) error                 { return nil }
func (r *seedFileRepo) DeleteByTopic(_ context.Context, _ uint) error          { return nil }

type seedEmbedder struct{}

func (seedEmbedder) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, len(texts))
	for i := range texts {
		vectors[i] = []float32{1}
	}
	return vectors, nil
}

type seedStore struct {
	partitions []uint
	records    []milvus.Record
}

func (s *seedStore) EnsurePartition(_ context.Context, userID uint) error {
	s.partitions = append(s.partitions, userID)
	return nil
}

func (s *seedStore) InsertBatch(_ context.Context, _ uint, records []milvus.Record) error {
	s.records = append(s.records, records...)
	return nil
}

func (s *seedStore) Search(_ context.Context, _ uint, _ []float32, _ milvus.Filter, _ int) ([]milvus.ScoredChunk, error) {
	return nil, nil
}

func (s *seedStore) DeleteByFilter(_ context.Context, _ uint, _ milvus.Filter) error {
	return nil
}

func TestSeedService_Import(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "guide.md"), []byte("## A\none\n"), 0o644))

	users := newSeedUserRepo()
	topics := &seedTopicRepo{}
	files := &seedFileRepo{}
	store := &seedStore{}
	s := NewSeedService(users, topics, files, pipeline.NewIngestor(seedEmbedder{}, store, 0))

	report, err := s.Import(context.Background(), dir)

	require.NoError(t, err)
	assert.Equal(t, 1, report.Documents)

	// 管理员账号与种子主题自动创建，文档登记为该主题下的文件
	admin, err := users.GetByUsername(context.Background(), "admin")
	require.NoError(t, err)
	assert.Equal(t, "admin", admin.Role)
	require.Len(t, topics.topics, 1)
	assert.Equal(t, admin.ID, topics.topics[0].UserID)
	require.Len(t, files.files, 1)
	assert.Equal(t, topics.topics[0].ID, files.files[0].TopicID)

	// 分块携带登记的文件 ID，检索的 file_id 过滤才能命中
	require.NotEmpty(t, store.records)
	for _, rec := range store.records {
		assert.Equal(t, int64(files.files[0].ID), rec.FileID)
		assert.Equal(t, int64(topics.topics[0].ID), rec.TopicID)
	}
	assert.Equal(t, []uint{admin.ID}, store.partitions)
}

func TestSeedService_ImportIsReentrant(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "guide.md"), []byte("## A\none\n"), 0o644))

	users := newSeedUserRepo()
	topics := &seedTopicRepo{}
	files := &seedFileRepo{}
	s := NewSeedService(users, topics, files, pipeline.NewIngestor(seedEmbedder{}, &seedStore{}, 0))

	_, err := s.Import(context.Background(), dir)
	require.NoError(t, err)
	_, err = s.Import(context.Background(), dir)
	require.NoError(t, err)

	// 第二次导入复用账号、主题与文件记录
	assert.Len(t, users.users, 1)
	assert.Len(t, topics.topics, 1)
	assert.Len(t, files.files, 1)
}
