package service

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"notebooklm-go/internal/model"
	"notebooklm-go/internal/repository"
	"notebooklm-go/pkg/kafka"
	"notebooklm-go/pkg/log"
	"notebooklm-go/pkg/milvus"
	"notebooklm-go/pkg/storage"
	"notebooklm-go/pkg/tasks"
	"path/filepath"
	"strings"
	"time"

	miniogo "github.com/minio/minio-go/v7"
	"gorm.io/gorm"
)

// ErrUnsupportedFileType 上传了不支持的文件类型。
var ErrUnsupportedFileType = errors.New("不支持的文件类型，仅接受 .md/.markdown/.txt")

var allowedExtensions = map[string]bool{
	".md":       true,
	".markdown": true,
	".txt":      true,
}

// VectorDeleter 删除用户分区内匹配过滤器的分块。
type VectorDeleter interface {
	DeleteByFilter(ctx context.Context, userID uint, filter milvus.Filter) error
}

// FileService 负责参考文件的上传、下载、删除与列表。
// 上传成功后通过 Kafka 异步触发向量化入库。
type FileService struct {
	files  repository.FileRepository
	topics repository.TopicRepository
	store  VectorDeleter
	bucket string
}

// NewFileService 创建文件服务。
func NewFileService(files repository.FileRepository, topics repository.TopicRepository, store VectorDeleter, bucket string) *FileService {
	return &FileService{files: files, topics: topics, store: store, bucket: bucket}
}

func (s *FileService) checkTopicOwner(ctx context.Context, userID, topicID uint) error {
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

// Upload 保存上传文件到对象存储、落库元数据，并投递入库任务。
func (s *FileService) Upload(ctx context.Context, userID, topicID uint, header *multipart.FileHeader) (*model.FileItem, error) {
	if err := s.checkTopicOwner(ctx, userID, topicID); err != nil {
		return nil, err
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !allowedExtensions[ext] {
		return nil, ErrUnsupportedFileType
	}

	src, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer src.Close()

	objectKey := fmt.Sprintf("uploads/%d/%d_%s", userID, time.Now().UnixNano(), filepath.Base(header.Filename))
	_, err = storage.MinioClient.PutObject(ctx, s.bucket, objectKey, src, header.Size, miniogo.PutObjectOptions{
		ContentType: header.Header.Get("Content-Type"),
	})
	if err != nil {
		return nil, fmt.Errorf("上传对象失败: %w", err)
	}

	file := &model.FileItem{
		FilePath:     objectKey,
		FileName:     filepath.Base(objectKey),
		OriginalName: header.Filename,
		FileSize:     header.Size,
		MimeType:     header.Header.Get("Content-Type"),
		Status:       model.FileStatusPending,
		UserID:       userID,
		TopicID:      topicID,
	}
	if err := s.files.Create(ctx, file); err != nil {
		return nil, err
	}

	task := tasks.FileIngestTask{
		UserID:    userID,
		TopicID:   topicID,
		FileID:    file.ID,
		ObjectKey: objectKey,
		FileName:  header.Filename,
	}
	if err := kafka.ProduceIngestTask(task); err != nil {
		// 入库任务投递失败不回滚上传，标记为 failed 供前端重试
		log.Errorf("[File] 投递入库任务失败: fileID=%d, err=%v", file.ID, err)
		_ = s.files.UpdateStatus(ctx, file.ID, model.FileStatusFailed)
	}
	return file, nil
}

// List 列出主题下的全部文件。
func (s *FileService) List(ctx context.Context, userID, topicID uint) ([]model.FileItem, error) {
	if err := s.checkTopicOwner(ctx, userID, topicID); err != nil {
		return nil, err
	}
	return s.files.ListByTopic(ctx, topicID)
}

// Delete 删除文件：先清理向量库里该文件的分块，再删除对象与元数据。
func (s *FileService) Delete(ctx context.Context, userID, fileID uint) error {
	file, err := s.files.GetByID(ctx, fileID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	if file.UserID != userID {
		return ErrForbidden
	}

	filter := milvus.And(
		milvus.Eq(milvus.FieldTopicID, int64(file.TopicID)),
		milvus.Eq(milvus.FieldFileID, int64(file.ID)),
	)
	if err := s.store.DeleteByFilter(ctx, userID, filter); err != nil {
		return err
	}

	if err := s.removeObject(ctx, file.FilePath); err != nil {
		log.Warnf("[File] 删除对象失败，继续删除元数据: key=%s, err=%v", file.FilePath, err)
	}
	return s.files.Delete(ctx, fileID)
}

// DownloadURL 为文件生成限时下载链接。
func (s *FileService) DownloadURL(ctx context.Context, userID, fileID uint) (string, error) {
	file, err := s.files.GetByID(ctx, fileID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrNotFound
		}
		return "", err
	}
	if file.UserID != userID {
		return "", ErrForbidden
	}
	return storage.GetPresignedURL(s.bucket, file.FilePath, 15*time.Minute)
}

func (s *FileService) removeObject(ctx context.Context, objectKey string) error {
	return storage.MinioClient.RemoveObject(ctx, s.bucket, objectKey, miniogo.RemoveObjectOptions{})
}
