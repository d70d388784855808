package pipeline

import (
	"context"
	"io"
	"notebooklm-go/internal/config"
	"notebooklm-go/internal/model"
	"notebooklm-go/internal/splitter"
	"notebooklm-go/pkg/log"
	"notebooklm-go/pkg/storage"
	"notebooklm-go/pkg/tasks"

	"github.com/minio/minio-go/v7"
)

// ObjectFetcher 按对象 key 读取对象存储里的文件内容。
type ObjectFetcher interface {
	Fetch(ctx context.Context, objectKey string) ([]byte, error)
}

// FileStatusUpdater 更新文件的入库状态。
type FileStatusUpdater interface {
	UpdateStatus(ctx context.Context, fileID uint, status string) error
}

// MinioFetcher 从配置的 MinIO 存储桶读取对象。
type MinioFetcher struct {
	Bucket string
}

// Fetch 读取对象的完整内容。
func (f *MinioFetcher) Fetch(ctx context.Context, objectKey string) ([]byte, error) {
	obj, err := storage.MinioClient.GetObject(ctx, f.Bucket, objectKey, minio.GetObjectOptions{})
	if err != nil {
		return nil, err
	}
	defer obj.Close()
	return io.ReadAll(obj)
}

// Processor 消费文件入库任务：拉取对象、滑动窗口切分、向量化入库，
// 并回写文件状态。它实现了 kafka.TaskProcessor。
type Processor struct {
	ingestor *Ingestor
	fetcher  ObjectFetcher
	files    FileStatusUpdater
	splitCfg config.SplitterConfig
}

// NewProcessor 创建文件入库任务处理器。
func NewProcessor(ingestor *Ingestor, fetcher ObjectFetcher, files FileStatusUpdater, splitCfg config.SplitterConfig) *Processor {
	return &Processor{ingestor: ingestor, fetcher: fetcher, files: files, splitCfg: splitCfg}
}

// Process 处理一个文件入库任务。入库失败时把文件标记为 failed 并返回错误，
// 由消费端决定是否重试。
func (p *Processor) Process(ctx context.Context, task tasks.FileIngestTask) error {
	content, err := p.fetcher.Fetch(ctx, task.ObjectKey)
	if err != nil {
		p.markStatus(ctx, task.FileID, model.FileStatusFailed)
		return err
	}

	sp := splitter.NewWindowSplitter(p.splitCfg.WindowSize, p.splitCfg.Overlap)
	if _, err := p.ingestor.Ingest(ctx, task.UserID, int64(task.TopicID), int64(task.FileID), string(content), sp); err != nil {
		p.markStatus(ctx, task.FileID, model.FileStatusFailed)
		return err
	}

	p.markStatus(ctx, task.FileID, model.FileStatusReady)
	return nil
}

func (p *Processor) markStatus(ctx context.Context, fileID uint, status string) {
	if err := p.files.UpdateStatus(ctx, fileID, status); err != nil {
		log.Errorf("[Processor] 更新文件状态失败: fileID=%d, status=%s, err=%v", fileID, status, err)
	}
}
