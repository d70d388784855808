// Package pipeline 串联切分、向量化与向量库读写，构成入库和检索两条流水线。
package pipeline

import (
	"context"
	"fmt"
	"notebooklm-go/internal/splitter"
	"notebooklm-go/pkg/log"
	"notebooklm-go/pkg/milvus"
)

const defaultBatchSize = 256

// Embedder 把一批文本向量化，返回与输入同序的向量。
type Embedder interface {
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
}

// VectorStore 是入库与检索所依赖的向量库能力。
type VectorStore interface {
	EnsurePartition(ctx context.Context, userID uint) error
	InsertBatch(ctx context.Context, userID uint, records []milvus.Record) error
	Search(ctx context.Context, userID uint, vector []float32, filter milvus.Filter, limit int) ([]milvus.ScoredChunk, error)
	DeleteByFilter(ctx context.Context, userID uint, filter milvus.Filter) error
}

// Ingestor 把文档文本切分、向量化并写入用户分区。
type Ingestor struct {
	embedder  Embedder
	store     VectorStore
	batchSize int
}

// NewIngestor 创建入库流水线。batchSize 不为正时回落到 256。
func NewIngestor(embedder Embedder, store VectorStore, batchSize int) *Ingestor {
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}
	return &Ingestor{embedder: embedder, store: store, batchSize: batchSize}
}

// Ingest 用给定切分器把文档切块并写入用户分区。
// 分块按原文顺序、以 batchSize 为一批向量化并插入；任何一批失败即中止，
// 已插入的批次保留（调用方可整体重试，Milvus 侧允许重复）。
func (ing *Ingestor) Ingest(ctx context.Context, userID uint, topicID, fileID int64, text string, sp splitter.Splitter) (int, error) {
	chunks := sp.Split(text)
	if len(chunks) == 0 {
		log.Warnf("[Ingest] 文档切分后没有产出任何分块: userID=%d, fileID=%d", userID, fileID)
		return 0, nil
	}

	if err := ing.store.EnsurePartition(ctx, userID); err != nil {
		return 0, err
	}

	inserted := 0
	for begin := 0; begin < len(chunks); begin += ing.batchSize {
		end := begin + ing.batchSize
		if end > len(chunks) {
			end = len(chunks)
		}
		batch := chunks[begin:end]

		vectors, err := ing.embedder.EmbedBatch(ctx, batch)
		if err != nil {
			return inserted, fmt.Errorf("向量化第 %d-%d 块失败: %w", begin, end, err)
		}
		if len(vectors) != len(batch) {
			return inserted, fmt.Errorf("向量数量 %d 与分块数量 %d 不符", len(vectors), len(batch))
		}

		records := make([]milvus.Record, 0, len(batch))
		for i, chunk := range batch {
			records = append(records, milvus.Record{
				TopicID:   topicID,
				FileID:    fileID,
				Embedding: vectors[i],
				Text:      chunk,
			})
		}
		if err := ing.store.InsertBatch(ctx, userID, records); err != nil {
			return inserted, fmt.Errorf("插入第 %d-%d 块失败: %w", begin, end, err)
		}
		inserted += len(records)
	}

	log.Infof("[Ingest] 入库完成: userID=%d, fileID=%d, chunks=%d", userID, fileID, inserted)
	return inserted, nil
}
