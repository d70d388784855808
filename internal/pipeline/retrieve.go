package pipeline

import (
	"context"
	"fmt"
	"notebooklm-go/pkg/milvus"
)

const defaultTopK = 50

// Retriever 对问题做向量化后在用户分区内做过滤检索。
type Retriever struct {
	embedder       Embedder
	store          VectorStore
	topK           int
	scoreThreshold float32
}

// NewRetriever 创建检索流水线。topK 不为正时回落到 50；
// scoreThreshold 为 0 表示不做分数过滤。
func NewRetriever(embedder Embedder, store VectorStore, topK int, scoreThreshold float32) *Retriever {
	if topK <= 0 {
		topK = defaultTopK
	}
	return &Retriever{embedder: embedder, store: store, topK: topK, scoreThreshold: scoreThreshold}
}

// Retrieve 在用户分区内检索与问题最相关的分块文本，
// 只命中指定主题下给定文件集合内的记录，按相似度从高到低返回。
func (r *Retriever) Retrieve(ctx context.Context, userID uint, topicID int64, fileIDs []int64, question string) ([]milvus.ScoredChunk, error) {
	vectors, err := r.embedder.EmbedBatch(ctx, []string{question})
	if err != nil {
		return nil, fmt.Errorf("问题向量化失败: %w", err)
	}
	if len(vectors) != 1 {
		return nil, fmt.Errorf("问题向量化返回了 %d 个向量", len(vectors))
	}

	filter := milvus.And(
		milvus.Eq(milvus.FieldTopicID, topicID),
		milvus.In(milvus.FieldFileID, fileIDs),
	)

	chunks, err := r.store.Search(ctx, userID, vectors[0], filter, r.topK)
	if err != nil {
		return nil, err
	}

	if r.scoreThreshold > 0 {
		kept := chunks[:0]
		for _, c := range chunks {
			if c.Score >= r.scoreThreshold {
				kept = append(kept, c)
			}
		}
		chunks = kept
	}
	return chunks, nil
}
