package pipeline

import (
	"context"
	"errors"
	"testing"

	"notebooklm-go/internal/splitter"
	"notebooklm-go/pkg/milvus"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEmbedder struct {
	calls [][]string
	err   error
}

func (f *fakeEmbedder) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.calls = append(f.calls, texts)
	vectors := make([][]float32, len(texts))
	for i := range texts {
		vectors[i] = []float32{float32(len(texts[i]))}
	}
	return vectors, nil
}

type fakeStore struct {
	partitions []uint
	batches    [][]milvus.Record
	hits       []milvus.ScoredChunk
	searchExpr string
	insertErr  error
}

func (f *fakeStore) EnsurePartition(_ context.Context, userID uint) error {
	f.partitions = append(f.partitions, userID)
	return nil
}

func (f *fakeStore) InsertBatch(_ context.Context, _ uint, records []milvus.Record) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	f.batches = append(f.batches, records)
	return nil
}

func (f *fakeStore) Search(_ context.Context, _ uint, _ []float32, filter milvus.Filter, _ int) ([]milvus.ScoredChunk, error) {
	f.searchExpr = filter.Render()
	return f.hits, nil
}

func (f *fakeStore) DeleteByFilter(_ context.Context, _ uint, _ milvus.Filter) error {
	return nil
}

func TestIngestor_Ingest(t *testing.T) {
	embedder := &fakeEmbedder{}
	store := &fakeStore{}
	ing := NewIngestor(embedder, store, 2)

	sp := splitter.NewWindowSplitter(2, 0)
	inserted, err := ing.Ingest(context.Background(), 7, 3, 9, "abcdef", sp)

	require.NoError(t, err)
	assert.Equal(t, 3, inserted)
	// 分区在写入前已确保存在
	assert.Equal(t, []uint{7}, store.partitions)
	// 3 个分块按批大小 2 分成两批，顺序与原文一致
	require.Len(t, store.batches, 2)
	assert.Equal(t, "ab", store.batches[0][0].Text)
	assert.Equal(t, "cd", store.batches[0][1].Text)
	assert.Equal(t, "ef", store.batches[1][0].Text)
	assert.Equal(t, int64(3), store.batches[0][0].TopicID)
	assert.Equal(t, int64(9), store.batches[0][0].FileID)
}

func TestIngestor_EmptyDocument(t *testing.T) {
	embedder := &fakeEmbedder{}
	store := &fakeStore{}
	ing := NewIngestor(embedder, store, 2)

	inserted, err := ing.Ingest(context.Background(), 1, 1, 1, "", splitter.NewWindowSplitter(2, 0))

	require.NoError(t, err)
	assert.Zero(t, inserted)
	// 没有分块时不应触碰向量库
	assert.Empty(t, store.partitions)
	assert.Empty(t, store.batches)
}

func TestIngestor_InsertFailureStops(t *testing.T) {
	embedder := &fakeEmbedder{}
	store := &fakeStore{insertErr: errors.New("boom")}
	ing := NewIngestor(embedder, store, 2)

	inserted, err := ing.Ingest(context.Background(), 1, 1, 1, "abcdef", splitter.NewWindowSplitter(2, 0))

	assert.Error(t, err)
	assert.Zero(t, inserted)
}
