package pipeline

import (
	"context"
	"testing"

	"notebooklm-go/pkg/milvus"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRetriever_Retrieve(t *testing.T) {
	embedder := &fakeEmbedder{}
	store := &fakeStore{hits: []milvus.ScoredChunk{
		{Text: "高分", Score: 0.9},
		{Text: "低分", Score: 0.1},
	}}
	r := NewRetriever(embedder, store, 10, 0)

	chunks, err := r.Retrieve(context.Background(), 7, 3, []int64{5, 8}, "问题")

	require.NoError(t, err)
	assert.Len(t, chunks, 2)
	assert.Equal(t, "topic_id == 3 && file_id in [5, 8]", store.searchExpr)
}

func TestRetriever_ScoreThreshold(t *testing.T) {
	embedder := &fakeEmbedder{}
	store := &fakeStore{hits: []milvus.ScoredChunk{
		{Text: "高分", Score: 0.9},
		{Text: "低分", Score: 0.1},
	}}
	r := NewRetriever(embedder, store, 10, 0.5)

	chunks, err := r.Retrieve(context.Background(), 7, 3, []int64{5}, "问题")

	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Equal(t, "高分", chunks[0].Text)
}

func TestRetriever_EmptyFileList(t *testing.T) {
	embedder := &fakeEmbedder{}
	store := &fakeStore{}
	r := NewRetriever(embedder, store, 10, 0)

	chunks, err := r.Retrieve(context.Background(), 7, 3, nil, "问题")

	require.NoError(t, err)
	assert.Empty(t, chunks)
	// 空文件列表渲染为不命中任何记录的表达式
	assert.Equal(t, "topic_id == 3 && file_id in []", store.searchExpr)
}
