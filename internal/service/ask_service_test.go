package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"notebooklm-go/pkg/llm"
	"notebooklm-go/pkg/milvus"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRetriever struct {
	chunks []milvus.ScoredChunk
	err    error
	called bool
}

func (f *fakeRetriever) Retrieve(_ context.Context, _ uint, _ int64, _ []int64, _ string) ([]milvus.ScoredChunk, error) {
	f.called = true
	return f.chunks, f.err
}

type fakeLLM struct {
	replies []string
	temps   []float64
	prompts []string
}

func (f *fakeLLM) Chat(_ context.Context, messages []llm.Message, temperature float64) (string, error) {
	f.temps = append(f.temps, temperature)
	f.prompts = append(f.prompts, messages[len(messages)-1].Content)
	reply := f.replies[0]
	f.replies = f.replies[1:]
	return reply, nil
}

func (f *fakeLLM) StreamChatMessages(_ context.Context, _ []llm.Message, _ *llm.GenerationParams, _ llm.MessageWriter) error {
	return nil
}

func TestAskService_NoSources(t *testing.T) {
	retriever := &fakeRetriever{}
	s := NewAskService(retriever, &fakeLLM{})

	answer, err := s.Ask(context.Background(), 1, 1, nil, "问题")

	require.NoError(t, err)
	assert.Equal(t, ReplyNoSources, answer)
	assert.False(t, retriever.called)
}

func TestAskService_EmptyQuestion(t *testing.T) {
	retriever := &fakeRetriever{}
	s := NewAskService(retriever, &fakeLLM{})

	answer, err := s.Ask(context.Background(), 1, 1, []int64{1}, "   ")

	require.NoError(t, err)
	assert.Equal(t, ReplyNoQuestion, answer)
	assert.False(t, retriever.called)
}

func TestAskService_NoRetrievedContent(t *testing.T) {
	s := NewAskService(&fakeRetriever{}, &fakeLLM{})

	answer, err := s.Ask(context.Background(), 1, 1, []int64{1}, "问题")

	require.NoError(t, err)
	assert.Equal(t, ReplyNoContent, answer)
}

func TestAskService_IrrelevantContext(t *testing.T) {
	retriever := &fakeRetriever{chunks: []milvus.ScoredChunk{{Text: "内容", Score: 0.9}}}
	llmClient := &fakeLLM{replies: []string{"False"}}
	s := NewAskService(retriever, llmClient)

	answer, err := s.Ask(context.Background(), 1, 1, []int64{1}, "问题")

	require.NoError(t, err)
	assert.Equal(t, ReplyNotFound, answer)
	// 判定失败时不应再发起第二次调用
	assert.Len(t, llmClient.temps, 1)
	assert.InDelta(t, relevanceTemperature, llmClient.temps[0], 1e-9)
}

func TestAskService_TwoPhaseAnswer(t *testing.T) {
	retriever := &fakeRetriever{chunks: []milvus.ScoredChunk{
		{Text: "分块一", Score: 0.9},
		{Text: "分块二", Score: 0.8},
	}}
	llmClient := &fakeLLM{replies: []string{"True", "整理后的回答"}}
	s := NewAskService(retriever, llmClient)

	answer, err := s.Ask(context.Background(), 1, 1, []int64{1, 2}, "问题")

	require.NoError(t, err)
	assert.Equal(t, "整理后的回答", answer)
	require.Len(t, llmClient.temps, 2)
	assert.InDelta(t, relevanceTemperature, llmClient.temps[0], 1e-9)
	assert.InDelta(t, answerTemperature, llmClient.temps[1], 1e-9)
	// 两个阶段的提示词里都应包含检索到的分块
	assert.True(t, strings.Contains(llmClient.prompts[0], "分块一"))
	assert.True(t, strings.Contains(llmClient.prompts[1], "分块二"))
}

func TestAskService_RetrieveError(t *testing.T) {
	retriever := &fakeRetriever{err: errors.New("milvus down")}
	s := NewAskService(retriever, &fakeLLM{})

	_, err := s.Ask(context.Background(), 1, 1, []int64{1}, "问题")

	assert.Error(t, err)
}
