package service

import (
	"context"
	"fmt"
	"notebooklm-go/pkg/llm"
	"notebooklm-go/pkg/log"
	"notebooklm-go/pkg/milvus"
	"strings"
)

// 问答流程的固定回复。
const (
	ReplyNoSources  = "請至少選擇一項參考來源"
	ReplyNoQuestion = "您想問甚麼呢?"
	ReplyNoContent  = "選取檔案內沒有相關內容"
	ReplyNotFound   = "找不到相關資訊"
)

const relevanceSystemPrompt = "你是一個專業的資訊分析員，負責判斷問題是否與提供的上下文有關。請僅回傳 'True' 或 'False'。"

const relevanceUserPromptTemplate = `請根據以下內容進行判斷：

<context>
%s
</context>

<question>
%s
</question>

請問：<question> 中的問題，是否可以根據 <context> 的內容回答？

如果：
- 問題與 context 內容有關、可找到答案 → 請回傳 True
- 問題與 context 無關、找不到對應資訊 → 請回傳 False

請注意：
- 不需要說明理由或提供額外資訊。
- 僅允許輸出 'True' 或 'False'。`

const answerSystemPrompt = "你是一個專業的資訊整理員，請根據提供的上下文列出並整理所有符合的相似要點，並以清晰易懂的中文回答。"

const answerUserPromptTemplate = `請根據以下<context>中的資訊，回答<question>中的問題。

<context>
%s
</context>

<question>
%s
</question>

請求：
- 只根據<context>提供的內容回答(包含圖片路徑)。
- 若無相關資訊，請回覆「找不到相關資訊」。
- 請使用條列式或分段方式，讓回答清晰易讀。`

// 判定与作答各自使用固定温度：判定拉高随机性避免模型偷懒一律回 True，
// 作答压低随机性保证忠实于上下文。
const (
	relevanceTemperature = 1.5
	answerTemperature    = 0.3
)

// ContextRetriever 在用户分区内检索与问题相关的分块。
type ContextRetriever interface {
	Retrieve(ctx context.Context, userID uint, topicID int64, fileIDs []int64, question string) ([]milvus.ScoredChunk, error)
}

// AskService 实现基于所选参考文件的问答：检索相关分块，先判定
// 上下文能否回答问题，能则生成整理后的回答。
type AskService struct {
	retriever ContextRetriever
	llm       llm.Client
}

// NewAskService 创建问答服务。
func NewAskService(retriever ContextRetriever, llmClient llm.Client) *AskService {
	return &AskService{retriever: retriever, llm: llmClient}
}

// Ask 回答用户针对所选文件提出的问题。
// 未选文件、空问题、检索无结果与判定不相关时返回对应的固定回复，
// 这些情况都不算错误。
func (s *AskService) Ask(ctx context.Context, userID uint, topicID int64, fileIDs []int64, question string) (string, error) {
	if len(fileIDs) == 0 {
		return ReplyNoSources, nil
	}
	if strings.TrimSpace(question) == "" {
		return ReplyNoQuestion, nil
	}

	chunks, err := s.retriever.Retrieve(ctx, userID, topicID, fileIDs, question)
	if err != nil {
		return "", err
	}
	if len(chunks) == 0 {
		return ReplyNoContent, nil
	}

	var sb strings.Builder
	for _, c := range chunks {
		sb.WriteString(c.Text)
		sb.WriteString("\n")
	}
	contextText := sb.String()

	verdict, err := s.llm.Chat(ctx, []llm.Message{
		{Role: "system", Content: relevanceSystemPrompt},
		{Role: "user", Content: fmt.Sprintf(relevanceUserPromptTemplate, contextText, question)},
	}, relevanceTemperature)
	if err != nil {
		return "", err
	}
	if strings.Contains(verdict, "False") {
		log.Infof("[Ask] 判定上下文无法回答问题: userID=%d, topicID=%d", userID, topicID)
		return ReplyNotFound, nil
	}

	answer, err := s.llm.Chat(ctx, []llm.Message{
		{Role: "system", Content: answerSystemPrompt},
		{Role: "user", Content: fmt.Sprintf(answerUserPromptTemplate, contextText, question)},
	}, answerTemperature)
	if err != nil {
		return "", err
	}
	return answer, nil
}
