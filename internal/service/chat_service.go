package service

import (
	"bytes"
	"context"
	"fmt"
	"notebooklm-go/internal/model"
	"notebooklm-go/internal/repository"
	"notebooklm-go/pkg/llm"
	"notebooklm-go/pkg/log"
	"notebooklm-go/pkg/token"
	"strconv"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
)

const (
	ticketTTL          = time.Minute
	chatSystemPrompt   = "你是一個友善的學習助手，請用清晰易懂的中文回答使用者的問題。"
	chatHistoryContext = 20
)

// ChatService 实现主题内的流式聊天：短时票据换取 WebSocket 连接，
// 对话历史存放在 Redis，回答以流式分块推送。
type ChatService struct {
	llm           llm.Client
	conversations repository.ConversationRepository
	rdb           *redis.Client
}

// NewChatService 创建聊天服务。
func NewChatService(llmClient llm.Client, conversations repository.ConversationRepository, rdb *redis.Client) *ChatService {
	return &ChatService{llm: llmClient, conversations: conversations, rdb: rdb}
}

func ticketKey(ticket string) string {
	return "ws:ticket:" + ticket
}

// IssueTicket 为已认证用户颁发一张一次性的 WebSocket 连接票据。
// 票据一分钟内有效，兑换即销毁。
func (s *ChatService) IssueTicket(ctx context.Context, userID, topicID uint) (string, error) {
	ticket := token.GenerateRandomString(16)
	value := fmt.Sprintf("%d:%d", userID, topicID)
	if err := s.rdb.Set(ctx, ticketKey(ticket), value, ticketTTL).Err(); err != nil {
		return "", err
	}
	return ticket, nil
}

// RedeemTicket 兑换票据，返回其绑定的用户与主题。票据只能兑换一次。
func (s *ChatService) RedeemTicket(ctx context.Context, ticket string) (userID, topicID uint, err error) {
	value, err := s.rdb.GetDel(ctx, ticketKey(ticket)).Result()
	if err != nil {
		return 0, 0, ErrInvalidToken
	}
	parts := strings.SplitN(value, ":", 2)
	if len(parts) != 2 {
		return 0, 0, ErrInvalidToken
	}
	uid, err := strconv.ParseUint(parts[0], 10, 64)
	if err != nil {
		return 0, 0, ErrInvalidToken
	}
	tid, err := strconv.ParseUint(parts[1], 10, 64)
	if err != nil {
		return 0, 0, ErrInvalidToken
	}
	return uint(uid), uint(tid), nil
}

// answerRecorder 在转发流式分块的同时拼接完整回答，
// 流结束后写入对话历史。
type answerRecorder struct {
	inner llm.MessageWriter
	buf   bytes.Buffer
}

func (r *answerRecorder) WriteMessage(messageType int, data []byte) error {
	r.buf.Write(data)
	return r.inner.WriteMessage(messageType, data)
}

// StreamAnswer 把用户消息连同近期历史发给模型，并将回答流式写回连接。
// 历史在回答完整结束后才落库，中途断开的回答不会进入历史。
func (s *ChatService) StreamAnswer(ctx context.Context, userID, topicID uint, question string, conn llm.MessageWriter) error {
	history, err := s.conversations.History(ctx, userID, topicID)
	if err != nil {
		log.Warnf("[Chat] 读取对话历史失败: userID=%d, topicID=%d, err=%v", userID, topicID, err)
		history = nil
	}
	if len(history) > chatHistoryContext {
		history = history[len(history)-chatHistoryContext:]
	}

	messages := make([]llm.Message, 0, len(history)+2)
	messages = append(messages, llm.Message{Role: "system", Content: chatSystemPrompt})
	for _, msg := range history {
		messages = append(messages, llm.Message{Role: msg.Role, Content: msg.Content})
	}
	messages = append(messages, llm.Message{Role: "user", Content: question})

	recorder := &answerRecorder{inner: conn}
	if err := s.llm.StreamChatMessages(ctx, messages, nil, recorder); err != nil {
		return err
	}

	now := time.Now().Unix()
	if err := s.conversations.Append(ctx, userID, topicID, model.ChatMessage{
		Role: "user", Content: question, Timestamp: now,
	}); err != nil {
		log.Warnf("[Chat] 写入对话历史失败: %v", err)
	}
	if err := s.conversations.Append(ctx, userID, topicID, model.ChatMessage{
		Role: "assistant", Content: recorder.buf.String(), Timestamp: now,
	}); err != nil {
		log.Warnf("[Chat] 写入对话历史失败: %v", err)
	}
	return nil
}

// History 返回主题下的对话历史。
func (s *ChatService) History(ctx context.Context, userID, topicID uint) ([]model.ChatMessage, error) {
	return s.conversations.History(ctx, userID, topicID)
}

// ClearHistory 清空主题下的对话历史。
func (s *ChatService) ClearHistory(ctx context.Context, userID, topicID uint) error {
	return s.conversations.Clear(ctx, userID, topicID)
}
