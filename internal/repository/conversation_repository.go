package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"notebooklm-go/internal/model"
	"time"

	"github.com/go-redis/redis/v8"
)

// 对话历史保留上限与过期时间。
const (
	historyMaxMessages = 50
	historyTTL         = 7 * 24 * time.Hour
)

// ConversationRepository 定义了对话历史的访问接口，历史按用户和主题存放。
type ConversationRepository interface {
	Append(ctx context.Context, userID, topicID uint, message model.ChatMessage) error
	History(ctx context.Context, userID, topicID uint) ([]model.ChatMessage, error)
	Clear(ctx context.Context, userID, topicID uint) error
}

type conversationRepository struct {
	rdb *redis.Client
}

// NewConversationRepository 创建一个对话历史仓库实例。
func NewConversationRepository(rdb *redis.Client) ConversationRepository {
	return &conversationRepository{rdb: rdb}
}

func historyKey(userID, topicID uint) string {
	return fmt.Sprintf("conversation:%d:%d", userID, topicID)
}

func (r *conversationRepository) Append(ctx context.Context, userID, topicID uint, message model.ChatMessage) error {
	data, err := json.Marshal(message)
	if err != nil {
		return err
	}
	key := historyKey(userID, topicID)
	pipe := r.rdb.TxPipeline()
	pipe.RPush(ctx, key, data)
	pipe.LTrim(ctx, key, -historyMaxMessages, -1)
	pipe.Expire(ctx, key, historyTTL)
	_, err = pipe.Exec(ctx)
	return err
}

func (r *conversationRepository) History(ctx context.Context, userID, topicID uint) ([]model.ChatMessage, error) {
	items, err := r.rdb.LRange(ctx, historyKey(userID, topicID), 0, -1).Result()
	if err != nil {
		return nil, err
	}
	messages := make([]model.ChatMessage, 0, len(items))
	for _, item := range items {
		var msg model.ChatMessage
		if err := json.Unmarshal([]byte(item), &msg); err != nil {
			continue
		}
		messages = append(messages, msg)
	}
	return messages, nil
}

func (r *conversationRepository) Clear(ctx context.Context, userID, topicID uint) error {
	return r.rdb.Del(ctx, historyKey(userID, topicID)).Err()
}
