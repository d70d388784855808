// Package milvus 封装了对 Milvus 向量数据库的集合管理、分区写入与过滤检索。
//
// 每个用户对应集合下的一个独立分区（分区名即 user_id 的十进制字符串），
// 所有读写都限定在该用户的分区内，这是系统唯一的用户数据隔离机制。
package milvus

import (
	"context"
	"fmt"
	"notebooklm-go/internal/config"
	"notebooklm-go/pkg/log"
	"strconv"

	"github.com/milvus-io/milvus-sdk-go/v2/client"
	"github.com/milvus-io/milvus-sdk-go/v2/entity"
)

const (
	vectorField  = "embedding"
	textField    = "text"
	maxTextBytes = 64000
)

// Record 是插入向量库的类型化记录。
// 调用方保证 Embedding 已由向量化服务生成，Store 不会触发向量化。
type Record struct {
	TopicID   int64
	FileID    int64
	Embedding []float32
	Text      string
}

// ScoredChunk 是一条检索命中：分块文本与内积相似度分数。
type ScoredChunk struct {
	Text  string
	Score float32
}

// Store 持有 Milvus 连接与集合配置。
// 它由进程入口显式构造并注入，进程退出时调用 Close 断开连接。
type Store struct {
	cli client.Client
	cfg config.MilvusConfig
}

// NewStore 建立到 Milvus 的连接并返回 Store。
func NewStore(ctx context.Context, cfg config.MilvusConfig) (*Store, error) {
	cli, err := client.NewClient(ctx, client.Config{
		Address:  cfg.Address,
		Username: cfg.Username,
		Password: cfg.Password,
		DBName:   cfg.DBName,
	})
	if err != nil {
		return nil, fmt.Errorf("连接 Milvus 失败: %w", err)
	}
	return &Store{cli: cli, cfg: cfg}, nil
}

// Close 断开与 Milvus 的连接。
func (s *Store) Close() error {
	return s.cli.Close()
}

// Collection 返回配置的集合名。
func (s *Store) Collection() string {
	return s.cfg.Collection
}

// partitionName 是分区命名的唯一出处：user_id 的十进制字符串。
func partitionName(userID uint) string {
	return strconv.FormatUint(uint64(userID), 10)
}

// RebuildCollection 删除并重建集合。已存在的集合连同其全部数据被丢弃，
// 不可恢复，因此只允许由显式的管理入口调用，绝不能出现在入库或检索路径上。
func (s *Store) RebuildCollection(ctx context.Context) error {
	name := s.cfg.Collection

	has, err := s.cli.HasCollection(ctx, name)
	if err != nil {
		return fmt.Errorf("检查集合 '%s' 失败: %w", name, err)
	}
	if has {
		log.Warnf("[Milvus] 集合 '%s' 已存在，正在删除重建", name)
		if err := s.cli.DropCollection(ctx, name); err != nil {
			return fmt.Errorf("删除集合 '%s' 失败: %w", name, err)
		}
	}

	schema := entity.NewSchema().WithName(name).WithAutoID(true).
		WithField(entity.NewField().WithName("id").WithDataType(entity.FieldTypeInt64).WithIsPrimaryKey(true).WithIsAutoID(true)).
		WithField(entity.NewField().WithName(FieldTopicID).WithDataType(entity.FieldTypeInt64)).
		WithField(entity.NewField().WithName(FieldFileID).WithDataType(entity.FieldTypeInt64)).
		WithField(entity.NewField().WithName(vectorField).WithDataType(entity.FieldTypeFloatVector).WithDim(int64(s.cfg.Dimension))).
		WithField(entity.NewField().WithName(textField).WithDataType(entity.FieldTypeVarChar).WithMaxLength(maxTextBytes))

	if err := s.cli.CreateCollection(ctx, schema, 1, client.WithConsistencyLevel(entity.ClStrong)); err != nil {
		return fmt.Errorf("创建集合 '%s' 失败: %w", name, err)
	}

	idx, err := entity.NewIndexAUTOINDEX(entity.IP)
	if err != nil {
		return fmt.Errorf("构造 AUTOINDEX 失败: %w", err)
	}
	if err := s.cli.CreateIndex(ctx, name, vectorField, idx, false); err != nil {
		return fmt.Errorf("创建向量索引失败: %w", err)
	}

	if err := s.cli.LoadCollection(ctx, name, false); err != nil {
		return fmt.Errorf("加载集合 '%s' 失败: %w", name, err)
	}

	log.Infof("[Milvus] 集合 '%s' 重建完成, dim=%d", name, s.cfg.Dimension)
	return nil
}

// EnsurePartition 确保用户分区存在。分区在首次写入时惰性创建，已存在则为 no-op。
func (s *Store) EnsurePartition(ctx context.Context, userID uint) error {
	partition := partitionName(userID)

	has, err := s.cli.HasPartition(ctx, s.cfg.Collection, partition)
	if err != nil {
		return fmt.Errorf("检查分区 '%s' 失败: %w", partition, err)
	}
	if has {
		return nil
	}

	if err := s.cli.CreatePartition(ctx, s.cfg.Collection, partition); err != nil {
		return fmt.Errorf("创建分区 '%s' 失败: %w", partition, err)
	}
	log.Infof("[Milvus] 分区 '%s' 创建成功", partition)
	return nil
}

// InsertBatch 将一批记录追加到用户分区。
func (s *Store) InsertBatch(ctx context.Context, userID uint, records []Record) error {
	if len(records) == 0 {
		return nil
	}

	topicIDs := make([]int64, 0, len(records))
	fileIDs := make([]int64, 0, len(records))
	vectors := make([][]float32, 0, len(records))
	texts := make([]string, 0, len(records))
	for i, r := range records {
		if err := r.validate(s.cfg.Dimension); err != nil {
			return fmt.Errorf("第 %d 条记录非法: %w", i, err)
		}
		topicIDs = append(topicIDs, r.TopicID)
		fileIDs = append(fileIDs, r.FileID)
		vectors = append(vectors, r.Embedding)
		texts = append(texts, r.Text)
	}

	_, err := s.cli.Insert(ctx, s.cfg.Collection, partitionName(userID),
		entity.NewColumnInt64(FieldTopicID, topicIDs),
		entity.NewColumnInt64(FieldFileID, fileIDs),
		entity.NewColumnFloatVector(vectorField, s.cfg.Dimension, vectors),
		entity.NewColumnVarChar(textField, texts),
	)
	if err != nil {
		return fmt.Errorf("插入分区 '%s' 失败: %w", partitionName(userID), err)
	}
	return nil
}

func (r Record) validate(dim int) error {
	if len(r.Embedding) != dim {
		return fmt.Errorf("向量维度 %d 与集合维度 %d 不符", len(r.Embedding), dim)
	}
	if len(r.Text) > maxTextBytes {
		return fmt.Errorf("文本长度 %d 超过上限 %d", len(r.Text), maxTextBytes)
	}
	return nil
}

// Search 在用户分区内执行内积相似度检索，按分数从高到低返回最多 limit 条命中。
// 检索永远不会跨出指定分区。
func (s *Store) Search(ctx context.Context, userID uint, vector []float32, filter Filter, limit int) ([]ScoredChunk, error) {
	sp, err := entity.NewIndexAUTOINDEXSearchParam(1)
	if err != nil {
		return nil, fmt.Errorf("构造检索参数失败: %w", err)
	}

	results, err := s.cli.Search(ctx,
		s.cfg.Collection,
		[]string{partitionName(userID)},
		filter.Render(),
		[]string{textField},
		[]entity.Vector{entity.FloatVector(vector)},
		vectorField,
		entity.IP,
		limit,
		sp,
	)
	if err != nil {
		return nil, fmt.Errorf("检索分区 '%s' 失败: %w", partitionName(userID), err)
	}

	var chunks []ScoredChunk
	for _, result := range results {
		col := result.Fields.GetColumn(textField)
		if col == nil {
			continue
		}
		textCol, ok := col.(*entity.ColumnVarChar)
		if !ok {
			return nil, fmt.Errorf("字段 '%s' 类型异常", textField)
		}
		for i, text := range textCol.Data() {
			if i >= len(result.Scores) {
				break
			}
			chunks = append(chunks, ScoredChunk{Text: text, Score: result.Scores[i]})
		}
	}
	return chunks, nil
}

// DeleteByFilter 删除用户分区内所有匹配过滤器的记录。
// 分区不存在时记录告警并返回 nil（用户从未入库过数据）。
func (s *Store) DeleteByFilter(ctx context.Context, userID uint, filter Filter) error {
	partition := partitionName(userID)

	has, err := s.cli.HasPartition(ctx, s.cfg.Collection, partition)
	if err != nil {
		return fmt.Errorf("检查分区 '%s' 失败: %w", partition, err)
	}
	if !has {
		log.Warnf("[Milvus] 分区 '%s' 不存在，跳过删除 (expr=%s)", partition, filter.Render())
		return nil
	}

	if err := s.cli.Delete(ctx, s.cfg.Collection, partition, filter.Render()); err != nil {
		return fmt.Errorf("删除分区 '%s' 内记录失败: %w", partition, err)
	}
	return nil
}
