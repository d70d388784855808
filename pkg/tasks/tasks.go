// Package tasks 定义了投递到 Kafka 的任务结构。
package tasks

// FileIngestTask 描述一个待向量化入库的已上传文件。
type FileIngestTask struct {
	UserID    uint   `json:"user_id"`
	TopicID   uint   `json:"topic_id"`
	FileID    uint   `json:"file_id"`
	ObjectKey string `json:"object_key"`
	FileName  string `json:"file_name"`
}
