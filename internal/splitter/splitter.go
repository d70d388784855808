// Package splitter 负责把原始文档文本切分为可向量化的分块。
package splitter

// Splitter 把一篇文档文本切分为若干分块，顺序与原文一致。
type Splitter interface {
	Split(text string) []string
}
