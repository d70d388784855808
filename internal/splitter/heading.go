package splitter

import "strings"

// HeadingSplitter 按 Markdown 二级标题（"##" 前缀）切分文本。
// 每个分块覆盖从一个标题行到下一个标题行之前的全部内容，
// 并以 "SourceTag---标题行" 开头，保留分块的来源出处。
// 首个标题之前的内容没有归属标题，被丢弃。
type HeadingSplitter struct {
	// SourceTag 是写进每个分块头部的来源标签，通常为 "父目录---文件名"。
	SourceTag string
}

// Split 切分文本。没有任何标题的文本产出零个分块。
func (s *HeadingSplitter) Split(text string) []string {
	var chunks []string
	var current strings.Builder
	inSection := false

	for _, line := range strings.SplitAfter(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "##") {
			if inSection {
				chunks = append(chunks, current.String())
				current.Reset()
			}
			inSection = true
			current.WriteString(s.SourceTag + "---" + trimmed + "\n")
			continue
		}
		if inSection {
			current.WriteString(line)
		}
	}
	if inSection {
		chunks = append(chunks, current.String())
	}
	return chunks
}
