package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"notebooklm-go/internal/splitter"
	"notebooklm-go/pkg/log"
)

// 代码文件按顶层函数边界切分。
var funcBoundaryPattern = regexp.MustCompile(`(?m)^(func|def) `)

// SkippedFile 记录扫描中被跳过的文件及原因。
type SkippedFile struct {
	Path string `json:"path"`
	Err  string `json:"err"`
}

// ScanReport 汇总一次目录扫描的结果。
type ScanReport struct {
	Documents int           `json:"documents"`
	Chunks    int           `json:"chunks"`
	Skipped   []SkippedFile `json:"skipped,omitempty"`
}

// FileRegistrar 为扫描到的文档登记文件元数据，返回分块应携带的文件 ID。
// 登记让种子文档出现在文件列表里，检索的 file_id 过滤才能命中它们。
type FileRegistrar interface {
	Register(ctx context.Context, userID uint, topicID int64, path string) (int64, error)
}

// Scanner 扫描本地知识库目录并把文档入库到指定用户分区。
type Scanner struct {
	ingestor  *Ingestor
	registrar FileRegistrar
}

// NewScanner 创建目录扫描器。registrar 为 nil 时分块的文件 ID 为 0。
func NewScanner(ingestor *Ingestor, registrar FileRegistrar) *Scanner {
	return &Scanner{ingestor: ingestor, registrar: registrar}
}

// ScanDirectory 递归扫描 root 下的知识库文件并入库。
// Markdown 按标题切分，来源标签为 "父目录---文件名"；Go/Python 源码按
// 顶层函数边界切分。其它扩展名、读取失败和入库失败的文件记入 Skipped，
// 扫描继续，不因单个文件中断。
func (s *Scanner) ScanDirectory(ctx context.Context, root string, userID uint, topicID int64) (ScanReport, error) {
	var report ScanReport

	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			report.Skipped = append(report.Skipped, SkippedFile{Path: path, Err: err.Error()})
			return nil
		}
		if info.IsDir() {
			return nil
		}

		ext := strings.ToLower(filepath.Ext(path))
		var sp splitter.Splitter
		switch ext {
		case ".md", ".markdown":
			tag := filepath.Base(filepath.Dir(path)) + "---" + filepath.Base(path)
			sp = &splitter.HeadingSplitter{SourceTag: tag}
		case ".go", ".py":
			sp = &codeSplitter{}
		default:
			return nil
		}

		content, err := os.ReadFile(path)
		if err != nil {
			report.Skipped = append(report.Skipped, SkippedFile{Path: path, Err: err.Error()})
			return nil
		}

		fileID := int64(0)
		if s.registrar != nil {
			fileID, err = s.registrar.Register(ctx, userID, topicID, path)
			if err != nil {
				report.Skipped = append(report.Skipped, SkippedFile{Path: path, Err: err.Error()})
				return nil
			}
		}

		chunks, err := s.ingestor.Ingest(ctx, userID, topicID, fileID, string(content), sp)
		if err != nil {
			report.Skipped = append(report.Skipped, SkippedFile{Path: path, Err: err.Error()})
			return nil
		}

		report.Documents++
		report.Chunks += chunks
		return nil
	})
	if err != nil {
		return report, err
	}

	log.Infof("[Scan] 目录扫描完成: root=%s, documents=%d, chunks=%d, skipped=%d",
		root, report.Documents, report.Chunks, len(report.Skipped))
	return report, nil
}

// codeSplitter 按顶层函数定义的起始行切分源码。
// 首个函数之前的内容（包、导入等）归入第一个分块。
type codeSplitter struct{}

func (c *codeSplitter) Split(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	bounds := funcBoundaryPattern.FindAllStringIndex(text, -1)
	if len(bounds) == 0 {
		return []string{text}
	}

	var chunks []string
	prev := 0
	for i, b := range bounds {
		if i == 0 {
			// 首个函数之前的内容并入第一个分块
			continue
		}
		chunks = append(chunks, text[prev:b[0]])
		prev = b[0]
	}
	chunks = append(chunks, text[prev:])
	return chunks
}
