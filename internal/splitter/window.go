package splitter

import (
	"regexp"
	"strings"
)

const (
	defaultWindowSize = 100
	defaultOverlap    = 30
)

// 匹配形如 `c:\path\to\pic.png` 的本地图片引用，直到引号或空白为止。
var imageRefPattern = regexp.MustCompile(`(?i)[a-z]:[^"\s]*?\.(?:png|jpe?g|gif)`)

// WindowSplitter 按固定长度的滑动窗口切分文本，相邻窗口之间保留重叠。
// 长度和位置都以 rune 计，多字节文字不会被从中间截断。
// 文本中的图片引用被视为不可分割的整体：窗口边界落在引用内部时会被
// 推移到引用之后，保证引用永远不会被切断。
// 首个 "##" 之前的内容作为标题前缀写进每个分块；没有 "##" 则前缀为空。
type WindowSplitter struct {
	windowSize int
	overlap    int
}

// NewWindowSplitter 创建滑动窗口切分器。
// 非法参数（窗口不为正、重叠为负或不小于窗口）回落到默认值 100/30。
func NewWindowSplitter(windowSize, overlap int) *WindowSplitter {
	if windowSize <= 0 {
		windowSize = defaultWindowSize
	}
	if overlap < 0 || overlap >= windowSize {
		overlap = defaultOverlap
		if overlap >= windowSize {
			overlap = windowSize - 1
		}
	}
	return &WindowSplitter{windowSize: windowSize, overlap: overlap}
}

// Split 切分文本。空文本产出零个分块。
func (s *WindowSplitter) Split(text string) []string {
	if text == "" {
		return nil
	}

	runes := []rune(text)
	n := len(runes)
	spans := imageSpans(text)

	title := ""
	if idx := strings.Index(text, "##"); idx >= 0 {
		title = text[:idx]
	}

	step := s.windowSize - s.overlap
	var chunks []string
	start := 0
	for start < n {
		// 起点落在图片引用内时把游标本身推进到引用结束，
		// 引用之后的内容只会产出一次
		if span, ok := containing(spans, start); ok {
			start = span[1]
			if start >= n {
				break
			}
		}
		end := start + s.windowSize
		if end > n {
			end = n
		}
		// 终点落在图片引用内时延伸到引用结束
		if span, ok := containing(spans, end); ok {
			end = span[1]
			if end > n {
				end = n
			}
		}
		chunks = append(chunks, title+string(runes[start:end]))
		start += step
	}
	return chunks
}

// imageSpans 返回文本中所有图片引用的 [起, 止) rune 区间，按起点升序。
func imageSpans(text string) [][2]int {
	matches := imageRefPattern.FindAllStringIndex(text, -1)
	if len(matches) == 0 {
		return nil
	}
	// 正则返回字节偏移，这里换算成 rune 偏移
	byteToRune := make(map[int]int, len(matches)*2)
	for _, m := range matches {
		byteToRune[m[0]] = 0
		byteToRune[m[1]] = 0
	}
	runeIdx := 0
	for byteIdx := range text {
		if _, ok := byteToRune[byteIdx]; ok {
			byteToRune[byteIdx] = runeIdx
		}
		runeIdx++
	}
	if _, ok := byteToRune[len(text)]; ok {
		byteToRune[len(text)] = runeIdx
	}

	spans := make([][2]int, 0, len(matches))
	for _, m := range matches {
		spans = append(spans, [2]int{byteToRune[m[0]], byteToRune[m[1]]})
	}
	return spans
}

// containing 返回覆盖位置 pos 的区间。起点含、止点不含。
func containing(spans [][2]int, pos int) ([2]int, bool) {
	for _, span := range spans {
		if pos >= span[0] && pos < span[1] {
			return span, true
		}
	}
	return [2]int{}, false
}
