package splitter

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWindowSplitter_Split(t *testing.T) {
	s := NewWindowSplitter(4, 2)

	chunks := s.Split("ABCDEFGHIJ")

	assert.Equal(t, []string{"ABCD", "CDEF", "EFGH", "GHIJ", "IJ"}, chunks)
}

func TestWindowSplitter_Empty(t *testing.T) {
	s := NewWindowSplitter(4, 2)

	assert.Empty(t, s.Split(""))
}

func TestWindowSplitter_TitlePrefix(t *testing.T) {
	s := NewWindowSplitter(6, 0)

	chunks := s.Split("T1\n## ABC")

	// "##" 之前的内容作为标题前缀写进每个分块
	assert.Len(t, chunks, 2)
	assert.Equal(t, "T1\nT1\n## ", chunks[0])
	assert.Equal(t, "T1\nABC", chunks[1])
}

func TestWindowSplitter_NoTitleWithoutHeading(t *testing.T) {
	s := NewWindowSplitter(3, 0)

	chunks := s.Split("abcdef")

	assert.Equal(t, []string{"abc", "def"}, chunks)
}

func TestWindowSplitter_ImageRefStaysWhole(t *testing.T) {
	s := NewWindowSplitter(5, 0)

	chunks := s.Split(`ABCDEC:\x.png1234`)

	// 终点落在图片路径内时延伸到路径结束；起点落在内时游标推进到路径之后
	assert.Equal(t, []string{`ABCDEC:\x.png`, "1234"}, chunks)
}

func TestWindowSplitter_WideImageRefEmitsTailOnce(t *testing.T) {
	s := NewWindowSplitter(4, 0)

	chunks := s.Split(`ABc:\a.pngXY`)

	// 图片路径比步长宽时，路径之后的文本只产出一次
	assert.Equal(t, []string{`ABc:\a.png`, "XY"}, chunks)
}

func TestWindowSplitter_EndAtImageRefStart(t *testing.T) {
	s := NewWindowSplitter(3, 0)

	chunks := s.Split(`ABCc:\x.pngZ`)

	// 终点正好落在图片路径首字符上时同样延伸，路径不被截断
	assert.Equal(t, []string{`ABCc:\x.png`, "Z"}, chunks)
}

func TestWindowSplitter_MultiByteRunes(t *testing.T) {
	s := NewWindowSplitter(4, 2)

	chunks := s.Split("一二三四五六")

	assert.Equal(t, []string{"一二三四", "三四五六", "五六"}, chunks)
}

func TestNewWindowSplitter_NormalizesInvalidParams(t *testing.T) {
	s := NewWindowSplitter(0, -1)

	assert.Equal(t, defaultWindowSize, s.windowSize)
	assert.Equal(t, defaultOverlap, s.overlap)

	s = NewWindowSplitter(10, 10)
	assert.Equal(t, 10, s.windowSize)
	assert.Less(t, s.overlap, s.windowSize)
}
