package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestScanner_ScanDirectory(t *testing.T) {
	root := t.TempDir()
	sub := filepath.Join(root, "guides")
	require.NoError(t, os.Mkdir(sub, 0o755))

	writeFile(t, sub, "intro.md", "## A\none\n## B\ntwo\n")
	writeFile(t, root, "tool.go", "package main\n\nfunc a() {}\n\nfunc b() {}\n")
	writeFile(t, root, "notes.txt", "ignored entirely")

	embedder := &fakeEmbedder{}
	store := &fakeStore{}
	scanner := NewScanner(NewIngestor(embedder, store, 0), nil)

	report, err := scanner.ScanDirectory(context.Background(), root, 1, 42)

	require.NoError(t, err)
	assert.Equal(t, 2, report.Documents)
	// intro.md 两个标题分块，tool.go 两个函数分块
	assert.Equal(t, 4, report.Chunks)
	assert.Empty(t, report.Skipped)

	var texts []string
	for _, batch := range store.batches {
		for _, rec := range batch {
			texts = append(texts, rec.Text)
		}
	}
	assert.Contains(t, texts, "guides---intro.md---## A\none\n")
	assert.Contains(t, texts, "guides---intro.md---## B\ntwo\n")
}

type fakeRegistrar struct {
	next  int64
	paths []string
}

func (f *fakeRegistrar) Register(_ context.Context, _ uint, _ int64, path string) (int64, error) {
	f.next++
	f.paths = append(f.paths, path)
	return f.next, nil
}

func TestScanner_RegistersFileIDs(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.md", "## A\none\n")
	writeFile(t, root, "b.md", "## B\ntwo\n")

	store := &fakeStore{}
	registrar := &fakeRegistrar{}
	scanner := NewScanner(NewIngestor(&fakeEmbedder{}, store, 0), registrar)

	report, err := scanner.ScanDirectory(context.Background(), root, 1, 42)

	require.NoError(t, err)
	assert.Equal(t, 2, report.Documents)
	assert.Len(t, registrar.paths, 2)

	// 每个文档的分块都携带登记得到的文件 ID，而非 0
	ids := map[int64]bool{}
	for _, batch := range store.batches {
		for _, rec := range batch {
			ids[rec.FileID] = true
		}
	}
	assert.Equal(t, map[int64]bool{1: true, 2: true}, ids)
}

func TestCodeSplitter_Split(t *testing.T) {
	sp := &codeSplitter{}

	chunks := sp.Split("package main\n\nfunc a() {\n}\n\nfunc b() {\n}\n")

	require.Len(t, chunks, 2)
	// 首个函数之前的包声明并入第一个分块
	assert.Equal(t, "package main\n\nfunc a() {\n}\n\n", chunks[0])
	assert.Equal(t, "func b() {\n}\n", chunks[1])
}

func TestCodeSplitter_NoFunctions(t *testing.T) {
	sp := &codeSplitter{}

	chunks := sp.Split("x = 1\ny = 2\n")

	require.Len(t, chunks, 1)
	assert.Equal(t, "x = 1\ny = 2\n", chunks[0])
}
