package milvus

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilterRender(t *testing.T) {
	f := And(
		Eq(FieldTopicID, 3),
		In(FieldFileID, []int64{5, 8}),
	)

	assert.Equal(t, "topic_id == 3 && file_id in [5, 8]", f.Render())
}

func TestFilterRender_SinglePredicate(t *testing.T) {
	assert.Equal(t, "topic_id == 42", And(Eq(FieldTopicID, 42)).Render())
}

func TestFilterRender_EmptyInList(t *testing.T) {
	// 空列表表达式不命中任何记录
	assert.Equal(t, "file_id in []", And(In(FieldFileID, nil)).Render())
}

func TestFilterRender_Empty(t *testing.T) {
	assert.Equal(t, "", And().Render())
}
