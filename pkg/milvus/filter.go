package milvus

import (
	"strconv"
	"strings"
)

// 可用于过滤表达式的标量字段。
const (
	FieldTopicID = "topic_id"
	FieldFileID  = "file_id"
)

// Predicate 是对单个标量字段的比较条件。
// 值只接受 int64，渲染时不存在未转义内容被拼入表达式的可能。
type Predicate struct {
	field  string
	op     string
	values []int64
}

// Eq 构造一个 `field == value` 条件。
func Eq(field string, value int64) Predicate {
	return Predicate{field: field, op: "==", values: []int64{value}}
}

// In 构造一个 `field in [v1, v2, ...]` 条件。
// 空列表渲染为 `field in []`，在 Milvus 中不命中任何记录。
func In(field string, values []int64) Predicate {
	return Predicate{field: field, op: "in", values: values}
}

// Render 将条件渲染为 Milvus 布尔表达式片段。
func (p Predicate) Render() string {
	if p.op == "in" {
		items := make([]string, 0, len(p.values))
		for _, v := range p.values {
			items = append(items, strconv.FormatInt(v, 10))
		}
		return p.field + " in [" + strings.Join(items, ", ") + "]"
	}
	return p.field + " " + p.op + " " + strconv.FormatInt(p.values[0], 10)
}

// Filter 是若干条件的合取。
type Filter struct {
	predicates []Predicate
}

// And 将若干条件组合为一个合取过滤器。
func And(predicates ...Predicate) Filter {
	return Filter{predicates: predicates}
}

// Render 将过滤器渲染为 Milvus 布尔表达式，空过滤器渲染为空串（不过滤）。
func (f Filter) Render() string {
	parts := make([]string, 0, len(f.predicates))
	for _, p := range f.predicates {
		parts = append(parts, p.Render())
	}
	return strings.Join(parts, " && ")
}
