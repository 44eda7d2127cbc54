// Package optional 提供稀疏更新使用的三态字段：未提供 / 显式 null / 有值。
package optional

import (
	"bytes"
	"encoding/json"
)

// Value 请求体中的可选字段
//
//	{}               → Set=false
//	{"f": null}      → Set=true, Null=true
//	{"f": <value>}   → Set=true, Null=false, V=<value>
type Value[T any] struct {
	Set  bool
	Null bool
	V    T
}

// Of 构造一个有值的字段
func Of[T any](v T) Value[T] {
	return Value[T]{Set: true, V: v}
}

// Null 构造一个显式置空的字段
func Null[T any]() Value[T] {
	return Value[T]{Set: true, Null: true}
}

// HasValue 字段被提供且非 null
func (o Value[T]) HasValue() bool {
	return o.Set && !o.Null
}

// Ptr 有值时返回指针，未提供或 null 时返回 nil
func (o Value[T]) Ptr() *T {
	if !o.HasValue() {
		return nil
	}
	v := o.V
	return &v
}

// UnmarshalJSON 仅在键出现时被 encoding/json 调用，因此能区分“缺省”与“null”
func (o *Value[T]) UnmarshalJSON(data []byte) error {
	o.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		o.Null = true
		var zero T
		o.V = zero
		return nil
	}
	o.Null = false
	return json.Unmarshal(data, &o.V)
}

// MarshalJSON 未提供或 null 时输出 null
func (o Value[T]) MarshalJSON() ([]byte, error) {
	if !o.HasValue() {
		return []byte("null"), nil
	}
	return json.Marshal(o.V)
}
