package errors

import (
	"errors"
	"sort"
	"strings"
)

// ErrValidation 所有字段级校验错误的哨兵，便于 errors.Is 判断
var ErrValidation = errors.New("参数校验失败")

// ValidationError 字段级校验错误：field → 错误说明
type ValidationError struct {
	Fields map[string]string
}

// NewValidationError 创建仅包含一个字段错误的 ValidationError
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: message}}
}

// Add 追加字段错误，同一字段保留第一条
func (e *ValidationError) Add(field, message string) {
	if e.Fields == nil {
		e.Fields = make(map[string]string)
	}
	if _, exists := e.Fields[field]; !exists {
		e.Fields[field] = message
	}
}

// HasErrors 是否存在字段错误
func (e *ValidationError) HasErrors() bool {
	return e != nil && len(e.Fields) > 0
}

// OrNil 无字段错误时返回 nil，避免 typed-nil error
func (e *ValidationError) OrNil() error {
	if !e.HasErrors() {
		return nil
	}
	return e
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return ErrValidation.Error() + ": " + strings.Join(parts, "; ")
}

// Unwrap 使 errors.Is(err, ErrValidation) 成立
func (e *ValidationError) Unwrap() error { return ErrValidation }

// AsValidation 从错误链中提取 ValidationError
func AsValidation(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
