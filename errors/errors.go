// Package errors 定义 boxfit 使用的结构化错误。
//
// 每个错误带有机器可读的 Code，CLI 据此区分字体、输入、配置与输出问题：
//
//	err := errors.New(errors.ErrCodeInvalidConfig, "未知的 key-tie 策略 %q", name)
//	if errors.Is(err, errors.ErrCodeInvalidConfig) {
//	    // ...
//	}
//
//	err := errors.Wrap(errors.ErrCodeFileNotFound, origErr, "无法读取 %s", path)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

const (
	// 字体
	ErrCodeFontNotFound Code = "FONT_NOT_FOUND"
	ErrCodeFontInvalid  Code = "FONT_INVALID"

	// 输入与配置
	ErrCodeFileNotFound  Code = "FILE_NOT_FOUND"
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidConfig Code = "INVALID_CONFIG"

	// 输出
	ErrCodeOutput Code = "OUTPUT_FAILED"

	ErrCodeInternal Code = "INTERNAL_ERROR"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Is reports whether err carries the given code anywhere in its chain.
func Is(err error, code Code) bool {
	for err != nil {
		var e *Error
		if !errors.As(err, &e) {
			return false
		}
		if e.Code == code {
			return true
		}
		err = e.Cause
	}
	return false
}

// GetCode returns the code of the outermost *Error in err's chain, or "".
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}
