package errors

import (
	stderrors "errors"
	"fmt"

	"inviteflow/pkg/errors/ecode"
)

// codeErr 携带错误码的错误，message用于响应给客户端
type codeErr struct {
	code    int
	message string
	cause   error
}

func (e *codeErr) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.message, e.cause)
	}
	return e.message
}

func (e *codeErr) Unwrap() error {
	return e.cause
}

// Code 返回错误码
func (e *codeErr) Code() int {
	return e.code
}

// WithCode 创建一个带错误码的错误
func WithCode(code int, message string) error {
	return &codeErr{code: code, message: message}
}

// Wrap 用错误码和提示信息包装err，err可以为nil
func Wrap(err error, code int, message string) error {
	return &codeErr{code: code, message: message, cause: err}
}

// DecodeErr 解析出错误码和提示信息，nil视为成功
func DecodeErr(err error) (int, string) {
	if err == nil {
		return ecode.Success, ecode.Text(ecode.Success)
	}
	var ce *codeErr
	if stderrors.As(err, &ce) {
		return ce.code, ce.message
	}
	return ecode.Unknown, err.Error()
}

func New(text string) error {
	return stderrors.New(text)
}

func Is(err, target error) bool {
	return stderrors.Is(err, target)
}
