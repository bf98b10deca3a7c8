package udpgram

import (
	"errors"
	"fmt"
)

// 解码错误分类
// 两类错误相互独立，调用方用 errors.Is 区分后决定重试、记录或丢弃
var (
	// ErrGrammarMismatch 输入字节不满足报文结构（头部不完整、载荷字节数与声明不符等）
	ErrGrammarMismatch = errors.New("grammar mismatch")
	// ErrPayloadOutOfRange 结构匹配成功，但声明的载荷长度超出容量上限
	ErrPayloadOutOfRange = errors.New("payload length out of range")
)

// DecodeError 解码错误,包含分类和底层原因
type DecodeError struct {
	Reason  error  // 错误分类: ErrGrammarMismatch 或 ErrPayloadOutOfRange
	Length  int    // 声明的载荷长度（仅越界错误有效，否则为 -1）
	Cause   error  // 底层解析错误
	Message string // 错误描述
}

func (e *DecodeError) Error() string {
	if e.Reason == ErrPayloadOutOfRange {
		return fmt.Sprintf("%s: declared length %d exceeds capacity %d", e.Message, e.Length, MaxPayloadLen)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Is 支持 errors.Is 按分类匹配
func (e *DecodeError) Is(target error) bool {
	return target == e.Reason
}

func (e *DecodeError) Unwrap() error {
	return e.Cause
}

// newMismatchError 创建结构不匹配错误
func newMismatchError(cause error) *DecodeError {
	return &DecodeError{
		Reason:  ErrGrammarMismatch,
		Length:  -1,
		Cause:   cause,
		Message: "datagram does not match grammar",
	}
}

// newOutOfRangeError 创建载荷长度越界错误
func newOutOfRangeError(length int) *DecodeError {
	return &DecodeError{
		Reason:  ErrPayloadOutOfRange,
		Length:  length,
		Message: "payload rejected",
	}
}
