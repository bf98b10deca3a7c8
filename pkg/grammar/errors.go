package grammar

import "fmt"

// GrammarError 语法编译错误
type GrammarError struct {
	Field   string // 字段名
	Message string // 错误描述
}

func (e *GrammarError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("field %s: %s", e.Field, e.Message)
}

// ParseError 解析错误,包含详细的字段信息
type ParseError struct {
	FieldName    string // 字段名
	FieldType    string // 字段类型
	Offset       int    // 字节偏移
	ExpectedSize int    // 期望长度（字节）
	ActualSize   int    // 实际长度（字节）
	Message      string // 错误描述
}

func (e *ParseError) Error() string {
	return fmt.Sprintf(
		"field %q (%s) at offset %d: expected %d bytes, got %d bytes: %s",
		e.FieldName, e.FieldType, e.Offset,
		e.ExpectedSize, e.ActualSize, e.Message,
	)
}

// newParseError 创建解析错误
func newParseError(fieldName, fieldType string, offset, expectedSize, actualSize int, message string) *ParseError {
	return &ParseError{
		FieldName:    fieldName,
		FieldType:    fieldType,
		Offset:       offset,
		ExpectedSize: expectedSize,
		ActualSize:   actualSize,
		Message:      message,
	}
}

// TreeError 解析树访问错误（索引越界或类型不匹配）
type TreeError struct {
	Index   int    // 访问的 token 索引
	Message string // 错误描述
}

func (e *TreeError) Error() string {
	return fmt.Sprintf("token %d: %s", e.Index, e.Message)
}
