package grammar

import (
	"encoding/binary"
)

// Kind 字段类型
type Kind int

const (
	KindUint8  Kind = iota // 1 字节无符号整数
	KindUint16             // 2 字节无符号整数
	KindUint32             // 4 字节无符号整数
	KindUint64             // 8 字节无符号整数
	KindBytes              // 变长字节序列，长度由 LenField 指定
)

// String 返回类型名称
func (k Kind) String() string {
	switch k {
	case KindUint8:
		return "u8"
	case KindUint16:
		return "u16"
	case KindUint32:
		return "u32"
	case KindUint64:
		return "u64"
	case KindBytes:
		return "bytes"
	}
	return "unknown"
}

// Width 返回固定宽度字段的字节数，变长字段返回 -1
func (k Kind) Width() int {
	switch k {
	case KindUint8:
		return 1
	case KindUint16:
		return 2
	case KindUint32:
		return 4
	case KindUint64:
		return 8
	}
	return -1
}

// Field 描述报文布局中的一个字段
type Field struct {
	Name      string // 字段名
	Kind      Kind   // 字段类型
	ByteOrder string // 字节序："be" 或 "le"，默认大端序
	LenField  string // 变长字段的长度来源字段名
}

// compiledField 编译后的字段描述
type compiledField struct {
	name     string
	kind     Kind
	width    int
	order    binary.ByteOrder
	lenIndex int // 长度来源字段的索引（仅变长字段）
}

// Grammar 编译后的报文语法
// 编译完成后不可变，可在多个 goroutine 间共享并发调用 Parse
type Grammar struct {
	fields    []compiledField
	fixedSize int // 所有固定宽度字段的总字节数
}

// getByteOrder 根据字节序字符串返回 binary.ByteOrder
func getByteOrder(endian string) binary.ByteOrder {
	if endian == "le" {
		return binary.LittleEndian
	}
	return binary.BigEndian
}

// Compile 校验字段列表并编译语法
// 校验规则:
//   - 至少一个字段，字段名非空且唯一
//   - 字节序只能是 "be"、"le" 或空（默认大端序）
//   - 变长字段必须指定 len 字段，且 len 字段必须是位于其之前的整数字段
//   - 变长字段只能是最后一个字段
func Compile(fields []Field) (*Grammar, error) {
	if len(fields) == 0 {
		return nil, &GrammarError{Message: "grammar requires at least one field"}
	}

	fieldMap := make(map[string]int, len(fields))
	g := &Grammar{fields: make([]compiledField, 0, len(fields))}

	for i, f := range fields {
		if f.Name == "" {
			return nil, &GrammarError{Message: "field name cannot be empty"}
		}
		if _, dup := fieldMap[f.Name]; dup {
			return nil, &GrammarError{Field: f.Name, Message: "duplicate field name"}
		}
		fieldMap[f.Name] = i

		if f.ByteOrder != "" && f.ByteOrder != "be" && f.ByteOrder != "le" {
			return nil, &GrammarError{Field: f.Name, Message: "invalid endian, must be 'be' or 'le'"}
		}

		cf := compiledField{
			name:     f.Name,
			kind:     f.Kind,
			width:    f.Kind.Width(),
			order:    getByteOrder(f.ByteOrder),
			lenIndex: -1,
		}

		switch {
		case f.Kind == KindBytes:
			if f.LenField == "" {
				return nil, &GrammarError{Field: f.Name, Message: "variable-length field must specify len field"}
			}
			if i != len(fields)-1 {
				return nil, &GrammarError{Field: f.Name, Message: "variable-length field must be the last field"}
			}
			lenIdx, ok := fieldMap[f.LenField]
			if !ok {
				return nil, &GrammarError{Field: f.Name, Message: "length field " + f.LenField + " does not exist"}
			}
			if lenIdx >= i {
				return nil, &GrammarError{Field: f.Name, Message: "length field " + f.LenField + " must appear before this field"}
			}
			if fields[lenIdx].Kind == KindBytes {
				return nil, &GrammarError{Field: f.Name, Message: "length field " + f.LenField + " must be an integer field"}
			}
			cf.lenIndex = lenIdx
		case f.LenField != "":
			return nil, &GrammarError{Field: f.Name, Message: "len option is only valid on variable-length fields"}
		default:
			g.fixedSize += cf.width
		}

		g.fields = append(g.fields, cf)
	}

	return g, nil
}

// MustCompile 编译语法，失败时 panic
func MustCompile(fields []Field) *Grammar {
	g, err := Compile(fields)
	if err != nil {
		panic(err)
	}
	return g
}

// NumFields 返回语法中的字段数
func (g *Grammar) NumFields() int {
	return len(g.fields)
}

// FixedSize 返回固定宽度部分的总字节数
func (g *Grammar) FixedSize() int {
	return g.fixedSize
}

// FieldInfo 编译后字段的只读描述
type FieldInfo struct {
	Name      string           // 字段名
	Kind      Kind             // 字段类型
	ByteOrder binary.ByteOrder // 字节序
	LenIndex  int              // 长度来源字段的索引，固定宽度字段为 -1
}

// Field 返回第 i 个字段的描述，供生成器等按布局构造数据的场景使用
func (g *Grammar) Field(i int) FieldInfo {
	cf := g.fields[i]
	return FieldInfo{Name: cf.name, Kind: cf.kind, ByteOrder: cf.order, LenIndex: cf.lenIndex}
}
