package specfile

import (
	"fmt"

	"github.com/junbin-yang/go-parselab/pkg/grammar"
)

// Document 协议描述文件的文档结构
// 示例（YAML）:
//
//	protocol: udp
//	fields:
//	  - name: src_port
//	    type: u16
//	    endian: be
//	  - name: length
//	    type: u16
//	  - name: data
//	    type: bytes
//	    len: length
type Document struct {
	Protocol string      `yaml:"protocol" json:"protocol" toml:"protocol"`
	Fields   []FieldSpec `yaml:"fields" json:"fields" toml:"fields"`
}

// FieldSpec 文档中的单个字段描述
type FieldSpec struct {
	Name   string `yaml:"name" json:"name" toml:"name"`
	Type   string `yaml:"type" json:"type" toml:"type"`
	Endian string `yaml:"endian,omitempty" json:"endian,omitempty" toml:"endian,omitempty"`
	Len    string `yaml:"len,omitempty" json:"len,omitempty" toml:"len,omitempty"`
}

// kindFromType 将文档中的类型名映射为语法字段类型
func kindFromType(typ string) (grammar.Kind, error) {
	switch typ {
	case "u8", "uint8":
		return grammar.KindUint8, nil
	case "u16", "uint16":
		return grammar.KindUint16, nil
	case "u32", "uint32":
		return grammar.KindUint32, nil
	case "u64", "uint64":
		return grammar.KindUint64, nil
	case "bytes":
		return grammar.KindBytes, nil
	}
	return 0, fmt.Errorf("unknown field type %q", typ)
}

// ToFields 将文档转换为语法字段列表
func (d *Document) ToFields() ([]grammar.Field, error) {
	fields := make([]grammar.Field, 0, len(d.Fields))
	for _, fs := range d.Fields {
		kind, err := kindFromType(fs.Type)
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", fs.Name, err)
		}
		fields = append(fields, grammar.Field{
			Name:      fs.Name,
			Kind:      kind,
			ByteOrder: fs.Endian,
			LenField:  fs.Len,
		})
	}
	return fields, nil
}

// Compile 将文档编译为可复用的语法
func (d *Document) Compile() (*grammar.Grammar, error) {
	fields, err := d.ToFields()
	if err != nil {
		return nil, err
	}
	return grammar.Compile(fields)
}
