package udpgram

import (
	"github.com/junbin-yang/go-parselab/pkg/grammar"
)

// 字段在语法中的索引，与 udpFields 的声明顺序一致
const (
	fieldSrcPort = iota
	fieldDstPort
	fieldLength
	fieldChecksum
	fieldData
)

// udpFields UDP 数据报布局声明
// 4 个大端序 u16 头部字段，之后是 length 个载荷字节
var udpFields = []grammar.Field{
	{Name: "src_port", Kind: grammar.KindUint16, ByteOrder: "be"},
	{Name: "dst_port", Kind: grammar.KindUint16, ByteOrder: "be"},
	{Name: "length", Kind: grammar.KindUint16, ByteOrder: "be"},
	{Name: "checksum", Kind: grammar.KindUint16, ByteOrder: "be"},
	{Name: "data", Kind: grammar.KindBytes, LenField: "length"},
}

// udpGrammar 编译一次，所有 Decode 调用共享只读复用
var udpGrammar = grammar.MustCompile(udpFields)

// Grammar 返回 UDP 数据报语法，可用于测试数据生成等场景
func Grammar() *grammar.Grammar {
	return udpGrammar
}

// Decode 将一个数据报缓冲区解码为 Message
// 不修改输入缓冲区，返回的 Message 不引用输入内存
// 失败时返回 *DecodeError，用 errors.Is 区分两类结果:
//   - ErrGrammarMismatch: 字节不满足报文结构
//   - ErrPayloadOutOfRange: 结构匹配，但声明长度超过 MaxPayloadLen，
//     判定在拷贝任何载荷字节之前完成，不做静默截断
func Decode(data []byte) (Message, error) {
	tree, err := udpGrammar.Parse(data)
	if err != nil {
		return Message{}, newMismatchError(err)
	}
	return extract(tree)
}

// extract 将解析树逐字段取出填入 Message
// 提取顺序与语法字段顺序一致，所有访问经过索引和类型校验
func extract(tree *grammar.Tree) (Message, error) {
	srcPort, err := tree.Uint(fieldSrcPort)
	if err != nil {
		return Message{}, newMismatchError(err)
	}
	dstPort, err := tree.Uint(fieldDstPort)
	if err != nil {
		return Message{}, newMismatchError(err)
	}
	length, err := tree.Uint(fieldLength)
	if err != nil {
		return Message{}, newMismatchError(err)
	}
	checksum, err := tree.Uint(fieldChecksum)
	if err != nil {
		return Message{}, newMismatchError(err)
	}

	// 容量上界检查先于载荷提取
	if length > MaxPayloadLen {
		return Message{}, newOutOfRangeError(int(length))
	}

	payload, err := tree.Bytes(fieldData)
	if err != nil {
		return Message{}, newMismatchError(err)
	}

	return Message{
		SrcPort:  uint16(srcPort),
		DstPort:  uint16(dstPort),
		Length:   uint16(length),
		Checksum: uint16(checksum),
		Payload:  payload,
	}, nil
}
