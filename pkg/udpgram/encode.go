package udpgram

import (
	"encoding/binary"
	"fmt"
)

// Encode 将 Message 序列化为数据报字节
// Length 必须与载荷实际长度一致且不超过 MaxPayloadLen
func Encode(msg Message) ([]byte, error) {
	return AppendEncode(make([]byte, 0, HeaderSize+len(msg.Payload)), msg)
}

// AppendEncode 将 Message 序列化后追加到 dst，返回扩展后的切片
// 校验规则与 Encode 一致，校验失败时不向 dst 追加任何字节
func AppendEncode(dst []byte, msg Message) ([]byte, error) {
	if len(msg.Payload) > MaxPayloadLen {
		return nil, newOutOfRangeError(len(msg.Payload))
	}
	if int(msg.Length) != len(msg.Payload) {
		return nil, fmt.Errorf("length field %d does not match payload size %d", msg.Length, len(msg.Payload))
	}

	dst = binary.BigEndian.AppendUint16(dst, msg.SrcPort)
	dst = binary.BigEndian.AppendUint16(dst, msg.DstPort)
	dst = binary.BigEndian.AppendUint16(dst, msg.Length)
	dst = binary.BigEndian.AppendUint16(dst, msg.Checksum)
	return append(dst, msg.Payload...), nil
}
