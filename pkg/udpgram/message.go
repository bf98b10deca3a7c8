package udpgram

// 报文布局常量
const (
	// HeaderSize 固定头部字节数（4 个 u16 字段）
	HeaderSize = 8
	// MaxPayloadLen 载荷容量上限
	MaxPayloadLen = 512
)

// Message 解码后的数据报
// 每次解码都产生一个全新的 Message，载荷为独立拷贝，
// 不引用输入缓冲区，所有权完全归调用方
type Message struct {
	SrcPort  uint16 // 源端口
	DstPort  uint16 // 目的端口
	Length   uint16 // 载荷字节数
	Checksum uint16 // 校验和（解码时不校验，原样透出）
	Payload  []byte // 载荷，长度等于 Length，不超过 MaxPayloadLen
}

// Checksum 计算载荷的字节和校验和
// 解码端不校验该值，由调用方按需比对
func Checksum(payload []byte) uint16 {
	var sum uint16
	for _, b := range payload {
		sum += uint16(b)
	}
	return sum
}

// NewMessage 根据载荷构造报文，自动填充 Length 和 Checksum
func NewMessage(srcPort, dstPort uint16, payload []byte) (Message, error) {
	if len(payload) > MaxPayloadLen {
		return Message{}, newOutOfRangeError(len(payload))
	}
	data := make([]byte, len(payload))
	copy(data, payload)
	return Message{
		SrcPort:  srcPort,
		DstPort:  dstPort,
		Length:   uint16(len(payload)),
		Checksum: Checksum(payload),
		Payload:  data,
	}, nil
}
