// Package testgen 根据编译好的报文语法生成测试用数据报
// 支持合法报文和两类构造的非法报文（截断、声明长度越界），
// 用于解码器的回归测试和模糊测试
package testgen

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/junbin-yang/go-parselab/pkg/grammar"
	"github.com/junbin-yang/go-parselab/pkg/udpgram"
)

// Case 一个生成的测试用例
type Case struct {
	Name   string // 用例名
	Data   []byte // 报文字节
	Valid  bool   // 是否为合法报文
	Reason string // 非法用例的构造方式
}

// ValueFunc 根据载荷计算字段取值，用于校验和等派生字段
type ValueFunc func(payload []byte) uint64

// Option 生成器选项
type Option func(*Generator)

// WithFieldValue 指定字段的取值函数，替代随机取值
func WithFieldValue(name string, fn ValueFunc) Option {
	return func(g *Generator) {
		g.values[name] = fn
	}
}

// Generator 数据报生成器
// 按语法布局逐字段构造报文，相同种子产生相同的用例序列
type Generator struct {
	gr       *grammar.Grammar
	capacity int
	varIdx   int // 变长字段索引，没有则为 -1
	lenIdx   int // 变长字段的长度来源字段索引
	values   map[string]ValueFunc
	rng      *rand.Rand
	seq      int
}

// NewFor 创建在指定语法和载荷容量上工作的生成器
func NewFor(gr *grammar.Grammar, capacity int, seed int64, opts ...Option) *Generator {
	g := &Generator{
		gr:       gr,
		capacity: capacity,
		varIdx:   -1,
		lenIdx:   -1,
		values:   make(map[string]ValueFunc),
		rng:      rand.New(rand.NewSource(seed)),
	}
	for i := 0; i < gr.NumFields(); i++ {
		if f := gr.Field(i); f.Kind == grammar.KindBytes {
			g.varIdx = i
			g.lenIdx = f.LenIndex
		}
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// New 创建默认 UDP 语法上的生成器
// 载荷容量为 512，checksum 字段按载荷字节和填写
func New(seed int64) *Generator {
	return NewFor(udpgram.Grammar(), udpgram.MaxPayloadLen, seed,
		WithFieldValue("checksum", func(payload []byte) uint64 {
			return uint64(udpgram.Checksum(payload))
		}))
}

// next 返回自增的用例编号
func (g *Generator) next() int {
	g.seq++
	return g.seq
}

// repLimit 返回长度字段能表示的最大值
func (g *Generator) repLimit() int {
	w := g.gr.Field(g.lenIdx).Kind.Width()
	if w >= 8 {
		return math.MaxInt
	}
	return 1<<(8*w) - 1
}

// maxLen 返回合法载荷长度上限，受容量和长度字段宽度共同约束
func (g *Generator) maxLen() int {
	if g.varIdx < 0 {
		return 0
	}
	if rep := g.repLimit(); rep < g.capacity {
		return rep
	}
	return g.capacity
}

// canOversize 判断语法能否构造声明长度越界的用例
func (g *Generator) canOversize() bool {
	return g.varIdx >= 0 && g.capacity < g.repLimit()
}

// encode 构造一个载荷长度为 payloadLen 的报文
// 长度字段写入 payloadLen，其余整数字段随机取值或由取值函数计算
func (g *Generator) encode(payloadLen int) []byte {
	var payload []byte
	if g.varIdx >= 0 {
		payload = make([]byte, payloadLen)
		g.rng.Read(payload)
	}

	buf := make([]byte, 0, g.gr.FixedSize()+payloadLen)
	for i := 0; i < g.gr.NumFields(); i++ {
		f := g.gr.Field(i)
		if f.Kind == grammar.KindBytes {
			buf = append(buf, payload...)
			continue
		}
		var v uint64
		switch {
		case i == g.lenIdx:
			v = uint64(payloadLen)
		case g.values[f.Name] != nil:
			v = g.values[f.Name](payload)
		default:
			v = g.rng.Uint64()
		}
		buf = appendUint(buf, f, v)
	}
	return buf
}

// appendUint 按字段宽度和字节序追加整数值
func appendUint(dst []byte, f grammar.FieldInfo, v uint64) []byte {
	switch f.Kind {
	case grammar.KindUint8:
		return append(dst, byte(v))
	case grammar.KindUint16:
		var b [2]byte
		f.ByteOrder.PutUint16(b[:], uint16(v))
		return append(dst, b[:]...)
	case grammar.KindUint32:
		var b [4]byte
		f.ByteOrder.PutUint32(b[:], uint32(v))
		return append(dst, b[:]...)
	case grammar.KindUint64:
		var b [8]byte
		f.ByteOrder.PutUint64(b[:], v)
		return append(dst, b[:]...)
	}
	return dst
}

// Valid 生成一个合法数据报
func (g *Generator) Valid() Case {
	n := 0
	if g.varIdx >= 0 {
		n = g.rng.Intn(g.maxLen() + 1)
	}
	return Case{
		Name:  fmt.Sprintf("valid_%03d", g.next()),
		Data:  g.encode(n),
		Valid: true,
	}
}

// Truncated 生成一个被截断的非法数据报
// 从合法报文尾部去掉至少一个字节，必要时截进固定部分
func (g *Generator) Truncated() Case {
	c := g.Valid()
	cut := 1 + g.rng.Intn(len(c.Data))
	return Case{
		Name:   fmt.Sprintf("truncated_%03d", g.next()),
		Data:   c.Data[:len(c.Data)-cut],
		Valid:  false,
		Reason: fmt.Sprintf("removed %d trailing bytes", cut),
	}
}

// OversizedLen 生成一个声明长度越界的非法数据报
// 载荷字节数与声明一致，报文结构上匹配，只有容量检查会拒绝
// 语法没有变长字段或长度字段表示不了越界值时 panic
func (g *Generator) OversizedLen() Case {
	if !g.canOversize() {
		panic("testgen: grammar cannot express an oversized declared length")
	}
	span := g.repLimit() - g.capacity
	if span > 1024 {
		span = 1024
	}
	length := g.capacity + 1 + g.rng.Intn(span)
	return Case{
		Name:   fmt.Sprintf("oversized_%03d", g.next()),
		Data:   g.encode(length),
		Valid:  false,
		Reason: fmt.Sprintf("declared length %d exceeds capacity %d", length, g.capacity),
	}
}

// Batch 生成一批用例
// includeInvalid 为 true 时混入截断和长度越界用例，
// 语法构造不了长度越界时以截断用例代替
func (g *Generator) Batch(count int, includeInvalid bool) []Case {
	cases := make([]Case, 0, count)
	for i := 0; i < count; i++ {
		if !includeInvalid {
			cases = append(cases, g.Valid())
			continue
		}
		switch i % 3 {
		case 0:
			cases = append(cases, g.Valid())
		case 1:
			cases = append(cases, g.Truncated())
		case 2:
			if g.canOversize() {
				cases = append(cases, g.OversizedLen())
			} else {
				cases = append(cases, g.Truncated())
			}
		}
	}
	return cases
}
