package grammar

import (
	"bytes"
	"errors"
	"testing"
)

// testGrammar 测试用语法: u8 类型 + u16 计数 + 变长数据
func testGrammar(t *testing.T) *Grammar {
	t.Helper()
	g, err := Compile([]Field{
		{Name: "type", Kind: KindUint8},
		{Name: "count", Kind: KindUint16, ByteOrder: "be"},
		{Name: "data", Kind: KindBytes, LenField: "count"},
	})
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}
	return g
}

// TestParse_VariableLength 测试变长字段解析
func TestParse_VariableLength(t *testing.T) {
	g := testGrammar(t)

	tests := []struct {
		name     string
		data     []byte
		wantErr  bool
		wantType uint64
		wantData []byte
	}{
		{
			name:     "正常报文",
			data:     []byte{0x01, 0x00, 0x03, 0xAA, 0xBB, 0xCC},
			wantType: 1,
			wantData: []byte{0xAA, 0xBB, 0xCC},
		},
		{
			name:     "空数据段",
			data:     []byte{0x02, 0x00, 0x00},
			wantType: 2,
			wantData: []byte{},
		},
		{
			name:    "头部不完整",
			data:    []byte{0x01, 0x00},
			wantErr: true,
		},
		{
			name:    "数据段缺一字节",
			data:    []byte{0x01, 0x00, 0x03, 0xAA, 0xBB},
			wantErr: true,
		},
		{
			name:    "数据段多一字节",
			data:    []byte{0x01, 0x00, 0x03, 0xAA, 0xBB, 0xCC, 0xDD},
			wantErr: true,
		},
		{
			name:    "空输入",
			data:    nil,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree, err := g.Parse(tt.data)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Parse() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				var perr *ParseError
				if !errors.As(err, &perr) {
					t.Errorf("expected ParseError, got %T", err)
				}
				return
			}

			got, err := tree.Uint(0)
			if err != nil {
				t.Fatalf("Uint(0) error = %v", err)
			}
			if got != tt.wantType {
				t.Errorf("type = %d, want %d", got, tt.wantType)
			}

			data, err := tree.Bytes(2)
			if err != nil {
				t.Fatalf("Bytes(2) error = %v", err)
			}
			if !bytes.Equal(data, tt.wantData) {
				t.Errorf("data = %v, want %v", data, tt.wantData)
			}
		})
	}
}

// TestParse_ByteOrder 测试大小端序解码
func TestParse_ByteOrder(t *testing.T) {
	g, err := Compile([]Field{
		{Name: "be16", Kind: KindUint16, ByteOrder: "be"},
		{Name: "le16", Kind: KindUint16, ByteOrder: "le"},
		{Name: "be32", Kind: KindUint32},
		{Name: "le64", Kind: KindUint64, ByteOrder: "le"},
	})
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}

	data := []byte{
		0x12, 0x34,
		0x34, 0x12,
		0x12, 0x34, 0x56, 0x78,
		0xF0, 0xDE, 0xBC, 0x9A, 0x78, 0x56, 0x34, 0x12,
	}
	tree, err := g.Parse(data)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	wants := []uint64{0x1234, 0x1234, 0x12345678, 0x123456789ABCDEF0}
	for i, want := range wants {
		got, err := tree.Uint(i)
		if err != nil {
			t.Fatalf("Uint(%d) error = %v", i, err)
		}
		if got != want {
			t.Errorf("token %d = 0x%X, want 0x%X", i, got, want)
		}
	}
}

// TestParse_ErrorDetail 测试解析错误携带字段详情
func TestParse_ErrorDetail(t *testing.T) {
	g := testGrammar(t)

	_, err := g.Parse([]byte{0x01, 0x00, 0x05, 0xAA})
	if err == nil {
		t.Fatal("expected error, got nil")
	}

	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("expected ParseError, got %T: %v", err, err)
	}
	if perr.FieldName != "data" {
		t.Errorf("FieldName = %q, want %q", perr.FieldName, "data")
	}
	if perr.Offset != 3 {
		t.Errorf("Offset = %d, want 3", perr.Offset)
	}
	if perr.ExpectedSize != 5 {
		t.Errorf("ExpectedSize = %d, want 5", perr.ExpectedSize)
	}
	if perr.ActualSize != 1 {
		t.Errorf("ActualSize = %d, want 1", perr.ActualSize)
	}
}

// TestParse_NoMutation 测试解析不修改输入
func TestParse_NoMutation(t *testing.T) {
	g := testGrammar(t)

	data := []byte{0x01, 0x00, 0x02, 0xAA, 0xBB}
	orig := make([]byte, len(data))
	copy(orig, data)

	if _, err := g.Parse(data); err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if !bytes.Equal(data, orig) {
		t.Errorf("input buffer mutated: %v, want %v", data, orig)
	}
}

// TestTree_Accessors 测试解析树访问边界
func TestTree_Accessors(t *testing.T) {
	g := testGrammar(t)

	tree, err := g.Parse([]byte{0x01, 0x00, 0x01, 0xAA})
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if tree.Len() != 3 {
		t.Errorf("Len() = %d, want 3", tree.Len())
	}

	// 索引越界
	if _, err := tree.Token(-1); err == nil {
		t.Error("Token(-1) expected error")
	}
	if _, err := tree.Token(3); err == nil {
		t.Error("Token(3) expected error")
	}
	if _, err := tree.Uint(10); err == nil {
		t.Error("Uint(10) expected error")
	}

	// 类型不匹配
	if _, err := tree.Uint(2); err == nil {
		t.Error("Uint on sequence token expected error")
	}
	if _, err := tree.Bytes(0); err == nil {
		t.Error("Bytes on integer token expected error")
	}

	tok, err := tree.Token(2)
	if err != nil {
		t.Fatalf("Token(2) error = %v", err)
	}
	sub, err := tok.Seq()
	if err != nil {
		t.Fatalf("Seq() error = %v", err)
	}
	if len(sub) != 1 {
		t.Fatalf("Seq() len = %d, want 1", len(sub))
	}
	b, err := sub[0].Uint()
	if err != nil {
		t.Fatalf("Uint() error = %v", err)
	}
	if b != 0xAA {
		t.Errorf("byte token = 0x%X, want 0xAA", b)
	}
	if _, err := tok.Uint(); err == nil {
		t.Error("Uint on sequence token expected error")
	}
	if _, err := sub[0].Seq(); err == nil {
		t.Error("Seq on integer token expected error")
	}
}

// TestParse_FixedOnlyStrict 测试纯定长语法的严格消费
func TestParse_FixedOnlyStrict(t *testing.T) {
	g, err := Compile([]Field{
		{Name: "a", Kind: KindUint16},
	})
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}

	if _, err := g.Parse([]byte{0x00, 0x01}); err != nil {
		t.Errorf("Parse() error = %v", err)
	}
	if _, err := g.Parse([]byte{0x00, 0x01, 0x02}); err == nil {
		t.Error("expected error on trailing bytes")
	}
}
