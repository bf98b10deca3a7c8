package specfile

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/junbin-yang/go-parselab/pkg/grammar"
)

const udpSpecYAML = `protocol: udp
fields:
  - name: src_port
    type: u16
    endian: be
  - name: dst_port
    type: u16
    endian: be
  - name: length
    type: u16
    endian: be
  - name: checksum
    type: u16
    endian: be
  - name: data
    type: bytes
    len: length
`

const udpSpecJSON = `{
  "protocol": "udp",
  "fields": [
    {"name": "src_port", "type": "u16", "endian": "be"},
    {"name": "dst_port", "type": "u16", "endian": "be"},
    {"name": "length", "type": "u16", "endian": "be"},
    {"name": "checksum", "type": "u16", "endian": "be"},
    {"name": "data", "type": "bytes", "len": "length"}
  ]
}
`

const udpSpecTOML = `protocol = "udp"

[[fields]]
name = "src_port"
type = "u16"
endian = "be"

[[fields]]
name = "length"
type = "u16"
endian = "be"

[[fields]]
name = "data"
type = "bytes"
len = "length"
`

func writeSpec(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("写入测试文件失败: %v", err)
	}
	return path
}

// 场景1：加载YAML协议描述
func TestLoader_YAML(t *testing.T) {
	path := writeSpec(t, "udp.yml", udpSpecYAML)

	l := NewLoader()
	defer l.Close()

	g, err := l.Load(path)
	if err != nil {
		t.Fatalf("加载YAML协议描述失败: %v", err)
	}
	if g.NumFields() != 5 {
		t.Errorf("期望 5 个字段, 实际 %d", g.NumFields())
	}
	if g.FixedSize() != 8 {
		t.Errorf("期望固定部分 8 字节, 实际 %d", g.FixedSize())
	}
	if l.Document().Protocol != "udp" {
		t.Errorf("期望协议名 udp, 实际 %s", l.Document().Protocol)
	}

	// 编译好的语法应能直接解析报文
	tree, err := g.Parse([]byte{0x00, 0x50, 0x00, 0x51, 0x00, 0x01, 0xAB, 0xCD, 0xFF})
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	port, err := tree.Uint(0)
	if err != nil || port != 80 {
		t.Errorf("src_port = %d (err=%v), want 80", port, err)
	}
}

// 场景2：加载JSON协议描述
func TestLoader_JSON(t *testing.T) {
	path := writeSpec(t, "udp.json", udpSpecJSON)

	l := NewLoader()
	defer l.Close()

	g, err := l.Load(path)
	if err != nil {
		t.Fatalf("加载JSON协议描述失败: %v", err)
	}
	if g.NumFields() != 5 {
		t.Errorf("期望 5 个字段, 实际 %d", g.NumFields())
	}
}

// 场景3：加载TOML协议描述
func TestLoader_TOML(t *testing.T) {
	path := writeSpec(t, "proto.toml", udpSpecTOML)

	l := NewLoader()
	defer l.Close()

	g, err := l.Load(path)
	if err != nil {
		t.Fatalf("加载TOML协议描述失败: %v", err)
	}
	if g.NumFields() != 3 {
		t.Errorf("期望 3 个字段, 实际 %d", g.NumFields())
	}
}

// 场景4：无后缀文件使用强制格式
func TestLoader_ForceFormat(t *testing.T) {
	path := writeSpec(t, "udpspec", udpSpecJSON)

	l := NewLoader(WithForceFormat(&JSONSerializer{}))
	defer l.Close()

	if _, err := l.Load(path); err != nil {
		t.Fatalf("强制JSON格式加载失败: %v", err)
	}
}

// 场景5：非法文档报错
func TestLoader_InvalidSpec(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{
			name: "未知字段类型",
			content: `protocol: x
fields:
  - name: a
    type: u24
`,
		},
		{
			name: "len 字段不存在",
			content: `protocol: x
fields:
  - name: count
    type: u8
  - name: data
    type: bytes
    len: size
`,
		},
		{
			name:    "格式损坏",
			content: "{{{{",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeSpec(t, "bad.yml", tt.content)
			l := NewLoader()
			defer l.Close()
			if _, err := l.Load(path); err == nil {
				t.Error("期望加载失败, 实际成功")
			}
		})
	}
}

// 场景6：文件不存在
func TestLoader_MissingFile(t *testing.T) {
	l := NewLoader()
	defer l.Close()
	if _, err := l.Load(filepath.Join(t.TempDir(), "nothing.yml")); err == nil {
		t.Error("期望加载失败, 实际成功")
	}
}

// 场景7：文件变化自动重新编译
func TestLoader_WatchReload(t *testing.T) {
	path := writeSpec(t, "udp.yml", udpSpecYAML)

	l := NewLoader(WithWatch(true, 50*time.Millisecond))
	defer l.Close()

	if _, err := l.Load(path); err != nil {
		t.Fatalf("加载协议描述失败: %v", err)
	}

	changed := make(chan *grammar.Grammar, 1)
	l.OnChange(func(old, new *grammar.Grammar) {
		select {
		case changed <- new:
		default:
		}
	})

	// 改写为只有 3 个字段的描述
	if err := os.WriteFile(path, []byte(`protocol: udp
fields:
  - name: length
    type: u16
  - name: checksum
    type: u16
  - name: data
    type: bytes
    len: length
`), 0644); err != nil {
		t.Fatalf("改写测试文件失败: %v", err)
	}

	select {
	case g := <-changed:
		if g.NumFields() != 3 {
			t.Errorf("期望重载后 3 个字段, 实际 %d", g.NumFields())
		}
		if l.Grammar() != g {
			t.Error("Grammar() 未返回最新语法")
		}
	case <-time.After(3 * time.Second):
		t.Fatal("等待自动重载超时")
	}
}

// 场景8：手动重载
func TestLoader_ManualReload(t *testing.T) {
	path := writeSpec(t, "udp.yml", udpSpecYAML)

	l := NewLoader()
	defer l.Close()

	if _, err := l.Load(path); err != nil {
		t.Fatalf("加载协议描述失败: %v", err)
	}

	if err := os.WriteFile(path, []byte(udpSpecYAML+`  - name: tail
    type: u8
`), 0644); err != nil {
		t.Fatalf("改写测试文件失败: %v", err)
	}

	// 变长字段之后追加字段是非法的，重载必须失败且保留旧语法
	old := l.Grammar()
	if err := l.Reload(); err == nil {
		t.Error("期望重载失败, 实际成功")
	}
	if l.Grammar() != old {
		t.Error("重载失败后语法被替换")
	}
}

// 场景9：未加载就重载
func TestLoader_ReloadBeforeLoad(t *testing.T) {
	l := NewLoader()
	defer l.Close()
	if err := l.Reload(); err == nil {
		t.Error("期望错误, 实际成功")
	}
}
