package grammar

// TokenKind 解析树 token 类型
type TokenKind int

const (
	TokenUint TokenKind = iota // 整数 token
	TokenSeq                   // 序列 token（子 token 列表）
)

// Token 解析树中的一个节点
// 整数字段产生 TokenUint，变长字段产生 TokenSeq，
// 其子节点为每个字节对应的单字节 TokenUint
type Token struct {
	kind TokenKind
	uval uint64
	sub  []Token
}

// Kind 返回 token 类型
func (t Token) Kind() TokenKind {
	return t.kind
}

// Uint 返回整数 token 的值
func (t Token) Uint() (uint64, error) {
	if t.kind != TokenUint {
		return 0, &TreeError{Index: -1, Message: "token is not an integer"}
	}
	return t.uval, nil
}

// Seq 返回序列 token 的子 token 列表
func (t Token) Seq() ([]Token, error) {
	if t.kind != TokenSeq {
		return nil, &TreeError{Index: -1, Message: "token is not a sequence"}
	}
	return t.sub, nil
}

// Tree 一次解析产生的 token 树
// 每个字段按语法声明顺序对应一个顶层 token
type Tree struct {
	tokens []Token
}

// Len 返回顶层 token 数
func (t *Tree) Len() int {
	return len(t.tokens)
}

// Token 返回指定索引的顶层 token
func (t *Tree) Token(i int) (Token, error) {
	if i < 0 || i >= len(t.tokens) {
		return Token{}, &TreeError{Index: i, Message: "index out of range"}
	}
	return t.tokens[i], nil
}

// Uint 返回指定索引整数 token 的值
func (t *Tree) Uint(i int) (uint64, error) {
	tok, err := t.Token(i)
	if err != nil {
		return 0, err
	}
	if tok.kind != TokenUint {
		return 0, &TreeError{Index: i, Message: "token is not an integer"}
	}
	return tok.uval, nil
}

// Bytes 将指定索引的序列 token 还原为字节切片
// 返回的切片为新分配内存，不引用解析树内部数据
func (t *Tree) Bytes(i int) ([]byte, error) {
	tok, err := t.Token(i)
	if err != nil {
		return nil, err
	}
	if tok.kind != TokenSeq {
		return nil, &TreeError{Index: i, Message: "token is not a sequence"}
	}
	out := make([]byte, len(tok.sub))
	for j, b := range tok.sub {
		if b.kind != TokenUint {
			return nil, &TreeError{Index: i, Message: "sequence element is not a byte"}
		}
		out[j] = byte(b.uval)
	}
	return out, nil
}
