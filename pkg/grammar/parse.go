package grammar

// Parse 将字节缓冲区与语法匹配，产生解析树
// 输入不匹配时返回 *ParseError，不修改输入缓冲区
// 解析是严格的：变长字段之后不允许有剩余字节
func (g *Grammar) Parse(data []byte) (*Tree, error) {
	if len(data) < g.fixedSize {
		return nil, newParseError("", "", 0, g.fixedSize, len(data), "data too short")
	}

	tree := &Tree{tokens: make([]Token, 0, len(g.fields))}
	offset := 0

	for _, cf := range g.fields {
		if cf.kind == KindBytes {
			// 变长字段，元素个数取自已解析的长度字段
			lenTok := tree.tokens[cf.lenIndex]
			count := int(lenTok.uval)

			remaining := len(data) - offset
			if remaining < count {
				return nil, newParseError(cf.name, cf.kind.String(), offset, count, remaining, "data too short for variable field")
			}
			if remaining > count {
				return nil, newParseError(cf.name, cf.kind.String(), offset, count, remaining, "trailing bytes after variable field")
			}

			sub := make([]Token, count)
			for i := 0; i < count; i++ {
				sub[i] = Token{kind: TokenUint, uval: uint64(data[offset+i])}
			}
			tree.tokens = append(tree.tokens, Token{kind: TokenSeq, sub: sub})
			offset += count
			continue
		}

		if len(data)-offset < cf.width {
			return nil, newParseError(cf.name, cf.kind.String(), offset, cf.width, len(data)-offset, "data too short")
		}

		var v uint64
		switch cf.kind {
		case KindUint8:
			v = uint64(data[offset])
		case KindUint16:
			v = uint64(cf.order.Uint16(data[offset:]))
		case KindUint32:
			v = uint64(cf.order.Uint32(data[offset:]))
		case KindUint64:
			v = cf.order.Uint64(data[offset:])
		}
		tree.tokens = append(tree.tokens, Token{kind: TokenUint, uval: v})
		offset += cf.width
	}

	// 没有变长字段时同样要求精确消费
	if offset != len(data) {
		return nil, newParseError("", "", offset, 0, len(data)-offset, "trailing bytes after last field")
	}

	return tree, nil
}
