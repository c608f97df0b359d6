package php

import (
	"unicode/utf8"

	"github.com/shinyvision/phpscope/internal/token"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// OffsetAt converts an LSP position (UTF-16 columns) into a byte offset.
func OffsetAt(content []byte, pos protocol.Position) (int, bool) {
	row := pos.Line

	var lineStart int
	var curRow uint32
	for i := 0; i < len(content) && curRow < row; i++ {
		if content[i] == '\n' {
			curRow++
			lineStart = i + 1
		}
	}
	if curRow != row {
		return -1, false
	}

	need := pos.Character
	offset := lineStart
	for offset < len(content) {
		b := content[offset]
		if b == '\n' || b == '\r' {
			break
		}
		r, size := utf8.DecodeRune(content[offset:])
		var u16len uint32 = 1
		if r > 0xFFFF {
			u16len = 2
		}
		if need < u16len {
			return offset, true
		}
		need -= u16len
		offset += size
	}
	return offset, true
}

// PositionAt converts a byte offset into an LSP position.
func PositionAt(content []byte, offset int) protocol.Position {
	offset = min(max(offset, 0), len(content))

	var line uint32
	lineStart := 0
	for i := 0; i < offset; i++ {
		if content[i] == '\n' {
			line++
			lineStart = i + 1
		}
	}

	var char uint32
	for i := lineStart; i < offset; {
		r, size := utf8.DecodeRune(content[i:])
		if r > 0xFFFF {
			char += 2
		} else {
			char++
		}
		i += size
	}
	return protocol.Position{Line: line, Character: char}
}

// TokenRange returns the LSP range covered by the token at ptr.
func TokenRange(file *token.File, content []byte, ptr int) protocol.Range {
	if !file.Valid(ptr) {
		return protocol.Range{}
	}
	tok := file.Token(ptr)
	return protocol.Range{
		Start: PositionAt(content, tok.Offset),
		End:   PositionAt(content, tok.Offset+len(tok.Content)),
	}
}
