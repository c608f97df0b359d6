package token

import (
	"slices"
	"sort"
	"strings"
)

// File is a tokenized PHP source file. Two files are the same file only if
// they are the same *File: re-tokenizing a path produces a new identity.
type File struct {
	path   string
	tokens []Token
}

// NewFile takes ownership of tokens and computes positions, bracket and
// region pairs, scope owners and conditions.
func NewFile(path string, tokens []Token) *File {
	f := &File{path: path, tokens: tokens}
	f.computePositions()
	f.matchBrackets()
	f.matchRegions()
	f.matchScopes()
	f.computeConditions()
	return f
}

// Path returns the path the file was tokenized from.
func (f *File) Path() string {
	return f.path
}

// Len returns the number of tokens.
func (f *File) Len() int {
	if f == nil {
		return 0
	}
	return len(f.tokens)
}

// Last returns the pointer of the last token, or -1 for an empty file.
func (f *File) Last() int {
	return f.Len() - 1
}

// Valid reports whether ptr refers to an existing token.
func (f *File) Valid(ptr int) bool {
	return ptr >= 0 && ptr < f.Len()
}

// Token returns the token at ptr. The caller must check Valid first.
func (f *File) Token(ptr int) Token {
	return f.tokens[ptr]
}

// Tokens returns the underlying token slice. It must not be modified.
func (f *File) Tokens() []Token {
	return f.tokens
}

// Source reassembles the token contents.
func (f *File) Source() string {
	var b strings.Builder
	for _, tok := range f.tokens {
		b.WriteString(tok.Content)
	}
	return b.String()
}

// FindNext returns the first token at or after start and before end whose
// type is one of types. A negative end means the end of the file.
func (f *File) FindNext(types []Type, start, end int) (int, bool) {
	if end < 0 || end > f.Len() {
		end = f.Len()
	}
	if start < 0 {
		start = 0
	}
	for i := start; i < end; i++ {
		if slices.Contains(types, f.tokens[i].Type) {
			return i, true
		}
	}
	return -1, false
}

// FindPrevious walks backward from start down to end (inclusive) and returns
// the first token whose type is one of types.
func (f *File) FindPrevious(types []Type, start, end int) (int, bool) {
	if start >= f.Len() {
		start = f.Len() - 1
	}
	if end < 0 {
		end = 0
	}
	for i := start; i >= end; i-- {
		if slices.Contains(types, f.tokens[i].Type) {
			return i, true
		}
	}
	return -1, false
}

// NextNonEmpty returns the first token after ptr that is not whitespace or a comment.
func (f *File) NextNonEmpty(ptr int) (int, bool) {
	for i := ptr + 1; i < f.Len(); i++ {
		if !IsEmpty(f.tokens[i].Type) {
			return i, true
		}
	}
	return -1, false
}

// PrevNonEmpty returns the last token before ptr that is not whitespace or a comment.
func (f *File) PrevNonEmpty(ptr int) (int, bool) {
	if ptr > f.Len() {
		ptr = f.Len()
	}
	for i := ptr - 1; i >= 0; i-- {
		if !IsEmpty(f.tokens[i].Type) {
			return i, true
		}
	}
	return -1, false
}

// HasCondition reports whether ptr is enclosed by a scope owner of any of types.
func (f *File) HasCondition(ptr int, types ...Type) bool {
	if !f.Valid(ptr) {
		return false
	}
	for _, c := range f.tokens[ptr].Conditions {
		if slices.Contains(types, c.Type) {
			return true
		}
	}
	return false
}

// TokenAt returns the token covering the byte offset.
func (f *File) TokenAt(offset int) (int, bool) {
	if f.Len() == 0 || offset < 0 {
		return -1, false
	}
	i := sort.Search(len(f.tokens), func(i int) bool {
		return f.tokens[i].Offset > offset
	}) - 1
	if i < 0 {
		return -1, false
	}
	tok := f.tokens[i]
	if offset >= tok.Offset+len(tok.Content) {
		return -1, false
	}
	return i, true
}

func (f *File) computePositions() {
	offset, line, column := 0, 1, 0
	for i := range f.tokens {
		tok := &f.tokens[i]
		tok.Offset = offset
		tok.Line = line
		tok.Column = column
		tok.Opener, tok.Closer = -1, -1
		tok.ScopeOpener, tok.ScopeCloser = -1, -1
		tok.Conditions = nil

		offset += len(tok.Content)
		if n := strings.Count(tok.Content, "\n"); n > 0 {
			line += n
			column = len(tok.Content) - strings.LastIndexByte(tok.Content, '\n') - 1
		} else {
			column += len(tok.Content)
		}
	}
}

func closerFor(t Type) Type {
	switch t {
	case TOpenParenthesis:
		return TCloseParenthesis
	case TOpenCurlyBracket:
		return TCloseCurlyBracket
	case TOpenSquareBracket, TAttribute:
		return TCloseSquareBracket
	}
	return ""
}

func (f *File) matchBrackets() {
	var stack []int
	for i := range f.tokens {
		typ := f.tokens[i].Type
		if typ == TAttributeEnd {
			typ = TCloseSquareBracket
		}
		switch typ {
		case TOpenParenthesis, TOpenCurlyBracket, TOpenSquareBracket, TAttribute:
			stack = append(stack, i)
		case TCloseParenthesis, TCloseCurlyBracket, TCloseSquareBracket:
			for j := len(stack) - 1; j >= 0; j-- {
				opener := stack[j]
				if closerFor(f.tokens[opener].Type) != typ {
					continue
				}
				f.tokens[opener].Closer = i
				f.tokens[i].Opener = opener
				if f.tokens[opener].Type == TAttribute {
					f.tokens[i].Type = TAttributeEnd
				}
				stack = stack[:j]
				break
			}
		}
	}
}

func (f *File) matchRegions() {
	open := -1
	for i := range f.tokens {
		switch f.tokens[i].Type {
		case TDocCommentOpenTag, TStartHeredoc, TStartNowdoc:
			open = i
		case TDocCommentCloseTag, TEndHeredoc, TEndNowdoc:
			if open < 0 || !regionPair(f.tokens[open].Type, f.tokens[i].Type) {
				continue
			}
			f.tokens[open].Closer = i
			f.tokens[i].Opener = open
			open = -1
		}
	}
}

func regionPair(opener, closer Type) bool {
	switch opener {
	case TDocCommentOpenTag:
		return closer == TDocCommentCloseTag
	case TStartHeredoc:
		return closer == TEndHeredoc
	case TStartNowdoc:
		return closer == TEndNowdoc
	}
	return false
}

func (f *File) matchScopes() {
	for i := range f.tokens {
		typ := f.tokens[i].Type
		if !IsScopeOwner(typ) {
			continue
		}
		if prev, ok := f.PrevNonEmpty(i); ok && f.tokens[prev].Type == TDoubleColon {
			continue
		}
		if typ == TNamespace {
			if next, ok := f.NextNonEmpty(i); ok && f.tokens[next].Type == TNsSeparator {
				continue
			}
		}
		opener := f.findScopeOpener(i)
		if opener < 0 {
			continue
		}
		closer := f.tokens[opener].Closer
		if closer < 0 {
			closer = f.Last()
		}
		f.tokens[i].ScopeOpener = opener
		f.tokens[i].ScopeCloser = closer
	}
}

func (f *File) findScopeOpener(owner int) int {
	for j := owner + 1; j < len(f.tokens); j++ {
		tok := f.tokens[j]
		switch tok.Type {
		case TOpenParenthesis, TAttribute, TOpenSquareBracket:
			if tok.Closer < 0 {
				return -1
			}
			j = tok.Closer
		case TOpenCurlyBracket:
			return j
		case TSemicolon, TCloseCurlyBracket, TCloseTag:
			return -1
		}
		if IsScopeOwner(tok.Type) {
			return -1
		}
	}
	return -1
}

func (f *File) computeConditions() {
	openers := make(map[int]int)
	for i, tok := range f.tokens {
		if tok.ScopeOpener >= 0 {
			openers[tok.ScopeOpener] = i
		}
	}
	if len(openers) == 0 {
		return
	}

	var stack []int
	var current []Condition
	for i := range f.tokens {
		changed := false
		for len(stack) > 0 && f.tokens[stack[len(stack)-1]].ScopeCloser <= i {
			stack = stack[:len(stack)-1]
			changed = true
		}
		if changed {
			current = conditionsFor(f.tokens, stack)
		}
		f.tokens[i].Conditions = current
		if owner, ok := openers[i]; ok {
			stack = append(stack, owner)
			current = conditionsFor(f.tokens, stack)
		}
	}
}

func conditionsFor(tokens []Token, stack []int) []Condition {
	if len(stack) == 0 {
		return nil
	}
	out := make([]Condition, 0, len(stack))
	for i := len(stack) - 1; i >= 0; i-- {
		out = append(out, Condition{Ptr: stack[i], Type: tokens[stack[i]].Type})
	}
	return out
}
