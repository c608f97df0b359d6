package token

import (
	"context"
	"errors"
	"strings"

	phpforest "github.com/alexaandru/go-sitter-forest/php"
	sitter "github.com/alexaandru/go-tree-sitter-bare"
)

// Keyword and punctuation leaves that map directly to a token type.
var leafTypes = map[string]Type{
	"fn":         TFn,
	"interface":  TInterface,
	"trait":      TTrait,
	"enum":       TEnum,
	"namespace":  TNamespace,
	"use":        TUse,
	"as":         TAs,
	"extends":    TExtends,
	"implements": TImplements,
	"const":      TConst,
	"new":        TNew,
	"instanceof": TInstanceof,
	"self":       TSelf,
	"parent":     TParent,
	"static":     TStatic,
	"\\":         TNsSeparator,
	"(":          TOpenParenthesis,
	")":          TCloseParenthesis,
	"{":          TOpenCurlyBracket,
	"}":          TCloseCurlyBracket,
	"[":          TOpenSquareBracket,
	"]":          TCloseSquareBracket,
	"#[":         TAttribute,
	";":          TSemicolon,
	",":          TComma,
	":":          TColon,
	"::":         TDoubleColon,
	"->":         TObjectOperator,
	"?->":        TNullsafeObjectOperator,
	"&":          TBitwiseAnd,
	"?":          TNullable,
	"=":          TEqual,
	"?>":         TCloseTag,
}

// Nodes emitted as a single token, whatever their inner structure.
var atomicNodes = map[string]Type{
	"php_tag":                  TOpenTag,
	"text":                     TInlineHTML,
	"string":                   TConstantEncapsedString,
	"encapsed_string":          TConstantEncapsedString,
	"shell_command_expression": TConstantEncapsedString,
	"variable_name":            TVariable,
	"integer":                  TLNumber,
	"float":                    TDNumber,
	"qualified_name":           TString,
	"relative_name":            TString,
	"namespace_name":           TString,
}

var closureNodes = map[string]struct{}{
	"anonymous_function":                     {},
	"anonymous_function_creation_expression": {},
}

var anonClassNodes = map[string]struct{}{
	"anonymous_class":            {},
	"object_creation_expression": {},
}

// Parse tokenizes PHP source with the tree-sitter PHP grammar.
func Parse(path string, src []byte) (*File, error) {
	parser := sitter.NewParser()
	lang := sitter.NewLanguage(phpforest.GetLanguage())
	if !parser.SetLanguage(lang) {
		return nil, errors.New("php: set tree-sitter language")
	}
	tree, err := parser.ParseString(context.Background(), nil, src)
	if err != nil {
		return nil, err
	}
	defer tree.Close()
	return FromTree(path, tree, src), nil
}

// FromTree flattens an already parsed tree into a File.
func FromTree(path string, tree *sitter.Tree, src []byte) *File {
	l := &lexer{src: src}
	if tree != nil {
		if root := tree.RootNode(); !root.IsNull() {
			l.walk(root, "")
		}
	}
	l.gap(len(src))
	return NewFile(path, l.tokens)
}

type lexer struct {
	src    []byte
	pos    int
	tokens []Token
}

func (l *lexer) emit(typ Type, start, end int) {
	if end <= start {
		return
	}
	l.gap(start)
	l.tokens = append(l.tokens, New(typ, string(l.src[start:end])))
	l.pos = end
}

// gap emits the bytes between the last token and start, which tree-sitter
// does not attach to any leaf.
func (l *lexer) gap(start int) {
	if start > len(l.src) {
		start = len(l.src)
	}
	if start <= l.pos {
		return
	}
	text := string(l.src[l.pos:start])
	typ := TWhitespace
	if strings.TrimSpace(text) != "" {
		typ = TOther
	}
	l.tokens = append(l.tokens, New(typ, text))
	l.pos = start
}

func (l *lexer) walk(node sitter.Node, parentType string) {
	nodeType := node.Type()
	start, end := int(node.StartByte()), int(node.EndByte())
	if start < l.pos {
		start = l.pos
	}

	switch nodeType {
	case "comment":
		l.comment(start, end)
		return
	case "heredoc", "nowdoc":
		l.heredoc(node, start, end)
		return
	}
	if typ, ok := atomicNodes[nodeType]; ok {
		if typ == TString {
			typ = classifyName(string(l.src[start:end]))
		}
		l.emit(typ, start, end)
		return
	}

	count := node.ChildCount()
	if count == 0 {
		l.emit(leafType(nodeType, parentType, string(l.src[start:end])), start, end)
		return
	}
	for i := uint32(0); i < count; i++ {
		l.walk(node.Child(i), nodeType)
	}
}

func leafType(nodeType, parentType, content string) Type {
	switch nodeType {
	case "function":
		if _, ok := closureNodes[parentType]; ok {
			return TClosure
		}
		return TFunction
	case "class":
		if _, ok := anonClassNodes[parentType]; ok {
			return TAnonClass
		}
		if parentType == "class_constant_access_expression" {
			return TString
		}
		return TClass
	case "name":
		switch parentType {
		case "named_type", "relative_scope", "object_creation_expression":
			switch strings.ToLower(content) {
			case "self":
				return TSelf
			case "parent":
				return TParent
			case "static":
				return TStatic
			}
		}
		return TString
	}
	if typ, ok := leafTypes[nodeType]; ok {
		return typ
	}
	return TOther
}

func classifyName(content string) Type {
	switch {
	case strings.HasPrefix(content, "\\"):
		return TNameFullyQualified
	case len(content) > len("namespace\\") && strings.EqualFold(content[:len("namespace\\")], "namespace\\"):
		return TNameRelative
	case strings.Contains(content, "\\"):
		return TNameQualified
	}
	return TString
}

// comment splits doc comments into open tag, body and close tag.
func (l *lexer) comment(start, end int) {
	text := string(l.src[start:end])
	if !strings.HasPrefix(text, "/**") || text == "/**/" {
		l.emit(TComment, start, end)
		return
	}
	l.emit(TDocCommentOpenTag, start, start+3)
	if strings.HasSuffix(text, "*/") && len(text) >= 5 {
		l.emit(TDocComment, start+3, end-2)
		l.emit(TDocCommentCloseTag, end-2, end)
		return
	}
	l.emit(TDocComment, start+3, end)
}

// heredoc emits the start marker, the body and the end marker. A body
// without end marker leaves the start token without closer.
func (l *lexer) heredoc(node sitter.Node, start, end int) {
	text := string(l.src[start:end])
	nl := strings.IndexByte(text, '\n')
	if nl < 0 {
		l.emit(TStartHeredoc, start, end)
		return
	}
	opener := text[:nl+1]
	startType, bodyType, endType := TStartHeredoc, THeredoc, TEndHeredoc
	if node.Type() == "nowdoc" || strings.Contains(opener, "'") {
		startType, bodyType, endType = TStartNowdoc, TNowdoc, TEndNowdoc
	}

	endTag := -1
	for i := uint32(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		if child.Type() == "heredoc_end" {
			endTag = int(child.StartByte())
		}
	}

	bodyStart := start + nl + 1
	l.emit(startType, start, bodyStart)
	if endTag < bodyStart {
		l.emit(bodyType, bodyStart, end)
		return
	}
	// The newline before the end marker belongs to the end token.
	tagStart := endTag
	for tagStart > bodyStart && isBlank(l.src[tagStart-1]) {
		tagStart--
	}
	l.emit(bodyType, bodyStart, tagStart)
	l.emit(endType, tagStart, end)
}

func isBlank(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}
