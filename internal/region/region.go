// Package region finds the end of token regions whose inner tokens must not
// be read as code: doc comments, attribute groups and heredoc/nowdoc bodies.
package region

import "github.com/shinyvision/phpscope/internal/token"

// Kind is the closed set of skippable regions.
type Kind int

const (
	None Kind = iota
	DocComment
	AttributeGroup
	HeredocOrNowdoc
)

func (k Kind) String() string {
	switch k {
	case DocComment:
		return "doc comment"
	case AttributeGroup:
		return "attribute group"
	case HeredocOrNowdoc:
		return "heredoc/nowdoc"
	}
	return "none"
}

var openers = map[token.Type]Kind{
	token.TDocCommentOpenTag: DocComment,
	token.TAttribute:         AttributeGroup,
	token.TStartHeredoc:      HeredocOrNowdoc,
	token.TStartNowdoc:       HeredocOrNowdoc,
}

// KindOf returns the region a token of type t opens, or None.
func KindOf(t token.Type) Kind {
	return openers[t]
}

// Openers lists the token types that open a region.
func Openers() []token.Type {
	return []token.Type{
		token.TDocCommentOpenTag,
		token.TAttribute,
		token.TStartHeredoc,
		token.TStartNowdoc,
	}
}

// Skip returns the pointer a scan should continue after. For a region
// opener that is its closer; an opener without closer (unterminated region)
// skips to the last token. Any other token returns ptr itself.
func Skip(file *token.File, ptr int) int {
	if !file.Valid(ptr) {
		return ptr
	}
	tok := file.Token(ptr)
	if KindOf(tok.Type) == None {
		return ptr
	}
	if file.Valid(tok.Closer) && tok.Closer > ptr {
		return tok.Closer
	}
	return file.Last()
}
