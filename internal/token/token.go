package token

// Condition is one enclosing scope owner of a token.
type Condition struct {
	Ptr  int
	Type Type
}

// Token is a single lexical token together with the structural metadata
// computed by NewFile.
type Token struct {
	Type    Type
	Content string

	// Offset is the byte offset of the token in the source. Line is 1-based,
	// Column is the 0-based byte column.
	Offset int
	Line   int
	Column int

	// Opener and Closer link brackets, attribute groups, doc comments and
	// heredoc/nowdoc bodies. -1 when there is no partner.
	Opener int
	Closer int

	// ScopeOpener and ScopeCloser are set on scope owners (class, function,
	// namespace, ...) that have a brace-delimited body. -1 otherwise.
	ScopeOpener int
	ScopeCloser int

	// Conditions lists the scope owners enclosing this token, innermost first.
	Conditions []Condition
}

// New returns a token with no structural metadata.
func New(typ Type, content string) Token {
	return Token{
		Type:        typ,
		Content:     content,
		Opener:      -1,
		Closer:      -1,
		ScopeOpener: -1,
		ScopeCloser: -1,
	}
}
