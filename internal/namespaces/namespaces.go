// Package namespaces answers namespace questions about a token stream: is a
// namespace keyword a declaration or the namespace\ operator, what name does
// a declaration declare, and which namespace is active at a given token.
package namespaces

import (
	"strings"

	"github.com/shinyvision/phpscope/internal/token"
)

// IsDeclaration reports whether the namespace keyword at ptr starts a
// namespace declaration rather than a namespace-relative name.
func IsDeclaration(file *token.File, ptr int) bool {
	if !file.Valid(ptr) || file.Token(ptr).Type != token.TNamespace {
		return false
	}
	next, ok := file.NextNonEmpty(ptr)
	if !ok {
		return false
	}
	return file.Token(next).Type != token.TNsSeparator
}

// DeclaredName returns the name declared by the namespace keyword at ptr.
// A block without name (`namespace { }`) declares the global namespace and
// yields "" with ok set. Parse errors yield ok == false.
func DeclaredName(file *token.File, ptr int) (string, bool) {
	if !IsDeclaration(file, ptr) {
		return "", false
	}
	var b strings.Builder
	for i := ptr + 1; i < file.Len(); i++ {
		tok := file.Token(i)
		switch {
		case token.IsEmpty(tok.Type):
			continue
		case tok.Type == token.TString, tok.Type == token.TNameQualified, tok.Type == token.TNsSeparator:
			b.WriteString(tok.Content)
		case tok.Type == token.TSemicolon, tok.Type == token.TOpenCurlyBracket, tok.Type == token.TCloseTag:
			return strings.Trim(b.String(), "\\"), true
		default:
			return "", false
		}
	}
	name := strings.Trim(b.String(), "\\")
	return name, name != ""
}

// Determine returns the namespace in effect at ptr, "" for the global
// namespace. A scoped (braced) namespace enclosing ptr wins; otherwise the
// nearest preceding unscoped declaration applies.
func Determine(file *token.File, ptr int) string {
	if !file.Valid(ptr) {
		return ""
	}
	for _, c := range file.Token(ptr).Conditions {
		if c.Type == token.TNamespace {
			name, _ := DeclaredName(file, c.Ptr)
			return name
		}
	}

	types := []token.Type{token.TNamespace}
	for start := ptr; start >= 0; {
		i, ok := file.FindPrevious(types, start, 0)
		if !ok {
			break
		}
		start = i - 1
		if !IsDeclaration(file, i) {
			continue
		}
		decl := file.Token(i)
		if decl.ScopeOpener >= 0 && ptr > decl.ScopeCloser {
			// Past the end of a braced namespace: global code.
			return ""
		}
		name, _ := DeclaredName(file, i)
		return name
	}
	return ""
}

// Declarations returns the pointers of all namespace declarations in the file.
func Declarations(file *token.File) []int {
	var out []int
	types := []token.Type{token.TNamespace}
	for start := 0; ; {
		i, ok := file.FindNext(types, start, -1)
		if !ok {
			return out
		}
		if IsDeclaration(file, i) {
			out = append(out, i)
		}
		start = i + 1
	}
}
