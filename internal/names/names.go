// Package names resolves PHP identifiers, as written in a source file, to
// their fully qualified form using the file's import table and the current
// namespace. Resolution is purely lexical: nothing outside the file is
// consulted and no runtime fallback to the global namespace is guessed.
package names

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/shinyvision/phpscope/internal/contract"
)

// Separator is the PHP namespace separator.
const Separator = "\\"

// Kind selects the import table and the fallback rules used for a name.
type Kind string

const (
	// KindName covers classes, interfaces, traits and enums.
	KindName     Kind = "name"
	KindFunction Kind = "function"
	KindConst    Kind = "const"
)

// Valid reports whether k is one of the known kinds.
func (k Kind) Valid() bool {
	switch k {
	case KindName, KindFunction, KindConst:
		return true
	}
	return false
}

// UseTable holds the import use statements visible at some point of a file.
// Keys are aliases as written, values are fully qualified targets with or
// without a leading separator.
type UseTable struct {
	Name     map[string]string
	Function map[string]string
	Const    map[string]string
}

// NewUseTable returns a table with all three maps allocated.
func NewUseTable() UseTable {
	return UseTable{
		Name:     make(map[string]string),
		Function: make(map[string]string),
		Const:    make(map[string]string),
	}
}

// For returns the map holding imports of the given kind.
func (t UseTable) For(kind Kind) map[string]string {
	switch kind {
	case KindFunction:
		return t.Function
	case KindConst:
		return t.Const
	}
	return t.Name
}

// Len returns the number of imports of all kinds.
func (t UseTable) Len() int {
	return len(t.Name) + len(t.Function) + len(t.Const)
}

// Lookup finds the import for alias. Class and function aliases are matched
// without regard to case; constant aliases are case-sensitive.
func (t UseTable) Lookup(kind Kind, alias string) (string, bool) {
	table := t.For(kind)
	if target, ok := table[alias]; ok {
		return target, true
	}
	if kind == KindConst {
		return "", false
	}
	// Aliases differing only in case: the smallest key wins.
	match, found := "", false
	for key := range table {
		if strings.EqualFold(key, alias) && (!found || key < match) {
			match, found = key, true
		}
	}
	if !found {
		return "", false
	}
	return table[match], true
}

// IsRelativeKeyword reports whether name is self, parent or static.
func IsRelativeKeyword(name string) bool {
	switch strings.ToLower(name) {
	case "self", "parent", "static":
		return true
	}
	return false
}

// ResolveName returns the fully qualified form of raw, with exactly one
// leading separator. The boolean is false when the name cannot be resolved
// lexically: self/parent/static, or an unimported function or constant.
func ResolveName(raw string, kind Kind, uses UseTable, namespace string) (string, bool, error) {
	const fn = "ResolveName"
	if raw == "" {
		return "", false, contract.ValueError(fn, "raw", "non-empty name", `""`)
	}
	name := strings.TrimPrefix(raw, "?")
	if strings.TrimLeft(name, Separator) == "" {
		return "", false, contract.ValueError(fn, "raw", "a name after the nullable marker and separator", strconv.Quote(raw))
	}
	if strings.IndexFunc(name, unicode.IsSpace) >= 0 {
		return "", false, contract.ValueError(fn, "raw", "name without whitespace", strconv.Quote(raw))
	}
	if !kind.Valid() {
		return "", false, contract.ValueError(fn, "kind", "one of name, function, const", strconv.Quote(string(kind)))
	}
	if strings.IndexFunc(namespace, unicode.IsSpace) >= 0 {
		return "", false, contract.ValueError(fn, "namespace", "namespace name without whitespace", strconv.Quote(namespace))
	}
	namespace = strings.Trim(namespace, Separator)

	if kind == KindName && IsRelativeKeyword(name) {
		return "", false, nil
	}

	if strings.HasPrefix(name, Separator) {
		return Separator + strings.Trim(name, Separator), true, nil
	}

	if rest, ok := cutNamespaceOperator(name); ok {
		if rest == "" {
			return "", false, nil
		}
		return qualify(namespace, rest), true, nil
	}

	name = strings.TrimRight(name, Separator)
	first, remainder, qualified := strings.Cut(name, Separator)

	if target, ok := uses.Lookup(kind, first); ok {
		target = strings.Trim(target, Separator)
		if !qualified {
			return Separator + target, true, nil
		}
		return Separator + target + Separator + remainder, true, nil
	}

	if kind == KindName {
		return qualify(namespace, name), true, nil
	}
	return "", false, nil
}

func cutNamespaceOperator(name string) (string, bool) {
	const prefix = "namespace" + Separator
	if len(name) < len(prefix) || !strings.EqualFold(name[:len(prefix)], prefix) {
		return "", false
	}
	return strings.Trim(name[len(prefix):], Separator), true
}

func qualify(namespace, name string) string {
	if namespace == "" {
		return Separator + name
	}
	return Separator + namespace + Separator + name
}

// Qualify joins a namespace and a declared name into a fully qualified name.
func Qualify(namespace, name string) string {
	return qualify(strings.Trim(namespace, Separator), strings.Trim(name, Separator))
}

// ShortName returns the last segment of a qualified name.
func ShortName(qualified string) string {
	qualified = strings.TrimRight(qualified, Separator)
	if i := strings.LastIndex(qualified, Separator); i >= 0 {
		return qualified[i+1:]
	}
	return qualified
}
