// Package uses reads use statements: it tells import, closure and trait
// uses apart and turns import statements into names.UseTable entries.
package uses

import (
	"strconv"
	"strings"

	"github.com/shinyvision/phpscope/internal/contract"
	"github.com/shinyvision/phpscope/internal/names"
	"github.com/shinyvision/phpscope/internal/namespaces"
	"github.com/shinyvision/phpscope/internal/token"
)

// Type is the role of a use keyword.
type Type string

const (
	Unknown Type = ""
	Import  Type = "import"
	Closure Type = "closure"
	Trait   Type = "trait"
)

// Classify returns the role of the use keyword at ptr. A use keyword inside
// a function body is a parse error and yields Unknown.
func Classify(file *token.File, ptr int) (Type, error) {
	if err := checkUse("Classify", file, ptr); err != nil {
		return Unknown, err
	}
	if prev, ok := file.PrevNonEmpty(ptr); ok && file.Token(prev).Type == token.TCloseParenthesis {
		return Closure, nil
	}
	conds := file.Token(ptr).Conditions
	if len(conds) == 0 || conds[0].Type == token.TNamespace {
		return Import, nil
	}
	if token.IsOO(conds[0].Type) {
		return Trait, nil
	}
	return Unknown, nil
}

func checkUse(fn string, file *token.File, ptr int) error {
	if file == nil {
		return contract.TypeError(fn, "file", "*token.File", "nil")
	}
	if !file.Valid(ptr) {
		return contract.ValueError(fn, "ptr", "pointer to an existing token", strconv.Itoa(ptr))
	}
	if typ := file.Token(ptr).Type; typ != token.TUse {
		return contract.TypeError(fn, "ptr", string(token.TUse)+" token", string(typ))
	}
	return nil
}

// Split reads the import statement starting at ptr. It handles function and
// const imports, aliases and group use. Targets are stored without leading
// separator.
func Split(file *token.File, ptr int) (names.UseTable, error) {
	typ, err := Classify(file, ptr)
	if err != nil {
		return names.UseTable{}, err
	}
	if typ != Import {
		return names.UseTable{}, contract.ValueError("Split", "ptr", "import use statement", strconv.Quote(string(typ))+" use")
	}

	end, ok := file.FindNext([]token.Type{token.TSemicolon, token.TCloseTag}, ptr+1, -1)
	if !ok {
		end = file.Len()
	}

	table := names.NewUseTable()
	s := splitter{table: table, kind: names.KindName}
	first := true
	for i := ptr + 1; i < end; i++ {
		tok := file.Token(i)
		if token.IsEmpty(tok.Type) {
			continue
		}
		switch tok.Type {
		case token.TFunction:
			if first {
				s.kind = names.KindFunction
			}
			s.clauseKind = names.KindFunction
		case token.TConst:
			if first {
				s.kind = names.KindConst
			}
			s.clauseKind = names.KindConst
		case token.TString, token.TNameQualified, token.TNameFullyQualified, token.TNsSeparator:
			if s.expectAlias {
				s.alias = tok.Content
			} else {
				s.name.WriteString(tok.Content)
			}
		case token.TAs:
			s.expectAlias = true
		case token.TOpenCurlyBracket:
			s.prefix = s.name.String()
			s.name.Reset()
		case token.TComma, token.TCloseCurlyBracket:
			s.flush()
		}
		first = false
	}
	s.flush()
	return table, nil
}

type splitter struct {
	table       names.UseTable
	kind        names.Kind
	clauseKind  names.Kind
	prefix      string
	name        strings.Builder
	alias       string
	expectAlias bool
}

func (s *splitter) flush() {
	defer func() {
		s.name.Reset()
		s.alias = ""
		s.expectAlias = false
		s.clauseKind = ""
	}()

	name := strings.Trim(s.name.String(), names.Separator)
	if name == "" {
		return
	}
	target := name
	if prefix := strings.Trim(s.prefix, names.Separator); prefix != "" {
		target = prefix + names.Separator + name
	}
	kind := s.kind
	if s.clauseKind != "" {
		kind = s.clauseKind
	}
	alias := s.alias
	if alias == "" {
		alias = names.ShortName(target)
	}
	s.table.For(kind)[alias] = target
}

// Collect merges the import statements that precede ptr in its namespace.
// Later imports of the same alias override earlier ones.
func Collect(file *token.File, ptr int) names.UseTable {
	table := names.NewUseTable()
	if !file.Valid(ptr) {
		return table
	}

	start := scopeStart(file, ptr)
	types := []token.Type{token.TUse}
	for i := start; i < ptr; i++ {
		next, ok := file.FindNext(types, i, ptr)
		if !ok {
			break
		}
		i = next
		if typ, _ := Classify(file, next); typ != Import {
			continue
		}
		stmt, err := Split(file, next)
		if err != nil {
			continue
		}
		merge(table, stmt)
	}
	return table
}

func merge(dst, src names.UseTable) {
	for _, kind := range []names.Kind{names.KindName, names.KindFunction, names.KindConst} {
		into := dst.For(kind)
		for alias, target := range src.For(kind) {
			into[alias] = target
		}
	}
}

// scopeStart returns the first pointer of the namespace region holding ptr.
func scopeStart(file *token.File, ptr int) int {
	for _, c := range file.Token(ptr).Conditions {
		if c.Type == token.TNamespace {
			return c.Ptr
		}
	}
	types := []token.Type{token.TNamespace}
	for start := ptr; start >= 0; {
		i, ok := file.FindPrevious(types, start, 0)
		if !ok {
			break
		}
		start = i - 1
		if !namespaces.IsDeclaration(file, i) {
			continue
		}
		if decl := file.Token(i); decl.ScopeOpener >= 0 && ptr > decl.ScopeCloser {
			return decl.ScopeCloser + 1
		}
		return i
	}
	return 0
}
