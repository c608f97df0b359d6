package php

import (
	"slices"
	"strings"

	"github.com/shinyvision/phpscope/internal/names"
	"github.com/shinyvision/phpscope/internal/namespaces"
	"github.com/shinyvision/phpscope/internal/scopes"
	"github.com/shinyvision/phpscope/internal/token"
	"github.com/shinyvision/phpscope/internal/tracker"
	"github.com/shinyvision/phpscope/internal/uses"
	"github.com/shinyvision/phpscope/internal/utils"
)

// ReferenceKind classifies a name found in code.
type ReferenceKind int

const (
	RefNone ReferenceKind = iota
	RefFunction
	RefClass
	RefSelf
	RefStatic
	RefParent
)

func (k ReferenceKind) String() string {
	switch k {
	case RefFunction:
		return "function"
	case RefClass:
		return "class"
	case RefSelf:
		return "self"
	case RefStatic:
		return "static"
	case RefParent:
		return "parent"
	}
	return "none"
}

// Reference is a resolved name occurring at Ptr.
type Reference struct {
	Kind ReferenceKind
	Ptr  int
	// Name is the name as written.
	Name string
	// Candidates are the fully qualified names the reference may denote, in
	// lookup order. An unimported unqualified function call has two: the
	// current namespace first, then the global namespace.
	Candidates []string
}

// Declaration is where a reference is declared in the same file.
type Declaration struct {
	Name string
	// Ptr points at the declared name token.
	Ptr int
}

// ReferenceAt finds and resolves the reference at the byte offset. A cursor
// just past the end of a name still selects that name.
func ReferenceAt(file *token.File, offset int) (Reference, bool) {
	ptr, ok := file.TokenAt(offset)
	if ok {
		if kind := classify(file, ptr); kind != RefNone {
			return resolve(file, ptr, kind)
		}
	}
	if offset > 0 {
		if prev, ok := file.TokenAt(offset - 1); ok && prev != ptr {
			if kind := classify(file, prev); kind != RefNone {
				return resolve(file, prev, kind)
			}
		}
	}
	return Reference{}, false
}

func classify(file *token.File, ptr int) ReferenceKind {
	typ := file.Token(ptr).Type
	switch typ {
	case token.TSelf:
		return RefSelf
	case token.TStatic:
		return RefStatic
	case token.TParent:
		return RefParent
	}
	if !token.IsName(typ) {
		return RefNone
	}

	var prevType, nextType token.Type
	prev, hasPrev := file.PrevNonEmpty(ptr)
	if hasPrev {
		prevType = file.Token(prev).Type
	}
	if next, ok := file.NextNonEmpty(ptr); ok {
		nextType = file.Token(next).Type
	}

	switch prevType {
	case token.TObjectOperator, token.TNullsafeObjectOperator, token.TDoubleColon,
		token.TFunction, token.TConst, token.TClass, token.TInterface, token.TTrait,
		token.TEnum, token.TNamespace, token.TUse, token.TAs:
		return RefNone
	case token.TNew, token.TExtends, token.TImplements, token.TInstanceof, token.TAttribute:
		return RefClass
	}

	switch nextType {
	case token.TOpenParenthesis:
		return RefFunction
	case token.TDoubleColon, token.TVariable:
		return RefClass
	}

	if prevType == token.TNullable {
		return RefClass
	}
	// Return type: `): Name`.
	if prevType == token.TColon {
		if before, ok := file.PrevNonEmpty(prev); ok && file.Token(before).Type == token.TCloseParenthesis {
			return RefClass
		}
	}
	return RefNone
}

func resolve(file *token.File, ptr int, kind ReferenceKind) (Reference, bool) {
	tok := file.Token(ptr)
	ref := Reference{Kind: kind, Ptr: ptr, Name: tok.Content}

	var name string
	var ok bool
	var err error
	switch kind {
	case RefSelf:
		name, ok, err = scopes.ResolveSelf(file, ptr)
	case RefStatic:
		if owner, found := scopes.EnclosingStructure(file, ptr); found {
			name, ok = scopes.StructureName(file, owner)
		}
	case RefParent:
		name, ok, err = scopes.ResolveParent(file, ptr, uses.Collect(file, ptr))
	case RefClass:
		name, ok, err = names.ResolveName(tok.Content, names.KindName, uses.Collect(file, ptr), namespaces.Determine(file, ptr))
	case RefFunction:
		ref.Candidates = functionCandidates(file, ptr, tok.Content)
		return ref, len(ref.Candidates) > 0
	}
	if err != nil || !ok || name == "" {
		return Reference{}, false
	}
	ref.Candidates = []string{name}
	return ref, true
}

// functionCandidates applies PHP's call-time rules on top of the lexical
// resolution: an unqualified call that no import covers falls back to the
// global function when the namespaced one does not exist.
func functionCandidates(file *token.File, ptr int, raw string) []string {
	ns := namespaces.Determine(file, ptr)
	table := uses.Collect(file, ptr)
	if qualifiedCall(raw) {
		// The leading segment is a namespace: it resolves through class
		// imports or the current namespace, never through function imports.
		name, ok, err := names.ResolveName(raw, names.KindName, table, ns)
		if err != nil || !ok {
			return nil
		}
		return []string{name}
	}
	name, ok, err := names.ResolveName(raw, names.KindFunction, table, ns)
	if err != nil {
		return nil
	}
	if ok {
		return []string{name}
	}
	out := []string{names.Qualify(ns, raw)}
	return utils.AppendUnique(out, names.Qualify("", raw))
}

// Advance walks tr over the target tokens of file up to and including
// upTo, the way a rule scanning the file would.
func Advance(tr *tracker.Tracker, file *token.File, upTo int) {
	targets := tr.TargetTokens()
	upTo = min(upTo, file.Last())
	for i := 0; i <= upTo; i++ {
		if slices.Contains(targets, file.Token(i).Type) {
			tr.Track(file, i)
		}
	}
}

// FindDeclaration looks up the declaration of ref in file. Functions are
// looked up through tr; class-like structures by scanning the file.
func FindDeclaration(file *token.File, tr *tracker.Tracker, ref Reference) (Declaration, bool) {
	for _, candidate := range ref.Candidates {
		var keyword int
		var ok bool
		if ref.Kind == RefFunction {
			var err error
			keyword, ok, err = tr.FindInFile(file, candidate)
			if err != nil {
				continue
			}
		} else {
			keyword, ok = scopes.FindStructure(file, candidate)
		}
		if !ok {
			continue
		}
		if ptr, ok := NameToken(file, keyword); ok {
			return Declaration{Name: candidate, Ptr: ptr}, true
		}
	}
	return Declaration{}, false
}

func qualifiedCall(raw string) bool {
	return strings.Contains(raw, names.Separator)
}

// NameToken returns the name token following a declaration keyword.
func NameToken(file *token.File, keyword int) (int, bool) {
	next, ok := file.NextNonEmpty(keyword)
	if ok && file.Token(next).Type == token.TBitwiseAnd {
		next, ok = file.NextNonEmpty(next)
	}
	if !ok || file.Token(next).Type != token.TString {
		return -1, false
	}
	return next, true
}
