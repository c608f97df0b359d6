// Package scopes resolves OO-relative keywords and declaration names by
// walking a token's enclosing scope owners.
package scopes

import (
	"strconv"
	"strings"

	"github.com/shinyvision/phpscope/internal/contract"
	"github.com/shinyvision/phpscope/internal/names"
	"github.com/shinyvision/phpscope/internal/namespaces"
	"github.com/shinyvision/phpscope/internal/token"
)

// DeclarationName returns the name declared by a function, class, interface,
// trait or enum keyword. Closures, anonymous classes and declarations whose
// name is missing (in-progress edits) yield ok == false.
func DeclarationName(file *token.File, ptr int) (string, bool) {
	if !file.Valid(ptr) {
		return "", false
	}
	typ := file.Token(ptr).Type
	switch typ {
	case token.TFunction, token.TClass, token.TInterface, token.TTrait, token.TEnum:
	default:
		return "", false
	}
	next, ok := file.NextNonEmpty(ptr)
	if ok && typ == token.TFunction && file.Token(next).Type == token.TBitwiseAnd {
		next, ok = file.NextNonEmpty(next)
	}
	if !ok || file.Token(next).Type != token.TString {
		return "", false
	}
	if typ == token.TFunction {
		// Rules out the function keyword of `use function` imports.
		paren, ok := file.NextNonEmpty(next)
		if !ok || file.Token(paren).Type != token.TOpenParenthesis {
			return "", false
		}
	}
	return file.Token(next).Content, true
}

// EnclosingStructure returns the innermost class-like declaration enclosing ptr.
func EnclosingStructure(file *token.File, ptr int) (int, bool) {
	if !file.Valid(ptr) {
		return -1, false
	}
	for _, c := range file.Token(ptr).Conditions {
		if token.IsOO(c.Type) {
			return c.Ptr, true
		}
	}
	return -1, false
}

// StructureName returns the fully qualified name of the class-like
// declaration at owner, qualified with the namespace active there. An
// anonymous class yields "" with ok set.
func StructureName(file *token.File, owner int) (string, bool) {
	return structureName(file, owner, namespaces.Determine(file, owner))
}

func structureName(file *token.File, owner int, namespace string) (string, bool) {
	if !file.Valid(owner) {
		return "", false
	}
	if file.Token(owner).Type == token.TAnonClass {
		return "", true
	}
	name, ok := DeclarationName(file, owner)
	if !ok {
		return "", false
	}
	return names.Qualify(namespace, name), true
}

// ResolveSelf resolves the self keyword at ptr to the fully qualified name of
// the nearest enclosing class-like structure. Outside any structure the
// result is ("", false); inside an anonymous class it is ("", true).
func ResolveSelf(file *token.File, ptr int) (string, bool, error) {
	owner, ok, err := selfOwner("ResolveSelf", file, ptr)
	if err != nil || !ok {
		return "", false, err
	}
	name, ok := StructureName(file, owner)
	return name, ok, nil
}

// ResolveSelfIn is ResolveSelf with the enclosing namespace supplied by the
// caller instead of being determined from the file.
func ResolveSelfIn(file *token.File, ptr int, namespace string) (string, bool, error) {
	owner, ok, err := selfOwner("ResolveSelfIn", file, ptr)
	if err != nil || !ok {
		return "", false, err
	}
	name, ok := structureName(file, owner, namespace)
	return name, ok, nil
}

func selfOwner(fn string, file *token.File, ptr int) (int, bool, error) {
	if err := checkKeyword(fn, file, ptr, token.TSelf); err != nil {
		return -1, false, err
	}
	owner, ok := EnclosingStructure(file, ptr)
	return owner, ok, nil
}

func checkKeyword(fn string, file *token.File, ptr int, want token.Type) error {
	if file == nil {
		return contract.TypeError(fn, "file", "*token.File", "nil")
	}
	if !file.Valid(ptr) {
		return contract.ValueError(fn, "ptr", "pointer to an existing token", strconv.Itoa(ptr))
	}
	if typ := file.Token(ptr).Type; typ != want {
		return contract.TypeError(fn, "ptr", string(want)+" token", string(typ))
	}
	return nil
}

// ResolveParent resolves the parent keyword at ptr through the extends
// clause of the enclosing class, using uses for the class name. Classes
// without parent, interfaces, traits and enums yield ("", false).
func ResolveParent(file *token.File, ptr int, uses names.UseTable) (string, bool, error) {
	if err := checkKeyword("ResolveParent", file, ptr, token.TParent); err != nil {
		return "", false, err
	}
	owner, ok := EnclosingStructure(file, ptr)
	if !ok {
		return "", false, nil
	}
	decl := file.Token(owner)
	if decl.Type != token.TClass && decl.Type != token.TAnonClass {
		return "", false, nil
	}
	extends, ok := file.FindNext([]token.Type{token.TExtends}, owner+1, decl.ScopeOpener)
	if !ok {
		return "", false, nil
	}
	next, ok := file.NextNonEmpty(extends)
	if !ok || !token.IsName(file.Token(next).Type) {
		return "", false, nil
	}
	return names.ResolveName(file.Token(next).Content, names.KindName, uses, namespaces.Determine(file, owner))
}

// FindStructure finds a named class-like declaration by fully qualified
// name, without regard to case.
func FindStructure(file *token.File, fqn string) (int, bool) {
	want := names.Separator + strings.Trim(fqn, names.Separator)
	for i := 0; i < file.Len(); i++ {
		typ := file.Token(i).Type
		if !token.IsOO(typ) || typ == token.TAnonClass {
			continue
		}
		name, ok := StructureName(file, i)
		if ok && strings.EqualFold(name, want) {
			return i, true
		}
	}
	return -1, false
}
