package namespaces

import (
	"testing"

	"github.com/shinyvision/phpscope/internal/token"
	"github.com/stretchr/testify/require"
)

func unscoped() *token.File {
	return token.NewFile("unscoped.php", []token.Token{
		token.New(token.TOpenTag, "<?php\n"),        // 0
		token.New(token.TNamespace, "namespace"),    // 1
		token.New(token.TWhitespace, " "),           // 2
		token.New(token.TNameQualified, "App\\Sub"), // 3
		token.New(token.TSemicolon, ";"),            // 4
		token.New(token.TWhitespace, "\n"),          // 5
		token.New(token.TFunction, "function"),      // 6
		token.New(token.TWhitespace, " "),           // 7
		token.New(token.TString, "foo"),             // 8
		token.New(token.TOpenParenthesis, "("),      // 9
		token.New(token.TCloseParenthesis, ")"),     // 10
		token.New(token.TOpenCurlyBracket, "{"),     // 11
		token.New(token.TNamespace, "namespace"),    // 12
		token.New(token.TNsSeparator, "\\"),         // 13
		token.New(token.TString, "bar"),             // 14
		token.New(token.TOpenParenthesis, "("),      // 15
		token.New(token.TCloseParenthesis, ")"),     // 16
		token.New(token.TSemicolon, ";"),            // 17
		token.New(token.TCloseCurlyBracket, "}"),    // 18
	})
}

func scoped() *token.File {
	return token.NewFile("scoped.php", []token.Token{
		token.New(token.TOpenTag, "<?php\n"),     // 0
		token.New(token.TNamespace, "namespace"), // 1
		token.New(token.TWhitespace, " "),        // 2
		token.New(token.TString, "A"),            // 3
		token.New(token.TOpenCurlyBracket, "{"),  // 4
		token.New(token.TString, "x"),            // 5
		token.New(token.TCloseCurlyBracket, "}"), // 6
		token.New(token.TNamespace, "namespace"), // 7
		token.New(token.TOpenCurlyBracket, "{"),  // 8
		token.New(token.TString, "y"),            // 9
		token.New(token.TCloseCurlyBracket, "}"), // 10
		token.New(token.TWhitespace, "\n"),       // 11
	})
}

func TestIsDeclaration(t *testing.T) {
	f := unscoped()
	require.True(t, IsDeclaration(f, 1))
	require.False(t, IsDeclaration(f, 12), "namespace operator")
	require.False(t, IsDeclaration(f, 6), "not a namespace keyword")
	require.False(t, IsDeclaration(f, -1))
	require.False(t, IsDeclaration(f, 100))
}

func TestDeclaredName(t *testing.T) {
	name, ok := DeclaredName(unscoped(), 1)
	require.True(t, ok)
	require.Equal(t, "App\\Sub", name)

	s := scoped()
	name, ok = DeclaredName(s, 1)
	require.True(t, ok)
	require.Equal(t, "A", name)

	name, ok = DeclaredName(s, 7)
	require.True(t, ok, "global block")
	require.Equal(t, "", name)

	_, ok = DeclaredName(unscoped(), 12)
	require.False(t, ok)
}

func TestDeclaredNameParseError(t *testing.T) {
	f := token.NewFile("broken.php", []token.Token{
		token.New(token.TOpenTag, "<?php "),
		token.New(token.TNamespace, "namespace"),
		token.New(token.TWhitespace, " "),
		token.New(token.TVariable, "$x"),
		token.New(token.TSemicolon, ";"),
	})
	_, ok := DeclaredName(f, 1)
	require.False(t, ok)
}

func TestDetermineUnscoped(t *testing.T) {
	f := unscoped()
	require.Equal(t, "", Determine(f, 0), "before any declaration")
	require.Equal(t, "App\\Sub", Determine(f, 1))
	require.Equal(t, "App\\Sub", Determine(f, 8))
	require.Equal(t, "App\\Sub", Determine(f, 14), "operator is not a declaration")
	require.Equal(t, "", Determine(f, 99))
}

func TestDetermineScoped(t *testing.T) {
	f := scoped()
	require.Equal(t, "A", Determine(f, 4))
	require.Equal(t, "A", Determine(f, 5))
	require.Equal(t, "", Determine(f, 9), "global block")
	require.Equal(t, "", Determine(f, 11), "after the last block")
}

func TestDeclarations(t *testing.T) {
	require.Equal(t, []int{1}, Declarations(unscoped()))
	require.Equal(t, []int{1, 7}, Declarations(scoped()))
	require.Empty(t, Declarations(token.NewFile("empty.php", nil)))
}
