package tracker

import (
	"fmt"
	"testing"

	"github.com/shinyvision/phpscope/internal/contract"
	"github.com/shinyvision/phpscope/internal/token"
	"github.com/stretchr/testify/require"
)

func scenarioTokens() []token.Token {
	return []token.Token{
		token.New(token.TOpenTag, "<?php\n"),              // 0
		token.New(token.TFunction, "function"),            // 1
		token.New(token.TWhitespace, " "),                 // 2
		token.New(token.TString, "globalA"),               // 3
		token.New(token.TOpenParenthesis, "("),            // 4
		token.New(token.TCloseParenthesis, ")"),           // 5
		token.New(token.TOpenCurlyBracket, "{"),           // 6
		token.New(token.TCloseCurlyBracket, "}"),          // 7
		token.New(token.TWhitespace, "\n"),                // 8
		token.New(token.TNamespace, "namespace"),          // 9
		token.New(token.TWhitespace, " "),                 // 10
		token.New(token.TString, "Vendor"),                // 11
		token.New(token.TSemicolon, ";"),                  // 12
		token.New(token.TWhitespace, "\n"),                // 13
		token.New(token.TDocCommentOpenTag, "/**"),        // 14
		token.New(token.TDocComment, " function fake() "), // 15
		token.New(token.TDocCommentCloseTag, "*/"),        // 16
		token.New(token.TWhitespace, "\n"),                // 17
		token.New(token.TFunction, "function"),            // 18
		token.New(token.TWhitespace, " "),                 // 19
		token.New(token.TString, "scoped"),                // 20
		token.New(token.TOpenParenthesis, "("),            // 21
		token.New(token.TCloseParenthesis, ")"),           // 22
		token.New(token.TOpenCurlyBracket, "{"),           // 23
		token.New(token.TCloseCurlyBracket, "}"),          // 24
		token.New(token.TWhitespace, "\n"),                // 25
		token.New(token.TClass, "class"),                  // 26
		token.New(token.TWhitespace, " "),                 // 27
		token.New(token.TString, "K"),                     // 28
		token.New(token.TOpenCurlyBracket, "{"),           // 29
		token.New(token.TFunction, "function"),            // 30
		token.New(token.TWhitespace, " "),                 // 31
		token.New(token.TString, "method"),                // 32
		token.New(token.TOpenParenthesis, "("),            // 33
		token.New(token.TCloseParenthesis, ")"),           // 34
		token.New(token.TOpenCurlyBracket, "{"),           // 35
		token.New(token.TCloseCurlyBracket, "}"),          // 36
		token.New(token.TCloseCurlyBracket, "}"),          // 37
		token.New(token.TWhitespace, "\n"),                // 38
	}
}

func scenario() *token.File {
	return token.NewFile("scenario.php", scenarioTokens())
}

func regions() *token.File {
	return token.NewFile("regions.php", []token.Token{
		token.New(token.TOpenTag, "<?php\n"),            // 0
		token.New(token.TAttribute, "#["),               // 1
		token.New(token.TString, "Fake"),                // 2
		token.New(token.TOpenParenthesis, "("),          // 3
		token.New(token.TFunction, "function"),          // 4
		token.New(token.TCloseParenthesis, ")"),         // 5
		token.New(token.TCloseSquareBracket, "]"),       // 6
		token.New(token.TWhitespace, "\n"),              // 7
		token.New(token.TFunction, "function"),          // 8
		token.New(token.TWhitespace, " "),               // 9
		token.New(token.TString, "real"),                // 10
		token.New(token.TOpenParenthesis, "("),          // 11
		token.New(token.TCloseParenthesis, ")"),         // 12
		token.New(token.TOpenCurlyBracket, "{"),         // 13
		token.New(token.TCloseCurlyBracket, "}"),        // 14
		token.New(token.TWhitespace, "\n"),              // 15
		token.New(token.TStartHeredoc, "<<<EOT\n"),      // 16
		token.New(token.THeredoc, "function nope() {}"), // 17
	})
}

type snapshot struct {
	file     *token.File
	lastSeen int
	seen     []int
	resolved map[string]int
}

func snap(t *Tracker) snapshot {
	return snapshot{t.file, t.lastSeen, append([]int(nil), t.seen...), t.resolved}
}

func TestTargetTokens(t *testing.T) {
	tr := New()
	require.ElementsMatch(t, []token.Type{
		token.TFunction,
		token.TDocCommentOpenTag,
		token.TAttribute,
		token.TStartHeredoc,
		token.TStartNowdoc,
	}, tr.TargetTokens())

	// The returned slice is a copy.
	got := tr.TargetTokens()
	got[0] = token.TOther
	require.Contains(t, tr.TargetTokens(), token.TFunction)
}

func TestTrackMonotonic(t *testing.T) {
	f := scenario()
	tr := New()

	last := 0
	for _, ptr := range []int{1, 3, 2, 18, 5, 18, 30, 0, 38} {
		before := snap(tr)
		tr.Track(f, ptr)
		require.GreaterOrEqual(t, tr.lastSeen, last, "after ptr %d", ptr)
		if ptr <= before.lastSeen && before.file == f {
			require.Equal(t, before.lastSeen, tr.lastSeen)
			require.Equal(t, before.seen, tr.seen)
		}
		last = tr.lastSeen
	}
	require.Equal(t, []int{1, 18, 30}, tr.seen)
	require.Equal(t, 38, tr.lastSeen)
}

func TestTrackRecordsFunctionOnce(t *testing.T) {
	f := scenario()
	tr := New()
	tr.Track(f, 1)
	tr.Track(f, 1)
	require.Equal(t, []int{1}, tr.seen)
}

func TestTrackCatchesUpToPointer(t *testing.T) {
	f := scenario()
	tr := New()
	tr.Track(f, 25)
	require.Equal(t, []int{1, 18}, tr.seen)
	require.Equal(t, 25, tr.lastSeen)
}

func TestTrackIgnoresInvalidPointers(t *testing.T) {
	f := scenario()
	tr := New()
	tr.Track(f, 3)
	before := snap(tr)

	tr.Track(f, -1)
	tr.Track(f, f.Len())
	tr.Track(nil, 3)
	require.Equal(t, before, snap(tr))
}

func TestTrackFileSwitchResets(t *testing.T) {
	a, b := scenario(), regions()
	tr := New()
	tr.Track(a, 20)
	tr.Functions(a)
	require.NotNil(t, tr.resolved)

	tr.Track(b, 9)
	require.Same(t, b, tr.file)
	require.Nil(t, tr.resolved)
	require.Equal(t, []int{8}, tr.seen, "nothing carried over from the previous file")
	require.Equal(t, 9, tr.lastSeen)
}

func TestTrackSameContentIsAnotherFile(t *testing.T) {
	a, b := scenario(), scenario()
	tr := New()
	tr.Track(a, 38)
	tr.Track(b, 1)
	require.Same(t, b, tr.file)
	require.Equal(t, []int{1}, tr.seen)
}

func TestTrackDegenerateFile(t *testing.T) {
	tr := New()
	tr.Track(scenario(), 20)

	tiny := token.NewFile("tiny.php", []token.Token{token.New(token.TOpenTag, "<?php")})
	tr.Track(tiny, 0)
	require.Same(t, tiny, tr.file)
	require.Empty(t, tr.seen)
	require.Zero(t, tr.lastSeen)
	require.Empty(t, tr.Functions(tiny))
}

func TestTrackSkipsRegions(t *testing.T) {
	f := regions()
	tr := New()

	tr.Track(f, 1)
	require.Equal(t, 6, tr.lastSeen, "attribute group skipped to its closer")
	require.Empty(t, tr.seen)

	tr.Track(f, 4)
	require.Empty(t, tr.seen, "function keyword inside the attribute is never seen")

	tr.Track(f, 8)
	require.Equal(t, []int{8}, tr.seen)

	tr.Track(f, 16)
	require.Equal(t, f.Last(), tr.lastSeen, "unterminated heredoc skips to the end")
	require.Equal(t, []int{8}, tr.seen)

	require.Equal(t, map[string]int{"\\real": 8}, tr.Functions(f))
}

func TestTrackSkipsRegionsWhileCatchingUp(t *testing.T) {
	f := regions()
	tr := New()
	tr.Track(f, 10)
	require.Equal(t, []int{8}, tr.seen)

	tr.Track(f, 15)
	require.Equal(t, 15, tr.lastSeen)
	require.Equal(t, map[string]int{"\\real": 8}, tr.Functions(f))
	require.Equal(t, []int{8}, tr.seen)
}

func TestFunctionsBackfill(t *testing.T) {
	f := scenario()
	tr := New()
	tr.Track(f, 1)

	require.Equal(t, map[string]int{
		"\\globalA":        1,
		"\\Vendor\\scoped": 18,
	}, tr.Functions(f))
	require.Equal(t, []int{1, 18, 30}, tr.seen, "method is tracked but not listed")
}

func TestFunctionsWithoutTracking(t *testing.T) {
	f := scenario()
	tr := New()
	tr.Track(regions(), 8)

	require.Equal(t, map[string]int{
		"\\globalA":        1,
		"\\Vendor\\scoped": 18,
	}, tr.Functions(f))
	require.Same(t, f, tr.file)
}

func TestFunctionsIdempotent(t *testing.T) {
	f := scenario()
	tr := New()
	tr.Track(f, 18)

	first := tr.Functions(f)
	seen := append([]int(nil), tr.seen...)
	memo := fmt.Sprintf("%p", tr.resolved)

	second := tr.Functions(f)
	require.Equal(t, first, second)
	require.Equal(t, seen, tr.seen)
	require.Equal(t, memo, fmt.Sprintf("%p", tr.resolved), "no re-resolution")
}

func TestFunctionsReturnsCopy(t *testing.T) {
	f := scenario()
	tr := New()
	got := tr.Functions(f)
	delete(got, "\\globalA")
	require.Contains(t, tr.Functions(f), "\\globalA")
	require.Nil(t, tr.Functions(nil))
}

func TestFunctionsRedeclaration(t *testing.T) {
	tokens := append(scenarioTokens(),
		token.New(token.TFunction, "function"),   // 39
		token.New(token.TWhitespace, " "),        // 40
		token.New(token.TString, "SCOPED"),       // 41
		token.New(token.TOpenParenthesis, "("),   // 42
		token.New(token.TCloseParenthesis, ")"),  // 43
		token.New(token.TOpenCurlyBracket, "{"),  // 44
		token.New(token.TCloseCurlyBracket, "}"), // 45
	)
	f := token.NewFile("redeclare.php", tokens)
	tr := New()

	require.Equal(t, map[string]int{
		"\\globalA":        1,
		"\\Vendor\\scoped": 39,
	}, tr.Functions(f), "first spelling kept, last declaration wins")
}

func TestFindInFile(t *testing.T) {
	f := scenario()
	tr := New()
	tr.Track(f, 1)

	for _, name := range []string{"\\Vendor\\scoped", "\\VENDOR\\SCOPED", "\\vendor\\Scoped"} {
		ptr, ok, err := tr.FindInFile(f, name)
		require.NoError(t, err)
		require.True(t, ok, name)
		require.Equal(t, 18, ptr)
	}

	ptr, ok, err := tr.FindInFile(f, "\\GLOBALA")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, 1, ptr)

	_, ok, err = tr.FindInFile(f, "\\K\\method")
	require.NoError(t, err)
	require.False(t, ok)

	ptr, ok, err = tr.FindInFile(f, "\\missing")
	require.NoError(t, err)
	require.False(t, ok)
	require.Equal(t, -1, ptr)
}

func TestFindInFileContract(t *testing.T) {
	f := scenario()
	tr := New()

	_, _, err := tr.FindInFile(nil, "\\foo")
	require.ErrorIs(t, err, contract.ErrType)

	for _, name := range []string{"", "Vendor\\scoped", "scoped", "\\", "\\\\"} {
		_, ok, err := tr.FindInFile(f, name)
		require.ErrorIs(t, err, contract.ErrValue, "%q", name)
		require.False(t, ok)
	}

	var argErr *contract.ArgumentError
	_, _, err = tr.FindInFile(f, "scoped")
	require.ErrorAs(t, err, &argErr)
	require.Equal(t, "FindInFile", argErr.Func)
	require.Equal(t, "fqn", argErr.Arg)
}

func TestReset(t *testing.T) {
	f := scenario()
	tr := New()
	tr.Track(f, 20)
	tr.Functions(f)

	tr.Reset()
	require.Equal(t, snapshot{}, snap(tr))

	tr.Track(f, 1)
	require.Equal(t, []int{1}, tr.seen)
}
