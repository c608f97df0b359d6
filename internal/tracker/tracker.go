// Package tracker keeps an incremental index of the function declarations
// of the file a caller is walking through.
//
// A Tracker is advanced by the caller's own scan loop through Track and
// answers "which functions does this file declare" through Functions and
// FindInFile. It remembers exactly one file: tracking a different file
// discards everything known about the previous one. One Tracker belongs to
// one analysis session and is not safe for concurrent use.
package tracker

import (
	"maps"
	"strconv"
	"strings"

	"github.com/shinyvision/phpscope/internal/contract"
	"github.com/shinyvision/phpscope/internal/names"
	"github.com/shinyvision/phpscope/internal/namespaces"
	"github.com/shinyvision/phpscope/internal/region"
	"github.com/shinyvision/phpscope/internal/scopes"
	"github.com/shinyvision/phpscope/internal/token"
	"github.com/tliron/commonlog"
)

// Tracker is the per-session index. The zero value is ready to use.
type Tracker struct {
	file     *token.File
	lastSeen int
	seen     []int
	// resolved maps fully qualified function names to declaration
	// pointers; nil until the next Functions call.
	resolved map[string]int
}

// New returns an empty Tracker.
func New() *Tracker {
	return &Tracker{}
}

// Reset forgets the current file.
func (t *Tracker) Reset() {
	*t = Tracker{}
}

var targets = append([]token.Type{token.TFunction}, region.Openers()...)

// TargetTokens returns the token types Track is interested in.
func (t *Tracker) TargetTokens() []token.Type {
	return append([]token.Type(nil), targets...)
}

// Track advances the cursor to ptr. Target tokens between the previous
// cursor and ptr are inspected in order: function keywords are recorded and
// region openers move the cursor past their closer. Pointers that do not
// refer to a token of file are ignored, as are pointers at or before the
// cursor.
func (t *Tracker) Track(file *token.File, ptr int) {
	if file == nil || !file.Valid(ptr) {
		return
	}
	if file != t.file {
		t.Reset()
		t.file = file
		if ptr == 0 && file.Len() <= 1 {
			return
		}
	}
	if ptr <= t.lastSeen {
		return
	}

	for i := t.lastSeen + 1; i <= ptr; i++ {
		next, ok := file.FindNext(targets, i, ptr+1)
		if !ok {
			break
		}
		if region.KindOf(file.Token(next).Type) != region.None {
			i = region.Skip(file, next)
			t.lastSeen = i
			continue
		}
		t.lastSeen = next
		i = next
		if n := len(t.seen); n == 0 || t.seen[n-1] != next {
			t.seen = append(t.seen, next)
			t.resolved = nil
		}
	}
	t.lastSeen = max(t.lastSeen, ptr)
}

// Functions returns the fully qualified name and declaration pointer of
// every function declared in file. Declarations the caller has not tracked
// yet are found by scanning the rest of the file first. Methods are not
// included. Name keys keep the case of their first declaration; a later
// redeclaration of the same name wins.
func (t *Tracker) Functions(file *token.File) map[string]int {
	if file == nil {
		return nil
	}
	return maps.Clone(t.functions(file))
}

func (t *Tracker) functions(file *token.File) map[string]int {
	if file != t.file {
		t.Reset()
		t.file = file
	}
	if t.resolved == nil {
		t.backfill()
	}
	return t.resolved
}

func (t *Tracker) backfill() {
	logger := commonlog.GetLoggerf("phpscope.tracker")
	file := t.file

	from := t.lastSeen
	t.Track(file, file.Last())

	resolved := make(map[string]int, len(t.seen))
	keys := make(map[string]string, len(t.seen))
	for _, ptr := range t.seen {
		if conds := file.Token(ptr).Conditions; len(conds) > 0 && token.IsOO(conds[0].Type) {
			continue
		}
		name, ok := scopes.DeclarationName(file, ptr)
		if !ok {
			continue
		}
		fqn := names.Qualify(namespaces.Determine(file, ptr), name)
		folded := strings.ToLower(fqn)
		if key, ok := keys[folded]; ok {
			resolved[key] = ptr
			continue
		}
		keys[folded] = fqn
		resolved[fqn] = ptr
	}
	t.resolved = resolved
	logger.Debugf("%s: backfilled from token %d, %d declarations, %d functions", file.Path(), from, len(t.seen), len(resolved))
}

// FindInFile returns the declaration pointer of the function fqn, matched
// without regard to case. fqn must be fully qualified.
func (t *Tracker) FindInFile(file *token.File, fqn string) (int, bool, error) {
	const fn = "FindInFile"
	if file == nil {
		return -1, false, contract.TypeError(fn, "file", "*token.File", "nil")
	}
	if fqn == "" {
		return -1, false, contract.ValueError(fn, "fqn", "non-empty fully qualified name", `""`)
	}
	if !strings.HasPrefix(fqn, names.Separator) || strings.Trim(fqn, names.Separator) == "" {
		return -1, false, contract.ValueError(fn, "fqn", "name with a leading namespace separator", strconv.Quote(fqn))
	}

	for name, ptr := range t.functions(file) {
		if strings.EqualFold(name, fqn) {
			return ptr, true, nil
		}
	}
	return -1, false, nil
}
