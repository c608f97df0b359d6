package server

import (
	"sort"

	"github.com/shinyvision/phpscope/internal/php"
	"github.com/shinyvision/phpscope/internal/scopes"
	"github.com/shinyvision/phpscope/internal/token"
	"github.com/shinyvision/phpscope/internal/tracker"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

var structureKinds = map[token.Type]protocol.SymbolKind{
	token.TClass:     protocol.SymbolKindClass,
	token.TInterface: protocol.SymbolKindInterface,
	token.TTrait:     protocol.SymbolKindClass,
	token.TEnum:      protocol.SymbolKindEnum,
}

// onDocumentSymbol lists the named functions and class-like structures of a
// file under their fully qualified names.
func (s *Server) onDocumentSymbol(_ *glsp.Context, p *protocol.DocumentSymbolParams) (any, error) {
	var symbols []protocol.SymbolInformation
	s.analyze(p.TextDocument.URI, func(file *token.File, content []byte, tr *tracker.Tracker) {
		symbols = collectSymbols(p.TextDocument.URI, file, content, tr)
	})

	if len(symbols) == 0 {
		return nil, nil
	}
	return symbols, nil
}

func collectSymbols(uri protocol.DocumentUri, file *token.File, content []byte, tr *tracker.Tracker) []protocol.SymbolInformation {
	var out []protocol.SymbolInformation
	add := func(name string, kind protocol.SymbolKind, keyword int) {
		ptr := keyword
		if at, ok := php.NameToken(file, keyword); ok {
			ptr = at
		}
		out = append(out, protocol.SymbolInformation{
			Name:     name,
			Kind:     kind,
			Location: protocol.Location{URI: uri, Range: php.TokenRange(file, content, ptr)},
		})
	}

	for fqn, ptr := range tr.Functions(file) {
		add(fqn, protocol.SymbolKindFunction, ptr)
	}

	types := []token.Type{token.TClass, token.TInterface, token.TTrait, token.TEnum}
	for ptr := 0; ptr < file.Len(); ptr++ {
		next, ok := file.FindNext(types, ptr, file.Len())
		if !ok {
			break
		}
		ptr = next
		name, ok := scopes.StructureName(file, next)
		if !ok || name == "" {
			continue
		}
		add(name, structureKinds[file.Token(next).Type], next)
	}

	sort.Slice(out, func(i, j int) bool {
		a, b := out[i].Location.Range.Start, out[j].Location.Range.Start
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		return a.Character < b.Character
	})
	return out
}
