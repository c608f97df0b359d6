package server

import (
	"sort"
	"strings"

	"github.com/shinyvision/phpscope/internal/names"
	"github.com/shinyvision/phpscope/internal/php"
	"github.com/shinyvision/phpscope/internal/token"
	"github.com/shinyvision/phpscope/internal/tracker"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// onCompletion offers the functions declared in the current file whose short
// name starts with the identifier before the cursor.
func (s *Server) onCompletion(_ *glsp.Context, p *protocol.CompletionParams) (any, error) {
	var items []protocol.CompletionItem
	s.analyze(p.TextDocument.URI, func(file *token.File, content []byte, tr *tracker.Tracker) {
		offset, ok := php.OffsetAt(content, p.Position)
		if !ok {
			return
		}
		prefix := identifierBefore(content, offset)
		if prefix == "" {
			return
		}
		items = resolveCompletionItems(tr.Functions(file), prefix)
	})

	if len(items) == 0 {
		return nil, nil
	}
	return items, nil
}

func resolveCompletionItems(functions map[string]int, prefix string) []protocol.CompletionItem {
	items := []protocol.CompletionItem{}
	kind := protocol.CompletionItemKindFunction
	lower := strings.ToLower(prefix)
	for fqn := range functions {
		short := names.ShortName(fqn)
		if !strings.HasPrefix(strings.ToLower(short), lower) {
			continue
		}
		detail := fqn
		items = append(items, protocol.CompletionItem{
			Label:  short,
			Kind:   &kind,
			Detail: &detail,
		})
	}

	sort.Slice(items, func(i, j int) bool {
		if items[i].Label != items[j].Label {
			return items[i].Label < items[j].Label
		}
		return *items[i].Detail < *items[j].Detail
	})
	return items
}

// identifierBefore returns the run of identifier bytes ending at offset.
func identifierBefore(content []byte, offset int) string {
	if offset > len(content) {
		offset = len(content)
	}
	start := offset
	for start > 0 && isIdentByte(content[start-1]) {
		start--
	}
	return string(content[start:offset])
}

func isIdentByte(b byte) bool {
	return b == '_' || b >= 0x80 ||
		(b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9')
}
