package server

import (
	"fmt"
	"strings"

	"github.com/shinyvision/phpscope/internal/php"
	"github.com/shinyvision/phpscope/internal/token"
	"github.com/shinyvision/phpscope/internal/tracker"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

func (s *Server) onDefinition(_ *glsp.Context, p *protocol.DefinitionParams) (any, error) {
	var locations []protocol.Location
	s.analyze(p.TextDocument.URI, func(file *token.File, content []byte, tr *tracker.Tracker) {
		ref, ok := referenceAt(file, content, p.Position)
		if !ok {
			return
		}
		php.Advance(tr, file, ref.Ptr)
		decl, ok := php.FindDeclaration(file, tr, ref)
		if !ok {
			return
		}
		locations = append(locations, protocol.Location{
			URI:   p.TextDocument.URI,
			Range: php.TokenRange(file, content, decl.Ptr),
		})
	})

	if len(locations) == 0 {
		return nil, nil
	}
	return locations, nil
}

func (s *Server) onHover(_ *glsp.Context, p *protocol.HoverParams) (*protocol.Hover, error) {
	var hover *protocol.Hover
	s.analyze(p.TextDocument.URI, func(file *token.File, content []byte, tr *tracker.Tracker) {
		ref, ok := referenceAt(file, content, p.Position)
		if !ok {
			return
		}
		php.Advance(tr, file, ref.Ptr)

		var b strings.Builder
		b.WriteString("```php\n")
		fmt.Fprintf(&b, "%s %s\n", ref.Kind, ref.Candidates[0])
		b.WriteString("```")
		if len(ref.Candidates) > 1 {
			fmt.Fprintf(&b, "\n\nfalls back to `%s`", strings.Join(ref.Candidates[1:], "`, `"))
		}
		if decl, ok := php.FindDeclaration(file, tr, ref); ok {
			line := file.Token(decl.Ptr).Line
			if decl.Name == ref.Candidates[0] {
				fmt.Fprintf(&b, "\n\ndeclared on line %d", line)
			} else {
				fmt.Fprintf(&b, "\n\nresolves to `%s`, declared on line %d", decl.Name, line)
			}
		}

		rng := php.TokenRange(file, content, ref.Ptr)
		hover = &protocol.Hover{
			Contents: protocol.MarkupContent{
				Kind:  protocol.MarkupKindMarkdown,
				Value: b.String(),
			},
			Range: &rng,
		}
	})
	return hover, nil
}

func referenceAt(file *token.File, content []byte, pos protocol.Position) (php.Reference, bool) {
	offset, ok := php.OffsetAt(content, pos)
	if !ok {
		return php.Reference{}, false
	}
	return php.ReferenceAt(file, offset)
}
