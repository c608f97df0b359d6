package state

import (
	"strings"

	protocol "github.com/tliron/glsp/protocol_3_16"
)

// Document represents an open editor buffer.
type Document struct {
	URI        protocol.DocumentUri
	Text       string
	LanguageID string
	Version    protocol.Integer
}

// IsPHP reports whether the buffer holds PHP source.
func (d *Document) IsPHP() bool {
	if d.LanguageID != "" {
		return d.LanguageID == "php"
	}
	return strings.HasSuffix(strings.ToLower(string(d.URI)), ".php")
}

// Apply applies LSP content changes in order. Ranged changes that fall
// outside the text are dropped.
func (d *Document) Apply(changes []any) {
	text := d.Text
	for _, c := range changes {
		switch ch := c.(type) {
		case protocol.TextDocumentContentChangeEventWhole:
			text = ch.Text
		case protocol.TextDocumentContentChangeEvent:
			if ch.Range == nil {
				text = ch.Text
				continue
			}
			start := ch.Range.Start.IndexIn(text)
			end := ch.Range.End.IndexIn(text)
			if start >= 0 && end >= start && end <= len(text) {
				text = text[:start] + ch.Text + text[end:]
			}
		}
	}
	d.Text = text
}
