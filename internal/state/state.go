package state

import (
	"sync"

	protocol "github.com/tliron/glsp/protocol_3_16"
)

// State manages the open editor buffers of the language server.
type State struct {
	mu   sync.RWMutex
	docs map[protocol.DocumentUri]*Document
}

func NewState() *State {
	return &State{
		docs: make(map[protocol.DocumentUri]*Document),
	}
}

// GetDocument retrieves a copy of a document from the state.
func (s *State) GetDocument(uri protocol.DocumentUri) (Document, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.docs[uri]
	if !ok {
		return Document{}, false
	}
	return *doc, true
}

// SetDocument adds or replaces a document in the state.
func (s *State) SetDocument(doc Document) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[doc.URI] = &doc
}

// ApplyChanges edits the stored text of uri and returns the updated document.
func (s *State) ApplyChanges(uri protocol.DocumentUri, version protocol.Integer, changes []any) (Document, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, ok := s.docs[uri]
	if !ok {
		return Document{}, false
	}
	doc.Apply(changes)
	doc.Version = version
	return *doc, true
}

// DeleteDocument removes a document from the state.
func (s *State) DeleteDocument(uri protocol.DocumentUri) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.docs, uri)
}

// Len returns the number of open documents.
func (s *State) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.docs)
}
