package php

import (
	"errors"
	"os"
	"path/filepath"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/tliron/commonlog"
)

// DefaultCacheSize bounds the closed documents a store keeps parsed.
const DefaultCacheSize = 1000

// updateDocument parses freshly loaded documents; replaced in tests.
var updateDocument = (*Document).Update

// DocumentStore maintains the parsed PHP documents of a workspace. Open
// documents are pinned; closed or loaded-from-disk documents live in a
// bounded LRU cache and are closed when evicted.
type DocumentStore struct {
	mu     sync.Mutex
	open   map[string]*Document
	closed *lru.Cache[string, *Document]
}

// NewDocumentStore constructs a store keeping at most max closed documents.
func NewDocumentStore(max int) *DocumentStore {
	if max <= 0 {
		max = DefaultCacheSize
	}
	s := &DocumentStore{
		open: make(map[string]*Document),
	}
	// The callback runs inside cache calls made with s.mu held.
	closed, err := lru.NewWithEvict(max, func(path string, doc *Document) {
		if s.open[path] != doc {
			doc.Close()
		}
	})
	if err != nil {
		panic(err)
	}
	s.closed = closed
	return s
}

// RegisterOpen registers a document as currently open. The document will not be
// evicted until Close is invoked for the same path.
func (s *DocumentStore) RegisterOpen(path string, doc *Document) {
	if doc == nil {
		return
	}
	path = normalizePath(path)
	if path == "" {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if prev, ok := s.open[path]; ok && prev != doc {
		prev.Close()
	}
	s.open[path] = doc
	s.closed.Remove(path)
}

// Close marks a document as no longer open. It stays cached until evicted.
func (s *DocumentStore) Close(path string) {
	path = normalizePath(path)
	if path == "" {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	doc, ok := s.open[path]
	if !ok {
		return
	}
	delete(s.open, path)
	s.closed.Add(path, doc)
}

// IsOpen reports whether an editor holds the document at path.
func (s *DocumentStore) IsOpen(path string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.open[normalizePath(path)]
	return ok
}

// Cached returns the number of closed documents kept parsed.
func (s *DocumentStore) Cached() int {
	return s.closed.Len()
}

// Get retrieves or loads (and caches) a document for the given path.
func (s *DocumentStore) Get(path string) (*Document, error) {
	path = normalizePath(path)
	if path == "" {
		return nil, errors.New("empty path")
	}

	s.mu.Lock()
	if doc, ok := s.open[path]; ok {
		s.mu.Unlock()
		return doc, nil
	}
	if doc, ok := s.closed.Get(path); ok {
		s.mu.Unlock()
		return doc, nil
	}
	s.mu.Unlock()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	doc := NewDocument(path)
	if err := updateDocument(doc, data, nil); err != nil {
		doc.Close()
		return nil, err
	}
	commonlog.GetLoggerf("phpscope.php").Debugf("loaded %s (%d bytes)", path, len(data))

	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.open[path]; ok {
		doc.Close()
		return existing, nil
	}
	if existing, ok := s.closed.Get(path); ok {
		doc.Close()
		return existing, nil
	}
	s.closed.Add(path, doc)
	return doc, nil
}

// Purge closes every document, open or cached.
func (s *DocumentStore) Purge() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for path, doc := range s.open {
		doc.Close()
		delete(s.open, path)
	}
	s.closed.Purge()
}

func normalizePath(path string) string {
	if path == "" {
		return ""
	}
	return filepath.Clean(path)
}
