package php

import (
	"context"
	"errors"
	"sync"

	phpforest "github.com/alexaandru/go-sitter-forest/php"
	sitter "github.com/alexaandru/go-tree-sitter-bare"
	"github.com/shinyvision/phpscope/internal/token"
)

var errClosed = errors.New("document closed")

// Document maintains a parsed PHP syntax tree together with its token stream.
// It owns the tree-sitter parser; the token stream is rebuilt lazily after
// each update, so every version of the contents gets a new *token.File.
type Document struct {
	parser    *sitter.Parser
	mu        sync.RWMutex
	path      string
	tree      *sitter.Tree
	content   []byte
	file      *token.File
	version   int64
	tokenized int64
}

// NewDocument constructs a Document for the PHP source file at path.
func NewDocument(path string) *Document {
	parser := sitter.NewParser()
	lang := sitter.NewLanguage(phpforest.GetLanguage())
	_ = parser.SetLanguage(lang)
	return &Document{
		parser: parser,
		path:   path,
	}
}

// Path returns the path the document was created for.
func (d *Document) Path() string {
	return d.path
}

// Update notifies the document about new file contents. If change is nil, the file
// has been replaced entirely. Incremental edits can be provided via change.
func (d *Document) Update(code []byte, change *sitter.InputEdit) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.parser == nil {
		return errClosed
	}
	if d.tree != nil && change != nil {
		d.tree.Edit(*change)
	}

	old := d.tree
	if change == nil {
		old = nil
	}
	newTree, err := d.parser.ParseString(context.Background(), old, code)
	if err != nil {
		return err
	}

	if d.tree != nil {
		d.tree.Close()
	}
	d.tree = newTree
	d.content = code
	d.version++
	return nil
}

// Version counts the updates applied to the document.
func (d *Document) Version() int64 {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.version
}

// Close releases resources owned by the document.
func (d *Document) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.tree != nil {
		d.tree.Close()
		d.tree = nil
	}
	d.parser = nil
	d.content = nil
	d.file = nil
}

// Read executes the provided function while holding a read lock on the document.
// The token file stays valid after the callback returns; the content must not
// be modified.
func (d *Document) Read(fn func(file *token.File, content []byte)) {
	for {
		d.mu.RLock()
		if d.tokenized == d.version {
			defer d.mu.RUnlock()
			fn(d.file, d.content)
			return
		}
		d.mu.RUnlock()
		d.tokenize()
	}
}

// Tokens returns the token stream of the current contents.
func (d *Document) Tokens() *token.File {
	var file *token.File
	d.Read(func(f *token.File, _ []byte) {
		file = f
	})
	return file
}

func (d *Document) tokenize() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.tokenized == d.version {
		return
	}
	d.file = token.FromTree(d.path, d.tree, d.content)
	d.tokenized = d.version
}
