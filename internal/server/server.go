package server

import (
	"sync"

	"github.com/shinyvision/phpscope/internal/config"
	"github.com/shinyvision/phpscope/internal/php"
	"github.com/shinyvision/phpscope/internal/state"
	"github.com/shinyvision/phpscope/internal/token"
	"github.com/shinyvision/phpscope/internal/tracker"
	"github.com/shinyvision/phpscope/internal/utils"
	"github.com/tliron/commonlog"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	glspserver "github.com/tliron/glsp/server"
)

const lsName = "phpscope"

var version = "0.1.0"

// Server is the language server.
type Server struct {
	config *config.Config
	state  *state.State
	store  *php.DocumentStore

	// mu serializes use of the session tracker, which follows one file at
	// a time.
	mu      sync.Mutex
	tracker *tracker.Tracker

	h protocol.Handler
}

// NewServer creates a new server.
func NewServer() *Server {
	s := &Server{
		config:  config.NewConfig(),
		state:   state.NewState(),
		store:   php.NewDocumentStore(php.DefaultCacheSize),
		tracker: tracker.New(),
	}
	s.h = protocol.Handler{
		Initialize:                 s.initialize,
		Initialized:                s.initialized,
		Shutdown:                   s.shutdown,
		SetTrace:                   s.setTrace,
		TextDocumentDidOpen:        s.didOpen,
		TextDocumentDidChange:      s.didChange,
		TextDocumentDidClose:       s.didClose,
		TextDocumentDefinition:     s.onDefinition,
		TextDocumentHover:          s.onHover,
		TextDocumentCompletion:     s.onCompletion,
		TextDocumentDocumentSymbol: s.onDocumentSymbol,
	}
	return s
}

// Run runs the language server over stdio.
func (s *Server) Run() error {
	server := glspserver.NewServer(&s.h, lsName, false)
	return server.RunStdio()
}

func (s *Server) initialize(_ *glsp.Context, params *protocol.InitializeParams) (any, error) {
	logger := commonlog.GetLoggerf("phpscope.server")

	caps := s.h.CreateServerCapabilities()
	openClose := true
	change := protocol.TextDocumentSyncKindIncremental
	caps.TextDocumentSync = &protocol.TextDocumentSyncOptions{
		OpenClose: &openClose,
		Change:    &change,
	}
	caps.DefinitionProvider = true
	caps.HoverProvider = true
	caps.DocumentSymbolProvider = true
	caps.CompletionProvider = &protocol.CompletionOptions{}

	root := "."
	if params.RootURI != nil {
		root = utils.UriToPath(*params.RootURI)
	} else if len(params.WorkspaceFolders) > 0 {
		root = utils.UriToPath(params.WorkspaceFolders[0].URI)
	}

	verbosity := s.config.LogVerbosity
	s.config.LoadWorkspace(root)
	if params.InitializationOptions != nil {
		s.config.ApplyInitializationOptions(params.InitializationOptions)
	}
	if s.config.LogVerbosity != verbosity {
		commonlog.Configure(s.config.LogVerbosity, nil)
	}

	s.store.Purge()
	s.store = php.NewDocumentStore(s.config.CacheSize)

	logger.Infof("initialize: root %s, cache size %d", s.config.WorkspaceRoot, s.config.CacheSize)

	return protocol.InitializeResult{
		Capabilities: caps,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    lsName,
			Version: &version,
		},
	}, nil
}

func (s *Server) initialized(_ *glsp.Context, _ *protocol.InitializedParams) error { return nil }

func (s *Server) shutdown(_ *glsp.Context) error {
	s.store.Purge()
	s.mu.Lock()
	s.tracker.Reset()
	s.mu.Unlock()
	return nil
}

func (s *Server) setTrace(_ *glsp.Context, p *protocol.SetTraceParams) error {
	protocol.SetTraceValue(p.Value)
	return nil
}

func (s *Server) didOpen(_ *glsp.Context, p *protocol.DidOpenTextDocumentParams) error {
	doc := state.Document{
		URI:        p.TextDocument.URI,
		Text:       p.TextDocument.Text,
		LanguageID: p.TextDocument.LanguageID,
		Version:    p.TextDocument.Version,
	}
	s.state.SetDocument(doc)
	if !doc.IsPHP() {
		return nil
	}

	path := utils.UriToPath(string(doc.URI))
	d := php.NewDocument(path)
	if err := d.Update([]byte(doc.Text), nil); err != nil {
		return err
	}
	s.store.RegisterOpen(path, d)
	return nil
}

func (s *Server) didChange(_ *glsp.Context, p *protocol.DidChangeTextDocumentParams) error {
	doc, ok := s.state.ApplyChanges(p.TextDocument.URI, p.TextDocument.Version, p.ContentChanges)
	if !ok || !doc.IsPHP() {
		return nil
	}

	d, err := s.store.Get(utils.UriToPath(string(doc.URI)))
	if err != nil {
		return err
	}
	return d.Update([]byte(doc.Text), nil)
}

func (s *Server) didClose(_ *glsp.Context, p *protocol.DidCloseTextDocumentParams) error {
	s.state.DeleteDocument(p.TextDocument.URI)
	s.store.Close(utils.UriToPath(string(p.TextDocument.URI)))
	return nil
}

// analyze runs fn over the current token stream of an open PHP document,
// holding the session tracker.
func (s *Server) analyze(uri protocol.DocumentUri, fn func(file *token.File, content []byte, tr *tracker.Tracker)) bool {
	doc, ok := s.state.GetDocument(uri)
	if !ok || !doc.IsPHP() {
		return false
	}
	d, err := s.store.Get(utils.UriToPath(string(uri)))
	if err != nil {
		commonlog.GetLoggerf("phpscope.server").Warningf("%s: %v", uri, err)
		return false
	}
	d.Read(func(file *token.File, content []byte) {
		s.mu.Lock()
		defer s.mu.Unlock()
		fn(file, content, s.tracker)
	})
	return true
}
