// Package lsp exposes the summary command to editors over the Language Server Protocol.
package lsp

import (
	"sync"

	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"

	"document-tldr/internal/config"
	"document-tldr/internal/document"
	"document-tldr/internal/llmservice"
	"document-tldr/internal/lock"
)

const (
	serverName      = "tldr"
	CommandGenerate = "tldr.generate"
)

type ClientFactory func(cfg *config.Config) (llmservice.Client, error)

type Server struct {
	handler   *protocol.Handler
	store     config.Store
	newClient ClientFactory
	version   string

	mu   sync.Mutex
	docs map[protocol.DocumentUri]*document.Doc

	busy     *lock.Busy
	inflight sync.WaitGroup
}

// New builds the language server. Configuration is reloaded from store on
// every command so edits made with "tldr config" apply without a restart.
func New(store config.Store, newClient ClientFactory, version string) *Server {
	if newClient == nil {
		newClient = llmservice.NewClient
	}
	ls := &Server{
		store:     store,
		newClient: newClient,
		version:   version,
		docs:      make(map[protocol.DocumentUri]*document.Doc),
		busy:      lock.NewBusy(),
	}
	ls.handler = &protocol.Handler{
		Initialize:              ls.initialize,
		Initialized:             ls.initialized,
		Shutdown:                ls.shutdown,
		TextDocumentDidOpen:     ls.textDocumentDidOpen,
		TextDocumentDidChange:   ls.textDocumentDidChange,
		TextDocumentDidClose:    ls.textDocumentDidClose,
		TextDocumentCodeAction:  ls.textDocumentCodeAction,
		WorkspaceExecuteCommand: ls.workspaceExecuteCommand,
	}
	return ls
}

func (s *Server) RunStdio() error {
	return server.NewServer(s.handler, serverName, false).RunStdio()
}

// Wait blocks until every outstanding summary has been applied.
func (s *Server) Wait() {
	s.inflight.Wait()
}

func (s *Server) snapshot(uri protocol.DocumentUri) (*document.Doc, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, ok := s.docs[uri]
	if !ok {
		return nil, false
	}
	return doc.Clone(), true
}
