package lsp

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"document-tldr/internal/document"
	"document-tldr/internal/helper"
	"document-tldr/internal/summarizer"
	"document-tldr/internal/tldr"
)

var ErrBadArguments = errors.New("expected a document URI argument")

type applyEditResult struct {
	Applied       bool    `json:"applied"`
	FailureReason *string `json:"failureReason,omitempty"`
}

func (s *Server) initialize(
	context *glsp.Context,
	params *protocol.InitializeParams,
) (any, error) {
	capabilities := s.handler.CreateServerCapabilities()

	syncKind := protocol.TextDocumentSyncKindIncremental
	capabilities.TextDocumentSync = &protocol.TextDocumentSyncOptions{
		OpenClose: &protocol.True,
		Change:    &syncKind,
	}
	capabilities.ExecuteCommandProvider = &protocol.ExecuteCommandOptions{
		Commands: []string{CommandGenerate},
	}

	return protocol.InitializeResult{
		Capabilities: capabilities,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    serverName,
			Version: &s.version,
		},
	}, nil
}

func (s *Server) initialized(
	context *glsp.Context,
	params *protocol.InitializedParams,
) error {
	log.Info().Msg("Client initialized")
	return nil
}

func (s *Server) shutdown(context *glsp.Context) error {
	log.Info().Msg("Shutdown")
	return nil
}

func (s *Server) textDocumentDidOpen(
	context *glsp.Context,
	params *protocol.DidOpenTextDocumentParams,
) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[params.TextDocument.URI] = document.FromText(params.TextDocument.Text)
	log.Debug().Str("uri", params.TextDocument.URI).Msg("DidOpen")
	return nil
}

func (s *Server) textDocumentDidChange(
	context *glsp.Context,
	params *protocol.DidChangeTextDocumentParams,
) error {
	uri := params.TextDocument.URI
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.docs[uri]
	if !ok {
		return fmt.Errorf("change for unopened document %s", uri)
	}
	// The batch lands on a copy so a failing change leaves the stored text alone.
	doc := current.Clone()
	for _, raw := range params.ContentChanges {
		switch change := raw.(type) {
		case protocol.TextDocumentContentChangeEventWhole:
			doc = document.FromText(change.Text)
		case protocol.TextDocumentContentChangeEvent:
			if change.Range == nil {
				doc = document.FromText(change.Text)
				continue
			}
			lines := doc.Lines()
			edit := editFromProtocol(lines, *change.Range, change.Text)
			if err := doc.Apply(edit); err != nil {
				return fmt.Errorf("apply change to %s: %w", uri, err)
			}
		default:
			return fmt.Errorf("unexpected change event type %T", raw)
		}
	}
	s.docs[uri] = doc
	return nil
}

func (s *Server) textDocumentDidClose(
	context *glsp.Context,
	params *protocol.DidCloseTextDocumentParams,
) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.docs, params.TextDocument.URI)
	return nil
}

func (s *Server) textDocumentCodeAction(
	context *glsp.Context,
	params *protocol.CodeActionParams,
) (any, error) {
	kind := protocol.CodeActionKindSource
	return []protocol.CodeAction{{
		Title: "Generate TLDR",
		Kind:  &kind,
		Command: &protocol.Command{
			Title:     "Generate TLDR",
			Command:   CommandGenerate,
			Arguments: []any{params.TextDocument.URI},
		},
	}}, nil
}

func (s *Server) workspaceExecuteCommand(
	context *glsp.Context,
	params *protocol.ExecuteCommandParams,
) (any, error) {
	if params.Command != CommandGenerate {
		return nil, fmt.Errorf("unknown command %q", params.Command)
	}
	if len(params.Arguments) == 0 {
		return nil, ErrBadArguments
	}
	uri, ok := params.Arguments[0].(string)
	if !ok || uri == "" {
		return nil, ErrBadArguments
	}
	return nil, s.generate(context, uri)
}

// generate snapshots the document, then summarizes and applies the edit in
// the background. The target position is the one seen at snapshot time.
func (s *Server) generate(ctx *glsp.Context, uri protocol.DocumentUri) error {
	logger := log.With().Str("invocation_id", helper.NewInvocationID()).Str("uri", uri).Logger()

	doc, ok := s.snapshot(uri)
	if !ok {
		return fmt.Errorf("document %s is not open", uri)
	}
	plan, ok := tldr.NewPlan(doc)
	if !ok {
		logger.Debug().Msg("Document has no lines, nothing to do")
		return nil
	}

	release, err := s.busy.Acquire(uri)
	if err != nil {
		logger.Debug().Err(err).Msg("Skipping request")
		showMessage(ctx, protocol.MessageTypeInfo, "A TLDR is already being generated for this document")
		return nil
	}

	cfg, err := s.store.Load()
	if err != nil {
		release()
		return fmt.Errorf("load config: %w", err)
	}
	client, err := s.newClient(cfg)
	if err != nil {
		release()
		return fmt.Errorf("create client: %w", err)
	}
	sum := summarizer.New(client, cfg.Prompt)
	lines := doc.Lines()

	s.inflight.Add(1)
	go func() {
		defer s.inflight.Done()
		defer release()

		res := sum.Summarize(context.Background(), plan.Body)
		if !res.OK() {
			showMessage(ctx, protocol.MessageTypeWarning, fmt.Sprintf("TLDR generation failed (%s)", res.Status))
		}

		edit := plan.Edit(res.Block())
		label := "Generate TLDR"
		params := protocol.ApplyWorkspaceEditParams{
			Label: &label,
			Edit: protocol.WorkspaceEdit{
				Changes: map[protocol.DocumentUri][]protocol.TextEdit{
					uri: {{Range: toProtocolRange(lines, edit.Range), NewText: edit.Text}},
				},
			},
		}
		var result applyEditResult
		ctx.Call("workspace/applyEdit", params, &result)
		if !result.Applied {
			reason := ""
			if result.FailureReason != nil {
				reason = *result.FailureReason
			}
			logger.Warn().Str("reason", reason).Msg("Client did not apply summary edit")
			return
		}
		logger.Info().Int("line", plan.Target.Index).Bool("replace", plan.Target.Replace).Msg("Applied summary")
	}()
	return nil
}

func showMessage(ctx *glsp.Context, kind protocol.MessageType, msg string) {
	ctx.Notify("window/showMessage", protocol.ShowMessageParams{
		Type:    kind,
		Message: msg,
	})
}
