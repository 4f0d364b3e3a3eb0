package lsp

import (
	"net/url"
	"path/filepath"
	"strings"
	"sync"

	"github.com/dhamidi/sdkconf/dialect"
	"github.com/dhamidi/sdkconf/parser"

	"github.com/tliron/commonlog"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"

	_ "github.com/tliron/commonlog/simple"
)

const lsName = "sdkconf"

var log = commonlog.GetLogger("sdkconf.lsp")

// Server publishes parse errors and warnings for open documents.
type Server struct {
	handler  protocol.Handler
	server   *server.Server
	version  string
	fallback string

	mu   sync.Mutex
	docs map[protocol.DocumentUri]*document
}

type document struct {
	parser  *parser.Parser
	text    string
	version protocol.Integer
}

// NewServer returns a server that parses documents whose language cannot be
// determined with the fallback dialect. An empty fallback leaves such
// documents alone.
func NewServer(version, fallback string) *Server {
	s := &Server{
		version:  version,
		fallback: fallback,
		docs:     make(map[protocol.DocumentUri]*document),
	}

	s.handler = protocol.Handler{
		Initialize:            s.initialize,
		Initialized:           s.initialized,
		Shutdown:              s.shutdown,
		SetTrace:              s.setTrace,
		TextDocumentDidOpen:   s.textDocumentDidOpen,
		TextDocumentDidChange: s.textDocumentDidChange,
		TextDocumentDidClose:  s.textDocumentDidClose,
		TextDocumentDidSave:   s.textDocumentDidSave,
	}

	s.server = server.NewServer(&s.handler, lsName, false)

	return s
}

func (s *Server) RunStdio() error {
	return s.server.RunStdio()
}

func (s *Server) RunTCP(address string) error {
	return s.server.RunTCP(address)
}

func (s *Server) initialize(ctx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	capabilities := s.handler.CreateServerCapabilities()

	capabilities.TextDocumentSync = &protocol.TextDocumentSyncOptions{
		OpenClose: boolPtr(true),
		Change:    syncKindPtr(protocol.TextDocumentSyncKindFull),
		Save: &protocol.SaveOptions{
			IncludeText: boolPtr(true),
		},
	}

	return protocol.InitializeResult{
		Capabilities: capabilities,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    lsName,
			Version: &s.version,
		},
	}, nil
}

func (s *Server) initialized(ctx *glsp.Context, params *protocol.InitializedParams) error {
	return nil
}

func (s *Server) shutdown(ctx *glsp.Context) error {
	protocol.SetTraceValue(protocol.TraceValueOff)
	return nil
}

func (s *Server) setTrace(ctx *glsp.Context, params *protocol.SetTraceParams) error {
	protocol.SetTraceValue(params.Value)
	return nil
}

func (s *Server) textDocumentDidOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	doc := params.TextDocument
	if diags, ok := s.open(doc.URI, doc.LanguageID, doc.Text, doc.Version); ok {
		ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, diags)
	}
	return nil
}

func (s *Server) textDocumentDidChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	if len(params.ContentChanges) == 0 {
		return nil
	}
	change := params.ContentChanges[len(params.ContentChanges)-1]
	whole, ok := change.(protocol.TextDocumentContentChangeEventWhole)
	if !ok {
		return nil
	}
	if diags, ok := s.change(params.TextDocument.URI, whole.Text, params.TextDocument.Version); ok {
		ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, diags)
	}
	return nil
}

func (s *Server) textDocumentDidSave(ctx *glsp.Context, params *protocol.DidSaveTextDocumentParams) error {
	if params.Text == nil {
		return nil
	}
	s.mu.Lock()
	doc, ok := s.docs[params.TextDocument.URI]
	version := protocol.Integer(0)
	if ok {
		version = doc.version
	}
	s.mu.Unlock()
	if diags, ok := s.change(params.TextDocument.URI, *params.Text, version); ok {
		ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, diags)
	}
	return nil
}

func (s *Server) textDocumentDidClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	if s.close(params.TextDocument.URI) {
		ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, protocol.PublishDiagnosticsParams{
			URI:         params.TextDocument.URI,
			Diagnostics: []protocol.Diagnostic{},
		})
	}
	return nil
}

// open starts tracking uri. It reports false when no dialect applies.
func (s *Server) open(uri protocol.DocumentUri, languageID, text string, version protocol.Integer) (protocol.PublishDiagnosticsParams, bool) {
	p, ok := s.resolve(uri, languageID)
	if !ok {
		log.Debug("no dialect for document", "uri", uri, "languageId", languageID)
		return protocol.PublishDiagnosticsParams{}, false
	}

	s.mu.Lock()
	s.docs[uri] = &document{parser: p, text: text, version: version}
	s.mu.Unlock()

	return publish(uri, p, text, version), true
}

func (s *Server) change(uri protocol.DocumentUri, text string, version protocol.Integer) (protocol.PublishDiagnosticsParams, bool) {
	s.mu.Lock()
	doc, ok := s.docs[uri]
	if ok {
		doc.text = text
		doc.version = version
	}
	s.mu.Unlock()
	if !ok {
		return protocol.PublishDiagnosticsParams{}, false
	}
	return publish(uri, doc.parser, text, version), true
}

func (s *Server) close(uri protocol.DocumentUri) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.docs[uri]
	delete(s.docs, uri)
	return ok
}

// resolve picks the dialect by language ID, then by file extension, then
// falls back to the configured default.
func (s *Server) resolve(uri protocol.DocumentUri, languageID string) (*parser.Parser, bool) {
	table, ok := dialect.ForLanguageID(languageID)
	if !ok {
		table, ok = dialect.ForPath(uriToPath(uri))
	}
	if !ok && s.fallback != "" {
		table, ok = dialect.Lookup(s.fallback)
	}
	if !ok {
		return nil, false
	}
	p, err := parser.New(table)
	if err != nil {
		log.Error("invalid dialect table", "dialect", table.Name, "error", err)
		return nil, false
	}
	return p, true
}

func publish(uri protocol.DocumentUri, p *parser.Parser, text string, version protocol.Integer) protocol.PublishDiagnosticsParams {
	res := p.Parse(text)
	v := protocol.UInteger(version)
	return protocol.PublishDiagnosticsParams{
		URI:         uri,
		Version:     &v,
		Diagnostics: Diagnostics(res, text),
	}
}

// Diagnostics converts the errors and warnings of res into LSP diagnostics.
// source must be the text res was parsed from; it is needed to express
// columns in UTF-16 code units.
func Diagnostics(res *parser.Result, source string) []protocol.Diagnostic {
	lines := strings.Split(source, "\n")
	out := make([]protocol.Diagnostic, 0, len(res.Errors)+len(res.Warnings))
	for _, e := range res.Errors {
		out = append(out, diagnostic(e, protocol.DiagnosticSeverityError, lines))
	}
	for _, w := range res.Warnings {
		out = append(out, diagnostic(w, protocol.DiagnosticSeverityWarning, lines))
	}
	return out
}

func diagnostic(e *parser.ParseError, severity protocol.DiagnosticSeverity, lines []string) protocol.Diagnostic {
	source := lsName
	code := protocol.IntegerOrString{Value: string(e.Kind)}
	d := protocol.Diagnostic{
		Severity: &severity,
		Code:     &code,
		Source:   &source,
		Message:  e.Message,
	}
	if !e.Localized() {
		return d
	}

	line := *e.Line - 1
	char := 0
	if line < len(lines) {
		char = utf16Column(lines[line], *e.Column-1)
	}
	d.Range = protocol.Range{
		Start: protocol.Position{Line: protocol.UInteger(line), Character: protocol.UInteger(char)},
		End:   protocol.Position{Line: protocol.UInteger(line), Character: protocol.UInteger(char + 1)},
	}
	return d
}

// utf16Column converts a rune offset within line to UTF-16 code units.
func utf16Column(line string, runes int) int {
	n := 0
	for _, r := range line {
		if runes == 0 {
			break
		}
		if r >= 0x10000 {
			n += 2
		} else {
			n++
		}
		runes--
	}
	return n + runes
}

func uriToPath(uri string) string {
	if strings.HasPrefix(uri, "file://") {
		parsed, err := url.Parse(uri)
		if err != nil {
			return uri
		}
		return filepath.Clean(parsed.Path)
	}
	return uri
}

func boolPtr(b bool) *bool {
	return &b
}

func syncKindPtr(k protocol.TextDocumentSyncKind) *protocol.TextDocumentSyncKind {
	return &k
}
