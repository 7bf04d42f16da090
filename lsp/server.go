// Package lsp provides a language server for markup documents: parse
// failures and unresolved substitutions are published as diagnostics on
// open, change, and save.
package lsp

import (
	"errors"
	"reflect"
	"strings"
	"sync"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"

	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"

	"github.com/dhamidi/marka/doc"
	"github.com/dhamidi/marka/markdown"
	"github.com/dhamidi/marka/parse"
)

const lsName = "marka"

var log = commonlog.GetLogger("marka.lsp")

type LSPServer struct {
	handler protocol.Handler
	server  *server.Server
	version string

	mu          sync.Mutex
	documents   map[string]string
	diagnostics map[string][]protocol.Diagnostic
}

func NewLSPServer(version string) *LSPServer {
	ls := &LSPServer{
		version:     version,
		documents:   make(map[string]string),
		diagnostics: make(map[string][]protocol.Diagnostic),
	}

	ls.handler = protocol.Handler{
		Initialize:            ls.initialize,
		Initialized:           ls.initialized,
		Shutdown:              ls.shutdown,
		SetTrace:              ls.setTrace,
		TextDocumentDidOpen:   ls.textDocumentDidOpen,
		TextDocumentDidChange: ls.textDocumentDidChange,
		TextDocumentDidClose:  ls.textDocumentDidClose,
		TextDocumentDidSave:   ls.textDocumentDidSave,
	}

	ls.server = server.NewServer(&ls.handler, lsName, false)

	return ls
}

func (ls *LSPServer) RunStdio() error {
	return ls.server.RunStdio()
}

func (ls *LSPServer) initialize(ctx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	capabilities := ls.handler.CreateServerCapabilities()

	capabilities.TextDocumentSync = &protocol.TextDocumentSyncOptions{
		OpenClose: boolPtr(true),
		Change:    intPtr(int(protocol.TextDocumentSyncKindFull)),
		Save: &protocol.SaveOptions{
			IncludeText: boolPtr(true),
		},
	}

	return protocol.InitializeResult{
		Capabilities: capabilities,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    lsName,
			Version: &ls.version,
		},
	}, nil
}

func (ls *LSPServer) initialized(ctx *glsp.Context, params *protocol.InitializedParams) error {
	log.Info("client initialized")
	return nil
}

func (ls *LSPServer) shutdown(ctx *glsp.Context) error {
	return nil
}

func (ls *LSPServer) setTrace(ctx *glsp.Context, params *protocol.SetTraceParams) error {
	protocol.SetTraceValue(params.Value)
	return nil
}

func (ls *LSPServer) textDocumentDidOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	ls.update(ctx, params.TextDocument.URI, params.TextDocument.Text)
	return nil
}

func (ls *LSPServer) textDocumentDidChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	if len(params.ContentChanges) == 0 {
		return nil
	}
	change := params.ContentChanges[len(params.ContentChanges)-1]
	if whole, ok := change.(protocol.TextDocumentContentChangeEventWhole); ok {
		ls.update(ctx, params.TextDocument.URI, whole.Text)
	}
	return nil
}

func (ls *LSPServer) textDocumentDidClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	ls.mu.Lock()
	delete(ls.documents, params.TextDocument.URI)
	delete(ls.diagnostics, params.TextDocument.URI)
	ls.mu.Unlock()
	return nil
}

func (ls *LSPServer) textDocumentDidSave(ctx *glsp.Context, params *protocol.DidSaveTextDocumentParams) error {
	if params.Text != nil {
		ls.update(ctx, params.TextDocument.URI, *params.Text)
	}
	return nil
}

func (ls *LSPServer) update(ctx *glsp.Context, uri, text string) {
	ls.mu.Lock()
	ls.documents[uri] = text
	ls.mu.Unlock()

	ls.publish(ctx, uri, Analyze(text))
}

func (ls *LSPServer) publish(ctx *glsp.Context, uri string, diagnostics []protocol.Diagnostic) {
	ls.mu.Lock()
	previous, seen := ls.diagnostics[uri]
	if seen && reflect.DeepEqual(previous, diagnostics) {
		ls.mu.Unlock()
		return
	}
	ls.diagnostics[uri] = diagnostics
	ls.mu.Unlock()

	ctx.Notify("textDocument/publishDiagnostics", protocol.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: diagnostics,
	})
}

// Analyze parses the document and collects its diagnostics: parse
// failures as errors, substitutions that need a configuration binding as
// information.
func Analyze(text string) []protocol.Diagnostic {
	diagnostics := []protocol.Diagnostic{}

	root, err := markdown.Parse(text)
	if err != nil {
		var failure *parse.Failure
		if errors.As(err, &failure) {
			diagnostics = append(diagnostics, failureDiagnostic(failure))
		}
		return diagnostics
	}

	// the same name may occur as several nodes, but its source occurrences
	// are located by one scan, so report each name once
	var names []string
	seen := map[string]bool{}
	doc.Walk(root, func(e doc.Element) bool {
		if sub, ok := e.(markdown.Substitution); ok && !seen[sub.Name] {
			seen[sub.Name] = true
			names = append(names, sub.Name)
		}
		return true
	})

	severity := protocol.DiagnosticSeverityInformation
	for _, name := range names {
		for _, r := range substitutionRanges(text, name) {
			diagnostics = append(diagnostics, protocol.Diagnostic{
				Range:    r,
				Severity: &severity,
				Message:  "substitution: " + name,
			})
		}
	}
	return diagnostics
}

func failureDiagnostic(f *parse.Failure) protocol.Diagnostic {
	severity := protocol.DiagnosticSeverityError
	pos := f.At.Position()
	at := protocol.Position{
		Line:      protocol.UInteger(pos.Line - 1),
		Character: protocol.UInteger(pos.Column - 1),
	}
	return protocol.Diagnostic{
		Range:    protocol.Range{Start: at, End: at},
		Severity: &severity,
		Message:  f.Msg,
	}
}

// substitutionRanges locates every {{name}} occurrence in the source so
// the diagnostic can point at it. Columns are counted in UTF-16 code
// units, which is what protocol positions use.
func substitutionRanges(text, name string) []protocol.Range {
	var ranges []protocol.Range
	needle := "{{" + name + "}}"
	needleUnits := protocol.UInteger(utf16Len(needle))
	line := protocol.UInteger(0)
	col := protocol.UInteger(0)
	for i, r := range text {
		if r == '\n' {
			line++
			col = 0
			continue
		}
		if strings.HasPrefix(text[i:], needle) {
			ranges = append(ranges, protocol.Range{
				Start: protocol.Position{Line: line, Character: col},
				End:   protocol.Position{Line: line, Character: col + needleUnits},
			})
		}
		col += protocol.UInteger(utf16RuneLen(r))
	}
	return ranges
}

func utf16Len(s string) int {
	n := 0
	for _, r := range s {
		n += utf16RuneLen(r)
	}
	return n
}

func utf16RuneLen(r rune) int {
	if r >= 0x10000 {
		return 2
	}
	return 1
}

func boolPtr(b bool) *bool {
	return &b
}

func intPtr(i int) *protocol.TextDocumentSyncKind {
	kind := protocol.TextDocumentSyncKind(i)
	return &kind
}
