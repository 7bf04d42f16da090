package doc

// Context is the read-only resolution context handed to resolver nodes
// during a rewrite: merged configuration, reference lookups against the
// document's position, and choice-group selections. It is built once per
// document and never mutated during a pass.
type Context interface {
	// ConfigValue looks up a key in the merged configuration.
	ConfigValue(key string) (any, bool)

	// Reference resolves a name against the document's reference table,
	// its parent chain, and the ambient configuration.
	Reference(name string) (Element, bool)

	// Selection returns the selected choice for a named choice group.
	Selection(group string) (string, bool)
}

// BlockResolver is a block that defers producing its final value until a
// resolution context is available. The rewrite engine replaces it with the
// result of Resolve, which may itself contain further resolvers.
type BlockResolver interface {
	Block
	ResolveBlock(ctx Context) Block
}

// SpanResolver is the inline counterpart of BlockResolver.
type SpanResolver interface {
	Span
	ResolveSpan(ctx Context) Span
}

// TemplateResolver is the template counterpart of BlockResolver.
type TemplateResolver interface {
	TemplateSpan
	ResolveTemplateSpan(ctx Context) TemplateSpan
}

// UnresolvedBlock marks a block-level resolution failure. The rewrite
// engine converts it into an InvalidBlock so the failure stays visible in
// rendered output.
type UnresolvedBlock struct {
	Message string
}

func (UnresolvedBlock) element() {}
func (UnresolvedBlock) block()   {}

// UnresolvedSpan marks an inline resolution failure. It doubles as a
// template span so template rewriting shares the same failure path.
type UnresolvedSpan struct {
	Message string
}

func (UnresolvedSpan) element()      {}
func (UnresolvedSpan) span()         {}
func (UnresolvedSpan) templateSpan() {}

// InvalidBlock is the terminal placeholder an UnresolvedBlock becomes. It
// is never re-resolved.
type InvalidBlock struct {
	Message string
}

func (InvalidBlock) element() {}
func (InvalidBlock) block()   {}

// InvalidSpan is the terminal placeholder an UnresolvedSpan becomes.
type InvalidSpan struct {
	Message string
}

func (InvalidSpan) element()      {}
func (InvalidSpan) span()         {}
func (InvalidSpan) templateSpan() {}

// AsSpan adapts an element to inline content where possible: spans pass
// through, blocks and template roots are rejected.
func AsSpan(e Element) (Span, bool) {
	if s, ok := e.(Span); ok {
		return s, true
	}
	return nil, false
}
