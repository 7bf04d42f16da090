// Package doc defines the document tree produced by markup parsers and
// consumed by the rewrite engine and the output encoders.
//
// Nodes come in three capability flavors: Block (structural elements),
// Span (inline elements), and TemplateSpan (elements of a template
// document). The interfaces are sealed through unexported marker methods;
// external packages participate by embedding BaseBlock, BaseSpan, or
// BaseTemplateSpan in their own node types.
package doc

// Element is implemented by every node of a document tree.
type Element interface {
	element()
}

// Block is a structural element: a paragraph, a header, a list.
type Block interface {
	Element
	block()
}

// Span is an inline element inside a block: text, emphasis, a link.
type Span interface {
	Element
	span()
}

// TemplateSpan is an element of a template document.
type TemplateSpan interface {
	Element
	templateSpan()
}

// BaseBlock marks an external type as a Block when embedded.
type BaseBlock struct{}

func (BaseBlock) element() {}
func (BaseBlock) block()   {}

// BaseSpan marks an external type as a Span when embedded.
type BaseSpan struct{}

func (BaseSpan) element() {}
func (BaseSpan) span()    {}

// BaseTemplateSpan marks an external type as a TemplateSpan when embedded.
type BaseTemplateSpan struct{}

func (BaseTemplateSpan) element()      {}
func (BaseTemplateSpan) templateSpan() {}

// RootElement is the root of a parsed document.
type RootElement struct {
	Blocks []Block
}

func (RootElement) element() {}
func (RootElement) block()   {}

// BlockSequence groups blocks without any further meaning of its own.
type BlockSequence struct {
	Blocks []Block
}

func (BlockSequence) element() {}
func (BlockSequence) block()   {}

// Paragraph is a block of inline content.
type Paragraph struct {
	Spans []Span
}

func (Paragraph) element() {}
func (Paragraph) block()   {}

// Header is a section heading with a level starting at 1.
type Header struct {
	Level int
	Spans []Span
}

func (Header) element() {}
func (Header) block()   {}

// CodeBlock is a verbatim block, optionally tagged with a language.
type CodeBlock struct {
	Language string
	Content  string
}

func (CodeBlock) element() {}
func (CodeBlock) block()   {}

// ListItem is one entry of a bullet or ordered list.
type ListItem struct {
	Blocks []Block
}

func (ListItem) element() {}
func (ListItem) block()   {}

// BulletList is an unordered list.
type BulletList struct {
	Items []ListItem
}

func (BulletList) element() {}
func (BulletList) block()   {}

// OrderedList is a numbered list starting at Start.
type OrderedList struct {
	Start int
	Items []ListItem
}

func (OrderedList) element() {}
func (OrderedList) block()   {}

// Text is a run of plain text. It is both a Span and a TemplateSpan.
type Text struct {
	Content string
}

func (Text) element()      {}
func (Text) span()         {}
func (Text) templateSpan() {}

// SpanSequence groups spans without any further meaning of its own.
type SpanSequence struct {
	Spans []Span
}

func (SpanSequence) element() {}
func (SpanSequence) span()    {}

// Emphasized is emphasized inline content.
type Emphasized struct {
	Spans []Span
}

func (Emphasized) element() {}
func (Emphasized) span()    {}

// Strong is strongly emphasized inline content.
type Strong struct {
	Spans []Span
}

func (Strong) element() {}
func (Strong) span()    {}

// Code is a verbatim inline span.
type Code struct {
	Content string
}

func (Code) element() {}
func (Code) span()    {}

// Link is inline content pointing at a target.
type Link struct {
	Target string
	Spans  []Span
}

func (Link) element() {}
func (Link) span()    {}

// LineBreak is a hard line break inside a paragraph.
type LineBreak struct{}

func (LineBreak) element() {}
func (LineBreak) span()    {}

// Choice is one branch of a ChoiceGroup.
type Choice struct {
	Name   string
	Blocks []Block
}

// ChoiceGroup holds alternative branches of which exactly one is retained
// during rewriting, picked by the resolution context's selection for the
// group's name.
type ChoiceGroup struct {
	Name    string
	Choices []Choice
}

func (ChoiceGroup) element() {}
func (ChoiceGroup) block()   {}

// TemplateRoot is the root of a parsed template document.
type TemplateRoot struct {
	Spans []TemplateSpan
}

func (TemplateRoot) element() {}

// TemplateString is literal template text.
type TemplateString struct {
	Content string
}

func (TemplateString) element()      {}
func (TemplateString) templateSpan() {}

// TemplateElement wraps an arbitrary element inside a template, carrying
// the indentation level renderers re-indent it with.
type TemplateElement struct {
	Element Element
	Indent  int
}

func (TemplateElement) element()      {}
func (TemplateElement) templateSpan() {}

// EmbeddedRoot is a full document inserted into a template, carrying the
// indentation level renderers re-indent it with.
type EmbeddedRoot struct {
	Blocks []Block
	Indent int
}

func (EmbeddedRoot) element()      {}
func (EmbeddedRoot) templateSpan() {}
