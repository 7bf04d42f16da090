package rewrite

import "github.com/dhamidi/marka/doc"

type outcomeKind int

const (
	outcomeKeep outcomeKind = iota
	outcomeReplace
	outcomeRemove
)

// Outcome is a rule's decision about a node: keep it, replace it, or
// remove it from its parent.
type Outcome struct {
	kind        outcomeKind
	replacement doc.Element
}

// Keep leaves the node in place; its children are still rewritten.
func Keep() Outcome { return Outcome{kind: outcomeKeep} }

// Replace substitutes the node with another element of the same kind.
func Replace(e doc.Element) Outcome { return Outcome{kind: outcomeReplace, replacement: e} }

// Remove drops the node from its parent container.
func Remove() Outcome { return Outcome{kind: outcomeRemove} }

// BlockRule is a partial function over blocks: the second return value
// reports whether the rule applies to the node at all.
type BlockRule func(doc.Block) (Outcome, bool)

// SpanRule is the inline counterpart of BlockRule.
type SpanRule func(doc.Span) (Outcome, bool)

// TemplateRule is the template counterpart of BlockRule.
type TemplateRule func(doc.TemplateSpan) (Outcome, bool)

// Rules groups rewrite rules by node kind. A node is only tested against
// the rules registered for its kind, in declaration order, first match
// wins; when no rule matches the node is kept and its children rewritten.
type Rules struct {
	Blocks    []BlockRule
	Spans     []SpanRule
	Templates []TemplateRule
}

// Merge combines two rule sets additively; the receiver's rules are tried
// first.
func (r Rules) Merge(other Rules) Rules {
	return Rules{
		Blocks:    append(append([]BlockRule{}, r.Blocks...), other.Blocks...),
		Spans:     append(append([]SpanRule{}, r.Spans...), other.Spans...),
		Templates: append(append([]TemplateRule{}, r.Templates...), other.Templates...),
	}
}
