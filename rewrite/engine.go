package rewrite

import (
	"fmt"
	"strings"

	"github.com/dhamidi/marka/doc"
)

// Apply rewrites an entire tree in one bottom-up pass. Resolver nodes are
// replaced with their resolved values (recursively, so a resolver producing
// another resolver is handled in the same pass), choice groups collapse to
// their selected branch, adjacent text spans merge, and Unresolved markers
// become visible Invalid placeholders. Re-applying the same rules to the
// result changes nothing.
func Apply(root doc.Element, rules Rules, ctx *Context) doc.Element {
	e := &engine{rules: rules, ctx: ctx}
	return e.rewriteElement(root)
}

type engine struct {
	rules Rules
	ctx   *Context
}

func (e *engine) rewriteElement(el doc.Element) doc.Element {
	switch n := el.(type) {
	case doc.TemplateRoot:
		n.Spans = e.rewriteTemplateSpans(n.Spans)
		return n
	case doc.Block:
		out := e.rewriteBlock(n)
		switch len(out) {
		case 0:
			return doc.BlockSequence{}
		case 1:
			return out[0]
		default:
			return doc.BlockSequence{Blocks: out}
		}
	case doc.Span:
		out := e.rewriteSpan(n)
		if len(out) == 1 {
			return out[0]
		}
		return doc.SpanSequence{Spans: out}
	default:
		return el
	}
}

// rewriteBlock returns the block's replacement sequence: empty for a
// removed block, more than one element when a choice group splices its
// selected branch into the parent.
func (e *engine) rewriteBlock(b doc.Block) []doc.Block {
	switch n := b.(type) {
	case doc.BlockResolver:
		return e.rewriteBlock(n.ResolveBlock(e.ctx))
	case doc.ChoiceGroup:
		if sel, ok := e.ctx.Selection(n.Name); ok {
			for _, c := range n.Choices {
				if c.Name == sel {
					// unchosen branches are discarded unevaluated
					return e.rewriteBlocks(c.Blocks)
				}
			}
			return []doc.Block{doc.InvalidBlock{
				Message: fmt.Sprintf("choice group %q has no choice %q", n.Name, sel),
			}}
		}
	case doc.UnresolvedBlock:
		return []doc.Block{doc.InvalidBlock{Message: n.Message}}
	}

	b = e.rewriteBlockChildren(b)

	for _, rule := range e.rules.Blocks {
		out, ok := rule(b)
		if !ok {
			continue
		}
		switch out.kind {
		case outcomeRemove:
			return nil
		case outcomeReplace:
			nb, ok := out.replacement.(doc.Block)
			if !ok {
				return []doc.Block{doc.InvalidBlock{
					Message: fmt.Sprintf("rule replaced block with %T", out.replacement),
				}}
			}
			return []doc.Block{nb}
		}
		break
	}
	return []doc.Block{b}
}

func (e *engine) rewriteBlockChildren(b doc.Block) doc.Block {
	switch n := b.(type) {
	case doc.RootElement:
		n.Blocks = e.rewriteBlocks(n.Blocks)
		return n
	case doc.BlockSequence:
		n.Blocks = e.rewriteBlocks(n.Blocks)
		return n
	case doc.Paragraph:
		n.Spans = e.rewriteSpans(n.Spans)
		return n
	case doc.Header:
		n.Spans = e.rewriteSpans(n.Spans)
		return n
	case doc.ListItem:
		n.Blocks = e.rewriteBlocks(n.Blocks)
		return n
	case doc.BulletList:
		n.Items = e.rewriteItems(n.Items)
		return n
	case doc.OrderedList:
		n.Items = e.rewriteItems(n.Items)
		return n
	case doc.ChoiceGroup:
		// no selection recorded: every branch is kept and rewritten
		choices := make([]doc.Choice, len(n.Choices))
		for i, c := range n.Choices {
			choices[i] = doc.Choice{Name: c.Name, Blocks: e.rewriteBlocks(c.Blocks)}
		}
		n.Choices = choices
		return n
	default:
		return b
	}
}

func (e *engine) rewriteBlocks(blocks []doc.Block) []doc.Block {
	var out []doc.Block
	for _, b := range blocks {
		out = append(out, e.rewriteBlock(b)...)
	}
	return out
}

func (e *engine) rewriteItems(items []doc.ListItem) []doc.ListItem {
	out := make([]doc.ListItem, len(items))
	for i, item := range items {
		out[i] = doc.ListItem{Blocks: e.rewriteBlocks(item.Blocks)}
	}
	return out
}

func (e *engine) rewriteSpan(s doc.Span) []doc.Span {
	switch n := s.(type) {
	case doc.SpanResolver:
		return e.rewriteSpan(n.ResolveSpan(e.ctx))
	case doc.UnresolvedSpan:
		return []doc.Span{doc.InvalidSpan{Message: n.Message}}
	}

	s = e.rewriteSpanChildren(s)

	for _, rule := range e.rules.Spans {
		out, ok := rule(s)
		if !ok {
			continue
		}
		switch out.kind {
		case outcomeRemove:
			return nil
		case outcomeReplace:
			ns, ok := out.replacement.(doc.Span)
			if !ok {
				return []doc.Span{doc.InvalidSpan{
					Message: fmt.Sprintf("rule replaced span with %T", out.replacement),
				}}
			}
			return []doc.Span{ns}
		}
		break
	}
	return []doc.Span{s}
}

func (e *engine) rewriteSpanChildren(s doc.Span) doc.Span {
	switch n := s.(type) {
	case doc.SpanSequence:
		n.Spans = e.rewriteSpans(n.Spans)
		return n
	case doc.Emphasized:
		n.Spans = e.rewriteSpans(n.Spans)
		return n
	case doc.Strong:
		n.Spans = e.rewriteSpans(n.Spans)
		return n
	case doc.Link:
		n.Spans = e.rewriteSpans(n.Spans)
		return n
	default:
		return s
	}
}

func (e *engine) rewriteSpans(spans []doc.Span) []doc.Span {
	var out []doc.Span
	for _, s := range spans {
		out = append(out, e.rewriteSpan(s)...)
	}
	return mergeTextSpans(out)
}

// mergeTextSpans collapses consecutive plain text spans into one.
func mergeTextSpans(spans []doc.Span) []doc.Span {
	var out []doc.Span
	for _, s := range spans {
		text, isText := s.(doc.Text)
		if isText && len(out) > 0 {
			if prev, ok := out[len(out)-1].(doc.Text); ok {
				out[len(out)-1] = doc.Text{Content: prev.Content + text.Content}
				continue
			}
		}
		out = append(out, s)
	}
	return out
}

func (e *engine) rewriteTemplateSpan(ts doc.TemplateSpan) []doc.TemplateSpan {
	switch n := ts.(type) {
	case doc.TemplateResolver:
		return e.rewriteTemplateSpan(n.ResolveTemplateSpan(e.ctx))
	case doc.UnresolvedSpan:
		return []doc.TemplateSpan{doc.InvalidSpan{Message: n.Message}}
	case doc.TemplateElement:
		n.Element = e.rewriteElement(n.Element)
		ts = n
	case doc.EmbeddedRoot:
		n.Blocks = e.rewriteBlocks(n.Blocks)
		ts = n
	}

	for _, rule := range e.rules.Templates {
		out, ok := rule(ts)
		if !ok {
			continue
		}
		switch out.kind {
		case outcomeRemove:
			return nil
		case outcomeReplace:
			nts, ok := out.replacement.(doc.TemplateSpan)
			if !ok {
				return []doc.TemplateSpan{doc.InvalidSpan{
					Message: fmt.Sprintf("rule replaced template span with %T", out.replacement),
				}}
			}
			return []doc.TemplateSpan{nts}
		}
		break
	}
	return []doc.TemplateSpan{ts}
}

func (e *engine) rewriteTemplateSpans(spans []doc.TemplateSpan) []doc.TemplateSpan {
	var out []doc.TemplateSpan
	for _, ts := range spans {
		out = append(out, e.rewriteTemplateSpan(ts)...)
	}
	return applyIndentation(mergeTemplateStrings(out))
}

// mergeTemplateStrings collapses consecutive literal template fragments,
// so the indentation window sees whole text runs.
func mergeTemplateStrings(spans []doc.TemplateSpan) []doc.TemplateSpan {
	var out []doc.TemplateSpan
	for _, s := range spans {
		str, isStr := s.(doc.TemplateString)
		if isStr && len(out) > 0 {
			if prev, ok := out[len(out)-1].(doc.TemplateString); ok {
				out[len(out)-1] = doc.TemplateString{Content: prev.Content + str.Content}
				continue
			}
		}
		out = append(out, s)
	}
	return out
}

// applyIndentation tags a structural fragment directly following literal
// text with the indentation implied by that text's trailing whitespace, so
// renderers can re-indent nested output. A two-element sliding window
// applied after all resolution.
func applyIndentation(spans []doc.TemplateSpan) []doc.TemplateSpan {
	for i := 1; i < len(spans); i++ {
		indent, ok := trailingIndent(spans[i-1])
		if !ok {
			continue
		}
		switch n := spans[i].(type) {
		case doc.EmbeddedRoot:
			n.Indent = indent
			spans[i] = n
		case doc.TemplateElement:
			n.Indent = indent
			spans[i] = n
		}
	}
	return spans
}

// trailingIndent computes the indentation implied by the whitespace after
// the last line break of a literal text fragment.
func trailingIndent(ts doc.TemplateSpan) (int, bool) {
	var content string
	switch n := ts.(type) {
	case doc.TemplateString:
		content = n.Content
	case doc.Text:
		content = n.Content
	default:
		return 0, false
	}
	suffix := content
	if i := strings.LastIndexByte(content, '\n'); i >= 0 {
		suffix = content[i+1:]
	}
	if suffix == "" || strings.TrimLeft(suffix, " \t") != "" {
		return 0, false
	}
	return len(suffix), true
}
