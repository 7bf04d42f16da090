// Package template parses template documents and merges parsed markup
// into them. A template is literal text interleaved with ${name} context
// references and a {{document}} insertion point that receives the
// document's content, re-indented to match its surroundings.
package template

import (
	"fmt"
	"strings"

	"github.com/dhamidi/marka/doc"
	"github.com/dhamidi/marka/parse"
	"github.com/dhamidi/marka/rewrite"
)

// Parse parses a template document.
func Parse(text string) (doc.TemplateRoot, error) {
	return parse.ConsumeAll(templateRoot).ParseString(text)
}

// Apply rewrites the template with the given document bound to the
// {{document}} insertion point. The returned tree contains no resolver or
// unresolved nodes.
func Apply(tpl doc.TemplateRoot, root doc.RootElement, rules rewrite.Rules, ctx *rewrite.Context) doc.TemplateRoot {
	ctx = ctx.WithReferences(map[string]doc.Element{"document": root})
	return rewrite.Apply(tpl, rules, ctx).(doc.TemplateRoot)
}

var templateRoot = parse.Map(
	parse.Rep(templateSpan),
	func(spans []doc.TemplateSpan) doc.TemplateRoot {
		return doc.TemplateRoot{Spans: mergeStrings(spans)}
	},
)

var templateSpan = insertionPoint.
	Or(contextRef).
	Or(literalText).
	Or(literalChar)

// insertionPoint parses the {{document}} marker.
var insertionPoint parse.Parser[doc.TemplateSpan] = parse.Map(
	parse.Literal("{{document}}"),
	func(string) doc.TemplateSpan { return DocumentInsertion{} },
)

// contextRef parses ${name}.
var contextRef parse.Parser[doc.TemplateSpan] = parse.FilterMap(
	parse.Right(
		parse.Literal("${"),
		parse.DelimitedBy('}').FailOn('\n').Parser(),
	),
	func(name string) (doc.TemplateSpan, bool) {
		name = strings.TrimSpace(name)
		if name == "" {
			return nil, false
		}
		return ContextReference{Name: name}, true
	},
)

// literalText takes the longest run free of reference markers.
var literalText parse.Parser[doc.TemplateSpan] = parse.Map(
	parse.AnyBut('$', '{').Min(1).Parser(),
	func(s string) doc.TemplateSpan { return doc.TemplateString{Content: s} },
)

// literalChar consumes a marker character that opened no valid reference.
var literalChar parse.Parser[doc.TemplateSpan] = parse.Map(
	parse.AnyWhile(func(rune) bool { return true }).Min(1).Max(1).Parser(),
	func(s string) doc.TemplateSpan { return doc.TemplateString{Content: s} },
)

// mergeStrings joins adjacent literal fragments produced by the fallback
// path, so the indentation rule sees whole text runs.
func mergeStrings(spans []doc.TemplateSpan) []doc.TemplateSpan {
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

// ContextReference is a ${name} template span. It resolves to literal
// text for text-valued references and wraps any other element so it can
// be re-indented by renderers.
type ContextReference struct {
	doc.BaseTemplateSpan
	Name string
}

// ResolveTemplateSpan implements doc.TemplateResolver.
func (r ContextReference) ResolveTemplateSpan(ctx doc.Context) doc.TemplateSpan {
	el, ok := ctx.Reference(r.Name)
	if !ok {
		return doc.UnresolvedSpan{Message: fmt.Sprintf("unknown reference: %s", r.Name)}
	}
	if text, ok := el.(doc.Text); ok {
		return doc.TemplateString{Content: text.Content}
	}
	return doc.TemplateElement{Element: el}
}

// DocumentInsertion is the {{document}} template span. It resolves to the
// document bound under the "document" reference.
type DocumentInsertion struct {
	doc.BaseTemplateSpan
}

// ResolveTemplateSpan implements doc.TemplateResolver.
func (DocumentInsertion) ResolveTemplateSpan(ctx doc.Context) doc.TemplateSpan {
	el, ok := ctx.Reference("document")
	if !ok {
		return doc.UnresolvedSpan{Message: "no document bound for insertion point"}
	}
	root, ok := el.(doc.RootElement)
	if !ok {
		return doc.UnresolvedSpan{Message: fmt.Sprintf("insertion point bound to %T, want a document", el)}
	}
	return doc.EmbeddedRoot{Blocks: root.Blocks}
}
