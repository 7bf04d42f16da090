package markdown

import (
	"fmt"

	"github.com/dhamidi/marka/doc"
)

// Substitution is a {{name}} span. During rewriting it resolves to the
// element the context binds the name to, or to an Unresolved marker that
// ends up as a visible Invalid placeholder.
type Substitution struct {
	doc.BaseSpan
	Name string
}

// ResolveSpan implements doc.SpanResolver.
func (s Substitution) ResolveSpan(ctx doc.Context) doc.Span {
	el, ok := ctx.Reference(s.Name)
	if !ok {
		return doc.UnresolvedSpan{Message: fmt.Sprintf("unknown substitution: %s", s.Name)}
	}
	span, ok := doc.AsSpan(el)
	if !ok {
		return doc.UnresolvedSpan{Message: fmt.Sprintf("substitution %s is not inline content", s.Name)}
	}
	return span
}
