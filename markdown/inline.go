package markdown

import (
	"strings"

	"github.com/dhamidi/marka/doc"
	"github.com/dhamidi/marka/parse"
)

// Inline parses the inline content of one block.
func Inline(text string) []doc.Span {
	r := parse.Rep(inlineSpan)(parse.NewCursor(text))
	return mergeText(r.Value)
}

var inlineSpan parse.Parser[doc.Span]

// Assigned in init to break the initialization cycle with Inline, which
// the recursive span parsers call.
func init() {
	inlineSpan = strong.
		Or(emphasis).
		Or(codeSpan).
		Or(link).
		Or(substitution).
		Or(plainText).
		Or(anyChar)
}

// backslash escapes inside delimited inline content yield the following
// character verbatim.
var escapedChar = parse.Map(
	parse.AnyWhile(func(rune) bool { return true }).Min(1).Max(1).Parser(),
	func(s string) string { return s },
)

// strong parses **content**. The content must stay on one line and is
// parsed recursively.
var strong parse.Parser[doc.Span] = parse.Map(
	parse.Right(
		parse.Literal("**"),
		parse.DelimitedByString("**").Escape('\\', escapedChar).FailOn('\n').Parser(),
	),
	func(content string) doc.Span {
		return doc.Strong{Spans: Inline(content)}
	},
)

// emphasis parses *content*, rejecting empty content so a stray "**" is
// not read as empty emphasis.
var emphasis parse.Parser[doc.Span] = parse.FilterMap(
	parse.Right(
		parse.Char('*'),
		parse.DelimitedBy('*').Escape('\\', escapedChar).FailOn('\n').Parser(),
	),
	func(content string) (doc.Span, bool) {
		if content == "" {
			return nil, false
		}
		return doc.Emphasized{Spans: Inline(content)}, true
	},
)

// codeSpan parses `content` verbatim.
var codeSpan parse.Parser[doc.Span] = parse.Map(
	parse.Right(
		parse.Char('`'),
		parse.DelimitedBy('`').Escape('\\', escapedChar).Parser(),
	),
	func(content string) doc.Span {
		return doc.Code{Content: content}
	},
)

// link parses [text](target).
var link parse.Parser[doc.Span] = parse.Map(
	parse.Then(
		parse.Right(
			parse.Char('['),
			parse.DelimitedBy(']').Escape('\\', escapedChar).Parser(),
		),
		parse.Right(
			parse.Char('('),
			parse.DelimitedBy(')').Parser(),
		),
	),
	func(p parse.Pair[string, string]) doc.Span {
		return doc.Link{Target: p.Second, Spans: Inline(p.First)}
	},
)

// substitution parses {{name}} into a span resolver looked up during
// rewriting.
var substitution parse.Parser[doc.Span] = parse.FilterMap(
	parse.Right(
		parse.Literal("{{"),
		parse.DelimitedByString("}}").FailOn('\n').Parser(),
	),
	func(name string) (doc.Span, bool) {
		name = strings.TrimSpace(name)
		if name == "" {
			return nil, false
		}
		return Substitution{Name: name}, true
	},
)

// plainText takes the longest run holding no inline markup starters.
var plainText parse.Parser[doc.Span] = parse.Map(
	parse.AnyBut('*', '`', '[', '{', '\\').Min(1).Parser(),
	func(s string) doc.Span { return doc.Text{Content: s} },
)

// anyChar is the fallback for a markup starter that did not open a valid
// construct; a backslash escapes the character after it.
var anyChar parse.Parser[doc.Span] = func(in parse.Cursor) parse.Result[doc.Span] {
	if in.AtEnd() {
		return parse.Fail[doc.Span](in, "unexpected end of input")
	}
	if in.Char() == '\\' && in.Remaining() > 1 {
		return parse.Success[doc.Span](doc.Text{Content: string(in.CharAt(1))}, in.Consume(2))
	}
	return parse.Success[doc.Span](doc.Text{Content: string(in.Char())}, in.Consume(1))
}

// mergeText joins adjacent plain text spans produced by the fallback path.
func mergeText(spans []doc.Span) []doc.Span {
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
