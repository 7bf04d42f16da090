// Package markdown implements a Markdown-flavored grammar on top of the
// parse combinators, producing a doc tree ready for rewriting. It covers
// ATX headers, paragraphs, fenced code blocks, bullet and ordered lists,
// inline emphasis, code spans, links, and {{name}} substitutions that
// resolve against the rewrite context.
package markdown

import (
	"strconv"
	"strings"

	"github.com/dhamidi/marka/doc"
	"github.com/dhamidi/marka/parse"
)

// Parse parses a full markup document.
func Parse(text string) (doc.RootElement, error) {
	return parse.ConsumeAll(document).ParseString(text)
}

// line is the rest of the current line, with its terminator consumed.
var line = parse.Left(parse.AnyBut('\n', '\r').Parser(), parse.EOL)

// blankLine matches a line holding only whitespace.
var blankLine = parse.FilterMap(
	parse.Then(parse.AnyOf(' ', '\t').Parser(), parse.EOL),
	func(p parse.Pair[string, string]) (string, bool) {
		// a zero-width match at end of input is not a blank line
		return p.First + p.Second, p.First+p.Second != ""
	},
)

var blankLines = parse.Rep(blankLine)

var document = parse.Map(
	parse.Left(parse.Rep(parse.Right(blankLines, block)), blankLines),
	func(blocks []doc.Block) doc.RootElement {
		return doc.RootElement{Blocks: blocks}
	},
)

var block = header.
	Or(codeFence).
	Or(orderedList).
	Or(bulletList).
	Or(paragraph)

// header parses an ATX header: one to six '#' characters, a space, then
// inline content until the end of the line.
var header parse.Parser[doc.Block] = parse.Map(
	parse.Then(
		parse.AnyOf('#').Min(1).Max(6).Parser(),
		parse.Right(parse.AnyOf(' ').Min(1).Parser(), line),
	),
	func(p parse.Pair[string, string]) doc.Block {
		return doc.Header{Level: len(p.First), Spans: Inline(p.Second)}
	},
)

// codeFence parses a ``` fenced block with an optional language tag. The
// closing fence must start its own line.
var codeFence parse.Parser[doc.Block] = parse.Map(
	parse.Then(
		parse.Right(parse.Literal("```"), line),
		parse.Left(parse.DelimitedByString("\n```").Parser(), parse.EOL),
	),
	func(p parse.Pair[string, string]) doc.Block {
		return doc.CodeBlock{Language: strings.TrimSpace(p.First), Content: p.Second}
	},
)

// bulletList parses consecutive "- " items.
var bulletList parse.Parser[doc.Block] = parse.Map(
	parse.RepMin(parse.Right(parse.Literal("- "), line), 1),
	func(lines []string) doc.Block {
		items := make([]doc.ListItem, len(lines))
		for i, l := range lines {
			items[i] = doc.ListItem{Blocks: []doc.Block{doc.Paragraph{Spans: Inline(l)}}}
		}
		return doc.BulletList{Items: items}
	},
)

type numberedLine struct {
	number int
	text   string
}

// orderedList parses a numbered list. Continuation items must carry the
// successor of the previous item's number, which is what the dynamic
// repetition combinator exists for.
var orderedList parse.Parser[doc.Block] = parse.FilterMap(
	parse.RepWith(anyNumberedLine, func(prev numberedLine) parse.Parser[numberedLine] {
		return numberedLineAt(prev.number + 1)
	}),
	func(lines []numberedLine) (doc.Block, bool) {
		if len(lines) == 0 {
			return nil, false
		}
		items := make([]doc.ListItem, len(lines))
		for i, l := range lines {
			items[i] = doc.ListItem{Blocks: []doc.Block{doc.Paragraph{Spans: Inline(l.text)}}}
		}
		return doc.OrderedList{Start: lines[0].number, Items: items}, true
	},
)

// anyNumberedLine matches "<digits>. <text>" with any number.
var anyNumberedLine = parse.FlatMap(
	parse.AnyIn('0', '9').Min(1).Parser(),
	func(digits string) parse.Parser[numberedLine] {
		n, err := strconv.Atoi(digits)
		if err != nil {
			return func(in parse.Cursor) parse.Result[numberedLine] {
				return parse.Fail[numberedLine](in, "list number out of range: %s", digits)
			}
		}
		return parse.Map(parse.Right(parse.Literal(". "), line), func(text string) numberedLine {
			return numberedLine{number: n, text: text}
		})
	},
)

// numberedLineAt matches "<n>. <text>" for exactly the given number.
func numberedLineAt(n int) parse.Parser[numberedLine] {
	return parse.Map(
		parse.Right(parse.Literal(strconv.Itoa(n)+". "), line),
		func(text string) numberedLine {
			return numberedLine{number: n, text: text}
		},
	)
}

// paragraph collects lines until a blank line or another block kind, and
// joins them with single spaces for inline parsing.
var paragraph parse.Parser[doc.Block] = parse.Map(
	parse.RepMin(paragraphLine, 1),
	func(lines []string) doc.Block {
		return doc.Paragraph{Spans: Inline(strings.Join(lines, " "))}
	},
)

var paragraphLine = parse.FilterMap(line, func(l string) (string, bool) {
	if strings.TrimSpace(l) == "" || startsOtherBlock(l) {
		return "", false
	}
	return l, true
})

// startsOtherBlock reports whether a line interrupts a paragraph by
// starting one of the other block kinds.
func startsOtherBlock(l string) bool {
	if strings.HasPrefix(l, "- ") || strings.HasPrefix(l, "```") {
		return true
	}
	hashes := strings.TrimLeft(l, "#")
	if n := len(l) - len(hashes); n >= 1 && n <= 6 && strings.HasPrefix(hashes, " ") {
		return true
	}
	digits := strings.TrimLeft(l, "0123456789")
	return len(digits) < len(l) && strings.HasPrefix(digits, ". ")
}
