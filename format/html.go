package format

import (
	"bytes"
	"fmt"
	"html"
	"io"
	"strings"

	"github.com/dhamidi/marka/doc"
)

// HTMLEncoder renders a document tree as an HTML fragment. Invalid nodes
// become visibly flagged elements carrying their diagnostic message.
type HTMLEncoder struct {
	w  io.Writer
	el doc.Element
}

func NewHTMLEncoder(w io.Writer) *HTMLEncoder {
	return &HTMLEncoder{w: w}
}

func (e *HTMLEncoder) Encode(el doc.Element) error {
	e.el = el
	text, err := e.MarshalText()
	if err != nil {
		return err
	}
	_, err = e.w.Write(text)
	return err
}

func (e *HTMLEncoder) MarshalText() ([]byte, error) {
	var buf bytes.Buffer
	writeHTML(&buf, e.el, 0)
	return buf.Bytes(), nil
}

func writeHTML(buf *bytes.Buffer, el doc.Element, indent int) {
	switch n := el.(type) {
	case doc.RootElement:
		writeHTMLBlocks(buf, n.Blocks, indent)
	case doc.BlockSequence:
		writeHTMLBlocks(buf, n.Blocks, indent)
	case doc.Paragraph:
		buf.WriteString("<p>")
		writeHTMLSpans(buf, n.Spans)
		buf.WriteString("</p>\n")
	case doc.Header:
		fmt.Fprintf(buf, "<h%d>", n.Level)
		writeHTMLSpans(buf, n.Spans)
		fmt.Fprintf(buf, "</h%d>\n", n.Level)
	case doc.CodeBlock:
		if n.Language != "" {
			fmt.Fprintf(buf, "<pre><code class=%q>", "language-"+n.Language)
		} else {
			buf.WriteString("<pre><code>")
		}
		buf.WriteString(html.EscapeString(n.Content))
		buf.WriteString("</code></pre>\n")
	case doc.BulletList:
		buf.WriteString("<ul>\n")
		writeHTMLItems(buf, n.Items, indent)
		buf.WriteString("</ul>\n")
	case doc.OrderedList:
		if n.Start > 1 {
			fmt.Fprintf(buf, "<ol start=\"%d\">\n", n.Start)
		} else {
			buf.WriteString("<ol>\n")
		}
		writeHTMLItems(buf, n.Items, indent)
		buf.WriteString("</ol>\n")
	case doc.ChoiceGroup:
		// unselected choice groups render every branch, labelled
		for _, c := range n.Choices {
			fmt.Fprintf(buf, "<section data-choice=%q>\n", c.Name)
			writeHTMLBlocks(buf, c.Blocks, indent)
			buf.WriteString("</section>\n")
		}
	case doc.InvalidBlock:
		fmt.Fprintf(buf, "<div class=\"invalid\">%s</div>\n", html.EscapeString(n.Message))
	case doc.UnresolvedBlock:
		fmt.Fprintf(buf, "<div class=\"invalid\">%s</div>\n", html.EscapeString(n.Message))
	case doc.TemplateRoot:
		for _, s := range n.Spans {
			writeHTML(buf, s, indent)
		}
	case doc.TemplateString:
		buf.WriteString(n.Content)
	case doc.TemplateElement:
		var inner bytes.Buffer
		writeHTML(&inner, n.Element, 0)
		buf.WriteString(reindent(inner.String(), n.Indent))
	case doc.EmbeddedRoot:
		var inner bytes.Buffer
		writeHTMLBlocks(&inner, n.Blocks, 0)
		buf.WriteString(reindent(inner.String(), n.Indent))
	case doc.Span:
		writeHTMLSpans(buf, []doc.Span{n})
	default:
		fmt.Fprintf(buf, "<!-- unsupported node %T -->", el)
	}
}

func writeHTMLBlocks(buf *bytes.Buffer, blocks []doc.Block, indent int) {
	for _, b := range blocks {
		writeHTML(buf, b, indent)
	}
}

func writeHTMLItems(buf *bytes.Buffer, items []doc.ListItem, indent int) {
	for _, item := range items {
		buf.WriteString("<li>")
		// single-paragraph items render tight, without the <p> wrapper
		if len(item.Blocks) == 1 {
			if p, ok := item.Blocks[0].(doc.Paragraph); ok {
				writeHTMLSpans(buf, p.Spans)
				buf.WriteString("</li>\n")
				continue
			}
		}
		writeHTMLBlocks(buf, item.Blocks, indent)
		buf.WriteString("</li>\n")
	}
}

func writeHTMLSpans(buf *bytes.Buffer, spans []doc.Span) {
	for _, s := range spans {
		switch n := s.(type) {
		case doc.Text:
			buf.WriteString(html.EscapeString(n.Content))
		case doc.SpanSequence:
			writeHTMLSpans(buf, n.Spans)
		case doc.Emphasized:
			buf.WriteString("<em>")
			writeHTMLSpans(buf, n.Spans)
			buf.WriteString("</em>")
		case doc.Strong:
			buf.WriteString("<strong>")
			writeHTMLSpans(buf, n.Spans)
			buf.WriteString("</strong>")
		case doc.Code:
			buf.WriteString("<code>")
			buf.WriteString(html.EscapeString(n.Content))
			buf.WriteString("</code>")
		case doc.Link:
			fmt.Fprintf(buf, "<a href=%q>", n.Target)
			writeHTMLSpans(buf, n.Spans)
			buf.WriteString("</a>")
		case doc.LineBreak:
			buf.WriteString("<br>\n")
		case doc.InvalidSpan:
			fmt.Fprintf(buf, "<span class=\"invalid\">%s</span>", html.EscapeString(n.Message))
		case doc.UnresolvedSpan:
			fmt.Fprintf(buf, "<span class=\"invalid\">%s</span>", html.EscapeString(n.Message))
		default:
			fmt.Fprintf(buf, "<!-- unsupported span %T -->", s)
		}
	}
}

// reindent prefixes every line after the first with the given number of
// spaces, so embedded fragments line up with their insertion point.
func reindent(s string, indent int) string {
	if indent <= 0 {
		return s
	}
	prefix := strings.Repeat(" ", indent)
	lines := strings.Split(s, "\n")
	for i := 1; i < len(lines); i++ {
		if lines[i] != "" {
			lines[i] = prefix + lines[i]
		}
	}
	return strings.Join(lines, "\n")
}
