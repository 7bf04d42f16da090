package format

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/dhamidi/marka/doc"
)

// TextEncoder renders a document tree as an indented dump, one node per
// line, for quick inspection on a terminal.
type TextEncoder struct {
	w  io.Writer
	el doc.Element
}

func NewTextEncoder(w io.Writer) *TextEncoder {
	return &TextEncoder{w: w}
}

func (e *TextEncoder) Encode(el doc.Element) error {
	e.el = el
	text, err := e.MarshalText()
	if err != nil {
		return err
	}
	_, err = e.w.Write(text)
	return err
}

func (e *TextEncoder) MarshalText() ([]byte, error) {
	var buf bytes.Buffer
	writeNode(&buf, e.el, 0)
	return buf.Bytes(), nil
}

func writeNode(buf *bytes.Buffer, el doc.Element, depth int) {
	node := buildNode(el)
	writeJSONNode(buf, node, depth)
}

func writeJSONNode(buf *bytes.Buffer, node jsonNode, depth int) {
	fmt.Fprintf(buf, "%s%s", strings.Repeat("  ", depth), node.Kind)
	if node.Name != "" {
		fmt.Fprintf(buf, " name=%q", node.Name)
	}
	if node.Level > 0 {
		fmt.Fprintf(buf, " level=%d", node.Level)
	}
	if node.Start > 0 {
		fmt.Fprintf(buf, " start=%d", node.Start)
	}
	if node.Indent > 0 {
		fmt.Fprintf(buf, " indent=%d", node.Indent)
	}
	if node.Language != "" {
		fmt.Fprintf(buf, " language=%q", node.Language)
	}
	if node.Target != "" {
		fmt.Fprintf(buf, " target=%q", node.Target)
	}
	if node.Content != "" {
		fmt.Fprintf(buf, " %q", node.Content)
	}
	if node.Message != "" {
		fmt.Fprintf(buf, " message=%q", node.Message)
	}
	buf.WriteByte('\n')
	for _, child := range node.Children {
		writeJSONNode(buf, child, depth+1)
	}
}
