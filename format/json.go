package format

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/dhamidi/marka/doc"
)

// JSONEncoder renders a document tree as indented JSON.
type JSONEncoder struct {
	w  io.Writer
	el doc.Element
}

func NewJSONEncoder(w io.Writer) *JSONEncoder {
	return &JSONEncoder{w: w}
}

func (e *JSONEncoder) Encode(el doc.Element) error {
	e.el = el
	text, err := e.MarshalText()
	if err != nil {
		return err
	}
	_, err = e.w.Write(text)
	return err
}

func (e *JSONEncoder) MarshalText() ([]byte, error) {
	return json.MarshalIndent(buildNode(e.el), "", "  ")
}

type jsonNode struct {
	Kind     string     `json:"kind"`
	Content  string     `json:"content,omitempty"`
	Message  string     `json:"message,omitempty"`
	Level    int        `json:"level,omitempty"`
	Start    int        `json:"start,omitempty"`
	Indent   int        `json:"indent,omitempty"`
	Target   string     `json:"target,omitempty"`
	Language string     `json:"language,omitempty"`
	Name     string     `json:"name,omitempty"`
	Children []jsonNode `json:"children,omitempty"`
}

func buildNode(el doc.Element) jsonNode {
	switch n := el.(type) {
	case doc.RootElement:
		return jsonNode{Kind: "root", Children: blockNodes(n.Blocks)}
	case doc.BlockSequence:
		return jsonNode{Kind: "blockSequence", Children: blockNodes(n.Blocks)}
	case doc.Paragraph:
		return jsonNode{Kind: "paragraph", Children: spanNodes(n.Spans)}
	case doc.Header:
		return jsonNode{Kind: "header", Level: n.Level, Children: spanNodes(n.Spans)}
	case doc.CodeBlock:
		return jsonNode{Kind: "codeBlock", Language: n.Language, Content: n.Content}
	case doc.BulletList:
		return jsonNode{Kind: "bulletList", Children: itemNodes(n.Items)}
	case doc.OrderedList:
		return jsonNode{Kind: "orderedList", Start: n.Start, Children: itemNodes(n.Items)}
	case doc.ListItem:
		return jsonNode{Kind: "listItem", Children: blockNodes(n.Blocks)}
	case doc.ChoiceGroup:
		node := jsonNode{Kind: "choiceGroup", Name: n.Name}
		for _, c := range n.Choices {
			node.Children = append(node.Children, jsonNode{
				Kind:     "choice",
				Name:     c.Name,
				Children: blockNodes(c.Blocks),
			})
		}
		return node
	case doc.Text:
		return jsonNode{Kind: "text", Content: n.Content}
	case doc.SpanSequence:
		return jsonNode{Kind: "spanSequence", Children: spanNodes(n.Spans)}
	case doc.Emphasized:
		return jsonNode{Kind: "emphasized", Children: spanNodes(n.Spans)}
	case doc.Strong:
		return jsonNode{Kind: "strong", Children: spanNodes(n.Spans)}
	case doc.Code:
		return jsonNode{Kind: "code", Content: n.Content}
	case doc.Link:
		return jsonNode{Kind: "link", Target: n.Target, Children: spanNodes(n.Spans)}
	case doc.LineBreak:
		return jsonNode{Kind: "lineBreak"}
	case doc.InvalidBlock:
		return jsonNode{Kind: "invalidBlock", Message: n.Message}
	case doc.InvalidSpan:
		return jsonNode{Kind: "invalidSpan", Message: n.Message}
	case doc.UnresolvedBlock:
		return jsonNode{Kind: "unresolvedBlock", Message: n.Message}
	case doc.UnresolvedSpan:
		return jsonNode{Kind: "unresolvedSpan", Message: n.Message}
	case doc.TemplateRoot:
		node := jsonNode{Kind: "templateRoot"}
		for _, s := range n.Spans {
			node.Children = append(node.Children, buildNode(s))
		}
		return node
	case doc.TemplateString:
		return jsonNode{Kind: "templateString", Content: n.Content}
	case doc.TemplateElement:
		return jsonNode{Kind: "templateElement", Indent: n.Indent, Children: []jsonNode{buildNode(n.Element)}}
	case doc.EmbeddedRoot:
		return jsonNode{Kind: "embeddedRoot", Indent: n.Indent, Children: blockNodes(n.Blocks)}
	default:
		return jsonNode{Kind: fmt.Sprintf("%T", el)}
	}
}

func blockNodes(blocks []doc.Block) []jsonNode {
	nodes := make([]jsonNode, len(blocks))
	for i, b := range blocks {
		nodes[i] = buildNode(b)
	}
	return nodes
}

func spanNodes(spans []doc.Span) []jsonNode {
	nodes := make([]jsonNode, len(spans))
	for i, s := range spans {
		nodes[i] = buildNode(s)
	}
	return nodes
}

func itemNodes(items []doc.ListItem) []jsonNode {
	nodes := make([]jsonNode, len(items))
	for i, item := range items {
		nodes[i] = buildNode(item)
	}
	return nodes
}
