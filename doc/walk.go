package doc

// Walk visits e and every node reachable from it in document order. If
// visit returns false for a node, its children are skipped.
func Walk(e Element, visit func(Element) bool) {
	if e == nil || !visit(e) {
		return
	}
	switch n := e.(type) {
	case RootElement:
		walkBlocks(n.Blocks, visit)
	case BlockSequence:
		walkBlocks(n.Blocks, visit)
	case Paragraph:
		walkSpans(n.Spans, visit)
	case Header:
		walkSpans(n.Spans, visit)
	case ListItem:
		walkBlocks(n.Blocks, visit)
	case BulletList:
		for _, item := range n.Items {
			Walk(item, visit)
		}
	case OrderedList:
		for _, item := range n.Items {
			Walk(item, visit)
		}
	case ChoiceGroup:
		for _, c := range n.Choices {
			walkBlocks(c.Blocks, visit)
		}
	case SpanSequence:
		walkSpans(n.Spans, visit)
	case Emphasized:
		walkSpans(n.Spans, visit)
	case Strong:
		walkSpans(n.Spans, visit)
	case Link:
		walkSpans(n.Spans, visit)
	case TemplateRoot:
		for _, s := range n.Spans {
			Walk(s, visit)
		}
	case TemplateElement:
		Walk(n.Element, visit)
	case EmbeddedRoot:
		walkBlocks(n.Blocks, visit)
	}
}

func walkBlocks(blocks []Block, visit func(Element) bool) {
	for _, b := range blocks {
		Walk(b, visit)
	}
}

func walkSpans(spans []Span, visit func(Element) bool) {
	for _, s := range spans {
		Walk(s, visit)
	}
}
