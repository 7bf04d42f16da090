package rewrite

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/dhamidi/marka/doc"
)

// refSpan resolves to the referenced element, or to an Unresolved marker
// when the name is unknown.
type refSpan struct {
	doc.BaseSpan
	Name string
}

func (r refSpan) ResolveSpan(ctx doc.Context) doc.Span {
	el, ok := ctx.Reference(r.Name)
	if !ok {
		return doc.UnresolvedSpan{Message: "unknown reference: " + r.Name}
	}
	if s, ok := doc.AsSpan(el); ok {
		return s
	}
	return doc.UnresolvedSpan{Message: "reference is not inline content: " + r.Name}
}

// countingSpan records that it was evaluated; used to prove unchosen
// branches are never touched.
type countingSpan struct {
	doc.BaseSpan
	Evaluated *int
}

func (c countingSpan) ResolveSpan(doc.Context) doc.Span {
	*c.Evaluated++
	return doc.Text{Content: "evaluated"}
}

// chainBlock resolves to another resolver, which the engine must resolve
// in the same pass.
type chainBlock struct {
	doc.BaseBlock
	Depth int
}

func (c chainBlock) ResolveBlock(doc.Context) doc.Block {
	if c.Depth > 1 {
		return chainBlock{Depth: c.Depth - 1}
	}
	return doc.Paragraph{Spans: []doc.Span{doc.Text{Content: "bottom"}}}
}

func mustContext(t *testing.T, document, template Config) *Context {
	t.Helper()
	ctx, err := NewContext(document, template)
	if err != nil {
		t.Fatalf("NewContext: %v", err)
	}
	return ctx
}

func TestApplyResolvesSpans(t *testing.T) {
	ctx := mustContext(t, nil, nil).WithReferences(map[string]doc.Element{
		"version": doc.Text{Content: "1.2.0"},
	})
	root := doc.RootElement{Blocks: []doc.Block{
		doc.Paragraph{Spans: []doc.Span{
			doc.Text{Content: "release "},
			refSpan{Name: "version"},
		}},
	}}

	got := Apply(root, Rules{}, ctx)

	want := doc.RootElement{Blocks: []doc.Block{
		doc.Paragraph{Spans: []doc.Span{
			doc.Text{Content: "release 1.2.0"},
		}},
	}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("tree mismatch (-want +got):\n%s", diff)
	}
}

func TestApplyResolvesResolverChains(t *testing.T) {
	ctx := mustContext(t, nil, nil)
	root := doc.RootElement{Blocks: []doc.Block{chainBlock{Depth: 3}}}

	got := Apply(root, Rules{}, ctx)

	want := doc.RootElement{Blocks: []doc.Block{
		doc.Paragraph{Spans: []doc.Span{doc.Text{Content: "bottom"}}},
	}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("tree mismatch (-want +got):\n%s", diff)
	}
}

func TestApplyConvertsUnresolvedToInvalid(t *testing.T) {
	ctx := mustContext(t, nil, nil)
	root := doc.RootElement{Blocks: []doc.Block{
		doc.Paragraph{Spans: []doc.Span{refSpan{Name: "missing"}}},
		doc.UnresolvedBlock{Message: "broken include"},
	}}

	got := Apply(root, Rules{}, ctx)

	want := doc.RootElement{Blocks: []doc.Block{
		doc.Paragraph{Spans: []doc.Span{doc.InvalidSpan{Message: "unknown reference: missing"}}},
		doc.InvalidBlock{Message: "broken include"},
	}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("tree mismatch (-want +got):\n%s", diff)
	}
}

func TestApplyIsIdempotent(t *testing.T) {
	ctx := mustContext(t, nil, nil).
		WithReferences(map[string]doc.Element{"name": doc.Text{Content: "marka"}}).
		WithSelections(map[string]string{"platform": "linux"})
	root := doc.RootElement{Blocks: []doc.Block{
		doc.Paragraph{Spans: []doc.Span{
			doc.Text{Content: "a"},
			refSpan{Name: "name"},
			refSpan{Name: "missing"},
		}},
		doc.ChoiceGroup{Name: "platform", Choices: []doc.Choice{
			{Name: "linux", Blocks: []doc.Block{doc.CodeBlock{Content: "apt install"}}},
			{Name: "mac", Blocks: []doc.Block{doc.CodeBlock{Content: "brew install"}}},
		}},
	}}

	once := Apply(root, Rules{}, ctx)
	twice := Apply(once, Rules{}, ctx)

	if diff := cmp.Diff(once, twice); diff != "" {
		t.Errorf("second pass changed the tree (-once +twice):\n%s", diff)
	}

	doc.Walk(once, func(e doc.Element) bool {
		switch e.(type) {
		case doc.BlockResolver, doc.SpanResolver, doc.TemplateResolver,
			doc.UnresolvedBlock, doc.UnresolvedSpan:
			t.Errorf("unresolved node %T reachable after rewrite", e)
		}
		return true
	})
}

func TestChoiceGroupExclusivity(t *testing.T) {
	evaluated := 0
	ctx := mustContext(t, nil, nil).WithSelections(map[string]string{"os": "a"})
	root := doc.RootElement{Blocks: []doc.Block{
		doc.ChoiceGroup{Name: "os", Choices: []doc.Choice{
			{Name: "a", Blocks: []doc.Block{doc.Paragraph{Spans: []doc.Span{doc.Text{Content: "A content"}}}}},
			{Name: "b", Blocks: []doc.Block{doc.Paragraph{Spans: []doc.Span{countingSpan{Evaluated: &evaluated}}}}},
		}},
	}}

	got := Apply(root, Rules{}, ctx)

	want := doc.RootElement{Blocks: []doc.Block{
		doc.Paragraph{Spans: []doc.Span{doc.Text{Content: "A content"}}},
	}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("tree mismatch (-want +got):\n%s", diff)
	}
	if evaluated != 0 {
		t.Errorf("resolver in unchosen branch evaluated %d times", evaluated)
	}
}

func TestChoiceGroupUnknownSelection(t *testing.T) {
	ctx := mustContext(t, nil, nil).WithSelections(map[string]string{"os": "windows"})
	root := doc.ChoiceGroup{Name: "os", Choices: []doc.Choice{
		{Name: "linux", Blocks: []doc.Block{doc.Paragraph{}}},
	}}

	got := Apply(root, Rules{}, ctx)

	inv, ok := got.(doc.InvalidBlock)
	if !ok {
		t.Fatalf("got %T, want InvalidBlock", got)
	}
	if !strings.Contains(inv.Message, "windows") {
		t.Errorf("message = %q, want mention of the missing choice", inv.Message)
	}
}

func TestChoiceGroupWithoutSelectionIsKept(t *testing.T) {
	ctx := mustContext(t, nil, nil)
	root := doc.ChoiceGroup{Name: "os", Choices: []doc.Choice{
		{Name: "a", Blocks: []doc.Block{doc.UnresolvedBlock{Message: "x"}}},
	}}

	got := Apply(root, Rules{}, ctx)

	want := doc.ChoiceGroup{Name: "os", Choices: []doc.Choice{
		{Name: "a", Blocks: []doc.Block{doc.InvalidBlock{Message: "x"}}},
	}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("tree mismatch (-want +got):\n%s", diff)
	}
}

func TestTextSpanMerging(t *testing.T) {
	ctx := mustContext(t, nil, nil)
	root := doc.Paragraph{Spans: []doc.Span{
		doc.Text{Content: "a"},
		doc.Text{Content: "b"},
		doc.Emphasized{Spans: []doc.Span{doc.Text{Content: "c"}}},
		doc.Text{Content: "d"},
		doc.Text{Content: "e"},
	}}

	got := Apply(root, Rules{}, ctx)

	want := doc.Paragraph{Spans: []doc.Span{
		doc.Text{Content: "ab"},
		doc.Emphasized{Spans: []doc.Span{doc.Text{Content: "c"}}},
		doc.Text{Content: "de"},
	}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("tree mismatch (-want +got):\n%s", diff)
	}
}

func TestUserRulesFirstMatchWins(t *testing.T) {
	ctx := mustContext(t, nil, nil)
	first := Rules{Spans: []SpanRule{
		func(s doc.Span) (Outcome, bool) {
			if _, ok := s.(doc.Code); ok {
				return Replace(doc.Text{Content: "first"}), true
			}
			return Outcome{}, false
		},
	}}
	second := Rules{Spans: []SpanRule{
		func(s doc.Span) (Outcome, bool) {
			if _, ok := s.(doc.Code); ok {
				return Replace(doc.Text{Content: "second"}), true
			}
			return Outcome{}, false
		},
	}}

	root := doc.Paragraph{Spans: []doc.Span{doc.Code{Content: "x"}}}
	got := Apply(root, first.Merge(second), ctx)

	want := doc.Paragraph{Spans: []doc.Span{doc.Text{Content: "first"}}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("tree mismatch (-want +got):\n%s", diff)
	}
}

func TestUserRuleRemove(t *testing.T) {
	ctx := mustContext(t, nil, nil)
	rules := Rules{Blocks: []BlockRule{
		func(b doc.Block) (Outcome, bool) {
			if _, ok := b.(doc.CodeBlock); ok {
				return Remove(), true
			}
			return Outcome{}, false
		},
	}}
	root := doc.RootElement{Blocks: []doc.Block{
		doc.CodeBlock{Content: "gone"},
		doc.Paragraph{Spans: []doc.Span{doc.Text{Content: "kept"}}},
	}}

	got := Apply(root, rules, ctx)

	want := doc.RootElement{Blocks: []doc.Block{
		doc.Paragraph{Spans: []doc.Span{doc.Text{Content: "kept"}}},
	}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("tree mismatch (-want +got):\n%s", diff)
	}
}

func TestTemplateIndentation(t *testing.T) {
	ctx := mustContext(t, nil, nil)
	root := doc.TemplateRoot{Spans: []doc.TemplateSpan{
		doc.TemplateString{Content: "<body>\n  "},
		doc.EmbeddedRoot{Blocks: []doc.Block{doc.Paragraph{Spans: []doc.Span{doc.Text{Content: "x"}}}}},
		doc.TemplateString{Content: "\n</body>"},
	}}

	got := Apply(root, Rules{}, ctx).(doc.TemplateRoot)

	emb, ok := got.Spans[1].(doc.EmbeddedRoot)
	if !ok {
		t.Fatalf("span[1] is %T, want EmbeddedRoot", got.Spans[1])
	}
	if emb.Indent != 2 {
		t.Errorf("indent = %d, want 2", emb.Indent)
	}
}
