package markdown

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/dhamidi/marka/doc"
	"github.com/dhamidi/marka/rewrite"
)

func TestInline(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []doc.Span
	}{
		{
			"plain text",
			"just words",
			[]doc.Span{text("just words")},
		},
		{
			"emphasis and strong",
			"a *b* **c**",
			[]doc.Span{
				text("a "),
				doc.Emphasized{Spans: []doc.Span{text("b")}},
				text(" "),
				doc.Strong{Spans: []doc.Span{text("c")}},
			},
		},
		{
			"code span keeps content verbatim",
			"run `a *b*` now",
			[]doc.Span{
				text("run "),
				doc.Code{Content: "a *b*"},
				text(" now"),
			},
		},
		{
			"link",
			"see [the docs](https://example.com)",
			[]doc.Span{
				text("see "),
				doc.Link{Target: "https://example.com", Spans: []doc.Span{text("the docs")}},
			},
		},
		{
			"substitution",
			"version {{version}} here",
			[]doc.Span{
				text("version "),
				Substitution{Name: "version"},
				text(" here"),
			},
		},
		{
			"escaped star is literal",
			`not \*emphasis\*`,
			[]doc.Span{text("not *emphasis*")},
		},
		{
			"unclosed emphasis falls back to text",
			"a *b",
			[]doc.Span{text("a *b")},
		},
		{
			"escaped backtick inside code span",
			"`a\\`b`",
			[]doc.Span{doc.Code{Content: "a`b"}},
		},
	}
	for _, tt := range tests {
		got := Inline(tt.input)
		if diff := cmp.Diff(tt.want, got); diff != "" {
			t.Errorf("%s: span mismatch (-want +got):\n%s", tt.name, diff)
		}
	}
}

func TestSubstitutionResolvesThroughContext(t *testing.T) {
	ctx, err := rewrite.NewContext(rewrite.Config{"version": "2.0"}, nil)
	if err != nil {
		t.Fatalf("NewContext: %v", err)
	}
	root, err := Parse("release {{version}} and {{missing}}\n")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}

	got := rewrite.Apply(root, rewrite.Rules{}, ctx)

	want := doc.RootElement{Blocks: []doc.Block{
		doc.Paragraph{Spans: []doc.Span{
			text("release 2.0 and "),
			doc.InvalidSpan{Message: "unknown substitution: missing"},
		}},
	}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("tree mismatch (-want +got):\n%s", diff)
	}
}
