package parse

import (
	"strconv"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestAlternativeLeftBias(t *testing.T) {
	a := Literal("ab")
	b := Literal("abc")
	r := a.Or(b)(NewCursor("abcd"))
	if r.Err != nil {
		t.Fatalf("parse failed: %v", r.Err)
	}
	if r.Value != "ab" || r.Next.Offset() != 2 {
		t.Errorf("got (%q, %d), want left alternative (\"ab\", 2)", r.Value, r.Next.Offset())
	}
}

func TestAlternativeBacktracksFromOriginalCursor(t *testing.T) {
	// left consumes two characters before failing; right must still see
	// the original position
	left := Right(Literal("ab"), Literal("XX"))
	right := Literal("abc")
	r := left.Or(right)(NewCursor("abcd"))
	if r.Err != nil {
		t.Fatalf("parse failed: %v", r.Err)
	}
	if r.Value != "abc" || r.Next.Offset() != 3 {
		t.Errorf("got (%q, %d), want (\"abc\", 3)", r.Value, r.Next.Offset())
	}
}

func TestThenNoPartialCommit(t *testing.T) {
	p := Then(Literal("ab"), Literal("cd"))
	r := p(NewCursor("abXX"))
	if r.Err == nil {
		t.Fatal("expected failure")
	}

	ok := p(NewCursor("abcd"))
	if ok.Err != nil {
		t.Fatalf("parse failed: %v", ok.Err)
	}
	if ok.Value.First != "ab" || ok.Value.Second != "cd" {
		t.Errorf("pair = %+v", ok.Value)
	}
}

func TestLeftRight(t *testing.T) {
	if r := Left(Literal("a"), Literal("b"))(NewCursor("ab")); r.Err != nil || r.Value != "a" {
		t.Errorf("Left = (%q, %v), want (\"a\", nil)", r.Value, r.Err)
	}
	if r := Right(Literal("a"), Literal("b"))(NewCursor("ab")); r.Err != nil || r.Value != "b" {
		t.Errorf("Right = (%q, %v), want (\"b\", nil)", r.Value, r.Err)
	}
}

func TestOptionalIsTotal(t *testing.T) {
	p := Opt(Literal("ab"))

	present := p(NewCursor("abc"))
	if present.Err != nil {
		t.Fatalf("parse failed: %v", present.Err)
	}
	if !present.Value.Present || present.Value.Value != "ab" || present.Next.Offset() != 2 {
		t.Errorf("got %+v at %d, want present \"ab\" at 2", present.Value, present.Next.Offset())
	}

	absent := p(NewCursor("xyz"))
	if absent.Err != nil {
		t.Fatalf("optional must never fail, got %v", absent.Err)
	}
	if absent.Value.Present || absent.Next.Offset() != 0 {
		t.Errorf("got %+v at %d, want absent with zero consumption", absent.Value, absent.Next.Offset())
	}
}

func TestRepetitionBounds(t *testing.T) {
	tests := []struct {
		input string
		min   int
		max   int
		count int
		ok    bool
	}{
		{"aaaa", 0, -1, 4, true},
		{"aaaa", 2, 3, 3, true},
		{"abbb", 2, -1, 0, false},
		{"", 0, -1, 0, true},
		{"aaaa", 5, -1, 0, false},
	}
	for _, tt := range tests {
		r := repeat(Literal("a"), tt.min, tt.max)(NewCursor(tt.input))
		if tt.ok != (r.Err == nil) {
			t.Errorf("rep(%q, %d, %d): ok = %v, want %v", tt.input, tt.min, tt.max, r.Err == nil, tt.ok)
			continue
		}
		if tt.ok && len(r.Value) != tt.count {
			t.Errorf("rep(%q, %d, %d) collected %d, want %d", tt.input, tt.min, tt.max, len(r.Value), tt.count)
		}
	}
}

func TestRepetitionDiscardsFailingAttempt(t *testing.T) {
	// each iteration consumes "a" then requires "b"; the final "a" with no
	// "b" must not be consumed
	p := Rep(Left(Literal("a"), Literal("b")))
	r := p(NewCursor("ababa"))
	if r.Err != nil {
		t.Fatalf("parse failed: %v", r.Err)
	}
	if len(r.Value) != 2 || r.Next.Offset() != 4 {
		t.Errorf("got %d values at offset %d, want 2 values at offset 4", len(r.Value), r.Next.Offset())
	}
}

func TestRepWithNumberedSequence(t *testing.T) {
	p := RepWith(Literal("1"), func(prev string) Parser[string] {
		n, _ := strconv.Atoi(prev)
		return Literal(strconv.Itoa(n + 1))
	})
	r := p(NewCursor("12345999"))
	if r.Err != nil {
		t.Fatalf("parse failed: %v", r.Err)
	}
	want := []string{"1", "2", "3", "4", "5"}
	if diff := cmp.Diff(want, r.Value); diff != "" {
		t.Errorf("collected values mismatch (-want +got):\n%s", diff)
	}
	if r.Next.Offset() != 5 {
		t.Errorf("offset = %d, want 5", r.Next.Offset())
	}
}

func TestRepWithZeroMatchesIsSuccess(t *testing.T) {
	p := RepWith(Literal("x"), func(string) Parser[string] { return Literal("x") })
	r := p(NewCursor("yyy"))
	if r.Err != nil {
		t.Fatalf("dynamic repetition with zero matches must succeed, got %v", r.Err)
	}
	if len(r.Value) != 0 || r.Next.Offset() != 0 {
		t.Errorf("got %d values at offset %d, want none at 0", len(r.Value), r.Next.Offset())
	}
}

func TestRepWithZeroWidthSubParserTerminates(t *testing.T) {
	p := RepWith(EOF, func(string) Parser[string] { return EOF })
	r := p(NewCursor(""))
	if r.Err != nil {
		t.Fatalf("parse failed: %v", r.Err)
	}
	if len(r.Value) != 1 || r.Next.Offset() != 0 {
		t.Errorf("got %d values at offset %d, want 1 at 0", len(r.Value), r.Next.Offset())
	}
}

func TestNot(t *testing.T) {
	r := Not(Literal("ab"))(NewCursor("cd"))
	if r.Err != nil {
		t.Fatalf("Not should succeed when inner parser fails: %v", r.Err)
	}
	if r.Next.Offset() != 0 {
		t.Errorf("Not consumed input, offset = %d", r.Next.Offset())
	}
	if r := Not(Literal("ab"))(NewCursor("ab")); r.Err == nil {
		t.Error("Not should fail when inner parser succeeds")
	}
}

func TestLookAhead(t *testing.T) {
	r := LookAhead(2, Literal("cd"))(NewCursor("abcd"))
	if r.Err != nil {
		t.Fatalf("parse failed: %v", r.Err)
	}
	if r.Value != "cd" || r.Next.Offset() != 0 {
		t.Errorf("got (%q, %d), want (\"cd\", 0)", r.Value, r.Next.Offset())
	}
	if r := LookAhead(10, Literal("cd"))(NewCursor("abcd")); r.Err == nil {
		t.Error("look-ahead past end of input should fail")
	}
}

func TestLookBehind(t *testing.T) {
	after := NewCursor("abcd").Consume(2)

	r := LookBehind(2, Char('a'))(after)
	if r.Err != nil {
		t.Fatalf("parse failed: %v", r.Err)
	}
	if r.Value != 'a' || r.Next.Offset() != 2 {
		t.Errorf("got (%q, %d), want ('a', 2)", r.Value, r.Next.Offset())
	}

	if r := LookBehind(7, Char('a'))(after); r.Err == nil {
		t.Error("look-behind past start of input should fail")
	}
}

func TestConsumeAll(t *testing.T) {
	if r := ConsumeAll(Literal("abc"))(NewCursor("abc")); r.Err != nil {
		t.Errorf("parse failed: %v", r.Err)
	}
	r := ConsumeAll(Literal("abc"))(NewCursor("abcd"))
	if r.Err == nil {
		t.Fatal("expected failure for trailing input")
	}
	if !strings.Contains(r.Err.Msg, "unconsumed") {
		t.Errorf("message = %q, want mention of unconsumed input", r.Err.Msg)
	}
}

func TestMapFlatMapFilterMap(t *testing.T) {
	digits := AnyIn('0', '9').Min(1).Parser()

	num := Map(digits, func(s string) int {
		n, _ := strconv.Atoi(s)
		return n
	})
	if r := num(NewCursor("42x")); r.Err != nil || r.Value != 42 {
		t.Errorf("Map = (%v, %v), want (42, nil)", r.Value, r.Err)
	}

	// flatMap: a count followed by that many 'x' characters
	counted := FlatMap(num, func(n int) Parser[string] {
		return AnyOf('x').Min(n).Max(n).Parser()
	})
	if r := counted(NewCursor("3xxx")); r.Err != nil || r.Value != "xxx" {
		t.Errorf("FlatMap = (%q, %v), want (\"xxx\", nil)", r.Value, r.Err)
	}
	if r := counted(NewCursor("3xx")); r.Err == nil {
		t.Error("FlatMap should fail when the derived parser fails")
	}
	if r := counted(NewCursor("0xxx")); r.Err != nil || r.Value != "" {
		t.Errorf("FlatMap with zero count = (%q, %v), want (\"\", nil)", r.Value, r.Err)
	}

	even := FilterMap(num, func(n int) (int, bool) { return n, n%2 == 0 })
	if r := even(NewCursor("4")); r.Err != nil || r.Value != 4 {
		t.Errorf("FilterMap = (%v, %v), want (4, nil)", r.Value, r.Err)
	}
	if r := even(NewCursor("3")); r.Err == nil {
		t.Error("FilterMap should fail when the mapping rejects the value")
	}
}

// Non-regression: successful parsers never report a cursor before their
// input, and pure lookarounds always report the original offset.
func TestNonRegression(t *testing.T) {
	in := NewCursor("abcd").Consume(1)

	parsers := map[string]Parser[string]{
		"literal": Literal("bc"),
		"chars":   AnyOf('b', 'c').Parser(),
		"rep":     Map(Rep(Literal("b")), func(v []string) string { return strings.Join(v, "") }),
		"opt":     Map(Opt(Literal("x")), func(Option[string]) string { return "" }),
	}
	for name, p := range parsers {
		r := p(in)
		if r.Err != nil {
			t.Errorf("%s failed: %v", name, r.Err)
			continue
		}
		if r.Next.Offset() < in.Offset() {
			t.Errorf("%s regressed cursor: %d < %d", name, r.Next.Offset(), in.Offset())
		}
	}

	lookarounds := map[string]Parser[string]{
		"lookAhead":  LookAhead(1, Literal("c")),
		"lookBehind": LookBehind(1, Literal("a")),
		"not":        Map(Not(Literal("x")), func(struct{}) string { return "" }),
	}
	for name, p := range lookarounds {
		r := p(in)
		if r.Err != nil {
			t.Errorf("%s failed: %v", name, r.Err)
			continue
		}
		if r.Next.Offset() != in.Offset() {
			t.Errorf("%s moved cursor to %d, want original %d", name, r.Next.Offset(), in.Offset())
		}
	}
}
