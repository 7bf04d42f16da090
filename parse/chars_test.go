package parse

import (
	"testing"
	"unicode"
)

func TestAnyOfLongestRun(t *testing.T) {
	r := AnyOf('a', 'b').Min(1).Parser()(NewCursor("abccbb"))
	if r.Err != nil {
		t.Fatalf("parse failed: %v", r.Err)
	}
	if r.Value != "ab" {
		t.Errorf("value = %q, want \"ab\"", r.Value)
	}
	if r.Next.Offset() != 2 {
		t.Errorf("offset = %d, want 2", r.Next.Offset())
	}
}

func TestMatcherMinMax(t *testing.T) {
	tests := []struct {
		name  string
		m     Matcher
		input string
		want  string
		ok    bool
	}{
		{"default min zero always succeeds", AnyOf('a'), "xyz", "", true},
		{"min not met", AnyOf('a').Min(2), "ax", "", false},
		{"max bounds the run", AnyOf('a').Max(2), "aaaa", "aa", true},
		{"min and max", AnyOf('a').Min(1).Max(3), "aaaaa", "aaa", true},
		{"empty input with min", AnyOf('a').Min(1), "", "", false},
		{"max zero matches nothing", AnyOf('a').Max(0), "aaaa", "", true},
	}
	for _, tt := range tests {
		r := tt.m.Parser()(NewCursor(tt.input))
		if tt.ok != (r.Err == nil) {
			t.Errorf("%s: ok = %v, want %v", tt.name, r.Err == nil, tt.ok)
			continue
		}
		if tt.ok && r.Value != tt.want {
			t.Errorf("%s: value = %q, want %q", tt.name, r.Value, tt.want)
		}
	}
}

func TestAnyBut(t *testing.T) {
	r := AnyBut('\n').Parser()(NewCursor("some text\nmore"))
	if r.Err != nil {
		t.Fatalf("parse failed: %v", r.Err)
	}
	if r.Value != "some text" {
		t.Errorf("value = %q, want \"some text\"", r.Value)
	}
}

func TestAnyIn(t *testing.T) {
	r := AnyIn('a', 'z', '0', '9').Min(1).Parser()(NewCursor("ab12XY"))
	if r.Err != nil {
		t.Fatalf("parse failed: %v", r.Err)
	}
	if r.Value != "ab12" {
		t.Errorf("value = %q, want \"ab12\"", r.Value)
	}
}

func TestAnyWhile(t *testing.T) {
	r := AnyWhile(unicode.IsDigit).Min(1).Parser()(NewCursor("123abc"))
	if r.Err != nil {
		t.Fatalf("parse failed: %v", r.Err)
	}
	if r.Value != "123" || r.Next.Offset() != 3 {
		t.Errorf("got (%q, %d), want (\"123\", 3)", r.Value, r.Next.Offset())
	}
}
