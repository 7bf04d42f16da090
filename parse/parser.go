package parse

// Parser consumes input from a cursor and produces a Result. Parser values
// are pure: the same parser may be reused across many inputs and offsets.
type Parser[T any] func(Cursor) Result[T]

// Parse runs the parser at the given cursor.
func (p Parser[T]) Parse(in Cursor) Result[T] {
	return p(in)
}

// ParseString runs the parser on the full text, starting at offset zero.
// On failure the returned error carries the line:column of the failure.
func (p Parser[T]) ParseString(text string) (T, error) {
	r := p(NewCursor(text))
	if r.Err != nil {
		var zero T
		return zero, r.Err
	}
	return r.Value, nil
}

// Char matches exactly the given character and produces it.
func Char(c rune) Parser[rune] {
	return func(in Cursor) Result[rune] {
		if in.AtEnd() || in.Char() != c {
			return Fail[rune](in, "expected %q, found %s", c, found(in))
		}
		return Success(c, in.Consume(1))
	}
}

// Literal matches the given string exactly, with no partial match.
func Literal(s string) Parser[string] {
	want := []rune(s)
	return func(in Cursor) Result[string] {
		if in.Remaining() < len(want) {
			return Fail[string](in, "expected %q, found %s", s, found(in))
		}
		for i, r := range want {
			if in.CharAt(i) != r {
				return Fail[string](in, "expected %q, found %q", s, in.Capture(i+1))
			}
		}
		return Success(s, in.Consume(len(want)))
	}
}

// EOF succeeds without consuming anything, but only at end of input.
var EOF Parser[string] = func(in Cursor) Result[string] {
	if !in.AtEnd() {
		return Fail[string](in, "expected end of input, found %s", found(in))
	}
	return Success("", in)
}

// AtStart succeeds without consuming anything, but only at offset zero.
var AtStart Parser[string] = func(in Cursor) Result[string] {
	if !in.AtStart() {
		return Fail[string](in, "not at start of input")
	}
	return Success("", in)
}

// EOL matches a line ending: "\n", "\r\n", or end of input. The matched
// terminator is consumed (nothing at end of input).
var EOL Parser[string] = func(in Cursor) Result[string] {
	switch {
	case in.AtEnd():
		return Success("", in)
	case in.Char() == '\n':
		return Success("\n", in.Consume(1))
	case in.Char() == '\r' && in.CharAt(1) == '\n':
		return Success("\r\n", in.Consume(2))
	}
	return Fail[string](in, "expected end of line, found %s", found(in))
}
