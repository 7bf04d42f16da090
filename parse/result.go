package parse

import "fmt"

// Failure describes a failed parse attempt: a message and the cursor the
// failure occurred at. A failure never commits consumption; callers retry
// from whatever cursor they passed in.
type Failure struct {
	Msg string
	At  Cursor
}

func (f *Failure) Error() string {
	return fmt.Sprintf("%s: %s", f.At.Position(), f.Msg)
}

// Result is the outcome of running a parser: either a value plus the cursor
// after the consumed input, or a failure.
type Result[T any] struct {
	Value T
	Next  Cursor
	Err   *Failure
}

// OK reports whether the result is a success.
func (r Result[T]) OK() bool { return r.Err == nil }

// Success builds a successful result.
func Success[T any](value T, next Cursor) Result[T] {
	return Result[T]{Value: value, Next: next}
}

// Fail builds a failed result at the given cursor.
func Fail[T any](at Cursor, format string, args ...any) Result[T] {
	return Result[T]{Err: &Failure{Msg: fmt.Sprintf(format, args...), At: at}}
}

// failAs converts a failure to a result of another value type.
func failAs[T any](f *Failure) Result[T] {
	return Result[T]{Err: f}
}

// found describes the character at the cursor for diagnostics.
func found(c Cursor) string {
	if c.AtEnd() {
		return "end of input"
	}
	return fmt.Sprintf("%q", c.Char())
}
