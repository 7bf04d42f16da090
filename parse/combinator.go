package parse

// Map transforms the success value of a parser; failures pass through.
func Map[T, U any](p Parser[T], f func(T) U) Parser[U] {
	return func(in Cursor) Result[U] {
		r := p(in)
		if r.Err != nil {
			return failAs[U](r.Err)
		}
		return Success(f(r.Value), r.Next)
	}
}

// FlatMap runs p, then feeds its value to f to obtain the parser for the
// remaining input. f is never invoked when p fails.
func FlatMap[T, U any](p Parser[T], f func(T) Parser[U]) Parser[U] {
	return func(in Cursor) Result[U] {
		r := p(in)
		if r.Err != nil {
			return failAs[U](r.Err)
		}
		return f(r.Value)(r.Next)
	}
}

// FilterMap applies a partial mapping to the success value; if the mapping
// reports false the whole parse fails at the original position.
func FilterMap[T, U any](p Parser[T], f func(T) (U, bool)) Parser[U] {
	return func(in Cursor) Result[U] {
		r := p(in)
		if r.Err != nil {
			return failAs[U](r.Err)
		}
		v, ok := f(r.Value)
		if !ok {
			return Fail[U](in, "value %v not accepted", r.Value)
		}
		return Success(v, r.Next)
	}
}

// Or tries p first; on failure it retries q from the original cursor,
// discarding anything p consumed. The later attempt's diagnostic wins.
func (p Parser[T]) Or(q Parser[T]) Parser[T] {
	return func(in Cursor) Result[T] {
		if r := p(in); r.Err == nil {
			return r
		}
		return q(in)
	}
}

// Pair holds the two values produced by a sequence.
type Pair[A, B any] struct {
	First  A
	Second B
}

// Then runs a, then b from a's resulting cursor, pairing both values.
// Either failure fails the whole sequence with no partial commit.
func Then[A, B any](a Parser[A], b Parser[B]) Parser[Pair[A, B]] {
	return func(in Cursor) Result[Pair[A, B]] {
		ra := a(in)
		if ra.Err != nil {
			return failAs[Pair[A, B]](ra.Err)
		}
		rb := b(ra.Next)
		if rb.Err != nil {
			return failAs[Pair[A, B]](rb.Err)
		}
		return Success(Pair[A, B]{First: ra.Value, Second: rb.Value}, rb.Next)
	}
}

// Left sequences a and b, keeping only a's value.
func Left[A, B any](a Parser[A], b Parser[B]) Parser[A] {
	return Map(Then(a, b), func(p Pair[A, B]) A { return p.First })
}

// Right sequences a and b, keeping only b's value.
func Right[A, B any](a Parser[A], b Parser[B]) Parser[B] {
	return Map(Then(a, b), func(p Pair[A, B]) B { return p.Second })
}

// Option is the value produced by Opt: a value that may be absent.
type Option[T any] struct {
	Value   T
	Present bool
}

// Opt makes a parser total: failure becomes success carrying an absent
// value and consuming nothing.
func Opt[T any](p Parser[T]) Parser[Option[T]] {
	return func(in Cursor) Result[Option[T]] {
		r := p(in)
		if r.Err != nil {
			return Success(Option[T]{}, in)
		}
		return Success(Option[T]{Value: r.Value, Present: true}, r.Next)
	}
}

// Rep applies p repeatedly, collecting values until the first failure.
// The failing attempt terminates collection and is not itself an error.
func Rep[T any](p Parser[T]) Parser[[]T] {
	return repeat(p, 0, -1)
}

// RepMin is Rep with a required minimum number of repetitions.
func RepMin[T any](p Parser[T], min int) Parser[[]T] {
	return repeat(p, min, -1)
}

// RepBetween is Rep bounded below by min and above by max.
func RepBetween[T any](p Parser[T], min, max int) Parser[[]T] {
	return repeat(p, min, max)
}

func repeat[T any](p Parser[T], min, max int) Parser[[]T] {
	return func(in Cursor) Result[[]T] {
		var values []T
		cur := in
		for max < 0 || len(values) < max {
			r := p(cur)
			if r.Err != nil {
				break
			}
			values = append(values, r.Value)
			progressed := r.Next.Offset() > cur.Offset()
			cur = r.Next
			if !progressed {
				// zero-width match cannot make progress
				break
			}
		}
		if len(values) < min {
			return Fail[[]T](in, "expected at least %d repetitions, found %d", min, len(values))
		}
		return Success(values, cur)
	}
}

// RepWith applies first, then keeps repeating with a parser computed from
// the previous iteration's value. A failing iteration terminates collection;
// zero collected values is still a success.
func RepWith[T any](first Parser[T], next func(T) Parser[T]) Parser[[]T] {
	return func(in Cursor) Result[[]T] {
		var values []T
		cur := in
		p := first
		for {
			r := p(cur)
			if r.Err != nil {
				return Success(values, cur)
			}
			values = append(values, r.Value)
			progressed := r.Next.Offset() > cur.Offset()
			cur = r.Next
			if !progressed {
				// zero-width match cannot make progress
				return Success(values, cur)
			}
			p = next(r.Value)
		}
	}
}

// Not succeeds, consuming nothing, exactly when p fails at the current
// position.
func Not[T any](p Parser[T]) Parser[struct{}] {
	return func(in Cursor) Result[struct{}] {
		if r := p(in); r.Err == nil {
			return Fail[struct{}](in, "unexpected match")
		}
		return Success(struct{}{}, in)
	}
}

// LookAhead runs p against the cursor advanced by delta characters,
// reporting p's outcome without ever advancing the outer cursor.
func LookAhead[T any](delta int, p Parser[T]) Parser[T] {
	return func(in Cursor) Result[T] {
		if in.Remaining() < delta {
			return Fail[T](in, "cannot look ahead %d characters, %d remaining", delta, in.Remaining())
		}
		r := p(in.Consume(delta))
		if r.Err != nil {
			return failAs[T](r.Err)
		}
		return Success(r.Value, in)
	}
}

// LookBehind runs p against the cursor moved backward by back characters,
// reporting p's outcome without advancing the outer cursor. It fails if the
// move would cross the start of input.
func LookBehind[T any](back int, p Parser[T]) Parser[T] {
	return func(in Cursor) Result[T] {
		if in.Offset()-back < 0 {
			return Fail[T](in, "cannot look behind %d characters at offset %d", back, in.Offset())
		}
		r := p(in.Consume(-back))
		if r.Err != nil {
			return failAs[T](r.Err)
		}
		return Success(r.Value, in)
	}
}

// ConsumeAll requires p to consume the entire remaining input.
func ConsumeAll[T any](p Parser[T]) Parser[T] {
	return func(in Cursor) Result[T] {
		r := p(in)
		if r.Err != nil {
			return r
		}
		if !r.Next.AtEnd() {
			return Fail[T](r.Next, "unconsumed input: %s", found(r.Next))
		}
		return r
	}
}
