package parse

// Matcher matches the longest run of characters satisfying a membership
// predicate, bounded by an optional maximum, and fails when the run is
// shorter than the configured minimum. The zero minimum means a matcher
// always succeeds, possibly with an empty result.
type Matcher struct {
	pred func(rune) bool
	min  int
	max  int // negative means unbounded
	desc string
}

// AnyOf matches runs of the given characters.
func AnyOf(chars ...rune) Matcher {
	set := runeSet(chars)
	return Matcher{pred: func(r rune) bool { return set[r] }, max: -1, desc: "one of " + string(chars)}
}

// AnyBut matches runs of characters not in the given set.
func AnyBut(chars ...rune) Matcher {
	set := runeSet(chars)
	return Matcher{pred: func(r rune) bool { return !set[r] }, max: -1, desc: "none of " + string(chars)}
}

// AnyIn matches runs of characters inside the given inclusive ranges,
// supplied as lo/hi pairs: AnyIn('a', 'z', '0', '9').
func AnyIn(ranges ...rune) Matcher {
	return Matcher{
		pred: func(r rune) bool {
			for i := 0; i+1 < len(ranges); i += 2 {
				if r >= ranges[i] && r <= ranges[i+1] {
					return true
				}
			}
			return false
		},
		max:  -1,
		desc: "character in range",
	}
}

// AnyWhile matches runs of characters satisfying the predicate.
func AnyWhile(pred func(rune) bool) Matcher {
	return Matcher{pred: pred, max: -1, desc: "matching character"}
}

// Min returns a copy of the matcher requiring at least n characters.
func (m Matcher) Min(n int) Matcher {
	m.min = n
	return m
}

// Max returns a copy of the matcher matching at most n characters.
func (m Matcher) Max(n int) Matcher {
	m.max = n
	return m
}

// Parser converts the matcher into a string parser.
func (m Matcher) Parser() Parser[string] {
	return func(in Cursor) Result[string] {
		n := 0
		for (m.max < 0 || n < m.max) && n < in.Remaining() && m.pred(in.CharAt(n)) {
			n++
		}
		if n < m.min {
			return Fail[string](in, "expected at least %d of %s, found %s", m.min, m.desc, found(in.Consume(n)))
		}
		return Success(in.Capture(n), in.Consume(n))
	}
}

func runeSet(chars []rune) map[rune]bool {
	set := make(map[rune]bool, len(chars))
	for _, r := range chars {
		set[r] = true
	}
	return set
}
