package parse

import "strings"

// Delimiter configures a forward scan for a terminating character set or
// literal string. Escape handling takes priority over delimiter and fail-on
// checks at the same position. The scanner accumulates plain text in whole
// runs, not character by character.
type Delimiter struct {
	lit       []rune
	chars     map[rune]bool
	escapes   map[rune]Parser[string]
	post      Parser[string]
	keep      bool
	failOn    map[rune]bool
	acceptEOF bool
}

// DelimitedBy scans until one of the given characters is found.
func DelimitedBy(chars ...rune) *Delimiter {
	return &Delimiter{chars: runeSet(chars)}
}

// DelimitedByString scans until the given literal string is found.
func DelimitedByString(lit string) *Delimiter {
	return &Delimiter{lit: []rune(lit)}
}

// Escape registers an escape character. When the scanner meets it, the sub
// parser runs right after it and its output is spliced into the accumulated
// text without being matched against the delimiter.
func (d *Delimiter) Escape(r rune, sub Parser[string]) *Delimiter {
	if d.escapes == nil {
		d.escapes = make(map[rune]Parser[string])
	}
	d.escapes[r] = sub
	return d
}

// PostCondition requires p to succeed immediately after a delimiter match;
// otherwise that occurrence does not terminate the scan.
func (d *Delimiter) PostCondition(p Parser[string]) *Delimiter {
	d.post = p
	return d
}

// Keep retains the matched delimiter in the scanner's result.
func (d *Delimiter) Keep() *Delimiter {
	d.keep = true
	return d
}

// FailOn aborts the whole scan when one of the given characters is found
// before the delimiter.
func (d *Delimiter) FailOn(chars ...rune) *Delimiter {
	d.failOn = runeSet(chars)
	return d
}

// AcceptEOF makes reaching end of input without the delimiter a success.
func (d *Delimiter) AcceptEOF() *Delimiter {
	d.acceptEOF = true
	return d
}

// Parser converts the delimiter configuration into a string parser
// producing the accumulated text.
func (d *Delimiter) Parser() Parser[string] {
	return d.scan
}

func (d *Delimiter) scan(in Cursor) Result[string] {
	var buf strings.Builder
	cur := in
	chunk := in // start of the current run of plain characters

	flush := func() {
		if cur.Offset() > chunk.Offset() {
			buf.WriteString(cur.Since(chunk))
		}
	}

	for {
		if cur.AtEnd() {
			if !d.acceptEOF {
				return Fail[string](cur, "end of input while scanning for delimiter")
			}
			flush()
			return Success(buf.String(), cur)
		}
		ch := cur.Char()

		if sub, ok := d.escapes[ch]; ok {
			flush()
			r := sub(cur.Consume(1))
			if r.Err != nil {
				return failAs[string](r.Err)
			}
			buf.WriteString(r.Value)
			cur = r.Next
			chunk = cur
			continue
		}
		if d.failOn[ch] {
			return Fail[string](cur, "unexpected %q while scanning for delimiter", ch)
		}
		if n := d.matchAt(cur); n > 0 {
			after := cur.Consume(n)
			if d.post != nil {
				if pr := d.post(after); pr.Err != nil {
					// not a real terminator, keep scanning
					cur = cur.Consume(1)
					continue
				}
			}
			flush()
			if d.keep {
				buf.WriteString(after.Since(cur))
			}
			return Success(buf.String(), after)
		}
		cur = cur.Consume(1)
	}
}

// matchAt returns the length of a delimiter match at the cursor, or 0.
func (d *Delimiter) matchAt(c Cursor) int {
	if d.chars != nil {
		if d.chars[c.Char()] {
			return 1
		}
		return 0
	}
	if c.Remaining() < len(d.lit) {
		return 0
	}
	for i, r := range d.lit {
		if c.CharAt(i) != r {
			return 0
		}
	}
	return len(d.lit)
}
