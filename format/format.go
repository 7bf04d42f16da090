// Package format renders document trees produced by the markup parsers:
// an indented tree dump for inspection, JSON for tooling, and HTML for
// preview output. Invalid placeholder nodes stay visible in every format
// so broken references are caught by inspection instead of vanishing.
package format

import (
	"encoding"

	"github.com/dhamidi/marka/doc"
)

// Encoder writes one document tree to its output.
type Encoder interface {
	encoding.TextMarshaler
	Encode(el doc.Element) error
}
