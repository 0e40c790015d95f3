package domain

import (
	"encoding/base64"
	"strconv"
	"strings"
)

// PageMarker is a keyset position: the last record seen in source-term order.
type PageMarker struct {
	SourceTerm string
	ID         string
}

// Cursor is the decoded form of an opaque pagination token. Exactly one of
// Offset and After is set; the zero Cursor means "first page".
type Cursor struct {
	Offset *int
	After  *PageMarker
}

const (
	cursorKindOffset = "o"
	cursorKindMarker = "m"
)

// IsZero reports whether the cursor points at the first page.
func (c Cursor) IsZero() bool {
	return c.Offset == nil && c.After == nil
}

// OffsetCursor encodes a position in a locally sorted listing.
// Format: base64("o|" + offset).
func OffsetCursor(offset int) string {
	return base64.RawURLEncoding.EncodeToString([]byte(cursorKindOffset + "|" + strconv.Itoa(offset)))
}

// MarkerCursor encodes a store-native keyset position.
// Format: base64("m|" + id + "|" + source_term).
func MarkerCursor(m PageMarker) string {
	return base64.RawURLEncoding.EncodeToString([]byte(cursorKindMarker + "|" + m.ID + "|" + m.SourceTerm))
}

// DecodeCursor parses a token produced by OffsetCursor or MarkerCursor.
// An empty token decodes to the zero Cursor.
func DecodeCursor(token string) (Cursor, error) {
	if token == "" {
		return Cursor{}, nil
	}

	raw, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return Cursor{}, NewValidationError("cursor", "malformed")
	}

	parts := strings.SplitN(string(raw), "|", 3)
	switch {
	case len(parts) == 2 && parts[0] == cursorKindOffset:
		n, err := strconv.Atoi(parts[1])
		if err != nil || n < 0 {
			return Cursor{}, NewValidationError("cursor", "malformed offset")
		}
		return Cursor{Offset: &n}, nil
	case len(parts) == 3 && parts[0] == cursorKindMarker && parts[1] != "":
		return Cursor{After: &PageMarker{ID: parts[1], SourceTerm: parts[2]}}, nil
	default:
		return Cursor{}, NewValidationError("cursor", "malformed")
	}
}
