package tokens

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"
)

// CompactJSON renders v on a single line with ", " and ": " separators and
// every rune outside printable ASCII escaped as \uXXXX, runes above the
// Basic Multilingual Plane as surrogate pairs.
func CompactJSON(v any) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return "", fmt.Errorf("failed to encode value: %w", err)
	}
	return spaceAndEscape(bytes.TrimRight(buf.Bytes(), "\n")), nil
}

func spaceAndEscape(src []byte) string {
	var sb strings.Builder
	sb.Grow(len(src) + len(src)/8)

	inString := false
	escaped := false
	for i := 0; i < len(src); {
		r, size := utf8.DecodeRune(src[i:])
		i += size

		if inString {
			switch {
			case escaped:
				escaped = false
				sb.WriteRune(r)
			case r == '\\':
				escaped = true
				sb.WriteRune(r)
			case r == '"':
				inString = false
				sb.WriteRune(r)
			case r < 0x7f:
				sb.WriteRune(r)
			default:
				writeEscapedRune(&sb, r)
			}
			continue
		}

		sb.WriteRune(r)
		switch r {
		case '"':
			inString = true
		case ',', ':':
			sb.WriteByte(' ')
		}
	}
	return sb.String()
}

func writeEscapedRune(sb *strings.Builder, r rune) {
	if r > 0xffff {
		r -= 0x10000
		fmt.Fprintf(sb, `\u%04x\u%04x`, 0xd800+(r>>10), 0xdc00+(r&0x3ff))
		return
	}
	fmt.Fprintf(sb, `\u%04x`, r)
}
