package convert

import (
	"bytes"
	"encoding/json"

	"github.com/emiliopalmerini/expconv/internal/experiment"
)

// MarshalRecords renders records as a JSON array indented with two spaces.
// Non-ASCII text and HTML characters are written as-is and there is no
// trailing newline. A nil slice renders as [].
func MarshalRecords(records []experiment.Record) ([]byte, error) {
	if records == nil {
		records = []experiment.Record{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(records); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}
