package experiment

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"
)

const utf8BOM = "\ufeff"

// Reader reads rows from CSV input as header-keyed maps.
// The first row is the header. Empty lines are skipped and do not advance the
// row ordinal. Quoted fields keep embedded CRLF line breaks verbatim, and
// input that is not valid UTF-8 is rejected.
type Reader struct {
	csv     *csv.Reader
	header  []string
	err     error
	started bool
	ordinal int
}

// NewReader returns a Reader over r.
func NewReader(r io.Reader) *Reader {
	cr := csv.NewReader(newCRLFKeeper(r))
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	return &Reader{csv: cr}
}

// Header returns the header row, reading it on first use. An input with no
// rows at all has an empty header and no data rows.
func (r *Reader) Header() ([]string, error) {
	if r.started {
		return r.header, r.err
	}
	r.started = true
	r.header, r.err = r.readHeader()
	return r.header, r.err
}

func (r *Reader) readHeader() ([]string, error) {
	header, err := r.csv.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}
	if err := checkUTF8(header, 0); err != nil {
		return nil, err
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], utf8BOM)
	}

	present := make(map[string]bool, len(header))
	for _, h := range header {
		present[h] = true
	}
	for _, col := range RequiredColumns {
		if !present[col] {
			return nil, &MissingFieldError{Column: col, Row: 0}
		}
	}

	return header, nil
}

// Next returns the next data row and its 1-based ordinal. It returns io.EOF
// when the input is exhausted. A row with fewer fields than the header simply
// lacks the trailing columns; extra fields are dropped.
func (r *Reader) Next() (map[string]string, int, error) {
	header, err := r.Header()
	if err != nil {
		return nil, 0, err
	}
	if header == nil {
		return nil, 0, io.EOF
	}

	fields, err := r.csv.Read()
	if errors.Is(err, io.EOF) {
		return nil, 0, io.EOF
	}
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read CSV row %d: %w", r.ordinal+1, err)
	}
	r.ordinal++
	if err := checkUTF8(fields, r.ordinal); err != nil {
		return nil, 0, err
	}

	row := make(map[string]string, len(header))
	for i, name := range header {
		if i >= len(fields) {
			break
		}
		row[name] = fields[i]
	}
	return row, r.ordinal, nil
}

// ReadAll maps every row of r into records, stopping at the first error.
func ReadAll(r io.Reader) ([]Record, error) {
	reader := NewReader(r)
	records := make([]Record, 0)
	for {
		row, ordinal, err := reader.Next()
		if errors.Is(err, io.EOF) {
			return records, nil
		}
		if err != nil {
			return nil, err
		}
		rec, err := MapRow(row, ordinal)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
}

func checkUTF8(fields []string, ordinal int) error {
	for i, f := range fields {
		if !utf8.ValidString(f) {
			return &InvalidEncodingError{Row: ordinal, Field: i + 1}
		}
	}
	return nil
}
