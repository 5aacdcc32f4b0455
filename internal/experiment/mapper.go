package experiment

import (
	"strconv"
	"strings"
)

var truthyValues = map[string]bool{
	"yes":  true,
	"true": true,
	"1":    true,
}

// MapRow converts one raw row, keyed by header name, into a Record.
// ordinal is the 1-based position of the row and becomes the ID when the
// index column is not purely numeric. Columns not listed in RequiredColumns
// are ignored.
func MapRow(row map[string]string, ordinal int) (Record, error) {
	get := func(column string) (string, error) {
		v, ok := row[column]
		if !ok {
			return "", &MissingFieldError{Column: column, Row: ordinal}
		}
		return v, nil
	}

	var rec Record

	rawID, err := get(ColumnIndex)
	if err != nil {
		return Record{}, err
	}
	rec.ID = parseID(rawID, ordinal)

	text := []struct {
		column string
		dst    *string
	}{
		{ColumnTactic, &rec.Tactic},
		{ColumnDescription, &rec.Description},
		{ColumnFunnelStep, &rec.FunnelStep},
		{ColumnProbability, &rec.Probability},
		{ColumnBusinessType, &rec.BusinessType},
		{ColumnEffort, &rec.Effort},
	}
	for _, f := range text {
		v, err := get(f.column)
		if err != nil {
			return Record{}, err
		}
		*f.dst = strings.TrimSpace(v)
	}

	devNeeded, err := get(ColumnDevNeeded)
	if err != nil {
		return Record{}, err
	}
	rec.DevNeeded = IsTruthy(devNeeded)

	return rec, nil
}

// IsTruthy reports whether s, trimmed and lowercased, is "yes", "true" or "1".
func IsTruthy(s string) bool {
	return truthyValues[strings.ToLower(strings.TrimSpace(s))]
}

// parseID returns the integer value of raw when it consists only of ASCII
// digits, and fallback otherwise. raw is not trimmed: " 7" falls back.
func parseID(raw string, fallback int) int {
	if raw == "" {
		return fallback
	}
	for _, c := range raw {
		if c < '0' || c > '9' {
			return fallback
		}
	}
	id, err := strconv.Atoi(raw)
	if err != nil {
		// overflow
		return fallback
	}
	return id
}
