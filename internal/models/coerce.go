package models

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// CoerceFloat converts a raw source value to a float, with "invalid → missing"
// semantics: unparseable or absent values come back as nil, never as an error.
func CoerceFloat(raw *string) *float64 {
	if raw == nil {
		return nil
	}
	s := strings.TrimSpace(*raw)
	if s == "" {
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}

// commit date layouts seen across the per-institution sources
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05-07:00",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// CoerceTime parses a raw date value into UTC, returning nil for values that
// match no known layout.
func CoerceTime(raw *string) *time.Time {
	if raw == nil {
		return nil
	}
	s := strings.TrimSpace(*raw)
	if s == "" {
		return nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			t = t.UTC()
			return &t
		}
	}
	return nil
}
