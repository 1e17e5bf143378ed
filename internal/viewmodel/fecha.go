// Package viewmodel turns stored rows into the response DTOs the API returns.
// Mappers never fail: missing optional values become "" and dates that cannot
// be parsed are dropped.
package viewmodel

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

const formatoFecha = "2006-01-02"

// layouts accepted for date-like input, most specific first.
var layouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05-07",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	formatoFecha,
	"02/01/2006",
}

var ErrFechaInvalida = errors.New("fecha invalida")

// ParseFecha parses raw with the accepted layouts and keeps only the calendar
// date as written, ignoring the time of day and the zone.
func ParseFecha(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, ErrFechaInvalida
	}
	for _, l := range layouts {
		if t, err := time.Parse(l, raw); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
		}
	}
	return time.Time{}, ErrFechaInvalida
}

// SoloFecha returns raw as YYYY-MM-DD for date inputs, or "" when it
// cannot be parsed.
func SoloFecha(raw string) string {
	t, err := ParseFecha(raw)
	if err != nil {
		return ""
	}
	return t.Format(formatoFecha)
}

// Fecha formats an optional stored date.
func Fecha(t *time.Time) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return t.Format(formatoFecha)
}

// Texto defaults an absent optional field to "".
func Texto(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func idPtr(id *uuid.UUID) *string {
	if id == nil {
		return nil
	}
	s := id.String()
	return &s
}
