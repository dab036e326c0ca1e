package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	MinYear = 2000
	MaxYear = 2100
)

var monthNamesPT = [...]string{
	"Janeiro", "Fevereiro", "Março", "Abril", "Maio", "Junho",
	"Julho", "Agosto", "Setembro", "Outubro", "Novembro", "Dezembro",
}

// MonthKey identifies a calendar month. It is the structured form of the
// "M/YYYY" archive key; the string form only exists at the storage and
// API boundary.
type MonthKey struct {
	Year  int `json:"year"`
	Month int `json:"month"`
}

// NewMonthKey validates and builds a MonthKey
func NewMonthKey(year, month int) (MonthKey, error) {
	k := MonthKey{Year: year, Month: month}
	if !k.Valid() {
		return MonthKey{}, ErrInvalidMonthKey
	}
	return k, nil
}

// MonthKeyOf returns the key of the month containing t
func MonthKeyOf(t time.Time) MonthKey {
	return MonthKey{Year: t.Year(), Month: int(t.Month())}
}

// ParseMonthKey parses "M/YYYY" (zero-padded months are accepted too)
func ParseMonthKey(s string) (MonthKey, error) {
	parts := strings.Split(strings.TrimSpace(s), "/")
	if len(parts) != 2 {
		return MonthKey{}, ErrInvalidMonthKey
	}
	month, err := strconv.Atoi(parts[0])
	if err != nil {
		return MonthKey{}, ErrInvalidMonthKey
	}
	year, err := strconv.Atoi(parts[1])
	if err != nil || len(parts[1]) != 4 {
		return MonthKey{}, ErrInvalidMonthKey
	}
	return NewMonthKey(year, month)
}

// Valid reports whether the key is inside the supported range
func (k MonthKey) Valid() bool {
	return k.Month >= 1 && k.Month <= 12 && k.Year >= MinYear && k.Year <= MaxYear
}

// String renders the unpadded archive key, e.g. "3/2024"
func (k MonthKey) String() string {
	return fmt.Sprintf("%d/%d", k.Month, k.Year)
}

// Label renders the human label used on archives, e.g. "Março 2024"
func (k MonthKey) Label() string {
	if k.Month < 1 || k.Month > 12 {
		return k.String()
	}
	return fmt.Sprintf("%s %d", monthNamesPT[k.Month-1], k.Year)
}

// Before orders keys chronologically
func (k MonthKey) Before(other MonthKey) bool {
	if k.Year != other.Year {
		return k.Year < other.Year
	}
	return k.Month < other.Month
}

// Previous returns the key of the preceding month
func (k MonthKey) Previous() MonthKey {
	if k.Month == 1 {
		return MonthKey{Year: k.Year - 1, Month: 12}
	}
	return MonthKey{Year: k.Year, Month: k.Month - 1}
}

// Bounds returns the first and last calendar day of the month (UTC midnight)
func (k MonthKey) Bounds() (time.Time, time.Time) {
	start := time.Date(k.Year, time.Month(k.Month), 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, -1)
}

// Contains reports whether the calendar day of t falls inside the closed
// interval [first day, last day] of the month
func (k MonthKey) Contains(t time.Time) bool {
	start, end := k.Bounds()
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return !day.Before(start) && !day.After(end)
}
