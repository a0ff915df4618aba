package archive

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	ErrInvalidYear  = errors.New("please enter a valid 4-digit year")
	ErrInvalidMonth = errors.New("please enter a valid month (01-12)")
)

// Period identifies one monthly archive listing.
type Period struct {
	Year  string
	Month string
}

func (p Period) String() string {
	return p.Year + "/" + p.Month
}

// ParsePeriod validates both parts of a period and normalizes the month.
func ParsePeriod(year, month string) (Period, error) {
	y, err := ParseYear(year)
	if err != nil {
		return Period{}, err
	}
	m, err := ParseMonth(month)
	if err != nil {
		return Period{}, err
	}
	return Period{Year: y, Month: m}, nil
}

// ParseYear accepts exactly four ASCII digits.
func ParseYear(s string) (string, error) {
	s = strings.TrimSpace(s)
	if len(s) != 4 || !isDigits(s) {
		return "", fmt.Errorf("%w: %q", ErrInvalidYear, s)
	}
	return s, nil
}

// ParseMonth accepts 1..12 with optional leading zeros and returns it
// zero-padded to two digits.
func ParseMonth(s string) (string, error) {
	s = strings.TrimSpace(s)
	if !isDigits(s) {
		return "", fmt.Errorf("%w: %q", ErrInvalidMonth, s)
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 || n > 12 {
		return "", fmt.Errorf("%w: %q", ErrInvalidMonth, s)
	}
	return fmt.Sprintf("%02d", n), nil
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
