package combo

import (
	"errors"
	"fmt"
	"strings"
)

var ErrInvalidDateFormat = errors.New("invalid date format")

// Date holds the raw day, month and year fields of a DD.MM.YYYY token. The
// fields are kept as strings; no calendar validation is performed.
type Date struct {
	Day   string
	Month string
	Year  string
}

// Decompose splits a date token on dots. Exactly three non-empty fields are
// required, otherwise an error wrapping ErrInvalidDateFormat is returned.
func Decompose(token string) (Date, error) {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return Date{}, fmt.Errorf("%w %q: expected DD.MM.YYYY", ErrInvalidDateFormat, token)
	}

	for _, p := range parts {
		if p == "" {
			return Date{}, fmt.Errorf("%w %q: empty field", ErrInvalidDateFormat, token)
		}
	}

	return Date{Day: parts[0], Month: parts[1], Year: parts[2]}, nil
}

func (d Date) component(s Slot) string {
	switch s {
	case SlotDay:
		return d.Day
	case SlotMonth:
		return d.Month
	case SlotYear:
		return d.Year
	}
	return ""
}
