package entries

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/emersion/go-vcard"
)

var (
	ErrYearlessBirthday = errors.New("birthday has no year")
	ErrBirthdayFormat   = errors.New("unable to parse birthday")
)

// vCard BDAY layouts that carry a year
var bdayLayouts = []string{
	"2006-01-02",
	"20060102",
	time.RFC3339,
	"2006-01-02T15:04:05Z",
}

// vCard 4 truncated layouts (--MM-DD), no year to build candidates from
var yearlessLayouts = []string{"--01-02", "--0102"}

// ParseVCard takes the formatted name (or the structured name) and the
// birthday of every card. Cards without a birthday are ignored silently;
// birthdays that cannot be turned into DD.MM.YYYY are reported and skipped.
func ParseVCard(r io.Reader) (Entries, []error, error) {
	out := Entries{}
	var skipped []error

	dec := vcard.NewDecoder(r)
	for {
		card, err := dec.Decode()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, skipped, fmt.Errorf("decode vcard: %w", err)
		}

		bday := card.Get(vcard.FieldBirthday)
		if bday == nil || bday.Value == "" {
			continue
		}

		name := cardName(card)
		token, err := birthdayToken(bday.Value)
		if err != nil {
			skipped = append(skipped, fmt.Errorf("%s: %w", name, err))
			continue
		}

		out.Add(name, token)
	}

	return out, skipped, nil
}

func cardName(card vcard.Card) string {
	if fn := strings.TrimSpace(card.PreferredValue(vcard.FieldFormattedName)); fn != "" {
		return fn
	}
	if n := card.Name(); n != nil {
		if full := strings.TrimSpace(n.GivenName + " " + n.FamilyName); full != "" {
			return full
		}
	}
	return "Unknown"
}

// birthdayToken converts a vCard BDAY value to a DD.MM.YYYY token
func birthdayToken(value string) (string, error) {
	value = strings.TrimSpace(value)

	for _, layout := range bdayLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.Format("02.01.2006"), nil
		}
	}

	for _, layout := range yearlessLayouts {
		if _, err := time.Parse(layout, value); err == nil {
			return "", fmt.Errorf("%w: %q", ErrYearlessBirthday, value)
		}
	}

	return "", fmt.Errorf("%w: %q", ErrBirthdayFormat, value)
}
