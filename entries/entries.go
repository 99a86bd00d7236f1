// Package entries collects names and their associated dates from entry
// lines, YAML documents or vCard address books.
package entries

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

var ErrMalformedLine = errors.New("invalid format, use: Name: Date1, Date2")

// Entries maps a name to its raw date tokens, in input order
type Entries map[string][]string

// Add appends dates to name, creating the entry if needed. A name given
// twice keeps the dates from both.
func (e Entries) Add(name string, dates ...string) {
	e[name] = append(e[name], dates...)
}

// Merge adds every entry of other to e
func (e Entries) Merge(other Entries) {
	for name, dates := range other {
		e.Add(name, dates...)
	}
}

// Dates returns the total number of date tokens over all names
func (e Entries) Dates() int {
	n := 0
	for _, dates := range e {
		n += len(dates)
	}
	return n
}

// LineError reports a skipped input line
type LineError struct {
	Line int
	Text string
	Err  error
}

func (le *LineError) Error() string {
	return fmt.Sprintf("line %d %q: %s", le.Line, le.Text, le.Err)
}

func (le *LineError) Unwrap() error { return le.Err }

// ParseLine parses "Name: Date1, Date2". The line must contain exactly one
// colon. Surrounding whitespace is trimmed and empty date tokens dropped.
func ParseLine(line string) (name string, dates []string, err error) {
	if strings.Count(line, ":") != 1 {
		return "", nil, ErrMalformedLine
	}

	name, rest, _ := strings.Cut(line, ":")
	for _, d := range strings.Split(rest, ",") {
		if d = strings.TrimSpace(d); d != "" {
			dates = append(dates, d)
		}
	}

	return strings.TrimSpace(name), dates, nil
}

// Parse reads entry lines until EOF. Blank lines and lines starting with #
// are ignored; malformed lines are returned as *LineError values and do not
// stop the read.
func Parse(r io.Reader) (Entries, []error, error) {
	out := Entries{}
	var skipped []error

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		name, dates, err := ParseLine(line)
		if err != nil {
			skipped = append(skipped, &LineError{Line: lineNo, Text: line, Err: err})
			continue
		}
		out.Add(name, dates...)
	}

	if err := scanner.Err(); err != nil {
		return nil, skipped, fmt.Errorf("read entries: %w", err)
	}

	return out, skipped, nil
}

// LoadFile picks a parser from the file extension: .yaml/.yml, .vcf/.vcard,
// anything else is read as entry lines
func LoadFile(path string) (Entries, []error, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open entries: %w", err)
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		e, err := ParseYAML(f)
		return e, nil, err
	case ".vcf", ".vcard":
		return ParseVCard(f)
	}
	return Parse(f)
}
