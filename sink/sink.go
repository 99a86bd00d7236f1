// Package sink writes (candidate, digest) pairs to a file in one of three
// encodings. Pairs are streamed; nothing is buffered beyond the writer.
package sink

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"unicode"

	"github.com/regginator/rainmaker/digest"
)

// DefaultBaseName is the output file name before the encoding extension
const DefaultBaseName = "rainbow_table"

// Encoding selects the output layout
type Encoding int

const (
	Tabular Encoding = iota + 1
	JSON
	CSV
)

func (e Encoding) String() string {
	switch e {
	case JSON:
		return "json"
	case CSV:
		return "csv"
	}
	return "tabular"
}

// Ext returns the file extension including the dot
func (e Encoding) Ext() string {
	switch e {
	case JSON:
		return ".json"
	case CSV:
		return ".csv"
	}
	return ".txt"
}

// ParseEncoding maps a menu number or a name to an Encoding. Unrecognized
// input yields Tabular and ok=false so the caller can say it fell back.
func ParseEncoding(choice string) (enc Encoding, ok bool) {
	switch strings.ToLower(strings.TrimSpace(choice)) {
	case "1", "tabular", "text", "txt", "table":
		return Tabular, true
	case "2", "json":
		return JSON, true
	case "3", "csv":
		return CSV, true
	}
	return Tabular, false
}

// Writer accepts pairs and finalizes the encoding on Close
type Writer interface {
	WritePair(digest.Pair) error
	Close() error
}

type encoder interface {
	Writer
	header() error
}

// New writes the encoding's header to w and returns a Writer for it. Close
// flushes but does not close w.
func New(w io.Writer, enc Encoding) (Writer, error) {
	bw := bufio.NewWriter(w)

	var out encoder
	switch enc {
	case JSON:
		out = &jsonWriter{w: bw}
	case CSV:
		out = &csvWriter{w: csv.NewWriter(bw), flush: bw}
	default:
		out = &tabularWriter{w: bw}
	}

	if err := out.header(); err != nil {
		return nil, fmt.Errorf("write %s header: %w", enc, err)
	}
	return out, nil
}

// Create opens base+ext for writing and returns the Writer and the path.
// Closing the Writer closes the file.
func Create(base string, enc Encoding) (Writer, string, error) {
	if base == "" {
		base = DefaultBaseName
	}
	path := base + enc.Ext()

	f, err := os.Create(path)
	if err != nil {
		return nil, path, fmt.Errorf("create output: %w", err)
	}

	w, err := New(f, enc)
	if err != nil {
		_ = f.Close()
		return nil, path, err
	}

	return &fileWriter{Writer: w, f: f}, path, nil
}

type fileWriter struct {
	Writer
	f *os.File
}

func (fw *fileWriter) Close() error {
	err := fw.Writer.Close()
	if cerr := fw.f.Close(); err == nil && cerr != nil {
		err = fmt.Errorf("close output: %w", cerr)
	}
	return err
}

// Tabular

const (
	plaintextWidth = 40
	hashWidth      = 64
	ruleWidth      = 105
)

type tabularWriter struct {
	w *bufio.Writer
}

func (t *tabularWriter) header() error {
	if _, err := fmt.Fprintf(t.w, "%-*s | %-*s\n", plaintextWidth, "Combination", hashWidth, "Hash"); err != nil {
		return err
	}
	_, err := t.w.WriteString(strings.Repeat("-", ruleWidth) + "\n")
	return err
}

func (t *tabularWriter) WritePair(p digest.Pair) error {
	_, err := fmt.Fprintf(t.w, "%-*s | %-*s\n", plaintextWidth, escapeCell(p.Candidate), hashWidth, p.Hash)
	return err
}

func (t *tabularWriter) Close() error {
	return t.w.Flush()
}

// escapeCell keeps a candidate on one line and inside its column: the
// column delimiter and the escape character are backslash-escaped, control
// characters are written as Go escapes
func escapeCell(s string) string {
	if !strings.ContainsAny(s, `|\`) && strings.IndexFunc(s, unicode.IsControl) < 0 {
		return s
	}

	var b strings.Builder
	for _, r := range s {
		switch {
		case r == '|' || r == '\\':
			b.WriteByte('\\')
			b.WriteRune(r)
		case unicode.IsControl(r):
			q := strconv.QuoteRune(r)
			b.WriteString(q[1 : len(q)-1])
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// JSON, a list of {"combination", "hash"} records

type jsonWriter struct {
	w     *bufio.Writer
	count int
}

func (j *jsonWriter) header() error {
	_, err := j.w.WriteString("[")
	return err
}

func (j *jsonWriter) WritePair(p digest.Pair) error {
	var buf strings.Builder
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("    ", "    ")
	if err := enc.Encode(p); err != nil {
		return err
	}

	sep := ",\n    "
	if j.count == 0 {
		sep = "\n    "
	}
	j.count++

	_, err := j.w.WriteString(sep + strings.TrimSuffix(buf.String(), "\n"))
	return err
}

func (j *jsonWriter) Close() error {
	closing := "]\n"
	if j.count > 0 {
		closing = "\n]\n"
	}
	if _, err := j.w.WriteString(closing); err != nil {
		return err
	}
	return j.w.Flush()
}

// CSV, RFC 4180 quoting

type csvWriter struct {
	w     *csv.Writer
	flush *bufio.Writer
}

func (c *csvWriter) header() error {
	return c.w.Write([]string{"Combination", "Hash"})
}

func (c *csvWriter) WritePair(p digest.Pair) error {
	return c.w.Write([]string{p.Candidate, p.Hash})
}

func (c *csvWriter) Close() error {
	c.w.Flush()
	if err := c.w.Error(); err != nil {
		return err
	}
	return c.flush.Flush()
}
