package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/pterm/pterm"
	"github.com/regginator/rainmaker/entries"
	"github.com/regginator/rainmaker/sink"
)

const formatMenu = `Choose output format:
1: Tabular (plain text)
2: JSON
3: CSV
`

// readLine returns one line without its line ending. A final line without a
// newline is returned with a nil error; io.EOF is only returned once nothing
// is left.
func readLine(r *bufio.Reader) (string, error) {
	line, err := r.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// readLineContext is readLine that gives up when ctx is done. The blocked
// read is left behind; it only matters to a process that is about to exit.
func readLineContext(ctx context.Context, r *bufio.Reader) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	type result struct {
		line string
		err  error
	}

	done := make(chan result, 1)
	go func() {
		line, err := readLine(r)
		done <- result{line, err}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res := <-done:
		return res.line, res.err
	}
}

// readEntries reads "Name: Date1, Date2" lines until an empty line or EOF.
// Malformed lines are reported and skipped. The instructions and the per
// line prompt are only written when prompt is set.
func readEntries(ctx context.Context, r *bufio.Reader, out io.Writer, prompt bool, logger *slog.Logger) (entries.Entries, error) {
	if prompt {
		fmt.Fprintln(out, "\nPlease enter names (persons, places...etc) and their associated dates")
		fmt.Fprintln(out, "(e.g., Anna: 10.04.1963, 15.07.1985 or Sorbonne University: 16.08.2001):")
		fmt.Fprintln(out, "\nEnter one name per line. Leave an empty line to finish.")
	}

	got := entries.Entries{}
	for {
		if prompt {
			fmt.Fprint(out, "Entry: ")
		}

		line, err := readLineContext(ctx, r)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read entry: %w", err)
		}

		line = strings.TrimSpace(line)
		if line == "" {
			break
		}

		name, dates, err := entries.ParseLine(line)
		if err != nil {
			pterm.Warning.Printf("%s\n", err)
			logger.Debug("skipping entry", "line", line, logKeyErr, err)
			continue
		}
		got.Add(name, dates...)
	}

	return got, nil
}

// chooseEncoding asks for the output format. Anything that isn't a known
// choice falls back to tabular.
func chooseEncoding(ctx context.Context, r *bufio.Reader, out io.Writer, logger *slog.Logger) (sink.Encoding, error) {
	fmt.Fprint(out, "\n"+formatMenu)
	fmt.Fprint(out, "Enter your choice (1/2/3): ")

	choice, err := readLineContext(ctx, r)
	if err != nil && !errors.Is(err, io.EOF) {
		return sink.Tabular, fmt.Errorf("read format choice: %w", err)
	}

	return resolveEncoding(choice, logger), nil
}

// resolveEncoding maps a format choice to an encoding, warning on fallback
func resolveEncoding(choice string, logger *slog.Logger) sink.Encoding {
	enc, ok := sink.ParseEncoding(choice)
	if !ok {
		pterm.Warning.Println("Invalid choice. Saving as default tabular format.")
		logger.Debug("unknown format choice", logKeyFormat, choice)
	}
	return enc
}
