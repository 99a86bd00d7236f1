package main

import (
	"bufio"
	"bytes"
	"context"
	"encoding/csv"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/pterm/pterm"
	"github.com/regginator/rainmaker/combo"
	"github.com/regginator/rainmaker/digest"
	"github.com/regginator/rainmaker/entries"
	"github.com/regginator/rainmaker/sink"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	pterm.DisableOutput()
	os.Exit(m.Run())
}

func reader(s string) *bufio.Reader {
	return bufio.NewReader(strings.NewReader(s))
}

func TestParseFlags_Defaults(t *testing.T) {
	cfg, _, err := parseFlags(nil, io.Discard)
	require.NoError(t, err)

	assert.Empty(t, cfg.Entries)
	assert.Equal(t, sink.DefaultBaseName, cfg.Output)
	assert.Equal(t, string(digest.SHA256), cfg.Algorithm)
	assert.Equal(t, digest.DefaultBuffer, cfg.Buffer)
	assert.Equal(t, digest.DefaultPreview, cfg.Preview)
	assert.False(t, cfg.CompactDedup)
	assert.NoError(t, cfg.validate())
}

func TestParseFlags(t *testing.T) {
	cfg, _, err := parseFlags([]string{
		"-e", "Anna: 15.07.1985",
		"--entry", "Bob: 01.01.2000, 02.02.2002",
		"-f", "json",
		"-o", "out",
		"-a", "blake3",
		"--length", "8-12",
		"--compact-dedup",
		"--buffer", "16",
		"--no-banner",
	}, io.Discard)
	require.NoError(t, err)

	// StringArray keeps the commas inside an entry intact
	assert.Equal(t, []string{"Anna: 15.07.1985", "Bob: 01.01.2000, 02.02.2002"}, cfg.Entries)
	assert.Equal(t, "json", cfg.Format)
	assert.Equal(t, "out", cfg.Output)
	assert.Equal(t, "blake3", cfg.Algorithm)
	assert.Equal(t, "8-12", cfg.Length)
	assert.True(t, cfg.CompactDedup)
	assert.Equal(t, 16, cfg.Buffer)
	assert.True(t, cfg.NoBanner)
}

func TestParseFlags_Errors(t *testing.T) {
	_, _, err := parseFlags([]string{"--nope"}, io.Discard)
	assert.Error(t, err)

	_, _, err = parseFlags([]string{"Anna: 15.07.1985"}, io.Discard)
	assert.ErrorContains(t, err, "unexpected argument")

	_, _, err = parseFlags([]string{"--buffer", "many"}, io.Discard)
	assert.Error(t, err)
}

func TestConfig_Validate(t *testing.T) {
	base := func() *Config {
		cfg, _, err := parseFlags(nil, io.Discard)
		require.NoError(t, err)
		return cfg
	}

	cfg := base()
	cfg.Buffer = 0
	assert.Error(t, cfg.validate())

	cfg = base()
	cfg.Preview = -1
	assert.Error(t, cfg.validate())

	cfg = base()
	cfg.Output = ""
	assert.Error(t, cfg.validate())

	cfg = base()
	cfg.Preview = 0
	assert.NoError(t, cfg.validate())
}

func TestReadLine(t *testing.T) {
	r := reader("first\r\nsecond\nlast")

	for _, want := range []string{"first", "second", "last"} {
		got, err := readLine(r)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	_, err := readLine(r)
	assert.ErrorIs(t, err, io.EOF)
}

func TestReadEntries(t *testing.T) {
	in := "Anna: 10.04.1963, 15.07.1985\nnot an entry\nSorbonne University: 16.08.2001\n\nBob: 01.01.2000\n"

	var out bytes.Buffer
	got, err := readEntries(context.Background(), reader(in), &out, false, quietLogger())
	require.NoError(t, err)

	assert.Equal(t, entries.Entries{
		"Anna":                {"10.04.1963", "15.07.1985"},
		"Sorbonne University": {"16.08.2001"},
	}, got, "reading stops at the first empty line")
	assert.Empty(t, out.String())
}

func TestReadEntries_Prompt(t *testing.T) {
	var out bytes.Buffer
	got, err := readEntries(context.Background(), reader("Anna: 15.07.1985"), &out, true, quietLogger())
	require.NoError(t, err)

	assert.Equal(t, entries.Entries{"Anna": {"15.07.1985"}}, got)
	assert.Contains(t, out.String(), "Leave an empty line to finish.")
	assert.Equal(t, 2, strings.Count(out.String(), "Entry: "))
}

func TestReadEntries_Empty(t *testing.T) {
	got, err := readEntries(context.Background(), reader(""), io.Discard, false, quietLogger())
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestChooseEncoding(t *testing.T) {
	tests := []struct {
		in   string
		want sink.Encoding
	}{
		{"1\n", sink.Tabular},
		{"2\n", sink.JSON},
		{"3\n", sink.CSV},
		{"csv", sink.CSV},
		{"9\n", sink.Tabular},
		{"", sink.Tabular},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			var out bytes.Buffer
			got, err := chooseEncoding(context.Background(), reader(tt.in), &out, quietLogger())
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Contains(t, out.String(), "Enter your choice (1/2/3): ")
		})
	}
}

func TestCollectEntries(t *testing.T) {
	path := filepath.Join(t.TempDir(), "people.yaml")
	require.NoError(t, os.WriteFile(path, []byte("Anna: 10.04.1963\nCarla: [03.03.1993]\n"), 0o600))

	cfg := &Config{
		Entries:   []string{"Anna: 15.07.1985", "broken entry"},
		InputFile: path,
	}

	// stdin isn't touched when entries come from flags
	got, err := collectEntries(context.Background(), cfg, reader("Ignored: 01.01.2000\n"), false, quietLogger())
	require.NoError(t, err)

	assert.Equal(t, entries.Entries{
		"Anna":  {"15.07.1985", "10.04.1963"},
		"Carla": {"03.03.1993"},
	}, got)
}

func TestCollectEntries_Stdin(t *testing.T) {
	got, err := collectEntries(context.Background(), &Config{}, reader("Anna: 15.07.1985\n"), false, quietLogger())
	require.NoError(t, err)
	assert.Equal(t, entries.Entries{"Anna": {"15.07.1985"}}, got)
}

func TestCollectEntries_MissingFile(t *testing.T) {
	cfg := &Config{InputFile: filepath.Join(t.TempDir(), "missing.txt")}

	_, err := collectEntries(context.Background(), cfg, reader(""), false, quietLogger())
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestAppendSeparators(t *testing.T) {
	base := []string{"", "-", "."}
	got := appendSeparators(base, []string{"+", "-", "~", "+"})

	assert.Equal(t, []string{"", "-", ".", "+", "~"}, got)
	assert.Equal(t, []string{"", "-", "."}, base, "base is not modified")
}

func testConfig(t *testing.T, entryLines ...string) *Config {
	t.Helper()

	cfg, _, err := parseFlags(nil, io.Discard)
	require.NoError(t, err)
	cfg.Entries = entryLines
	cfg.Output = filepath.Join(t.TempDir(), "table")
	cfg.NoBanner = true
	return cfg
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestGenerate_WritesCSV(t *testing.T) {
	cfg := testConfig(t, "Anna: 15.07.1985")
	cfg.Format = "3"
	cfg.Buffer = 8

	require.NoError(t, generate(context.Background(), cfg, quietLogger()))

	f, err := os.Open(cfg.Output + ".csv")
	require.NoError(t, err)
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Greater(t, len(records), 1)
	assert.Equal(t, []string{"Combination", "Hash"}, records[0])

	hashes := map[string]string{}
	for _, rec := range records[1:] {
		hashes[rec[0]] = rec[1]
	}
	assert.Len(t, hashes, len(records)-1, "no duplicate combinations")

	for _, want := range []string{"15-07-1985-Anna", "1985.Anna", "ANNA15", "anna1985"} {
		assert.Equal(t, digest.Hex(digest.SHA256, want), hashes[want], want)
	}
}

func TestGenerate_NoCandidates(t *testing.T) {
	cfg := testConfig(t, "Anna: 2024-01-01")
	cfg.Format = "json"

	err := generate(context.Background(), cfg, quietLogger())
	assert.ErrorIs(t, err, combo.ErrNoCandidates)

	_, statErr := os.Stat(cfg.Output + ".json")
	assert.ErrorIs(t, statErr, os.ErrNotExist, "no output file is written")
}

func TestGenerate_BadOptions(t *testing.T) {
	cfg := testConfig(t, "Anna: 15.07.1985")
	cfg.Algorithm = "md5"
	assert.ErrorIs(t, generate(context.Background(), cfg, quietLogger()), digest.ErrUnknownAlgorithm)

	cfg = testConfig(t, "Anna: 15.07.1985")
	cfg.Length = "12-8"
	assert.Error(t, generate(context.Background(), cfg, quietLogger()))

	cfg = testConfig(t, "Anna: 15.07.1985")
	cfg.SeparatorsFile = filepath.Join(t.TempDir(), "missing.txt")
	assert.ErrorIs(t, generate(context.Background(), cfg, quietLogger()), os.ErrNotExist)
}

func TestGenerate_Cancelled(t *testing.T) {
	cfg := testConfig(t, "Anna: 15.07.1985")
	cfg.Format = "text"

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := generate(ctx, cfg, quietLogger())
	assert.ErrorIs(t, err, context.Canceled)

	_, statErr := os.Stat(cfg.Output + sink.Tabular.Ext())
	assert.ErrorIs(t, statErr, os.ErrNotExist, "an interrupted run leaves no output file")
}

func TestReadEntries_CancelledWhileWaiting(t *testing.T) {
	pr, pw := io.Pipe()
	defer pw.Close()

	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(20*time.Millisecond, cancel)

	_, err := readEntries(ctx, bufio.NewReader(pr), io.Discard, true, quietLogger())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestChooseEncoding_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := chooseEncoding(ctx, reader("2\n"), io.Discard, quietLogger())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSavedMessage_KeepsFullPath(t *testing.T) {
	path := filepath.Join(os.TempDir(), "results", "bob.txt")
	assert.Equal(t, "Results have been saved to '"+path+"'.", savedMessage(path))
}

func TestProgressTitle(t *testing.T) {
	assert.Equal(t, "Hashing into rainbow_table.csv", progressTitle(filepath.Join("out", "rainbow_table.csv")))

	long := strings.Repeat("x", 100) + ".json"
	title := strings.TrimPrefix(progressTitle(long), "Hashing into ")
	assert.Equal(t, progressTitleRunes, utf8.RuneCountInString(title))
	assert.True(t, strings.HasSuffix(title, "…"), title)
}
