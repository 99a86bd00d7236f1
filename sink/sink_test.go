package sink

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/regginator/rainmaker/digest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var samplePairs = []digest.Pair{
	{Candidate: "15-07-1985-Anna", Hash: digest.Hex(digest.SHA256, "15-07-1985-Anna")},
	{Candidate: "Smith, John!1985", Hash: digest.Hex(digest.SHA256, "Smith, John!1985")},
	{Candidate: `say "hi" & <bye>`, Hash: digest.Hex(digest.SHA256, `say "hi" & <bye>`)},
	{Candidate: `a|b\c`, Hash: digest.Hex(digest.SHA256, `a|b\c`)},
}

func encode(t *testing.T, enc Encoding, pairs []digest.Pair) string {
	t.Helper()

	var buf bytes.Buffer
	w, err := New(&buf, enc)
	require.NoError(t, err)
	for _, p := range pairs {
		require.NoError(t, w.WritePair(p))
	}
	require.NoError(t, w.Close())
	return buf.String()
}

func TestParseEncoding(t *testing.T) {
	tests := []struct {
		choice string
		want   Encoding
		ok     bool
	}{
		{"1", Tabular, true},
		{"2", JSON, true},
		{"3", CSV, true},
		{" json ", JSON, true},
		{"CSV", CSV, true},
		{"text", Tabular, true},
		{"4", Tabular, false},
		{"", Tabular, false},
		{"xml", Tabular, false},
	}

	for _, tt := range tests {
		t.Run(tt.choice, func(t *testing.T) {
			got, ok := ParseEncoding(tt.choice)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.ok, ok)
		})
	}
}

func TestEncoding_Ext(t *testing.T) {
	assert.Equal(t, ".txt", Tabular.Ext())
	assert.Equal(t, ".json", JSON.Ext())
	assert.Equal(t, ".csv", CSV.Ext())
	assert.Equal(t, ".txt", Encoding(0).Ext())
}

func TestTabular_Layout(t *testing.T) {
	out := encode(t, Tabular, samplePairs[:1])
	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	require.Len(t, lines, 3)

	assert.Equal(t, "Combination"+strings.Repeat(" ", 29)+" | Hash"+strings.Repeat(" ", 60), lines[0])
	assert.Equal(t, strings.Repeat("-", 105), lines[1])
	assert.Equal(t, "15-07-1985-Anna"+strings.Repeat(" ", 25)+" | "+samplePairs[0].Hash, lines[2])
}

func TestTabular_EscapesDelimiter(t *testing.T) {
	out := encode(t, Tabular, samplePairs[3:])
	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	require.Len(t, lines, 3)

	row := lines[2]
	assert.True(t, strings.HasPrefix(row, `a\|b\\c `), row)
	assert.Equal(t, 1, strings.Count(row, " | "), "exactly one unescaped column delimiter")
}

func TestEscapeCell(t *testing.T) {
	tests := map[string]string{
		"plain":  "plain",
		"a|b":    `a\|b`,
		`a\b`:    `a\\b`,
		"tab\tx": `tab\tx`,
		"nl\nx":  `nl\nx`,
	}
	for in, want := range tests {
		assert.Equal(t, want, escapeCell(in), "escapeCell(%q)", in)
	}
}

func TestJSON_RoundTrip(t *testing.T) {
	out := encode(t, JSON, samplePairs)

	var got []digest.Pair
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, samplePairs, got)

	assert.True(t, strings.HasPrefix(out, "[\n    {\n        \"combination\": \"15-07-1985-Anna\",\n"), out)
	assert.Contains(t, out, `& <bye>`, "HTML characters are not escaped")
}

func TestJSON_Empty(t *testing.T) {
	out := encode(t, JSON, nil)

	var got []digest.Pair
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Empty(t, got)
}

func TestCSV_RoundTrip(t *testing.T) {
	out := encode(t, CSV, samplePairs)

	records, err := csv.NewReader(strings.NewReader(out)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, len(samplePairs)+1)

	assert.Equal(t, []string{"Combination", "Hash"}, records[0])
	for i, p := range samplePairs {
		assert.Equal(t, []string{p.Candidate, p.Hash}, records[i+1])
	}
	assert.Contains(t, out, `"Smith, John!1985"`, "embedded delimiter must be quoted")
}

func TestCreate(t *testing.T) {
	base := filepath.Join(t.TempDir(), DefaultBaseName)

	for _, enc := range []Encoding{Tabular, JSON, CSV} {
		t.Run(enc.String(), func(t *testing.T) {
			w, path, err := Create(base, enc)
			require.NoError(t, err)
			assert.Equal(t, base+enc.Ext(), path)

			for _, p := range samplePairs {
				require.NoError(t, w.WritePair(p))
			}
			require.NoError(t, w.Close())

			data, err := os.ReadFile(path)
			require.NoError(t, err)
			assert.Contains(t, string(data), samplePairs[0].Hash)
		})
	}
}

func TestCreate_BadDirectory(t *testing.T) {
	base := filepath.Join(t.TempDir(), "missing", "dir", "out")

	_, _, err := Create(base, CSV)
	assert.ErrorIs(t, err, os.ErrNotExist)
}
