package main

import (
	"fmt"
	"io"

	"github.com/regginator/rainmaker/digest"
	"github.com/regginator/rainmaker/sink"
	"github.com/spf13/pflag"
)

// Log attribute keys
const (
	logKeyRun       = "run"
	logKeyVersion   = "version"
	logKeyErr       = "err"
	logKeyEntries   = "entries"
	logKeyDates     = "dates"
	logKeyPairs     = "pairs"
	logKeyTotal     = "total"
	logKeyFormat    = "format"
	logKeyAlgorithm = "algorithm"
	logKeyPath      = "path"
	logKeyElapsed   = "elapsed"
)

// Config holds every command-line option
type Config struct {
	Entries        []string
	InputFile      string
	Format         string
	Output         string
	Algorithm      string
	SeparatorsFile string
	Length         string
	CompactDedup   bool
	Buffer         int
	Preview        int

	NoBanner bool
	Debug    bool
	Version  bool
	Help     bool
}

// parseFlags binds args into a Config. The returned FlagSet is used to print
// usage.
func parseFlags(args []string, output io.Writer) (*Config, *pflag.FlagSet, error) {
	cfg := &Config{}

	fs := pflag.NewFlagSet("rainmaker", pflag.ContinueOnError)
	fs.SetOutput(output)
	fs.Usage = func() {}

	fs.BoolVarP(&cfg.Help, "help", "h", false, "Print this help menu")

	// input
	fs.StringArrayVarP(&cfg.Entries, "entry", "e", nil, "Entry in the format \"Name: Date1, Date2\", may be repeated")
	fs.StringVarP(&cfg.InputFile, "input", "i", "", "Read entries from a file (.yaml/.yml mapping, .vcf/.vcard address book, otherwise one entry per line)")

	// output
	fs.StringVarP(&cfg.Format, "format", "f", "", "Output format [1|text, 2|json, 3|csv]. Prompted for when omitted on a terminal")
	fs.StringVarP(&cfg.Output, "output", "o", sink.DefaultBaseName, "Output file name, the extension is added from the format")
	fs.StringVarP(&cfg.Algorithm, "algorithm", "a", string(digest.SHA256), "Hash algorithm [sha256, blake3]")

	// generation
	fs.StringVar(&cfg.SeparatorsFile, "separators", "", "File with extra separators, one per line, appended to the built-in set")
	fs.StringVar(&cfg.Length, "length", "", "Only keep combinations whose length is within \"MIN-MAX\" (either side may be omitted)")
	fs.BoolVar(&cfg.CompactDedup, "compact-dedup", false, "Deduplicate on 128-bit fingerprints instead of full strings, saves memory on huge inputs")
	fs.IntVar(&cfg.Buffer, "buffer", digest.DefaultBuffer, "Number of combinations buffered between generation and hashing")
	fs.IntVar(&cfg.Preview, "preview", digest.DefaultPreview, "Number of results shown after the run")

	// misc
	fs.BoolVar(&cfg.NoBanner, "no-banner", false, "Don't print the welcome banner")
	fs.BoolVar(&cfg.Debug, "debug", false, "Enable debug logging")
	fs.BoolVar(&cfg.Version, "version", false, "Print the version and exit")

	fs.SortFlags = false

	if err := fs.Parse(args); err != nil {
		return nil, fs, err
	}

	if fs.NArg() > 0 {
		return nil, fs, fmt.Errorf("unexpected argument %q, entries are given with -e", fs.Arg(0))
	}

	return cfg, fs, nil
}

// validate checks option values that pflag can't check by type
func (cfg *Config) validate() error {
	if cfg.Output == "" {
		return fmt.Errorf("output name (-o) is empty")
	}
	if cfg.Buffer < 1 {
		return fmt.Errorf("buffer size (--buffer) must be at least 1, got %d", cfg.Buffer)
	}
	if cfg.Preview < 0 {
		return fmt.Errorf("preview size (--preview) cannot be negative, got %d", cfg.Preview)
	}
	return nil
}
