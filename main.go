package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"slices"
	"strings"
	"syscall"

	_ "embed"

	"github.com/pterm/pterm"
	"github.com/regginator/rainmaker/combo"
	"github.com/regginator/rainmaker/digest"
	"github.com/regginator/rainmaker/entries"
	"github.com/regginator/rainmaker/sink"
	"github.com/regginator/rainmaker/util"
	"github.com/spf13/pflag"
	"golang.org/x/term"
)

//go:embed VERSION
var rainmakerVersion string

func usage(fs *pflag.FlagSet) {
	fmt.Fprintf(os.Stderr, "USAGE: %s [OPTION]...\n", os.Args[0])
	fs.PrintDefaults()
}

func main() {
	os.Exit(run())
}

func run() int {
	cfg, fs, err := parseFlags(os.Args[1:], os.Stderr)
	if err != nil {
		pterm.Error.Printf("%s\n", err)
		fmt.Println()
		usage(fs)
		return 1
	}

	if cfg.Help {
		usage(fs)
		return 0
	}

	if cfg.Version {
		fmt.Printf("rainmaker v%s\n", strings.TrimSpace(rainmakerVersion))
		return 0
	}

	logger := setupLogging(os.Stderr, cfg.Debug)
	logger.Debug("starting", logKeyVersion, strings.TrimSpace(rainmakerVersion))

	if err := cfg.validate(); err != nil {
		pterm.Error.Printf("%s\n", err)
		return 1
	}

	if !cfg.NoBanner {
		printBanner()
	}

	// Ctrl+C cancels every stage from the entry prompt on. The progress bar is
	// stopped on the way out so pterm's ANSI state doesn't leak into the shell
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := generate(ctx, cfg, logger); err != nil {
		switch {
		case errors.Is(err, combo.ErrNoCandidates):
			pterm.Info.Println("No combinations created. Exiting the program.")
			return 0
		case errors.Is(err, context.Canceled):
			pterm.Warning.Println("Interrupted, no results were saved")
			return 1
		}

		pterm.Error.Printf("%s\n", err)
		logger.Debug("run failed", logKeyErr, err)
		return 1
	}

	return 0
}

// generate runs one whole session: collect entries, enumerate, hash, save
func generate(ctx context.Context, cfg *Config, logger *slog.Logger) error {
	alg, err := digest.ParseAlgorithm(cfg.Algorithm)
	if err != nil {
		return fmt.Errorf("algorithm (-a): %w", err)
	}

	opts := combo.DefaultOptions()
	opts.Logger = logger
	if cfg.CompactDedup {
		opts.Dedup = combo.DedupCompact
	}

	if cfg.Length != "" {
		opts.MinLen, opts.MaxLen, err = util.ParseNumRange(cfg.Length)
		if err != nil {
			return fmt.Errorf("failed to parse length range (--length): %w", err)
		}
	}

	if cfg.SeparatorsFile != "" {
		extra, err := util.ReadLines(cfg.SeparatorsFile)
		if err != nil {
			return fmt.Errorf("failed to read separators file: %w", err)
		}
		opts.Separators = appendSeparators(opts.Separators, extra)
	}

	stdin := bufio.NewReader(os.Stdin)
	interactive := term.IsTerminal(int(os.Stdin.Fd()))

	collected, err := collectEntries(ctx, cfg, stdin, interactive, logger)
	if err != nil {
		return err
	}
	logger.Debug("entries collected", logKeyEntries, len(collected), logKeyDates, collected.Dates())

	enum, err := combo.New(collected, opts)
	if err != nil {
		return err
	}
	for _, skipped := range enum.Skipped() {
		pterm.Warning.Printf("%s\n", skipped)
	}

	fmt.Println()
	spinner, _ := pterm.DefaultSpinner.Start("Generating combinations...")
	total, err := enum.CountContext(ctx)
	if spinner != nil {
		_ = spinner.Stop()
	}
	if err != nil {
		return err
	}

	if total == 0 {
		return combo.ErrNoCandidates
	}
	pterm.Info.Printf("%d combinations were generated.\n", total)
	logger.Debug("enumeration ready", logKeyPairs, enum.Pairs(), logKeyTotal, total)

	var enc sink.Encoding
	switch {
	case cfg.Format != "":
		enc = resolveEncoding(cfg.Format, logger)
	case interactive:
		enc, err = chooseEncoding(ctx, stdin, os.Stdout, logger)
		if err != nil {
			return err
		}
	default:
		enc = sink.Tabular
	}

	// No file is created for a run that was already interrupted
	if err := ctx.Err(); err != nil {
		return err
	}

	w, path, err := sink.Create(cfg.Output, enc)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	logger.Debug("writing results", logKeyFormat, enc, logKeyAlgorithm, alg, logKeyPath, path)

	fmt.Println()
	progressBar, _ := pterm.DefaultProgressbar.WithTotal(100).WithTitle(progressTitle(path)).WithShowCount(false).WithShowElapsedTime(true).WithShowPercentage(true).Start()

	lastPercent := 0
	stats, runErr := digest.Run(ctx, enum, w, digest.Config{
		Algorithm: alg,
		Buffer:    cfg.Buffer,
		Preview:   cfg.Preview,
		OnProgress: func(p digest.Progress) {
			if progressBar != nil && p.Percent > lastPercent {
				progressBar.Add(p.Percent - lastPercent)
			}
			lastPercent = p.Percent
		},
	})

	if progressBar != nil {
		_, _ = progressBar.Stop()
	}

	closeErr := w.Close()
	if runErr != nil {
		// Incomplete output is not kept
		if rmErr := os.Remove(path); rmErr != nil {
			logger.Debug("removing incomplete output", logKeyPath, path, logKeyErr, rmErr)
		}
		return runErr
	}
	if closeErr != nil {
		return fmt.Errorf("failed to save results: %w", closeErr)
	}

	logger.Debug("run finished", logKeyTotal, stats.Hashed, logKeyElapsed, stats.Elapsed)
	printSummary(stats, path)

	return nil
}

// collectEntries merges -e entries and the -i file. When neither gives any
// entry they are read from stdin instead.
func collectEntries(ctx context.Context, cfg *Config, stdin *bufio.Reader, interactive bool, logger *slog.Logger) (entries.Entries, error) {
	collected := entries.Entries{}

	for _, line := range cfg.Entries {
		name, dates, err := entries.ParseLine(line)
		if err != nil {
			pterm.Warning.Printf("entry (-e) %q: %s\n", line, err)
			continue
		}
		collected.Add(name, dates...)
	}

	if cfg.InputFile != "" {
		fromFile, skipped, err := entries.LoadFile(cfg.InputFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read input file: %w", err)
		}
		for _, err := range skipped {
			pterm.Warning.Printf("%s: %s\n", cfg.InputFile, err)
		}
		collected.Merge(fromFile)
	}

	if len(cfg.Entries) != 0 || cfg.InputFile != "" {
		return collected, nil
	}

	return readEntries(ctx, stdin, os.Stdout, interactive, logger)
}

// appendSeparators adds extra separators after base, skipping repeats
func appendSeparators(base, extra []string) []string {
	out := slices.Clone(base)
	for _, sep := range extra {
		if !slices.Contains(out, sep) {
			out = append(out, sep)
		}
	}
	return out
}
