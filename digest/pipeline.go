package digest

import (
	"context"
	"fmt"
	"iter"
	"time"
)

const (
	DefaultBuffer  = 1024
	DefaultPreview = 10
)

// Source is what the pipeline consumes. The count must agree with the number
// of values the candidates iterator yields; it is only used for progress
// reporting. Both stop early with ctx.
type Source interface {
	CountContext(ctx context.Context) (uint64, error)
	CandidatesContext(ctx context.Context) iter.Seq[string]
}

// PairWriter receives every hashed pair, in order, from a single goroutine
type PairWriter interface {
	WritePair(Pair) error
}

// Progress is reported after each digest
type Progress struct {
	Done    uint64
	Total   uint64
	Percent int // Done*100/Total, truncated
}

type Config struct {
	Algorithm Algorithm

	// Capacity of the channel between the generator and the hasher
	Buffer int

	// Number of leading pairs kept in Stats.Preview
	Preview int

	OnProgress func(Progress)
}

type Stats struct {
	Total   uint64
	Hashed  uint64
	Elapsed time.Duration
	Preview []Pair
}

// Run generates candidates on one goroutine and hashes them on the calling
// goroutine, connected by a bounded channel so generation can never run
// further ahead than Buffer candidates. Pairs reach w in generation order.
func Run(ctx context.Context, src Source, w PairWriter, cfg Config) (Stats, error) {
	if cfg.Buffer <= 0 {
		cfg.Buffer = DefaultBuffer
	}
	if cfg.Preview < 0 {
		cfg.Preview = 0
	}

	total, err := src.CountContext(ctx)
	if err != nil {
		return Stats{}, err
	}
	stats := Stats{Total: total}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	candidates := make(chan string, cfg.Buffer)
	go func() {
		defer close(candidates)
		for c := range src.CandidatesContext(ctx) {
			if ctx.Err() != nil {
				return
			}
			select {
			case <-ctx.Done():
				return
			case candidates <- c:
			}
		}
	}()

	start := time.Now()
	for c := range candidates {
		if ctx.Err() != nil {
			break
		}

		pair := Pair{Candidate: c, Hash: Hex(cfg.Algorithm, c)}
		if err := w.WritePair(pair); err != nil {
			stats.Elapsed = time.Since(start)
			return stats, fmt.Errorf("write pair %d: %w", stats.Hashed+1, err)
		}

		stats.Hashed++
		if len(stats.Preview) < cfg.Preview {
			stats.Preview = append(stats.Preview, pair)
		}

		if cfg.OnProgress != nil && stats.Total > 0 {
			cfg.OnProgress(Progress{
				Done:    stats.Hashed,
				Total:   stats.Total,
				Percent: int(stats.Hashed * 100 / stats.Total),
			})
		}
	}
	stats.Elapsed = time.Since(start)

	if stats.Hashed < stats.Total {
		if err := ctx.Err(); err != nil {
			return stats, err
		}
	}

	return stats, nil
}
