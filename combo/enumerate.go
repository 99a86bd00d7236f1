// Package combo turns names and dates into password candidates by crossing
// name variants, date components and separators.
package combo

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"log/slog"
	"maps"
	"slices"
	"strings"
	"unicode/utf8"
)

var (
	ErrNoCandidates   = errors.New("no combinations created")
	ErrTemplateArity  = errors.New("template needs more separators than its tier provides")
	ErrEmptyTemplates = errors.New("tier has no templates")
)

// Options configures an Enumerator. The zero value of any field falls back to
// the defaults from DefaultOptions.
type Options struct {
	Separators []string
	Tiers      []Tier
	Leet       []LeetRule
	Dedup      DedupMode

	// Rune length bounds for emitted candidates, 0 means unbounded
	MinLen int
	MaxLen int

	Logger *slog.Logger
}

func DefaultOptions() Options {
	return Options{
		Separators: DefaultSeparators,
		Tiers:      DefaultTiers,
		Leet:       DefaultLeet,
		Dedup:      DedupExact,
	}
}

// job is one decomposed (name, date) pair with its name variants
type job struct {
	name     string
	date     Date
	variants []string
}

// Enumerator yields the deduplicated candidate set for a group of entries.
// Generation is lazy: candidates are produced while they are consumed.
type Enumerator struct {
	opts    Options
	jobs    []job
	skipped []error

	// So we only walk the whole space once for the total
	counted     bool
	cachedCount uint64
}

// New decomposes every date and expands every name up front. Dates that fail
// to decompose are skipped and reported through Skipped; they never abort
// the remaining dates or entries.
func New(entries map[string][]string, opts Options) (*Enumerator, error) {
	def := DefaultOptions()
	if opts.Separators == nil {
		opts.Separators = def.Separators
	}
	if len(opts.Separators) == 0 {
		opts.Separators = []string{""}
	}
	if opts.Tiers == nil {
		opts.Tiers = def.Tiers
	}
	if opts.Leet == nil {
		opts.Leet = def.Leet
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	for _, tier := range opts.Tiers {
		if len(tier.Templates) == 0 {
			return nil, fmt.Errorf("tier %q: %w", tier.Name, ErrEmptyTemplates)
		}
		for _, t := range tier.Templates {
			if len(t)-1 > tier.Arity {
				return nil, fmt.Errorf("tier %q: %w", tier.Name, ErrTemplateArity)
			}
		}
	}

	e := &Enumerator{opts: opts}

	// Sorted so the emitted sequence is the same on every run
	for _, name := range slices.Sorted(maps.Keys(entries)) {
		var variants []string
		for _, token := range entries[name] {
			date, err := Decompose(token)
			if err != nil {
				err = fmt.Errorf("%s: %w", name, err)
				e.skipped = append(e.skipped, err)
				opts.Logger.Debug("skipping date", "name", name, "date", token, "err", err)
				continue
			}

			if variants == nil {
				variants = ExpandWith(name, opts.Leet)
			}
			e.jobs = append(e.jobs, job{name: name, date: date, variants: variants})
		}
	}

	return e, nil
}

// Skipped returns the errors for dates that could not be decomposed
func (e *Enumerator) Skipped() []error {
	return e.skipped
}

// Pairs returns the number of (name, date) pairs that will be enumerated
func (e *Enumerator) Pairs() int {
	return len(e.jobs)
}

// Count returns the number of unique candidates. The first call walks the
// whole candidate space; later calls return the cached value.
func (e *Enumerator) Count() uint64 {
	count, _ := e.CountContext(context.Background())
	return count
}

// CountContext is Count with cancellation. A cancelled walk returns ctx.Err()
// and leaves nothing cached.
func (e *Enumerator) CountContext(ctx context.Context) (uint64, error) {
	if e.counted {
		return e.cachedCount, nil
	}

	var count uint64
	for range e.CandidatesContext(ctx) {
		count++
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	e.cachedCount = count
	e.counted = true
	return count, nil
}

// Candidates returns an iterator over the unique candidates. Duplicates are
// removed across all entries and the first occurrence wins, so the order is
// deterministic for a given input.
func (e *Enumerator) Candidates() iter.Seq[string] {
	return e.CandidatesContext(context.Background())
}

// CandidatesContext is Candidates but stops early once ctx is done, including
// while the length filter is rejecting candidates.
func (e *Enumerator) CandidatesContext(ctx context.Context) iter.Seq[string] {
	return func(yield func(string) bool) {
		seen := newSeenSet(e.opts.Dedup)
		defer func() {
			e.opts.Logger.Debug("dedup finished", "mode", e.opts.Dedup.String(), "unique", seen.size())
		}()

		for c := range e.raw(ctx) {
			if !seen.add(c) {
				continue
			}
			if !yield(c) {
				return
			}
		}
	}
}

// raw yields every candidate that passes the length filter, duplicates
// included
func (e *Enumerator) raw(ctx context.Context) iter.Seq[string] {
	return func(yield func(string) bool) {
		for _, j := range e.jobs {
			for _, tier := range e.opts.Tiers {
				if !e.walkTier(ctx, j, tier, yield) {
					return
				}
			}
		}
	}
}

// walkTier crosses every separator tuple of the tier's arity with every
// variant and template. Returns false when the consumer stopped early or ctx
// is done.
func (e *Enumerator) walkTier(ctx context.Context, j job, tier Tier, yield func(string) bool) bool {
	seps := e.opts.Separators
	numSeps := len(seps)

	indices := make([]int, tier.Arity)
	chosen := make([]string, tier.Arity)

	for {
		if ctx.Err() != nil {
			return false
		}

		for k, i := range indices {
			chosen[k] = seps[i]
		}

		for _, v := range j.variants {
			for _, t := range tier.Templates {
				// A template that uses fewer separators than the tier draws
				// would repeat itself for every value of the unused ones
				if !usesOnlyLeading(t, indices) {
					continue
				}

				c := render(t, j.date, v, chosen)
				if !e.keep(c) {
					continue
				}
				if !yield(c) {
					return false
				}
			}
		}

		// Odometer step, rightmost separator moves fastest
		i := len(indices) - 1
		for i >= 0 && indices[i] == numSeps-1 {
			i--
		}
		if i < 0 {
			break
		}

		indices[i]++
		for k := i + 1; k < len(indices); k++ {
			indices[k] = 0
		}
	}

	return true
}

// usesOnlyLeading reports whether all separator positions that t leaves
// unused are at their first value
func usesOnlyLeading(t Template, indices []int) bool {
	used := len(t) - 1
	if used < 0 {
		used = 0
	}
	for _, i := range indices[min(used, len(indices)):] {
		if i != 0 {
			return false
		}
	}
	return true
}

func render(t Template, d Date, variant string, seps []string) string {
	var b strings.Builder
	b.Grow(len(variant) + len(d.Day) + len(d.Month) + len(d.Year) + len(t)*2)

	for k, slot := range t {
		if k > 0 {
			b.WriteString(seps[k-1])
		}
		if slot == SlotName {
			b.WriteString(variant)
		} else {
			b.WriteString(d.component(slot))
		}
	}

	return b.String()
}

func (e *Enumerator) keep(c string) bool {
	if e.opts.MinLen == 0 && e.opts.MaxLen == 0 {
		return true
	}

	n := utf8.RuneCountInString(c)
	if e.opts.MinLen > 0 && n < e.opts.MinLen {
		return false
	}
	if e.opts.MaxLen > 0 && n > e.opts.MaxLen {
		return false
	}
	return true
}
