package combo

import (
	mapset "github.com/deckarep/golang-set/v2"
	"github.com/zeebo/xxh3"
)

// DedupMode selects how already-emitted candidates are remembered
type DedupMode int

const (
	// DedupExact keeps every emitted string
	DedupExact DedupMode = iota

	// DedupCompact keeps a 128-bit XXH3 fingerprint per candidate instead of
	// the string itself. A fingerprint collision would drop a candidate; at
	// 2^-128 per pair that is not a practical concern.
	DedupCompact
)

func (m DedupMode) String() string {
	if m == DedupCompact {
		return "compact"
	}
	return "exact"
}

type seenSet interface {
	// add reports whether s was not seen before
	add(s string) bool
	size() int
}

func newSeenSet(mode DedupMode) seenSet {
	if mode == DedupCompact {
		return &compactSet{set: mapset.NewThreadUnsafeSet[xxh3.Uint128]()}
	}
	return &exactSet{set: mapset.NewThreadUnsafeSet[string]()}
}

type exactSet struct {
	set mapset.Set[string]
}

func (s *exactSet) add(c string) bool { return s.set.Add(c) }
func (s *exactSet) size() int         { return s.set.Cardinality() }

type compactSet struct {
	set mapset.Set[xxh3.Uint128]
}

func (s *compactSet) add(c string) bool { return s.set.Add(xxh3.HashString128(c)) }
func (s *compactSet) size() int         { return s.set.Cardinality() }
