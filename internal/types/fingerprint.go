package types

import (
	"fmt"
	"hash/fnv"
)

// Seed feeds the deterministic content generator's PRNG.
type Seed uint64

// Fingerprint identifies generated content: equal fingerprints must
// yield equal content (spec §3 "Fingerprint"). Category participates in
// the key because a drill session's category-focused text is not
// interchangeable with the same (level, seed)'s ordinary content.
type Fingerprint struct {
	Level      LevelId
	Seed       Seed
	Category   Category
	ParamsHash uint64
}

// NewFingerprint derives a Fingerprint for (level, seed), hashing the
// level's DifficultyParams so that a change to the difficulty formula
// invalidates any cache entries keyed on the old parameters. category
// is CategoryNone for arcade/endurance sessions.
func NewFingerprint(level LevelId, seed Seed, category Category) Fingerprint {
	return Fingerprint{Level: level, Seed: seed, Category: category, ParamsHash: hashParams(DeriveDifficulty(level))}
}

func hashParams(p DifficultyParams) uint64 {
	h := fnv.New64a()
	fmt.Fprintf(h, "%d|%.6f|%.6f|%.6f|%d|%d", p.Tier, p.SymbolRatio, p.NumberRatio, p.TechRatio, p.ContentLength, p.SwitchFreq)
	return h.Sum64()
}

// Key renders a stable string key suitable for map indexing in logs.
func (f Fingerprint) Key() string {
	return fmt.Sprintf("L%d-S%d-C%s-P%x", int(f.Level), uint64(f.Seed), f.Category, f.ParamsHash)
}

func (f Fingerprint) String() string { return f.Key() }
