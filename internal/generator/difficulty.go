package generator

import "github.com/centotype/centotype/internal/types"

// Score is the decided difficulty_score formula from SPEC_FULL.md §10:
// a weighted sum of normalized category densities plus a switch-frequency
// term. It is monotone non-decreasing in LevelId by construction, since
// every input ratio is itself monotone in LevelId (spec §4.5) — this is
// the gating contract spec §8 invariant 3 tests against, not a claim of
// a single "true" difficulty function (spec §9 open question).
func Score(p types.DifficultyParams) float64 {
	normSymbol := normalize(p.SymbolRatio, 0.05, 0.30)
	normNumber := normalize(p.NumberRatio, 0.03, 0.20)
	normTech := normalize(p.TechRatio, 0.02, 0.15)

	// Lower switch_freq means more frequent category switching, i.e.
	// harder; normalize so smaller switch_freq yields a larger term.
	switchTerm := normalize(float64(200-p.SwitchFreq), 0, 150)

	return 0.5*normSymbol + 0.3*normNumber + 0.2*normTech + 0.1*switchTerm
}

func normalize(v, lo, hi float64) float64 {
	if hi <= lo {
		return 0
	}
	n := (v - lo) / (hi - lo)
	if n < 0 {
		return 0
	}
	if n > 1 {
		return 1
	}
	return n
}
