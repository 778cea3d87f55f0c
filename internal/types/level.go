// Package types holds the shared data model (spec §3): level and
// difficulty math, seeds, and content fingerprints. These are pure value
// types with no behavior beyond derivation — every field here is either
// an input or a pure function of LevelId.
package types

import "fmt"

// LevelId identifies one of the 100 progressive typing challenges.
type LevelId int

const (
	MinLevel LevelId = 1
	MaxLevel LevelId = 100
)

// Valid reports whether l is within [MinLevel, MaxLevel].
func (l LevelId) Valid() bool { return l >= MinLevel && l <= MaxLevel }

func (l LevelId) String() string { return fmt.Sprintf("level %d", int(l)) }

// Tier groups 10 consecutive levels: Bronze=1..10 .. Diamond=91..100.
type Tier int

const (
	TierBronze   Tier = 1
	TierSilver   Tier = 2
	TierGold     Tier = 3
	TierPlatinum Tier = 4
	TierDiamond  Tier = 10
)

// TierOf computes tier = ceil(level/10).
func TierOf(l LevelId) Tier {
	return Tier((int(l) + 9) / 10)
}

// TierProgress is ((level-1) mod 10)+1, the 1-based position within the tier.
func TierProgress(l LevelId) int {
	return ((int(l) - 1) % 10) + 1
}

var tierNames = map[Tier]string{
	1: "Bronze", 2: "Silver", 3: "Gold", 4: "Platinum", 5: "Emerald",
	6: "Ruby", 7: "Sapphire", 8: "Amethyst", 9: "Obsidian", 10: "Diamond",
}

func (t Tier) Name() string {
	if n, ok := tierNames[t]; ok {
		return n
	}
	return fmt.Sprintf("Tier%d", int(t))
}

// DifficultyParams is a pure function of LevelId (spec §3, §4.5).
type DifficultyParams struct {
	Level         LevelId
	Tier          Tier
	SymbolRatio   float64
	NumberRatio   float64
	TechRatio     float64
	ContentLength int
	SwitchFreq    int
}

// DeriveDifficulty computes DifficultyParams purely from l, per the
// formulas in spec §4.5.
func DeriveDifficulty(l LevelId) DifficultyParams {
	tier := TierOf(l)
	tp := float64(TierProgress(l) - 1)
	tm1 := float64(int(tier) - 1)

	symbolRatio := (5 + 2.5*tm1 + 0.3*tp) / 100
	numberRatio := (3 + 1.7*tm1 + 0.2*tp) / 100
	techRatio := (2 + 1.3*tm1 + 0.2*tp) / 100
	contentLength := 300 + 270*int(tm1) + 30*int(tp)
	switchFreq := 200 - 15*int(tm1)
	if switchFreq < 50 {
		switchFreq = 50
	}

	return DifficultyParams{
		Level:         l,
		Tier:          tier,
		SymbolRatio:   clamp(symbolRatio, 0.05, 0.30),
		NumberRatio:   clamp(numberRatio, 0.03, 0.20),
		TechRatio:     clamp(techRatio, 0.02, 0.15),
		ContentLength: clampInt(contentLength, 300, 3000),
		SwitchFreq:    clampInt(switchFreq, 50, 200),
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
