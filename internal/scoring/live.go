// Package scoring is the pure derivation layer of spec §4.3: live metrics
// computed on every keystroke, and the final error classification, grade
// and skill index computed once at session finalize. Every function here
// takes value inputs and returns value outputs — nothing here mutates or
// even sees a live session.
package scoring

import (
	"math"

	"github.com/centotype/centotype/internal/types"
)

// LiveMetrics are the per-keystroke derived values of spec §4.3. They are
// always recomputed, never stored as truth.
type LiveMetrics struct {
	RawWPM      float64
	EffectiveWPM float64
	Accuracy    float64
	ErrorCount  int
	ElapsedMs   int64
}

// Live computes LiveMetrics per spec §4.3's exact formulas. nTyped is the
// cursor position, nCorrect the popcount of the correctness vector up to
// cursor, and elapsedSecs/pausedSecs are wall-clock seconds with pause
// time already separated out by the caller (the Session Engine).
func Live(nTyped, nCorrect int, elapsedSecs, pausedSecs float64) LiveMetrics {
	t := elapsedSecs - pausedSecs
	if t < 0 {
		t = 0
	}

	var rawWPM float64
	if t > 0 {
		rawWPM = (float64(nTyped) / 5) / (t / 60)
	}

	accuracy := 100.0
	if nTyped > 0 {
		accuracy = 100 * float64(nCorrect) / float64(nTyped)
	}

	return LiveMetrics{
		RawWPM:       rawWPM,
		EffectiveWPM: rawWPM * accuracy / 100,
		Accuracy:     accuracy,
		ErrorCount:   nTyped - nCorrect,
		ElapsedMs:    int64(t * 1000),
	}
}

// Grade is the letter grade of spec §4.3.
type Grade string

const (
	GradeA Grade = "A"
	GradeB Grade = "B"
	GradeC Grade = "C"
	GradeD Grade = "D"
	GradeF Grade = "F"
)

// requirement is one tier's grade-A/B/C/D thresholds (spec §4.3 "fixed
// table ... parameterized by the tier's requirement bundle").
type requirement struct {
	minWPM      [4]float64 // thresholds for A, B, C, D (index 0..3)
	minAccuracy [4]float64
	maxSeverity [4]float64 // max allowed weighted error rate
}

// tierRequirements grows progressively stricter from Bronze to Diamond,
// matching spec §4.3's "progressively stricter" requirement.
var tierRequirements = map[types.Tier]requirement{
	types.Tier(1):  {[4]float64{20, 15, 10, 5}, [4]float64{90, 80, 65, 50}, [4]float64{0.05, 0.12, 0.25, 0.45}},
	types.Tier(2):  {[4]float64{25, 20, 14, 8}, [4]float64{91, 81, 67, 52}, [4]float64{0.05, 0.11, 0.24, 0.44}},
	types.Tier(3):  {[4]float64{30, 24, 17, 10}, [4]float64{92, 82, 68, 54}, [4]float64{0.04, 0.10, 0.23, 0.43}},
	types.Tier(4):  {[4]float64{35, 28, 20, 12}, [4]float64{93, 83, 69, 55}, [4]float64{0.04, 0.10, 0.22, 0.42}},
	types.Tier(5):  {[4]float64{40, 32, 23, 14}, [4]float64{93, 84, 70, 56}, [4]float64{0.04, 0.09, 0.21, 0.41}},
	types.Tier(6):  {[4]float64{45, 36, 26, 16}, [4]float64{94, 85, 71, 58}, [4]float64{0.03, 0.09, 0.20, 0.40}},
	types.Tier(7):  {[4]float64{50, 40, 29, 18}, [4]float64{94, 86, 72, 59}, [4]float64{0.03, 0.08, 0.19, 0.39}},
	types.Tier(8):  {[4]float64{55, 44, 32, 20}, [4]float64{95, 87, 73, 60}, [4]float64{0.03, 0.08, 0.18, 0.38}},
	types.Tier(9):  {[4]float64{60, 48, 35, 22}, [4]float64{95, 88, 74, 61}, [4]float64{0.02, 0.07, 0.17, 0.37}},
	types.Tier(10): {[4]float64{65, 52, 38, 24}, [4]float64{96, 89, 75, 62}, [4]float64{0.02, 0.07, 0.16, 0.36}},
}

// Gradebook returns the grade for (tier, effectiveWPM, accuracy,
// weightedErrorRate). The tier's bundle is checked A..D in order; if none
// is met the grade is F.
func Gradebook(tier types.Tier, effectiveWPM, accuracy, weightedErrorRate float64) Grade {
	req, ok := tierRequirements[tier]
	if !ok {
		req = tierRequirements[types.Tier(1)]
	}
	grades := [4]Grade{GradeA, GradeB, GradeC, GradeD}
	for i, g := range grades {
		if effectiveWPM >= req.minWPM[i] && accuracy >= req.minAccuracy[i] && weightedErrorRate <= req.maxSeverity[i] {
			return g
		}
	}
	return GradeF
}

// SkillIndex computes spec §4.3's `5*effective_wpm + 2*accuracy +
// 3*consistency`, clamped to [0, 1000].
func SkillIndex(effectiveWPM, accuracy, consistency float64) int {
	idx := 5*effectiveWPM + 2*accuracy + 3*consistency
	if idx < 0 {
		idx = 0
	}
	if idx > 1000 {
		idx = 1000
	}
	return int(idx)
}

// Consistency computes `100 - 100*stddev(interval)/mean(interval)` over
// keystroke intervals, clamped to [0, 100] (spec §4.3).
func Consistency(intervalsMs []float64) float64 {
	n := len(intervalsMs)
	if n == 0 {
		return 100
	}
	var sum float64
	for _, v := range intervalsMs {
		sum += v
	}
	mean := sum / float64(n)
	if mean == 0 {
		return 100
	}
	var variance float64
	for _, v := range intervalsMs {
		d := v - mean
		variance += d * d
	}
	variance /= float64(n)
	stddev := math.Sqrt(variance)

	c := 100 - 100*stddev/mean
	if c < 0 {
		return 0
	}
	if c > 100 {
		return 100
	}
	return c
}
