package scoring

import (
	"math"
	"testing"

	"github.com/centotype/centotype/internal/types"
)

func almostEqual(a, b, tol float64) bool { return math.Abs(a-b) <= tol }

func TestLiveEmptyTypedNoDivByZero(t *testing.T) {
	m := Live(0, 0, 0, 0)
	if m.Accuracy != 100 {
		t.Fatalf("expected accuracy 100 with no keystrokes, got %f", m.Accuracy)
	}
	if m.RawWPM != 0 || m.EffectiveWPM != 0 {
		t.Fatalf("expected zero wpm with zero elapsed time, got %+v", m)
	}
}

// Scenario B — perfect typing.
func TestLivePerfectTyping(t *testing.T) {
	m := Live(19, 19, 0.95, 0)
	if m.Accuracy != 100 {
		t.Fatalf("expected 100%% accuracy, got %f", m.Accuracy)
	}
	want := (19.0 / 5) / (0.95 / 60)
	if !almostEqual(m.RawWPM, want, 1.0) {
		t.Fatalf("raw wpm = %f, want ~%f", m.RawWPM, want)
	}
	if !almostEqual(m.EffectiveWPM, m.RawWPM, 0.01) {
		t.Fatalf("effective wpm should equal raw wpm at 100%% accuracy")
	}
	if m.ErrorCount != 0 {
		t.Fatalf("expected 0 errors, got %d", m.ErrorCount)
	}
}

// Scenario D — pause excluded from WPM.
func TestLivePauseExcluded(t *testing.T) {
	m := Live(60, 60, 50, 30) // 50s elapsed, 30s paused => t=20s
	want := (60.0 / 5) / (20.0 / 60)
	if !almostEqual(m.RawWPM, want, 1.0) {
		t.Fatalf("raw wpm = %f, want ~%f", m.RawWPM, want)
	}
	if m.ElapsedMs != 20000 {
		t.Fatalf("elapsed ms = %d, want 20000", m.ElapsedMs)
	}
}

func TestGradebookMonotoneAcrossTiers(t *testing.T) {
	// the same raw performance should never earn a higher grade at a
	// higher tier, since thresholds only tighten.
	rank := map[Grade]int{GradeF: 0, GradeD: 1, GradeC: 2, GradeB: 3, GradeA: 4}
	prevRank := 5
	for tier := types.Tier(1); tier <= 10; tier++ {
		g := Gradebook(tier, 30, 85, 0.1)
		if rank[g] > prevRank {
			t.Fatalf("tier %d graded higher (%s) than a lower tier", tier, g)
		}
		prevRank = rank[g]
	}
}

func TestSkillIndexClampedToRange(t *testing.T) {
	if idx := SkillIndex(1000, 1000, 1000); idx != 1000 {
		t.Fatalf("expected clamp to 1000, got %d", idx)
	}
	if idx := SkillIndex(-1000, -1000, -1000); idx != 0 {
		t.Fatalf("expected clamp to 0, got %d", idx)
	}
}

func TestConsistencyPerfectIntervalsIsMax(t *testing.T) {
	c := Consistency([]float64{100, 100, 100, 100})
	if c != 100 {
		t.Fatalf("expected consistency 100 for uniform intervals, got %f", c)
	}
}

func TestConsistencyEmptyIsMax(t *testing.T) {
	if c := Consistency(nil); c != 100 {
		t.Fatalf("expected 100 for no intervals, got %f", c)
	}
}

// Scenario C — one substitution then correction. The first attempt at
// position 1 was 'x' (later backspaced and retyped as 'b'); the
// classifier works from that first-attempt record, not the corrected one.
func TestClassifyErrorsSubstitution(t *testing.T) {
	breakdown := ClassifyErrors([]rune{'a', 'x', 'c'}, "abc")
	if breakdown.Counts[ErrorSubstitution] < 1 {
		t.Fatalf("expected at least one substitution, got %+v", breakdown.Counts)
	}
}

func TestClassifyErrorsTransposition(t *testing.T) {
	breakdown := ClassifyErrors([]rune("the qiuck brown fox"), "the quick brown fox")
	if breakdown.Counts[ErrorTransposition] == 0 {
		t.Fatalf("expected a transposition to be detected, got %+v", breakdown.Counts)
	}
}

func TestClassifyErrorsNoErrorsOnExactMatch(t *testing.T) {
	breakdown := ClassifyErrors([]rune("abc"), "abc")
	if breakdown.Total() != 0 {
		t.Fatalf("expected no errors on exact match, got %+v", breakdown.Counts)
	}
}
