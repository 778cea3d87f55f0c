package session

import (
	"math"
	"reflect"
	"testing"
	"time"

	"github.com/centotype/centotype/internal/types"
)

func almostEqual(a, b, tol float64) bool { return math.Abs(a-b) <= tol }

func typeChar(e *Engine, c rune, at time.Time) {
	e.ProcessKeystroke(Keystroke{Kind: KindChar, Char: c, At: at})
}

func TestEmptyTypedPrefixNoDivByZero(t *testing.T) {
	e := Start(ModeArcade, 1, "hello")
	m := e.ProcessKeystroke(Keystroke{Kind: KindPause, At: time.Now()})
	if m.Accuracy != 100 {
		t.Fatalf("expected accuracy 100 with no keystrokes, got %f", m.Accuracy)
	}
}

func TestSingleCharacterTarget(t *testing.T) {
	e := Start(ModeArcade, 1, "x")
	base := time.Now()
	typeChar(e, 'x', base)
	st := e.CurrentState()
	if st.Cursor != 1 || !st.Correctness[0] {
		t.Fatalf("unexpected state after single-char target: %+v", st)
	}
}

func TestPauseAtCursorZeroAndAtEnd(t *testing.T) {
	e := Start(ModeArcade, 1, "ab")
	base := time.Now()
	e.ProcessKeystroke(Keystroke{Kind: KindPause, At: base})
	e.ProcessKeystroke(Keystroke{Kind: KindResume, At: base.Add(time.Second)})
	typeChar(e, 'a', base.Add(2*time.Second))
	typeChar(e, 'b', base.Add(3*time.Second))
	e.ProcessKeystroke(Keystroke{Kind: KindPause, At: base.Add(4 * time.Second)})
	st := e.CurrentState()
	if st.Status != StatusPaused {
		t.Fatalf("expected Paused at end of target, got %s", st.Status)
	}
}

func TestBackspaceAtCursorZeroIsNoOp(t *testing.T) {
	e := Start(ModeArcade, 1, "abc")
	e.ProcessKeystroke(Keystroke{Kind: KindBackspace, At: time.Now()})
	if e.CurrentState().Cursor != 0 {
		t.Fatal("expected cursor to remain 0")
	}
}

func TestCharAfterCompleteIsNoOp(t *testing.T) {
	e := Start(ModeArcade, 1, "ab")
	base := time.Now()
	typeChar(e, 'a', base)
	typeChar(e, 'b', base.Add(time.Millisecond))
	e.ProcessKeystroke(Keystroke{Kind: KindComplete, At: base.Add(2 * time.Millisecond)})
	before := e.CurrentState()
	typeChar(e, 'z', base.Add(3*time.Millisecond))
	after := e.CurrentState()
	if before.Cursor != after.Cursor || after.Status != StatusCompleted {
		t.Fatalf("expected no-op after Complete, before=%+v after=%+v", before, after)
	}
}

// Scenario B — perfect typing.
func TestScenarioBPerfectTyping(t *testing.T) {
	target := "the quick brown fox"
	e := Start(ModeArcade, 1, target)
	base := time.Now()
	for i, c := range target {
		typeChar(e, c, base.Add(time.Duration(i)*50*time.Millisecond))
	}
	e.ProcessKeystroke(Keystroke{Kind: KindComplete, At: base.Add(time.Duration(len(target))*50*time.Millisecond)})

	result := e.Finalize()
	if result.Status != StatusCompleted {
		t.Fatalf("expected Completed, got %s", result.Status)
	}
	if result.Metrics.Accuracy != 100 {
		t.Fatalf("expected 100%% accuracy, got %f", result.Metrics.Accuracy)
	}
	want := (float64(len(target)) / 5) / (0.95 / 60)
	if !almostEqual(result.Metrics.EffectiveWPM, want, 2) {
		t.Fatalf("effective wpm = %f, want ~%f", result.Metrics.EffectiveWPM, want)
	}
	if result.Errors.Total() != 0 {
		t.Fatalf("expected 0 errors, got %+v", result.Errors.Counts)
	}

	again := e.Finalize()
	if !reflect.DeepEqual(again, result) {
		t.Fatalf("expected idempotent finalize, got %+v vs %+v", again, result)
	}
}

// Scenario C — one substitution then correction.
func TestScenarioCSubstitutionThenCorrection(t *testing.T) {
	e := Start(ModeArcade, 1, "abc")
	base := time.Now()
	typeChar(e, 'a', base)
	typeChar(e, 'x', base.Add(10*time.Millisecond))
	e.ProcessKeystroke(Keystroke{Kind: KindBackspace, At: base.Add(20 * time.Millisecond)})
	typeChar(e, 'b', base.Add(30*time.Millisecond))
	typeChar(e, 'c', base.Add(40*time.Millisecond))

	st := e.CurrentState()
	if st.Cursor != 3 {
		t.Fatalf("expected cursor 3, got %d", st.Cursor)
	}

	nCorrect := 0
	for _, ok := range st.Correctness {
		if ok {
			nCorrect++
		}
	}
	accuracy := 100 * float64(nCorrect) / float64(st.Cursor)
	if !almostEqual(accuracy, 66.67, 0.5) {
		t.Fatalf("expected ~66.67%% first-attempt accuracy, got %f", accuracy)
	}

	e.ProcessKeystroke(Keystroke{Kind: KindComplete, At: base.Add(50 * time.Millisecond)})
	result := e.Finalize()
	if result.Errors.Total() == 0 {
		t.Fatal("expected at least one classified error")
	}
}

// Scenario D — pause excluded from WPM.
func TestScenarioDPauseExcludedFromWPM(t *testing.T) {
	target := make([]rune, 60)
	for i := range target {
		target[i] = 'a'
	}
	e := Start(ModeArcade, 1, string(target))
	base := time.Now()

	for i := 0; i < 30; i++ {
		typeChar(e, 'a', base.Add(time.Duration(i)*(10000/30)*time.Millisecond))
	}
	pauseAt := base.Add(10 * time.Second)
	e.ProcessKeystroke(Keystroke{Kind: KindPause, At: pauseAt})
	resumeAt := pauseAt.Add(30 * time.Second)
	e.ProcessKeystroke(Keystroke{Kind: KindResume, At: resumeAt})
	for i := 0; i < 30; i++ {
		typeChar(e, 'a', resumeAt.Add(time.Duration(i)*(10000/30)*time.Millisecond))
	}
	e.ProcessKeystroke(Keystroke{Kind: KindComplete, At: resumeAt.Add(10 * time.Second)})

	result := e.Finalize()
	if result.Metrics.ElapsedMs < 19500 || result.Metrics.ElapsedMs > 20500 {
		t.Fatalf("expected ~20s elapsed excluding pause, got %dms", result.Metrics.ElapsedMs)
	}
	want := (60.0 / 5) / (20.0 / 60)
	if !almostEqual(result.Metrics.RawWPM, want, 2) {
		t.Fatalf("raw wpm = %f, want ~%f", result.Metrics.RawWPM, want)
	}
}

func TestCharAtTargetEndIsIgnored(t *testing.T) {
	e := Start(ModeArcade, 1, "ab")
	base := time.Now()
	typeChar(e, 'a', base)
	typeChar(e, 'b', base.Add(time.Millisecond))
	typeChar(e, 'c', base.Add(2*time.Millisecond))
	if e.CurrentState().Cursor != 2 {
		t.Fatal("expected overtyping at end of target to be ignored")
	}
}

func TestKeystrokeLogMonotonicInTime(t *testing.T) {
	e := Start(ModeArcade, 1, "abc")
	base := time.Now()
	typeChar(e, 'a', base)
	typeChar(e, 'b', base.Add(time.Millisecond))
	typeChar(e, 'c', base.Add(2*time.Millisecond))
	e.ProcessKeystroke(Keystroke{Kind: KindComplete, At: base.Add(3 * time.Millisecond)})
	result := e.Finalize()
	for i := 1; i < len(result.KeystrokeLog); i++ {
		if result.KeystrokeLog[i].At.Before(result.KeystrokeLog[i-1].At) {
			t.Fatal("keystroke log is not monotonic in time")
		}
	}
}

func TestInvariantCursorBoundsHoldForAnySequence(t *testing.T) {
	target := "abcdef"
	e := Start(ModeArcade, 1, target)
	base := time.Now()
	seq := []Keystroke{
		{Kind: KindChar, Char: 'a'},
		{Kind: KindChar, Char: 'x'},
		{Kind: KindBackspace},
		{Kind: KindBackspace},
		{Kind: KindBackspace},
		{Kind: KindChar, Char: 'a'},
		{Kind: KindChar, Char: 'b'},
		{Kind: KindChar, Char: 'c'},
		{Kind: KindChar, Char: 'd'},
		{Kind: KindChar, Char: 'e'},
		{Kind: KindChar, Char: 'f'},
		{Kind: KindChar, Char: 'g'},
	}
	for i, k := range seq {
		k.At = base.Add(time.Duration(i) * time.Millisecond)
		e.ProcessKeystroke(k)
	}
	st := e.CurrentState()
	if st.Cursor > len([]rune(target)) {
		t.Fatalf("cursor %d exceeds target length", st.Cursor)
	}
	if len(st.Typed) != st.Cursor {
		t.Fatalf("typed length %d != cursor %d", len(st.Typed), st.Cursor)
	}
	if len(st.Correctness) != len([]rune(target)) {
		t.Fatalf("correctness vector length mismatch")
	}
}

func TestFinalizeFreezesWithoutExplicitTerminalKeystroke(t *testing.T) {
	e := Start(ModeArcade, types.LevelId(1), "ab")
	typeChar(e, 'a', time.Now())
	result := e.Finalize()
	if result.Status != StatusAborted {
		t.Fatalf("expected implicit finalize to freeze as Aborted, got %s", result.Status)
	}
	again := e.Finalize()
	if again.Metrics != result.Metrics {
		t.Fatal("expected idempotent finalize after implicit freeze")
	}
}
