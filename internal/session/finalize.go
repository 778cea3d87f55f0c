package session

import (
	"time"

	"github.com/centotype/centotype/internal/scoring"
	"github.com/centotype/centotype/internal/types"
)

// SessionResult is the immutable record produced once a session reaches
// a terminal state (spec §3 "SessionResult").
type SessionResult struct {
	SessionID    string
	Level        types.LevelId
	Status       Status
	Metrics      scoring.LiveMetrics
	Errors       scoring.ErrorBreakdown
	Grade        scoring.Grade
	SkillIndex   int
	Consistency  float64
	KeystrokeLog []LogEntry
}

// Finalize computes the full SessionResult exactly once on terminal
// transition; subsequent calls return the cached result unchanged (spec
// §4.2 finalize, spec §8 "finalizing a session twice returns the same
// SessionResult both times").
func (e *Engine) Finalize() SessionResult {
	if e.result != nil {
		return *e.result
	}
	if !e.status.Terminal() {
		// The caller asked for a result before the session ended; freeze
		// as of now so the result is still well-defined and stable.
		e.transitionTerminal(StatusAborted, time.Now())
	}

	metrics := e.liveMetrics(e.startedAt.Add(e.frozenElapsed))
	errors := scoring.ClassifyErrors(e.firstAttempt[:e.highWaterCursor()], string(e.target))
	consistency := scoring.Consistency(e.charIntervalsMs())
	grade := scoring.Gradebook(e.tier, metrics.EffectiveWPM, metrics.Accuracy, errors.WeightedRate(len(e.target)))
	skill := scoring.SkillIndex(metrics.EffectiveWPM, metrics.Accuracy, consistency)

	result := SessionResult{
		SessionID:    e.sessionID,
		Level:        e.level,
		Status:       e.status,
		Metrics:      metrics,
		Errors:       errors,
		Grade:        grade,
		SkillIndex:   skill,
		Consistency:  consistency,
		KeystrokeLog: append([]LogEntry(nil), e.log...),
	}
	e.result = &result
	return result
}

// highWaterCursor is the furthest position any first-attempt char was
// ever recorded at, i.e. how much of firstAttempt is meaningful.
func (e *Engine) highWaterCursor() int {
	n := 0
	for i, set := range e.correctnessSet {
		if set {
			n = i + 1
		}
	}
	return n
}

// charIntervalsMs returns the millisecond gaps between consecutive Char
// keystrokes, feeding the consistency formula (spec §4.3). Pause/Resume
// gaps are excluded since they are not typing cadence.
func (e *Engine) charIntervalsMs() []float64 {
	var times []time.Time
	for _, l := range e.log {
		if l.Kind == KindChar {
			times = append(times, l.At)
		}
	}
	if len(times) < 2 {
		return nil
	}
	intervals := make([]float64, 0, len(times)-1)
	for i := 1; i < len(times); i++ {
		intervals = append(intervals, float64(times[i].Sub(times[i-1]).Milliseconds()))
	}
	return intervals
}
