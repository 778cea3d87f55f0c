// Package store is the Result Handoff of spec §6.3: session results
// leave the engine through a narrow ResultSink so persistence (spec
// §6.1's "Persistent state (out of core scope)") can be swapped in later
// without touching the engine.
package store

import (
	"sync"

	"github.com/centotype/centotype/internal/session"
)

// ResultSink receives a SessionResult once a session finalizes.
type ResultSink interface {
	Save(result session.SessionResult) error
}

// NoopSink discards every result. It is the default when no persistence
// backend is configured.
type NoopSink struct{}

func (NoopSink) Save(session.SessionResult) error { return nil }

// MemorySink keeps results in process memory, ordered by arrival. It
// backs the `stats` subcommand and tests; it is not durable across
// restarts (spec §6.1 names durable persistence as out of core scope).
type MemorySink struct {
	mu      sync.Mutex
	results []session.SessionResult
}

func NewMemorySink() *MemorySink { return &MemorySink{} }

func (s *MemorySink) Save(result session.SessionResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results = append(s.results, result)
	return nil
}

// All returns every saved result, oldest first.
func (s *MemorySink) All() []session.SessionResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]session.SessionResult, len(s.results))
	copy(out, s.results)
	return out
}

// ForLevel filters saved results down to one level.
func (s *MemorySink) ForLevel(level int) []session.SessionResult {
	var out []session.SessionResult
	for _, r := range s.All() {
		if int(r.Level) == level {
			out = append(out, r)
		}
	}
	return out
}

// Best returns the highest Skill Index result saved, if any.
func (s *MemorySink) Best() (session.SessionResult, bool) {
	all := s.All()
	if len(all) == 0 {
		return session.SessionResult{}, false
	}
	best := all[0]
	for _, r := range all[1:] {
		if r.SkillIndex > best.SkillIndex {
			best = r
		}
	}
	return best, true
}
