package scoring

// ErrorKind categorizes one discrepancy between typed and target text
// (spec §4.3 "Final error classification").
type ErrorKind int

const (
	ErrorSubstitution ErrorKind = iota
	ErrorInsertion
	ErrorDeletion
	ErrorTransposition
)

func (k ErrorKind) String() string {
	switch k {
	case ErrorSubstitution:
		return "substitution"
	case ErrorInsertion:
		return "insertion"
	case ErrorDeletion:
		return "deletion"
	case ErrorTransposition:
		return "transposition"
	default:
		return "unknown"
	}
}

// severityWeight is spec §4.3's fixed per-kind weight (sub=1, ins=1,
// del=1, transp=2).
func severityWeight(k ErrorKind) float64 {
	if k == ErrorTransposition {
		return 2
	}
	return 1
}

// ErrorBreakdown tallies classified errors by kind.
type ErrorBreakdown struct {
	Counts map[ErrorKind]int
}

// Total returns the sum of all error counts.
func (b ErrorBreakdown) Total() int {
	n := 0
	for _, c := range b.Counts {
		n += c
	}
	return n
}

// WeightedRate returns the severity-weighted error rate, normalized by
// target length, feeding the grade table.
func (b ErrorBreakdown) WeightedRate(targetLen int) float64 {
	if targetLen == 0 {
		return 0
	}
	var sum float64
	for k, c := range b.Counts {
		sum += severityWeight(k) * float64(c)
	}
	return sum / float64(targetLen)
}

// alignWindow is the bounded sliding-window half-width N=5 of spec §4.3.
const alignWindow = 5

// ClassifyErrors performs the full-log classification of spec §4.3,
// aligning firstAttempts — the character first recorded at each target
// position, which a later Backspace+retype never overwrites (spec §4.2
// "the previous correctness bit is not erased") — against target with a
// bounded Damerau-Levenshtein alignment over a window of length N=5
// centered at the current alignment cursor, so the whole pass costs
// O(N*len(target)).
func ClassifyErrors(firstAttempts []rune, target string) ErrorBreakdown {
	tgt := []rune(target)
	breakdown := ErrorBreakdown{Counts: make(map[ErrorKind]int)}

	ti := 0 // cursor into firstAttempts
	gi := 0 // cursor into target
	stream := firstAttempts

	for ti < len(stream) && gi < len(tgt) {
		if stream[ti] == tgt[gi] {
			ti++
			gi++
			continue
		}

		lo, hi := windowBounds(gi, len(tgt))
		kind, adv := classifyWithinWindow(stream, ti, tgt, gi, lo, hi)
		breakdown.Counts[kind]++
		ti += adv.stream
		gi += adv.target
	}

	// Leftover target characters the typist never reached count as
	// deletions (missing characters); leftover typed characters beyond
	// target are insertions. Both are rare once the Event Loop enforces
	// cursor<=len(target), but the classifier stays total.
	for gi < len(tgt) {
		breakdown.Counts[ErrorDeletion]++
		gi++
	}
	for ti < len(stream) {
		breakdown.Counts[ErrorInsertion]++
		ti++
	}

	return breakdown
}

func windowBounds(center, targetLen int) (lo, hi int) {
	lo = center - alignWindow
	if lo < 0 {
		lo = 0
	}
	hi = center + alignWindow
	if hi > targetLen {
		hi = targetLen
	}
	return lo, hi
}

type advance struct{ stream, target int }

// classifyWithinWindow looks ahead at most alignWindow positions to
// decide whether the mismatch at (stream[ti], target[gi]) is best
// explained as a transposition, insertion, deletion or substitution.
func classifyWithinWindow(stream []rune, ti int, target []rune, gi, lo, hi int) (ErrorKind, advance) {
	_ = lo
	// Transposition: stream[ti],stream[ti+1] == target[gi+1],target[gi].
	if ti+1 < len(stream) && gi+1 < hi && stream[ti] == target[gi+1] && stream[ti+1] == target[gi] {
		return ErrorTransposition, advance{2, 2}
	}

	// Insertion: stream[ti] doesn't belong; target[gi] reappears a bit
	// later in the stream within the window.
	for k := 1; ti+k < len(stream) && k <= alignWindow; k++ {
		if stream[ti+k] == target[gi] {
			return ErrorInsertion, advance{k, 0}
		}
	}

	// Deletion: target[gi] was skipped; stream[ti] reappears a bit later
	// in target within the window.
	for k := 1; gi+k < hi && k <= alignWindow; k++ {
		if target[gi+k] == stream[ti] {
			return ErrorDeletion, advance{0, k}
		}
	}

	return ErrorSubstitution, advance{1, 1}
}
