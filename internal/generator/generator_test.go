package generator

import (
	"strings"
	"testing"

	"github.com/centotype/centotype/internal/types"
	"github.com/centotype/centotype/internal/validate"
)

// Scenario A — deterministic level 1 generation (spec §8).
func TestGenerateDeterministicLevel1(t *testing.T) {
	a, err := Generate(1, 12345, types.CategoryNone)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	b, err := Generate(1, 12345, types.CategoryNone)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if a != b {
		t.Fatalf("expected byte-identical output, got %q vs %q", a, b)
	}

	params := types.DeriveDifficulty(1)
	lo, hi := int(float64(params.ContentLength)*0.9), int(float64(params.ContentLength)*1.1)
	if len(a) < lo || len(a) > hi {
		t.Fatalf("length %d out of [%d,%d]", len(a), lo, hi)
	}

	res := validate.Validate(a)
	if !res.Approved {
		t.Fatalf("expected validator approval, got reasons: %v", res.Reasons)
	}
}

func TestGenerateDifferentSeedsDiffer(t *testing.T) {
	a, _ := Generate(10, 1, types.CategoryNone)
	b, _ := Generate(10, 2, types.CategoryNone)
	if a == b {
		t.Fatalf("expected distinct seeds to (almost certainly) produce distinct text")
	}
}

// Invariant 1 — for all (L,S), generate(L,S) == generate(L,S).
func TestGenerateInvariantDeterminism(t *testing.T) {
	for _, lvl := range []types.LevelId{1, 25, 50, 75, 100} {
		a, err := Generate(lvl, 777, types.CategoryNone)
		if err != nil {
			t.Fatalf("level %d: %v", lvl, err)
		}
		b, err := Generate(lvl, 777, types.CategoryNone)
		if err != nil {
			t.Fatalf("level %d: %v", lvl, err)
		}
		if a != b {
			t.Fatalf("level %d: non-deterministic output", lvl)
		}
	}
}

// Invariant 2 — length within +/-10% of target.
func TestGenerateInvariantLengthBound(t *testing.T) {
	for lvl := types.LevelId(1); lvl <= 100; lvl += 7 {
		text, err := Generate(lvl, types.Seed(lvl)*31, types.CategoryNone)
		if err != nil {
			t.Fatalf("level %d: %v", lvl, err)
		}
		params := types.DeriveDifficulty(lvl)
		lo, hi := int(float64(params.ContentLength)*0.9), int(float64(params.ContentLength)*1.1)
		if len(text) < lo || len(text) > hi {
			t.Fatalf("level %d: length %d out of [%d,%d]", lvl, len(text), lo, hi)
		}
	}
}

// Invariant 3 — difficulty_score is monotone non-decreasing in LevelId.
func TestGenerateInvariantProgression(t *testing.T) {
	var prev float64
	for lvl := types.LevelId(1); lvl <= 100; lvl++ {
		score := Score(types.DeriveDifficulty(lvl))
		if lvl > 1 && score < prev-1e-9 {
			t.Fatalf("level %d: difficulty score %f decreased from %f", lvl, score, prev)
		}
		prev = score
	}
}

// Invariant 4 — all generated content is Validator-approved.
func TestGenerateInvariantAlwaysApproved(t *testing.T) {
	for lvl := types.LevelId(1); lvl <= 100; lvl += 11 {
		text, err := Generate(lvl, 42, types.CategoryNone)
		if err != nil {
			t.Fatalf("level %d: %v", lvl, err)
		}
		if res := validate.Validate(text); !res.Approved {
			t.Fatalf("level %d: not approved: %v", lvl, res.Reasons)
		}
	}
}

// drill --category symbols (spec §6.1) must noticeably skew composition
// toward symbols relative to the same (level, seed) with no category.
func TestGenerateCategoryFocusSkewsComposition(t *testing.T) {
	lvl, seed := types.LevelId(50), types.Seed(7)

	plain, err := Generate(lvl, seed, types.CategoryNone)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	focused, err := Generate(lvl, seed, types.CategorySymbols)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	plainSymbols, _, _ := realizedCounts(plain)
	focusedSymbols, _, _ := realizedCounts(focused)
	if focusedSymbols <= plainSymbols {
		t.Fatalf("expected CategorySymbols to raise symbol density: plain=%d focused=%d (%q vs %q)",
			plainSymbols, focusedSymbols, plain, focused)
	}
}

// drill --category brackets draws its symbol tokens from the
// bracket-only subset, not the full symbol corpus.
func TestGenerateCategoryBracketsUsesBracketTokensOnly(t *testing.T) {
	text, err := Generate(30, 3, types.CategoryBrackets)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	for _, tok := range strings.Fields(text) {
		if classifyToken(tok) != catSymbol {
			continue
		}
		found := false
		for _, b := range bracketTokens {
			if b == tok {
				found = true
				break
			}
		}
		if !found {
			t.Fatalf("brackets drill produced a non-bracket symbol token %q in %q", tok, text)
		}
	}
}

func TestGenerateNoDoubleSpacesOrTrailingWhitespace(t *testing.T) {
	text, err := Generate(42, 9, types.CategoryNone)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if len(text) == 0 {
		t.Fatal("expected non-empty text")
	}
	if text[len(text)-1] == ' ' {
		t.Fatalf("text has trailing whitespace: %q", text)
	}
	for i := 0; i+1 < len(text); i++ {
		if text[i] == ' ' && text[i+1] == ' ' {
			t.Fatalf("text has a double space at %d: %q", i, text)
		}
	}
}
