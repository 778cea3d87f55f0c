// Package generator is the deterministic content generator of spec
// §4.5: for a fixed (LevelId, Seed) it produces byte-identical
// TextContent meeting that level's DifficultyParams, gated by the
// Validator (spec §4.6).
package generator

import (
	"crypto/sha256"
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/centotype/centotype/internal/centerr"
	"github.com/centotype/centotype/internal/types"
	"github.com/centotype/centotype/internal/validate"
)

type tokenCategory int

const (
	catBasic tokenCategory = iota
	catSymbol
	catNumber
	catTech
)

// maxRetries bounds the deterministic regeneration loop (spec §4.5 step 5).
const maxRetries = 4

// Generate produces TextContent for (level, seed, category). It is a
// pure function of its arguments: two calls with the same (level, seed,
// category) return byte-identical output on any platform, now and
// forever (spec §4.5 "Determinism contract"). category is
// types.CategoryNone for arcade/endurance sessions; a drill session's
// category narrows which token family dominates the mix (spec §6.1
// "drill --category").
func Generate(level types.LevelId, seed types.Seed, category types.Category) (string, error) {
	params := focusParams(types.DeriveDifficulty(level), category)

	var lastReject validate.Result
	for nonce := uint64(0); nonce <= maxRetries; nonce++ {
		text := assemble(params, seed, nonce, category)

		res := validate.Validate(text)
		if !res.Approved {
			lastReject = res
			continue
		}
		if !withinDensityTolerance(text, params) {
			continue
		}
		return text, nil
	}
	_ = lastReject
	return "", centerr.Wrap(centerr.KindGeneration, fmt.Sprintf("level %d seed %d", int(level), uint64(seed)), centerr.ErrGenerationExhausted)
}

// rngFor builds the seeded ChaCha8 PRNG source for one generation
// attempt. The seed material is a SHA-256 digest of the level, seed and
// regeneration nonce — this keeps attempt N+1 deterministic but
// different from attempt N (spec §4.5 "regenerate with an incremented
// nonce derived from the seed, deterministic"), without reaching for a
// crypto dependency the reference corpus does not carry (see DESIGN.md).
func rngFor(level types.LevelId, seed types.Seed, nonce uint64) *rand.Rand {
	digest := sha256.Sum256([]byte(fmt.Sprintf("centotype|%d|%d|%d", int(level), uint64(seed), nonce)))
	src := rand.NewChaCha8(digest)
	return rand.New(src)
}

// focusParams biases a level's density mix toward one drill category
// (spec §6.1 "drill --category"), leaving CategoryNone (arcade,
// endurance) untouched. The targeted category's ratio is pushed to a
// fixed dominant share and the other two are proportionally shrunk,
// with the remainder left for basic tokens.
func focusParams(p types.DifficultyParams, category types.Category) types.DifficultyParams {
	const focusRatio = 0.45
	const shrink = 0.3
	switch category {
	case types.CategorySymbols, types.CategoryBrackets:
		p.SymbolRatio, p.NumberRatio, p.TechRatio = focusRatio, p.NumberRatio*shrink, p.TechRatio*shrink
	case types.CategoryNumbers:
		p.SymbolRatio, p.NumberRatio, p.TechRatio = p.SymbolRatio*shrink, focusRatio, p.TechRatio*shrink
	case types.CategoryCode:
		p.SymbolRatio, p.NumberRatio, p.TechRatio = p.SymbolRatio*shrink, p.NumberRatio*shrink, focusRatio
	}
	return p
}

// assemble runs generation procedure steps 1-4 of spec §4.5. category
// narrows catSymbol's token source to a bracket-only subset when the
// drill category is "brackets" (see tokensFor).
func assemble(params types.DifficultyParams, seed types.Seed, nonce uint64, category types.Category) string {
	rng := rngFor(params.Level, seed, nonce)

	budgets := categoryBudgets(params)
	plan := interleavingPlan(params, budgets, rng, category)

	var b strings.Builder
	for i, cat := range plan {
		tokens := tokensFor(cat, category)
		tok := tokens[rng.IntN(len(tokens))]
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(tok)
	}

	text := b.String()
	return fitLength(text, params, rng)
}

// categoryBudgets assigns per-category character budgets from ratios x
// length, with the remainder assigned to "basic" (spec §4.5 step 1).
func categoryBudgets(p types.DifficultyParams) map[tokenCategory]int {
	symbolChars := int(float64(p.ContentLength) * p.SymbolRatio)
	numberChars := int(float64(p.ContentLength) * p.NumberRatio)
	techChars := int(float64(p.ContentLength) * p.TechRatio)
	basicChars := p.ContentLength - symbolChars - numberChars - techChars
	if basicChars < 0 {
		basicChars = 0
	}
	return map[tokenCategory]int{
		catBasic:  basicChars,
		catSymbol: symbolChars,
		catNumber: numberChars,
		catTech:   techChars,
	}
}

// interleavingPlan draws a shuffled sequence of category slots so that
// context switches (basic <-> symbol/number/tech) occur roughly every
// switch_freq characters (spec §4.5 step 2).
func interleavingPlan(p types.DifficultyParams, budgets map[tokenCategory]int, rng *rand.Rand, category types.Category) []tokenCategory {
	avgTokenLen := func(cat tokenCategory) float64 {
		toks := tokensFor(cat, category)
		total := 0
		for _, t := range toks {
			total += len(t) + 1 // +1 for the separating space
		}
		return float64(total) / float64(len(toks))
	}

	slotsFor := func(cat tokenCategory) int {
		chars := budgets[cat]
		if chars <= 0 {
			return 0
		}
		n := int(float64(chars) / avgTokenLen(cat))
		if n < 1 {
			n = 1
		}
		return n
	}

	basicSlots := slotsFor(catBasic)
	specialCats := []tokenCategory{catSymbol, catNumber, catTech}

	var plan []tokenCategory
	charsPerBasicSlot := avgTokenLen(catBasic)
	slotsPerSwitch := int(float64(p.SwitchFreq) / charsPerBasicSlot)
	if slotsPerSwitch < 1 {
		slotsPerSwitch = 1
	}

	specialRemaining := map[tokenCategory]int{}
	for _, c := range specialCats {
		specialRemaining[c] = slotsFor(c)
	}

	basicLeft := basicSlots
	sinceSwitch := 0
	for basicLeft > 0 || anyRemaining(specialRemaining) {
		if basicLeft > 0 && (sinceSwitch < slotsPerSwitch || !anyRemaining(specialRemaining)) {
			plan = append(plan, catBasic)
			basicLeft--
			sinceSwitch++
			continue
		}
		cat := pickSpecial(specialRemaining, rng)
		if cat < 0 {
			if basicLeft > 0 {
				plan = append(plan, catBasic)
				basicLeft--
				continue
			}
			break
		}
		plan = append(plan, cat)
		specialRemaining[cat]--
		sinceSwitch = 0
	}

	if len(plan) == 0 {
		plan = append(plan, catBasic)
	}
	return plan
}

func anyRemaining(m map[tokenCategory]int) bool {
	for _, v := range m {
		if v > 0 {
			return true
		}
	}
	return false
}

func pickSpecial(remaining map[tokenCategory]int, rng *rand.Rand) tokenCategory {
	var avail []tokenCategory
	for _, c := range []tokenCategory{catSymbol, catNumber, catTech} {
		if remaining[c] > 0 {
			avail = append(avail, c)
		}
	}
	if len(avail) == 0 {
		return -1
	}
	return avail[rng.IntN(len(avail))]
}

// fitLength truncates or extends text (via additional basic tokens) so
// the final length lands within ±10% of the target (spec §4.5 step 4,
// spec §8 invariant 2).
func fitLength(text string, p types.DifficultyParams, rng *rand.Rand) string {
	lo := int(float64(p.ContentLength) * 0.9)
	hi := int(float64(p.ContentLength) * 1.1)

	for len(text) > hi {
		idx := strings.LastIndexByte(text[:hi], ' ')
		if idx <= 0 {
			text = text[:hi]
			break
		}
		text = text[:idx]
	}

	for len(text) < lo {
		tok := basicTokens[rng.IntN(len(basicTokens))]
		if text == "" {
			text = tok
		} else {
			text = text + " " + tok
		}
	}

	return strings.TrimRight(text, " ")
}

// withinDensityTolerance is the cheap post-analyzer of spec §4.5
// "Validation of difficulty": realized symbol/number/tech densities must
// land within ±20% of target.
func withinDensityTolerance(text string, p types.DifficultyParams) bool {
	if len(text) == 0 {
		return false
	}
	symbolChars, numberChars, techChars := realizedCounts(text)
	n := float64(len(text))

	check := func(realized int, target float64) bool {
		if target <= 0 {
			return true
		}
		density := float64(realized) / n
		// token-boundary rounding means small targets need a floor on
		// the allowed slack, not just a proportional one.
		slack := target * 0.2
		if floor := 2.0 / n; floor > slack {
			slack = floor
		}
		return density >= target-slack && density <= target+slack
	}

	return check(symbolChars, p.SymbolRatio) && check(numberChars, p.NumberRatio) && check(techChars, p.TechRatio)
}

func realizedCounts(text string) (symbols, numbers, tech int) {
	for _, tok := range strings.Fields(text) {
		switch classifyToken(tok) {
		case catSymbol:
			symbols += len(tok)
		case catNumber:
			numbers += len(tok)
		case catTech:
			tech += len(tok)
		}
	}
	return
}

func classifyToken(tok string) tokenCategory {
	for _, t := range symbolTokens {
		if t == tok {
			return catSymbol
		}
	}
	for _, t := range bracketTokens {
		if t == tok {
			return catSymbol
		}
	}
	for _, t := range numberTokens {
		if t == tok {
			return catNumber
		}
	}
	for _, t := range techTokens {
		if t == tok {
			return catTech
		}
	}
	return catBasic
}
