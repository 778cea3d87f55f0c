package generator

import "github.com/centotype/centotype/internal/types"

// Token categories. These are the fixed, shipped resource spec §4.5
// calls "the corpus" — identical across builds so generation stays
// deterministic across platforms.
var (
	basicTokens = []string{
		"the", "quick", "brown", "fox", "jumps", "over", "lazy", "dog",
		"hello", "world", "typing", "practice", "keyboard", "finger",
		"speed", "accuracy", "session", "level", "word", "text",
		"system", "program", "function", "value", "result", "simple",
		"table", "record", "field", "string", "number", "letter",
		"space", "line", "paragraph", "sentence", "module", "package",
		"build", "compile", "run", "test", "debug", "review", "commit",
	}

	symbolTokens = []string{
		"!", "@", "#", "$", "%", "^", "&", "*", "(", ")", "-", "_",
		"+", "=", "[", "]", "{", "}", "|", "\\", ":", ";", "\"", "'",
		"<", ">", ",", ".", "?", "/", "~", "`",
	}

	numberTokens = []string{
		"0", "1", "2", "3", "4", "5", "6", "7", "8", "9",
		"10", "42", "100", "256", "1024", "2024", "3.14", "0x1F",
		"404", "200", "999", "123", "007",
	}

	techTokens = []string{
		"func", "var", "const", "struct", "interface", "return",
		"import", "package", "error", "nil", "context", "goroutine",
		"channel", "mutex", "defer", "panic", "recover", "slice",
		"map[string]int", "chan<-", "go func()", "select", "switch",
		"case", "default", "append()", "len()", "make()",
	}

	// bracketTokens is the subset of symbolTokens a "brackets" drill
	// (spec §6.1 "drill --category brackets") draws from instead of the
	// full symbol set.
	bracketTokens = []string{
		"(", ")", "[", "]", "{", "}", "<", ">",
		"()", "[]", "{}", "<>", "((", "))", "[[", "]]",
	}
)

// tokensFor returns cat's token source. category narrows catSymbol to
// bracketTokens when the active drill category is "brackets"; every
// other (cat, category) pairing uses the same fixed corpus regardless
// of category, since category only ever retargets ratios, never swaps
// out a whole category's vocabulary.
func tokensFor(cat tokenCategory, category types.Category) []string {
	switch cat {
	case catSymbol:
		if category == types.CategoryBrackets {
			return bracketTokens
		}
		return symbolTokens
	case catNumber:
		return numberTokens
	case catTech:
		return techTokens
	default:
		return basicTokens
	}
}
