package validate

import (
	"strings"
	"testing"
)

func TestValidateApprovesPlainText(t *testing.T) {
	res := Validate("the quick brown fox jumps over the lazy dog")
	if !res.Approved {
		t.Fatalf("expected approval, got reasons: %v", res.Reasons)
	}
}

func TestValidateRejectsEscapeByte(t *testing.T) {
	res := Validate("hello\x1bworld")
	if res.Approved {
		t.Fatalf("expected rejection for ESC byte")
	}
	found := false
	for _, r := range res.Reasons {
		if r.Code == CodeEscapeByte {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected CodeEscapeByte among reasons, got %v", res.Reasons)
	}
}

func TestValidateRejectsCSIC1(t *testing.T) {
	res := Validate("helloworld")
	if res.Approved {
		t.Fatalf("expected rejection for C1 CSI byte")
	}
}

func TestValidateRejectsEmpty(t *testing.T) {
	res := Validate("")
	if res.Approved {
		t.Fatalf("expected rejection for empty content")
	}
}

func TestValidateRejectsTooLong(t *testing.T) {
	res := Validate(strings.Repeat("a", HardMaxLength+1))
	if res.Approved {
		t.Fatalf("expected rejection for over-length content")
	}
}

func TestValidateLogsShellPatternWithoutRejecting(t *testing.T) {
	res := Validate("run this && rm -rf something; echo done")
	if !res.Approved {
		t.Fatalf("shell-like pattern must not be rejected, got reasons: %v", res.Reasons)
	}
	if len(res.Logged) == 0 {
		t.Fatalf("expected a logged low-severity issue")
	}
}

func TestValidateRejectsZeroWidthJoiner(t *testing.T) {
	res := Validate("abc‍def")
	if res.Approved {
		t.Fatalf("expected rejection for zero-width joiner")
	}
}

func TestValidateRejectionIsNeverPartial(t *testing.T) {
	// a rejected string must never be "fixed up" by stripping; Validate
	// only ever reports reasons, it never returns mutated content.
	res := Validate("abc\x1bdef")
	if res.Approved {
		t.Fatalf("expected rejection")
	}
}
