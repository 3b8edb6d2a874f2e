package brain

import (
	"strings"
	"testing"
)

func TestTrimAnswer(t *testing.T) {
	short := "The tallest mountain is Everest. It stands at 8849 meters. Impressive, right?"
	if got := trimAnswer(short); got != short {
		t.Errorf("Short answers must pass through unchanged, got %q", got)
	}

	if got := trimAnswer("  padded  "); got != "padded" {
		t.Errorf("Expected whitespace trim, got %q", got)
	}

	long := strings.Repeat("x", 300) + ". " + strings.Repeat("y", 300) + ". " + strings.Repeat("z", 300) + "."
	got := trimAnswer(long)
	if !strings.HasSuffix(got, ".") {
		t.Error("Trimmed answer must end with a period")
	}
	if strings.Contains(got, "z") {
		t.Error("Third sentence should be dropped")
	}
	if !strings.Contains(got, "x") || !strings.Contains(got, "y") {
		t.Error("First two sentences should survive")
	}
}

func TestTrimAnswerSingleLongSentence(t *testing.T) {
	// One unbroken sentence over the cap has nothing to cut.
	long := strings.Repeat("w", 600)
	got := trimAnswer(long)
	if got != long+"." {
		t.Errorf("Unbreakable answer handled badly: %d chars", len(got))
	}
}
