package logger

import (
	"bytes"
	"os"
	"strings"
	"testing"
)

func TestDebug_SilentWhenNotVerbose(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	defer SetOutput(os.Stderr)
	SetVerbose(false)

	Debug("should not appear %d", 1)
	if buf.Len() != 0 {
		t.Errorf("expected no output, got %q", buf.String())
	}
}

func TestDebug_PrintsWhenVerbose(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	defer SetOutput(os.Stderr)
	SetVerbose(true)
	defer SetVerbose(false)

	Debug("parsed %d entries", 12)
	if !strings.Contains(buf.String(), "[DEBUG] parsed 12 entries") {
		t.Errorf("unexpected output: %q", buf.String())
	}
}

func TestSection_Header(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	defer SetOutput(os.Stderr)
	SetVerbose(true)
	defer SetVerbose(false)

	Section("Matching")
	if !strings.Contains(buf.String(), "=== Matching ===") {
		t.Errorf("unexpected output: %q", buf.String())
	}
}

func TestIsVerbose(t *testing.T) {
	SetVerbose(true)
	if !IsVerbose() {
		t.Error("IsVerbose should be true after SetVerbose(true)")
	}
	SetVerbose(false)
	if IsVerbose() {
		t.Error("IsVerbose should be false after SetVerbose(false)")
	}
}
