package logger

import (
	"bytes"
	"testing"
)

func TestDebugSuppressedWithoutVerbose(t *testing.T) {
	var buf bytes.Buffer
	log, err := New(Options{Output: &buf})
	if err != nil {
		t.Fatal(err)
	}
	defer log.Close()

	log.Debug("row skipped", "row", 3)
	if buf.Len() != 0 {
		t.Fatalf("unexpected output %q", buf.String())
	}
}
