package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"
)

func TestSpinnerDrawsAndClears(t *testing.T) {
	var buf bytes.Buffer
	s := startSpinner(context.Background(), &buf, "Converting")
	time.Sleep(3 * spinnerInterval)
	s.Stop()

	out := buf.String()
	if !strings.Contains(out, "Converting") {
		t.Errorf("spinner never drew its message: %q", out)
	}
	if !strings.HasSuffix(out, "\r") {
		t.Errorf("spinner did not clear the line: %q", out)
	}
	if s.Cancelled() {
		t.Error("Stop is not a cancellation")
	}
}

func TestSpinnerStopIsIdempotent(t *testing.T) {
	var buf bytes.Buffer
	s := startSpinner(context.Background(), &buf, "x")
	s.Stop()
	n := buf.Len()
	s.Stop()
	s.Stop()
	if buf.Len() != n {
		t.Error("repeated Stop wrote again")
	}
}

func TestSpinnerParentCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	var buf bytes.Buffer
	s := startSpinner(ctx, &buf, "x")
	cancel()

	select {
	case <-s.done:
	case <-time.After(time.Second):
		t.Fatal("spinner kept running after cancel")
	}
	if !s.Cancelled() {
		t.Error("Cancelled should report the parent cancellation")
	}
	s.Stop()
}

func TestSpinnerTimeout(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	s := startSpinner(ctx, &bytes.Buffer{}, "x")
	<-s.done
	if !s.Cancelled() {
		t.Error("deadline should count as cancellation")
	}
	s.Stop()
}
