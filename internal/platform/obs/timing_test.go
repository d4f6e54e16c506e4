package obs

import (
	"bytes"
	"context"
	"errors"
	"log"
	"strings"
	"testing"
)

func captureLog(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := log.Writer()
	log.SetOutput(&buf)
	t.Cleanup(func() { log.SetOutput(prev) })
	return &buf
}

func TestRequestID(t *testing.T) {
	if got := RequestID(context.Background()); got != "-" {
		t.Fatalf("RequestID() = %q, want -", got)
	}
	if got := RequestID(WithRequestID(context.Background(), "r-1")); got != "r-1" {
		t.Fatalf("RequestID() = %q, want r-1", got)
	}
}

func TestTimeLogsError(t *testing.T) {
	buf := captureLog(t)
	ctx := WithRequestID(context.Background(), "r-2")

	err := errors.New("boom")
	Time(ctx, "ors.Optimize")(&err)

	line := buf.String()
	for _, want := range []string{"req_id=r-2", "op=ors.Optimize", "err=boom"} {
		if !strings.Contains(line, want) {
			t.Fatalf("log line %q missing %q", line, want)
		}
	}
}

func TestTimeWithoutError(t *testing.T) {
	buf := captureLog(t)

	var err error
	Time(context.Background(), "geometry.cache.Get")(&err)

	if strings.Contains(buf.String(), "err=") {
		t.Fatalf("unexpected error field in %q", buf.String())
	}
}
