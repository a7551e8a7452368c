package outcome

import (
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/spf13/afero"
)

func TestAppend_WritesTimestampedLines(t *testing.T) {
	fs := afero.NewMemMapFs()
	l := NewLog(fs, "/logs/post_log.txt")
	l.now = func() time.Time { return time.Date(2026, 9, 15, 9, 30, 5, 0, time.UTC) }

	l.Append("first event")
	l.Append("second event")

	data, err := afero.ReadFile(fs, "/logs/post_log.txt")
	if err != nil {
		t.Fatalf("log file not written: %v", err)
	}

	want := "2026-09-15 09:30:05: first event\n2026-09-15 09:30:05: second event\n"
	if string(data) != want {
		t.Errorf("got %q, want %q", data, want)
	}
}

func TestAppend_ConcurrentWritesDoNotInterleave(t *testing.T) {
	fs := afero.NewMemMapFs()
	l := NewLog(fs, "post_log.txt")

	const n = 20
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			l.Append("concurrent entry")
		}()
	}
	wg.Wait()

	data, err := afero.ReadFile(fs, "post_log.txt")
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	if len(lines) != n {
		t.Fatalf("got %d lines, want %d", len(lines), n)
	}
	for i, line := range lines {
		if !strings.HasSuffix(line, ": concurrent entry") {
			t.Errorf("line %d corrupted: %q", i, line)
		}
	}
}

func TestAppend_FailureDoesNotPanic(t *testing.T) {
	fs := afero.NewReadOnlyFs(afero.NewMemMapFs())
	l := NewLog(fs, "/logs/post_log.txt")

	// Best-effort contract: a log that cannot be written must not abort
	// the caller.
	l.Append("goes nowhere")
}
