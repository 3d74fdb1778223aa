package status

import (
	"bytes"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/credprobe/credprobe/internal/credentials"
	"github.com/credprobe/credprobe/internal/targets"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestTracker(t *testing.T, total int, withLog bool) (*Tracker, *bytes.Buffer, string, string) {
	t.Helper()
	dir := t.TempDir()
	outputPath := filepath.Join(dir, "valid.txt")
	logPath := ""
	if withLog {
		logPath = filepath.Join(dir, "attempts.log")
	}

	sink, err := OpenSink(outputPath, logPath)
	if err != nil {
		t.Fatalf("OpenSink() error = %v", err)
	}
	t.Cleanup(func() { sink.Close() })

	var console bytes.Buffer
	tracker := NewTracker(total, sink, &console, func() int { return 200 }, discardLogger())
	return tracker, &console, outputPath, logPath
}

var (
	testTarget = targets.Target{Host: "10.0.0.1", Port: 22}
	testCred   = credentials.Credential{Username: "root", Password: "toor"}
)

func TestComplete_Success(t *testing.T) {
	tracker, console, outputPath, logPath := newTestTracker(t, 1, true)

	tracker.Complete(testTarget, testCred, true)

	completed, valid, unreachable := tracker.Snapshot()
	if completed != 1 || valid != 1 || unreachable != 0 {
		t.Errorf("Snapshot() = (%d, %d, %d), want (1, 1, 0)", completed, valid, unreachable)
	}

	output, err := os.ReadFile(outputPath)
	if err != nil {
		t.Fatalf("failed to read output file: %v", err)
	}
	if string(output) != "10.0.0.1:22:root:toor\n" {
		t.Errorf("output file = %q, want one host:port:username:password line", output)
	}

	logData, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("failed to read log file: %v", err)
	}
	if string(logData) != "SUCCESS 10.0.0.1:22 root:toor\n" {
		t.Errorf("log file = %q", logData)
	}

	if !strings.Contains(console.String(), "[+] VALID: 10.0.0.1:22 - root:toor") {
		t.Errorf("console missing success announcement: %q", console.String())
	}
}

func TestComplete_Failure(t *testing.T) {
	tracker, console, outputPath, logPath := newTestTracker(t, 3, true)

	for i := 0; i < 3; i++ {
		tracker.Complete(testTarget, testCred, false)
	}

	completed, valid, _ := tracker.Snapshot()
	if completed != 3 || valid != 0 {
		t.Errorf("Snapshot() = (%d, %d), want (3, 0)", completed, valid)
	}

	output, err := os.ReadFile(outputPath)
	if err != nil {
		t.Fatalf("failed to read output file: %v", err)
	}
	if len(output) != 0 {
		t.Errorf("output file should stay empty, got %q", output)
	}

	logData, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("failed to read log file: %v", err)
	}
	lines := strings.Split(strings.TrimSuffix(string(logData), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("log file has %d lines, want 3", len(lines))
	}
	for _, line := range lines {
		if line != "FAILED 10.0.0.1:22 root:toor" {
			t.Errorf("log line = %q", line)
		}
	}

	if strings.Contains(console.String(), "[+] VALID") {
		t.Error("console should carry no success announcement")
	}
}

func TestSkip_CountsAndLogsReason(t *testing.T) {
	tracker, _, _, logPath := newTestTracker(t, 2, true)

	tracker.Skip(testTarget, testCred, "connection refused")

	completed, valid, _ := tracker.Snapshot()
	if completed != 1 || valid != 0 {
		t.Errorf("Snapshot() = (%d, %d), want (1, 0)", completed, valid)
	}

	logData, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("failed to read log file: %v", err)
	}
	if string(logData) != "SKIPPED 10.0.0.1:22 root:toor connection refused\n" {
		t.Errorf("log file = %q", logData)
	}
}

func TestMarkUnreachable_FirstWriterWins(t *testing.T) {
	tracker, console, _, _ := newTestTracker(t, 4, false)

	if !tracker.MarkUnreachable(testTarget, "banner timeout") {
		t.Fatal("first MarkUnreachable() should report newly marked")
	}
	if tracker.MarkUnreachable(testTarget, "banner timeout") {
		t.Error("second MarkUnreachable() should be a no-op")
	}

	other := targets.Target{Host: "10.0.0.2", Port: 22}
	if !tracker.MarkUnreachable(other, "reset") {
		t.Error("a different target should mark independently")
	}

	if got := strings.Count(console.String(), "[!] Marking 10.0.0.1:22 as unreachable"); got != 1 {
		t.Errorf("announcement printed %d times, want 1", got)
	}

	_, _, unreachable := tracker.Snapshot()
	if unreachable != 2 {
		t.Errorf("unreachable hosts = %d, want 2", unreachable)
	}
}

func TestRender_OverwritesAndTruncates(t *testing.T) {
	dir := t.TempDir()
	sink, err := OpenSink(filepath.Join(dir, "valid.txt"), "")
	if err != nil {
		t.Fatalf("OpenSink() error = %v", err)
	}
	defer sink.Close()

	var console bytes.Buffer
	tracker := NewTracker(10, sink, &console, func() int { return 30 }, discardLogger())

	tracker.SetCurrent(testTarget, credentials.Credential{Username: "averylongusername", Password: "averylongpassword"})

	out := console.String()
	if !strings.HasPrefix(out, "\r\x1b[K") {
		t.Errorf("status line should start with carriage return + clear-to-EOL, got %q", out)
	}
	line := strings.TrimPrefix(out, "\r\x1b[K")
	if len(line) != 30 {
		t.Errorf("truncated line length = %d, want 30: %q", len(line), line)
	}
	if !strings.HasSuffix(line, "...") {
		t.Errorf("truncated line should end with ellipsis: %q", line)
	}
}

func TestRender_Format(t *testing.T) {
	tracker, console, _, _ := newTestTracker(t, 8, false)

	tracker.Complete(testTarget, testCred, false)

	if !strings.Contains(console.String(), "[1/8 (12.5%)] Valid: 0 | Testing: 10.0.0.1:22 - root:toor") {
		t.Errorf("status line format mismatch: %q", console.String())
	}
}

func TestSink_NoLogConfigured(t *testing.T) {
	sink, err := OpenSink(filepath.Join(t.TempDir(), "valid.txt"), "")
	if err != nil {
		t.Fatalf("OpenSink() error = %v", err)
	}
	defer sink.Close()

	if err := sink.Attempt("FAILED", testTarget, testCred, ""); err != nil {
		t.Errorf("Attempt() without a log file should be a no-op, got %v", err)
	}
}
