package logtail

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestRead(t *testing.T) {
	tmpDir := t.TempDir()
	logPath := filepath.Join(tmpDir, "dex.log")

	var content strings.Builder
	var expectedAll []string
	for i := 1; i <= 10; i++ {
		line := fmt.Sprintf("level=INFO msg=\"line %d\"", i)
		content.WriteString(line + "\n")
		expectedAll = append(expectedAll, line)
	}
	if err := os.WriteFile(logPath, []byte(content.String()), 0o644); err != nil {
		t.Fatalf("failed to create test log file: %v", err)
	}

	tests := []struct {
		name     string
		maxLines int
		expected []string
	}{
		{name: "zero lines", maxLines: 0, expected: nil},
		{name: "negative", maxLines: -1, expected: nil},
		{name: "tail of 5", maxLines: 5, expected: expectedAll[5:]},
		{name: "exactly all", maxLines: 10, expected: expectedAll},
		{name: "more than exists", maxLines: 20, expected: expectedAll},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Read(logPath, tt.maxLines)
			if err != nil {
				t.Fatalf("Read() error = %v", err)
			}
			if !reflect.DeepEqual(got, tt.expected) {
				t.Fatalf("Read() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestRead_MissingFile(t *testing.T) {
	got, err := Read(filepath.Join(t.TempDir(), "absent.log"), 10)
	if err != nil {
		t.Fatalf("Read() error = %v, want nil for missing file", err)
	}
	if got != nil {
		t.Fatalf("Read() = %v, want nil", got)
	}
}

func TestRead_EmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.log")
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	got, err := Read(path, 10)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("Read() = %v, want empty", got)
	}
}

func TestLevel(t *testing.T) {
	cases := map[string]string{
		`time=2026-01-02T15:04:05Z level=INFO msg="load cycle ready" items=150`: "INFO",
		`time=2026-01-02T15:04:05Z level=warn msg=x`:                             "WARN",
		`level=ERROR msg="load cycle failed"`:                                    "ERROR",
		`plain text without fields`:                                              "",
	}
	for line, want := range cases {
		if got := Level(line); got != want {
			t.Fatalf("Level(%q) = %q, want %q", line, got, want)
		}
	}
}

func TestMessage(t *testing.T) {
	cases := map[string]string{
		`level=INFO msg="load cycle ready" items=150`:      "load cycle ready",
		`level=INFO msg=started cycle=abc`:                 "started",
		`level=WARN msg="said \"hi\" twice" endpoint=list`: `said "hi" twice`,
		`level=INFO msg=last`:                              "last",
		`no message here`:                                  "no message here",
	}
	for line, want := range cases {
		if got := Message(line); got != want {
			t.Fatalf("Message(%q) = %q, want %q", line, got, want)
		}
	}
}
