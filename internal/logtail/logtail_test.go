package logtail

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"
)

func TestRead(t *testing.T) {
	tmpDir := t.TempDir()
	logPath := filepath.Join(tmpDir, "test.log")

	var content strings.Builder
	var expectedAll []string
	for i := 1; i <= 10; i++ {
		line := fmt.Sprintf("Line %d", i)
		content.WriteString(line + "\n")
		expectedAll = append(expectedAll, line)
	}

	if err := os.WriteFile(logPath, []byte(content.String()), 0644); err != nil {
		t.Fatalf("failed to create test log file: %v", err)
	}

	tests := []struct {
		name     string
		maxLines int
		expected []string
	}{
		{
			name:     "read all (0)",
			maxLines: 0,
			expected: expectedAll,
		},
		{
			name:     "read all (negative)",
			maxLines: -1,
			expected: expectedAll,
		},
		{
			name:     "read partial (5)",
			maxLines: 5,
			expected: expectedAll[5:],
		},
		{
			name:     "read exactly all (10)",
			maxLines: 10,
			expected: expectedAll,
		},
		{
			name:     "read more than exists (20)",
			maxLines: 20,
			expected: expectedAll,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Read(logPath, tt.maxLines)
			if err != nil {
				t.Fatalf("Read() error = %v", err)
			}
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("Read() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestRead_MissingFile(t *testing.T) {
	lines, err := Read(filepath.Join(t.TempDir(), "absent.log"), 10)
	if err != nil || lines != nil {
		t.Fatalf("Read(missing) = %v, %v; want nil, nil", lines, err)
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		level   string
		message string
		attrs   map[string]string
	}{
		{
			name:    "request line",
			input:   `time=2026-01-02T03:04:05.000Z level=DEBUG msg=request method=GET path=/tenders/ status=200 request_id=req_abc`,
			level:   "DEBUG",
			message: "request",
			attrs:   map[string]string{"method": "GET", "path": "/tenders/", "status": "200", "request_id": "req_abc"},
		},
		{
			name:    "quoted values",
			input:   `time=2026-01-02T03:04:05Z level=WARN msg="api error" detail="Invalid credentials" status=401`,
			level:   "WARN",
			message: "api error",
			attrs:   map[string]string{"detail": "Invalid credentials", "status": "401"},
		},
		{
			name:    "free text",
			input:   "panic: something odd happened",
			message: "panic: something odd happened",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := Parse(tt.input)
			if e.Level != tt.level || e.Message != tt.message {
				t.Fatalf("Parse() = level %q msg %q, want %q %q", e.Level, e.Message, tt.level, tt.message)
			}
			if e.Raw != tt.input {
				t.Fatalf("Raw = %q", e.Raw)
			}
			for k, want := range tt.attrs {
				got, ok := e.Attr(k)
				if !ok || got != want {
					t.Fatalf("Attr(%q) = %q, %v; want %q", k, got, ok, want)
				}
			}
			if len(e.Attrs) != len(tt.attrs) {
				t.Fatalf("Attrs = %v, want %d entries", e.Attrs, len(tt.attrs))
			}
		})
	}
}

func TestParse_Time(t *testing.T) {
	e := Parse(`time=2026-01-02T03:04:05.123Z level=INFO msg=started`)
	want := time.Date(2026, 1, 2, 3, 4, 5, 123000000, time.UTC)
	if !e.Time.Equal(want) {
		t.Fatalf("Time = %v, want %v", e.Time, want)
	}
}

func TestParseAll(t *testing.T) {
	got := ParseAll([]string{"level=INFO msg=a", "level=ERROR msg=b"})
	if len(got) != 2 || got[0].Message != "a" || got[1].Level != "ERROR" {
		t.Fatalf("ParseAll = %#v", got)
	}
}
