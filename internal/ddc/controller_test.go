package ddc

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeTool writes a shell script acting as ddccontrol and returns its path.
// The script appends its arguments to argsFile and prints stdout.
func fakeTool(t *testing.T, stdout string, exitCode int) (tool, argsFile string) {
	t.Helper()
	dir := t.TempDir()
	tool = filepath.Join(dir, "ddccontrol")
	argsFile = filepath.Join(dir, "args")

	script := fmt.Sprintf("#!/bin/sh\necho \"$@\" >> %q\nprintf '%%s\\n' %q\nexit %d\n", argsFile, stdout, exitCode)
	if err := os.WriteFile(tool, []byte(script), 0o755); err != nil {
		t.Fatalf("write fake tool: %v", err)
	}
	return tool, argsFile
}

func newTestController(t *testing.T, stdout string, exitCode int) (*Controller, string) {
	t.Helper()
	tool, argsFile := fakeTool(t, stdout, exitCode)
	c := New(Config{
		Tool:     tool,
		Device:   "/dev/i2c-3",
		Register: "0x10",
		Timeout:  2 * time.Second,
	}, testLogger())
	return c, argsFile
}

func recordedArgs(t *testing.T, argsFile string) string {
	t.Helper()
	data, err := os.ReadFile(argsFile)
	if err != nil {
		t.Fatalf("read recorded args: %v", err)
	}
	return strings.TrimSpace(string(data))
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		name   string
		output string
		want   int
		ok     bool
	}{
		{"slash format", "Control 0x10: +/70/100 [Brightness]", 70, true},
		{"current value format", " > current value = 42", 42, true},
		{"multiline picks first match", "noise\nControl 0x10: +/55/100 [Brightness]\n > current value = 99", 55, true},
		{"no pattern", "Device not responding", 0, false},
		{"empty", "", 0, false},
		{"zero level", "Control 0x10: +/0/100 [Brightness]", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := parseLevel(tt.output)
			if ok != tt.ok {
				t.Fatalf("parseLevel ok = %v, want %v", ok, tt.ok)
			}
			if got != tt.want {
				t.Errorf("parseLevel = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestGet(t *testing.T) {
	c, argsFile := newTestController(t, "Control 0x10: +/70/100 [Brightness]", 0)

	level, err := c.Get(context.Background())
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if level != 70 {
		t.Errorf("Get() = %d, want 70", level)
	}
	if got := recordedArgs(t, argsFile); got != "-r 0x10 dev:/dev/i2c-3" {
		t.Errorf("tool invoked with %q", got)
	}
}

func TestGetNonZeroExitWithParsableOutput(t *testing.T) {
	// ddccontrol exits non-zero on some warnings but still prints the level
	c, _ := newTestController(t, " > current value = 42", 1)

	level, err := c.Get(context.Background())
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if level != 42 {
		t.Errorf("Get() = %d, want 42", level)
	}
}

func TestGetUnparsableOutput(t *testing.T) {
	c, _ := newTestController(t, "Error while reading!", 0)

	if _, err := c.Get(context.Background()); !errors.Is(err, ErrUnknown) {
		t.Errorf("Get() error = %v, want ErrUnknown", err)
	}
}

func TestGetMissingTool(t *testing.T) {
	c := New(Config{
		Tool:     "/nonexistent/ddccontrol",
		Device:   "/dev/i2c-3",
		Register: "0x10",
	}, testLogger())

	if _, err := c.Get(context.Background()); !errors.Is(err, ErrUnknown) {
		t.Errorf("Get() error = %v, want ErrUnknown", err)
	}
}

func TestGetTimeout(t *testing.T) {
	dir := t.TempDir()
	tool := filepath.Join(dir, "ddccontrol")
	if err := os.WriteFile(tool, []byte("#!/bin/sh\nsleep 10\n"), 0o755); err != nil {
		t.Fatalf("write fake tool: %v", err)
	}

	c := New(Config{
		Tool:     tool,
		Device:   "/dev/i2c-3",
		Register: "0x10",
		Timeout:  100 * time.Millisecond,
	}, testLogger())

	start := time.Now()
	_, err := c.Get(context.Background())
	if !errors.Is(err, ErrUnknown) {
		t.Errorf("Get() error = %v, want ErrUnknown", err)
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Errorf("Get() did not honor timeout, took %v", elapsed)
	}
}

func TestSet(t *testing.T) {
	c, argsFile := newTestController(t, "", 0)

	if err := c.Set(context.Background(), 60); err != nil {
		t.Fatalf("Set() error: %v", err)
	}
	if got := recordedArgs(t, argsFile); got != "-r 0x10 -w 60 dev:/dev/i2c-3" {
		t.Errorf("tool invoked with %q", got)
	}
}

func TestSetClampsValue(t *testing.T) {
	tests := []struct {
		name  string
		value int
		want  string
	}{
		{"above max", 150, "-r 0x10 -w 100 dev:/dev/i2c-3"},
		{"below min", -20, "-r 0x10 -w 0 dev:/dev/i2c-3"},
		{"in range", 42, "-r 0x10 -w 42 dev:/dev/i2c-3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, argsFile := newTestController(t, "", 0)
			if err := c.Set(context.Background(), tt.value); err != nil {
				t.Fatalf("Set() error: %v", err)
			}
			if got := recordedArgs(t, argsFile); got != tt.want {
				t.Errorf("tool invoked with %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSetNonZeroExit(t *testing.T) {
	c, _ := newTestController(t, "", 1)

	if err := c.Set(context.Background(), 50); err == nil {
		t.Error("Set() should fail on non-zero exit")
	}
}

func TestClamp(t *testing.T) {
	tests := []struct {
		v, lo, hi, want int
	}{
		{-5, 0, 100, 0},
		{0, 0, 100, 0},
		{50, 0, 100, 50},
		{100, 0, 100, 100},
		{101, 0, 100, 100},
		{30, 40, 60, 40},
		{70, 40, 60, 60},
	}

	for _, tt := range tests {
		if got := Clamp(tt.v, tt.lo, tt.hi); got != tt.want {
			t.Errorf("Clamp(%d, %d, %d) = %d, want %d", tt.v, tt.lo, tt.hi, got, tt.want)
		}
	}
}
