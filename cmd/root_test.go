package cmd

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// fakeTool writes a shell script standing in for ddccontrol and returns
// its path. The script records its arguments and prints stdout.
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

// execRoot runs the root command headless with the given args and a
// nonexistent config file, capturing stdout.
func execRoot(t *testing.T, args ...string) (stdout string, err error) {
	t.Helper()
	var out bytes.Buffer
	cmd := CreateRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--config", filepath.Join(t.TempDir(), "missing.toml")}, args...))
	err = cmd.Execute()
	return out.String(), err
}

func TestGetPrintsLevel(t *testing.T) {
	tool, _ := fakeTool(t, "Control 0x10: +/70/100 C", 0)

	stdout, err := execRoot(t, "--get", "--tool", tool)
	if err != nil {
		t.Fatalf("--get error: %v", err)
	}
	if got := strings.TrimSpace(stdout); got != "70" {
		t.Errorf("--get printed %q, want 70", got)
	}
}

func TestGetUnreadableFailsWithEmptyStdout(t *testing.T) {
	stdout, err := execRoot(t, "--get", "--tool", filepath.Join(t.TempDir(), "missing-tool"))
	if err == nil {
		t.Fatal("--get with a missing tool should fail")
	}
	if stdout != "" {
		t.Errorf("--get emitted %q on failure, want empty stdout", stdout)
	}
}

func TestGetUnparsableOutputFails(t *testing.T) {
	tool, _ := fakeTool(t, "nothing useful here", 0)

	stdout, err := execRoot(t, "--get", "--tool", tool)
	if err == nil {
		t.Fatal("--get with unparsable output should fail")
	}
	if stdout != "" {
		t.Errorf("--get emitted %q on failure, want empty stdout", stdout)
	}
}

func TestSetWritesValue(t *testing.T) {
	tool, argsFile := fakeTool(t, "", 0)

	if _, err := execRoot(t, "--set", "60", "--tool", tool); err != nil {
		t.Fatalf("--set error: %v", err)
	}

	data, err := os.ReadFile(argsFile)
	if err != nil {
		t.Fatalf("read recorded args: %v", err)
	}
	want := "-r 0x10 -w 60 dev:/dev/i2c-3"
	if got := strings.TrimSpace(string(data)); got != want {
		t.Errorf("tool ran with %q, want %q", got, want)
	}
}

func TestSetFailsOnToolError(t *testing.T) {
	tool, _ := fakeTool(t, "", 1)

	if _, err := execRoot(t, "--set", "60", "--tool", tool); err == nil {
		t.Fatal("--set should fail when the tool exits non-zero")
	}
}

func TestDeviceAndRegisterShorthands(t *testing.T) {
	tool, argsFile := fakeTool(t, "", 0)

	if _, err := execRoot(t, "--set", "40", "--tool", tool, "-d", "/dev/i2c-7", "-r", "0x12"); err != nil {
		t.Fatalf("--set with shorthands error: %v", err)
	}

	data, err := os.ReadFile(argsFile)
	if err != nil {
		t.Fatalf("read recorded args: %v", err)
	}
	want := "-r 0x12 -w 40 dev:/dev/i2c-7"
	if got := strings.TrimSpace(string(data)); got != want {
		t.Errorf("tool ran with %q, want %q", got, want)
	}
}
