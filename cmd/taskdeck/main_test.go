package main

import (
	"bytes"
	"errors"
	"flag"
	"os"
	"strings"
	"testing"
)

const testNow = "--now=2024-03-01T12:00:00Z"

// runCLI executes the command line in a fresh working directory so the
// default config and snapshot paths never leak between tests.
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	err := execute(args, &stdout, &stderr)
	return stdout.String(), err
}

func chdirTemp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	return dir
}

func TestExecuteRejectsUnknownCommand(t *testing.T) {
	chdirTemp(t)

	_, err := runCLI(t, "work")
	if err == nil {
		t.Fatal("expected error for unknown command")
	}
	if !strings.Contains(err.Error(), "unknown command: work") {
		t.Fatalf("expected unknown command error, got: %v", err)
	}
}

func TestExecuteHelpListsCommandsAndFlags(t *testing.T) {
	chdirTemp(t)

	var stdout, stderr bytes.Buffer
	err := execute([]string{"--help"}, &stdout, &stderr)
	if !errors.Is(err, flag.ErrHelp) {
		t.Fatalf("expected help error, got: %v", err)
	}

	output := stderr.String()
	for _, want := range []string{
		"with no command opens the interactive menu",
		"list-tasks",
		"-snapshot-path",
		"-strict-references",
		"-now",
		"-verbose",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("help output missing %q: %s", want, output)
		}
	}
}

func TestExecuteRejectsInvalidNow(t *testing.T) {
	chdirTemp(t)

	if _, err := runCLI(t, "--now=yesterday", "status"); err == nil {
		t.Fatal("expected error for invalid --now")
	}
}

func TestExecuteRunsMenuSelection(t *testing.T) {
	chdirTemp(t)

	original := runMenu
	t.Cleanup(func() { runMenu = original })

	called := false
	runMenu = func() (string, error) {
		called = true
		return "status", nil
	}

	output, err := runCLI(t, testNow)
	if err != nil {
		t.Fatalf("execute failed: %v", err)
	}
	if !called {
		t.Fatal("expected execution without a command to open the menu")
	}
	if !strings.Contains(output, "Taskdeck Status") {
		t.Errorf("expected status output from menu selection, got: %s", output)
	}
}

func TestExecuteMenuQuitDoesNothing(t *testing.T) {
	chdirTemp(t)

	original := runMenu
	t.Cleanup(func() { runMenu = original })
	runMenu = func() (string, error) { return "", nil }

	output, err := runCLI(t)
	if err != nil {
		t.Fatalf("execute failed: %v", err)
	}
	if output != "" {
		t.Errorf("expected no output after quitting the menu, got: %s", output)
	}
}

func TestExecuteMenuExport(t *testing.T) {
	chdirTemp(t)

	original := runMenu
	t.Cleanup(func() { runMenu = original })
	runMenu = func() (string, error) { return "export", nil }

	output, err := runCLI(t)
	if err != nil {
		t.Fatalf("execute failed: %v", err)
	}
	if !strings.Contains(output, "Exported 4 members") {
		t.Errorf("expected export output from menu selection, got: %s", output)
	}
	if _, err := os.Stat(".taskdeck/snapshot.jsonl"); err != nil {
		t.Errorf("expected snapshot at the default path: %v", err)
	}
}
