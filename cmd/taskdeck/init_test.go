package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/BurntSushi/toml"
	"github.com/ldi/taskdeck/internal/config"
)

func TestInit(t *testing.T) {
	dir := chdirTemp(t)
	target := filepath.Join(dir, "project")

	output, err := runCLI(t, "init", target)
	if err != nil {
		t.Fatalf("init failed: %v", err)
	}
	if !strings.Contains(output, "initialized successfully") {
		t.Errorf("unexpected init output: %s", output)
	}

	dataDir := filepath.Join(target, ".taskdeck")
	if _, err := os.Stat(dataDir); os.IsNotExist(err) {
		t.Errorf(".taskdeck directory was not created")
	}

	content, err := os.ReadFile(filepath.Join(dataDir, ".gitignore"))
	if err != nil {
		t.Errorf("failed to read .gitignore: %v", err)
	}
	if string(content) != "*.log\n" {
		t.Errorf(".gitignore content mismatch: got %q", string(content))
	}

	var cfg config.Config
	if _, err := toml.DecodeFile(filepath.Join(dataDir, "config.toml"), &cfg); err != nil {
		t.Fatalf("failed to decode config: %v", err)
	}
	if !cfg.Seed || !cfg.StrictReferences || cfg.SnapshotPath != config.DefaultSnapshotPath {
		t.Errorf("unexpected default config: %+v", cfg)
	}

	snapshot, err := os.ReadFile(filepath.Join(dataDir, "snapshot.jsonl"))
	if err != nil {
		t.Fatalf("snapshot was not written: %v", err)
	}
	if lines := strings.Count(string(snapshot), "\n"); lines != 14 {
		t.Errorf("expected 14 snapshot lines, got %d", lines)
	}
}

func TestInitWithExistingSnapshot(t *testing.T) {
	dir := chdirTemp(t)

	exportPath := filepath.Join(dir, "seeded.jsonl")
	if _, err := runCLI(t, "export", exportPath); err != nil {
		t.Fatalf("export failed: %v", err)
	}

	target := filepath.Join(dir, "project")
	dataDir := filepath.Join(target, ".taskdeck")
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		t.Fatalf("failed to create .taskdeck dir: %v", err)
	}
	data, err := os.ReadFile(exportPath)
	if err != nil {
		t.Fatalf("failed to read export: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dataDir, "snapshot.jsonl"), data, 0644); err != nil {
		t.Fatalf("failed to write snapshot: %v", err)
	}

	output, err := runCLI(t, "--seed=false", "init", target)
	if err != nil {
		t.Fatalf("init failed: %v", err)
	}
	if !strings.Contains(output, "Imported snapshot") {
		t.Errorf("expected existing snapshot to be imported: %s", output)
	}
}

func TestInitRejectsCorruptSnapshot(t *testing.T) {
	dir := chdirTemp(t)
	dataDir := filepath.Join(dir, ".taskdeck")
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		t.Fatalf("failed to create .taskdeck dir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dataDir, "snapshot.jsonl"), []byte("{not json\n"), 0644); err != nil {
		t.Fatalf("failed to write snapshot: %v", err)
	}

	if _, err := runCLI(t, "init"); err == nil {
		t.Fatal("expected init to fail on a corrupt snapshot")
	}
}
