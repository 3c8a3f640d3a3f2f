package config

import (
	"flag"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func newFlagSet() *flag.FlagSet {
	return flag.NewFlagSet("taskdeck", flag.ContinueOnError)
}

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	fs := newFlagSet()
	cfg, err := Load(fs, []string{"status"})
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.SnapshotPath != filepath.Clean(DefaultSnapshotPath) {
		t.Errorf("SnapshotPath = %q", cfg.SnapshotPath)
	}
	if !cfg.Seed || !cfg.StrictReferences {
		t.Errorf("expected seed and strict references on by default: %+v", cfg)
	}
	if cfg.LogLevel != "info" || cfg.LogFormat != "text" {
		t.Errorf("unexpected log defaults: %q %q", cfg.LogLevel, cfg.LogFormat)
	}
	if cfg.ConfigFile != "" {
		t.Errorf("expected no config file, got %q", cfg.ConfigFile)
	}
	if fs.Arg(0) != "status" {
		t.Errorf("expected remaining arg status, got %v", fs.Args())
	}
}

func TestLoadPrecedence(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	if err := os.MkdirAll(DefaultDir, 0755); err != nil {
		t.Fatal(err)
	}
	fileCfg := `snapshot_path = "from-file.jsonl"
seed = false
log_level = "warn"
log_format = "json"
`
	if err := os.WriteFile(DefaultConfigFile, []byte(fileCfg), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(DotEnvFile, []byte("TASKDECK_LOG_FORMAT=logfmt\nTASKDECK_LOG_FILE=from-dotenv.log\n"), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("TASKDECK_LOG_FILE", "from-env.log")
	t.Setenv("TASKDECK_STRICT_REFERENCES", "false")

	cfg, err := Load(newFlagSet(), []string{"-log-level", "error"})
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.ConfigFile != DefaultConfigFile {
		t.Errorf("ConfigFile = %q", cfg.ConfigFile)
	}
	if cfg.SnapshotPath != "from-file.jsonl" || cfg.Seed {
		t.Errorf("file values not applied: %+v", cfg)
	}
	if cfg.LogFormat != "logfmt" {
		t.Errorf("expected .env to override file, got %q", cfg.LogFormat)
	}
	if cfg.LogFile != "from-env.log" {
		t.Errorf("expected process env to win over .env, got %q", cfg.LogFile)
	}
	if cfg.StrictReferences {
		t.Error("expected env to disable strict references")
	}
	if cfg.LogLevel != "error" {
		t.Errorf("expected flag to win, got %q", cfg.LogLevel)
	}
}

func TestVerboseFlag(t *testing.T) {
	t.Chdir(t.TempDir())
	cfg, err := Load(newFlagSet(), []string{"-verbose"})
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("expected debug level, got %q", cfg.LogLevel)
	}
}

func TestClock(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load(newFlagSet(), []string{"-now", "2024-03-01T12:00:00Z"})
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	want := time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC)
	if got := cfg.Clock()(); !got.Equal(want) {
		t.Errorf("Clock() = %v, want %v", got, want)
	}

	live := Default()
	before := time.Now()
	if got := live.Clock()(); got.Before(before) {
		t.Errorf("expected wall clock, got %v", got)
	}
}

func TestLoadRejectsBadNow(t *testing.T) {
	t.Chdir(t.TempDir())
	if _, err := Load(newFlagSet(), []string{"-now", "yesterday"}); err == nil {
		t.Fatal("expected error for invalid now")
	}
}

func TestLoadRejectsBadFile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	path := filepath.Join(dir, "broken.toml")
	if err := os.WriteFile(path, []byte("seed = ["), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("TASKDECK_CONFIG", path)

	if _, err := Load(newFlagSet(), nil); err == nil {
		t.Fatal("expected error for malformed TOML")
	}
}

func TestLogOptions(t *testing.T) {
	cfg := Default()
	cfg.LogFile = "x.log"
	opts := cfg.LogOptions()
	if opts.Level != "info" || opts.File != "x.log" || opts.Prefix != "taskdeck" {
		t.Errorf("unexpected options: %+v", opts)
	}
}
