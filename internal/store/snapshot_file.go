package store

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/ldi/taskdeck/embed/schema"
	"github.com/ldi/taskdeck/pkg/models"
	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

const snapshotVersion = 1

type metaRecord struct {
	RecordType string    `json:"record_type"`
	Version    int       `json:"version"`
	ExportedAt string    `json:"exported_at"`
	Counts     metaCount `json:"counts"`
}

type metaCount struct {
	Members  int `json:"members"`
	Projects int `json:"projects"`
	Tasks    int `json:"tasks"`
}

type memberRecord struct {
	RecordType string `json:"record_type"`
	*models.Member
}

type projectRecord struct {
	RecordType string `json:"record_type"`
	*models.Project
}

type taskRecord struct {
	RecordType string `json:"record_type"`
	*models.Task
}

var recordSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	compiler.AssertFormat = true
	if err := compiler.AddResource(schema.RecordURL, strings.NewReader(schema.Record)); err != nil {
		return nil, fmt.Errorf("failed to load record schema: %w", err)
	}
	sch, err := compiler.Compile(schema.RecordURL)
	if err != nil {
		return nil, fmt.Errorf("failed to compile record schema: %w", err)
	}
	return sch, nil
})

// EnableAutoSnapshot sets up a hook that exports a snapshot to path after
// every successful write. Export failures are reported to the logger only.
func (s *Store) EnableAutoSnapshot(path string) {
	s.SetOnChange(func(ctx context.Context) {
		if err := s.ExportSnapshot(ctx, path); err != nil {
			s.logger.Error("auto snapshot failed", "path", path, "err", err)
		}
	})
}

// ExportSnapshot writes the current contents as JSONL (one meta record, then
// members, projects and tasks in insertion order) to path atomically using a
// temporary file.
func (s *Store) ExportSnapshot(ctx context.Context, path string) error {
	snap := s.Snapshot()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create snapshot directory: %w", err)
	}

	tempFile, err := os.CreateTemp(dir, "snapshot-*.jsonl")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer func() {
		if tempFile != nil {
			tempFile.Close()
			os.Remove(tempFile.Name())
		}
	}()

	w := bufio.NewWriter(tempFile)
	enc := json.NewEncoder(w)

	meta := metaRecord{
		RecordType: "meta",
		Version:    snapshotVersion,
		ExportedAt: s.now().UTC().Format(time.RFC3339),
		Counts: metaCount{
			Members:  len(snap.Members),
			Projects: len(snap.Projects),
			Tasks:    len(snap.Tasks),
		},
	}
	if err := enc.Encode(meta); err != nil {
		return fmt.Errorf("failed to write meta record: %w", err)
	}
	for _, m := range snap.Members {
		if err := enc.Encode(memberRecord{RecordType: "member", Member: m}); err != nil {
			return fmt.Errorf("failed to write member %s: %w", m.ID, err)
		}
	}
	for _, p := range snap.Projects {
		if err := enc.Encode(projectRecord{RecordType: "project", Project: p}); err != nil {
			return fmt.Errorf("failed to write project %s: %w", p.ID, err)
		}
	}
	for _, t := range snap.Tasks {
		if err := enc.Encode(taskRecord{RecordType: "task", Task: t}); err != nil {
			return fmt.Errorf("failed to write task %s: %w", t.ID, err)
		}
	}

	if err := w.Flush(); err != nil {
		return fmt.Errorf("failed to flush snapshot: %w", err)
	}

	if err := tempFile.Sync(); err != nil {
		return fmt.Errorf("failed to sync temp file: %w", err)
	}

	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	filename := tempFile.Name()
	tempFile = nil // Prevent defer from removing it

	if err := os.Rename(filename, path); err != nil {
		os.Remove(filename)
		return fmt.Errorf("failed to rename temp file: %w", err)
	}

	s.logger.Debug("snapshot exported", "path", path, "tasks", len(snap.Tasks))
	return nil
}

// ImportSnapshot reads a JSONL snapshot, validates every line against the
// record schema and upserts the records as a single batch.
func (s *Store) ImportSnapshot(ctx context.Context, path string) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open snapshot file: %w", err)
	}
	defer file.Close()

	sch, err := recordSchema()
	if err != nil {
		return err
	}

	items := newStagedItems()
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Bytes()
		if len(strings.TrimSpace(string(line))) == 0 {
			continue
		}

		var doc any
		if err := json.Unmarshal(line, &doc); err != nil {
			return fmt.Errorf("line %d: failed to unmarshal record: %w", lineNo, err)
		}
		if err := sch.Validate(doc); err != nil {
			return fmt.Errorf("line %d: invalid record: %w", lineNo, err)
		}

		var base struct {
			RecordType string `json:"record_type"`
		}
		if err := json.Unmarshal(line, &base); err != nil {
			return fmt.Errorf("line %d: failed to unmarshal base record: %w", lineNo, err)
		}

		switch base.RecordType {
		case "meta":
			// Skip meta
		case "member":
			m := &models.Member{}
			if err := json.Unmarshal(line, m); err != nil {
				return fmt.Errorf("line %d: failed to unmarshal member: %w", lineNo, err)
			}
			items.Members = append(items.Members, m)
		case "project":
			p := &models.Project{}
			if err := json.Unmarshal(line, p); err != nil {
				return fmt.Errorf("line %d: failed to unmarshal project: %w", lineNo, err)
			}
			items.Projects = append(items.Projects, p)
		case "task":
			t := &models.Task{}
			if err := json.Unmarshal(line, t); err != nil {
				return fmt.Errorf("line %d: failed to unmarshal task: %w", lineNo, err)
			}
			items.Tasks = append(items.Tasks, t)
		default:
			return fmt.Errorf("line %d: unknown record type %q", lineNo, base.RecordType)
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("scanner error: %w", err)
	}

	if err := s.ApplyBatch(ctx, items); err != nil {
		return fmt.Errorf("failed to import snapshot: %w", err)
	}

	s.logger.Info("snapshot imported", "path", path,
		"members", len(items.Members), "projects", len(items.Projects), "tasks", len(items.Tasks))
	return nil
}
