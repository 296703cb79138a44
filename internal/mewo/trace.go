package mewo

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// TraceEntry is one spawned command recorded for the --trace-file debug
// artifact.
type TraceEntry struct {
	Line     int    `yaml:"line"`
	Kind     string `yaml:"kind"`
	ExitCode int    `yaml:"exit_code"`
}

// Trace accumulates TraceEntry records during a run and persists them
// atomically, mirroring the teacher's YAMLWorkflowStore.Save write-then-
// rename idiom so a crash mid-run never leaves a half-written trace file.
type Trace struct {
	path    string
	entries []TraceEntry
}

// NewTrace creates a Trace that will be written to path on Flush. An empty
// path disables persistence; Record still accumulates entries in memory.
func NewTrace(path string) *Trace {
	return &Trace{path: path}
}

// Record appends one entry. Safe to call even when path is empty.
func (t *Trace) Record(line int, kind string, exitCode int) {
	t.entries = append(t.entries, TraceEntry{Line: line, Kind: kind, ExitCode: exitCode})
}

// Flush marshals the accumulated entries to YAML and writes them to the
// configured path via a temp-file-then-rename, skipping entirely if no
// path was configured.
func (t *Trace) Flush() error {
	if t.path == "" {
		return nil
	}

	data, err := yaml.Marshal(t.entries)
	if err != nil {
		return fmt.Errorf("marshaling trace: %w", err)
	}

	tmpPath := t.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return fmt.Errorf("writing trace temp file: %w", err)
	}
	if err := os.Rename(tmpPath, t.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("renaming trace file: %w", err)
	}
	return nil
}
