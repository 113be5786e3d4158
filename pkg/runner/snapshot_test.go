package runner

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func TestJSONLSnapshotWriter(t *testing.T) {
	state := buildState(t)
	path := filepath.Join(t.TempDir(), "snapshots.jsonl")

	w, err := NewJSONLSnapshotWriter(path)
	if err != nil {
		t.Fatal(err)
	}

	if err := w.OnStart(100, 50); err != nil {
		t.Fatal(err)
	}
	if err := w.OnSnapshot(50, 0.05, state); err != nil {
		t.Fatal(err)
	}
	state.Evolve()
	if err := w.OnSnapshot(100, 0.1, state); err != nil {
		t.Fatal(err)
	}
	if err := w.OnEnd(0.1); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	var records []jsonlSnapshot
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 1024*1024), 1024*1024)
	for scanner.Scan() {
		var rec jsonlSnapshot
		if err := json.Unmarshal(scanner.Bytes(), &rec); err != nil {
			t.Fatalf("invalid snapshot line: %v", err)
		}
		records = append(records, rec)
	}
	if err := scanner.Err(); err != nil {
		t.Fatal(err)
	}

	if len(records) != 2 {
		t.Fatalf("read %d snapshot records, want 2", len(records))
	}
	if records[0].Step != 50 || records[1].Step != 100 {
		t.Fatalf("steps %d, %d, want 50, 100", records[0].Step, records[1].Step)
	}
	for _, rec := range records {
		if len(rec.X) != state.N() || len(rec.Y) != state.N() || len(rec.Theta) != state.N() {
			t.Fatalf("snapshot arrays sized %d/%d/%d, want %d",
				len(rec.X), len(rec.Y), len(rec.Theta), state.N())
		}
	}
}
