package runner

import (
	"bufio"
	"encoding/json"
	"os"

	"github.com/softmatterlab/activebrownian/pkg/sim"
)

// SnapshotSink receives periodic copies of the particle state while a
// run is in progress.
type SnapshotSink interface {
	OnStart(totalSteps, snapEvery int) error
	OnSnapshot(step int, t float64, s *sim.State) error
	OnEnd(finalT float64) error
	Close() error
}

// JSONLSnapshotWriter streams snapshots to disk, one JSON record per
// line.
type JSONLSnapshotWriter struct {
	f  *os.File
	bw *bufio.Writer
}

type jsonlSnapshot struct {
	Step  int       `json:"step"`
	Time  float64   `json:"time"`
	X     []float64 `json:"x"`
	Y     []float64 `json:"y"`
	Theta []float64 `json:"theta"`
}

// NewJSONLSnapshotWriter creates (truncating) the snapshot file at path.
func NewJSONLSnapshotWriter(path string) (*JSONLSnapshotWriter, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	return &JSONLSnapshotWriter{f: f, bw: bufio.NewWriter(f)}, nil
}

func (w *JSONLSnapshotWriter) OnStart(totalSteps, snapEvery int) error { return nil }

func (w *JSONLSnapshotWriter) OnSnapshot(step int, t float64, s *sim.State) error {
	x, y := s.Positions()
	rec := jsonlSnapshot{Step: step, Time: t, X: x, Y: y, Theta: s.Orientations()}
	b, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	if _, err := w.bw.Write(b); err != nil {
		return err
	}
	return w.bw.WriteByte('\n')
}

func (w *JSONLSnapshotWriter) OnEnd(finalT float64) error { return w.bw.Flush() }

func (w *JSONLSnapshotWriter) Close() error {
	if w.bw != nil {
		_ = w.bw.Flush()
	}
	if w.f != nil {
		return w.f.Close()
	}
	return nil
}
