package observables

import (
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"strconv"
)

// WriteCSV writes the accumulated histogram to path, one row per
// non-empty bin with the bin midpoints in physical units.
func (c *Correlations) WriteCSV(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create correlations file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	var header []string
	switch {
	case c.cfg.Cartesian:
		header = []string{"dx", "dy", "dtheta", "count"}
	case c.cfg.LessObs:
		header = []string{"r", "theta1", "count"}
	default:
		header = []string{"r", "theta1", "theta2", "count"}
	}
	if err := w.Write(header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	angleStep := 2 * math.Pi / float64(c.cfg.NDivAngle)
	ftoa := func(v float64) string { return strconv.FormatFloat(v, 'g', 12, 64) }

	for idx, count := range c.counts {
		if count == 0 {
			continue
		}
		var row []string
		switch {
		case c.cfg.Cartesian:
			bt := idx % c.cfg.NDivAngle
			by := (idx / c.cfg.NDivAngle) % c.nDivR
			bx := idx / (c.cfg.NDivAngle * c.nDivR)
			row = []string{
				ftoa((float64(bx)+0.5)*c.cfg.StepR - c.length/2),
				ftoa((float64(by)+0.5)*c.cfg.StepR - c.length/2),
				ftoa((float64(bt) + 0.5) * angleStep),
				strconv.FormatInt(count, 10),
			}
		case c.cfg.LessObs:
			b1 := idx % c.cfg.NDivAngle
			br := idx / c.cfg.NDivAngle
			row = []string{
				ftoa((float64(br) + 0.5) * c.cfg.StepR),
				ftoa((float64(b1) + 0.5) * angleStep),
				strconv.FormatInt(count, 10),
			}
		default:
			b2 := idx % c.cfg.NDivAngle
			b1 := (idx / c.cfg.NDivAngle) % c.cfg.NDivAngle
			br := idx / (c.cfg.NDivAngle * c.cfg.NDivAngle)
			row = []string{
				ftoa((float64(br) + 0.5) * c.cfg.StepR),
				ftoa((float64(b1) + 0.5) * angleStep),
				ftoa((float64(b2) + 0.5) * angleStep),
				strconv.FormatInt(count, 10),
			}
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("failed to write bin %d: %w", idx, err)
		}
	}

	w.Flush()
	return w.Error()
}
