// Package types defines the result records written at the end of a
// simulation run.
package types

import "time"

// RunResult represents the outcome of a completed simulation run.
type RunResult struct {
	ID         string        `json:"id"`
	Status     string        `json:"status"`
	Parameters RunParameters `json:"parameters"`
	Observed   ObservedStats `json:"observed"`
	Outputs    OutputFiles   `json:"outputs"`
	Timestamp  time.Time     `json:"timestamp"`
	Duration   time.Duration `json:"duration"`
	Error      string        `json:"error,omitempty"`
}

// RunParameters records every physical and run-control parameter the
// trajectory was generated with, so a result file is self-describing.
type RunParameters struct {
	Rho         float64 `json:"rho"`
	NParts      int     `json:"n_parts"`
	PotStrength float64 `json:"pot_strength"`
	Temperature float64 `json:"temperature"`
	RotDif      float64 `json:"rot_dif"`
	Activity    float64 `json:"activity"`
	Dt          float64 `json:"dt"`
	BoxLength   float64 `json:"box_length"`
	Iters       int     `json:"iters"`
	ItersTherm  int     `json:"iters_therm"`
	Skip        int     `json:"skip"`
	Seed        uint64  `json:"seed"`
	Backend     string  `json:"backend"`
	Workers     int     `json:"workers"`
	StepR       float64 `json:"step_r"`
	NDivAngle   int     `json:"n_div_angle"`
	LessObs     bool    `json:"less_obs"`
	Cartesian   bool    `json:"cartesian"`
}

// ObservedStats summarizes the accumulated observables.
type ObservedStats struct {
	Samples      int     `json:"samples"`
	PairCounts   int64   `json:"pair_counts"`
	FAlongMean   float64 `json:"f_along_mean"`
	FAlongStddev float64 `json:"f_along_stddev"`
}

// OutputFiles lists the files a run produced.
type OutputFiles struct {
	Correlations string `json:"correlations,omitempty"`
	Snapshots    string `json:"snapshots,omitempty"`
	Result       string `json:"result"`
}
