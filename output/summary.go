// SPDX-License-Identifier: MIT

package output

import (
	"encoding/json"
	"io"
	"os"
	"time"

	"github.com/google/uuid"
)

// RunSummary is the machine-readable record of one invocation.
type RunSummary struct {
	// RunID uniquely identifies the invocation.
	RunID string `json:"runId"`
	// Version is the program version.
	Version string `json:"version"`
	// CommandLine stores the binary name and every argument.
	CommandLine []string `json:"commandLine"`
	// Seed is the base RNG seed.
	Seed int64 `json:"seed"`
	// Parameters lists the layout names in sample-column order.
	Parameters []string `json:"parameters"`
	Nlive      int      `json:"nlive"`
	Nmcmc      int      `json:"nmcmc"`
	Nruns      int      `json:"nruns"`
	Tolerance  float64  `json:"tolerance"`
	// Started and Finished bound the sampling wall time.
	Started  time.Time `json:"started"`
	Finished time.Time `json:"finished"`
	// Time is the sampling time in seconds.
	Time float64 `json:"time"`
	// Evidence is the combined result.
	Evidence RunEvidence `json:"evidence"`
	// Chains holds per-chain results when several chains ran.
	Chains []RunEvidence `json:"chains,omitempty"`
}

// RunEvidence is the evidence section of a RunSummary.
type RunEvidence struct {
	LogZ           float64   `json:"logZ"`
	LogZStd        float64   `json:"logZStd"`
	LogZNoise      float64   `json:"logZNoise"`
	LogBayes       float64   `json:"logBayes"`
	LogLMax        float64   `json:"logLMax,omitempty"`
	Information    float64   `json:"information,omitempty"`
	Iterations     int       `json:"iterations,omitempty"`
	AcceptanceRate float64   `json:"acceptanceRate,omitempty"`
	Seed           int64     `json:"seed,omitempty"`
	RunLogZ        []float64 `json:"runLogZ,omitempty"`
}

// NewRunSummary stamps a fresh run id.
func NewRunSummary(version string, commandLine []string, seed int64) *RunSummary {
	return &RunSummary{
		RunID:       uuid.NewString(),
		Version:     version,
		CommandLine: commandLine,
		Seed:        seed,
	}
}

// Encode writes s as indented JSON.
func (s *RunSummary) Encode(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s); err != nil {
		return ioErrorf("encode summary", err)
	}

	return nil
}

// Write creates SummaryPath(outfile) and encodes s into it.
func (s *RunSummary) Write(outfile string) (err error) {
	path := SummaryPath(outfile)
	f, err := os.Create(path)
	if err != nil {
		return ioErrorf("create "+path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = ioErrorf("close "+path, cerr)
		}
	}()

	return s.Encode(f)
}
