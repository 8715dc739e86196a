// SPDX-License-Identifier: MIT

package output

import (
	"fmt"
	"io"
	"os"
)

// EvidenceSuffix is appended to the samples path to name the evidence file.
const EvidenceSuffix = "_B.txt"

// SummarySuffix is appended to the samples path to name the JSON summary.
const SummarySuffix = "_summary.json"

// EvidencePath returns outfile + "_B.txt".
func EvidencePath(outfile string) string { return outfile + EvidenceSuffix }

// SummaryPath returns outfile + "_summary.json".
func SummaryPath(outfile string) string { return outfile + SummarySuffix }

// Evidence holds the four numbers of the evidence file.
type Evidence struct {
	LogBayes  float64
	LogZ      float64
	LogZNoise float64
	LogLMax   float64
}

// WriteEvidenceTo writes "logB logZ logZnoise logLmax\n".
func WriteEvidenceTo(w io.Writer, e Evidence) error {
	if _, err := fmt.Fprintf(w, "%f %f %f %f\n", e.LogBayes, e.LogZ, e.LogZNoise, e.LogLMax); err != nil {
		return ioErrorf("write evidence", err)
	}

	return nil
}

// WriteEvidence creates EvidencePath(outfile) and writes e to it.
func WriteEvidence(outfile string, e Evidence) (err error) {
	path := EvidencePath(outfile)
	f, err := os.Create(path)
	if err != nil {
		return ioErrorf("create "+path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = ioErrorf("close "+path, cerr)
		}
	}()

	return WriteEvidenceTo(f, e)
}
