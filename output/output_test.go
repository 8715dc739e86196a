// SPDX-License-Identifier: MIT

package output_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/nestsampler/output"
)

func TestSampleWriter_Lines(t *testing.T) {
	var buf bytes.Buffer
	w := output.NewSampleWriter(&buf)
	require.NoError(t, w.WriteSample([]float64{1.5, -0.25}, -3.1415926))
	require.NoError(t, w.WriteSample([]float64{0.1}, 2))
	assert.Empty(t, buf.String(), "buffered until Flush")
	require.NoError(t, w.Flush())

	assert.Equal(t, "1.5 -0.25 -3.141593\n0.1 2.000000\n", buf.String())
	assert.Equal(t, 2, w.Count())
}

type failing struct{}

func (failing) Write([]byte) (int, error) { return 0, errors.New("device gone") }

func TestSampleWriter_FlushFailureIsIO(t *testing.T) {
	w := output.NewSampleWriter(failing{})
	require.NoError(t, w.WriteSample([]float64{1}, 1))
	assert.ErrorIs(t, w.Flush(), output.ErrIO)
}

func TestSampleFile_AndEvidenceFile(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "run.dat")

	w, err := output.CreateSampleFile(out)
	require.NoError(t, err)
	require.NoError(t, w.WriteSample([]float64{1, 2}, -1))
	require.NoError(t, w.Close())

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "1 2 -1.000000\n", string(data))

	require.NoError(t, output.WriteEvidence(out, output.Evidence{LogBayes: 3, LogZ: -4.5, LogZNoise: -7.5, LogLMax: -1.25}))
	data, err = os.ReadFile(output.EvidencePath(out))
	require.NoError(t, err)
	assert.Equal(t, "3.000000 -4.500000 -7.500000 -1.250000\n", string(data))
	assert.Len(t, strings.Fields(string(data)), 4)
}

func TestCreateSampleFile_MissingDirIsIO(t *testing.T) {
	_, err := output.CreateSampleFile(filepath.Join(t.TempDir(), "missing", "x.dat"))
	assert.ErrorIs(t, err, output.ErrIO)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestRunSummary_RoundTrip(t *testing.T) {
	s := output.NewRunSummary("v1", []string{"nestsample", "run"}, 7)
	_, err := uuid.Parse(s.RunID)
	require.NoError(t, err)
	s.Parameters = []string{"x", "y"}
	s.Evidence = output.RunEvidence{LogZ: -4.6, LogBayes: -4.6, RunLogZ: []float64{-4.5, -4.7}}

	out := filepath.Join(t.TempDir(), "run.dat")
	require.NoError(t, s.Write(out))
	raw, err := os.ReadFile(output.SummaryPath(out))
	require.NoError(t, err)

	var got output.RunSummary
	require.NoError(t, json.Unmarshal(raw, &got))
	assert.Equal(t, s.RunID, got.RunID)
	assert.Equal(t, int64(7), got.Seed)
	assert.Equal(t, []float64{-4.5, -4.7}, got.Evidence.RunLogZ)
	assert.Empty(t, got.Chains)
}
