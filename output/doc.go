// SPDX-License-Identifier: MIT

// Package output writes the artifacts of a nested-sampling run:
//
//	<outfile>               one line per retired point, then the sorted final
//	                        live points: parameter values in layout order
//	                        followed by logL, whitespace separated.
//	<outfile>_B.txt         "logB logZ logZnoise logLmax" on one line.
//	<outfile>_summary.json  RunSummary with run id, seed, timings and evidence.
//
// Every failure is wrapped in ErrIO so callers can errors.Is it regardless
// of the underlying os or encoding error.
package output
