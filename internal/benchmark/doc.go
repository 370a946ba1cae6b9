// SPDX-License-Identifier: MPL-2.0

// Package benchmark provides benchmarks for PGO profile generation.
// They cover the hot paths of knife:
//   - Configuration loading and CUE schema validation
//   - Directory listing: walking, sorting, long-format rendering and the grid
//   - Utilities run directly and through the embedded shell
//
// To generate a PGO profile, run:
//
//	go test -run '^$' -bench . -cpuprofile default.pgo ./internal/benchmark
package benchmark
