// Package aggregates defines domain-facing aggregate contracts.
//
// Contracts avoid persistence and transport details. They name the write
// boundaries whose invariants must hold atomically.
package aggregates
