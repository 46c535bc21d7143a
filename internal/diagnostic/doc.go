// Package diagnostic provides structured errors, warnings and notes about
// jobs_done documents.
//
// Expansion aborts on the first error it meets. Diagnostics are used where
// the whole picture is wanted instead: the check command reports every
// problem of every document it is given, including warnings that never stop
// expansion (unreachable conditions, unused matrix variables, ...).
package diagnostic
