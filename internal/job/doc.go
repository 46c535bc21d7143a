// Package job expands a jobs_done document into job specifications.
//
// Expansion pipeline:
//  1. Validate the raw document against the option schema
//  2. Branch filter: stop with zero jobs unless a branch pattern matches
//  3. Expand the matrix into rows (one empty row without a matrix)
//  4. For each row:
//     - Keep the options whose conditions hold, later keys overriding
//       earlier ones with the same base name
//     - Substitute {placeholders} with row values, branch and name
//     - Validate the resolved option set again
//  5. Assemble one Spec per row, in row order
//
// Either every Spec of a document is produced or none is: the first error
// aborts the expansion.
package job
