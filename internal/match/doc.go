// Package match provides fuzzy matching of option names.
//
// It is used to suggest the intended option when a document contains an
// unknown key, e.g. "junit_pattern" or "JUnitPatterns" for "junit_patterns".
//
// Key functions:
//   - Normalize: folds case, CamelCase and separators of a name
//   - Levenshtein: computes edit distance between strings
//   - Similarity: normalized similarity score in [0, 1]
//   - Suggest: ranks known names by similarity to an unknown one
package match
