// Package search locates occurrences of a query in buffer content.
//
// Find produces an ordered, non-overlapping sequence of matches for a
// query under a set of Options (case sensitivity, whole-word anchoring,
// regex mode). Matches carry half-open byte ranges valid for the content
// they were computed against; any content mutation invalidates them and
// callers re-run Find.
//
// A malformed pattern in regex mode is reported as ErrInvalidPattern.
// Callers treat it as "no matches", never as a fatal condition.
package search
