// Package highlight carries search matches through the opaque markdown
// render transform so they can be highlighted in the rendered view.
//
// A match is located on the raw buffer, but the transform may
// re-tokenize, escape, or relocate text, so raw offsets mean nothing in
// the rendered tree. The projector instead brackets each match with a
// unique invisible marker token, renders the marker-laden source, then
// finds the token pairs again in the rendered tree's text nodes and
// replaces the bracketed stretches with highlight elements.
//
// Two offset disciplines keep this correct:
//
//   - markers are inserted into the source in reverse match order, so an
//     insertion never shifts a not-yet-processed match;
//   - rendered-tree replacements are applied in reverse document order,
//     so a splice never shifts a not-yet-applied replacement.
//
// Highlighting is best-effort. If the transform fails on the marked
// source, the unmarked content is rendered instead; if a marker pair is
// broken in the output, that one match is left unhighlighted and its
// markers stripped. No failure here is fatal.
package highlight
