// Package render defines the boundary to the markdown render transform.
//
// The transform is opaque to the rest of the session: it takes markup
// source and produces a Tree of element and text nodes. The Tree exposes
// exactly the capabilities highlight projection needs (an ordered walk
// over leaf text nodes, document-position comparison between nodes, and
// replacing a text node with a fragment of siblings) without coupling
// callers to any particular DOM or AST.
//
// The production Transform is Markdown, built on goldmark. Tests and
// alternate hosts can supply their own RenderFunc.
package render
