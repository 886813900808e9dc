package highlight

import (
	"context"
	"sort"
	"strconv"

	"github.com/dshills/inkpad/internal/editor/render"
	"github.com/dshills/inkpad/internal/editor/search"
)

// Default highlight styling applied to projected matches.
const (
	DefaultTag          = "mark"
	DefaultClass        = "search-match"
	DefaultCurrentClass = "search-match current"
)

// Projector locates matches in rendered output and wraps them in
// highlight elements.
type Projector struct {
	transform    render.Transform
	tag          string
	class        string
	currentClass string
}

// Option configures a Projector.
type Option func(*Projector)

// WithTag sets the element tag used to wrap highlighted text.
func WithTag(tag string) Option {
	return func(p *Projector) {
		if tag != "" {
			p.tag = tag
		}
	}
}

// WithClasses sets the class attributes for normal and current matches.
func WithClasses(class, currentClass string) Option {
	return func(p *Projector) {
		p.class = class
		p.currentClass = currentClass
	}
}

// New creates a Projector over the given transform.
func New(t render.Transform, opts ...Option) *Projector {
	p := &Projector{
		transform:    t,
		tag:          DefaultTag,
		class:        DefaultClass,
		currentClass: DefaultCurrentClass,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Project renders content with every match wrapped in a highlight
// element, the match at index current styled distinctly.
//
// With no matches this is exactly the transform's own output. On any
// failure past that point the unmarked content is rendered instead;
// highlighting is best-effort and never blocks rendering. A cancelled
// context is the one non-degrading exit: the caller abandoned this
// projection, so ctx.Err() is returned as-is.
func (p *Projector) Project(ctx context.Context, content string, matches []search.Match, current int) (*render.Tree, error) {
	if len(matches) == 0 {
		return p.transform.Render(ctx, content)
	}

	marked := insertMarkers(content, matches, current)
	tree, err := p.transform.Render(ctx, marked)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return p.transform.Render(ctx, content)
	}

	if err := p.apply(tree); err != nil {
		return p.transform.Render(ctx, content)
	}
	return tree, nil
}

// span is a half-open interval in the flattened text stream.
type span struct {
	start, end int
	current    bool
}

// piece maps one text node into the flattened stream.
type piece struct {
	node   *render.Node
	gstart int // global offset of the node's first byte
}

// apply finds marker pairs in the tree and replaces the bracketed text
// with highlight elements, stripping every marker token.
//
// The transform may split a marker token across adjacent text nodes, so
// tokens are scanned over the concatenation of all text nodes in
// document order and spans are mapped back to per-node offsets. A token
// with no closing occurrence leaves its match unhighlighted; the token
// itself is still removed.
func (p *Projector) apply(tree *render.Tree) error {
	stripAttrMarkers(tree.Root)

	nodes := tree.TextNodes()
	if len(nodes) == 0 {
		return nil
	}

	pieces := make([]piece, len(nodes))
	flatLen := 0
	for i, n := range nodes {
		pieces[i] = piece{node: n, gstart: flatLen}
		flatLen += len(n.Text)
	}
	flat := make([]byte, 0, flatLen)
	for _, n := range nodes {
		flat = append(flat, n.Text...)
	}

	locs := markerRe.FindAllSubmatchIndex(flat, -1)
	if len(locs) == 0 {
		return nil
	}

	// Pair occurrences per match index: first is the open marker, the
	// literal next occurrence of the identical token is its close.
	var cuts []span
	var marks []span
	open := make(map[int]span)
	for _, loc := range locs {
		idx, err := strconv.Atoi(string(flat[loc[2]:loc[3]]))
		if err != nil {
			continue
		}
		cur := string(flat[loc[4]:loc[5]]) == flagCurrent
		tok := span{start: loc[0], end: loc[1], current: cur}
		cuts = append(cuts, tok)

		o, seen := open[idx]
		if !seen {
			open[idx] = tok
			continue
		}
		delete(open, idx)
		if tok.start > o.end {
			marks = append(marks, span{start: o.end, end: tok.start, current: o.current})
		}
	}
	// Anything left in open is a desynced marker: already queued for
	// removal, match stays unhighlighted.

	// Plan per-node rewrites, then apply them in reverse document order
	// so a splice never invalidates a pending one.
	type rewrite struct {
		pieceIdx int
		cuts     []span
		marks    []span
	}
	var rewrites []rewrite
	for i, pc := range pieces {
		nstart, nend := pc.gstart, pc.gstart+len(pc.node.Text)
		rw := rewrite{pieceIdx: i}
		for _, c := range cuts {
			if s, ok := clip(c, nstart, nend); ok {
				rw.cuts = append(rw.cuts, s)
			}
		}
		for _, m := range marks {
			if s, ok := clip(m, nstart, nend); ok {
				rw.marks = append(rw.marks, s)
			}
		}
		if len(rw.cuts) > 0 || len(rw.marks) > 0 {
			rewrites = append(rewrites, rw)
		}
	}

	for i := len(rewrites) - 1; i >= 0; i-- {
		rw := rewrites[i]
		node := pieces[rw.pieceIdx].node
		frag := p.rebuild(node.Text, rw.cuts, rw.marks)
		if err := tree.ReplaceWithFragment(node, frag...); err != nil {
			return err
		}
	}
	return nil
}

// stripAttrMarkers removes marker tokens that rode into attribute values.
// A match inside a link destination, autolink URL, or image alt lands in
// an attribute rather than a text node; that match stays unhighlighted,
// and the tokens must never reach the serialized output.
func stripAttrMarkers(n *render.Node) {
	if n == nil {
		return
	}
	for _, a := range n.Attrs {
		if cleaned := StripMarkers(a.Value); cleaned != a.Value {
			n.SetAttr(a.Key, cleaned)
		}
	}
	for _, c := range n.Children() {
		stripAttrMarkers(c)
	}
}

// clip intersects a global span with a node's global range and converts
// it to node-local offsets.
func clip(s span, nstart, nend int) (span, bool) {
	start, end := s.start, s.end
	if start < nstart {
		start = nstart
	}
	if end > nend {
		end = nend
	}
	if start >= end {
		return span{}, false
	}
	return span{start: start - nstart, end: end - nstart, current: s.current}, true
}

// interval is one rebuild step: a stretch of node text that is either
// dropped (marker token) or wrapped in a highlight element.
type interval struct {
	span
	mark bool
}

// rebuild splits node text into before / highlight / after pieces,
// dropping marker tokens.
func (p *Projector) rebuild(text string, cuts, marks []span) []*render.Node {
	ivs := make([]interval, 0, len(cuts)+len(marks))
	for _, c := range cuts {
		ivs = append(ivs, interval{span: c})
	}
	for _, m := range marks {
		ivs = append(ivs, interval{span: m, mark: true})
	}
	sort.Slice(ivs, func(i, j int) bool { return ivs[i].start < ivs[j].start })

	var frag []*render.Node
	pos := 0
	for _, iv := range ivs {
		if iv.start < pos {
			iv.start = pos
		}
		if iv.end <= iv.start {
			continue
		}
		if iv.start > pos {
			frag = append(frag, render.NewText(text[pos:iv.start]))
		}
		if iv.mark {
			frag = append(frag, p.markNode(text[iv.start:iv.end], iv.current))
		}
		pos = iv.end
	}
	if pos < len(text) {
		frag = append(frag, render.NewText(text[pos:]))
	}
	return frag
}

// markNode wraps matched text in the highlight element.
func (p *Projector) markNode(text string, current bool) *render.Node {
	el := render.NewElement(p.tag)
	class := p.class
	if current {
		class = p.currentClass
	}
	if class != "" {
		el.SetAttr("class", class)
	}
	el.AppendChild(render.NewText(text))
	return el
}
