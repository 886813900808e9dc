package render

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/yuin/goldmark"
	gast "github.com/yuin/goldmark/ast"
	gtext "github.com/yuin/goldmark/text"
)

// ErrTransformFailed indicates the render transform could not produce a
// tree. Callers degrade to a best-effort rendering; this is never fatal.
var ErrTransformFailed = errors.New("render transform failed")

// Transform turns markup source into a rendered tree.
//
// Render may involve asynchronous pre-processing of the content (for
// example resolving attachment references) and must honor ctx
// cancellation; a cancelled call returns ctx.Err().
type Transform interface {
	Render(ctx context.Context, source string) (*Tree, error)
}

// RenderFunc adapts a function to the Transform interface.
type RenderFunc func(ctx context.Context, source string) (*Tree, error)

// Render implements Transform.
func (f RenderFunc) Render(ctx context.Context, source string) (*Tree, error) {
	return f(ctx, source)
}

// Preprocessor rewrites markup source before parsing. It is the hook for
// external-reference resolution (attachments, note links) and runs over
// the content only, never over match state.
type Preprocessor func(ctx context.Context, source string) (string, error)

// Markdown renders markdown source to a Tree using goldmark.
type Markdown struct {
	md      goldmark.Markdown
	pre     Preprocessor
	rootTag string
}

// MarkdownOption configures a Markdown transform.
type MarkdownOption func(*Markdown)

// WithPreprocessor installs a source preprocessor that runs before
// parsing.
func WithPreprocessor(p Preprocessor) MarkdownOption {
	return func(m *Markdown) {
		m.pre = p
	}
}

// WithRootTag sets the tag of the tree's root element (default "div").
func WithRootTag(tag string) MarkdownOption {
	return func(m *Markdown) {
		if tag != "" {
			m.rootTag = tag
		}
	}
}

// NewMarkdown creates the production markdown transform.
func NewMarkdown(opts ...MarkdownOption) *Markdown {
	m := &Markdown{
		md:      goldmark.New(),
		rootTag: "div",
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Render parses markdown source into a Tree.
func (m *Markdown) Render(ctx context.Context, source string) (*Tree, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if m.pre != nil {
		resolved, err := m.pre(ctx, source)
		if err != nil {
			return nil, fmt.Errorf("%w: preprocess: %v", ErrTransformFailed, err)
		}
		source = resolved
		if err := ctx.Err(); err != nil {
			return nil, err
		}
	}

	src := []byte(source)
	doc := m.md.Parser().Parse(gtext.NewReader(src))

	root := NewElement(m.rootTag)
	b := &treeBuilder{src: src, stack: []*Node{root}}
	if err := gast.Walk(doc, b.visit); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTransformFailed, err)
	}
	return NewTree(root), nil
}

// treeBuilder converts the goldmark AST into a render Tree.
type treeBuilder struct {
	src   []byte
	stack []*Node
}

func (b *treeBuilder) top() *Node {
	return b.stack[len(b.stack)-1]
}

func (b *treeBuilder) push(n *Node) {
	b.top().AppendChild(n)
	b.stack = append(b.stack, n)
}

func (b *treeBuilder) pop() {
	b.stack = b.stack[:len(b.stack)-1]
}

func (b *treeBuilder) leaf(n *Node) {
	b.top().AppendChild(n)
}

func (b *treeBuilder) visit(n gast.Node, entering bool) (gast.WalkStatus, error) {
	switch node := n.(type) {
	case *gast.Document, *gast.TextBlock:
		// Transparent containers; children flow into the current parent.

	case *gast.Heading:
		b.container("h"+strconv.Itoa(node.Level), entering)

	case *gast.Paragraph:
		b.container("p", entering)

	case *gast.Blockquote:
		b.container("blockquote", entering)

	case *gast.List:
		tag := "ul"
		if node.IsOrdered() {
			tag = "ol"
		}
		b.container(tag, entering)

	case *gast.ListItem:
		b.container("li", entering)

	case *gast.ThematicBreak:
		if entering {
			b.leaf(NewElement("hr"))
		}
		return gast.WalkSkipChildren, nil

	case *gast.FencedCodeBlock:
		if entering {
			code := NewElement("code")
			if lang := node.Language(b.src); len(lang) > 0 {
				code.SetAttr("class", "language-"+string(lang))
			}
			code.AppendChild(NewText(b.blockLines(node)))
			pre := NewElement("pre")
			pre.AppendChild(code)
			b.leaf(pre)
		}
		return gast.WalkSkipChildren, nil

	case *gast.CodeBlock:
		if entering {
			code := NewElement("code")
			code.AppendChild(NewText(b.blockLines(node)))
			pre := NewElement("pre")
			pre.AppendChild(code)
			b.leaf(pre)
		}
		return gast.WalkSkipChildren, nil

	case *gast.HTMLBlock:
		// Embedded raw HTML is carried as literal text; the tree owns all
		// markup so highlight splicing stays well-formed.
		if entering {
			b.leaf(NewText(b.blockLines(node)))
		}
		return gast.WalkSkipChildren, nil

	case *gast.RawHTML:
		if entering {
			b.leaf(NewText(b.segmentsText(node.Segments)))
		}
		return gast.WalkSkipChildren, nil

	case *gast.Emphasis:
		tag := "em"
		if node.Level >= 2 {
			tag = "strong"
		}
		b.container(tag, entering)

	case *gast.CodeSpan:
		b.container("code", entering)

	case *gast.Link:
		if entering {
			a := NewElement("a")
			a.SetAttr("href", string(node.Destination))
			if len(node.Title) > 0 {
				a.SetAttr("title", string(node.Title))
			}
			b.push(a)
		} else {
			b.pop()
		}

	case *gast.AutoLink:
		if entering {
			url := string(node.URL(b.src))
			a := NewElement("a")
			a.SetAttr("href", url)
			a.AppendChild(NewText(string(node.Label(b.src))))
			b.leaf(a)
		}
		return gast.WalkSkipChildren, nil

	case *gast.Image:
		if entering {
			img := NewElement("img")
			img.SetAttr("src", string(node.Destination))
			img.SetAttr("alt", b.inlineText(node))
			if len(node.Title) > 0 {
				img.SetAttr("title", string(node.Title))
			}
			b.leaf(img)
		}
		return gast.WalkSkipChildren, nil

	case *gast.Text:
		if entering {
			b.leaf(NewText(string(node.Segment.Value(b.src))))
			if node.HardLineBreak() {
				b.leaf(NewElement("br"))
			} else if node.SoftLineBreak() {
				b.leaf(NewText("\n"))
			}
		}

	case *gast.String:
		if entering {
			b.leaf(NewText(string(node.Value)))
		}
	}

	return gast.WalkContinue, nil
}

// container pushes an element on entry and pops it on exit.
func (b *treeBuilder) container(tag string, entering bool) {
	if entering {
		b.push(NewElement(tag))
	} else {
		b.pop()
	}
}

// blockLines joins a block node's source lines.
func (b *treeBuilder) blockLines(n gast.Node) string {
	var sb strings.Builder
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		sb.Write(seg.Value(b.src))
	}
	return sb.String()
}

// segmentsText joins the source text of a segment list.
func (b *treeBuilder) segmentsText(segs *gtext.Segments) string {
	if segs == nil {
		return ""
	}
	var sb strings.Builder
	for i := 0; i < segs.Len(); i++ {
		seg := segs.At(i)
		sb.Write(seg.Value(b.src))
	}
	return sb.String()
}

// inlineText flattens the plain text of an inline node's descendants.
func (b *treeBuilder) inlineText(n gast.Node) string {
	var sb strings.Builder
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch t := c.(type) {
		case *gast.Text:
			sb.Write(t.Segment.Value(b.src))
		case *gast.String:
			sb.Write(t.Value)
		default:
			sb.WriteString(b.inlineText(c))
		}
	}
	return sb.String()
}
