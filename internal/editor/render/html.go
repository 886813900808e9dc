package render

import "strings"

// voidTags are elements serialized without a closing tag.
var voidTags = map[string]bool{
	"br":  true,
	"hr":  true,
	"img": true,
}

// HTML serializes the tree to an HTML string. Text content and attribute
// values are escaped; the tree itself never contains raw markup.
func (t *Tree) HTML() string {
	var sb strings.Builder
	if t.Root != nil {
		writeHTML(&sb, t.Root)
	}
	return sb.String()
}

func writeHTML(sb *strings.Builder, n *Node) {
	if n.IsText() {
		sb.WriteString(escapeText(n.Text))
		return
	}

	sb.WriteByte('<')
	sb.WriteString(n.Tag)
	for _, a := range n.Attrs {
		sb.WriteByte(' ')
		sb.WriteString(a.Key)
		sb.WriteString(`="`)
		sb.WriteString(escapeAttr(a.Value))
		sb.WriteByte('"')
	}
	sb.WriteByte('>')

	if voidTags[n.Tag] {
		return
	}

	for _, c := range n.children {
		writeHTML(sb, c)
	}

	sb.WriteString("</")
	sb.WriteString(n.Tag)
	sb.WriteByte('>')
}

var textEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
)

var attrEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
)

func escapeText(s string) string {
	return textEscaper.Replace(s)
}

func escapeAttr(s string) string {
	return attrEscaper.Replace(s)
}
