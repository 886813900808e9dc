package render

import "testing"

// buildSample returns a small tree:
//
//	<div><p>{t1}<em>{t2}</em></p><p>{t3}</p></div>
func buildSample() (*Tree, *Node, *Node, *Node) {
	root := NewElement("div")
	p1 := NewElement("p")
	t1 := NewText("one ")
	em := NewElement("em")
	t2 := NewText("two")
	p2 := NewElement("p")
	t3 := NewText("three")

	root.AppendChild(p1)
	p1.AppendChild(t1)
	p1.AppendChild(em)
	em.AppendChild(t2)
	root.AppendChild(p2)
	p2.AppendChild(t3)

	return NewTree(root), t1, t2, t3
}

func TestTextNodesDocumentOrder(t *testing.T) {
	tree, t1, t2, t3 := buildSample()

	nodes := tree.TextNodes()
	want := []*Node{t1, t2, t3}
	if len(nodes) != len(want) {
		t.Fatalf("got %d text nodes, want %d", len(nodes), len(want))
	}
	for i := range want {
		if nodes[i] != want[i] {
			t.Errorf("node %d = %v, want %v", i, nodes[i], want[i])
		}
	}
}

func TestComparePosition(t *testing.T) {
	tree, t1, t2, t3 := buildSample()

	tests := []struct {
		name string
		a, b *Node
		want int
	}{
		{"same node", t1, t1, 0},
		{"siblings", t1, t2, -1},
		{"reverse", t3, t1, 1},
		{"across parents", t2, t3, -1},
		{"ancestor before descendant", t2.Parent(), t2, -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tree.ComparePosition(tt.a, tt.b); got != tt.want {
				t.Errorf("ComparePosition = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestReplaceWithFragment(t *testing.T) {
	tree, t1, _, _ := buildSample()

	mark := NewElement("mark")
	mark.AppendChild(NewText("one"))
	if err := tree.ReplaceWithFragment(t1, NewText(""), mark, NewText(" ")); err != nil {
		t.Fatalf("ReplaceWithFragment: %v", err)
	}

	if t1.Parent() != nil {
		t.Error("replaced node still attached")
	}
	want := `<div><p><mark>one</mark> <em>two</em></p><p>three</p></div>`
	if got := tree.HTML(); got != want {
		t.Errorf("HTML = %q, want %q", got, want)
	}
}

func TestReplaceWithEmptyFragmentRemoves(t *testing.T) {
	tree, t1, _, _ := buildSample()

	if err := tree.ReplaceWithFragment(t1); err != nil {
		t.Fatalf("ReplaceWithFragment: %v", err)
	}
	want := `<div><p><em>two</em></p><p>three</p></div>`
	if got := tree.HTML(); got != want {
		t.Errorf("HTML = %q, want %q", got, want)
	}
}

func TestReplaceDetachedNode(t *testing.T) {
	tree, _, _, _ := buildSample()

	if err := tree.ReplaceWithFragment(NewText("loose")); err != ErrDetachedNode {
		t.Errorf("err = %v, want ErrDetachedNode", err)
	}
}

func TestHTMLEscaping(t *testing.T) {
	root := NewElement("p")
	root.AppendChild(NewText(`a <b> & "c"`))
	a := NewElement("a")
	a.SetAttr("href", `x?a=1&b="2"`)
	root.AppendChild(a)

	got := NewTree(root).HTML()
	want := `<p>a &lt;b&gt; &amp; "c"<a href="x?a=1&amp;b=&quot;2&quot;"></a></p>`
	if got != want {
		t.Errorf("HTML = %q, want %q", got, want)
	}
}
