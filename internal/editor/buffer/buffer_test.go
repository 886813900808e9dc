package buffer

import "testing"

func TestNewFromStringNormalizesLineEndings(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"lf untouched", "a\nb", "a\nb"},
		{"crlf to lf", "a\r\nb", "a\nb"},
		{"cr to lf", "a\rb", "a\nb"},
		{"mixed", "a\r\nb\rc\n", "a\nb\nc\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewFromString(tt.input)
			if got := b.Text(); got != tt.want {
				t.Errorf("Text() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestReplace(t *testing.T) {
	b := NewFromString("foo bar foo")

	end, err := b.Replace(4, 7, "quux")
	if err != nil {
		t.Fatalf("Replace: %v", err)
	}
	if end != 8 {
		t.Errorf("end = %d, want 8", end)
	}
	if got := b.Text(); got != "foo quux foo" {
		t.Errorf("Text() = %q", got)
	}
	if b.Cursor() != 8 {
		t.Errorf("cursor = %d, want 8", b.Cursor())
	}
	start, selEnd := b.Selection()
	if start != 8 || selEnd != 8 {
		t.Errorf("selection = (%d, %d), want collapsed at 8", start, selEnd)
	}
}

func TestReplaceInvalidRange(t *testing.T) {
	b := NewFromString("abc")

	tests := []struct {
		name       string
		start, end int
	}{
		{"negative start", -1, 2},
		{"start past end", 2, 1},
		{"end past content", 0, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := b.Replace(tt.start, tt.end, "x"); err != ErrRangeInvalid {
				t.Errorf("err = %v, want ErrRangeInvalid", err)
			}
		})
	}
}

func TestInsertDelete(t *testing.T) {
	b := NewFromString("ac")

	if _, err := b.Insert(1, "b"); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if got := b.Text(); got != "abc" {
		t.Errorf("after insert: %q", got)
	}

	if err := b.Delete(0, 1); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if got := b.Text(); got != "bc" {
		t.Errorf("after delete: %q", got)
	}
}

func TestSetSelectionClampsAndOrders(t *testing.T) {
	b := NewFromString("hello")

	b.SetSelection(4, 2)
	start, end := b.Selection()
	if start != 2 || end != 4 {
		t.Errorf("selection = (%d, %d), want (2, 4)", start, end)
	}
	if b.Cursor() != 4 {
		t.Errorf("cursor = %d, want 4", b.Cursor())
	}

	b.SetSelection(-3, 99)
	start, end = b.Selection()
	if start != 0 || end != 5 {
		t.Errorf("selection = (%d, %d), want (0, 5)", start, end)
	}
}

func TestSubscribeNotifiesOnMutation(t *testing.T) {
	b := NewFromString("foo bar")

	var got []Change
	b.Subscribe(func(c Change) {
		got = append(got, c)
	})

	if _, err := b.Replace(0, 3, "baz"); err != nil {
		t.Fatalf("Replace: %v", err)
	}
	b.SetText("new")

	if len(got) != 2 {
		t.Fatalf("changes = %d, want 2", len(got))
	}
	if got[0].OldText != "foo" || got[0].NewText != "baz" {
		t.Errorf("change 0 = %+v", got[0])
	}
	if got[0].Delta() != 0 {
		t.Errorf("delta = %d, want 0", got[0].Delta())
	}
	if got[1].NewText != "new" {
		t.Errorf("change 1 = %+v", got[1])
	}
}

func TestLineIndex(t *testing.T) {
	b := NewFromString("one\ntwo\nthree")

	tests := []struct {
		offset int
		want   int
	}{
		{0, 0},
		{3, 0},
		{4, 1},
		{8, 2},
		{13, 2},
		{99, 2}, // clamped
	}

	for _, tt := range tests {
		if got := b.LineIndex(tt.offset); got != tt.want {
			t.Errorf("LineIndex(%d) = %d, want %d", tt.offset, got, tt.want)
		}
	}

	if got := b.LineCount(); got != 3 {
		t.Errorf("LineCount() = %d, want 3", got)
	}
}

func TestTextRangeClamps(t *testing.T) {
	b := NewFromString("hello")

	if got := b.TextRange(1, 4); got != "ell" {
		t.Errorf("TextRange(1,4) = %q", got)
	}
	if got := b.TextRange(-5, 99); got != "hello" {
		t.Errorf("TextRange(-5,99) = %q", got)
	}
	if got := b.TextRange(4, 2); got != "" {
		t.Errorf("TextRange(4,2) = %q, want empty", got)
	}
}

func TestWithCursor(t *testing.T) {
	b := NewFromString("hello", WithCursor(3))
	if got := b.Cursor(); got != 3 {
		t.Errorf("Cursor = %d, want 3", got)
	}
	start, end := b.Selection()
	if start != 3 || end != 3 {
		t.Errorf("Selection = (%d, %d), want collapsed at 3", start, end)
	}

	b = NewFromString("hi", WithCursor(99))
	if got := b.Cursor(); got != 2 {
		t.Errorf("Cursor = %d, want clamped to 2", got)
	}
}
