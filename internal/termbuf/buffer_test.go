package termbuf

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func render(b *Buffer) string {
	snap := b.Snapshot()
	grid := make([][]rune, snap.Rows)
	for r := range grid {
		grid[r] = make([]rune, snap.Cols)
		for c := range grid[r] {
			grid[r][c] = ' '
		}
	}
	for _, g := range snap.Glyphs {
		grid[g.Row][g.Col] = g.Ch
	}
	out := ""
	for _, row := range grid {
		out += string(row) + "\n"
	}
	return out
}

func TestPushBytesStreamInsensitive(t *testing.T) {
	s := "hello \x1b[31mworld\x1b[0m\r\n"
	b1 := New(5, 20, 1000)
	b1.PushBytes([]byte(s))

	b2 := New(5, 20, 1000)
	mid := len(s) / 2
	b2.PushBytes([]byte(s[:mid]))
	b2.PushBytes([]byte(s[mid:]))

	assert.Equal(t, render(b1), render(b2))
}

func TestPushBytesSplitAcrossEscape(t *testing.T) {
	s := "x\x1b[32my\x1b[0mz"
	b1 := New(3, 10, 100)
	b1.PushBytes([]byte(s))

	b2 := New(3, 10, 100)
	for i := range s {
		b2.PushBytes([]byte{s[i]})
	}
	assert.Equal(t, render(b1), render(b2))
}

func TestESC3JFilteredFromIngress(t *testing.T) {
	b := New(3, 10, 100)
	b.PushBytes([]byte("one\r\ntwo\r\nthree\r\nfour\r\nfive\r\n"))
	before := b.term.ScrollbackLen()

	b.PushBytes([]byte("\x1b[3Jafter\r\n"))
	after := b.term.ScrollbackLen()

	require.GreaterOrEqual(t, after, before)
}

func TestResizePreservesScrollback(t *testing.T) {
	b := New(3, 10, 100)
	for i := 0; i < 10; i++ {
		b.PushBytes([]byte("line\r\n"))
	}
	before := b.term.ScrollbackLen()

	b.Resize(5, 20)
	after := b.term.ScrollbackLen()
	assert.GreaterOrEqual(t, after, before)

	b.Resize(2, 8)
	after2 := b.term.ScrollbackLen()
	assert.GreaterOrEqual(t, after2, before)
}

func TestScrollOffsetClampedToScrollback(t *testing.T) {
	b := New(3, 10, 100)
	b.PushBytes([]byte("a\r\nb\r\nc\r\nd\r\n"))
	b.ScrollUp(1000)
	assert.LessOrEqual(t, b.offset, b.term.ScrollbackLen())

	b.ScrollToBottom()
	assert.Equal(t, 0, b.offset)

	b.ScrollToTop()
	assert.Equal(t, b.term.ScrollbackLen(), b.offset)
}

func TestAlternateScreenFlag(t *testing.T) {
	b := New(5, 10, 100)
	assert.False(t, b.IsAlternateScreen())
	b.PushBytes([]byte("\x1b[?1049h"))
	assert.True(t, b.IsAlternateScreen())
	b.PushBytes([]byte("\x1b[?1049l"))
	assert.False(t, b.IsAlternateScreen())
}

func TestWideSpacerNotWritten(t *testing.T) {
	b := New(2, 10, 10)
	b.PushBytes([]byte("中文")) // two double-width CJK glyphs
	snap := b.Snapshot()
	for _, g := range snap.Glyphs {
		assert.NotEqual(t, rune(0), g.Ch)
	}
}
