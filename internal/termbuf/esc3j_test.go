package termbuf

import "testing"

func TestEsc3JFilterDropsOnlyClearScrollback(t *testing.T) {
	f := &esc3jFilter{}
	got := f.Filter([]byte("keep\x1b[3Jme\x1b[2Jtoo"))
	want := "keepme\x1b[2Jtoo"
	if string(got) != want {
		t.Fatalf("Filter() = %q, want %q", got, want)
	}
}

func TestEsc3JFilterSplitAcrossCalls(t *testing.T) {
	f := &esc3jFilter{}
	var out []byte
	seq := "abc\x1b[3Jdef"
	for i := range seq {
		out = append(out, f.Filter([]byte{seq[i]})...)
	}
	if string(out) != "abcdef" {
		t.Fatalf("split filter = %q, want %q", out, "abcdef")
	}
}

func TestEsc3JFilterPassesUnrelatedCSI(t *testing.T) {
	f := &esc3jFilter{}
	got := f.Filter([]byte("\x1b[31mred\x1b[0m"))
	if string(got) != "\x1b[31mred\x1b[0m" {
		t.Fatalf("Filter() = %q", got)
	}
}
