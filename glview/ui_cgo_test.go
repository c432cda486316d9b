//go:build !tinygo && cgo

package glview

import "testing"

func TestCloseUnopened(t *testing.T) {
	// Mirrors the cleanup run by NewWindow when the quad program fails to compile.
	win := &Window{}
	win.Close()
	win.Close()
	if win.prog.ID() != 0 || win.vao != 0 || win.vbo != 0 {
		t.Fatal("handles should remain zero after close")
	}
}
