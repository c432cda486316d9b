//go:build !tinygo && cgo

package glsim

import "testing"

func TestDeleteUnallocated(t *testing.T) {
	// Mirrors the cleanup run by constructors when shader compilation fails.
	s := &Slime{}
	s.Delete()
	s.Delete()
	n := &Noise{}
	n.Delete()
	n.Delete()
	if s.agentsProg.ID() != 0 || s.diffuseProg.ID() != 0 || n.prog.ID() != 0 {
		t.Fatal("programs should remain zero after delete")
	}
}
