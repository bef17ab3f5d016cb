package engine

import (
	"testing"

	"github.com/kehlund/corvid/internal/board"
)

func TestSearchNodeChildLinksParent(t *testing.T) {
	root := NewRootNode()
	if root.Ply != 0 || root.Parent != nil {
		t.Fatalf("NewRootNode() = %+v, want Ply=0 Parent=nil", root)
	}

	child := root.Child()
	if child.Ply != 1 || child.Parent != root {
		t.Errorf("Child() = %+v, want Ply=1 Parent=root", child)
	}

	grandchild := child.Child()
	if grandchild.Ply != 2 || grandchild.Parent != child {
		t.Errorf("grandchild = %+v, want Ply=2 Parent=child", grandchild)
	}
}

func TestSearchNodeAncestorAndGrandparent(t *testing.T) {
	root := NewRootNode()
	child := root.Child()
	grandchild := child.Child()

	if grandchild.Ancestor(0) != grandchild {
		t.Error("Ancestor(0) should return the node itself")
	}
	if grandchild.Ancestor(1) != child {
		t.Error("Ancestor(1) should return the parent")
	}
	if grandchild.Grandparent() != root {
		t.Error("Grandparent() should return the node two plies up")
	}
	if root.Ancestor(5) != nil {
		t.Error("Ancestor past the root should return nil")
	}
}

func TestSearchNodeUpdateKillers(t *testing.T) {
	n := NewRootNode()
	m1 := board.NewMove(board.E2, board.E4)
	m2 := board.NewMove(board.D2, board.D4)

	n.UpdateKillers(m1)
	if n.Killers[0] != m1 {
		t.Fatalf("Killers[0] = %s, want %s", n.Killers[0], m1)
	}

	n.UpdateKillers(m2)
	if n.Killers[0] != m2 || n.Killers[1] != m1 {
		t.Errorf("after second update, Killers = %v, want [%s %s]", n.Killers, m2, m1)
	}

	// Re-recording the current first slot must not shuffle it into slot 1.
	n.UpdateKillers(m2)
	if n.Killers[0] != m2 || n.Killers[1] != m1 {
		t.Errorf("re-recording Killers[0] shuffled slots: %v", n.Killers)
	}
}

func TestSearchNodeMateKillerSurvivesOrdinaryUpdate(t *testing.T) {
	n := NewRootNode()
	mate := board.NewMove(board.A2, board.A4)
	n.RecordMateKiller(mate)

	n.UpdateKillers(board.NewMove(board.B2, board.B4))
	n.UpdateKillers(board.NewMove(board.C2, board.C4))

	if n.MateKiller != mate {
		t.Errorf("MateKiller = %s, want %s to survive ordinary killer updates", n.MateKiller, mate)
	}
}

func TestSearchNodeIsKiller(t *testing.T) {
	n := NewRootNode()
	k0 := board.NewMove(board.E2, board.E4)
	k1 := board.NewMove(board.D2, board.D4)
	mate := board.NewMove(board.G2, board.G4)
	other := board.NewMove(board.H2, board.H4)

	n.UpdateKillers(k0)
	n.UpdateKillers(k1)
	n.RecordMateKiller(mate)

	for _, m := range []board.Move{k0, k1, mate} {
		if !n.IsKiller(m) {
			t.Errorf("IsKiller(%s) = false, want true", m)
		}
	}
	if n.IsKiller(other) {
		t.Error("IsKiller reported a non-killer move as a killer")
	}
}
