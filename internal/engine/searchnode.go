package engine

import (
	"github.com/kehlund/corvid/internal/board"
)

// MateKillerSlot identifies the mate-killer slot passed to ScoreKiller,
// distinct from the two ordinary killer slots (0 and 1).
const MateKillerSlot = -1

// SearchNode carries the per-ply state a search driver threads through
// negamax: killer moves for this ply and an explicit link to the parent
// node. The teacher's worker.go reaches two plies up with raw pointer
// arithmetic on a flat searchStack array (w.searchStack[ply-2]); here the
// link is an explicit field, so walking to an ancestor is a method call
// rather than an index computed from ply.
type SearchNode struct {
	Ply    int
	Parent *SearchNode

	Killers    [2]board.Move
	MateKiller board.Move

	StaticEval  int
	MoveCount   int
	InCheck     bool
	SingleReply bool
}

// NewRootNode returns the ply-0 node of a search tree.
func NewRootNode() *SearchNode {
	return &SearchNode{Ply: 0}
}

// Child returns a new node one ply below n, linked back to it.
func (n *SearchNode) Child() *SearchNode {
	return &SearchNode{Ply: n.Ply + 1, Parent: n}
}

// Ancestor walks up n generations of Parent links and returns that node,
// or nil if the tree isn't that deep yet.
func (n *SearchNode) Ancestor(generations int) *SearchNode {
	cur := n
	for i := 0; i < generations && cur != nil; i++ {
		cur = cur.Parent
	}
	return cur
}

// Grandparent is a convenience for Ancestor(2), the node two plies up --
// used by continuation-style heuristics that look at the position before
// the opponent's last reply.
func (n *SearchNode) Grandparent() *SearchNode {
	return n.Ancestor(2)
}

// UpdateKillers records m as the most recent killer at this node, unless
// it is already the first slot. A promoted mate killer is never evicted by
// an ordinary killer update; only RecordMateKiller replaces it.
func (n *SearchNode) UpdateKillers(m board.Move) {
	if n.Killers[0] == m {
		return
	}
	n.Killers[1] = n.Killers[0]
	n.Killers[0] = m
}

// RecordMateKiller promotes m to the mate-killer slot: a quiet move that
// delivered or refuted a forced mate at this node, which the scorer ranks
// above the ordinary killer slots (see ScoreKiller).
func (n *SearchNode) RecordMateKiller(m board.Move) {
	n.MateKiller = m
}

// IsKiller reports whether m occupies any killer slot (ordinary or mate)
// at this node.
func (n *SearchNode) IsKiller(m board.Move) bool {
	return m == n.MateKiller || m == n.Killers[0] || m == n.Killers[1]
}
