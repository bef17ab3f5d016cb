package engine

import (
	"github.com/kehlund/corvid/internal/board"
)

// Score bands used to separate move classes so that sorting within a class
// never crosses into another. Generalized from the teacher's ordering.go
// constants (TTMoveScore / GoodCaptureBase / KillerScore1 / KillerScore2 /
// BadCaptureBase); split further so killer slot order and mate-killer
// priority are each their own class rather than two fixed constants.
const (
	ScoreHashMove      = 30_000_000
	ScoreGoodTactic    = 20_000_000
	ScoreMateKiller    = 15_000_000
	ScoreKiller0       = 14_000_000
	ScoreKiller1       = 13_000_000
	ScoreQuietBase     = 0
	ScoreBadTactic     = -10_000_000
)

// mvvLva[victim][attacker] ranks captures by victim value first, attacker
// value second -- identical table shape to the teacher's ordering.go.
var mvvLva = [6][6]int{
	/* P */ {15, 14, 14, 13, 12, 11},
	/* N */ {25, 24, 24, 23, 22, 21},
	/* B */ {35, 34, 34, 33, 32, 31},
	/* R */ {45, 44, 44, 43, 42, 41},
	/* Q */ {55, 54, 54, 53, 52, 51},
	/* K */ {0, 0, 0, 0, 0, 0},
}

// ScoreHash scores the hash (TT) move. It is always first in whichever
// phase list contains a TRANS phase.
func ScoreHash() int {
	return ScoreHashMove
}

// ScoreTactic scores a capture or promotion using SEE to separate good
// exchanges (SEE >= 0) from bad ones (SEE < 0), then breaks ties with
// MVV-LVA within the good band. A losing tactic is demoted below every
// quiet move so it sorts into the BAD_TACTICS phase rather than GOOD.
func ScoreTactic(pos *board.Position, m board.Move) int {
	see := board.SEE(pos, m)

	attacker := m.MovedType(pos)
	victim := m.CapturedType(pos)
	if victim == board.NoPieceType {
		// Non-capturing promotion: rank by promoted piece value, always good.
		return ScoreGoodTactic + int(m.Promotion())*100
	}

	mvv := mvvLva[victim][attacker] * 1000

	if see >= 0 {
		return ScoreGoodTactic + mvv + see
	}
	return ScoreBadTactic + mvv + see
}

// ScoreKiller scores a killer move by slot: the mate killer outranks the
// two ordinary killer slots, which are ranked in recency order.
func ScoreKiller(slot int) int {
	switch slot {
	case MateKillerSlot:
		return ScoreMateKiller
	case 0:
		return ScoreKiller0
	case 1:
		return ScoreKiller1
	default:
		return ScoreQuietBase
	}
}

// ScoreQuiet scores a quiet move from its history table entry. The table
// is keyed by piece x destination (board.Move.HistoryIndex), a
// generalization of the teacher's from x to table (internal/engine/
// ordering.go's history [64][64]int), matching the data model's history
// index definition.
func ScoreQuiet(h *HistoryTable, idx int) int {
	return ScoreQuietBase + h.Get(idx)
}

// sortByScore descending-sorts all of moves (and their parallel
// scores) using selection sort, matching the teacher's PickMove/SortMoves
// approach: cheap for the small counts a single phase ever has to order.
func sortByScore(moves []board.Move, scores []int) {
	n := len(moves)
	for i := 0; i < n-1; i++ {
		best := i
		for j := i + 1; j < n; j++ {
			if scores[j] > scores[best] {
				best = j
			}
		}
		if best != i {
			moves[i], moves[best] = moves[best], moves[i]
			scores[i], scores[best] = scores[best], scores[i]
		}
	}
}

// pickBest moves the highest-scoring move at or after index to index,
// leaving everything before index untouched. This is the lazy
// best-first step the MoveSelector uses instead of a full upfront sort.
func pickBest(moves []board.Move, scores []int, index int) {
	best := index
	for j := index + 1; j < len(moves); j++ {
		if scores[j] > scores[best] {
			best = j
		}
	}
	if best != index {
		moves[index], moves[best] = moves[best], moves[index]
		scores[index], scores[best] = scores[best], scores[index]
	}
}
