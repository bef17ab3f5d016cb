package engine

import (
	"sync/atomic"
	"time"

	"github.com/kehlund/corvid/internal/board"
)

// SearchInfo contains information about the current search, reported to
// OnInfo once per completed iterative-deepening iteration.
type SearchInfo struct {
	Depth    int
	Score    int
	Nodes    uint64
	Time     time.Duration
	PV       []board.Move
	HashFull int // Permille of hash table used
}

// SearchLimits specifies constraints on a fixed-depth or fixed-time search.
type SearchLimits struct {
	Depth    int           // Maximum depth (0 = no limit)
	Nodes    uint64        // Maximum nodes (0 = no limit)
	MoveTime time.Duration // Time for this move (0 = no limit)
	Infinite bool          // Search until stopped
	MultiPV  int           // Number of principal variations to find (0 or 1 = single best move)
}

// SearchResult contains the result of a single PV search.
type SearchResult struct {
	Move  board.Move
	Score int
	PV    []board.Move
	Depth int
}

// Difficulty represents the engine's playing strength.
type Difficulty int

const (
	Easy   Difficulty = iota // ~3 ply, 500ms
	Medium                   // ~7 ply, 1s
	Hard                     // maximum strength, time-limited
)

// DifficultySettings maps difficulty to search limits.
var DifficultySettings = map[Difficulty]SearchLimits{
	Easy:   {Depth: 3, MoveTime: 500 * time.Millisecond},
	Medium: {Depth: 7, MoveTime: 1 * time.Second},
	Hard:   {Depth: 40, MoveTime: 3 * time.Second},
}

// Engine drives a single Searcher through iterative deepening, reporting
// progress via OnInfo. The teacher's Engine coordinated a Lazy-SMP pool of
// Workers sharing one TranspositionTable; this Engine is the
// single-threaded core that pool would have wrapped, since the spec's
// search support is concerned with one thread's move ordering, one
// thread's transposition table, and one thread's history table.
type Engine struct {
	tt       *TranspositionTable
	searcher *Searcher
	stopFlag atomic.Bool

	difficulty Difficulty

	rootPosHashes []uint64

	OnInfo func(SearchInfo)
}

// NewEngine creates a new chess engine with the given transposition table
// size in bytes.
func NewEngine(ttSizeBytes int) *Engine {
	tt, err := NewTranspositionTable(ttSizeBytes)
	if err != nil {
		tt, _ = NewTranspositionTable(1 << 20)
	}

	return &Engine{
		tt:         tt,
		searcher:   NewSearcher(tt),
		difficulty: Medium,
	}
}

// SetDifficulty sets the engine difficulty.
func (e *Engine) SetDifficulty(d Difficulty) {
	e.difficulty = d
}

// SetPositionHistory sets the position history for repetition detection.
// This should be called before Search() with hashes from the game's move
// history.
func (e *Engine) SetPositionHistory(hashes []uint64) {
	e.rootPosHashes = make([]uint64, len(hashes))
	copy(e.rootPosHashes, hashes)
}

// ResizeHash replaces the transposition table with a freshly sized one,
// for the UCI "setoption name Hash" command. The old table's contents are
// discarded.
func (e *Engine) ResizeHash(bytes int) {
	tt, err := NewTranspositionTable(bytes)
	if err != nil {
		return
	}
	e.tt = tt
	e.searcher = NewSearcher(tt)
}

// Search finds the best move for the given position at the engine's
// configured difficulty.
func (e *Engine) Search(pos *board.Position) board.Move {
	limits := DifficultySettings[e.difficulty]
	return e.SearchWithLimits(pos, limits)
}

// SearchWithLimits finds the best move with specific search limits,
// iterating depth by depth until limits.Depth, limits.MoveTime, or
// limits.Nodes is reached.
func (e *Engine) SearchWithLimits(pos *board.Position, limits SearchLimits) board.Move {
	e.stopFlag.Store(false)
	e.tt.NewSearch()
	e.searcher.Reset()
	e.searcher.SetRootHistory(e.rootPosHashes)
	e.searcher.SetMultiPV(limits.MultiPV)

	startTime := time.Now()
	var bestMove board.Move
	var bestScore int
	var bestDepth int

	maxDepth := MaxPly
	if limits.Depth > 0 {
		maxDepth = limits.Depth
	}

	var deadline time.Time
	if limits.MoveTime > 0 {
		deadline = startTime.Add(limits.MoveTime)
	}

	work := pos.Copy()
	e.searcher.pos = work

	for depth := 1; depth <= maxDepth; depth++ {
		if e.stopFlag.Load() {
			break
		}

		move, score := e.searcher.SearchDepth(depth, -Infinity, Infinity)

		if e.searcher.IsStopped() {
			break
		}

		if move != board.NoMove {
			bestMove = move
			bestScore = score
			bestDepth = depth

			if e.OnInfo != nil {
				e.OnInfo(SearchInfo{
					Depth:    bestDepth,
					Score:    bestScore,
					Nodes:    e.searcher.Nodes(),
					Time:     time.Since(startTime),
					PV:       e.searcher.GetPV(),
					HashFull: e.tt.HashFull(),
				})
			}
		}

		if score > MateScore-100 || score < -MateScore+100 {
			break
		}

		if limits.Nodes > 0 && e.searcher.Nodes() >= limits.Nodes {
			break
		}

		if !deadline.IsZero() {
			elapsed := time.Since(startTime)
			remaining := limits.MoveTime - elapsed
			if remaining < elapsed {
				break
			}
		}
	}

	e.stopFlag.Store(true)
	return bestMove
}

// SearchWithUCILimits finds the best move using UCI time controls,
// supporting wtime/btime/winc/binc for tournament time management.
func (e *Engine) SearchWithUCILimits(pos *board.Position, limits UCILimits, ply int) board.Move {
	tm := NewTimeManager()
	tm.Init(limits, pos.SideToMove, ply)

	e.stopFlag.Store(false)
	e.tt.NewSearch()
	e.searcher.Reset()
	e.searcher.SetRootHistory(e.rootPosHashes)
	e.searcher.SetMultiPV(1)

	startTime := time.Now()
	var bestMove, lastBestMove board.Move
	var bestScore int
	var bestDepth int
	var stabilityCount, instabilityCount int

	maxDepth := MaxPly
	if limits.Depth > 0 {
		maxDepth = limits.Depth
	}

	work := pos.Copy()
	e.searcher.pos = work

	for depth := 1; depth <= maxDepth; depth++ {
		if e.stopFlag.Load() || tm.ShouldStop() {
			break
		}

		move, score := e.searcher.SearchDepth(depth, -Infinity, Infinity)

		if e.searcher.IsStopped() {
			break
		}

		if move != board.NoMove {
			if move == lastBestMove {
				stabilityCount++
				instabilityCount = 0
			} else {
				instabilityCount++
				stabilityCount = 0
			}
			lastBestMove = move

			bestMove = move
			bestScore = score
			bestDepth = depth

			if e.OnInfo != nil {
				e.OnInfo(SearchInfo{
					Depth:    bestDepth,
					Score:    bestScore,
					Nodes:    e.searcher.Nodes(),
					Time:     time.Since(startTime),
					PV:       e.searcher.GetPV(),
					HashFull: e.tt.HashFull(),
				})
			}
		}

		if score > MateScore-100 || score < -MateScore+100 {
			break
		}

		if tm.PastOptimum() {
			if instabilityCount >= 2 {
				tm.AdjustForInstability(instabilityCount)
			} else if stabilityCount >= 2 {
				tm.AdjustForStability(stabilityCount)
			}
			if stabilityCount >= 4 {
				break
			}
		}

		if limits.Nodes > 0 && e.searcher.Nodes() >= limits.Nodes {
			break
		}
	}

	e.stopFlag.Store(true)
	return bestMove
}

// SearchMultiPV finds multiple best moves (principal variations) for
// analysis, searching once per requested PV with already-found moves
// excluded from the root.
func (e *Engine) SearchMultiPV(pos *board.Position, limits SearchLimits) []SearchResult {
	numPV := limits.MultiPV
	if numPV <= 0 {
		numPV = 1
	}

	results := make([]SearchResult, 0, numPV)
	excludedMoves := make([]board.Move, 0, numPV)

	for i := 0; i < numPV; i++ {
		move, score, pv, depth := e.searchWithExclusions(pos, limits, excludedMoves)
		if move == board.NoMove {
			break
		}

		results = append(results, SearchResult{
			Move:  move,
			Score: score,
			PV:    pv,
			Depth: depth,
		})
		excludedMoves = append(excludedMoves, move)
	}

	for i := 0; i < len(results)-1; i++ {
		maxIdx := i
		for j := i + 1; j < len(results); j++ {
			if results[j].Score > results[maxIdx].Score {
				maxIdx = j
			}
		}
		if maxIdx != i {
			results[i], results[maxIdx] = results[maxIdx], results[i]
		}
	}

	return results
}

// searchWithExclusions searches for the best move, excluding certain
// moves at the root, for one SearchMultiPV slot.
func (e *Engine) searchWithExclusions(pos *board.Position, limits SearchLimits, excluded []board.Move) (board.Move, int, []board.Move, int) {
	e.searcher.Reset()
	e.searcher.SetExcludedMoves(excluded)
	e.searcher.SetMultiPV(limits.MultiPV)
	e.searcher.pos = pos.Copy()
	e.tt.NewSearch()

	startTime := time.Now()
	var bestMove board.Move
	var bestScore int
	var bestDepth int

	maxDepth := MaxPly
	if limits.Depth > 0 {
		maxDepth = limits.Depth
	}

	var deadline time.Time
	if limits.MoveTime > 0 {
		deadline = startTime.Add(limits.MoveTime)
	}

	for depth := 1; depth <= maxDepth; depth++ {
		if !deadline.IsZero() && time.Now().After(deadline) {
			break
		}

		move, score := e.searcher.SearchDepth(depth, -Infinity, Infinity)

		if e.searcher.IsStopped() {
			break
		}

		if move != board.NoMove {
			bestMove = move
			bestScore = score
			bestDepth = depth
		}

		if score > MateScore-100 || score < -MateScore+100 {
			break
		}

		if !deadline.IsZero() {
			elapsed := time.Since(startTime)
			remaining := limits.MoveTime - elapsed
			if remaining < elapsed {
				break
			}
		}
	}

	pv := e.searcher.GetPV()
	e.searcher.SetExcludedMoves(nil)

	return bestMove, bestScore, pv, bestDepth
}

// Stop stops the current search.
func (e *Engine) Stop() {
	e.stopFlag.Store(true)
	e.searcher.Stop()
}

// Clear clears the transposition table and the search's history table.
func (e *Engine) Clear() {
	e.tt.Clear()
	e.searcher.ClearOrderer()
}

// Perft counts leaf nodes at depth for move generation testing.
func (e *Engine) Perft(pos *board.Position, depth int) uint64 {
	if depth == 0 {
		return 1
	}

	moves := pos.GenerateLegalMoves()
	if depth == 1 {
		return uint64(moves.Len())
	}

	var nodes uint64
	for i := 0; i < moves.Len(); i++ {
		move := moves.Get(i)
		undo := pos.MakeMove(move)
		nodes += e.Perft(pos, depth-1)
		pos.UnmakeMove(move, undo)
	}

	return nodes
}

// Evaluate returns the static evaluation of a position.
func (e *Engine) Evaluate(pos *board.Position) int {
	return Evaluate(pos)
}

// ScoreToString converts a centipawn or mate score to a human-readable
// string, e.g. "1.25" or "Mate in 3".
func ScoreToString(score int) string {
	if score > MateScore-100 {
		mateIn := (MateScore - score + 1) / 2
		return "Mate in " + itoa(mateIn)
	}
	if score < -MateScore+100 {
		mateIn := (MateScore + score + 1) / 2
		return "Mated in " + itoa(mateIn)
	}

	sign := ""
	if score < 0 {
		sign = "-"
		score = -score
	}
	pawns := score / 100
	centipawns := score % 100
	if centipawns < 10 {
		return sign + itoa(pawns) + ".0" + itoa(centipawns)
	}

	return sign + itoa(pawns) + "." + itoa(centipawns)
}

// itoa converts a non-negative (or negative) integer to a string without
// pulling in fmt for this one call site.
func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	if n < 0 {
		return "-" + itoa(-n)
	}
	s := ""
	for n > 0 {
		s = string('0'+byte(n%10)) + s
		n /= 10
	}
	return s
}
