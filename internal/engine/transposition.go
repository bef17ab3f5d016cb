package engine

import (
	"fmt"

	"github.com/kehlund/corvid/internal/board"
)

// TTFlag indicates the type of bound stored in the transposition table.
type TTFlag uint8

const (
	TTExact      TTFlag = iota // Exact score
	TTLowerBound               // Failed high (beta cutoff)
	TTUpperBound               // Failed low
)

func (f TTFlag) String() string {
	switch f {
	case TTExact:
		return "exact"
	case TTLowerBound:
		return "lower"
	case TTUpperBound:
		return "upper"
	default:
		return "?"
	}
}

// GenLimit bounds the generation counter age scores are computed against;
// ages wrap modulo GenLimit rather than growing without bound, so the table
// can serve an arbitrarily long game without overflow bookkeeping.
const GenLimit = 8

// bucketSize is B: each hash index holds this many competing entries
// rather than the single slot the teacher's table used, trading a short
// linear scan for a materially better replacement decision.
const bucketSize = 4

// entrySize approximates sizeof(TTEntry) for capacity sizing: 8 (key) +
// 2 (move) + 2 (score) + 1 (depth) + 1 (age) + 1 (flag), rounded up.
const entrySize = 16

// TTEntry is one slot of a bucket. The key is stored in full (unlike the
// teacher's truncated 32-bit verification key) since a bucket already
// absorbs most of the collision risk a narrower key was hedging against.
type TTEntry struct {
	Key   uint64
	Move  board.Move
	Score int16
	Depth int8
	Age   uint8
	Flag  TTFlag
	used  bool
}

type ttBucket [bucketSize]TTEntry

// TranspositionTable is a fixed-size, bucketed, Zobrist-keyed cache of
// search results. Unlike the teacher's single-slot-per-index table, every
// index holds bucketSize competing entries, and eviction picks the slot
// with the lowest ageScore[age]+depth value rather than a simple
// same-generation-or-deeper test.
type TranspositionTable struct {
	buckets    []ttBucket
	mask       uint64
	generation uint8
	ageScore   [GenLimit]int32

	probes, hits, stores, collisions uint64
}

// NewTranspositionTable allocates a table sized to fit within maxBytes,
// rounding the bucket count down to a power of two. It returns an error
// if maxBytes is below the 1024-byte minimum.
func NewTranspositionTable(maxBytes int) (*TranspositionTable, error) {
	const minBytes = 1024
	if maxBytes < minBytes {
		return nil, fmt.Errorf("transposition table: %d bytes is below the %d byte minimum", maxBytes, minBytes)
	}

	bucketBytes := uint64(bucketSize * entrySize)
	numBuckets := uint64(1)
	for (numBuckets*2)*bucketBytes <= uint64(maxBytes) {
		numBuckets *= 2
	}

	tt := &TranspositionTable{
		buckets: make([]ttBucket, numBuckets),
		mask:    numBuckets - 1,
	}
	tt.recomputeAgeScores()
	return tt, nil
}

func (tt *TranspositionTable) recomputeAgeScores() {
	for age := 0; age < GenLimit; age++ {
		distance := (int(tt.generation) - age + GenLimit) % GenLimit
		tt.ageScore[age] = int32(GenLimit-distance) * 128
	}
}

// Clear zeroes every entry and resets statistics and the generation clock.
func (tt *TranspositionTable) Clear() {
	for i := range tt.buckets {
		tt.buckets[i] = ttBucket{}
	}
	tt.generation = 0
	tt.probes, tt.hits, tt.stores, tt.collisions = 0, 0, 0, 0
	tt.recomputeAgeScores()
}

// NewSearch starts a new search generation. Entries from older generations
// become progressively cheaper to evict: age_score[i] = (GenLimit - (gen-i)
// mod GenLimit) * 128, so an entry's replacement cost falls every time the
// generation advances past it without a refreshing probe or store.
func (tt *TranspositionTable) NewSearch() {
	tt.generation = uint8((int(tt.generation) + 1) % GenLimit)
	tt.recomputeAgeScores()
}

// Probe looks up hash and returns the stored entry and whether it was
// found. A hit refreshes the entry's age to the current generation, so
// nodes revisited within a search resist eviction.
func (tt *TranspositionTable) Probe(hash uint64) (TTEntry, bool) {
	tt.probes++
	b := &tt.buckets[hash&tt.mask]
	for i := range b {
		if b[i].used && b[i].Key == hash {
			tt.hits++
			b[i].Age = tt.generation
			return b[i], true
		}
	}
	return TTEntry{}, false
}

// Store inserts or updates the entry for hash. A slot already holding
// hash is updated in place; otherwise the slot with the lowest
// (ageScore[age] + depth) value is evicted, i.e. the oldest, shallowest
// entry in the bucket.
func (tt *TranspositionTable) Store(hash uint64, depth int, score int, flag TTFlag, bestMove board.Move) {
	tt.stores++
	b := &tt.buckets[hash&tt.mask]

	victim := 0
	var victimValue int32 = 1 << 30
	for i := range b {
		if !b[i].used {
			victim = i
			victimValue = -(1 << 30)
			continue
		}
		if b[i].Key == hash {
			victim = i
			victimValue = -(1 << 30)
			break
		}
		v := tt.ageScore[b[i].Age] + int32(b[i].Depth)
		if v < victimValue {
			victim = i
			victimValue = v
		}
	}

	if b[victim].used && b[victim].Key != hash {
		tt.collisions++
	}

	if bestMove == board.NoMove && b[victim].Key == hash {
		bestMove = b[victim].Move
	}

	b[victim] = TTEntry{
		Key:   hash,
		Move:  bestMove,
		Score: int16(score),
		Depth: int8(depth),
		Age:   tt.generation,
		Flag:  flag,
		used:  true,
	}
}

// StoreLine walks a principal variation iteratively, storing each position
// along it as an exact entry at decreasing depth. It never recurses: the
// moves are applied in order with an explicit undo stack, then unwound,
// so a long PV cannot grow the call stack.
func (tt *TranspositionTable) StoreLine(pos *board.Position, pv []board.Move, depth int, score int) {
	undos := make([]board.UndoInfo, 0, len(pv))

	d, s := depth, score
	applied := 0
	for _, m := range pv {
		if d < 0 || !pos.IsPseudoLegal(m) {
			break
		}
		tt.Store(pos.Hash, d, s, TTExact, m)

		undo := pos.MakeMove(m)
		undos = append(undos, undo)
		applied++
		d--
		s = -s
	}

	for i := applied - 1; i >= 0; i-- {
		pos.UnmakeMove(pv[i], undos[i])
	}
}

// HashFull returns the per-mille share of slots holding a current-generation
// entry, sampling the first 1000 buckets (or all of them, for a smaller
// table). Entries left from older generations are not counted.
func (tt *TranspositionTable) HashFull() int {
	sample := 1000
	if sample > len(tt.buckets) {
		sample = len(tt.buckets)
	}
	if sample == 0 {
		return 0
	}

	used := 0
	for i := 0; i < sample; i++ {
		for _, e := range tt.buckets[i] {
			if e.used && e.Age == tt.generation {
				used++
			}
		}
	}
	return used * 1000 / (sample * bucketSize)
}

// HitRate returns the cache hit rate as a percentage.
func (tt *TranspositionTable) HitRate() float64 {
	if tt.probes == 0 {
		return 0
	}
	return float64(tt.hits) / float64(tt.probes) * 100
}

// Size returns the number of buckets in the table.
func (tt *TranspositionTable) Size() uint64 {
	return uint64(len(tt.buckets))
}

// PrintStats renders a one-line human-readable usage summary.
func (tt *TranspositionTable) PrintStats() string {
	return fmt.Sprintf("tt: %d buckets, %d%% full, probes=%d hits=%d (%.1f%%) stores=%d collisions=%d",
		len(tt.buckets), tt.HashFull()/10, tt.probes, tt.hits, tt.HitRate(), tt.stores, tt.collisions)
}

// AdjustScoreFromTT converts a score read from the table (mate distances
// measured from the stored position) back into one measured from the root,
// for a node ply plies below the root. Mate scores are stored relative to
// their own position so they stay valid when the same position is probed
// at a different ply.
func AdjustScoreFromTT(score int, ply int) int {
	if score > MateScore-MaxPly {
		return score - ply
	}
	if score < -MateScore+MaxPly {
		return score + ply
	}
	return score
}

// AdjustScoreToTT is the inverse of AdjustScoreFromTT, applied before a
// score is stored.
func AdjustScoreToTT(score int, ply int) int {
	if score > MateScore-MaxPly {
		return score + ply
	}
	if score < -MateScore+MaxPly {
		return score - ply
	}
	return score
}
