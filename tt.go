// tt.go implements the shared, lock-free transposition table: one
// cache-line-ish entry per slot holding two atomic words (key, data),
// validated by XORing the data back out of the stored key. Grounded on
// original_source/cheers_lib/src/transposition_table.rs, ported from its
// RwLock<Vec<Entry>>-guarded-resize design (Go's race detector and this
// package's simpler resize-at-setup lifecycle make the RwLock
// unnecessary: the table is sized once before search workers start).

package engine

import "sync/atomic"

// NodeType records which bound a stored score represents.
type NodeType uint8

const (
	NodeExact NodeType = iota
	NodeUpperBound
	NodeLowerBound
)

// defaultTTSizeMB is the table size used when SearchOptions doesn't
// specify one.
const defaultTTSizeMB = 64

const ttEntrySize = 16 // bytes: two uint64 atomics per slot

// ttEntry is one slot: key and data are independently atomic, and data
// is only trusted once key^data reproduces the position's hash,
// guarding against a torn read racing a concurrent write from another
// Lazy SMP worker.
type ttEntry struct {
	key  atomic.Uint64
	data atomic.Uint64
}

// TranspositionTable is shared, read and written concurrently by every
// Lazy SMP search worker with no external locking.
type TranspositionTable struct {
	entries []ttEntry
	mask    uint64
}

// NewTranspositionTable allocates a table sized to the nearest power of
// two at or below sizeMB megabytes.
func NewTranspositionTable(sizeMB int) *TranspositionTable {
	if sizeMB <= 0 {
		sizeMB = defaultTTSizeMB
	}
	want := sizeMB * 1024 * 1024 / ttEntrySize
	length := nextPowerOfTwo(want)
	if length > want {
		length >>= 1
	}
	if length == 0 {
		length = 1
	}
	return &TranspositionTable{
		entries: make([]ttEntry, length),
		mask:    uint64(length - 1),
	}
}

func nextPowerOfTwo(n int) int {
	if n <= 1 {
		return 1
	}
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}

// Clear resets every slot, used by `ucinewgame`.
func (tt *TranspositionTable) Clear() {
	for i := range tt.entries {
		tt.entries[i].key.Store(0)
		tt.entries[i].data.Store(0)
	}
}

// TTEntry is the decoded view of a stored slot, returned by Probe. It
// stores (from, to, promotion) rather than a full Move, since the
// moving piece isn't known until it's resolved against a live Board
// (see ResolveMove) — exactly as the reference implementation looks
// the piece back up on the position rather than storing it.
type TTEntry struct {
	Score     int32
	Depth     int8
	From      Square
	To        Square
	Promotion Piece
	NodeType  NodeType
	HasMove   bool
}

// ResolveMove reconstructs the full packed Move against a live board,
// using whatever piece currently sits on From. Returns NullMove if this
// entry carries no move.
func (e TTEntry) ResolveMove(b *Board) Move {
	if !e.HasMove {
		return NullMove
	}
	piece, ok := b.PieceOn(e.From)
	if !ok {
		return NullMove
	}
	return NewMove(piece, e.From, e.To, e.Promotion)
}

func packData(mv Move, depth int8, score int32, nodeType NodeType) uint64 {
	data := uint64(uint32(score))
	data |= uint64(uint8(depth)) << 32
	data |= uint64(mv.From()) << 40
	data |= uint64(mv.To()) << 48
	data |= uint64(mv.Promotion()) << 56
	data |= uint64(nodeType) << 59
	if !mv.IsNull() {
		data |= 1 << 61
	}
	return data
}

func unpackEntry(data uint64) TTEntry {
	return TTEntry{
		Score:     int32(uint32(data)),
		Depth:     int8(uint8(data >> 32)),
		From:      Square((data >> 40) & 0x3F),
		To:        Square((data >> 48) & 0x3F),
		Promotion: Piece((data >> 56) & 0x7),
		NodeType:  NodeType((data >> 59) & 0x3),
		HasMove:   (data>>61)&1 != 0,
	}
}

// Store writes an entry for hash, subject to depth-preferred
// replacement: an existing entry for the same hash searched deeper than
// depth is kept; anything else is overwritten.
func (tt *TranspositionTable) Store(hash uint64, mv Move, depth int8, score int32, nodeType NodeType) {
	index := hash & tt.mask
	slot := &tt.entries[index]

	existing := slot.data.Load()
	storedDepth := int8(uint8(existing >> 32))
	if slot.key.Load()^existing == hash && storedDepth > depth {
		return
	}

	data := packData(mv, depth, score, nodeType)
	slot.key.Store(hash ^ data)
	slot.data.Store(data)
}

// Probe returns the stored entry for hash and whether it's valid: valid
// means the XOR-encoded key matches hash, which fails (and is treated
// as a miss) both on an empty slot and on a hash collision.
func (tt *TranspositionTable) Probe(hash uint64) (TTEntry, bool) {
	index := hash & tt.mask
	slot := &tt.entries[index]
	data := slot.data.Load()
	key := slot.key.Load()
	if key^data != hash {
		return TTEntry{}, false
	}
	return unpackEntry(data), true
}
