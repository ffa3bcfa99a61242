// bitboard.go defines the square and bitboard primitives every other
// component in the package is built on: a 64-bit set representation and
// the square indexing scheme (row-major, a1=0 .. h8=63).

package engine

import (
	"fmt"
	"math/bits"
)

// Square identifies one of the 64 board squares, or the sentinel NoSquare.
type Square int8

// NoSquare is the sentinel "no square" value; never a member of a legal move.
const NoSquare Square = -1

const (
	A1 Square = iota
	B1
	C1
	D1
	E1
	F1
	G1
	H1
	A2
	B2
	C2
	D2
	E2
	F2
	G2
	H2
	A3
	B3
	C3
	D3
	E3
	F3
	G3
	H3
	A4
	B4
	C4
	D4
	E4
	F4
	G4
	H4
	A5
	B5
	C5
	D5
	E5
	F5
	G5
	H5
	A6
	B6
	C6
	D6
	E6
	F6
	G6
	H6
	A7
	B7
	C7
	D7
	E7
	F7
	G7
	H7
	A8
	B8
	C8
	D8
	E8
	F8
	G8
	H8
)

// File returns the square's file, 0 (a) through 7 (h).
func (s Square) File() int { return int(s) & 7 }

// Rank returns the square's rank, 0 (rank 1) through 7 (rank 8).
func (s Square) Rank() int { return int(s) >> 3 }

// Bitboard returns the single-bit mask for this square.
func (s Square) Bitboard() Bitboard { return Bitboard(1) << uint(s) }

// String formats the square in algebraic coordinates, e.g. "e4".
func (s Square) String() string {
	if s == NoSquare {
		return "-"
	}
	return fmt.Sprintf("%c%c", 'a'+byte(s.File()), '1'+byte(s.Rank()))
}

// SquareFromCoord parses algebraic coordinates such as "e4" into a Square.
func SquareFromCoord(coord string) Square {
	if len(coord) < 2 {
		return NoSquare
	}
	file := int(coord[0] - 'a')
	rank := int(coord[1] - '1')
	if file < 0 || file > 7 || rank < 0 || rank > 7 {
		return NoSquare
	}
	return Square(rank*8 + file)
}

// Bitboard is an unordered set of squares packed into a 64-bit mask.
type Bitboard uint64

const (
	EmptyBB Bitboard = 0
	FullBB  Bitboard = 0xFFFFFFFFFFFFFFFF

	FileABB = Bitboard(0x0101010101010101)
	FileHBB = FileABB << 7
	Rank1BB = Bitboard(0xFF)
	Rank2BB = Rank1BB << (8 * 1)
	Rank3BB = Rank1BB << (8 * 2)
	Rank4BB = Rank1BB << (8 * 3)
	Rank5BB = Rank1BB << (8 * 4)
	Rank6BB = Rank1BB << (8 * 5)
	Rank7BB = Rank1BB << (8 * 6)
	Rank8BB = Rank1BB << (8 * 7)

	NotFileABB = ^FileABB
	NotFileHBB = ^FileHBB
)

// IsEmpty reports whether the set has no members.
func (b Bitboard) IsEmpty() bool { return b == 0 }

// IsNotEmpty reports whether the set has at least one member.
func (b Bitboard) IsNotEmpty() bool { return b != 0 }

// Has reports whether sq is a member of b.
func (b Bitboard) Has(sq Square) bool { return b&sq.Bitboard() != 0 }

// Count returns the number of member squares.
func (b Bitboard) Count() int { return bits.OnesCount64(uint64(b)) }

// LSB returns the lowest-indexed member square, or NoSquare if b is empty.
func (b Bitboard) LSB() Square {
	if b == 0 {
		return NoSquare
	}
	return Square(bits.TrailingZeros64(uint64(b)))
}

// PopLSB clears and returns the lowest-indexed member square.
func (b *Bitboard) PopLSB() Square {
	sq := b.LSB()
	*b &= *b - 1
	return sq
}

// Shift returns b shifted by n squares (positive north, negative south).
// Bits shifted past rank 1 or rank 8 are dropped; no file masking is
// applied, so shifts by ±1/±7/±9 wrap across the a- and h-files.
func (b Bitboard) Shift(n int) Bitboard {
	if n >= 0 {
		return b << uint(n)
	}
	return b >> uint(-n)
}

// String renders the bitboard as an 8x8 grid, rank 8 first, for debugging.
func (b Bitboard) String() string {
	out := make([]byte, 0, 8*9)
	for rank := 7; rank >= 0; rank-- {
		for file := 0; file < 8; file++ {
			sq := Square(rank*8 + file)
			if b.Has(sq) {
				out = append(out, '1')
			} else {
				out = append(out, '.')
			}
		}
		out = append(out, '\n')
	}
	return string(out)
}

// squareIterator supports ranging over set squares in ascending order.
type squareIterator struct{ bb Bitboard }

// Iter returns an iterator-like helper; callers loop with:
//
//	for bb := b; bb.IsNotEmpty(); {
//	    sq := bb.PopLSB()
//	    ...
//	}
//
// Next is provided for callers that prefer an explicit iterator value.
func (b Bitboard) Iter() squareIterator { return squareIterator{bb: b} }

func (it *squareIterator) Next() (Square, bool) {
	if it.bb.IsEmpty() {
		return NoSquare, false
	}
	return it.bb.PopLSB(), true
}
