// zobrist.go generates the incremental hash keys used by Board.Hash and
// Board.PawnHash. Grounded on original_source/cheers_lib/src/zobrist.rs:
// a single seeded random stream of 64*6*2+1+16+8 numbers, sliced into
// piece/color/square keys, a side-to-move key, 16 castling-rights keys
// and 8 en-passant-file keys.

package engine

import "math/rand"

// zobristSeed is fixed so every process run (and every test run) derives
// identical hashes; it is not meant to be unpredictable, only stable.
const zobristSeed = 0x11A5117AB1E0

const (
	zobristPieceCount   = 64 * int(PieceCount-1) * ColorCount
	zobristSideOffset    = zobristPieceCount
	zobristCastlingOffset = zobristSideOffset + 1
	zobristEPOffset      = zobristCastlingOffset + 16
	zobristTotal         = zobristEPOffset + 8
)

var zobristNumbers [zobristTotal]uint64

func init() {
	r := rand.New(rand.NewSource(zobristSeed))
	for i := range zobristNumbers {
		zobristNumbers[i] = r.Uint64()
	}
}

// zobristPiece returns the key for a (piece, color, square) placement.
// piece must be Pawn..King (PieceNone has no key).
func zobristPiece(piece Piece, color Color, sq Square) uint64 {
	idx := int(piece-1)*ColorCount*64 + int(color)*64 + int(sq)
	return zobristNumbers[idx]
}

// zobristSide is XORed in whenever it is Black to move.
func zobristSide() uint64 { return zobristNumbers[zobristSideOffset] }

// zobristCastling returns the key for a specific castling-rights
// configuration, encoded as 4 bits: white-kingside, white-queenside,
// black-kingside, black-queenside.
func zobristCastling(rights [ColorCount][CastlingSideCount]bool) uint64 {
	index := 0
	if rights[White][Kingside] {
		index |= 1
	}
	if rights[White][Queenside] {
		index |= 2
	}
	if rights[Black][Kingside] {
		index |= 4
	}
	if rights[Black][Queenside] {
		index |= 8
	}
	return zobristNumbers[zobristCastlingOffset+index]
}

// zobristEnPassant returns the key for an en-passant target square,
// keyed only by file since rank is implied by side to move.
func zobristEnPassant(sq Square) uint64 {
	if sq == NoSquare {
		return 0
	}
	return zobristNumbers[zobristEPOffset+sq.File()]
}
