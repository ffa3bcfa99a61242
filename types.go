// types.go defines the small enumerations shared across the package:
// piece kind, color, and castling side indexing.

package engine

// Piece identifies a piece kind without color. PieceNone marks an empty
// square or "no promotion" in a packed Move.
type Piece uint8

const (
	PieceNone Piece = iota
	Pawn
	Knight
	Bishop
	Rook
	Queen
	King

	PieceCount = int(King) + 1
)

var pieceLetters = [PieceCount]byte{' ', 'P', 'N', 'B', 'R', 'Q', 'K'}

func (p Piece) String() string {
	if int(p) >= len(pieceLetters) {
		return "?"
	}
	return string(pieceLetters[p])
}

// Color is the side to move or own a piece.
type Color uint8

const (
	White Color = iota
	Black

	ColorCount = int(Black) + 1
)

// Other returns the opposing color.
func (c Color) Other() Color { return c ^ 1 }

func (c Color) String() string {
	if c == White {
		return "w"
	}
	return "b"
}

// CastlingSide indexes the two castling directions per color.
type CastlingSide uint8

const (
	Kingside CastlingSide = iota
	Queenside

	CastlingSideCount = int(Queenside) + 1
)

// pieceValue gives the simple fixed integer values used by SEE and MVV
// ordering (not the tapered evaluation weights in eval.go).
// Grounded on original_source/cheers_lib/src/board/see.rs SEE_PIECE_VALUES.
var pieceValue = [PieceCount]int16{
	PieceNone: 0,
	Pawn:      100,
	Knight:    300,
	Bishop:    300,
	Rook:      500,
	Queen:     900,
	King:      20000,
}
