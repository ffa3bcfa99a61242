// move.go packs a chess move into a single machine word and provides the
// move-list / PV / killer / countermove containers used by move
// generation and search. Grounded on the packed-move and sorting-move
// design of original_source/cheers_lib/src/moves.rs, adapted to Go value
// types (no generics over array length; fixed-size arrays instead).

package engine

import (
	"fmt"
	"strings"
)

// Move is a packed (piece, from, to, promotion) tuple. The zero value is
// the reserved "null move" sentinel and is never a legal move: no "from"
// square collides with the encoding of square zero because Piece occupies
// the low bits and PieceNone (0) can never be a real moving piece.
type Move uint32

// NullMove is the reserved sentinel used for "no move" slots (PV, TT,
// killers, countermoves).
const NullMove Move = 0

// NewMove packs a move. promotion is PieceNone for all non-promoting moves.
func NewMove(piece Piece, from, to Square, promotion Piece) Move {
	return Move(uint32(piece) | uint32(from)<<3 | uint32(to)<<9 | uint32(promotion)<<15)
}

func (m Move) Piece() Piece      { return Piece(m & 0x7) }
func (m Move) From() Square      { return Square((m >> 3) & 0x3F) }
func (m Move) To() Square        { return Square((m >> 9) & 0x3F) }
func (m Move) Promotion() Piece  { return Piece((m >> 15) & 0x7) }
func (m Move) IsNull() bool      { return m == NullMove }
func (m Move) IsPromotion() bool { return m.Promotion() != PieceNone }

// IsCastling reports whether this move's encoding is "king captures its
// own rook": the from/to delta is King-shaped but spans more than one
// file. This is decidable from the move alone since only castling moves
// a king more than one square.
func (m Move) IsCastling() bool {
	return m.Piece() == King && abs(m.To().File()-m.From().File()) > 1
}

// IsDoublePawnPush reports a two-square pawn advance.
func (m Move) IsDoublePawnPush() bool {
	return m.Piece() == Pawn && abs(int(m.To())-int(m.From())) == 16
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// UCI renders the move in standard UCI coordinate notation, translating
// the internal "king captures rook" castling encoding to e1g1/e1c1/e8g8/e8c8.
func (m Move) UCI() string {
	if m.IsNull() {
		return "0000"
	}
	from, to := m.From(), m.To()
	if m.IsCastling() {
		rank := from.Rank()
		if to.File() > from.File() {
			to = Square(rank*8 + 6) // g-file
		} else {
			to = Square(rank*8 + 2) // c-file
		}
	}
	s := from.String() + to.String()
	switch m.Promotion() {
	case Knight:
		s += "n"
	case Bishop:
		s += "b"
	case Rook:
		s += "r"
	case Queen:
		s += "q"
	}
	return s
}

func (m Move) String() string { return m.UCI() }

// promotionFromLetter maps a UCI promotion letter to a Piece.
func promotionFromLetter(c byte) Piece {
	switch c {
	case 'n':
		return Knight
	case 'b':
		return Bishop
	case 'r':
		return Rook
	case 'q':
		return Queen
	}
	return PieceNone
}

// MoveFromUCI parses a UCI move string against the current position,
// translating standard castling coordinates (e1g1, e1c1, e8g8, e8c8) to
// the internal king-captures-rook encoding using the position's current
// castling rights.
func MoveFromUCI(b *Board, s string) Move {
	s = strings.TrimSpace(s)
	if len(s) < 4 {
		return NullMove
	}
	from := SquareFromCoord(s[0:2])
	to := SquareFromCoord(s[2:4])
	if from == NoSquare || to == NoSquare {
		return NullMove
	}
	promotion := PieceNone
	if len(s) >= 5 {
		promotion = promotionFromLetter(s[4])
	}
	piece, ok := b.PieceOn(from)
	if !ok {
		piece = Pawn
	}
	if piece == King && abs(to.File()-from.File()) > 1 {
		color := b.SideToMove
		if to.File() > from.File() {
			to = b.CastlingRooks[color][Kingside].LSB()
		} else {
			to = b.CastlingRooks[color][Queenside].LSB()
		}
	}
	return NewMove(piece, from, to, promotion)
}

// ResolveLegalMove parses a UCI move string against b and checks it
// against the legal move list, returning ErrIllegalMove if the string
// is malformed or doesn't name a move legal in the current position.
// Callers that need to report a rejected move to external input (UCI
// `position ... moves`, etc.) should use this instead of MoveFromUCI
// directly, since MoveFromUCI alone can't distinguish "malformed" from
// "legal but not what the position's pins/checks allow".
func ResolveLegalMove(b *Board, s string) (Move, error) {
	mv := MoveFromUCI(b, s)
	if mv.IsNull() {
		return NullMove, fmt.Errorf("%w: %q", ErrIllegalMove, s)
	}
	var moves MoveList
	GenerateLegalMoves(b, &moves)
	if !moves.Contains(mv) {
		return NullMove, fmt.Errorf("%w: %q", ErrIllegalMove, s)
	}
	return mv, nil
}

// ---- move list with in-place selection sort ----

// maxMoves bounds a single position's legal move count; 218 is the known
// theoretical maximum in standard chess.
const maxMoves = 218

// ScoredMove pairs a move with its ordering score.
type ScoredMove struct {
	Move  Move
	Score int32
}

// MoveList is a fixed-capacity move buffer supporting append and
// in-place selection-sort extraction of the highest-scoring remaining
// move, so sort cost is paid only for the moves actually consumed.
type MoveList struct {
	items [maxMoves]ScoredMove
	n     int
}

func (l *MoveList) Reset()       { l.n = 0 }
func (l *MoveList) Len() int     { return l.n }
func (l *MoveList) IsEmpty() bool { return l.n == 0 }

func (l *MoveList) Push(mv Move) {
	l.items[l.n] = ScoredMove{Move: mv}
	l.n++
}

func (l *MoveList) PushScored(mv Move, score int32) {
	l.items[l.n] = ScoredMove{Move: mv, Score: score}
	l.n++
}

func (l *MoveList) At(i int) ScoredMove { return l.items[i] }

func (l *MoveList) SetScore(i int, score int32) { l.items[i].Score = score }

// PickMove selects the highest-scoring move among [from, n), swaps it
// into position `from`, and returns it. Callers iterate from=0..n-1.
func (l *MoveList) PickMove(from int) ScoredMove {
	best := from
	for i := from + 1; i < l.n; i++ {
		if l.items[i].Score > l.items[best].Score {
			best = i
		}
	}
	l.items[from], l.items[best] = l.items[best], l.items[from]
	return l.items[from]
}

// Contains reports whether mv is present (used by ResolveLegalMove to
// check a parsed move against the legal move list).
func (l *MoveList) Contains(mv Move) bool {
	for i := 0; i < l.n; i++ {
		if l.items[i].Move == mv {
			return true
		}
	}
	return false
}

func (l *MoveList) Moves() []Move {
	out := make([]Move, l.n)
	for i := 0; i < l.n; i++ {
		out[i] = l.items[i].Move
	}
	return out
}

// ---- principal variation ----

// MaxPVLen bounds the principal variation length reported to the UCI layer.
const MaxPVLen = 16

// PrincipalVariation is a bounded sequence of moves built by copy-up from
// deeper recursive calls.
type PrincipalVariation struct {
	Len   int
	Moves [MaxPVLen]Move
}

// Update places mv at the front and appends child's moves behind it,
// truncating to MaxPVLen.
func (pv *PrincipalVariation) Update(mv Move, child *PrincipalVariation) {
	pv.Moves[0] = mv
	n := child.Len
	if n > MaxPVLen-1 {
		n = MaxPVLen - 1
	}
	copy(pv.Moves[1:1+n], child.Moves[:n])
	pv.Len = n + 1
}

func (pv *PrincipalVariation) Clear() { pv.Len = 0 }

func (pv *PrincipalVariation) String() string {
	var sb strings.Builder
	for i := 0; i < pv.Len; i++ {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(pv.Moves[i].UCI())
	}
	return sb.String()
}

// ---- killer moves ----

// NumKillers is the number of killer-move slots kept per ply.
const NumKillers = 2

// KillerMoves is an LRU-style set of quiet moves that caused a beta
// cutoff at a given ply in a sibling branch.
type KillerMoves [NumKillers]Move

func (k *KillerMoves) Push(mv Move) {
	if k[0] == mv || k[1] == mv {
		return
	}
	k[1] = k[0]
	k[0] = mv
}

func (k *KillerMoves) Contains(mv Move) bool { return k[0] == mv || k[1] == mv }

// ---- countermove table ----

// CounterMoveTable maps (piece, to) of the previous move to the reply
// that most recently caused a cutoff.
type CounterMoveTable [PieceCount][64]Move

func (c *CounterMoveTable) Get(prev Move) Move {
	if prev.IsNull() {
		return NullMove
	}
	return c[prev.Piece()][prev.To()]
}

func (c *CounterMoveTable) Set(prev, reply Move) {
	if prev.IsNull() {
		return
	}
	c[prev.Piece()][prev.To()] = reply
}
