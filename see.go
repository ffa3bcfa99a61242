// see.go implements static exchange evaluation: the swap-list algorithm
// that walks a capture sequence on one square to its quiescent end and
// reports the net material result. Grounded on
// original_source/cheers_lib/src/board/see.rs.

package engine

// seeWinningScore marks a position as a clear material win; nothing in
// the module references it at present.
const seeWinningScore = 10000

// mvvLVA gives the most-valuable-victim/least-valuable-attacker ordering
// score, indexed [victim][attacker]. Grounded on
// original_source/cheers_lib/src/board/see.rs MVV_LVA.
var mvvLVA = [PieceCount - 1][PieceCount - 1]int16{
	{15, 14, 13, 12, 11, 10}, // pawn captured
	{25, 24, 23, 22, 21, 20}, // knight captured
	{35, 34, 33, 32, 31, 30}, // bishop captured
	{45, 44, 43, 42, 41, 40}, // rook captured
	{55, 54, 53, 52, 51, 50}, // queen captured
	{0, 0, 0, 0, 0, 0},       // king captured (never happens)
}

// MVVLVA returns the move-ordering score for a capture of victim by
// attacker (both Pawn..King).
func MVVLVA(attacker, victim Piece) int16 {
	return mvvLVA[victim-1][attacker-1]
}

// See returns the static exchange evaluation of mv: the net material
// swing, in centipawns, if both sides play the best sequence of
// recaptures on mv.To() starting with mv.
func (b *Board) See(mv Move) int16 {
	target := mv.To()
	var swapList [32]int16

	currentAttacker := mv.Piece()
	attackerMask := mv.From().Bitboard()

	bishops := b.ByPiece[Bishop] | b.ByPiece[Queen]
	rooks := b.ByPiece[Rook] | b.ByPiece[Queen]

	if captured, ok := b.PieceOn(target); ok {
		swapList[0] = pieceValue[captured]
	}

	if promo := mv.Promotion(); promo != PieceNone {
		currentAttacker = promo
		swapList[0] += pieceValue[promo] - pieceValue[Pawn]
	}

	occupied := b.Occupied
	color := b.SideToMove.Other()

	if mv.Piece() == Pawn && target == b.EnPassant && b.EnPassant != NoSquare {
		capSq := behindPawn(b.SideToMove, target)
		occupied ^= b.EnPassant.Bitboard() | capSq.Bitboard()
		swapList[0] = pieceValue[Pawn]
	}

	attackers := b.attackersTo(target, occupied)

	i := 0
	for n := 1; n < 32; n++ {
		i++
		promotion := currentAttacker == Pawn && (target.Rank() == 0 || target.Rank() == 7)
		var pieceVal int16
		if promotion {
			swapList[i-1] += pieceValue[Queen] - pieceValue[Pawn]
			pieceVal = pieceValue[Queen]
		} else {
			pieceVal = pieceValue[currentAttacker]
		}
		swapList[i] = pieceVal - swapList[i-1]
		if max16(swapList[i], swapList[i-1]) < 0 {
			break
		}

		occupied ^= attackerMask

		if currentAttacker == Pawn || currentAttacker == Bishop || currentAttacker == Queen {
			attackers |= BishopAttacks(target, occupied) & bishops
		}
		if currentAttacker == Rook || currentAttacker == Queen {
			attackers |= RookAttacks(target, occupied) & rooks
		}

		attackers &= occupied
		if attackers.IsEmpty() {
			break
		}

		attackerMask = EmptyBB
		found := false
		for p := Pawn; p <= King; p++ {
			mask := b.PieceBB(color, p)
			if attackers&mask != EmptyBB {
				currentAttacker = p
				attackerMask = (attackers & mask).LSB().Bitboard()
				found = true
				break
			}
		}
		if !found {
			break
		}
		color = color.Other()
	}

	i--
	for i != 0 {
		swapList[i-1] = -max16(swapList[i], -swapList[i-1])
		i--
	}
	return swapList[0]
}

// SeeBeatsThreshold reports whether See(mv) >= threshold, short-
// circuiting the swap-list walk as soon as the result is decided rather
// than always computing the full sequence; used by search pruning where
// only the comparison against a margin matters.
func (b *Board) SeeBeatsThreshold(mv Move, threshold int16) bool {
	var value int16
	if mv.Piece() == Pawn && mv.To() == b.EnPassant && b.EnPassant != NoSquare {
		value = pieceValue[Pawn] - threshold
	} else {
		captured := PieceNone
		if p, ok := b.PieceOn(mv.To()); ok {
			captured = p
		}
		promo := mv.Promotion()
		promoGain := int16(0)
		if promo != PieceNone {
			promoGain = pieceValue[promo] - pieceValue[Pawn]
		}
		value = pieceValue[captured] + promoGain - threshold
	}

	if value < 0 {
		return false
	}

	moved := mv.Piece()
	if promo := mv.Promotion(); promo != PieceNone {
		moved = promo
	}
	value -= pieceValue[moved]
	if value >= 0 {
		return true
	}

	occupied := b.Occupied &^ mv.From().Bitboard()
	if mv.Piece() == Pawn && mv.To() == b.EnPassant && b.EnPassant != NoSquare {
		capSq := behindPawn(b.SideToMove, mv.To())
		occupied &^= capSq.Bitboard()
	}
	attackers := b.attackersTo(mv.To(), occupied)

	bishops := b.ByPiece[Bishop] | b.ByPiece[Queen]
	rooks := b.ByPiece[Rook] | b.ByPiece[Queen]

	color := b.SideToMove.Other()

	for {
		attackers &= occupied
		current := attackers & b.ByColor[color]
		if current.IsEmpty() {
			break
		}

		var piece Piece
		for p := Pawn; p <= King; p++ {
			if current&b.PieceBB(color, p) != EmptyBB {
				piece = p
				break
			}
		}
		pieceMask := b.PieceBB(color, piece)

		other := b.ByColor[color.Other()]
		color = color.Other()

		value = -value - pieceValue[piece] - 1
		if value >= 0 {
			if piece == King && attackers&other != EmptyBB {
				color = color.Other()
			}
			break
		}

		occupied ^= (current & pieceMask).LSB().Bitboard()

		if piece == Pawn || piece == Bishop || piece == Queen {
			attackers |= BishopAttacks(mv.To(), occupied) & bishops
		}
		if piece == Rook || piece == Queen {
			attackers |= RookAttacks(mv.To(), occupied) & rooks
		}
	}

	return color != b.SideToMove
}

func max16(a, b int16) int16 {
	if a > b {
		return a
	}
	return b
}
