// movegen.go generates fully legal moves directly from the check mask
// and pin masks Board.MakeMove/ParseFEN already maintain — no
// generate-then-filter pass. Grounded on
// original_source/cheers_lib/src/board/movegen.rs, flattened from its
// per-(color,check-state,ep-state) generic dispatch into plain runtime
// branches, and from per-piece MoveMask batches into direct MoveList
// pushes (Go has no zero-cost const generics to lean on here).

package engine

// GenerateLegalMoves appends every legal move in b to list.
func GenerateLegalMoves(b *Board, list *MoveList) {
	generateMoves(b, list, true, true)
}

// GenerateLegalCaptures appends only captures and queen promotions,
// for quiescence search and staged move ordering.
func GenerateLegalCaptures(b *Board, list *MoveList) {
	generateMoves(b, list, true, false)
}

// GenerateLegalQuiets appends only non-capturing, non-queen-promoting
// moves.
func GenerateLegalQuiets(b *Board, list *MoveList) {
	generateMoves(b, list, false, true)
}

func generateMoves(b *Board, list *MoveList, captures, quiets bool) {
	color := b.SideToMove
	switch {
	case b.CheckMask == FullBoard:
		genPawnMoves(b, list, color, false, captures, quiets)
		genLeaperMoves(b, list, color, Knight, false, captures, quiets)
		genSliderMoves(b, list, color, Bishop, false, captures, quiets)
		genSliderMoves(b, list, color, Rook, false, captures, quiets)
		genSliderMoves(b, list, color, Queen, false, captures, quiets)
		genKingMoves(b, list, color, false, true, captures, quiets)
	case b.CheckMask != EmptyBB:
		genPawnMoves(b, list, color, true, captures, quiets)
		genLeaperMoves(b, list, color, Knight, true, captures, quiets)
		genSliderMoves(b, list, color, Bishop, true, captures, quiets)
		genSliderMoves(b, list, color, Rook, true, captures, quiets)
		genSliderMoves(b, list, color, Queen, true, captures, quiets)
		genKingMoves(b, list, color, true, false, captures, quiets)
	default:
		// double check: only the king can move
		genKingMoves(b, list, color, true, false, captures, quiets)
	}
}

// validMoveTargets returns the squares any non-king piece may land on:
// not occupied by a friendly piece, and (if in single check) restricted
// to the check mask.
func validMoveTargets(b *Board, color Color, inCheck bool) Bitboard {
	targets := ^b.ByColor[color]
	if inCheck {
		targets &= b.CheckMask
	}
	return targets
}

func pushMaybePromotion(list *MoveList, captures, quiets bool, piece Piece, from, to Square, rank1or8 bool) {
	if piece == Pawn && rank1or8 {
		if !captures && !quiets {
			return
		}
		// queen promotions count as noisy (captures=true pulls them in);
		// under-promotions are quiet-ish and only emitted when quiets requested.
		if captures {
			list.Push(NewMove(Pawn, from, to, Queen))
		}
		if quiets {
			list.Push(NewMove(Pawn, from, to, Knight))
			list.Push(NewMove(Pawn, from, to, Rook))
			list.Push(NewMove(Pawn, from, to, Bishop))
		}
		return
	}
	list.Push(NewMove(piece, from, to, PieceNone))
}

func genPawnMoves(b *Board, list *MoveList, color Color, inCheck, captures, quiets bool) {
	enemy := color.Other()
	pawns := b.PieceBB(color, Pawn)
	enemyPieces := b.ByColor[enemy]
	pinMask := b.DiagonalPinMask | b.OrthogonalPinMask
	promoRank := Rank8BB
	if color == Black {
		promoRank = Rank1BB
	}

	hasEP := b.EnPassant != NoSquare

	emitPawn := func(pawn Square, pushes, caps, ep Bitboard) {
		combined := (pushes | caps) & b.CheckMask
		if !captures {
			combined &^= enemyPieces
		}
		if !quiets {
			combined &= enemyPieces | promoRank
		}
		for bb := combined; bb.IsNotEmpty(); {
			to := bb.PopLSB()
			pushMaybePromotion(list, captures, quiets, Pawn, pawn, to, to.Bitboard()&promoRank != 0)
		}
		if hasEP && captures {
			epTarget := ep & b.EnPassant.Bitboard() & b.CheckMask.Shift(forwardShift(color))
			if epTarget != EmptyBB {
				list.Push(NewMove(Pawn, pawn, b.EnPassant, PieceNone))
			}
		}
	}

	for bb := pawns &^ pinMask; bb.IsNotEmpty(); {
		pawn := bb.PopLSB()
		pushes := b.pawnPushes(color, pawn)
		attacks := PawnAttacks(color, pawn)
		caps := attacks & enemyPieces
		ep := EmptyBB
		if hasEP {
			ep = attacks & b.EnPassant.Bitboard()
			if ep != EmptyBB && !epLegal(b, color, pawn) {
				ep = EmptyBB
			}
		}
		emitPawn(pawn, pushes, caps, ep)
	}

	if !inCheck {
		for bb := pawns & b.OrthogonalPinMask; bb.IsNotEmpty(); {
			pawn := bb.PopLSB()
			pushes := b.pawnPushes(color, pawn) & b.OrthogonalPinMask
			if !quiets {
				continue
			}
			for pbb := pushes; pbb.IsNotEmpty(); {
				to := pbb.PopLSB()
				pushMaybePromotion(list, captures, quiets, Pawn, pawn, to, to.Bitboard()&promoRank != 0)
			}
		}
		for bb := pawns & b.DiagonalPinMask; bb.IsNotEmpty(); {
			pawn := bb.PopLSB()
			attacks := PawnAttacks(color, pawn)
			caps := attacks & enemyPieces & b.DiagonalPinMask
			ep := EmptyBB
			if hasEP && captures {
				ep = attacks & b.EnPassant.Bitboard() & b.DiagonalPinMask
				if ep != EmptyBB && !epLegal(b, color, pawn) {
					ep = EmptyBB
				}
			}
			if captures {
				for cbb := caps; cbb.IsNotEmpty(); {
					to := cbb.PopLSB()
					pushMaybePromotion(list, captures, quiets, Pawn, pawn, to, to.Bitboard()&promoRank != 0)
				}
				if ep != EmptyBB {
					list.Push(NewMove(Pawn, pawn, b.EnPassant, PieceNone))
				}
			}
		}
	}
}

func forwardShift(color Color) int {
	if color == White {
		return 8
	}
	return -8
}

// epLegal rules out the rare case where capturing en passant would
// expose the king to a horizontal rook/queen check through the two
// pawns that disappear in the same instant.
func epLegal(b *Board, color Color, pawn Square) bool {
	enemy := color.Other()
	king := b.PieceBB(color, King).LSB()
	epTargetSq := behindPawn(color, b.EnPassant)
	enemyOrthogonals := b.PieceBB(enemy, Rook) | b.PieceBB(enemy, Queen)
	occupied := (b.Occupied &^ pawn.Bitboard() &^ epTargetSq.Bitboard()) | b.EnPassant.Bitboard()
	return RookAttacks(king, occupied)&enemyOrthogonals == EmptyBB
}

func genLeaperMoves(b *Board, list *MoveList, color Color, piece Piece, inCheck, captures, quiets bool) {
	pieces := b.PieceBB(color, piece)
	pinMask := b.DiagonalPinMask | b.OrthogonalPinMask
	targets := filterTargets(b, validMoveTargets(b, color, inCheck), captures, quiets)

	for bb := pieces &^ pinMask; bb.IsNotEmpty(); {
		from := bb.PopLSB()
		moves := KnightAttacks(from) & targets
		for mb := moves; mb.IsNotEmpty(); {
			list.Push(NewMove(piece, from, mb.PopLSB(), PieceNone))
		}
	}
	// pinned knights can never move without abandoning the pin line.
}

func filterTargets(b *Board, targets Bitboard, captures, quiets bool) Bitboard {
	if !captures {
		targets &^= b.ByColor[b.SideToMove.Other()]
	}
	if !quiets {
		targets &= b.ByColor[b.SideToMove.Other()]
	}
	return targets
}

func genSliderMoves(b *Board, list *MoveList, color Color, piece Piece, inCheck, captures, quiets bool) {
	pieces := b.PieceBB(color, piece)
	diag := piece == Bishop || piece == Queen
	orth := piece == Rook || piece == Queen
	pinMask := b.DiagonalPinMask | b.OrthogonalPinMask
	targets := filterTargets(b, validMoveTargets(b, color, inCheck), captures, quiets)

	for bb := pieces &^ pinMask; bb.IsNotEmpty(); {
		from := bb.PopLSB()
		moves := AttacksFrom(piece, from, b.Occupied) & targets
		for mb := moves; mb.IsNotEmpty(); {
			list.Push(NewMove(piece, from, mb.PopLSB(), PieceNone))
		}
	}

	if inCheck {
		return
	}
	if diag {
		diagTargets := targets & b.DiagonalPinMask
		for bb := pieces & b.DiagonalPinMask; bb.IsNotEmpty(); {
			from := bb.PopLSB()
			moves := BishopAttacks(from, b.Occupied) & diagTargets
			for mb := moves; mb.IsNotEmpty(); {
				list.Push(NewMove(piece, from, mb.PopLSB(), PieceNone))
			}
		}
	}
	if orth {
		orthTargets := targets & b.OrthogonalPinMask
		for bb := pieces & b.OrthogonalPinMask; bb.IsNotEmpty(); {
			from := bb.PopLSB()
			moves := RookAttacks(from, b.Occupied) & orthTargets
			for mb := moves; mb.IsNotEmpty(); {
				list.Push(NewMove(piece, from, mb.PopLSB(), PieceNone))
			}
		}
	}
}

func genKingMoves(b *Board, list *MoveList, color Color, inCheck, allowCastling, captures, quiets bool) {
	king := b.PieceBB(color, King).LSB()
	targets := filterTargets(b, validMoveTargets(b, color, false), captures, quiets)
	safe := ^b.allEnemyAttacks(color, king.Bitboard())

	moves := KingAttacks(king) & targets & safe
	for mb := moves; mb.IsNotEmpty(); {
		list.Push(NewMove(King, king, mb.PopLSB(), PieceNone))
	}

	if !allowCastling || !quiets {
		return
	}
	rights := b.CastlingRooks[color]
	if rights[Kingside] != EmptyBB && b.CastlingLegal(color, Kingside) {
		list.Push(NewMove(King, king, rights[Kingside].LSB(), PieceNone))
	}
	if rights[Queenside] != EmptyBB && b.CastlingLegal(color, Queenside) {
		list.Push(NewMove(King, king, rights[Queenside].LSB(), PieceNone))
	}
}
