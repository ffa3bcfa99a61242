// eval.go implements the tapered static evaluator: a packed midgame/
// endgame Score, material + piece-square tables, mobility, pawn
// structure (cached by pawn hash), king safety and a tempo term.
// Grounded on original_source/cheers_lib/src/board/eval_types.rs (the
// EvalScore mg/eg packing and GamePhase taper) and
// .../board/evaluate.rs (the per-piece evaluate_* term shape and
// game_phase weighting); the piece-square and structural bonus values
// themselves are this module's own reasonable defaults rather than the
// reference's tuned-by-gradient-descent table (see DESIGN.md).

package engine

// Score packs a midgame and endgame centipawn value into one int32: eg
// in the high 16 bits, mg in the low 16, matching
// original_source/cheers_lib/src/board/eval_types.rs's EvalScore so the
// taper arithmetic (add/sub per term, blend once at the end) stays a
// single 32-bit operation per term instead of two.
type Score int32

// S packs a (midgame, endgame) pair into a Score.
func S(mg, eg int16) Score {
	return Score((int32(eg) << 16) + int32(mg))
}

// Mg returns the midgame component.
func (s Score) Mg() int16 { return int16(s) }

// Eg returns the endgame component, rounding the same way the
// reference does (add the half-bit before shifting so mg's sign doesn't
// bleed into eg).
func (s Score) Eg() int16 { return int16((int32(s) + 0x8000) >> 16) }

func (s Score) Add(o Score) Score { return s + o }
func (s Score) Sub(o Score) Score { return s - o }
func (s Score) Neg() Score        { return S(-s.Mg(), -s.Eg()) }

// DivBy scales both components down by n, used for material-draw
// scaling.
func (s Score) DivBy(n int16) Score { return S(s.Mg()/n, s.Eg()/n) }

// pieceScoreValue gives the tapered material value per piece.
var pieceScoreValue = [PieceCount]Score{
	PieceNone: S(0, 0),
	Pawn:      S(82, 94),
	Knight:    S(337, 281),
	Bishop:    S(365, 297),
	Rook:      S(477, 512),
	Queen:     S(1025, 936),
	King:      S(0, 0),
}

// pst holds piece-square bonuses from White's perspective (a1=0..h8=63);
// Black's value for a square is looked up with the square vertically
// mirrored (sq ^ 56).
var pst = [PieceCount][64]Score{}

func init() {
	initPawnPST()
	initKnightPST()
	initBishopPST()
	initRookPST()
	initQueenPST()
	initKingPST()
}

// pstFromGrids builds a Score table for one piece from flat mg/eg 8x8
// grids written rank-8-first (readable top-down like a board diagram),
// matching the layout convention of hand-written PSTs across the
// example pool.
func pstFromGrids(mg, eg [64]int16) [64]Score {
	var out [64]Score
	for rank := 0; rank < 8; rank++ {
		for file := 0; file < 8; file++ {
			src := rank*8 + file    // index into mg/eg, rank 8 first
			sq := (7-rank)*8 + file // a1=0 indexing
			out[sq] = S(mg[src], eg[src])
		}
	}
	return out
}

func initPawnPST() {
	mg := [64]int16{
		0, 0, 0, 0, 0, 0, 0, 0,
		98, 134, 61, 95, 68, 126, 34, -11,
		-6, 7, 26, 31, 65, 56, 25, -20,
		-14, 13, 6, 21, 23, 12, 17, -23,
		-27, -2, -5, 12, 17, 6, 10, -25,
		-26, -4, -4, -10, 3, 3, 33, -12,
		-35, -1, -20, -23, -15, 24, 38, -22,
		0, 0, 0, 0, 0, 0, 0, 0,
	}
	eg := [64]int16{
		0, 0, 0, 0, 0, 0, 0, 0,
		178, 173, 158, 134, 147, 132, 165, 187,
		94, 100, 85, 67, 56, 53, 82, 84,
		32, 24, 13, 5, -2, 4, 17, 17,
		13, 9, -3, -7, -7, -8, 3, -1,
		4, 7, -6, 1, 0, -5, -1, -8,
		13, 8, 8, 10, 13, 0, 2, -7,
		0, 0, 0, 0, 0, 0, 0, 0,
	}
	pst[Pawn] = pstFromGrids(mg, eg)
}

func initKnightPST() {
	mg := [64]int16{
		-167, -89, -34, -49, 61, -97, -15, -107,
		-73, -41, 72, 36, 23, 62, 7, -17,
		-47, 60, 37, 65, 84, 129, 73, 44,
		-9, 17, 19, 53, 37, 69, 18, 22,
		-13, 4, 16, 13, 28, 19, 21, -8,
		-23, -9, 12, 10, 19, 17, 25, -16,
		-29, -53, -12, -3, -1, 18, -14, -19,
		-105, -21, -58, -33, -17, -28, -19, -23,
	}
	eg := [64]int16{
		-58, -38, -13, -28, -31, -27, -63, -99,
		-25, -8, -25, -2, -9, -25, -24, -52,
		-24, -20, 10, 9, -1, -9, -19, -41,
		-17, 3, 22, 22, 22, 11, 8, -18,
		-18, -6, 16, 25, 16, 17, 4, -18,
		-23, -3, -1, 15, 10, -3, -20, -22,
		-42, -20, -10, -5, -2, -20, -23, -44,
		-29, -51, -23, -15, -22, -18, -50, -64,
	}
	pst[Knight] = pstFromGrids(mg, eg)
}

func initBishopPST() {
	mg := [64]int16{
		-29, 4, -82, -37, -25, -42, 7, -8,
		-26, 16, -18, -13, 30, 59, 18, -47,
		-16, 37, 43, 40, 35, 50, 37, -2,
		-4, 5, 19, 50, 37, 37, 7, -2,
		-6, 13, 13, 26, 34, 12, 10, 4,
		0, 15, 15, 15, 14, 27, 18, 10,
		4, 15, 16, 0, 7, 21, 33, 1,
		-33, -3, -14, -21, -13, -12, -39, -21,
	}
	eg := [64]int16{
		-14, -21, -11, -8, -7, -9, -17, -24,
		-8, -4, 7, -12, -3, -13, -4, -14,
		2, -8, 0, -1, -2, 6, 0, 4,
		-3, 9, 12, 9, 14, 10, 3, 2,
		-6, 3, 13, 19, 7, 10, -3, -9,
		-12, -3, 8, 10, 13, 3, -7, -15,
		-14, -18, -7, -1, 4, -9, -15, -27,
		-23, -9, -23, -5, -9, -16, -5, -17,
	}
	pst[Bishop] = pstFromGrids(mg, eg)
}

func initRookPST() {
	mg := [64]int16{
		32, 42, 32, 51, 63, 9, 31, 43,
		27, 32, 58, 62, 80, 67, 26, 44,
		-5, 19, 26, 36, 17, 45, 61, 16,
		-24, -11, 7, 26, 24, 35, -8, -20,
		-36, -26, -12, -1, 9, -7, 6, -23,
		-45, -25, -16, -17, 3, 0, -5, -33,
		-44, -16, -20, -9, -1, 11, -6, -71,
		-19, -13, 1, 17, 16, 7, -37, -26,
	}
	eg := [64]int16{
		13, 10, 18, 15, 12, 12, 8, 5,
		11, 13, 13, 11, -3, 3, 8, 3,
		7, 7, 7, 5, 4, -3, -5, -3,
		4, 3, 13, 1, 2, 1, -1, 2,
		3, 5, 8, 4, -5, -6, -8, -11,
		-4, 0, -5, -1, -7, -12, -8, -16,
		-6, -6, 0, 2, -9, -9, -11, -3,
		-9, 2, 3, -1, -5, -13, 4, -20,
	}
	pst[Rook] = pstFromGrids(mg, eg)
}

func initQueenPST() {
	mg := [64]int16{
		-28, 0, 29, 12, 59, 44, 43, 45,
		-24, -39, -5, 1, -16, 57, 28, 54,
		-13, -17, 7, 8, 29, 56, 47, 57,
		-27, -27, -16, -16, -1, 17, -2, 1,
		-9, -26, -9, -10, -2, -4, 3, -3,
		-14, 2, -11, -2, -5, 2, 14, 5,
		-35, -8, 11, 2, 8, 15, -3, 1,
		-1, -18, -9, 10, -15, -25, -31, -50,
	}
	eg := [64]int16{
		-9, 22, 22, 27, 27, 19, 10, 20,
		-17, 20, 32, 41, 58, 25, 30, 0,
		-20, 6, 9, 49, 47, 35, 19, 9,
		3, 22, 24, 45, 57, 40, 57, 36,
		-18, 28, 19, 47, 31, 34, 39, 23,
		-16, -27, 15, 6, 9, 17, 10, 5,
		-22, -23, -30, -16, -16, -23, -36, -32,
		-33, -28, -22, -43, -5, -32, -20, -41,
	}
	pst[Queen] = pstFromGrids(mg, eg)
}

func initKingPST() {
	mg := [64]int16{
		-65, 23, 16, -15, -56, -34, 2, 13,
		29, -1, -20, -7, -8, -4, -38, -29,
		-9, 24, 2, -16, -20, 6, 22, -22,
		-17, -20, -12, -27, -30, -25, -14, -36,
		-49, -1, -27, -39, -46, -44, -33, -51,
		-14, -14, -22, -46, -44, -30, -15, -27,
		1, 7, -8, -64, -43, -16, 9, 8,
		-15, 36, 12, -54, 8, -28, 24, 14,
	}
	eg := [64]int16{
		-74, -35, -18, -18, -11, 15, 4, -17,
		-12, 17, 14, 17, 17, 38, 23, 11,
		10, 17, 23, 15, 20, 45, 44, 13,
		-8, 22, 24, 27, 26, 33, 26, 3,
		-18, -4, 21, 24, 27, 23, 9, -11,
		-19, -3, 11, 21, 23, 16, 7, -9,
		-27, -11, 4, 13, 14, 4, -5, -17,
		-53, -34, -21, -11, -28, -14, -24, -43,
	}
	pst[King] = pstFromGrids(mg, eg)
}

// pstLookup returns the piece-square bonus for piece on sq, mirroring
// the square vertically for Black so both colors share one table.
func pstLookup(color Color, piece Piece, sq Square) Score {
	if color == Black {
		sq = Square(int(sq) ^ 56)
	}
	return pst[piece][sq]
}

// mobilityBonus gives a per-attacked-square bonus, indexed by piece.
var mobilityBonus = [PieceCount]Score{
	Knight: S(4, 4),
	Bishop: S(5, 5),
	Rook:   S(2, 4),
	Queen:  S(1, 2),
}

const (
	isolatedPawnMg, isolatedPawnEg         = -11, -5
	doubledPawnMg, doubledPawnEg           = -5, -21
	bishopPairMg, bishopPairEg             = 23, 59
	rookOpenFileMg, rookOpenFileEg         = 20, 10
	rookSemiOpenFileMg, rookSemiOpenFileEg = 10, 5
	kingShieldMg                           = 6
	tempoMg                                = 16
)

// passedPawnBonusByRank is indexed by the pawn's rank from its own
// perspective (1 = second rank, 6 = seventh rank, about to promote).
var passedPawnBonusByRank = [8]Score{
	S(0, 0), S(5, 10), S(10, 20), S(15, 35),
	S(35, 60), S(60, 100), S(90, 150), S(0, 0),
}

// pawnHashEntry caches a White-relative (White-minus-Black) pawn-
// structure score keyed by pawn hash, avoiding recomputing passed/
// isolated/doubled pawns on every call when the pawn structure repeats.
// Grounded on original_source/cheers_lib/src/hash_tables.rs's
// PawnHashEntry/PawnHashTable.
type pawnHashEntry struct {
	hash  uint64
	score Score
}

// PawnHashTable is a simple, non-atomic direct-mapped cache: one per
// search worker, never shared, so no synchronization is needed.
type PawnHashTable struct {
	entries []pawnHashEntry
	mask    uint64
}

// NewPawnHashTable allocates a table sized to the nearest power of two
// at or below sizeMB megabytes.
func NewPawnHashTable(sizeMB int) *PawnHashTable {
	const entrySize = 16
	want := sizeMB * 1024 * 1024 / entrySize
	length := nextPowerOfTwo(want)
	if length > want {
		length >>= 1
	}
	if length == 0 {
		length = 1
	}
	return &PawnHashTable{entries: make([]pawnHashEntry, length), mask: uint64(length - 1)}
}

func (t *PawnHashTable) get(hash uint64) (Score, bool) {
	e := t.entries[hash&t.mask]
	if e.hash != hash {
		return 0, false
	}
	return e.score, true
}

func (t *PawnHashTable) set(hash uint64, score Score) {
	t.entries[hash&t.mask] = pawnHashEntry{hash: hash, score: score}
}

// GamePhase returns a 0..256 taper weight: 0 at the full-material
// starting phase, 256 deep into the endgame. Grounded on
// original_source/cheers_lib/src/board/evaluate.rs game_phase.
func (b *Board) GamePhase() int32 {
	const knightPhase, bishopPhase, rookPhase, queenPhase = 1, 1, 2, 4
	const totalPhase = knightPhase*4 + bishopPhase*4 + rookPhase*4 + queenPhase*2

	phase := int32(0)
	phase += int32(b.ByPiece[Knight].Count()) * knightPhase
	phase += int32(b.ByPiece[Bishop].Count()) * bishopPhase
	phase += int32(b.ByPiece[Rook].Count()) * rookPhase
	phase += int32(b.ByPiece[Queen].Count()) * queenPhase

	remaining := totalPhase - phase
	if remaining < 0 {
		remaining = 0
	}
	return (256 * remaining) / totalPhase
}

// Evaluate returns the static evaluation from the side-to-move's
// perspective, in centipawns.
func (b *Board) Evaluate(pawnCache *PawnHashTable) int16 {
	var eval Score

	if cached, ok := pawnCache.get(b.PawnHash); ok {
		eval = eval.Add(cached)
	} else {
		pawnScore := b.evaluatePawns(White).Sub(b.evaluatePawns(Black))
		pawnCache.set(b.PawnHash, pawnScore)
		eval = eval.Add(pawnScore)
	}

	eval = eval.Add(b.evaluateMaterialAndPST(White)).Sub(b.evaluateMaterialAndPST(Black))
	eval = eval.Add(b.evaluateMobility(White)).Sub(b.evaluateMobility(Black))
	eval = eval.Add(b.evaluateBishopPair(White)).Sub(b.evaluateBishopPair(Black))
	eval = eval.Add(b.evaluateRooks(White)).Sub(b.evaluateRooks(Black))
	eval = eval.Add(b.evaluateKingSafety(White)).Sub(b.evaluateKingSafety(Black))

	if b.SideToMove == White {
		eval = eval.Add(S(tempoMg, 0))
	} else {
		eval = eval.Sub(S(tempoMg, 0))
	}

	if b.MaterialDraw() {
		eval = eval.DivBy(32)
	}

	phase := b.GamePhase()
	blended := (int32(eval.Mg())*(256-phase) + int32(eval.Eg())*phase) / 256

	if b.SideToMove == Black {
		blended = -blended
	}
	return int16(blended)
}

func (b *Board) evaluateMaterialAndPST(color Color) Score {
	var score Score
	for piece := Pawn; piece <= King; piece++ {
		for bb := b.PieceBB(color, piece); bb.IsNotEmpty(); {
			sq := bb.PopLSB()
			score = score.Add(pieceScoreValue[piece]).Add(pstLookup(color, piece, sq))
		}
	}
	return score
}

func (b *Board) evaluateMobility(color Color) Score {
	var score Score
	enemy := color.Other()
	ownPieces := b.ByColor[color]
	enemyPawnAttacks := pawnAttackSpan(b.PieceBB(enemy, Pawn), enemy)
	mobilityArea := ^(ownPieces | enemyPawnAttacks)

	for bb := b.PieceBB(color, Knight); bb.IsNotEmpty(); {
		from := bb.PopLSB()
		n := (KnightAttacks(from) & mobilityArea).Count()
		score = score.Add(mobilityBonus[Knight].scaledBy(n))
	}
	for bb := b.PieceBB(color, Bishop); bb.IsNotEmpty(); {
		from := bb.PopLSB()
		n := (BishopAttacks(from, b.Occupied) & mobilityArea).Count()
		score = score.Add(mobilityBonus[Bishop].scaledBy(n))
	}
	for bb := b.PieceBB(color, Rook); bb.IsNotEmpty(); {
		from := bb.PopLSB()
		n := (RookAttacks(from, b.Occupied) & mobilityArea).Count()
		score = score.Add(mobilityBonus[Rook].scaledBy(n))
	}
	for bb := b.PieceBB(color, Queen); bb.IsNotEmpty(); {
		from := bb.PopLSB()
		n := (QueenAttacks(from, b.Occupied) & mobilityArea).Count()
		score = score.Add(mobilityBonus[Queen].scaledBy(n))
	}
	return score
}

func (s Score) scaledBy(n int) Score { return S(s.Mg()*int16(n), s.Eg()*int16(n)) }

// pawnAttackSpan returns every square a pawn of color attacks.
func pawnAttackSpan(pawns Bitboard, color Color) Bitboard {
	var span Bitboard
	for bb := pawns; bb.IsNotEmpty(); {
		span |= PawnAttacks(color, bb.PopLSB())
	}
	return span
}

func (b *Board) evaluateBishopPair(color Color) Score {
	if b.PieceBB(color, Bishop).Count() >= 2 {
		return S(bishopPairMg, bishopPairEg)
	}
	return 0
}

func (b *Board) evaluateRooks(color Color) Score {
	var score Score
	ownPawns := b.PieceBB(color, Pawn)
	enemyPawns := b.PieceBB(color.Other(), Pawn)
	for bb := b.PieceBB(color, Rook); bb.IsNotEmpty(); {
		from := bb.PopLSB()
		file := fileMask(from.File())
		switch {
		case ownPawns&file == EmptyBB && enemyPawns&file == EmptyBB:
			score = score.Add(S(rookOpenFileMg, rookOpenFileEg))
		case ownPawns&file == EmptyBB:
			score = score.Add(S(rookSemiOpenFileMg, rookSemiOpenFileEg))
		}
	}
	return score
}

func fileMask(file int) Bitboard { return FileABB << uint(file) }

// evaluatePawns scores the pawn structure alone (isolated, doubled,
// passed), the part of the evaluation cached by pawn hash.
func (b *Board) evaluatePawns(color Color) Score {
	var score Score
	pawns := b.PieceBB(color, Pawn)
	enemyPawns := b.PieceBB(color.Other(), Pawn)

	for file := 0; file < 8; file++ {
		onFile := pawns & fileMask(file)
		if onFile.IsEmpty() {
			continue
		}
		if onFile.Count() > 1 {
			score = score.Add(S(doubledPawnMg, doubledPawnEg).scaledBy(onFile.Count() - 1))
		}
		neighbors := EmptyBB
		if file > 0 {
			neighbors |= fileMask(file - 1)
		}
		if file < 7 {
			neighbors |= fileMask(file + 1)
		}
		if pawns&neighbors == EmptyBB {
			score = score.Add(S(isolatedPawnMg, isolatedPawnEg).scaledBy(onFile.Count()))
		}
	}

	for bb := pawns; bb.IsNotEmpty(); {
		sq := bb.PopLSB()
		if isPassedPawn(sq, color, enemyPawns) {
			rank := sq.Rank()
			if color == Black {
				rank = 7 - rank
			}
			score = score.Add(passedPawnBonusByRank[rank])
		}
	}
	return score
}

// isPassedPawn reports whether no enemy pawn on sq's file or either
// adjacent file stands between sq and the promotion rank.
func isPassedPawn(sq Square, color Color, enemyPawns Bitboard) bool {
	file := sq.File()
	var spanMask Bitboard
	for f := file - 1; f <= file+1; f++ {
		if f < 0 || f > 7 {
			continue
		}
		spanMask |= fileMask(f)
	}
	var ahead Bitboard
	if color == White {
		for r := sq.Rank() + 1; r < 8; r++ {
			ahead |= Rank1BB << uint(r*8)
		}
	} else {
		for r := sq.Rank() - 1; r >= 0; r-- {
			ahead |= Rank1BB << uint(r*8)
		}
	}
	return enemyPawns&spanMask&ahead == EmptyBB
}

// evaluateKingSafety gives a small bonus for pawns on the three files
// around the king, a rough proxy for king shelter.
func (b *Board) evaluateKingSafety(color Color) Score {
	king := b.PieceBB(color, King).LSB()
	pawns := b.PieceBB(color, Pawn)
	file := king.File()
	var shield Bitboard
	for f := file - 1; f <= file+1; f++ {
		if f < 0 || f > 7 {
			continue
		}
		shield |= fileMask(f)
	}
	n := (pawns & shield).Count()
	return S(int16(n*kingShieldMg), 0)
}
