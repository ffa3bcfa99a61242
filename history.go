// history.go implements the move-ordering history tables: plain quiet
// history, a one-ply continuation history, capture history, and pawn-
// hash-indexed correction history. Grounded on
// original_source/cheers_lib/src/history_tables.rs and the update/score
// logic in .../thread_data.rs.

package engine

// Move-ordering score bands, most to least preferred. Grounded on
// original_source/cheers_lib/src/moves.rs.
const (
	ttMoveScore        = 400_000
	winningCaptureBase = 300_000
	killerMoveScore    = 200_000
	countermoveScore   = 100_000
	quietScore         = 0
	losingCaptureBase  = -100_000
	underpromoScore    = -200_000
)

// historyMax bounds the magnitude of any history score, matching the
// gravity-style update in applyHistoryBonus/applyHistoryMalus.
const historyMax = 4096

// HistoryTable holds a quiet-move score per (piece, to-square).
type HistoryTable [PieceCount][64]int16

func (h *HistoryTable) Get(mv Move) int16    { return h[mv.Piece()][mv.To()] }
func (h *HistoryTable) set(mv Move, v int16) { h[mv.Piece()][mv.To()] = v }

// applyHistoryBonus nudges score toward +historyMax by delta, with the
// nudge shrinking as score approaches the cap (gravity).
func applyHistoryBonus(score *int16, delta int16) {
	d, s := int32(delta), int32(*score)
	*score += int16(d - (d*s)/historyMax)
}

// applyHistoryMalus nudges score toward -historyMax by delta.
func applyHistoryMalus(score *int16, delta int16) {
	d, s := int32(delta), int32(*score)
	*score -= int16(d + (d*s)/historyMax)
}

// continuationDepth is how many plies back the continuation history
// looks; the reference keeps this configurable but ships with 1.
const continuationDepth = 1

// ContinuationHistoryTable indexes history by the previous move's
// (piece, to-square) in addition to the current move's (piece,
// to-square), rewarding quiet-move pairs that repeatedly work together.
type ContinuationHistoryTable [PieceCount][64]HistoryTable

func (c *ContinuationHistoryTable) entry(prev Move) *HistoryTable {
	return &c[prev.Piece()][prev.To()]
}

// correctionHistorySize and correctionHistoryUnit match the reference's
// pawn-hash-indexed static-eval correction table.
const (
	correctionHistorySize = 16384
	correctionHistoryUnit = 256
	correctionHistoryMax  = correctionHistoryUnit * 32
)

// CorrectionHistoryTable tracks a running correction to the static
// evaluation per side, indexed by pawn hash, used to reduce eval error
// accumulated from static eval being wrong about a given pawn structure.
type CorrectionHistoryTable [ColorCount][correctionHistorySize]int16

func (c *CorrectionHistoryTable) Get(color Color, pawnHash uint64) int16 {
	return c[color][pawnHash%correctionHistorySize]
}

func (c *CorrectionHistoryTable) entry(color Color, pawnHash uint64) *int16 {
	return &c[color][pawnHash%correctionHistorySize]
}

// Update moves the correction for the pawn structure identified by
// pawnHash toward bonus: the new value is the weight/256 blend of bonus
// and the old value, clamped to ±correctionHistoryMax.
func (c *CorrectionHistoryTable) Update(color Color, pawnHash uint64, bonus int16, weight int32) {
	entry := c.entry(color, pawnHash)
	scaled := int32(*entry)*(256-weight) + int32(bonus)*weight
	v := scaled / 256
	if v > correctionHistoryMax {
		v = correctionHistoryMax
	}
	if v < -correctionHistoryMax {
		v = -correctionHistoryMax
	}
	*entry = int16(v)
}

// SearchStackEntry holds the per-ply state the search and move ordering
// consult: the static eval at this node, the move currently being
// searched (consumed by continuation history one ply later), and
// this ply's killer moves.
type SearchStackEntry struct {
	Eval        int16
	CurrentMove Move
	KillerMoves KillerMoves
	NoisyList   MoveList
	QuietList   MoveList
}

// HistoryTables bundles every table one search worker needs; one
// instance per Lazy SMP thread, never shared.
type HistoryTables struct {
	Quiet        [ColorCount]HistoryTable
	Capture      [ColorCount]HistoryTable
	Continuation [continuationDepth][ColorCount]ContinuationHistoryTable
	Countermove  [ColorCount]CounterMoveTable
	Correction   CorrectionHistoryTable
}

// GetQuietHistory returns the combined quiet-history score for mv: the
// plain history plus the continuation-history contribution from the
// moves played continuationDepth plies earlier.
func (h *HistoryTables) GetQuietHistory(stack []SearchStackEntry, ply int, color Color, mv Move) int32 {
	score := int32(h.Quiet[color].Get(mv))
	for i := 0; i < continuationDepth; i++ {
		prevPly := ply - i - 1
		if prevPly < 0 {
			break
		}
		prev := stack[prevPly].CurrentMove
		if prev.IsNull() {
			break
		}
		score += int32(h.Continuation[i][color].entry(prev).Get(mv))
	}
	return score
}

// UpdateQuietHistories rewards bonusMove (the quiet move that caused a
// beta cutoff) and punishes every move in malusMoves (quiets tried and
// rejected before it), at every ply of continuation history available.
func (h *HistoryTables) UpdateQuietHistories(stack []SearchStackEntry, ply int, color Color, delta int16, bonusMove Move, malusMoves []Move) {
	var conthistMoves [continuationDepth]Move
	have := 0
	for i := 0; i < continuationDepth; i++ {
		prevPly := ply - i - 1
		if prevPly < 0 {
			break
		}
		conthistMoves[i] = stack[prevPly].CurrentMove
		have++
	}

	for i := 0; i < have; i++ {
		cm := conthistMoves[i]
		if cm.IsNull() {
			break
		}
		entry := h.Continuation[i][color].entry(cm)
		score := entry.Get(bonusMove)
		applyHistoryBonus(&score, delta)
		entry.set(bonusMove, score)
	}
	quiet := h.Quiet[color].Get(bonusMove)
	applyHistoryBonus(&quiet, delta)
	h.Quiet[color].set(bonusMove, quiet)

	for _, malus := range malusMoves {
		if malus == bonusMove {
			continue
		}
		for i := 0; i < have; i++ {
			cm := conthistMoves[i]
			if cm.IsNull() {
				break
			}
			entry := h.Continuation[i][color].entry(cm)
			score := entry.Get(malus)
			applyHistoryMalus(&score, delta)
			entry.set(malus, score)
		}
		q := h.Quiet[color].Get(malus)
		applyHistoryMalus(&q, delta)
		h.Quiet[color].set(malus, q)
	}
}

// UpdateCaptureHistories mirrors UpdateQuietHistories for the capture
// history table; bonusMove may be NullMove if the cutoff move was quiet
// (e.g. from quiescence with no qualifying capture).
func (h *HistoryTables) UpdateCaptureHistories(color Color, delta int16, bonusMove Move, malusMoves []Move) {
	if !bonusMove.IsNull() {
		score := h.Capture[color].Get(bonusMove)
		applyHistoryBonus(&score, delta)
		h.Capture[color].set(bonusMove, score)
	}
	for _, malus := range malusMoves {
		if malus == bonusMove {
			continue
		}
		score := h.Capture[color].Get(malus)
		applyHistoryMalus(&score, delta)
		h.Capture[color].set(malus, score)
	}
}

// mvvBonusTable doubles the reference's piece_bonuses, indexed by the
// victim piece, used to weight capture ordering ahead of history.
var mvvBonusTable = [PieceCount]int32{0, 240, 240, 480, 960, 960, 0}

// ScoreCapture returns the ordering score for a capture (or queen/under-
// promotion) move, used by staged move generation.
func (h *HistoryTables) ScoreCapture(b *Board, mv Move) int32 {
	switch mv.Promotion() {
	case Knight, Bishop, Rook:
		return int32(underpromoScore) + int32(pieceValue[mv.Promotion()])
	}
	victim, _ := b.PieceOn(mv.To())
	mvvBonus := 2 * mvvBonusTable[victim]
	captureHist := int32(h.Capture[b.SideToMove].Get(mv))

	if b.SeeBeatsThreshold(mv, 0) {
		return winningCaptureBase + 50_000 + captureHist + mvvBonus
	}
	return losingCaptureBase + 50_000 + captureHist + mvvBonus
}

// ScoreQuiet returns the ordering score for a quiet move at ply, given
// the killer/countermove tables and combined history.
func (h *HistoryTables) ScoreQuiet(b *Board, stack []SearchStackEntry, ply int, mv Move) int32 {
	color := b.SideToMove
	if stack[ply].KillerMoves.Contains(mv) {
		return int32(killerMoveScore) + int32(h.Quiet[color].Get(mv))
	}
	prev := NullMove
	if ply > 0 {
		prev = stack[ply-1].CurrentMove
	}
	if h.Countermove[color].Get(prev) == mv {
		return countermoveScore
	}
	return int32(quietScore) + h.GetQuietHistory(stack, ply, color, mv)
}
