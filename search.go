// search.go implements the search entry point: iterative-deepening
// negamax with principal variation search, null-move/reverse-futility/
// futility/late-move/SEE pruning, internal iterative reduction,
// late-move reduction with re-search, and quiescence. Grounded on
// original_source/cheers_lib/src/search.rs for the overall iterative-
// deepening/negamax/quiescence shape (TT-probe-then-move-loop,
// PVS re-search, fail-hard quiescence stand-pat), generalized with the
// richer pruning set and staged-ordering score bands SPEC_FULL.md
// requires (see history.go/options.go), which the reference project
// carries in its not-yet-wired `move_sorting`/`options`/`history_tables`
// modules rather than in search.rs itself.

package engine

import (
	"context"
	"math"
	"sync/atomic"
	"time"

	"github.com/op/go-logging"
)

var log = logging.MustGetLogger("engine")

// MaxPly bounds search recursion depth and the search-stack array size.
const MaxPly = 128

// Mate/draw score constants. CheckmateScore matches the reference
// program's board-side eval_params.rs CHECKMATE_SCORE; MateWindow is
// this module's own choice of how close to CheckmateScore a score must
// be before it's reported as "mate in K" rather than a centipawn score.
const (
	CheckmateScore int32 = 30000
	DrawScore      int32 = 0
	MateWindow     int32 = 1000
	infScore       int32 = 1 << 20
)

// ProbeFunc is the tablebase-probe hook named by the spec's Limits type
// but left unimplemented: no probing code ships, so Limits.Probe stays
// nil unless a caller supplies one.
type ProbeFunc func(b *Board) (score int32, found bool)

// Limits bounds one search call. MoveTime is a resolved time budget;
// translating wtime/btime/winc/binc/movestogo into MoveTime is cmd/uci's
// job, not the core's (§5: "the core exposes a small board+search API
// and leaves orchestration to the caller").
type Limits struct {
	Depth    int
	Nodes    uint64
	MoveTime time.Duration
	Infinite bool
	Probe    ProbeFunc
}

// SearchShared is shared, lock-free state every Lazy SMP worker reads
// and writes: the transposition table, a process-wide stop flag, and a
// node counter. One instance per "new game".
type SearchShared struct {
	TT    *TranspositionTable
	Abort atomic.Bool
	Nodes atomic.Uint64
}

// NewSearchShared allocates the TT at sizeMB megabytes.
func NewSearchShared(sizeMB int) *SearchShared {
	return &SearchShared{TT: NewTranspositionTable(sizeMB)}
}

// Worker holds one Lazy SMP thread's private state: history tables,
// pawn-hash cache, and search stack. Never shared between goroutines.
type Worker struct {
	ID        int
	Options   SearchOptions
	Shared    *SearchShared
	History   HistoryTables
	PawnCache *PawnHashTable
	stack     [MaxPly + 1]SearchStackEntry

	repetitionHashes []uint64 // game history up to (not including) the search root
	startTime        time.Time
	deadline         time.Time
	hasDeadline      bool
}

// NewWorker constructs a fresh per-thread worker against the shared TT.
func NewWorker(id int, opts SearchOptions, shared *SearchShared) *Worker {
	return &Worker{
		ID:        id,
		Options:   opts,
		Shared:    shared,
		PawnCache: NewPawnHashTable(4),
	}
}

// lmrTable[depth][moveIndex] gives the late-move-reduction amount,
// precomputed with the conventional log-log formula.
var lmrTable [64][64]int8

func init() {
	for depth := 1; depth < 64; depth++ {
		for moveIndex := 1; moveIndex < 64; moveIndex++ {
			r := 0.75 + math.Log(float64(depth))*math.Log(float64(moveIndex))/2.25
			if r < 0 {
				r = 0
			}
			lmrTable[depth][moveIndex] = int8(r)
		}
	}
}

// Search runs iterative deepening from depth 1 until a limit is hit,
// returning the last fully completed iteration's score and PV. rootHistory
// is the list of position hashes from the start of the game up to (but
// not including) root, used for repetition detection.
func (w *Worker) Search(ctx context.Context, root Board, limits Limits, rootHistory []uint64) (int32, PrincipalVariation) {
	w.startTime = time.Now()
	if limits.MoveTime > 0 {
		w.deadline = w.startTime.Add(limits.MoveTime)
		w.hasDeadline = true
	}
	w.repetitionHashes = rootHistory

	var lastScore int32
	var lastPV PrincipalVariation

	maxDepth := limits.Depth
	if maxDepth <= 0 || maxDepth > MaxPly {
		maxDepth = MaxPly
	}

	for depth := 1; depth <= maxDepth; depth++ {
		var pv PrincipalVariation
		score := w.negamax(&root, -infScore, infScore, depth, 0, &pv)

		if w.Shared.Abort.Load() && depth > 1 {
			break
		}

		lastScore, lastPV = score, pv

		if w.ID == 0 {
			w.reportInfo(depth, score, pv)
		}

		if limits.Nodes > 0 && w.Shared.Nodes.Load() >= limits.Nodes {
			break
		}
		if w.hasDeadline && time.Now().After(w.deadline) {
			break
		}
		if ctx.Err() != nil {
			break
		}
		if abs32(score) >= CheckmateScore-MateWindow {
			matePly := CheckmateScore - abs32(score)
			if int32(depth) >= matePly {
				break
			}
		}
	}

	return lastScore, lastPV
}

func (w *Worker) reportInfo(depth int, score int32, pv PrincipalVariation) {
	nodes := w.Shared.Nodes.Load()
	elapsed := time.Since(w.startTime)
	nps := uint64(0)
	if elapsed > 0 {
		nps = uint64(float64(nodes) / elapsed.Seconds())
	}
	if abs32(score) >= CheckmateScore-MateWindow {
		mateIn := (CheckmateScore - abs32(score) + 1) / 2
		if score < 0 {
			mateIn = -mateIn
		}
		log.Infof("info depth %d score mate %d nodes %d nps %d pv %s", depth, mateIn, nodes, nps, pv.String())
	} else {
		log.Infof("info depth %d score cp %d nodes %d nps %d pv %s", depth, score, nodes, nps, pv.String())
	}
}

func abs32(x int32) int32 {
	if x < 0 {
		return -x
	}
	return x
}

// shouldAbort checks the shared stop flag and this worker's deadline
// without allocating; called on every negamax entry.
func (w *Worker) shouldAbort(depth int) bool {
	if w.Shared.Abort.Load() && depth > 1 {
		return true
	}
	if w.hasDeadline && w.Shared.Nodes.Load()%2048 == 0 && time.Now().After(w.deadline) {
		w.Shared.Abort.Store(true)
		return depth > 1
	}
	return false
}

// countRepetitions counts how many times hash already appears in the
// path from the game's start to the current node (exclusive of the
// current node itself, which the caller appends only after this check).
func countRepetitions(path []uint64, hash uint64) int {
	n := 0
	for _, h := range path {
		if h == hash {
			n++
		}
	}
	return n
}

func (w *Worker) negamax(b *Board, alpha, beta int32, depth, ply int, pv *PrincipalVariation) int32 {
	if w.shouldAbort(depth) {
		return 0
	}

	if ply >= MaxPly {
		pv.Clear()
		return int32(b.Evaluate(w.PawnCache))
	}

	isPV := beta-alpha > 1
	inCheck := b.InCheck()
	if inCheck && ply < MaxPly-1 {
		depth++
	}

	if depth <= 0 {
		pv.Clear()
		return w.quiesce(b, alpha, beta, ply)
	}

	w.Shared.Nodes.Add(1)

	if ply > 0 {
		if b.HalfmoveClock >= 100 || countRepetitions(w.repetitionHashes, b.Hash) >= 2 {
			pv.Clear()
			return DrawScore
		}
	}
	w.repetitionHashes = append(w.repetitionHashes, b.Hash)
	defer func() { w.repetitionHashes = w.repetitionHashes[:len(w.repetitionHashes)-1] }()

	var line PrincipalVariation
	ttMove := NullMove

	if entry, ok := w.Shared.TT.Probe(b.Hash); ok {
		if int(entry.Depth) >= depth && ply != 0 {
			score := scoreFromTT(entry.Score, ply)
			switch entry.NodeType {
			case NodeExact:
				pv.Clear()
				return score
			case NodeLowerBound:
				if score >= beta {
					pv.Clear()
					return score
				}
			case NodeUpperBound:
				if score <= alpha {
					pv.Clear()
					return score
				}
			}
		}
		ttMove = entry.ResolveMove(b)
	}

	var staticEval int32
	if !inCheck {
		staticEval = int32(b.Evaluate(w.PawnCache))
	}
	w.stack[ply].Eval = int16(staticEval)

	if !isPV && !inCheck && depth <= 6 {
		margin := int32(w.Options.RFPMargin) * int32(depth)
		if staticEval-margin >= beta {
			return staticEval
		}
	}

	if !isPV && !inCheck && depth >= w.Options.NMPDepth && b.HasNonPawnMaterial(b.SideToMove) {
		null := b.MakeNullMove()
		reduction := w.Options.NMPConstReduction + depth/w.Options.NMPLinearDivisor
		nullDepth := depth - reduction
		if nullDepth < 0 {
			nullDepth = 0
		}
		score := -w.negamax(&null, -beta, -beta+1, nullDepth, ply+1, &line)
		if score >= beta {
			return beta
		}
	}

	if ttMove.IsNull() && depth >= w.Options.IIRDepth {
		depth--
	}

	var moves MoveList
	GenerateLegalMoves(b, &moves)

	if moves.IsEmpty() {
		pv.Clear()
		if inCheck {
			return -(CheckmateScore - int32(ply))
		}
		return DrawScore
	}

	for i := 0; i < moves.Len(); i++ {
		mv := moves.At(i).Move
		var score int32
		switch {
		case mv == ttMove:
			score = ttMoveScore
		case b.IsCapture(mv) || mv.IsPromotion():
			score = w.History.ScoreCapture(b, mv)
		default:
			score = w.History.ScoreQuiet(b, w.stack[:], ply, mv)
		}
		moves.SetScore(i, score)
	}

	bestMove := moves.At(0).Move
	bestScore := -infScore
	quietsTried := make([]Move, 0, moves.Len())
	capturesTried := make([]Move, 0, moves.Len())
	moveCount := 0

	for i := 0; i < moves.Len(); i++ {
		picked := moves.PickMove(i)
		mv := picked.Move
		isCapture := b.IsCapture(mv) || mv.IsPromotion()
		isQuiet := !isCapture

		if !isPV && !inCheck && moveCount > 0 {
			if isQuiet && depth <= w.Options.LMPDepth && len(quietsTried) > lmpThreshold(depth) {
				continue
			}
			if isQuiet && depth <= 3 {
				margin := fpMargin(w.Options, depth)
				if staticEval+margin <= alpha {
					continue
				}
			}
			if mv.Promotion() == PieceNone && depth <= w.Options.SEEPruningDepth && ply != 0 {
				var margin int16
				if isCapture {
					margin = w.Options.SEECaptureMargin * int16(depth)
				} else {
					margin = w.Options.SEEQuietMargin * int16(depth)
				}
				if !b.SeeBeatsThreshold(mv, margin) {
					continue
				}
			}
		}

		child := b.MakeMove(mv)
		moveCount++

		w.stack[ply].CurrentMove = mv

		var childScore int32
		if moveCount <= w.Options.PVSFullDepth {
			childScore = -w.negamax(&child, -beta, -alpha, depth-1, ply+1, &line)
		} else {
			reduction := 0
			if depth >= 3 && isQuiet && !inCheck && moveCount > 3 {
				d := depth
				if d > 63 {
					d = 63
				}
				mi := moveCount
				if mi > 63 {
					mi = 63
				}
				reduction = int(lmrTable[d][mi])
			}
			reducedDepth := depth - 1 - reduction
			if reducedDepth < 0 {
				reducedDepth = 0
			}
			childScore = -w.negamax(&child, -alpha-1, -alpha, reducedDepth, ply+1, &line)
			if childScore > alpha && (reduction > 0 || childScore < beta) {
				childScore = -w.negamax(&child, -beta, -alpha, depth-1, ply+1, &line)
			}
		}

		if childScore > bestScore {
			bestScore = childScore
			bestMove = mv
		}

		if childScore >= beta {
			delta := int16(depth * depth)
			if isQuiet {
				w.stack[ply].KillerMoves.Push(mv)
				w.History.UpdateQuietHistories(w.stack[:], ply, b.SideToMove, delta, mv, quietsTried)
				w.History.Countermove[b.SideToMove].Set(prevMove(w.stack[:], ply), mv)
			} else {
				w.History.UpdateCaptureHistories(b.SideToMove, delta, mv, capturesTried)
			}
			w.Shared.TT.Store(b.Hash, mv, int8(depth), scoreToTT(beta, ply), NodeLowerBound)
			return beta
		}

		if childScore > alpha {
			alpha = childScore
			pv.Update(mv, &line)
		}

		if isQuiet {
			quietsTried = append(quietsTried, mv)
		} else {
			capturesTried = append(capturesTried, mv)
		}
	}

	nodeType := NodeUpperBound
	if alpha > -infScore && pv.Len > 0 {
		nodeType = NodeExact
	}
	w.Shared.TT.Store(b.Hash, bestMove, int8(depth), scoreToTT(alpha, ply), nodeType)
	return alpha
}

// prevMove returns the move played at ply-1, or NullMove at the root.
func prevMove(stack []SearchStackEntry, ply int) Move {
	if ply == 0 {
		return NullMove
	}
	return stack[ply-1].CurrentMove
}

// lmpThreshold bounds how many quiet moves are tried at shallow depth
// before late-move pruning skips the rest.
func lmpThreshold(depth int) int {
	return 4 + depth*depth
}

// fpMargin returns the futility-pruning margin for a shallow depth.
func fpMargin(opts SearchOptions, depth int) int32 {
	switch depth {
	case 1:
		return int32(opts.FPMargin1)
	case 2:
		return int32(opts.FPMargin2)
	default:
		return int32(opts.FPMargin3)
	}
}

// scoreToTT/scoreFromTT adjust a mate score by the current ply so that a
// TT entry written at one ply is still correct when it's read back at a
// different ply from the root (mate scores are stored relative to the
// root, not the node).
func scoreToTT(score int32, ply int) int32 {
	switch {
	case score >= CheckmateScore-MateWindow:
		return score + int32(ply)
	case score <= -(CheckmateScore - MateWindow):
		return score - int32(ply)
	default:
		return score
	}
}

func scoreFromTT(score int32, ply int) int32 {
	switch {
	case score >= CheckmateScore-MateWindow:
		return score - int32(ply)
	case score <= -(CheckmateScore - MateWindow):
		return score + int32(ply)
	default:
		return score
	}
}

// quiesce resolves the position to a "quiet" state by searching only
// captures and promotions, with fail-hard stand-pat plus delta/SEE
// pruning. The node counter is incremented on every call, matching the
// reference program's board-side quiescence rather than its older
// chessgame-side one (see SPEC_FULL.md's resolved open question).
func (w *Worker) quiesce(b *Board, alpha, beta int32, ply int) int32 {
	w.Shared.Nodes.Add(1)

	if ply >= MaxPly {
		return int32(b.Evaluate(w.PawnCache))
	}

	inCheck := b.InCheck()
	var standPat int32
	if !inCheck {
		standPat = int32(b.Evaluate(w.PawnCache))
		if standPat >= beta {
			return beta
		}
		if standPat > alpha {
			alpha = standPat
		}
	}

	var moves MoveList
	if inCheck {
		GenerateLegalMoves(b, &moves)
	} else {
		GenerateLegalCaptures(b, &moves)
	}
	if moves.IsEmpty() {
		if inCheck {
			return -(CheckmateScore - int32(ply))
		}
		return alpha
	}

	for i := 0; i < moves.Len(); i++ {
		mv := moves.At(i).Move
		moves.SetScore(i, w.History.ScoreCapture(b, mv))
	}

	for i := 0; i < moves.Len(); i++ {
		picked := moves.PickMove(i)
		mv := picked.Move

		if !inCheck {
			if captured, ok := b.PieceOn(mv.To()); ok {
				if standPat+int32(pieceValue[captured])+int32(w.Options.DeltaPruningMargin) < alpha {
					continue
				}
			}
			if !b.SeeBeatsThreshold(mv, 0) {
				continue
			}
		}

		child := b.MakeMove(mv)
		score := -w.quiesce(&child, -beta, -alpha, ply+1)
		if score >= beta {
			return beta
		}
		if score > alpha {
			alpha = score
		}
	}

	return alpha
}
