package engine

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func newTestWorker() (*SearchShared, *Worker) {
	shared := NewSearchShared(4)
	worker := NewWorker(0, DefaultSearchOptions(), shared)
	return shared, worker
}

func TestSearchFindsMateInOne(t *testing.T) {
	_, w := newTestWorker()
	b, err := ParseFEN("6k1/5ppp/8/8/8/8/5PPP/R5K1 w - - 0 1")
	require.NoError(t, err)

	score, pv := w.Search(context.Background(), b, Limits{Depth: 3}, nil)

	require.GreaterOrEqual(t, score, CheckmateScore-MateWindow)
	require.Greater(t, pv.Len, 0)
	require.Equal(t, "a1a8", pv.Moves[0].UCI())
}

func TestSearchRespectsNodeLimit(t *testing.T) {
	_, w := newTestWorker()
	b, err := ParseFEN("rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1")
	require.NoError(t, err)

	_, pv := w.Search(context.Background(), b, Limits{Depth: MaxPly, Nodes: 2000}, nil)
	require.Greater(t, pv.Len, 0, "at least depth-1 should complete before the node limit bites")
}

func TestSearchRespectsMoveTime(t *testing.T) {
	_, w := newTestWorker()
	b, err := ParseFEN("rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1")
	require.NoError(t, err)

	start := time.Now()
	w.Search(context.Background(), b, Limits{Depth: MaxPly, MoveTime: 50 * time.Millisecond}, nil)
	require.Less(t, time.Since(start), 2*time.Second)
}

func TestSearchDetectsRepetitionDraw(t *testing.T) {
	_, w := newTestWorker()
	b, err := ParseFEN("4k3/8/8/8/8/8/8/4K3 w - - 0 1")
	require.NoError(t, err)

	// Shuffle kings back and forth twice, building a history (every
	// position before the root) that holds the root position's hash twice
	// before the search is asked to move again.
	var history []uint64
	cur := b
	for _, uci := range []string{"e1d1", "e8d8", "d1e1", "d8e8", "e1d1", "e8d8", "d1e1", "d8e8"} {
		mv, err := ResolveLegalMove(&cur, uci)
		require.NoError(t, err)
		history = append(history, cur.Hash)
		cur = cur.MakeMove(mv)
	}

	score, _ := w.Search(context.Background(), cur, Limits{Depth: 2}, history)
	require.InDelta(t, 0, score, 50)
}

func TestSearchPrefersMaterialWin(t *testing.T) {
	_, w := newTestWorker()
	// White to move can win a hanging rook along the long diagonal, Bxa8.
	b, err := ParseFEN("r3k3/8/8/8/8/8/8/4K2B w - - 0 1")
	require.NoError(t, err)

	_, pv := w.Search(context.Background(), b, Limits{Depth: 4}, nil)
	require.Greater(t, pv.Len, 0)
	require.Equal(t, "h1a8", pv.Moves[0].UCI())
}

func TestScoreToTTRoundTrips(t *testing.T) {
	mate := CheckmateScore - 3
	stored := scoreToTT(mate, 5)
	require.Equal(t, mate, scoreFromTT(stored, 5))

	plain := int32(37)
	require.Equal(t, plain, scoreFromTT(scoreToTT(plain, 5), 5))
}
