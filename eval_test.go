package engine

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// mirrorEval parses fen and returns its static evaluation; the mirror
// test calls it on each FEN of a color-flipped pair.
func mirrorEval(t *testing.T, fen string) int16 {
	t.Helper()
	b, err := ParseFEN(fen)
	require.NoError(t, err)
	return b.Evaluate(NewPawnHashTable(1))
}

func TestEvaluateMirrorSymmetry(t *testing.T) {
	cases := []struct {
		white string
		black string
	}{
		{
			"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1",
			"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR b KQkq - 0 1",
		},
		{
			"r1bqk2r/pppp1ppp/2n2n2/2b1p3/2B1P3/2N2N2/PPPP1PPP/R1BQK2R w KQkq - 6 6",
			"r1bqk2r/pppp1ppp/2n2n2/2b1p3/2B1P3/2N2N2/PPPP1PPP/R1BQK2R b KQkq - 6 6",
		},
		{
			"4k3/8/8/4p3/4P3/8/8/4K3 w - - 0 1",
			"4k3/8/8/4p3/4P3/8/8/4K3 b - - 0 1",
		},
	}
	for _, tc := range cases {
		white := mirrorEval(t, tc.white)
		black := mirrorEval(t, tc.black)
		require.Equal(t, white, black, "side to move symmetric position should evaluate identically")
	}
}

func TestEvaluateStartposIsSmall(t *testing.T) {
	b, err := ParseFEN("rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1")
	require.NoError(t, err)
	score := b.Evaluate(NewPawnHashTable(1))
	require.InDelta(t, 0, int(score), 40, "startpos should be near equal before the tempo bonus dominates")
}

func TestEvaluateMaterialAdvantage(t *testing.T) {
	// White is up a rook.
	b, err := ParseFEN("4k3/8/8/8/8/8/8/R3K3 w - - 0 1")
	require.NoError(t, err)
	score := b.Evaluate(NewPawnHashTable(1))
	require.Greater(t, score, int16(300))
}

func TestGamePhaseBounds(t *testing.T) {
	start, err := ParseFEN("rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1")
	require.NoError(t, err)
	require.Equal(t, int32(0), start.GamePhase())

	bare, err := ParseFEN("4k3/8/8/8/8/8/8/4K3 w - - 0 1")
	require.NoError(t, err)
	require.Equal(t, int32(256), bare.GamePhase())
}

func TestScorePacking(t *testing.T) {
	s := S(123, -456)
	require.Equal(t, int16(123), s.Mg())
	require.Equal(t, int16(-456), s.Eg())

	sum := s.Add(S(1, 1))
	require.Equal(t, int16(124), sum.Mg())
	require.Equal(t, int16(-455), sum.Eg())
}

func TestPawnHashTableCachesAcrossTranspositions(t *testing.T) {
	cache := NewPawnHashTable(1)
	b1, err := ParseFEN("rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1")
	require.NoError(t, err)
	b2, err := ParseFEN("rnbqkb1r/pppppppp/5n2/8/8/5N2/PPPPPPPP/RNBQKB1R w KQkq - 2 2")
	require.NoError(t, err)
	require.Equal(t, b1.PawnHash, b2.PawnHash, "knight development shouldn't touch the pawn hash")

	_ = b1.Evaluate(cache)
	if _, ok := cache.get(b1.PawnHash); !ok {
		t.Fatal("expected pawn structure to be cached after first evaluation")
	}
	_ = b2.Evaluate(cache)
}
