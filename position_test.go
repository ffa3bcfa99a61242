package engine

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

// TestFENRoundTrip checks that rendering a parsed position back to FEN
// and re-parsing it reproduces the identical Board value field-for-
// field, catching any asymmetry between ParseFEN and FEN.
func TestFENRoundTrip(t *testing.T) {
	fens := []string{
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1",
		"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
		"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1",
		"rnbq1k1r/pp1Pbppp/2p5/8/2B5/8/PPP1NnPP/RNBQK2R w KQ - 1 8",
	}
	for _, fen := range fens {
		b, err := ParseFEN(fen)
		require.NoError(t, err)

		reparsed, err := ParseFEN(b.FEN())
		require.NoError(t, err)

		if diff := cmp.Diff(b, reparsed); diff != "" {
			t.Errorf("FEN round trip for %q changed the board (-want +got):\n%s", fen, diff)
		}
	}
}

// TestMakeUnmakeRoundTrip checks that making every legal move from a
// position and recomputing the same position's hash from scratch still
// matches what MakeMove maintained incrementally — a proxy for a full
// undo stack, since this engine only ever copy-makes.
func TestMakeUnmakeRoundTrip(t *testing.T) {
	positions := []string{
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1",
		"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
	}
	for _, fen := range positions {
		b, err := ParseFEN(fen)
		require.NoError(t, err)

		var moves MoveList
		GenerateLegalMoves(&b, &moves)
		require.Greater(t, moves.Len(), 0)

		for i := 0; i < moves.Len(); i++ {
			mv := moves.At(i).Move
			child := b.MakeMove(mv)

			want, err := ParseFEN(child.FEN())
			require.NoError(t, err)

			if diff := cmp.Diff(want, child); diff != "" {
				t.Errorf("move %s from %q: incremental state diverged from a from-scratch recomputation (-want +got):\n%s", mv.UCI(), fen, diff)
			}
		}
	}
}
