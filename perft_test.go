package engine

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPerftStartpos(t *testing.T) {
	if testing.Short() {
		t.Skip("full-depth perft is slow; run without -short")
	}
	b, err := ParseFEN("rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1")
	require.NoError(t, err)
	require.Equal(t, uint64(4_865_609), Perft(&b, 5))
	require.Equal(t, uint64(119_060_324), Perft(&b, 6))
}

func TestPerftStartposShallow(t *testing.T) {
	b, err := ParseFEN("rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1")
	require.NoError(t, err)
	require.Equal(t, uint64(20), Perft(&b, 1))
	require.Equal(t, uint64(400), Perft(&b, 2))
	require.Equal(t, uint64(8_902), Perft(&b, 3))
	require.Equal(t, uint64(197_281), Perft(&b, 4))
}

func TestPerftKiwipete(t *testing.T) {
	if testing.Short() {
		t.Skip("deep perft is slow; run without -short")
	}
	b, err := ParseFEN("r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1")
	require.NoError(t, err)
	require.Equal(t, uint64(4_085_603), Perft(&b, 4))
	require.Equal(t, uint64(193_690_690), Perft(&b, 5))
}

func TestPerftPositionThree(t *testing.T) {
	if testing.Short() {
		t.Skip("deep perft is slow; run without -short")
	}
	b, err := ParseFEN("8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1")
	require.NoError(t, err)
	require.Equal(t, uint64(674_624), Perft(&b, 5))
}

func TestPerftDivideSumsToTotal(t *testing.T) {
	b, err := ParseFEN("rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1")
	require.NoError(t, err)
	divide := PerftDivide(&b, 3)
	var sum uint64
	for _, n := range divide {
		sum += n
	}
	require.Equal(t, Perft(&b, 3), sum)
}
