// Command uci is the engine's UCI front end: a thin protocol loop that
// parses commands from stdin, manages position/option state, and
// drives a Lazy SMP pool of engine.Worker goroutines through
// golang.org/x/sync/errgroup. Time management (translating UCI
// wtime/btime/winc/binc into a single move-time budget) lives here
// rather than in the engine package, per SPEC_FULL.md's split between
// the search core and its orchestrating caller.

package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/op/go-logging"
	"golang.org/x/sync/errgroup"

	"github.com/gopherchess/engine"
)

var log = logging.MustGetLogger("uci")

func init() {
	backend := logging.NewLogBackend(os.Stderr, "", 0)
	formatter := logging.MustStringFormatter(`%{time:15:04:05.000} %{level:.4s} %{message}`)
	logging.SetBackend(logging.NewBackendFormatter(backend, formatter))
	logging.SetLevel(logging.WARNING, "uci")
}

const engineName = "gopherchess"
const engineAuthor = "gopherchess contributors"

// session holds everything that persists across UCI commands: the
// current position, loaded history (for repetition detection), search
// options, and the shared Lazy SMP state.
type session struct {
	board      engine.Board
	history    []uint64
	options    engine.SearchOptions
	shared     *engine.SearchShared
	cancelFunc context.CancelFunc
	wg         sync.WaitGroup
}

func newSession(opts engine.SearchOptions) *session {
	return &session{
		board:   mustStartpos(),
		options: opts,
		shared:  engine.NewSearchShared(opts.HashSizeMB),
	}
}

func mustStartpos() engine.Board {
	b, err := engine.ParseFEN("rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1")
	if err != nil {
		panic(err)
	}
	return b
}

func main() {
	configPath := flag.String("config", "", "path to a toml file overriding the default search options")
	flag.Parse()

	opts, err := engine.LoadSearchOptions(*configPath)
	if err != nil {
		log.Warningf("loading search options from %q: %v; using defaults", *configPath, err)
		opts = engine.DefaultSearchOptions()
	}

	s := newSession(opts)
	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		cmd := fields[0]
		args := fields[1:]

		switch cmd {
		case "uci":
			handleUCI()
		case "isready":
			fmt.Println("readyok")
		case "ucinewgame":
			s.handleNewGame()
		case "setoption":
			s.handleSetOption(args)
		case "position":
			s.handlePosition(args)
		case "go":
			s.handleGo(args)
		case "stop":
			s.handleStop()
		case "quit":
			s.handleStop()
			return
		default:
			log.Warningf("unrecognised command: %s", line)
		}
	}
}

func handleUCI() {
	fmt.Printf("id name %s\n", engineName)
	fmt.Printf("id author %s\n", engineAuthor)
	fmt.Println("option name Threads type spin default 1 min 1 max 256")
	fmt.Println("option name Hash type spin default 64 min 1 max 1048576")
	fmt.Println("uciok")
}

func (s *session) handleNewGame() {
	s.handleStop()
	s.shared = engine.NewSearchShared(s.options.HashSizeMB)
	s.board = mustStartpos()
	s.history = nil
}

func (s *session) handleSetOption(args []string) {
	name, value, ok := parseSetOption(args)
	if !ok {
		log.Warningf("malformed setoption: %v", args)
		return
	}
	if err := s.options.SetOption(name, value); err != nil {
		log.Warningf("setoption rejected: %v", err)
		return
	}
	if name == "Hash" {
		s.shared = engine.NewSearchShared(s.options.HashSizeMB)
	}
}

// parseSetOption extracts name/value out of "name <NAME...> value <VALUE...>".
func parseSetOption(args []string) (name, value string, ok bool) {
	var nameParts, valueParts []string
	mode := ""
	for _, a := range args {
		switch a {
		case "name":
			mode = "name"
			continue
		case "value":
			mode = "value"
			continue
		}
		switch mode {
		case "name":
			nameParts = append(nameParts, a)
		case "value":
			valueParts = append(valueParts, a)
		}
	}
	if len(nameParts) == 0 {
		return "", "", false
	}
	return strings.Join(nameParts, " "), strings.Join(valueParts, " "), true
}

func (s *session) handlePosition(args []string) {
	if len(args) == 0 {
		return
	}

	var fen string
	rest := args[1:]
	switch args[0] {
	case "startpos":
		fen = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"
	case "fen":
		n := 0
		for n < len(rest) && rest[n] != "moves" {
			n++
		}
		fen = strings.Join(rest[:n], " ")
		rest = rest[n:]
	default:
		log.Warningf("malformed position command: %v", args)
		return
	}

	b, err := engine.ParseFEN(fen)
	if err != nil {
		log.Warningf("position fen rejected: %v", err)
		return
	}

	var history []uint64
	if len(rest) > 0 && rest[0] == "moves" {
		for _, uciMove := range rest[1:] {
			mv, err := engine.ResolveLegalMove(&b, uciMove)
			if err != nil {
				log.Warningf("position command: %v", err)
				break
			}
			history = append(history, b.Hash)
			b = b.MakeMove(mv)
		}
	}

	s.board = b
	s.history = history
}

// goParams bundles the parsed `go` arguments this engine understands.
type goParams struct {
	depth     int
	nodes     uint64
	moveTime  time.Duration
	infinite  bool
	wtime     time.Duration
	btime     time.Duration
	winc      time.Duration
	binc      time.Duration
	haveClock bool
}

func parseGoParams(args []string) goParams {
	var p goParams
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "depth":
			i++
			p.depth = atoiOr(args, i, 0)
		case "nodes":
			i++
			p.nodes = uint64(atoiOr(args, i, 0))
		case "movetime":
			i++
			p.moveTime = time.Duration(atoiOr(args, i, 0)) * time.Millisecond
		case "infinite":
			p.infinite = true
		case "wtime":
			i++
			p.wtime = time.Duration(atoiOr(args, i, 0)) * time.Millisecond
			p.haveClock = true
		case "btime":
			i++
			p.btime = time.Duration(atoiOr(args, i, 0)) * time.Millisecond
			p.haveClock = true
		case "winc":
			i++
			p.winc = time.Duration(atoiOr(args, i, 0)) * time.Millisecond
		case "binc":
			i++
			p.binc = time.Duration(atoiOr(args, i, 0)) * time.Millisecond
		}
	}
	return p
}

func atoiOr(args []string, i, fallback int) int {
	if i < 0 || i >= len(args) {
		return fallback
	}
	v, err := strconv.Atoi(args[i])
	if err != nil {
		return fallback
	}
	return v
}

// budgetMoveTime applies the UCI time-management formula: time/20 +
// inc/2, or plain time/20 when the increment exceeds the time left (a
// large increment relative to the remaining clock would otherwise let
// inc/2 alone blow past what's safe to spend on one move).
func budgetMoveTime(remaining, inc time.Duration) time.Duration {
	var budget time.Duration
	if inc > remaining {
		budget = remaining / 20
	} else {
		budget = remaining/20 + inc/2
	}
	if budget <= 0 {
		budget = 50 * time.Millisecond
	}
	return budget
}

func (s *session) handleGo(args []string) {
	s.handleStop()
	p := parseGoParams(args)

	limits := engine.Limits{Depth: p.depth, Nodes: p.nodes, Infinite: p.infinite}
	if p.moveTime > 0 {
		limits.MoveTime = p.moveTime
	} else if p.haveClock {
		remaining, inc := p.wtime, p.winc
		if s.board.SideToMove == engine.Black {
			remaining, inc = p.btime, p.binc
		}
		limits.MoveTime = budgetMoveTime(remaining, inc)

		var oneLegal engine.MoveList
		engine.GenerateLegalMoves(&s.board, &oneLegal)
		if oneLegal.Len() == 1 && limits.MoveTime > 500*time.Millisecond {
			limits.MoveTime = 500 * time.Millisecond
		}
	}
	if limits.Depth == 0 && limits.MoveTime == 0 && !limits.Infinite {
		limits.Depth = engine.MaxPly
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.cancelFunc = cancel
	s.shared.Abort.Store(false)

	board := s.board
	history := append([]uint64(nil), s.history...)
	threads := s.options.Threads
	if threads < 1 {
		threads = 1
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer cancel()

		var group errgroup.Group
		results := make([]struct {
			score int32
			pv    engine.PrincipalVariation
		}, threads)

		for t := 0; t < threads; t++ {
			t := t
			group.Go(func() error {
				w := engine.NewWorker(t, s.options, s.shared)
				score, pv := w.Search(ctx, board, limits, history)
				results[t].score, results[t].pv = score, pv
				return nil
			})
		}
		_ = group.Wait()

		best := results[0]
		if best.pv.Len == 0 {
			fmt.Println("bestmove 0000")
			return
		}
		fmt.Printf("bestmove %s\n", best.pv.Moves[0].UCI())
	}()
}

func (s *session) handleStop() {
	if s.cancelFunc != nil {
		s.cancelFunc()
	}
	s.shared.Abort.Store(true)
	s.wg.Wait()
}
