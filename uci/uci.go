// Package uci implements the UCI protocol
// (http://wbec-ridderkerk.nl/html/UCIProtocol.html) over the smp Lazy SMP
// coordinator. Grounded on the teacher's zurichess/uci.go command dispatch
// (idle-gating of position/go/setoption, the position/go argument grammar),
// generalized from its single-threaded Engine to this module's
// smp.Coordinator.
package uci

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gochess/gochess/board"
	"github.com/gochess/gochess/eval"
	"github.com/gochess/gochess/search"
	"github.com/gochess/gochess/smp"
)

// ErrQuit is returned by Execute for the "quit" command; callers should stop
// their read loop without treating it as an error.
var ErrQuit = errors.New("quit")

const defaultHashTableSizeMB = 64

// UCI holds one engine session's protocol state: the coordinator, the
// current position, and the options that can only be changed while the
// engine is idle.
type UCI struct {
	out io.Writer

	mu       sync.Mutex
	coord    *smp.Coordinator
	hashMB   int
	threads  int
	position *board.Board
	running  bool // set synchronously by go_, before the search goroutine starts
}

// New returns a UCI session writing engine output to out.
func New(out io.Writer) *UCI {
	b, _ := board.FromFEN(board.StartFEN)
	return &UCI{
		out:      out,
		hashMB:   defaultHashTableSizeMB,
		threads:  1,
		position: b,
		coord:    smp.NewCoordinator(context.Background(), defaultHashTableSizeMB<<20, 1),
	}
}

var reCmd = regexp.MustCompile(`^[[:word:]]+\b`)

// Execute parses and runs one input line. Returns ErrQuit for "quit".
func (u *UCI) Execute(ctx context.Context, line string) error {
	line = strings.TrimSpace(line)
	if line == "" {
		return nil
	}
	cmd := reCmd.FindString(line)
	if cmd == "" {
		return fmt.Errorf("invalid command line")
	}

	switch cmd {
	case "uci":
		return u.uci()
	case "isready":
		return u.isready()
	case "quit":
		return ErrQuit
	case "stop":
		u.coord.Stop()
		return nil
	case "ucinewgame":
		u.coord.NewGame()
		b, _ := board.FromFEN(board.StartFEN)
		u.mu.Lock()
		u.position = b
		u.mu.Unlock()
		return nil
	case "position":
		return u.setPosition(line)
	case "go":
		return u.go_(ctx, line)
	case "setoption":
		return u.setoption(line)
	default:
		return fmt.Errorf("unhandled command %s", cmd)
	}
}

func (u *UCI) uci() error {
	fmt.Fprintf(u.out, "id name gochess\n")
	fmt.Fprintf(u.out, "id author gochess contributors\n\n")
	fmt.Fprintf(u.out, "option name Hash type spin default %d min 1 max 65536\n", defaultHashTableSizeMB)
	fmt.Fprintf(u.out, "option name Threads type spin default 1 min 1 max 256\n")
	fmt.Fprintln(u.out, "uciok")
	return nil
}

func (u *UCI) isready() error {
	fmt.Fprintln(u.out, "readyok")
	return nil
}

// setPosition parses a "position" command. Per spec, any invalid move token
// reverts the engine to startpos rather than leaving a partially-applied
// position in place; the parse error is still returned so the caller can
// log a diagnostic.
func (u *UCI) setPosition(line string) error {
	u.coord.StopAndWait()

	b, err := u.parsePosition(line)
	if err != nil {
		b, _ = board.FromFEN(board.StartFEN)
		u.mu.Lock()
		u.position = b
		u.mu.Unlock()
		return err
	}

	u.mu.Lock()
	u.position = b
	u.mu.Unlock()
	return nil
}

func (u *UCI) parsePosition(line string) (*board.Board, error) {
	args := strings.Fields(line)[1:]
	if len(args) == 0 {
		return nil, fmt.Errorf("expected argument for 'position'")
	}

	var b *board.Board
	var err error
	i := 0
	switch args[0] {
	case "startpos":
		b, err = board.FromFEN(board.StartFEN)
		i = 1
	case "fen":
		i = 1
		for i < len(args) && args[i] != "moves" {
			i++
		}
		b, err = board.FromFEN(strings.Join(args[1:i], " "))
	default:
		err = fmt.Errorf("unknown position command: %s", args[0])
	}
	if err != nil {
		return nil, err
	}

	if i < len(args) {
		if args[i] != "moves" {
			return nil, fmt.Errorf("expected 'moves', got '%s'", args[i])
		}
		for _, s := range args[i+1:] {
			m, err := b.MoveFromUCI(s)
			if err != nil {
				return nil, err
			}
			if !b.Make(m) {
				return nil, fmt.Errorf("illegal move %q in position history", s)
			}
		}
	}

	return b, nil
}

var validGoCommands = map[string]bool{
	"searchmoves": true, "ponder": true, "wtime": true, "btime": true,
	"winc": true, "binc": true, "movestogo": true, "depth": true,
	"nodes": true, "mate": true, "movetime": true, "infinite": true,
}

func (u *UCI) go_(ctx context.Context, line string) error {
	u.mu.Lock()
	if u.running {
		u.mu.Unlock()
		return fmt.Errorf("search already in progress")
	}
	u.running = true
	root := u.position.Clone()
	u.mu.Unlock()

	var wtime, btime, winc, binc time.Duration
	params := search.Params{}

	args := strings.Fields(line)[1:]
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "infinite":
			params.Infinite = true
		case "wtime":
			i++
			ms, _ := strconv.Atoi(args[i])
			wtime = time.Duration(ms) * time.Millisecond
		case "btime":
			i++
			ms, _ := strconv.Atoi(args[i])
			btime = time.Duration(ms) * time.Millisecond
		case "winc":
			i++
			ms, _ := strconv.Atoi(args[i])
			winc = time.Duration(ms) * time.Millisecond
		case "binc":
			i++
			ms, _ := strconv.Atoi(args[i])
			binc = time.Duration(ms) * time.Millisecond
		case "movestogo":
			i++
			n, _ := strconv.Atoi(args[i])
			params.MovesToGo = n
		case "movetime":
			i++
			ms, _ := strconv.Atoi(args[i])
			params.MoveTime = time.Duration(ms) * time.Millisecond
		case "depth":
			i++
			n, _ := strconv.Atoi(args[i])
			params.Depth = n
		case "nodes":
			i++
			n, _ := strconv.Atoi(args[i])
			params.Nodes = uint64(n)
		case "mate", "ponder":
			// Mate search and pondering are outside this engine's contract.
		case "searchmoves":
			for i+1 < len(args) && !validGoCommands[args[i+1]] {
				i++
			}
		default:
			u.mu.Lock()
			u.running = false
			u.mu.Unlock()
			return fmt.Errorf("invalid go command %s", args[i])
		}
	}

	if root.SideToMove == board.White {
		params.Time, params.Inc = wtime, winc
	} else {
		params.Time, params.Inc = btime, binc
	}

	go u.play(ctx, root, params)
	return nil
}

func (u *UCI) play(ctx context.Context, root *board.Board, params search.Params) {
	defer func() {
		u.mu.Lock()
		u.running = false
		u.mu.Unlock()
	}()

	start := time.Now()
	stats := u.coord.Go(ctx, root, params, smp.ReporterFunc(func(s search.Stats) {
		u.printInfo(start, s)
	}))

	if stats.BestMove == board.NullMove {
		fmt.Fprintf(u.out, "bestmove (none)\n")
		return
	}
	fmt.Fprintf(u.out, "bestmove %v\n", stats.BestMove)
}

func (u *UCI) printInfo(start time.Time, s search.Stats) {
	elapsed := time.Since(start)
	if elapsed <= 0 {
		elapsed = time.Microsecond
	}
	millis := uint64(elapsed / time.Millisecond)
	nps := s.Nodes * uint64(time.Second) / uint64(elapsed)

	fmt.Fprintf(u.out, "info depth %d ", s.Depth)
	switch {
	case s.Score > eval.KnownWin:
		fmt.Fprintf(u.out, "score mate %d ", (eval.Mate-s.Score+1)/2)
	case s.Score < eval.KnownLoss:
		fmt.Fprintf(u.out, "score mate %d ", (eval.Mated-s.Score)/2)
	default:
		fmt.Fprintf(u.out, "score cp %d ", s.Score)
	}
	fmt.Fprintf(u.out, "nodes %d time %d nps %d ", s.Nodes, millis, nps)
	fmt.Fprint(u.out, "pv")
	for _, m := range s.PV {
		fmt.Fprintf(u.out, " %v", m)
	}
	fmt.Fprintln(u.out)
}

func (u *UCI) setoption(line string) error {
	fields := strings.Fields(line)
	if len(fields) < 3 || fields[1] != "name" {
		return fmt.Errorf("invalid setoption arguments")
	}

	var name, value string
	valueAt := -1
	for i := 2; i < len(fields); i++ {
		if fields[i] == "value" {
			valueAt = i
			break
		}
	}
	if valueAt < 0 {
		name = strings.Join(fields[2:], " ")
	} else {
		name = strings.Join(fields[2:valueAt], " ")
		value = strings.Join(fields[valueAt+1:], " ")
	}

	u.mu.Lock()
	running := u.running
	u.mu.Unlock()
	if running {
		return fmt.Errorf("cannot change option %s while searching", name)
	}

	switch name {
	case "Hash":
		mb, err := strconv.Atoi(value)
		if err != nil {
			return err
		}
		u.mu.Lock()
		u.hashMB = mb
		u.coord = smp.NewCoordinator(context.Background(), uint64(mb)<<20, u.threads)
		u.mu.Unlock()
		return nil
	case "Threads":
		n, err := strconv.Atoi(value)
		if err != nil {
			return err
		}
		u.mu.Lock()
		u.threads = n
		u.coord = smp.NewCoordinator(context.Background(), uint64(u.hashMB)<<20, n)
		u.mu.Unlock()
		return nil
	default:
		return fmt.Errorf("unhandled option %s", name)
	}
}

// Run reads UCI commands from in until EOF, "quit", or an unrecoverable
// read error, writing responses to the UCI session's configured writer.
// Command errors are non-fatal: they are ignored by the protocol loop
// itself, matching the teacher's main.go (logging is the caller's job).
func (u *UCI) Run(ctx context.Context, in io.Reader, onError func(line string, err error)) {
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if err := u.Execute(ctx, line); err != nil {
			if errors.Is(err, ErrQuit) {
				return
			}
			if onError != nil {
				onError(line, err)
			}
		}
	}
}
