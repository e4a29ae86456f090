// Package smp is the Lazy SMP coordinator (spec §4.6): one shared
// transposition table, N worker goroutines (one main, the rest
// supporters), and a broadcast start/stop protocol between them.
//
// Grounded in shape on original_source/'s mattis/src/search/lazy_smp.rs
// (broadcast an immutable per-search config, main worker silences
// supporters on completion, sum per-worker node counts for reporting) —
// no Go repo in the retrieval pack implements a multi-threaded searcher,
// so the concurrency plumbing itself is this module's own, translated
// into goroutines, channels and sync/atomic rather than copied from any
// pack source.
package smp

import (
	"context"
	"sync"

	"github.com/gochess/gochess/board"
	"github.com/gochess/gochess/search"
	"github.com/gochess/gochess/ttable"
	"github.com/seekerror/logw"
)

// Reporter receives a report for each completed depth from the main
// worker only; the final result is Go's return value, and supporter
// findings reach the caller solely through the shared transposition table.
type Reporter interface {
	Report(search.Stats)
}

// ReporterFunc adapts a function to Reporter.
type ReporterFunc func(search.Stats)

func (f ReporterFunc) Report(s search.Stats) { f(s) }

// Coordinator owns the shared transposition table and fans a search out
// over Workers goroutines.
type Coordinator struct {
	TT      *ttable.Table
	Workers int

	mu      sync.Mutex
	running bool
	cancel  func()
	done    chan struct{}
	workers []*search.Worker // live workers of the in-progress (or most recent) search
}

// NewCoordinator creates a coordinator with its own transposition table
// sized to sizeBytes and workers search goroutines.
func NewCoordinator(ctx context.Context, sizeBytes uint64, workers int) *Coordinator {
	if workers < 1 {
		workers = 1
	}
	return &Coordinator{TT: ttable.New(ctx, sizeBytes), Workers: workers}
}

// NewGame resets search-independent state for a new game (spec §6's
// ucinewgame): the TT age is advanced so every prior entry is eventually
// evicted, and running searches are cancelled.
func (c *Coordinator) NewGame() {
	c.StopAndWait()
	c.TT.Advance()
}

// Go starts a new search from root, blocking until the search stops
// (either the time manager or an explicit Stop call). report is called on
// every completed depth from the main worker; the final Stats are
// returned rather than reported.
// Only one search may run at a time; Go panics if called while another
// search is in progress — callers (the UCI front-end) are responsible for
// rejecting a second `go` with a protocol error instead of reaching here.
func (c *Coordinator) Go(ctx context.Context, root *board.Board, params search.Params, report Reporter) search.Stats {
	c.mu.Lock()
	if c.running {
		c.mu.Unlock()
		panic("smp: Go called while a search is already running")
	}
	c.running = true
	done := make(chan struct{})
	c.done = done
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		c.running = false
		c.cancel = nil
		c.mu.Unlock()
		close(done)
	}()

	c.TT.Advance()

	tc := search.NewTimeControl(params)
	c.mu.Lock()
	c.cancel = tc.Stop
	c.mu.Unlock()

	logw.Infof(ctx, "starting search with %v workers", c.Workers)

	depthCap := params.Depth
	if depthCap == 0 {
		depthCap = 64
	}

	main := search.NewWorker(root.Clone(), c.TT, tc)
	supporters := make([]*search.Worker, c.Workers-1)
	for n := range supporters {
		supporters[n] = search.NewWorker(root.Clone(), c.TT, tc)
	}

	c.mu.Lock()
	c.workers = append([]*search.Worker{main}, supporters...)
	c.mu.Unlock()

	var wg sync.WaitGroup
	var final search.Stats
	var finalMu sync.Mutex

	// Main worker: runs iterative deepening once, reporting every
	// completed depth, then asserts the stop flag to cap supporters.
	wg.Add(1)
	go func() {
		defer wg.Done()
		stats := main.IterativeDeepen(1, func(s search.Stats) {
			s.Nodes = c.Nodes()
			finalMu.Lock()
			final = s
			finalMu.Unlock()
			if report != nil {
				report.Report(s)
			}
		})
		finalMu.Lock()
		final = stats
		finalMu.Unlock()
		tc.Stop()
	}()

	// Supporters: depth-diversified restarting search, contributing only
	// via the shared TT.
	for n, w := range supporters {
		startDepth := n + 2
		if startDepth > depthCap {
			startDepth = depthCap
		}
		wg.Add(1)
		go func(w *search.Worker, startDepth int) {
			defer wg.Done()
			for !tc.Stopped() {
				w.IterativeDeepen(startDepth, func(search.Stats) {})
			}
		}(w, startDepth)
	}

	wg.Wait()
	final.Nodes = c.Nodes()
	logw.Infof(ctx, "search stopped after %v nodes", final.Nodes)
	return final
}

// Stop requests the current search to stop as soon as every worker next
// polls the shared flag; it does not block for workers to actually exit.
func (c *Coordinator) Stop() {
	c.mu.Lock()
	cancel := c.cancel
	c.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

// StopAndWait requests a stop and blocks until no search is running.
func (c *Coordinator) StopAndWait() {
	c.mu.Lock()
	running := c.running
	done := c.done
	c.mu.Unlock()
	if !running {
		return
	}
	c.Stop()
	<-done
}

// Nodes returns the total node count searched across all workers in the
// most recent (or still-running) search, for the UCI `info nodes` line —
// summed live from each worker's own atomic counter rather than
// accumulated as reports arrive, since Stats.Nodes is a per-worker
// cumulative total rather than a delta (mattis/src/search/lazy_smp.rs
// sums per-thread counters the same way for its own `info` line).
func (c *Coordinator) Nodes() uint64 {
	c.mu.Lock()
	workers := c.workers
	c.mu.Unlock()

	var total uint64
	for _, w := range workers {
		total += w.NodeCount()
	}
	return total
}
