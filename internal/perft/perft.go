// Package perft counts the leaves of a move-generation tree to a fixed
// depth, the standard correctness/benchmark tool for legal move generation
// (spec §8's "Move-generation correctness (perft)" property). Grounded on
// the teacher's perft/perft.go (recursive DoMove/UndoMove with a Zobrist
// hash-table memoization keyed by (key, depth)), reduced to the single
// node-count statistic this spec's testable properties require.
package perft

import "github.com/gochess/gochess/board"

type hashEntry struct {
	zobrist uint64
	depth   int
	nodes   uint64
}

// Count returns the number of leaves of the legal-move tree rooted at b to
// the given depth. A small direct-mapped hash table memoizes subtrees by
// (Zobrist key, depth), matching the teacher's perft hash table; collisions
// are tolerated (rare, and perft is a diagnostic tool, not engine-critical
// search), consistent with the teacher's own comment that false sharing is
// an acceptable trade against a much smaller memory footprint.
func Count(b *board.Board, depth int) uint64 {
	table := make([]hashEntry, 1<<20)
	return count(b, depth, table)
}

func count(b *board.Board, depth int, table []hashEntry) uint64 {
	if depth == 0 {
		return 1
	}

	idx := b.Zobrist % uint64(len(table))
	if table[idx].depth == depth && table[idx].zobrist == b.Zobrist {
		return table[idx].nodes
	}

	var moves board.MoveList
	b.GenerateAll(&moves)

	var nodes uint64
	for _, m := range moves.Slice() {
		if !b.Make(m) {
			continue
		}
		nodes += count(b, depth-1, table)
		b.Unmake(m)
	}

	table[idx] = hashEntry{zobrist: b.Zobrist, depth: depth, nodes: nodes}
	return nodes
}

// Divide returns, for each legal move at the root, the leaf count of the
// subtree rooted at depth-1 after that move — a split count used to
// isolate a move-generation bug to a specific first move.
func Divide(b *board.Board, depth int) map[string]uint64 {
	result := make(map[string]uint64)
	var moves board.MoveList
	b.GenerateAll(&moves)

	for _, m := range moves.Slice() {
		if !b.Make(m) {
			continue
		}
		result[m.String()] = Count(b, depth-1)
		b.Unmake(m)
	}
	return result
}
