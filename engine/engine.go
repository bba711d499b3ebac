// Package engine is the composition root: it owns the dictionary, the clue
// index, the per-word partition and stats caches, and the mutable candidate
// set, and exposes the operations interactive drivers call.
package engine

import (
	"context"
	"errors"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/bits-and-blooms/bitset"
	"github.com/pbnjay/memory"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/domino14/wordler/clues"
	"github.com/domino14/wordler/dictionary"
	"github.com/domino14/wordler/partition"
	"github.com/domino14/wordler/result"
)

var (
	ErrImpossibleResult = errors.New("result pattern cannot occur for this guess")
	ErrNothingToPop     = errors.New("no operations to pop")
)

// Engine ties the immutable per-dictionary structures to the mutable
// working state. The dictionary, clue index and computed partitions never
// change after load; the candidate set and operation history do, and all
// mutation is serialized behind the engine's mutex.
type Engine struct {
	dict  *dictionary.Dictionary
	ix    *clues.Index
	codex *result.Codex
	pt    *partition.Partitioner

	mu         sync.Mutex
	partitions []*partition.Partition
	fullStats  []partition.Stats
	analyzed   bool
	candidates *bitset.BitSet
	history    []Operation

	processed atomic.Uint32
}

// New builds an engine over a loaded dictionary. maxRepeat <= 0 selects the
// default per-letter repeat cap.
func New(dict *dictionary.Dictionary, maxRepeat int) *Engine {
	ix := clues.NewIndex(dict.Words(), maxRepeat)
	codex := result.NewCodex()
	return &Engine{
		dict:       dict,
		ix:         ix,
		codex:      codex,
		pt:         partition.NewPartitioner(ix, codex),
		partitions: make([]*partition.Partition, dict.Len()),
		fullStats:  make([]partition.Stats, dict.Len()),
		candidates: ix.AllWords(),
	}
}

func (e *Engine) Dictionary() *dictionary.Dictionary { return e.dict }
func (e *Engine) Index() *clues.Index { return e.ix }
func (e *Engine) Codex() *result.Codex { return e.codex }
func (e *Engine) WordSize() int { return e.dict.WordSize() }

// Partition returns the (cached) partition for a dictionary word.
func (e *Engine) Partition(word string) (*partition.Partition, error) {
	id, err := e.dict.IndexOf(word)
	if err != nil {
		return nil, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.partitionLocked(id)
}

func (e *Engine) partitionLocked(id int) (*partition.Partition, error) {
	if e.partitions[id] != nil {
		return e.partitions[id], nil
	}
	p, err := e.pt.Compute(e.dict.Word(id))
	if err != nil {
		return nil, err
	}
	e.partitions[id] = p
	return p, nil
}

// AnalyzeAll eagerly computes every word's partition and its stats against
// the full dictionary, in parallel. Each worker writes only to its own
// disjoint slice entries, so no locking is needed beyond the job channel.
// The computation runs to completion; Progress is advisory for callers
// that want to render a bar.
func (e *Engine) AnalyzeAll(ctx context.Context, threads int) error {
	if threads <= 0 {
		threads = runtime.NumCPU()
	}
	n := e.dict.Len()
	e.warnIfLarge(n)
	e.processed.Store(0)
	start := time.Now()

	g := errgroup.Group{}
	jobChan := make(chan int, threads)
	for t := 0; t < threads; t++ {
		g.Go(func() error {
			for id := range jobChan {
				p, err := e.pt.Compute(e.dict.Word(id))
				if err != nil {
					return err
				}
				e.partitions[id] = p
				e.fullStats[id] = partition.Compute(p, nil)
				e.processed.Add(1)
			}
			return nil
		})
	}

	var err error
feed:
	for id := 0; id < n; id++ {
		select {
		case jobChan <- id:
		case <-ctx.Done():
			err = ctx.Err()
			break feed
		}
	}
	close(jobChan)
	if werr := g.Wait(); werr != nil {
		return werr
	}
	if err != nil {
		return err
	}

	e.mu.Lock()
	e.analyzed = true
	e.mu.Unlock()
	log.Info().
		Int("words", n).
		Int("threads", threads).
		Dur("elapsed", time.Since(start)).
		Msg("analyzed all words")
	return nil
}

// Progress returns the fraction of words processed by AnalyzeAll, 0 to 1.
func (e *Engine) Progress() float64 {
	n := e.dict.Len()
	if n == 0 {
		return 1
	}
	return float64(e.processed.Load()) / float64(n)
}

// Analyzed reports whether AnalyzeAll has completed.
func (e *Engine) Analyzed() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.analyzed
}

// FullStats returns a word's stats against the full dictionary, computing
// lazily if AnalyzeAll has not run.
func (e *Engine) FullStats(word string) (partition.Stats, error) {
	id, err := e.dict.IndexOf(word)
	if err != nil {
		return partition.Stats{}, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.analyzed {
		return e.fullStats[id], nil
	}
	p, err := e.partitionLocked(id)
	if err != nil {
		return partition.Stats{}, err
	}
	e.fullStats[id] = partition.Compute(p, nil)
	return e.fullStats[id], nil
}

// CurrentStats returns a word's stats restricted to the current candidate
// set. Stats are derived data: they are recomputed from the cached
// partition whenever asked for, so they can never go stale as the
// candidate set shrinks.
func (e *Engine) CurrentStats(word string) (partition.Stats, error) {
	id, err := e.dict.IndexOf(word)
	if err != nil {
		return partition.Stats{}, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	p, err := e.partitionLocked(id)
	if err != nil {
		return partition.Stats{}, err
	}
	return partition.Compute(p, e.candidates), nil
}

func (e *Engine) warnIfLarge(n int) {
	// Worst case every result ID of every word gets a full-width bucket.
	bucketBytes := uint64((n + 63) / 64 * 8)
	estimate := uint64(n) * uint64(result.NumIDs(e.dict.WordSize())) * bucketBytes
	total := memory.TotalMemory()
	if total > 0 && estimate > total/2 {
		log.Warn().
			Uint64("estimated-bytes", estimate).
			Uint64("total-system-memory-bytes", total).
			Msg("partition cache upper bound exceeds half of system memory")
	}
}
