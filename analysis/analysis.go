// Package analysis implements the optional brute-force bulk scans:
// evaluating pairs or triples of guesses played together. A word's combined
// bucket identity is the tuple of its result codes under each guess; words
// are grouped by that tuple before the usual aggregate formulas apply.
package analysis

import (
	"context"
	"encoding/binary"
	"io"
	"math"
	"runtime"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/bits-and-blooms/bitset"
	"github.com/cespare/xxhash"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/combin"
	"gopkg.in/yaml.v3"
	"lukechampine.com/frand"

	"github.com/domino14/wordler/engine"
	"github.com/domino14/wordler/partition"
)

// Combo is a set of guesses evaluated as if played together, with the
// stats of their combined partition.
type Combo struct {
	Words []string
	Stats partition.Stats
}

// logRecord is the YAML shape streamed per evaluated combo when a log
// stream is attached.
type logRecord struct {
	Words   []string `yaml:"words,flow"`
	Max     uint     `yaml:"max"`
	Ave     float64  `yaml:"ave"`
	Entropy float64  `yaml:"entropy"`
	Thread  int      `yaml:"thread"`
}

// Scanner runs bulk combo scans over an analyzed engine.
type Scanner struct {
	eng     *engine.Engine
	threads int

	logMu     sync.Mutex
	logStream io.Writer

	codeMu sync.RWMutex
	codes  map[int][]uint32

	evaluated atomic.Uint64
	totalJobs atomic.Uint64
}

func NewScanner(eng *engine.Engine, threads int) *Scanner {
	if threads <= 0 {
		threads = runtime.NumCPU()
	}
	return &Scanner{
		eng:     eng,
		threads: threads,
		codes:   make(map[int][]uint32),
	}
}

// SetLogStream attaches a writer that receives one YAML document per
// evaluated combo.
func (s *Scanner) SetLogStream(w io.Writer) {
	s.logMu.Lock()
	s.logStream = w
	s.logMu.Unlock()
}

// Progress returns the fraction of combos evaluated in the current scan.
func (s *Scanner) Progress() float64 {
	total := s.totalJobs.Load()
	if total == 0 {
		return 0
	}
	return float64(s.evaluated.Load()) / float64(total)
}

// codesFor returns, for a guess word ID, every dictionary word's result
// code under that guess. Computed once per guess and cached.
func (s *Scanner) codesFor(id int) ([]uint32, error) {
	s.codeMu.RLock()
	arr, ok := s.codes[id]
	s.codeMu.RUnlock()
	if ok {
		return arr, nil
	}
	p, err := s.eng.Partition(s.eng.Dictionary().Word(id))
	if err != nil {
		return nil, err
	}
	arr = make([]uint32, s.eng.Dictionary().Len())
	p.Each(func(code int, bucket *bitset.BitSet) {
		for w, ok := bucket.NextSet(0); ok; w, ok = bucket.NextSet(w + 1) {
			arr[w] = uint32(code)
		}
	})
	s.codeMu.Lock()
	s.codes[id] = arr
	s.codeMu.Unlock()
	return arr, nil
}

// BestPairs scans guess pairs and returns the topN by expected remaining
// words, ascending. sample > 0 scans that many random pairs instead of all
// of them.
func (s *Scanner) BestPairs(ctx context.Context, topN, sample int) ([]Combo, error) {
	return s.scan(ctx, 2, topN, sample)
}

// BestTriples is BestPairs for guess triples. A full triple scan is cubic;
// sampling is strongly advised for real dictionaries.
func (s *Scanner) BestTriples(ctx context.Context, topN, sample int) ([]Combo, error) {
	return s.scan(ctx, 3, topN, sample)
}

func (s *Scanner) scan(ctx context.Context, k, topN, sample int) ([]Combo, error) {
	n := s.eng.Dictionary().Len()
	if topN <= 0 {
		topN = 10
	}
	start := time.Now()
	jobChan := make(chan []int, s.threads)
	resultChan := make(chan Combo, s.threads)

	s.evaluated.Store(0)
	if sample > 0 {
		s.totalJobs.Store(uint64(sample))
	} else {
		s.totalJobs.Store(uint64(combin.Binomial(n, k)))
	}
	log.Info().Int("k", k).Uint64("combos", s.totalJobs.Load()).
		Int("threads", s.threads).Msg("starting combo scan")

	g := errgroup.Group{}
	for t := 0; t < s.threads; t++ {
		t := t
		g.Go(func() error {
			for combo := range jobChan {
				c, err := s.evalCombo(combo)
				if err != nil {
					// Keep draining, to avoid deadlocking the feeder.
					log.Err(err).Ints("combo", combo).Msg("error evaluating combo")
					continue
				}
				s.logCombo(c, t)
				s.evaluated.Add(1)
				resultChan <- c
			}
			return nil
		})
	}

	// The collector keeps only the best topN, by expected remaining words
	// with worst-case as tiebreak.
	best := make([]Combo, 0, topN+1)
	collector := errgroup.Group{}
	collector.Go(func() error {
		for c := range resultChan {
			best = append(best, c)
			sort.SliceStable(best, func(i, j int) bool {
				if best[i].Stats.ExpectedBucket == best[j].Stats.ExpectedBucket {
					return best[i].Stats.MaxBucket < best[j].Stats.MaxBucket
				}
				return best[i].Stats.ExpectedBucket < best[j].Stats.ExpectedBucket
			})
			if len(best) > topN {
				best = best[:topN]
			}
		}
		return nil
	})

	feedErr := s.feed(ctx, n, k, sample, jobChan)
	close(jobChan)
	g.Wait()
	close(resultChan)
	collector.Wait()
	if feedErr == context.Canceled || feedErr == context.DeadlineExceeded {
		log.Info().Msg("scan stopped early; returning best results so far")
	} else if feedErr != nil {
		return nil, feedErr
	}
	log.Info().Dur("elapsed", time.Since(start)).
		Uint64("evaluated", s.evaluated.Load()).Msg("combo scan done")
	return best, nil
}

func (s *Scanner) feed(ctx context.Context, n, k, sample int, jobChan chan<- []int) error {
	if sample > 0 {
		for i := 0; i < sample; i++ {
			combo := randomCombo(n, k)
			select {
			case jobChan <- combo:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		return nil
	}
	gen := combin.NewCombinationGenerator(n, k)
	for gen.Next() {
		combo := gen.Combination(nil)
		select {
		case jobChan <- combo:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

// randomCombo draws k distinct word IDs. Dictionaries are always far
// larger than k, so rejection sampling terminates immediately in practice.
func randomCombo(n, k int) []int {
	combo := make([]int, 0, k)
	for len(combo) < k {
		id := frand.Intn(n)
		dup := false
		for _, c := range combo {
			if c == id {
				dup = true
				break
			}
		}
		if !dup {
			combo = append(combo, id)
		}
	}
	sort.Ints(combo)
	return combo
}

func (s *Scanner) evalCombo(ids []int) (Combo, error) {
	n := s.eng.Dictionary().Len()
	codeArrs := make([][]uint32, len(ids))
	for i, id := range ids {
		arr, err := s.codesFor(id)
		if err != nil {
			return Combo{}, err
		}
		codeArrs[i] = arr
	}

	// Group every word by the tuple of its codes under each guess. The
	// tuple is hashed down to a single key; 64-bit xxhash collisions over
	// at most N distinct tuples are negligible.
	groups := make(map[uint64]uint, 256)
	buf := make([]byte, 4*len(ids))
	for w := 0; w < n; w++ {
		for i, arr := range codeArrs {
			binary.LittleEndian.PutUint32(buf[i*4:], arr[w])
		}
		groups[xxhash.Sum64(buf)]++
	}

	var maxBucket uint
	var sumSq uint64
	var solveCount uint
	probs := make([]float64, 0, len(groups))
	ftotal := float64(n)
	for _, size := range groups {
		if size > maxBucket {
			maxBucket = size
		}
		sumSq += uint64(size) * uint64(size)
		if size == 1 {
			solveCount++
		}
		probs = append(probs, float64(size)/ftotal)
	}

	words := make([]string, len(ids))
	for i, id := range ids {
		words[i] = s.eng.Dictionary().Word(id)
	}
	return Combo{
		Words: words,
		Stats: partition.Stats{
			MaxBucket:        maxBucket,
			ExpectedBucket:   float64(sumSq) / ftotal,
			EntropyBits:      stat.Entropy(probs) / math.Ln2,
			SolveProbability: float64(solveCount) / ftotal,
		},
	}, nil
}

func (s *Scanner) logCombo(c Combo, thread int) {
	s.logMu.Lock()
	defer s.logMu.Unlock()
	if s.logStream == nil {
		return
	}
	out, err := yaml.Marshal([]logRecord{{
		Words:   c.Words,
		Max:     c.Stats.MaxBucket,
		Ave:     c.Stats.ExpectedBucket,
		Entropy: c.Stats.EntropyBits,
		Thread:  thread,
	}})
	if err != nil {
		log.Err(err).Msg("error marshaling combo log")
		return
	}
	s.logStream.Write(out)
}
