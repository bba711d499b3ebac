// Package partition computes, for a guess word, the full partition of the
// dictionary by result ID: for every achievable feedback pattern, the set
// of words consistent with that guess/result pair. This is the hot path of
// the whole system, O(3^L * L) bitset operations per guess.
package partition

import (
	"github.com/bits-and-blooms/bitset"

	"github.com/domino14/wordler/clues"
	"github.com/domino14/wordler/result"
)

// Partition maps result IDs to buckets for one guess. IDs whose pattern is
// not achievable for the guess have a nil bucket and are skipped in all
// aggregation. An empty non-nil bucket is meaningful: the pattern is
// achievable but no dictionary word matches it.
type Partition struct {
	guess    string
	numWords int
	buckets  []*bitset.BitSet
}

func (p *Partition) Guess() string { return p.guess }
func (p *Partition) NumWords() int { return p.numWords }
func (p *Partition) NumBuckets() int { return len(p.buckets) }

// Bucket returns the bucket for a result ID, or nil if the pattern is not
// achievable for the guess. Read-only.
func (p *Partition) Bucket(id int) *bitset.BitSet {
	if id < 0 || id >= len(p.buckets) {
		return nil
	}
	return p.buckets[id]
}

// Each calls fn for every achievable result ID in increasing ID order.
func (p *Partition) Each(fn func(id int, bucket *bitset.BitSet)) {
	for id, b := range p.buckets {
		if b != nil {
			fn(id, b)
		}
	}
}

// Partitioner computes partitions against a fixed clue index. It is
// stateless apart from the index and codex and safe for concurrent use.
type Partitioner struct {
	ix    *clues.Index
	codex *result.Codex
}

func NewPartitioner(ix *clues.Index, codex *result.Codex) *Partitioner {
	return &Partitioner{ix: ix, codex: codex}
}

// Compute builds the partition for a guess. The guess must have the
// index's word size; it need not itself be a dictionary word.
func (pt *Partitioner) Compute(guess string) (*Partition, error) {
	wordSize := pt.ix.WordSize()
	if len(guess) != wordSize {
		return nil, result.ErrSizeMismatch
	}
	table, err := pt.codex.Table(wordSize)
	if err != nil {
		return nil, err
	}
	p := &Partition{
		guess:    guess,
		numWords: pt.ix.NumWords(),
		buckets:  make([]*bitset.BitSet, len(table)),
	}
	for id, pat := range table {
		if !pat.ValidFor(guess) {
			continue
		}
		p.buckets[id] = pt.bucketFor(guess, pat)
	}
	return p, nil
}

// bucketFor intersects the clue sets implied by one guess/pattern pair.
func (pt *Partitioner) bucketFor(guess string, pat result.Pattern) *bitset.BitSet {
	var letterCounts [clues.NumLetters]int
	var letterFail uint32

	words := pt.ix.AllWords()
	for i := 0; i < len(guess); i++ {
		letter := guess[i]
		switch pat[i] {
		case result.Here:
			words.InPlaceIntersection(pt.ix.Here(i, letter))
			letterCounts[clues.LetterID(letter)]++
		case result.Elsewhere:
			// The letter is in the word but not at this position.
			words.InPlaceDifference(pt.ix.Here(i, letter))
			letterCounts[clues.LetterID(letter)]++
		default: // Nowhere
			words.InPlaceDifference(pt.ix.Here(i, letter))
			letterFail |= 1 << clues.LetterID(letter)
		}
	}

	for l := 0; l < clues.NumLetters; l++ {
		count := letterCounts[l]
		if letterFail&(1<<l) != 0 {
			// A Nowhere mark caps the letter at exactly the count implied
			// by its Here/Elsewhere marks (possibly zero).
			words.InPlaceIntersection(pt.ix.Exactly(clues.Letter(l), count))
		} else if count > 0 {
			// Only a lower bound is known.
			words.InPlaceIntersection(pt.ix.AtLeast(clues.Letter(l), count))
		}
	}
	return words
}
