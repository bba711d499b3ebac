// Package clues holds the precomputed bitset index over a dictionary: for
// every position/letter pair, the words with that letter at that position,
// and for every letter/count pair, the words with at-least and exactly that
// many occurrences of the letter. The index is built once per dictionary
// and is immutable afterwards.
package clues

import (
	"time"

	"github.com/bits-and-blooms/bitset"
	"github.com/rs/zerolog/log"
)

// NumLetters is the alphabet size. All words are lowercase a-z.
const NumLetters = 26

// DefaultMaxRepeat caps per-letter repeat tracking. Four repeats covers
// English words at the lengths in scope; a fifth repeat of the same letter
// collapses into the cap bucket.
const DefaultMaxRepeat = 4

// LetterID converts a lowercase letter to its 0-25 index. Callers validate
// at the boundary; the index itself assumes clean input.
func LetterID(letter byte) int {
	return int(letter - 'a')
}

// Letter converts a 0-25 index back to its lowercase letter.
func Letter(id int) byte {
	return byte(id) + 'a'
}

// Index is the clue index for one dictionary.
type Index struct {
	numWords  int
	wordSize  int
	maxRepeat int

	// here[pos][letter]: words with `letter` at `pos`.
	here [][]*bitset.BitSet
	// atLeast[letter][count-1]: words with >= count occurrences, count in
	// 1..maxRepeat. "At least 0" is trivially true for every word and is
	// neither stored nor queryable.
	atLeast [][]*bitset.BitSet
	// exactly[letter][count]: words with exactly count occurrences, count
	// in 0..maxRepeat (the cap bucket also holds words over the cap).
	exactly [][]*bitset.BitSet
}

// NewIndex builds the index from an already-validated word list: all words
// the same length, lowercase a-z, no duplicates. maxRepeat <= 0 selects
// DefaultMaxRepeat.
func NewIndex(words []string, maxRepeat int) *Index {
	if maxRepeat <= 0 {
		maxRepeat = DefaultMaxRepeat
	}
	wordSize := 0
	if len(words) > 0 {
		wordSize = len(words[0])
	}
	start := time.Now()
	ix := &Index{
		numWords:  len(words),
		wordSize:  wordSize,
		maxRepeat: maxRepeat,
	}
	n := uint(len(words))
	ix.here = make([][]*bitset.BitSet, wordSize)
	for pos := range ix.here {
		ix.here[pos] = make([]*bitset.BitSet, NumLetters)
		for l := range ix.here[pos] {
			ix.here[pos][l] = bitset.New(n)
		}
	}
	ix.atLeast = make([][]*bitset.BitSet, NumLetters)
	ix.exactly = make([][]*bitset.BitSet, NumLetters)
	for l := 0; l < NumLetters; l++ {
		ix.atLeast[l] = make([]*bitset.BitSet, maxRepeat)
		for c := range ix.atLeast[l] {
			ix.atLeast[l][c] = bitset.New(n)
		}
		ix.exactly[l] = make([]*bitset.BitSet, maxRepeat+1)
		for c := range ix.exactly[l] {
			ix.exactly[l][c] = bitset.New(n)
		}
	}

	var counts [NumLetters]int
	for wid, word := range words {
		for i := range counts {
			counts[i] = 0
		}
		for pos := 0; pos < len(word); pos++ {
			l := LetterID(word[pos])
			counts[l]++
			ix.here[pos][l].Set(uint(wid))
		}
		for l := 0; l < NumLetters; l++ {
			c := counts[l]
			if c > maxRepeat {
				c = maxRepeat
			}
			ix.exactly[l][c].Set(uint(wid))
			for k := 1; k <= c; k++ {
				ix.atLeast[l][k-1].Set(uint(wid))
			}
		}
	}
	log.Debug().
		Int("words", len(words)).
		Int("word-size", wordSize).
		Dur("elapsed", time.Since(start)).
		Msg("built clue index")
	return ix
}

func (ix *Index) NumWords() int { return ix.numWords }
func (ix *Index) WordSize() int { return ix.wordSize }
func (ix *Index) MaxRepeat() int { return ix.maxRepeat }

// Here returns the set of words with `letter` at `pos`. Read-only.
func (ix *Index) Here(pos int, letter byte) *bitset.BitSet {
	return ix.here[pos][LetterID(letter)]
}

// AtLeast returns the words with at least `count` occurrences of `letter`,
// for count in 1..MaxRepeat. Counts over the cap clamp to the cap.
func (ix *Index) AtLeast(letter byte, count int) *bitset.BitSet {
	if count > ix.maxRepeat {
		count = ix.maxRepeat
	}
	return ix.atLeast[LetterID(letter)][count-1]
}

// Exactly returns the words with exactly `count` occurrences of `letter`,
// for count in 0..MaxRepeat. The cap bucket also holds words over the cap.
func (ix *Index) Exactly(letter byte, count int) *bitset.BitSet {
	if count > ix.maxRepeat {
		count = ix.maxRepeat
	}
	return ix.exactly[LetterID(letter)][count]
}

// AllWords returns a fresh bitset with every word set. Callers own it.
func (ix *Index) AllWords() *bitset.BitSet {
	return bitset.New(uint(ix.numWords)).SetAll()
}
