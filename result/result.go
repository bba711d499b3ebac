// Package result encodes per-letter guess feedback patterns as compact
// base-3 integer IDs, one trit per letter position.
package result

import (
	"errors"
	"fmt"
	"strings"
	"sync"
)

// PositionResult is the feedback for a single letter of a guess.
type PositionResult uint8

const (
	// Nowhere means the letter does not appear in the answer, at least not
	// beyond copies already accounted for by Here/Elsewhere marks.
	Nowhere PositionResult = iota
	// Elsewhere means the letter appears in the answer at a different position.
	Elsewhere
	// Here means the letter is in the correct position.
	Here
)

// MaxWordSize bounds the decode tables. 3^15 IDs is already ~14M entries;
// anything larger is not a word game.
const MaxWordSize = 15

var (
	ErrIDOutOfRange  = errors.New("result ID out of range for word size")
	ErrBadWordSize   = errors.New("word size out of range")
	ErrBadResultRune = errors.New("result strings may only contain H, E and N")
	ErrSizeMismatch  = errors.New("result and word sizes differ")
)

// NumIDs returns 3^wordSize, the number of distinct result IDs for a word
// of the given length.
func NumIDs(wordSize int) int {
	n := 1
	for i := 0; i < wordSize; i++ {
		n *= 3
	}
	return n
}

// Pattern is a decoded feedback pattern, one PositionResult per letter.
type Pattern []PositionResult

// ID returns the base-3 encoding of the pattern. The trit at position p
// contributes trit * 3^p.
func (p Pattern) ID() int {
	id := 0
	base := 1
	for _, r := range p {
		id += int(r) * base
		base *= 3
	}
	return id
}

// AllHere returns the pattern a guess receives when it equals the answer.
func AllHere(wordSize int) Pattern {
	p := make(Pattern, wordSize)
	for i := range p {
		p[i] = Here
	}
	return p
}

// FromString parses a pattern from a string of H/E/N runes (any case).
func FromString(s string) (Pattern, error) {
	p := make(Pattern, len(s))
	for i, r := range strings.ToUpper(s) {
		switch r {
		case 'H':
			p[i] = Here
		case 'E':
			p[i] = Elsewhere
		case 'N':
			p[i] = Nowhere
		default:
			return nil, fmt.Errorf("%w: %q", ErrBadResultRune, r)
		}
	}
	return p, nil
}

func (p Pattern) String() string {
	var sb strings.Builder
	for _, r := range p {
		switch r {
		case Here:
			sb.WriteByte('H')
		case Elsewhere:
			sb.WriteByte('E')
		default:
			sb.WriteByte('N')
		}
	}
	return sb.String()
}

// ValidFor reports whether this pattern could ever be produced by comparing
// `word` as a guess against some answer. A pattern is impossible when a
// letter is marked Nowhere at position i but a later position j holds the
// same letter value marked Elsewhere; real comparisons fold such repeats
// into Here marks or the exact-count bound instead.
func (p Pattern) ValidFor(word string) bool {
	if len(word) != len(p) {
		return false
	}
	for i := 0; i < len(p)-1; i++ {
		if p[i] != Nowhere {
			continue
		}
		for j := i + 1; j < len(p); j++ {
			if p[j] == Elsewhere && word[i] == word[j] {
				return false
			}
		}
	}
	return true
}

// FromComparison computes the feedback a guess receives against a literal
// answer. Exact matches claim their answer slots first; the remaining guess
// letters then claim the earliest unclaimed matching slot in the answer, in
// guess-position order.
func FromComparison(guess, answer string) (Pattern, error) {
	if len(guess) != len(answer) {
		return nil, ErrSizeMismatch
	}
	p := make(Pattern, len(guess))
	var used uint32 // answer slots already claimed; word sizes fit in 32 bits
	for i := 0; i < len(guess); i++ {
		if guess[i] == answer[i] {
			p[i] = Here
			used |= 1 << i
		}
	}
	for i := 0; i < len(guess); i++ {
		if guess[i] == answer[i] {
			continue
		}
		p[i] = Nowhere
		for j := 0; j < len(answer); j++ {
			if used&(1<<j) == 0 && guess[i] == answer[j] {
				p[i] = Elsewhere
				used |= 1 << j
				break
			}
		}
	}
	return p, nil
}

// Codex memoizes the full ID-to-pattern table per word length. Decoding is
// requested 3^L times for every dictionary word, so each table is built
// once, on first use of its length.
type Codex struct {
	mu     sync.Mutex
	tables [MaxWordSize + 1][]Pattern
}

func NewCodex() *Codex {
	return &Codex{}
}

func (c *Codex) table(wordSize int) ([]Pattern, error) {
	if wordSize < 1 || wordSize > MaxWordSize {
		return nil, fmt.Errorf("%w: %d", ErrBadWordSize, wordSize)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.tables[wordSize] != nil {
		return c.tables[wordSize], nil
	}
	numIDs := NumIDs(wordSize)
	tbl := make([]Pattern, numIDs)
	flat := make(Pattern, numIDs*wordSize)
	for id := 0; id < numIDs; id++ {
		pat := flat[id*wordSize : (id+1)*wordSize : (id+1)*wordSize]
		rem := id
		for pos := 0; pos < wordSize; pos++ {
			pat[pos] = PositionResult(rem % 3)
			rem /= 3
		}
		tbl[id] = pat
	}
	c.tables[wordSize] = tbl
	return tbl, nil
}

// Decode returns the pattern for an ID. The returned pattern is shared with
// the memoized table; callers must not modify it.
func (c *Codex) Decode(wordSize, id int) (Pattern, error) {
	tbl, err := c.table(wordSize)
	if err != nil {
		return nil, err
	}
	if id < 0 || id >= len(tbl) {
		return nil, fmt.Errorf("%w: %d (word size %d)", ErrIDOutOfRange, id, wordSize)
	}
	return tbl[id], nil
}

// Table returns the full decode table for a word length, for callers that
// iterate all IDs in a hot loop. Read-only.
func (c *Codex) Table(wordSize int) ([]Pattern, error) {
	return c.table(wordSize)
}
