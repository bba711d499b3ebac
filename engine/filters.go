package engine

import (
	"errors"
	"fmt"
	"strings"

	"github.com/bits-and-blooms/bitset"
	"github.com/rs/zerolog/log"

	"github.com/domino14/wordler/result"
)

var (
	ErrBadPattern = errors.New("bad positional pattern")
	ErrBadLetters = errors.New("letter filters may only contain a-z")
)

// OpKind discriminates candidate-set operations.
type OpKind int

const (
	OpClue OpKind = iota
	OpPattern
	OpLetters
)

// Operation is one recorded candidate-set mutation. Operations are not
// individually invertible (intersection loses information), so popping the
// most recent one replays the remaining history against a fresh set.
type Operation struct {
	Kind    OpKind
	Guess   string
	Result  result.Pattern
	Pattern string
	Include string
	Exclude string
}

func (o Operation) String() string {
	switch o.Kind {
	case OpClue:
		return fmt.Sprintf("clue %s %s", o.Guess, o.Result)
	case OpPattern:
		return fmt.Sprintf("pattern %s", o.Pattern)
	default:
		if o.Exclude == "" {
			return fmt.Sprintf("letters +%s", o.Include)
		}
		return fmt.Sprintf("letters +%s -%s", o.Include, o.Exclude)
	}
}

// ApplyClue intersects the candidate set with the bucket for (guess,
// result). The guess must be a dictionary word and the result achievable
// for it; a rejected clue mutates nothing.
func (e *Engine) ApplyClue(guess string, pat result.Pattern) error {
	if len(pat) != e.dict.WordSize() {
		return result.ErrSizeMismatch
	}
	id, err := e.dict.IndexOf(guess)
	if err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	op := Operation{Kind: OpClue, Guess: e.dict.Word(id), Result: pat}
	if err := e.applyLocked(op); err != nil {
		return err
	}
	e.history = append(e.history, op)
	log.Debug().Str("guess", guess).Str("result", pat.String()).
		Uint("remaining", e.candidates.Count()).Msg("applied clue")
	return nil
}

// ApplyPattern narrows candidates by a positional pattern: a letter fixes
// that position, '.' is a wildcard, and '[abc]' allows any listed letter at
// that position.
func (e *Engine) ApplyPattern(pattern string) error {
	if _, err := e.patternSets(pattern); err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	op := Operation{Kind: OpPattern, Pattern: pattern}
	if err := e.applyLocked(op); err != nil {
		return err
	}
	e.history = append(e.history, op)
	return nil
}

// ApplyLetters narrows candidates by letter multiplicity: each included
// letter (with multiplicity) requires at least that many occurrences; each
// excluded letter caps the count at its required minimum, zero if it is not
// also included. "At least this many, and no more."
func (e *Engine) ApplyLetters(include, exclude string) error {
	if !isLowerLetters(include) || !isLowerLetters(exclude) {
		return ErrBadLetters
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	op := Operation{Kind: OpLetters, Include: include, Exclude: exclude}
	if err := e.applyLocked(op); err != nil {
		return err
	}
	e.history = append(e.history, op)
	return nil
}

// Reset restores the candidate set to all words and clears the history.
func (e *Engine) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.candidates = e.ix.AllWords()
	e.history = nil
}

// PopLast removes the most recent operation by replaying the rest against
// a fresh all-words set.
func (e *Engine) PopLast() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if len(e.history) == 0 {
		return ErrNothingToPop
	}
	e.history = e.history[:len(e.history)-1]
	return e.replayLocked()
}

// History returns a copy of the applied operations, oldest first.
func (e *Engine) History() []Operation {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]Operation, len(e.history))
	copy(out, e.history)
	return out
}

// Candidates returns a copy of the current candidate set.
func (e *Engine) Candidates() *bitset.BitSet {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.candidates.Clone()
}

// CandidateCount returns the number of still-possible words.
func (e *Engine) CandidateCount() uint {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.candidates.Count()
}

// CandidateWords returns up to max candidate words in dictionary order;
// max <= 0 means all.
func (e *Engine) CandidateWords(max int) []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	var out []string
	for id, ok := e.candidates.NextSet(0); ok; id, ok = e.candidates.NextSet(id + 1) {
		out = append(out, e.dict.Word(int(id)))
		if max > 0 && len(out) == max {
			break
		}
	}
	return out
}

func (e *Engine) replayLocked() error {
	e.candidates = e.ix.AllWords()
	for _, op := range e.history {
		if err := e.applyLocked(op); err != nil {
			return err
		}
	}
	return nil
}

func (e *Engine) applyLocked(op Operation) error {
	switch op.Kind {
	case OpClue:
		id, err := e.dict.IndexOf(op.Guess)
		if err != nil {
			return err
		}
		p, err := e.partitionLocked(id)
		if err != nil {
			return err
		}
		bucket := p.Bucket(op.Result.ID())
		if bucket == nil {
			return fmt.Errorf("%w: %s on %s", ErrImpossibleResult, op.Result, op.Guess)
		}
		e.candidates.InPlaceIntersection(bucket)
	case OpPattern:
		sets, err := e.patternSets(op.Pattern)
		if err != nil {
			return err
		}
		for _, s := range sets {
			e.candidates.InPlaceIntersection(s)
		}
	case OpLetters:
		var includeCounts [26]int
		for i := 0; i < len(op.Include); i++ {
			includeCounts[op.Include[i]-'a']++
		}
		for l := 0; l < 26; l++ {
			if includeCounts[l] > 0 {
				e.candidates.InPlaceIntersection(e.ix.AtLeast(byte('a'+l), includeCounts[l]))
			}
		}
		for i := 0; i < len(op.Exclude); i++ {
			letter := op.Exclude[i]
			e.candidates.InPlaceIntersection(e.ix.Exactly(letter, includeCounts[letter-'a']))
		}
	}
	return nil
}

// patternSets parses a positional pattern into one constraint bitset per
// constrained position. Each returned set is freshly allocated.
func (e *Engine) patternSets(pattern string) ([]*bitset.BitSet, error) {
	wordSize := e.dict.WordSize()
	var sets []*bitset.BitSet
	pos := 0
	for i := 0; i < len(pattern); i++ {
		if pos >= wordSize {
			return nil, fmt.Errorf("%w: longer than word size %d", ErrBadPattern, wordSize)
		}
		ch := pattern[i]
		switch {
		case ch == '.':
			pos++
		case ch == '[':
			end := strings.IndexByte(pattern[i:], ']')
			if end < 0 {
				return nil, fmt.Errorf("%w: unclosed letter class", ErrBadPattern)
			}
			class := pattern[i+1 : i+end]
			if class == "" {
				return nil, fmt.Errorf("%w: empty letter class", ErrBadPattern)
			}
			if !isLowerLetters(class) {
				return nil, fmt.Errorf("%w: %q", ErrBadPattern, class)
			}
			union := bitset.New(uint(e.dict.Len()))
			for j := 0; j < len(class); j++ {
				union.InPlaceUnion(e.ix.Here(pos, class[j]))
			}
			sets = append(sets, union)
			i += end
			pos++
		case ch >= 'a' && ch <= 'z':
			sets = append(sets, e.ix.Here(pos, ch).Clone())
			pos++
		default:
			return nil, fmt.Errorf("%w: %q", ErrBadPattern, ch)
		}
	}
	if pos != wordSize {
		return nil, fmt.Errorf("%w: covers %d of %d positions", ErrBadPattern, pos, wordSize)
	}
	return sets, nil
}

func isLowerLetters(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < 'a' || s[i] > 'z' {
			return false
		}
	}
	return true
}
