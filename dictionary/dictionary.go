// Package dictionary loads and validates fixed-length word lists. Input is
// plain whitespace-separated tokens; case is normalized to lowercase and
// non-conforming tokens are dropped with a warning count, never an error.
package dictionary

import (
	"bufio"
	"errors"
	"io"
	"os"

	"github.com/rs/zerolog/log"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	ErrEmpty        = errors.New("no valid words in dictionary")
	ErrNoSuchWord   = errors.New("word is not in the dictionary")
	ErrUnsizedWords = errors.New("word length must be positive")
)

// DropCounts tallies tokens excluded during loading.
type DropCounts struct {
	WrongLength  int
	InvalidChars int
	Duplicates   int
}

func (d DropCounts) Total() int {
	return d.WrongLength + d.InvalidChars + d.Duplicates
}

// Dictionary is an ordered, duplicate-free list of equal-length lowercase
// words with dense integer IDs assigned in load order.
type Dictionary struct {
	words    []string
	wordSize int
	ids      map[string]int
	dropped  DropCounts
}

var lowerCaser = cases.Lower(language.Und)

func isLowerWord(w string) bool {
	for i := 0; i < len(w); i++ {
		if w[i] < 'a' || w[i] > 'z' {
			return false
		}
	}
	return true
}

// New builds a dictionary from tokens, keeping only lowercase-normalizable
// words of exactly wordSize letters, first occurrence wins.
func New(tokens []string, wordSize int) (*Dictionary, error) {
	if wordSize <= 0 {
		return nil, ErrUnsizedWords
	}
	d := &Dictionary{
		wordSize: wordSize,
		ids:      make(map[string]int),
	}
	for _, tok := range tokens {
		word := lowerCaser.String(tok)
		if len(word) != wordSize {
			d.dropped.WrongLength++
			continue
		}
		if !isLowerWord(word) {
			d.dropped.InvalidChars++
			continue
		}
		if _, dup := d.ids[word]; dup {
			d.dropped.Duplicates++
			continue
		}
		d.ids[word] = len(d.words)
		d.words = append(d.words, word)
	}
	if d.dropped.WrongLength > 0 {
		log.Warn().Int("count", d.dropped.WrongLength).Msg("eliminated words of the wrong size")
	}
	if d.dropped.InvalidChars > 0 {
		log.Warn().Int("count", d.dropped.InvalidChars).Msg("eliminated words with invalid characters")
	}
	if d.dropped.Duplicates > 0 {
		log.Warn().Int("count", d.dropped.Duplicates).Msg("eliminated duplicate words")
	}
	if len(d.words) == 0 {
		return nil, ErrEmpty
	}
	log.Info().Int("words", len(d.words)).Int("word-size", wordSize).Msg("loaded dictionary")
	return d, nil
}

// Load reads whitespace-separated tokens from r.
func Load(r io.Reader, wordSize int) (*Dictionary, error) {
	scanner := bufio.NewScanner(r)
	scanner.Split(bufio.ScanWords)
	var tokens []string
	for scanner.Scan() {
		tokens = append(tokens, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return New(tokens, wordSize)
}

// LoadFile reads a word list from a file.
func LoadFile(path string, wordSize int) (*Dictionary, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Load(f, wordSize)
}

func (d *Dictionary) Len() int { return len(d.words) }
func (d *Dictionary) WordSize() int { return d.wordSize }

// Word returns the word with the given ID.
func (d *Dictionary) Word(id int) string { return d.words[id] }

// Words returns the backing word slice. Read-only.
func (d *Dictionary) Words() []string { return d.words }

// IndexOf returns the ID of a word, or ErrNoSuchWord.
func (d *Dictionary) IndexOf(word string) (int, error) {
	id, ok := d.ids[lowerCaser.String(word)]
	if !ok {
		return 0, ErrNoSuchWord
	}
	return id, nil
}

// Dropped reports how many tokens were excluded during loading.
func (d *Dictionary) Dropped() DropCounts { return d.dropped }
