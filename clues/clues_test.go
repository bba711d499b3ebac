package clues

import (
	"testing"

	"github.com/matryer/is"
)

var testWords = []string{"abcde", "edcba", "aabbc"}

func TestHere(t *testing.T) {
	is := is.New(t)
	ix := NewIndex(testWords, 0)

	is.Equal(ix.NumWords(), 3)
	is.Equal(ix.WordSize(), 5)

	// 'a' at position 0: abcde and aabbc.
	h := ix.Here(0, 'a')
	is.Equal(h.Count(), uint(2))
	is.True(h.Test(0))
	is.True(h.Test(2))

	// 'c' at position 2: all three words.
	is.Equal(ix.Here(2, 'c').Count(), uint(3))

	// 'z' appears nowhere.
	is.Equal(ix.Here(0, 'z').Count(), uint(0))
}

func TestLetterCounts(t *testing.T) {
	is := is.New(t)
	ix := NewIndex(testWords, 0)

	// Every word has at least one 'a'.
	is.Equal(ix.AtLeast('a', 1).Count(), uint(3))
	// Only aabbc has two.
	atLeast2 := ix.AtLeast('a', 2)
	is.Equal(atLeast2.Count(), uint(1))
	is.True(atLeast2.Test(2))

	// Exactly one 'a': abcde and edcba.
	is.Equal(ix.Exactly('a', 1).Count(), uint(2))
	is.Equal(ix.Exactly('a', 2).Count(), uint(1))

	// Exactly zero 'z's: everything.
	is.Equal(ix.Exactly('z', 0).Count(), uint(3))
}

func TestRepeatCap(t *testing.T) {
	is := is.New(t)
	ix := NewIndex([]string{"aaaaaa", "aaaaab", "abcdef"}, 4)

	// Six repeats collapse into the cap bucket.
	is.True(ix.Exactly('a', 4).Test(0))
	is.True(ix.AtLeast('a', 4).Test(0))
	// A query over the cap clamps to the cap.
	is.True(ix.Exactly('a', 6).Test(0))
	is.True(ix.AtLeast('a', 5).Test(0))
	// Five repeats also land in the cap bucket.
	is.True(ix.Exactly('a', 4).Test(1))
	is.Equal(ix.Exactly('a', 1).Count(), uint(1)) // abcdef only
}

func TestAllWords(t *testing.T) {
	is := is.New(t)
	ix := NewIndex(testWords, 0)
	all := ix.AllWords()
	is.Equal(all.Count(), uint(3))

	// Callers own the returned set; mutating it must not affect the index.
	all.Clear(0)
	is.Equal(ix.AllWords().Count(), uint(3))
}
