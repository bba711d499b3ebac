package engine

import (
	"context"
	"testing"

	"github.com/matryer/is"
	"github.com/stretchr/testify/assert"

	"github.com/domino14/wordler/dictionary"
	"github.com/domino14/wordler/result"
)

func testEngine(t *testing.T, words ...string) *Engine {
	t.Helper()
	if len(words) == 0 {
		words = []string{"abcde", "edcba", "aabbc"}
	}
	d, err := dictionary.New(words, len(words[0]))
	if err != nil {
		t.Fatal(err)
	}
	return New(d, 0)
}

func TestApplyClue(t *testing.T) {
	is := is.New(t)
	e := testEngine(t)

	// Guess "abcde" against answer "edcba" yields EEHEE; applying that
	// clue must leave exactly the answer.
	pat, err := result.FromComparison("abcde", "edcba")
	is.NoErr(err)
	is.Equal(pat.String(), "EEHEE")

	err = e.ApplyClue("abcde", pat)
	is.NoErr(err)
	is.Equal(e.CandidateWords(0), []string{"edcba"})
}

func TestApplyClueRejections(t *testing.T) {
	is := is.New(t)
	e := testEngine(t)

	pat := result.AllHere(5)
	err := e.ApplyClue("zzzzz", pat)
	is.Equal(err, dictionary.ErrNoSuchWord)
	is.Equal(e.CandidateCount(), uint(3)) // rejected commands mutate nothing

	short := result.AllHere(3)
	is.Equal(e.ApplyClue("abcde", short), result.ErrSizeMismatch)

	// NENNN is impossible for aabbc ('a' nowhere then elsewhere).
	impossible, err := result.FromString("NENNN")
	is.NoErr(err)
	err = e.ApplyClue("aabbc", impossible)
	is.True(err != nil)
	is.Equal(e.CandidateCount(), uint(3))
}

func TestClueMonotonicity(t *testing.T) {
	is := is.New(t)
	e := testEngine(t)

	before := e.CandidateCount()
	pat, err := result.FromComparison("abcde", "aabbc")
	is.NoErr(err)
	is.NoErr(e.ApplyClue("abcde", pat))
	is.True(e.CandidateCount() <= before)
	is.True(e.Candidates().Test(2)) // the answer always survives its own clue
}

func TestApplyPattern(t *testing.T) {
	tests := []struct {
		pattern string
		want    []string
	}{
		{"a....", []string{"abcde", "aabbc"}},
		{"..c..", []string{"abcde", "edcba", "aabbc"}},
		{"[ae]....", []string{"abcde", "edcba", "aabbc"}},
		{"a[ab]...", []string{"abcde", "aabbc"}},
		{"e...a", []string{"edcba"}},
	}
	for _, tc := range tests {
		e := testEngine(t)
		err := e.ApplyPattern(tc.pattern)
		assert.NoError(t, err, tc.pattern)
		assert.Equal(t, tc.want, e.CandidateWords(0), tc.pattern)
	}
}

func TestApplyPatternErrors(t *testing.T) {
	e := testEngine(t)
	for _, pattern := range []string{"a...", "a.....", "a.[bc", "a.[].", "A....", "a.509"} {
		assert.Error(t, e.ApplyPattern(pattern), pattern)
		assert.Equal(t, uint(3), e.CandidateCount(), pattern)
	}
}

func TestApplyLetters(t *testing.T) {
	is := is.New(t)
	e := testEngine(t)

	// At least two 'a's keeps only aabbc.
	is.NoErr(e.ApplyLetters("aa", ""))
	is.Equal(e.CandidateWords(0), []string{"aabbc"})

	// Exclusion without inclusion means exactly zero of that letter.
	e.Reset()
	is.NoErr(e.ApplyLetters("", "e"))
	is.Equal(e.CandidateWords(0), []string{"aabbc"})

	// Include+exclude: at least one 'b' and no more than one.
	e.Reset()
	is.NoErr(e.ApplyLetters("b", "b"))
	is.Equal(e.CandidateWords(0), []string{"abcde", "edcba"})
}

func TestResetAndReplayDeterminism(t *testing.T) {
	is := is.New(t)
	e := testEngine(t)

	run := func() []string {
		e.Reset()
		pat, err := result.FromComparison("abcde", "aabbc")
		is.NoErr(err)
		is.NoErr(e.ApplyClue("abcde", pat))
		is.NoErr(e.ApplyLetters("a", ""))
		return e.CandidateWords(0)
	}
	first := run()
	second := run()
	is.Equal(first, second)
}

func TestPopLast(t *testing.T) {
	is := is.New(t)
	e := testEngine(t)

	is.NoErr(e.ApplyPattern("a...."))
	is.NoErr(e.ApplyLetters("aa", ""))
	is.Equal(e.CandidateWords(0), []string{"aabbc"})

	is.NoErr(e.PopLast())
	is.Equal(e.CandidateWords(0), []string{"abcde", "aabbc"})
	is.Equal(len(e.History()), 1)

	is.NoErr(e.PopLast())
	is.Equal(e.CandidateCount(), uint(3))
	is.Equal(e.PopLast(), ErrNothingToPop)
}

func TestAnalyzeAllAndRanking(t *testing.T) {
	is := is.New(t)
	e := testEngine(t)

	_, err := e.RankAll(SortMax, false)
	is.True(err != nil) // not analyzed yet

	is.NoErr(e.AnalyzeAll(context.Background(), 2))
	is.True(e.Analyzed())
	is.Equal(e.Progress(), 1.0)

	ranked, err := e.RankAll(SortAlpha, false)
	is.NoErr(err)
	is.Equal(len(ranked), 3)
	is.Equal(ranked[0].Word, "aabbc")

	// Every guess fully separates this tiny dictionary.
	for _, r := range ranked {
		is.Equal(r.Stats.MaxBucket, uint(1))
	}

	reversed, err := e.RankAll(SortAlpha, true)
	is.NoErr(err)
	is.Equal(reversed[0].Word, "edcba")
}

func TestRankCandidates(t *testing.T) {
	is := is.New(t)
	e := testEngine(t)

	is.NoErr(e.ApplyLetters("a", ""))
	ranked, err := e.RankCandidates(SortInfo, false)
	is.NoErr(err)
	is.Equal(len(ranked), 3) // all three words contain 'a'

	// Restricting to an emptied candidate set yields zero stats.
	is.NoErr(e.ApplyPattern("zzzzz"))
	is.Equal(e.CandidateCount(), uint(0))
	ranked, err = e.RankCandidates(SortMax, false)
	is.NoErr(err)
	is.Equal(len(ranked), 0)
}

func TestCurrentStats(t *testing.T) {
	is := is.New(t)
	e := testEngine(t)

	st, err := e.CurrentStats("abcde")
	is.NoErr(err)
	is.Equal(st.MaxBucket, uint(1))
	is.Equal(st.SolveProbability, 1.0)

	_, err = e.CurrentStats("zzzzz")
	is.Equal(err, dictionary.ErrNoSuchWord)
}

func TestParseSortOrder(t *testing.T) {
	is := is.New(t)

	order, reversed, err := ParseSortOrder("max")
	is.NoErr(err)
	is.Equal(order, SortMax)
	is.Equal(reversed, false)

	order, reversed, err = ParseSortOrder("r-info")
	is.NoErr(err)
	is.Equal(order, SortInfo)
	is.Equal(reversed, true)

	_, _, err = ParseSortOrder("equity")
	is.Equal(err, ErrBadSortOrder)
}
