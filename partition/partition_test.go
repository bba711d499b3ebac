package partition

import (
	"math"
	"testing"

	"github.com/bits-and-blooms/bitset"
	"github.com/matryer/is"

	"github.com/domino14/wordler/clues"
	"github.com/domino14/wordler/result"
)

var testWords = []string{"abcde", "edcba", "aabbc"}

func testPartitioner() *Partitioner {
	return NewPartitioner(clues.NewIndex(testWords, 0), result.NewCodex())
}

func TestPartitionCoversDictionary(t *testing.T) {
	is := is.New(t)
	pt := testPartitioner()

	// Every dictionary word lands in exactly one bucket under any guess.
	for _, guess := range testWords {
		p, err := pt.Compute(guess)
		is.NoErr(err)
		var total uint
		seen := bitset.New(uint(len(testWords)))
		p.Each(func(id int, bucket *bitset.BitSet) {
			total += bucket.Count()
			seen.InPlaceUnion(bucket)
		})
		is.Equal(total, uint(len(testWords)))
		is.Equal(seen.Count(), uint(len(testWords)))
	}
}

func TestBucketsMatchComparison(t *testing.T) {
	is := is.New(t)
	pt := testPartitioner()

	// The bucket for code(guess, answer) must contain the answer.
	for _, guess := range testWords {
		p, err := pt.Compute(guess)
		is.NoErr(err)
		for aid, answer := range testWords {
			pat, err := result.FromComparison(guess, answer)
			is.NoErr(err)
			bucket := p.Bucket(pat.ID())
			is.True(bucket != nil)
			is.True(bucket.Test(uint(aid)))
		}
	}
}

func TestSelfComparisonBucket(t *testing.T) {
	is := is.New(t)
	pt := testPartitioner()

	p, err := pt.Compute("abcde")
	is.NoErr(err)
	bucket := p.Bucket(result.AllHere(5).ID())
	is.Equal(bucket.Count(), uint(1))
	is.True(bucket.Test(0))
}

func TestInvalidCodesSkipped(t *testing.T) {
	is := is.New(t)
	pt := testPartitioner()

	// For "aabbc", 'a' Nowhere at 0 plus 'a' Elsewhere at 1 is impossible.
	pat, err := result.FromString("NENNN")
	is.NoErr(err)
	is.Equal(pat.ValidFor("aabbc"), false)

	p, err := pt.Compute("aabbc")
	is.NoErr(err)
	is.True(p.Bucket(pat.ID()) == nil)
}

func TestGuessOutsideDictionary(t *testing.T) {
	is := is.New(t)
	pt := testPartitioner()

	// A probe word that is not in the dictionary still partitions it.
	p, err := pt.Compute("baecd")
	is.NoErr(err)
	var total uint
	p.Each(func(id int, bucket *bitset.BitSet) { total += bucket.Count() })
	is.Equal(total, uint(len(testWords)))

	_, err = pt.Compute("abc")
	is.Equal(err, result.ErrSizeMismatch)
}

func TestStats(t *testing.T) {
	is := is.New(t)
	pt := testPartitioner()

	p, err := pt.Compute("abcde")
	is.NoErr(err)
	st := Compute(p, nil)

	// "abcde" splits the 3-word dictionary into three singleton buckets.
	is.Equal(st.MaxBucket, uint(1))
	is.True(math.Abs(st.ExpectedBucket-1.0) < 1e-9)
	is.True(math.Abs(st.EntropyBits-math.Log2(3)) < 1e-9)
	is.True(math.Abs(st.SolveProbability-1.0) < 1e-9)
}

func TestStatsBounds(t *testing.T) {
	is := is.New(t)
	pt := testPartitioner()

	for _, guess := range testWords {
		p, err := pt.Compute(guess)
		is.NoErr(err)
		st := Compute(p, nil)
		total := float64(len(testWords))
		is.True(st.MaxBucket <= uint(total))
		is.True(st.ExpectedBucket <= total)
		is.True(st.EntropyBits >= 0)
		is.True(st.EntropyBits <= math.Log2(total)+1e-9)
		is.True(st.SolveProbability >= 0 && st.SolveProbability <= 1)
	}
}

func TestStatsRestricted(t *testing.T) {
	is := is.New(t)
	pt := testPartitioner()

	p, err := pt.Compute("abcde")
	is.NoErr(err)

	restrict := bitset.New(3)
	restrict.Set(0)
	restrict.Set(2)
	st := Compute(p, restrict)
	is.Equal(st.MaxBucket, uint(1))
	is.True(math.Abs(st.SolveProbability-1.0) < 1e-9)

	// Empty candidate set: all-zero stats, no division by zero.
	st = Compute(p, bitset.New(3))
	is.Equal(st, Zero())
}
