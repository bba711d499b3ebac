package partition

import (
	"math"

	"github.com/bits-and-blooms/bitset"
	"gonum.org/v1/gonum/stat"
)

// Stats summarizes the bucket-size distribution of one partition,
// optionally restricted to a candidate subset.
type Stats struct {
	// MaxBucket is the worst-case number of words remaining.
	MaxBucket uint
	// ExpectedBucket is the expected number of words remaining, weighting
	// each bucket by the chance of landing in it: sum(size^2) / total.
	ExpectedBucket float64
	// EntropyBits is the Shannon entropy of the distribution, in bits.
	EntropyBits float64
	// SolveProbability is the chance the guess leaves exactly one word.
	SolveProbability float64
}

// Zero is the defined result for an empty candidate set. Callers must not
// trust ratios computed over zero words.
func Zero() Stats { return Stats{} }

// Compute aggregates a partition's bucket sizes. A nil restrict means the
// full dictionary; otherwise every bucket is intersected with restrict and
// total is |restrict|.
func Compute(p *Partition, restrict *bitset.BitSet) Stats {
	total := uint(p.NumWords())
	if restrict != nil {
		total = restrict.Count()
	}
	if total == 0 {
		return Zero()
	}

	var maxBucket uint
	var sumSq, solveCount uint64
	probs := make([]float64, 0, 64)
	ftotal := float64(total)

	p.Each(func(id int, bucket *bitset.BitSet) {
		var size uint
		if restrict != nil {
			size = bucket.IntersectionCardinality(restrict)
		} else {
			size = bucket.Count()
		}
		if size == 0 {
			return
		}
		if size > maxBucket {
			maxBucket = size
		}
		sumSq += uint64(size) * uint64(size)
		if size == 1 {
			solveCount++
		}
		probs = append(probs, float64(size)/ftotal)
	})

	return Stats{
		MaxBucket:        maxBucket,
		ExpectedBucket:   float64(sumSq) / ftotal,
		EntropyBits:      stat.Entropy(probs) / math.Ln2,
		SolveProbability: float64(solveCount) / ftotal,
	}
}
