package engine

import (
	"errors"
	"sort"
	"strings"

	"github.com/samber/lo"

	"github.com/domino14/wordler/partition"
)

// SortOrder selects ranking criteria for word listings. Prefixing with
// "r-" reverses the order.
type SortOrder string

const (
	SortAlpha SortOrder = "alpha"
	SortMax   SortOrder = "max"
	SortAve   SortOrder = "ave"
	SortInfo  SortOrder = "info"
	SortSolve SortOrder = "solve"
)

var ErrBadSortOrder = errors.New("sort order must be one of alpha, max, ave, info, solve, or an r- reversed form")

// ParseSortOrder splits an order string into its base order and direction.
func ParseSortOrder(s string) (SortOrder, bool, error) {
	reversed := strings.HasPrefix(s, "r-")
	base := SortOrder(strings.TrimPrefix(s, "r-"))
	switch base {
	case SortAlpha, SortMax, SortAve, SortInfo, SortSolve:
		return base, reversed, nil
	}
	return "", false, ErrBadSortOrder
}

// RankedWord pairs a word with its stats under some candidate set.
type RankedWord struct {
	Word  string
	Stats partition.Stats
}

// RankAll lists the full dictionary with per-word stats against the full
// dictionary. AnalyzeAll must have completed.
func (e *Engine) RankAll(order SortOrder, reversed bool) ([]RankedWord, error) {
	e.mu.Lock()
	if !e.analyzed {
		e.mu.Unlock()
		return nil, errors.New("run analysis before ranking the full dictionary")
	}
	ranked := lo.Map(e.dict.Words(), func(word string, id int) RankedWord {
		return RankedWord{Word: word, Stats: e.fullStats[id]}
	})
	e.mu.Unlock()
	sortRanked(ranked, order, reversed)
	return ranked, nil
}

// RankCandidates lists the current candidate words with stats restricted
// to the current candidate set.
func (e *Engine) RankCandidates(order SortOrder, reversed bool) ([]RankedWord, error) {
	e.mu.Lock()
	var ids []int
	for id, ok := e.candidates.NextSet(0); ok; id, ok = e.candidates.NextSet(id + 1) {
		ids = append(ids, int(id))
	}
	ranked := make([]RankedWord, 0, len(ids))
	for _, id := range ids {
		p, err := e.partitionLocked(id)
		if err != nil {
			e.mu.Unlock()
			return nil, err
		}
		ranked = append(ranked, RankedWord{
			Word:  e.dict.Word(id),
			Stats: partition.Compute(p, e.candidates),
		})
	}
	e.mu.Unlock()
	sortRanked(ranked, order, reversed)
	return ranked, nil
}

func sortRanked(ranked []RankedWord, order SortOrder, reversed bool) {
	less := lessFunc(order)
	sort.SliceStable(ranked, func(i, j int) bool {
		if reversed {
			return less(ranked[j], ranked[i])
		}
		return less(ranked[i], ranked[j])
	})
}

// lessFunc returns the forward comparator for an order. Smaller is better
// for max and ave; more is better for info and solve; tiebreaks follow the
// secondary criterion.
func lessFunc(order SortOrder) func(a, b RankedWord) bool {
	switch order {
	case SortMax:
		return func(a, b RankedWord) bool {
			if a.Stats.MaxBucket == b.Stats.MaxBucket {
				return a.Stats.ExpectedBucket < b.Stats.ExpectedBucket
			}
			return a.Stats.MaxBucket < b.Stats.MaxBucket
		}
	case SortAve:
		return func(a, b RankedWord) bool {
			if a.Stats.ExpectedBucket == b.Stats.ExpectedBucket {
				return a.Stats.MaxBucket < b.Stats.MaxBucket
			}
			return a.Stats.ExpectedBucket < b.Stats.ExpectedBucket
		}
	case SortInfo:
		return func(a, b RankedWord) bool {
			return a.Stats.EntropyBits > b.Stats.EntropyBits
		}
	case SortSolve:
		return func(a, b RankedWord) bool {
			return a.Stats.SolveProbability > b.Stats.SolveProbability
		}
	default: // SortAlpha
		return func(a, b RankedWord) bool {
			return a.Word < b.Word
		}
	}
}
