// Package report renders static HTML breakdowns of the analysis: one page
// per word showing its full result partition, plus index pages sorted by
// each ranking criterion.
package report

import (
	_ "embed"
	"fmt"
	"html/template"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"

	"github.com/domino14/wordler/engine"
	"github.com/domino14/wordler/result"
)

//go:embed word_template.html
var wordTemplateHTML string

//go:embed index_template.html
var indexTemplateHTML string

var (
	wordTmpl  = template.Must(template.New("word").Parse(wordTemplateHTML))
	indexTmpl = template.Must(template.New("index").Parse(indexTemplateHTML))
)

type resultRow struct {
	Squares template.HTML
	Count   uint
	Words   []string
}

type wordPage struct {
	Word       string
	MaxBucket  uint
	Expected   float64
	Entropy    float64
	SolveProb  float64
	ResultRows []resultRow
}

type indexRow struct {
	Word     string
	Expected float64
	Max      uint
	Entropy  float64
}

type indexPage struct {
	Order string
	Rows  []indexRow
}

// Emoji squares matching the game's share format.
const (
	squareWhite  = "&#11036;"
	squareGreen  = "&#129001;"
	squareYellow = "&#129000;"
)

// Generator writes report pages for an analyzed engine.
type Generator struct {
	eng    *engine.Engine
	outDir string
}

func NewGenerator(eng *engine.Engine, outDir string) *Generator {
	return &Generator{eng: eng, outDir: outDir}
}

func squares(pat result.Pattern) template.HTML {
	out := ""
	for _, r := range pat {
		switch r {
		case result.Here:
			out += squareGreen
		case result.Elsewhere:
			out += squareYellow
		default:
			out += squareWhite
		}
	}
	return template.HTML(out)
}

// WordPage writes the per-result breakdown page for one word.
func (g *Generator) WordPage(word string) error {
	p, err := g.eng.Partition(word)
	if err != nil {
		return err
	}
	st, err := g.eng.FullStats(word)
	if err != nil {
		return err
	}
	codex := g.eng.Codex()
	page := wordPage{
		Word:      word,
		MaxBucket: st.MaxBucket,
		Expected:  st.ExpectedBucket,
		Entropy:   st.EntropyBits,
		SolveProb: st.SolveProbability,
	}
	// Highest IDs first puts the all-Here row at the top.
	for id := p.NumBuckets() - 1; id >= 0; id-- {
		bucket := p.Bucket(id)
		if bucket == nil {
			continue
		}
		pat, err := codex.Decode(g.eng.WordSize(), id)
		if err != nil {
			return err
		}
		row := resultRow{Squares: squares(pat), Count: bucket.Count()}
		for w, ok := bucket.NextSet(0); ok; w, ok = bucket.NextSet(w + 1) {
			row.Words = append(row.Words, g.eng.Dictionary().Word(int(w)))
		}
		page.ResultRows = append(page.ResultRows, row)
	}

	dir := filepath.Join(g.outDir, "words")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	f, err := os.Create(filepath.Join(dir, word+".html"))
	if err != nil {
		return err
	}
	defer f.Close()
	return wordTmpl.Execute(f, page)
}

// IndexPage writes one sorted index page for an order string such as
// "max", "ave", "info", "alpha" or their r- reversed forms.
func (g *Generator) IndexPage(order string) error {
	base, reversed, err := engine.ParseSortOrder(order)
	if err != nil {
		return err
	}
	ranked, err := g.eng.RankAll(base, reversed)
	if err != nil {
		return err
	}
	page := indexPage{Order: order}
	for _, r := range ranked {
		page.Rows = append(page.Rows, indexRow{
			Word:     r.Word,
			Expected: r.Stats.ExpectedBucket,
			Max:      r.Stats.MaxBucket,
			Entropy:  r.Stats.EntropyBits,
		})
	}
	if err := os.MkdirAll(g.outDir, 0755); err != nil {
		return err
	}
	f, err := os.Create(filepath.Join(g.outDir, fmt.Sprintf("index-%s.html", order)))
	if err != nil {
		return err
	}
	defer f.Close()
	return indexTmpl.Execute(f, page)
}

// All writes every word page and the standard index pages.
func (g *Generator) All() error {
	for _, order := range []string{"alpha", "ave", "max", "info"} {
		if err := g.IndexPage(order); err != nil {
			return err
		}
	}
	words := g.eng.Dictionary().Words()
	for i, word := range words {
		if err := g.WordPage(word); err != nil {
			return err
		}
		if (i+1)%1000 == 0 {
			log.Info().Int("done", i+1).Int("total", len(words)).Msg("writing word pages")
		}
	}
	log.Info().Str("dir", g.outDir).Msg("report written")
	return nil
}
