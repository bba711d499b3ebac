package shell

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/aybabtme/uniplot/histogram"
	"github.com/bits-and-blooms/bitset"

	"github.com/domino14/wordler/analysis"
	"github.com/domino14/wordler/engine"
	"github.com/domino14/wordler/partition"
	"github.com/domino14/wordler/report"
	"github.com/domino14/wordler/result"
)

type Response struct {
	message string
}

func msg(message string) *Response {
	return &Response{message: message}
}

func (r *Response) Message() string { return r.message }

type CmdOptions map[string][]string

func (c CmdOptions) String(key string) string {
	v := c[key]
	if len(v) > 0 {
		return v[0]
	}
	return ""
}

func (c CmdOptions) IntDefault(key string, defaultI int) (int, error) {
	v := c[key]
	if len(v) == 0 {
		return defaultI, nil
	}
	return strconv.Atoi(v[0])
}

func (c CmdOptions) Bool(key string) bool {
	v := c[key]
	if len(v) == 0 {
		return false
	}
	return strings.ToLower(v[0]) == "true"
}

const (
	ansiHere      = "\033[30;42m"
	ansiElsewhere = "\033[30;43m"
	ansiNowhere   = "\033[30;47m"
	ansiReset     = "\033[0m"
)

func statsTableHeader() string {
	return fmt.Sprintf("%-8s%10s%10s%10s%10s\n", "Word", "Expected", "Max", "Info", "Solve%")
}

func statsTableRow(word string, st partition.Stats) string {
	return fmt.Sprintf("%-8s%10.3f%10d%10.3f%10.3f\n",
		word, st.ExpectedBucket, st.MaxBucket, st.EntropyBits, st.SolveProbability)
}

func (sc *ShellController) clue(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) != 2 {
		return nil, errors.New("usage: clue <word> <result>, e.g. clue slate NEHNN")
	}
	pat, err := result.FromString(cmd.args[1])
	if err != nil {
		return nil, err
	}
	if err := sc.eng.ApplyClue(cmd.args[0], pat); err != nil {
		return nil, err
	}
	return sc.status(cmd)
}

func (sc *ShellController) pattern(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) != 1 {
		return nil, errors.New("usage: pattern <pat>, e.g. pattern s.a[rt]e")
	}
	if err := sc.eng.ApplyPattern(cmd.args[0]); err != nil {
		return nil, err
	}
	return msg(fmt.Sprintf("%d candidates remaining", sc.eng.CandidateCount())), nil
}

func (sc *ShellController) letters(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) < 1 || len(cmd.args) > 2 {
		return nil, errors.New("usage: letters <include|-> [exclude]")
	}
	include := cmd.args[0]
	if include == "-" {
		include = ""
	}
	exclude := ""
	if len(cmd.args) == 2 {
		exclude = cmd.args[1]
	}
	if err := sc.eng.ApplyLetters(include, exclude); err != nil {
		return nil, err
	}
	return msg(fmt.Sprintf("%d candidates remaining", sc.eng.CandidateCount())), nil
}

func (sc *ShellController) words(cmd *shellcmd) (*Response, error) {
	order, reversed, err := engine.ParseSortOrder(withDefault(cmd.options.String("sort"), "ave"))
	if err != nil {
		return nil, err
	}
	count, err := cmd.options.IntDefault("n", 10)
	if err != nil {
		return nil, err
	}
	ranked, err := sc.eng.RankCandidates(order, reversed)
	if err != nil {
		return nil, err
	}
	if file := cmd.options.String("file"); file != "" {
		var sb strings.Builder
		for _, r := range ranked {
			sb.WriteString(r.Word)
			sb.WriteByte('\n')
		}
		if err := os.WriteFile(file, []byte(sb.String()), 0644); err != nil {
			return nil, err
		}
		return msg(fmt.Sprintf("wrote %d words to %s", len(ranked), file)), nil
	}
	return rankedTable(ranked, count, cmd.options.Bool("all")), nil
}

func (sc *ShellController) top(cmd *shellcmd) (*Response, error) {
	order, reversed, err := engine.ParseSortOrder(withDefault(cmd.options.String("sort"), "ave"))
	if err != nil {
		return nil, err
	}
	count, err := cmd.options.IntDefault("n", 10)
	if err != nil {
		return nil, err
	}
	ranked, err := sc.eng.RankAll(order, reversed)
	if err != nil {
		return nil, err
	}
	return rankedTable(ranked, count, cmd.options.Bool("all")), nil
}

func rankedTable(ranked []engine.RankedWord, count int, all bool) *Response {
	var sb strings.Builder
	sb.WriteString(statsTableHeader())
	for i, r := range ranked {
		if !all && i >= count {
			sb.WriteString(fmt.Sprintf("...plus %d more.\n", len(ranked)-i))
			break
		}
		sb.WriteString(statsTableRow(r.Word, r.Stats))
	}
	return msg(sb.String())
}

func withDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

func (sc *ShellController) info(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) != 1 {
		return nil, errors.New("usage: info <word>")
	}
	word := cmd.args[0]
	full, err := sc.eng.FullStats(word)
	if err != nil {
		return nil, err
	}
	cur, err := sc.eng.CurrentStats(word)
	if err != nil {
		return nil, err
	}
	var sb strings.Builder
	sb.WriteString("Against full dictionary:\n")
	sb.WriteString(statsTableHeader())
	sb.WriteString(statsTableRow(word, full))
	sb.WriteString("Against current candidates:\n")
	sb.WriteString(statsTableHeader())
	sb.WriteString(statsTableRow(word, cur))
	return msg(sb.String()), nil
}

// hist renders a histogram of bucket sizes for a guess, restricted to the
// current candidate set.
func (sc *ShellController) hist(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) != 1 {
		return nil, errors.New("usage: hist <word>")
	}
	p, err := sc.eng.Partition(cmd.args[0])
	if err != nil {
		return nil, err
	}
	candidates := sc.eng.Candidates()
	var sizes []float64
	p.Each(func(id int, bucket *bitset.BitSet) {
		if size := bucket.IntersectionCardinality(candidates); size > 0 {
			sizes = append(sizes, float64(size))
		}
	})
	if len(sizes) == 0 {
		return msg("no candidates remain"), nil
	}
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Bucket sizes for %q over %d candidates:\n",
		cmd.args[0], candidates.Count()))
	h := histogram.Hist(15, sizes)
	if err := histogram.Fprint(&sb, h, histogram.Linear(40)); err != nil {
		return nil, err
	}
	return msg(sb.String()), nil
}

func (sc *ShellController) status(cmd *shellcmd) (*Response, error) {
	history := sc.eng.History()
	if len(history) == 0 {
		return msg(fmt.Sprintf("No operations applied. %d candidates.", sc.eng.CandidateCount())), nil
	}
	var sb strings.Builder
	for i, op := range history {
		sb.WriteString(fmt.Sprintf("  [%d] : ", i))
		if op.Kind == engine.OpClue {
			for j := 0; j < len(op.Guess); j++ {
				switch op.Result[j] {
				case result.Here:
					sb.WriteString(ansiHere)
				case result.Elsewhere:
					sb.WriteString(ansiElsewhere)
				default:
					sb.WriteString(ansiNowhere)
				}
				sb.WriteByte(op.Guess[j])
			}
			sb.WriteString(ansiReset)
		} else {
			sb.WriteString(op.String())
		}
		sb.WriteByte('\n')
	}
	sb.WriteString(fmt.Sprintf("%d candidates remaining", sc.eng.CandidateCount()))
	return msg(sb.String()), nil
}

func (sc *ShellController) pop(cmd *shellcmd) (*Response, error) {
	if err := sc.eng.PopLast(); err != nil {
		return nil, err
	}
	return sc.status(cmd)
}

func (sc *ShellController) reset(cmd *shellcmd) (*Response, error) {
	sc.eng.Reset()
	return msg(fmt.Sprintf("Reset. %d candidates.", sc.eng.CandidateCount())), nil
}

func (sc *ShellController) analyze(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) != 1 {
		return nil, errors.New("usage: analyze <pairs|triples> [-top n] [-sample n] [-log file]")
	}
	topN, err := cmd.options.IntDefault("top", 5)
	if err != nil {
		return nil, err
	}
	sample, err := cmd.options.IntDefault("sample", 0)
	if err != nil {
		return nil, err
	}
	if logfile := cmd.options.String("log"); logfile != "" {
		f, err := os.Create(logfile)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		sc.scanner.SetLogStream(f)
		defer sc.scanner.SetLogStream(nil)
	}

	start := time.Now()
	var combos []analysis.Combo
	switch cmd.args[0] {
	case "pairs":
		combos, err = sc.scanner.BestPairs(context.Background(), topN, sample)
	case "triples":
		if sample == 0 {
			return nil, errors.New("triple scans require -sample; a full scan is cubic")
		}
		combos, err = sc.scanner.BestTriples(context.Background(), topN, sample)
	default:
		return nil, fmt.Errorf("unknown analysis %q", cmd.args[0])
	}
	if err != nil {
		return nil, err
	}
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%-18s%10s%10s%10s\n", "Combo", "Expected", "Max", "Info"))
	for _, c := range combos {
		sb.WriteString(fmt.Sprintf("%-18s%10.3f%10d%10.3f\n",
			strings.Join(c.Words, "+"), c.Stats.ExpectedBucket, c.Stats.MaxBucket,
			c.Stats.EntropyBits))
	}
	sb.WriteString(fmt.Sprintf("(%v elapsed)", time.Since(start).Round(time.Millisecond)))
	return msg(sb.String()), nil
}

func (sc *ShellController) html(cmd *shellcmd) (*Response, error) {
	outDir := sc.cfg.ReportDir()
	if len(cmd.args) == 1 {
		outDir = cmd.args[0]
	}
	gen := report.NewGenerator(sc.eng, outDir)
	if err := gen.All(); err != nil {
		return nil, err
	}
	return msg("wrote report to " + outDir), nil
}
