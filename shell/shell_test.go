package shell

import (
	"context"
	"strings"
	"testing"

	"github.com/matryer/is"

	"github.com/domino14/wordler/analysis"
	"github.com/domino14/wordler/config"
	"github.com/domino14/wordler/dictionary"
	"github.com/domino14/wordler/engine"
)

// testShell builds a controller without a readline instance so tests can
// call Execute directly.
func testShell(t *testing.T, words ...string) *ShellController {
	t.Helper()
	if len(words) == 0 {
		words = []string{"abcde", "edcba", "aabbc", "bacde"}
	}
	d, err := dictionary.New(words, len(words[0]))
	if err != nil {
		t.Fatal(err)
	}
	eng := engine.New(d, 0)
	return &ShellController{
		cfg:     config.New(),
		eng:     eng,
		scanner: analysis.NewScanner(eng, 2),
	}
}

func TestExtractFields(t *testing.T) {
	is := is.New(t)
	type testdata struct {
		line   string
		expCmd *shellcmd
		expErr error
	}
	cases := []testdata{
		{"", nil, errNoData},
		{"analyze pairs -top 3 -log /tmp/scan.yaml",
			&shellcmd{"analyze", []string{"pairs"},
				CmdOptions{"top": []string{"3"}, "log": []string{"/tmp/scan.yaml"}}},
			nil},
		{"clue slate NEHNN",
			&shellcmd{"clue", []string{"slate", "NEHNN"}, CmdOptions{}},
			nil},
		{"words -sort",
			nil, errWrongOptionSyntax},
	}
	for _, tc := range cases {
		cmd, err := extractFields(tc.line)
		is.Equal(cmd, tc.expCmd)
		is.Equal(err, tc.expErr)
	}
}

func TestExecuteClueAndStatus(t *testing.T) {
	is := is.New(t)
	sc := testShell(t)

	resp, err := sc.Execute("clue abcde EEHEE")
	is.NoErr(err)
	is.True(strings.Contains(resp.Message(), "1 candidates remaining"))

	resp, err = sc.Execute("status")
	is.NoErr(err)
	is.True(strings.Contains(resp.Message(), "[0]"))
	// Letters of the guess appear between their color codes.
	is.True(strings.Contains(resp.Message(), ansiHere+"c"))
}

func TestExecuteFiltersAndPop(t *testing.T) {
	is := is.New(t)
	sc := testShell(t)

	resp, err := sc.Execute("pattern a....")
	is.NoErr(err)
	is.True(strings.Contains(resp.Message(), "2 candidates"))

	resp, err = sc.Execute("letters - e")
	is.NoErr(err)
	is.True(strings.Contains(resp.Message(), "1 candidates"))

	_, err = sc.Execute("pop")
	is.NoErr(err)
	is.Equal(sc.eng.CandidateCount(), uint(2))

	resp, err = sc.Execute("reset")
	is.NoErr(err)
	is.True(strings.Contains(resp.Message(), "4 candidates"))
}

func TestExecuteRankings(t *testing.T) {
	is := is.New(t)
	sc := testShell(t)

	// top needs the precompute; words does not.
	_, err := sc.Execute("top")
	is.True(err != nil)

	is.NoErr(sc.eng.AnalyzeAll(context.Background(), 2))

	resp, err := sc.Execute("top -sort info -n 2")
	is.NoErr(err)
	is.True(strings.Contains(resp.Message(), "Expected"))

	resp, err = sc.Execute("words")
	is.NoErr(err)
	is.True(strings.Contains(resp.Message(), "abcde"))
}

func TestExecuteErrors(t *testing.T) {
	is := is.New(t)
	sc := testShell(t)

	_, err := sc.Execute("frobnicate")
	is.True(err != nil)

	_, err = sc.Execute("clue abcde")
	is.True(err != nil)

	_, err = sc.Execute("exit")
	is.Equal(err, errExit)
}

func TestHelp(t *testing.T) {
	is := is.New(t)
	sc := testShell(t)

	resp, err := sc.Execute("help")
	is.NoErr(err)
	is.True(strings.Contains(resp.Message(), "clue"))

	resp, err = sc.Execute("help letters")
	is.NoErr(err)
	is.True(strings.Contains(resp.Message(), "multiset"))

	_, err = sc.Execute("help nosuchtopic")
	is.True(err != nil)
}
