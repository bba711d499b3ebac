// Package shell is the interactive readline driver for the analysis
// engine: clue entry, candidate filters, rankings and bulk scans.
package shell

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"syscall"

	"github.com/chzyer/readline"
	"github.com/kballard/go-shellquote"
	"github.com/rs/zerolog/log"

	"github.com/domino14/wordler/analysis"
	"github.com/domino14/wordler/config"
	"github.com/domino14/wordler/engine"
)

var (
	errExit              = errors.New("sending quit signal")
	errNoData            = errors.New("no command entered")
	errWrongOptionSyntax = errors.New("option missing a value")
)

type ShellController struct {
	l   *readline.Instance
	cfg *config.Config

	eng     *engine.Engine
	scanner *analysis.Scanner
}

func filterInput(r rune) (rune, bool) {
	switch r {
	// block CtrlZ feature
	case readline.CharCtrlZ:
		return r, false
	}
	return r, true
}

func showMessage(msg string, w io.Writer) {
	io.WriteString(w, msg)
	io.WriteString(w, "\n")
}

func NewShellController(cfg *config.Config, eng *engine.Engine) *ShellController {
	l, err := readline.NewEx(&readline.Config{
		Prompt:          "\033[31mwordler>\033[0m ",
		HistoryFile:     "/tmp/readline.tmp",
		EOFPrompt:       "exit",
		InterruptPrompt: "^C",

		HistorySearchFold:   true,
		FuncFilterInputRune: filterInput,
	})
	if err != nil {
		panic(err)
	}
	return &ShellController{
		l:       l,
		cfg:     cfg,
		eng:     eng,
		scanner: analysis.NewScanner(eng, cfg.Threads()),
	}
}

func (sc *ShellController) showMessage(msg string) {
	showMessage(msg, sc.l.Stderr())
}

func (sc *ShellController) showError(err error) {
	sc.showMessage("Error: " + err.Error())
}

type shellcmd struct {
	cmd     string
	args    []string
	options CmdOptions
}

func extractFields(line string) (*shellcmd, error) {
	fields, err := shellquote.Split(line)
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return nil, errNoData
	}
	cmd := strings.ToLower(fields[0])
	var args []string
	options := CmdOptions{}
	lastWasOption := false
	lastOption := ""
	for _, token := range fields[1:] {
		if strings.HasPrefix(token, "-") && len(token) > 1 && !isNumeric(token[1:]) {
			lastWasOption = true
			lastOption = token[1:]
			continue
		}
		if lastWasOption {
			options[lastOption] = append(options[lastOption], token)
			lastWasOption = false
		} else {
			args = append(args, token)
		}
	}
	if lastWasOption {
		return nil, errWrongOptionSyntax
	}
	return &shellcmd{cmd: cmd, args: args, options: options}, nil
}

func isNumeric(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return len(s) > 0
}

// Execute dispatches one input line. It exists separately from Loop so
// tests can drive the shell without a terminal.
func (sc *ShellController) Execute(line string) (*Response, error) {
	cmd, err := extractFields(line)
	if err != nil {
		return nil, err
	}
	switch cmd.cmd {
	case "exit", "quit", "bye":
		return nil, errExit
	case "help":
		return sc.help(cmd)
	case "clue", "c":
		return sc.clue(cmd)
	case "pattern", "p":
		return sc.pattern(cmd)
	case "letters", "l":
		return sc.letters(cmd)
	case "words", "w":
		return sc.words(cmd)
	case "top", "t":
		return sc.top(cmd)
	case "info", "i":
		return sc.info(cmd)
	case "hist":
		return sc.hist(cmd)
	case "status", "s":
		return sc.status(cmd)
	case "pop":
		return sc.pop(cmd)
	case "reset", "r":
		return sc.reset(cmd)
	case "analyze", "a":
		return sc.analyze(cmd)
	case "html":
		return sc.html(cmd)
	default:
		return nil, fmt.Errorf("command %q not found", cmd.cmd)
	}
}

func (sc *ShellController) Loop(sig chan os.Signal) {
	defer sc.l.Close()

	for {
		line, err := sc.l.Readline()
		if err == readline.ErrInterrupt {
			if len(line) == 0 {
				sig <- syscall.SIGINT
				break
			}
			continue
		} else if err == io.EOF {
			sig <- syscall.SIGINT
			break
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		resp, err := sc.Execute(line)
		if err == errExit {
			sig <- syscall.SIGINT
			break
		}
		if err != nil {
			sc.showError(err)
			continue
		}
		if resp != nil && resp.message != "" {
			sc.showMessage(resp.message)
		}
	}
	log.Debug().Msg("exiting readline loop")
}
