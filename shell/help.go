package shell

import (
	"embed"
	"errors"
	"strings"
)

//go:embed helptext
var helpFS embed.FS

func (sc *ShellController) help(cmd *shellcmd) (*Response, error) {
	topic := "usage"
	if len(cmd.args) > 0 {
		topic = strings.ToLower(cmd.args[0])
	}
	dat, err := helpFS.ReadFile("helptext/" + topic + ".txt")
	if err != nil {
		return nil, errors.New("there is no help text for the topic " + topic)
	}
	return msg(string(dat)), nil
}
