package tui

import (
	"fmt"
	"strconv"
	"strings"
)

// AddDefaults fills the fields an add command leaves out.
type AddDefaults struct {
	Category string
	Days     int
	Priority int
}

// AddRequest is a parsed add command.
type AddRequest struct {
	Description string
	Category    string
	Days        int
	Priority    int
}

// ParseAdd parses the arguments of "add". Words starting with # set the
// category, ! the priority and + the days until due; the remaining words
// form the description.
func ParseAdd(args []string, def AddDefaults) (AddRequest, error) {
	req := AddRequest{Category: def.Category, Days: def.Days, Priority: def.Priority}
	var words []string

	for _, arg := range args {
		switch {
		case len(arg) > 1 && arg[0] == '#':
			req.Category = arg[1:]
		case len(arg) > 1 && arg[0] == '!':
			p, err := strconv.Atoi(arg[1:])
			if err != nil {
				return AddRequest{}, fmt.Errorf("bad priority %q", arg)
			}
			req.Priority = p
		case len(arg) > 1 && arg[0] == '+':
			d, err := strconv.Atoi(arg[1:])
			if err != nil {
				return AddRequest{}, fmt.Errorf("bad due offset %q", arg)
			}
			req.Days = d
		default:
			words = append(words, arg)
		}
	}

	req.Description = strings.Join(words, " ")
	if req.Description == "" {
		return AddRequest{}, fmt.Errorf("usage: add <description> [#category] [!priority] [+days]")
	}
	return req, nil
}

// parseID returns the task id named by args, or fallback when args is empty.
func parseID(args []string, fallback int) (int, error) {
	if len(args) == 0 {
		if fallback == 0 {
			return 0, fmt.Errorf("no task selected")
		}
		return fallback, nil
	}
	id, err := strconv.Atoi(strings.TrimPrefix(args[0], "@"))
	if err != nil {
		return 0, fmt.Errorf("bad task id %q", args[0])
	}
	return id, nil
}
