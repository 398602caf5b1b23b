package console

import "strings"

// ParseResult holds the parsed command name and arguments from a text line.
type ParseResult struct {
	// Command is the first word of the input, lowercased.
	Command string
	// Args are the remaining words after the command.
	Args []string
}

// Parse splits a text line into a command and arguments.
//
// Postcondition: Returns a ParseResult. If line is blank, Command is empty.
func Parse(line string) ParseResult {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return ParseResult{}
	}
	res := ParseResult{Command: strings.ToLower(fields[0])}
	if len(fields) > 1 {
		res.Args = fields[1:]
	}
	return res
}

// splitDirection separates a trailing "+" or "-" from a name that may span
// several words, e.g. ["Sleight", "of", "Hand", "+"].
func splitDirection(args []string) (name string, sign string, ok bool) {
	if len(args) < 2 {
		return "", "", false
	}
	sign = args[len(args)-1]
	if sign != "+" && sign != "-" {
		return "", "", false
	}
	return strings.Join(args[:len(args)-1], " "), sign, true
}
