// Package docstring extracts the Args/Return/Example convention from a
// handler's documentation comment.
//
// A documented handler looks like:
//
//	// GetUser
//	//
//	// Args:
//	// id:int,user id
//	// Return:
//	// name:string,user name
//	// Example:
//	// {"name": "bob"}
//
// The first non-empty line is the title. Lines between the markers are
// parameter lines of the form name:type,description (see ParseParams).
package docstring

import "strings"

// Section markers, matched against whole trimmed lines.
const (
	ArgsMarker    = "Args:"
	ReturnMarker  = "Return:"
	ExampleMarker = "Example:"
)

// Doc is a parsed handler documentation comment.
type Doc struct {
	Title    string
	Request  []string
	Response []string
	Example  []string
}

// Parse returns the structured document found in text. The boolean is false
// when text has no title or lacks one of the markers, or when the markers are
// out of order.
func Parse(text string) (Doc, bool) {
	raw := strings.Split(text, "\n")
	lines := make([]string, len(raw))
	for i, line := range raw {
		lines[i] = strings.TrimSpace(line)
	}

	title := ""
	for _, line := range lines {
		if line != "" {
			title = line
			break
		}
	}
	if title == "" {
		return Doc{}, false
	}

	args := indexOf(lines, ArgsMarker)
	ret := indexOf(lines, ReturnMarker)
	example := indexOf(lines, ExampleMarker)
	if args < 0 || ret < 0 || example < 0 || !(args < ret && ret < example) {
		return Doc{}, false
	}

	return Doc{
		Title:    title,
		Request:  clone(lines[args+1 : ret]),
		Response: clone(lines[ret+1 : example]),
		Example:  exampleLines(raw[example+1:]),
	}, true
}

func indexOf(lines []string, marker string) int {
	for i, line := range lines {
		if line == marker {
			return i
		}
	}
	return -1
}

func clone(lines []string) []string {
	return append([]string{}, lines...)
}

// exampleLines normalises the example section of a Go doc comment: the
// indentation shared by every line, trailing whitespace and surrounding blank
// lines are removed. Line breaks and relative indentation are kept as written.
func exampleLines(raw []string) []string {
	start, end := 0, len(raw)
	for start < end && strings.TrimSpace(raw[start]) == "" {
		start++
	}
	for end > start && strings.TrimSpace(raw[end-1]) == "" {
		end--
	}
	lines := make([]string, end-start)
	for i, line := range raw[start:end] {
		lines[i] = strings.TrimRight(line, " \t\r")
	}
	return dedent(lines)
}

func dedent(lines []string) []string {
	minIndent := -1
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		indent := leadingWhitespace(line)
		if minIndent == -1 || indent < minIndent {
			minIndent = indent
		}
	}
	if minIndent <= 0 {
		return lines
	}
	for i, line := range lines {
		if len(line) >= minIndent {
			lines[i] = line[minIndent:]
		}
	}
	return lines
}

func leadingWhitespace(line string) int {
	count := 0
	for _, r := range line {
		if r == ' ' || r == '\t' {
			count++
			continue
		}
		break
	}
	return count
}
