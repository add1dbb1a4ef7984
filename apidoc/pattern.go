package apidoc

import "strings"

var anchorStripper = strings.NewReplacer("^", "", "$", "", "?", "")

// SimplifyPattern turns a regular-expression route pattern into a readable
// URL: named groups become <name>, other groups become <var>, anchors and
// optional markers are dropped and a leading slash is added.
//
//	^users/(?P<pk>[^/.]+)/$ -> /users/<pk>/
//
// Patterns without groups, such as "users/<int:pk>/", only gain the slash.
func SimplifyPattern(pattern string) string {
	var b strings.Builder
	for i := 0; i < len(pattern); {
		c := pattern[i]
		if c == '\\' && i+1 < len(pattern) {
			b.WriteString(pattern[i : i+2])
			i += 2
			continue
		}
		if c != '(' {
			b.WriteByte(c)
			i++
			continue
		}
		end := closingParen(pattern, i)
		if end < 0 {
			b.WriteString(pattern[i:])
			break
		}
		if name, ok := groupName(pattern[i : end+1]); ok {
			b.WriteString("<" + name + ">")
		} else {
			b.WriteString("<var>")
		}
		i = end + 1
	}
	out := anchorStripper.Replace(b.String())
	if !strings.HasPrefix(out, "/") {
		out = "/" + out
	}
	return out
}

// closingParen returns the index of the parenthesis closing the group opened
// at start, or -1 when the group is unbalanced.
func closingParen(pattern string, start int) int {
	depth := 0
	for i := start; i < len(pattern); i++ {
		switch pattern[i] {
		case '\\':
			i++
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

func groupName(group string) (string, bool) {
	rest, ok := strings.CutPrefix(group, "(?P<")
	if !ok {
		return "", false
	}
	name, _, ok := strings.Cut(rest, ">")
	if !ok || name == "" {
		return "", false
	}
	return name, true
}
