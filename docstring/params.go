package docstring

import "strings"

// Param is one documented parameter.
type Param struct {
	Name        string
	Type        string
	Description string
}

// ParseParams parses parameter lines of the form name:type,description.
//
// The first colon ends the name and the first comma after it ends the type;
// the rest of the line, commas included, is the description. Lines without a
// colon are dropped.
func ParseParams(lines []string) []Param {
	var params []Param
	for _, line := range lines {
		name, rest, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		typ, desc, _ := strings.Cut(rest, ",")
		params = append(params, Param{
			Name:        strings.TrimSpace(name),
			Type:        strings.TrimSpace(typ),
			Description: strings.TrimSpace(desc),
		})
	}
	return params
}
