package apidoc

import (
	"fmt"
	"strings"

	"github.com/agentflare-ai/export-apidoc/docstring"
)

// Locale holds the fixed headings of a rendered block.
type Locale struct {
	RequestTable  string
	ResponseTitle string
	ResponseTable string
	ExampleTitle  string
}

const tableAlign = "| :--------    | :--------    | :------     |"

// Locales known to the renderer. "zh" is the historical output format.
var Locales = map[string]Locale{
	"zh": {
		RequestTable:  "| 请求参数      |     参数类型 |   参数说明   |",
		ResponseTitle: "### **返回参数**",
		ResponseTable: "| 返回参数      |     参数类型 |   参数说明   |",
		ExampleTitle:  "### **返回示例**",
	},
	"en": {
		RequestTable:  "| Request param |   Type       |  Description |",
		ResponseTitle: "### **Response**",
		ResponseTable: "| Response param |  Type       |  Description |",
		ExampleTitle:  "### **Example**",
	},
}

// DefaultLocale is used when no locale is configured.
const DefaultLocale = "zh"

// LookupLocale returns the named locale.
func LookupLocale(name string) (Locale, error) {
	if name == "" {
		name = DefaultLocale
	}
	loc, ok := Locales[name]
	if !ok {
		return Locale{}, fmt.Errorf("unknown locale %q", name)
	}
	return loc, nil
}

// Method returns the HTTP method shown for a handler action. The list and
// create actions are always GET and POST; any other action shows the methods
// the handler is bound to.
func Method(action string, bound []string) string {
	switch {
	case strings.EqualFold(action, "list"):
		return "GET"
	case strings.EqualFold(action, "create"):
		return "POST"
	default:
		return strings.Join(bound, " ")
	}
}

// Render returns the markdown lines documenting one route.
func Render(doc docstring.Doc, method, url string, loc Locale) []string {
	lines := []string{
		"## " + doc.Title,
		fmt.Sprintf("### **[%s] %s**", method, url),
		loc.RequestTable,
		tableAlign,
	}
	lines = append(lines, paramRows(docstring.ParseParams(doc.Request))...)
	lines = append(lines, loc.ResponseTitle, loc.ResponseTable, tableAlign)
	lines = append(lines, paramRows(docstring.ParseParams(doc.Response))...)
	lines = append(lines, loc.ExampleTitle, "```")
	lines = append(lines, doc.Example...)
	lines = append(lines, "```")
	return lines
}

func paramRows(params []docstring.Param) []string {
	rows := make([]string, 0, len(params))
	for _, p := range params {
		rows = append(rows, fmt.Sprintf("| %s | %s | %s |", p.Name, p.Type, p.Description))
	}
	return rows
}
