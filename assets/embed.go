package assets

import (
	_ "embed"
	"strings"
)

// Usage is the command-line help printed ahead of the flag list.
//
//go:embed usage.txt
var Usage string

// Instructions is the operator guide shown in the window before a run,
// i.e. the body of Usage without its first line and the flag heading.
func Instructions() string {
	body := Usage
	if i := strings.Index(body, "For each frame"); i >= 0 {
		body = body[i:]
	}
	body = strings.TrimSuffix(strings.TrimSpace(body), "Flags:")
	return strings.TrimSpace(strings.Join(strings.Fields(body), " "))
}
