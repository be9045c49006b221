package dispatch

import (
	"fmt"
	"regexp"
	"strings"
)

// Rendering selects how a multi-valued request parameter becomes the single
// string handed to a named handler parameter.
type Rendering string

const (
	// Legacy formats the values as "[v1, v2]", strips every bracket and turns
	// each whitespace run into a comma. Two values x and y render as "x,,y".
	Legacy Rendering = "legacy"
	// Joined joins the values with ",".
	Joined Rendering = "joined"
)

var whitespaceRun = regexp.MustCompile(`\s+`)

// ParseRendering accepts "legacy" or "joined"; blank means Legacy.
func ParseRendering(s string) (Rendering, error) {
	switch r := Rendering(strings.ToLower(strings.TrimSpace(s))); r {
	case "":
		return Legacy, nil
	case Legacy, Joined:
		return r, nil
	default:
		return "", fmt.Errorf("unknown parameter rendering %q", s)
	}
}

// Render turns values into one string under mode r.
func (r Rendering) Render(values []string) string {
	if r == Joined {
		return strings.Join(values, ",")
	}
	s := "[" + strings.Join(values, ", ") + "]"
	s = strings.NewReplacer("[", "", "]", "").Replace(s)
	return whitespaceRun.ReplaceAllString(s, ",")
}
