// Package macro expands `{{ name("arg") }}` calls inside page sources. It is
// the host side of the gallery entry points: functions are registered by name
// and called with their string arguments.
package macro

import (
	"regexp"
	"strings"
)

type Func func(args ...string) string

type Registry map[string]Func

// Expansion records a call that could not be resolved.
type Expansion struct {
	Name string
	Call string
}

var callPattern = regexp.MustCompile(`\{\{\s*([A-Za-z_][A-Za-z0-9_]*)\s*\(([^()]*)\)\s*\}\}`)

var argPattern = regexp.MustCompile(`^\s*(?:"([^"]*)"|'([^']*)')\s*$`)

// Expand replaces every registered call in src with its result. Unknown
// names and calls with unparseable arguments are left verbatim and reported.
func (r Registry) Expand(src string) (string, []Expansion) {
	var missed []Expansion
	out := callPattern.ReplaceAllStringFunc(src, func(call string) string {
		m := callPattern.FindStringSubmatch(call)
		name := m[1]
		fn, ok := r[name]
		if !ok {
			missed = append(missed, Expansion{Name: name, Call: call})
			return call
		}
		args, ok := parseArgs(m[2])
		if !ok {
			missed = append(missed, Expansion{Name: name, Call: call})
			return call
		}
		return fn(args...)
	})
	return out, missed
}

func parseArgs(s string) ([]string, bool) {
	if strings.TrimSpace(s) == "" {
		return nil, true
	}
	var args []string
	for _, part := range splitArgs(s) {
		m := argPattern.FindStringSubmatch(part)
		if m == nil {
			return nil, false
		}
		if strings.HasPrefix(strings.TrimSpace(part), `"`) {
			args = append(args, m[1])
		} else {
			args = append(args, m[2])
		}
	}
	return args, true
}

// splitArgs splits on commas outside quotes.
func splitArgs(s string) []string {
	var (
		parts []string
		cur   strings.Builder
		quote rune
	)
	for _, r := range s {
		switch {
		case quote != 0:
			if r == quote {
				quote = 0
			}
			cur.WriteRune(r)
		case r == '"' || r == '\'':
			quote = r
			cur.WriteRune(r)
		case r == ',':
			parts = append(parts, cur.String())
			cur.Reset()
		default:
			cur.WriteRune(r)
		}
	}
	return append(parts, cur.String())
}
