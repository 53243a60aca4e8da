package policy

import (
	"fmt"
	"regexp"
	"strings"
)

type edgeSpec struct {
	From string
	To   string
	Cond string
}

// splitStatements returns the statements of the graph body. Statements end
// at ';' or a newline outside quotes and attribute lists.
func splitStatements(dot string) []string {
	body := dot
	if i := strings.Index(body, "{"); i >= 0 {
		body = body[i+1:]
	}
	if j := strings.LastIndex(body, "}"); j >= 0 {
		body = body[:j]
	}

	var out []string
	var b strings.Builder
	flush := func() {
		s := strings.TrimSpace(b.String())
		b.Reset()
		if s == "" || strings.HasPrefix(s, "//") || strings.HasPrefix(s, "#") {
			return
		}
		out = append(out, s)
	}

	inQuotes, escape := false, false
	depth := 0
	for _, r := range body {
		if escape {
			b.WriteRune(r)
			escape = false
			continue
		}
		switch {
		case inQuotes && r == '\\':
			escape = true
		case r == '"':
			inQuotes = !inQuotes
		case !inQuotes && r == '[':
			depth++
		case !inQuotes && r == ']':
			depth--
		case !inQuotes && depth == 0 && (r == ';' || r == '\n'):
			flush()
			continue
		}
		b.WriteRune(r)
	}
	flush()
	return out
}

var edgeStmtRe = regexp.MustCompile(`^([A-Za-z_][A-Za-z0-9_]*)\s*->\s*([A-Za-z_][A-Za-z0-9_]*)\s*(?:\[(.*)\])?$`)
var labelRe = regexp.MustCompile(`(?:^|[\s,])label\s*=\s*"((?:[^"\\]|\\.)*)"`)

func extractEdgesInTextOrder(dot string) ([]edgeSpec, error) {
	var out []edgeSpec

	for _, s := range splitStatements(dot) {
		if !strings.Contains(s, "->") {
			continue
		}

		m := edgeStmtRe.FindStringSubmatch(s)
		if m == nil {
			return nil, fmt.Errorf("unsupported edge statement: %q", s)
		}

		cond := ""
		if lm := labelRe.FindStringSubmatch(m[3]); lm != nil {
			cond = strings.TrimSpace(strings.ReplaceAll(lm[1], `\"`, `"`))
		}

		out = append(out, edgeSpec{From: m[1], To: m[2], Cond: cond})
	}

	return out, nil
}
