package policy

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseResult reads a node payload of the form "key=value,key=value".
func ParseResult(raw string) ([]Assignment, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}

	var out []Assignment
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		key, val, ok := strings.Cut(part, "=")
		if !ok {
			return nil, fmt.Errorf("invalid assignment %q (expected key=value)", part)
		}
		key = strings.TrimSpace(key)
		if key == "" {
			return nil, fmt.Errorf("empty key in assignment %q", part)
		}

		out = append(out, Assignment{Key: key, Value: parseLiteral(val)})
	}

	return out, nil
}

func parseLiteral(s string) any {
	s = strings.TrimSpace(s)

	switch s {
	case "true":
		return true
	case "false":
		return false
	}
	if i, err := strconv.Atoi(s); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	if len(s) >= 2 && (s[0] == '\'' || s[0] == '"') && s[len(s)-1] == s[0] {
		return s[1 : len(s)-1]
	}
	return s
}
