package cli

import (
	"fmt"
	"strconv"
	"strings"

	json "github.com/goccy/go-json"

	"github.com/kbukum/jsonrest/httpclient/rest"
)

// parseFields builds an ordered request from key=value arguments.
func parseFields(args []string) (*rest.MapRequest, error) {
	m := rest.NewMapRequest()
	for _, arg := range args {
		key, raw, ok := strings.Cut(arg, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("argument %q is not key=value", arg)
		}
		v, err := parseValue(raw)
		if err != nil {
			return nil, fmt.Errorf("argument %q: %w", key, err)
		}
		m.Set(key, v)
	}
	return m, nil
}

// parseValue interprets a command-line value: true/false, null, integers,
// floats and JSON objects or arrays keep their type; anything else is a string.
func parseValue(raw string) (any, error) {
	switch raw {
	case "true":
		return true, nil
	case "false":
		return false, nil
	case "null":
		return nil, nil
	}
	if i, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return i, nil
	}
	if isDecimal(raw) {
		if f, err := strconv.ParseFloat(raw, 64); err == nil {
			return f, nil
		}
	}
	if strings.HasPrefix(raw, "{") || strings.HasPrefix(raw, "[") {
		var v any
		if err := json.Unmarshal([]byte(raw), &v); err != nil {
			return nil, fmt.Errorf("invalid JSON value: %w", err)
		}
		return v, nil
	}
	return raw, nil
}

// isDecimal rejects the spellings ParseFloat accepts beyond plain
// decimals, such as "Inf", "NaN" and hex floats.
func isDecimal(raw string) bool {
	if raw == "" {
		return false
	}
	for _, r := range raw {
		if !strings.ContainsRune("0123456789.eE+-", r) {
			return false
		}
	}
	return true
}

// isExplicitPath reports whether a call target is a path or URL rather than a type name.
func isExplicitPath(target string) bool {
	return strings.HasPrefix(target, "/") ||
		strings.HasPrefix(target, "http://") ||
		strings.HasPrefix(target, "https://")
}

// parseHeaders parses repeated name=value header flags.
func parseHeaders(values []string) (map[string]string, error) {
	headers := make(map[string]string, len(values))
	for _, h := range values {
		name, value, ok := strings.Cut(h, "=")
		if !ok {
			name, value, ok = strings.Cut(h, ":")
		}
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, fmt.Errorf("header %q is not name=value", h)
		}
		headers[name] = strings.TrimSpace(value)
	}
	return headers, nil
}
