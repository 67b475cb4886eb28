package payload

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

// ParseError is returned when a payload is neither a JSON object nor
// key:value text.
type ParseError struct {
	Raw string
	Err error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	return "could not read status: " + e.Err.Error()
}

// Unwrap returns the underlying reason.
func (e *ParseError) Unwrap() error {
	return e.Err
}

var errNoPairs = errors.New("no key:value pairs found")

// Interpret parses a device payload. It tries strict JSON first and falls
// back to a permissive key:value reader. The only error it returns is
// *ParseError; it never panics.
func Interpret(raw string) (report *Report, err error) {
	defer func() {
		if p := recover(); p != nil {
			report = nil
			err = &ParseError{Raw: raw, Err: fmt.Errorf("interpreter panic: %v", p)}
		}
	}()

	fields, strictErr := parseStrict(raw)
	if strictErr == nil {
		return &Report{Fields: fields}, nil
	}

	fields, lenientErr := parseLenient(raw)
	if lenientErr == nil {
		return &Report{Fields: fields, Lenient: true}, nil
	}

	return nil, &ParseError{
		Raw: raw,
		Err: fmt.Errorf("not a JSON object (%v) and not key:value text (%w)", strictErr, lenientErr),
	}
}

// parseStrict reads a JSON object. A JSON string holding an object is
// unwrapped once, which covers payloads encoded twice.
func parseStrict(raw string) ([]Field, error) {
	raw = strings.TrimSpace(raw)
	if !gjson.Valid(raw) {
		return nil, errors.New("invalid JSON")
	}

	parsed := gjson.Parse(raw)
	if parsed.Type == gjson.String {
		inner := strings.TrimSpace(parsed.Str)
		if gjson.Valid(inner) && gjson.Parse(inner).IsObject() {
			parsed = gjson.Parse(inner)
		}
	}
	if !parsed.IsObject() {
		return nil, fmt.Errorf("expected an object, got %s", parsed.Type)
	}

	fields := make([]Field, 0)
	parsed.ForEach(func(key, value gjson.Result) bool {
		fields = append(fields, Field{Key: key.String(), Value: jsonValue(value)})
		return true
	})
	return fields, nil
}

func jsonValue(v gjson.Result) interface{} {
	switch v.Type {
	case gjson.Number:
		if !strings.ContainsAny(v.Raw, ".eE") {
			if i, err := strconv.ParseInt(v.Raw, 10, 64); err == nil {
				return i
			}
		}
		return v.Float()
	case gjson.True:
		return true
	case gjson.False:
		return false
	case gjson.String:
		return v.Str
	case gjson.Null:
		return nil
	default:
		// Nested arrays and objects are kept as their JSON text.
		return v.Raw
	}
}

// parseLenient reads text like {brightness: 80, power: on}: braces are
// stripped, pairs are split on commas and each pair on its first colon.
func parseLenient(raw string) ([]Field, error) {
	body := strings.TrimSpace(raw)
	body = strings.TrimPrefix(body, "{")
	body = strings.TrimSuffix(body, "}")
	if strings.TrimSpace(body) == "" {
		return nil, errors.New("empty payload")
	}

	fields := make([]Field, 0)
	for _, segment := range strings.Split(body, ",") {
		key, value, ok := strings.Cut(segment, ":")
		if !ok {
			continue
		}
		key = unquote(strings.TrimSpace(key))
		if key == "" {
			continue
		}
		fields = append(fields, Field{
			Key:   key,
			Value: coerce(unquote(strings.TrimSpace(value))),
		})
	}

	if len(fields) == 0 {
		return nil, errNoPairs
	}
	return fields, nil
}

// coerce turns numeric text into int64 or float64 (when it has a dot) and
// leaves everything else as the raw string.
func coerce(value string) interface{} {
	if strings.Contains(value, ".") {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
		return value
	}
	if i, err := strconv.ParseInt(value, 10, 64); err == nil {
		return i
	}
	return value
}

func unquote(s string) string {
	if len(s) >= 2 {
		first, last := s[0], s[len(s)-1]
		if (first == '"' || first == '\'') && first == last {
			return s[1 : len(s)-1]
		}
	}
	return s
}
