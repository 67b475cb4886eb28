// Package payload interprets device state blobs into status reports.
//
// Lamps publish their telemetry as a JSON object encoded inside a string
// field, and some firmware revisions emit loose "key: value" text instead of
// JSON. Interpret accepts both.
package payload

import (
	"strconv"
	"strings"
	"time"
)

// Known telemetry keys.
const (
	FieldBrightness       = "brightness"
	FieldLux              = "lux"
	FieldMotion           = "motion"
	FieldLampLife         = "lamp_life"
	FieldPower            = "power"
	FieldTemperature      = "temperature"
	FieldHumidity         = "humidity"
	FieldVoltage          = "voltage"
	FieldCurrent          = "current"
	FieldPowerConsumption = "power_consumption"
)

// Field is one key of the payload. Value is int64, float64, bool, string,
// or nil for JSON null.
type Field struct {
	Key   string
	Value interface{}
}

// Report is the interpreted state of one device for one request.
type Report struct {
	// Fields are kept in source order.
	Fields     []Field
	Online     bool
	LastUpdate time.Time
	Topic      string
	// Lenient is set when the payload was not valid JSON.
	Lenient bool
}

// Lookup returns the value of the last field named key (case-insensitive).
func (r *Report) Lookup(key string) (interface{}, bool) {
	if r == nil {
		return nil, false
	}
	for i := len(r.Fields) - 1; i >= 0; i-- {
		if strings.EqualFold(r.Fields[i].Key, key) {
			return r.Fields[i].Value, true
		}
	}
	return nil, false
}

// Has reports whether the payload carried key.
func (r *Report) Has(key string) bool {
	_, ok := r.Lookup(key)
	return ok
}

// Int returns key as an integer, 0 when absent or not numeric.
func (r *Report) Int(key string) int64 {
	v, _ := r.Lookup(key)
	switch n := v.(type) {
	case int64:
		return n
	case float64:
		return int64(n)
	case bool:
		if n {
			return 1
		}
	case string:
		if i, err := strconv.ParseInt(strings.TrimSpace(n), 10, 64); err == nil {
			return i
		}
		if f, err := strconv.ParseFloat(strings.TrimSpace(n), 64); err == nil {
			return int64(f)
		}
	}
	return 0
}

// Float returns key as a float, 0 when absent or not numeric.
func (r *Report) Float(key string) float64 {
	v, _ := r.Lookup(key)
	switch n := v.(type) {
	case float64:
		return n
	case int64:
		return float64(n)
	case bool:
		if n {
			return 1
		}
	case string:
		if f, err := strconv.ParseFloat(strings.TrimSpace(n), 64); err == nil {
			return f
		}
	}
	return 0
}

// Bool returns key as a boolean, false when absent. Non-zero numbers and
// the strings true/on/yes/1 count as true.
func (r *Report) Bool(key string) bool {
	v, _ := r.Lookup(key)
	switch b := v.(type) {
	case bool:
		return b
	case int64:
		return b != 0
	case float64:
		return b != 0
	case string:
		switch strings.ToLower(strings.TrimSpace(b)) {
		case "true", "on", "yes", "1":
			return true
		}
	}
	return false
}

// Text returns key formatted for display, "" when absent.
func (r *Report) Text(key string) string {
	v, ok := r.Lookup(key)
	if !ok {
		return ""
	}
	return formatValue(v)
}

// IsOn reports whether the lamp is lit: the power field when present,
// otherwise a non-zero brightness.
func (r *Report) IsOn() bool {
	if r.Has(FieldPower) {
		return r.Bool(FieldPower)
	}
	return r.Float(FieldBrightness) > 0
}

func formatValue(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return "null"
	case int64:
		return strconv.FormatInt(t, 10)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	case string:
		return t
	default:
		return ""
	}
}
