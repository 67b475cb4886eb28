package payload

import (
	"fmt"
	"strings"
)

const timeLayout = "2006-01-02 15:04:05 MST"

type display struct {
	key   string
	label string
	unit  string
}

// primary fields are always rendered, with defaults when absent.
var primary = []display{
	{key: FieldBrightness, label: "Brightness", unit: "%"},
	{key: FieldLux, label: "Illuminance", unit: " lx"},
	{key: FieldLampLife, label: "Lamp life", unit: " h"},
	{key: FieldPower, label: "Power"},
	{key: FieldMotion, label: "Motion"},
}

// secondary fields are rendered only when the payload has them.
var secondary = []display{
	{key: FieldTemperature, label: "Temperature", unit: " °C"},
	{key: FieldHumidity, label: "Humidity", unit: "%"},
	{key: FieldVoltage, label: "Voltage", unit: " V"},
	{key: FieldCurrent, label: "Current", unit: " A"},
	{key: FieldPowerConsumption, label: "Power consumption", unit: " W"},
}

// Render formats a report. Known fields come first in a fixed order
// (brightness, illuminance, lamp life, power, motion, then the optional
// sensor readings); unrecognized keys follow in source order.
func Render(name string, r *Report) string {
	if r == nil {
		r = &Report{}
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("💡 %s\n", name))
	sb.WriteString(fmt.Sprintf("Online: %s\n", yesNo(r.Online)))
	if r.LastUpdate.IsZero() {
		sb.WriteString("Last update: unknown\n")
	} else {
		sb.WriteString(fmt.Sprintf("Last update: %s\n", r.LastUpdate.UTC().Format(timeLayout)))
	}
	if r.Topic != "" {
		sb.WriteString(fmt.Sprintf("Topic: %s\n", r.Topic))
	}

	for _, d := range primary {
		sb.WriteString(fmt.Sprintf("%s: %s\n", d.label, renderKnown(r, d)))
	}
	for _, d := range secondary {
		if r.Has(d.key) {
			sb.WriteString(fmt.Sprintf("%s: %s\n", d.label, renderKnown(r, d)))
		}
	}

	seen := make(map[string]struct{})
	for _, f := range r.Fields {
		key := strings.ToLower(f.Key)
		if isKnown(key) {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		sb.WriteString(fmt.Sprintf("%s: %s\n", f.Key, r.Text(f.Key)))
	}

	return strings.TrimRight(sb.String(), "\n")
}

func renderKnown(r *Report, d display) string {
	switch d.key {
	case FieldPower:
		// Some firmware reports power as text ("on", "eco").
		if v, ok := r.Lookup(FieldPower); ok {
			if s, isText := v.(string); isText && !isBoolText(s) {
				return s
			}
		}
		return onOff(r.Bool(FieldPower))
	case FieldMotion:
		if r.Bool(FieldMotion) {
			return "detected"
		}
		return "none"
	}

	v, ok := r.Lookup(d.key)
	if !ok {
		v = int64(0)
	}
	if _, isText := v.(string); isText {
		return formatValue(v)
	}
	return formatValue(v) + d.unit
}

func isKnown(key string) bool {
	for _, d := range primary {
		if d.key == key {
			return true
		}
	}
	for _, d := range secondary {
		if d.key == key {
			return true
		}
	}
	return false
}

func isBoolText(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "false", "on", "off", "yes", "no", "1", "0":
		return true
	}
	return false
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}
