package payload

import (
	"errors"
	"strings"
	"time"

	"github.com/tidwall/gjson"
)

// Keys of a device state object that describe the state itself rather than
// the telemetry.
const (
	stateOnline  = "online"
	stateTime    = "time"
	stateTopic   = "topic"
	statePayload = "payload"
)

// InterpretState reads a device "state" object: the online flag, the time
// of the last update (epoch milliseconds), the MQTT topic and the payload.
// The payload may be a JSON string (double-encoded), a nested object or
// loose key:value text. When there is no payload the remaining state keys
// are used as telemetry.
func InterpretState(state []byte) (*Report, error) {
	raw := strings.TrimSpace(string(state))
	if raw == "" {
		return nil, &ParseError{Raw: raw, Err: errors.New("device has no state")}
	}
	if !gjson.Valid(raw) {
		return nil, &ParseError{Raw: raw, Err: errors.New("device state is not JSON")}
	}
	st := gjson.Parse(raw)
	if !st.IsObject() {
		return nil, &ParseError{Raw: raw, Err: errors.New("device state is not an object")}
	}

	var (
		report *Report
		err    error
	)
	switch p := st.Get(statePayload); {
	case !p.Exists() || p.Type == gjson.Null:
		report = &Report{Fields: stateFields(st)}
	case p.Type == gjson.String:
		report, err = Interpret(p.Str)
	default:
		report, err = Interpret(p.Raw)
	}
	if err != nil {
		return nil, err
	}

	report.Online = st.Get(stateOnline).Bool()
	if ms := st.Get(stateTime).Int(); ms > 0 {
		report.LastUpdate = time.UnixMilli(ms).UTC()
	}
	report.Topic = st.Get(stateTopic).String()

	return report, nil
}

func stateFields(st gjson.Result) []Field {
	fields := make([]Field, 0)
	st.ForEach(func(key, value gjson.Result) bool {
		switch key.String() {
		case stateOnline, stateTime, stateTopic, statePayload:
		default:
			fields = append(fields, Field{Key: key.String(), Value: jsonValue(value)})
		}
		return true
	})
	return fields
}
