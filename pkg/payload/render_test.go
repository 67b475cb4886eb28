package payload

import (
	"strings"
	"testing"
	"time"
)

func TestRender_FixedFieldOrder(t *testing.T) {
	report, err := Interpret(`{"motion":true,"lamp_life":12.5,"lux":120,"brightness":80}`)
	if err != nil {
		t.Fatalf("Interpret: %v", err)
	}

	out := Render("light1", report)

	lines := []string{
		"Brightness: 80%",
		"Illuminance: 120 lx",
		"Lamp life: 12.5 h",
		"Power: off",
		"Motion: detected",
	}
	last := -1
	for _, line := range lines {
		idx := strings.Index(out, line)
		if idx < 0 {
			t.Fatalf("expected %q in output:\n%s", line, out)
		}
		if idx < last {
			t.Fatalf("%q is out of order in output:\n%s", line, out)
		}
		last = idx
	}
}

func TestRender_UnknownKeysAfterKnownInSourceOrder(t *testing.T) {
	report, err := Interpret(`{"zeta":1,"brightness":10,"alpha":"x","temperature":21.5}`)
	if err != nil {
		t.Fatalf("Interpret: %v", err)
	}

	out := Render("light1", report)

	motion := strings.Index(out, "Motion:")
	temp := strings.Index(out, "Temperature: 21.5 °C")
	zeta := strings.Index(out, "zeta: 1")
	alpha := strings.Index(out, "alpha: x")
	if motion < 0 || temp < 0 || zeta < 0 || alpha < 0 {
		t.Fatalf("missing lines in output:\n%s", out)
	}
	if !(motion < temp && temp < zeta && zeta < alpha) {
		t.Fatalf("unexpected order in output:\n%s", out)
	}
	if strings.Contains(out, "Humidity") {
		t.Fatalf("absent secondary field should not be rendered:\n%s", out)
	}
}

func TestRender_StateHeader(t *testing.T) {
	report := &Report{
		Online:     true,
		LastUpdate: time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC),
		Topic:      "lamps/light1",
		Fields:     []Field{{Key: "power", Value: "on"}},
	}

	out := Render("Main street", report)

	for _, want := range []string{
		"💡 Main street",
		"Online: yes",
		"Last update: 2024-03-01 12:30:00 UTC",
		"Topic: lamps/light1",
		"Power: on",
		"Brightness: 0%",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestRender_NilReport(t *testing.T) {
	out := Render("light1", nil)
	if !strings.Contains(out, "Last update: unknown") {
		t.Fatalf("unexpected output:\n%s", out)
	}
}
