package commands

import (
	"context"
	"testing"
)

func noop(ctx context.Context, req CommandRequest) (CommandResponse, error) {
	return CommandResponse{Content: "ok"}, nil
}

func TestRegistry_RegisterNormalizesName(t *testing.T) {
	r := NewRegistry()
	if err := r.Register(&Command{Name: "/Status", Handler: noop}); err != nil {
		t.Fatalf("Register: %v", err)
	}

	cmd, ok := r.Get("status")
	if !ok || cmd.Name != "status" {
		t.Fatalf("expected normalized command, got %+v", cmd)
	}
	if _, ok := r.Get("/STATUS@lamp_bot"); !ok {
		t.Fatalf("expected lookup with bot suffix to succeed")
	}
}

func TestRegistry_RegisterRejectsInvalid(t *testing.T) {
	r := NewRegistry()

	if err := r.Register(nil); err == nil {
		t.Fatalf("expected error for nil command")
	}
	if err := r.Register(&Command{Name: "/", Handler: noop}); err == nil {
		t.Fatalf("expected error for empty name")
	}
	if err := r.Register(&Command{Name: "status"}); err == nil {
		t.Fatalf("expected error for missing handler")
	}
	if err := r.Register(&Command{Name: "status", Handler: noop}); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if err := r.Register(&Command{Name: "STATUS", Handler: noop}); err == nil {
		t.Fatalf("expected duplicate error")
	}
}

func TestRegistry_Parse(t *testing.T) {
	r := NewRegistry()

	tests := []struct {
		text     string
		wantName string
		wantArgs string
	}{
		{text: "/status", wantName: "status"},
		{text: "  /turn_on   light2  ", wantName: "turn_on", wantArgs: "light2"},
		{text: "/Devices@lamp_bot", wantName: "devices"},
		{text: "hello", wantName: ""},
	}

	for _, tt := range tests {
		name, args := r.Parse(tt.text)
		if name != tt.wantName || args != tt.wantArgs {
			t.Fatalf("Parse(%q) = (%q, %q), want (%q, %q)", tt.text, name, args, tt.wantName, tt.wantArgs)
		}
	}
}

func TestRegistry_ListSortedAndIsCommand(t *testing.T) {
	r := NewRegistry()
	for _, name := range []string{"turn_on", "devices", "status"} {
		if err := r.Register(&Command{Name: name, Handler: noop}); err != nil {
			t.Fatalf("Register(%s): %v", name, err)
		}
	}

	list := r.List()
	if len(list) != 3 || list[0].Name != "devices" || list[2].Name != "turn_on" {
		t.Fatalf("unexpected order: %v, %v, %v", list[0].Name, list[1].Name, list[2].Name)
	}

	if !r.IsCommand("/status now") {
		t.Fatalf("expected /status to be a command")
	}
	if r.IsCommand("/foo") || r.IsCommand("status") {
		t.Fatalf("unexpected command match")
	}
}

func TestCommandResponse_Messages(t *testing.T) {
	if got := (CommandResponse{}).Messages(); got != nil {
		t.Fatalf("expected no messages, got %v", got)
	}
	if got := (CommandResponse{Content: "a"}).Messages(); len(got) != 1 || got[0] != "a" {
		t.Fatalf("unexpected messages: %v", got)
	}
	if got := (CommandResponse{Content: "a", Parts: []string{"b", "c"}}).Messages(); len(got) != 2 || got[0] != "b" {
		t.Fatalf("unexpected messages: %v", got)
	}
}
