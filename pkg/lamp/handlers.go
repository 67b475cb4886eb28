package lamp

import (
	"context"
	"fmt"
	"strings"

	"lampbot/pkg/commands"
	"lampbot/pkg/payload"
)

func (d *Dispatcher) commandSet() []*commands.Command {
	return []*commands.Command{
		{
			Name:        "start",
			Description: "Show available commands",
			Usage:       "/start",
			Handler:     d.handleStart,
		},
		{
			Name:        "status",
			Description: "Show lamp status",
			Usage:       "/status [device]",
			Handler:     d.handleStatus,
		},
		{
			Name:        "turn_on",
			Description: "Turn the lamp on",
			Usage:       "/turn_on [device]",
			Handler:     d.handleTurnOn,
		},
		{
			Name:        "turn_off",
			Description: "Turn the lamp off",
			Usage:       "/turn_off [device]",
			Handler:     d.handleTurnOff,
		},
		{
			Name:        "devices",
			Description: "List devices in the project",
			Usage:       "/devices",
			Handler:     d.handleDevices,
		},
	}
}

// helpOrder is the order commands appear in the /start reply.
var helpOrder = []string{"start", "status", "turn_on", "turn_off", "devices"}

func (d *Dispatcher) handleStart(ctx context.Context, req commands.CommandRequest) (commands.CommandResponse, error) {
	var sb strings.Builder
	sb.WriteString("Hi! I control street lighting through the device platform. Commands:\n")
	for _, name := range helpOrder {
		cmd, ok := d.registry.Get(name)
		if !ok {
			continue
		}
		sb.WriteString(fmt.Sprintf("%s - %s\n", cmd.Usage, cmd.Description))
	}
	return commands.CommandResponse{Content: strings.TrimRight(sb.String(), "\n")}, nil
}

func (d *Dispatcher) handleStatus(ctx context.Context, req commands.CommandRequest) (commands.CommandResponse, error) {
	obj, err := d.api.GetObject(ctx, req.DeviceID)
	if err != nil {
		return commands.CommandResponse{}, err
	}

	report, err := payload.InterpretState(obj.State)
	if err != nil {
		return commands.CommandResponse{}, err
	}

	return commands.CommandResponse{Content: payload.Render(obj.Name, report)}, nil
}

func (d *Dispatcher) handleTurnOn(ctx context.Context, req commands.CommandRequest) (commands.CommandResponse, error) {
	s := d.Settings()
	return d.switchLamp(ctx, s, req.DeviceID, s.OnCommand, s.OnParams, true)
}

func (d *Dispatcher) handleTurnOff(ctx context.Context, req commands.CommandRequest) (commands.CommandResponse, error) {
	s := d.Settings()
	return d.switchLamp(ctx, s, req.DeviceID, s.OffCommand, nil, false)
}

func (d *Dispatcher) switchLamp(ctx context.Context, s Settings, device, command string, params map[string]interface{}, on bool) (commands.CommandResponse, error) {
	if err := d.api.SendCommand(ctx, device, command, params); err != nil {
		return commands.CommandResponse{}, err
	}

	result := d.confirm(ctx, s.Confirm, device, on)
	if !result.Confirmed {
		text := NotConfirmed
		if result.Status != "" {
			text += "\n\n" + result.Status
		}
		return commands.CommandResponse{Content: text}, nil
	}

	return commands.CommandResponse{
		Content: fmt.Sprintf("Lamp %s turned %s.\n\n%s", device, onOff(on), result.Status),
	}, nil
}

func (d *Dispatcher) handleDevices(ctx context.Context, req commands.CommandRequest) (commands.CommandResponse, error) {
	objects, err := d.api.ListObjects(ctx)
	if err != nil {
		return commands.CommandResponse{}, err
	}

	s := d.Settings()
	parts := Paginate(objects, s.MaxDevicesPerMessage, s.MaxMessageLength)
	if len(parts) == 0 {
		return commands.CommandResponse{Content: NoDevicesReply}, nil
	}
	return commands.CommandResponse{Parts: parts}, nil
}

func onOff(on bool) string {
	if on {
		return "on"
	}
	return "off"
}
