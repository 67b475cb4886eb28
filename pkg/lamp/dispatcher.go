// Package lamp maps chat commands to device platform calls and renders the
// replies.
package lamp

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"lampbot/pkg/commands"
	"lampbot/pkg/logger"
	"lampbot/pkg/payload"
	"lampbot/pkg/platform"
)

// Fixed replies.
const (
	UnknownReply     = "Unknown command. Use /start to see available commands."
	UnreachableReply = "Device platform is unreachable, please try again later."
	DecodeReply      = "Unexpected response from platform."
	InternalReply    = "Something went wrong while handling the command."
	NoDevicesReply   = "No devices found."
	NotConfirmed     = "Command accepted, state not yet confirmed."
)

// Dispatcher answers chat commands. It holds no per-request state and is
// safe for concurrent use.
type Dispatcher struct {
	log      *logger.Logger
	api      platform.DeviceAPI
	registry *commands.Registry
	settings atomic.Pointer[Settings]
}

// NewDispatcher creates a dispatcher and registers the lamp commands in
// registry.
func NewDispatcher(log *logger.Logger, api platform.DeviceAPI, registry *commands.Registry, settings Settings) (*Dispatcher, error) {
	d := &Dispatcher{
		log:      log,
		api:      api,
		registry: registry,
	}
	d.settings.Store(&settings)

	for _, cmd := range d.commandSet() {
		if err := registry.Register(cmd); err != nil {
			return nil, fmt.Errorf("registering /%s: %w", cmd.Name, err)
		}
	}

	return d, nil
}

// Reconfigure replaces the settings used by subsequent commands.
func (d *Dispatcher) Reconfigure(settings Settings) {
	d.settings.Store(&settings)
}

// Settings returns the current settings.
func (d *Dispatcher) Settings() Settings {
	return *d.settings.Load()
}

// DispatchText is Dispatch joined into a single message.
func (d *Dispatcher) DispatchText(ctx context.Context, text, deviceID string) string {
	return strings.Join(d.Dispatch(ctx, text, deviceID).Messages(), "\n\n")
}

// Dispatch handles one command and always returns at least one non-empty
// message. The target device is the first command argument, then deviceID,
// then the configured default.
func (d *Dispatcher) Dispatch(ctx context.Context, text, deviceID string) (resp commands.CommandResponse) {
	requestID := uuid.NewString()
	log := d.log.WithFields(zap.String("request_id", requestID))

	name, args := d.registry.Parse(text)
	cmd, ok := d.registry.Get(name)
	if name == "" || !ok {
		log.Debug("Unknown command", zap.String("text", text))
		return commands.CommandResponse{Content: UnknownReply}
	}

	device := d.Settings().DeviceID
	if deviceID != "" {
		device = deviceID
	}
	if fields := strings.Fields(args); len(fields) > 0 {
		device = fields[0]
	}

	defer func() {
		if r := recover(); r != nil {
			log.Error("Command panicked",
				zap.String("command", name),
				zap.Any("panic", r))
			resp = commands.CommandResponse{Content: InternalReply}
		}
	}()

	log.Info("Handling command",
		zap.String("command", name),
		zap.String("device", device))

	resp, err := cmd.Handler(ctx, commands.CommandRequest{
		Channel:  "lamp",
		Command:  name,
		Args:     args,
		DeviceID: device,
		Metadata: map[string]string{"request_id": requestID},
	})
	if err != nil {
		log.Warn("Command failed",
			zap.String("command", name),
			zap.String("device", device),
			zap.Error(err))
		return commands.CommandResponse{Content: describe(err)}
	}

	if len(resp.Messages()) == 0 {
		return commands.CommandResponse{Content: InternalReply}
	}
	return resp
}

// describe turns an error into the text shown to the user.
func describe(err error) string {
	var apiErr *platform.APIError
	var parseErr *payload.ParseError

	switch {
	case errors.As(err, &parseErr):
		return "Could not read lamp status: " + parseErr.Err.Error()
	case errors.As(err, &apiErr):
		if apiErr.Message == "" {
			return fmt.Sprintf("Platform error: status %d", apiErr.StatusCode)
		}
		return "Platform error: " + apiErr.Message
	case errors.Is(err, platform.ErrDecode):
		return DecodeReply
	case errors.Is(err, platform.ErrTransport),
		errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, context.Canceled):
		return UnreachableReply
	default:
		return InternalReply
	}
}
