// Package commands provides the slash-command registry shared by channels.
package commands

import (
	"context"
)

// Command represents a slash command that can be executed.
type Command struct {
	// Name is the command name (without /)
	Name string
	// Description is a short description shown in the chat command menu
	Description string
	// Usage shows how to use the command
	Usage string
	// Handler is the function that executes the command
	Handler CommandHandler
}

// CommandHandler is a function that handles a command.
type CommandHandler func(ctx context.Context, req CommandRequest) (CommandResponse, error)

// CommandRequest contains information about a command invocation.
type CommandRequest struct {
	// Channel is the channel name (telegram, cli)
	Channel string
	// ChatID identifies the conversation
	ChatID string
	// UserID identifies the user who invoked the command
	UserID string
	// Username is the display name of the user
	Username string
	// Command is the command name
	Command string
	// Args are the command arguments (text after the command)
	Args string
	// DeviceID is the device the command targets.
	DeviceID string
	// Metadata contains channel-specific metadata
	Metadata map[string]string
}

// CommandResponse contains the command execution result.
type CommandResponse struct {
	// Content is the response text
	Content string
	// Parts, when set, replaces Content with several messages sent in order.
	Parts []string
}

// Messages returns the texts to send, in order.
func (r CommandResponse) Messages() []string {
	if len(r.Parts) > 0 {
		return r.Parts
	}
	if r.Content == "" {
		return nil
	}
	return []string{r.Content}
}
