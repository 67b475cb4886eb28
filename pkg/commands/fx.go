package commands

import (
	"go.uber.org/fx"
)

// Module provides the command registry. Owners of a command set register
// it when they are constructed, as lamp.NewDispatcher does.
var Module = fx.Module("commands",
	fx.Provide(NewRegistry),
)
