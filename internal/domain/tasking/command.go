package tasking

import "fmt"

// CommandKind identifies what the player asked the process to do
type CommandKind string

const (
	CommandRouteToPickup CommandKind = "ROUTE_TO_PICKUP"
	CommandPickup        CommandKind = "PICKUP"
	CommandRouteToZone   CommandKind = "ROUTE_TO_ZONE"
	CommandDeploy        CommandKind = "DEPLOY"
	CommandAbandon       CommandKind = "ABANDON"
)

// Command is one player selection pushed onto a process's inbound command
// channel. The menu layer only ever constructs and submits these; it never
// touches process state directly.
type Command struct {
	Kind  CommandKind
	Cargo string // cargo set name, for pickup commands
	Zone  string // deploy zone name, for deploy commands
}

func (c Command) String() string {
	switch c.Kind {
	case CommandRouteToPickup, CommandPickup:
		return fmt.Sprintf("%s(%s)", c.Kind, c.Cargo)
	case CommandRouteToZone, CommandDeploy:
		return fmt.Sprintf("%s(%s→%s)", c.Kind, c.Cargo, c.Zone)
	}
	return string(c.Kind)
}

// MenuItem is one selectable entry in the carrier unit's command menu
type MenuItem struct {
	Label   string
	Command Command
}

// MenuService binds command menus to a carrier unit. The process rebuilds
// the menu on every entry into its command hub state and tears it down on
// exit; selections come back as Commands on the process's channel.
type MenuService interface {
	SetMenu(unitName string, items []MenuItem)
	ClearMenu(unitName string)
}
