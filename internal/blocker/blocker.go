// Package blocker drives the external blocking capability: a named group
// that can be toggled on and off plus a reload to make the toggle take
// effect. The actual traffic filtering lives outside this tool.
package blocker

import (
	"context"
	"time"
)

// Adapter is the actuation boundary. Implementations must be safe to call
// repeatedly with the same arguments; the service retries on the next sync
// pass after a failure.
type Adapter interface {
	EnableGroup(ctx context.Context, name string) error
	DisableGroup(ctx context.Context, name string) error
	AssociateDevices(ctx context.Context, name string, devices []string) error
	Reload(ctx context.Context) error
}

// Config configures the exec-backed adapter.
//
// Command templates are run through the shell with two placeholders:
//
//	{name}     the schedule/group name
//	{devices}  comma-joined device identifiers ("" for network-wide)
//
// SystemdUnit, when set on linux, restarts that unit over D-Bus instead of
// running ReloadCmd.
type Config struct {
	EnableCmd    string
	DisableCmd   string
	AssociateCmd string
	ReloadCmd    string
	SystemdUnit  string
	Timeout      time.Duration // per command; 0 means default
}

const defaultTimeout = 30 * time.Second

// Nop is an Adapter that does nothing. Used for dry runs and tests.
type Nop struct{}

func (Nop) EnableGroup(context.Context, string) error                { return nil }
func (Nop) DisableGroup(context.Context, string) error               { return nil }
func (Nop) AssociateDevices(context.Context, string, []string) error { return nil }
func (Nop) Reload(context.Context) error                             { return nil }
