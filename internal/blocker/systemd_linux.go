//go:build linux

package blocker

import (
	"context"
	"fmt"
	"strings"

	"github.com/coreos/go-systemd/v22/dbus"
)

// reloadUnit restarts the configured unit so the blocking service picks up
// group changes. A fresh connection per call keeps the command-at-a-time
// model: nothing is held open between invocations.
func (a *execAdapter) reloadUnit(ctx context.Context, unit string) error {
	conn, err := dbus.NewSystemConnectionContext(ctx)
	if err != nil {
		return fmt.Errorf("failed to connect to systemd: %w", err)
	}
	defer conn.Close()

	if !strings.HasSuffix(unit, ".service") {
		unit += ".service"
	}
	if _, err := conn.RestartUnitContext(ctx, unit, "replace", nil); err != nil {
		return fmt.Errorf("failed to restart %s: %w", unit, err)
	}
	return nil
}
