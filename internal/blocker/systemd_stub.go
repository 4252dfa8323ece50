//go:build !linux

package blocker

import (
	"context"
	"errors"
)

func (a *execAdapter) reloadUnit(ctx context.Context, unit string) error {
	_ = ctx
	_ = unit
	return errors.New("blocker.systemd_unit is only supported on linux")
}
