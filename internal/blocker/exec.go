package blocker

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	logx "blocksched/pkg/logx"
)

// execAdapter shells out to configured command templates.
type execAdapter struct {
	cfg Config
	log logx.Logger
}

// New builds the exec-backed adapter.
func New(cfg Config, log logx.Logger) Adapter {
	if log.IsZero() {
		log = logx.Nop()
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	return &execAdapter{cfg: cfg, log: log}
}

func (a *execAdapter) EnableGroup(ctx context.Context, name string) error {
	return a.run(ctx, "enable_group", a.cfg.EnableCmd, name, nil)
}

func (a *execAdapter) DisableGroup(ctx context.Context, name string) error {
	return a.run(ctx, "disable_group", a.cfg.DisableCmd, name, nil)
}

func (a *execAdapter) AssociateDevices(ctx context.Context, name string, devices []string) error {
	return a.run(ctx, "associate_devices", a.cfg.AssociateCmd, name, devices)
}

func (a *execAdapter) Reload(ctx context.Context) error {
	if unit := strings.TrimSpace(a.cfg.SystemdUnit); unit != "" {
		return a.reloadUnit(ctx, unit)
	}
	return a.run(ctx, "reload", a.cfg.ReloadCmd, "", nil)
}

func (a *execAdapter) run(ctx context.Context, op, tmpl, name string, devices []string) error {
	tmpl = strings.TrimSpace(tmpl)
	if tmpl == "" {
		return fmt.Errorf("blocker: no command configured for %s", op)
	}
	cmdline := strings.ReplaceAll(tmpl, "{name}", name)
	cmdline = strings.ReplaceAll(cmdline, "{devices}", strings.Join(devices, ","))

	cctx, cancel := context.WithTimeout(ctx, a.cfg.Timeout)
	defer cancel()

	cmd := exec.CommandContext(cctx, "sh", "-c", cmdline)
	out, err := cmd.CombinedOutput()
	if err != nil {
		if errors.Is(cctx.Err(), context.DeadlineExceeded) {
			return fmt.Errorf("blocker %s timed out after %s", op, a.cfg.Timeout)
		}
		return fmt.Errorf("blocker %s failed: %v: %s", op, err, strings.TrimSpace(string(out)))
	}
	a.log.Debug("blocker command ok", logx.String("op", op), logx.String("group", name))
	return nil
}
