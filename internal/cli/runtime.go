package cli

import (
	"os"

	"github.com/urfave/cli"

	"blocksched/internal/blocker"
	"blocksched/internal/config"
	"blocksched/internal/cronsync"
	"blocksched/internal/service"
	"blocksched/internal/store"
	logx "blocksched/pkg/logx"
)

// runtime is the assembled stack behind every command.
type runtime struct {
	cfg  *config.Config
	mgr  *config.Manager
	logs *logx.Service
	log  logx.Logger

	store *store.Store
	svc   *service.Service
}

// buildRuntime loads config and wires store, crontab synchronizer, blocker
// adapter and the orchestration service. Callers must Close() it.
func buildRuntime(c *cli.Context) (*runtime, error) {
	mgr := config.NewManager(c.GlobalString("config"))
	cfg, err := mgr.Load()
	if err != nil {
		return nil, err
	}

	logCfg := logx.Config{
		Level:   cfg.Logging.Level,
		Console: cfg.Logging.Console,
		File: logx.FileConfig{
			Enabled: cfg.Logging.File.Enabled,
			Path:    cfg.Logging.File.Path,
		},
	}
	if c.GlobalBool("verbose") {
		logCfg.Level = "debug"
	}
	logs, log := logx.New(logCfg)
	mgr.SetLogger(log.With(logx.String("component", "config")))

	busy, err := config.ParseDurationOrDefault("store.busy_timeout", cfg.Store.BusyTimeout, 0)
	if err != nil {
		logs.Close()
		return nil, err
	}
	st, err := store.Open(store.Config{
		Driver:      cfg.Store.Driver,
		Path:        cfg.Store.Path,
		BusyTimeout: busy,
	}, log.With(logx.String("component", "store")))
	if err != nil {
		logs.Close()
		return nil, err
	}

	table, err := cronsync.OpenTable(cfg.Cron.Transport, cfg.Cron.File)
	if err != nil {
		st.Close()
		logs.Close()
		return nil, err
	}
	execPath := cfg.Cron.ExecPath
	if execPath == "" {
		if execPath, err = os.Executable(); err != nil {
			st.Close()
			logs.Close()
			return nil, err
		}
	}
	sync := cronsync.New(table, execPath, log.With(logx.String("component", "cronsync")))

	timeout, err := config.ParseDurationOrDefault("blocker.timeout", cfg.Blocker.Timeout, 0)
	if err != nil {
		st.Close()
		logs.Close()
		return nil, err
	}
	adapter := blocker.New(blocker.Config{
		EnableCmd:    cfg.Blocker.EnableCmd,
		DisableCmd:   cfg.Blocker.DisableCmd,
		AssociateCmd: cfg.Blocker.AssociateCmd,
		ReloadCmd:    cfg.Blocker.ReloadCmd,
		SystemdUnit:  cfg.Blocker.SystemdUnit,
		Timeout:      timeout,
	}, log.With(logx.String("component", "blocker")))

	svc := service.New(st, sync, adapter, log.With(logx.String("component", "service")))

	return &runtime{
		cfg:   cfg,
		mgr:   mgr,
		logs:  logs,
		log:   log,
		store: st,
		svc:   svc,
	}, nil
}

func (r *runtime) Close() {
	if r.store != nil {
		_ = r.store.Close()
	}
	if r.logs != nil {
		_ = r.logs.Close()
	}
}
