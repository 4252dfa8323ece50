package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"

	"github.com/urfave/cli"

	"blocksched/internal/config"
	"blocksched/internal/service"
	"blocksched/internal/watch"
	logx "blocksched/pkg/logx"
)

func scheduleCreate(c *cli.Context) error {
	rt, err := buildRuntime(c)
	if err != nil {
		return err
	}
	defer rt.Close()

	req := service.CreateRequest{
		Name:    c.String("name"),
		Start:   c.String("start"),
		End:     c.String("end"),
		Days:    c.String("days"),
		Devices: splitDevices(c.String("devices")),
		Enabled: c.BoolT("enabled"),
	}
	sc, err := rt.svc.Create(context.Background(), req)
	if err != nil {
		return err
	}
	fmt.Printf("created %s: %s-%s, %s, %s\n",
		sc.Name, sc.Start, sc.End, sc.Days.Summary(), sc.DeviceSummary())
	return nil
}

func scheduleList(c *cli.Context) error {
	rt, err := buildRuntime(c)
	if err != nil {
		return err
	}
	defer rt.Close()

	all, err := rt.svc.List()
	if err != nil {
		return err
	}
	if len(all) == 0 {
		fmt.Println("no schedules")
		return nil
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tWINDOW\tDAYS\tDEVICES\tENABLED")
	for _, sc := range all {
		fmt.Fprintf(w, "%s\t%s-%s\t%s\t%s\t%s\n",
			sc.Name, sc.Start, sc.End, sc.Days.Summary(), sc.DeviceSummary(), yesNo(sc.Enabled))
	}
	return w.Flush()
}

func scheduleStatus(c *cli.Context) error {
	rt, err := buildRuntime(c)
	if err != nil {
		return err
	}
	defer rt.Close()

	statuses, err := rt.svc.Status()
	if err != nil {
		return err
	}
	if len(statuses) == 0 {
		fmt.Println("no enabled schedules")
		return nil
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tBLOCKING\tNEXT CHANGE")
	for _, st := range statuses {
		fmt.Fprintf(w, "%s\t%s\t%s\n",
			st.Schedule.Name, yesNo(st.Active), st.NextTransition.Format("Mon 15:04"))
	}
	return w.Flush()
}

func scheduleEnable(c *cli.Context) error {
	name, err := nameArg(c)
	if err != nil {
		return err
	}
	rt, err := buildRuntime(c)
	if err != nil {
		return err
	}
	defer rt.Close()

	changed, err := rt.svc.Enable(context.Background(), name)
	if err != nil {
		return err
	}
	if !changed {
		fmt.Printf("%s is already enabled\n", name)
		return nil
	}
	fmt.Printf("enabled %s\n", name)
	return nil
}

func scheduleDisable(c *cli.Context) error {
	name, err := nameArg(c)
	if err != nil {
		return err
	}
	rt, err := buildRuntime(c)
	if err != nil {
		return err
	}
	defer rt.Close()

	changed, err := rt.svc.Disable(context.Background(), name)
	if err != nil {
		return err
	}
	if !changed {
		fmt.Printf("%s is already disabled\n", name)
		return nil
	}
	fmt.Printf("disabled %s\n", name)
	return nil
}

func scheduleDelete(c *cli.Context) error {
	name, err := nameArg(c)
	if err != nil {
		return err
	}
	rt, err := buildRuntime(c)
	if err != nil {
		return err
	}
	defer rt.Close()

	if err := rt.svc.Delete(context.Background(), name); err != nil {
		return err
	}
	fmt.Printf("deleted %s\n", name)
	return nil
}

func scheduleTest(c *cli.Context) error {
	if c.NArg() != 2 {
		return cli.NewExitError("usage: blocksched schedule test <name> <enable|disable>", 2)
	}
	rt, err := buildRuntime(c)
	if err != nil {
		return err
	}
	defer rt.Close()

	name, action := c.Args().Get(0), c.Args().Get(1)
	if err := rt.svc.Test(context.Background(), name, action); err != nil {
		return err
	}
	fmt.Printf("%s: %s applied (state and crontab untouched)\n", name, action)
	return nil
}

func scheduleRun(c *cli.Context) error {
	if c.NArg() != 2 {
		return cli.NewExitError("usage: blocksched schedule run <name> <activate|deactivate>", 2)
	}
	rt, err := buildRuntime(c)
	if err != nil {
		return err
	}
	defer rt.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return rt.svc.Run(ctx, c.Args().Get(0), c.Args().Get(1))
}

func syncCmd(c *cli.Context) error {
	rt, err := buildRuntime(c)
	if err != nil {
		return err
	}
	defer rt.Close()

	if err := rt.svc.Resync(); err != nil {
		return err
	}
	fmt.Println("crontab synchronized")
	return nil
}

func watchCmd(c *cli.Context) error {
	rt, err := buildRuntime(c)
	if err != nil {
		return err
	}
	defer rt.Close()

	interval, err := config.ParseDurationOrDefault("watch.min_resync_interval", rt.cfg.Watch.MinResyncInterval, 0)
	if err != nil {
		return err
	}
	ws := watch.New(watch.Config{
		StorePath:         rt.cfg.Store.Path,
		MinResyncInterval: interval,
	}, rt.svc, rt.log.With(logx.String("component", "watch")))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Hot-reload logging settings while resident; schedule changes are picked
	// up by the store watcher inside ws.
	go func() {
		err := rt.mgr.Watch(ctx, func(cfg *config.Config) {
			rt.logs.Apply(logx.Config{
				Level:   cfg.Logging.Level,
				Console: cfg.Logging.Console,
				File: logx.FileConfig{
					Enabled: cfg.Logging.File.Enabled,
					Path:    cfg.Logging.File.Path,
				},
			})
		})
		if err != nil && ctx.Err() == nil {
			rt.log.Warn("config watcher stopped", logx.Err(err))
		}
	}()

	return ws.Run(ctx)
}

func nameArg(c *cli.Context) (string, error) {
	if c.NArg() != 1 {
		return "", cli.NewExitError("usage: blocksched schedule "+c.Command.Name+" <name>", 2)
	}
	return c.Args().Get(0), nil
}

func splitDevices(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
