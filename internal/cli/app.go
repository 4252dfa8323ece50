// Package cli wires the command tree. Commands are thin: parse flags, build
// the service stack, call one operation, print the result.
package cli

import (
	"github.com/urfave/cli"
)

// BuildArgs carries linker-injected build metadata.
type BuildArgs struct {
	Version string
	Commit  string
	Date    string
}

func Execute(args []string, bArgs BuildArgs) error {
	version := bArgs.Version
	if version == "" {
		version = "dev"
	}
	if bArgs.Commit != "" {
		version += " (" + bArgs.Commit
		if bArgs.Date != "" {
			version += ", " + bArgs.Date
		}
		version += ")"
	}
	app := cli.App{
		Name:      "blocksched",
		HelpName:  "blocksched",
		Usage:     "recurring blocking windows, synchronized to cron",
		Version:   version,
		UsageText: "blocksched <command> [arguments...]",
		Flags: []cli.Flag{
			cli.StringFlag{
				Name:  "config, c",
				Usage: "path to config file (yaml or json)",
				Value: "./blocksched.yaml",
			},
			cli.BoolFlag{
				Name:  "verbose",
				Usage: "debug logging",
			},
		},
		Commands: []cli.Command{
			{
				Name:  "schedule",
				Usage: "manage blocking schedules",
				Subcommands: []cli.Command{
					{
						Name:      "create",
						Usage:     "create a new blocking schedule",
						UsageText: "blocksched schedule create --name <id> --start HH:MM --end HH:MM [--days spec] [--devices ip,ip,...]",
						Action:    scheduleCreate,
						Flags: []cli.Flag{
							cli.StringFlag{Name: "name, n", Usage: "unique schedule name"},
							cli.StringFlag{Name: "start, s", Usage: "window start (HH:MM, 24-hour)"},
							cli.StringFlag{Name: "end, e", Usage: "window end (HH:MM, may be before start to wrap midnight)"},
							cli.StringFlag{Name: "days, d", Usage: "all|weekdays|weekends or day names/numbers", Value: "all"},
							cli.StringFlag{Name: "devices", Usage: "comma-separated device IPs (empty = network-wide)"},
							cli.BoolTFlag{Name: "enabled", Usage: "create in enabled state"},
						},
					},
					{
						Name:   "list",
						Usage:  "list all schedules",
						Action: scheduleList,
					},
					{
						Name:   "status",
						Usage:  "show which schedules are blocking right now",
						Action: scheduleStatus,
					},
					{
						Name:      "enable",
						Usage:     "enable a schedule",
						UsageText: "blocksched schedule enable <name>",
						Action:    scheduleEnable,
					},
					{
						Name:      "disable",
						Usage:     "disable a schedule (its group is deactivated immediately)",
						UsageText: "blocksched schedule disable <name>",
						Action:    scheduleDisable,
					},
					{
						Name:      "delete",
						Usage:     "delete a schedule and retract its cron entries",
						UsageText: "blocksched schedule delete <name>",
						Action:    scheduleDelete,
					},
					{
						Name:      "test",
						Usage:     "drive the blocker manually without touching state",
						UsageText: "blocksched schedule test <name> <enable|disable>",
						Action:    scheduleTest,
					},
					{
						Name:      "run",
						Hidden:    true,
						Usage:     "execute one actuation entry (invoked by cron)",
						UsageText: "blocksched schedule run <name> <activate|deactivate>",
						Action:    scheduleRun,
					},
				},
			},
			{
				Name:   "sync",
				Usage:  "rewrite the crontab from the current schedules",
				Action: syncCmd,
			},
			{
				Name:   "watch",
				Usage:  "run resident: fire transitions from an in-process cron runner",
				Action: watchCmd,
			},
			{
				Name:  "version",
				Usage: "print the version",
				Action: func(c *cli.Context) error {
					cli.ShowVersion(c)
					return nil
				},
			},
		},
	}
	return app.Run(args)
}
