package main

import "github.com/urfave/cli/v2"

func (s *srv) loadApp() {
	app := cli.NewApp()
	app.Action = cli.ShowAppHelp
	app.Name = "reciteclub"
	app.Usage = "Recitation club backend"
	app.Commands = []*cli.Command{
		{
			Action:      server.startApi,
			Name:        "api",
			Usage:       "Start the api server",
			Category:    "Api",
			Description: `Serves all client-facing endpoints.`,
		},
		{
			Action:      server.startCron,
			Name:        "cron",
			Usage:       "Start the cron worker",
			Category:    "Worker",
			Description: `Runs the scheduled jobs, including the weekly settlement.`,
		},
		{
			Action:   server.startMigrateFriends,
			Name:     "migrate-friends",
			Usage:    "Convert legacy embedded friend lists into friendship records",
			Category: "Operation",
			Flags: []cli.Flag{
				&cli.BoolFlag{
					Name:  "dry-run",
					Usage: "report intended writes without writing",
				},
				&cli.BoolFlag{
					Name:  "cleanup",
					Usage: "clear legacy lists that are fully migrated instead of migrating",
				},
				&cli.IntFlag{
					Name:  "batch-size",
					Usage: "number of users loaded per batch",
					Value: 100,
				},
			},
		},
	}

	s.app = app
}
