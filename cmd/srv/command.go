package main

import "github.com/urfave/cli/v2"

func (s *srv) loadApp() {
	app := cli.NewApp()
	app.Action = cli.ShowAppHelp
	app.Name = "famquest"
	app.Usage = "community task and drawing service"
	app.Commands = []*cli.Command{
		{
			Action:      s.startApi,
			Name:        "api",
			Usage:       "Start the api service",
			Flags:       []cli.Flag{},
			Category:    "Api",
			Description: `Serves the task, ledger, drawing, and user apis to the chat gateway.`,
		},
		{
			Action:      s.startCron,
			Name:        "cron",
			Usage:       "Start the scheduled jobs",
			Flags:       []cli.Flag{},
			Category:    "Worker",
			Description: `Runs the daily counter reset and the drawing lifecycle sweep.`,
		},
		{
			Action:      s.startMigrate,
			Name:        "migrate",
			Usage:       "Migrate the database schema",
			Flags:       []cli.Flag{},
			Category:    "Database",
			Description: `Creates or updates the database tables, then exits.`,
		},
	}

	s.app = app
}
