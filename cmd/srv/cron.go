package main

import (
	"github.com/famquest/backend/internal/domain/cron"
	"github.com/famquest/backend/pkg/xcontext"
	"github.com/urfave/cli/v2"
)

func (s *srv) startCron(*cli.Context) error {
	s.loadConfig()
	s.ctx = xcontext.WithDB(s.ctx, s.newDatabase())
	s.migrateDB()
	s.loadRepos()
	s.loadDomains()

	scheduler := cron.NewScheduler()
	scheduler.Add(cron.NewDailyResetCronJob(s.userRepo))
	scheduler.Add(cron.NewDrawingSweepCronJob(s.drawingRepo, s.drawingDomain))
	scheduler.Run(s.ctx)

	return nil
}
