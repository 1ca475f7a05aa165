package main

import (
	"github.com/reciteclub/backend/internal/domain/cron"
	"github.com/urfave/cli/v2"
)

func (s *srv) startCron(*cli.Context) error {
	s.loadConfig()
	s.loadLogger()
	s.loadDatabase()
	s.loadRepos()

	cronJobManager := cron.NewCronJobManager()
	cronJobManager.Register(cron.NewWeeklySettlementCronJob(
		s.userRepo, s.checkinRepo, s.quizRepo, s.reportRepo))
	cronJobManager.Start(s.ctx)

	return nil
}
