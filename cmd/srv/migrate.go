package main

import (
	"github.com/reciteclub/backend/internal/model"
	"github.com/reciteclub/backend/pkg/xcontext"
	"github.com/urfave/cli/v2"
)

func (s *srv) startMigrateFriends(ct *cli.Context) error {
	s.loadConfig()
	s.loadLogger()
	s.loadDatabase()
	s.loadRepos()
	s.loadDomains()

	dryRun := ct.Bool("dry-run")
	batchSize := ct.Int("batch-size")

	if ct.Bool("cleanup") {
		resp, err := s.migrationDomain.CleanupLegacyFriends(s.ctx,
			&model.CleanupLegacyFriendsRequest{DryRun: dryRun, BatchSize: batchSize})
		if err != nil {
			return err
		}

		for _, msg := range resp.Errors {
			xcontext.Logger(s.ctx).Warnf("Cleanup: %s", msg)
		}

		xcontext.Logger(s.ctx).Infof("Cleanup done (dry-run=%t): %d users checked, %d cleaned, %d errors",
			dryRun, resp.Processed, resp.Cleaned, len(resp.Errors))
		return nil
	}

	resp, err := s.migrationDomain.MigrateFriends(s.ctx,
		&model.MigrateFriendsRequest{DryRun: dryRun, BatchSize: batchSize})
	if err != nil {
		return err
	}

	for _, msg := range resp.Errors {
		xcontext.Logger(s.ctx).Warnf("Migration: %s", msg)
	}

	xcontext.Logger(s.ctx).Infof("Migration done (dry-run=%t): %d users, %d edges, %d errors",
		dryRun, resp.Processed, resp.Migrated, len(resp.Errors))
	return nil
}
