package cron

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/reciteclub/backend/config"
	"github.com/reciteclub/backend/internal/entity"
	"github.com/reciteclub/backend/internal/repository"
	"github.com/reciteclub/backend/pkg/dateutil"
	"github.com/reciteclub/backend/pkg/xcontext"
)

// WeeklySettlementCronJob aggregates every user's last week into a
// WeeklyReport and applies the weekly score delta. It runs on Monday just
// after the week closes. The unique (user_id, week_start) index on the report
// makes a re-run of an already-settled week a no-op per user, so a crashed
// run is simply started again.
type WeeklySettlementCronJob struct {
	userRepo    repository.UserRepository
	checkinRepo repository.CheckinRepository
	quizRepo    repository.QuizRepository
	reportRepo  repository.WeeklyReportRepository
}

func NewWeeklySettlementCronJob(
	userRepo repository.UserRepository,
	checkinRepo repository.CheckinRepository,
	quizRepo repository.QuizRepository,
	reportRepo repository.WeeklyReportRepository,
) *WeeklySettlementCronJob {
	return &WeeklySettlementCronJob{
		userRepo:    userRepo,
		checkinRepo: checkinRepo,
		quizRepo:    quizRepo,
		reportRepo:  reportRepo,
	}
}

func (job *WeeklySettlementCronJob) Do(ctx context.Context) {
	weekStart := dateutil.LastWeek(time.Now())
	processed, errs := job.settleWeek(ctx, weekStart)

	for _, err := range errs {
		xcontext.Logger(ctx).Warnf("Weekly settlement: %v", err)
	}

	xcontext.Logger(ctx).Infof("Weekly settlement of %s done: %d users, %d errors",
		dateutil.Day(weekStart), processed, len(errs))
}

// settleWeek settles the week starting at weekStart (a Monday) for all users.
// Per-user failures are collected and never abort the run.
func (job *WeeklySettlementCronJob) settleWeek(
	ctx context.Context, weekStart time.Time,
) (int, []error) {
	cfg := xcontext.Configs(ctx).Settlement
	batchSize := cfg.BatchSize
	if batchSize <= 0 {
		batchSize = 100
	}

	processed := 0
	errs := []error{}
	afterID := ""
	for {
		users, err := job.userRepo.GetList(ctx, afterID, batchSize)
		if err != nil {
			errs = append(errs, fmt.Errorf("cannot list users: %w", err))
			return processed, errs
		}

		if len(users) == 0 {
			break
		}

		for i := range users {
			if err := job.settleUser(ctx, &users[i], weekStart, cfg); err != nil {
				if errors.Is(err, repository.ErrAlreadyExists) {
					continue
				}

				errs = append(errs, fmt.Errorf("cannot settle user %s: %w", users[i].ID, err))
				continue
			}

			processed++
		}

		afterID = users[len(users)-1].ID
		if cfg.BatchSleep > 0 {
			time.Sleep(cfg.BatchSleep)
		}
	}

	return processed, errs
}

func (job *WeeklySettlementCronJob) settleUser(
	ctx context.Context, user *entity.User, weekStart time.Time, cfg config.SettlementConfigs,
) error {
	fromDay := dateutil.Day(weekStart)
	toDay := dateutil.Day(weekStart.AddDate(0, 0, 7))

	checkinDays, err := job.checkinRepo.CountByUserRange(
		ctx, user.ID, fromDay, toDay, cfg.CountSkipCheckins)
	if err != nil {
		return err
	}

	if checkinDays > 7 {
		checkinDays = 7
	}

	quizzes, err := job.quizRepo.GetListByUserRange(ctx, user.ID, fromDay, toDay)
	if err != nil {
		return err
	}

	// The weekly quiz subtotal is folded in record order with a floor of
	// zero applied after every record, so one bad day cannot eat the whole
	// week.
	maxQuestions := xcontext.Configs(ctx).Quiz.MaxQuestions
	var quizScore int64
	quizCount := 0
	for _, quiz := range quizzes {
		if quiz.Role != entity.QuizRoleSelf {
			continue
		}

		if quiz.IsSkip && !cfg.CountSkipQuizzes {
			continue
		}

		quizCount++
		if quiz.CorrectCount == maxQuestions && quiz.WrongCount == 0 {
			quizScore += 2
		} else {
			quizScore -= int64(quiz.WrongCount)
		}

		if quizScore < 0 {
			quizScore = 0
		}
	}

	penalty := int64(7-checkinDays) * int64(cfg.MissPenalty)
	weeklyTotal := checkinDays + quizScore - penalty

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	err = job.reportRepo.Create(ctx, &entity.WeeklyReport{
		Base:        entity.Base{ID: uuid.NewString()},
		UserID:      user.ID,
		WeekStart:   fromDay,
		WeekEnd:     toDay,
		CheckinDays: int(checkinDays),
		QuizCount:   quizCount,
		TotalScore:  weeklyTotal,
	})
	if err != nil {
		// ErrAlreadyExists means this week was settled before.
		return err
	}

	if err := job.userRepo.ApplyWeeklyScore(ctx, user.ID, weeklyTotal); err != nil {
		return err
	}

	xcontext.WithCommitDBTransaction(ctx)
	return nil
}

func (job *WeeklySettlementCronJob) RunNow() bool {
	return false
}

func (job *WeeklySettlementCronJob) Next() time.Time {
	return dateutil.NextWeek(time.Now())
}
