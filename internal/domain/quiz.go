package domain

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/reciteclub/backend/internal/entity"
	"github.com/reciteclub/backend/internal/model"
	"github.com/reciteclub/backend/internal/repository"
	"github.com/reciteclub/backend/pkg/dateutil"
	"github.com/reciteclub/backend/pkg/enum"
	"github.com/reciteclub/backend/pkg/errorx"
	"github.com/reciteclub/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type QuizDomain interface {
	Record(ctx context.Context, req *model.RecordQuizRequest) (*model.RecordQuizResponse, error)
	UseSkipQuiz(ctx context.Context, req *model.UseSkipQuizRequest) (*model.UseSkipQuizResponse, error)
	GetHistory(ctx context.Context, req *model.GetQuizHistoryRequest) (*model.GetQuizHistoryResponse, error)
}

type quizDomain struct {
	quizRepo       repository.QuizRepository
	userRepo       repository.UserRepository
	friendshipRepo repository.FriendshipRepository
}

func NewQuizDomain(
	quizRepo repository.QuizRepository,
	userRepo repository.UserRepository,
	friendshipRepo repository.FriendshipRepository,
) *quizDomain {
	return &quizDomain{
		quizRepo:       quizRepo,
		userRepo:       userRepo,
		friendshipRepo: friendshipRepo,
	}
}

// Record stores one graded recitation and applies the score it earns.
//
// A self-graded quiz scores the acting user: a perfect deck is worth 2, any
// mistakes cost one point each. A peer-graded quiz scores the graded friend:
// correct minus wrong (never below zero), plus a bonus point for a perfect
// deck. Peer grading also makes the two users friends if they were not yet.
func (d *quizDomain) Record(
	ctx context.Context, req *model.RecordQuizRequest,
) (*model.RecordQuizResponse, error) {
	userID := xcontext.RequestUserID(ctx)
	if userID == "" {
		return nil, errorx.New(errorx.Unauthenticated, "Not authenticated")
	}

	if req.CorrectCount < 0 || req.WrongCount < 0 {
		return nil, errorx.New(errorx.BadRequest, "Not allow a negative tally")
	}

	total := req.CorrectCount + req.WrongCount
	maxQuestions := xcontext.Configs(ctx).Quiz.MaxQuestions
	if total == 0 || total > maxQuestions {
		return nil, errorx.New(errorx.BadRequest,
			"Tally must be between 1 and %d questions", maxQuestions)
	}

	role, err := enum.ToEnum[entity.QuizRole](req.Role)
	if err != nil {
		return nil, errorx.New(errorx.BadRequest, "Invalid role %s", req.Role)
	}

	scoredUserID := userID
	friendID := sql.NullString{}
	if role == entity.QuizRolePeer {
		if req.FriendID == "" {
			return nil, errorx.New(errorx.BadRequest, "Require a friend to grade")
		}

		if req.FriendID == userID {
			return nil, errorx.New(errorx.BadRequest, "Cannot peer-grade yourself")
		}

		if _, err := d.userRepo.GetByID(ctx, req.FriendID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, errorx.New(errorx.NotFound, "Not found user")
			}

			xcontext.Logger(ctx).Errorf("Cannot get graded friend: %v", err)
			return nil, errorx.Unknown
		}

		scoredUserID = req.FriendID
		friendID = sql.NullString{String: req.FriendID, Valid: true}
	}

	perfect := req.CorrectCount == maxQuestions && req.WrongCount == 0
	var delta int64
	if role == entity.QuizRoleSelf {
		if perfect {
			delta = 2
		} else {
			delta = -int64(req.WrongCount)
		}
	} else {
		delta = int64(req.CorrectCount - req.WrongCount)
		if delta < 0 {
			delta = 0
		}

		if perfect {
			delta++
		}
	}

	now := time.Now()
	quiz := &entity.Quiz{
		Base:         entity.Base{ID: uuid.NewString()},
		UserID:       userID,
		FriendID:     friendID,
		CorrectCount: req.CorrectCount,
		WrongCount:   req.WrongCount,
		Role:         role,
		Day:          dateutil.Day(now),
	}

	if req.RequestID != "" {
		quiz.RequestID = sql.NullString{String: req.RequestID, Valid: true}
	}

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	if err := d.quizRepo.Create(ctx, quiz); err != nil {
		if errors.Is(err, repository.ErrAlreadyExists) {
			return nil, errorx.New(errorx.AlreadyExists, "Duplicated submission")
		}

		xcontext.Logger(ctx).Errorf("Cannot create quiz: %v", err)
		return nil, errorx.Unknown
	}

	if delta != 0 {
		if err := d.userRepo.ApplyScoreDelta(ctx, scoredUserID, delta); err != nil {
			xcontext.Logger(ctx).Errorf("Cannot apply quiz score: %v", err)
			return nil, errorx.Unknown
		}
	}

	if role == entity.QuizRolePeer {
		acceptedAt := sql.NullTime{Time: now, Valid: true}
		pairs := [][2]string{{userID, req.FriendID}, {req.FriendID, userID}}
		for _, pair := range pairs {
			err := d.friendshipRepo.UpsertAccepted(ctx, &entity.Friendship{
				Base:        entity.Base{ID: uuid.NewString()},
				UserID:      pair[0],
				FriendID:    pair[1],
				RequestedAt: now,
				AcceptedAt:  acceptedAt,
			})
			if err != nil {
				xcontext.Logger(ctx).Errorf("Cannot auto-friend after peer quiz: %v", err)
				return nil, errorx.Unknown
			}
		}
	}

	user, err := d.userRepo.GetByID(ctx, scoredUserID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get scored user: %v", err)
		return nil, errorx.Unknown
	}

	xcontext.WithCommitDBTransaction(ctx)

	return &model.RecordQuizResponse{
		QuizID:     quiz.ID,
		ScoreDelta: delta,
		NewScore:   user.Score,
	}, nil
}

// UseSkipQuiz consumes a skip-quiz privilege to stand in for today's
// recitation. It records a perfect self quiz marked as a skip and credits the
// perfect-deck score, exactly as if the user had recited flawlessly.
func (d *quizDomain) UseSkipQuiz(
	ctx context.Context, req *model.UseSkipQuizRequest,
) (*model.UseSkipQuizResponse, error) {
	userID := xcontext.RequestUserID(ctx)
	if userID == "" {
		return nil, errorx.New(errorx.Unauthenticated, "Not authenticated")
	}

	now := time.Now()
	day := dateutil.Day(now)

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	exists, err := d.quizRepo.ExistsOnDay(ctx, userID, day)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot check today quiz: %v", err)
		return nil, errorx.Unknown
	}

	if exists {
		return nil, errorx.New(errorx.AlreadyExists, "Already has a quiz today")
	}

	if err := d.userRepo.DecreaseSkipQuiz(ctx, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.Unavailable, "No skip quiz available")
		}

		xcontext.Logger(ctx).Errorf("Cannot decrease skip quiz: %v", err)
		return nil, errorx.Unknown
	}

	// The unique (user_id, skip_day) index is the real arbiter: when two
	// calls race past the read above, one insert conflicts and its rollback
	// returns the debited privilege.
	err = d.quizRepo.Create(ctx, &entity.Quiz{
		Base:         entity.Base{ID: uuid.NewString()},
		UserID:       userID,
		CorrectCount: xcontext.Configs(ctx).Quiz.MaxQuestions,
		WrongCount:   0,
		Role:         entity.QuizRoleSelf,
		Day:          day,
		IsSkip:       true,
		SkipDay:      sql.NullString{String: day, Valid: true},
	})
	if err != nil {
		if errors.Is(err, repository.ErrAlreadyExists) {
			return nil, errorx.New(errorx.AlreadyExists, "Already has a quiz today")
		}

		xcontext.Logger(ctx).Errorf("Cannot create skip quiz: %v", err)
		return nil, errorx.Unknown
	}

	if err := d.userRepo.ApplyScoreDelta(ctx, userID, 2); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot apply skip quiz score: %v", err)
		return nil, errorx.Unknown
	}

	user, err := d.userRepo.GetByID(ctx, userID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get user: %v", err)
		return nil, errorx.Unknown
	}

	xcontext.WithCommitDBTransaction(ctx)

	return &model.UseSkipQuizResponse{
		SkipQuizCount: user.SkipQuizCount,
		ScoreDelta:    2,
		NewScore:      user.Score,
	}, nil
}

func (d *quizDomain) GetHistory(
	ctx context.Context, req *model.GetQuizHistoryRequest,
) (*model.GetQuizHistoryResponse, error) {
	userID := xcontext.RequestUserID(ctx)
	if userID == "" {
		return nil, errorx.New(errorx.Unauthenticated, "Not authenticated")
	}

	cfg := xcontext.Configs(ctx).ApiServer
	if req.Limit == 0 {
		req.Limit = cfg.DefaultLimit
	}

	if req.Limit < 0 {
		return nil, errorx.New(errorx.BadRequest, "Limit must be positive")
	}

	if req.Limit > cfg.MaxLimit {
		return nil, errorx.New(errorx.BadRequest, "Exceed the maximum of limit (%d)", cfg.MaxLimit)
	}

	if req.Offset < 0 {
		return nil, errorx.New(errorx.BadRequest, "Offset must be non-negative")
	}

	filter := repository.QuizHistoryFilter{
		UserID: userID,
		Offset: req.Offset,
		Limit:  req.Limit,
	}

	switch req.Type {
	case "sent":
		filter.Sent = true
	case "received":
		filter.Received = true
	case "", "all":
	default:
		return nil, errorx.New(errorx.BadRequest, "Invalid history type %s", req.Type)
	}

	quizzes, err := d.quizRepo.GetHistory(ctx, filter)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get quiz history: %v", err)
		return nil, errorx.Unknown
	}

	userIDs := []string{}
	seen := map[string]bool{}
	for _, quiz := range quizzes {
		for _, id := range []string{quiz.UserID, quiz.FriendID.String} {
			if id != "" && !seen[id] {
				seen[id] = true
				userIDs = append(userIDs, id)
			}
		}
	}

	users, err := d.userRepo.GetByIDs(ctx, userIDs)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get quiz participants: %v", err)
		return nil, errorx.Unknown
	}

	userMap := map[string]*entity.User{}
	for i := range users {
		userMap[users[i].ID] = &users[i]
	}

	records := []model.QuizRecord{}
	for _, quiz := range quizzes {
		record := model.QuizRecord{
			ID:           quiz.ID,
			User:         model.ConvertShortUser(userMap[quiz.UserID]),
			CorrectCount: quiz.CorrectCount,
			WrongCount:   quiz.WrongCount,
			Role:         string(quiz.Role),
			IsSkip:       quiz.IsSkip,
			Day:          quiz.Day,
		}

		if quiz.FriendID.Valid {
			record.Friend = model.ConvertShortUser(userMap[quiz.FriendID.String])
		}

		records = append(records, record)
	}

	return &model.GetQuizHistoryResponse{Records: records}, nil
}
