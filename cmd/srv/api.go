package main

import (
	"fmt"
	"net/http"

	"github.com/reciteclub/backend/internal/middleware"
	"github.com/reciteclub/backend/pkg/router"
	"github.com/reciteclub/backend/pkg/xcontext"
	"github.com/urfave/cli/v2"
)

func (s *srv) startApi(*cli.Context) error {
	s.loadConfig()
	s.loadLogger()
	s.loadDatabase()
	s.loadRedisClient()
	s.loadRepos()
	s.loadDomains()
	s.loadRouter()

	cfg := xcontext.Configs(s.ctx).ApiServer
	s.server = &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Port),
		Handler: s.router.Handler(),
	}

	xcontext.Logger(s.ctx).Infof("Starting api server on port %s", cfg.Port)
	if err := s.server.ListenAndServe(); err != nil {
		panic(err)
	}

	return nil
}

func (s *srv) loadRouter() {
	s.router = router.New(s.ctx)

	// Public API
	router.POST(s.router, "/resolveUser", s.userDomain.Resolve)

	// These following APIs need authentication.
	authRouter := s.router.Branch("")
	authRouter.Before(middleware.Authenticate())
	{
		// User API
		router.GET(authRouter, "/getMe", s.userDomain.GetMe)
		router.GET(authRouter, "/getUser", s.userDomain.GetUser)

		// Check-in API
		router.POST(authRouter, "/checkin", s.checkinDomain.Checkin)
		router.POST(authRouter, "/useSkipCard", s.checkinDomain.UseSkipCard)

		// Quiz API
		router.POST(authRouter, "/recordQuiz", s.quizDomain.Record)
		router.POST(authRouter, "/useSkipQuiz", s.quizDomain.UseSkipQuiz)
		router.GET(authRouter, "/getQuizHistory", s.quizDomain.GetHistory)

		// Friendship API
		router.POST(authRouter, "/sendFriendRequest", s.friendshipDomain.SendRequest)
		router.POST(authRouter, "/acceptFriendRequest", s.friendshipDomain.AcceptRequest)
		router.POST(authRouter, "/rejectFriendRequest", s.friendshipDomain.RejectRequest)
		router.POST(authRouter, "/deleteFriend", s.friendshipDomain.Delete)
		router.GET(authRouter, "/getFriends", s.friendshipDomain.GetFriends)
		router.GET(authRouter, "/getFriendRequests", s.friendshipDomain.GetRequests)
		router.GET(authRouter, "/checkRelation", s.friendshipDomain.CheckRelation)

		// Statistic API
		router.GET(authRouter, "/getLeaderboard", s.statisticDomain.GetLeaderboard)
		router.GET(authRouter, "/getWeeklyReports", s.statisticDomain.GetWeeklyReports)
	}
}
