package main

import (
	"context"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/reciteclub/backend/config"
	"github.com/reciteclub/backend/internal/domain"
	"github.com/reciteclub/backend/internal/repository"
	"github.com/reciteclub/backend/migration"
	"github.com/reciteclub/backend/pkg/logger"
	"github.com/reciteclub/backend/pkg/router"
	"github.com/reciteclub/backend/pkg/xcontext"
	"github.com/reciteclub/backend/pkg/xredis"
	"github.com/urfave/cli/v2"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

type srv struct {
	ctx context.Context
	app *cli.App

	userRepo       repository.UserRepository
	checkinRepo    repository.CheckinRepository
	quizRepo       repository.QuizRepository
	friendshipRepo repository.FriendshipRepository
	reportRepo     repository.WeeklyReportRepository

	userDomain       domain.UserDomain
	checkinDomain    domain.CheckinDomain
	quizDomain       domain.QuizDomain
	friendshipDomain domain.FriendshipDomain
	statisticDomain  domain.StatisticDomain
	migrationDomain  domain.MigrationDomain

	redisClient xredis.Client
	router      *router.Router
	server      *http.Server
}

func (s *srv) loadConfig() {
	cfg := config.Configs{
		Env: getEnv("ENV", "local"),
		Database: config.DatabaseConfigs{
			Host:     getEnv("MYSQL_HOST", "localhost"),
			Port:     getEnv("MYSQL_PORT", "3306"),
			Database: getEnv("MYSQL_DATABASE", "reciteclub"),
			User:     getEnv("MYSQL_USER", "reciteclub"),
			Password: getEnv("MYSQL_PASSWORD", "reciteclub"),
		},
		ApiServer: config.APIServerConfigs{
			Host:         getEnv("HOST", "localhost"),
			Port:         getEnv("PORT", "8080"),
			MaxLimit:     getEnvAsInt("API_MAX_LIMIT", 50),
			DefaultLimit: getEnvAsInt("API_DEFAULT_LIMIT", 10),
		},
		Auth: config.AuthConfigs{
			TokenSecret: getEnv("TOKEN_SECRET", "token-secret"),
			AccessToken: config.TokenConfigs{
				Name:       "access_token",
				Expiration: getEnvAsDuration("ACCESS_TOKEN_DURATION", 48*time.Hour),
			},
		},
		Redis: config.RedisConfigs{
			Addr: getEnv("REDIS_ADDRESS", "localhost:6379"),
		},
		Quiz: config.QuizConfigs{
			MaxQuestions: getEnvAsInt("QUIZ_MAX_QUESTIONS", 10),
		},
		Settlement: config.SettlementConfigs{
			BatchSize:         getEnvAsInt("SETTLEMENT_BATCH_SIZE", 100),
			BatchSleep:        getEnvAsDuration("SETTLEMENT_BATCH_SLEEP", 100*time.Millisecond),
			CountSkipCheckins: getEnvAsBool("SETTLEMENT_COUNT_SKIP_CHECKINS", true),
			CountSkipQuizzes:  getEnvAsBool("SETTLEMENT_COUNT_SKIP_QUIZZES", false),
			MissPenalty:       getEnvAsInt("SETTLEMENT_MISS_PENALTY", 2),
		},
	}

	s.ctx = xcontext.WithConfigs(context.Background(), cfg)
}

func (s *srv) loadLogger() {
	level := logger.INFO
	if xcontext.Configs(s.ctx).Env == "local" {
		level = logger.DEBUG
	}

	s.ctx = xcontext.WithLogger(s.ctx, logger.NewLogger(level))
}

func (s *srv) loadDatabase() {
	dbCfg := xcontext.Configs(s.ctx).Database
	db, err := gorm.Open(mysql.Open(dbCfg.ConnectionString()), &gorm.Config{})
	if err != nil {
		panic(err)
	}

	s.ctx = xcontext.WithDB(s.ctx, db)
	if err := migration.AutoMigrate(s.ctx); err != nil {
		panic(err)
	}
}

func (s *srv) loadRedisClient() {
	var err error
	s.redisClient, err = xredis.NewClient(s.ctx)
	if err != nil {
		panic(err)
	}
}

func (s *srv) loadRepos() {
	s.userRepo = repository.NewUserRepository()
	s.checkinRepo = repository.NewCheckinRepository()
	s.quizRepo = repository.NewQuizRepository()
	s.friendshipRepo = repository.NewFriendshipRepository()
	s.reportRepo = repository.NewWeeklyReportRepository()
}

func (s *srv) loadDomains() {
	s.userDomain = domain.NewUserDomain(s.userRepo)
	s.checkinDomain = domain.NewCheckinDomain(s.checkinRepo, s.userRepo)
	s.quizDomain = domain.NewQuizDomain(s.quizRepo, s.userRepo, s.friendshipRepo)
	s.friendshipDomain = domain.NewFriendshipDomain(s.friendshipRepo, s.userRepo)
	s.statisticDomain = domain.NewStatisticDomain(
		s.userRepo, s.friendshipRepo, s.reportRepo, s.redisClient)
	s.migrationDomain = domain.NewMigrationDomain(s.userRepo, s.friendshipRepo)
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}

	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	value, err := strconv.Atoi(getEnv(key, ""))
	if err != nil {
		return fallback
	}

	return value
}

func getEnvAsBool(key string, fallback bool) bool {
	value, err := strconv.ParseBool(getEnv(key, ""))
	if err != nil {
		return fallback
	}

	return value
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	value, err := time.ParseDuration(getEnv(key, ""))
	if err != nil {
		return fallback
	}

	return value
}
