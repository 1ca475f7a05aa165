package config

import (
	"fmt"
	"time"
)

type Configs struct {
	Env string

	Database   DatabaseConfigs
	ApiServer  APIServerConfigs
	Auth       AuthConfigs
	Redis      RedisConfigs
	Quiz       QuizConfigs
	Settlement SettlementConfigs
}

type DatabaseConfigs struct {
	Host     string
	Port     string
	Database string
	User     string
	Password string
}

func (d *DatabaseConfigs) ConnectionString() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		d.User,
		d.Password,
		d.Host,
		d.Port,
		d.Database,
	)
}

type APIServerConfigs struct {
	Host         string
	Port         string
	MaxLimit     int
	DefaultLimit int
}

type AuthConfigs struct {
	TokenSecret string
	AccessToken TokenConfigs
}

type TokenConfigs struct {
	Name       string
	Expiration time.Duration
}

type RedisConfigs struct {
	Addr string
}

type QuizConfigs struct {
	// MaxQuestions is the deck size of a recitation quiz. The correct and
	// wrong tallies of a single quiz never sum to more than this.
	MaxQuestions int
}

type SettlementConfigs struct {
	BatchSize  int
	BatchSleep time.Duration

	// CountSkipCheckins and CountSkipQuizzes control whether events produced
	// by consuming a skip privilege count toward the weekly aggregation the
	// same way real ones do.
	CountSkipCheckins bool
	CountSkipQuizzes  bool

	// MissPenalty is the score subtracted for every day of the settled week
	// without a check-in.
	MissPenalty int
}
