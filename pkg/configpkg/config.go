// Package configpkg provides parsing functionality for environment variables.
package configpkg

import (
	"time"

	"github.com/spf13/viper"
)

// Supported withdrawal lock kinds.
const (
	LockNone   = "none"
	LockMemory = "memory"
	LockRedis  = "redis"
)

// Config stores all configuration of the application.
//
// The values are read by viper fron a config file or environement variables.
type Config struct {
	DBDriver             string        `mapstructure:"DB_DRIVER"`
	DBSource             string        `mapstructure:"DB_SOURCE"`
	DBConnectTimeout     time.Duration `mapstructure:"DB_CONNECT_TIMEOUT"`
	ServerAddress        string        `mapstructure:"SERVER_ADDRESS"`
	TokenType            string        `mapstructure:"TOKEN_TYPE"`
	TokenSymmetricKey    string        `mapstructure:"TOKEN_SYMMETRIC_KEY"`
	AccessTokenDuration  time.Duration `mapstructure:"ACCESS_TOKEN_DURATION"`
	RefreshTokenDuration time.Duration `mapstructure:"REFRESH_TOKEN_DURATION"`
	Environement         string        `mapstructure:"GO_ENV"`
	LoginRateLimit       float64       `mapstructure:"LOGIN_RATE_LIMIT"`
	WithdrawalLock       string        `mapstructure:"WITHDRAWAL_LOCK"`
	RedisAddress         string        `mapstructure:"REDIS_ADDRESS"`
	LockTTL              time.Duration `mapstructure:"LOCK_TTL"`
}

// Load read configuration from file or environment variables.
func Load(path string) (Config, error) {
	var c Config

	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("app")
	v.SetConfigType("env")

	v.SetDefault("DB_CONNECT_TIMEOUT", 30*time.Second)
	v.SetDefault("TOKEN_TYPE", "paseto")
	v.SetDefault("WITHDRAWAL_LOCK", LockNone)
	v.SetDefault("LOCK_TTL", 5*time.Second)

	v.AutomaticEnv()

	err := v.ReadInConfig()
	if err != nil {
		return c, err
	}

	err = v.Unmarshal(&c)
	if err != nil {
		return c, err
	}

	return c, nil
}
