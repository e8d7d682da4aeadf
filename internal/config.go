package internal

import (
	"time"
)

type Config struct {
	BadgerFilepath    string        `env:"BADGER_FILEPATH,required=true"`
	LogLevel          string        `env:"LOG_LEVEL,required=true"`
	CountryPrefix     string        `env:"COUNTRY_CALLING_PREFIX,default=+91"`
	AuthTokenDuration time.Duration `env:"AUTH_TOKEN_DURATION,default=24h"`
	SinkTimeout       time.Duration `env:"SINK_TIMEOUT,default=2s"`
	CodeTTL           time.Duration `env:"VERIFICATION_CODE_TTL,default=5m"`
	MaxCodeAttempts   int           `env:"MAX_CODE_ATTEMPTS,default=5"`
	StatsInterval     time.Duration `env:"STATS_INTERVAL,default=30s"`
	DebugPort         int           `env:"DEBUG_PORT,default=8081"`
}
