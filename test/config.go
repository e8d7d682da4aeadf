package test

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config carries the knobs the scenario tests honor, so a slow CI runner
// can stretch the timeouts without touching the code.
type Config struct {
	CodeTTL      time.Duration `envconfig:"SCENARIO_CODE_TTL" default:"5m"`
	MaxAttempts  int           `envconfig:"SCENARIO_MAX_ATTEMPTS" default:"5"`
	SinkTimeout  time.Duration `envconfig:"SCENARIO_SINK_TIMEOUT" default:"2s"`
	WaitDeadline time.Duration `envconfig:"SCENARIO_WAIT_DEADLINE" default:"2s"`
}

func LoadConfig() (Config, error) {
	var cfg Config
	err := envconfig.Process("", &cfg)
	return cfg, err
}
