package main

import (
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	// PROBE_SERVER points at the relay's HTTP listener; the websocket URL is derived from it.
	Server string `envconfig:"PROBE_SERVER" default:"http://localhost:3001"`
	// PROBE_COLOURS enables colorized output for better readability
	Colours     bool `envconfig:"PROBE_COLOURS" default:"true"`
	DialRetries int  `envconfig:"PROBE_DIAL_RETRIES" default:"5"`
}

func LoadConfig() (Config, error) {
	var cfg Config
	err := envconfig.Process("", &cfg)
	return cfg, err
}
