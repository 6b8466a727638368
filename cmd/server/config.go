package main

import "time"

type Config struct {
	Host                 string        `env:"HOST,default=0.0.0.0"`
	Port                 int           `env:"PORT,default=3001"`
	LogLevel             string        `env:"LOG_LEVEL,default=info"`
	ConnectionBufferSize int           `env:"CONNECTION_BUFFER_SIZE,default=32"`
	MaxFrameBytes        int64         `env:"MAX_FRAME_BYTES,default=52428800"`
	MetricInterval       time.Duration `env:"METRIC_INTERVAL,default=30s"`
	ShutdownTimeout      time.Duration `env:"SHUTDOWN_TIMEOUT,default=5s"`
}
