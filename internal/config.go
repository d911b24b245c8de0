package internal

import "time"

type Config struct {
	ListenAddr           string        `env:"LISTEN_ADDR,required=true"`
	BadgerFilepath       string        `env:"BADGER_FILEPATH,required=true"`
	PostgresDSN          string        `env:"POSTGRES_DSN"`
	LogLevel             string        `env:"LOG_LEVEL,required=true"`
	HistoryBufferSize    int           `env:"HISTORY_BUFFER_SIZE,required=true"`
	ConnectionBufferSize int           `env:"CONNECTION_BUFFER_SIZE,required=true"`
	ReadTimeout          time.Duration `env:"READ_TIMEOUT,required=true"`
	ShutdownTimeout      time.Duration `env:"SHUTDOWN_TIMEOUT,required=true"`
	WorkerRestartDelay   time.Duration `env:"WORKER_RESTART_DELAY,required=true"`
}
