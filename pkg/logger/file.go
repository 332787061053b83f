package logger

import (
	"io"
	"os"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Config is the env-driven logger setup.
type Config struct {
	Level  string `env:"LOG_LEVEL" envDefault:""`
	Format Format `env:"LOG_FORMAT" envDefault:""`
	File   FileConfig
}

// FileConfig enables a rotating log file next to stdout.
type FileConfig struct {
	Path       string `env:"LOG_FILE"`
	MaxSizeMB  int    `env:"LOG_FILE_MAX_SIZE_MB" envDefault:"50"`
	MaxBackups int    `env:"LOG_FILE_MAX_BACKUPS" envDefault:"5"`
	MaxAgeDays int    `env:"LOG_FILE_MAX_AGE_DAYS" envDefault:"14"`
	Compress   bool   `env:"LOG_FILE_COMPRESS" envDefault:"true"`
}

// RotatingFile returns a size-rotated file writer. The caller closes it on shutdown.
func RotatingFile(cfg FileConfig) io.WriteCloser {
	return &lumberjack.Logger{
		Filename:   cfg.Path,
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAgeDays,
		Compress:   cfg.Compress,
	}
}

// FromConfig turns cfg into options layered over the environment defaults.
// The returned closer releases the log file, if any.
func FromConfig(cfg Config, env, service string) ([]Option, io.Closer) {
	opts := []Option{WithEnvironment(env, service)}
	if cfg.Level != "" {
		opts = append(opts, WithLevel(ParseLevel(cfg.Level)))
	}
	if cfg.Format != "" {
		opts = append(opts, WithFormat(cfg.Format))
	}

	if cfg.File.Path == "" {
		return opts, nopCloser{}
	}

	file := RotatingFile(cfg.File)
	opts = append(opts, WithOutput(os.Stdout), WithExtraOutput(file))
	return opts, file
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
