package main

import (
	"QuizVoice/internal/config"
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
)

func main() {
	cfg, err := config.NewConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	// Ctrl+C прерывает текущий синтез и воспроизведение
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	c := &cli{cfg: cfg}
	err = c.rootCmd().ExecuteContext(ctx)
	stop()

	//сброс буфера логгера
	if c.logger != nil {
		_ = c.logger.Sync()
	}
	if err != nil {
		os.Exit(1)
	}
}

// newLogger development-логгер zap; без DEBUG_MODE уровень info.
func newLogger(debug bool) (*zap.SugaredLogger, error) {
	zc := zap.NewDevelopmentConfig()
	if !debug {
		zc.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}
	logger, err := zc.Build()
	if err != nil {
		return nil, err
	}
	return logger.Sugar(), nil
}
