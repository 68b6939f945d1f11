package main

import (
	"context"
	"mome/internal/logger"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// a wallet prompt can block for minutes; ctrl+c abandons it
	go func() {
		select {
		case <-waitForInterrupt():
			logger.Info("interrupt received, cancelling")
			cancel()
		case <-ctx.Done():
		}
	}()

	err := NewRootCmd().ExecuteContext(ctx)
	logger.Sync()
	if err != nil {
		printError(err)
		os.Exit(1)
	}
}

func waitForInterrupt() <-chan os.Signal {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	return sigCh
}
