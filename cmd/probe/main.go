package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/samvad-hq/competera-client/internal/app"
	"github.com/samvad-hq/competera-client/internal/config"
	"github.com/samvad-hq/competera-client/internal/logger"
	"github.com/samvad-hq/competera-client/pkg/apiclient"
)

func main() {
	if err := run(); err != nil {
		var svcErr *apiclient.ServiceError
		if errors.As(err, &svcErr) {
			fmt.Fprintf(os.Stderr, "api check failed (code %d): %s\n", svcErr.APIErrorCode(), svcErr.APIErrorMessage())
		} else {
			fmt.Fprintf(os.Stderr, "probe failed: %v\n", err)
		}
		os.Exit(1)
	}
	fmt.Println("ok")
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := logger.Init(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Close()

	logger.DebugObj("probe starting", "config", cfg.Redacted())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	checker, err := app.NewChecker(cfg, log)
	if err != nil {
		return err
	}
	return checker.Run(ctx)
}
