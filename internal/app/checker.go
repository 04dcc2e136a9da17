package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/samvad-hq/competera-client/internal/config"
	"github.com/samvad-hq/competera-client/internal/logger"
	"github.com/samvad-hq/competera-client/pkg/apiclient"
	"github.com/samvad-hq/competera-client/pkg/competera"
)

// Checker runs a single connectivity probe against the API.
type Checker struct {
	facade *competera.Service
	log    logger.Logger
}

// NewChecker builds a one-shot checker from config.
func NewChecker(cfg *config.Config, log logger.Logger) (*Checker, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if log == nil {
		log = logger.NopLogger{}
	}
	return &Checker{facade: newFacade(cfg, log), log: log}, nil
}

// Run probes the API once. API failures are returned as *apiclient.ServiceError.
func (c *Checker) Run(ctx context.Context) error {
	if c == nil || c.facade == nil {
		return fmt.Errorf("checker is not initialized")
	}

	start := time.Now()
	ok, err := c.facade.Test(ctx)
	err = competera.RedactError(err)
	meta := map[string]any{
		"target":     c.facade.BaseURL(),
		"ok":         ok,
		"elapsed_ms": time.Since(start).Milliseconds(),
	}
	if err != nil {
		var svcErr *apiclient.ServiceError
		if errors.As(err, &svcErr) {
			meta["error_code"] = svcErr.APIErrorCode()
		}
		meta["error"] = err.Error()
		c.log.ErrorObj("api check failed", "check_result", meta)
		return err
	}
	c.log.InfoObj("api check succeeded", "check_result", meta)
	return nil
}
