package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/samvad-hq/competera-client/internal/config"
	"github.com/samvad-hq/competera-client/internal/domain"
	"github.com/samvad-hq/competera-client/internal/logger"
	"github.com/samvad-hq/competera-client/internal/probe"
	"github.com/samvad-hq/competera-client/internal/storage"
	"github.com/samvad-hq/competera-client/pkg/apiclient"
	"github.com/samvad-hq/competera-client/pkg/competera"
	"github.com/samvad-hq/competera-client/pkg/publishers"
)

// Monitor represents the probe monitor runtime. It probes the API on a fixed
// interval, journals every outcome and forwards it to the configured sinks.
type Monitor struct {
	cfg           *config.Config
	fanout        *publishers.Fanout
	probeService  *probe.Service
	probeInterval time.Duration
	log           logger.Logger
	store         storage.Store
}

// NewMonitor builds a monitor runtime from config.
func NewMonitor(ctx context.Context, cfg *config.Config, log logger.Logger) (*Monitor, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if log == nil {
		log = logger.NopLogger{}
	}
	if ctx == nil {
		ctx = context.Background()
	}

	facade := newFacade(cfg, log)

	fanout, err := buildFanout(ctx, cfg.PublishersFile, log)
	if err != nil {
		return nil, err
	}

	storeOpts := storage.Options{
		RecordTTL:       cfg.StorageTTL,
		CleanupInterval: cfg.StorageCleanupInterval,
	}
	store, err := storage.NewStore(cfg.StorageType, cfg.BBoltPath, storeOpts)
	if err != nil {
		_ = fanout.Close()
		return nil, fmt.Errorf("init storage: %w", err)
	}
	log.InfoObj("storage initialized", "storage_config", map[string]any{
		"type":                     cfg.StorageType,
		"path":                     cfg.BBoltPath,
		"record_ttl_seconds":       int(cfg.StorageTTL.Seconds()),
		"cleanup_interval_seconds": int(cfg.StorageCleanupInterval.Seconds()),
	})

	return &Monitor{
		cfg:           cfg,
		fanout:        fanout,
		probeService:  probe.NewService(cfg.AppName, facade, store, fanout, log),
		probeInterval: cfg.ProbeInterval,
		log:           log,
		store:         store,
	}, nil
}

// Run starts the probe loop until the context is cancelled.
func (m *Monitor) Run(ctx context.Context) error {
	if m == nil || m.probeService == nil {
		return fmt.Errorf("monitor is not initialized")
	}
	defer m.close()

	m.log.InfoObj("monitor loop starting", "monitor_state", map[string]any{
		"publishers_count": m.fanout.Size(),
		"probe_interval":   m.probeInterval.String(),
	})

	if last, ok := m.LastResult(); ok {
		m.log.InfoObj("resuming after journaled probe", "last_probe", last)
	}

	m.runOnce(ctx)

	ticker := time.NewTicker(m.probeInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			m.log.InfoObj("monitor loop exiting", "reason", ctx.Err())
			return nil
		case <-ticker.C:
			m.runOnce(ctx)
		}
	}
}

func (m *Monitor) runOnce(ctx context.Context) {
	res, err := m.probeService.Run(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		m.log.ErrorObj("probe run failed", "error", err.Error())
		return
	}
	m.log.DebugObj("probe run completed", "probe_meta", map[string]any{
		"ok":         res.OK,
		"latency_ms": res.LatencyMs,
	})
}

// LastResult returns the newest journaled probe, if any.
func (m *Monitor) LastResult() (domain.ProbeResult, bool) {
	if m == nil || m.store == nil {
		return domain.ProbeResult{}, false
	}
	recent, err := m.store.Recent(1)
	if err != nil {
		m.log.WarnObj("journal read failed", "error", err.Error())
		return domain.ProbeResult{}, false
	}
	if len(recent) == 0 {
		return domain.ProbeResult{}, false
	}
	return recent[0], true
}

// close releases the storage backend and publisher connections, logging any errors encountered.
func (m *Monitor) close() {
	if m.store != nil {
		if err := m.store.Close(); err != nil {
			m.log.ErrorObj("storage close failed", "error", err.Error())
		}
	}
	if err := m.fanout.Close(); err != nil {
		m.log.ErrorObj("publishers close failed", "error", err.Error())
	}
}

func newFacade(cfg *config.Config, log logger.Logger) *competera.Service {
	client := apiclient.NewClient(
		apiclient.WithTimeout(cfg.RequestTimeout),
		apiclient.WithLogger(log),
	)
	return competera.NewService(competera.Credentials{
		BaseURL:  cfg.APIBaseURL,
		Username: cfg.APIUsername,
		APIKey:   cfg.APIKey,
	}, client)
}

// buildFanout loads the optional publishers file. Without one the fanout is empty.
func buildFanout(ctx context.Context, path string, log logger.Logger) (*publishers.Fanout, error) {
	if strings.TrimSpace(path) == "" {
		log.InfoObj("no publishers file configured", "publishers_meta", map[string]any{"count": 0})
		return publishers.NewFanout(nil), nil
	}

	enabled, err := publishers.LoadEnabled(path)
	if err != nil {
		return nil, fmt.Errorf("load publishers: %w", err)
	}

	pubClients, err := publishers.DefaultRegistry().Build(ctx, enabled, log)
	if err != nil {
		return nil, fmt.Errorf("build publishers: %w", err)
	}

	summaries := make([]map[string]string, 0, len(enabled))
	for _, pubCfg := range enabled {
		summaries = append(summaries, map[string]string{
			"id":   pubCfg.ID,
			"type": pubCfg.Type,
		})
	}
	log.InfoObj("publishers registry loaded", "publishers_meta", map[string]any{
		"count":      len(summaries),
		"publishers": summaries,
	})
	return publishers.NewFanout(pubClients), nil
}
