package probe

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/samvad-hq/competera-client/internal/domain"
	"github.com/samvad-hq/competera-client/internal/logger"
	"github.com/samvad-hq/competera-client/pkg/apiclient"
	"github.com/samvad-hq/competera-client/pkg/competera"
	"github.com/samvad-hq/competera-client/pkg/publishers"
)

// Service runs connectivity probes and distributes their outcome.
type Service struct {
	name      string
	prober    Prober
	recorder  Recorder
	publisher EventPublisher
	log       logger.Logger
	now       func() time.Time
}

// NewService wires a probe runner. recorder and publisher may be nil.
func NewService(name string, prober Prober, recorder Recorder, publisher EventPublisher, log logger.Logger) *Service {
	if log == nil {
		log = logger.NopLogger{}
	}
	return &Service{
		name:      name,
		prober:    prober,
		recorder:  recorder,
		publisher: publisher,
		log:       log,
		now:       time.Now,
	}
}

// Run probes the API once. A probe that fails against the API is not an
// error of Run; the failure is carried in the returned result. Run only
// errors when the journal or a sink fails, or when ctx is cancelled.
func (s *Service) Run(ctx context.Context) (domain.ProbeResult, error) {
	if s == nil || s.prober == nil {
		return domain.ProbeResult{}, fmt.Errorf("probe service is not initialized")
	}

	start := s.now()
	ok, err := s.prober.Test(ctx)
	if ctxErr := ctx.Err(); ctxErr != nil {
		return domain.ProbeResult{}, ctxErr
	}

	res := domain.ProbeResult{
		ID:        uuid.NewString(),
		Target:    s.prober.BaseURL(),
		OK:        ok && err == nil,
		LatencyMs: s.now().Sub(start).Milliseconds(),
		CheckedAt: start.UTC(),
	}
	if err != nil {
		res.ErrorCode, res.ErrorMessage = classify(competera.RedactError(err))
		s.log.WarnObj("probe failed", "probe_result", res)
	} else {
		s.log.InfoObj("probe succeeded", "probe_result", res)
	}

	var errs []error
	if s.recorder != nil {
		if err := s.recorder.Record(res); err != nil {
			errs = append(errs, fmt.Errorf("record probe: %w", err))
		}
	}
	if s.publisher != nil {
		delivered, err := s.publisher.Publish(ctx, publishers.NewEvent(s.name, res))
		if err != nil {
			errs = append(errs, fmt.Errorf("publish probe: %w", err))
		}
		s.log.DebugObj("probe event published", "publish_meta", map[string]any{
			"probe_id":  res.ID,
			"delivered": delivered,
		})
	}
	return res, errors.Join(errs...)
}

func classify(err error) (int, string) {
	var svcErr *apiclient.ServiceError
	if errors.As(err, &svcErr) {
		return svcErr.APIErrorCode(), svcErr.Error()
	}
	return apiclient.TransportErrorCode, err.Error()
}
