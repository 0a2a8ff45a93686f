package latency

import (
	"context"
	"net/http"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
)

const DefaultSampleInterval = 10 * time.Second

// Sampler measures round trips against a health endpoint on a fixed
// interval and feeds the estimator.
type Sampler struct {
	estimator *Estimator
	client    *http.Client
	url       string
	interval  time.Duration
	clock     clockwork.Clock
}

func NewSampler(estimator *Estimator, probeURL string, interval time.Duration, clock clockwork.Clock) *Sampler {
	if interval <= 0 {
		interval = DefaultSampleInterval
	}
	return &Sampler{
		estimator: estimator,
		client:    &http.Client{Timeout: 5 * time.Second},
		url:       probeURL,
		interval:  interval,
		clock:     clock,
	}
}

// Run probes until ctx is done. Failed probes are skipped rather than
// recorded, so an unreachable endpoint leaves the estimate unchanged.
func (s *Sampler) Run(ctx context.Context) {
	ticker := s.clock.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.Chan():
			s.sample(ctx)
		}
	}
}

func (s *Sampler) sample(ctx context.Context) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		log.Error().Err(err).Str("url", s.url).Msg("latency probe request failed to build")
		return
	}

	start := s.clock.Now()
	resp, err := s.client.Do(req)
	if err != nil {
		log.Debug().Err(err).Str("url", s.url).Msg("latency probe failed")
		return
	}
	resp.Body.Close()

	rtt := s.clock.Since(start)
	s.estimator.Record(rtt)

	log.Debug().
		Dur("rtt", rtt).
		Int64("estimate_ms", s.estimator.Estimate()).
		Msg("latency sample recorded")
}
