package fingerprint

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
)

var (
	captureTimeouts = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "attendance",
		Subsystem: "sensor",
		Name:      "capture_timeouts_total",
		Help:      "Number of capture attempts that hit the overall timeout",
	})

	captureDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "attendance",
		Subsystem: "sensor",
		Name:      "capture_duration_seconds",
		Help:      "Duration of capture operations",
		Buckets:   prometheus.DefBuckets,
	})

	reinitTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "attendance",
		Subsystem: "sensor",
		Name:      "reinitializations_total",
		Help:      "Number of sensor reinitializations by outcome",
	}, []string{"outcome"})
)

// Config groups sensor tuning values.
type Config struct {
	CaptureTimeout time.Duration
	PollInterval   time.Duration
	OpenRetries    int
	OpenRetryDelay time.Duration
	Logger         zerolog.Logger
}

// Sensor serializes access to a single physical reader session. Exactly one
// capture or reinitialization holds the lock at a time; blocked callers wait
// bounded by their own context. Reinitialization cancels the capture in
// flight cooperatively instead of tearing the session down under it.
type Sensor struct {
	device  Device
	cfg     Config
	lock    chan struct{}
	aborted atomic.Bool
	ready   atomic.Bool
	logger  zerolog.Logger
}

// NewSensor wraps the device session behind the single-holder lock. The
// session is opened lazily by the first Capture or explicitly by Reinitialize.
func NewSensor(device Device, cfg Config) *Sensor {
	if cfg.CaptureTimeout <= 0 {
		cfg.CaptureTimeout = 30 * time.Second
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = 200 * time.Millisecond
	}
	if cfg.OpenRetries <= 0 {
		cfg.OpenRetries = 3
	}
	if cfg.OpenRetryDelay <= 0 {
		cfg.OpenRetryDelay = time.Second
	}

	return &Sensor{
		device: device,
		cfg:    cfg,
		lock:   make(chan struct{}, 1),
		logger: cfg.Logger.With().Str("component", "sensor").Logger(),
	}
}

// Connected reports whether the session is open and the reader attached.
func (s *Sensor) Connected() bool {
	return s.ready.Load() && s.device.Connected()
}

// Capture polls the reader until a sample is produced or the capture window
// elapses. Timeout and abort are normal failure values.
func (s *Sensor) Capture(ctx context.Context) (Sample, error) {
	if err := s.acquire(ctx); err != nil {
		return Sample{}, err
	}
	defer s.release()

	if !s.ready.Load() {
		if err := s.openLocked(ctx); err != nil {
			return Sample{}, err
		}
	}

	start := time.Now()
	defer func() { captureDuration.Observe(time.Since(start).Seconds()) }()

	deadline := start.Add(s.cfg.CaptureTimeout)
	for {
		if s.aborted.Load() {
			return Sample{}, ErrCaptureAborted
		}
		if ctx.Err() != nil {
			return Sample{}, ctx.Err()
		}
		if time.Now().After(deadline) {
			captureTimeouts.Inc()
			return Sample{}, ErrCaptureTimeout
		}

		sample, ok, err := s.device.CaptureOnce(ctx)
		if err != nil {
			return Sample{}, fmt.Errorf("capture attempt: %w", err)
		}
		if ok {
			return sample, nil
		}

		select {
		case <-ctx.Done():
			return Sample{}, ctx.Err()
		case <-time.After(s.cfg.PollInterval):
		}
	}
}

// Reinitialize tears the session down and reopens it. Any capture in flight
// is asked to abort first; the lock acquisition is bounded by ctx. Open is
// retried a fixed number of times before the sensor is reported unavailable.
func (s *Sensor) Reinitialize(ctx context.Context) error {
	s.aborted.Store(true)
	err := s.acquire(ctx)
	s.aborted.Store(false)
	if err != nil {
		reinitTotal.WithLabelValues("lock_timeout").Inc()
		return fmt.Errorf("waiting for sensor lock: %w", err)
	}
	defer s.release()

	s.ready.Store(false)
	if err := s.device.Close(); err != nil {
		s.logger.Warn().Err(err).Msg("closing sensor session")
	}

	if err := s.openLocked(ctx); err != nil {
		reinitTotal.WithLabelValues("failed").Inc()
		return err
	}

	reinitTotal.WithLabelValues("ok").Inc()
	s.logger.Info().Msg("sensor session reinitialized")
	return nil
}

func (s *Sensor) acquire(ctx context.Context) error {
	select {
	case s.lock <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Sensor) release() {
	<-s.lock
}

// openLocked opens the device session with bounded retries. Callers must
// hold the lock.
func (s *Sensor) openLocked(ctx context.Context) error {
	var lastErr error
	for attempt := 1; attempt <= s.cfg.OpenRetries; attempt++ {
		if err := s.device.Open(ctx); err != nil {
			lastErr = err
			s.logger.Warn().Err(err).Int("attempt", attempt).Msg("opening sensor session")

			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(s.cfg.OpenRetryDelay):
			}
			continue
		}

		s.ready.Store(true)
		return nil
	}

	return fmt.Errorf("%w: %v", ErrDeviceUnavailable, lastErr)
}
