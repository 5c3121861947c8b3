package fingerprint

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

type stubDevice struct {
	mu          sync.Mutex
	openErrs    []error
	openCalls   int
	closeCalls  int
	emptyReads  int
	sample      Sample
	captureErr  error
	connected   bool
	captureGate chan struct{}
}

func (d *stubDevice) Open(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.openCalls++
	if len(d.openErrs) > 0 {
		err := d.openErrs[0]
		d.openErrs = d.openErrs[1:]
		if err != nil {
			return err
		}
	}
	d.connected = true
	return nil
}

func (d *stubDevice) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.closeCalls++
	d.connected = false
	return nil
}

func (d *stubDevice) Connected() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.connected
}

func (d *stubDevice) CaptureOnce(ctx context.Context) (Sample, bool, error) {
	if d.captureGate != nil {
		select {
		case <-d.captureGate:
		case <-ctx.Done():
			return Sample{}, false, ctx.Err()
		}
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.captureErr != nil {
		return Sample{}, false, d.captureErr
	}
	if d.emptyReads > 0 {
		d.emptyReads--
		return Sample{}, false, nil
	}
	return d.sample, true, nil
}

func newTestSensor(d Device, cfg Config) *Sensor {
	cfg.Logger = zerolog.Nop()
	if cfg.PollInterval == 0 {
		cfg.PollInterval = time.Millisecond
	}
	if cfg.OpenRetryDelay == 0 {
		cfg.OpenRetryDelay = time.Millisecond
	}
	return NewSensor(d, cfg)
}

func TestCaptureReturnsSampleAfterEmptyPolls(t *testing.T) {
	device := &stubDevice{
		emptyReads: 3,
		sample:     Sample{Template: "tpl", Quality: 87},
	}
	sensor := newTestSensor(device, Config{CaptureTimeout: time.Second})

	sample, err := sensor.Capture(context.Background())
	require.NoError(t, err)
	require.Equal(t, "tpl", sample.Template)
	require.Equal(t, 87, sample.Quality)
	require.True(t, sensor.Connected())
}

func TestCaptureTimesOutWhenNoFingerPresented(t *testing.T) {
	device := &stubDevice{emptyReads: 1 << 20}
	sensor := newTestSensor(device, Config{CaptureTimeout: 20 * time.Millisecond})

	_, err := sensor.Capture(context.Background())
	require.ErrorIs(t, err, ErrCaptureTimeout)
}

func TestCaptureWrapsDeviceErrors(t *testing.T) {
	deviceErr := errors.New("reader yanked")
	device := &stubDevice{captureErr: deviceErr}
	sensor := newTestSensor(device, Config{CaptureTimeout: time.Second})

	_, err := sensor.Capture(context.Background())
	require.ErrorIs(t, err, deviceErr)
}

func TestCaptureFailsWhenOpenKeepsFailing(t *testing.T) {
	openErr := errors.New("no reader")
	device := &stubDevice{openErrs: []error{openErr, openErr, openErr}}
	sensor := newTestSensor(device, Config{CaptureTimeout: time.Second, OpenRetries: 3})

	_, err := sensor.Capture(context.Background())
	require.ErrorIs(t, err, ErrDeviceUnavailable)
	require.Equal(t, 3, device.openCalls)
}

func TestReinitializeAbortsCaptureInFlight(t *testing.T) {
	device := &stubDevice{
		emptyReads:  1 << 20,
		captureGate: make(chan struct{}),
	}
	sensor := newTestSensor(device, Config{CaptureTimeout: 5 * time.Second})

	captureErr := make(chan error, 1)
	go func() {
		_, err := sensor.Capture(context.Background())
		captureErr <- err
	}()

	// Let the capture enter its poll loop, then reinitialize underneath it.
	device.captureGate <- struct{}{}
	close(device.captureGate)

	require.NoError(t, sensor.Reinitialize(context.Background()))
	require.ErrorIs(t, <-captureErr, ErrCaptureAborted)

	require.GreaterOrEqual(t, device.closeCalls, 1)
	require.True(t, sensor.Connected())
}

func TestReinitializeRetriesOpenThenSucceeds(t *testing.T) {
	device := &stubDevice{openErrs: []error{errors.New("busy"), nil}}
	sensor := newTestSensor(device, Config{OpenRetries: 3})

	require.NoError(t, sensor.Reinitialize(context.Background()))
	require.True(t, sensor.Connected())
	require.Equal(t, 2, device.openCalls)
}

func TestCaptureSerializesCallers(t *testing.T) {
	device := &stubDevice{sample: Sample{Template: "tpl"}}
	sensor := newTestSensor(device, Config{CaptureTimeout: time.Second})

	// A caller holding the lock blocks a second caller until its context
	// runs out.
	require.NoError(t, sensor.acquire(context.Background()))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := sensor.Capture(ctx)
	require.ErrorIs(t, err, context.DeadlineExceeded)

	sensor.release()
	sample, err := sensor.Capture(context.Background())
	require.NoError(t, err)
	require.Equal(t, "tpl", sample.Template)
}
