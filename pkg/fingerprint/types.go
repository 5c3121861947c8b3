package fingerprint

import (
	"context"
	"errors"
)

// Sample is one captured fingerprint: the opaque serialized template, an
// optional base64 PNG preview, and the middleware's quality estimate.
type Sample struct {
	Template string
	Image    string
	Quality  int
}

// Settings mirrors the matcher configuration owned by the middleware. A
// larger FAR divisor means a stricter match threshold.
type Settings struct {
	FARDivisor int `json:"far_divisor"`
	MinQuality int `json:"min_quality"`
}

// DeviceInfo describes the attached reader.
type DeviceInfo struct {
	Description  string `json:"description"`
	SerialNumber string `json:"serialNumber"`
	Connected    bool   `json:"connected"`
}

var (
	// ErrCaptureTimeout reports that no finger was presented within the
	// capture window. It is an expected outcome, not a device fault.
	ErrCaptureTimeout = errors.New("fingerprint: capture timed out")

	// ErrCaptureAborted reports that a reinitialization interrupted the
	// capture in flight.
	ErrCaptureAborted = errors.New("fingerprint: capture aborted")

	// ErrDeviceUnavailable reports that the sensor session could not be
	// (re)opened after exhausting the retry budget.
	ErrDeviceUnavailable = errors.New("fingerprint: device unavailable")
)

// Device is one raw sensor session. CaptureOnce performs a single capture
// attempt: ok=false with a nil error means no finger was presented and the
// caller should poll again.
type Device interface {
	Open(ctx context.Context) error
	Close() error
	CaptureOnce(ctx context.Context) (sample Sample, ok bool, err error)
	Connected() bool
}

// Matcher compares two serialized templates. The match threshold lives
// entirely behind this interface.
type Matcher interface {
	Match(ctx context.Context, probe, candidate string) (bool, error)
}

// Capturer produces a full capture with polling and timeout handling.
type Capturer interface {
	Capture(ctx context.Context) (Sample, error)
}
