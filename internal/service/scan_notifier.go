package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"

	"github.com/souchan25/attendance-go-api/internal/dto"
)

// ScanNotifier broadcasts scan outcomes so display boards can show them live.
// A failed broadcast never fails the scan.
type ScanNotifier interface {
	PublishScan(ctx context.Context, mode string, result dto.RecordResult)
}

type scanEvent struct {
	Source string           `json:"source"`
	Mode   string           `json:"mode"`
	Result dto.RecordResult `json:"result"`
	SentAt time.Time        `json:"sent_at"`
}

type natsScanNotifier struct {
	conn    *nats.Conn
	subject string
	nodeID  string
	logger  zerolog.Logger
}

// NewScanNotifier publishes scan outcomes on the given NATS subject. A nil
// connection yields a no-op notifier.
func NewScanNotifier(conn *nats.Conn, subject string, logger zerolog.Logger) ScanNotifier {
	if conn == nil || subject == "" {
		return nopScanNotifier{}
	}

	return &natsScanNotifier{
		conn:    conn,
		subject: subject,
		nodeID:  uuid.NewString(),
		logger:  logger.With().Str("component", "scan_notifier").Logger(),
	}
}

func (n *natsScanNotifier) PublishScan(ctx context.Context, mode string, result dto.RecordResult) {
	payload, err := json.Marshal(scanEvent{
		Source: n.nodeID,
		Mode:   mode,
		Result: result,
		SentAt: time.Now().UTC(),
	})
	if err != nil {
		n.logger.Warn().Err(err).Msg("encoding scan event")
		return
	}

	if err := n.conn.Publish(n.subject, payload); err != nil {
		n.logger.Warn().Err(err).Str("subject", n.subject).Msg("publishing scan event")
	}
}

type nopScanNotifier struct{}

func (nopScanNotifier) PublishScan(context.Context, string, dto.RecordResult) {}
