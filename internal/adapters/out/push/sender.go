// Package push delivers notification payloads to client devices through
// the push gateway's management API. The gateway owns the actual sockets;
// this adapter only posts payloads to named connections.
package push

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"foodorders/internal/core/ports"
)

// defaultTimeout bounds a single gateway call when the caller's context
// carries no deadline.
const defaultTimeout = 10 * time.Second

// GatewaySender implements NotificationSender against the push gateway's
// HTTP management API.
type GatewaySender struct {
	baseURL string
	client  *http.Client
}

// NewGatewaySender creates a sender posting to the gateway at baseURL.
func NewGatewaySender(baseURL string) *GatewaySender {
	return &GatewaySender{
		baseURL: baseURL,
		client:  &http.Client{Timeout: defaultTimeout},
	}
}

// Send posts the payload to the connection. A 410 response from the
// gateway means the connection no longer exists and maps to
// ports.ErrConnectionGone.
func (s *GatewaySender) Send(ctx context.Context, connectionID string, payload []byte) error {
	url := fmt.Sprintf("%s/connections/%s/messages", s.baseURL, connectionID)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	switch {
	case resp.StatusCode == http.StatusGone:
		return ports.ErrConnectionGone
	case resp.StatusCode >= 300:
		return fmt.Errorf("push gateway returned status %d for connection %s", resp.StatusCode, connectionID)
	default:
		return nil
	}
}
