package dispatch

// local.go — local network relay transport.
// POSTs the base64 command buffer as JSON to a relay daemon listening on the
// operator's machine (cmd/printrelay, or any agent speaking the same
// contract). HTTP 2xx means the relay accepted and wrote the job.

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// DefaultRelayURL is where the stock relay daemon listens.
const DefaultRelayURL = "http://localhost:9100"

// RelayTransport delivers command buffers to the local print relay.
type RelayTransport struct {
	url        string
	httpClient *http.Client
}

// NewRelayTransport creates the transport. An empty url selects
// DefaultRelayURL.
func NewRelayTransport(url string) *RelayTransport {
	if url == "" {
		url = DefaultRelayURL
	}
	return &RelayTransport{
		url:        url,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

func (t *RelayTransport) Name() Method { return MethodLocal }

// relayRequest is the relay daemon's print contract.
type relayRequest struct {
	Command string `json:"command"`
}

// Send posts one buffer to the relay. No internal retries.
func (t *RelayTransport) Send(ctx context.Context, raw []byte) (Result, error) {
	body, err := json.Marshal(relayRequest{Command: base64.StdEncoding.EncodeToString(raw)})
	if err != nil {
		return Result{}, fmt.Errorf("dispatch: marshal relay request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.url, bytes.NewReader(body))
	if err != nil {
		return Result{}, fmt.Errorf("dispatch: create relay request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return Result{}, fmt.Errorf("dispatch: servidor local inaccesible: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return Result{}, fmt.Errorf("dispatch: el servidor local respondió %d", resp.StatusCode)
	}
	return Result{Message: "Enviado a impresora local"}, nil
}
