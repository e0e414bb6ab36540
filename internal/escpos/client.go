// Package escpos talks to the backend that owns the printer command-language
// encoder. This module never builds device command sequences itself: it
// requests an opaque, base64-encoded buffer per physical copy and moves the
// bytes to a transport. The package also exposes the backend's config and
// printer-management endpoints, all of which answer with the uniform
// {success, data, message} envelope.
package escpos

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"ticketera/internal/ticket"
)

// envelope is the backend's uniform response wrapper.
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
}

// Client is an HTTP client for the ticket/config backend.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a backend client. baseURL has no trailing slash.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// generateRequest is the POST body for command-buffer generation.
type generateRequest struct {
	SaleID         int64                  `json:"saleId"`
	BusinessConfig ticket.BusinessProfile `json:"businessConfig"`
	TicketConfig   ticket.TicketConfig    `json:"ticketConfig"`
}

type generateData struct {
	Commands string `json:"commands"`
}

// Generate requests a fresh printer command buffer for a sale. The returned
// string is base64; each buffer is consumed exactly once per physical copy,
// so callers printing N copies call Generate N times.
func (c *Client) Generate(ctx context.Context, saleID int64, profile ticket.BusinessProfile, cfg ticket.TicketConfig) (string, error) {
	var data generateData
	req := generateRequest{SaleID: saleID, BusinessConfig: profile, TicketConfig: cfg}
	if err := c.post(ctx, "/ticket/print-escpos", req, &data); err != nil {
		return "", err
	}
	if data.Commands == "" {
		return "", fmt.Errorf("escpos: backend returned an empty command buffer")
	}
	return data.Commands, nil
}

// FetchBusinessProfile retrieves the current business profile.
func (c *Client) FetchBusinessProfile(ctx context.Context) (ticket.BusinessProfile, error) {
	var profile ticket.BusinessProfile
	if err := c.get(ctx, "/config/business", &profile); err != nil {
		return ticket.BusinessProfile{}, err
	}
	return profile, nil
}

// FetchTicketConfig retrieves the current ticket layout configuration.
func (c *Client) FetchTicketConfig(ctx context.Context) (ticket.TicketConfig, error) {
	var cfg ticket.TicketConfig
	if err := c.get(ctx, "/config/ticket", &cfg); err != nil {
		return ticket.TicketConfig{}, err
	}
	return cfg, nil
}

// Printer describes one printer the backend discovered on its host.
type Printer struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// PrinterState reports the backend's current printer connection.
type PrinterState struct {
	Connected   bool   `json:"connected"`
	PrinterName string `json:"printerName"`
	Type        string `json:"type"`
}

// DetectPrinters asks the backend to enumerate installed printers.
func (c *Client) DetectPrinters(ctx context.Context) ([]Printer, error) {
	var printers []Printer
	if err := c.get(ctx, "/ticket/printers/detect", &printers); err != nil {
		return nil, err
	}
	return printers, nil
}

// ConnectPrinter selects a backend printer by name.
func (c *Client) ConnectPrinter(ctx context.Context, name string) error {
	return c.post(ctx, "/ticket/printers/connect", map[string]string{"printerName": name}, nil)
}

// PrinterStatus returns the backend's printer connection state.
func (c *Client) PrinterStatus(ctx context.Context) (PrinterState, error) {
	var state PrinterState
	if err := c.get(ctx, "/ticket/printers/status", &state); err != nil {
		return PrinterState{}, err
	}
	return state, nil
}

// TestPrint asks the backend to print a test ticket on its connected printer.
func (c *Client) TestPrint(ctx context.Context) error {
	return c.post(ctx, "/ticket/printers/test", nil, nil)
}

func (c *Client) get(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("escpos: create request: %w", err)
	}
	return c.do(req, out)
}

func (c *Client) post(ctx context.Context, path string, body, out interface{}) error {
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("escpos: marshal request: %w", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("escpos: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

// do executes the request and unpacks the uniform envelope. Backend-reported
// failures surface with the backend's own message; transport faults and
// malformed envelopes get a generic wrapped error. Nothing escapes as a raw
// platform error.
func (c *Client) do(req *http.Request, out interface{}) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("escpos: backend unreachable: %w", err)
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("escpos: decode response (%d): %w", resp.StatusCode, err)
	}
	if !env.Success {
		msg := env.Message
		if msg == "" {
			msg = fmt.Sprintf("el backend respondió %d", resp.StatusCode)
		}
		return fmt.Errorf("escpos: %s", msg)
	}
	if out == nil || len(env.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("escpos: decode payload: %w", err)
	}
	return nil
}
